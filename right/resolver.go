package right

import (
	"context"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/model"
)

type Resolver struct {
	store   Store
	catalog Catalog
}

func NewResolver(store Store, catalog Catalog) *Resolver {
	return &Resolver{store: store, catalog: catalog}
}

// ResolveCapabilities 还原一个主体的授权集合与审核集合
func (r *Resolver) ResolveCapabilities(ctx context.Context, subject model.Subject) (*model.CapabilitySet, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	return r.resolve(ctx, subject.Type, []int64{subject.ID})
}

// ResolveCapabilitiesForMany 多个同类主体的并集
func (r *Resolver) ResolveCapabilitiesForMany(ctx context.Context, subjectType model.SubjectType, subjectIDs []int64) (*model.CapabilitySet, error) {
	if !subjectType.Valid() {
		return nil, errs.Invalid("invalid subject type %d", int(subjectType))
	}
	if len(subjectIDs) == 0 {
		return model.NewCapabilitySet(), nil
	}
	return r.resolve(ctx, subjectType, subjectIDs)
}

func (r *Resolver) resolve(ctx context.Context, subjectType model.SubjectType, subjectIDs []int64) (*model.CapabilitySet, error) {
	set := model.NewCapabilitySet()
	rights, err := r.store.ListRights(ctx, subjectType, subjectIDs)
	if err != nil {
		return nil, errs.Storage(err, "list rights")
	}
	// 按标志位显式分组，同时带两个标志的 Right 两边都算
	flagsOf := make(map[int64][]model.Flag, len(rights))
	rightIDs := make([]int64, 0, len(rights))
	for _, rt := range rights {
		var flags []model.Flag
		for _, f := range []model.Flag{model.FlagGrant, model.FlagReview} {
			if rt.Has(f) {
				flags = append(flags, f)
			}
		}
		if len(flags) == 0 {
			continue
		}
		if _, seen := flagsOf[rt.RightID]; !seen {
			rightIDs = append(rightIDs, rt.RightID)
		}
		flagsOf[rt.RightID] = flags
	}
	if len(rightIDs) == 0 {
		return set, nil
	}

	mappings, err := r.store.ListMappings(ctx, rightIDs)
	if err != nil {
		return nil, errs.Storage(err, "list mappings")
	}
	if len(mappings) == 0 {
		return set, nil
	}

	buttons, err := r.catalog.ButtonsByIDs(ctx, collectBtnIDs(mappings))
	if err != nil {
		return nil, errs.Storage(err, "list buttons")
	}
	// 菜单以按钮当前所属的菜单为准，映射里记录的 menuId 可能已过时
	btnByID := make(map[int64]model.MenuBtn, len(buttons))
	menuIDs := make([]int64, 0, len(buttons))
	menuSeen := map[int64]bool{}
	for _, b := range buttons {
		btnByID[b.BtnID] = b
		if !menuSeen[b.MenuID] {
			menuSeen[b.MenuID] = true
			menuIDs = append(menuIDs, b.MenuID)
		}
	}
	menus, err := r.catalog.MenusByIDs(ctx, menuIDs)
	if err != nil {
		return nil, errs.Storage(err, "list menus")
	}
	menuByID := make(map[int64]model.Menu, len(menus))
	for _, m := range menus {
		menuByID[m.MenuID] = m
	}

	seen := map[model.Flag]map[model.CapabilityKey]bool{
		model.FlagGrant:  {},
		model.FlagReview: {},
	}
	for _, mp := range mappings {
		btn, ok := btnByID[mp.BtnID]
		if !ok {
			// 按钮已删除
			continue
		}
		c := model.Capability{
			MenuID:   btn.MenuID,
			BtnID:    btn.BtnID,
			BtnCode:  btn.BtnCode,
			BtnName:  btn.BtnName,
			MenuName: btn.MenuName,
		}
		if m, ok := menuByID[btn.MenuID]; ok {
			c.MenuCode = m.MenuCode
			c.MenuName = m.MenuName
		}
		for _, f := range flagsOf[mp.RightID] {
			if seen[f][c.Key()] {
				continue
			}
			seen[f][c.Key()] = true
			if f == model.FlagGrant {
				set.Grant = append(set.Grant, c)
			} else {
				set.Review = append(set.Review, c)
			}
		}
	}
	return set, nil
}

func collectBtnIDs(mappings []model.RightMapping) []int64 {
	seen := map[int64]bool{}
	btnIDs := make([]int64, 0, len(mappings))
	for _, mp := range mappings {
		if !seen[mp.BtnID] {
			seen[mp.BtnID] = true
			btnIDs = append(btnIDs, mp.BtnID)
		}
	}
	return btnIDs
}
