package menu

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
)

// IDAllocator 由 sequence.Allocator 实现
type IDAllocator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Catalog 菜单目录初始化：按 menuCode / btnCode 幂等地写入整份菜单文档
type Catalog struct {
	store   Store
	ids     IDAllocator
	builder *TreeBuilder
	now     func() time.Time
}

func NewCatalog(store Store, ids IDAllocator, builder *TreeBuilder) *Catalog {
	return &Catalog{store: store, ids: ids, builder: builder, now: time.Now}
}

type SyncResult struct {
	MenusCreated   int `json:"menusCreated"`
	MenusUpdated   int `json:"menusUpdated"`
	ButtonsCreated int `json:"buttonsCreated"`
	ButtonsUpdated int `json:"buttonsUpdated"`
}

// Sync 已入库的每个 menuCode / btnCode 都必须出现在文档里，否则拒绝并列出缺失的编码。
// 父节点先于子节点写入，已存在的记录保留原ID。
func (c *Catalog) Sync(ctx context.Context, roots []model.MenuSpec) (*SyncResult, error) {
	menuCodes, btnCodes := map[string]bool{}, map[string]bool{}
	if err := collectCodes(roots, menuCodes, btnCodes); err != nil {
		return nil, err
	}

	menus, err := c.store.ListMenus(ctx)
	if err != nil {
		return nil, errs.Storage(err, "list menus")
	}
	buttons, err := c.store.ListButtons(ctx)
	if err != nil {
		return nil, errs.Storage(err, "list buttons")
	}
	existingMenus := make(map[string]model.Menu, len(menus))
	var missing []string
	for _, m := range menus {
		existingMenus[m.MenuCode] = m
		if !menuCodes[m.MenuCode] {
			missing = append(missing, m.MenuCode)
		}
	}
	existingBtns := make(map[string]model.MenuBtn, len(buttons))
	for _, b := range buttons {
		existingBtns[b.BtnCode] = b
		if !btnCodes[b.BtnCode] {
			missing = append(missing, b.BtnCode)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errs.Invalid("菜单文档缺少已有编码: %s", strings.Join(missing, ","))
	}

	s := &syncer{Catalog: c, menus: existingMenus, buttons: existingBtns, result: &SyncResult{}, now: c.now()}
	for _, root := range roots {
		if err := s.syncMenu(ctx, root, nil); err != nil {
			return nil, err
		}
	}
	if c.builder != nil {
		c.builder.Invalidate(ctx)
	}
	log.Infof("menu catalog synced: %+v", *s.result)
	return s.result, nil
}

func collectCodes(specs []model.MenuSpec, menuCodes, btnCodes map[string]bool) error {
	for _, spec := range specs {
		if spec.MenuCode == "" {
			return errs.Invalid("menuCode is required")
		}
		if menuCodes[spec.MenuCode] {
			return errs.Invalid("duplicate menuCode %s", spec.MenuCode)
		}
		menuCodes[spec.MenuCode] = true
		for _, btn := range spec.Actions {
			if btn.BtnCode == "" {
				return errs.Invalid("btnCode is required under menu %s", spec.MenuCode)
			}
			if btnCodes[btn.BtnCode] {
				return errs.Invalid("duplicate btnCode %s", btn.BtnCode)
			}
			btnCodes[btn.BtnCode] = true
		}
		if err := collectCodes(spec.Children, menuCodes, btnCodes); err != nil {
			return err
		}
	}
	return nil
}

type syncer struct {
	*Catalog
	menus   map[string]model.Menu
	buttons map[string]model.MenuBtn
	result  *SyncResult
	now     time.Time
}

func (s *syncer) syncMenu(ctx context.Context, spec model.MenuSpec, parentID *int64) error {
	m, ok := s.menus[spec.MenuCode]
	if ok {
		s.result.MenusUpdated++
	} else {
		id, err := s.ids.Next(ctx, utils.SeqMenuID)
		if err != nil {
			return err
		}
		m = model.Menu{MenuID: id, MenuCode: spec.MenuCode, CreateDate: s.now}
		s.result.MenusCreated++
	}
	m.ParentID = parentID
	m.MenuName = spec.MenuName
	m.MenuSeqID = spec.MenuSeqID
	m.MenuIcon = spec.MenuIcon
	m.MenuURL = spec.MenuURL
	m.UpdateDate = s.now
	if err := s.store.UpsertMenu(ctx, &m); err != nil {
		return errs.Storage(err, "upsert menu "+spec.MenuCode)
	}

	for _, bs := range spec.Actions {
		if err := s.syncButton(ctx, bs, m); err != nil {
			return err
		}
	}
	menuID := m.MenuID
	for _, child := range spec.Children {
		if err := s.syncMenu(ctx, child, &menuID); err != nil {
			return err
		}
	}
	return nil
}

func (s *syncer) syncButton(ctx context.Context, spec model.ButtonSpec, menu model.Menu) error {
	b, ok := s.buttons[spec.BtnCode]
	if ok {
		s.result.ButtonsUpdated++
	} else {
		id, err := s.ids.Next(ctx, utils.SeqBtnID)
		if err != nil {
			return err
		}
		b = model.MenuBtn{BtnID: id, BtnCode: spec.BtnCode, CreateDate: s.now}
		s.result.ButtonsCreated++
	}
	b.BtnName = spec.BtnName
	b.BtnURL = spec.BtnURL
	b.RequestMethod = spec.RequestMethod
	if b.RequestMethod == "" {
		b.RequestMethod = utils.DefaultRequestMethod
	}
	b.BtnSeqID = spec.BtnSeqID
	b.MenuID = menu.MenuID
	b.MenuName = menu.MenuName
	b.UpdateDate = s.now
	if err := s.store.UpsertButton(ctx, &b); err != nil {
		return errs.Storage(err, "upsert button "+spec.BtnCode)
	}
	return nil
}
