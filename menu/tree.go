package menu

import (
	"context"
	"sort"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/model"
)

// Store 菜单/按钮的持久化
type Store interface {
	ListMenus(ctx context.Context) ([]model.Menu, error)
	ListButtons(ctx context.Context) ([]model.MenuBtn, error)
	ButtonsByMenuIDs(ctx context.Context, menuIDs []int64) ([]model.MenuBtn, error)
	UpsertMenu(ctx context.Context, m *model.Menu) error
	UpsertButton(ctx context.Context, b *model.MenuBtn) error
}

// Cache 整棵菜单树的缓存，未命中时返回 nil, nil
type Cache interface {
	GetTree(ctx context.Context) ([]*model.MenuNode, error)
	SetTree(ctx context.Context, forest []*model.MenuNode) error
	Invalidate(ctx context.Context) error
}

// BuildTree 把扁平菜单列表组装成森林，子节点保持输入顺序，父节点不存在的节点丢弃
func BuildTree(menus []model.Menu) []*model.MenuNode {
	nodes := make(map[int64]*model.MenuNode, len(menus))
	for _, m := range menus {
		nodes[m.MenuID] = model.NewMenuNode(m)
	}
	roots := []*model.MenuNode{}
	for _, m := range menus {
		node := nodes[m.MenuID]
		if m.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*m.ParentID]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

type TreeBuilder struct {
	store Store
	cache Cache
}

func NewTreeBuilder(store Store, cache Cache) *TreeBuilder {
	return &TreeBuilder{store: store, cache: cache}
}

// AttachLeafButtons 给每个叶子节点挂上按钮，只查一次库；非叶子节点不挂
func (b *TreeBuilder) AttachLeafButtons(ctx context.Context, forest []*model.MenuNode) ([]*model.MenuNode, error) {
	var leaves []*model.MenuNode
	var walk func(nodes []*model.MenuNode)
	walk = func(nodes []*model.MenuNode) {
		for _, n := range nodes {
			if n.IsLeaf() {
				leaves = append(leaves, n)
				continue
			}
			n.Actions = nil
			walk(n.Children)
		}
	}
	walk(forest)
	if len(leaves) == 0 {
		return forest, nil
	}

	ids := make([]int64, 0, len(leaves))
	for _, n := range leaves {
		ids = append(ids, n.MenuID)
	}
	buttons, err := b.store.ButtonsByMenuIDs(ctx, ids)
	if err != nil {
		return nil, errs.Storage(err, "list leaf buttons")
	}
	sort.SliceStable(buttons, func(i, j int) bool {
		if buttons[i].BtnSeqID != buttons[j].BtnSeqID {
			return buttons[i].BtnSeqID < buttons[j].BtnSeqID
		}
		return buttons[i].BtnID < buttons[j].BtnID
	})
	byMenu := make(map[int64][]model.MenuAction, len(leaves))
	for _, btn := range buttons {
		byMenu[btn.MenuID] = append(byMenu[btn.MenuID], model.NewMenuAction(btn))
	}
	for _, n := range leaves {
		n.Actions = byMenu[n.MenuID]
		if n.Actions == nil {
			n.Actions = []model.MenuAction{}
		}
	}
	return forest, nil
}

// Tree 完整菜单树：查全部菜单、组树、挂按钮；配置了缓存时优先读缓存
func (b *TreeBuilder) Tree(ctx context.Context) ([]*model.MenuNode, error) {
	if b.cache != nil {
		forest, err := b.cache.GetTree(ctx)
		if err != nil {
			log.Warnf("read menu tree cache failed: %v", err)
		} else if forest != nil {
			return forest, nil
		}
	}
	menus, err := b.store.ListMenus(ctx)
	if err != nil {
		return nil, errs.Storage(err, "list menus")
	}
	sort.SliceStable(menus, func(i, j int) bool {
		if menus[i].MenuSeqID != menus[j].MenuSeqID {
			return menus[i].MenuSeqID < menus[j].MenuSeqID
		}
		return menus[i].MenuID < menus[j].MenuID
	})
	forest, err := b.AttachLeafButtons(ctx, BuildTree(menus))
	if err != nil {
		return nil, err
	}
	if b.cache != nil {
		if err := b.cache.SetTree(ctx, forest); err != nil {
			log.Warnf("write menu tree cache failed: %v", err)
		}
	}
	return forest, nil
}

// Invalidate 菜单变更后清理缓存
func (b *TreeBuilder) Invalidate(ctx context.Context) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Invalidate(ctx); err != nil {
		log.Warnf("invalidate menu tree cache failed: %v", err)
	}
}
