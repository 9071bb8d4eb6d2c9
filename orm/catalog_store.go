package orm

import (
	"context"

	"github.com/goodbye-jack/go-right/model"
	"gorm.io/gorm/clause"
)

// CatalogStore menus / menuBtns 两张表
type CatalogStore struct {
	orm *Orm
}

func NewCatalogStore(o *Orm) *CatalogStore {
	return &CatalogStore{orm: o}
}

func (s *CatalogStore) ListMenus(ctx context.Context) ([]model.Menu, error) {
	menus := []model.Menu{}
	err := s.orm.FindAllWithOrder(ctx, &menus, "menu_seq_id, menu_id")
	return menus, translate(err, "menus.list")
}

func (s *CatalogStore) ListButtons(ctx context.Context) ([]model.MenuBtn, error) {
	btns := []model.MenuBtn{}
	err := s.orm.FindAllWithOrder(ctx, &btns, "btn_id")
	return btns, translate(err, "menuBtns.list")
}

func (s *CatalogStore) ButtonsByMenuIDs(ctx context.Context, menuIDs []int64) ([]model.MenuBtn, error) {
	btns := []model.MenuBtn{}
	if len(menuIDs) == 0 {
		return btns, nil
	}
	err := s.orm.FindAllWithOrder(ctx, &btns, "btn_seq_id, btn_id", "menu_id IN ?", menuIDs)
	return btns, translate(err, "menuBtns.byMenu")
}

func (s *CatalogStore) ButtonsByIDs(ctx context.Context, btnIDs []int64) ([]model.MenuBtn, error) {
	btns := []model.MenuBtn{}
	if len(btnIDs) == 0 {
		return btns, nil
	}
	err := s.orm.FindAll(ctx, &btns, "btn_id IN ?", btnIDs)
	return btns, translate(err, "menuBtns.byId")
}

func (s *CatalogStore) MenusByIDs(ctx context.Context, menuIDs []int64) ([]model.Menu, error) {
	menus := []model.Menu{}
	if len(menuIDs) == 0 {
		return menus, nil
	}
	err := s.orm.FindAll(ctx, &menus, "menu_id IN ?", menuIDs)
	return menus, translate(err, "menus.byId")
}

func (s *CatalogStore) UpsertMenu(ctx context.Context, m *model.Menu) error {
	err := s.orm.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "menu_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"parent_id", "menu_name", "menu_seq_id", "menu_icon", "menu_url", "update_date"}),
	}).Create(m).Error
	return translate(err, "menus.upsert "+m.MenuCode)
}

func (s *CatalogStore) UpsertButton(ctx context.Context, b *model.MenuBtn) error {
	err := s.orm.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "btn_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"btn_name", "btn_url", "request_method", "btn_seq_id", "menu_id", "menu_name", "update_date"}),
	}).Create(b).Error
	return translate(err, "menuBtns.upsert "+b.BtnCode)
}
