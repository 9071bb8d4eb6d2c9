package mongodb

import (
	"context"

	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogStore menus / menuBtns 集合
type CatalogStore struct {
	mongo *Mongo
}

func NewCatalogStore(m *Mongo) *CatalogStore {
	return &CatalogStore{mongo: m}
}

var (
	menuOrder = bson.D{{Key: "menuSeqId", Value: 1}, {Key: "menuId", Value: 1}}
	btnOrder  = bson.D{{Key: "btnSeqId", Value: 1}, {Key: "btnId", Value: 1}}
)

func (s *CatalogStore) ListMenus(ctx context.Context) ([]model.Menu, error) {
	menus := []model.Menu{}
	err := s.mongo.Find(ctx, utils.CollMenus, bson.M{}, &menus, options.Find().SetSort(menuOrder))
	return menus, translate(err, "menus.find")
}

func (s *CatalogStore) ListButtons(ctx context.Context) ([]model.MenuBtn, error) {
	btns := []model.MenuBtn{}
	err := s.mongo.Find(ctx, utils.CollMenuBtns, bson.M{}, &btns, options.Find().SetSort(bson.D{{Key: "btnId", Value: 1}}))
	return btns, translate(err, "menuBtns.find")
}

func (s *CatalogStore) ButtonsByMenuIDs(ctx context.Context, menuIDs []int64) ([]model.MenuBtn, error) {
	btns := []model.MenuBtn{}
	if len(menuIDs) == 0 {
		return btns, nil
	}
	err := s.mongo.Find(ctx, utils.CollMenuBtns, bson.M{"menuId": bson.M{"$in": menuIDs}}, &btns,
		options.Find().SetSort(btnOrder))
	return btns, translate(err, "menuBtns.byMenu")
}

func (s *CatalogStore) ButtonsByIDs(ctx context.Context, btnIDs []int64) ([]model.MenuBtn, error) {
	btns := []model.MenuBtn{}
	if len(btnIDs) == 0 {
		return btns, nil
	}
	err := s.mongo.Find(ctx, utils.CollMenuBtns, bson.M{"btnId": bson.M{"$in": btnIDs}}, &btns)
	return btns, translate(err, "menuBtns.byId")
}

func (s *CatalogStore) MenusByIDs(ctx context.Context, menuIDs []int64) ([]model.Menu, error) {
	menus := []model.Menu{}
	if len(menuIDs) == 0 {
		return menus, nil
	}
	err := s.mongo.Find(ctx, utils.CollMenus, bson.M{"menuId": bson.M{"$in": menuIDs}}, &menus)
	return menus, translate(err, "menus.byId")
}

func (s *CatalogStore) UpsertMenu(ctx context.Context, m *model.Menu) error {
	_, err := s.mongo.UpdateOne(ctx, utils.CollMenus, bson.M{"menuCode": m.MenuCode},
		bson.M{"$set": m}, options.Update().SetUpsert(true))
	return translate(err, "menus.upsert "+m.MenuCode)
}

func (s *CatalogStore) UpsertButton(ctx context.Context, b *model.MenuBtn) error {
	_, err := s.mongo.UpdateOne(ctx, utils.CollMenuBtns, bson.M{"btnCode": b.BtnCode},
		bson.M{"$set": b}, options.Update().SetUpsert(true))
	return translate(err, "menuBtns.upsert "+b.BtnCode)
}
