package orm

import (
	"context"
	"time"

	"github.com/goodbye-jack/go-right/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RightStore rights / rightMappings 两张表
type RightStore struct {
	orm *Orm
}

func NewRightStore(o *Orm) *RightStore {
	return &RightStore{orm: o}
}

func flagColumn(flag model.Flag) string {
	if flag == model.FlagGrant {
		return "auth_right_flag"
	}
	return "review_right_flag"
}

func (s *RightStore) FindRight(ctx context.Context, subject model.Subject, flag model.Flag) (*model.Right, error) {
	var r model.Right
	err := s.orm.db.WithContext(ctx).
		Where("right_type = ? AND auth_id = ? AND "+flagColumn(flag)+" = 1", subject.Type, subject.ID).
		Order("right_id").First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "rights.find")
	}
	return &r, nil
}

func (s *RightStore) FindRightByID(ctx context.Context, rightID int64) (*model.Right, error) {
	var r model.Right
	err := s.orm.First(ctx, &r, "right_id = ?", rightID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "rights.findById")
	}
	return &r, nil
}

func (s *RightStore) CreateRight(ctx context.Context, r *model.Right) error {
	return translate(s.orm.Create(ctx, r), "rights.create")
}

func (s *RightStore) SetMappingsPending(ctx context.Context, rightID int64, pending bool) error {
	err := s.orm.db.WithContext(ctx).Model(&model.Right{}).Where("right_id = ?", rightID).
		Updates(map[string]interface{}{"mappings_pending": pending, "update_time": time.Now()}).Error
	return translate(err, "rights.setPending")
}

func (s *RightStore) ListRights(ctx context.Context, subjectType model.SubjectType, subjectIDs []int64) ([]model.Right, error) {
	rights := []model.Right{}
	if len(subjectIDs) == 0 {
		return rights, nil
	}
	err := s.orm.FindAllWithOrder(ctx, &rights, "right_id", "right_type = ? AND auth_id IN ?", subjectType, subjectIDs)
	return rights, translate(err, "rights.list")
}

func (s *RightStore) PendingRights(ctx context.Context) ([]model.Right, error) {
	rights := []model.Right{}
	err := s.orm.FindAllWithOrder(ctx, &rights, "right_id", "mappings_pending = ?", true)
	return rights, translate(err, "rights.pending")
}

func (s *RightStore) DeleteMappings(ctx context.Context, rightID int64) error {
	err := s.orm.db.WithContext(ctx).Where("right_id = ?", rightID).Delete(&model.RightMapping{}).Error
	return translate(err, "rightMappings.delete")
}

func (s *RightStore) InsertMappings(ctx context.Context, rows []model.RightMapping) error {
	if len(rows) == 0 {
		return nil
	}
	return translate(s.orm.db.WithContext(ctx).Create(&rows).Error, "rightMappings.insertMany")
}

func (s *RightStore) ListMappings(ctx context.Context, rightIDs []int64) ([]model.RightMapping, error) {
	rows := []model.RightMapping{}
	if len(rightIDs) == 0 {
		return rows, nil
	}
	err := s.orm.FindAllWithOrder(ctx, &rows, "id", "right_id IN ?", rightIDs)
	return rows, translate(err, "rightMappings.list")
}
