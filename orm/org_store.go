package orm

import (
	"context"

	"github.com/goodbye-jack/go-right/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// OrgStore departments / posts 两张表
type OrgStore struct {
	orm *Orm
}

func NewOrgStore(o *Orm) *OrgStore {
	return &OrgStore{orm: o}
}

func (s *OrgStore) CreateDepartment(ctx context.Context, d *model.Department) error {
	return translate(s.orm.Create(ctx, d), "departments.create")
}

func (s *OrgStore) FindDepartment(ctx context.Context, deptID int64) (*model.Department, error) {
	var d model.Department
	err := s.orm.First(ctx, &d, "dept_id = ?", deptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "departments.find")
	}
	return &d, nil
}

func (s *OrgStore) SaveDepartment(ctx context.Context, d *model.Department) error {
	return translate(s.orm.db.WithContext(ctx).Save(d).Error, "departments.save")
}

func (s *OrgStore) CreatePost(ctx context.Context, p *model.Post) error {
	return translate(s.orm.Create(ctx, p), "posts.create")
}

func (s *OrgStore) FindPost(ctx context.Context, postID int64) (*model.Post, error) {
	var p model.Post
	err := s.orm.First(ctx, &p, "post_id = ?", postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "posts.find")
	}
	return &p, nil
}

func (s *OrgStore) SavePost(ctx context.Context, p *model.Post) error {
	return translate(s.orm.db.WithContext(ctx).Save(p).Error, "posts.save")
}
