// Package org 部门与岗位的生命周期：新增时分配编号并保存权限，修改时替换权限，删除为软删除
package org

import (
	"context"
	"strings"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
)

type DepartmentInput struct {
	DeptName    string                `json:"deptName"`
	MemCode     string                `json:"memCode"`
	ParentDept  string                `json:"parentDept"`
	Remark      string                `json:"remark"`
	AuthRight   []model.CapabilityRef `json:"authRight"`
	ReviewRight []model.CapabilityRef `json:"reviewRight"`
}

type PostInput struct {
	DeptID      int64                 `json:"deptId"`
	PostName    string                `json:"postName"`
	Remark      string                `json:"remark"`
	AuthRight   []model.CapabilityRef `json:"authRight"`
	ReviewRight []model.CapabilityRef `json:"reviewRight"`
}

// DepartmentDetail 部门信息加上解析后的授权/审核集合
type DepartmentDetail struct {
	*model.Department
	*model.CapabilitySet
}

type PostDetail struct {
	*model.Post
	*model.CapabilitySet
}

type Service struct {
	store    Store
	ids      IDAllocator
	writer   RightsWriter
	resolver RightsResolver
	now      func() time.Time
}

func NewService(store Store, ids IDAllocator, writer RightsWriter, resolver RightsResolver) *Service {
	return &Service{
		store:    store,
		ids:      ids,
		writer:   writer,
		resolver: resolver,
		now:      time.Now,
	}
}

func validateRefs(lists ...[]model.CapabilityRef) error {
	for _, refs := range lists {
		for _, ref := range refs {
			if err := ref.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) department(ctx context.Context, deptID int64) (*model.Department, error) {
	if deptID <= 0 {
		return nil, errs.Invalid("invalid deptId %d", deptID)
	}
	d, err := s.store.FindDepartment(ctx, deptID)
	if err != nil {
		return nil, errs.Storage(err, "find department")
	}
	if d == nil {
		return nil, errs.NotFound("deptId=%d", deptID)
	}
	return d, nil
}

func (s *Service) activeDepartment(ctx context.Context, deptID int64) (*model.Department, error) {
	d, err := s.department(ctx, deptID)
	if err != nil {
		return nil, err
	}
	if !d.Active() {
		return nil, errs.NotFound("deptId=%d removed", deptID)
	}
	return d, nil
}

func (s *Service) post(ctx context.Context, postID int64) (*model.Post, error) {
	if postID <= 0 {
		return nil, errs.Invalid("invalid postId %d", postID)
	}
	p, err := s.store.FindPost(ctx, postID)
	if err != nil {
		return nil, errs.Storage(err, "find post")
	}
	if p == nil {
		return nil, errs.NotFound("postId=%d", postID)
	}
	return p, nil
}

func (s *Service) activePost(ctx context.Context, postID int64) (*model.Post, error) {
	p, err := s.post(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !p.Active() {
		return nil, errs.NotFound("postId=%d removed", postID)
	}
	return p, nil
}

// Exists 主体存在且未删除
func (s *Service) Exists(ctx context.Context, subject model.Subject) error {
	if err := subject.Validate(); err != nil {
		return err
	}
	var err error
	if subject.Type == model.SubjectDepartment {
		_, err = s.activeDepartment(ctx, subject.ID)
	} else {
		_, err = s.activePost(ctx, subject.ID)
	}
	return err
}

// SaveRights 只给已存在的部门/岗位保存权限
func (s *Service) SaveRights(ctx context.Context, subject model.Subject, grant, review []model.CapabilityRef, operID string) error {
	if err := validateRefs(grant, review); err != nil {
		return err
	}
	if err := s.Exists(ctx, subject); err != nil {
		return err
	}
	return s.writer.SaveSubjectRights(ctx, subject, grant, review, operID)
}

func (s *Service) AddDepartment(ctx context.Context, in DepartmentInput, operID string) (*model.Department, error) {
	if strings.TrimSpace(in.DeptName) == "" {
		return nil, errs.Invalid("deptName is empty")
	}
	if err := validateRefs(in.AuthRight, in.ReviewRight); err != nil {
		return nil, err
	}
	deptID, err := s.ids.Next(ctx, utils.SeqDeptID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	d := &model.Department{
		DeptID:        deptID,
		DeptName:      in.DeptName,
		MemCode:       in.MemCode,
		ParentDept:    in.ParentDept,
		Remark:        in.Remark,
		DeptStatus:    model.StatusActive,
		InputOperName: operID,
		InputTime:     now,
		UpdateTime:    now,
	}
	if err := s.store.CreateDepartment(ctx, d); err != nil {
		return nil, errs.Storage(err, "create department")
	}
	log.Infof("department %d(%s) created by %s", deptID, d.DeptName, operID)
	if err := s.writer.SaveSubjectRights(ctx, d.Subject(), in.AuthRight, in.ReviewRight, operID); err != nil {
		return nil, errors.WithMessagef(err, "rights of department %d", deptID)
	}
	return d, nil
}

// UpdateDepartment 权限列表为 nil 时保持原样，空列表表示清空
func (s *Service) UpdateDepartment(ctx context.Context, deptID int64, in DepartmentInput, operID string) (*model.Department, error) {
	if strings.TrimSpace(in.DeptName) == "" {
		return nil, errs.Invalid("deptName is empty")
	}
	if err := validateRefs(in.AuthRight, in.ReviewRight); err != nil {
		return nil, err
	}
	d, err := s.activeDepartment(ctx, deptID)
	if err != nil {
		return nil, err
	}
	d.DeptName = in.DeptName
	d.MemCode = in.MemCode
	d.ParentDept = in.ParentDept
	d.Remark = in.Remark
	d.UpdateOperName = operID
	d.UpdateTime = s.now()
	if err := s.store.SaveDepartment(ctx, d); err != nil {
		return nil, errs.Storage(err, "save department")
	}
	if err := s.writer.SaveSubjectRights(ctx, d.Subject(), in.AuthRight, in.ReviewRight, operID); err != nil {
		return nil, errors.WithMessagef(err, "rights of department %d", deptID)
	}
	return d, nil
}

// RemoveDepartment 软删除，权限记录保留；重复删除不报错
func (s *Service) RemoveDepartment(ctx context.Context, deptID int64, operID string) error {
	d, err := s.department(ctx, deptID)
	if err != nil {
		return err
	}
	if !d.Active() {
		return nil
	}
	d.DeptStatus = model.StatusRemoved
	d.UpdateOperName = operID
	d.UpdateTime = s.now()
	if err := s.store.SaveDepartment(ctx, d); err != nil {
		return errs.Storage(err, "remove department")
	}
	log.Infof("department %d removed by %s", deptID, operID)
	return nil
}

// DepartmentDetail 已删除的部门也能查看
func (s *Service) DepartmentDetail(ctx context.Context, deptID int64) (*DepartmentDetail, error) {
	d, err := s.department(ctx, deptID)
	if err != nil {
		return nil, err
	}
	set, err := s.resolver.ResolveCapabilities(ctx, d.Subject())
	if err != nil {
		return nil, err
	}
	return &DepartmentDetail{Department: d, CapabilitySet: set}, nil
}

// AddPost 岗位必须挂在未删除的部门下，新岗位待复核
func (s *Service) AddPost(ctx context.Context, in PostInput, operID string) (*model.Post, error) {
	if strings.TrimSpace(in.PostName) == "" {
		return nil, errs.Invalid("postName is empty")
	}
	if err := validateRefs(in.AuthRight, in.ReviewRight); err != nil {
		return nil, err
	}
	if _, err := s.activeDepartment(ctx, in.DeptID); err != nil {
		return nil, err
	}
	postID, err := s.ids.Next(ctx, utils.SeqPostID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := &model.Post{
		PostID:        postID,
		DeptID:        in.DeptID,
		PostName:      in.PostName,
		Remark:        in.Remark,
		PostStatus:    model.StatusActive,
		DrrStatus:     model.ReviewPending,
		InputOperName: operID,
		InputTime:     now,
		UpdateTime:    now,
	}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, errs.Storage(err, "create post")
	}
	log.Infof("post %d(%s) of department %d created by %s", postID, p.PostName, p.DeptID, operID)
	if err := s.writer.SaveSubjectRights(ctx, p.Subject(), in.AuthRight, in.ReviewRight, operID); err != nil {
		return nil, errors.WithMessagef(err, "rights of post %d", postID)
	}
	return p, nil
}

// UpdatePost deptId 为 0 时不换部门
func (s *Service) UpdatePost(ctx context.Context, postID int64, in PostInput, operID string) (*model.Post, error) {
	if strings.TrimSpace(in.PostName) == "" {
		return nil, errs.Invalid("postName is empty")
	}
	if err := validateRefs(in.AuthRight, in.ReviewRight); err != nil {
		return nil, err
	}
	p, err := s.activePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if in.DeptID != 0 && in.DeptID != p.DeptID {
		if _, err := s.activeDepartment(ctx, in.DeptID); err != nil {
			return nil, err
		}
		p.DeptID = in.DeptID
	}
	p.PostName = in.PostName
	p.Remark = in.Remark
	p.UpdateOperName = operID
	p.UpdateTime = s.now()
	if err := s.store.SavePost(ctx, p); err != nil {
		return nil, errs.Storage(err, "save post")
	}
	if err := s.writer.SaveSubjectRights(ctx, p.Subject(), in.AuthRight, in.ReviewRight, operID); err != nil {
		return nil, errors.WithMessagef(err, "rights of post %d", postID)
	}
	return p, nil
}

func (s *Service) RemovePost(ctx context.Context, postID int64, operID string) error {
	p, err := s.post(ctx, postID)
	if err != nil {
		return err
	}
	if !p.Active() {
		return nil
	}
	p.PostStatus = model.StatusRemoved
	p.UpdateOperName = operID
	p.UpdateTime = s.now()
	if err := s.store.SavePost(ctx, p); err != nil {
		return errs.Storage(err, "remove post")
	}
	log.Infof("post %d removed by %s", postID, operID)
	return nil
}

func (s *Service) PostDetail(ctx context.Context, postID int64) (*PostDetail, error) {
	p, err := s.post(ctx, postID)
	if err != nil {
		return nil, err
	}
	set, err := s.resolver.ResolveCapabilities(ctx, p.Subject())
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: p, CapabilitySet: set}, nil
}

// ReviewPost 待复核 -> 已复核
func (s *Service) ReviewPost(ctx context.Context, postID int64, operID string) (*model.Post, error) {
	return s.transit(ctx, postID, operID, model.ReviewApproved, model.ReviewPending)
}

// RevokePost 待复核或已复核 -> 已撤销
func (s *Service) RevokePost(ctx context.Context, postID int64, operID string) (*model.Post, error) {
	return s.transit(ctx, postID, operID, model.ReviewRevoked, model.ReviewPending, model.ReviewApproved)
}

func (s *Service) transit(ctx context.Context, postID int64, operID string, to model.ReviewStatus, from ...model.ReviewStatus) (*model.Post, error) {
	p, err := s.activePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, st := range from {
		if p.DrrStatus == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errs.Invalid("post %d is %s, cannot move to %s", postID, p.DrrStatus, to)
	}
	now := s.now()
	p.DrrStatus = to
	p.ReviewOperName = operID
	p.ReviewTime = now
	p.UpdateTime = now
	if err := s.store.SavePost(ctx, p); err != nil {
		return nil, errs.Storage(err, "save post review status")
	}
	log.Infof("post %d %s by %s", postID, to, operID)
	return p, nil
}
