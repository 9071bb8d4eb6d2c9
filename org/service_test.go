package org

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type memStore struct {
	mu    sync.Mutex
	depts map[int64]model.Department
	posts map[int64]model.Post
	err   error
}

func newMemStore() *memStore {
	return &memStore{depts: map[int64]model.Department{}, posts: map[int64]model.Post{}}
}

func (s *memStore) CreateDepartment(ctx context.Context, d *model.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.depts[d.DeptID]; ok {
		return errs.Duplicate(nil, "departments")
	}
	s.depts[d.DeptID] = *d
	return nil
}

func (s *memStore) FindDepartment(ctx context.Context, deptID int64) (*model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.depts[deptID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *memStore) SaveDepartment(ctx context.Context, d *model.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depts[d.DeptID] = *d
	return nil
}

func (s *memStore) CreatePost(ctx context.Context, p *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[p.PostID]; ok {
		return errs.Duplicate(nil, "posts")
	}
	s.posts[p.PostID] = *p
	return nil
}

func (s *memStore) FindPost(ctx context.Context, postID int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) SavePost(ctx context.Context, p *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.PostID] = *p
	return nil
}

type memIDs struct {
	seq map[string]int64
}

func (m *memIDs) Next(ctx context.Context, name string) (int64, error) {
	m.seq[name]++
	return m.seq[name], nil
}

type savedRights struct {
	subject       model.Subject
	grant, review []model.CapabilityRef
	operID        string
}

// fakeRights 记录保存过的权限，解析时原样返回
type fakeRights struct {
	saved []savedRights
	sets  map[model.Subject]*model.CapabilitySet
	err   error
}

func (f *fakeRights) SaveSubjectRights(ctx context.Context, subject model.Subject, grant, review []model.CapabilityRef, operID string) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, savedRights{subject: subject, grant: grant, review: review, operID: operID})
	return nil
}

func (f *fakeRights) ResolveCapabilities(ctx context.Context, subject model.Subject) (*model.CapabilitySet, error) {
	if set, ok := f.sets[subject]; ok {
		return set, nil
	}
	return model.NewCapabilitySet(), nil
}

type ServiceSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memStore
	ids    *memIDs
	rights *fakeRights
	svc    *Service
	now    time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.ids = &memIDs{seq: map[string]int64{}}
	s.rights = &fakeRights{sets: map[model.Subject]*model.CapabilitySet{}}
	s.svc = NewService(s.store, s.ids, s.rights, s.rights)
	s.now = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	s.svc.now = func() time.Time { return s.now }
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) addDept(name string) *model.Department {
	d, err := s.svc.AddDepartment(s.ctx, DepartmentInput{DeptName: name}, "admin")
	s.Require().NoError(err)
	return d
}

func (s *ServiceSuite) TestAddDepartmentAllocatesIDAndSavesRights() {
	grant := []model.CapabilityRef{{MenuID: 1, BtnID: 10}}
	d, err := s.svc.AddDepartment(s.ctx, DepartmentInput{DeptName: "财务部", MemCode: "0001", AuthRight: grant}, "oper-1")
	s.Require().NoError(err)
	s.Equal(int64(1), d.DeptID)
	s.Equal(model.StatusActive, d.DeptStatus)
	s.Equal("oper-1", d.InputOperName)
	s.Equal(s.now, d.InputTime)

	s.Require().Len(s.rights.saved, 1)
	s.Equal(model.Subject{Type: model.SubjectDepartment, ID: 1}, s.rights.saved[0].subject)
	s.Equal(grant, s.rights.saved[0].grant)
	s.Nil(s.rights.saved[0].review)

	second := s.addDept("人事部")
	s.Equal(int64(2), second.DeptID)
	s.Equal(int64(2), s.ids.seq["deptId"])
}

func (s *ServiceSuite) TestAddDepartmentRejectsBadInput() {
	_, err := s.svc.AddDepartment(s.ctx, DepartmentInput{DeptName: " "}, "admin")
	s.True(errs.IsInvalid(err))

	_, err = s.svc.AddDepartment(s.ctx, DepartmentInput{DeptName: "财务部", ReviewRight: []model.CapabilityRef{{MenuID: 1}}}, "admin")
	s.True(errs.IsInvalid(err))
	s.Empty(s.store.depts)
	s.Zero(s.ids.seq["deptId"])
}

func (s *ServiceSuite) TestAddDepartmentStorageFailure() {
	s.store.err = errors.New("connection reset")
	_, err := s.svc.AddDepartment(s.ctx, DepartmentInput{DeptName: "财务部"}, "admin")
	s.True(errs.IsStorage(err))
	s.Empty(s.rights.saved)
}

func (s *ServiceSuite) TestUpdateDepartment() {
	d := s.addDept("财务部")
	review := []model.CapabilityRef{{MenuID: 2, BtnID: 20}}
	s.now = s.now.Add(time.Hour)

	updated, err := s.svc.UpdateDepartment(s.ctx, d.DeptID, DepartmentInput{DeptName: "财务中心", Remark: "改名", ReviewRight: review}, "oper-2")
	s.Require().NoError(err)
	s.Equal("财务中心", updated.DeptName)
	s.Equal("oper-2", updated.UpdateOperName)
	s.Equal(s.now, updated.UpdateTime)
	s.Equal("财务中心", s.store.depts[d.DeptID].DeptName)

	last := s.rights.saved[len(s.rights.saved)-1]
	s.Nil(last.grant)
	s.Equal(review, last.review)

	_, err = s.svc.UpdateDepartment(s.ctx, 99, DepartmentInput{DeptName: "x"}, "oper-2")
	s.True(errs.IsNotFound(err))
}

func (s *ServiceSuite) TestRemoveDepartmentIsSoft() {
	d := s.addDept("财务部")
	s.Require().NoError(s.svc.RemoveDepartment(s.ctx, d.DeptID, "oper-3"))
	s.Equal(model.StatusRemoved, s.store.depts[d.DeptID].DeptStatus)
	s.Require().NoError(s.svc.RemoveDepartment(s.ctx, d.DeptID, "oper-3"))

	_, err := s.svc.UpdateDepartment(s.ctx, d.DeptID, DepartmentInput{DeptName: "x"}, "oper-3")
	s.True(errs.IsNotFound(err))
	s.True(errs.IsNotFound(s.svc.Exists(s.ctx, d.Subject())))

	detail, err := s.svc.DepartmentDetail(s.ctx, d.DeptID)
	s.Require().NoError(err)
	s.Equal(model.StatusRemoved, detail.DeptStatus)

	s.True(errs.IsNotFound(s.svc.RemoveDepartment(s.ctx, 99, "oper-3")))
	s.True(errs.IsInvalid(s.svc.RemoveDepartment(s.ctx, 0, "oper-3")))
}

func (s *ServiceSuite) TestDepartmentDetailCarriesRights() {
	d := s.addDept("财务部")
	s.rights.sets[d.Subject()] = &model.CapabilitySet{
		Grant:  []model.Capability{{MenuID: 1, BtnID: 10, BtnCode: "dept.add"}},
		Review: []model.Capability{},
	}
	detail, err := s.svc.DepartmentDetail(s.ctx, d.DeptID)
	s.Require().NoError(err)
	s.Equal("财务部", detail.DeptName)
	s.Require().Len(detail.Grant, 1)
	s.Equal("dept.add", detail.Grant[0].BtnCode)
}

func (s *ServiceSuite) TestAddPostRequiresActiveDepartment() {
	_, err := s.svc.AddPost(s.ctx, PostInput{DeptID: 5, PostName: "出纳"}, "admin")
	s.True(errs.IsNotFound(err))

	d := s.addDept("财务部")
	p, err := s.svc.AddPost(s.ctx, PostInput{DeptID: d.DeptID, PostName: "出纳", AuthRight: []model.CapabilityRef{}}, "admin")
	s.Require().NoError(err)
	s.Equal(int64(1), p.PostID)
	s.Equal(model.ReviewPending, p.DrrStatus)
	s.Equal(model.Subject{Type: model.SubjectPost, ID: 1}, s.rights.saved[len(s.rights.saved)-1].subject)

	s.Require().NoError(s.svc.RemoveDepartment(s.ctx, d.DeptID, "admin"))
	_, err = s.svc.AddPost(s.ctx, PostInput{DeptID: d.DeptID, PostName: "会计"}, "admin")
	s.True(errs.IsNotFound(err))
	s.Equal(int64(1), s.ids.seq["postId"])
}

func (s *ServiceSuite) TestUpdateAndRemovePost() {
	d1 := s.addDept("财务部")
	d2 := s.addDept("人事部")
	p, err := s.svc.AddPost(s.ctx, PostInput{DeptID: d1.DeptID, PostName: "出纳"}, "admin")
	s.Require().NoError(err)

	updated, err := s.svc.UpdatePost(s.ctx, p.PostID, PostInput{DeptID: d2.DeptID, PostName: "专员"}, "oper-4")
	s.Require().NoError(err)
	s.Equal(d2.DeptID, updated.DeptID)
	s.Equal("专员", s.store.posts[p.PostID].PostName)

	_, err = s.svc.UpdatePost(s.ctx, p.PostID, PostInput{DeptID: 77, PostName: "专员"}, "oper-4")
	s.True(errs.IsNotFound(err))

	s.Require().NoError(s.svc.RemovePost(s.ctx, p.PostID, "oper-4"))
	s.Equal(model.StatusRemoved, s.store.posts[p.PostID].PostStatus)
	_, err = s.svc.UpdatePost(s.ctx, p.PostID, PostInput{PostName: "专员"}, "oper-4")
	s.True(errs.IsNotFound(err))

	detail, err := s.svc.PostDetail(s.ctx, p.PostID)
	s.Require().NoError(err)
	s.Equal(model.StatusRemoved, detail.PostStatus)
	s.NotNil(detail.Grant)
}

func (s *ServiceSuite) TestReviewAndRevokePost() {
	d := s.addDept("财务部")
	p, err := s.svc.AddPost(s.ctx, PostInput{DeptID: d.DeptID, PostName: "出纳"}, "admin")
	s.Require().NoError(err)

	reviewed, err := s.svc.ReviewPost(s.ctx, p.PostID, "checker")
	s.Require().NoError(err)
	s.Equal(model.ReviewApproved, reviewed.DrrStatus)
	s.Equal("checker", reviewed.ReviewOperName)
	s.Equal(s.now, reviewed.ReviewTime)

	_, err = s.svc.ReviewPost(s.ctx, p.PostID, "checker")
	s.True(errs.IsInvalid(err))

	revoked, err := s.svc.RevokePost(s.ctx, p.PostID, "checker")
	s.Require().NoError(err)
	s.Equal(model.ReviewRevoked, revoked.DrrStatus)
	s.Equal(model.ReviewRevoked, s.store.posts[p.PostID].DrrStatus)

	_, err = s.svc.RevokePost(s.ctx, p.PostID, "checker")
	s.True(errs.IsInvalid(err))
	_, err = s.svc.ReviewPost(s.ctx, 404, "checker")
	s.True(errs.IsNotFound(err))
}

func (s *ServiceSuite) TestSaveRightsRequiresExistingSubject() {
	grant := []model.CapabilityRef{{MenuID: 1, BtnID: 10}}
	err := s.svc.SaveRights(s.ctx, model.Subject{Type: model.SubjectPost, ID: 3}, grant, nil, "admin")
	s.True(errs.IsNotFound(err))
	s.Empty(s.rights.saved)

	err = s.svc.SaveRights(s.ctx, model.Subject{Type: 9, ID: 3}, grant, nil, "admin")
	s.True(errs.IsInvalid(err))

	d := s.addDept("财务部")
	s.Require().NoError(s.svc.SaveRights(s.ctx, d.Subject(), grant, nil, "admin"))
	s.Equal(grant, s.rights.saved[len(s.rights.saved)-1].grant)
}

func (s *ServiceSuite) TestRightsFailureSurfaces() {
	d := s.addDept("财务部")
	s.rights.err = errs.Exhausted("replace mappings of right %d after %d attempts", 1, 3)
	_, err := s.svc.UpdateDepartment(s.ctx, d.DeptID, DepartmentInput{DeptName: "财务部", AuthRight: []model.CapabilityRef{{MenuID: 1, BtnID: 10}}}, "admin")
	s.True(errs.IsExhausted(err))
}
