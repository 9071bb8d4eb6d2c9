package orm

import (
	"context"
	"testing"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/menu"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/right"
	"github.com/goodbye-jack/go-right/sequence"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/stretchr/testify/suite"
)

type GormStoreSuite struct {
	suite.Suite
	ctx     context.Context
	orm     *Orm
	rights  *RightStore
	catalog *CatalogStore
	counter *SequenceCounter
}

func (s *GormStoreSuite) SetupTest() {
	s.ctx = context.Background()
	o, err := NewOrm(":memory:", utils.DBTypeSQLite, 200)
	s.Require().NoError(err)
	sqlDB, err := o.DB()
	s.Require().NoError(err)
	// 内存库每个连接是独立的库
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(o.Migrate())
	s.orm = o
	s.rights = NewRightStore(o)
	s.catalog = NewCatalogStore(o)
	s.counter = NewSequenceCounter(o)
}

func (s *GormStoreSuite) TearDownTest() {
	s.NoError(s.orm.Close())
}

func TestGormStoreSuite(t *testing.T) {
	suite.Run(t, new(GormStoreSuite))
}

func (s *GormStoreSuite) TestSequenceCounter() {
	v, err := s.counter.IncrBy(s.ctx, "postId", 100)
	s.Require().NoError(err)
	s.Equal(int64(100), v)
	v, err = s.counter.IncrBy(s.ctx, "postId", 100)
	s.Require().NoError(err)
	s.Equal(int64(200), v)
	v, err = s.counter.IncrBy(s.ctx, "deptId", 1)
	s.Require().NoError(err)
	s.Equal(int64(1), v)
}

func (s *GormStoreSuite) TestAllocatorOverCounter() {
	a := sequence.NewAllocator(s.counter)
	for want := int64(1); want <= 101; want++ {
		got, err := a.Next(s.ctx, "postId")
		s.Require().NoError(err)
		s.Equal(want, got)
	}
	var seq model.Sequence
	s.Require().NoError(s.orm.First(s.ctx, &seq, "name = ?", "postId"))
	s.Equal(int64(200), seq.Seq)
}

func (s *GormStoreSuite) TestRightStore() {
	now := time.Now()
	subject := model.Subject{Type: model.SubjectDepartment, ID: 7}
	s.Require().NoError(s.rights.CreateRight(s.ctx, model.NewRight(1, subject, model.FlagGrant, "admin", now)))
	s.Require().NoError(s.rights.CreateRight(s.ctx, model.NewRight(2, subject, model.FlagReview, "admin", now)))

	err := s.rights.CreateRight(s.ctx, model.NewRight(1, subject, model.FlagGrant, "admin", now))
	s.True(errs.IsDuplicate(err))
	// 同一主体同一标志位只能有一条
	err = s.rights.CreateRight(s.ctx, model.NewRight(3, subject, model.FlagGrant, "other", now))
	s.True(errs.IsDuplicate(err))
	s.Require().NoError(s.rights.CreateRight(s.ctx, model.NewRight(4, model.Subject{Type: model.SubjectPost, ID: 9}, model.FlagGrant, "admin", now)))

	r, err := s.rights.FindRight(s.ctx, subject, model.FlagReview)
	s.Require().NoError(err)
	s.Require().NotNil(r)
	s.Equal(int64(2), r.RightID)

	r, err = s.rights.FindRight(s.ctx, model.Subject{Type: model.SubjectPost, ID: 7}, model.FlagGrant)
	s.Require().NoError(err)
	s.Nil(r)

	r, err = s.rights.FindRightByID(s.ctx, 99)
	s.Require().NoError(err)
	s.Nil(r)

	s.Require().NoError(s.rights.SetMappingsPending(s.ctx, 1, true))
	pending, err := s.rights.PendingRights(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(int64(1), pending[0].RightID)

	list, err := s.rights.ListRights(s.ctx, model.SubjectDepartment, []int64{7, 8})
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *GormStoreSuite) TestOrgStore() {
	store := NewOrgStore(s.orm)
	now := time.Now()
	d := &model.Department{DeptID: 1, DeptName: "财务部", DeptStatus: model.StatusActive, InputTime: now, UpdateTime: now}
	s.Require().NoError(store.CreateDepartment(s.ctx, d))
	s.True(errs.IsDuplicate(store.CreateDepartment(s.ctx, &model.Department{DeptID: 1})))

	got, err := store.FindDepartment(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("财务部", got.DeptName)

	got.DeptStatus = model.StatusRemoved
	s.Require().NoError(store.SaveDepartment(s.ctx, got))
	got, err = store.FindDepartment(s.ctx, 1)
	s.Require().NoError(err)
	s.False(got.Active())

	missing, err := store.FindDepartment(s.ctx, 2)
	s.Require().NoError(err)
	s.Nil(missing)

	p := &model.Post{PostID: 5, DeptID: 1, PostName: "出纳", PostStatus: model.StatusActive, DrrStatus: model.ReviewPending}
	s.Require().NoError(store.CreatePost(s.ctx, p))
	p.DrrStatus = model.ReviewApproved
	s.Require().NoError(store.SavePost(s.ctx, p))
	post, err := store.FindPost(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().NotNil(post)
	s.Equal(model.ReviewApproved, post.DrrStatus)

	post, err = store.FindPost(s.ctx, 6)
	s.Require().NoError(err)
	s.Nil(post)
}

func (s *GormStoreSuite) TestMappingsDuplicateIsTranslated() {
	rows := []model.RightMapping{{ID: 1, RightID: 1, MenuID: 1, BtnID: 10}}
	s.Require().NoError(s.rights.InsertMappings(s.ctx, rows))
	err := s.rights.InsertMappings(s.ctx, []model.RightMapping{{ID: 1, RightID: 1, MenuID: 2, BtnID: 20}})
	s.True(errs.IsDuplicate(err))

	s.Require().NoError(s.rights.InsertMappings(s.ctx, []model.RightMapping{{ID: 3, RightID: 1, MenuID: 2, BtnID: 20}}))
	got, err := s.rights.ListMappings(s.ctx, []int64{1})
	s.Require().NoError(err)
	s.Len(got, 2)

	s.Require().NoError(s.rights.DeleteMappings(s.ctx, 1))
	got, err = s.rights.ListMappings(s.ctx, []int64{1})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *GormStoreSuite) TestCatalogUpsertKeepsID() {
	m := &model.Menu{MenuID: 1, MenuCode: "system", MenuName: "系统"}
	s.Require().NoError(s.catalog.UpsertMenu(s.ctx, m))
	m2 := &model.Menu{MenuID: 1, MenuCode: "system", MenuName: "系统设置"}
	s.Require().NoError(s.catalog.UpsertMenu(s.ctx, m2))

	menus, err := s.catalog.ListMenus(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(menus, 1)
	s.Equal("系统设置", menus[0].MenuName)

	s.Require().NoError(s.catalog.UpsertButton(s.ctx, &model.MenuBtn{BtnID: 9, BtnCode: "sys.view", MenuID: 1, RequestMethod: "GET"}))
	btns, err := s.catalog.ButtonsByMenuIDs(s.ctx, []int64{1})
	s.Require().NoError(err)
	s.Require().Len(btns, 1)
	s.Equal("GET", btns[0].RequestMethod)
}

// 完整流程：目录初始化 -> 保存岗位权限 -> 解析 -> 菜单树
func (s *GormStoreSuite) TestEndToEnd() {
	alloc := sequence.NewAllocator(s.counter, sequence.WithLeaseSize(10))
	builder := menu.NewTreeBuilder(s.catalog, nil)
	_, err := menu.NewCatalog(s.catalog, alloc, builder).Sync(s.ctx, []model.MenuSpec{{
		MenuCode: "system",
		Children: []model.MenuSpec{{
			MenuCode: "post",
			Actions:  []model.ButtonSpec{{BtnCode: "post.add"}, {BtnCode: "post.edit"}},
		}},
	}})
	s.Require().NoError(err)

	forest, err := builder.Tree(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(forest, 1)
	leaf := forest[0].Children[0]
	s.Require().Len(leaf.Actions, 2)

	writer := right.NewWriter(s.rights, alloc)
	resolver := right.NewResolver(s.rights, s.catalog)
	subject := model.Subject{Type: model.SubjectPost, ID: 3}
	grant := []model.CapabilityRef{
		{MenuID: leaf.MenuID, BtnID: leaf.Actions[0].BtnID},
		{MenuID: leaf.MenuID, BtnID: leaf.Actions[0].BtnID},
		{MenuID: leaf.MenuID, BtnID: leaf.Actions[1].BtnID},
	}
	s.Require().NoError(writer.SaveSubjectRights(s.ctx, subject, grant, []model.CapabilityRef{}, "admin"))
	s.Require().NoError(writer.SaveSubjectRights(s.ctx, subject, grant, []model.CapabilityRef{}, "admin"))

	set, err := resolver.ResolveCapabilities(s.ctx, subject)
	s.Require().NoError(err)
	s.Len(set.Grant, 2)
	s.Equal("post.add", set.Grant[0].BtnCode)
	s.Equal("post", set.Grant[0].MenuCode)
	s.Empty(set.Review)

	pending, err := writer.PendingRights(s.ctx)
	s.Require().NoError(err)
	s.Empty(pending)
}
