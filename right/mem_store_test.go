package right

import (
	"context"
	"sort"
	"sync"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/model"
	"github.com/pkg/errors"
)

// memStore 测试用的内存实现，同时实现 Store 和 Catalog
type memStore struct {
	mu       sync.Mutex
	rights   map[int64]*model.Right
	mappings map[int64]model.RightMapping
	menus    map[int64]model.Menu
	buttons  map[int64]model.MenuBtn

	// dupInserts 前 N 次 InsertMappings 返回唯一键冲突
	dupInserts int
	insertErr  error
	inserts    int
	deletes    int
	// afterFind FindRight 返回前调用，用来让并发的调用方在同一点汇合
	afterFind func()
}

func newMemStore() *memStore {
	return &memStore{
		rights:   map[int64]*model.Right{},
		mappings: map[int64]model.RightMapping{},
		menus:    map[int64]model.Menu{},
		buttons:  map[int64]model.MenuBtn{},
	}
}

func (s *memStore) addMenu(id int64, code string) {
	s.menus[id] = model.Menu{MenuID: id, MenuCode: code, MenuName: code}
}

func (s *memStore) addButton(id, menuID int64, code string) {
	s.buttons[id] = model.MenuBtn{BtnID: id, MenuID: menuID, BtnCode: code, BtnName: code}
}

func (s *memStore) FindRight(ctx context.Context, subject model.Subject, flag model.Flag) (*model.Right, error) {
	r := s.findRight(subject, flag)
	if s.afterFind != nil {
		s.afterFind()
	}
	return r, nil
}

func (s *memStore) findRight(subject model.Subject, flag model.Flag) *model.Right {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0)
	for id := range s.rights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r := s.rights[id]
		if r.Subject() == subject && r.Has(flag) {
			cp := *r
			return &cp
		}
	}
	return nil
}

func (s *memStore) FindRightByID(ctx context.Context, rightID int64) (*model.Right, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rights[rightID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) CreateRight(ctx context.Context, r *model.Right) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rights[r.RightID]; ok {
		return errs.Duplicate(nil, "rights")
	}
	for _, old := range s.rights {
		if old.Subject() == r.Subject() && old.AuthRightFlag == r.AuthRightFlag && old.ReviewRightFlag == r.ReviewRightFlag {
			return errs.Duplicate(nil, "rights.subject_flag")
		}
	}
	cp := *r
	s.rights[r.RightID] = &cp
	return nil
}

func (s *memStore) SetMappingsPending(ctx context.Context, rightID int64, pending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rights[rightID]; ok {
		r.MappingsPending = pending
	}
	return nil
}

func (s *memStore) ListRights(ctx context.Context, subjectType model.SubjectType, subjectIDs []int64) ([]model.Right, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range subjectIDs {
		want[id] = true
	}
	var ans []model.Right
	for _, r := range s.rights {
		if r.RightType == subjectType && want[r.AuthID] {
			ans = append(ans, *r)
		}
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i].RightID < ans[j].RightID })
	return ans, nil
}

func (s *memStore) PendingRights(ctx context.Context) ([]model.Right, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ans []model.Right
	for _, r := range s.rights {
		if r.MappingsPending {
			ans = append(ans, *r)
		}
	}
	return ans, nil
}

func (s *memStore) DeleteMappings(ctx context.Context, rightID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	for id, m := range s.mappings {
		if m.RightID == rightID {
			delete(s.mappings, id)
		}
	}
	return nil
}

func (s *memStore) InsertMappings(ctx context.Context, rows []model.RightMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	if s.dupInserts > 0 {
		s.dupInserts--
		return errs.Duplicate(errors.New("E11000 duplicate key error"), "rightMappings")
	}
	for _, row := range rows {
		if _, ok := s.mappings[row.ID]; ok {
			return errs.Duplicate(nil, "rightMappings")
		}
	}
	for _, row := range rows {
		s.mappings[row.ID] = row
	}
	return nil
}

func (s *memStore) ListMappings(ctx context.Context, rightIDs []int64) ([]model.RightMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range rightIDs {
		want[id] = true
	}
	var ans []model.RightMapping
	for _, m := range s.mappings {
		if want[m.RightID] {
			ans = append(ans, m)
		}
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i].ID < ans[j].ID })
	return ans, nil
}

func (s *memStore) ButtonsByIDs(ctx context.Context, btnIDs []int64) ([]model.MenuBtn, error) {
	var ans []model.MenuBtn
	for _, id := range btnIDs {
		if b, ok := s.buttons[id]; ok {
			ans = append(ans, b)
		}
	}
	return ans, nil
}

func (s *memStore) MenusByIDs(ctx context.Context, menuIDs []int64) ([]model.Menu, error) {
	var ans []model.Menu
	for _, id := range menuIDs {
		if m, ok := s.menus[id]; ok {
			ans = append(ans, m)
		}
	}
	return ans, nil
}

// memCounter sequence.Counter 的内存实现
type memCounter struct {
	mu  sync.Mutex
	seq map[string]int64
}

func (c *memCounter) IncrBy(ctx context.Context, name string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == nil {
		c.seq = map[string]int64{}
	}
	c.seq[name] += delta
	return c.seq[name], nil
}
