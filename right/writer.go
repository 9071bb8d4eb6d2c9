package right

import (
	"context"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
)

type Writer struct {
	store      Store
	ids        IDAllocator
	maxRetries int
	now        func() time.Time
}

type WriterOption func(*Writer)

func WithMaxRetries(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxRetries = n
		}
	}
}

func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

func NewWriter(store Store, ids IDAllocator, opts ...WriterOption) *Writer {
	w := &Writer{
		store:      store,
		ids:        ids,
		maxRetries: utils.DefaultMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EnsureRight 查找或创建 (主体, 标志位) 对应的 Right，只有新建时才分配 rightId。
// 并发创建时依赖存储上 (主体, 标志位) 的唯一索引，落败的一方读回已建成的那条。
func (w *Writer) EnsureRight(ctx context.Context, subject model.Subject, flag model.Flag, operID string) (*model.Right, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if !flag.Valid() {
		return nil, errs.Invalid("invalid flag %d", int(flag))
	}
	r, err := w.store.FindRight(ctx, subject, flag)
	if err != nil {
		return nil, errs.Storage(err, "find right "+subject.String())
	}
	if r != nil {
		return r, nil
	}
	rightID, err := w.ids.Next(ctx, utils.SeqRightID)
	if err != nil {
		return nil, err
	}
	r = model.NewRight(rightID, subject, flag, operID, w.now())
	if err := w.store.CreateRight(ctx, r); err != nil {
		if !errs.IsDuplicate(err) {
			return nil, errs.Storage(err, "create right "+subject.String())
		}
		winner, ferr := w.store.FindRight(ctx, subject, flag)
		if ferr != nil {
			return nil, errs.Storage(ferr, "find right "+subject.String())
		}
		if winner == nil {
			return nil, errs.Storage(err, "create right "+subject.String())
		}
		log.Infof("right of %s %s created concurrently, use %d, drop %d", subject, flag, winner.RightID, rightID)
		return winner, nil
	}
	log.Infof("right %d created for %s %s", rightID, subject, flag)
	return r, nil
}

// ReplaceMappings 整体替换 rightId 下的映射：删除旧映射、分配新ID、批量插入。
// 删除与插入之间不在同一事务中，期间 Right 被标记为 MappingsPending。
func (w *Writer) ReplaceMappings(ctx context.Context, rightID int64, caps []model.CapabilityRef) error {
	for _, c := range caps {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	r, err := w.store.FindRightByID(ctx, rightID)
	if err != nil {
		return errs.Storage(err, "find right")
	}
	if r == nil {
		return errs.NotFound("rightId=%d", rightID)
	}
	if err := w.store.SetMappingsPending(ctx, rightID, true); err != nil {
		return errs.Storage(err, "mark mappings pending")
	}

	refs := model.DedupeRefs(caps)
	for attempt := 1; ; attempt++ {
		err = w.replaceOnce(ctx, rightID, refs)
		if err == nil {
			break
		}
		if !errs.IsDuplicate(err) {
			return err
		}
		log.Warnf("replace mappings of right %d hit duplicate key, attempt %d/%d: %v", rightID, attempt, w.maxRetries, err)
		if attempt >= w.maxRetries {
			return errs.Exhausted("replace mappings of right %d after %d attempts", rightID, attempt)
		}
	}

	if err := w.store.SetMappingsPending(ctx, rightID, false); err != nil {
		return errs.Storage(err, "clear mappings pending")
	}
	return nil
}

func (w *Writer) replaceOnce(ctx context.Context, rightID int64, refs []model.CapabilityRef) error {
	if err := w.store.DeleteMappings(ctx, rightID); err != nil {
		return errs.Storage(err, "delete mappings")
	}
	if len(refs) == 0 {
		return nil
	}
	ids, err := w.ids.NextN(ctx, utils.SeqMappingID, len(refs))
	if err != nil {
		return err
	}
	now := w.now()
	rows := make([]model.RightMapping, 0, len(refs))
	for i, ref := range refs {
		rows = append(rows, model.RightMapping{
			ID:         ids[i],
			RightID:    rightID,
			MenuID:     ref.MenuID,
			BtnID:      ref.BtnID,
			InputTime:  now,
			UpdateTime: now,
		})
	}
	if err := w.store.InsertMappings(ctx, rows); err != nil {
		return errs.Storage(err, "insert mappings")
	}
	return nil
}

// SaveSubjectRights 部门/岗位新增或修改时保存权限，先授权后审核；nil 列表表示不改动该标志位
func (w *Writer) SaveSubjectRights(ctx context.Context, subject model.Subject, grant, review []model.CapabilityRef, operID string) error {
	steps := []struct {
		flag model.Flag
		caps []model.CapabilityRef
	}{
		{model.FlagGrant, grant},
		{model.FlagReview, review},
	}
	for _, step := range steps {
		if step.caps == nil {
			continue
		}
		r, err := w.EnsureRight(ctx, subject, step.flag, operID)
		if err != nil {
			return errors.WithMessagef(err, "save %s right of %s", step.flag, subject)
		}
		if err := w.ReplaceMappings(ctx, r.RightID, step.caps); err != nil {
			return errors.WithMessagef(err, "save %s right of %s", step.flag, subject)
		}
	}
	return nil
}

// PendingRights 上次替换映射未完成的 Right，供修复
func (w *Writer) PendingRights(ctx context.Context) ([]model.Right, error) {
	rights, err := w.store.PendingRights(ctx)
	if err != nil {
		return nil, errs.Storage(err, "list pending rights")
	}
	if rights == nil {
		rights = []model.Right{}
	}
	return rights, nil
}
