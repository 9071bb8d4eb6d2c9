package right

import (
	"context"

	"github.com/goodbye-jack/go-right/model"
)

// Store Right / RightMapping 的持久化。查不到时返回 nil, nil。
// 唯一键冲突须返回 errs.Duplicate，其余失败返回 errs.Storage。
type Store interface {
	FindRight(ctx context.Context, subject model.Subject, flag model.Flag) (*model.Right, error)
	FindRightByID(ctx context.Context, rightID int64) (*model.Right, error)
	CreateRight(ctx context.Context, r *model.Right) error
	SetMappingsPending(ctx context.Context, rightID int64, pending bool) error
	// ListRights 按主体类型和主体ID集合查询，按 rightId 升序
	ListRights(ctx context.Context, subjectType model.SubjectType, subjectIDs []int64) ([]model.Right, error)
	PendingRights(ctx context.Context) ([]model.Right, error)

	DeleteMappings(ctx context.Context, rightID int64) error
	InsertMappings(ctx context.Context, rows []model.RightMapping) error
	// ListMappings 按 id 升序
	ListMappings(ctx context.Context, rightIDs []int64) ([]model.RightMapping, error)
}

// Catalog 解析权限时用到的菜单/按钮查询
type Catalog interface {
	ButtonsByIDs(ctx context.Context, btnIDs []int64) ([]model.MenuBtn, error)
	MenusByIDs(ctx context.Context, menuIDs []int64) ([]model.Menu, error)
}

// IDAllocator 由 sequence.Allocator 实现
type IDAllocator interface {
	Next(ctx context.Context, name string) (int64, error)
	NextN(ctx context.Context, name string, n int) ([]int64, error)
}
