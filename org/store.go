package org

import (
	"context"

	"github.com/goodbye-jack/go-right/model"
)

// Store 部门/岗位的持久化。查不到时返回 nil, nil；主键冲突返回 errs.Duplicate。
type Store interface {
	CreateDepartment(ctx context.Context, d *model.Department) error
	FindDepartment(ctx context.Context, deptID int64) (*model.Department, error)
	SaveDepartment(ctx context.Context, d *model.Department) error

	CreatePost(ctx context.Context, p *model.Post) error
	FindPost(ctx context.Context, postID int64) (*model.Post, error)
	SavePost(ctx context.Context, p *model.Post) error
}

// IDAllocator 由 sequence.Allocator 实现
type IDAllocator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// RightsWriter 由 right.Writer 实现
type RightsWriter interface {
	SaveSubjectRights(ctx context.Context, subject model.Subject, grant, review []model.CapabilityRef, operID string) error
}

// RightsResolver 由 right.Resolver 实现
type RightsResolver interface {
	ResolveCapabilities(ctx context.Context, subject model.Subject) (*model.CapabilitySet, error)
}
