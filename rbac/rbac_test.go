package rbac

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	sets  map[model.Subject]*model.CapabilitySet
	calls int
	err   error
}

func (f *fakeResolver) ResolveCapabilities(ctx context.Context, subject model.Subject) (*model.CapabilitySet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if set, ok := f.sets[subject]; ok {
		return set, nil
	}
	return model.NewCapabilitySet(), nil
}

var post3 = model.Subject{Type: model.SubjectPost, ID: 3}

func TestEnforceResolvesOnce(t *testing.T) {
	resolver := &fakeResolver{sets: map[model.Subject]*model.CapabilitySet{
		post3: {
			Grant:  []model.Capability{{MenuID: 1, BtnID: 10}},
			Review: []model.Capability{{MenuID: 2, BtnID: 9}},
		},
	}}
	e, err := NewEnforcer(resolver, nil)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := e.Enforce(ctx, Req{Subject: post3, MenuID: 1, BtnID: 10, Flag: model.FlagGrant})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Enforce(ctx, Req{Subject: post3, MenuID: 1, BtnID: 10, Flag: model.FlagReview})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Enforce(ctx, Req{Subject: post3, MenuID: 2, BtnID: 9, Flag: model.FlagReview})
	require.NoError(t, err)
	assert.True(t, ok)

	// 部门 3 与岗位 3 互不影响
	ok, err = e.Enforce(ctx, Req{Subject: model.Subject{Type: model.SubjectDepartment, ID: 3}, MenuID: 1, BtnID: 10, Flag: model.FlagGrant})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 2, resolver.calls)
}

func TestForgetReloads(t *testing.T) {
	resolver := &fakeResolver{sets: map[model.Subject]*model.CapabilitySet{
		post3: {Grant: []model.Capability{{MenuID: 1, BtnID: 10}}},
	}}
	e, err := NewEnforcer(resolver, nil)
	require.NoError(t, err)
	ctx := context.Background()
	req := Req{Subject: post3, MenuID: 1, BtnID: 10, Flag: model.FlagGrant}

	ok, err := e.Enforce(ctx, req)
	require.NoError(t, err)
	assert.True(t, ok)

	resolver.sets[post3] = model.NewCapabilitySet()
	e.Forget(post3)

	ok, err = e.Enforce(ctx, req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, resolver.calls)
}

func TestEnforceInvalid(t *testing.T) {
	e, err := NewEnforcer(&fakeResolver{}, nil)
	require.NoError(t, err)

	_, err = e.Enforce(context.Background(), Req{Subject: model.Subject{Type: 7, ID: 1}, MenuID: 1, BtnID: 1, Flag: model.FlagGrant})
	assert.True(t, errs.IsInvalid(err))

	_, err = e.Enforce(context.Background(), Req{Subject: post3, MenuID: 1, BtnID: 1, Flag: 0})
	assert.True(t, errs.IsInvalid(err))
}

func TestEnforceResolverFailure(t *testing.T) {
	e, err := NewEnforcer(&fakeResolver{err: errs.Storage(assert.AnError, "find rights")}, nil)
	require.NoError(t, err)

	_, err = e.Enforce(context.Background(), Req{Subject: post3, MenuID: 1, BtnID: 10, Flag: model.FlagGrant})
	assert.True(t, errs.IsStorage(err))
}

func TestRedisEnforcerSharesPolicies(t *testing.T) {
	mr := miniredis.RunT(t)
	e, err := NewRedisEnforcer(nil, mr.Addr())
	require.NoError(t, err)
	require.NoError(t, e.LoadSubject(post3, &model.CapabilitySet{
		Grant: []model.Capability{{MenuID: 1, BtnID: 10}},
	}))

	other, err := NewRedisEnforcer(nil, mr.Addr())
	require.NoError(t, err)
	ok, err := other.Enforce(context.Background(), Req{Subject: post3, MenuID: 1, BtnID: 10, Flag: model.FlagGrant})
	require.NoError(t, err)
	assert.True(t, ok)
}
