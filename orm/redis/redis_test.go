package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/sequence"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = r.Close() })
	return mr, r
}

func TestSequenceCounterBacksAllocator(t *testing.T) {
	mr, r := newTestRedis(t)
	a := sequence.NewAllocator(NewSequenceCounter(r))
	ctx := context.Background()

	for want := int64(1); want <= 101; want++ {
		got, err := a.Next(ctx, "postId")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	v, err := mr.Get("seq:postId")
	require.NoError(t, err)
	assert.Equal(t, "200", v)
}

func TestSequenceCounterStorageError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer r.Close()
	mr.Close()
	_, err = NewSequenceCounter(r).IncrBy(context.Background(), "id", 100)
	assert.True(t, errs.IsStorage(err))
}

func TestTreeCacheRoundTrip(t *testing.T) {
	mr, r := newTestRedis(t)
	cache := NewTreeCache(r, time.Minute)
	ctx := context.Background()

	forest, err := cache.GetTree(ctx)
	require.NoError(t, err)
	assert.Nil(t, forest)

	parent := int64(1)
	in := []*model.MenuNode{{
		MenuID:   1,
		MenuCode: "system",
		Children: []*model.MenuNode{{
			MenuID:   2,
			MenuCode: "dept",
			ParentID: &parent,
			Actions:  []model.MenuAction{{BtnID: 9, BtnCode: "dept.add", RequestMethod: "POST"}},
		}},
	}}
	require.NoError(t, cache.SetTree(ctx, in))
	assert.Equal(t, time.Minute, mr.TTL("menu_tree"))

	out, err := cache.GetTree(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Actions)
	require.Len(t, out[0].Children, 1)
	leaf := out[0].Children[0]
	assert.Equal(t, int64(1), *leaf.ParentID)
	require.Len(t, leaf.Actions, 1)
	assert.Equal(t, int64(9), leaf.Actions[0].BtnID)

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists("menu_tree"))
}
