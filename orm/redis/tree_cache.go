package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/model"
	"github.com/goodbye-jack/go-right/utils"
)

// TreeCache 整棵菜单树序列化后存在 menu_tree 下
type TreeCache struct {
	redis *Redis
	ttl   time.Duration
}

func NewTreeCache(r *Redis, ttl time.Duration) *TreeCache {
	if ttl <= 0 {
		ttl = utils.DefaultMenuCacheTTL
	}
	return &TreeCache{redis: r, ttl: ttl}
}

func (c *TreeCache) GetTree(ctx context.Context) ([]*model.MenuNode, error) {
	raw, err := c.redis.Get(ctx, utils.RedisKeyMenuTree)
	if IsNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage(err, "redis get menu tree")
	}
	forest := []*model.MenuNode{}
	if err := json.Unmarshal([]byte(raw), &forest); err != nil {
		return nil, errs.Storage(err, "decode menu tree")
	}
	return forest, nil
}

func (c *TreeCache) SetTree(ctx context.Context, forest []*model.MenuNode) error {
	raw, err := json.Marshal(forest)
	if err != nil {
		return err
	}
	return errs.Storage(c.redis.Set(ctx, utils.RedisKeyMenuTree, raw, c.ttl), "redis set menu tree")
}

func (c *TreeCache) Invalidate(ctx context.Context) error {
	_, err := c.redis.Del(ctx, utils.RedisKeyMenuTree)
	return errs.Storage(err, "redis del menu tree")
}
