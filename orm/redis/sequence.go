package redis

import (
	"context"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/utils"
)

// SequenceCounter INCRBY seq:<name>，key 不存在时从0开始
type SequenceCounter struct {
	redis *Redis
}

func NewSequenceCounter(r *Redis) *SequenceCounter {
	return &SequenceCounter{redis: r}
}

func (c *SequenceCounter) IncrBy(ctx context.Context, name string, delta int64) (int64, error) {
	v, err := c.redis.IncrBy(ctx, utils.RedisSequencePrefix+name, delta)
	if err != nil {
		return 0, errs.Storage(err, "redis incrby "+name)
	}
	return v, nil
}
