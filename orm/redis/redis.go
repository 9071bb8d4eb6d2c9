package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/orm/dbconfig"
	"github.com/goodbye-jack/go-right/utils"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis Redis客户端封装（对齐ORM结构）
type Redis struct {
	client *redis.Client
}

// NewRedis 由 databases.redis.<instance> 段落建立连接
func NewRedis(cfg *dbconfig.Config) (*Redis, error) {
	if cfg.DBType != DBType {
		return nil, errors.Errorf("unsupported db type: %s, expected: %s", cfg.DBType, DBType)
	}
	dsn := cfg.GenDSN()
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		// 解析失败时手动构建
		log.Warnf("解析Redis DSN失败 %v，手动构建连接配置", err)
		opt = &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password:     cfg.Password,
			DB:           cfg.DBIndex,
			DialTimeout:  cfg.ConnectTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
	}
	if cfg.MaxPoolSize > 0 {
		opt.PoolSize = cfg.MaxPoolSize
	}
	if cfg.MinPoolSize > 0 {
		opt.MinIdleConns = cfg.MinPoolSize
	}
	client := redis.NewClient(opt)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = utils.DefaultRedisConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "Redis Ping失败 | 连接地址：%s", opt.Addr)
	}
	log.Infof("Redis初始化成功 | 地址：%s | DB：%d", opt.Addr, opt.DB)
	return &Redis{client: client}, nil
}

// NewRedisFromClient 包装已有客户端
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Close 关闭连接
func (r *Redis) Close() error {
	return r.client.Close()
}

// Set 设置KV（带过期时间）
func (r *Redis) Set(ctx context.Context, key string, value interface{}, expire time.Duration) error {
	return r.client.Set(ctx, key, value, expire).Err()
}

// Get 未命中时返回 redis.Nil
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	return r.client.Del(ctx, keys...).Result()
}

func (r *Redis) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return r.client.IncrBy(ctx, key, delta).Result()
}

// IsNil 是否为 key 不存在
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
