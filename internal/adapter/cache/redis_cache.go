package cache

import (
	"context"
	"time"

	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisCache serves the hot read paths: order status and the denormalized
// cart snapshot. A miss always falls through to MySQL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) SetStatus(ctx context.Context, orderID string, status string) error {
	return r.rdb.Set(ctx, "order:status:"+orderID, status, r.ttl).Err()
}

func (r *RedisCache) GetStatus(ctx context.Context, orderID string) (string, error) {
	val, err := r.rdb.Get(ctx, "order:status:"+orderID).Result()
	if err == redis.Nil {
		return "", usecase.ErrNotFound
	}
	return val, err
}

func (r *RedisCache) SetSnapshot(ctx context.Context, cartID string, snapshot []byte) error {
	return r.rdb.Set(ctx, "cart:items:"+cartID, snapshot, r.ttl).Err()
}

func (r *RedisCache) GetSnapshot(ctx context.Context, cartID string) ([]byte, error) {
	val, err := r.rdb.Get(ctx, "cart:items:"+cartID).Bytes()
	if err == redis.Nil {
		return nil, usecase.ErrNotFound
	}
	return val, err
}

var (
	_ usecase.OrderCache = (*RedisCache)(nil)
	_ usecase.CartCache  = (*RedisCache)(nil)
)
