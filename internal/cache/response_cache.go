package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "running-events-backend/pkg/app_errors"
	"running-events-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	FeaturedHeroKey   = "featured_hero_events"
	AvailableYearsKey = "event_available_years"
)

// CalendarStatsKey 每年一份的月份統計
func CalendarStatsKey(year int) string {
	return fmt.Sprintf("calendar_stats_%d", year)
}

type ResponseCache interface {
	// Get 讀取並解析 JSON，不存在時回傳 ErrCacheMiss
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Forget(ctx context.Context, keys ...string) error
}

type RedisResponseCacheImpl struct {
	client *redis.Client
	prefix string
}

func NewRedisResponseCache(client *redis.Client, prefix string) ResponseCache {
	return &RedisResponseCacheImpl{
		client: client,
		prefix: prefix,
	}
}

func (c *RedisResponseCacheImpl) key(key string) string {
	return c.prefix + key
}

func (c *RedisResponseCacheImpl) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return apperrors.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cache %s: %w", key, err)
	}
	return nil
}

func (c *RedisResponseCacheImpl) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), raw, ttl).Err()
}

func (c *RedisResponseCacheImpl) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, c.key(k))
	}
	return c.client.Del(ctx, prefixed...).Err()
}

// Remember 命中快取直接回傳，否則呼叫 load 並寫回。
// 快取讀寫失敗只記錄 log，不影響回應。
func Remember[T any](ctx context.Context, c ResponseCache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	log := logger.WithComponent("cache").With(zap.String("key", key))

	var cached T
	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, apperrors.ErrCacheMiss) {
		log.Warn("cache read failed", zap.Error(err))
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}
	return value, nil
}
