package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix  = "products:v:"
	CategoryListCachePrefix = "categories:v:"
	CacheVersionKey         = "products:version"
)

// CacheManager caches catalog listings in Redis. Keys embed a version
// number; bumping it invalidates every listing at once.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{redis: redis, ttl: DefaultCacheTTL}
}

// Get decodes the cached value for key into dst. Any failure is a miss.
func (cm *CacheManager) Get(ctx context.Context, prefix, key string, dst interface{}) bool {
	if cm == nil || cm.redis == nil {
		return false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return false
	}
	data, err := cm.redis.Get(ctx, cacheKey(prefix, version, key)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		zap.L().Warn("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetAsync caches value under key without blocking the request.
func (cm *CacheManager) SetAsync(prefix, key string, value interface{}) {
	if cm == nil || cm.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("Failed to marshal value for cache", zap.String("key", key), zap.Error(err))
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil {
			return
		}
		if err := cm.redis.Set(bgCtx, cacheKey(prefix, version, key), data, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache value", zap.String("key", key), zap.Error(err))
		}
	}()
}

// Invalidate invalidates all catalog caches by bumping the version
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	if cm == nil || cm.redis == nil {
		return nil
	}
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	zap.L().Info("Cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

// invalidateOrLog is used after writes where a stale cache must not fail
// the request.
func (cm *CacheManager) invalidateOrLog(ctx context.Context) {
	if err := cm.Invalidate(ctx); err != nil {
		zap.L().Error("CRITICAL: Failed to invalidate cache", zap.Error(err))
	}
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return cm.redis.Get(ctx, CacheVersionKey).Int64()
	}
	if err == nil {
		return 0, fmt.Errorf("invalid cache version %d", ver)
	}
	return 0, err
}

func cacheKey(prefix string, version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", prefix, version, key)
}
