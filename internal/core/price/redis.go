package price

import (
	"context"
	"encoding/json"
	"fmt"

	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache Redis 後端的價格緩存
// 多實例部署時共享報價，減少對外部價格 API 的重複查詢
type RedisCache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisCache 創建 Redis 價格緩存
func NewRedisCache(cacheCfg *config.CacheConfig, redisCfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 價格緩存已連線", zap.String("addr", redisCfg.Addr))

	return &RedisCache{
		client: client,
		config: cacheCfg,
	}, nil
}

func redisKey(item, store, zipcode string) string {
	return "price:" + cacheKey(item, store, zipcode)
}

// Get 獲取緩存的報價
func (c *RedisCache) Get(ctx context.Context, item, store, zipcode string) (*common.PriceQuote, error) {
	if !c.config.Enabled {
		return nil, common.ErrCacheDisabled
	}

	key := redisKey(item, store, zipcode)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("price", key)
			return nil, common.ErrCacheDisabled
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var quote common.PriceQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached quote: %w", err)
	}

	common.LogCacheHit("price", key)
	return &quote, nil
}

// Set 寫入報價
func (c *RedisCache) Set(ctx context.Context, item, store, zipcode string, quote *common.PriceQuote) error {
	if !c.config.Enabled {
		return nil
	}

	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	if err := c.client.Set(ctx, redisKey(item, store, zipcode), data, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Clear 清空所有價格鍵
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "price:*", 0).Iterator()
	cleared := 0
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
		cleared++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	common.LogInfo("Redis 價格緩存已清空", zap.Int("清除數量", cleared))
	return nil
}

// Stats 獲取緩存統計信息
func (c *RedisCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"enabled": c.config.Enabled,
		"backend": "redis",
	}
}

// Close 關閉連線
func (c *RedisCache) Close() error {
	return c.client.Close()
}
