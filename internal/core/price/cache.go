package price

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Cache 價格緩存介面
// 記憶體後端為預設，可切換 Redis 讓多個實例共享報價
type Cache interface {
	Get(ctx context.Context, item, store, zipcode string) (*common.PriceQuote, error)
	Set(ctx context.Context, item, store, zipcode string, quote *common.PriceQuote) error
	Clear(ctx context.Context) error
	Stats() map[string]interface{}
	Close() error
}

// cacheKey 生成緩存鍵
// 鍵 = 品項_商店_郵遞區號，同品項在不同商店與地區分開計價
func cacheKey(item, store, zipcode string) string {
	return fmt.Sprintf("%s_%s_%s", strings.ToLower(strings.TrimSpace(item)), store, zipcode)
}

// MemoryCache 記憶體內的價格緩存
type MemoryCache struct {
	config *config.CacheConfig
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
	done   chan struct{}
}

// cacheEntry 緩存條目
type cacheEntry struct {
	quote       *common.PriceQuote
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewMemoryCache 創建記憶體價格緩存
func NewMemoryCache(cfg *config.CacheConfig) *MemoryCache {
	if !cfg.Enabled {
		common.LogInfo("價格緩存停用")
		return nil
	}

	c := &MemoryCache{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
	}

	// 啟動清理過期緩存的協程
	go c.startCleanup()

	common.LogInfo("價格緩存已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return c
}

// Get 獲取緩存的報價
func (c *MemoryCache) Get(ctx context.Context, item, store, zipcode string) (*common.PriceQuote, error) {
	if c == nil || !c.config.Enabled {
		return nil, common.ErrCacheDisabled
	}

	key := cacheKey(item, store, zipcode)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		c.stats.misses++
		common.LogCacheMiss("price", key)
		return nil, common.ErrCacheDisabled
	}

	// 過期即刪除，呼叫端視同未命中
	if time.Now().After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		common.LogCacheMiss("price", key)
		return nil, common.ErrCacheDisabled
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	c.store[key] = entry
	c.stats.hits++

	common.LogCacheHit("price", key)
	return entry.quote, nil
}

// Set 寫入報價
func (c *MemoryCache) Set(ctx context.Context, item, store, zipcode string, quote *common.PriceQuote) error {
	if c == nil || !c.config.Enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 容量檢查：先清過期，再 LRU，仍滿則拒絕寫入
	if len(c.store) >= c.config.MaxSize {
		evicted := c.cleanupLocked()
		common.LogDebug("快取清理執行", zap.Int("清理數量", evicted))

		if len(c.store) >= c.config.MaxSize {
			c.evictLRULocked()
		}

		if len(c.store) >= c.config.MaxSize {
			c.stats.errors++
			common.LogWarn("價格緩存已滿", zap.Int("目前容量", len(c.store)))
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	c.store[cacheKey(item, store, zipcode)] = cacheEntry{
		quote:      quote,
		expiresAt:  now.Add(c.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}

	return nil
}

// Clear 清空緩存
func (c *MemoryCache) Clear(ctx context.Context) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cleared := len(c.store)
	c.store = make(map[string]cacheEntry)
	common.LogInfo("價格緩存已清空", zap.Int("清除數量", cleared))
	return nil
}

// startCleanup 定期清理過期條目
func (c *MemoryCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.cleanupLocked()
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

func (c *MemoryCache) cleanupLocked() int {
	now := time.Now()
	count := 0

	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
			c.stats.evictions++
		}
	}

	return count
}

// evictLRULocked 淘汰最少被使用的條目
func (c *MemoryCache) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	}
}

// Stats 獲取緩存統計信息
func (c *MemoryCache) Stats() map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"enabled": false}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.hits + c.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(c.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"enabled":   true,
		"backend":   "memory",
		"size":      len(c.store),
		"max_size":  c.config.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"errors":    c.stats.errors,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉緩存
func (c *MemoryCache) Close() error {
	if c == nil {
		return nil
	}

	close(c.done)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]cacheEntry)
	common.LogInfo("價格緩存已關閉",
		zap.Int64("命中次數", c.stats.hits),
		zap.Int64("未命中次數", c.stats.misses),
		zap.Int64("淘汰次數", c.stats.evictions),
	)
	return nil
}
