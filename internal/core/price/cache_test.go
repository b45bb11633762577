package price

import (
	"context"
	"testing"
	"time"

	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteFor(item string, price float64) *common.PriceQuote {
	return &common.PriceQuote{
		Item:         item,
		Price:        price,
		PricePerUnit: price,
		Source:       "estimate",
		InStock:      true,
		LastUpdated:  time.Now(),
		Confidence:   common.ConfidenceLow,
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := testCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "rice", "costco", "60827", quoteFor("rice", 1.28)))

	got, err := cache.Get(ctx, "rice", "costco", "60827")
	require.NoError(t, err)
	assert.InDelta(t, 1.28, got.Price, 1e-9)

	// 不同商店是不同的鍵
	_, err = cache.Get(ctx, "rice", "aldi", "60827")
	assert.Error(t, err)

	// 不同郵遞區號也是不同的鍵
	_, err = cache.Get(ctx, "rice", "costco", "60601")
	assert.Error(t, err)
}

func TestMemoryCacheKeyCaseInsensitive(t *testing.T) {
	cache := testCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "Rice", "costco", "60827", quoteFor("rice", 1.28)))

	_, err := cache.Get(ctx, "rice", "costco", "60827")
	assert.NoError(t, err)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := testCache(t, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "rice", "costco", "60827", quoteFor("rice", 1.28)))
	time.Sleep(20 * time.Millisecond)

	_, err := cache.Get(ctx, "rice", "costco", "60827")
	assert.Error(t, err)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	cache := NewMemoryCache(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         2,
		TTL:             time.Hour,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(func() { cache.Close() })
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "rice", "costco", "60827", quoteFor("rice", 1.28)))
	require.NoError(t, cache.Set(ctx, "milk", "costco", "60827", quoteFor("milk", 3.49)))

	// 讓 rice 有訪問記錄，milk 成為 LRU 候選
	_, err := cache.Get(ctx, "rice", "costco", "60827")
	require.NoError(t, err)

	require.NoError(t, cache.Set(ctx, "eggs", "costco", "60827", quoteFor("eggs", 4.99)))

	_, err = cache.Get(ctx, "rice", "costco", "60827")
	assert.NoError(t, err)
	_, err = cache.Get(ctx, "milk", "costco", "60827")
	assert.Error(t, err, "least recently used entry should be evicted")
}

func TestMemoryCacheClear(t *testing.T) {
	cache := testCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "rice", "costco", "60827", quoteFor("rice", 1.28)))
	require.NoError(t, cache.Clear(ctx))

	_, err := cache.Get(ctx, "rice", "costco", "60827")
	assert.Error(t, err)

	stats := cache.Stats()
	assert.Equal(t, 0, stats["size"])
}

func TestMemoryCacheDisabled(t *testing.T) {
	cache := NewMemoryCache(&config.CacheConfig{Enabled: false})
	assert.Nil(t, cache)

	// nil 接收者照樣安全
	_, err := cache.Get(context.Background(), "rice", "costco", "60827")
	assert.ErrorIs(t, err, common.ErrCacheDisabled)
	assert.NoError(t, cache.Set(context.Background(), "rice", "costco", "60827", quoteFor("rice", 1)))
	assert.NoError(t, cache.Close())
}

func TestMemoryCacheStats(t *testing.T) {
	cache := testCache(t, time.Hour)
	ctx := context.Background()

	cache.Set(ctx, "rice", "costco", "60827", quoteFor("rice", 1.28))
	cache.Get(ctx, "rice", "costco", "60827")
	cache.Get(ctx, "milk", "costco", "60827")

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.InDelta(t, 0.5, stats["hit_ratio"].(float64), 1e-9)
}
