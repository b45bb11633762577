package price

import (
	"context"
	"errors"
	"testing"
	"time"

	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      string
	available bool
	stores    map[string]bool
	quote     *common.PriceQuote
	err       error
	calls     int
}

func (p *fakeProvider) Name() string            { return p.name }
func (p *fakeProvider) Available() bool         { return p.available }
func (p *fakeProvider) Supports(s string) bool  { return p.stores == nil || p.stores[s] }
func (p *fakeProvider) Fetch(ctx context.Context, item, store, zipcode string) (*common.PriceQuote, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	q := *p.quote
	q.Item = item
	q.Store = store
	return &q, nil
}

func pricingConfig() *config.PricingConfig {
	return &config.PricingConfig{
		Timeout:        5 * time.Second,
		DefaultZipcode: "60827",
	}
}

func testCache(t *testing.T, ttl time.Duration) *MemoryCache {
	t.Helper()
	cache := NewMemoryCache(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         100,
		TTL:             ttl,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestGetPriceFallsBackToEstimate(t *testing.T) {
	svc := NewService(pricingConfig(), nil)

	quote := svc.GetPrice(context.Background(), "chicken breast", "costco", "")

	require.NotNil(t, quote)
	assert.Equal(t, "estimate", quote.Source)
	assert.Equal(t, common.ConfidenceLow, quote.Confidence)
	// 3.99 * 0.85 = 3.39
	assert.InDelta(t, 3.39, quote.Price, 1e-9)
	assert.True(t, quote.InStock)
}

func TestGetPriceProviderWins(t *testing.T) {
	provider := &fakeProvider{
		name:      "instacart",
		available: true,
		quote: &common.PriceQuote{
			Price:        7.99,
			PricePerUnit: 7.99,
			Source:       "instacart",
			Confidence:   common.ConfidenceHigh,
			InStock:      true,
		},
	}
	svc := NewService(pricingConfig(), nil, provider)

	quote := svc.GetPrice(context.Background(), "salmon", "whole_foods", "60601")

	assert.Equal(t, "instacart", quote.Source)
	assert.InDelta(t, 7.99, quote.Price, 1e-9)
	assert.Equal(t, 1, provider.calls)
}

func TestGetPriceProviderFailureFallsThrough(t *testing.T) {
	failing := &fakeProvider{
		name:      "instacart",
		available: true,
		err:       errors.New("upstream timeout"),
	}
	svc := NewService(pricingConfig(), nil, failing)

	quote := svc.GetPrice(context.Background(), "salmon", "whole_foods", "")

	// 來源失敗不往外傳，退回估價
	assert.Equal(t, "estimate", quote.Source)
	assert.Equal(t, 1, failing.calls)
}

func TestGetPriceSkipsUnsupportedStore(t *testing.T) {
	kroger := &fakeProvider{
		name:      "kroger",
		available: true,
		stores:    map[string]bool{"jewel": true},
		quote:     &common.PriceQuote{Price: 2.99, Source: "kroger"},
	}
	svc := NewService(pricingConfig(), nil, kroger)

	quote := svc.GetPrice(context.Background(), "milk", "costco", "")

	assert.Equal(t, "estimate", quote.Source)
	assert.Zero(t, kroger.calls)
}

func TestGetPriceUsesCacheOnSecondLookup(t *testing.T) {
	provider := &fakeProvider{
		name:      "instacart",
		available: true,
		quote:     &common.PriceQuote{Price: 9.99, PricePerUnit: 9.99, Source: "instacart"},
	}
	svc := NewService(pricingConfig(), testCache(t, time.Hour), provider)

	first := svc.GetPrice(context.Background(), "salmon", "whole_foods", "")
	second := svc.GetPrice(context.Background(), "salmon", "whole_foods", "")

	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, 1, provider.calls, "second lookup should hit the cache")
}

func TestGetPriceCacheExpiry(t *testing.T) {
	provider := &fakeProvider{
		name:      "instacart",
		available: true,
		quote:     &common.PriceQuote{Price: 9.99, Source: "instacart"},
	}
	svc := NewService(pricingConfig(), testCache(t, 10*time.Millisecond), provider)

	svc.GetPrice(context.Background(), "salmon", "whole_foods", "")
	time.Sleep(20 * time.Millisecond)
	svc.GetPrice(context.Background(), "salmon", "whole_foods", "")

	assert.Equal(t, 2, provider.calls, "expired entry should trigger a fresh fetch")
}

func TestGetShoppingListPrices(t *testing.T) {
	svc := NewService(pricingConfig(), nil)

	list := &common.ShoppingList{
		Stores: map[string]*common.StoreBucket{
			"costco": {
				StoreInfo: common.StoreInfo{Name: "Costco", Type: "bulk"},
				Items: []common.ShoppingItem{
					{Item: "chicken breast", Amount: "2", Unit: "lb"},
					{Item: "rice", Amount: "4", Unit: "cup"},
				},
				Count: 2,
			},
		},
	}

	pricing := svc.GetShoppingListPrices(context.Background(), list, "")

	require.Contains(t, pricing.Stores, "costco")
	costco := pricing.Stores["costco"]
	require.Len(t, costco.Items, 2)

	// chicken breast: 3.99*0.85=3.39 → ×2 = 6.78; rice: 1.50*0.85=1.28 → ×4 = 5.12
	assert.InDelta(t, 6.78, costco.Items[0].ItemCost, 1e-9)
	assert.InDelta(t, 5.12, costco.Items[1].ItemCost, 1e-9)
	assert.InDelta(t, 11.90, costco.TotalCost, 1e-9)
	assert.InDelta(t, pricing.GrandTotal, costco.TotalCost, 1e-9)
	assert.Equal(t, "60827", pricing.Zipcode)
}

func TestGetShoppingListPricesUnparseableAmount(t *testing.T) {
	svc := NewService(pricingConfig(), nil)

	list := &common.ShoppingList{
		Stores: map[string]*common.StoreBucket{
			"jewel": {
				Items: []common.ShoppingItem{
					{Item: "saffron", Amount: "a few", Unit: "pinch"},
				},
			},
		},
	}

	pricing := svc.GetShoppingListPrices(context.Background(), list, "")

	// 無法解析的需求量以 1 計，計價不中斷
	require.Len(t, pricing.Stores["jewel"].Items, 1)
	assert.InDelta(t, 5.00, pricing.Stores["jewel"].Items[0].ItemCost, 1e-9)
}

func TestClearCacheDisabled(t *testing.T) {
	svc := NewService(pricingConfig(), nil)
	assert.ErrorIs(t, svc.ClearCache(context.Background()), common.ErrCacheDisabled)
}

func TestHealthCheck(t *testing.T) {
	svc := NewService(pricingConfig(), nil,
		&fakeProvider{name: "instacart", available: false},
		&fakeProvider{name: "kroger", available: true},
	)

	status := svc.HealthCheck()
	assert.True(t, status["fallback"])
	assert.False(t, status["instacart"])
	assert.True(t, status["kroger"])
}
