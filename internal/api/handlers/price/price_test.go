package price

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	priceService "meal-prep-api/internal/core/price"
	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T, withCache bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pricingCfg := &config.PricingConfig{
		Timeout:        5 * time.Second,
		DefaultZipcode: "60827",
	}

	var cache priceService.Cache
	if withCache {
		memCache := priceService.NewMemoryCache(&config.CacheConfig{
			Enabled:         true,
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		})
		t.Cleanup(func() { memCache.Close() })
		cache = memCache
	}

	h := NewHandler(priceService.NewService(pricingCfg, cache))

	router := gin.New()
	router.POST("/api/v1/price/quote", h.Quote)
	router.POST("/api/v1/price/shopping-list", h.ListPrices)
	router.DELETE("/api/v1/price/cache", h.ClearCache)
	router.GET("/api/v1/price/cache/stats", h.CacheStats)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQuoteFallsBackToEstimate(t *testing.T) {
	router := testRouter(t, false)

	w := doJSON(t, router, http.MethodPost, "/api/v1/price/quote", gin.H{
		"item":  "chicken breast",
		"store": "costco",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var quote common.PriceQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, "estimate", quote.Source)
	assert.Equal(t, common.ConfidenceLow, quote.Confidence)
	assert.InDelta(t, 3.39, quote.Price, 1e-9)
}

func TestQuoteMissingFields(t *testing.T) {
	router := testRouter(t, false)

	w := doJSON(t, router, http.MethodPost, "/api/v1/price/quote", gin.H{"item": "rice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPrices(t *testing.T) {
	router := testRouter(t, false)

	list := common.ShoppingList{
		Stores: map[string]*common.StoreBucket{
			"aldi": {
				StoreInfo: common.StoreInfo{Name: "Aldi", Type: "budget"},
				Items: []common.ShoppingItem{
					{Item: "rice", Amount: "4", Unit: "cups"},
				},
				Count: 1,
			},
		},
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/price/shopping-list", gin.H{
		"shopping_list": list,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var pricing priceService.ListPricing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pricing))
	require.Contains(t, pricing.Stores, "aldi")
	// rice 1.50 × aldi 0.80 = 1.20/單位 × 4 = 4.80
	assert.InDelta(t, 4.80, pricing.Stores["aldi"].TotalCost, 1e-9)
	assert.InDelta(t, 4.80, pricing.GrandTotal, 1e-9)
}

func TestClearCacheDisabled(t *testing.T) {
	router := testRouter(t, false)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/price/cache", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestClearCacheEnabled(t *testing.T) {
	router := testRouter(t, true)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/price/cache", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCacheStats(t *testing.T) {
	router := testRouter(t, true)

	w := doJSON(t, router, http.MethodGet, "/api/v1/price/cache/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, "memory", stats["backend"])
}
