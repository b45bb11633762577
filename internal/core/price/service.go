package price

import (
	"context"
	"strconv"
	"time"

	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 價格查詢服務
// 查價順序：緩存 → Instacart → Kroger（僅 Jewel）→ 估價；
// 任一來源失敗就換下一個，整條鏈永不返回錯誤
type Service struct {
	cache     Cache
	providers []Provider
	estimator *Estimator
	config    *config.PricingConfig
}

// PricedItem 含價格的購物清單品項
type PricedItem struct {
	common.ShoppingItem
	PriceData *common.PriceQuote `json:"price_data"`
	ItemCost  float64            `json:"item_cost"`
}

// StorePricing 單一商店的計價結果
type StorePricing struct {
	StoreInfo common.StoreInfo `json:"store_info"`
	Items     []PricedItem     `json:"items"`
	TotalCost float64          `json:"total_cost"`
}

// ListPricing 整份購物清單的計價結果
type ListPricing struct {
	Stores     map[string]*StorePricing `json:"stores"`
	GrandTotal float64                  `json:"grand_total"`
	Zipcode    string                   `json:"zipcode"`
}

// NewService 創建價格查詢服務
// cache 可為 nil（緩存停用時），providers 依優先序排列
func NewService(cfg *config.PricingConfig, cache Cache, providers ...Provider) *Service {
	return &Service{
		cache:     cache,
		providers: providers,
		estimator: NewEstimator(),
		config:    cfg,
	}
}

// GetPrice 查詢單一品項在指定商店的價格
func (s *Service) GetPrice(ctx context.Context, item, store, zipcode string) *common.PriceQuote {
	if zipcode == "" {
		zipcode = s.config.DefaultZipcode
	}

	start := time.Now()

	// 緩存優先
	if s.cache != nil {
		if quote, err := s.cache.Get(ctx, item, store, zipcode); err == nil {
			common.LogPriceLookup(item, store, "cache", time.Since(start), nil)
			return quote
		}
	}

	// 依優先序問外部來源，失敗就換下一個
	for _, provider := range s.providers {
		if !provider.Available() || !provider.Supports(store) {
			continue
		}

		quote, err := provider.Fetch(ctx, item, store, zipcode)
		if err != nil {
			common.LogPriceLookup(item, store, provider.Name(), time.Since(start), err)
			continue
		}

		s.cacheQuote(ctx, item, store, zipcode, quote)
		common.LogPriceLookup(item, store, provider.Name(), time.Since(start), nil)
		return quote
	}

	// 最後手段：估價
	quote := s.estimator.Estimate(item, store)
	s.cacheQuote(ctx, item, store, zipcode, quote)
	common.LogPriceLookup(item, store, "estimate", time.Since(start), nil)
	return quote
}

func (s *Service) cacheQuote(ctx context.Context, item, store, zipcode string, quote *common.PriceQuote) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, item, store, zipcode, quote); err != nil {
		common.LogWarn("報價寫入緩存失敗",
			zap.String("item", item),
			zap.Error(err),
		)
	}
}

// GetShoppingListPrices 為整份購物清單計價
// 品項成本 = 單位價 × 需求量；無法解析的需求量以 1 計
func (s *Service) GetShoppingListPrices(ctx context.Context, list *common.ShoppingList, zipcode string) *ListPricing {
	if zipcode == "" {
		zipcode = s.config.DefaultZipcode
	}

	result := &ListPricing{
		Stores:  make(map[string]*StorePricing),
		Zipcode: zipcode,
	}

	for storeID, bucket := range list.Stores {
		pricing := &StorePricing{
			StoreInfo: bucket.StoreInfo,
			Items:     make([]PricedItem, 0, len(bucket.Items)),
		}

		for _, item := range bucket.Items {
			quote := s.GetPrice(ctx, item.Item, storeID, zipcode)

			amount, err := strconv.ParseFloat(item.Amount, 64)
			if err != nil {
				amount = 1.0
			}
			cost := roundCents(quote.PricePerUnit * amount)

			pricing.Items = append(pricing.Items, PricedItem{
				ShoppingItem: item,
				PriceData:    quote,
				ItemCost:     cost,
			})
			pricing.TotalCost += cost
		}

		pricing.TotalCost = roundCents(pricing.TotalCost)
		result.Stores[storeID] = pricing
		result.GrandTotal += pricing.TotalCost
	}

	result.GrandTotal = roundCents(result.GrandTotal)

	common.LogInfo("購物清單計價完成",
		zap.Int("stores", len(result.Stores)),
		zap.Float64("grand_total", result.GrandTotal),
	)

	return result
}

// ClearCache 清空價格緩存
func (s *Service) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return common.ErrCacheDisabled
	}
	return s.cache.Clear(ctx)
}

// CacheStats 緩存統計
func (s *Service) CacheStats() map[string]interface{} {
	if s.cache == nil {
		return map[string]interface{}{"enabled": false}
	}
	return s.cache.Stats()
}

// HealthCheck 回報各價格來源的可用狀態
// 估價永遠可用，所以服務整體永遠 healthy
func (s *Service) HealthCheck() map[string]bool {
	status := map[string]bool{
		"fallback": true,
	}
	for _, provider := range s.providers {
		status[provider.Name()] = provider.Available()
	}
	return status
}
