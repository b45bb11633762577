package price

import (
	"context"
	"fmt"
	"time"

	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// instacart 的商店 ID 對照表
var instacartStores = map[string]string{
	"costco":             "costco",
	"whole_foods":        "whole_foods",
	"jewel":              "jewel_osco",
	"petes_fresh_market": "petes_fresh_market",
	"aldi":               "aldi",
}

// InstacartProvider Instacart 價格來源
// 覆蓋率最好，所有支持的商店都先問它
type InstacartProvider struct {
	config *config.PricingConfig
	client *resty.Client
}

// instacartSearchResponse 商品搜尋回應
type instacartSearchResponse struct {
	Products []struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		Size         string  `json:"size"`
		PricePerUnit float64 `json:"price_per_unit"`
		UnitType     string  `json:"unit_type"`
		InStock      *bool   `json:"in_stock"`
	} `json:"products"`
}

// NewInstacartProvider 創建 Instacart 價格來源
func NewInstacartProvider(cfg *config.PricingConfig) *InstacartProvider {
	client := resty.New().
		SetBaseURL("https://api.instacart.com/v1").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.InstacartAPIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &InstacartProvider{
		config: cfg,
		client: client,
	}
}

// Name 來源名稱
func (p *InstacartProvider) Name() string {
	return "instacart"
}

// Available 是否具備查詢條件
func (p *InstacartProvider) Available() bool {
	return p.config.InstacartAPIKey != ""
}

// Supports 是否支持指定商店
func (p *InstacartProvider) Supports(store string) bool {
	_, ok := instacartStores[store]
	return ok
}

// Fetch 查詢單一品項的報價
func (p *InstacartProvider) Fetch(ctx context.Context, item, store, zipcode string) (*common.PriceQuote, error) {
	instacartStore, ok := instacartStores[store]
	if !ok {
		return nil, fmt.Errorf("store %s not supported by instacart", store)
	}

	var result instacartSearchResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":   item,
			"store":   instacartStore,
			"zipcode": zipcode,
			"limit":   "1",
		}).
		SetResult(&result).
		Get("/products/search")
	if err != nil {
		return nil, fmt.Errorf("instacart request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("instacart returned status %d", resp.StatusCode())
	}
	if len(result.Products) == 0 {
		return nil, fmt.Errorf("no instacart results for %q", item)
	}

	product := result.Products[0]
	name := product.Name
	if name == "" {
		name = item
	}
	unit := product.Size
	if unit == "" {
		unit = "each"
	}
	unitType := product.UnitType
	if unitType == "" {
		unitType = "each"
	}
	inStock := true
	if product.InStock != nil {
		inStock = *product.InStock
	}

	return &common.PriceQuote{
		Item:         name,
		Price:        product.Price,
		Unit:         unit,
		PricePerUnit: product.PricePerUnit,
		UnitType:     unitType,
		Store:        store,
		Source:       p.Name(),
		InStock:      inStock,
		LastUpdated:  time.Now(),
		Confidence:   common.ConfidenceHigh,
	}, nil
}
