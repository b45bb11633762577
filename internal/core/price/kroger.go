package price

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"meal-prep-api/internal/infrastructure/config"
	"meal-prep-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Kroger 旗下支持的連鎖店關鍵字，Jewel-Osco 優先
var krogerChainKeywords = [][]string{
	{"jewel", "jewel-osco", "jewel osco"},
	{"mariano", "mariano's", "marianos"},
}

// KrogerProvider Kroger 價格來源
// 只服務 Jewel-Osco（Kroger 旗下），用 client credentials 換 token
type KrogerProvider struct {
	config *config.PricingConfig
	client *resty.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

type krogerTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type krogerLocationsResponse struct {
	Data []struct {
		LocationID string `json:"locationId"`
		Name       string `json:"name"`
		Chain      string `json:"chain"`
		Address    struct {
			City string `json:"city"`
		} `json:"address"`
	} `json:"data"`
}

type krogerProductsResponse struct {
	Data []struct {
		Description string `json:"description"`
		Items       []struct {
			Size  string `json:"size"`
			Price struct {
				Regular float64 `json:"regular"`
				Promo   float64 `json:"promo"`
			} `json:"price"`
		} `json:"items"`
	} `json:"data"`
}

// NewKrogerProvider 創建 Kroger 價格來源
func NewKrogerProvider(cfg *config.PricingConfig) *KrogerProvider {
	client := resty.New().
		SetBaseURL("https://api.kroger.com/v1").
		SetTimeout(cfg.Timeout)

	return &KrogerProvider{
		config: cfg,
		client: client,
	}
}

// Name 來源名稱
func (p *KrogerProvider) Name() string {
	return "kroger"
}

// Available 是否具備查詢條件
func (p *KrogerProvider) Available() bool {
	return p.config.KrogerClientID != "" && p.config.KrogerClientSecret != ""
}

// Supports 是否支持指定商店
func (p *KrogerProvider) Supports(store string) bool {
	return store == "jewel"
}

// getToken 取得 OAuth token，未過期則重用
// Kroger token 約 30 分鐘過期，保守抓 25 分鐘
func (p *KrogerProvider) getToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	var result krogerTokenResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBasicAuth(p.config.KrogerClientID, p.config.KrogerClientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
			"scope":      "product.compact",
		}).
		SetResult(&result).
		Post("/connect/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("kroger token request failed: %w", err)
	}
	if resp.StatusCode() != 200 || result.AccessToken == "" {
		return "", fmt.Errorf("kroger token request returned status %d", resp.StatusCode())
	}

	p.token = result.AccessToken
	p.tokenExpiry = time.Now().Add(25 * time.Minute)
	return p.token, nil
}

// findLocation 依郵遞區號找最近的支持門市
func (p *KrogerProvider) findLocation(ctx context.Context, token, zipcode string) (string, error) {
	var result krogerLocationsResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"filter.zipCode.near":  zipcode,
			"filter.limit":         "10",
			"filter.radiusInMiles": "25",
		}).
		SetResult(&result).
		Get("/locations")
	if err != nil {
		return "", fmt.Errorf("kroger locations request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("kroger locations returned status %d", resp.StatusCode())
	}

	// Jewel-Osco 優先，其次 Mariano's（同為 Kroger 旗下）
	for _, keywords := range krogerChainKeywords {
		for _, loc := range result.Data {
			nameLower := strings.ToLower(loc.Name)
			for _, keyword := range keywords {
				if strings.Contains(nameLower, keyword) {
					common.LogDebug("找到 Kroger 門市",
						zap.String("name", loc.Name),
						zap.String("city", loc.Address.City),
					)
					return loc.LocationID, nil
				}
			}
		}
	}

	return "", fmt.Errorf("no supported kroger location near %s", zipcode)
}

// Fetch 查詢單一品項的報價
func (p *KrogerProvider) Fetch(ctx context.Context, item, store, zipcode string) (*common.PriceQuote, error) {
	if !p.Supports(store) {
		return nil, fmt.Errorf("store %s not supported by kroger", store)
	}

	token, err := p.getToken(ctx)
	if err != nil {
		return nil, err
	}

	locationID, err := p.findLocation(ctx, token, zipcode)
	if err != nil {
		return nil, err
	}

	var result krogerProductsResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"filter.term":       item,
			"filter.locationId": locationID,
			"filter.limit":      "1",
		}).
		SetResult(&result).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("kroger products request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("kroger products returned status %d", resp.StatusCode())
	}
	if len(result.Data) == 0 || len(result.Data[0].Items) == 0 {
		return nil, fmt.Errorf("no kroger results for %q", item)
	}

	product := result.Data[0]
	sku := product.Items[0]

	name := product.Description
	if name == "" {
		name = item
	}
	unit := sku.Size
	if unit == "" {
		unit = "each"
	}
	perUnit := sku.Price.Promo
	if perUnit == 0 {
		perUnit = sku.Price.Regular
	}

	return &common.PriceQuote{
		Item:         name,
		Price:        sku.Price.Regular,
		Unit:         unit,
		PricePerUnit: perUnit,
		UnitType:     "each",
		Store:        store,
		Source:       p.Name(),
		InStock:      true,
		LastUpdated:  time.Now(),
		Confidence:   common.ConfidenceHigh,
	}, nil
}
