package price

import (
	"math"
	"strings"
	"time"

	"meal-prep-api/internal/pkg/common"
)

// 查無報價時的預設估價（美元/磅）
const defaultEstimate = 5.00

type basePrice struct {
	keyword string
	price   float64
}

// basePrices 各類食材的基準估價
// 以子字串匹配，依序比對先中先贏，多重匹配時結果才可重現
var basePrices = []basePrice{
	// 蛋白質
	{"chicken thighs", 2.50},
	{"chicken breast", 3.99},
	{"salmon", 12.99},
	{"white fish", 8.99},
	{"whiting", 6.99},
	{"ground turkey", 4.99},
	{"turkey bacon", 5.99},
	{"eggs", 4.99},

	// 蔬果
	{"sweet potato", 1.29},
	{"onion", 0.89},
	{"spinach", 2.99},
	{"tomato", 1.99},
	{"bell pepper", 1.49},
	{"avocado", 1.99},
	{"lemon", 0.79},

	// 乾貨
	{"rice", 1.50},
	{"olive oil", 8.99},
	{"coconut oil", 7.99},
	{"canned tomatoes", 1.29},
	{"beans", 1.19},
	{"lentils", 1.49},
	{"pasta", 1.29},
	{"oats", 3.99},
}

// storeMultipliers 各商店相對基準價的係數
var storeMultipliers = map[string]float64{
	"costco":             0.85, // 量販通常便宜 15%
	"whole_foods":        1.25,
	"jewel":              1.0, // 基準
	"petes_fresh_market": 0.95,
	"aldi":               0.80,
}

// Estimator 估價器
// 所有外部來源都失敗時的最後手段，永不失敗
type Estimator struct{}

// NewEstimator 創建估價器
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate 依品項類別與商店係數估價
func (e *Estimator) Estimate(item, store string) *common.PriceQuote {
	itemLower := strings.ToLower(item)

	estimated := defaultEstimate
	for _, entry := range basePrices {
		if strings.Contains(itemLower, entry.keyword) {
			estimated = entry.price
			break
		}
	}

	multiplier, ok := storeMultipliers[store]
	if !ok {
		multiplier = 1.0
	}
	final := roundCents(estimated * multiplier)

	return &common.PriceQuote{
		Item:         titleCase(item),
		Price:        final,
		Unit:         "lb",
		PricePerUnit: final,
		UnitType:     "lb",
		Store:        store,
		Source:       "estimate",
		InStock:      true,
		LastUpdated:  time.Now(),
		Confidence:   common.ConfidenceLow,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
