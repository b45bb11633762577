package shopping

import (
	"meal-prep-api/internal/core/quantity"
	"meal-prep-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Aggregator 食材彙總服務
// 走訪菜單計畫的每一天、每一餐，把所有食譜的食材累加成以 (名稱, 單位) 為鍵的總量
type Aggregator struct {
	catalog common.RecipeCatalog
}

// NewAggregator 創建新的食材彙總服務
func NewAggregator(catalog common.RecipeCatalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// Aggregate 彙總菜單計畫中的所有食材
// 累加是純加法，處理順序不影響最終總量；查不到的食譜靜默跳過，永不失敗
func (a *Aggregator) Aggregate(plan *common.MealPlan) map[string]*AggregatedIngredient {
	totals := make(map[string]*AggregatedIngredient)

	for _, day := range plan.Days {
		for _, slot := range day.Meals {
			if slot == nil || slot.Recipe == "" {
				continue
			}

			recipe, ok := a.catalog.Lookup(slot.Recipe)
			if !ok {
				common.LogDebug("食譜不存在，跳過此餐",
					zap.String("recipe", slot.Recipe),
					zap.Int("day", day.Day),
				)
				continue
			}

			servings := quantity.ParseServings(slot.Servings.String())

			for _, line := range recipe.Ingredients {
				if line.Item == "" {
					continue
				}

				key := AggregationKey(line.Item, line.Unit)
				bucket, exists := totals[key]
				if !exists {
					bucket = &AggregatedIngredient{
						Item:    line.Item,
						Unit:    line.Unit,
						Recipes: make(map[string]struct{}),
					}
					totals[key] = bucket
				}
				bucket.Recipes[recipe.Name] = struct{}{}

				amount, ok := quantity.Parse(line.Amount.String(), line.Unit)
				if !ok {
					// 無法解析的數量不計入總量，但食材與食譜的記帳保留，
					// 清單組裝時再決定零總量的食材如何處理
					continue
				}

				if servings > 1 {
					amount *= float64(servings)
				}
				bucket.Total += amount
			}
		}
	}

	common.LogInfo("食材彙總完成",
		zap.Int("distinct_ingredients", len(totals)),
		zap.Int("days", len(plan.Days)),
	)

	return totals
}
