package shopping

import (
	"sort"

	"meal-prep-api/internal/core/quantity"
	"meal-prep-api/internal/pkg/common"

	"go.uber.org/zap"
)

// 清單中每項最多列出的食譜數
const maxUsedInRecipes = 3

// ListBuilder 購物清單服務
// 彙總 → 展示單位換算 → 名稱清理 → 商店路由的完整管線
type ListBuilder struct {
	aggregator *Aggregator
	cleaner    *Cleaner
	router     *Router
}

// NewListBuilder 創建新的購物清單服務
func NewListBuilder(catalog common.RecipeCatalog) *ListBuilder {
	return &ListBuilder{
		aggregator: NewAggregator(catalog),
		cleaner:    NewCleaner(),
		router:     NewRouter(),
	}
}

// Build 從菜單計畫產生購物清單
// selectedStores 為空時全部放進預設商店；多商店時交給路由器指派
func (b *ListBuilder) Build(plan *common.MealPlan, selectedStores []string, budget float64, defaultStore string) *common.ShoppingList {
	totals := b.aggregator.Aggregate(plan)

	initialStore := defaultStore
	if len(selectedStores) > 0 {
		initialStore = selectedStores[0]
	}
	if initialStore == "" {
		initialStore = "costco"
	}

	items := make([]common.ShoppingItem, 0, len(totals))
	skipped := 0
	for _, agg := range totals {
		// 所有引用都被跳過的食材（"to taste" 之類）不列入清單
		if agg.Total == 0 {
			skipped++
			continue
		}

		amount, unit := quantity.ToDisplayUnit(agg.Total, agg.Unit)
		name := b.cleaner.Clean(agg.Item, amount)
		unit = b.cleaner.PluralizeUnit(unit, amount)

		usedIn := agg.RecipeNames()
		if len(usedIn) > maxUsedInRecipes {
			usedIn = usedIn[:maxUsedInRecipes]
		}

		items = append(items, common.ShoppingItem{
			ID:     common.GenerateUUID(),
			Item:   name,
			Amount: FormatAmount(amount),
			Unit:   unit,
			UsedIn: usedIn,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Item < items[j].Item
	})

	profile := b.router.GetStoreProfile(initialStore)
	list := &common.ShoppingList{
		StartDate:  plan.StartDate,
		EndDate:    plan.EndDate,
		People:     plan.People,
		Budget:     budget,
		TotalItems: len(items),
		Stores: map[string]*common.StoreBucket{
			profile.ID: {
				StoreInfo: common.StoreInfo{Name: profile.Name, Type: profile.Type},
				Items:     items,
				Count:     len(items),
			},
		},
	}

	common.LogInfo("購物清單組裝完成",
		zap.Int("items", len(items)),
		zap.Int("skipped", skipped),
		zap.String("initial_store", profile.ID),
	)

	if len(selectedStores) > 1 {
		list = b.router.Route(list, selectedStores)
	}

	return list
}

// Route 重新路由既有的購物清單
func (b *ListBuilder) Route(list *common.ShoppingList, selectedStores []string) *common.ShoppingList {
	return b.router.Route(list, selectedStores)
}
