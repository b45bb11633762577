package shopping

import (
	"sort"
	"strconv"
	"strings"

	"meal-prep-api/internal/core/quantity"
	"meal-prep-api/internal/pkg/common"

	"go.uber.org/zap"
)

// StoreProfile 商店輪廓
// 描述商店的類型、適合與不適合的食材分類，評分器的靜態輸入
type StoreProfile struct {
	ID           string
	Name         string
	Type         string // bulk | specialty | budget | convenience
	MinQuantity  float64
	GoodFor      map[string]struct{}
	Avoid        map[string]struct{}
	PackageSizes string // 僅供參考，不參與評分
}

// Router 商店路由器
// 把每個食材分類後，對每個候選商店打分，指派給得分最高的商店
type Router struct {
	profiles   map[string]*StoreProfile
	categories []categoryEntry
}

// categoryEntry 分類的關鍵字表，依序匹配，先中先贏
type categoryEntry struct {
	name     string
	keywords []string
}

// NewRouter 創建新的商店路由器
func NewRouter() *Router {
	return &Router{
		profiles:   defaultStoreProfiles(),
		categories: defaultCategories(),
	}
}

func defaultStoreProfiles() map[string]*StoreProfile {
	return map[string]*StoreProfile{
		"costco": {
			ID:           "costco",
			Name:         "Costco",
			Type:         "bulk",
			MinQuantity:  3.0, // 少於 3 杯的份量不適合來這裡
			GoodFor:      stringSet("pantry_staples", "bulk_proteins", "frozen", "large_quantities"),
			Avoid:        stringSet("fresh_herbs", "small_produce", "specialty_items", "spices_and_seasonings"),
			PackageSizes: "large",
		},
		"whole_foods": {
			ID:          "whole_foods",
			Name:        "Whole Foods",
			Type:        "specialty",
			MinQuantity: 0.0,
			GoodFor: stringSet("fresh_produce", "specialty_items", "small_quantities", "organic",
				"fresh_herbs", "spices_and_seasonings", "oils_and_liquids"),
			Avoid:        stringSet(),
			PackageSizes: "small_to_medium",
		},
		"petes_fresh_market": {
			ID:          "petes_fresh_market",
			Name:        "Pete's Fresh Market",
			Type:        "specialty",
			MinQuantity: 0.0,
			GoodFor: stringSet("fresh_produce", "ethnic_ingredients", "small_quantities",
				"fresh_herbs", "spices_and_seasonings"),
			Avoid:        stringSet(),
			PackageSizes: "small",
		},
		"aldi": {
			ID:          "aldi",
			Name:        "Aldi",
			Type:        "budget",
			MinQuantity: 0.0,
			GoodFor: stringSet("budget_staples", "medium_quantities", "frozen", "pantry_staples",
				"dairy_and_eggs"),
			Avoid:        stringSet(),
			PackageSizes: "medium",
		},
		"jewel": {
			ID:           "jewel",
			Name:         "Jewel-Osco",
			Type:         "convenience",
			MinQuantity:  0.0,
			GoodFor:      stringSet("convenience", "any_quantity", "last_minute", "dairy_and_eggs"),
			Avoid:        stringSet(),
			PackageSizes: "all_sizes",
		},
	}
}

func defaultCategories() []categoryEntry {
	return []categoryEntry{
		{"pantry_staples", []string{
			"rice", "pasta", "flour", "sugar", "salt", "soy sauce", "vinegar", "honey",
			"beans", "lentils", "quinoa", "oats", "cornmeal",
		}},
		{"oils_and_liquids", []string{
			"oil", "olive oil", "vegetable oil", "canola oil", "sesame oil",
			"coconut oil", "vinegar", "stock", "broth", "wine",
		}},
		{"spices_and_seasonings", []string{
			"paprika", "cumin", "coriander", "turmeric", "cinnamon", "pepper",
			"chili powder", "cayenne", "nutmeg", "cardamom", "cloves",
			"ginger", "garlic powder", "onion powder", "oregano", "thyme",
			"bay leaf", "sage", "rosemary", "mustard", "curry",
		}},
		{"fresh_produce", []string{
			"lettuce", "spinach", "tomato", "onion", "garlic", "carrot",
			"celery", "bell pepper", "cucumber", "potato", "broccoli",
			"cabbage", "kale", "zucchini", "squash", "eggplant", "mushroom",
			"corn", "peas", "green beans", "asparagus", "cauliflower",
		}},
		{"fresh_herbs", []string{
			"cilantro", "parsley", "basil", "mint", "rosemary", "thyme",
			"oregano", "dill", "chives", "tarragon", "sage",
		}},
		{"bulk_proteins", []string{
			"chicken breast", "chicken thigh", "ground beef", "ground turkey",
			"pork chops", "salmon", "tilapia", "shrimp", "beef", "pork",
			"turkey", "lamb", "fish", "chicken",
		}},
		{"dairy_and_eggs", []string{
			"milk", "cheese", "yogurt", "butter", "cream", "sour cream",
			"eggs", "half and half", "cottage cheese", "cream cheese",
		}},
		{"specialty_items", []string{
			"tahini", "miso paste", "fish sauce", "gochujang", "harissa",
			"coconut milk", "curry paste", "anchovy", "capers", "olives",
			"sun-dried tomato", "artichoke", "pesto",
		}},
		{"ethnic_ingredients", []string{
			"kimchi", "gochujang", "miso", "fish sauce", "tamarind",
			"turmeric", "cumin", "coriander", "curry", "garam masala",
			"soy sauce", "rice wine", "sake", "mirin",
		}},
	}
}

func stringSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// CategorizeIngredient 判斷食材的分類
// 以子字串匹配關鍵字表，先中先贏，沒匹配到歸入 general
func (r *Router) CategorizeIngredient(name string) string {
	nameLower := strings.ToLower(name)

	for _, entry := range r.categories {
		for _, keyword := range entry.keywords {
			if strings.Contains(nameLower, keyword) {
				return entry.name
			}
		}
	}

	return "general"
}

// GetStoreProfile 取得商店輪廓，支持寬鬆的 ID 匹配
// 未知的商店 ID 返回合成的便利店輪廓，不報錯
func (r *Router) GetStoreProfile(storeID string) *StoreProfile {
	if profile, ok := r.profiles[storeID]; ok {
		return profile
	}

	// 去掉底線與空白再比對一次
	normalized := collapseStoreID(storeID)
	for id, profile := range r.profiles {
		if collapseStoreID(id) == normalized {
			return profile
		}
	}

	return &StoreProfile{
		ID:           storeID,
		Name:         titleStoreID(storeID),
		Type:         "convenience",
		MinQuantity:  0.0,
		GoodFor:      stringSet("convenience", "any_quantity"),
		Avoid:        stringSet(),
		PackageSizes: "all_sizes",
	}
}

func collapseStoreID(id string) string {
	id = strings.ToLower(id)
	id = strings.ReplaceAll(id, "_", "")
	id = strings.ReplaceAll(id, " ", "")
	return id
}

// titleStoreID 把 "trader_joes" 轉成 "Trader Joes" 作展示名
func titleStoreID(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ScoreStore 為 (食材, 商店) 組合打分，範圍 0-100
func (r *Router) ScoreStore(storeID, itemName string, quantityInCups float64) float64 {
	profile := r.GetStoreProfile(storeID)
	score := 50.0 // 中性起點

	nameLower := strings.ToLower(itemName)
	category := r.CategorizeIngredient(nameLower)

	// 量販店對小份量重罰，只套用最深的一個門檻
	if profile.Type == "bulk" {
		switch {
		case quantityInCups < 0.5:
			score -= 60
		case quantityInCups < 1.0:
			score -= 40
		case quantityInCups < 2.0:
			score -= 25
		case quantityInCups < 3.0:
			score -= 15
		}
	}

	// 未達商店的最低份量門檻
	if quantityInCups < profile.MinQuantity {
		score -= 30
	}

	// 分類命中商店的強項
	if _, ok := profile.GoodFor[category]; ok {
		score += 30
	}

	// 分類在商店的迴避清單上
	if _, ok := profile.Avoid[category]; ok {
		score -= 40
	}

	// 大份量去量販店
	if profile.Type == "bulk" && quantityInCups >= 5.0 {
		score += 30
	}

	// 小份量去專門店
	if profile.Type == "specialty" && quantityInCups < 2.0 {
		score += 25
	}
	if profile.Type == "specialty" && quantityInCups < 0.5 {
		score += 20
	}

	// 新鮮香草強烈偏好專門店
	if category == "fresh_herbs" {
		if profile.Type == "specialty" {
			score += 40
		} else if profile.Type == "bulk" {
			score -= 60
		}
	}

	// 香料類偏好專門店
	if strings.Contains(nameLower, "powder") || strings.Contains(nameLower, "paprika") || strings.Contains(nameLower, "cumin") {
		if profile.Type == "specialty" && quantityInCups < 1.0 {
			score += 30
		} else if profile.Type == "bulk" && quantityInCups < 1.0 {
			score -= 40
		}
	}

	// 最終分數限制在 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Route 把購物清單重新路由到已選商店
// 單一商店是 no-op；多商店時忽略既有分組，從完整的去重食材集合重新指派
func (r *Router) Route(list *common.ShoppingList, selectedStores []string) *common.ShoppingList {
	if list == nil || len(selectedStores) <= 1 {
		common.LogInfo("只選了一間商店，跳過路由")
		return list
	}

	// 正規化商店 ID（小寫、空白轉底線、去掉撇號）
	stores := make([]string, 0, len(selectedStores))
	for _, s := range selectedStores {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.ReplaceAll(s, " ", "_")
		s = strings.ReplaceAll(s, "'", "")
		stores = append(stores, s)
	}

	// 收集所有不重複的食材，忽略先前的商店指派；保留第一次出現的版本
	unique := make(map[string]common.ShoppingItem)
	var order []string
	for _, storeID := range sortedStoreKeys(list.Stores) {
		for _, item := range list.Stores[storeID].Items {
			key := strings.TrimSpace(strings.ToLower(item.Item))
			if _, seen := unique[key]; !seen {
				unique[key] = item
				order = append(order, key)
			}
		}
	}

	common.LogInfo("開始路由",
		zap.Int("unique_ingredients", len(unique)),
		zap.Strings("selected_stores", stores),
	)

	// 為每個食材挑出得分最高的商店；同分時依選擇順序取先出現者
	routing := make(map[string][]common.ShoppingItem)
	for _, key := range order {
		item := unique[key]

		amount := parseDisplayAmount(item.Amount)
		unit := item.Unit
		if unit == "" {
			unit = "cup"
		}
		cups := quantity.ToStandardCups(amount, unit)

		bestStore := stores[0]
		bestScore := -1.0
		for _, storeID := range stores {
			score := r.ScoreStore(storeID, item.Item, cups)
			if score > bestScore {
				bestScore = score
				bestStore = storeID
			}
		}

		item.Reason = r.RoutingExplanation(item.Item, bestStore, cups)
		routing[bestStore] = append(routing[bestStore], item)

		if cups < 1.0 {
			common.LogDebug("小份量路由",
				zap.String("item", item.Item),
				zap.Float64("cups", cups),
				zap.String("store", bestStore),
			)
		}
	}

	// 重建購物清單：只保留有東西的商店，品項依名稱排序
	routed := &common.ShoppingList{
		StartDate:  list.StartDate,
		EndDate:    list.EndDate,
		People:     list.People,
		Budget:     list.Budget,
		TotalItems: len(unique),
		Stores:     make(map[string]*common.StoreBucket),
	}

	for _, storeID := range stores {
		items := routing[storeID]
		if len(items) == 0 {
			continue
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].Item < items[j].Item
		})

		profile := r.GetStoreProfile(storeID)
		routed.Stores[storeID] = &common.StoreBucket{
			StoreInfo: common.StoreInfo{
				Name: profile.Name,
				Type: profile.Type,
			},
			Items: items,
			Count: len(items),
		}
	}

	common.LogInfo("路由完成",
		zap.Int("stores_used", len(routed.Stores)),
		zap.Int("total_items", routed.TotalItems),
	)

	return routed
}

// RoutingExplanation 產生人類可讀的路由理由
func (r *Router) RoutingExplanation(itemName, storeID string, quantityInCups float64) string {
	category := r.CategorizeIngredient(itemName)
	profile := r.GetStoreProfile(storeID)

	var reasons []string

	if quantityInCups >= 5.0 && profile.Type == "bulk" {
		reasons = append(reasons, "large quantity, good for bulk purchasing")
	} else if quantityInCups < 1.0 && profile.Type == "specialty" {
		reasons = append(reasons, "small amount, better at specialty stores")
	}

	if _, ok := profile.GoodFor[category]; ok {
		reasons = append(reasons, "store specializes in "+strings.ReplaceAll(category, "_", " "))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "best available option")
	}

	return strings.Join(reasons, " - ")
}

// parseDisplayAmount 把展示用的數量字串轉回數字
// 解析失敗時退回 1.0（展示層可能塞進任意字串）
func parseDisplayAmount(amount string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		common.LogWarn("無法解析數量，改用 1.0", zap.String("amount", amount))
		return 1.0
	}
	return v
}

func sortedStoreKeys(stores map[string]*common.StoreBucket) []string {
	keys := make([]string, 0, len(stores))
	for k := range stores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
