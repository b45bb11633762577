package mealplan

import (
	"os"
	"sort"

	"meal-prep-api/internal/pkg/common"

	"go.uber.org/zap"
)

// 餐點類型
const (
	MealTypeBreakfast   = "breakfast"
	MealTypeLunchDinner = "lunch_dinner"
	MealTypeSnack       = "snack"
	MealTypeSweetTreat  = "sweet_treat"
)

// Catalog 記憶體內的食譜目錄
// 同時提供名稱查詢（彙總用）與依餐點類型列舉（排餐用）；
// 載入後唯讀，多個 goroutine 可併發查詢
type Catalog struct {
	byName map[string]*common.Recipe
	byType map[string][]*common.Recipe
	stores []string
}

// NewCatalog 創建新的食譜目錄
func NewCatalog(recipes []common.Recipe) *Catalog {
	c := &Catalog{
		byName: make(map[string]*common.Recipe),
		byType: make(map[string][]*common.Recipe),
		stores: []string{"costco", "whole_foods", "petes_fresh_market", "aldi", "jewel"},
	}

	for i := range recipes {
		r := &recipes[i]
		if r.Name == "" {
			continue
		}
		c.byName[common.NormalizeName(r.Name)] = r
		if r.MealType != "" {
			c.byType[r.MealType] = append(c.byType[r.MealType], r)
		}
	}

	return c
}

// LoadCatalog 從 JSON 檔載入食譜目錄
// 檔名為空或檔案不存在時退回內建的範例食譜
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(seedRecipes()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			common.LogWarn("食譜檔不存在，使用內建食譜", zap.String("path", path))
			return NewCatalog(seedRecipes()), nil
		}
		return nil, err
	}

	var recipes []common.Recipe
	if err := common.ParseJSONBytes(data, &recipes); err != nil {
		return nil, err
	}

	common.LogInfo("食譜目錄載入完成",
		zap.String("path", path),
		zap.Int("recipes", len(recipes)),
	)
	return NewCatalog(recipes), nil
}

// Lookup 依名稱查詢食譜（大小寫不敏感）
func (c *Catalog) Lookup(name string) (*common.Recipe, bool) {
	r, ok := c.byName[common.NormalizeName(name)]
	return r, ok
}

// ListByMealType 依餐點類型列舉食譜
func (c *Catalog) ListByMealType(mealType string) []*common.Recipe {
	return c.byType[mealType]
}

// All 返回排序後的全部食譜
func (c *Catalog) All() []*common.Recipe {
	recipes := make([]*common.Recipe, 0, len(c.byName))
	for _, r := range c.byName {
		recipes = append(recipes, r)
	}
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].Name < recipes[j].Name
	})
	return recipes
}

// List 返回支持的商店 ID 列表
func (c *Catalog) List() []string {
	out := make([]string, len(c.stores))
	copy(out, c.stores)
	return out
}

// seedRecipes 內建的範例食譜
// 正式部署應透過 plan.recipes_file 提供完整食譜庫，這組只保證服務開箱可用
func seedRecipes() []common.Recipe {
	return []common.Recipe{
		{
			Name: "Veggie Scramble", Cuisine: "american", MealType: MealTypeBreakfast, Servings: 1,
			Ingredients: common.IngredientList{
				{Item: "eggs", Amount: "3", Unit: "whole"},
				{Item: "spinach", Amount: "1", Unit: "cup"},
				{Item: "bell pepper", Amount: "1/2", Unit: "cup"},
				{Item: "olive oil", Amount: "1", Unit: "tbsp"},
				{Item: "salt", Amount: "to taste", Unit: ""},
			},
		},
		{
			Name: "Overnight Oats", Cuisine: "american", MealType: MealTypeBreakfast, Servings: 1,
			Ingredients: common.IngredientList{
				{Item: "oats", Amount: "1/2", Unit: "cup"},
				{Item: "milk", Amount: "1", Unit: "cup"},
				{Item: "honey", Amount: "1", Unit: "tbsp"},
				{Item: "banana", Amount: "1", Unit: "whole"},
			},
		},
		{
			Name: "Shakshuka", Cuisine: "middle_eastern", MealType: MealTypeBreakfast, Servings: 2,
			Ingredients: common.IngredientList{
				{Item: "eggs", Amount: "4", Unit: "whole"},
				{Item: "tomato", Amount: "3", Unit: "cup"},
				{Item: "onion", Amount: "1", Unit: "medium"},
				{Item: "cumin", Amount: "1", Unit: "tsp"},
				{Item: "smoked paprika", Amount: "1", Unit: "tsp"},
			},
		},
		{
			Name: "Chicken Stir Fry", Cuisine: "chinese", MealType: MealTypeLunchDinner, Servings: 2,
			Ingredients: common.IngredientList{
				{Item: "chicken breast", Amount: "1", Unit: "lb"},
				{Item: "broccoli", Amount: "2", Unit: "cup"},
				{Item: "soy sauce", Amount: "2", Unit: "tbsp"},
				{Item: "rice", Amount: "1.5", Unit: "cup"},
				{Item: "sesame oil", Amount: "1", Unit: "tbsp"},
				{Item: "garlic", Amount: "3", Unit: "clove"},
			},
		},
		{
			Name: "Salmon Teriyaki Bowl", Cuisine: "japanese", MealType: MealTypeLunchDinner, Servings: 2,
			Ingredients: common.IngredientList{
				{Item: "salmon", Amount: "1", Unit: "lb"},
				{Item: "rice", Amount: "1.5", Unit: "cup"},
				{Item: "soy sauce", Amount: "3", Unit: "tbsp"},
				{Item: "mirin", Amount: "1", Unit: "tbsp"},
				{Item: "green beans", Amount: "1", Unit: "cup"},
			},
		},
		{
			Name: "Turkey Chili", Cuisine: "american", MealType: MealTypeLunchDinner, Servings: 4,
			Ingredients: common.IngredientList{
				{Item: "ground turkey", Amount: "1.5", Unit: "lb"},
				{Item: "black beans", Amount: "2", Unit: "cup"},
				{Item: "tomato", Amount: "2", Unit: "cup"},
				{Item: "chili powder", Amount: "2", Unit: "tbsp"},
				{Item: "cumin", Amount: "1", Unit: "tbsp"},
				{Item: "onion", Amount: "1", Unit: "medium"},
			},
		},
		{
			Name: "Chana Masala", Cuisine: "indian", MealType: MealTypeLunchDinner, Servings: 4,
			Ingredients: common.IngredientList{
				{Item: "chickpeas", Amount: "3", Unit: "cup"},
				{Item: "tomato", Amount: "2", Unit: "cup"},
				{Item: "garam masala", Amount: "1", Unit: "tbsp"},
				{Item: "turmeric", Amount: "1", Unit: "tsp"},
				{Item: "ginger", Amount: "1", Unit: "tbsp"},
				{Item: "rice", Amount: "2", Unit: "cup"},
			},
		},
		{
			Name: "Catfish Tacos", Cuisine: "mexican", MealType: MealTypeLunchDinner, Servings: 2,
			Ingredients: common.IngredientList{
				{Item: "catfish", Amount: "1", Unit: "lb"},
				{Item: "corn tortillas", Amount: "6", Unit: "piece"},
				{Item: "cabbage", Amount: "1", Unit: "cup"},
				{Item: "lime", Amount: "1", Unit: "whole"},
				{Item: "fresh cilantro", Amount: "2", Unit: "tbsp"},
			},
		},
		{
			Name: "Greek Yogurt Power Bowl", Cuisine: "greek", MealType: MealTypeSnack, Servings: 1,
			Ingredients: common.IngredientList{
				{Item: "greek yogurt", Amount: "1", Unit: "cup"},
				{Item: "honey", Amount: "1", Unit: "tsp"},
				{Item: "walnuts", Amount: "2", Unit: "tbsp"},
			},
		},
		{
			Name: "Apple with Almond Butter", Cuisine: "american", MealType: MealTypeSnack, Servings: 1,
			Ingredients: common.IngredientList{
				{Item: "apple", Amount: "1", Unit: "whole"},
				{Item: "almond butter", Amount: "2", Unit: "tbsp"},
			},
		},
		{
			Name: "Hummus and Veggies", Cuisine: "middle_eastern", MealType: MealTypeSnack, Servings: 1,
			Ingredients: common.IngredientList{
				{Item: "hummus", Amount: "1/4", Unit: "cup"},
				{Item: "carrot", Amount: "1", Unit: "cup"},
				{Item: "cucumber", Amount: "1/2", Unit: "cup"},
			},
		},
		{
			Name: "Dark Chocolate Date Bites", Cuisine: "american", MealType: MealTypeSweetTreat, Servings: 2,
			Ingredients: common.IngredientList{
				{Item: "medjool dates", Amount: "6", Unit: "whole"},
				{Item: "dark chocolate", Amount: "2", Unit: "oz"},
				{Item: "sea salt", Amount: "pinch", Unit: ""},
			},
		},
	}
}
