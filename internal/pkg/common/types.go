package common

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FlexString 兼容字串與數字的 JSON 欄位
// 食譜來源對 amount / servings 沒有格式保證，可能是數字、分數字串或 "as desired" 之類的佔位符
type FlexString string

// UnmarshalJSON 實現 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("invalid flexible string value: %s", string(data))
}

// String 返回底層字串
func (f FlexString) String() string {
	return string(f)
}

// IngredientLine 食譜中的一行食材
type IngredientLine struct {
	Item   string     `json:"item"`
	Amount FlexString `json:"amount"`
	Unit   string     `json:"unit"`
	Prep   string     `json:"prep,omitempty"`
}

// IngredientList 食材列表
// 食譜來源可能給出平面列表，也可能給出「分段名稱 → 列表」的巢狀結構；
// 解碼時統一攤平成平面列表，分段名稱丟棄，之後的彙總層只會看到一種形狀
type IngredientList []IngredientLine

// UnmarshalJSON 實現 json.Unmarshaler
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	var flat []IngredientLine
	if err := json.Unmarshal(data, &flat); err == nil {
		*l = flat
		return nil
	}

	var sectioned map[string][]IngredientLine
	if err := json.Unmarshal(data, &sectioned); err != nil {
		return fmt.Errorf("ingredients must be a list or a section map: %w", err)
	}

	// 依分段名稱排序攤平，保證解碼結果可重現
	names := make([]string, 0, len(sectioned))
	for name := range sectioned {
		names = append(names, name)
	}
	sort.Strings(names)

	var flattened []IngredientLine
	for _, name := range names {
		flattened = append(flattened, sectioned[name]...)
	}
	*l = flattened
	return nil
}

// Recipe 食譜
type Recipe struct {
	Name        string         `json:"name"`
	Cuisine     string         `json:"cuisine"`
	MealType    string         `json:"meal_type"`
	Servings    int            `json:"servings"`
	Time        string         `json:"time,omitempty"`
	Ingredients IngredientList `json:"ingredients"`
}

// MealSlot 一餐的安排
type MealSlot struct {
	Recipe   string     `json:"recipe"`
	Cuisine  string     `json:"cuisine,omitempty"`
	Time     string     `json:"time,omitempty"`
	Servings FlexString `json:"servings,omitempty"`
}

// Day 一天的菜單
type Day struct {
	Day   int                  `json:"day"`
	Date  string               `json:"date"`
	Meals map[string]*MealSlot `json:"meals"`
}

// MealPlan 多日菜單計畫
type MealPlan struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	People    int    `json:"people"`
	Days      []Day  `json:"days"`
}

// StoreInfo 購物清單中的商店資訊
type StoreInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ShoppingItem 購物清單中的一項
type ShoppingItem struct {
	ID     string   `json:"id"`
	Item   string   `json:"item"`
	Amount string   `json:"amount"`
	Unit   string   `json:"unit"`
	UsedIn []string `json:"used_in"`
	Reason string   `json:"reason,omitempty"` // 路由說明（僅在多商店路由後填入）
}

// StoreBucket 單一商店的購物清單
type StoreBucket struct {
	StoreInfo StoreInfo      `json:"store_info"`
	Items     []ShoppingItem `json:"items"`
	Count     int            `json:"count"`
}

// ShoppingList 依商店分組的購物清單
type ShoppingList struct {
	StartDate  string                  `json:"start_date"`
	EndDate    string                  `json:"end_date"`
	People     int                     `json:"people"`
	Budget     float64                 `json:"budget"`
	TotalItems int                     `json:"total_items"`
	Stores     map[string]*StoreBucket `json:"stores"`
}

// PriceQuote 價格報價
type PriceQuote struct {
	Item         string    `json:"item"`
	Price        float64   `json:"price"`
	Unit         string    `json:"unit"`
	PricePerUnit float64   `json:"price_per_unit"`
	UnitType     string    `json:"unit_type"`
	Store        string    `json:"store"`
	Source       string    `json:"source"`
	InStock      bool      `json:"in_stock"`
	LastUpdated  time.Time `json:"last_updated"`
	Confidence   string    `json:"confidence"`
}

// 報價信心等級
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// RecipeCatalog 食譜目錄
// 彙總與路由只依賴查詢介面，不關心食譜如何載入
type RecipeCatalog interface {
	Lookup(name string) (*Recipe, bool)
}

// StoreCatalog 商店目錄
type StoreCatalog interface {
	List() []string
}

// NormalizeName 統一名稱格式（小寫、壓縮空白）
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
