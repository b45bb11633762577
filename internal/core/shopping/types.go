package shopping

import (
	"sort"
	"strings"

	"meal-prep-api/internal/pkg/common"
)

// AggregatedIngredient 單一食材的彙總結果
// 以 (正規化名稱, 單位) 為鍵的累加桶；Total 只累加成功解析出的數量，
// 無法解析的引用只做展示用的記帳（Item / Recipes）
type AggregatedIngredient struct {
	Item    string              // 第一次出現的原始寫法，展示與分類都用它
	Unit    string              // 記錄時的單位
	Total   float64             // 已解析數量的累計
	Recipes map[string]struct{} // 引用此食材的食譜（集合語意，自動去重）
}

// RecipeNames 返回排序後的食譜名稱
func (a *AggregatedIngredient) RecipeNames() []string {
	names := make([]string, 0, len(a.Recipes))
	for name := range a.Recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AggregationKey 計算彙總桶的鍵
// 小寫加壓縮空白，名稱與單位以底線相接；展示層的清理不影響這個鍵
func AggregationKey(item, unit string) string {
	return common.NormalizeName(item) + "_" + strings.TrimSpace(strings.ToLower(unit))
}
