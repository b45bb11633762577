package shopping

import (
	"regexp"
	"strconv"
	"strings"
)

// Cleaner 食材名稱清理器
// 修掉食譜資料常見的重複寫法（"dates medjool dates"）並依最終數量做單複數處理；
// 純展示用途，絕不影響彙總鍵
type Cleaner struct {
	redundancyRules []rewriteRule
	pluralUnits     map[string]string
}

// rewriteRule 一條改寫規則
type rewriteRule struct {
	pattern *regexp.Regexp
	replace string
}

// NewCleaner 創建新的名稱清理器
func NewCleaner() *Cleaner {
	// 規則依序套用，後面的規則假設前面的已生效，不可重排
	rules := []rewriteRule{
		// "white egg white" → "egg whites"
		{regexp.MustCompile(`(?i)\b(\d+)\s+white\s+egg\s+white\b`), "${1} egg whites"},
		{regexp.MustCompile(`(?i)\b(\d+)\s+whites\s+egg\s+whites\b`), "${1} egg whites"},

		// "dates medjool dates" → "medjool dates"
		{regexp.MustCompile(`(?i)\b(\d+)\s+dates\s+medjool\s+dates\b`), "${1} medjool dates"},
		{regexp.MustCompile(`(?i)\b(\d+)\s+dates\s+dates\b`), "${1} dates"},

		// "scoop protein powder" → "scoops protein powder"
		{regexp.MustCompile(`(?i)\b(\d+)\s+scoop\s+`), "${1} scoops "},

		// "mediums apples" → "medium apples"
		{regexp.MustCompile(`(?i)\b(\d+)\s+mediums\s+`), "${1} medium "},
		{regexp.MustCompile(`(?i)\b(\d+)\s+wholes\s+`), "${1} whole "},
		{regexp.MustCompile(`(?i)\b(\d+)\s+cloves\s+`), "${1} cloves "},

		// "lemons lemon" → "lemons"
		{regexp.MustCompile(`(?i)\b(\d+)\s+lemons\s+lemon\b`), "${1} lemons"},
		{regexp.MustCompile(`(?i)\b(\d+)\s+lemon\s+lemons\b`), "${1} lemons"},

		// 數量大於 1 時把常見單數改成複數
		{regexp.MustCompile(`(?i)\b([2-9]|[1-9]\d+)\s+medium\s+onion\b`), "${1} medium onions"},
		{regexp.MustCompile(`(?i)\b([2-9]|[1-9]\d+)\s+medium\s+apple\b`), "${1} medium apples"},
		{regexp.MustCompile(`(?i)\b([2-9]|[1-9]\d+)\s+medium\s+lemon\b`), "${1} medium lemons"},
	}

	return &Cleaner{
		redundancyRules: rules,
		pluralUnits: map[string]string{
			"slice":  "slices",
			"piece":  "pieces",
			"scoop":  "scoops",
			"clove":  "cloves",
			"leaf":   "leaves",
			"sprig":  "sprigs",
			"stalk":  "stalks",
			"strip":  "strips",
			"medium": "medium", // medium 不變複數
			"whole":  "whole",  // whole 不變複數
		},
	}
}

var (
	leadingAmountPattern = regexp.MustCompile(`^\d+\.?\d*\s+`)
	multiSpacePattern    = regexp.MustCompile(`\s+`)
)

// 名稱複數化的白名單
var pluralizableItems = map[string]struct{}{
	"onion":  {},
	"apple":  {},
	"lemon":  {},
	"banana": {},
	"potato": {},
}

// Clean 清理食材名稱
// 先把數量接到名稱前面讓規則能匹配，套用完再把數量拆掉
func (c *Cleaner) Clean(item string, amount float64) string {
	if item == "" {
		return item
	}

	cleaned := strings.TrimSpace(item)
	fullText := FormatAmount(amount) + " " + cleaned

	for _, rule := range c.redundancyRules {
		fullText = rule.pattern.ReplaceAllString(fullText, rule.replace)
	}

	// 拆掉開頭的數量，只留清理後的名稱
	cleaned = strings.TrimSpace(leadingAmountPattern.ReplaceAllString(fullText, ""))
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")

	// 依數量做單複數處理
	if amount > 1 && !strings.HasSuffix(cleaned, "s") && !strings.HasSuffix(cleaned, "ch") {
		if strings.Contains(cleaned, "egg white") && !strings.Contains(cleaned, "egg whites") {
			cleaned = strings.ReplaceAll(cleaned, "egg white", "egg whites")
		} else if _, ok := pluralizableItems[cleaned]; ok {
			cleaned += "s"
		}
	}

	return strings.TrimSpace(cleaned)
}

// PluralizeUnit 依數量把單位改成複數
// 縮寫單位（tsp、tbsp、oz、lb、cup）不做複數化
func (c *Cleaner) PluralizeUnit(unit string, amount float64) string {
	if unit == "" || amount <= 1 {
		return unit
	}

	unitLower := strings.TrimSpace(strings.ToLower(unit))

	// 已經是複數
	if strings.HasSuffix(unitLower, "s") {
		return unit
	}

	// 不規則複數表
	if plural, ok := c.pluralUnits[unitLower]; ok {
		return plural
	}

	// 一般英文複數規則
	if strings.HasSuffix(unitLower, "y") {
		return unitLower[:len(unitLower)-1] + "ies"
	}
	switch unitLower {
	case "tsp", "tbsp", "oz", "lb", "cup":
		return unit
	}

	return unit + "s"
}

// FormatAmount 把數量格式化成展示字串
// 整數不帶小數點，其餘照實輸出（上游已做過四捨五入）
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
