package quantity

import (
	"math"
	"strings"
)

// standardCups 各單位換算成「標準杯」的倍率
// 這是為了讓路由器能跨單位比較份量的粗略換算，不是物理上精確的轉換
// （例如 1 lb ≈ 2 cups 假設一般液體密度）；路由器的評分門檻是針對這組常數調的，
// 改動前要連同評分規則一起重新校準
var standardCups = map[string]float64{
	"cup":         1.0,
	"cups":        1.0,
	"tablespoon":  0.0625,
	"tablespoons": 0.0625,
	"tbsp":        0.0625,
	"teaspoon":    0.0208,
	"teaspoons":   0.0208,
	"tsp":         0.0208,
	"pound":       2.0,
	"pounds":      2.0,
	"lb":          2.0,
	"lbs":         2.0,
	"ounce":       0.125,
	"ounces":      0.125,
	"oz":          0.125,
	"gram":        0.004,
	"grams":       0.004,
	"g":           0.004,
	"liter":       4.227,
	"liters":      4.227,
	"l":           4.227,
	"milliliter":  0.004,
	"milliliters": 0.004,
	"ml":          0.004,
	"pinch":       0.01,
	"dash":        0.01,
	"to taste":    0.01,
}

// ToStandardCups 將任意單位的數量換算成標準杯
// 未知單位視為倍率 1.0，空單位視為 cup
func ToStandardCups(amount float64, unit string) float64 {
	unitLower := strings.TrimSpace(strings.ToLower(unit))
	if unitLower == "" {
		unitLower = "cup"
	}

	multiplier, ok := standardCups[unitLower]
	if !ok {
		multiplier = 1.0
	}

	return amount * multiplier
}

// ToDisplayUnit 將彙總後的總量換算成好讀的單位
// 只做向上換算：tsp ≥3 → tbsp、tsp ≥48 / tbsp ≥16 → cup、oz ≥16 → lb；
// 未達門檻則只做四捨五入（<1 取兩位小數，否則取一位），單位不變
func ToDisplayUnit(amount float64, unit string) (float64, string) {
	switch strings.TrimSpace(strings.ToLower(unit)) {
	case "tsp", "teaspoon", "teaspoons":
		if amount >= 48 { // 1 cup = 48 tsp
			cups := round2(amount / 48)
			return cups, cupUnit(cups)
		}
		if amount >= 3 { // 1 tbsp = 3 tsp
			return round1(amount / 3), "tbsp"
		}
	case "tbsp", "tablespoon", "tablespoons":
		if amount >= 16 { // 1 cup = 16 tbsp
			cups := round2(amount / 16)
			return cups, cupUnit(cups)
		}
	case "oz", "ounce", "ounces":
		if amount >= 16 { // 1 lb = 16 oz
			lbs := round1(amount / 16)
			if lbs == 1 {
				return lbs, "lb"
			}
			return lbs, "lbs"
		}
	}

	// 未達換算門檻，只做四捨五入
	if amount < 1 {
		return round2(amount), unit
	}
	return round1(amount), unit
}

func cupUnit(cups float64) string {
	if cups == 1 {
		return "cup"
	}
	return "cups"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
