package quantity

import (
	"strconv"
	"strings"
)

// negligibleAmount 低於此值的數量視為可忽略（例如混進來的 "0.05 cup" 鹽）
const negligibleAmount = 0.1

// skipTokens 非數量的佔位符，一律不計入總量
var skipTokens = map[string]struct{}{
	"varies":     {},
	"optional":   {},
	"":           {},
	"to taste":   {},
	"as needed":  {},
	"pinch":      {},
	"dash":       {},
	"handful":    {},
	"sprinkle":   {},
	"as desired": {},
}

// Parse 解析食材數量
// 支援純數字、分數（"1/2"）與帶分數（"1 1/2"）；無法解析或可忽略的輸入
// 一律返回 ok=false，絕不報錯——食譜來源對格式沒有任何保證
func Parse(amountRaw, unitRaw string) (float64, bool) {
	text := strings.TrimSpace(amountRaw)

	// 佔位符直接跳過
	if _, skip := skipTokens[strings.ToLower(text)]; skip {
		return 0, false
	}

	var value float64
	if strings.Contains(text, "/") {
		parsed, ok := parseFraction(text)
		if !ok {
			return 0, false
		}
		value = parsed
	} else {
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	}

	// 低於門檻視為可忽略
	if value < negligibleAmount {
		return 0, false
	}

	return value, true
}

// parseFraction 解析 "1/2" 或 "1 1/2" 形式的分數
func parseFraction(text string) (float64, bool) {
	whole := 0.0
	frac := text

	// 帶分數："1 1/2"
	if idx := strings.Index(text, " "); idx != -1 {
		w, err := strconv.ParseFloat(strings.TrimSpace(text[:idx]), 64)
		if err != nil {
			return 0, false
		}
		whole = w
		frac = strings.TrimSpace(text[idx+1:])
	}

	parts := strings.SplitN(frac, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	denom, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || denom == 0 {
		return 0, false
	}

	return whole + num/denom, true
}

// ParseServings 解析一餐的份數
// "as desired" 或任何無法解析的值都視為 1（不縮放），永不失敗
func ParseServings(raw string) int {
	text := strings.TrimSpace(raw)
	if text == "" || strings.EqualFold(text, "as desired") {
		return 1
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
