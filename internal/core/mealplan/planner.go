package mealplan

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"meal-prep-api/internal/pkg/common"

	"go.uber.org/zap"
)

// 判斷蛋白質重複用的關鍵字
var proteinKeywords = []string{
	"chicken", "turkey", "salmon", "fish", "catfish",
	"barramundi", "whiting", "duck", "lobster", "crab",
}

// 各餐的預設時段
var mealTimes = map[string]string{
	"breakfast":       "7:30am",
	"snack_morning":   "10:00am",
	"lunch":           "12:30pm",
	"snack_afternoon": "3:30pm",
	"dinner":          "6:30pm",
}

// Options 排餐選項
type Options struct {
	Days         int
	People       int
	LookbackDays int       // 同菜系 / 同蛋白質的回看天數
	Excluded     []string  // 排除含這些食材的食譜（底線視為空白）
	StartDate    time.Time // 零值表示今天
}

// Planner 菜單排程服務
// 隨機排出多日菜單，同時避免近幾天重複同菜系或同蛋白質
type Planner struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewPlanner 創建新的菜單排程服務
func NewPlanner(catalog *Catalog, seed int64) *Planner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Planner{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Generate 產生多日菜單計畫
func (p *Planner) Generate(opts Options) (*common.MealPlan, error) {
	if opts.Days <= 0 {
		opts.Days = 14
	}
	if opts.People <= 0 {
		opts.People = 1
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 3
	}

	start := opts.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	breakfasts := p.filterExcluded(p.catalog.ListByMealType(MealTypeBreakfast), opts.Excluded)
	lunchDinners := p.filterExcluded(p.catalog.ListByMealType(MealTypeLunchDinner), opts.Excluded)
	snacks := p.catalog.ListByMealType(MealTypeSnack)
	treats := p.catalog.ListByMealType(MealTypeSweetTreat)

	if len(breakfasts) == 0 || len(lunchDinners) == 0 {
		return nil, common.ErrInvalidMealPlan
	}

	plan := &common.MealPlan{
		StartDate: start.Format("2006-01-02"),
		EndDate:   start.AddDate(0, 0, opts.Days-1).Format("2006-01-02"),
		People:    opts.People,
	}

	peopleServings := common.FlexString(strconv.Itoa(opts.People))

	var selectedBreakfasts, selectedLunches, selectedDinners []*common.Recipe

	for dayNum := 0; dayNum < opts.Days; dayNum++ {
		date := start.AddDate(0, 0, dayNum)

		// 早餐的回看窗比正餐多一天，早餐食譜通常比較少
		breakfast := p.pickWithVariety(breakfasts, selectedBreakfasts, opts.LookbackDays+1)
		selectedBreakfasts = append(selectedBreakfasts, breakfast)

		lunch := p.pickWithVariety(lunchDinners, selectedLunches, opts.LookbackDays)
		selectedLunches = append(selectedLunches, lunch)

		dinner := p.pickDinner(lunchDinners, selectedDinners, lunch, opts.LookbackDays)
		selectedDinners = append(selectedDinners, dinner)

		meals := map[string]*common.MealSlot{
			"breakfast": {
				Recipe:   breakfast.Name,
				Cuisine:  breakfast.Cuisine,
				Time:     mealTimes["breakfast"],
				Servings: "1",
			},
			"lunch": {
				Recipe:   lunch.Name,
				Cuisine:  lunch.Cuisine,
				Time:     mealTimes["lunch"],
				Servings: peopleServings,
			},
			"dinner": {
				Recipe:   dinner.Name,
				Cuisine:  dinner.Cuisine,
				Time:     mealTimes["dinner"],
				Servings: peopleServings,
			},
		}

		if len(snacks) > 0 {
			snackAM := p.pickSnack(snacks, dayNum, nil)
			snackPM := p.pickSnack(snacks, -1, snackAM)
			meals["snack_morning"] = &common.MealSlot{
				Recipe:   snackAM.Name,
				Time:     mealTimes["snack_morning"],
				Servings: "1",
			}
			meals["snack_afternoon"] = &common.MealSlot{
				Recipe:   snackPM.Name,
				Time:     mealTimes["snack_afternoon"],
				Servings: "1",
			}
		}

		// 甜點每週兩三次
		if len(treats) > 0 && (dayNum%3 == 0 || dayNum%5 == 0) {
			treat := treats[p.rng.Intn(len(treats))]
			meals["sweet_treat"] = &common.MealSlot{
				Recipe:   treat.Name,
				Cuisine:  treat.Cuisine,
				Servings: "as desired",
			}
		}

		plan.Days = append(plan.Days, common.Day{
			Day:   dayNum + 1,
			Date:  date.Format("2006-01-02"),
			Meals: meals,
		})
	}

	common.LogInfo("菜單計畫產生完成",
		zap.Int("days", opts.Days),
		zap.Int("people", opts.People),
		zap.String("start_date", plan.StartDate),
	)

	return plan, nil
}

// filterExcluded 過濾掉含有排除食材的食譜
func (p *Planner) filterExcluded(recipes []*common.Recipe, excluded []string) []*common.Recipe {
	if len(excluded) == 0 {
		return recipes
	}

	terms := make([]string, 0, len(excluded))
	for _, e := range excluded {
		terms = append(terms, strings.ReplaceAll(strings.ToLower(e), "_", " "))
	}

	var filtered []*common.Recipe
	for _, recipe := range recipes {
		if !containsExcluded(recipe, terms) {
			filtered = append(filtered, recipe)
		}
	}
	return filtered
}

func containsExcluded(recipe *common.Recipe, terms []string) bool {
	for _, line := range recipe.Ingredients {
		itemLower := strings.ToLower(line.Item)
		for _, term := range terms {
			if strings.Contains(itemLower, term) {
				return true
			}
		}
	}
	return false
}

// pickWithVariety 隨機挑一道，優先避免近幾天重複的菜系與蛋白質
// 沒有符合的候選時退回全部，寧可重複也不開天窗
func (p *Planner) pickWithVariety(pool, recent []*common.Recipe, lookback int) *common.Recipe {
	var options []*common.Recipe
	for _, candidate := range pool {
		if p.hasVariety(recent, candidate, lookback) {
			options = append(options, candidate)
		}
	}
	if len(options) == 0 {
		options = pool
	}
	return options[p.rng.Intn(len(options))]
}

// pickDinner 挑晚餐，額外避免跟當天午餐同一道
func (p *Planner) pickDinner(pool, recent []*common.Recipe, lunch *common.Recipe, lookback int) *common.Recipe {
	var options []*common.Recipe
	for _, candidate := range pool {
		if candidate.Name != lunch.Name && p.hasVariety(recent, candidate, lookback) {
			options = append(options, candidate)
		}
	}
	if len(options) == 0 {
		for _, candidate := range pool {
			if candidate.Name != lunch.Name {
				options = append(options, candidate)
			}
		}
	}
	if len(options) == 0 {
		options = pool // 只有一道可選時只好重複
	}
	return options[p.rng.Intn(len(options))]
}

// pickSnack 挑點心
// dayNum 每逢 3 的倍數優先挑優格類；exclude 用來讓下午點心跟上午不同
func (p *Planner) pickSnack(snacks []*common.Recipe, dayNum int, exclude *common.Recipe) *common.Recipe {
	var options []*common.Recipe
	if dayNum >= 0 && dayNum%3 == 0 {
		for _, s := range snacks {
			if strings.Contains(s.Name, "Yogurt") {
				options = append(options, s)
			}
		}
	}
	if len(options) == 0 {
		for _, s := range snacks {
			if exclude == nil || s.Name != exclude.Name {
				options = append(options, s)
			}
		}
	}
	if len(options) == 0 {
		options = snacks
	}
	return options[p.rng.Intn(len(options))]
}

// hasVariety 檢查候選食譜與最近幾道是否撞菜系或撞蛋白質
func (p *Planner) hasVariety(recent []*common.Recipe, candidate *common.Recipe, lookback int) bool {
	if lookback > len(recent) {
		lookback = len(recent)
	}
	window := recent[len(recent)-lookback:]

	for _, r := range window {
		if candidate.Cuisine != "" && r.Cuisine == candidate.Cuisine {
			return false
		}
	}

	candidateProteins := extractProteins(candidate)
	for _, r := range window {
		for protein := range extractProteins(r) {
			if _, ok := candidateProteins[protein]; ok {
				return false
			}
		}
	}

	return true
}

func extractProteins(recipe *common.Recipe) map[string]struct{} {
	proteins := make(map[string]struct{})
	for _, line := range recipe.Ingredients {
		itemLower := strings.ToLower(line.Item)
		for _, keyword := range proteinKeywords {
			if strings.Contains(itemLower, keyword) {
				proteins[keyword] = struct{}{}
			}
		}
	}
	return proteins
}
