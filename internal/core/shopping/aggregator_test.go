package shopping

import (
	"testing"

	"meal-prep-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[string]*common.Recipe

func (c fakeCatalog) Lookup(name string) (*common.Recipe, bool) {
	r, ok := c[name]
	return r, ok
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"Fried Rice": {
			Name: "Fried Rice",
			Ingredients: common.IngredientList{
				{Item: "rice", Amount: "2", Unit: "cup"},
				{Item: "soy sauce", Amount: "1", Unit: "tbsp"},
				{Item: "salt", Amount: "to taste", Unit: ""},
			},
		},
		"Rice Pudding": {
			Name: "Rice Pudding",
			Ingredients: common.IngredientList{
				{Item: "Rice", Amount: "1/2", Unit: "cup"},
				{Item: "milk", Amount: "2", Unit: "cup"},
			},
		},
	}
}

func planWith(meals ...string) *common.MealPlan {
	plan := &common.MealPlan{StartDate: "2026-01-05", EndDate: "2026-01-06", People: 2}
	for i, recipe := range meals {
		plan.Days = append(plan.Days, common.Day{
			Day:   i + 1,
			Meals: map[string]*common.MealSlot{"dinner": {Recipe: recipe}},
		})
	}
	return plan
}

func TestAggregateSumsAcrossDays(t *testing.T) {
	agg := NewAggregator(testCatalog())

	totals := agg.Aggregate(planWith("Fried Rice", "Fried Rice"))

	rice, ok := totals[AggregationKey("rice", "cup")]
	require.True(t, ok)
	assert.InDelta(t, 4.0, rice.Total, 1e-9)
}

func TestAggregateMergesCaseInsensitive(t *testing.T) {
	agg := NewAggregator(testCatalog())

	// "rice" 與 "Rice" 同鍵，跨食譜合併
	totals := agg.Aggregate(planWith("Fried Rice", "Rice Pudding"))

	rice, ok := totals[AggregationKey("rice", "cup")]
	require.True(t, ok)
	assert.InDelta(t, 2.5, rice.Total, 1e-9)
	assert.Equal(t, []string{"Fried Rice", "Rice Pudding"}, rice.RecipeNames())
}

func TestAggregateRecipeSetDeduplicates(t *testing.T) {
	agg := NewAggregator(testCatalog())

	totals := agg.Aggregate(planWith("Fried Rice", "Fried Rice", "Fried Rice"))

	rice := totals[AggregationKey("rice", "cup")]
	require.NotNil(t, rice)
	assert.Equal(t, []string{"Fried Rice"}, rice.RecipeNames())
	assert.InDelta(t, 6.0, rice.Total, 1e-9)
}

func TestAggregateScalesByServings(t *testing.T) {
	agg := NewAggregator(testCatalog())

	plan := planWith("Fried Rice")
	plan.Days[0].Meals["dinner"].Servings = "4"

	totals := agg.Aggregate(plan)

	rice := totals[AggregationKey("rice", "cup")]
	require.NotNil(t, rice)
	assert.InDelta(t, 8.0, rice.Total, 1e-9)
}

func TestAggregateUnparseableServingsMeansOne(t *testing.T) {
	agg := NewAggregator(testCatalog())

	plan := planWith("Fried Rice")
	plan.Days[0].Meals["dinner"].Servings = "as desired"

	totals := agg.Aggregate(plan)

	rice := totals[AggregationKey("rice", "cup")]
	require.NotNil(t, rice)
	assert.InDelta(t, 2.0, rice.Total, 1e-9)
}

func TestAggregateSkipsUnknownRecipe(t *testing.T) {
	agg := NewAggregator(testCatalog())

	totals := agg.Aggregate(planWith("Fried Rice", "Nonexistent Dish"))

	rice := totals[AggregationKey("rice", "cup")]
	require.NotNil(t, rice)
	assert.InDelta(t, 2.0, rice.Total, 1e-9)
}

func TestAggregateSkipTokensKeepBookkeeping(t *testing.T) {
	agg := NewAggregator(testCatalog())

	totals := agg.Aggregate(planWith("Fried Rice"))

	// "to taste" 不計量，但桶還在，食譜引用也記了帳
	salt, ok := totals[AggregationKey("salt", "")]
	require.True(t, ok)
	assert.Zero(t, salt.Total)
	assert.Equal(t, []string{"Fried Rice"}, salt.RecipeNames())
}

func TestAggregateOrderIndependent(t *testing.T) {
	agg := NewAggregator(testCatalog())

	forward := agg.Aggregate(planWith("Fried Rice", "Rice Pudding"))
	reversed := agg.Aggregate(planWith("Rice Pudding", "Fried Rice"))

	require.Equal(t, len(forward), len(reversed))
	for key, bucket := range forward {
		other, ok := reversed[key]
		require.True(t, ok, "missing key %s", key)
		assert.InDelta(t, bucket.Total, other.Total, 1e-9)
	}
}

func TestAggregateSkipsEmptySlots(t *testing.T) {
	agg := NewAggregator(testCatalog())

	plan := &common.MealPlan{
		Days: []common.Day{
			{Day: 1, Meals: map[string]*common.MealSlot{
				"breakfast": nil,
				"lunch":     {Recipe: ""},
				"dinner":    {Recipe: "Fried Rice"},
			}},
		},
	}

	totals := agg.Aggregate(plan)
	assert.Len(t, totals, 3) // rice, soy sauce, salt
}
