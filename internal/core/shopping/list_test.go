package shopping

import (
	"testing"

	"meal-prep-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleStoreList(t *testing.T) {
	builder := NewListBuilder(testCatalog())

	list := builder.Build(planWith("Fried Rice", "Fried Rice"), nil, 150, "costco")

	require.Contains(t, list.Stores, "costco")
	bucket := list.Stores["costco"]
	assert.Equal(t, "Costco", bucket.StoreInfo.Name)
	assert.Equal(t, list.TotalItems, bucket.Count)

	byName := make(map[string]common.ShoppingItem)
	for _, item := range bucket.Items {
		byName[item.Item] = item
	}

	rice, ok := byName["rice"]
	require.True(t, ok)
	assert.Equal(t, "4", rice.Amount)
	assert.Equal(t, "cup", rice.Unit)
	assert.Equal(t, []string{"Fried Rice"}, rice.UsedIn)
	assert.NotEmpty(t, rice.ID)

	// 兩天各 1 tbsp 醬油，保持 tbsp 展示
	soy, ok := byName["soy sauce"]
	require.True(t, ok)
	assert.Equal(t, "2", soy.Amount)
	assert.Equal(t, "tbsp", soy.Unit)
}

func TestBuildOmitsZeroTotalIngredients(t *testing.T) {
	builder := NewListBuilder(testCatalog())

	list := builder.Build(planWith("Fried Rice"), nil, 0, "costco")

	// "salt: to taste" 全數被跳過，清單中不應出現
	for _, item := range list.Stores["costco"].Items {
		assert.NotEqual(t, "salt", item.Item)
	}
}

func TestBuildKeepsPlanMetadata(t *testing.T) {
	builder := NewListBuilder(testCatalog())

	list := builder.Build(planWith("Fried Rice"), nil, 200, "")

	assert.Equal(t, "2026-01-05", list.StartDate)
	assert.Equal(t, 2, list.People)
	assert.InDelta(t, 200.0, list.Budget, 1e-9)
	// 未指定商店時退回預設
	assert.Contains(t, list.Stores, "costco")
}

func TestBuildRoutesAcrossSelectedStores(t *testing.T) {
	catalog := fakeCatalog{
		"Herb Salad": {
			Name: "Herb Salad",
			Ingredients: common.IngredientList{
				{Item: "fresh basil", Amount: "1", Unit: "tbsp"},
				{Item: "rice", Amount: "6", Unit: "cup"},
			},
		},
	}
	builder := NewListBuilder(catalog)

	list := builder.Build(planWith("Herb Salad"), []string{"costco", "whole_foods"}, 100, "")

	require.Contains(t, list.Stores, "whole_foods")
	require.Contains(t, list.Stores, "costco")
	assert.Equal(t, "fresh basil", list.Stores["whole_foods"].Items[0].Item)
	assert.Equal(t, "rice", list.Stores["costco"].Items[0].Item)
}

func TestBuildCapsUsedInRecipes(t *testing.T) {
	catalog := fakeCatalog{}
	names := []string{"Dish A", "Dish B", "Dish C", "Dish D", "Dish E"}
	for _, name := range names {
		catalog[name] = &common.Recipe{
			Name: name,
			Ingredients: common.IngredientList{
				{Item: "garlic", Amount: "1", Unit: "clove"},
			},
		}
	}
	builder := NewListBuilder(catalog)

	list := builder.Build(planWith(names...), nil, 0, "costco")

	require.Len(t, list.Stores["costco"].Items, 1)
	assert.Len(t, list.Stores["costco"].Items[0].UsedIn, maxUsedInRecipes)
}
