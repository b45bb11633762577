package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRedundancy(t *testing.T) {
	cleaner := NewCleaner()

	tests := []struct {
		name   string
		item   string
		amount float64
		want   string
	}{
		{"egg white duplication", "white egg white", 3, "egg whites"},
		{"medjool dates duplication", "dates medjool dates", 5, "medjool dates"},
		{"plain dates duplication", "dates dates", 2, "dates"},
		{"lemons lemon", "lemons lemon", 2, "lemons"},
		{"lemon lemons", "lemon lemons", 2, "lemons"},
		{"clean name untouched", "chicken breast", 2, "chicken breast"},
		{"empty name", "", 1, ""},
		{"whitespace collapsed", "olive   oil", 1, "olive oil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleaner.Clean(tt.item, tt.amount))
		})
	}
}

func TestCleanPluralizesWhitelistedItems(t *testing.T) {
	cleaner := NewCleaner()

	tests := []struct {
		name   string
		item   string
		amount float64
		want   string
	}{
		{"onion pluralized above one", "onion", 3, "onions"},
		{"onion singular at one", "onion", 1, "onion"},
		{"apple pluralized", "apple", 2, "apples"},
		{"already plural untouched", "onions", 4, "onions"},
		{"non-whitelisted untouched", "garlic", 5, "garlic"},
		{"egg white phrase pluralized", "egg white", 2, "egg whites"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleaner.Clean(tt.item, tt.amount))
		})
	}
}

func TestPluralizeUnit(t *testing.T) {
	cleaner := NewCleaner()

	tests := []struct {
		name   string
		unit   string
		amount float64
		want   string
	}{
		{"empty unit", "", 3, ""},
		{"amount one unchanged", "slice", 1, "slice"},
		{"amount below one unchanged", "clove", 0.5, "clove"},
		{"slice to slices", "slice", 2, "slices"},
		{"leaf to leaves", "leaf", 3, "leaves"},
		{"scoop to scoops", "scoop", 2, "scoops"},
		{"medium stays medium", "medium", 4, "medium"},
		{"whole stays whole", "whole", 2, "whole"},
		{"already plural", "cups", 3, "cups"},
		{"tsp abbreviation unchanged", "tsp", 4, "tsp"},
		{"tbsp abbreviation unchanged", "tbsp", 2, "tbsp"},
		{"oz abbreviation unchanged", "oz", 12, "oz"},
		{"lb abbreviation unchanged", "lb", 2, "lb"},
		{"cup abbreviation unchanged", "cup", 3, "cup"},
		{"default adds s", "bunch", 2, "bunchs"},
		{"y to ies", "berry", 2, "berries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleaner.PluralizeUnit(tt.unit, tt.amount))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "4", FormatAmount(4))
	assert.Equal(t, "1.25", FormatAmount(1.25))
	assert.Equal(t, "0.33", FormatAmount(0.33))
	assert.Equal(t, "1.3", FormatAmount(1.3))
}
