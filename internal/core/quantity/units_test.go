package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToStandardCups(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		unit   string
		want   float64
	}{
		{"cups pass through", 2, "cup", 2.0},
		{"plural cups", 2, "cups", 2.0},
		{"tablespoons", 16, "tbsp", 1.0},
		{"teaspoons", 1, "tsp", 0.0208},
		{"pounds", 1, "lb", 2.0},
		{"ounces", 8, "oz", 1.0},
		{"grams", 250, "g", 1.0},
		{"liters", 1, "l", 4.227},
		{"milliliters", 500, "ml", 2.0},
		{"pinch", 1, "pinch", 0.01},
		{"empty unit treated as cup", 1.5, "", 1.5},
		{"unknown unit passes through", 3, "bunch", 3.0},
		{"case insensitive", 1, "LB", 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ToStandardCups(tt.amount, tt.unit), 1e-9)
		})
	}
}

func TestToDisplayUnit(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		unit       string
		wantAmount float64
		wantUnit   string
	}{
		{"tsp below threshold", 2, "tsp", 2.0, "tsp"},
		{"tsp to tbsp", 6, "tsp", 2.0, "tbsp"},
		{"tsp to cups", 60, "tsp", 1.25, "cups"},
		{"tsp to exactly one cup", 48, "tsp", 1.0, "cup"},
		{"tbsp to cups", 32, "tbsp", 2.0, "cups"},
		{"tbsp below threshold", 4, "tbsp", 4.0, "tbsp"},
		{"oz to lbs", 20, "oz", 1.3, "lbs"},
		{"oz to exactly one lb", 16, "oz", 1.0, "lb"},
		{"oz below threshold", 12, "oz", 12.0, "oz"},
		{"small amount rounds to 2 decimals", 0.333, "cup", 0.33, "cup"},
		{"large amount rounds to 1 decimal", 4.26, "cup", 4.3, "cup"},
		{"unknown unit passes through", 2.56, "bunch", 2.6, "bunch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAmount, gotUnit := ToDisplayUnit(tt.amount, tt.unit)
			assert.InDelta(t, tt.wantAmount, gotAmount, 1e-9)
			assert.Equal(t, tt.wantUnit, gotUnit)
		})
	}
}
