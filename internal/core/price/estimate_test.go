package price

import (
	"testing"

	"meal-prep-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestEstimateKnownItems(t *testing.T) {
	estimator := NewEstimator()

	tests := []struct {
		name  string
		item  string
		store string
		want  float64
	}{
		{"baseline store", "salmon fillet", "jewel", 12.99},
		{"costco discount", "chicken breast", "costco", 3.39},
		{"whole foods premium", "olive oil", "whole_foods", 11.24},
		{"aldi cheapest", "rice", "aldi", 1.20},
		{"unknown item default", "dragon fruit powder", "jewel", 5.00},
		{"unknown store no multiplier", "rice", "corner_store", 1.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := estimator.Estimate(tt.item, tt.store)
			assert.InDelta(t, tt.want, quote.Price, 1e-9)
			assert.Equal(t, "estimate", quote.Source)
			assert.Equal(t, common.ConfidenceLow, quote.Confidence)
			assert.True(t, quote.InStock)
		})
	}
}

func TestEstimateOrderedMatching(t *testing.T) {
	estimator := NewEstimator()

	// "canned tomatoes" 先被 "tomato" 命中，依表序先中先贏
	quote := estimator.Estimate("canned tomatoes", "jewel")
	assert.InDelta(t, 1.99, quote.Price, 1e-9)
}

func TestEstimateTitleCasesItem(t *testing.T) {
	estimator := NewEstimator()

	quote := estimator.Estimate("ground turkey", "jewel")
	assert.Equal(t, "Ground Turkey", quote.Item)
}
