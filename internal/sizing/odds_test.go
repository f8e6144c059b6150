package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceToDecimalOdds(t *testing.T) {
	testCases := []struct {
		name         string
		price        float64
		expectedOdds float64
		expectError  bool
	}{
		{name: "Typical underdog price", price: 0.40, expectedOdds: 2.5},
		{name: "Even money", price: 0.50, expectedOdds: 2.0},
		{name: "Heavy favorite", price: 0.95, expectedOdds: 1.0526},
		{name: "Zero price", price: 0, expectError: true},
		{name: "Negative price", price: -0.1, expectError: true},
		{name: "Price of exactly one", price: 1.0, expectError: true},
		{name: "Price above one", price: 1.2, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			odds, err := PriceToDecimalOdds(tc.price)
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.InDelta(t, tc.expectedOdds, odds, 0.001)
				assert.Greater(t, odds, 1.0)
			}
		})
	}
}

func TestPriceToDecimalOddsStrictlyDecreasing(t *testing.T) {
	prev := 0.0
	for price := 0.05; price < 1.0; price += 0.05 {
		odds, err := PriceToDecimalOdds(price)
		assert.NoError(t, err)
		if prev != 0 {
			assert.Less(t, odds, prev, "odds must fall as price rises")
		}
		prev = odds
	}
}

func TestImpliedProbability(t *testing.T) {
	assert.InDelta(t, 0.4, ImpliedProbability(2.5), 1e-9)
	assert.InDelta(t, 0.5, ImpliedProbability(2.0), 1e-9)
	assert.Equal(t, 0.0, ImpliedProbability(0))
	assert.Equal(t, 0.0, ImpliedProbability(-1))

	// Round trip with the forward conversion.
	odds, err := PriceToDecimalOdds(0.37)
	assert.NoError(t, err)
	assert.InDelta(t, 0.37, ImpliedProbability(odds), 1e-9)
}

func TestProbabilityFromPercent(t *testing.T) {
	testCases := []struct {
		name        string
		pct         int
		expected    float64
		expectError bool
	}{
		{name: "Lower bound", pct: 1, expected: 0.01},
		{name: "Upper bound", pct: 99, expected: 0.99},
		{name: "Mid range", pct: 55, expected: 0.55},
		{name: "Zero rejected", pct: 0, expectError: true},
		{name: "Hundred rejected", pct: 100, expectError: true},
		{name: "Negative rejected", pct: -5, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ProbabilityFromPercent(tc.pct)
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.InDelta(t, tc.expected, p, 1e-9)
			}
		})
	}
}
