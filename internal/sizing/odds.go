package sizing

import "fmt"

// PriceToDecimalOdds converts a prediction-market price into decimal betting odds.
// A price of 0.40 means the market charges $0.40 for a contract paying $1.00, so
// the decimal odds are 1/0.40 = 2.5. Prices at or outside (0, 1) have no defined
// odds and are rejected rather than clamped.
func PriceToDecimalOdds(price float64) (float64, error) {
	if price <= 0 || price >= 1 {
		return 0, fmt.Errorf("price %.4f is outside (0, 1) exclusive", price)
	}
	return 1 / price, nil
}

// ImpliedProbability is the inverse conversion: the win probability a market
// price implies. Returns 0 for degenerate odds instead of propagating NaN.
func ImpliedProbability(decimalOdds float64) float64 {
	if decimalOdds <= 0 {
		return 0
	}
	return 1 / decimalOdds
}

// ProbabilityFromPercent converts a user-supplied integer confidence percent
// (1..99 inclusive) into a decimal probability. This is the only place percent
// input crosses into the engine; everything past this boundary works in (0, 1).
func ProbabilityFromPercent(pct int) (float64, error) {
	if pct < 1 || pct > 99 {
		return 0, fmt.Errorf("confidence percent %d must be between 1 and 99", pct)
	}
	return float64(pct) / 100, nil
}
