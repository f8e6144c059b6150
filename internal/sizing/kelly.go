package sizing

import "fmt"

// KellyResult holds the optimal bet fraction and its conservative variants.
// FullKelly is deliberately unclamped: a negative value means the bet has no
// edge, and it is the position sizer's job to turn that into a zero stake.
type KellyResult struct {
	FullKelly    float64 `json:"full_kelly"`
	HalfKelly    float64 `json:"half_kelly"`
	QuarterKelly float64 `json:"quarter_kelly"`
	Edge         float64 `json:"edge"`
	PositiveEV   bool    `json:"is_positive_ev"`
}

// Kelly computes the Kelly criterion for a bet at the given decimal odds.
//
//	f* = (b*p - q) / b   where b = odds - 1, p = winProbability, q = 1 - p
//
// Edge is the unnormalized numerator b*p - q, which shares its sign with the
// per-dollar expected value.
func Kelly(winProbability, decimalOdds float64) (KellyResult, error) {
	if winProbability <= 0 || winProbability >= 1 {
		return KellyResult{}, fmt.Errorf("win probability %.4f is outside (0, 1) exclusive", winProbability)
	}
	if decimalOdds <= 1 {
		return KellyResult{}, fmt.Errorf("decimal odds %.4f must be greater than 1", decimalOdds)
	}

	b := decimalOdds - 1
	p := winProbability
	q := 1 - p

	edge := b*p - q
	full := edge / b

	return KellyResult{
		FullKelly:    full,
		HalfKelly:    full * 0.5,
		QuarterKelly: full * 0.25,
		Edge:         edge,
		PositiveEV:   edge > 0,
	}, nil
}
