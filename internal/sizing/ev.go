package sizing

// ExpectedValueResult is the probability-weighted return per dollar staked,
// expressed as a percentage.
type ExpectedValueResult struct {
	ExpectedValuePercent float64 `json:"expected_value_percent"`
	PositiveEV           bool    `json:"is_positive_ev"`
}

// ExpectedValue computes the per-dollar expected value of a bet:
// win the net odds with probability p, lose the stake with probability 1-p.
// Sign-identical to the Kelly edge, but callers display both, so it is
// computed and exposed independently.
func ExpectedValue(winProbability, decimalOdds float64) ExpectedValueResult {
	ev := winProbability*(decimalOdds-1) - (1 - winProbability)
	return ExpectedValueResult{
		ExpectedValuePercent: ev * 100,
		PositiveEV:           ev > 0,
	}
}
