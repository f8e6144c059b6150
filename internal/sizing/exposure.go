package sizing

// ExposureSummary rolls a candidate position into the portfolio's existing
// exposure. It is advisory only: nothing here blocks a trade, the HighExposure
// flag is for the caller to surface as a warning.
type ExposureSummary struct {
	NewExposure     float64 `json:"new_exposure"`
	ExposurePercent float64 `json:"exposure_percent"`
	HighExposure    bool    `json:"is_high_exposure"`
}

// AggregateExposure reports portfolio exposure after adding newPositionSize.
// thresholdPercent is the policy line (in percent of bankroll) above which the
// HighExposure flag trips. A zero bankroll degrades to 0% rather than NaN.
func AggregateExposure(existingExposure, newPositionSize, bankroll, thresholdPercent float64) ExposureSummary {
	sum := ExposureSummary{NewExposure: existingExposure + newPositionSize}
	if bankroll > 0 {
		sum.ExposurePercent = sum.NewExposure / bankroll * 100
	}
	sum.HighExposure = sum.ExposurePercent > thresholdPercent
	return sum
}
