package sizing

// PositionRecommendation is the dollar sizing derived from a Kelly fraction
// and a bankroll. All fields are guarded against the degenerate inputs a live
// caller can produce (zero bankroll, zero entry, stop at entry): the struct
// never carries NaN or a negative size.
type PositionRecommendation struct {
	PositionSize    float64 `json:"position_size"`
	PositionPercent float64 `json:"position_percent"`
	MaxGain         float64 `json:"max_gain"`
	MaxLoss         float64 `json:"max_loss"`
	// RiskRewardRatio is 0 with RiskRewardDefined=false when MaxLoss is zero,
	// so JSON consumers never see Infinity.
	RiskRewardRatio   float64 `json:"risk_reward_ratio"`
	RiskRewardDefined bool    `json:"risk_reward_defined"`
}

// CalculatePosition converts a Kelly fraction into a dollar position against
// the bankroll net of existing exposure.
//
// Clamp policy: a negative kellyFraction means "no edge" and clamps to a zero
// stake, and an exposure larger than the bankroll clamps the effective
// bankroll to zero for the same reason -- the engine must never recommend a
// negative position.
func CalculatePosition(bankroll, kellyFraction, entryPrice, targetPrice, stopLossPrice, existingExposure float64) PositionRecommendation {
	effectiveKelly := kellyFraction
	if effectiveKelly < 0 {
		effectiveKelly = 0
	}

	effectiveBankroll := bankroll - existingExposure
	if effectiveBankroll < 0 {
		effectiveBankroll = 0
	}

	size := effectiveBankroll * effectiveKelly

	rec := PositionRecommendation{PositionSize: size}

	if bankroll > 0 {
		rec.PositionPercent = size / bankroll * 100
	}

	if entryPrice > 0 {
		rec.MaxGain = size * (targetPrice - entryPrice) / entryPrice
		rec.MaxLoss = size * (entryPrice - stopLossPrice) / entryPrice
	}

	if rec.MaxLoss != 0 {
		rec.RiskRewardRatio = rec.MaxGain / rec.MaxLoss
		rec.RiskRewardDefined = true
	}

	return rec
}
