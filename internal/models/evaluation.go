package models

import "gorm.io/gorm"

// Evaluation is a persisted engine run: the thesis that was evaluated, the
// bankroll it was evaluated against, and the sizing outputs. Flattened for
// querying; Warnings is a JSON-encoded string slice.
type Evaluation struct {
	gorm.Model
	UID        string `gorm:"uniqueIndex" json:"uid"`
	MarketSlug string `gorm:"index" json:"market_slug,omitempty"`
	Direction  string `json:"direction"`

	EntryPrice       float64 `json:"entry_price"`
	TargetPrice      float64 `json:"target_price"`
	StopLossPrice    float64 `json:"stop_loss_price"`
	WinProbability   float64 `json:"win_probability"`
	Bankroll         float64 `json:"bankroll"`
	ExistingExposure float64 `json:"existing_exposure"`
	RiskMode         string  `json:"risk_mode"`

	DecimalOdds     float64 `json:"decimal_odds"`
	FullKelly       float64 `json:"full_kelly"`
	Edge            float64 `json:"edge"`
	ExpectedValue   float64 `json:"expected_value_percent"`
	PositionSize    float64 `json:"position_size"`
	PositionPercent float64 `json:"position_percent"`
	MaxGain         float64 `json:"max_gain"`
	MaxLoss         float64 `json:"max_loss"`
	RiskReward      float64 `json:"risk_reward_ratio"`
	ExposurePercent float64 `json:"exposure_percent"`

	PositiveEV   bool   `json:"is_positive_ev"`
	HighExposure bool   `json:"is_high_exposure"`
	Warnings     string `json:"warnings,omitempty"`
}
