package sizing

import "fmt"

// Direction of a trade thesis against the market's YES price.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// RiskMode selects which Kelly variant a position is sized with.
type RiskMode string

const (
	RiskModeQuarter RiskMode = "quarter"
	RiskModeHalf    RiskMode = "half"
	RiskModeFull    RiskMode = "full"
)

// Fraction picks the configured variant out of a KellyResult.
func (m RiskMode) Fraction(k KellyResult) float64 {
	switch m {
	case RiskModeHalf:
		return k.HalfKelly
	case RiskModeFull:
		return k.FullKelly
	default:
		return k.QuarterKelly
	}
}

// TradeProposal is a user's trade thesis: where they enter, where they take
// profit, where they bail, and how likely they think the win is. Prices are
// prediction-market style, in (0, 1).
type TradeProposal struct {
	MarketSlug     string    `json:"market_slug,omitempty"`
	Direction      Direction `json:"direction"`
	EntryPrice     float64   `json:"entry_price"`
	TargetPrice    float64   `json:"target_price"`
	StopLossPrice  float64   `json:"stop_loss_price"`
	WinProbability float64   `json:"win_probability"`
}

// BankrollState is the caller's account snapshot at evaluation time.
type BankrollState struct {
	TotalBankroll    float64 `json:"total_bankroll"`
	ExistingExposure float64 `json:"existing_exposure"`
}

// Policy holds the configurable thresholds that were magic numbers in older
// sizing tools. Everything here comes from configuration, not code.
type Policy struct {
	RiskMode          RiskMode
	HighExposurePct   float64
	HighConvictionPct float64
}

// DefaultPolicy returns quarter-Kelly sizing with a 50% exposure warning line
// and a 70% conviction line.
func DefaultPolicy() Policy {
	return Policy{
		RiskMode:          RiskModeQuarter,
		HighExposurePct:   50,
		HighConvictionPct: 70,
	}
}

// Validate rejects policies that would make the pipeline misbehave.
func (p Policy) Validate() error {
	switch p.RiskMode {
	case RiskModeQuarter, RiskModeHalf, RiskModeFull:
	default:
		return fmt.Errorf("unknown risk mode %q", p.RiskMode)
	}
	if p.HighExposurePct <= 0 || p.HighExposurePct > 100 {
		return fmt.Errorf("high exposure threshold %.1f must be in (0, 100]", p.HighExposurePct)
	}
	if p.HighConvictionPct <= 0 || p.HighConvictionPct > 100 {
		return fmt.Errorf("high conviction threshold %.1f must be in (0, 100]", p.HighConvictionPct)
	}
	return nil
}

// Evaluation is the complete output of one engine run: every intermediate the
// presentation layer displays, plus advisory warnings. It is derived fresh on
// every call and holds no references back into the engine.
type Evaluation struct {
	Proposal       TradeProposal          `json:"proposal"`
	Bankroll       BankrollState          `json:"bankroll"`
	RiskMode       RiskMode               `json:"risk_mode"`
	DecimalOdds    float64                `json:"decimal_odds"`
	Kelly          KellyResult            `json:"kelly"`
	ExpectedValue  ExpectedValueResult    `json:"expected_value"`
	Position       PositionRecommendation `json:"position"`
	Exposure       ExposureSummary        `json:"exposure"`
	HighConviction bool                   `json:"is_high_conviction"`
	Warnings       []string               `json:"warnings"`
}

// Engine runs the stateless sizing pipeline under a fixed policy. It holds no
// mutable state, so a single instance is safe for concurrent use.
type Engine struct {
	policy Policy
}

// NewEngine validates the policy and returns an engine bound to it.
func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return &Engine{policy: policy}, nil
}

// Policy returns the engine's configured policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate runs the full pipeline with the engine's configured risk mode.
func (e *Engine) Evaluate(proposal TradeProposal, bankroll BankrollState) (Evaluation, error) {
	return e.EvaluateMode(proposal, bankroll, e.policy.RiskMode)
}

// EvaluateMode runs odds conversion, the Kelly solver, the EV calculator, the
// position sizer and the exposure aggregator as one synchronous pass, using
// the given risk mode. Short proposals are mirrored around the entry price so
// gain and loss distances keep their long-side orientation.
func (e *Engine) EvaluateMode(proposal TradeProposal, bankroll BankrollState, mode RiskMode) (Evaluation, error) {
	if mode == "" {
		mode = e.policy.RiskMode
	}
	switch mode {
	case RiskModeQuarter, RiskModeHalf, RiskModeFull:
	default:
		return Evaluation{}, fmt.Errorf("unknown risk mode %q", mode)
	}

	odds, err := PriceToDecimalOdds(proposal.EntryPrice)
	if err != nil {
		return Evaluation{}, fmt.Errorf("entry price: %w", err)
	}

	kelly, err := Kelly(proposal.WinProbability, odds)
	if err != nil {
		return Evaluation{}, err
	}

	ev := ExpectedValue(proposal.WinProbability, odds)

	target, stop := proposal.TargetPrice, proposal.StopLossPrice
	if proposal.Direction == DirectionShort {
		target = 2*proposal.EntryPrice - target
		stop = 2*proposal.EntryPrice - stop
	}

	position := CalculatePosition(
		bankroll.TotalBankroll,
		mode.Fraction(kelly),
		proposal.EntryPrice,
		target,
		stop,
		bankroll.ExistingExposure,
	)

	exposure := AggregateExposure(
		bankroll.ExistingExposure,
		position.PositionSize,
		bankroll.TotalBankroll,
		e.policy.HighExposurePct,
	)

	eval := Evaluation{
		Proposal:       proposal,
		Bankroll:       bankroll,
		RiskMode:       mode,
		DecimalOdds:    odds,
		Kelly:          kelly,
		ExpectedValue:  ev,
		Position:       position,
		Exposure:       exposure,
		HighConviction: proposal.WinProbability*100 >= e.policy.HighConvictionPct,
		Warnings:       []string{},
	}

	if !kelly.PositiveEV {
		eval.Warnings = append(eval.Warnings, "no edge at this price and probability, no position recommended")
	}
	if exposure.HighExposure {
		eval.Warnings = append(eval.Warnings,
			fmt.Sprintf("projected exposure %.1f%% of bankroll exceeds the %.0f%% threshold",
				exposure.ExposurePercent, e.policy.HighExposurePct))
	}
	if bankroll.ExistingExposure > bankroll.TotalBankroll {
		eval.Warnings = append(eval.Warnings, "existing exposure exceeds bankroll, effective bankroll clamped to zero")
	}

	return eval, nil
}
