package history

import (
	"encoding/json"
	"fmt"
	"time"

	"prediction-sizer-go/internal/models"
	"prediction-sizer-go/internal/sizing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists engine evaluations and market watchlist state.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record flattens an engine evaluation into a row and saves it. The assigned
// UID is returned so callers can echo it to clients.
func (s *Store) Record(eval sizing.Evaluation) (*models.Evaluation, error) {
	warnings, err := json.Marshal(eval.Warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode warnings: %w", err)
	}

	row := models.Evaluation{
		UID:              uuid.NewString(),
		MarketSlug:       eval.Proposal.MarketSlug,
		Direction:        string(eval.Proposal.Direction),
		EntryPrice:       eval.Proposal.EntryPrice,
		TargetPrice:      eval.Proposal.TargetPrice,
		StopLossPrice:    eval.Proposal.StopLossPrice,
		WinProbability:   eval.Proposal.WinProbability,
		Bankroll:         eval.Bankroll.TotalBankroll,
		ExistingExposure: eval.Bankroll.ExistingExposure,
		RiskMode:         string(eval.RiskMode),
		DecimalOdds:      eval.DecimalOdds,
		FullKelly:        eval.Kelly.FullKelly,
		Edge:             eval.Kelly.Edge,
		ExpectedValue:    eval.ExpectedValue.ExpectedValuePercent,
		PositionSize:     eval.Position.PositionSize,
		PositionPercent:  eval.Position.PositionPercent,
		MaxGain:          eval.Position.MaxGain,
		MaxLoss:          eval.Position.MaxLoss,
		RiskReward:       eval.Position.RiskRewardRatio,
		ExposurePercent:  eval.Exposure.ExposurePercent,
		PositiveEV:       eval.Kelly.PositiveEV,
		HighExposure:     eval.Exposure.HighExposure,
		Warnings:         string(warnings),
	}

	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}
	return &row, nil
}

// Recent returns the newest evaluations, most recent first.
func (s *Store) Recent(limit int) ([]models.Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Evaluation
	if err := s.db.Order("id desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load evaluations: %w", err)
	}
	return rows, nil
}

// ByMarket returns the newest evaluations recorded against a market slug.
func (s *Store) ByMarket(slug string, limit int) ([]models.Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Evaluation
	if err := s.db.Where("market_slug = ?", slug).Order("id desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load evaluations for %q: %w", slug, err)
	}
	return rows, nil
}

// Watchlist returns all enabled markets.
func (s *Store) Watchlist() ([]models.Market, error) {
	var markets []models.Market
	if err := s.db.Where("enabled = ?", true).Order("slug").Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return markets, nil
}

// UpdateQuote stores the latest observed YES price for a market.
func (s *Store) UpdateQuote(slug, question string, yesPrice float64, quotedAt time.Time) error {
	updates := map[string]interface{}{
		"yes_price": yesPrice,
		"quoted_at": quotedAt.Unix(),
	}
	if question != "" {
		updates["question"] = question
	}
	result := s.db.Model(&models.Market{}).Where("slug = ?", slug).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update quote for %q: %w", slug, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("market %q is not on the watchlist", slug)
	}
	return nil
}
