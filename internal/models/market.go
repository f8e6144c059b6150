package models

import "gorm.io/gorm"

// Market is a watchlist row: a prediction market whose quote the poller keeps
// fresh. YesPrice is the last observed YES contract price in (0, 1); zero
// means no quote has been seen yet.
type Market struct {
	gorm.Model
	Slug     string  `gorm:"uniqueIndex" json:"slug"`
	Question string  `json:"question"`
	YesPrice float64 `json:"yes_price"`
	QuotedAt int64   `json:"quoted_at"`
	Enabled  bool    `gorm:"default:true" json:"enabled"`
}
