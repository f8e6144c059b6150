package database

import (
	"fmt"

	"prediction-sizer-go/internal/config"
	"prediction-sizer-go/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the sqlite database, migrates the schema, and seeds the market
// watchlist from the configuration.
func New(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema and populates the watchlist.
// Evaluation history must survive restarts, so existing tables are kept.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(&models.Market{}, &models.Evaluation{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Populate the watchlist from the config. Slugs already present keep
	// their stored quote and enabled flag.
	for _, slug := range cfg.MarketData.Watchlist {
		market := models.Market{Slug: slug, Enabled: true}
		if err := db.FirstOrCreate(&market, models.Market{Slug: slug}).Error; err != nil {
			return fmt.Errorf("failed to populate market %q: %w", slug, err)
		}
	}

	return nil
}
