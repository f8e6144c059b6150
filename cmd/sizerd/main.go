package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prediction-sizer-go/internal/config"
	"prediction-sizer-go/internal/database"
	"prediction-sizer-go/internal/history"
	"prediction-sizer-go/internal/hub"
	"prediction-sizer-go/internal/logger"
	"prediction-sizer-go/internal/marketdata"
	"prediction-sizer-go/internal/server"
	"prediction-sizer-go/internal/sizing"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Build the sizing engine from the configured policy.
	policy := sizing.Policy{
		RiskMode:          sizing.RiskMode(cfg.Engine.RiskMode),
		HighExposurePct:   cfg.Engine.HighExposurePct,
		HighConvictionPct: cfg.Engine.HighConvictionPct,
	}
	engine, err := sizing.NewEngine(policy)
	if err != nil {
		log.Fatal("Invalid engine policy", zap.Error(err))
	}

	// Initialize database and history store
	db, err := database.New(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	store := history.NewStore(db)
	log.Info("Database connection successful and schema migrated.")

	// Market data client for quote prefill and watchlist polling
	markets := marketdata.NewClient(&cfg.MarketData, log.Named("marketdata"))

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Live update hub and quote poller
	liveHub := hub.New(log.Named("hub"))
	go liveHub.Run(ctx)

	poller := marketdata.NewPoller(
		log.Named("poller"),
		markets,
		store,
		liveHub,
		time.Duration(cfg.MarketData.PollInterval)*time.Second,
	)
	go poller.Run(ctx)

	// HTTP API
	api := server.New(&cfg, log, engine, store, markets, liveHub)
	api.Start()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := api.Stop(shutdownCtx); err != nil {
		log.Error("API shutdown failed", zap.Error(err))
	}

	log.Info("Sizer daemon has been shut down.")
}
