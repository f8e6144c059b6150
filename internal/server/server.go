package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"prediction-sizer-go/internal/config"
	"prediction-sizer-go/internal/history"
	"prediction-sizer-go/internal/hub"
	"prediction-sizer-go/internal/marketdata"
	"prediction-sizer-go/internal/sizing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server exposes the sizing engine over HTTP and websocket.
type Server struct {
	server  *http.Server
	logger  *zap.Logger
	cfg     *config.Config
	engine  *sizing.Engine
	store   *history.Store
	markets marketdata.ClientInterface
	hub     *hub.Hub
}

// New wires the router. markets and h may be nil in reduced deployments
// (no quote prefill, no live stream).
func New(cfg *config.Config, logger *zap.Logger, engine *sizing.Engine, store *history.Store, markets marketdata.ClientInterface, h *hub.Hub) *Server {
	s := &Server{
		logger:  logger.Named("api-server"),
		cfg:     cfg,
		engine:  engine,
		store:   store,
		markets: markets,
		hub:     h,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/v1/evaluate", s.handleEvaluate)
	r.Get("/api/v1/evaluations", s.handleEvaluations)
	r.Get("/api/v1/markets", s.handleMarkets)
	r.Get("/api/v1/markets/{slug}/evaluations", s.handleMarketEvaluations)
	r.Get("/ws/quotes", s.handleQuoteStream)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
