package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"prediction-sizer-go/internal/sizing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EvaluateRequest is the API surface of one engine run. Confidence crosses
// the boundary as an integer percent and is validated to 1..99 before it
// becomes a probability.
type EvaluateRequest struct {
	MarketSlug       string  `json:"market_slug,omitempty"`
	Direction        string  `json:"direction,omitempty"`
	EntryPrice       float64 `json:"entry_price,omitempty"`
	TargetPrice      float64 `json:"target_price"`
	StopLossPrice    float64 `json:"stop_loss_price"`
	ConfidencePct    int     `json:"confidence_pct"`
	Bankroll         float64 `json:"bankroll,omitempty"`
	ExistingExposure float64 `json:"existing_exposure,omitempty"`
	RiskMode         string  `json:"risk_mode,omitempty"`
}

// EvaluateResponse echoes the persisted row's UID alongside the evaluation.
type EvaluateResponse struct {
	UID string `json:"uid,omitempty"`
	sizing.Evaluation
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "prediction-sizer",
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	winProbability, err := sizing.ProbabilityFromPercent(req.ConfidencePct)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	direction := sizing.Direction(req.Direction)
	if direction == "" {
		direction = sizing.DirectionLong
	}
	if direction != sizing.DirectionLong && direction != sizing.DirectionShort {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown direction %q", req.Direction))
		return
	}

	// Use defaults if not provided
	if req.Bankroll == 0 {
		req.Bankroll = s.cfg.Engine.DefaultBankroll
	}
	if req.Bankroll < 0 || req.ExistingExposure < 0 {
		s.respondError(w, http.StatusBadRequest, "bankroll and exposure must not be negative")
		return
	}

	// An omitted entry price is prefilled from the market's live quote.
	if req.EntryPrice == 0 {
		if req.MarketSlug == "" || s.markets == nil {
			s.respondError(w, http.StatusBadRequest, "entry_price is required without a market_slug")
			return
		}
		quote, err := s.markets.GetMarket(r.Context(), req.MarketSlug)
		if err != nil {
			s.respondError(w, http.StatusBadGateway, fmt.Sprintf("could not quote %q: %v", req.MarketSlug, err))
			return
		}
		req.EntryPrice = quote.YesPrice.InexactFloat64()
	}

	eval, err := s.engine.EvaluateMode(
		sizing.TradeProposal{
			MarketSlug:     req.MarketSlug,
			Direction:      direction,
			EntryPrice:     req.EntryPrice,
			TargetPrice:    req.TargetPrice,
			StopLossPrice:  req.StopLossPrice,
			WinProbability: winProbability,
		},
		sizing.BankrollState{
			TotalBankroll:    req.Bankroll,
			ExistingExposure: req.ExistingExposure,
		},
		sizing.RiskMode(req.RiskMode),
	)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("calculation error: %v", err))
		return
	}

	resp := EvaluateResponse{Evaluation: eval}

	// History and the live stream are best-effort: a storage failure does not
	// invalidate the calculation the caller asked for.
	if s.store != nil {
		if row, err := s.store.Record(eval); err != nil {
			s.logger.Error("Failed to record evaluation", zap.Error(err))
		} else {
			resp.UID = row.UID
		}
	}
	if s.hub != nil {
		s.hub.Publish("evaluation", resp)
	}

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvaluations(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	rows, err := s.store.Recent(limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMarketEvaluations(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	limit := parseLimit(r.URL.Query().Get("limit"))
	rows, err := s.store.ByMarket(slug, limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := s.store.Watchlist()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, markets)
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// respondError writes a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
