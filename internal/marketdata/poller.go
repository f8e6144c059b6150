package marketdata

import (
	"context"
	"time"

	"prediction-sizer-go/internal/history"
	"prediction-sizer-go/internal/sizing"

	"go.uber.org/zap"
)

// Publisher receives quote updates for fan-out to live subscribers.
type Publisher interface {
	Publish(event string, payload interface{})
}

// QuoteUpdate is the payload streamed to websocket subscribers on every
// refreshed quote.
type QuoteUpdate struct {
	Slug               string  `json:"slug"`
	Question           string  `json:"question,omitempty"`
	YesPrice           float64 `json:"yes_price"`
	DecimalOdds        float64 `json:"decimal_odds,omitempty"`
	ImpliedProbability float64 `json:"implied_probability,omitempty"`
	QuotedAt           int64   `json:"quoted_at"`
}

// Poller refreshes watchlist quotes on a fixed interval, persists them, and
// publishes each update.
type Poller struct {
	logger    *zap.Logger
	client    ClientInterface
	store     *history.Store
	publisher Publisher
	interval  time.Duration
}

// NewPoller creates a poller. publisher may be nil when no live subscribers
// are wired in.
func NewPoller(logger *zap.Logger, client ClientInterface, store *history.Store, publisher Publisher, interval time.Duration) *Poller {
	return &Poller{
		logger:    logger,
		client:    client,
		store:     store,
		publisher: publisher,
		interval:  interval,
	}
}

// Run polls until the context is cancelled. The first refresh happens
// immediately so the watchlist is warm before the first tick.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Starting quote poller", zap.Duration("interval", p.interval))

	if err := p.refresh(ctx); err != nil {
		p.logger.Error("Initial quote refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Stopping quote poller...")
			return
		case <-ticker.C:
			if err := p.refresh(ctx); err != nil {
				p.logger.Error("Quote refresh failed", zap.Error(err))
			}
		}
	}
}

// refresh performs one watchlist sweep.
func (p *Poller) refresh(ctx context.Context) error {
	markets, err := p.store.Watchlist()
	if err != nil {
		return err
	}
	if len(markets) == 0 {
		p.logger.Debug("Watchlist is empty, nothing to poll")
		return nil
	}

	slugs := make([]string, 0, len(markets))
	for _, m := range markets {
		slugs = append(slugs, m.Slug)
	}

	quotes, err := p.client.GetQuotes(ctx, slugs)
	if err != nil {
		return err
	}

	for slug, quote := range quotes {
		price := quote.YesPrice.InexactFloat64()
		if err := p.store.UpdateQuote(slug, quote.Question, price, quote.QuotedAt); err != nil {
			p.logger.Warn("Failed to persist quote", zap.String("slug", slug), zap.Error(err))
			continue
		}

		update := QuoteUpdate{
			Slug:     slug,
			Question: quote.Question,
			YesPrice: price,
			QuotedAt: quote.QuotedAt.Unix(),
		}
		if odds, err := sizing.PriceToDecimalOdds(price); err == nil {
			update.DecimalOdds = odds
			update.ImpliedProbability = sizing.ImpliedProbability(odds)
		}

		if p.publisher != nil {
			p.publisher.Publish("quote", update)
		}
	}

	p.logger.Debug("Quote refresh complete", zap.Int("markets", len(quotes)))
	return nil
}
