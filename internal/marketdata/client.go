package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"prediction-sizer-go/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Quote is the latest observed state of one prediction market. YesPrice is
// kept as a decimal until it crosses into the sizing engine, which works in
// float64.
type Quote struct {
	Slug     string
	Question string
	YesPrice decimal.Decimal
	QuotedAt time.Time
}

// ClientInterface defines the quote client used by the poller and the API
// server. It exists so tests can substitute a fake.
type ClientInterface interface {
	GetMarket(ctx context.Context, slug string) (*Quote, error)
	GetQuotes(ctx context.Context, slugs []string) (map[string]Quote, error)
}

// Client fetches market quotes from a Gamma-style metadata API.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a quote client with the configured base URL and
// client-side rate limit.
func NewClient(cfg *config.MarketData, logger *zap.Logger) *Client {
	return &Client{
		client:  resty.New().SetBaseURL(cfg.BaseURL),
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
	}
}

// marketPayload mirrors the wire format: outcomePrices arrives as a
// JSON-encoded string array inside a string field.
type marketPayload struct {
	Slug          string `json:"slug"`
	Question      string `json:"question"`
	OutcomePrices string `json:"outcomePrices"`
}

// yesPrice extracts the first outcome price (YES) from the doubly-encoded
// outcomePrices field.
func (m *marketPayload) yesPrice() (decimal.Decimal, error) {
	var prices []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil {
		return decimal.Zero, fmt.Errorf("bad outcomePrices for %q: %w", m.Slug, err)
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("no outcome prices for %q", m.Slug)
	}
	price, err := decimal.NewFromString(prices[0])
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad price %q for %q: %w", prices[0], m.Slug, err)
	}
	return price, nil
}

// doRequest executes a request with rate limiting and bounded retry on 429
// and server errors.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	const maxRetries = 3

	var resp *resty.Response
	var err error

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		resp, err = req.SetContext(ctx).Execute(method, url)
		if err == nil && !resp.IsError() {
			return resp, nil
		}

		retryAfter := time.Duration(math.Pow(2, float64(i))) * time.Second
		if resp != nil {
			status := resp.StatusCode()
			if status != http.StatusTooManyRequests && status < 500 {
				return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
			}
			if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}

		c.logger.Warn("Request failed, retrying...",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// GetMarket fetches a single market by slug.
func (c *Client) GetMarket(ctx context.Context, slug string) (*Quote, error) {
	var payload []marketPayload
	req := c.client.R().
		SetQueryParam("slug", slug).
		SetResult(&payload)

	if _, err := c.doRequest(ctx, "GET", "/markets", req); err != nil {
		return nil, fmt.Errorf("failed to get market %q: %w", slug, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("market %q not found", slug)
	}

	price, err := payload[0].yesPrice()
	if err != nil {
		return nil, err
	}

	return &Quote{
		Slug:     payload[0].Slug,
		Question: payload[0].Question,
		YesPrice: price,
		QuotedAt: time.Now(),
	}, nil
}

// GetQuotes fetches quotes for a batch of slugs. Markets that fail to parse
// are logged and skipped so one bad row cannot stall the poller.
func (c *Client) GetQuotes(ctx context.Context, slugs []string) (map[string]Quote, error) {
	quotes := make(map[string]Quote, len(slugs))

	for _, slug := range slugs {
		quote, err := c.GetMarket(ctx, slug)
		if err != nil {
			c.logger.Warn("Skipping market", zap.String("slug", slug), zap.Error(err))
			continue
		}
		quotes[slug] = *quote
	}

	if len(quotes) == 0 && len(slugs) > 0 {
		return nil, fmt.Errorf("no quotes could be fetched for %d markets", len(slugs))
	}
	return quotes, nil
}
