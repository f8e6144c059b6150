package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return c, server
}

func TestGetMarket(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/markets", r.URL.Path)
			assert.Equal(t, "rates-cut-march", r.URL.Query().Get("slug"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{
				"slug": "rates-cut-march",
				"question": "Will rates be cut in March?",
				"outcomePrices": "[\"0.42\", \"0.58\"]"
			}]`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		quote, err := c.GetMarket(context.Background(), "rates-cut-march")
		require.NoError(t, err)
		assert.Equal(t, "rates-cut-march", quote.Slug)
		assert.Equal(t, "Will rates be cut in March?", quote.Question)
		assert.InDelta(t, 0.42, quote.YesPrice.InexactFloat64(), 1e-9)
		assert.False(t, quote.QuotedAt.IsZero())
	})

	t.Run("NotFound", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.GetMarket(context.Background(), "no-such-market")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("BadOutcomePrices", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"slug": "broken", "outcomePrices": "not json"}]`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.GetMarket(context.Background(), "broken")
		assert.Error(t, err)
	})

	t.Run("ClientErrorNotRetried", func(t *testing.T) {
		calls := 0
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.GetMarket(context.Background(), "missing")
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestGetQuotes(t *testing.T) {
	payloads := map[string]string{
		"market-a": `[{"slug": "market-a", "question": "A?", "outcomePrices": "[\"0.30\", \"0.70\"]"}]`,
		"market-b": `[{"slug": "market-b", "question": "B?", "outcomePrices": "[\"0.65\", \"0.35\"]"}]`,
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		body, ok := payloads[slug]
		if !ok {
			body = `[]`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	t.Run("MixedResults", func(t *testing.T) {
		// The unknown slug is skipped, not fatal.
		quotes, err := c.GetQuotes(context.Background(), []string{"market-a", "market-b", "unknown"})
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.InDelta(t, 0.30, quotes["market-a"].YesPrice.InexactFloat64(), 1e-9)
		assert.InDelta(t, 0.65, quotes["market-b"].YesPrice.InexactFloat64(), 1e-9)
	})

	t.Run("AllFailed", func(t *testing.T) {
		_, err := c.GetQuotes(context.Background(), []string{"unknown-1", "unknown-2"})
		assert.Error(t, err)
	})

	t.Run("EmptyWatchlist", func(t *testing.T) {
		quotes, err := c.GetQuotes(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})
}
