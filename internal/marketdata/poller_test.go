package marketdata

import (
	"context"
	"fmt"
	"testing"
	"time"

	"prediction-sizer-go/internal/history"
	"prediction-sizer-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubClient struct {
	quotes map[string]Quote
}

func (s *stubClient) GetMarket(_ context.Context, slug string) (*Quote, error) {
	q, ok := s.quotes[slug]
	if !ok {
		return nil, fmt.Errorf("market %q not found", slug)
	}
	return &q, nil
}

func (s *stubClient) GetQuotes(ctx context.Context, slugs []string) (map[string]Quote, error) {
	out := make(map[string]Quote)
	for _, slug := range slugs {
		if q, err := s.GetMarket(ctx, slug); err == nil {
			out[slug] = *q
		}
	}
	if len(out) == 0 && len(slugs) > 0 {
		return nil, fmt.Errorf("no quotes")
	}
	return out, nil
}

type recordingPublisher struct {
	events []string
	loads  []interface{}
}

func (r *recordingPublisher) Publish(event string, payload interface{}) {
	r.events = append(r.events, event)
	r.loads = append(r.loads, payload)
}

func newPollerFixture(t *testing.T, slugs []string, client ClientInterface) (*Poller, *history.Store, *recordingPublisher) {
	t.Helper()

	dsn := fmt.Sprintf("file:poller_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Market{}, &models.Evaluation{}))
	for _, slug := range slugs {
		require.NoError(t, db.Create(&models.Market{Slug: slug, Enabled: true}).Error)
	}

	store := history.NewStore(db)
	pub := &recordingPublisher{}
	poller := NewPoller(zap.NewNop(), client, store, pub, time.Minute)
	return poller, store, pub
}

func TestPollerRefresh(t *testing.T) {
	quotedAt := time.Now()
	client := &stubClient{quotes: map[string]Quote{
		"rates-cut-march": {
			Slug:     "rates-cut-march",
			Question: "Will rates be cut in March?",
			YesPrice: decimal.RequireFromString("0.42"),
			QuotedAt: quotedAt,
		},
	}}

	poller, store, pub := newPollerFixture(t, []string{"rates-cut-march"}, client)

	require.NoError(t, poller.refresh(context.Background()))

	// Quote persisted on the watchlist row.
	markets, err := store.Watchlist()
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.InDelta(t, 0.42, markets[0].YesPrice, 1e-9)

	// And published with derived odds.
	require.Len(t, pub.events, 1)
	assert.Equal(t, "quote", pub.events[0])
	update, ok := pub.loads[0].(QuoteUpdate)
	require.True(t, ok)
	assert.Equal(t, "rates-cut-march", update.Slug)
	assert.InDelta(t, 1/0.42, update.DecimalOdds, 1e-6)
	assert.InDelta(t, 0.42, update.ImpliedProbability, 1e-6)
	assert.Equal(t, quotedAt.Unix(), update.QuotedAt)
}

func TestPollerRefreshEmptyWatchlist(t *testing.T) {
	poller, _, pub := newPollerFixture(t, nil, &stubClient{})

	require.NoError(t, poller.refresh(context.Background()))
	assert.Empty(t, pub.events)
}

func TestPollerRefreshClientFailure(t *testing.T) {
	poller, _, pub := newPollerFixture(t, []string{"rates-cut-march"}, &stubClient{})

	assert.Error(t, poller.refresh(context.Background()))
	assert.Empty(t, pub.events)
}
