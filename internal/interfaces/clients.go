package interfaces

import (
	"context"
	"time"

	"github.com/tomhartley/ledgerd/internal/models"
)

// MarketDataClient is the external market-data fetch interface.
type MarketDataClient interface {
	// GetQuote retrieves the current quote for a symbol. The quote's
	// currency is reported by the source, never assumed by the caller.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetDailyCloses retrieves daily close bars for [from, to]. A
	// rate-limit condition is signalled distinctly (see IsRateLimited in
	// the client package) so callers can apply their retry policy.
	GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)

	// GetForexRate retrieves the current rate for a forex pair, e.g. "GBPUSD".
	GetForexRate(ctx context.Context, pair string) (float64, error)
}
