// Package backfill fills the daily-close cache from the market-data
// source in bounded, rate-limit-aware chunks.
package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/tomhartley/ledgerd/internal/clients/eodhd"
	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
	"github.com/tomhartley/ledgerd/internal/models"
)

const (
	// upsertBatchSize bounds how many bars go to storage per write.
	upsertBatchSize = 500

	// rateLimitRetries is how many times a rate-limited chunk is retried
	// before the symbol is marked failed.
	rateLimitRetries = 3
)

// Service implements interfaces.BackfillService.
type Service struct {
	storage interfaces.StorageManager
	client  interfaces.MarketDataClient
	config  *common.Config
	logger  *common.Logger
}

func NewService(storage interfaces.StorageManager, client interfaces.MarketDataClient, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		client:  client,
		config:  config,
		logger:  logger,
	}
}

// Backfill fetches daily closes for the given symbols over [from, to],
// upserting into the cache. A zero to defaults to now. Symbols are
// processed independently: one symbol's failure is recorded in the summary
// and never aborts the rest.
func (s *Service) Backfill(ctx context.Context, symbols []string, from, to time.Time) models.BackfillSummary {
	if to.IsZero() {
		to = time.Now()
	}

	summary := make(models.BackfillSummary, len(symbols))
	for i, symbol := range symbols {
		rows, err := s.backfillSymbol(ctx, symbol, from, to)
		result := models.BackfillResult{Rows: rows}
		if err != nil {
			result.Error = err.Error()
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Backfill failed for symbol")
		}
		summary[symbol] = result

		if i < len(symbols)-1 {
			sleepCtx(ctx, s.config.Backfill.GetSymbolDelay())
		}
	}
	return summary
}

// backfillSymbol walks [from, to] in chunks of at most one year, fetching
// and upserting each chunk. Rate-limit responses back off and retry; other
// errors fail the symbol immediately.
func (s *Service) backfillSymbol(ctx context.Context, symbol string, from, to time.Time) (int, error) {
	if from.After(to) {
		return 0, nil
	}

	written := 0
	for chunkStart := from; !chunkStart.After(to); {
		chunkEnd := chunkStart.AddDate(1, 0, 0).AddDate(0, 0, -1)
		if chunkEnd.After(to) {
			chunkEnd = to
		}

		bars, err := s.fetchChunk(ctx, symbol, chunkStart, chunkEnd)
		if err != nil {
			return written, err
		}

		rows, err := s.upsertBatched(ctx, bars)
		written += rows
		if err != nil {
			return written, err
		}

		s.logger.Debug().
			Str("symbol", symbol).
			Str("from", chunkStart.Format("2006-01-02")).
			Str("to", chunkEnd.Format("2006-01-02")).
			Int("rows", rows).
			Msg("Backfill chunk complete")

		chunkStart = chunkEnd.AddDate(0, 0, 1)
		if !chunkStart.After(to) {
			sleepCtx(ctx, s.config.Backfill.GetChunkDelay())
		}
	}
	return written, nil
}

// fetchChunk fetches one chunk, retrying rate-limit responses with a
// fixed delay between attempts.
func (s *Service) fetchChunk(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	var lastErr error
	for attempt := 0; attempt <= rateLimitRetries; attempt++ {
		if attempt > 0 {
			s.logger.Warn().
				Str("symbol", symbol).
				Int("attempt", attempt).
				Msg("Rate limited, retrying chunk")
			if !sleepCtx(ctx, s.config.Backfill.GetRetryDelay()) {
				return nil, ctx.Err()
			}
		}

		bars, err := s.client.GetDailyCloses(ctx, symbol, from, to)
		if err == nil {
			return bars, nil
		}
		if !eodhd.IsRateLimited(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("rate limited after %d retries: %w", rateLimitRetries, lastErr)
}

// upsertBatched writes bars to the cache in bounded batches, returning the
// number of rows written.
func (s *Service) upsertBatched(ctx context.Context, bars []models.PriceBar) (int, error) {
	written := 0
	for start := 0; start < len(bars); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(bars) {
			end = len(bars)
		}
		rows, err := s.storage.PriceStore().UpsertPriceBars(ctx, bars[start:end])
		written += rows
		if err != nil {
			return written, fmt.Errorf("failed to store price bars: %w", err)
		}
	}
	return written, nil
}

// FillGaps inspects the user's ledger, determines each traded symbol's
// required history start (its first trade date), and fetches only the
// ranges the cache is missing: the head before the earliest cached bar
// and the tail after the latest one. Re-running against a cache that
// already reaches today performs zero fetches.
func (s *Service) FillGaps(ctx context.Context, userID string) (models.BackfillSummary, error) {
	txs, err := s.storage.LedgerStore().ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	// Earliest trade date per symbol.
	firstTrade := make(map[string]time.Time)
	for _, tx := range txs {
		if !tx.IsInvesting() {
			continue
		}
		if cur, ok := firstTrade[tx.Symbol]; !ok || tx.Date.Before(cur) {
			firstTrade[tx.Symbol] = tx.Date
		}
	}

	now := time.Now()
	summary := make(models.BackfillSummary, len(firstTrade))
	for symbol, needFrom := range firstTrade {
		rows, err := s.fillSymbolGaps(ctx, symbol, needFrom.Truncate(24*time.Hour), now)
		result := models.BackfillResult{Rows: rows}
		if err != nil {
			result.Error = err.Error()
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Gap fill failed for symbol")
		}
		summary[symbol] = result

		sleepCtx(ctx, s.config.Backfill.GetSymbolDelay())
	}
	return summary, nil
}

// fillSymbolGaps fetches whatever the cache is missing for one symbol:
// nothing cached means the full [needFrom, now] range, otherwise the head
// gap [needFrom, cacheStart) and the trailing gap (latestCached, now].
func (s *Service) fillSymbolGaps(ctx context.Context, symbol string, needFrom, now time.Time) (int, error) {
	cacheStart, ok, err := s.storage.PriceStore().EarliestBarDate(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.backfillSymbol(ctx, symbol, needFrom, now)
	}

	written := 0
	if cacheStart.Truncate(24*time.Hour).After(needFrom) {
		rows, err := s.backfillSymbol(ctx, symbol, needFrom, cacheStart.AddDate(0, 0, -1))
		written += rows
		if err != nil {
			return written, err
		}
	}

	latest, ok, err := s.storage.PriceStore().LatestBarDate(ctx, symbol)
	if err != nil {
		return written, err
	}
	if ok && latest.Truncate(24*time.Hour).Before(now.Truncate(24*time.Hour)) {
		rows, err := s.backfillSymbol(ctx, symbol, latest.AddDate(0, 0, 1), now)
		written += rows
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// sleepCtx sleeps for d unless the context is cancelled first.
// Returns false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

var _ interfaces.BackfillService = (*Service)(nil)
