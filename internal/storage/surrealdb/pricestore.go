package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/models"
)

// PriceStore persists the daily close cache and FX rates.
type PriceStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPriceStore(db *surrealdb.DB, logger *common.Logger) *PriceStore {
	return &PriceStore{
		db:     db,
		logger: logger,
	}
}

// barRecordID keys a bar by symbol and calendar day so re-writes of the
// same day overwrite instead of duplicating.
func barRecordID(symbol string, date time.Time) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("price_history", fmt.Sprintf("%s_%s", symbol, date.Format("2006-01-02")))
}

func (s *PriceStore) UpsertPriceBars(ctx context.Context, bars []models.PriceBar) (int, error) {
	written := 0
	for i := range bars {
		bar := &bars[i]
		sql := "UPSERT $rid CONTENT $data"
		vars := map[string]any{"rid": barRecordID(bar.Symbol, bar.Date), "data": bar}

		if _, err := surrealdb.Query[[]models.PriceBar](ctx, s.db, sql, vars); err != nil {
			return written, fmt.Errorf("failed to upsert price bar %s %s: %w", bar.Symbol, bar.DateKey(), err)
		}
		written++
	}
	return written, nil
}

func (s *PriceStore) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	sql := "SELECT * FROM price_history WHERE symbol = $symbol"
	vars := map[string]any{"symbol": symbol}

	if !from.IsZero() {
		sql += " AND date >= $from"
		vars["from"] = from
	}
	if !to.IsZero() {
		sql += " AND date <= $to"
		vars["to"] = to
	}
	sql += " ORDER BY date ASC"

	results, err := surrealdb.Query[[]models.PriceBar](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	var bars []models.PriceBar
	if results != nil && len(*results) > 0 {
		bars = (*results)[0].Result
	}
	return bars, nil
}

func (s *PriceStore) EarliestBarDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	sql := "SELECT * FROM price_history WHERE symbol = $symbol ORDER BY date ASC LIMIT 1"
	vars := map[string]any{"symbol": symbol}

	results, err := surrealdb.Query[[]models.PriceBar](ctx, s.db, sql, vars)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get earliest bar date: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return (*results)[0].Result[0].Date, true, nil
	}
	return time.Time{}, false, nil
}

func (s *PriceStore) LatestBarDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	sql := "SELECT * FROM price_history WHERE symbol = $symbol ORDER BY date DESC LIMIT 1"
	vars := map[string]any{"symbol": symbol}

	results, err := surrealdb.Query[[]models.PriceBar](ctx, s.db, sql, vars)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get latest bar date: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return (*results)[0].Result[0].Date, true, nil
	}
	return time.Time{}, false, nil
}

func rateRecordID(from, to string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("exchange_rate", fmt.Sprintf("%s_%s", from, to))
}

func (s *PriceStore) UpsertExchangeRate(ctx context.Context, rate *models.ExchangeRate) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{"rid": rateRecordID(rate.FromCurrency, rate.ToCurrency), "data": rate}

	if _, err := surrealdb.Query[[]models.ExchangeRate](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return nil
}

func (s *PriceStore) GetExchangeRate(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	rate, err := surrealdb.Select[models.ExchangeRate](ctx, s.db, rateRecordID(from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to select exchange rate: %w", err)
	}
	return rate, nil
}
