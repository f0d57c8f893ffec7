package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
	"github.com/tomhartley/ledgerd/internal/models"
	"github.com/tomhartley/ledgerd/internal/services/fx"
)

// Service implements interfaces.PortfolioService.
type Service struct {
	storage interfaces.StorageManager
	client  interfaces.MarketDataClient
	fxRates interfaces.FXService
	config  *common.Config
	logger  *common.Logger
}

func NewService(storage interfaces.StorageManager, client interfaces.MarketDataClient, fxRates interfaces.FXService, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		client:  client,
		fxRates: fxRates,
		config:  config,
		logger:  logger,
	}
}

// GetValuation aggregates the user's ledger into holdings and values them
// at live quotes in the display currency. Market-data failures degrade to
// cached closes; a missing FX rate degrades to no conversion. Valuation
// never fails because a price source is down.
func (s *Service) GetValuation(ctx context.Context, userID string) (*models.PortfolioValuation, error) {
	txs, err := s.storage.LedgerStore().ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	holdings := AggregateHoldings(txs)
	display := common.ResolveDisplayCurrency(ctx, s.config.DisplayCurrency)
	gbpUsd := s.fxRates.GBPUSD(ctx)
	now := time.Now()

	valuations := make([]models.HoldingValuation, 0, len(holdings))
	for _, h := range holdings {
		valuations = append(valuations, s.valueHolding(ctx, h, display, gbpUsd, now))
	}

	active, closed := splitClosedPositions(valuations)

	result := &models.PortfolioValuation{
		Holdings:        active,
		ClosedPositions: closed,
		DisplayCurrency: display,
		AsOf:            now,
	}
	for _, v := range active {
		result.TotalValue += v.CurrentValue
		result.TotalCost += v.TotalCost
	}
	result.TotalProfit = result.TotalValue - result.TotalCost
	if result.TotalCost > 0 {
		result.TotalProfitPct = result.TotalProfit / result.TotalCost * 100
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("holdings", len(active)).
		Int("closed", len(closed)).
		Str("currency", display).
		Msg("Portfolio valuation computed")

	return result, nil
}

// AccountValue sums the current value of the active holdings attributable
// to one investment account. Aggregation here is per symbol and account, so
// a symbol traded in two accounts contributes only its own account's share.
func (s *Service) AccountValue(ctx context.Context, userID, accountID string) (float64, error) {
	txs, err := s.storage.LedgerStore().ListTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger: %w", err)
	}

	display := common.ResolveDisplayCurrency(ctx, s.config.DisplayCurrency)
	gbpUsd := s.fxRates.GBPUSD(ctx)
	now := time.Now()

	var total float64
	for _, h := range AggregateHoldingsByAccount(txs) {
		if h.AccountID != accountID || h.IsClosed() {
			continue
		}
		total += s.valueHolding(ctx, h, display, gbpUsd, now).CurrentValue
	}
	return total, nil
}

// valueHolding values one holding. Closed positions skip live quoting and
// keep their cost figures for realized-position display.
func (s *Service) valueHolding(ctx context.Context, h *models.Holding, display string, gbpUsd float64, now time.Time) models.HoldingValuation {
	v := models.HoldingValuation{
		Holding:     *h,
		AvgBuyPrice: h.AvgPrice(),
	}

	if h.IsClosed() {
		return v
	}

	bars, err := s.storage.PriceStore().GetPriceHistory(ctx, h.Symbol, time.Time{}, time.Time{})
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", h.Symbol).Msg("Failed to load cached price history")
		bars = nil
	}

	nativePrice, nativeCcy, live := s.resolveCurrentPrice(ctx, h, bars)
	v.CurrentPrice = fx.DisplayPrice(nativePrice, nativeCcy, display, gbpUsd)
	v.CurrentValue = h.Quantity * v.CurrentPrice
	v.ProfitValue = v.CurrentValue - h.TotalCost
	if h.TotalCost > 0 {
		v.ProfitPercent = v.ProfitValue / h.TotalCost * 100
	}

	// Day change compares the current price to the last close before it,
	// in the quote's own currency. Missing reference degrades to 0.
	refDay := now
	if !live && len(bars) > 0 {
		refDay = bars[len(bars)-1].Date
	}
	if prev, ok := previousClose(bars, refDay); ok && prev > 0 {
		v.DayChangePct = (nativePrice - prev) / prev * 100
	}

	return v
}

// resolveCurrentPrice returns the freshest price available for a holding:
// a live quote when the source answers, otherwise the latest cached close.
// The returned bool reports whether the price is live.
func (s *Service) resolveCurrentPrice(ctx context.Context, h *models.Holding, bars []models.PriceBar) (price float64, currency string, live bool) {
	quote, err := s.client.GetQuote(ctx, h.Symbol)
	if err == nil && quote.Price > 0 {
		return quote.Price, quote.Currency, true
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", h.Symbol).Msg("Live quote unavailable, falling back to cached close")
	}

	if close, ok := latestClose(bars); ok {
		return close, nativeCurrency(h.Symbol, h.Currency), false
	}
	return 0, nativeCurrency(h.Symbol, h.Currency), false
}

var _ interfaces.PortfolioService = (*Service)(nil)
