package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
	"github.com/tomhartley/ledgerd/internal/models"
)

// Service serves the cached GBP/USD rate and refreshes it from the
// market-data source.
type Service struct {
	priceStore interfaces.PriceStore
	client     interfaces.MarketDataClient
	logger     *common.Logger
}

func NewService(priceStore interfaces.PriceStore, client interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		priceStore: priceStore,
		client:     client,
		logger:     logger,
	}
}

// GBPUSD returns the cached GBP→USD rate, or 0 when no rate has been
// stored yet. Callers treat 0 as "convert with factor 1".
func (s *Service) GBPUSD(ctx context.Context) float64 {
	rate, err := s.priceStore.GetExchangeRate(ctx, "GBP", "USD")
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read cached GBP/USD rate")
		return 0
	}
	if rate == nil {
		return 0
	}
	return rate.Rate
}

// Refresh fetches the current GBP/USD rate and upserts the singleton row.
func (s *Service) Refresh(ctx context.Context) error {
	value, err := s.client.GetForexRate(ctx, "GBPUSD")
	if err != nil {
		return fmt.Errorf("failed to fetch GBP/USD rate: %w", err)
	}

	rate := &models.ExchangeRate{
		FromCurrency: "GBP",
		ToCurrency:   "USD",
		Rate:         value,
		UpdatedAt:    time.Now(),
	}
	if err := s.priceStore.UpsertExchangeRate(ctx, rate); err != nil {
		return fmt.Errorf("failed to store GBP/USD rate: %w", err)
	}

	s.logger.Info().Float64("rate", value).Msg("GBP/USD rate refreshed")
	return nil
}

var _ interfaces.FXService = (*Service)(nil)
