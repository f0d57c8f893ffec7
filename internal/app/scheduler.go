package app

import (
	"context"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
)

// startFXScheduler refreshes the GBP/USD rate on a fixed interval. One
// refresh runs immediately so valuation has a rate soon after boot.
func startFXScheduler(ctx context.Context, fxService interfaces.FXService, logger *common.Logger, interval time.Duration) {
	refreshFX(ctx, fxService, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("FX scheduler: stopped")
			return
		case <-ticker.C:
			refreshFX(ctx, fxService, logger)
		}
	}
}

func refreshFX(ctx context.Context, fxService interfaces.FXService, logger *common.Logger) {
	if err := fxService.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("FX refresh failed")
	}
}

// startPriceScheduler tops up the price-history cache on a fixed interval
// by filling whatever gaps the default user's ledger implies. One top-up
// runs immediately so history is usable soon after boot.
func startPriceScheduler(ctx context.Context, backfillService interfaces.BackfillService, logger *common.Logger, interval time.Duration) {
	topUpPrices(ctx, backfillService, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Price scheduler: stopped")
			return
		case <-ticker.C:
			topUpPrices(ctx, backfillService, logger)
		}
	}
}

func topUpPrices(ctx context.Context, backfillService interfaces.BackfillService, logger *common.Logger) {
	start := time.Now()

	summary, err := backfillService.FillGaps(ctx, common.ResolveUserID(ctx))
	if err != nil {
		logger.Warn().Err(err).Msg("Price top-up failed")
		return
	}

	rows := 0
	for _, r := range summary {
		rows += r.Rows
	}
	logger.Info().
		Int("symbols", len(summary)).
		Int("rows", rows).
		Dur("elapsed", time.Since(start)).
		Msg("Price top-up: complete")
}
