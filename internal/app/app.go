// Package app wires configuration, storage, clients, and services into a
// runnable application core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomhartley/ledgerd/internal/clients/eodhd"
	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
	"github.com/tomhartley/ledgerd/internal/services/backfill"
	"github.com/tomhartley/ledgerd/internal/services/fx"
	"github.com/tomhartley/ledgerd/internal/services/ledger"
	"github.com/tomhartley/ledgerd/internal/services/portfolio"
	"github.com/tomhartley/ledgerd/internal/storage/surrealdb"
)

// App holds all initialized services, clients, and storage. It is the
// shared core behind cmd/ledgerd-server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	MarketClient     interfaces.MarketDataClient
	LedgerService    interfaces.LedgerService
	PortfolioService interfaces.PortfolioService
	BackfillService  interfaces.BackfillService
	FXService        interfaces.FXService
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services. configPath may be
// empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Config resolution: explicit path, LEDGERD_CONFIG, binary dir, dev fallback.
	if configPath == "" {
		configPath = os.Getenv("LEDGERD_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "ledgerd.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/ledgerd.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if config.Clients.EODHD.APIKey == "" {
		logger.Warn().Msg("EODHD API key not configured - live quotes and backfill will be unavailable")
	}

	marketClient := eodhd.NewClient(
		config.Clients.EODHD.APIKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		eodhd.WithLogger(logger),
	)

	fxService := fx.NewService(storageManager.PriceStore(), marketClient, logger)
	ledgerService := ledger.NewService(storageManager, logger)
	portfolioService := portfolio.NewService(storageManager, marketClient, fxService, config, logger)
	backfillService := backfill.NewService(storageManager, marketClient, config, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MarketClient:     marketClient,
		LedgerService:    ledgerService,
		PortfolioService: portfolioService,
		BackfillService:  backfillService,
		FXService:        fxService,
		StartupTime:      time.Now(),
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("display_currency", config.DisplayCurrency).
		Msg("Application initialized")

	return a, nil
}

// StartScheduler launches the background refresh loops.
func (a *App) StartScheduler() {
	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel

	go startFXScheduler(ctx, a.FXService, a.Logger, time.Hour)
	go startPriceScheduler(ctx, a.BackfillService, a.Logger, 24*time.Hour)

	a.Logger.Info().Msg("Background scheduler started")
}

// Shutdown stops background work and closes storage.
func (a *App) Shutdown() error {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
