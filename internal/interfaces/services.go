package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/tomhartley/ledgerd/internal/models"
)

// LedgerService manages accounts, debts, bills, and transactions, and
// derives cash-account balances from the ledger.
type LedgerService interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) error

	CreateDebt(ctx context.Context, debt *models.Debt) error
	ListDebts(ctx context.Context, userID string) ([]*models.Debt, error)
	DeleteDebt(ctx context.Context, userID, id string) error

	CreateBill(ctx context.Context, bill *models.Bill) error
	ListBills(ctx context.Context, userID string) ([]*models.Bill, error)
	DeleteBill(ctx context.Context, userID, id string) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error

	// CashBalance derives the balance of a checking/savings account:
	// startingValue plus all non-investing ledger activity.
	CashBalance(ctx context.Context, userID, accountID string) (float64, error)

	// ImportCSV ingests pre-mapped transaction rows. Malformed rows are
	// skipped and counted, never fatal.
	ImportCSV(ctx context.Context, userID string, r io.Reader) (*models.ImportResult, error)
}

// PortfolioService values holdings and reconstructs net-worth history.
type PortfolioService interface {
	// GetValuation aggregates the ledger into holdings and values them at
	// current quotes in the user's display currency.
	GetValuation(ctx context.Context, userID string) (*models.PortfolioValuation, error)

	// GetNetWorthHistory reconstructs one point per day for a lookback
	// window ending today, oldest first.
	GetNetWorthHistory(ctx context.Context, userID string, days int) ([]models.NetWorthPoint, error)

	// AccountValue returns the current value of the active holdings
	// attributable to one investment account, in the display currency.
	AccountValue(ctx context.Context, userID, accountID string) (float64, error)
}

// BackfillService fills the price-history cache from the market-data source.
type BackfillService interface {
	// Backfill fetches daily closes for the given symbols over [from, to]
	// in bounded chunks, upserting into the cache. A zero to defaults to
	// now. One symbol's failure never aborts the rest.
	Backfill(ctx context.Context, symbols []string, from, to time.Time) models.BackfillSummary

	// FillGaps inspects the user's ledger, determines each symbol's needed
	// history start, and fetches only uncached gaps.
	FillGaps(ctx context.Context, userID string) (models.BackfillSummary, error)
}

// FXService maintains and serves the GBP/USD exchange rate.
type FXService interface {
	// GBPUSD returns the cached GBP→USD rate, or 0 when unknown.
	// Consumers degrade to a conversion factor of 1 on 0.
	GBPUSD(ctx context.Context) float64

	// Refresh fetches the current rate and upserts the singleton row.
	Refresh(ctx context.Context) error
}
