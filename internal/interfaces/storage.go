// Package interfaces defines service contracts for ledgerd
package interfaces

import (
	"context"
	"time"

	"github.com/tomhartley/ledgerd/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	LedgerStore() LedgerStore
	PriceStore() PriceStore

	// Lifecycle
	Close() error
}

// LedgerStore manages user-scoped ledger records: accounts, debts, bills,
// and transactions.
type LedgerStore interface {
	// Accounts
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, userID, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) error

	// Debts
	SaveDebt(ctx context.Context, debt *models.Debt) error
	ListDebts(ctx context.Context, userID string) ([]*models.Debt, error)
	DeleteDebt(ctx context.Context, userID, id string) error

	// Bills
	SaveBill(ctx context.Context, bill *models.Bill) error
	ListBills(ctx context.Context, userID string) ([]*models.Bill, error)
	DeleteBill(ctx context.Context, userID, id string) error

	// Transactions
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	// ListTransactions returns the full ledger for a user sorted by date
	// ascending, accumulating pages internally until exhausted, so callers
	// never see pagination.
	ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)

	// ListTransactionsPage returns one page of transactions ordered by date
	// ascending. A short page signals the end of the ledger.
	ListTransactionsPage(ctx context.Context, userID string, start, limit int) ([]*models.Transaction, error)

	Close() error
}

// PriceStore manages the price-history cache and FX rates.
type PriceStore interface {
	// UpsertPriceBars writes bars keyed by (symbol, date). Re-writing an
	// existing key overwrites the row; re-running over cached ranges never
	// errors or duplicates. Returns the number of rows written.
	UpsertPriceBars(ctx context.Context, bars []models.PriceBar) (int, error)

	// GetPriceHistory returns cached bars for a symbol in ascending date
	// order. A zero from/to leaves that bound open.
	GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)

	// EarliestBarDate returns the oldest cached date for a symbol.
	// ok is false when the symbol has no cached rows at all.
	EarliestBarDate(ctx context.Context, symbol string) (date time.Time, ok bool, err error)

	// LatestBarDate returns the newest cached date for a symbol.
	// ok is false when the symbol has no cached rows at all.
	LatestBarDate(ctx context.Context, symbol string) (date time.Time, ok bool, err error)

	// UpsertExchangeRate writes the singleton row for a currency pair.
	UpsertExchangeRate(ctx context.Context, rate *models.ExchangeRate) error

	// GetExchangeRate returns the cached rate for a pair, or (nil, nil)
	// when no row exists; absence is not an error.
	GetExchangeRate(ctx context.Context, from, to string) (*models.ExchangeRate, error)
}
