package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/models"
)

// transactionPageSize is the page length used when accumulating a user's
// full ledger.
const transactionPageSize = 500

// LedgerStore persists accounts, debts, bills, and transactions.
type LedgerStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewLedgerStore(db *surrealdb.DB, logger *common.Logger) *LedgerStore {
	return &LedgerStore{
		db:     db,
		logger: logger,
	}
}

// --- Accounts ---

func (s *LedgerStore) SaveAccount(ctx context.Context, account *models.Account) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("account", account.ID), "data": account}

	if _, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *LedgerStore) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	account, err := surrealdb.Select[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	if account == nil || account.UserID != userID {
		return nil, fmt.Errorf("account not found")
	}
	return account, nil
}

func (s *LedgerStore) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	sql := "SELECT * FROM account WHERE user_id = $user_id ORDER BY name ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	var accounts []*models.Account
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			accounts = append(accounts, &(*results)[0].Result[i])
		}
	}
	return accounts, nil
}

func (s *LedgerStore) DeleteAccount(ctx context.Context, userID, id string) error {
	sql := "DELETE account WHERE id = $rid AND user_id = $user_id"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("account", id), "user_id": userID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// --- Debts ---

func (s *LedgerStore) SaveDebt(ctx context.Context, debt *models.Debt) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("debt", debt.ID), "data": debt}

	if _, err := surrealdb.Query[[]models.Debt](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save debt: %w", err)
	}
	return nil
}

func (s *LedgerStore) ListDebts(ctx context.Context, userID string) ([]*models.Debt, error) {
	sql := "SELECT * FROM debt WHERE user_id = $user_id ORDER BY name ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Debt](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}

	var debts []*models.Debt
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			debts = append(debts, &(*results)[0].Result[i])
		}
	}
	return debts, nil
}

func (s *LedgerStore) DeleteDebt(ctx context.Context, userID, id string) error {
	sql := "DELETE debt WHERE id = $rid AND user_id = $user_id"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("debt", id), "user_id": userID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	return nil
}

// --- Bills ---

func (s *LedgerStore) SaveBill(ctx context.Context, bill *models.Bill) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("bill", bill.ID), "data": bill}

	if _, err := surrealdb.Query[[]models.Bill](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return nil
}

func (s *LedgerStore) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	sql := "SELECT * FROM bill WHERE user_id = $user_id ORDER BY name ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Bill](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	var bills []*models.Bill
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			bills = append(bills, &(*results)[0].Result[i])
		}
	}
	return bills, nil
}

func (s *LedgerStore) DeleteBill(ctx context.Context, userID, id string) error {
	sql := "DELETE bill WHERE id = $rid AND user_id = $user_id"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("bill", id), "user_id": userID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

// --- Transactions ---

func (s *LedgerStore) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("transaction", tx.ID), "data": tx}

	if _, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (s *LedgerStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	sql := "DELETE transaction WHERE id = $rid AND user_id = $user_id"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("transaction", id), "user_id": userID}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *LedgerStore) ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	var all []*models.Transaction
	start := 0
	for {
		page, err := s.ListTransactionsPage(ctx, userID, start, transactionPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < transactionPageSize {
			break
		}
		start += transactionPageSize
	}
	return all, nil
}

func (s *LedgerStore) ListTransactionsPage(ctx context.Context, userID string, start, limit int) ([]*models.Transaction, error) {
	sql := "SELECT * FROM transaction WHERE user_id = $user_id ORDER BY date ASC LIMIT $limit START $start"
	vars := map[string]any{
		"user_id": userID,
		"limit":   limit,
		"start":   start,
	}

	results, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var txs []*models.Transaction
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			txs = append(txs, &(*results)[0].Result[i])
		}
	}
	return txs, nil
}

func (s *LedgerStore) Close() error {
	return nil
}
