// Package ledger manages accounts, debts, bills, and transactions, and
// derives cash balances from the ledger.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
	"github.com/tomhartley/ledgerd/internal/models"
)

// Service implements interfaces.LedgerService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

func (s *Service) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.Name == "" {
		return fmt.Errorf("account name is required")
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.OpenedDate.IsZero() {
		account.OpenedDate = time.Now()
	}
	return s.storage.LedgerStore().SaveAccount(ctx, account)
}

func (s *Service) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	return s.storage.LedgerStore().ListAccounts(ctx, userID)
}

func (s *Service) DeleteAccount(ctx context.Context, userID, id string) error {
	return s.storage.LedgerStore().DeleteAccount(ctx, userID, id)
}

func (s *Service) CreateDebt(ctx context.Context, debt *models.Debt) error {
	if debt.Name == "" {
		return fmt.Errorf("debt name is required")
	}
	if debt.ID == "" {
		debt.ID = uuid.NewString()
	}
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = time.Now()
	}
	return s.storage.LedgerStore().SaveDebt(ctx, debt)
}

func (s *Service) ListDebts(ctx context.Context, userID string) ([]*models.Debt, error) {
	return s.storage.LedgerStore().ListDebts(ctx, userID)
}

func (s *Service) DeleteDebt(ctx context.Context, userID, id string) error {
	return s.storage.LedgerStore().DeleteDebt(ctx, userID, id)
}

func (s *Service) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.Name == "" {
		return fmt.Errorf("bill name is required")
	}
	if bill.DueDay < 1 || bill.DueDay > 31 {
		return fmt.Errorf("bill due day must be 1-31, got %d", bill.DueDay)
	}
	if bill.ID == "" {
		bill.ID = uuid.NewString()
	}
	return s.storage.LedgerStore().SaveBill(ctx, bill)
}

func (s *Service) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	return s.storage.LedgerStore().ListBills(ctx, userID)
}

func (s *Service) DeleteBill(ctx context.Context, userID, id string) error {
	return s.storage.LedgerStore().DeleteBill(ctx, userID, id)
}

func (s *Service) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.AccountID == "" {
		return fmt.Errorf("transaction account is required")
	}
	if tx.Type == models.TxInvesting && tx.Symbol == "" {
		return fmt.Errorf("investing transaction requires a symbol")
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	return s.storage.LedgerStore().SaveTransaction(ctx, tx)
}

func (s *Service) ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.storage.LedgerStore().ListTransactions(ctx, userID)
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.storage.LedgerStore().DeleteTransaction(ctx, userID, id)
}

// CashBalance derives a cash account's balance: starting value plus all
// non-investing ledger activity touching the account. Transfers credit the
// destination with the mirrored amount.
func (s *Service) CashBalance(ctx context.Context, userID, accountID string) (float64, error) {
	account, err := s.storage.LedgerStore().GetAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}

	txs, err := s.storage.LedgerStore().ListTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger: %w", err)
	}

	balance := account.StartingValue
	for _, tx := range txs {
		if tx.Type == models.TxInvesting {
			continue
		}
		if tx.AccountID == accountID {
			balance += tx.Amount
		}
		if tx.Type == models.TxTransfer && tx.AccountToID == accountID {
			balance += -tx.Amount
		}
	}
	return balance, nil
}

var _ interfaces.LedgerService = (*Service)(nil)
