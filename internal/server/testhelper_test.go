package server

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomhartley/ledgerd/internal/app"
	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/models"
)

// stubLedgerService keeps records in memory.
type stubLedgerService struct {
	accounts []*models.Account
	txs      []*models.Transaction
}

func (s *stubLedgerService) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.Name == "" {
		return fmt.Errorf("account name is required")
	}
	if a.ID == "" {
		a.ID = fmt.Sprintf("acc-%d", len(s.accounts)+1)
	}
	s.accounts = append(s.accounts, a)
	return nil
}
func (s *stubLedgerService) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	return s.accounts, nil
}
func (s *stubLedgerService) DeleteAccount(ctx context.Context, userID, id string) error { return nil }
func (s *stubLedgerService) CreateDebt(ctx context.Context, d *models.Debt) error       { return nil }
func (s *stubLedgerService) ListDebts(ctx context.Context, userID string) ([]*models.Debt, error) {
	return nil, nil
}
func (s *stubLedgerService) DeleteDebt(ctx context.Context, userID, id string) error { return nil }
func (s *stubLedgerService) CreateBill(ctx context.Context, b *models.Bill) error    { return nil }
func (s *stubLedgerService) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	return nil, nil
}
func (s *stubLedgerService) DeleteBill(ctx context.Context, userID, id string) error { return nil }
func (s *stubLedgerService) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	s.txs = append(s.txs, tx)
	return nil
}
func (s *stubLedgerService) ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.txs, nil
}
func (s *stubLedgerService) DeleteTransaction(ctx context.Context, userID, id string) error {
	return nil
}
func (s *stubLedgerService) CashBalance(ctx context.Context, userID, accountID string) (float64, error) {
	return 1234.56, nil
}
func (s *stubLedgerService) ImportCSV(ctx context.Context, userID string, r io.Reader) (*models.ImportResult, error) {
	io.Copy(io.Discard, r)
	return &models.ImportResult{Imported: 2, Skipped: 1}, nil
}

// stubPortfolioService serves canned valuations and history.
type stubPortfolioService struct {
	lastUserID string
}

func (s *stubPortfolioService) GetValuation(ctx context.Context, userID string) (*models.PortfolioValuation, error) {
	s.lastUserID = userID
	return &models.PortfolioValuation{
		DisplayCurrency: common.ResolveDisplayCurrency(ctx, "GBP"),
		TotalValue:      500,
		AsOf:            time.Now(),
	}, nil
}
func (s *stubPortfolioService) AccountValue(ctx context.Context, userID, accountID string) (float64, error) {
	s.lastUserID = userID
	return 9876.54, nil
}
func (s *stubPortfolioService) GetNetWorthHistory(ctx context.Context, userID string, days int) ([]models.NetWorthPoint, error) {
	s.lastUserID = userID
	points := make([]models.NetWorthPoint, days)
	base := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))
	for i := range points {
		points[i] = models.NetWorthPoint{Date: base.AddDate(0, 0, i), NetWorth: float64(1000 + i)}
	}
	return points, nil
}

type stubBackfillService struct{}

func (s *stubBackfillService) Backfill(ctx context.Context, symbols []string, from, to time.Time) models.BackfillSummary {
	summary := make(models.BackfillSummary, len(symbols))
	for _, sym := range symbols {
		summary[sym] = models.BackfillResult{Rows: 42}
	}
	return summary
}
func (s *stubBackfillService) FillGaps(ctx context.Context, userID string) (models.BackfillSummary, error) {
	return models.BackfillSummary{}, nil
}

type stubFXService struct {
	rate float64
}

func (s *stubFXService) GBPUSD(ctx context.Context) float64 { return s.rate }
func (s *stubFXService) Refresh(ctx context.Context) error  { return nil }

func newTestServer() (*Server, *stubLedgerService, *stubPortfolioService) {
	ledgerSvc := &stubLedgerService{}
	portfolioSvc := &stubPortfolioService{}

	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           common.NewSilentLogger(),
		LedgerService:    ledgerSvc,
		PortfolioService: portfolioSvc,
		BackfillService:  &stubBackfillService{},
		FXService:        &stubFXService{rate: 1.27},
		StartupTime:      time.Now(),
	}
	return NewServer(a), ledgerSvc, portfolioSvc
}
