package portfolio

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
	"github.com/tomhartley/ledgerd/internal/models"
)

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// stubLedgerStore serves canned accounts, debts, and transactions.
type stubLedgerStore struct {
	accounts []*models.Account
	debts    []*models.Debt
	txs      []*models.Transaction
}

func (s *stubLedgerStore) SaveAccount(ctx context.Context, a *models.Account) error { return nil }
func (s *stubLedgerStore) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("account not found")
}
func (s *stubLedgerStore) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	return s.accounts, nil
}
func (s *stubLedgerStore) DeleteAccount(ctx context.Context, userID, id string) error { return nil }
func (s *stubLedgerStore) SaveDebt(ctx context.Context, d *models.Debt) error         { return nil }
func (s *stubLedgerStore) ListDebts(ctx context.Context, userID string) ([]*models.Debt, error) {
	return s.debts, nil
}
func (s *stubLedgerStore) DeleteDebt(ctx context.Context, userID, id string) error { return nil }
func (s *stubLedgerStore) SaveBill(ctx context.Context, b *models.Bill) error      { return nil }
func (s *stubLedgerStore) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	return nil, nil
}
func (s *stubLedgerStore) DeleteBill(ctx context.Context, userID, id string) error      { return nil }
func (s *stubLedgerStore) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	s.txs = append(s.txs, tx)
	return nil
}
func (s *stubLedgerStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	return nil
}
func (s *stubLedgerStore) ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.txs, nil
}
func (s *stubLedgerStore) ListTransactionsPage(ctx context.Context, userID string, start, limit int) ([]*models.Transaction, error) {
	if start >= len(s.txs) {
		return nil, nil
	}
	end := start + limit
	if end > len(s.txs) {
		end = len(s.txs)
	}
	return s.txs[start:end], nil
}
func (s *stubLedgerStore) Close() error { return nil }

// stubPriceStore serves canned bars and an optional FX row.
type stubPriceStore struct {
	bars map[string][]models.PriceBar // ascending by date
	rate *models.ExchangeRate
}

func (s *stubPriceStore) UpsertPriceBars(ctx context.Context, bars []models.PriceBar) (int, error) {
	return len(bars), nil
}
func (s *stubPriceStore) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	var out []models.PriceBar
	for _, b := range s.bars[symbol] {
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
func (s *stubPriceStore) EarliestBarDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	bars := s.bars[symbol]
	if len(bars) == 0 {
		return time.Time{}, false, nil
	}
	return bars[0].Date, true, nil
}
func (s *stubPriceStore) LatestBarDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	bars := s.bars[symbol]
	if len(bars) == 0 {
		return time.Time{}, false, nil
	}
	return bars[len(bars)-1].Date, true, nil
}
func (s *stubPriceStore) UpsertExchangeRate(ctx context.Context, rate *models.ExchangeRate) error {
	s.rate = rate
	return nil
}
func (s *stubPriceStore) GetExchangeRate(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	return s.rate, nil
}

// stubStorage bundles the stub stores behind StorageManager.
type stubStorage struct {
	ledger *stubLedgerStore
	prices *stubPriceStore
}

func (s *stubStorage) LedgerStore() interfaces.LedgerStore { return s.ledger }
func (s *stubStorage) PriceStore() interfaces.PriceStore   { return s.prices }
func (s *stubStorage) Close() error                        { return nil }

// stubMarketClient serves canned quotes; missing symbols error.
type stubMarketClient struct {
	quotes map[string]*models.Quote
	calls  int
}

func (c *stubMarketClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	c.calls++
	q, ok := c.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}
func (c *stubMarketClient) GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	return nil, fmt.Errorf("not implemented")
}
func (c *stubMarketClient) GetForexRate(ctx context.Context, pair string) (float64, error) {
	return 0, fmt.Errorf("not implemented")
}

// stubFX serves a fixed GBP/USD rate.
type stubFX struct {
	rate float64
}

func (f *stubFX) GBPUSD(ctx context.Context) float64 { return f.rate }
func (f *stubFX) Refresh(ctx context.Context) error  { return nil }

func newTestService(storage *stubStorage, client *stubMarketClient, rate float64) *Service {
	config := common.NewDefaultConfig()
	return NewService(storage, client, &stubFX{rate: rate}, config, common.NewSilentLogger())
}
