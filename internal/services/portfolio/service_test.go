package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/models"
)

func TestGetValuationPenceNormalization(t *testing.T) {
	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{
			investingTx("VWRL.LSE", "buy", 10, -450, day(2024, 1, 10)),
		}},
		prices: &stubPriceStore{},
	}
	client := &stubMarketClient{quotes: map[string]*models.Quote{
		"VWRL.LSE": {Symbol: "VWRL.LSE", Price: 5000, Currency: "GBX", Timestamp: time.Now()},
	}}

	v, err := newTestService(storage, client, 1.25).GetValuation(context.Background(), "default")
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Holdings) != 1 {
		t.Fatalf("got %d holdings, want 1", len(v.Holdings))
	}

	h := v.Holdings[0]
	if !approxEqual(h.CurrentPrice, 50, 1e-9) {
		t.Errorf("current price = %v, want 50 (5000 pence)", h.CurrentPrice)
	}
	if !approxEqual(h.CurrentValue, 500, 1e-9) {
		t.Errorf("current value = %v, want 500", h.CurrentValue)
	}
	if !approxEqual(h.ProfitValue, 50, 1e-9) {
		t.Errorf("profit = %v, want 50", h.ProfitValue)
	}
	if v.DisplayCurrency != "GBP" {
		t.Errorf("display currency = %s, want GBP", v.DisplayCurrency)
	}
}

func TestGetValuationUSDDisplay(t *testing.T) {
	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{
			investingTx("VWRL.LSE", "buy", 10, -450, day(2024, 1, 10)),
		}},
		prices: &stubPriceStore{},
	}
	client := &stubMarketClient{quotes: map[string]*models.Quote{
		"VWRL.LSE": {Symbol: "VWRL.LSE", Price: 5000, Currency: "GBX", Timestamp: time.Now()},
	}}

	ctx := common.WithUserContext(context.Background(), &common.UserContext{DisplayCurrency: "USD"})
	v, err := newTestService(storage, client, 1.25).GetValuation(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}

	h := v.Holdings[0]
	if !approxEqual(h.CurrentPrice, 62.5, 1e-9) {
		t.Errorf("current price = %v, want 62.5 (50 GBP × 1.25)", h.CurrentPrice)
	}
	if v.DisplayCurrency != "USD" {
		t.Errorf("display currency = %s, want USD", v.DisplayCurrency)
	}
}

func TestGetValuationMissingRateDegrades(t *testing.T) {
	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{
			investingTx("VWRL.LSE", "buy", 10, -450, day(2024, 1, 10)),
		}},
		prices: &stubPriceStore{},
	}
	client := &stubMarketClient{quotes: map[string]*models.Quote{
		"VWRL.LSE": {Symbol: "VWRL.LSE", Price: 5000, Currency: "GBX", Timestamp: time.Now()},
	}}

	ctx := common.WithUserContext(context.Background(), &common.UserContext{DisplayCurrency: "USD"})
	v, err := newTestService(storage, client, 0).GetValuation(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}

	// No rate: pence still scale to pounds, but no FX conversion happens.
	h := v.Holdings[0]
	if !approxEqual(h.CurrentPrice, 50, 1e-9) {
		t.Errorf("current price = %v, want 50 (unconverted)", h.CurrentPrice)
	}
}

func TestGetValuationQuoteFailureFallsBackToCache(t *testing.T) {
	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{
			investingTx("AAPL.US", "buy", 2, -300, day(2024, 1, 10)),
		}},
		prices: &stubPriceStore{bars: map[string][]models.PriceBar{
			"AAPL.US": barsFor("AAPL.US", map[string]float64{
				"2024-06-06": 170,
				"2024-06-07": 180,
			}),
		}},
	}
	client := &stubMarketClient{} // no quotes at all

	v, err := newTestService(storage, client, 1.25).GetValuation(context.Background(), "default")
	if err != nil {
		t.Fatal(err)
	}

	h := v.Holdings[0]
	// Latest cached close, USD native, GBP display at 1.25: 180 / 1.25 = 144.
	if !approxEqual(h.CurrentPrice, 144, 1e-9) {
		t.Errorf("current price = %v, want 144", h.CurrentPrice)
	}
	// Day change from the two cached closes: (180-170)/170.
	if !approxEqual(h.DayChangePct, 100*10.0/170.0, 1e-9) {
		t.Errorf("day change = %v, want %v", h.DayChangePct, 100*10.0/170.0)
	}
}

func TestGetValuationDayChangeDegradesToZero(t *testing.T) {
	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{
			investingTx("NEW.US", "buy", 1, -100, day(2024, 1, 10)),
		}},
		prices: &stubPriceStore{}, // nothing cached
	}
	client := &stubMarketClient{quotes: map[string]*models.Quote{
		"NEW.US": {Symbol: "NEW.US", Price: 105, Currency: "USD", Timestamp: time.Now()},
	}}

	v, err := newTestService(storage, client, 0).GetValuation(context.Background(), "default")
	if err != nil {
		t.Fatal(err)
	}
	if v.Holdings[0].DayChangePct != 0 {
		t.Errorf("day change = %v, want 0 when no reference close exists", v.Holdings[0].DayChangePct)
	}
}

func TestAccountValueSumsAttributableHoldings(t *testing.T) {
	isaBuy := investingTx("VWRL.LSE", "buy", 10, -450, day(2024, 1, 10))
	isaBuy.AccountID = "isa"
	sippBuy := investingTx("AAPL.US", "buy", 2, -300, day(2024, 1, 10))
	sippBuy.AccountID = "sipp"

	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{isaBuy, sippBuy}},
		prices: &stubPriceStore{},
	}
	client := &stubMarketClient{quotes: map[string]*models.Quote{
		"VWRL.LSE": {Symbol: "VWRL.LSE", Price: 5000, Currency: "GBX", Timestamp: time.Now()},
		"AAPL.US":  {Symbol: "AAPL.US", Price: 180, Currency: "USD", Timestamp: time.Now()},
	}}

	svc := newTestService(storage, client, 0)

	value, err := svc.AccountValue(context.Background(), "default", "isa")
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(value, 500, 1e-9) {
		t.Errorf("isa value = %v, want 500 (VWRL only)", value)
	}

	value, err = svc.AccountValue(context.Background(), "default", "empty")
	if err != nil {
		t.Fatal(err)
	}
	if value != 0 {
		t.Errorf("value = %v, want 0 for an account with no holdings", value)
	}
}

func TestAccountValueSplitsSymbolAcrossAccounts(t *testing.T) {
	// The same symbol bought in two accounts: each account gets only its
	// own share, never the whole position.
	isaBuy := investingTx("AAPL.US", "buy", 1, -100, day(2024, 1, 10))
	isaBuy.AccountID = "isa"
	sippBuy := investingTx("AAPL.US", "buy", 3, -300, day(2024, 2, 10))
	sippBuy.AccountID = "sipp"

	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{isaBuy, sippBuy}},
		prices: &stubPriceStore{},
	}
	client := &stubMarketClient{quotes: map[string]*models.Quote{
		"AAPL.US": {Symbol: "AAPL.US", Price: 100, Currency: "USD", Timestamp: time.Now()},
	}}

	svc := newTestService(storage, client, 0)

	isa, err := svc.AccountValue(context.Background(), "default", "isa")
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(isa, 100, 1e-9) {
		t.Errorf("isa value = %v, want 100 (1 share)", isa)
	}

	sipp, err := svc.AccountValue(context.Background(), "default", "sipp")
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(sipp, 300, 1e-9) {
		t.Errorf("sipp value = %v, want 300 (3 shares)", sipp)
	}
}

func TestGetValuationSegregatesClosedPositions(t *testing.T) {
	storage := &stubStorage{
		ledger: &stubLedgerStore{txs: []*models.Transaction{
			investingTx("OLD.US", "buy", 5, -500, day(2023, 1, 10)),
			investingTx("OLD.US", "sell", 5, 600, day(2023, 6, 10)),
			investingTx("AAPL.US", "buy", 2, -300, day(2024, 1, 10)),
		}},
		prices: &stubPriceStore{},
	}
	client := &stubMarketClient{quotes: map[string]*models.Quote{
		"AAPL.US": {Symbol: "AAPL.US", Price: 180, Currency: "USD", Timestamp: time.Now()},
	}}

	v, err := newTestService(storage, client, 0).GetValuation(context.Background(), "default")
	if err != nil {
		t.Fatal(err)
	}

	if len(v.Holdings) != 1 || v.Holdings[0].Symbol != "AAPL.US" {
		t.Fatalf("active holdings = %+v, want only AAPL.US", v.Holdings)
	}
	if len(v.ClosedPositions) != 1 || v.ClosedPositions[0].Symbol != "OLD.US" {
		t.Fatalf("closed positions = %+v, want only OLD.US", v.ClosedPositions)
	}

	closed := v.ClosedPositions[0]
	if !approxEqual(closed.TotalCost, 500, 1e-9) {
		t.Errorf("closed total cost = %v, want 500", closed.TotalCost)
	}
	if !approxEqual(closed.AvgBuyPrice, 100, 1e-9) {
		t.Errorf("closed avg buy price = %v, want 100", closed.AvgBuyPrice)
	}
	// Closed positions never hit the quote source.
	if client.calls != 1 {
		t.Errorf("quote calls = %d, want 1 (active holding only)", client.calls)
	}

	// Totals cover active holdings only.
	if !approxEqual(v.TotalValue, 360, 1e-9) {
		t.Errorf("total value = %v, want 360", v.TotalValue)
	}
	if !approxEqual(v.TotalCost, 300, 1e-9) {
		t.Errorf("total cost = %v, want 300", v.TotalCost)
	}
}
