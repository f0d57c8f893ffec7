package portfolio

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/models"
	"github.com/tomhartley/ledgerd/internal/services/fx"
)

// symbolReplayState tracks incremental trade replay for one symbol.
// Transactions are sorted by date ascending; the cursor advances as the
// history walk progresses, so the full window costs O(transactions) total.
type symbolReplayState struct {
	Symbol   string
	Currency string
	Bars     []models.PriceBar // ascending by date
	Txs      []*models.Transaction
	Cursor   int
	Quantity float64

	// Last-resort price for days the cache cannot answer: the current
	// live quote, fetched once when the bars do not cover the window.
	LivePrice    float64
	LiveCurrency string
}

// advanceTo applies every trade dated at or before cutoff.
func (st *symbolReplayState) advanceTo(cutoff time.Time) {
	cutoffKey := cutoff.Format("2006-01-02")
	for st.Cursor < len(st.Txs) {
		tx := st.Txs[st.Cursor]
		if tx.DateKey() > cutoffKey {
			break
		}
		switch tx.TradeKind() {
		case models.TradeBuy, models.TradeReinvest:
			st.Quantity += math.Abs(tx.Quantity)
		case models.TradeSell:
			st.Quantity -= math.Abs(tx.Quantity)
		}
		st.Cursor++
	}
}

// cashReplayState tracks running cash balances per account.
type cashReplayState struct {
	Txs      []*models.Transaction
	Cursor   int
	Balances map[string]float64
}

// advanceTo applies every cash-affecting transaction dated at or before
// cutoff. Transfers debit the source and credit the destination with the
// mirrored amount; investing entries do not move cash here because the
// funding leg is recorded as its own transfer.
func (st *cashReplayState) advanceTo(cutoff time.Time) {
	cutoffKey := cutoff.Format("2006-01-02")
	for st.Cursor < len(st.Txs) {
		tx := st.Txs[st.Cursor]
		if tx.DateKey() > cutoffKey {
			break
		}
		if tx.Type != models.TxInvesting {
			st.Balances[tx.AccountID] += tx.Amount
			if tx.Type == models.TxTransfer && tx.AccountToID != "" {
				st.Balances[tx.AccountToID] += -tx.Amount
			}
		}
		st.Cursor++
	}
}

// GetNetWorthHistory reconstructs one net-worth point per calendar day for
// a lookback window ending today, oldest first. Holdings are replayed
// incrementally and valued at backward-filled cached closes, falling back
// to the current live price for symbols with no cached history; cash
// accounts replay their ledger on top of starting values. Debt balances are not
// replayed; each day subtracts the debts' current starting values.
func (s *Service) GetNetWorthHistory(ctx context.Context, userID string, days int) ([]models.NetWorthPoint, error) {
	if days <= 0 {
		days = 30
	}

	end := time.Now().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(days - 1))
	dates := generateCalendarDates(start, end)

	ledger := s.storage.LedgerStore()

	accounts, err := ledger.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	debts, err := ledger.ListDebts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}
	txs, err := ledger.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	display := common.ResolveDisplayCurrency(ctx, s.config.DisplayCurrency)
	gbpUsd := s.fxRates.GBPUSD(ctx)

	var totalDebts float64
	for _, d := range debts {
		totalDebts += d.StartingValue
	}

	accountTypes := make(map[string]models.AccountType, len(accounts))
	cash := &cashReplayState{
		Txs:      txs,
		Balances: make(map[string]float64, len(accounts)),
	}
	for _, a := range accounts {
		accountTypes[a.ID] = a.Type
		cash.Balances[a.ID] = a.StartingValue
	}

	states, err := s.buildReplayStates(ctx, txs, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]models.NetWorthPoint, 0, len(dates))
	for _, date := range dates {
		cash.advanceTo(date)

		var checking, savings float64
		for id, balance := range cash.Balances {
			switch accountTypes[id] {
			case models.AccountChecking:
				checking += balance
			case models.AccountSavings:
				savings += balance
			}
		}

		var investing float64
		for _, st := range states {
			st.advanceTo(date)
			if st.Quantity <= models.ClosedPositionEpsilon {
				continue
			}
			price, currency, ok := resolveHistoricalPrice(st, date)
			if !ok {
				continue
			}
			investing += st.Quantity * fx.DisplayPrice(price, currency, display, gbpUsd)
		}

		assets := checking + savings + investing
		points = append(points, models.NetWorthPoint{
			Date:      date,
			NetWorth:  assets - totalDebts,
			Assets:    assets,
			Debts:     totalDebts,
			Checking:  checking,
			Savings:   savings,
			Investing: investing,
		})
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("days", len(points)).
		Msg("Net-worth history reconstructed")

	return points, nil
}

// resolveHistoricalPrice returns the price to value a holding at on one
// day: the backward-filled cached close, else the live quote when the
// cache has nothing at or before that day.
func resolveHistoricalPrice(st *symbolReplayState, date time.Time) (float64, string, bool) {
	if close, _, found := findClosingPriceAsOf(st.Bars, date); found {
		return close, st.Currency, true
	}
	if st.LivePrice > 0 {
		return st.LivePrice, st.LiveCurrency, true
	}
	return 0, "", false
}

// buildReplayStates groups investing transactions per symbol, sorts each
// group by date, and bulk-loads that symbol's cached bars once for the
// whole walk. Symbols whose bars do not reach back to the window start get
// one live quote as the last-resort price for uncovered days.
func (s *Service) buildReplayStates(ctx context.Context, txs []*models.Transaction, start, end time.Time) ([]*symbolReplayState, error) {
	grouped := make(map[string][]*models.Transaction)
	currencies := make(map[string]string)
	for _, tx := range txs {
		if !tx.IsInvesting() {
			continue
		}
		grouped[tx.Symbol] = append(grouped[tx.Symbol], tx)
		if tx.Currency != "" {
			currencies[tx.Symbol] = tx.Currency
		}
	}

	states := make([]*symbolReplayState, 0, len(grouped))
	for symbol, symbolTxs := range grouped {
		sort.Slice(symbolTxs, func(i, j int) bool {
			return symbolTxs[i].Date.Before(symbolTxs[j].Date)
		})

		bars, err := s.storage.PriceStore().GetPriceHistory(ctx, symbol, time.Time{}, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load price history for %s: %w", symbol, err)
		}

		st := &symbolReplayState{
			Symbol:   symbol,
			Currency: nativeCurrency(symbol, currencies[symbol]),
			Bars:     bars,
			Txs:      symbolTxs,
		}

		if len(bars) == 0 || bars[0].Date.After(start) {
			if quote, err := s.client.GetQuote(ctx, symbol); err == nil && quote.Price > 0 {
				st.LivePrice = quote.Price
				st.LiveCurrency = quote.Currency
			} else if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Live quote unavailable for history fallback")
			}
		}

		states = append(states, st)
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Symbol < states[j].Symbol })
	return states, nil
}
