// Package portfolio aggregates investing transactions into holdings,
// values them in the display currency, and reconstructs net-worth history.
package portfolio

import (
	"math"
	"sort"
	"strings"

	"github.com/tomhartley/ledgerd/internal/models"
)

// AggregateHoldings folds a user's investing transactions into per-symbol
// holdings. Sells reduce quantity only; the buy-side cost basis is never
// written down, so average buy price is stable across disposals. Fees add
// to both FeeCost and TotalCost without touching quantity.
func AggregateHoldings(txs []*models.Transaction) []*models.Holding {
	return aggregate(txs, func(tx *models.Transaction) string { return tx.Symbol })
}

// AggregateHoldingsByAccount folds investing transactions grouped by
// symbol and account, for views that attribute positions to one account.
// The same symbol traded in two accounts yields two holdings.
func AggregateHoldingsByAccount(txs []*models.Transaction) []*models.Holding {
	return aggregate(txs, func(tx *models.Transaction) string {
		return tx.Symbol + "\x00" + tx.AccountID
	})
}

func aggregate(txs []*models.Transaction, key func(*models.Transaction) string) []*models.Holding {
	byKey := make(map[string]*models.Holding)

	for _, tx := range txs {
		if !tx.IsInvesting() {
			continue
		}

		h := byKey[key(tx)]
		if h == nil {
			h = &models.Holding{Symbol: tx.Symbol}
			byKey[key(tx)] = h
		}

		switch tx.TradeKind() {
		case models.TradeBuy, models.TradeReinvest:
			qty := math.Abs(tx.Quantity)
			cost := tradeCost(tx)
			h.Quantity += qty
			h.TotalCost += cost
			h.BuyQty += qty
			h.BuyTotalCost += cost
		case models.TradeSell:
			h.Quantity -= math.Abs(tx.Quantity)
		case models.TradeFee:
			fee := math.Abs(tx.Amount)
			h.FeeCost += fee
			h.TotalCost += fee
		}

		// Last write wins for attribution fields.
		if tx.AccountID != "" {
			h.AccountID = tx.AccountID
		}
		if tx.Currency != "" {
			h.Currency = tx.Currency
		}
	}

	holdings := make([]*models.Holding, 0, len(byKey))
	for _, h := range byKey {
		holdings = append(holdings, h)
	}
	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].Symbol != holdings[j].Symbol {
			return holdings[i].Symbol < holdings[j].Symbol
		}
		return holdings[i].AccountID < holdings[j].AccountID
	})
	return holdings
}

// tradeCost is the capital committed by a buy: the recorded cash amount,
// falling back to quantity × price when the amount is absent.
func tradeCost(tx *models.Transaction) float64 {
	if tx.Amount != 0 {
		return math.Abs(tx.Amount)
	}
	return math.Abs(tx.Quantity) * tx.Price
}

// splitClosedPositions partitions valuations into active and closed sets.
func splitClosedPositions(all []models.HoldingValuation) (active, closed []models.HoldingValuation) {
	for _, v := range all {
		if v.IsClosed() {
			closed = append(closed, v)
		} else {
			active = append(active, v)
		}
	}
	return active, closed
}

// nativeCurrency resolves the currency a symbol's prices quote in when the
// market-data source did not say: the ledger's recorded currency first,
// then the exchange suffix (LSE quotes in pence), then USD.
func nativeCurrency(symbol, recorded string) string {
	if recorded != "" {
		return recorded
	}
	upper := strings.ToUpper(symbol)
	if strings.HasSuffix(upper, ".LSE") || strings.HasSuffix(upper, ".L") {
		return "GBX"
	}
	return "USD"
}
