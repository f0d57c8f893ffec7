package models

import "time"

// ClosedPositionEpsilon is the quantity threshold below which a holding is
// treated as a closed position. Repeated fractional-share additions drift,
// so exact zero comparison is never used.
const ClosedPositionEpsilon = 1e-6

// Holding is a derived per-symbol position aggregated from investing
// transactions. It is never persisted, always recomputed from the ledger.
//
// TotalCost is capital ever committed (buys + fees, not written down on
// sale); BuyQty/BuyTotalCost exclude sells entirely and back the average
// buy price. The two cost notions are deliberately distinct.
type Holding struct {
	Symbol       string  `json:"symbol"`
	AccountID    string  `json:"account_id,omitempty"`
	Quantity     float64 `json:"quantity"`
	TotalCost    float64 `json:"total_cost"`
	BuyQty       float64 `json:"buy_qty"`
	BuyTotalCost float64 `json:"buy_total_cost"`
	FeeCost      float64 `json:"fee_cost"`
	Currency     string  `json:"currency,omitempty"`
}

// AvgPrice returns the average buy price, 0 when nothing was bought.
func (h *Holding) AvgPrice() float64 {
	if h.BuyQty > 0 {
		return h.BuyTotalCost / h.BuyQty
	}
	return 0
}

// IsClosed reports whether the position is closed (quantity at or below
// the float-drift epsilon).
func (h *Holding) IsClosed() bool {
	return h.Quantity <= ClosedPositionEpsilon
}

// HoldingValuation is a holding valued at a point in time in the user's
// display currency.
type HoldingValuation struct {
	Holding
	CurrentPrice  float64 `json:"current_price"` // display currency
	CurrentValue  float64 `json:"current_value"`
	AvgBuyPrice   float64 `json:"avg_buy_price"`
	ProfitValue   float64 `json:"profit_value"`
	ProfitPercent float64 `json:"profit_percent"`
	DayChangePct  float64 `json:"day_change_pct"`
}

// PortfolioValuation is the point-in-time portfolio view. Closed positions
// are segregated from active ones but keep meaningful cost/P&L figures.
type PortfolioValuation struct {
	Holdings        []HoldingValuation `json:"holdings"`
	ClosedPositions []HoldingValuation `json:"closed_positions,omitempty"`
	TotalValue      float64            `json:"total_value"`
	TotalCost       float64            `json:"total_cost"`
	TotalProfit     float64            `json:"total_profit"`
	TotalProfitPct  float64            `json:"total_profit_pct"`
	DisplayCurrency string             `json:"display_currency"`
	AsOf            time.Time          `json:"as_of"`
}

// NetWorthPoint is one day of reconstructed history.
type NetWorthPoint struct {
	Date      time.Time `json:"date"`
	NetWorth  float64   `json:"net_worth"`
	Assets    float64   `json:"assets"`
	Debts     float64   `json:"debts"`
	Checking  float64   `json:"checking"`
	Savings   float64   `json:"savings"`
	Investing float64   `json:"investing"`
}

// AccountBalance pairs an account with its derived balance.
type AccountBalance struct {
	Account Account `json:"account"`
	Balance float64 `json:"balance"`
}
