// Package models defines data structures for ledgerd
package models

import (
	"strings"
	"time"
)

// TransactionType classifies a ledger transaction.
type TransactionType string

const (
	TxIncome      TransactionType = "income"
	TxExpense     TransactionType = "expense"
	TxTransfer    TransactionType = "transfer"
	TxDebtPayment TransactionType = "debt_payment"
	TxInvesting   TransactionType = "investing"
)

// TradeKind is the typed classification of an investing transaction.
// The persisted record carries a free-form category string plus sign
// conventions on quantity; those are interpreted here, at the decode
// boundary, and nowhere else.
type TradeKind int

const (
	TradeBuy TradeKind = iota
	TradeSell
	TradeFee
	TradeReinvest
)

// Transaction is a single ledger entry. Amounts carry sign: income is
// positive, expenses negative. For investing entries Amount is the cash
// effect (cost for buys, proceeds for sells, absolute fee amount for fees)
// and Quantity is signed (negative = disposal).
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category,omitempty"`
	AccountID   string          `json:"account_id"`
	AccountToID string          `json:"account_to_id,omitempty"`
	Symbol      string          `json:"symbol,omitempty"`
	Quantity    float64         `json:"quantity,omitempty"`
	Price       float64         `json:"price,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TradeKind resolves the typed trade classification for an investing
// transaction from its category string and quantity sign.
func (t *Transaction) TradeKind() TradeKind {
	switch strings.ToLower(strings.TrimSpace(t.Category)) {
	case "fee":
		return TradeFee
	case "sell":
		return TradeSell
	case "dividend reinvestment", "reinvest", "drp":
		return TradeReinvest
	}
	if t.Quantity < 0 {
		return TradeSell
	}
	return TradeBuy
}

// IsInvesting reports whether this is an investing (trade) entry that
// participates in holdings aggregation. Entries missing a symbol are
// excluded rather than rejected; malformed rows must never crash valuation.
func (t *Transaction) IsInvesting() bool {
	return t.Type == TxInvesting && t.Symbol != ""
}

// DateKey returns the calendar-day key ("2006-01-02") for date comparisons.
func (t *Transaction) DateKey() string {
	return t.Date.Format("2006-01-02")
}

// ImportResult summarizes a CSV ledger import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
