package models

import "time"

// AccountType classifies an asset account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
)

// Account is an asset account. Balance is never stored; it is always
// derived from StartingValue plus the transaction ledger (cash accounts)
// or from the valued holdings (investment accounts).
type Account struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Type          AccountType `json:"type"`
	Currency      string      `json:"currency"`
	StartingValue float64     `json:"starting_value"`
	InterestRate  float64     `json:"interest_rate,omitempty"`
	IsClosed      bool        `json:"is_closed"`
	OpenedDate    time.Time   `json:"opened_date"`
	ClosedDate    *time.Time  `json:"closed_date,omitempty"`
}

// Debt is a liability record. Debt balances are not historically replayed;
// the current starting value is what net-worth reconstruction subtracts.
type Debt struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	StartingValue float64   `json:"starting_value"`
	InterestRate  float64   `json:"interest_rate,omitempty"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}

// Bill is a recurring payment obligation.
type Bill struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	DueDay    int     `json:"due_day"` // day of month, 1-31
	Category  string  `json:"category,omitempty"`
	AccountID string  `json:"account_id,omitempty"`
	AutoPay   bool    `json:"auto_pay"`
}
