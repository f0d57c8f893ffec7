package models

import "time"

// Quote holds a live price snapshot from the market-data source.
// Currency is reported by the source, never assumed.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceBar is one cached daily close, unique per (symbol, date).
// Absence of a row means "not yet fetched", not "zero price".
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Open   float64   `json:"open,omitempty"`
}

// DateKey returns the calendar-day cache key ("2006-01-02").
func (b PriceBar) DateKey() string {
	return b.Date.Format("2006-01-02")
}

// ExchangeRate is the singleton-per-pair FX row, refreshed hourly.
// Consumers treat a stale or missing rate as rate = 1 (no conversion).
type ExchangeRate struct {
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BackfillResult summarizes one symbol's backfill outcome.
type BackfillResult struct {
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// BackfillSummary maps symbol → outcome. Partial failure of one symbol
// never aborts the others, so every requested symbol appears here.
type BackfillSummary map[string]BackfillResult
