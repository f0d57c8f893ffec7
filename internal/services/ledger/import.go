package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomhartley/ledgerd/internal/models"
)

// csvDateFormats are accepted in order. Exports commonly mix ISO dates
// with regional short dates.
var csvDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
}

// ImportCSV ingests transaction rows from a CSV stream. The first row is a
// header naming any of: date, description, amount, type, category, account,
// account_to, symbol, quantity, price, currency. Malformed rows are skipped
// and counted, never fatal. A half-good export still imports its good half.
func (s *Service) ImportCSV(ctx context.Context, userID string, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("CSV header missing required 'date' column")
	}
	if _, ok := cols["amount"]; !ok {
		return nil, fmt.Errorf("CSV header missing required 'amount' column")
	}

	result := &models.ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		tx, err := parseTransactionRow(cols, record, userID)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if err := s.storage.LedgerStore().SaveTransaction(ctx, tx); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("CSV import complete")

	return result, nil
}

func parseTransactionRow(cols map[string]int, record []string, userID string) (*models.Transaction, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseCSVDate(field("date"))
	if err != nil {
		return nil, err
	}

	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil {
		return nil, fmt.Errorf("bad amount %q", field("amount"))
	}

	tx := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Date:        date,
		Description: field("description"),
		Amount:      amount,
		Type:        models.TransactionType(strings.ToLower(field("type"))),
		Category:    field("category"),
		AccountID:   field("account"),
		AccountToID: field("account_to"),
		Symbol:      field("symbol"),
		Currency:    strings.ToUpper(field("currency")),
		CreatedAt:   time.Now(),
	}
	if tx.Type == "" {
		tx.Type = models.TxExpense
	}

	if qty := field("quantity"); qty != "" {
		v, err := strconv.ParseFloat(qty, 64)
		if err != nil {
			return nil, fmt.Errorf("bad quantity %q", qty)
		}
		tx.Quantity = v
	}
	if price := field("price"); price != "" {
		v, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q", price)
		}
		tx.Price = v
	}

	if tx.Type == models.TxInvesting && tx.Symbol == "" {
		return nil, fmt.Errorf("investing row missing symbol")
	}

	return tx, nil
}

func parseCSVDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range csvDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
