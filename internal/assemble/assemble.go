// Package assemble validates parser output and groups transactions into
// per-month batches for the output writer.
package assemble

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/statements-dev/statements/internal/model"
)

const dateFormat = "2006-01-02"

// ValidationError describes a record that is missing required fields or
// carries values of the wrong shape.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction record: %s", strings.Join(e.Fields, "; "))
}

// DecodeRecord converts a raw parser record into a Transaction. All four
// fields must be present: date (YYYY-MM-DD string), description (string),
// amount (number or numeric string), account (string).
func DecodeRecord(rec map[string]any) (model.Transaction, error) {
	var bad []string

	date, err := parseDate(rec["date"])
	if err != nil {
		bad = append(bad, fmt.Sprintf("date: %v", err))
	}

	desc, err := parseString(rec["description"])
	if err != nil {
		bad = append(bad, fmt.Sprintf("description: %v", err))
	}

	amount, err := parseAmount(rec["amount"])
	if err != nil {
		bad = append(bad, fmt.Sprintf("amount: %v", err))
	}

	account, err := parseString(rec["account"])
	if err != nil {
		bad = append(bad, fmt.Sprintf("account: %v", err))
	}

	if len(bad) > 0 {
		return model.Transaction{}, ValidationError{Fields: bad}
	}

	return model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Account:     account,
	}, nil
}

// Validate checks a Transaction built in-process (by a built-in parser)
// for the same four-field shape DecodeRecord enforces on raw records.
func Validate(t model.Transaction) error {
	var bad []string
	if t.Date.IsZero() {
		bad = append(bad, "date: missing")
	}
	if t.Description == "" {
		bad = append(bad, "description: missing")
	}
	if t.Account == "" {
		bad = append(bad, "account: missing")
	}
	if len(bad) > 0 {
		return ValidationError{Fields: bad}
	}
	return nil
}

func parseDate(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("expected string, got %T", v)
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	return t, nil
}

func parseAmount(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	case nil:
		return decimal.Zero, fmt.Errorf("missing")
	default:
		return decimal.Zero, fmt.Errorf("cannot convert %T to decimal", v)
	}
}

func parseString(v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("missing")
	}
	return s, nil
}
