package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one financial line item extracted from a statement.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Account     string          // account label, e.g. "chase-checking"
}

// MonthKey returns the "YYYY-MM" grouping key for the transaction date.
func (t Transaction) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", t.Date.Year(), int(t.Date.Month()))
}
