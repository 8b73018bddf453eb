package registry

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/statements-dev/statements/internal/model"
)

// ChaseParser parses text extracted from Chase checking statements.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseAccount    = "chase-checking"
)

// Transaction lines look like "01/03 GITHUB *PRO SUBSCRIPTION -4.00 2,512.33"
// (date, description, amount, running balance).
var (
	chaseLineRe = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s+-?[\d,]+\.\d{2}$`)
	chaseYearRe = regexp.MustCompile(`through\s+\w+\s+\d{1,2},\s+(\d{4})`)
)

// Type returns the parser name.
func (p *ChaseParser) Type() string { return "chase" }

// ToTransactions scans statement text for transaction lines. The statement
// year comes from the period header ("... through January 31, 2025").
func (p *ChaseParser) ToTransactions(text string) ([]model.Transaction, error) {
	year := ""
	if m := chaseYearRe.FindStringSubmatch(text); m != nil {
		year = m[1]
	}

	var txns []model.Transaction
	for i, line := range strings.Split(text, "\n") {
		m := chaseLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		if year == "" {
			return nil, fmt.Errorf("line %d: statement period year not found", i+1)
		}

		date, err := time.Parse(chaseDateFormat, m[1]+"/"+year)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing date %q: %w", i+1, m[1], err)
		}

		amount, err := decimal.NewFromString(strings.ReplaceAll(m[3], ",", ""))
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing amount %q: %w", i+1, m[3], err)
		}

		txns = append(txns, model.Transaction{
			Date:        date,
			Description: m[2],
			Amount:      amount,
			Account:     chaseAccount,
		})
	}
	return txns, nil
}
