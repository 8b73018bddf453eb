// Package output serializes monthly transaction batches to JSON files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/statements-dev/statements/internal/assemble"
	"github.com/statements-dev/statements/internal/model"
)

const dateFormat = "2006-01-02"

// record is the JSON shape of one transaction. Amount is a json.Number so
// it serializes as a bare number, not a quoted string.
type record struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Account     string      `json:"account"`
}

// FileName returns the output file name for a batch, e.g.
// "2024-04-transactions.json".
func FileName(b assemble.Batch) string {
	return fmt.Sprintf("%04d-%02d-transactions.json", b.Year, int(b.Month))
}

// WriteBatches writes one JSON file per non-empty batch into dir, creating
// it if needed. Returns the paths written, in batch order. Files already
// written stay on disk if a later write fails.
func WriteBatches(dir string, batches []assemble.Batch) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	for _, b := range batches {
		if len(b.Transactions) == 0 {
			continue
		}

		data, err := Marshal(b.Transactions)
		if err != nil {
			return written, fmt.Errorf("%04d-%02d: %w", b.Year, int(b.Month), err)
		}

		path := filepath.Join(dir, FileName(b))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Marshal renders transactions as an indented JSON array.
func Marshal(txns []model.Transaction) ([]byte, error) {
	recs := make([]record, len(txns))
	for i, t := range txns {
		recs[i] = record{
			Date:        t.Date.Format(dateFormat),
			Description: t.Description,
			Amount:      json.Number(t.Amount.String()),
			Account:     t.Account,
		}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling transactions: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON transaction array back into Transactions.
func Unmarshal(data []byte) ([]model.Transaction, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("unmarshaling transactions: %w", err)
	}

	txns := make([]model.Transaction, len(recs))
	for i, r := range recs {
		date, err := time.Parse(dateFormat, r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: parsing date %q: %w", i, r.Date, err)
		}
		amount, err := decimal.NewFromString(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("record %d: parsing amount %q: %w", i, r.Amount, err)
		}
		txns[i] = model.Transaction{
			Date:        date,
			Description: r.Description,
			Amount:      amount,
			Account:     r.Account,
		}
	}
	return txns, nil
}

// ReadFile decodes a written output file.
func ReadFile(path string) ([]model.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Unmarshal(data)
}
