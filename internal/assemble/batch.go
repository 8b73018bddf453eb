package assemble

import (
	"time"

	"github.com/statements-dev/statements/internal/model"
)

// Batch holds all transactions for one calendar month.
type Batch struct {
	Year         int
	Month        time.Month
	Transactions []model.Transaction
}

// Accumulator groups transactions by year-month, preserving first-seen
// order both across months and within each month. Transactions from
// multiple statements sharing a month accumulate into one batch.
type Accumulator struct {
	batches map[string]*Batch
	order   []string
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{batches: make(map[string]*Batch)}
}

// Add appends a transaction to its month's batch.
func (a *Accumulator) Add(txn model.Transaction) {
	key := txn.MonthKey()
	b, ok := a.batches[key]
	if !ok {
		b = &Batch{Year: txn.Date.Year(), Month: txn.Date.Month()}
		a.batches[key] = b
		a.order = append(a.order, key)
	}
	b.Transactions = append(b.Transactions, txn)
}

// AddAll appends transactions in order.
func (a *Accumulator) AddAll(txns []model.Transaction) {
	for _, txn := range txns {
		a.Add(txn)
	}
}

// Len returns the total number of accumulated transactions.
func (a *Accumulator) Len() int {
	n := 0
	for _, b := range a.batches {
		n += len(b.Transactions)
	}
	return n
}

// Batches returns the accumulated batches in first-seen month order.
func (a *Accumulator) Batches() []Batch {
	out := make([]Batch, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.batches[key])
	}
	return out
}
