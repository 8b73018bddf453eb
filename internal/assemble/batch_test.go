package assemble

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statements-dev/statements/internal/model"
)

func txn(date string, desc string) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		Date:        d,
		Description: desc,
		Amount:      decimal.NewFromInt(-1),
		Account:     "acct",
	}
}

func TestAccumulator_GroupsByMonth(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(txn("2024-04-06", "a"))
	acc.Add(txn("2024-05-01", "b"))
	acc.Add(txn("2024-04-20", "c"))

	batches := acc.Batches()
	require.Len(t, batches, 2)

	assert.Equal(t, 2024, batches[0].Year)
	assert.Equal(t, time.April, batches[0].Month)
	require.Len(t, batches[0].Transactions, 2)
	assert.Equal(t, "a", batches[0].Transactions[0].Description)
	assert.Equal(t, "c", batches[0].Transactions[1].Description)

	assert.Equal(t, time.May, batches[1].Month)
	require.Len(t, batches[1].Transactions, 1)
}

func TestAccumulator_FirstSeenOrderAcrossFiles(t *testing.T) {
	// Two statements sharing a month accumulate into one batch, first
	// file's transactions before the second's.
	acc := NewAccumulator()
	acc.AddAll([]model.Transaction{txn("2024-04-06", "file1-a"), txn("2024-04-10", "file1-b")})
	acc.AddAll([]model.Transaction{txn("2024-04-02", "file2-a")})

	batches := acc.Batches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Transactions, 3)
	assert.Equal(t, "file1-a", batches[0].Transactions[0].Description)
	assert.Equal(t, "file1-b", batches[0].Transactions[1].Description)
	assert.Equal(t, "file2-a", batches[0].Transactions[2].Description)
}

func TestAccumulator_Len(t *testing.T) {
	acc := NewAccumulator()
	assert.Equal(t, 0, acc.Len())
	assert.Empty(t, acc.Batches())

	acc.Add(txn("2024-04-06", "a"))
	acc.Add(txn("2023-12-31", "b"))
	assert.Equal(t, 2, acc.Len())
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-04", txn("2024-04-06", "a").MonthKey())
	assert.Equal(t, "0987-12", txn("0987-12-01", "a").MonthKey())
}
