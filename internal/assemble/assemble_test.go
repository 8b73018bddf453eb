package assemble

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statements-dev/statements/internal/model"
)

func TestDecodeRecord(t *testing.T) {
	txn, err := DecodeRecord(map[string]any{
		"date":        "2024-04-06",
		"description": "COFFEE ROASTERS",
		"amount":      39.45,
		"account":     "chase-checking",
	})
	require.NoError(t, err)

	assert.Equal(t, 2024, txn.Date.Year())
	assert.Equal(t, time.April, txn.Date.Month())
	assert.Equal(t, 6, txn.Date.Day())
	assert.Equal(t, "COFFEE ROASTERS", txn.Description)
	assert.Equal(t, "39.45", txn.Amount.StringFixed(2))
	assert.Equal(t, "chase-checking", txn.Account)
}

func TestDecodeRecord_AmountVariants(t *testing.T) {
	base := map[string]any{
		"date":        "2024-04-06",
		"description": "desc",
		"account":     "acct",
	}

	base["amount"] = "-12.30"
	txn, err := DecodeRecord(base)
	require.NoError(t, err)
	assert.Equal(t, "-12.30", txn.Amount.StringFixed(2))

	base["amount"] = json.Number("1234.56")
	txn, err = DecodeRecord(base)
	require.NoError(t, err)
	assert.Equal(t, "1234.56", txn.Amount.StringFixed(2))
}

func TestDecodeRecord_MissingFields(t *testing.T) {
	_, err := DecodeRecord(map[string]any{"date": "2024-04-06"})
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "account")
}

func TestDecodeRecord_BadDate(t *testing.T) {
	_, err := DecodeRecord(map[string]any{
		"date":        "04/06/2024",
		"description": "desc",
		"amount":      1.0,
		"account":     "acct",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestDecodeRecord_BadAmountType(t *testing.T) {
	_, err := DecodeRecord(map[string]any{
		"date":        "2024-04-06",
		"description": "desc",
		"amount":      []any{1},
		"account":     "acct",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestValidate(t *testing.T) {
	good := model.Transaction{
		Date:        time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC),
		Description: "desc",
		Amount:      decimal.NewFromFloat(1.25),
		Account:     "acct",
	}
	assert.NoError(t, Validate(good))

	bad := model.Transaction{Amount: decimal.NewFromInt(1)}
	err := Validate(bad)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}
