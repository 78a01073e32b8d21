package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashTransactionDeterministic(t *testing.T) {
	amount := decimal.RequireFromString("500.00")
	balance := decimal.RequireFromString("10500.00")

	h1 := HashTransaction("2024-01-15", "Int.Pd:01-01-2024 to 31-03-2024", amount, balance, 7, "1")
	h2 := HashTransaction("2024-01-15", "Int.Pd:01-01-2024 to 31-03-2024", amount, balance, 7, "1")

	assert.Equal(t, h1, h2)
	require.Len(t, h1, 64)
}

func TestHashTransactionFieldSensitivity(t *testing.T) {
	amount := decimal.RequireFromString("500.00")
	balance := decimal.RequireFromString("10500.00")
	base := HashTransaction("2024-01-15", "desc", amount, balance, 7, "1")

	assert.NotEqual(t, base, HashTransaction("2024-01-16", "desc", amount, balance, 7, "1"))
	assert.NotEqual(t, base, HashTransaction("2024-01-15", "other", amount, balance, 7, "1"))
	assert.NotEqual(t, base, HashTransaction("2024-01-15", "desc", amount.Add(decimal.New(1, -2)), balance, 7, "1"))
	assert.NotEqual(t, base, HashTransaction("2024-01-15", "desc", amount, balance, 8, "1"))
	assert.NotEqual(t, base, HashTransaction("2024-01-15", "desc", amount, balance, 7, "2"))
}

func TestHashTransactionCanonicalAmountForm(t *testing.T) {
	// "500" and "500.00" are the same decimal and must hash identically
	a := decimal.RequireFromString("500")
	b := decimal.RequireFromString("500.00")
	balance := decimal.Zero

	assert.Equal(t,
		HashTransaction("2024-01-15", "desc", a, balance, 7, ""),
		HashTransaction("2024-01-15", "desc", b, balance, 7, ""))
}
