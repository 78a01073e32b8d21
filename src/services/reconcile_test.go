package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/interestledger/backend/src/models"
)

func interestTx(hash, date, amount string) models.Transaction {
	return models.Transaction{
		BankID:          "in-pnb",
		TransactionHash: hash,
		Date:            date,
		Description:     "Interest received",
		Amount:          decimal.RequireFromString(amount),
		Type:            models.TypeCredit,
	}
}

func donation(date, amount string) models.Donation {
	return models.Donation{Date: date, Amount: decimal.RequireFromString(amount)}
}

func TestWaterfallPartialCoverage(t *testing.T) {
	txs := []models.Transaction{
		interestTx("t1", "2024-01-01", "100.00"),
		interestTx("t2", "2024-02-01", "50.00"),
	}
	donations := []models.Donation{donation("2024-03-01", "120.00")}

	projections := Waterfall(7, txs, donations, time.Now())
	require.Len(t, projections, 2)

	p1, p2 := projections[0], projections[1]

	assert.Equal(t, "100.00", p1.DonatedAmount.StringFixed(2))
	assert.Equal(t, "0.00", p1.RemainingAmount.StringFixed(2))
	assert.Equal(t, models.StatusFullyDonated, p1.Status)
	assert.Equal(t, "2024-03-01", p1.DonationAt)

	assert.Equal(t, "20.00", p2.DonatedAmount.StringFixed(2))
	assert.Equal(t, "30.00", p2.RemainingAmount.StringFixed(2))
	assert.Equal(t, models.StatusPartiallyDonated, p2.Status)
	assert.Equal(t, "2024-03-01", p2.DonationAt, "partially covered rows keep the last contributing donation date")
}

func TestWaterfallPoolsDonationsFIFO(t *testing.T) {
	txs := []models.Transaction{
		interestTx("t1", "2024-01-01", "30.00"),
		interestTx("t2", "2024-02-01", "30.00"),
		interestTx("t3", "2024-03-01", "30.00"),
	}
	donations := []models.Donation{
		donation("2024-01-10", "50.00"),
		donation("2024-02-10", "50.00"),
	}

	projections := Waterfall(7, txs, donations, time.Now())
	require.Len(t, projections, 3)

	for _, p := range projections {
		assert.Equal(t, models.StatusFullyDonated, p.Status)
		assert.Equal(t, "0.00", p.RemainingAmount.StringFixed(2))
	}

	// t1 is completed entirely by the first donation; t2 needs both; t3 uses
	// only the second donation's remainder
	assert.Equal(t, "2024-01-10", projections[0].DonationAt)
	assert.Equal(t, "2024-02-10", projections[1].DonationAt)
	assert.Equal(t, "2024-02-10", projections[2].DonationAt)
}

func TestWaterfallNoDonations(t *testing.T) {
	txs := []models.Transaction{interestTx("t1", "2024-01-01", "75.00")}

	projections := Waterfall(7, txs, nil, time.Now())
	require.Len(t, projections, 1)

	p := projections[0]
	assert.Equal(t, models.StatusNotDonated, p.Status)
	assert.Equal(t, "0.00", p.DonatedAmount.StringFixed(2))
	assert.Equal(t, "75.00", p.RemainingAmount.StringFixed(2))
	assert.Empty(t, p.DonationAt)
}

func TestWaterfallConservation(t *testing.T) {
	txs := []models.Transaction{
		interestTx("t1", "2024-01-01", "33.33"),
		interestTx("t2", "2024-02-01", "66.67"),
		interestTx("t3", "2024-03-01", "12.01"),
	}
	donations := []models.Donation{
		donation("2024-01-15", "40.00"),
		donation("2024-02-15", "25.50"),
	}

	projections := Waterfall(7, txs, donations, time.Now())

	totalDonated := decimal.Zero
	for i, p := range projections {
		totalDonated = totalDonated.Add(p.DonatedAmount)
		// Per row: donated + remaining == amount, all non-negative
		assert.True(t, p.DonatedAmount.Add(p.RemainingAmount).Equal(p.Amount), "row %d", i)
		assert.True(t, p.DonatedAmount.Sign() >= 0, "row %d", i)
		assert.True(t, p.RemainingAmount.Sign() >= 0, "row %d", i)
	}

	// Allocation never exceeds the pool
	pool := decimal.RequireFromString("65.50")
	assert.True(t, totalDonated.LessThanOrEqual(pool))
}

func TestWaterfallIdempotent(t *testing.T) {
	txs := []models.Transaction{
		interestTx("t1", "2024-01-01", "10.00"),
		interestTx("t2", "2024-02-01", "20.00"),
	}
	donations := []models.Donation{donation("2024-03-01", "15.00")}
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	first := Waterfall(7, txs, donations, now)
	second := Waterfall(7, txs, donations, now)
	assert.Equal(t, first, second)
}

func TestWaterfallClampsNegativeFacts(t *testing.T) {
	txs := []models.Transaction{interestTx("t1", "2024-01-01", "-5.00")}
	donations := []models.Donation{donation("2024-01-15", "-10.00")}

	projections := Waterfall(7, txs, donations, time.Now())
	require.Len(t, projections, 1)

	p := projections[0]
	assert.Equal(t, "0.00", p.Amount.StringFixed(2))
	assert.Equal(t, "0.00", p.DonatedAmount.StringFixed(2))
	assert.Equal(t, "0.00", p.RemainingAmount.StringFixed(2))
}
