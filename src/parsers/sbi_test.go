package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/interestledger/backend/src/models"
)

func sbiRows() [][]string {
	return [][]string{
		{"Account Name", "EXAMPLE TRUST"},
		{"Account Number", "00000012345"},
		{"Date", "Details", "Debit", "Credit", "Balance"},
		{"01/02/2024", "CREDIT INTEREST--", "", "150.00", "5,150.00"},
		{"05/02/2024", "TO TRANSFER-UPI/CR", "", "2,000.00", "7,150.00"},
		{"25/05/2024", "interes t credit", "", "98.00", "7,248.00"},
		{"", "", "", "", ""},
	}
}

func TestSBIHeaderIndex(t *testing.T) {
	assert.Equal(t, 2, sbiHeaderIndex(sbiRows()))
	assert.Equal(t, -1, sbiHeaderIndex([][]string{{"Date", "Amount"}}))
}

func TestSBIDetect(t *testing.T) {
	p := &SBIParser{}
	assert.True(t, p.Detect(&Artifact{Filename: "stmt.xlsx", kind: kindXLSX, rows: sbiRows()}))
	assert.False(t, p.Detect(&Artifact{Filename: "stmt.csv", kind: kindText, text: "Debit,Credit,Details"}))
}

func TestSBIParse(t *testing.T) {
	p := &SBIParser{}
	a := &Artifact{Filename: "stmt.xlsx", kind: kindXLSX, rows: sbiRows()}

	txs, err := p.Parse(a, 7)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "in-sbi", txs[0].BankID)
	assert.Equal(t, "2024-02-01", txs[0].Date)
	assert.Equal(t, "150", txs[0].Amount.String())
	assert.Equal(t, "5150", txs[0].Balance.String())
	assert.Equal(t, models.TypeCredit, txs[0].Type)
	assert.Equal(t, "CREDIT INTEREST--", txs[0].Description)

	// Mid-word wrapped phrase still matches
	assert.Equal(t, "2024-05-25", txs[1].Date)
	assert.Equal(t, "98", txs[1].Amount.String())
}

func TestSBIParseMissingHeader(t *testing.T) {
	p := &SBIParser{}
	a := &Artifact{Filename: "stmt.xlsx", kind: kindXLSX, rows: [][]string{{"nothing", "useful"}}}
	_, err := p.Parse(a, 7)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
	assert.Contains(t, err.Error(), "State Bank of India")
}

func TestIsSBIInterest(t *testing.T) {
	assert.True(t, isSBIInterest("CREDIT INTEREST CREDIT"))
	assert.True(t, isSBIInterest("interes t credit"))
	assert.True(t, isSBIInterest("INTEREST\nCREDIT"))
	assert.False(t, isSBIInterest("UPI TRANSFER"))
}
