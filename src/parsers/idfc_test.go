package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/interestledger/backend/src/models"
)

func TestIDFCDetect(t *testing.T) {
	p := &IDFCParser{}

	pdf := &Artifact{Filename: "stmt.pdf", kind: kindPDF, text: "IDFC FIRST Bank statement"}
	assert.True(t, p.Detect(pdf))

	xlsx := &Artifact{Filename: "stmt.xlsx", kind: kindXLSX, rows: [][]string{
		{"Transaction Date", "Value Date", "Particulars", "Debit", "Credit", "Balance"},
	}}
	assert.True(t, p.Detect(xlsx))

	other := &Artifact{Filename: "stmt.csv", kind: kindText, text: "IDFC"}
	assert.False(t, p.Detect(other))
}

func TestParseIDFCPDFLines(t *testing.T) {
	lines := []string{
		"IDFC FIRST Bank",
		"31-Aug-2025 31-Aug-2025 MONTHLY SAVINGS INTEREST CREDIT",
		"### 49.00 41,918.20",
		"01-Sep-2025 01-Sep-2025 UPI/PAYMENT/MERCHANT",
		"### 500.00 41,418.20",
		"30-Sep-2025 30-Sep-2025 MONTHLY SAVINGS INTEREST CREDIT",
		"",
		"### 47.50 41,465.70",
	}

	txs := parseIDFCPDFLines(lines, 7)
	require.Len(t, txs, 2)

	assert.Equal(t, "in-idfc", txs[0].BankID)
	assert.Equal(t, "2025-08-31", txs[0].Date)
	assert.Equal(t, "49", txs[0].Amount.String())
	assert.Equal(t, "41918.2", txs[0].Balance.String())
	assert.Equal(t, models.TypeCredit, txs[0].Type)
	assert.Equal(t, "MONTHLY SAVINGS INTEREST CREDIT", txs[0].Description)

	// The amount line may be separated by blank lines within the lookahead
	assert.Equal(t, "2025-09-30", txs[1].Date)
	assert.Equal(t, "47.5", txs[1].Amount.String())
}

func TestParseIDFCPDFLinesWithoutAmountLine(t *testing.T) {
	lines := []string{
		"31-Aug-2025 31-Aug-2025 MONTHLY SAVINGS INTEREST CREDIT",
		"totally unrelated line",
		"another unrelated line",
		"and another",
		"and one more",
		"### 49.00 41,918.20", // beyond the lookahead window
	}
	assert.Empty(t, parseIDFCPDFLines(lines, 7))
}

func TestIDFCParseXLSX(t *testing.T) {
	p := &IDFCParser{}
	a := &Artifact{Filename: "stmt.xlsx", kind: kindXLSX, rows: [][]string{
		{"Customer Statement"},
		{"Transaction Date", "Value Date", "Particulars", "Debit", "Credit", "Balance"},
		{"31-Aug-2025", "31-Aug-2025", "MONTHLY SAVINGS INTEREST CREDIT", "", "49.00", "41,918.20"},
		{"01-Sep-2025", "01-Sep-2025", "UPI/PAYMENT/MERCHANT", "500.00", "", "41,418.20"},
	}}

	txs, err := p.Parse(a, 7)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2025-08-31", txs[0].Date)
	assert.Equal(t, "49", txs[0].Amount.String())
	assert.Equal(t, models.TypeCredit, txs[0].Type)
}

func TestIDFCParseXLSXMissingHeader(t *testing.T) {
	p := &IDFCParser{}
	a := &Artifact{Filename: "stmt.xlsx", kind: kindXLSX, rows: [][]string{{"nothing"}}}
	_, err := p.Parse(a, 7)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
	assert.Contains(t, err.Error(), "IDFC First Bank")
}

func TestIDFCParsePDFWithoutMarkers(t *testing.T) {
	p := &IDFCParser{}
	a := &Artifact{Filename: "stmt.pdf", kind: kindPDF, text: "Some other bank"}
	_, err := p.Parse(a, 7)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}
