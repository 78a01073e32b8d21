package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/interestledger/backend/src/models"
)

func TestKotakDetect(t *testing.T) {
	p := &KotakParser{}

	pdfWithMarker := &Artifact{Filename: "stmt.pdf", kind: kindPDF, text: "Kotak Mahindra Bank Statement"}
	assert.True(t, p.Detect(pdfWithMarker))

	pdfWithInterest := &Artifact{Filename: "stmt.pdf", kind: kindPDF, text: "131 31 Mar 2025 Int.Pd:123 12.00 2,704.39"}
	assert.True(t, p.Detect(pdfWithInterest))

	textFile := &Artifact{Filename: "stmt.csv", kind: kindText, text: "Kotak Mahindra"}
	assert.False(t, p.Detect(textFile), "Kotak statements are PDF only")
}

func TestParseKotakLines(t *testing.T) {
	lines := []string{
		"Kotak Mahindra Bank",
		"Period: 01-01-2025 to 31-03-2025",
		"130 15 Mar 2025 UPI/PAYMENT/SOMEONE 250.00 2,692.39",
		"131 31 Mar 2025 Int.Pd:6347718530:01-01-2025 to 31-03-2025 12.00 2,704.39",
		"132 31 Mar 2025 Int.Pd:6347718530 8.50 2,712.89",
	}

	txs := parseKotakLines(lines, 7)
	require.Len(t, txs, 2)

	assert.Equal(t, "in-kotak", txs[0].BankID)
	assert.Equal(t, "2025-03-31", txs[0].Date)
	assert.Equal(t, "12", txs[0].Amount.String())
	assert.Equal(t, "2704.39", txs[0].Balance.String())
	assert.Equal(t, models.TypeCredit, txs[0].Type)
	assert.Equal(t, "Int.Pd:6347718530:01-01-2025 to 31-03-2025", txs[0].Description)

	assert.Equal(t, "8.5", txs[1].Amount.String())
	assert.Equal(t, "Int.Pd:6347718530", txs[1].Description)
}

func TestParseKotakLinesIgnoresPartialMatches(t *testing.T) {
	// Mentions the phrase but is not a full transaction line
	lines := []string{"Int.Pd: explanation of interest paid terms"}
	assert.Empty(t, parseKotakLines(lines, 7))
}

func TestKotakParseRejectsUnmarkedPDF(t *testing.T) {
	p := &KotakParser{}
	a := &Artifact{Filename: "other.pdf", kind: kindPDF, text: "Some other bank entirely"}
	_, err := p.Parse(a, 7)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}
