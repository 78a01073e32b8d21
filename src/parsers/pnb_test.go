package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/utils"
)

const pnbStatement = `Account Statement
Name: EXAMPLE TRUST
Txn No.,Txn Date,Description,Dr Amount,Cr Amount,Balance
1,15-01-2024,Int.Pd:01-01-2024 to 31-03-2024,,500.00,"10,500.00"
2,20-01-2024,NEFT TRANSFER FROM X,,"1,000.00","11,500.00"
3,25-01-2024,ATM WITHDRAWAL,200.00,,"11,300.00"
`

func pnbArtifact(t *testing.T, content string) *Artifact {
	t.Helper()
	a, err := NewArtifact("statement.csv", "text/csv", []byte(content))
	require.NoError(t, err)
	return a
}

func TestPNBDetect(t *testing.T) {
	p := &PNBParser{}
	assert.True(t, p.Detect(pnbArtifact(t, pnbStatement)))
	assert.False(t, p.Detect(pnbArtifact(t, "Date,Amount\n01-01-2024,5.00\n")))
}

func TestPNBParseInterestRow(t *testing.T) {
	p := &PNBParser{}
	txs, err := p.Parse(pnbArtifact(t, pnbStatement), 7)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "in-pnb", tx.BankID)
	assert.Equal(t, "1", tx.TransactionID)
	assert.Equal(t, "2024-01-15", tx.Date)
	assert.Equal(t, "500", tx.Amount.String())
	assert.Equal(t, "10500", tx.Balance.String())
	assert.Equal(t, models.TypeCredit, tx.Type)

	// The emitted description is the human rendering of the period range
	assert.Contains(t, tx.Description, "January 1, 2024")
	assert.Contains(t, tx.Description, "March 31, 2024")

	// The hash is computed from the raw description, not the rendering
	want := utils.HashTransaction("2024-01-15", "Int.Pd:01-01-2024 to 31-03-2024", tx.Amount, tx.Balance, 7, "1")
	assert.Equal(t, want, tx.TransactionHash)
}

func TestPNBParseMissingHeader(t *testing.T) {
	p := &PNBParser{}
	_, err := p.Parse(pnbArtifact(t, "some,unrelated,csv\n1,2,3\n"), 7)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
	assert.Contains(t, err.Error(), "Punjab National Bank")
}

func TestPNBParseSkipsMalformedRows(t *testing.T) {
	content := `Txn No.,Txn Date,Description,Dr Amount,Cr Amount,Balance
1,bad-date,Int.Pd:01-01-2024 to 31-03-2024,,500.00,100.00
2,15-01-2024,Interest credited,,not-a-number,100.00
3,16-01-2024,Interest credited,,25.00,125.00
`
	p := &PNBParser{}
	txs, err := p.Parse(pnbArtifact(t, content), 7)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2024-01-16", txs[0].Date)
}

func TestFormatPNBDescription(t *testing.T) {
	assert.Equal(t,
		"Interest received from the bank from January 1, 2024 to March 31, 2024",
		FormatPNBDescription("Int.Pd:01-01-2024 to 31-03-2024"))

	// Non-matching text passes through untouched
	assert.Equal(t, "Interest credited to account",
		FormatPNBDescription("Interest credited to account"))

	// Unparseable dates fall back to the raw text
	assert.Equal(t, "Int.Pd:99-99-2024 to 31-03-2024",
		FormatPNBDescription("Int.Pd:99-99-2024 to 31-03-2024"))
}
