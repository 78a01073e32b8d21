package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatementContent(t *testing.T) {
	detected, err := ValidateStatementContent([]byte("%PDF-1.7 rest of the document"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", detected)

	detected, err = ValidateStatementContent([]byte("PK\x03\x04xlsx payload"))
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", detected)

	_, err = ValidateStatementContent([]byte("Date,Narration,Amount\n01-01-2024,Int.Pd,100.00\n"))
	require.NoError(t, err)

	_, err = ValidateStatementContent(nil)
	assert.Error(t, err)
	_, err = ValidateStatementContent([]byte{0x00, 0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestValidateStatementContentRuneAtSniffBoundary(t *testing.T) {
	// A multibyte rune straddling the sniff limit must not make a valid CSV
	// look like binary content
	csv := strings.Repeat("a", contentSniffLimit-1) + "€ rest of the export\n"
	require.Greater(t, len(csv), contentSniffLimit)

	_, err := ValidateStatementContent([]byte(csv))
	assert.NoError(t, err)
}
