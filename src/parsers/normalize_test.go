package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "500.00", "500"},
		{"thousands separators", "41,918.20", "41918.2"},
		{"quoted csv cell", `"1,234.56"`, "1234.56"},
		{"credit balance marker", "2,704.39 Cr.", "2704.39"},
		{"debit balance marker", "120.00 Dr", "120"},
		{"surrounding whitespace", "  12.00  ", "12"},
		{"negative", "-75.50", "-75.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12..3"} {
		_, err := ParseAmount(input)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", input)
	}
}

func TestParseAmountOrZero(t *testing.T) {
	got, err := ParseAmountOrZero("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = ParseAmountOrZero(`""`)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = ParseAmountOrZero("150.00")
	require.NoError(t, err)
	assert.Equal(t, "150", got.String())
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"15-01-2024", "2024-01-15"},
		{"01/02/2024", "2024-02-01"},
		{"31-Aug-2025", "2025-08-31"},
		{"31 Mar 2025", "2025-03-31"},
		{"2024-06-30", "2024-06-30"},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseDate("not a date")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseSheetDate(t *testing.T) {
	// Plain date strings pass through ParseDate
	got, err := ParseSheetDate("01/02/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", got)

	// Excel serial 45292 is 2024-01-01
	got, err = ParseSheetDate("45292")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got)

	_, err = ParseSheetDate("garbage")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "MONTHLY SAVINGS INTEREST CREDIT",
		NormalizeDescription("MONTHLY SAVINGS\nINTEREST   CREDIT"))
	assert.Equal(t, "", NormalizeDescription("   \n\t "))
}
