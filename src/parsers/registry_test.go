package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRoutesToTheRightExtractor(t *testing.T) {
	cases := []struct {
		name     string
		artifact *Artifact
		wantID   string
	}{
		{
			"pnb csv",
			&Artifact{Filename: "pnb.csv", kind: kindText,
				text: "Txn No.,Txn Date,Description,Dr Amount,Cr Amount,Balance\n"},
			"in-pnb",
		},
		{
			"kotak pdf",
			&Artifact{Filename: "kotak.pdf", kind: kindPDF, text: "Kotak Mahindra Bank"},
			"in-kotak",
		},
		{
			"sbi xlsx",
			&Artifact{Filename: "sbi.xlsx", kind: kindXLSX,
				rows: [][]string{{"Date", "Details", "Debit", "Credit", "Balance"}}},
			"in-sbi",
		},
		{
			"idfc pdf",
			&Artifact{Filename: "idfc.pdf", kind: kindPDF, text: "IDFC FIRST Bank"},
			"in-idfc",
		},
		{
			"idfc xlsx",
			&Artifact{Filename: "idfc.xlsx", kind: kindXLSX,
				rows: [][]string{{"Transaction Date", "Particulars", "Debit", "Credit", "Balance"}}},
			"in-idfc",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Detect(tc.artifact)
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, p.ID())
		})
	}
}

func TestDetectPriorityOrder(t *testing.T) {
	// The registry order is the tie-break: first claimer wins
	require.Len(t, Registry, 4)
	assert.Equal(t, "in-pnb", Registry[0].ID())
	assert.Equal(t, "in-kotak", Registry[1].ID())
	assert.Equal(t, "in-sbi", Registry[2].ID())
	assert.Equal(t, "in-idfc", Registry[3].ID())
}

func TestDetectUnrecognizedStatement(t *testing.T) {
	a := &Artifact{Filename: "mystery.csv", kind: kindText, text: "no,known,columns\n1,2,3\n"}
	_, err := Detect(a)
	require.ErrorIs(t, err, ErrUnrecognizedStatement)
	assert.Contains(t, err.Error(), "mystery.csv")
}
