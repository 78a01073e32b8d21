package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// HashTransaction computes the canonical fingerprint of a statement line
// item. The digest is SHA-256 over a pipe-delimited concatenation of the
// fields in a fixed order:
//
//	date|description|amount|balance|userID|transactionID
//
// where date is the ISO form (YYYY-MM-DD), description is the raw statement
// text (never the human-formatted rendering), and amounts are fixed to two
// decimals. Two artifacts describing the same real transaction must hash
// identically; the hash is the sole deduplication key.
func HashTransaction(date, rawDescription string, amount, balance decimal.Decimal, userID int64, transactionID string) string {
	input := strings.Join([]string{
		date,
		rawDescription,
		amount.StringFixed(2),
		balance.StringFixed(2),
		strconv.FormatInt(userID, 10),
		transactionID,
	}, "|")
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
