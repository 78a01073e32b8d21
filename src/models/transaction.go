package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type values. Interest credits are always "credit"; the type is
// informational and plays no part in reconciliation.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction is a single interest-credit line item extracted from a bank
// statement. Dates are stored as ISO strings (YYYY-MM-DD) so that
// lexicographic order is chronological order, both in SQLite and in Go.
type Transaction struct {
	ID              int64           `json:"id,omitempty"` // Database primary key
	BankID          string          `json:"bank_id"`      // Which extractor produced it, e.g. "in-pnb"
	TransactionID   string          `json:"transaction_id,omitempty"`
	TransactionHash string          `json:"transaction_hash"`
	Date            string          `json:"date"` // YYYY-MM-DD
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`    // "credit" or "debit"
	Balance         decimal.Decimal `json:"balance"` // Informational, not used in reconciliation
}

// Donation is a user-declared amount earmarked to offset accumulated
// interest. Donations are append-only facts.
type Donation struct {
	ID     int64           `json:"id,omitempty"`
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"` // YYYY-MM-DD
}

// Projection status values, a pure function of remaining vs amount.
const (
	StatusNotDonated       = "not_donated"
	StatusPartiallyDonated = "partially_donated"
	StatusFullyDonated     = "fully_donated"
)

// InterestProjection is the derived per-transaction ledger state: how much of
// the interest credit has been offset by donations and its resulting status.
// Rows are fully recomputed and upserted on every fact change; they are never
// authoritative.
type InterestProjection struct {
	ID              int64           `json:"id,omitempty"`
	UserID          int64           `json:"user_id"`
	BankID          string          `json:"bank_id"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	TransactionHash string          `json:"transaction_hash"`
	Amount          decimal.Decimal `json:"amount"`
	DonatedAmount   decimal.Decimal `json:"donated_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transaction_date"` // YYYY-MM-DD
	DonationAt      string          `json:"donation_at,omitempty"`
	Status          string          `json:"status"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StatusFor derives the projection status from the remaining and covered
// amounts.
func StatusFor(remaining, covered decimal.Decimal) string {
	switch {
	case remaining.IsZero():
		return StatusFullyDonated
	case covered.Sign() > 0:
		return StatusPartiallyDonated
	default:
		return StatusNotDonated
	}
}
