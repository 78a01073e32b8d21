package services

import (
	"context"
	"errors"

	"github.com/username/interestledger/backend/src/models"
)

// UploadedFile is one statement artifact received in a multipart upload,
// fully read into memory before analysis starts.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AnalyzeResult is the reviewed-candidate payload returned by statement
// analysis. Transactions are deduplicated across all artifacts in the batch
// and sorted by date descending.
type AnalyzeResult struct {
	Transactions []models.Transaction `json:"transactions"`
	BankIDs      []string             `json:"bank_ids"`
}

// SyncResult reports how many reviewed transactions were newly persisted.
// Re-synced rows are skipped by hash, so the count can be lower than the
// payload size.
type SyncResult struct {
	InsertedCount int `json:"insertedCount"`
	SkippedCount  int `json:"skippedCount"`
}

// DashboardStats are the headline aggregates for the dashboard.
type DashboardStats struct {
	TotalInterest    string `json:"total_interest"`
	TotalDonated     string `json:"total_donated"`
	TransactionCount int    `json:"transaction_count"`
	DonationCount    int    `json:"donation_count"`
}

// Common service errors.
var (
	ErrParsingFailed    = errors.New("statement parsing failed")
	ErrValidationFailed = errors.New("transaction validation failed")
	ErrReconcileFailed  = errors.New("projection reconciliation failed")
)

// StatementService turns uploaded statement artifacts into candidate
// transactions and persists the reviewed set.
type StatementService interface {
	AnalyzeStatements(ctx context.Context, files []UploadedFile, userID int64) (*AnalyzeResult, error)
	SyncTransactions(ctx context.Context, txs []models.Transaction, userID int64) (*SyncResult, error)
}

// DonationService appends donation facts.
type DonationService interface {
	AddDonation(ctx context.Context, userID int64, amount string) (*models.Donation, error)
}

// ReconcileService recomputes the projection ledger for a user from the full
// fact set.
type ReconcileService interface {
	Reconcile(ctx context.Context, userID int64) error
}

// ProjectionService serves the derived ledger.
type ProjectionService interface {
	ListProjections(ctx context.Context, userID int64, params ListParams) (*ProjectionPage, error)
	GetDashboardStats(ctx context.Context, userID int64) (*DashboardStats, error)
	InvalidateUserCache(userID int64)
}
