package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/username/interestledger/backend/src/database"
	"github.com/username/interestledger/backend/src/logger"
	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/parsers"
	"github.com/username/interestledger/backend/src/security/validation"
)

type statementServiceImpl struct {
	reconciler ReconcileService
	projection ProjectionService
}

func NewStatementService(reconciler ReconcileService, projection ProjectionService) StatementService {
	return &statementServiceImpl{reconciler: reconciler, projection: projection}
}

// AnalyzeStatements runs detection and extraction over every artifact in the
// batch. Artifacts are processed in parallel; results are merged in input
// order before the batch-level dedup so re-runs stay deterministic. Any
// failing artifact rejects the whole batch.
func (s *statementServiceImpl) AnalyzeStatements(ctx context.Context, files []UploadedFile, userID int64) (*AnalyzeResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no statement files in upload", ErrParsingFailed)
	}

	type artifactOutcome struct {
		txs    []models.Transaction
		bankID string
		err    error
	}
	outcomes := make([]artifactOutcome, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file UploadedFile) {
			defer wg.Done()
			txs, bankID, err := analyzeOne(file, userID)
			outcomes[i] = artifactOutcome{txs: txs, bankID: bankID, err: err}
		}(i, file)
	}
	wg.Wait()

	var merged []models.Transaction
	var bankIDs []string
	seenBanks := make(map[string]bool)
	for i, outcome := range outcomes {
		if outcome.err != nil {
			logger.FromContext(ctx).Warn("Statement analysis failed for artifact",
				"filename", files[i].Filename, "error", outcome.err)
			return nil, fmt.Errorf("%w: %s: %v", ErrParsingFailed, files[i].Filename, outcome.err)
		}
		merged = append(merged, outcome.txs...)
		if !seenBanks[outcome.bankID] {
			seenBanks[outcome.bankID] = true
			bankIDs = append(bankIDs, outcome.bankID)
		}
	}

	unique := parsers.DedupeBatch(merged)
	logger.FromContext(ctx).Info("Statement batch analyzed",
		"userID", userID, "artifacts", len(files), "extracted", len(merged), "unique", len(unique))

	return &AnalyzeResult{Transactions: unique, BankIDs: bankIDs}, nil
}

func analyzeOne(file UploadedFile, userID int64) ([]models.Transaction, string, error) {
	artifact, err := parsers.NewArtifact(file.Filename, file.ContentType, file.Data)
	if err != nil {
		return nil, "", err
	}
	parser, err := parsers.Detect(artifact)
	if err != nil {
		return nil, "", err
	}
	txs, err := parser.Parse(artifact, userID)
	if err != nil {
		return nil, "", err
	}
	return txs, parser.ID(), nil
}

// SyncTransactions persists the reviewed candidate set. Rows already known by
// hash are skipped, making re-sync of an overlapping statement idempotent.
// Reconciliation runs before the call returns so the ledger the client reads
// next is already consistent.
func (s *statementServiceImpl) SyncTransactions(ctx context.Context, txs []models.Transaction, userID int64) (*SyncResult, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: no transactions in sync payload", ErrValidationFailed)
	}

	var problems []string
	for i, tx := range txs {
		if err := validation.ValidateTransactionHash(tx.TransactionHash); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", i+1, err))
		}
		if tx.Date == "" {
			problems = append(problems, fmt.Sprintf("row %d: date is required", i+1))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(problems, "; "))
	}

	sqlTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start sync transaction: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(`
		INSERT INTO interest_transactions
			(user_id, bank_id, transaction_id, transaction_hash, date, description, amount, type, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_hash) DO NOTHING`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sync insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0
	for _, tx := range txs {
		res, err := stmt.Exec(
			userID, tx.BankID, tx.TransactionID, strings.TrimSpace(tx.TransactionHash),
			tx.Date, validation.SanitizeDescription(tx.Description),
			tx.Amount.StringFixed(2), tx.Type, tx.Balance.StringFixed(2), now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transaction %s: %w", tx.TransactionHash, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		inserted += int(affected)
	}

	if err := sqlTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync: %w", err)
	}

	s.projection.InvalidateUserCache(userID)

	if err := s.reconciler.Reconcile(ctx, userID); err != nil {
		return nil, err
	}

	result := &SyncResult{InsertedCount: inserted, SkippedCount: len(txs) - inserted}
	logger.FromContext(ctx).Info("Transactions synced",
		"userID", userID, "inserted", result.InsertedCount, "skipped", result.SkippedCount)
	return result, nil
}
