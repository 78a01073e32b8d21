package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/interestledger/backend/src/database"
	"github.com/username/interestledger/backend/src/logger"
	"github.com/username/interestledger/backend/src/models"
)

// reconcileServiceImpl recomputes the full projection ledger for one user
// whenever the fact set changes (transaction sync or a new donation). The
// recompute is total: every projection row is rebuilt from scratch and
// upserted by transaction hash, which makes the operation idempotent.
type reconcileServiceImpl struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewReconcileService() ReconcileService {
	return &reconcileServiceImpl{locks: make(map[int64]*sync.Mutex)}
}

// userLock returns the mutex serializing reconciliation for one user.
// Different users reconcile independently.
func (s *reconcileServiceImpl) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *reconcileServiceImpl) Reconcile(ctx context.Context, userID int64) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	txs, err := fetchTransactionsAscending(userID)
	if err != nil {
		return fmt.Errorf("%w: loading transactions: %v", ErrReconcileFailed, err)
	}
	donations, err := fetchDonationsAscending(userID)
	if err != nil {
		return fmt.Errorf("%w: loading donations: %v", ErrReconcileFailed, err)
	}

	projections := Waterfall(userID, txs, donations, time.Now())

	if err := upsertProjections(projections); err != nil {
		return fmt.Errorf("%w: writing projections: %v", ErrReconcileFailed, err)
	}

	logger.FromContext(ctx).Info("Reconciliation complete",
		"userID", userID,
		"transactions", len(txs),
		"donations", len(donations),
		"durationMs", time.Since(start).Milliseconds())
	return nil
}

// donationPool is one donation with its unconsumed remainder during the
// waterfall.
type donationPool struct {
	date      string
	remaining decimal.Decimal
}

// Waterfall allocates the donation pool to transactions oldest-first and
// derives one projection row per transaction. Donations are consumed in
// ascending date order too; donation_at records the date of the last donation
// that contributed to the row, whether or not it completed coverage.
//
// The function is pure: it reads nothing and writes nothing, which keeps the
// allocation rules testable without a database.
func Waterfall(userID int64, txs []models.Transaction, donations []models.Donation, now time.Time) []models.InterestProjection {
	pool := make([]donationPool, 0, len(donations))
	for _, d := range donations {
		amount := d.Amount
		if amount.Sign() < 0 {
			// Never let a bad fact row poison the whole ledger
			amount = decimal.Zero
		}
		pool = append(pool, donationPool{date: d.Date, remaining: amount})
	}

	next := 0 // index of the oldest donation with remainder
	projections := make([]models.InterestProjection, 0, len(txs))

	for _, tx := range txs {
		need := tx.Amount
		if need.Sign() < 0 {
			need = decimal.Zero
		}

		covered := decimal.Zero
		donationAt := ""
		for need.Sub(covered).Sign() > 0 && next < len(pool) {
			slice := decimal.Min(pool[next].remaining, need.Sub(covered))
			covered = covered.Add(slice)
			pool[next].remaining = pool[next].remaining.Sub(slice)
			if slice.Sign() > 0 {
				donationAt = pool[next].date
			}
			if pool[next].remaining.Sign() <= 0 {
				next++
			}
		}

		remaining := need.Sub(covered)
		if remaining.Sign() < 0 {
			remaining = decimal.Zero
		}
		status := models.StatusFor(remaining, covered)

		projections = append(projections, models.InterestProjection{
			UserID:          userID,
			BankID:          tx.BankID,
			TransactionID:   tx.TransactionID,
			TransactionHash: tx.TransactionHash,
			Amount:          need,
			DonatedAmount:   covered,
			RemainingAmount: remaining,
			Description:     tx.Description,
			TransactionDate: tx.Date,
			DonationAt:      donationAt,
			Status:          status,
			UpdatedAt:       now,
		})
	}
	return projections
}

func fetchTransactionsAscending(userID int64) ([]models.Transaction, error) {
	rows, err := database.DB.Query(`
		SELECT id, bank_id, COALESCE(transaction_id, ''), transaction_hash, date, COALESCE(description, ''), amount, type, balance
		FROM interest_transactions
		WHERE user_id = ?
		ORDER BY date ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var amount, balance string
		if err := rows.Scan(&tx.ID, &tx.BankID, &tx.TransactionID, &tx.TransactionHash, &tx.Date, &tx.Description, &amount, &tx.Type, &balance); err != nil {
			return nil, err
		}
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %d has a non-decimal amount %q: %w", tx.ID, amount, err)
		}
		if tx.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("transaction %d has a non-decimal balance %q: %w", tx.ID, balance, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func fetchDonationsAscending(userID int64) ([]models.Donation, error) {
	rows, err := database.DB.Query(`
		SELECT id, user_id, amount, date
		FROM donations
		WHERE user_id = ?
		ORDER BY date ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		var d models.Donation
		var amount string
		if err := rows.Scan(&d.ID, &d.UserID, &amount, &d.Date); err != nil {
			return nil, err
		}
		if d.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("donation %d has a non-decimal amount %q: %w", d.ID, amount, err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// upsertProjections writes the recomputed ledger in one sql transaction.
// Conflict target is the unique transaction_hash; existing rows are merged,
// never duplicated.
func upsertProjections(projections []models.InterestProjection) error {
	sqlTx, err := database.DB.Begin()
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.Prepare(`
		INSERT INTO interest_projections
			(user_id, bank_id, transaction_id, transaction_hash, amount, donated_amount,
			 remaining_amount, description, transaction_date, donation_at, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_hash) DO UPDATE SET
			amount = excluded.amount,
			donated_amount = excluded.donated_amount,
			remaining_amount = excluded.remaining_amount,
			description = excluded.description,
			transaction_date = excluded.transaction_date,
			donation_at = excluded.donation_at,
			status = excluded.status,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range projections {
		var donationAt sql.NullString
		if p.DonationAt != "" {
			donationAt = sql.NullString{String: p.DonationAt, Valid: true}
		}
		if _, err := stmt.Exec(
			p.UserID, p.BankID, p.TransactionID, p.TransactionHash,
			p.Amount.StringFixed(2), p.DonatedAmount.StringFixed(2), p.RemainingAmount.StringFixed(2),
			p.Description, p.TransactionDate, donationAt, p.Status, p.UpdatedAt,
		); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}
