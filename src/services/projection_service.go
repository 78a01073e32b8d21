package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/interestledger/backend/src/database"
	"github.com/username/interestledger/backend/src/logger"
	"github.com/username/interestledger/backend/src/models"
)

// MaxProjectionPageSize caps a single projection page.
const MaxProjectionPageSize = 100

// Cache tuning for dashboard aggregates. Entries are invalidated on write
// anyway; expiry is a backstop.
const (
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

// ListParams are the query options for a projection page.
type ListParams struct {
	Cursor    string   // "<transaction_date>_<id>" of the last row of the previous page
	Limit     int      // clamped to [1, MaxProjectionPageSize]
	Ascending bool     // default is newest-first
	Statuses  []string // optional filter; unknown values are ignored
}

// ProjectionPage is one page of the derived ledger plus the cursor for the
// next page.
type ProjectionPage struct {
	Projections []models.InterestProjection `json:"projections"`
	NextCursor  string                      `json:"next_cursor,omitempty"`
	HasNextPage bool                        `json:"has_next_page"`
}

type projectionServiceImpl struct {
	cache *cache.Cache
}

func NewProjectionService(reportCache *cache.Cache) ProjectionService {
	return &projectionServiceImpl{cache: reportCache}
}

func dashboardCacheKey(userID int64) string {
	return fmt.Sprintf("agg_dashboard_stats_user_%d", userID)
}

func (s *projectionServiceImpl) InvalidateUserCache(userID int64) {
	s.cache.Delete(dashboardCacheKey(userID))
}

// encodeCursor builds the opaque page cursor. The transaction date is ISO and
// contains no underscore, so the last underscore always separates date and id.
func encodeCursor(p models.InterestProjection) string {
	return fmt.Sprintf("%s_%d", p.TransactionDate, p.ID)
}

// ErrBadCursor marks an unparseable page cursor so handlers can map it to a
// client error.
var ErrBadCursor = errors.New("malformed projection cursor")

func decodeCursor(cursor string) (date string, id int64, err error) {
	sep := strings.LastIndex(cursor, "_")
	if sep <= 0 || sep == len(cursor)-1 {
		return "", 0, fmt.Errorf("%w: %q", ErrBadCursor, cursor)
	}
	id, err = strconv.ParseInt(cursor[sep+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrBadCursor, cursor, err)
	}
	return cursor[:sep], id, nil
}

// orderClause sorts by transaction date in the requested direction with a
// fixed descending tie-break on row id.
func orderClause(ascending bool) string {
	if ascending {
		return "ORDER BY transaction_date ASC, id DESC"
	}
	return "ORDER BY transaction_date DESC, id DESC"
}

// cursorPredicate advances past the cursor row. The id tie-break is always
// descending, so the id comparison is the same in both directions.
func cursorPredicate(ascending bool) string {
	if ascending {
		return "(transaction_date > ? OR (transaction_date = ? AND id < ?))"
	}
	return "(transaction_date < ? OR (transaction_date = ? AND id < ?))"
}

var knownStatuses = map[string]bool{
	models.StatusNotDonated:       true,
	models.StatusPartiallyDonated: true,
	models.StatusFullyDonated:     true,
}

func (s *projectionServiceImpl) ListProjections(ctx context.Context, userID int64, params ListParams) (*ProjectionPage, error) {
	limit := params.Limit
	if limit <= 0 || limit > MaxProjectionPageSize {
		limit = MaxProjectionPageSize
	}

	where := []string{"user_id = ?"}
	args := []any{userID}

	var statuses []string
	for _, status := range params.Statuses {
		status = strings.TrimSpace(strings.ToLower(status))
		if knownStatuses[status] {
			statuses = append(statuses, status)
		}
	}
	if len(statuses) > 0 {
		where = append(where, "status IN (?"+strings.Repeat(", ?", len(statuses)-1)+")")
		for _, status := range statuses {
			args = append(args, status)
		}
	}

	if params.Cursor != "" {
		date, id, err := decodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		where = append(where, cursorPredicate(params.Ascending))
		args = append(args, date, date, id)
	}

	// Fetch one extra row to learn whether a next page exists
	query := fmt.Sprintf(`
		SELECT id, user_id, bank_id, COALESCE(transaction_id, ''), transaction_hash,
		       amount, donated_amount, remaining_amount, COALESCE(description, ''),
		       transaction_date, donation_at, status, updated_at
		FROM interest_projections
		WHERE %s
		%s
		LIMIT ?`, strings.Join(where, " AND "), orderClause(params.Ascending))
	args = append(args, limit+1)

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	defer rows.Close()

	var projections []models.InterestProjection
	for rows.Next() {
		var p models.InterestProjection
		var amount, donated, remaining string
		var donationAt sql.NullString
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.BankID, &p.TransactionID, &p.TransactionHash,
			&amount, &donated, &remaining, &p.Description,
			&p.TransactionDate, &donationAt, &p.Status, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("projection %d has a non-decimal amount %q: %w", p.ID, amount, err)
		}
		if p.DonatedAmount, err = decimal.NewFromString(donated); err != nil {
			return nil, fmt.Errorf("projection %d has a non-decimal donated amount %q: %w", p.ID, donated, err)
		}
		if p.RemainingAmount, err = decimal.NewFromString(remaining); err != nil {
			return nil, fmt.Errorf("projection %d has a non-decimal remaining amount %q: %w", p.ID, remaining, err)
		}
		p.DonationAt = donationAt.String
		projections = append(projections, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := &ProjectionPage{Projections: projections}
	if len(projections) > limit {
		page.Projections = projections[:limit]
		page.HasNextPage = true
		page.NextCursor = encodeCursor(page.Projections[limit-1])
	}
	if page.Projections == nil {
		page.Projections = []models.InterestProjection{}
	}
	return page, nil
}

// GetDashboardStats sums the fact tables in Go with exact decimal arithmetic.
// SQLite would sum the TEXT amounts as floats and drift.
func (s *projectionServiceImpl) GetDashboardStats(ctx context.Context, userID int64) (*DashboardStats, error) {
	key := dashboardCacheKey(userID)
	if cached, found := s.cache.Get(key); found {
		if stats, ok := cached.(*DashboardStats); ok {
			logger.FromContext(ctx).Debug("Dashboard stats served from cache", "userID", userID)
			return stats, nil
		}
	}

	totalInterest := decimal.Zero
	transactionCount := 0
	rows, err := database.DB.Query(
		"SELECT amount FROM interest_transactions WHERE user_id = ? AND type = ?", userID, models.TypeCredit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate interest: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("stored amount %q is not decimal: %w", amount, err)
		}
		totalInterest = totalInterest.Add(value)
		transactionCount++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalDonated := decimal.Zero
	donationCount := 0
	donationRows, err := database.DB.Query("SELECT amount FROM donations WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate donations: %w", err)
	}
	defer donationRows.Close()
	for donationRows.Next() {
		var amount string
		if err := donationRows.Scan(&amount); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("stored donation amount %q is not decimal: %w", amount, err)
		}
		totalDonated = totalDonated.Add(value)
		donationCount++
	}
	if err := donationRows.Err(); err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalInterest:    totalInterest.StringFixed(2),
		TotalDonated:     totalDonated.StringFixed(2),
		TransactionCount: transactionCount,
		DonationCount:    donationCount,
	}
	s.cache.Set(key, stats, cache.DefaultExpiration)
	return stats, nil
}
