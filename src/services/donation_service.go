package services

import (
	"context"
	"fmt"
	"time"

	"github.com/username/interestledger/backend/src/database"
	"github.com/username/interestledger/backend/src/logger"
	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/security/validation"
)

type donationServiceImpl struct {
	reconciler ReconcileService
	projection ProjectionService
}

func NewDonationService(reconciler ReconcileService, projection ProjectionService) DonationService {
	return &donationServiceImpl{reconciler: reconciler, projection: projection}
}

// AddDonation appends a donation fact dated today and reconciles before
// returning, so the write is reported consistent. Donations are append-only;
// there is no update or delete path.
func (s *donationServiceImpl) AddDonation(ctx context.Context, userID int64, amount string) (*models.Donation, error) {
	parsed, err := validation.ValidateDonationAmount(amount)
	if err != nil {
		return nil, err
	}

	donation := &models.Donation{
		UserID: userID,
		Amount: parsed,
		Date:   time.Now().Format(time.DateOnly),
	}

	res, err := database.DB.Exec(`
		INSERT INTO donations (user_id, amount, date, created_at)
		VALUES (?, ?, ?, ?)`,
		donation.UserID, donation.Amount.StringFixed(2), donation.Date, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}
	if donation.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}

	s.projection.InvalidateUserCache(userID)

	if err := s.reconciler.Reconcile(ctx, userID); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Donation recorded",
		"userID", userID, "donationID", donation.ID, "amount", donation.Amount.StringFixed(2))
	return donation, nil
}
