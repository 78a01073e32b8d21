package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/interestledger/backend/src/logger"
	"github.com/username/interestledger/backend/src/security/validation"
	"github.com/username/interestledger/backend/src/services"
	"github.com/username/interestledger/backend/src/utils"
)

type DonationHandler struct {
	donationService services.DonationService
}

func NewDonationHandler(donationService services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// HandleAddDonation records a donation dated today. The amount arrives as a
// JSON number or string; json.Number keeps it exact either way.
func (h *DonationHandler) HandleAddDonation(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Amount json.Number `json:"amount"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	donation, err := h.donationService.AddDonation(r.Context(), userID, payload.Amount.String())
	if err != nil {
		if errors.Is(err, validation.ErrValidationFailed) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to add donation", "error", err)
		utils.SendJSONError(w, "Failed to record donation", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, donation, http.StatusCreated)
}
