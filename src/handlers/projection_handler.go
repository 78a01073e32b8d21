package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/interestledger/backend/src/logger"
	"github.com/username/interestledger/backend/src/services"
	"github.com/username/interestledger/backend/src/utils"
)

type ProjectionHandler struct {
	projectionService services.ProjectionService
}

func NewProjectionHandler(projectionService services.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{projectionService: projectionService}
}

// HandleListProjections serves one cursor page of the derived ledger.
// Query params: cursor, limit, order (asc|desc, default desc), status
// (comma-separated filter).
func (h *ProjectionHandler) HandleListProjections(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	params := services.ListParams{
		Cursor:    r.URL.Query().Get("cursor"),
		Ascending: strings.EqualFold(r.URL.Query().Get("order"), "asc"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			utils.SendJSONError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		params.Limit = limit
	}
	if statusCSV := r.URL.Query().Get("status"); statusCSV != "" {
		params.Statuses = strings.Split(statusCSV, ",")
	}

	page, err := h.projectionService.ListProjections(r.Context(), userID, params)
	if err != nil {
		if errors.Is(err, services.ErrBadCursor) {
			utils.SendJSONError(w, "Invalid cursor parameter", http.StatusBadRequest)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to list projections", "error", err)
		utils.SendJSONError(w, "Failed to list projections", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, page, http.StatusOK)
}

// HandleGetDashboardStats serves the cached headline aggregates.
func (h *ProjectionHandler) HandleGetDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	stats, err := h.projectionService.GetDashboardStats(r.Context(), userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to compute dashboard stats", "error", err)
		utils.SendJSONError(w, "Failed to compute dashboard stats", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, stats, http.StatusOK)
}
