package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/username/interestledger/backend/src/config"
	"github.com/username/interestledger/backend/src/logger"
	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/parsers"
	"github.com/username/interestledger/backend/src/security/validation"
	"github.com/username/interestledger/backend/src/services"
	"github.com/username/interestledger/backend/src/utils"
)

type StatementHandler struct {
	statementService services.StatementService
}

func NewStatementHandler(statementService services.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// HandleAnalyzeStatements accepts a multipart batch of statement files under
// the "files" field, extracts candidate interest transactions and returns
// them for review. Nothing is persisted here.
func (h *StatementHandler) HandleAnalyzeStatements(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		utils.SendJSONError(w, "Upload too large or malformed multipart body", http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		utils.SendJSONError(w, "No statement files provided (field name: files)", http.StatusBadRequest)
		return
	}

	var files []services.UploadedFile
	for _, header := range fileHeaders {
		if err := validation.ValidateStringMaxLength(header.Filename, validation.MaxFilenameLength, "Filename"); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		contentType := header.Header.Get("Content-Type")
		if err := validation.ValidateClientContentType(contentType); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		file, err := header.Open()
		if err != nil {
			logger.ErrorFromContext(r.Context(), "Failed to open uploaded file", "filename", header.Filename, "error", err)
			utils.SendJSONError(w, "Failed to read uploaded file", http.StatusInternalServerError)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			logger.ErrorFromContext(r.Context(), "Failed to read uploaded file", "filename", header.Filename, "error", err)
			utils.SendJSONError(w, "Failed to read uploaded file", http.StatusInternalServerError)
			return
		}

		if _, err := validation.ValidateStatementContent(data); err != nil {
			utils.SendJSONError(w, header.Filename+": "+err.Error(), http.StatusBadRequest)
			return
		}

		files = append(files, services.UploadedFile{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	result, err := h.statementService.AnalyzeStatements(r.Context(), files, userID)
	if err != nil {
		switch {
		case errors.Is(err, parsers.ErrUnrecognizedStatement),
			errors.Is(err, parsers.ErrHeaderNotFound),
			errors.Is(err, parsers.ErrUnreadableArtifact),
			errors.Is(err, services.ErrParsingFailed):
			utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			logger.ErrorFromContext(r.Context(), "Statement analysis failed", "error", err)
			utils.SendJSONError(w, "Failed to analyze statements", http.StatusInternalServerError)
		}
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}

// HandleSyncTransactions persists the reviewed candidate transactions.
func (h *StatementHandler) HandleSyncTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.statementService.SyncTransactions(r.Context(), payload.Transactions, userID)
	if err != nil {
		if errors.Is(err, services.ErrValidationFailed) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.ErrorFromContext(r.Context(), "Transaction sync failed", "error", err)
		utils.SendJSONError(w, "Failed to sync transactions", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}
