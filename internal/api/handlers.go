package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"fjacquet/finance-sync/internal/budget"
	"fjacquet/finance-sync/internal/importer"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/syncerror"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// maxImportBytes bounds an uploaded CSV.
const maxImportBytes = 10 << 20

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Description string           `json:"description"`
	Merchant    string           `json:"merchant,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// SyncRequest is the optional body of POST /accounts/{id}/sync.
type SyncRequest struct {
	Credential    string `json:"credential,omitempty"`
	ForceFullSync bool   `json:"force_full_sync,omitempty"`
}

// SyncResponse reports the rows inserted by a sync.
type SyncResponse struct {
	AccountID string `json:"account_id"`
	Inserted  int    `json:"inserted"`
}

// BudgetSyncResponse reports what a budget reconciliation changed.
type BudgetSyncResponse struct {
	UserID       string `json:"user_id"`
	Created      int    `json:"created"`
	Updated      int    `json:"updated"`
	Consolidated int    `json:"consolidated"`
	Unchanged    int    `json:"unchanged"`
}

// ImportResponse reports the outcome of a CSV import.
type ImportResponse struct {
	Total      int      `json:"total"`
	Inserted   int      `json:"inserted"`
	Duplicates int      `json:"duplicates"`
	Invalid    int      `json:"invalid"`
	Errors     []string `json:"errors,omitempty"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Classify handles POST /classify.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" && strings.TrimSpace(req.Merchant) == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing description or merchant")
		return
	}

	writeJSON(w, http.StatusOK, h.classifier.Classify(req.Description, req.Merchant, req.Amount))
}

// Categories handles GET /categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]models.CategoryInfo{
		"categories": h.classifier.ListCategories(),
	})
}

// SyncAccount handles POST /accounts/{id}/sync.
func (h *Handler) SyncAccount(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "provider_unavailable", "Bank data provider not configured")
		return
	}

	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if req.Credential == "" {
		req.Credential = h.defaultCredential
	}
	if req.Credential == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing credential")
		return
	}

	accountID := chi.URLParam(r, "id")
	inserted, err := h.syncer.SyncAccount(r.Context(), accountID, req.Credential, req.ForceFullSync)
	if err != nil {
		h.writeServiceError(w, err, logging.Field{Key: logging.FieldAccountID, Value: accountID})
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{AccountID: accountID, Inserted: inserted})
}

// SyncBudgets handles POST /users/{id}/budgets/sync.
func (h *Handler) SyncBudgets(w http.ResponseWriter, r *http.Request) {
	if h.budgets == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Budget synchronization not configured")
		return
	}

	userID := chi.URLParam(r, "id")
	result, err := h.budgets.Reconcile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, logging.Field{Key: logging.FieldUserID, Value: userID})
		return
	}
	writeJSON(w, http.StatusOK, budgetResponse(userID, result))
}

// Import handles POST /accounts/{id}/import with a CSV body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Import not configured")
		return
	}

	accountID := chi.URLParam(r, "id")
	result, err := h.importer.ImportCSV(r.Context(), accountID, http.MaxBytesReader(w, r.Body, maxImportBytes))
	var aborted *syncerror.ImportAbortedError
	switch {
	case errors.As(err, &aborted):
		writeJSON(w, http.StatusUnprocessableEntity, importResponse(result))
		return
	case err != nil:
		h.writeServiceError(w, err, logging.Field{Key: logging.FieldAccountID, Value: accountID})
		return
	}
	writeJSON(w, http.StatusOK, importResponse(result))
}

// writeServiceError maps domain errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fields ...logging.Field) {
	var providerErr *syncerror.ProviderError
	switch {
	case errors.Is(err, syncerror.ErrAccountNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "Account not found")
	case errors.As(err, &providerErr):
		h.logger.WithError(err).Warn("Provider request failed", fields...)
		writeJSONError(w, http.StatusBadGateway, "provider_error", providerErr.Error())
	default:
		h.logger.WithError(err).Error("Request failed", fields...)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}

func budgetResponse(userID string, r budget.Result) BudgetSyncResponse {
	return BudgetSyncResponse{
		UserID:       userID,
		Created:      r.Created,
		Updated:      r.Updated,
		Consolidated: r.Consolidated,
		Unchanged:    r.Unchanged,
	}
}

func importResponse(r importer.Result) ImportResponse {
	resp := ImportResponse{
		Total:      r.Total,
		Inserted:   r.Inserted,
		Duplicates: r.Duplicates,
		Invalid:    r.Invalid,
	}
	for _, err := range r.Errors {
		resp.Errors = append(resp.Errors, err.Error())
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, ErrorResponse{Error: code, ErrorDescription: description})
}
