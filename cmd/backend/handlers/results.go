package handlers

import (
	"net/http"

	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/results"
)

// ResultsHandler serves stored scenario and validation result listings.
type ResultsHandler struct {
	store  *results.Store
	logger logger.Logger
}

// NewResultsHandler creates a results listing handler.
func NewResultsHandler(store *results.Store, log logger.Logger) *ResultsHandler {
	return &ResultsHandler{store: store, logger: log}
}

// List handles GET /api/v1/results.
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListScenarios()
	if err != nil {
		h.logger.Error(r.Context(), "failed to list results", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: entries, Total: len(entries)})
}

// ListValidated handles GET /api/v1/results-mcp.
func (h *ResultsHandler) ListValidated(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListValidated()
	if err != nil {
		h.logger.Error(r.Context(), "failed to list validated results", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list validated results")
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: entries, Total: len(entries)})
}

// ListReports handles GET /api/v1/reports.
func (h *ResultsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports()
	if err != nil {
		h.logger.Error(r.Context(), "failed to list reports", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{Items: reports, Total: len(reports)})
}
