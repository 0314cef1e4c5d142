package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/runhistory"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// RunsHandler serves run history.
type RunsHandler struct {
	runs   runhistory.Store
	logger logger.Logger
}

// NewRunsHandler creates a run history handler.
func NewRunsHandler(runs runhistory.Store, log logger.Logger) *RunsHandler {
	return &RunsHandler{runs: runs, logger: log}
}

// List handles GET /api/v1/runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = parsed
	}

	runs, err := h.runs.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	respondJSON(w, http.StatusOK, PaginatedResponse{
		Items:  runs,
		Total:  len(runs),
		Limit:  limit,
		Offset: offset,
	})
}

// GetByID handles GET /api/v1/runs/{id}.
func (h *RunsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "run")
	if !ok {
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, runhistory.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get run", map[string]interface{}{
			"error":  err.Error(),
			"run_id": id,
		})
		respondError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	respondJSON(w, http.StatusOK, run)
}
