package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/runhistory"
	"github.com/taaslabs/taas-backend/scenario"
)

// ScenarioExecutor runs a scenario against a real browser.
type ScenarioExecutor interface {
	ExecuteScenario(ctx context.Context, sc scenario.Scenario, testName string) engine.ExecutionResult
}

// ExecuteHandler handles scenario execution requests.
type ExecuteHandler struct {
	executor ScenarioExecutor
	recorder runRecorder
	logger   logger.Logger
}

// NewExecuteHandler creates a scenario execution handler.
func NewExecuteHandler(executor ScenarioExecutor, runs runhistory.Store, log logger.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		executor: executor,
		recorder: runRecorder{runs: runs, logger: log},
		logger:   log,
	}
}

// ExecuteRequest is the POST /api/v1/execute request body.
type ExecuteRequest struct {
	Scenario  scenario.Scenario `json:"scenario"`
	TestName  string            `json:"testName,omitempty"`
	Objective string            `json:"objective,omitempty"`
}

// ExecuteResponse is the POST /api/v1/execute response body: the execution
// result with the recorded run id alongside.
type ExecuteResponse struct {
	engine.ExecutionResult
	RunID string `json:"runId,omitempty"`
}

// Execute handles POST /api/v1/execute.
func (h *ExecuteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExecuteRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Scenario.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	runID := h.recorder.start(ctx, req.Objective, req.Scenario)

	result := h.executor.ExecuteScenario(ctx, req.Scenario, req.TestName)

	h.recorder.complete(ctx, runID, result)

	resp := ExecuteResponse{ExecutionResult: result}
	if runID != uuid.Nil {
		resp.RunID = runID.String()
	}
	respondJSON(w, http.StatusOK, resp)
}
