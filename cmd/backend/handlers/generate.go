package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/generator"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/results"
	"github.com/taaslabs/taas-backend/runhistory"
	"github.com/taaslabs/taas-backend/scenario"
)

// ScenarioValidator runs the dry-run validation pass over scenarios.
type ScenarioValidator interface {
	Validate(ctx context.Context, scenarios []scenario.Scenario, targetURL string) engine.ValidationResult
}

// GenerateHandler handles the full generate-validate-execute flow.
type GenerateHandler struct {
	generator generator.ScenarioGenerator
	validator ScenarioValidator
	executor  ScenarioExecutor
	results   *results.Store
	recorder  runRecorder
	logger    logger.Logger
}

// NewGenerateHandler creates a scenario generation handler.
func NewGenerateHandler(
	gen generator.ScenarioGenerator,
	validator ScenarioValidator,
	executor ScenarioExecutor,
	store *results.Store,
	runs runhistory.Store,
	log logger.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		generator: gen,
		validator: validator,
		executor:  executor,
		results:   store,
		recorder:  runRecorder{runs: runs, logger: log},
		logger:    log,
	}
}

// GenerateRequest is the POST /api/v1/generate request body.
type GenerateRequest struct {
	Objective   string            `json:"objective"`
	TargetURL   string            `json:"targetUrl,omitempty"`
	Credentials map[string]string `json:"credentials,omitempty"`
}

// GenerateResponse is the POST /api/v1/generate response body. Scenarios
// carries the validated scenarios when validation succeeded, the originals
// otherwise. The first scenario is executed against a real browser and its
// outcome reported alongside the validation result.
type GenerateResponse struct {
	Scenarios           []scenario.Scenario     `json:"scenarios"`
	Metadata            generator.Metadata      `json:"metadata"`
	MCPValidation       engine.ValidationResult `json:"mcpValidation"`
	PlaywrightExecution *ExecuteResponse        `json:"playwrightExecution,omitempty"`
	Files               GeneratedFiles          `json:"files"`
}

// GeneratedFiles points at the persisted result files.
type GeneratedFiles struct {
	Scenarios string `json:"scenarios"`
	Validated string `json:"validated"`
}

// Generate handles POST /api/v1/generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GenerateRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	genReq := generator.Request{
		Objective:   req.Objective,
		TargetURL:   req.TargetURL,
		Credentials: req.Credentials,
	}
	if err := genReq.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.generator.Generate(ctx, genReq)
	if err != nil {
		if errors.Is(err, generator.ErrObjectiveTooLong) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(ctx, "scenario generation failed", map[string]interface{}{
			"error":     err.Error(),
			"objective": req.Objective,
		})
		respondError(w, http.StatusInternalServerError, "scenario generation failed")
		return
	}

	scenarioFile, err := h.results.SaveScenarios(result)
	if err != nil {
		h.logger.Error(ctx, "failed to save generated scenarios", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to persist scenarios")
		return
	}

	validation := h.validator.Validate(ctx, result.Scenarios, result.Metadata.TargetURL)

	validatedFile, err := h.results.SaveValidated(&validation)
	if err != nil {
		h.logger.Error(ctx, "failed to save validation result", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to persist validation result")
		return
	}

	scenarios := result.Scenarios
	if validation.Validated && len(validation.ValidatedScenarios) > 0 {
		scenarios = validation.ValidatedScenarios
	}

	execution := h.executeFirst(ctx, req.Objective, scenarios)

	h.logger.Info(ctx, "generate flow finished", map[string]interface{}{
		"objective": req.Objective,
		"scenarios": len(scenarios),
		"validated": validation.Validated,
		"executed":  execution != nil,
	})

	respondJSON(w, http.StatusOK, GenerateResponse{
		Scenarios:           scenarios,
		Metadata:            result.Metadata,
		MCPValidation:       validation,
		PlaywrightExecution: execution,
		Files: GeneratedFiles{
			Scenarios: scenarioFile,
			Validated: validatedFile,
		},
	})
}

// executeFirst runs the first scenario and records its run history.
func (h *GenerateHandler) executeFirst(ctx context.Context, objective string, scenarios []scenario.Scenario) *ExecuteResponse {
	if len(scenarios) == 0 {
		return nil
	}
	sc := scenarios[0]

	runID := h.recorder.start(ctx, objective, sc)

	result := h.executor.ExecuteScenario(ctx, sc, sc.Name)

	h.recorder.complete(ctx, runID, result)

	resp := &ExecuteResponse{ExecutionResult: result}
	if runID != uuid.Nil {
		resp.RunID = runID.String()
	}
	return resp
}
