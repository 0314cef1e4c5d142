package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/runhistory"
	"github.com/taaslabs/taas-backend/scenario"
)

// runRecorder persists run history around a scenario execution. History is
// best-effort: a database failure is logged but never blocks execution.
type runRecorder struct {
	runs   runhistory.Store
	logger logger.Logger
}

func (r *runRecorder) start(ctx context.Context, objective string, sc scenario.Scenario) uuid.UUID {
	if objective == "" {
		objective = sc.Description
	}
	if objective == "" {
		objective = sc.Name
	}

	run := &runhistory.Run{
		Objective:    objective,
		ScenarioName: sc.Name,
		TargetURL:    firstGotoURL(sc),
	}
	if err := r.runs.Create(ctx, run); err != nil {
		r.logger.Error(ctx, "failed to record run", map[string]interface{}{
			"error":    err.Error(),
			"scenario": sc.Name,
		})
		return uuid.Nil
	}
	if err := r.runs.Start(ctx, run.ID); err != nil {
		r.logger.Error(ctx, "failed to start run record", map[string]interface{}{
			"error":  err.Error(),
			"run_id": run.ID,
		})
	}
	return run.ID
}

func (r *runRecorder) complete(ctx context.Context, runID uuid.UUID, result engine.ExecutionResult) {
	if runID == uuid.Nil {
		return
	}

	status := runhistory.StatusCompleted
	if !result.Success {
		status = runhistory.StatusFailed
	}

	var outcome runhistory.Outcome
	if result.Metrics != nil {
		outcome.TotalSteps = result.Metrics.TotalSteps
		outcome.PassedSteps = result.Metrics.PassedSteps
		outcome.FailedSteps = result.Metrics.FailedSteps
		outcome.WarningSteps = result.Metrics.WarningSteps
	}
	if result.Report != nil {
		outcome.ReportDir = result.Report.Files.ReportDir
	}

	if err := r.runs.Complete(ctx, runID, status, outcome); err != nil {
		r.logger.Error(ctx, "failed to complete run record", map[string]interface{}{
			"error":  err.Error(),
			"run_id": runID,
		})
	}
}

func firstGotoURL(sc scenario.Scenario) string {
	for _, step := range sc.Steps {
		if step.Action == scenario.ActionGoto {
			return step.URL
		}
	}
	return ""
}
