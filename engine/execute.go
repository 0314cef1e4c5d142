package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taaslabs/taas-backend/browser"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/scenario"
)

// Artifact file names inside a report's artifacts directory.
const (
	artifactScreenshotInitial = "screenshot-001.png"
	artifactScreenshotFinal   = "screenshot-final.png"
	artifactTrace             = "trace-001.json"

	executionResultFile = "execution-result.txt"
	executionReportFile = "execution-report.json"
)

// PageState captures the page's URL and title at the end of a run. When
// reading them fails, the error is recorded instead; a broken page never
// aborts artifact finalization.
type PageState struct {
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`
	Snapshot string `json:"snapshot,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ExecutionDetails describes how the run went.
type ExecutionDetails struct {
	Status        string    `json:"status"`
	ExecutionTime string    `json:"executionTime"`
	TotalSteps    int       `json:"totalSteps"`
	ExecutedCode  string    `json:"executedCode"`
	PageState     PageState `json:"pageState"`
}

// ReportFiles points at everything the run persisted.
type ReportFiles struct {
	ExecutionResult string            `json:"executionResult"`
	Artifacts       map[string]string `json:"artifacts"`
	ReportDir       string            `json:"reportDir"`
}

// ExecutionReport is the structured JSON report written per run.
type ExecutionReport struct {
	Scenario  scenario.Scenario `json:"scenario"`
	Execution ExecutionDetails  `json:"execution"`
	Files     ReportFiles       `json:"files"`
}

// ExecutionResult is the caller-facing outcome of an execution pass.
// Failure is data: passes never surface errors through control flow.
type ExecutionResult struct {
	Success         bool                       `json:"success"`
	FormattedResult string                     `json:"formattedResult,omitempty"`
	Report          *ExecutionReport           `json:"executionReport,omitempty"`
	Artifacts       map[string]string          `json:"artifacts,omitempty"`
	Metrics         *scenario.ExecutionMetrics `json:"metrics,omitempty"`
	Error           string                     `json:"error,omitempty"`
}

// Executor runs scenarios for real, capturing screenshots and a trace and
// writing a transcript plus a structured report per run.
type Executor struct {
	launcher   browser.Launcher
	stepExec   *StepExecutor
	reportsDir string
	logger     logger.Logger
}

// NewExecutor creates an execution-pass runner writing reports under
// reportsDir.
func NewExecutor(launcher browser.Launcher, stepExec *StepExecutor, reportsDir string, log logger.Logger) *Executor {
	return &Executor{
		launcher:   launcher,
		stepExec:   stepExec,
		reportsDir: reportsDir,
		logger:     log,
	}
}

// ExecuteScenario performs every step of the scenario in a fresh browser
// session. The scenario is consumed read-only. Step failures are isolated;
// Success is false when at least one step failed. Pass-level errors
// (browser launch, disk writes) are converted to a failure result.
func (e *Executor) ExecuteScenario(ctx context.Context, sc scenario.Scenario, testName string) ExecutionResult {
	result, err := e.run(ctx, sc, testName)
	if err != nil {
		e.logger.Error(ctx, "execution pass failed", map[string]interface{}{
			"scenario": sc.Name,
			"error":    err.Error(),
		})
		return ExecutionResult{
			Success:         false,
			Error:           err.Error(),
			FormattedResult: FormatFailure(err),
		}
	}
	return result
}

func (e *Executor) run(ctx context.Context, sc scenario.Scenario, testName string) (result ExecutionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("execution pass panicked: %v", r)
		}
	}()

	e.logger.Info(ctx, "executing scenario", map[string]interface{}{
		"scenario":  sc.Name,
		"test_name": testName,
	})

	reportDir := filepath.Join(e.reportsDir, "report-"+FileTimestamp(time.Now()))
	artifactsDir := filepath.Join(reportDir, "artifacts")
	if err := os.MkdirAll(artifactsDir, 0755); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to create report directory: %w", err)
	}

	session, err := e.launcher.Launch(ctx)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to launch execution browser: %w", err)
	}
	defer session.Close()

	artifacts := make(map[string]string)

	initialShot := filepath.Join(artifactsDir, artifactScreenshotInitial)
	if err := session.Screenshot(ctx, initialShot); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to capture initial screenshot: %w", err)
	}
	artifacts["screenshot"] = initialShot

	if err := session.StartTrace(ctx); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to start trace: %w", err)
	}

	transcript, finalResult, metrics := e.runSteps(ctx, session, sc)

	tracePath := filepath.Join(artifactsDir, artifactTrace)
	if err := session.StopTrace(ctx, tracePath); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to stop trace: %w", err)
	}
	artifacts["trace"] = tracePath

	finalShot := filepath.Join(artifactsDir, artifactScreenshotFinal)
	if err := session.Screenshot(ctx, finalShot); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to capture final screenshot: %w", err)
	}
	artifacts["screenshot_final"] = finalShot

	pageState := e.readPageState(ctx, session)

	formatted := BuildFormattedResult(finalResult, transcript, pageState, artifacts)

	resultPath := filepath.Join(reportDir, executionResultFile)
	if err := os.WriteFile(resultPath, []byte(formatted), 0644); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to write execution result: %w", err)
	}

	status := PassStatusCompleted
	if !finalResult {
		status = PassStatusFailed
	}

	report := &ExecutionReport{
		Scenario: sc,
		Execution: ExecutionDetails{
			Status:        status,
			ExecutionTime: time.Now().Format(time.RFC3339),
			TotalSteps:    len(sc.Steps),
			ExecutedCode:  transcript,
			PageState:     pageState,
		},
		Files: ReportFiles{
			ExecutionResult: resultPath,
			Artifacts:       artifacts,
			ReportDir:       reportDir,
		},
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to marshal execution report: %w", err)
	}
	reportPath := filepath.Join(reportDir, executionReportFile)
	if err := os.WriteFile(reportPath, reportJSON, 0644); err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to write execution report: %w", err)
	}

	return ExecutionResult{
		Success:         finalResult,
		FormattedResult: formatted,
		Report:          report,
		Artifacts:       artifacts,
		Metrics:         metrics,
	}, nil
}

// runSteps executes every step in run mode, building the transcript. One
// failed step marks the run failed but never stops the iteration.
func (e *Executor) runSteps(ctx context.Context, session browser.Session, sc scenario.Scenario) (string, bool, *scenario.ExecutionMetrics) {
	var transcript strings.Builder
	finalResult := true
	metrics := &scenario.ExecutionMetrics{}

	var state SessionState
	for i := range sc.Steps {
		step := sc.Steps[i]
		transcript.WriteString(TranscriptLine(step))
		transcript.WriteString("\n")

		outcome := e.stepExec.Execute(ctx, session, &step, &state, ModeRun)
		metrics.Record(outcome)
		if outcome.Status == scenario.StatusFailed {
			e.logger.Error(ctx, "step failed", map[string]interface{}{
				"step":   outcome.Step,
				"reason": outcome.Reason,
			})
			finalResult = false
		}
	}

	return transcript.String(), finalResult, metrics
}

// readPageState reads the final URL and title, degrading to an error
// record when the page is gone.
func (e *Executor) readPageState(ctx context.Context, session browser.Session) PageState {
	url, err := session.URL(ctx)
	if err != nil {
		e.logger.Warn(ctx, "could not capture page state", map[string]interface{}{
			"error": err.Error(),
		})
		return PageState{Error: err.Error()}
	}
	title, err := session.Title(ctx)
	if err != nil {
		return PageState{URL: url, Error: err.Error()}
	}
	return PageState{
		URL:      url,
		Title:    title,
		Snapshot: "Page snapshot captured",
	}
}
