package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taaslabs/taas-backend/browser"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/scenario"
)

// Pass statuses reported in validation and execution reports.
const (
	PassStatusCompleted = "completed"
	PassStatusFailed    = "failed"
	PassStatusSkipped   = "skipped"
)

// ValidationConfig is the operator-facing switchboard for the validation
// pass.
type ValidationConfig struct {
	// Enabled turns the whole pass on or off.
	Enabled bool

	// SkipDomains lists substrings of target URLs that must never be
	// touched by automated validation, e.g. production or financial
	// sites. Matching is case-insensitive.
	SkipDomains []string
}

// ShouldSkip reports whether the target URL matches the skip-list.
func (c ValidationConfig) ShouldSkip(targetURL string) bool {
	if targetURL == "" {
		return false
	}
	lowered := strings.ToLower(targetURL)
	for _, domain := range c.SkipDomains {
		if domain == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(domain)) {
			return true
		}
	}
	return false
}

// ValidationReport summarizes one validation pass.
type ValidationReport struct {
	Status         string                     `json:"status"`
	Reason         string                     `json:"reason,omitempty"`
	ExecutionTime  string                     `json:"executionTime"`
	TotalScenarios int                        `json:"totalScenarios,omitempty"`
	Metrics        *scenario.ExecutionMetrics `json:"executionMetrics,omitempty"`
}

// ValidationResult is the caller-facing outcome of a validation pass.
// Scenarios always carries the caller's original list; ValidatedScenarios
// is a distinct repaired copy, present only when Validated is true.
type ValidationResult struct {
	Validated          bool                `json:"validated"`
	Reason             string              `json:"reason,omitempty"`
	Scenarios          []scenario.Scenario `json:"scenarios"`
	ValidatedScenarios []scenario.Scenario `json:"validatedScenarios,omitempty"`
	Report             ValidationReport    `json:"executionReport"`
}

// Validator runs the non-destructive dry-run pass over scenarios.
type Validator struct {
	launcher browser.Launcher
	executor *StepExecutor
	cfg      ValidationConfig
	logger   logger.Logger
}

// NewValidator creates a validator.
func NewValidator(launcher browser.Launcher, executor *StepExecutor, cfg ValidationConfig, log logger.Logger) *Validator {
	return &Validator{
		launcher: launcher,
		executor: executor,
		cfg:      cfg,
		logger:   log,
	}
}

// Validate dry-runs every scenario step against a sandboxed browser
// session, repairing selectors where alternatives exist. Failure is data:
// the method never returns an error, and the browser session is released
// on every exit path.
func (v *Validator) Validate(ctx context.Context, scenarios []scenario.Scenario, targetURL string) ValidationResult {
	start := time.Now()

	if !v.cfg.Enabled {
		return skippedResult(scenarios, "validation disabled")
	}
	if v.cfg.ShouldSkip(targetURL) {
		v.logger.Info(ctx, "validation skipped for sensitive domain", map[string]interface{}{
			"target_url": targetURL,
		})
		return skippedResult(scenarios, "sensitive domain detected")
	}

	validated, metrics, err := v.runPass(ctx, scenarios)
	elapsed := formatMillis(time.Since(start))
	if err != nil {
		v.logger.Error(ctx, "validation pass failed", map[string]interface{}{
			"error": err.Error(),
		})
		// No partial metrics promised here: the caller gets the original
		// unrepaired scenarios back.
		return ValidationResult{
			Validated: false,
			Reason:    err.Error(),
			Scenarios: scenarios,
			Report: ValidationReport{
				Status:        PassStatusFailed,
				Reason:        err.Error(),
				ExecutionTime: elapsed,
			},
		}
	}

	v.logger.Info(ctx, "validation completed", map[string]interface{}{
		"total_steps":   metrics.TotalSteps,
		"passed_steps":  metrics.PassedSteps,
		"failed_steps":  metrics.FailedSteps,
		"warning_steps": metrics.WarningSteps,
	})

	return ValidationResult{
		Validated:          true,
		Scenarios:          scenarios,
		ValidatedScenarios: validated,
		Report: ValidationReport{
			Status:         PassStatusCompleted,
			ExecutionTime:  elapsed,
			TotalScenarios: len(scenarios),
			Metrics:        metrics,
		},
	}
}

// runPass opens one browser session for the whole pass and visits every
// step of every scenario in validate mode.
func (v *Validator) runPass(ctx context.Context, scenarios []scenario.Scenario) (validated []scenario.Scenario, metrics *scenario.ExecutionMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			validated, metrics = nil, nil
			err = fmt.Errorf("validation pass panicked: %v", r)
		}
	}()

	session, err := v.launcher.Launch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch validation browser: %w", err)
	}
	defer session.Close()

	// Selector repair happens on this copy; the caller's scenarios stay
	// untouched.
	validated = scenario.CloneAll(scenarios)
	metrics = &scenario.ExecutionMetrics{}

	for i := range validated {
		v.logger.Info(ctx, "validating scenario", map[string]interface{}{
			"scenario": validated[i].Name,
		})

		var state SessionState
		for j := range validated[i].Steps {
			outcome := v.executor.Execute(ctx, session, &validated[i].Steps[j], &state, ModeValidate)
			metrics.Record(outcome)
		}
	}

	return validated, metrics, nil
}

func skippedResult(scenarios []scenario.Scenario, reason string) ValidationResult {
	return ValidationResult{
		Validated: false,
		Reason:    reason,
		Scenarios: scenarios,
		Report: ValidationReport{
			Status:        PassStatusSkipped,
			Reason:        reason,
			ExecutionTime: "0ms",
		},
	}
}

func formatMillis(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
