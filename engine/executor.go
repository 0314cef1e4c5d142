package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/taaslabs/taas-backend/browser"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/scenario"
)

// Mode selects between the validation dry run and the real execution run.
type Mode string

const (
	// ModeValidate checks selector reachability without performing
	// clicks or fills.
	ModeValidate Mode = "validate"

	// ModeRun performs every action for real.
	ModeRun Mode = "run"
)

// Per-operation timeout bounds. Validation navigates with a tighter bound
// than execution; all waits are finite.
const (
	gotoValidateTimeout   = 10 * time.Second
	gotoRunTimeout        = 30 * time.Second
	expectValidateTimeout = 5 * time.Second
	expectRunTimeout      = 10 * time.Second
)

// Settle holds fixed delays applied after navigations and clicks in run
// mode. They absorb client-side rendering races; this is a tunable
// stability heuristic, not a correctness guarantee.
type Settle struct {
	AfterGoto  time.Duration
	AfterClick time.Duration
}

// DefaultSettle mirrors the delays the product has always shipped with.
func DefaultSettle() Settle {
	return Settle{
		AfterGoto:  2 * time.Second,
		AfterClick: 1 * time.Second,
	}
}

// SessionState is the per-scenario navigation state machine. A scenario
// starts with no page loaded and transitions to loaded on the first
// successful goto; there is no transition back.
type SessionState struct {
	loaded     bool
	currentURL string
}

// PageLoaded reports whether a goto has succeeded in this scenario.
func (s *SessionState) PageLoaded() bool {
	return s.loaded
}

// CurrentURL returns the URL of the last successful navigation.
func (s *SessionState) CurrentURL() string {
	return s.currentURL
}

// MarkLoaded records a successful navigation.
func (s *SessionState) MarkLoaded(url string) {
	s.loaded = true
	s.currentURL = url
}

// StepExecutor interprets one step against a live page, producing exactly
// one outcome per step. Failures are isolated to the step; the executor
// itself never returns an error.
type StepExecutor struct {
	resolver *SelectorResolver
	settle   Settle
	logger   logger.Logger
}

// NewStepExecutor creates a step executor with the default settle delays.
func NewStepExecutor(log logger.Logger) *StepExecutor {
	return &StepExecutor{
		resolver: NewSelectorResolver(log),
		settle:   DefaultSettle(),
		logger:   log,
	}
}

// SetSettle overrides the settle delays. Tests zero them out.
func (e *StepExecutor) SetSettle(settle Settle) {
	e.settle = settle
}

// Execute runs one step in the given mode. In validate mode the step may
// be mutated in place to substitute a repaired selector; this is the only
// scenario mutation in the system. Driver panics are converted to failed
// outcomes so one bad step never aborts the pass.
func (e *StepExecutor) Execute(ctx context.Context, page browser.Page, step *scenario.Step, state *SessionState, mode Mode) (outcome scenario.StepOutcome) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome = e.outcome(step, scenario.StatusFailed, fmt.Sprintf("step panicked: %v", r), start)
		}
	}()

	if err := step.Validate(); err != nil {
		return e.outcome(step, scenario.StatusFailed, err.Error(), start)
	}

	if step.Action == scenario.ActionGoto {
		return e.executeGoto(ctx, page, step, state, mode, start)
	}

	// Interactive steps are not attemptable until a page is loaded. They
	// still count toward the pass totals.
	if !state.PageLoaded() {
		e.logger.Warn(ctx, "skipping step, no page loaded", map[string]interface{}{
			"action": string(step.Action),
		})
		return e.outcome(step, scenario.StatusWarning, "no page loaded", start)
	}

	if mode == ModeValidate {
		return e.validateStep(ctx, page, step, start)
	}
	return e.runStep(ctx, page, step, start)
}

func (e *StepExecutor) executeGoto(ctx context.Context, page browser.Page, step *scenario.Step, state *SessionState, mode Mode, start time.Time) scenario.StepOutcome {
	timeout := gotoRunTimeout
	if mode == ModeValidate {
		timeout = gotoValidateTimeout
	}

	e.logger.Info(ctx, "navigating", map[string]interface{}{
		"url":  step.URL,
		"mode": string(mode),
	})

	if err := page.Navigate(ctx, step.URL, timeout); err != nil {
		// Session state is unchanged: a failed goto never loads a page.
		return e.outcome(step, scenario.StatusFailed, err.Error(), start)
	}

	state.MarkLoaded(step.URL)
	if mode == ModeRun {
		time.Sleep(e.settle.AfterGoto)
	}
	return e.outcome(step, scenario.StatusPassed, "", start)
}

// validateStep pre-flight checks a step without performing it. Clicks and
// fills only assert selector reachability; validation is non-destructive
// so speculative runs never mutate arbitrary target sites.
func (e *StepExecutor) validateStep(ctx context.Context, page browser.Page, step *scenario.Step, start time.Time) scenario.StepOutcome {
	switch step.Action {
	case scenario.ActionFill, scenario.ActionClick:
		resolution := e.resolver.Resolve(ctx, page, step.Selector)
		if !resolution.Found {
			return e.outcome(step, scenario.StatusFailed,
				fmt.Sprintf("selector not found: %s", step.Selector), start)
		}
		if resolution.Selector != step.Selector {
			step.Selector = resolution.Selector
		}
		return e.outcome(step, scenario.StatusPassed, "", start)

	case scenario.ActionExpect:
		return e.executeExpect(ctx, page, step, expectValidateTimeout, start)

	default:
		return e.outcome(step, scenario.StatusFailed,
			fmt.Sprintf("unsupported action: %s", step.Action), start)
	}
}

// runStep performs the step for real.
func (e *StepExecutor) runStep(ctx context.Context, page browser.Page, step *scenario.Step, start time.Time) scenario.StepOutcome {
	switch step.Action {
	case scenario.ActionFill:
		if err := page.Fill(ctx, step.Selector, step.Value); err != nil {
			return e.outcome(step, scenario.StatusFailed, err.Error(), start)
		}
		return e.outcome(step, scenario.StatusPassed, "", start)

	case scenario.ActionClick:
		if err := page.Click(ctx, step.Selector); err != nil {
			return e.outcome(step, scenario.StatusFailed, err.Error(), start)
		}
		time.Sleep(e.settle.AfterClick)
		return e.outcome(step, scenario.StatusPassed, "", start)

	case scenario.ActionExpect:
		return e.executeExpect(ctx, page, step, expectRunTimeout, start)

	default:
		return e.outcome(step, scenario.StatusFailed,
			fmt.Sprintf("unsupported action: %s", step.Action), start)
	}
}

// executeExpect handles assertion steps. Only toBeVisible is supported;
// any other condition fails the step explicitly instead of silently
// passing.
func (e *StepExecutor) executeExpect(ctx context.Context, page browser.Page, step *scenario.Step, timeout time.Duration, start time.Time) scenario.StepOutcome {
	if step.Condition != scenario.ConditionToBeVisible {
		return e.outcome(step, scenario.StatusFailed,
			fmt.Sprintf("unsupported condition: %s", step.Condition), start)
	}
	if err := page.WaitVisible(ctx, step.Selector, timeout); err != nil {
		return e.outcome(step, scenario.StatusFailed, err.Error(), start)
	}
	return e.outcome(step, scenario.StatusPassed, "", start)
}

func (e *StepExecutor) outcome(step *scenario.Step, status scenario.StepStatus, reason string, start time.Time) scenario.StepOutcome {
	return scenario.StepOutcome{
		Step:       step.Describe(),
		Status:     status,
		DurationMs: time.Since(start).Milliseconds(),
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}
