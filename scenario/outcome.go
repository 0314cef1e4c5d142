package scenario

import "time"

// StepStatus represents the outcome status of a single executed step.
type StepStatus string

const (
	StatusPassed  StepStatus = "passed"
	StatusFailed  StepStatus = "failed"
	StatusWarning StepStatus = "warning"
)

// IsValid checks if the step status is valid.
func (s StepStatus) IsValid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusWarning:
		return true
	default:
		return false
	}
}

// StepOutcome records the result of one step in one pass. Exactly one
// outcome is produced per step visited.
type StepOutcome struct {
	Step       string     `json:"step"`
	Status     StepStatus `json:"status"`
	DurationMs int64      `json:"duration_ms"`
	Reason     string     `json:"reason,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// ExecutionMetrics aggregates step outcomes across a validation pass.
// TotalSteps always equals PassedSteps + FailedSteps + WarningSteps and
// matches the number of steps visited, including steps skipped because
// no page was loaded yet.
type ExecutionMetrics struct {
	TotalSteps   int           `json:"totalSteps"`
	PassedSteps  int           `json:"passedSteps"`
	FailedSteps  int           `json:"failedSteps"`
	WarningSteps int           `json:"warningSteps"`
	StepDetails  []StepOutcome `json:"stepDetails"`
}

// Record appends an outcome and updates the aggregate counters.
func (m *ExecutionMetrics) Record(outcome StepOutcome) {
	m.TotalSteps++
	switch outcome.Status {
	case StatusPassed:
		m.PassedSteps++
	case StatusFailed:
		m.FailedSteps++
	case StatusWarning:
		m.WarningSteps++
	}
	m.StepDetails = append(m.StepDetails, outcome)
}
