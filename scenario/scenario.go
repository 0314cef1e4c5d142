package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScenarioName is returned when a scenario name is empty.
	ErrInvalidScenarioName = errors.New("scenario name is required")

	// ErrInvalidAction is returned when a step has an unknown action.
	ErrInvalidAction = errors.New("invalid step action")

	// ErrMissingURL is returned when a goto step has no URL.
	ErrMissingURL = errors.New("url is required for goto steps")

	// ErrMissingSelector is returned when an interactive step has no selector.
	ErrMissingSelector = errors.New("selector is required")
)

// Action represents the kind of browser interaction a step performs.
// The set is closed: scenarios coming back from the LLM may carry anything,
// but only these four actions are executable.
type Action string

const (
	ActionGoto   Action = "goto"
	ActionFill   Action = "fill"
	ActionClick  Action = "click"
	ActionExpect Action = "expect"
)

// IsValid checks if the action is one of the known kinds.
func (a Action) IsValid() bool {
	switch a {
	case ActionGoto, ActionFill, ActionClick, ActionExpect:
		return true
	default:
		return false
	}
}

// ConditionToBeVisible is the only assertion condition supported by expect steps.
const ConditionToBeVisible = "toBeVisible"

// Step is a single browser action inside a scenario. Which fields are
// meaningful depends on Action; Validate enforces the per-action shape.
type Step struct {
	Action    Action `json:"action"`
	URL       string `json:"url,omitempty"`
	Selector  string `json:"selector,omitempty"`
	Value     string `json:"value,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Validate checks that the step carries the fields its action requires.
func (s *Step) Validate() error {
	if !s.Action.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, s.Action)
	}
	switch s.Action {
	case ActionGoto:
		if s.URL == "" {
			return ErrMissingURL
		}
	case ActionFill, ActionClick, ActionExpect:
		if s.Selector == "" {
			return fmt.Errorf("%w for %s steps", ErrMissingSelector, s.Action)
		}
	}
	return nil
}

// Describe returns a short human-readable label for the step, used in
// step outcomes and transcripts.
func (s Step) Describe() string {
	switch s.Action {
	case ActionGoto:
		return fmt.Sprintf("Navigate to %s", s.URL)
	case ActionFill:
		return fmt.Sprintf("Fill %s", s.Selector)
	case ActionClick:
		return fmt.Sprintf("Click %s", s.Selector)
	case ActionExpect:
		return fmt.Sprintf("Expect %s %s", s.Selector, s.Condition)
	default:
		return string(s.Action)
	}
}

// Scenario is an ordered, named sequence of browser actions representing
// one test case. It is produced by a scenario generator and consumed by
// the validation and execution engine.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Validate checks the scenario's own shape. Step-level problems are not
// pre-validated here; the engine fails the specific step instead.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return ErrInvalidScenarioName
	}
	return nil
}

// Clone returns a deep copy of the scenario. Selector repair during
// validation mutates copies, never the caller's scenario.
func (sc Scenario) Clone() Scenario {
	out := sc
	out.Steps = make([]Step, len(sc.Steps))
	copy(out.Steps, sc.Steps)
	return out
}

// CloneAll deep-copies a scenario list.
func CloneAll(scenarios []Scenario) []Scenario {
	out := make([]Scenario, len(scenarios))
	for i, sc := range scenarios {
		out[i] = sc.Clone()
	}
	return out
}
