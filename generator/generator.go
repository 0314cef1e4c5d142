// Package generator produces browser test scenarios from natural-language
// objectives via an LLM backend. The engine treats whatever comes back as
// untrusted input: this package only guarantees the wire shape, never the
// semantic quality of the scenarios.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/scenario"
)

var (
	// ErrMissingObjective is returned when a request has no objective.
	ErrMissingObjective = errors.New("objective is required")

	// ErrObjectiveTooLong is returned when the objective exceeds the limit.
	ErrObjectiveTooLong = errors.New("objective exceeds maximum length")

	// ErrNoJSONFound is returned when the model response contains no JSON.
	ErrNoJSONFound = errors.New("no JSON found in model response")

	// ErrInvalidScenarioStructure is returned when the response JSON does
	// not carry a scenarios list.
	ErrInvalidScenarioStructure = errors.New("invalid scenario structure in model response")

	// ErrUnsupportedBackend is returned for unknown backend names.
	ErrUnsupportedBackend = errors.New("unsupported generator backend")
)

// Backend names accepted by the factory.
const (
	BackendGemini  = "gemini"
	BackendBedrock = "bedrock"
	BackendOpenAI  = "openai"
)

// Request asks for scenarios covering one test objective. Credentials are
// passed through into the prompt only; they are never stored.
type Request struct {
	Objective   string
	TargetURL   string
	Credentials map[string]string
}

// Validate checks the request shape.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Objective) == "" {
		return ErrMissingObjective
	}
	return nil
}

// Metadata describes how a generation result was produced.
type Metadata struct {
	Objective      string    `json:"objective"`
	TargetURL      string    `json:"targetUrl"`
	GeneratedAt    time.Time `json:"generatedAt"`
	HasCredentials bool      `json:"hasCredentials"`
	Source         string    `json:"source"`
	RawResponse    string    `json:"rawResponse,omitempty"`
}

// Result is a successful generation: one or more scenarios plus metadata.
type Result struct {
	Scenarios []scenario.Scenario `json:"scenarios"`
	Metadata  Metadata            `json:"metadata"`
}

// ScenarioGenerator is the scenario-provider boundary the orchestrator
// depends on.
type ScenarioGenerator interface {
	// Generate produces scenarios for the request's objective.
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend   string
	APIKey    string
	Model     string
	MaxTokens int
	Region    string
	BaseURL   string
	Timeout   time.Duration
}

// New creates the configured scenario generator backend.
func New(cfg Config, log logger.Logger) (ScenarioGenerator, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendGemini:
		return NewGeminiGenerator(cfg, log), nil
	case BackendBedrock:
		return NewBedrockGenerator(cfg, log)
	case BackendOpenAI:
		return NewOpenAIGenerator(cfg, log), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
}
