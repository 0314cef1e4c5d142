package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taaslabs/taas-backend/scenario"
)

// ParseScenarios extracts scenarios from a raw model response. Models often
// wrap their JSON in markdown fences or surround it with prose despite
// prompt instructions, so both are tolerated here.
func ParseScenarios(raw string) ([]scenario.Scenario, error) {
	text := stripCodeFences(raw)

	// Take the outermost JSON object in the remaining text.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSONFound
	}
	text = text[start : end+1]

	var payload struct {
		Scenarios []scenario.Scenario `json:"scenarios"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	if len(payload.Scenarios) == 0 {
		return nil, ErrInvalidScenarioStructure
	}

	for i := range payload.Scenarios {
		if err := payload.Scenarios[i].Validate(); err != nil {
			return nil, fmt.Errorf("scenario %d invalid: %w", i, err)
		}
	}
	return payload.Scenarios, nil
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	// Drop the opening fence line (e.g. "```json\n" or "```\n").
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
