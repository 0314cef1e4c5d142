package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/scenario"
)

const validScenarioJSON = `{
  "scenarios": [
    {
      "name": "Search flow",
      "description": "Searches the catalogue",
      "steps": [
        {"action": "goto", "url": "https://example.com"},
        {"action": "fill", "selector": "#q", "value": "books"},
        {"action": "click", "selector": "button[type=submit]"},
        {"action": "expect", "selector": ".results", "condition": "toBeVisible"}
      ]
    }
  ]
}`

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
		check   func(t *testing.T, scenarios []scenario.Scenario)
	}{
		{
			name: "bare JSON object",
			raw:  validScenarioJSON,
			check: func(t *testing.T, scenarios []scenario.Scenario) {
				require.Len(t, scenarios, 1)
				assert.Equal(t, "Search flow", scenarios[0].Name)
				require.Len(t, scenarios[0].Steps, 4)
				assert.Equal(t, scenario.ActionGoto, scenarios[0].Steps[0].Action)
			},
		},
		{
			name: "json fenced response",
			raw:  "```json\n" + validScenarioJSON + "\n```",
			check: func(t *testing.T, scenarios []scenario.Scenario) {
				require.Len(t, scenarios, 1)
			},
		},
		{
			name: "plain fenced response",
			raw:  "```\n" + validScenarioJSON + "\n```",
			check: func(t *testing.T, scenarios []scenario.Scenario) {
				require.Len(t, scenarios, 1)
			},
		},
		{
			name: "prose around the JSON",
			raw:  "Here is the scenario you asked for:\n" + validScenarioJSON + "\nLet me know if you need changes.",
			check: func(t *testing.T, scenarios []scenario.Scenario) {
				require.Len(t, scenarios, 1)
			},
		},
		{
			name:    "no JSON at all",
			raw:     "I cannot generate a scenario for that objective.",
			wantErr: ErrNoJSONFound,
		},
		{
			name:    "object without scenarios key",
			raw:     `{"steps": []}`,
			wantErr: ErrInvalidScenarioStructure,
		},
		{
			name:    "empty scenarios list",
			raw:     `{"scenarios": []}`,
			wantErr: ErrInvalidScenarioStructure,
		},
		{
			name: "scenario with invalid step fails validation",
			raw:  `{"scenarios": [{"name": "Bad", "steps": [{"action": "hover", "selector": "#x"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenarios, err := ParseScenarios(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.check == nil {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, scenarios)
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
