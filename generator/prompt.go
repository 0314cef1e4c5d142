package generator

import (
	"fmt"
	"sort"
	"strings"
)

// BuildPrompt constructs the generation prompt for a request. All user
// supplied content is sanitized before it is embedded so an objective cannot
// break out of its section of the prompt.
func BuildPrompt(req Request) (string, error) {
	objective, err := SanitizeObjective(req.Objective)
	if err != nil {
		return "", err
	}

	targetURL := req.TargetURL
	if targetURL == "" {
		targetURL = ExtractURLFromObjective(objective)
	}

	// XML-style tags draw a clear boundary between instructions and user data.
	var b strings.Builder
	b.WriteString(`Generate ONE browser test scenario as JSON for the following objective.

<objective>
`)
	b.WriteString(objective)
	b.WriteString(`
</objective>

<target_url>
`)
	b.WriteString(targetURL)
	b.WriteString(`
</target_url>
`)

	if len(req.Credentials) > 0 {
		b.WriteString("\n<credentials>\n")
		keys := make([]string, 0, len(req.Credentials))
		for k := range req.Credentials {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", sanitizeCredential(k), sanitizeCredential(req.Credentials[k]))
		}
		b.WriteString("</credentials>\n")
	}

	b.WriteString(`
<requirements>
Respond with a single JSON object and nothing else. No markdown fences, no
explanatory text. The object must have this exact shape:

{
  "scenarios": [
    {
      "name": "short scenario name",
      "description": "what the scenario verifies",
      "steps": [
        {"action": "goto", "url": "https://example.com"},
        {"action": "fill", "selector": "#search", "value": "query text"},
        {"action": "click", "selector": "button[type=submit]"},
        {"action": "expect", "selector": ".results", "condition": "toBeVisible"}
      ]
    }
  ]
}

Rules:
- The only valid actions are goto, fill, click and expect.
- goto requires "url". fill requires "selector" and "value". click requires
  "selector". expect requires "selector" and uses condition "toBeVisible".
- The first step must be a goto to the target URL.
- Prefer stable selectors: data-testid attributes, aria-label, placeholder
  or id. Avoid brittle positional selectors.
- Keep the scenario focused on the objective, typically 3 to 8 steps.
</requirements>`)

	return b.String(), nil
}
