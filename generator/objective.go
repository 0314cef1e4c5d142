package generator

import (
	"regexp"
	"strings"

	"github.com/taaslabs/taas-backend/scenario"
)

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// Well-known site names that show up in objectives without a full URL.
var knownSites = map[string]string{
	"amazon":        "https://www.amazon.com",
	"google":        "https://www.google.com",
	"facebook":      "https://www.facebook.com",
	"twitter":       "https://www.twitter.com",
	"linkedin":      "https://www.linkedin.com",
	"github":        "https://www.github.com",
	"stackoverflow": "https://stackoverflow.com",
	"youtube":       "https://www.youtube.com",
	"netflix":       "https://www.netflix.com",
	"spotify":       "https://www.spotify.com",
}

// ExtractURLFromObjective pulls a target URL out of a free-text objective.
// An explicit http(s) URL wins; otherwise a known site name is mapped to its
// canonical URL. Falls back to https://example.com so downstream code always
// has something navigable.
func ExtractURLFromObjective(objective string) string {
	if match := urlPattern.FindString(objective); match != "" {
		return strings.TrimRight(match, ".,;)")
	}
	lowered := strings.ToLower(objective)
	for name, url := range knownSites {
		if strings.Contains(lowered, name) {
			return url
		}
	}
	return "https://example.com"
}

// firstGotoURL picks the target URL recorded in result metadata: an explicit
// request URL wins, then the first goto step, then objective extraction.
func firstGotoURL(scenarios []scenario.Scenario, req Request) string {
	if req.TargetURL != "" {
		return req.TargetURL
	}
	for _, sc := range scenarios {
		for _, step := range sc.Steps {
			if step.Action == scenario.ActionGoto && step.URL != "" {
				return step.URL
			}
		}
	}
	return ExtractURLFromObjective(req.Objective)
}
