package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taaslabs/taas-backend/scenario"
)

// FileTimestamp formats a time for use in file and directory names.
// Millisecond granularity keeps concurrent report directories from
// colliding while staying sortable. The layout must keep the dot: Go only
// renders fractional seconds after a "." or ",", so it is replaced
// afterwards.
func FileTimestamp(t time.Time) string {
	return strings.ReplaceAll(t.Format("2006-01-02T15-04-05.000"), ".", "-")
}

// TranscriptLine renders the literal browser call a step performs, one
// line per step in the human-readable transcript.
func TranscriptLine(step scenario.Step) string {
	switch step.Action {
	case scenario.ActionGoto:
		return fmt.Sprintf("page.Navigate(%q)", step.URL)
	case scenario.ActionFill:
		return fmt.Sprintf("page.Fill(%q, %q)", step.Selector, step.Value)
	case scenario.ActionClick:
		return fmt.Sprintf("page.Click(%q)", step.Selector)
	case scenario.ActionExpect:
		return fmt.Sprintf("page.WaitVisible(%q)", step.Selector)
	default:
		return fmt.Sprintf("// unsupported action: %s", step.Action)
	}
}

// BuildFormattedResult assembles the plain-text transcript report written
// alongside the structured JSON one.
func BuildFormattedResult(result bool, transcript string, state PageState, artifacts map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### Result\n%t\n\n", result)
	fmt.Fprintf(&b, "### Ran browser code\n%s\n\n", strings.TrimSpace(transcript))

	b.WriteString("### Page state\n")
	fmt.Fprintf(&b, "URL: %s\n", valueOrNA(state.URL))
	fmt.Fprintf(&b, "Title: %s\n", valueOrNA(state.Title))
	fmt.Fprintf(&b, "Snapshot: %s\n\n", valueOrNA(state.Snapshot))

	b.WriteString("### Artifacts\n")
	keys := make([]string, 0, len(artifacts))
	for key := range artifacts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s\n", key, artifacts[key])
	}

	return b.String()
}

// FormatFailure is the minimal formatted string returned when a pass
// fails before producing artifacts.
func FormatFailure(err error) string {
	return fmt.Sprintf("### Result\nfalse\n\n### Error\n%s", err.Error())
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
