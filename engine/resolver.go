// Package engine contains the scenario validation-and-execution core: it
// turns LLM-generated scenarios into browser interactions with selector
// repair, step-level failure isolation and artifact capture.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/taaslabs/taas-backend/browser"
	"github.com/taaslabs/taas-backend/logger"
)

// Resolution is the outcome of resolving a selector against the live page.
type Resolution struct {
	// Selector is the selector to use: the original when it was visible,
	// or a repaired alternative.
	Selector string

	// Found reports whether any visible match exists.
	Found bool
}

// alternativeTemplates are the fallback selector shapes probed, in order,
// when the original selector has no visible match.
var alternativeTemplates = []string{
	`[data-testid="%s"]`,
	`[aria-label*="%s"]`,
	`[placeholder*="%s"]`,
}

// SelectorResolver performs heuristic selector repair during validation.
// It never returns an error: every failure degrades to "not found".
type SelectorResolver struct {
	logger logger.Logger
}

// NewSelectorResolver creates a resolver.
func NewSelectorResolver(log logger.Logger) *SelectorResolver {
	return &SelectorResolver{logger: log}
}

// Resolve checks whether the selector has a visible first match on the
// page. If not, it probes the alternative templates built from the
// selector's normalized token and returns the first visible one.
// Resolving an already-visible selector returns it unchanged without any
// probing.
func (r *SelectorResolver) Resolve(ctx context.Context, page browser.Page, selector string) Resolution {
	visible, err := page.ElementVisible(ctx, selector)
	if err == nil && visible {
		return Resolution{Selector: selector, Found: true}
	}

	token := normalizeToken(selector)
	for _, template := range alternativeTemplates {
		alternative := fmt.Sprintf(template, token)

		// Probe failures are swallowed: a miss on one alternative just
		// moves on to the next.
		visible, err := page.ElementVisible(ctx, alternative)
		if err != nil || !visible {
			continue
		}

		r.logger.Info(ctx, "found alternative selector", map[string]interface{}{
			"original":    selector,
			"alternative": alternative,
		})
		return Resolution{Selector: alternative, Found: true}
	}

	return Resolution{Selector: selector, Found: false}
}

// normalizeToken strips bracket, quote and equals characters from a
// selector so it can be embedded in the alternative templates.
func normalizeToken(selector string) string {
	return strings.NewReplacer(
		"[", "",
		"]", "",
		"'", "",
		`"`, "",
		"=", "",
	).Replace(selector)
}
