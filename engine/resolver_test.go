package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taaslabs/taas-backend/browser"
	"github.com/taaslabs/taas-backend/logger"
)

func newTestResolver() *SelectorResolver {
	return NewSelectorResolver(logger.NewTestLogger())
}

func TestResolveVisibleSelectorIsIdempotent(t *testing.T) {
	session := browser.NewFakeSession()
	session.Elements["#login"] = browser.ElementVisibleState

	resolution := newTestResolver().Resolve(context.Background(), session, "#login")

	assert.True(t, resolution.Found)
	assert.Equal(t, "#login", resolution.Selector)
	assert.Equal(t, []string{"#login"}, session.Queries,
		"an already-visible selector must not trigger alternative probing")
}

func TestResolveFallsBackToDataTestID(t *testing.T) {
	session := browser.NewFakeSession()
	session.Elements[`[data-testid="submit"]`] = browser.ElementVisibleState

	resolution := newTestResolver().Resolve(context.Background(), session, "submit")

	assert.True(t, resolution.Found)
	assert.Equal(t, `[data-testid="submit"]`, resolution.Selector)
}

func TestResolveProbesAlternativesInOrder(t *testing.T) {
	session := browser.NewFakeSession()
	// data-testid is absent; aria-label matches.
	session.Elements[`[aria-label*="search"]`] = browser.ElementVisibleState
	session.Elements[`[placeholder*="search"]`] = browser.ElementVisibleState

	resolution := newTestResolver().Resolve(context.Background(), session, "search")

	assert.True(t, resolution.Found)
	assert.Equal(t, `[aria-label*="search"]`, resolution.Selector,
		"aria-label comes before placeholder in the probe order")
	assert.Equal(t, []string{
		"search",
		`[data-testid="search"]`,
		`[aria-label*="search"]`,
	}, session.Queries)
}

func TestResolveNormalizesSelectorToken(t *testing.T) {
	session := browser.NewFakeSession()
	session.Elements[`[placeholder*="inputnameemail"]`] = browser.ElementVisibleState

	resolution := newTestResolver().Resolve(context.Background(), session, "input[name='email']")

	assert.True(t, resolution.Found)
	assert.Equal(t, `[placeholder*="inputnameemail"]`, resolution.Selector)
}

func TestResolveNotFoundWhenAllAlternativesFail(t *testing.T) {
	session := browser.NewFakeSession()

	resolution := newTestResolver().Resolve(context.Background(), session, "#missing")

	assert.False(t, resolution.Found)
	assert.Equal(t, "#missing", resolution.Selector,
		"the original selector is reported back on failure")
	assert.Len(t, session.Queries, 4, "original plus all three alternatives probed")
}

func TestResolveHiddenOriginalWithHiddenAlternatives(t *testing.T) {
	session := browser.NewFakeSession()
	session.Elements["#cta"] = browser.ElementHidden
	session.Elements[`[data-testid="#cta"]`] = browser.ElementHidden

	resolution := newTestResolver().Resolve(context.Background(), session, "#cta")

	assert.False(t, resolution.Found, "hidden matches never count as found")
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		selector string
		want     string
	}{
		{"input[name='email']", "inputnameemail"},
		{`button[type="submit"]`, "buttontypesubmit"},
		{"#plain", "#plain"},
		{"[data-testid=login]", "data-testidlogin"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizeToken(tc.selector))
	}
}
