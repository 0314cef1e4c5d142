package browser

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ElementState describes how a fake page answers selector queries.
type ElementState int

const (
	// ElementAbsent means no element matches the selector.
	ElementAbsent ElementState = iota

	// ElementHidden means an element matches but is not visible.
	ElementHidden

	// ElementVisibleState means an element matches and is visible.
	ElementVisibleState
)

// FakeSession is an in-memory Session double for engine tests. It records
// every interaction so tests can assert ordering, repair side effects and
// resource cleanup without a real browser.
type FakeSession struct {
	mu sync.Mutex

	// Elements maps selectors to their state. Selectors not present are
	// treated as absent.
	Elements map[string]ElementState

	// NavigateErrs maps URLs to injected navigation failures.
	NavigateErrs map[string]error

	// ClickErrs and FillErrs map selectors to injected action failures.
	ClickErrs map[string]error
	FillErrs  map[string]error

	// ScreenshotErr, TraceStartErr, TraceStopErr and InfoErr inject
	// failures into artifact capture and page-state reads.
	ScreenshotErr error
	TraceStartErr error
	TraceStopErr  error
	InfoErr       error

	// PageURL and PageTitle are returned by URL and Title.
	PageURL   string
	PageTitle string

	// Recorded interactions.
	Queries     []string
	Navigated   []string
	Clicked     []string
	Filled      map[string]string
	Screenshots []string
	TracePath   string
	TraceOn     bool
	CloseCount  int
}

// NewFakeSession creates an empty fake session.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		Elements:     make(map[string]ElementState),
		NavigateErrs: make(map[string]error),
		ClickErrs:    make(map[string]error),
		FillErrs:     make(map[string]error),
		Filled:       make(map[string]string),
	}
}

// Navigate records the navigation or returns the injected failure.
func (f *FakeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.NavigateErrs[url]; ok {
		return err
	}
	f.Navigated = append(f.Navigated, url)
	if f.PageURL == "" {
		f.PageURL = url
	}
	return nil
}

// ElementVisible answers from the Elements map.
func (f *FakeSession) ElementVisible(ctx context.Context, selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Queries = append(f.Queries, selector)
	switch f.Elements[selector] {
	case ElementVisibleState:
		return true, nil
	case ElementHidden:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
}

// Click records the click or returns the injected failure.
func (f *FakeSession) Click(ctx context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.ClickErrs[selector]; ok {
		return err
	}
	if f.Elements[selector] == ElementAbsent {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	f.Clicked = append(f.Clicked, selector)
	return nil
}

// Fill records the fill or returns the injected failure.
func (f *FakeSession) Fill(ctx context.Context, selector, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.FillErrs[selector]; ok {
		return err
	}
	if f.Elements[selector] == ElementAbsent {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	f.Filled[selector] = value
	return nil
}

// WaitVisible succeeds only for selectors in the visible state.
func (f *FakeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.Elements[selector] {
	case ElementVisibleState:
		return nil
	case ElementHidden:
		return fmt.Errorf("element %q did not become visible within %s", selector, timeout)
	default:
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
}

// Screenshot records the target path.
func (f *FakeSession) Screenshot(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ScreenshotErr != nil {
		return f.ScreenshotErr
	}
	f.Screenshots = append(f.Screenshots, path)
	return nil
}

// StartTrace marks tracing active.
func (f *FakeSession) StartTrace(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.TraceStartErr != nil {
		return f.TraceStartErr
	}
	f.TraceOn = true
	return nil
}

// StopTrace records the trace path.
func (f *FakeSession) StopTrace(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.TraceStopErr != nil {
		return f.TraceStopErr
	}
	if !f.TraceOn {
		return ErrNoTrace
	}
	f.TraceOn = false
	f.TracePath = path
	return nil
}

// URL returns the configured page URL.
func (f *FakeSession) URL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.InfoErr != nil {
		return "", f.InfoErr
	}
	return f.PageURL, nil
}

// Title returns the configured page title.
func (f *FakeSession) Title(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.InfoErr != nil {
		return "", f.InfoErr
	}
	return f.PageTitle, nil
}

// Close counts teardown calls so tests can assert cleanup on every exit path.
func (f *FakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CloseCount++
	return nil
}

// FakeLauncher hands out a fixed session, or fails launches on demand.
type FakeLauncher struct {
	Session   *FakeSession
	LaunchErr error
	Launches  int
}

// Launch returns the configured session or the injected failure.
func (l *FakeLauncher) Launch(ctx context.Context) (Session, error) {
	l.Launches++
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	if l.Session == nil {
		l.Session = NewFakeSession()
	}
	return l.Session, nil
}
