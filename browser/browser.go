package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrElementNotFound is returned when no element matches a selector.
	ErrElementNotFound = errors.New("element not found")

	// ErrNoTrace is returned when StopTrace is called without a running trace.
	ErrNoTrace = errors.New("no trace in progress")
)

// Page is the browser surface the engine drives. Implementations wrap one
// page inside one isolated browser session.
type Page interface {
	// Navigate loads the URL and waits for the network to go idle,
	// bounded by the given timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// ElementVisible locates the first element matching the selector and
	// reports whether it is visible. Returns ErrElementNotFound when
	// nothing matches.
	ElementVisible(ctx context.Context, selector string) (bool, error)

	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error

	// Fill replaces the content of the first element matching the
	// selector with the given value.
	Fill(ctx context.Context, selector, value string) error

	// WaitVisible waits until the first element matching the selector is
	// visible, bounded by the given timeout.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Screenshot captures the current viewport to the given file path.
	Screenshot(ctx context.Context, path string) error

	// StartTrace begins recording a browser trace for the session.
	StartTrace(ctx context.Context) error

	// StopTrace ends the recording and writes the trace to the given path.
	StopTrace(ctx context.Context, path string) error

	// URL returns the current page URL.
	URL(ctx context.Context) (string, error)

	// Title returns the current page title.
	Title(ctx context.Context) (string, error)
}

// Session is one exclusive browser session: a page plus its teardown.
// Sessions are never shared across passes or requests.
type Session interface {
	Page

	// Close releases the browser and all session resources. Safe to call
	// exactly once; every pass must call it on all exit paths.
	Close() error
}

// Launcher opens fresh isolated browser sessions. Cookies and storage are
// not shared between sessions.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}
