package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/taaslabs/taas-backend/logger"
)

// networkIdleWindow is how long the network must stay quiet after load
// before a navigation is considered settled.
const networkIdleWindow = 500 * time.Millisecond

// Config holds browser launch options.
type Config struct {
	// Headless runs the browser without a visible window.
	Headless bool

	// Stealth applies bot-detection evasion to new pages.
	Stealth bool
}

// RodLauncher launches isolated Chromium sessions via go-rod.
type RodLauncher struct {
	cfg    Config
	logger logger.Logger
}

// NewRodLauncher creates a launcher with the given options.
func NewRodLauncher(cfg Config, log logger.Logger) *RodLauncher {
	return &RodLauncher{
		cfg:    cfg,
		logger: log,
	}
}

// Launch starts a fresh browser with an incognito context and one page.
func (l *RodLauncher) Launch(ctx context.Context) (Session, error) {
	launch := launcher.New().
		Leakless(true).
		Headless(l.cfg.Headless)

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		launch.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	// Incognito keeps cookies and storage out of other sessions.
	incognito, err := b.Incognito()
	if err != nil {
		b.Close()
		launch.Cleanup()
		return nil, fmt.Errorf("failed to create incognito context: %w", err)
	}

	var page *rod.Page
	if l.cfg.Stealth {
		page, err = stealth.Page(incognito)
	} else {
		page, err = incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		b.Close()
		launch.Cleanup()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	scale := 1.0
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
		Scale:  &scale,
		Mobile: false,
	}); err != nil {
		l.logger.Warn(ctx, "failed to set viewport", map[string]interface{}{
			"error": err.Error(),
		})
	}

	l.logger.Info(ctx, "browser session launched", map[string]interface{}{
		"headless": l.cfg.Headless,
		"stealth":  l.cfg.Stealth,
	})

	return &rodSession{
		launcher: launch,
		browser:  b,
		page:     page,
		logger:   l.logger,
	}, nil
}

// rodSession drives one rod page and owns the browser process behind it.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	tracing  bool
	logger   logger.Logger
}

// Navigate loads the URL and waits for load plus a quiet network window.
func (s *rodSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)

	wait := page.WaitRequestIdle(networkIdleWindow, nil, nil, nil)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load for %s failed: %w", url, err)
	}
	wait()

	return nil
}

// ElementVisible checks the first match for the selector without waiting
// for it to appear.
func (s *rodSession) ElementVisible(ctx context.Context, selector string) (bool, error) {
	page := s.page.Context(ctx)

	has, el, err := page.Has(selector)
	if err != nil {
		return false, fmt.Errorf("selector query %q failed: %w", selector, err)
	}
	if !has {
		return false, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}

	visible, err := el.Visible()
	if err != nil {
		return false, fmt.Errorf("visibility check for %q failed: %w", selector, err)
	}
	return visible, nil
}

// Click clicks the first element matching the selector.
func (s *rodSession) Click(ctx context.Context, selector string) error {
	el, err := s.page.Context(ctx).Timeout(10 * time.Second).Element(selector)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click on %q failed: %w", selector, err)
	}
	return nil
}

// Fill replaces the element's current content with the given value.
func (s *rodSession) Fill(ctx context.Context, selector, value string) error {
	el, err := s.page.Context(ctx).Timeout(10 * time.Second).Element(selector)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	if err := el.SelectAllText(); err != nil {
		s.logger.Debug(ctx, "could not select existing text", map[string]interface{}{
			"selector": selector,
			"error":    err.Error(),
		})
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill on %q failed: %w", selector, err)
	}
	return nil
}

// WaitVisible waits for the first match of the selector to become visible.
func (s *rodSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)

	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %q did not become visible: %w", selector, err)
	}
	return nil
}

// Screenshot captures the viewport as PNG to the given path.
func (s *rodSession) Screenshot(ctx context.Context, path string) error {
	data, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}

// StartTrace begins a CDP trace on the page's session.
func (s *rodSession) StartTrace(ctx context.Context) error {
	err := proto.TracingStart{
		TransferMode: proto.TracingStartTransferModeReturnAsStream,
		TraceConfig: &proto.TracingTraceConfig{
			IncludedCategories: []string{
				"devtools.timeline",
				"disabled-by-default-devtools.timeline",
				"blink.user_timing",
			},
		},
	}.Call(s.page.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	s.tracing = true
	return nil
}

// StopTrace ends the trace and streams the recorded data to the path.
func (s *rodSession) StopTrace(ctx context.Context, path string) error {
	if !s.tracing {
		return ErrNoTrace
	}
	s.tracing = false

	page := s.page.Context(ctx).Timeout(30 * time.Second)

	var complete proto.TracingTracingComplete
	wait := page.WaitEvent(&complete)
	if err := (proto.TracingEnd{}).Call(page); err != nil {
		return fmt.Errorf("failed to end trace: %w", err)
	}
	wait()

	if complete.Stream == "" {
		return fmt.Errorf("trace completed without a data stream")
	}
	return s.drainTraceStream(page, complete.Stream, path)
}

// drainTraceStream copies a CDP IO stream into a local file.
func (s *rodSession) drainTraceStream(page *rod.Page, handle proto.IOStreamHandle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer f.Close()
	defer func() {
		_ = proto.IOClose{Handle: handle}.Call(page)
	}()

	for {
		chunk, err := proto.IORead{Handle: handle}.Call(page)
		if err != nil {
			return fmt.Errorf("failed to read trace stream: %w", err)
		}

		data := []byte(chunk.Data)
		if chunk.Base64Encoded {
			data, err = base64.StdEncoding.DecodeString(chunk.Data)
			if err != nil {
				return fmt.Errorf("failed to decode trace chunk: %w", err)
			}
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("failed to write trace file: %w", err)
		}
		if chunk.EOF {
			return nil
		}
	}
}

// URL returns the current page URL.
func (s *rodSession) URL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.URL, nil
}

// Title returns the current page title.
func (s *rodSession) Title(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.Title, nil
}

// Close tears down the browser process and its temp data.
func (s *rodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
