// File: internal/browser/session.go

// Package browser owns the single browser session of a validation run: one
// launched browser process, one browsing context, one tab. It exposes the
// narrow surface the validator needs (navigate, probe an element) and a
// teardown that is safe on every exit path.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ttboy0/ElectricMind/internal/config"
)

// ErrNavigation is returned when the page does not reach a loaded state
// within the configured timeout. It is fatal for the run.
var ErrNavigation = errors.New("navigation failed")

// Session represents the one active browser session of a run. Exactly one
// instance exists per run, owned by the runner, torn down unconditionally.
type Session struct {
	id     string
	cfg    *config.Config
	logger *zap.Logger

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	tabCtx        context.Context
	tabCancel     context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewSession prepares a session wrapper. Nothing is launched until Open.
func NewSession(cfg *config.Config, logger *zap.Logger) *Session {
	sessionID := uuid.New().String()
	return &Session{
		id:     sessionID,
		cfg:    cfg,
		logger: logger.Named("browser").With(zap.String("session_id", sessionID)),
	}
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Open launches the configured browser, creates a fresh context and tab with
// the configured viewport, and navigates to urlStr. The navigation waits for
// the page load event, bounded by the configured timeout.
//
// After navigation the landing URL is compared against the requested one;
// a drift (redirect off the requested scheme+host+path prefix) is logged as
// a warning only, never escalated to an error.
func (s *Session) Open(ctx context.Context, urlStr string) error {
	kind := s.cfg.BrowserKind()

	execPath, err := resolveExecPath(kind)
	if err != nil {
		return fmt.Errorf("launch %s: %w", kind, err)
	}

	s.logger.Info("Launching browser.",
		zap.String("kind", string(kind)),
		zap.Bool("headless", s.cfg.Browser.Headless),
		zap.String("exec_path", execPath),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(s.cfg, execPath)...)
	s.allocCancel = allocCancel

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(s.logger.Sugar().Errorf),
	)
	s.browserCancel = browserCancel

	s.tabCtx, s.tabCancel = chromedp.NewContext(browserCtx)

	// The first Run starts the browser process and connects CDP.
	if err := chromedp.Run(s.tabCtx,
		chromedp.EmulateViewport(
			int64(s.cfg.Browser.Viewport.Width),
			int64(s.cfg.Browser.Viewport.Height),
		),
	); err != nil {
		return fmt.Errorf("launch %s: %w", kind, err)
	}

	navCtx, cancel := context.WithTimeout(s.tabCtx, s.cfg.Network.NavigationTimeout())
	defer cancel()

	s.logger.Info("Navigating.", zap.String("url", urlStr))
	var resp *network.Response
	resp, err = chromedp.RunResponse(navCtx, chromedp.Navigate(urlStr))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, urlStr, err)
	}
	if resp != nil {
		s.logger.Debug("Navigation response received.",
			zap.Int64("status", resp.Status),
			zap.String("url", resp.URL),
		)
	}

	var landed string
	if err := chromedp.Run(navCtx, chromedp.Location(&landed)); err != nil {
		return fmt.Errorf("%w: reading landing URL: %v", ErrNavigation, err)
	}
	if urlDrifted(urlStr, landed) {
		s.logger.Warn("Landed on a different URL than requested.",
			zap.String("requested", urlStr),
			zap.String("landed", landed),
		)
	}
	return nil
}

// urlDrifted reports whether the landing URL left the requested URL's
// scheme+host+path prefix. Redirects within that prefix (trailing slash,
// query strings, fragments) are not drift.
func urlDrifted(requested, landed string) bool {
	req, err := url.Parse(requested)
	if err != nil {
		return false
	}
	lan, err := url.Parse(landed)
	if err != nil {
		return true
	}
	if !strings.EqualFold(req.Scheme, lan.Scheme) || !strings.EqualFold(req.Host, lan.Host) {
		return true
	}
	reqPath := strings.TrimSuffix(req.Path, "/")
	return !strings.HasPrefix(lan.Path, reqPath)
}

// Probe resolves the first element matching locator on the current page and
// reports whether it exists, whether it is visible, and its trimmed text
// content. Probing never navigates or mutates the page.
func (s *Session) Probe(ctx context.Context, locator string) (ElementState, error) {
	var state ElementState
	if s.tabCtx == nil {
		return state, fmt.Errorf("session is not open")
	}

	script, err := buildProbeScript(locator)
	if err != nil {
		return state, err
	}

	if err := s.runActions(ctx, chromedp.Evaluate(script, &state)); err != nil {
		return ElementState{}, fmt.Errorf("probing %q: %w", locator, err)
	}
	return state, nil
}

// runActions executes chromedp actions so they respect both the session
// lifetime (tabCtx) and the caller's context.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.tabCtx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// combineContext derives a context from primary (which carries the CDP
// target values) that is also canceled when secondary is done.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)
	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}

// Teardown releases the tab, then the browsing context, then the browser
// process, in that order, each guarded independently. It is idempotent and
// safe to call when nothing was opened.
func (s *Session) Teardown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.logger.Debug("Tearing down browser session.")

	if s.tabCtx != nil {
		// Ask the browser to close its targets gracefully before cutting
		// the contexts.
		if err := chromedp.Cancel(s.tabCtx); err != nil {
			s.logger.Debug("Graceful tab close failed.", zap.Error(err))
		}
	}
	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}
