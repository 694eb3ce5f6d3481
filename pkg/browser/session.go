// pkg/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Element is a handle to a node found by WaitForSelector.
type Element struct {
	Selector string
	nodeID   cdp.NodeID
}

// NodeID is zero for elements that were not resolved by a live session.
func (e Element) NodeID() cdp.NodeID { return e.nodeID }

// query returns the chromedp selector for the element, preferring the resolved node.
func (e Element) query() (interface{}, chromedp.QueryOption) {
	if e.nodeID != 0 {
		return []cdp.NodeID{e.nodeID}, chromedp.ByNodeID
	}
	return e.Selector, chromedp.ByQuery
}

// Session owns one browser process and its single page. It is single-writer:
// a Session must not be driven by two flows at once.
type Session struct {
	id     string
	logger *zap.Logger
	opts   *Options

	// ctx is the tab context; it carries the CDP target for every operation.
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	nav *navTracker

	mu       sync.Mutex
	isClosed bool
}

// Open launches a browser according to opts and attaches to its first page.
// The browser is not tied to ctx: it lives until Close, which callers must
// always invoke. ctx only bounds the launch.
func Open(ctx context.Context, opts *Options, logger *zap.Logger) (*Session, error) {
	if opts == nil {
		opts, _ = NewOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := newSession(opts, logger)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(Detach(ctx), allocatorOptions(opts)...)
	sugar := s.logger.Sugar()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)
	s.ctx, s.cancelTab, s.cancelAlloc = tabCtx, cancelTab, cancelAlloc

	s.logger.Debug("Launching browser.",
		zap.Bool("headless", opts.Headless()),
		zap.String("executable", opts.ExecutablePath()),
		zap.Duration("launch_timeout", opts.LaunchTimeout()),
	)

	// The first Run on the tab context starts the process, so it cannot run
	// under a derived timeout context without tying the browser to it.
	launched := make(chan error, 1)
	go func() { launched <- chromedp.Run(tabCtx) }()

	timer := time.NewTimer(opts.LaunchTimeout())
	defer timer.Stop()

	var launchErr error
	returned := false
	select {
	case err := <-launched:
		launchErr, returned = err, true
	case <-timer.C:
		launchErr = fmt.Errorf("%w after %s", ErrTimeout, opts.LaunchTimeout())
	case <-ctx.Done():
		launchErr = ctx.Err()
	}

	if launchErr != nil {
		// The launch Run still owns the tab until it returns; cancel it and
		// wait before tearing down the allocator.
		cancelTab()
		if !returned {
			<-launched
		}
		cancelAlloc()
		s.isClosed = true
		return nil, &OpError{Op: "launch", Kind: ErrLaunch, Err: launchErr}
	}

	chromedp.ListenTarget(tabCtx, s.nav.handle)
	s.logger.Info("Browser launched.")
	return s, nil
}

func newSession(opts *Options, logger *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		logger: logger.Named("browser_session").With(zap.String("session_id", id)),
		opts:   opts,
		nav:    newNavTracker(),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Navigate loads url and waits for the page load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))
	s.nav.arm()
	return s.run(ctx, 0, "navigate", "", ErrNavigation, chromedp.Navigate(url))
}

// WaitForSelector waits until selector matches a node. A zero timeout uses
// the configured request timeout.
func (s *Session) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, timeout, "wait_for_selector", selector, ErrInteraction,
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery),
	); err != nil {
		return Element{}, err
	}
	if len(nodes) == 0 {
		return Element{}, &OpError{Op: "wait_for_selector", Selector: selector, Kind: ErrInteraction, Err: errors.New("no matching node")}
	}
	return Element{Selector: selector, nodeID: nodes[0].NodeID}, nil
}

// TypeInto focuses el and types text into it. text is never logged.
func (s *Session) TypeInto(ctx context.Context, el Element, text string) error {
	sel, by := el.query()
	return s.run(ctx, 0, "type_into", el.Selector, ErrInteraction, chromedp.SendKeys(sel, text, by))
}

// Click clicks el once it is visible. A navigation it triggers can be
// awaited with WaitForNavigation.
func (s *Session) Click(ctx context.Context, el Element) error {
	sel, by := el.query()
	s.nav.arm()
	return s.run(ctx, 0, "click", el.Selector, ErrInteraction, chromedp.Click(sel, by))
}

// WaitForNavigation waits until the main frame has navigated since the last
// Click or Navigate and the new document has loaded. A zero timeout uses the
// configured request timeout.
func (s *Session) WaitForNavigation(ctx context.Context, timeout time.Duration) error {
	return s.run(ctx, timeout, "wait_for_navigation", "", ErrNavigation, chromedp.ActionFunc(s.nav.wait))
}

// Exists probes once, without waiting, whether selector matches a node.
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	quoted, err := json.MarshalToString(selector)
	if err != nil {
		return false, &OpError{Op: "exists", Selector: selector, Kind: ErrInteraction, Err: err}
	}
	var found bool
	err = s.run(ctx, 0, "exists", selector, ErrInteraction,
		chromedp.Evaluate(fmt.Sprintf("document.querySelector(%s) !== null", quoted), &found),
	)
	return found, err
}

// Location returns the URL of the current page.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	err := s.run(ctx, 0, "location", "", ErrNavigation, chromedp.Location(&url))
	return url, err
}

// Cookies reads every cookie visible to the current page.
func (s *Session) Cookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := s.run(ctx, 0, "read_cookies", "", ErrInteraction, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(c)
		return err
	}))
	return cookies, err
}

// Close terminates the browser process and waits for it to exit. It is
// idempotent and safe to call after a failed operation.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return nil
	}
	s.isClosed = true

	s.logger.Debug("Closing browser session.")
	s.terminate()
	s.logger.Info("Browser session closed.")
	return nil
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isClosed
}

func (s *Session) terminate() {
	// 1. Ask the browser to shut down gracefully.
	if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug("Graceful browser shutdown failed.", zap.Error(err))
	}
	s.cancelTab()
	// 2. Cancelling the allocator kills anything left and waits for the process to exit.
	s.cancelAlloc()
}

// run executes actions bounded by timeout (or the request timeout) and by ctx.
func (s *Session) run(ctx context.Context, timeout time.Duration, op, selector string, kind error, actions ...chromedp.Action) error {
	if s.Closed() {
		return &OpError{Op: op, Selector: selector, Kind: ErrSessionClosed}
	}
	if timeout <= 0 {
		timeout = s.opts.RequestTimeout()
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	runCtx, cancelRun := CombineContext(s.ctx, opCtx)
	defer cancelRun()

	err := chromedp.Run(runCtx, actions...)
	if err == nil {
		return nil
	}

	switch {
	case s.ctx.Err() != nil:
		// The tab or the browser went away underneath us.
		kind = ErrSessionClosed
	case errors.Is(opCtx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		kind = ErrTimeout
		err = fmt.Errorf("no result within %s: %w", timeout, context.DeadlineExceeded)
	case opCtx.Err() != nil:
		err = opCtx.Err()
	}
	return &OpError{Op: op, Selector: selector, Kind: kind, Err: err}
}
