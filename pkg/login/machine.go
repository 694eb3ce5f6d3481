// pkg/login/machine.go
package login

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pinlogin/pkg/browser"
	"github.com/xkilldash9x/pinlogin/pkg/cookies"
	"github.com/xkilldash9x/pinlogin/pkg/credentials"
)

// Machine drives one browser session through the login flow per Run call.
// A Machine holds no per-attempt state and may run concurrent attempts,
// each with its own session.
type Machine struct {
	settings
	logger *zap.Logger
}

// New validates the options and returns a Machine. Invalid options yield a *browser.ConfigError.
func New(opts ...Option) (*Machine, error) {
	s := settings{
		logger:       zap.NewNop(),
		loginURL:     DefaultLoginURL,
		markers:      DefaultMarkers(),
		selectors:    DefaultSelectors(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&s)
	}

	u, err := url.Parse(s.loginURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, &browser.ConfigError{Field: "login_url", Value: s.loginURL, Err: errors.New("must be an absolute URL")}
	}
	if err := s.markers.Validate(); err != nil {
		return nil, &browser.ConfigError{Field: "markers", Err: err}
	}
	if err := s.selectors.Validate(); err != nil {
		return nil, &browser.ConfigError{Field: "selectors", Err: err}
	}
	if s.pollInterval <= 0 {
		return nil, &browser.ConfigError{Field: "poll_interval", Value: s.pollInterval.String(), Err: browser.ErrNonPositiveDuration}
	}
	if s.cookieDomain == "" {
		if s.cookieDomain, err = cookies.DomainForURL(s.loginURL); err != nil {
			return nil, &browser.ConfigError{Field: "cookie_domain", Value: s.loginURL, Err: err}
		}
	}
	if s.launcher == nil {
		s.launcher = ChromeLauncher(s.logger)
	}

	return &Machine{settings: s, logger: s.logger.Named("login")}, nil
}

// CookieDomain is the domain filter applied to extracted cookies.
func (m *Machine) CookieDomain() string { return m.cookieDomain }

// Run makes exactly one login attempt and always returns a terminal Outcome.
// The session it opens is closed before Run returns on every path, including
// cancellation of ctx. Nothing is retried.
func (m *Machine) Run(ctx context.Context, provider credentials.Provider, opts *browser.Options) (out Outcome) {
	a := &attempt{id: uuid.NewString(), state: StateStart}
	a.log = m.logger.With(zap.String("attempt_id", a.id))
	defer func() {
		a.log.Info("Login attempt finished.",
			zap.Stringer("status", out.Status),
			zap.Stringer("state", out.State),
			zap.Int("cookies", len(out.Cookies)),
			zap.String("detail", out.Detail),
		)
	}()

	if opts == nil {
		opts, _ = browser.NewOptions()
	}
	timeout := opts.RequestTimeout()

	// 1. Obtain credentials. Nothing is launched if this fails.
	if provider == nil {
		return a.finish(StatusAutomationFailure, StateFailed, "obtain credentials: no provider", nil, nil)
	}
	creds, err := provider.Credentials(ctx)
	if err == nil {
		err = creds.Validate()
	}
	if err != nil {
		return a.finish(StatusAutomationFailure, StateFailed, fmt.Sprintf("obtain credentials: %v", err), err, nil)
	}
	a.log.Info("Starting login attempt.",
		zap.Object("credentials", creds),
		zap.String("login_url", m.loginURL),
		zap.Duration("request_timeout", timeout),
	)

	// 2. Open a dedicated session and guarantee its release.
	sess, err := m.launcher.Open(ctx, opts)
	if err != nil {
		return a.fail("launch browser", err)
	}
	defer m.closeSession(a.log, sess)

	// 3. Start -> LoadedLoginPage
	if err := sess.Navigate(ctx, m.loginURL); err != nil {
		return a.fail("load login page", err)
	}
	idField, err := sess.WaitForSelector(ctx, m.selectors.Identifier, timeout)
	if err != nil {
		return a.fail("load login page", err)
	}
	a.advance(StateLoadedLoginPage)

	// 4. LoadedLoginPage -> CredentialsSubmitted
	secretField, err := sess.WaitForSelector(ctx, m.selectors.Secret, timeout)
	if err != nil {
		return a.fail("find secret field", err)
	}
	submit, err := sess.WaitForSelector(ctx, m.selectors.Submit, timeout)
	if err != nil {
		return a.fail("find submit control", err)
	}
	if err := sess.TypeInto(ctx, idField, creds.Identifier); err != nil {
		return a.fail("type identifier", err)
	}
	if err := sess.TypeInto(ctx, secretField, creds.Secret); err != nil {
		return a.fail("type secret", err)
	}
	if err := sess.Click(ctx, submit); err != nil {
		return a.fail("submit credentials", err)
	}
	a.advance(StateCredentialsSubmitted)

	// Single-page flows may never navigate; only a dead session is fatal here.
	if err := sess.WaitForNavigation(ctx, timeout); err != nil {
		if errors.Is(err, browser.ErrSessionClosed) || ctx.Err() != nil {
			return a.fail("wait for navigation", err)
		}
		a.log.Debug("Post-submit navigation did not settle, continuing to detection.", zap.Error(err))
	}

	// 5. CredentialsSubmitted -> terminal
	verdict, err := m.race(ctx, sess, timeout, a.log)
	if err != nil {
		return a.fail("detect outcome", err)
	}
	a.log.Debug("Outcome detected.", zap.Stringer("status", verdict.status), zap.String("marker", verdict.marker))

	switch verdict.status {
	case StatusCredentialsRejected:
		return a.finish(StatusCredentialsRejected, StateCredentialsRejected, "credential error shown ("+verdict.marker+")", nil, nil)
	case StatusChallengeRequired:
		return a.finish(StatusChallengeRequired, StateChallengePending, "verification challenge shown ("+verdict.marker+")", nil, nil)
	}

	// 6. Read cookies before the deferred close.
	jar, err := cookies.Extract(ctx, sess, m.cookieDomain, a.log)
	if err != nil {
		return a.finish(StatusAutomationFailure, StateFailed, fmt.Sprintf("read cookies: %v", err), err, nil)
	}
	if len(jar) == 0 {
		a.log.Warn("Authenticated but no cookies matched the domain filter.", zap.String("cookie_domain", m.cookieDomain))
	}
	return a.finish(StatusAuthenticated, StateAuthenticated, "", nil, jar)
}

func (m *Machine) closeSession(log *zap.Logger, sess Session) {
	if err := sess.Close(); err != nil {
		log.Warn("Failed to close browser session.", zap.Error(err))
	}
}

// attempt tracks the state of one Run.
type attempt struct {
	id    string
	state State
	log   *zap.Logger
}

func (a *attempt) advance(next State) {
	a.log.Debug("State transition.", zap.Stringer("from", a.state), zap.Stringer("to", next))
	a.state = next
}

func (a *attempt) finish(status Status, terminal State, detail string, err error, jar []cookies.Cookie) Outcome {
	a.log.Debug("State transition.", zap.Stringer("from", a.state), zap.Stringer("to", terminal))
	return Outcome{
		Status:    status,
		Cookies:   jar,
		Detail:    detail,
		Err:       err,
		State:     terminal,
		LastState: a.state,
		AttemptID: a.id,
	}
}

// fail ends the attempt in StateFailed, classifying err as a timeout or an automation failure.
func (a *attempt) fail(step string, err error) Outcome {
	return a.finish(classify(err), StateFailed, fmt.Sprintf("%s: %v", step, err), err, nil)
}

func classify(err error) Status {
	switch {
	case errors.Is(err, browser.ErrLaunch):
		return StatusAutomationFailure
	case errors.Is(err, browser.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusAutomationFailure
	}
}
