// pkg/login/options.go
package login

import (
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval paces each outcome detector.
const DefaultPollInterval = 250 * time.Millisecond

type settings struct {
	logger       *zap.Logger
	launcher     Launcher
	loginURL     string
	cookieDomain string
	markers      Markers
	selectors    Selectors
	pollInterval time.Duration
}

// Option configures a Machine.
type Option func(*settings)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLauncher replaces the Chrome launcher, mainly for tests.
func WithLauncher(l Launcher) Option {
	return func(s *settings) { s.launcher = l }
}

// WithLoginURL overrides DefaultLoginURL.
func WithLoginURL(u string) Option {
	return func(s *settings) { s.loginURL = u }
}

// WithCookieDomain sets the cookie domain filter. By default it is the
// registrable domain of the login URL.
func WithCookieDomain(d string) Option {
	return func(s *settings) { s.cookieDomain = d }
}

// WithMarkers overrides DefaultMarkers.
func WithMarkers(m Markers) Option {
	return func(s *settings) { s.markers = m }
}

// WithSelectors overrides DefaultSelectors.
func WithSelectors(sel Selectors) Option {
	return func(s *settings) { s.selectors = sel }
}

// WithPollInterval sets how often each detector probes the page.
func WithPollInterval(d time.Duration) Option {
	return func(s *settings) { s.pollInterval = d }
}
