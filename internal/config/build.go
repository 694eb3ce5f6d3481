// File: internal/config/build.go
package config

import (
	"io"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pinlogin/pkg/browser"
	"github.com/xkilldash9x/pinlogin/pkg/credentials"
	"github.com/xkilldash9x/pinlogin/pkg/login"
)

// BrowserOptions builds the immutable browser options. It fails with a
// *browser.ConfigError when an explicit executable path does not resolve.
func BrowserOptions(c Interface) (*browser.Options, error) {
	b := c.Browser()
	opts := []browser.Option{
		browser.WithHeadless(b.Headless),
		browser.WithArgs(b.Args...),
	}
	if b.RequestTimeout > 0 {
		opts = append(opts, browser.WithRequestTimeout(b.RequestTimeout))
	}
	if b.LaunchTimeout > 0 {
		opts = append(opts, browser.WithLaunchTimeout(b.LaunchTimeout))
	}
	if b.ExecutablePath != "" {
		opts = append(opts, browser.WithExecutablePath(b.ExecutablePath))
	}
	return browser.NewOptions(opts...)
}

// LoginOptions maps the login section onto login.Option values.
func LoginOptions(c Interface, logger *zap.Logger) []login.Option {
	l := c.Login()
	return []login.Option{
		login.WithLogger(logger),
		login.WithLoginURL(l.URL),
		login.WithCookieDomain(l.CookieDomain),
		login.WithPollInterval(l.PollInterval),
		login.WithSelectors(l.Selectors),
		login.WithMarkers(l.Markers),
	}
}

// CredentialProvider chains the configured credential sources: a fixed
// identifier, environment variables, the OS keyring and finally a prompt on
// in/out.
func CredentialProvider(c Interface, in io.Reader, out io.Writer) credentials.Provider {
	cc := c.Credentials()

	var chain []credentials.Provider
	if cc.Identifier != "" {
		chain = append(chain, credentials.Static(cc.Identifier, ""))
	}
	chain = append(chain, credentials.Env(cc.IdentifierEnv, cc.SecretEnv))
	if cc.KeyringService != "" {
		chain = append(chain, credentials.NewKeyring(cc.KeyringService, ""))
	}
	if cc.Interactive {
		chain = append(chain, credentials.NewInteractive(in, out))
	}
	return credentials.Fallback(chain...)
}
