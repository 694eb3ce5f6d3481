// pkg/login/markers.go
package login

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLoginURL is the Pinterest sign-in page.
const DefaultLoginURL = "https://pinterest.com/login"

// Marker identifies a page state by CSS selector presence or by a substring
// of the current URL. Either kind matching is enough.
type Marker struct {
	Selectors   []string `mapstructure:"selectors" yaml:"selectors"`
	URLContains []string `mapstructure:"url_contains" yaml:"url_contains"`
}

// IsZero reports whether the marker can never match.
func (m Marker) IsZero() bool { return len(m.Selectors) == 0 && len(m.URLContains) == 0 }

func (m Marker) validate() error {
	if m.IsZero() {
		return errors.New("needs at least one selector or url pattern")
	}
	for _, s := range m.Selectors {
		if strings.TrimSpace(s) == "" {
			return errors.New("empty selector")
		}
	}
	for _, s := range m.URLContains {
		if strings.TrimSpace(s) == "" {
			return errors.New("empty url pattern")
		}
	}
	return nil
}

// Markers are the post-submit page signals raced against each other. They
// depend on the target service's markup and are expected to change with it.
type Markers struct {
	Authenticated Marker `mapstructure:"authenticated" yaml:"authenticated"`
	Rejected      Marker `mapstructure:"rejected" yaml:"rejected"`
	Challenge     Marker `mapstructure:"challenge" yaml:"challenge"`
}

// DefaultMarkers returns the Pinterest markers.
func DefaultMarkers() Markers {
	return Markers{
		Authenticated: Marker{
			Selectors: []string{
				`[data-test-id="homefeed-feed"]`,
				`[data-test-id="header-profile"]`,
				`[data-test-id="header-avatar"]`,
			},
		},
		Rejected: Marker{
			Selectors: []string{
				`#email-error`,
				`#password-error`,
				`[data-test-id="login-error"]`,
			},
		},
		Challenge: Marker{
			Selectors: []string{
				`input[autocomplete="one-time-code"]`,
				`[data-test-id="two-factor-code-input"]`,
				`[data-test-id="verification-code-input"]`,
			},
			URLContains: []string{"/checkpoint", "two_factor"},
		},
	}
}

// Validate rejects markers that could never match.
func (m Markers) Validate() error {
	for _, nm := range []struct {
		name   string
		marker Marker
	}{
		{"authenticated", m.Authenticated},
		{"rejected", m.Rejected},
		{"challenge", m.Challenge},
	} {
		if err := nm.marker.validate(); err != nil {
			return fmt.Errorf("%s marker: %w", nm.name, err)
		}
	}
	return nil
}

// Selectors locate the login form controls.
type Selectors struct {
	Identifier string `mapstructure:"identifier" yaml:"identifier"`
	Secret     string `mapstructure:"secret" yaml:"secret"`
	Submit     string `mapstructure:"submit" yaml:"submit"`
}

// DefaultSelectors returns the Pinterest login form selectors.
func DefaultSelectors() Selectors {
	return Selectors{
		Identifier: "input#email",
		Secret:     "input#password",
		Submit:     "button[type='submit']",
	}
}

// Validate requires every selector.
func (s Selectors) Validate() error {
	switch {
	case strings.TrimSpace(s.Identifier) == "":
		return errors.New("identifier selector is empty")
	case strings.TrimSpace(s.Secret) == "":
		return errors.New("secret selector is empty")
	case strings.TrimSpace(s.Submit) == "":
		return errors.New("submit selector is empty")
	}
	return nil
}
