// pkg/credentials/credentials.go
package credentials

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"
)

var (
	// ErrNotFound means a provider could not supply one or both fields.
	// Fallback moves on to the next provider when it sees it.
	ErrNotFound = errors.New("credentials not found")

	ErrMissingIdentifier = errors.New("identifier is empty")
	ErrMissingSecret     = errors.New("secret is empty")
)

// Credentials is the identifier and secret for one login attempt. Its String
// and log representations never include the secret.
type Credentials struct {
	Identifier string
	Secret     string
}

// Validate reports the first missing field.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Identifier) == "" {
		return ErrMissingIdentifier
	}
	if c.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

// Complete reports whether both fields are present.
func (c Credentials) Complete() bool { return c.Validate() == nil }

// merge fills the empty fields of c from other.
func (c Credentials) merge(other Credentials) Credentials {
	if c.Identifier == "" {
		c.Identifier = other.Identifier
	}
	if c.Secret == "" {
		c.Secret = other.Secret
	}
	return c
}

func (c Credentials) String() string {
	return "Credentials{identifier=" + MaskIdentifier(c.Identifier) + ", secret=" + maskSecret(c.Secret) + "}"
}

// MarshalLogObject lets zap.Object log credentials safely.
func (c Credentials) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("identifier", MaskIdentifier(c.Identifier))
	enc.AddBool("has_secret", c.Secret != "")
	return nil
}

// MaskIdentifier keeps the first character and, for email addresses, the domain.
func MaskIdentifier(id string) string {
	if id == "" {
		return ""
	}
	local, domain, isEmail := strings.Cut(id, "@")
	masked := "***"
	if r, size := utf8.DecodeRuneInString(local); size > 0 {
		masked = string(r) + masked
	}
	if isEmail {
		return masked + "@" + domain
	}
	return masked
}

func maskSecret(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "<redacted>"
}

// Provider supplies credentials for one login attempt. Implementations may
// block on human input and should honor ctx.
type Provider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Credentials, error)

func (f ProviderFunc) Credentials(ctx context.Context) (Credentials, error) { return f(ctx) }

// Completer is implemented by providers that can fill in what other
// providers left out, e.g. a secret lookup keyed by an identifier found earlier.
type Completer interface {
	Complete(ctx context.Context, partial Credentials) (Credentials, error)
}
