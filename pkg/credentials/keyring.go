// pkg/credentials/keyring.go
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

var (
	keyringGet = keyring.Get
	keyringSet = keyring.Set
)

// Keyring looks the secret up in the OS keychain under service, keyed by the identifier.
type Keyring struct {
	Service string
	// Identifier may be empty when Keyring completes a partial result.
	Identifier string
}

// NewKeyring returns a keychain provider for service.
func NewKeyring(service, identifier string) *Keyring {
	return &Keyring{Service: service, Identifier: identifier}
}

func (k *Keyring) Credentials(ctx context.Context) (Credentials, error) {
	return k.Complete(ctx, Credentials{})
}

// Complete fills the secret for partial's identifier, or k.Identifier if partial has none.
func (k *Keyring) Complete(_ context.Context, partial Credentials) (Credentials, error) {
	c := partial.merge(Credentials{Identifier: k.Identifier})
	if c.Secret != "" {
		return c, nil
	}
	if c.Identifier == "" {
		return c, fmt.Errorf("%w: keyring lookup needs an identifier", ErrNotFound)
	}

	secret, err := keyringGet(k.Service, c.Identifier)
	if errors.Is(err, keyring.ErrNotFound) {
		return c, fmt.Errorf("%w: no keyring entry for %s in %q", ErrNotFound, MaskIdentifier(c.Identifier), k.Service)
	}
	if err != nil {
		return c, fmt.Errorf("read keyring: %w", err)
	}
	c.Secret = secret
	return c, nil
}

// Store saves c.Secret under c.Identifier so later logins can use Keyring.
func (k *Keyring) Store(c Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := keyringSet(k.Service, c.Identifier, c.Secret); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}
