// pkg/credentials/static.go
package credentials

import (
	"context"
	"fmt"
	"os"
)

type static struct {
	creds Credentials
}

// Static returns a provider that always yields the given pair.
func Static(identifier, secret string) Provider {
	return static{creds: Credentials{Identifier: identifier, Secret: secret}}
}

func (s static) Credentials(context.Context) (Credentials, error) {
	return s.creds, nil
}

// Default environment variables read by Env when no names are given.
const (
	DefaultIdentifierEnv = "PINTEREST_EMAIL"
	DefaultSecretEnv     = "PINTEREST_PASSWORD"
)

var lookupEnv = os.LookupEnv

type env struct {
	identifierVar string
	secretVar     string
}

// Env reads the pair from environment variables at call time. Empty names
// fall back to DefaultIdentifierEnv and DefaultSecretEnv. If only the secret
// is unset the identifier is returned with ErrNotFound. A secret without an
// identifier is dropped so the caller asks for both.
func Env(identifierVar, secretVar string) Provider {
	if identifierVar == "" {
		identifierVar = DefaultIdentifierEnv
	}
	if secretVar == "" {
		secretVar = DefaultSecretEnv
	}
	return env{identifierVar: identifierVar, secretVar: secretVar}
}

func (e env) Credentials(context.Context) (Credentials, error) {
	var c Credentials
	c.Identifier, _ = lookupEnv(e.identifierVar)
	c.Secret, _ = lookupEnv(e.secretVar)

	switch {
	case c.Identifier == "" && c.Secret == "":
		return c, fmt.Errorf("%w: %s and %s are not set", ErrNotFound, e.identifierVar, e.secretVar)
	case c.Identifier == "":
		return Credentials{}, fmt.Errorf("%w: %s is not set", ErrNotFound, e.identifierVar)
	case c.Secret == "":
		return c, fmt.Errorf("%w: %s is not set", ErrNotFound, e.secretVar)
	}
	return c, nil
}
