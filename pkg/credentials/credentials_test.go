// pkg/credentials/credentials_test.go
package credentials

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestCredentialsNeverExposeSecret(t *testing.T) {
	c := Credentials{Identifier: "user@example.com", Secret: "correct-pw"}

	assert.NotContains(t, c.String(), "correct-pw")
	assert.NotContains(t, fmt.Sprintf("%v %+v %s", c, c, c), "correct-pw")
	assert.Equal(t, "Credentials{identifier=u***@example.com, secret=<redacted>}", c.String())

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, c.MarshalLogObject(enc))
	assert.Equal(t, map[string]interface{}{"identifier": "u***@example.com", "has_secret": true}, enc.Fields)
}

func TestMaskIdentifier(t *testing.T) {
	assert.Equal(t, "", MaskIdentifier(""))
	assert.Equal(t, "j***", MaskIdentifier("jdoe"))
	assert.Equal(t, "***@example.com", MaskIdentifier("@example.com"))
	assert.Equal(t, "é***@example.com", MaskIdentifier("élise@example.com"))
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Credentials{Secret: "x"}.Validate(), ErrMissingIdentifier)
	assert.ErrorIs(t, Credentials{Identifier: "  ", Secret: "x"}.Validate(), ErrMissingIdentifier)
	assert.ErrorIs(t, Credentials{Identifier: "a"}.Validate(), ErrMissingSecret)
	assert.NoError(t, Credentials{Identifier: "a", Secret: "x"}.Validate())
}

func TestStaticAndFunc(t *testing.T) {
	c, err := Static("user@example.com", "pw").Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credentials{Identifier: "user@example.com", Secret: "pw"}, c)

	p := ProviderFunc(func(context.Context) (Credentials, error) { return Credentials{Identifier: "x", Secret: "y"}, nil })
	c, err = p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", c.Identifier)
}

func TestEnv(t *testing.T) {
	t.Run("reads both default variables", func(t *testing.T) {
		t.Setenv(DefaultIdentifierEnv, "user@example.com")
		t.Setenv(DefaultSecretEnv, "pw")

		c, err := Env("", "").Credentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Credentials{Identifier: "user@example.com", Secret: "pw"}, c)
	})

	t.Run("missing secret returns the partial pair", func(t *testing.T) {
		t.Setenv("MY_LOGIN", "user@example.com")

		c, err := Env("MY_LOGIN", "MY_UNSET_SECRET_VAR").Credentials(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "MY_UNSET_SECRET_VAR")
		assert.Equal(t, "user@example.com", c.Identifier)
		assert.Empty(t, c.Secret)
	})

	t.Run("secret without identifier is dropped", func(t *testing.T) {
		t.Setenv("MY_SECRET", "env-secret")

		c, err := Env("MY_UNSET_LOGIN_VAR", "MY_SECRET").Credentials(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "MY_UNSET_LOGIN_VAR")
		assert.Equal(t, Credentials{}, c)
	})
}
