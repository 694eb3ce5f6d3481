// pkg/browser/options_test.go
package browser

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	t.Run("defaults are headless with engine timeouts", func(t *testing.T) {
		o, err := NewOptions()
		require.NoError(t, err)

		assert.True(t, o.Headless())
		assert.Equal(t, DefaultRequestTimeout, o.RequestTimeout())
		assert.Equal(t, DefaultLaunchTimeout, o.LaunchTimeout())
		assert.Empty(t, o.ExecutablePath())
		assert.Empty(t, o.Args())
	})

	t.Run("options are applied in order", func(t *testing.T) {
		o, err := NewOptions(
			WithHeadless(false),
			WithRequestTimeout(2*time.Second),
			WithLaunchTimeout(10*time.Second),
			WithArgs("--lang=en-US"),
			WithArgs("--mute-audio"),
		)
		require.NoError(t, err)

		assert.False(t, o.Headless())
		assert.Equal(t, 2*time.Second, o.RequestTimeout())
		assert.Equal(t, 10*time.Second, o.LaunchTimeout())
		assert.Equal(t, []string{"--lang=en-US", "--mute-audio"}, o.Args())
	})

	t.Run("args accessor returns a copy", func(t *testing.T) {
		o, err := NewOptions(WithArgs("--a"))
		require.NoError(t, err)

		args := o.Args()
		args[0] = "--mutated"
		assert.Equal(t, []string{"--a"}, o.Args())
	})

	t.Run("non-positive timeouts are rejected", func(t *testing.T) {
		for _, opt := range []Option{WithRequestTimeout(0), WithRequestTimeout(-time.Second), WithLaunchTimeout(0)} {
			_, err := NewOptions(opt)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.ErrorIs(t, err, ErrNonPositiveDuration)
		}
	})

	t.Run("missing executable is a config error", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "no-such-chrome")
		_, err := NewOptions(WithExecutablePath(missing))

		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "executable_path", cfgErr.Field)
		assert.Equal(t, missing, cfgErr.Value)
		assert.ErrorIs(t, err, ErrNotExecutable)
	})

	t.Run("non-executable file is a config error", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("execute bit is not meaningful on windows")
		}
		path := filepath.Join(t.TempDir(), "chrome")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))

		_, err := NewOptions(WithExecutablePath(path))
		assert.ErrorIs(t, err, ErrNotExecutable)
	})

	t.Run("existing executable is accepted", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("execute bit is not meaningful on windows")
		}
		path := filepath.Join(t.TempDir(), "chrome")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

		o, err := NewOptions(WithExecutablePath(path))
		require.NoError(t, err)
		assert.Equal(t, path, o.ExecutablePath())
	})
}
