// pkg/credentials/interactive_test.go
package credentials

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestInteractive(t *testing.T) {
	ctx := context.Background()

	t.Run("prompts for both fields", func(t *testing.T) {
		var out bytes.Buffer
		p := NewInteractive(strings.NewReader("user@example.com\r\ncorrect-pw\n"), &out)

		c, err := p.Credentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, Credentials{Identifier: "user@example.com", Secret: "correct-pw"}, c)
		assert.Equal(t, "Email: Password: ", out.String())
	})

	t.Run("preset identifier only asks for the secret", func(t *testing.T) {
		var out bytes.Buffer
		p := NewInteractive(strings.NewReader("pw"), &out, WithPresetIdentifier("user@example.com"), WithPrompts("Login: ", "Secret: "))

		c, err := p.Credentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, "pw", c.Secret)
		assert.Equal(t, "Secret: ", out.String())
	})

	t.Run("secret keeps surrounding spaces", func(t *testing.T) {
		p := NewInteractive(strings.NewReader("  spaced pw  \n"), io.Discard)
		c, err := p.Complete(ctx, Credentials{Identifier: "a"})
		require.NoError(t, err)
		assert.Equal(t, "  spaced pw  ", c.Secret)
	})

	t.Run("empty input is not found", func(t *testing.T) {
		p := NewInteractive(strings.NewReader("\n\n"), io.Discard)
		_, err := p.Credentials(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("closed input is an error", func(t *testing.T) {
		p := NewInteractive(strings.NewReader(""), io.Discard)
		_, err := p.Credentials(ctx)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("canceled context stops waiting", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewInteractive(pr, io.Discard).Credentials(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// fakeTerminal makes every fd look like a terminal whose hidden reads block
// until the test ends. entered is closed once a hidden read starts.
func fakeTerminal(t *testing.T) (saved *term.State, restored *atomic.Pointer[term.State], entered chan struct{}) {
	t.Helper()
	origIsTerminal, origGetState, origRestore, origReadPassword := isTerminal, termGetState, termRestore, readPassword
	release := make(chan struct{})
	t.Cleanup(func() {
		close(release)
		isTerminal, termGetState, termRestore, readPassword = origIsTerminal, origGetState, origRestore, origReadPassword
	})

	saved = &term.State{}
	restored = &atomic.Pointer[term.State]{}
	isTerminal = func(int) bool { return true }
	termGetState = func(int) (*term.State, error) { return saved, nil }
	termRestore = func(_ int, s *term.State) error {
		restored.Store(s)
		return nil
	}
	entered = make(chan struct{})
	readPassword = func(int) ([]byte, error) {
		close(entered)
		<-release
		return nil, io.EOF
	}
	return saved, restored, entered
}

func TestInteractiveTerminal(t *testing.T) {
	t.Run("interrupted hidden read restores the terminal", func(t *testing.T) {
		saved, restored, entered := fakeTerminal(t)
		r, w, err := os.Pipe()
		require.NoError(t, err)
		defer r.Close()
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		var out bytes.Buffer
		p := NewInteractive(r, &out)

		errCh := make(chan error, 1)
		go func() {
			_, err := p.Complete(ctx, Credentials{Identifier: "user@example.com"})
			errCh <- err
		}()
		select {
		case <-entered:
		case <-time.After(time.Second):
			t.Fatal("hidden read never started")
		}
		cancel()

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("Complete did not return after cancel")
		}
		assert.Same(t, saved, restored.Load())
		assert.Equal(t, "Password: \n", out.String())
	})

	t.Run("completed hidden read leaves the terminal alone", func(t *testing.T) {
		_, restored, _ := fakeTerminal(t)
		readPassword = func(int) ([]byte, error) { return []byte("hidden-pw"), nil }
		r, w, err := os.Pipe()
		require.NoError(t, err)
		defer r.Close()
		defer w.Close()

		c, err := NewInteractive(r, io.Discard).Complete(context.Background(), Credentials{Identifier: "a"})
		require.NoError(t, err)
		assert.Equal(t, "hidden-pw", c.Secret)
		assert.Nil(t, restored.Load())
	})
}

func TestReadLineDoesNotReadAhead(t *testing.T) {
	r := strings.NewReader("first\nsecond\n")
	line, err := readLine(r)
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	rest, _ := io.ReadAll(r)
	assert.Equal(t, "second\n", string(rest))
}
