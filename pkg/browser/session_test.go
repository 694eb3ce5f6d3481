// pkg/browser/session_test.go
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

const testPage = `<!doctype html>
<html><body>
<form id="login" onsubmit="event.preventDefault(); document.body.insertAdjacentHTML('beforeend', '<div id=done></div>')">
  <input id="email" type="text">
  <input id="password" type="password">
  <button type="submit">Log in</button>
</form>
</body></html>`

// redirectPage posts its form to /home, which answers with a new document.
const redirectPage = `<!doctype html>
<html><body>
<form id="login" method="post" action="/home">
  <input id="email" name="email" type="text">
  <button type="submit">Log in</button>
</form>
</body></html>`

// findChrome returns a browser binary or skips the test.
func findChrome(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no Chrome or Chromium binary found in PATH")
	return ""
}

func newTestSession(t *testing.T) (*Session, *httptest.Server) {
	t.Helper()
	chrome := findChrome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc123", Path: "/", HttpOnly: true})
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, testPage)
	}))
	t.Cleanup(srv.Close)

	opts, err := NewOptions(WithExecutablePath(chrome), WithRequestTimeout(15*time.Second))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t, zaptest.Level(zapcore.InfoLevel))
	s, err := Open(context.Background(), opts, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, srv
}

func TestSession(t *testing.T) {
	s, srv := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, srv.URL))

	t.Run("waits for and interacts with elements", func(t *testing.T) {
		email, err := s.WaitForSelector(ctx, "input#email", 0)
		require.NoError(t, err)
		assert.NotZero(t, email.NodeID())
		require.NoError(t, s.TypeInto(ctx, email, "user@example.com"))

		submit, err := s.WaitForSelector(ctx, "button[type='submit']", 0)
		require.NoError(t, err)
		require.NoError(t, s.Click(ctx, submit))

		_, err = s.WaitForSelector(ctx, "#done", 5*time.Second)
		require.NoError(t, err)

		err = s.WaitForNavigation(ctx, 300*time.Millisecond)
		assert.ErrorIs(t, err, ErrTimeout, "an in-page submit is not a navigation")
	})

	t.Run("probes for markers without waiting", func(t *testing.T) {
		found, err := s.Exists(ctx, "input#password")
		require.NoError(t, err)
		assert.True(t, found)

		found, err = s.Exists(ctx, `[data-test-id="missing"]`)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("reports location and cookies", func(t *testing.T) {
		loc, err := s.Location(ctx)
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/", loc)

		cookies, err := s.Cookies(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(cookies))
		for _, c := range cookies {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "sid")
	})

	t.Run("bounded wait times out", func(t *testing.T) {
		_, err := s.WaitForSelector(ctx, "#never", 200*time.Millisecond)
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestSessionWaitForNavigation(t *testing.T) {
	chrome := findChrome(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, redirectPage)
	})
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		// Slow enough that the old document is still loaded right after the click.
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!doctype html><html><body><div id="feed"></div></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	opts, err := NewOptions(WithExecutablePath(chrome), WithRequestTimeout(10*time.Second))
	require.NoError(t, err)
	s, err := Open(context.Background(), opts, zaptest.NewLogger(t, zaptest.Level(zapcore.InfoLevel)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, srv.URL+"/login"))
	submit, err := s.WaitForSelector(ctx, "button[type='submit']", 0)
	require.NoError(t, err)
	require.NoError(t, s.Click(ctx, submit))

	require.NoError(t, s.WaitForNavigation(ctx, 0))
	loc, err := s.Location(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/home", loc)

	found, err := s.Exists(ctx, "#feed")
	require.NoError(t, err)
	assert.True(t, found, "wait must return on the new document")
}

// newDetachedSession builds a Session without a browser behind it.
func newDetachedSession(t *testing.T) (s *Session, allocCancels *int) {
	t.Helper()
	opts, err := NewOptions()
	require.NoError(t, err)

	s = newSession(opts, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	allocCancels = new(int)
	s.ctx, s.cancelTab, s.cancelAlloc = ctx, cancel, func() { *allocCancels++ }
	return s, allocCancels
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s, allocCancels := newDetachedSession(t)
	ctx := context.Background()

	assert.False(t, s.Closed())
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.True(t, s.Closed())
	assert.Equal(t, 1, *allocCancels, "the browser is torn down once")
	assert.Error(t, s.ctx.Err(), "closing cancels the tab")

	assert.ErrorIs(t, s.Navigate(ctx, "about:blank"), ErrSessionClosed)
	assert.ErrorIs(t, s.WaitForNavigation(ctx, 0), ErrSessionClosed)
	_, err := s.Cookies(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSessionClose(t *testing.T) {
	s, srv := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, srv.URL))

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close(), "second close must be a no-op")
	assert.True(t, s.Closed())

	err := s.Navigate(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestOpenLaunchFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	falseBin, err := exec.LookPath("false")
	if err != nil {
		t.Skip("no false binary available")
	}
	opts, err := NewOptions(WithExecutablePath(falseBin), WithLaunchTimeout(5*time.Second))
	require.NoError(t, err)

	_, err = Open(context.Background(), opts, zaptest.NewLogger(t, zaptest.Level(zapcore.InfoLevel)))
	assert.ErrorIs(t, err, ErrLaunch)
}

func TestOpenLaunchTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell script as the browser binary")
	}
	// A "browser" that never prints its DevTools endpoint.
	hang := filepath.Join(t.TempDir(), "hang.sh")
	require.NoError(t, os.WriteFile(hang, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))

	opts, err := NewOptions(WithExecutablePath(hang), WithLaunchTimeout(300*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	s, err := Open(context.Background(), opts, zaptest.NewLogger(t, zaptest.Level(zapcore.InfoLevel)))
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrLaunch)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 10*time.Second, "the pending launch is cancelled, not waited out")
}
