// File: cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pinlogin/internal/config"
	"github.com/xkilldash9x/pinlogin/internal/observability"
	"github.com/xkilldash9x/pinlogin/pkg/login"
)

// resetForTest silences the global logger and restores the package seams.
func resetForTest(t *testing.T) {
	t.Helper()

	observability.ResetForTest()
	observability.InitializeLogger(config.LoggerConfig{Level: "fatal", Format: "console", ServiceName: "test"})

	// Keep real PINTEREST_* and PINLOGIN_* variables out of the tests.
	for _, name := range []string{"PINTEREST_EMAIL", "PINTEREST_PASSWORD", "PINLOGIN_OUTPUT_FORMAT", "PINLOGIN_BROWSER_HEADLESS"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	// Run from an empty directory so no ./pinlogin.yaml is picked up.
	t.Chdir(t.TempDir())

	t.Cleanup(func() {
		loginAttempt = login.Login
		keyringStore = defaultKeyringStore
		observability.ResetForTest()
	})
}

// executeCommand runs a fresh command tree with args.
func executeCommand(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCommand()
	var outBuf, errBuf bytes.Buffer
	root.SetIn(bytes.NewBufferString(stdin))
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

// createTempConfig writes content to a YAML file in a temp dir.
func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pinlogin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
