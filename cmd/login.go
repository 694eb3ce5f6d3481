// File: cmd/login.go
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pinlogin/internal/config"
	"github.com/xkilldash9x/pinlogin/internal/observability"
	"github.com/xkilldash9x/pinlogin/pkg/cookies"
	"github.com/xkilldash9x/pinlogin/pkg/login"
)

// loginAttempt runs one login. Tests replace it to avoid launching a browser.
var loginAttempt = login.Login

func newLoginCmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print the session cookies",
		Long: `Sign in through a real browser and write the resulting session cookies.

Credentials are taken, in order, from --identifier, the environment
(PINTEREST_EMAIL / PINTEREST_PASSWORD by default), the OS keyring when
--keyring is set, and finally an interactive prompt.

Exit codes: 0 authenticated, 2 credentials rejected, 3 verification
challenge required, 4 timed out, 1 any other failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), cfg, observability.GetLogger(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := loginCmd.Flags()
	addNegatedBool(flags, "head", "show the browser window")
	var timeout secondsValue
	flags.VarP(&timeout, "timeout", "t", "per-operation timeout in seconds (or a duration such as 1m)")
	flags.String("executable", "", "browser executable to launch instead of the auto-detected one")
	flags.StringArray("arg", nil, "extra browser flag, e.g. --arg=--lang=en-US (repeatable)")
	flags.String("login-url", "", "login page URL")
	flags.String("domain", "", "keep only cookies for this domain (default: the login URL's registrable domain)")
	flags.StringP("identifier", "u", "", "account identifier (email)")
	flags.String("keyring", "", "OS keyring service to read the password from")
	addNegatedBool(flags, "no-prompt", "never prompt for missing credentials")
	flags.StringP("output", "o", "", "write cookies to this file instead of stdout")
	flags.StringP("format", "f", "", fmt.Sprintf("output format: %v", cookies.Formats))

	annotate(loginCmd, "head", "browser.headless")
	annotate(loginCmd, "timeout", "browser.request_timeout")
	annotate(loginCmd, "executable", "browser.executable_path")
	annotate(loginCmd, "arg", "browser.args")
	annotate(loginCmd, "login-url", "login.url")
	annotate(loginCmd, "domain", "login.cookie_domain")
	annotate(loginCmd, "identifier", "credentials.identifier")
	annotate(loginCmd, "keyring", "credentials.keyring_service")
	annotate(loginCmd, "no-prompt", "credentials.interactive")
	annotate(loginCmd, "output", "output.file")
	annotate(loginCmd, "format", "output.format")

	return loginCmd
}

// runLogin performs one attempt and writes the cookies. A non-authenticated
// outcome is returned as an *ExitError carrying the matching exit code.
func runLogin(ctx context.Context, cfg config.Interface, logger *zap.Logger, in io.Reader, stdout, stderr io.Writer) error {
	// 1. Browser options. A bad executable path fails here, before any prompt.
	opts, err := config.BrowserOptions(cfg)
	if err != nil {
		return err
	}

	// 2. Credential chain. Prompts go to stderr so stdout carries only cookies.
	provider := config.CredentialProvider(cfg, in, stderr)

	// 3. One attempt.
	out := loginAttempt(ctx, provider, opts, config.LoginOptions(cfg, logger)...)
	if !out.Succeeded() {
		logger.Error("Login failed.",
			zap.Stringer("status", out.Status),
			zap.Stringer("last_state", out.LastState),
			zap.String("detail", out.Detail),
			zap.String("attempt_id", out.AttemptID),
		)
		fmt.Fprintln(stderr, "login failed:", out)
		return &ExitError{Code: exitCodeFor(out.Status), Err: out.Error()}
	}

	// 4. Output.
	return writeCookies(stdout, cfg.Output(), out.Cookies, logger)
}

// writeCookies renders cs in the configured format to the configured file,
// or to stdout when no file is set.
func writeCookies(stdout io.Writer, oc config.OutputConfig, cs []cookies.Cookie, logger *zap.Logger) error {
	format, err := cookies.ParseFormat(oc.Format)
	if err != nil {
		return err
	}

	if oc.File == "" || oc.File == "-" {
		return cookies.Write(stdout, cs, format)
	}

	path, err := homedir.Expand(oc.File)
	if err != nil {
		return fmt.Errorf("expand output path: %w", err)
	}
	var buf bytes.Buffer
	if err := cookies.Write(&buf, cs, format); err != nil {
		return err
	}
	// Session cookies are credentials.
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	logger.Info("Cookies written.", zap.String("path", path), zap.Int("count", len(cs)), zap.String("format", string(format)))
	return nil
}
