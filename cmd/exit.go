// File: cmd/exit.go
package cmd

import (
	"errors"

	"github.com/xkilldash9x/pinlogin/pkg/login"
)

// Process exit codes.
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitCredentialsRejected = 2
	ExitChallengeRequired   = 3
	ExitTimeout             = 4
)

// ExitError carries the exit code for a command that ran but did not succeed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

func exitCodeFor(s login.Status) int {
	switch s {
	case login.StatusAuthenticated:
		return ExitOK
	case login.StatusCredentialsRejected:
		return ExitCredentialsRejected
	case login.StatusChallengeRequired:
		return ExitChallengeRequired
	case login.StatusTimeout:
		return ExitTimeout
	default:
		return ExitFailure
	}
}
