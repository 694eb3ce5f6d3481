// Package login signs in to a web service through a real browser and returns
// the resulting session cookies.
//
// A login attempt is a small state machine: load the login page, submit the
// credentials, then race three detectors (authenticated, rejected, challenge)
// against the resulting page. Every attempt owns its browser and closes it on
// every exit path.
package login

import (
	"context"

	"github.com/xkilldash9x/pinlogin/pkg/browser"
	"github.com/xkilldash9x/pinlogin/pkg/credentials"
)

// Login opens a browser per opts, signs in with the provider's credentials
// and returns the outcome. It is the one-call entry point around New and Run.
func Login(ctx context.Context, provider credentials.Provider, opts *browser.Options, options ...Option) Outcome {
	m, err := New(options...)
	if err != nil {
		return Outcome{Status: StatusAutomationFailure, State: StateFailed, Detail: err.Error(), Err: err}
	}
	return m.Run(ctx, provider, opts)
}
