// pkg/login/outcome.go
package login

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/pinlogin/pkg/cookies"
)

// Status is the terminal classification of one login attempt.
type Status int

const (
	// StatusAutomationFailure means the automation itself broke; retry or investigate.
	StatusAutomationFailure Status = iota
	StatusAuthenticated
	// StatusCredentialsRejected means the service showed a credential error.
	StatusCredentialsRejected
	// StatusChallengeRequired means a secondary verification step is pending.
	StatusChallengeRequired
	// StatusTimeout means a bounded wait expired before the flow could be classified.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusCredentialsRejected:
		return "credentials_rejected"
	case StatusChallengeRequired:
		return "challenge_required"
	case StatusTimeout:
		return "timeout"
	default:
		return "automation_failure"
	}
}

// State is a node of the login state machine.
type State int

const (
	StateStart State = iota
	StateLoadedLoginPage
	StateCredentialsSubmitted
	StateAuthenticated
	StateCredentialsRejected
	StateChallengePending
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateLoadedLoginPage:
		return "loaded_login_page"
	case StateCredentialsSubmitted:
		return "credentials_submitted"
	case StateAuthenticated:
		return "authenticated"
	case StateCredentialsRejected:
		return "credentials_rejected"
	case StateChallengePending:
		return "challenge_pending"
	default:
		return "failed"
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s >= StateAuthenticated }

// Outcome is the single, terminal result of a login call.
type Outcome struct {
	Status Status
	// Cookies is only populated for StatusAuthenticated.
	Cookies []cookies.Cookie
	// Detail is a human-readable explanation for non-success outcomes.
	Detail string
	// Err is the underlying failure, if any.
	Err error
	// State is the terminal state the machine stopped in.
	State State
	// LastState is the last non-terminal state reached before State.
	LastState State
	// AttemptID correlates the outcome with log lines.
	AttemptID string
}

// Succeeded reports whether the attempt authenticated.
func (o Outcome) Succeeded() bool { return o.Status == StatusAuthenticated }

// Error returns nil for an authenticated outcome and an *OutcomeError otherwise.
func (o Outcome) Error() error {
	if o.Succeeded() {
		return nil
	}
	return &OutcomeError{Status: o.Status, Detail: o.Detail, Err: o.Err}
}

// Sentinels matched by OutcomeError.Is.
var (
	ErrCredentialsRejected = errors.New("credentials rejected")
	ErrChallengeRequired   = errors.New("secondary verification required")
	ErrAutomationFailure   = errors.New("login automation failed")
	ErrLoginTimeout        = errors.New("login timed out")
)

// OutcomeError is the error form of a non-success Outcome.
type OutcomeError struct {
	Status Status
	Detail string
	Err    error
}

func (e *OutcomeError) Error() string {
	msg := "login " + e.Status.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches the sentinel for the status.
func (e *OutcomeError) Is(target error) bool {
	return target == statusSentinel(e.Status)
}

func (e *OutcomeError) Unwrap() error { return e.Err }

func statusSentinel(s Status) error {
	switch s {
	case StatusCredentialsRejected:
		return ErrCredentialsRejected
	case StatusChallengeRequired:
		return ErrChallengeRequired
	case StatusTimeout:
		return ErrLoginTimeout
	case StatusAuthenticated:
		return nil
	default:
		return ErrAutomationFailure
	}
}

func (o Outcome) String() string {
	if o.Succeeded() {
		return fmt.Sprintf("%s (%d cookies)", o.Status, len(o.Cookies))
	}
	if o.Detail == "" {
		return o.Status.String()
	}
	return fmt.Sprintf("%s: %s", o.Status, o.Detail)
}
