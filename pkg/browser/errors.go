// pkg/browser/errors.go
package browser

import (
	"errors"
	"fmt"
)

// Error kinds reported by OpError. Match them with errors.Is.
var (
	ErrLaunch        = errors.New("browser launch failed")
	ErrNavigation    = errors.New("navigation failed")
	ErrInteraction   = errors.New("element interaction failed")
	ErrTimeout       = errors.New("operation timed out")
	ErrSessionClosed = errors.New("browser session closed")
)

// Configuration failures wrapped by ConfigError.
var (
	ErrNonPositiveDuration = errors.New("duration must be positive")
	ErrNotExecutable       = errors.New("not an executable")
)

// OpError describes a failed operation against the live browser.
type OpError struct {
	Op       string
	Selector string
	// Kind is one of the Err* kinds above.
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	msg := "browser: " + e.Op
	if e.Selector != "" {
		msg += fmt.Sprintf(" %q", e.Selector)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil && e.Err != e.Kind {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the error kind, so errors.Is(err, ErrTimeout) works on wrapped OpErrors.
func (e *OpError) Is(target error) bool { return target == e.Kind }

func (e *OpError) Unwrap() error { return e.Err }

// ConfigError is returned when Options cannot be built.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
