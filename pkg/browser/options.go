// pkg/browser/options.go
package browser

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/mitchellh/go-homedir"
)

const (
	// DefaultRequestTimeout bounds every page operation when no timeout is configured.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultLaunchTimeout bounds browser start when no launch timeout is configured.
	DefaultLaunchTimeout = 30 * time.Second
)

// Options is the immutable browser configuration for one or more login attempts.
// Build it with NewOptions; the zero value is not usable.
type Options struct {
	headless       bool
	requestTimeout time.Duration
	launchTimeout  time.Duration
	executablePath string
	args           []string
}

// Option configures Options during NewOptions.
type Option func(*Options) error

// WithHeadless toggles headless mode. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(o *Options) error {
		o.headless = headless
		return nil
	}
}

// WithRequestTimeout bounds each navigate, wait and interaction call.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return &ConfigError{Field: "request_timeout", Value: d.String(), Err: ErrNonPositiveDuration}
		}
		o.requestTimeout = d
		return nil
	}
}

// WithLaunchTimeout bounds the time allowed for the browser process to come up.
func WithLaunchTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return &ConfigError{Field: "launch_timeout", Value: d.String(), Err: ErrNonPositiveDuration}
		}
		o.launchTimeout = d
		return nil
	}
}

// WithExecutablePath overrides browser auto-discovery. A bare name is looked up
// in PATH, anything else must point at an executable file.
func WithExecutablePath(path string) Option {
	return func(o *Options) error {
		o.executablePath = path
		return nil
	}
}

// WithArgs appends extra command line flags, in order, e.g. "--lang=en-US".
func WithArgs(args ...string) Option {
	return func(o *Options) error {
		o.args = append(o.args, args...)
		return nil
	}
}

// NewOptions builds Options. The only filesystem access is resolving an
// explicitly supplied executable path.
func NewOptions(opts ...Option) (*Options, error) {
	o := &Options{headless: true}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	if o.executablePath != "" {
		resolved, err := resolveExecutable(o.executablePath)
		if err != nil {
			return nil, &ConfigError{Field: "executable_path", Value: o.executablePath, Err: err}
		}
		o.executablePath = resolved
	}
	return o, nil
}

func resolveExecutable(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand home directory: %w", err)
	}
	// LookPath checks the execute bit directly when the path contains a separator.
	resolved, err := exec.LookPath(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotExecutable, err)
	}
	return resolved, nil
}

// Headless reports whether the browser runs without a visible window.
func (o *Options) Headless() bool { return o.headless }

// RequestTimeout returns the per-operation bound, falling back to DefaultRequestTimeout.
func (o *Options) RequestTimeout() time.Duration {
	if o.requestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return o.requestTimeout
}

// LaunchTimeout returns the browser start bound, falling back to DefaultLaunchTimeout.
func (o *Options) LaunchTimeout() time.Duration {
	if o.launchTimeout <= 0 {
		return DefaultLaunchTimeout
	}
	return o.launchTimeout
}

// ExecutablePath is empty when the engine should discover the browser itself.
func (o *Options) ExecutablePath() string { return o.executablePath }

// Args returns a copy of the extra launch flags.
func (o *Options) Args() []string {
	out := make([]string, len(o.args))
	copy(out, o.args)
	return out
}
