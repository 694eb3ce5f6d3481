// pkg/credentials/interactive.go
package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Interactive prompts a human for whatever is missing. The secret is read
// without echo when in is a terminal.
type Interactive struct {
	in  io.Reader
	out io.Writer

	identifier       string
	identifierPrompt string
	secretPrompt     string
}

// InteractiveOption configures Interactive.
type InteractiveOption func(*Interactive)

// WithPresetIdentifier skips the identifier prompt.
func WithPresetIdentifier(id string) InteractiveOption {
	return func(p *Interactive) { p.identifier = id }
}

// WithPrompts overrides the prompt labels.
func WithPrompts(identifier, secret string) InteractiveOption {
	return func(p *Interactive) {
		p.identifierPrompt = identifier
		p.secretPrompt = secret
	}
}

// NewInteractive reads answers from in and writes prompts to out.
func NewInteractive(in io.Reader, out io.Writer, opts ...InteractiveOption) *Interactive {
	p := &Interactive{
		in:               in,
		out:              out,
		identifierPrompt: "Email: ",
		secretPrompt:     "Password: ",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Interactive) Credentials(ctx context.Context) (Credentials, error) {
	return p.Complete(ctx, Credentials{})
}

// Complete prompts only for the fields partial is missing.
func (p *Interactive) Complete(ctx context.Context, partial Credentials) (Credentials, error) {
	c := partial.merge(Credentials{Identifier: p.identifier})

	if c.Identifier == "" {
		id, err := p.ask(ctx, p.identifierPrompt, false)
		if err != nil {
			return c, err
		}
		c.Identifier = strings.TrimSpace(id)
	}
	if c.Secret == "" {
		secret, err := p.ask(ctx, p.secretPrompt, true)
		if err != nil {
			return c, err
		}
		c.Secret = strings.TrimRight(secret, "\r\n")
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return c, nil
}

type answer struct {
	text string
	err  error
}

var (
	isTerminal   = term.IsTerminal
	termGetState = term.GetState
	termRestore  = term.Restore
	readPassword = term.ReadPassword
)

// ask prints the prompt and reads one line, giving up when ctx is done.
// The terminal mode is put back if a hidden read is abandoned.
func (p *Interactive) ask(ctx context.Context, prompt string, secret bool) (string, error) {
	fmt.Fprint(p.out, prompt)

	var restore func()
	if fd, ok := p.terminalFd(); ok && secret {
		if state, err := termGetState(fd); err == nil {
			restore = func() { _ = termRestore(fd, state) }
		}
	}

	done := make(chan answer, 1)
	go func() {
		var a answer
		if secret {
			a.text, a.err = p.readSecret()
		} else {
			a.text, a.err = readLine(p.in)
		}
		done <- a
	}()

	select {
	case a := <-done:
		if a.err != nil && !(errors.Is(a.err, io.EOF) && a.text != "") {
			return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(prompt), ":"), a.err)
		}
		return a.text, nil
	case <-ctx.Done():
		if restore != nil {
			restore()
		}
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	}
}

func (p *Interactive) terminalFd() (int, bool) {
	f, ok := p.in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, isTerminal(fd)
}

func (p *Interactive) readSecret() (string, error) {
	if fd, ok := p.terminalFd(); ok {
		b, err := readPassword(fd)
		fmt.Fprintln(p.out)
		return string(b), err
	}
	// Not a terminal (pipes, tests): the secret is read in clear text.
	return readLine(p.in)
}

// readLine reads up to a newline one byte at a time so nothing past the
// line is consumed from in.
func readLine(r io.Reader) (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				return strings.TrimSuffix(string(line), "\r"), nil
			}
			line = append(line, buf[0])
		}
		if err != nil {
			return string(line), err
		}
	}
}
