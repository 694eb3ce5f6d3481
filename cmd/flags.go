// File: cmd/flags.go
package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// secondsValue is a duration flag that also accepts a bare number of seconds.
// Its string form is a Go duration so viper can bind it to a duration key.
type secondsValue time.Duration

var _ pflag.Value = (*secondsValue)(nil)

func (s *secondsValue) Set(raw string) error {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		if n <= 0 {
			return fmt.Errorf("must be positive, got %s", raw)
		}
		*s = secondsValue(time.Duration(n * float64(time.Second)))
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("expected seconds or a duration like 1m30s: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", raw)
	}
	*s = secondsValue(d)
	return nil
}

func (s *secondsValue) String() string { return time.Duration(*s).String() }

func (s *secondsValue) Type() string { return "seconds" }

// negatedBool is a boolean flag that reports the opposite of what was passed,
// e.g. --head overriding browser.headless.
type negatedBool bool

var _ pflag.Value = (*negatedBool)(nil)

func (b *negatedBool) Set(raw string) error {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	*b = negatedBool(v)
	return nil
}

func (b *negatedBool) String() string { return strconv.FormatBool(!bool(*b)) }

func (b *negatedBool) Type() string { return "bool" }

func (b *negatedBool) IsBoolFlag() bool { return true }

// addNegatedBool registers a switch whose bound value is the inverse of its presence.
func addNegatedBool(fs *pflag.FlagSet, name, usage string) {
	var b negatedBool
	f := fs.VarPF(&b, name, "", usage)
	f.NoOptDefVal = "true"
	f.DefValue = "false"
}
