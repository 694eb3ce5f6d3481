// pkg/credentials/fallback.go
package credentials

import (
	"context"
	"errors"
	"fmt"
)

type fallback struct {
	providers []Provider
}

// Fallback asks providers in order and merges their answers until both
// fields are known. A provider failing with ErrNotFound contributes whatever
// it found and the chain continues; any other error stops the chain.
// Providers implementing Completer receive what is known so far.
func Fallback(providers ...Provider) Provider {
	return fallback{providers: providers}
}

func (f fallback) Credentials(ctx context.Context) (Credentials, error) {
	var have Credentials
	var lastErr error

	for _, p := range f.providers {
		if err := ctx.Err(); err != nil {
			return have, err
		}

		var got Credentials
		var err error
		if c, ok := p.(Completer); ok {
			got, err = c.Complete(ctx, have)
		} else {
			got, err = p.Credentials(ctx)
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return have, err
		}
		if err != nil {
			lastErr = err
		}

		have = have.merge(got)
		if have.Complete() {
			return have, nil
		}
	}

	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return have, fmt.Errorf("%w: %w", have.Validate(), lastErr)
}
