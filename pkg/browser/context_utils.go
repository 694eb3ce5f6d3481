// pkg/browser/context_utils.go
package browser

import (
	"context"
	"time"
)

// CombineContext returns a context that carries the values of session (the
// chromedp target) and is canceled when either session or op is done. op
// usually carries the per-operation deadline.
func CombineContext(session, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(session)

	go func() {
		select {
		case <-op.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}

// valueOnlyContext keeps the parent's values but drops its deadline and cancellation.
type valueOnlyContext struct {
	context.Context
}

func (valueOnlyContext) Deadline() (deadline time.Time, ok bool) { return }

func (valueOnlyContext) Done() <-chan struct{} { return nil }

func (valueOnlyContext) Err() error { return nil }

// Detach returns a context with the values of ctx that is never canceled.
// Sessions root their browser process on it so that teardown is owned by
// Close and still runs after the caller has given up.
func Detach(ctx context.Context) context.Context {
	return valueOnlyContext{ctx}
}
