// pkg/browser/navigation_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mainFrameNavigated(id cdp.FrameID) *page.EventFrameNavigated {
	return &page.EventFrameNavigated{Frame: &cdp.Frame{ID: id}}
}

func waitAsync(ctx context.Context, n *navTracker) <-chan error {
	done := make(chan error, 1)
	go func() { done <- n.wait(ctx) }()
	return done
}

func TestNavTracker(t *testing.T) {
	t.Run("loaded document before the mark does not count", func(t *testing.T) {
		n := newNavTracker()
		n.handle(mainFrameNavigated("main"))
		n.handle(&page.EventLoadEventFired{})
		n.arm()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, n.wait(ctx), context.DeadlineExceeded)
	})

	t.Run("navigation after the mark waits for its load event", func(t *testing.T) {
		n := newNavTracker()
		n.handle(mainFrameNavigated("main"))
		n.handle(&page.EventLoadEventFired{})
		n.arm()

		done := waitAsync(context.Background(), n)
		n.handle(mainFrameNavigated("main"))
		select {
		case err := <-done:
			t.Fatalf("returned before the load event: %v", err)
		case <-time.After(30 * time.Millisecond):
		}

		n.handle(&page.EventLoadEventFired{})
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("wait did not return after the load event")
		}
	})

	t.Run("child frames are ignored", func(t *testing.T) {
		n := newNavTracker()
		n.handle(mainFrameNavigated("main"))
		n.arm()
		n.handle(&page.EventFrameNavigated{Frame: &cdp.Frame{ID: "ad", ParentID: "main"}})
		n.handle(&page.EventLoadEventFired{})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, n.wait(ctx), context.DeadlineExceeded)
	})

	t.Run("same document navigation counts without a load event", func(t *testing.T) {
		n := newNavTracker()
		n.handle(mainFrameNavigated("main"))
		n.handle(&page.EventLoadEventFired{})
		n.arm()

		n.handle(&page.EventNavigatedWithinDocument{FrameID: "other"})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, n.wait(ctx), context.DeadlineExceeded)

		n.handle(&page.EventNavigatedWithinDocument{FrameID: "main"})
		assert.NoError(t, n.wait(context.Background()))
	})

	t.Run("caller cancel stops the wait", func(t *testing.T) {
		n := newNavTracker()
		n.arm()
		ctx, cancel := context.WithCancel(context.Background())
		done := waitAsync(ctx, n)
		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("wait ignored cancellation")
		}
	})
}
