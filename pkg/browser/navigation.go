// pkg/browser/navigation.go
package browser

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
)

// navTracker counts main frame navigations reported by CDP page events so a
// caller can wait for a navigation triggered after a known point.
type navTracker struct {
	mu        sync.Mutex
	mainFrame cdp.FrameID
	navigated uint64
	loaded    uint64
	mark      uint64
	changed   chan struct{}
}

func newNavTracker() *navTracker {
	return &navTracker{changed: make(chan struct{})}
}

// handle is registered with chromedp.ListenTarget and must not block.
func (n *navTracker) handle(ev interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch ev := ev.(type) {
	case *page.EventFrameNavigated:
		if ev.Frame == nil || ev.Frame.ParentID != "" {
			return
		}
		n.mainFrame = ev.Frame.ID
		n.navigated++
	case *page.EventNavigatedWithinDocument:
		if ev.FrameID != n.mainFrame {
			return
		}
		// Same-document navigations never fire a load event.
		n.navigated++
		n.loaded = n.navigated
	case *page.EventLoadEventFired:
		n.loaded = n.navigated
	default:
		return
	}
	close(n.changed)
	n.changed = make(chan struct{})
}

// arm records the current navigation count; wait returns once a later
// navigation has loaded.
func (n *navTracker) arm() {
	n.mu.Lock()
	n.mark = n.navigated
	n.mu.Unlock()
}

func (n *navTracker) wait(ctx context.Context) error {
	for {
		n.mu.Lock()
		done := n.navigated > n.mark && n.loaded == n.navigated
		changed := n.changed
		n.mu.Unlock()
		if done {
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
