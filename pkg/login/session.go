// pkg/login/session.go
package login

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pinlogin/pkg/browser"
)

// Session is the browser capability the state machine drives. *browser.Session implements it.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (browser.Element, error)
	TypeInto(ctx context.Context, el browser.Element, text string) error
	Click(ctx context.Context, el browser.Element) error
	WaitForNavigation(ctx context.Context, timeout time.Duration) error
	Exists(ctx context.Context, selector string) (bool, error)
	Location(ctx context.Context) (string, error)
	Cookies(ctx context.Context) ([]*network.Cookie, error)
	Close() error
}

var _ Session = (*browser.Session)(nil)

// Launcher opens a fresh Session for one attempt.
type Launcher interface {
	Open(ctx context.Context, opts *browser.Options) (Session, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, opts *browser.Options) (Session, error)

func (f LauncherFunc) Open(ctx context.Context, opts *browser.Options) (Session, error) {
	return f(ctx, opts)
}

// ChromeLauncher launches a local Chrome through browser.Open.
func ChromeLauncher(logger *zap.Logger) Launcher {
	return LauncherFunc(func(ctx context.Context, opts *browser.Options) (Session, error) {
		s, err := browser.Open(ctx, opts, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
