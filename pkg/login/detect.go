// pkg/login/detect.go
package login

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/pinlogin/pkg/browser"
)

// detection is a verdict from one detector.
type detection struct {
	status Status
	marker string
}

type detector struct {
	status Status
	marker Marker
}

// detectors returns the three detectors in tie-break priority order:
// an inline error is the most specific signal, then a challenge prompt.
func (m *Machine) detectors() []detector {
	return []detector{
		{status: StatusCredentialsRejected, marker: m.markers.Rejected},
		{status: StatusChallengeRequired, marker: m.markers.Challenge},
		{status: StatusAuthenticated, marker: m.markers.Authenticated},
	}
}

// lastError keeps the most recent transient probe failure for the timeout detail.
type lastError struct {
	mu  sync.Mutex
	err error
}

func (l *lastError) set(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

func (l *lastError) get() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// race polls the three detectors concurrently for up to timeout. The first
// verdict wins and the rest are abandoned; all detectors have returned by the
// time race does, so the session can be closed safely afterwards.
func (m *Machine) race(ctx context.Context, s Session, timeout time.Duration, log *zap.Logger) (detection, error) {
	raceCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ds := m.detectors()
	verdicts := make(chan detection, len(ds))
	var probeErr lastError

	g, gctx := errgroup.WithContext(raceCtx)
	for _, d := range ds {
		g.Go(func() error {
			return m.watch(gctx, s, d, verdicts, &probeErr)
		})
	}

	var first detection
	found := false
	select {
	case first = <-verdicts:
		found = true
	case <-gctx.Done():
	}
	cancel()
	fatal := g.Wait()

	if !found {
		select {
		case first = <-verdicts:
			found = true
		default:
		}
	}

	switch {
	case found:
		return m.tieBreak(ctx, s, first, timeout, log), nil
	case fatal != nil:
		return detection{}, fatal
	case ctx.Err() != nil:
		return detection{}, ctx.Err()
	}

	err := fmt.Errorf("%w: no authenticated, rejected or challenge marker within %s", browser.ErrTimeout, timeout)
	if pe := probeErr.get(); pe != nil {
		err = fmt.Errorf("%w (last probe error: %v)", err, pe)
	}
	return detection{}, err
}

// watch polls one detector until it matches or ctx ends. Transient probe
// errors keep it polling; a closed session ends the whole race.
func (m *Machine) watch(ctx context.Context, s Session, d detector, out chan<- detection, probeErr *lastError) error {
	limiter := rate.NewLimiter(rate.Every(m.pollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}

		marker, hit, err := probe(ctx, s, d.marker)
		switch {
		case err != nil && errors.Is(err, browser.ErrSessionClosed):
			return err
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			probeErr.set(err)
		case hit:
			out <- detection{status: d.status, marker: marker}
			return nil
		}
	}
}

// probe checks a marker once: selectors first, then the current URL.
func probe(ctx context.Context, s Session, mk Marker) (string, bool, error) {
	for _, sel := range mk.Selectors {
		ok, err := s.Exists(ctx, sel)
		if err != nil {
			return "", false, err
		}
		if ok {
			return sel, true, nil
		}
	}
	if len(mk.URLContains) == 0 {
		return "", false, nil
	}

	loc, err := s.Location(ctx)
	if err != nil {
		return "", false, err
	}
	for _, pattern := range mk.URLContains {
		if strings.Contains(loc, pattern) {
			return "url:" + pattern, true, nil
		}
	}
	return "", false, nil
}

// tieBreak re-probes the markers that outrank the winner, so a page showing
// several markers at once resolves by priority instead of by poll timing.
func (m *Machine) tieBreak(ctx context.Context, s Session, first detection, timeout time.Duration, log *zap.Logger) detection {
	if timeout > 2*time.Second {
		timeout = 2 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for _, d := range m.detectors() {
		if d.status == first.status {
			return first
		}
		marker, hit, err := probe(probeCtx, s, d.marker)
		if err != nil {
			log.Debug("Tie-break probe failed.", zap.Stringer("status", d.status), zap.Error(err))
			continue
		}
		if hit {
			log.Warn("Several outcome markers present, using the higher priority one.",
				zap.Stringer("detected", first.status),
				zap.Stringer("chosen", d.status),
			)
			return detection{status: d.status, marker: marker}
		}
	}
	return first
}
