// pkg/cookies/extract.go
package cookies

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"go.uber.org/zap"
)

// Reader is the slice of a browser session the extractor needs.
type Reader interface {
	Cookies(ctx context.Context) ([]*network.Cookie, error)
}

// Extract reads every cookie visible to the session and returns the ones
// scoped to domainFilter, normalized and in engine order. An empty result
// is not an error.
func Extract(ctx context.Context, r Reader, domainFilter string, logger *zap.Logger) ([]Cookie, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("cookie_extractor")

	raw, err := r.Cookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	all := make([]Cookie, 0, len(raw))
	for _, nc := range raw {
		if nc == nil {
			continue
		}
		all = append(all, FromNetwork(nc))
	}
	kept := FilterDomain(all, domainFilter)

	log.Debug("Extracted cookies.",
		zap.String("domain_filter", domainFilter),
		zap.Int("read", len(all)),
		zap.Int("kept", len(kept)),
		zap.Strings("names", names(kept)),
	)
	return kept, nil
}

func names(cs []Cookie) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}
