// pkg/cookies/filter.go
package cookies

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// FilterDomain keeps the cookies whose domain matches domain, preserving order.
// An empty domain keeps everything.
func FilterDomain(cs []Cookie, domain string) []Cookie {
	out := make([]Cookie, 0, len(cs))
	for _, c := range cs {
		if DomainMatches(c.Domain, domain) {
			out = append(out, c)
		}
	}
	return out
}

// DomainMatches reports whether a cookie scoped to cookieDomain belongs to
// the service identified by filter: equal domains, a cookie domain that is a
// parent of filter (".example.com" for "www.example.com"), or a cookie set on
// a subdomain of filter. Cookies scoped to a bare public suffix never match.
//
// The subdomain rule goes beyond plain equal-or-suffix matching. The default
// filter is a registrable domain ("pinterest.com") and the service sets host
// cookies on "www.pinterest.com" and similar hosts, which must be kept.
func DomainMatches(cookieDomain, filter string) bool {
	filter = normalizeHost(filter)
	if filter == "" {
		return true
	}
	cd := normalizeHost(cookieDomain)
	if cd == "" {
		return false
	}
	if cd == filter {
		return true
	}
	if strings.HasSuffix(cd, "."+filter) {
		return true
	}
	if strings.HasSuffix(filter, "."+cd) {
		suffix, _ := publicsuffix.PublicSuffix(cd)
		return suffix != cd
	}
	return false
}

// DomainForURL returns the registrable domain (eTLD+1) of rawURL's host,
// e.g. "pinterest.com" for "https://www.pinterest.com/login".
func DomainForURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	host := normalizeHost(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Single-label hosts such as localhost have no registrable domain.
		return host, nil
	}
	return domain, nil
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, ".")
	return strings.TrimSuffix(host, ".")
}
