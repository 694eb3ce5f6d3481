// pkg/cookies/cookie.go
package cookies

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
)

// SameSite is the normalized SameSite attribute. The empty value means unset.
type SameSite string

const (
	SameSiteUnset  SameSite = ""
	SameSiteStrict SameSite = "Strict"
	SameSiteLax    SameSite = "Lax"
	SameSiteNone   SameSite = "None"
)

// ParseSameSite accepts any casing of Strict, Lax or None and the empty string.
func ParseSameSite(v string) (SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return SameSiteUnset, nil
	case "strict":
		return SameSiteStrict, nil
	case "lax":
		return SameSiteLax, nil
	case "none", "no_restriction":
		return SameSiteNone, nil
	default:
		return SameSiteUnset, fmt.Errorf("unknown SameSite value %q", v)
	}
}

// UnmarshalText normalizes casing so hand-edited cookie files still decode.
func (s *SameSite) UnmarshalText(b []byte) error {
	v, err := ParseSameSite(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Cookie is a browser cookie in a serializable, engine-independent shape.
type Cookie struct {
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Domain   string     `json:"domain"`
	Path     string     `json:"path"`
	Expires  *time.Time `json:"expires,omitempty"`
	Secure   bool       `json:"secure"`
	HTTPOnly bool       `json:"httpOnly"`
	SameSite SameSite   `json:"sameSite,omitempty"`
}

// IsSession reports whether the cookie expires with the browser session.
func (c Cookie) IsSession() bool { return c.Expires == nil }

// FromNetwork maps a CDP cookie record. Session cookies get a nil expiry.
func FromNetwork(nc *network.Cookie) Cookie {
	c := Cookie{
		Name:     nc.Name,
		Value:    nc.Value,
		Domain:   nc.Domain,
		Path:     nc.Path,
		Secure:   nc.Secure,
		HTTPOnly: nc.HTTPOnly,
	}
	if !nc.Session && nc.Expires > 0 {
		sec, frac := math.Modf(nc.Expires)
		t := time.Unix(int64(sec), int64(frac*1e9)).UTC()
		c.Expires = &t
	}
	// An unknown value from a newer engine is kept as unset rather than failing the read.
	if ss, err := ParseSameSite(string(nc.SameSite)); err == nil {
		c.SameSite = ss
	}
	return c
}
