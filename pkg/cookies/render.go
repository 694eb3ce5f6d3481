// pkg/cookies/render.go
package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Format selects how cookies are rendered for output.
type Format string

const (
	// FormatJSON is the full, round-trippable record list.
	FormatJSON Format = "json"
	// FormatMap is a JSON object of name to value.
	FormatMap Format = "map"
	// FormatHeader is a Cookie request header value.
	FormatHeader Format = "header"
	// FormatNetscape is the cookies.txt format understood by curl and wget.
	FormatNetscape Format = "netscape"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatJSON, FormatMap, FormatHeader, FormatNetscape}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown cookie format %q (want one of json, map, header, netscape)", s)
}

// Write renders cs to w in format f.
func Write(w io.Writer, cs []Cookie, f Format) error {
	switch f {
	case FormatJSON:
		return Encode(w, cs)
	case FormatMap:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ToMap(cs))
	case FormatHeader:
		_, err := fmt.Fprintln(w, HeaderValue(cs))
		return err
	case FormatNetscape:
		return WriteNetscape(w, cs)
	default:
		return fmt.Errorf("unknown cookie format %q", f)
	}
}

// ToMap returns name to value. A later cookie wins over an earlier one with the same name.
func ToMap(cs []Cookie) map[string]string {
	m := make(map[string]string, len(cs))
	for _, c := range cs {
		m[c.Name] = c.Value
	}
	return m
}

// HeaderValue joins cs as "name=value; name2=value2" in order.
func HeaderValue(cs []Cookie) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// WriteNetscape writes cs in the Netscape cookies.txt format. HttpOnly
// cookies use the "#HttpOnly_" domain prefix; session cookies get expiry 0.
func WriteNetscape(w io.Writer, cs []Cookie) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Netscape HTTP Cookie File")
	for _, c := range cs {
		domain := c.Domain
		if c.HTTPOnly {
			domain = "#HttpOnly_" + domain
		}
		var expires int64
		if c.Expires != nil {
			expires = c.Expires.Unix()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain,
			boolField(strings.HasPrefix(c.Domain, ".")),
			path,
			boolField(c.Secure),
			expires,
			c.Name,
			c.Value,
		)
	}
	return bw.Flush()
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
