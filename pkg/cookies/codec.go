// pkg/cookies/codec.go
package cookies

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode writes cs as an indented JSON array.
func Encode(w io.Writer, cs []Cookie) error {
	if cs == nil {
		cs = []Cookie{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cs); err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	return nil
}

// Decode reads a JSON array written by Encode.
func Decode(r io.Reader) ([]Cookie, error) {
	var cs []Cookie
	if err := json.NewDecoder(r).Decode(&cs); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	return cs, nil
}
