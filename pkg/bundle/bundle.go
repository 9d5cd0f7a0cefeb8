// Package bundle reads the static app bundle that carries the trail color
// palette.
package bundle

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Bundle is the part of the app bundle the tools need.
type Bundle struct {
	colors map[string]string // color name -> "#rrggbb"
}

// Load reads the bundle at path. A missing file yields an empty bundle.
func Load(path string) (*Bundle, error) {
	b := &Bundle{colors: make(map[string]string)}
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return b, nil
		}
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return Parse(data)
}

// Parse decodes bundle JSON.
func Parse(data []byte) (*Bundle, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("bundle is not valid JSON")
	}
	b := &Bundle{colors: make(map[string]string)}
	gjson.GetBytes(data, "appConfig.colors").ForEach(func(name, value gjson.Result) bool {
		if hex := value.Get("hex").String(); hex != "" {
			b.colors[name.String()] = hex
		}
		return true
	})
	return b, nil
}

// Len returns the number of named colors.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.colors)
}

// Hex returns the hex value of a named color.
func (b *Bundle) Hex(name string) (string, bool) {
	if b == nil {
		return "", false
	}
	hex, ok := b.colors[name]
	return hex, ok
}

// RGBA resolves a named color. Unknown names and malformed hex values fall
// back to dflt.
func (b *Bundle) RGBA(name string, dflt color.RGBA) color.RGBA {
	hex, ok := b.Hex(name)
	if !ok {
		return dflt
	}
	c, err := parseHex(hex)
	if err != nil {
		return dflt
	}
	return c
}

func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(s) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
