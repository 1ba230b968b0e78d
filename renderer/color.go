package renderer

import (
	"errors"
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrInvalidColor is returned for colour strings that are not #rrggbb.
var ErrInvalidColor = errors.New("invalid color")

// ParseHexColor parses a "#rrggbb" string into an opaque colour.
func ParseHexColor(s string) (rl.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return rl.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return rl.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return rl.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustParseHexColor is like ParseHexColor but panics on error.
func MustParseHexColor(s string) rl.Color {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParsePalette parses every entry of a colour list.
func ParsePalette(hexes []string) ([]rl.Color, error) {
	colors := make([]rl.Color, len(hexes))
	for i, h := range hexes {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		colors[i] = c
	}
	return colors, nil
}

// WithOpacity returns c with alpha set from an opacity in [0, 1].
func WithOpacity(c rl.Color, opacity float32) rl.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}
