package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGB(A) drawing hint, round-tripping through the
// CSS-style textual forms "rgb(r,g,b)" and "rgba(r,g,b,a)" that
// persisted snapshot streams carry.
type Color struct {
	R, G, B uint8
	A       *float64 // nil means fully opaque and renders as "rgb(...)"
}

// RGB builds an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// RGBA builds a colour with an explicit alpha in [0,1].
func RGBA(r, g, b uint8, a float64) Color { return Color{R: r, G: g, B: b, A: &a} }

func (c Color) String() string {
	if c.A == nil {
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(*c.A, 'g', -1, 64))
}

// ParseColor parses the textual form String produces.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	rgba := strings.HasPrefix(s, "rgba(")
	rgb := strings.HasPrefix(s, "rgb(")
	if !rgba && !rgb {
		return Color{}, fmt.Errorf("world: invalid colour %q", s)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, map[bool]string{true: "rgba(", false: "rgb("}[rgba]), ")")
	parts := strings.Split(inner, ",")
	want := 3
	if rgba {
		want = 4
	}
	if len(parts) != want {
		return Color{}, fmt.Errorf("world: invalid colour %q", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("world: invalid colour component %q: %w", p, err)
		}
		vals[i] = v
	}
	c := Color{R: uint8(vals[0]), G: uint8(vals[1]), B: uint8(vals[2])}
	if rgba {
		c.A = &vals[3]
	}
	return c, nil
}
