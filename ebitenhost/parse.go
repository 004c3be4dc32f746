package ebitenhost

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/veneer"
)

// parseMatrix3d reads a CSS matrix3d(...) value. ok is false for any other
// transform, including the scale3d placeholder given to pooled elements.
func parseMatrix3d(s string) (m veneer.Matrix, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "matrix3d(") || !strings.HasSuffix(s, ")") {
		return m, false
	}
	parts := strings.Split(s[len("matrix3d("):len(s)-1], ",")
	if len(parts) != len(m) {
		return m, false
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return m, false
		}
		m[i] = v
	}
	return m, true
}

// parseOrigin reads a transform-origin of two percentages. Anything it cannot
// read falls back to the CSS default of the element center.
func parseOrigin(s string) (x, y float64) {
	x, y = 0.5, 0.5
	f := strings.Fields(s)
	if len(f) < 2 {
		return x, y
	}
	if v, ok := parsePercent(f[0]); ok {
		x = v
	}
	if v, ok := parsePercent(f[1]); ok {
		y = v
	}
	return x, y
}

func parsePercent(s string) (float64, bool) {
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// parsePx reads a pixel length such as "120px".
func parsePx(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "px") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseOpacity reads an opacity. An unset opacity is fully opaque.
func parseOpacity(s string) float64 {
	if s == "" {
		return 1
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1
	}
	return min(max(v, 0), 1)
}

var namedColors = map[string]color.RGBA{
	"black": {0, 0, 0, 255},
	"white": {255, 255, 255, 255},
	"red":   {255, 0, 0, 255},
	"green": {0, 128, 0, 255},
	"blue":  {0, 0, 255, 255},
	"gray":  {128, 128, 128, 255},
}

// parseColor reads #rgb, #rrggbb, rgb(), rgba() and a few color keywords.
// "transparent" and anything unreadable report ok false.
func parseColor(s string) (c color.RGBA, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if named, found := namedColors[s]; found {
		return named, true
	}
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[len("rgba("):len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[len("rgb("):len(s)-1], false)
	}
	return c, false
}

func parseHexColor(h string) (color.RGBA, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func parseRGBFunc(args string, alpha bool) (color.RGBA, bool) {
	parts := strings.Split(args, ",")
	want := 3
	if alpha {
		want = 4
	}
	if len(parts) != want {
		return color.RGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, false
		}
		ch[i] = uint8(v)
	}
	c := color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if alpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.RGBA{}, false
		}
		c.A = uint8(min(max(a, 0), 1)*255 + 0.5)
	}
	return c, true
}

// elementGeoM maps the unit square onto an element box of w by h drawn with
// CSS transform m about the fractional origin (ox, oy). Depth terms of m are
// dropped.
func elementGeoM(m veneer.Matrix, w, h, ox, oy float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(w, h)
	g.Translate(-ox*w, -oy*h)
	g.Concat(affine(m))
	g.Translate(ox*w, oy*h)
	return g
}

// affine extracts the 2D part of a column-major 4x4 matrix.
func affine(m veneer.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[4])
	g.SetElement(1, 1, m[5])
	g.SetElement(0, 2, m[12])
	g.SetElement(1, 2, m[13])
	return g
}
