package ebitenhost

import (
	"image/color"
	"math"
	"testing"

	"github.com/phanxgames/veneer"
)

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestParseMatrix3d_RoundTrip(t *testing.T) {
	want := veneer.Multiply(veneer.Translate(12, 34, 0), veneer.Scale(2, 3, 1))
	got, ok := parseMatrix3d(want.CSS(1))
	if !ok {
		t.Fatal("parseMatrix3d failed on CSS output")
	}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseMatrix3d_Rejects(t *testing.T) {
	for _, s := range []string{
		"",
		"scale3d(0.0001,0.0001,1)",
		"matrix3d(1,0,0)",
		"matrix3d(1,0,0,0,0,1,0,0,0,0,1,0,0,0,x,1)",
	} {
		if _, ok := parseMatrix3d(s); ok {
			t.Errorf("parseMatrix3d(%q) ok, want rejected", s)
		}
	}
}

func TestParseOrigin(t *testing.T) {
	x, y := parseOrigin("25% 100%")
	assertNear(t, "x", x, 0.25)
	assertNear(t, "y", y, 1)

	x, y = parseOrigin("")
	assertNear(t, "default x", x, 0.5)
	assertNear(t, "default y", y, 0.5)
}

func TestParsePx(t *testing.T) {
	if v, ok := parsePx("120.5px"); !ok || v != 120.5 {
		t.Errorf("parsePx = %v, %v; want 120.5, true", v, ok)
	}
	if _, ok := parsePx("auto"); ok {
		t.Error("parsePx(auto) ok, want false")
	}
}

func TestParseOpacity(t *testing.T) {
	assertNear(t, "unset", parseOpacity(""), 1)
	assertNear(t, "almost opaque", parseOpacity("0.999999"), 0.999999)
	assertNear(t, "clamped", parseOpacity("3"), 1)
	assertNear(t, "garbage", parseOpacity("abc"), 1)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"#3366CC", color.RGBA{0x33, 0x66, 0xcc, 255}},
		{"rgb(10, 20, 30)", color.RGBA{10, 20, 30, 255}},
		{"rgba(10,20,30,0.5)", color.RGBA{10, 20, 30, 128}},
		{"Red", color.RGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		if !ok || got != tt.want {
			t.Errorf("parseColor(%q) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}
	for _, s := range []string{"", "transparent", "#12", "rgb(1,2)", "rgb(300,0,0)"} {
		if _, ok := parseColor(s); ok {
			t.Errorf("parseColor(%q) ok, want false", s)
		}
	}
}

func TestElementGeoM_TranslateOnly(t *testing.T) {
	g := elementGeoM(veneer.Translate(100, 50, 0), 40, 20, 0.5, 0.5)
	x, y := g.Apply(0, 0)
	assertNear(t, "top-left x", x, 100)
	assertNear(t, "top-left y", y, 50)
	x, y = g.Apply(1, 1)
	assertNear(t, "bottom-right x", x, 140)
	assertNear(t, "bottom-right y", y, 70)
}

func TestElementGeoM_ScaleAboutCenter(t *testing.T) {
	// A 2x scale about the center of a 10x10 box grows it by 5 on each side.
	g := elementGeoM(veneer.Scale(2, 2, 1), 10, 10, 0.5, 0.5)
	x, y := g.Apply(0, 0)
	assertNear(t, "x", x, -5)
	assertNear(t, "y", y, -5)
	x, y = g.Apply(1, 1)
	assertNear(t, "x", x, 15)
	assertNear(t, "y", y, 15)
}

func TestElementGeoM_RotateAboutTopLeft(t *testing.T) {
	g := elementGeoM(veneer.RotateZ(math.Pi/2), 10, 4, 0, 0)
	// The top-right corner (10, 0) rotates onto the positive y axis.
	x, y := g.Apply(1, 0)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 10)
}

func TestTopmost(t *testing.T) {
	doc := veneer.NewHTMLDocument()
	under := doc.CreateElement("div")
	over := doc.CreateElement("div")

	box := func(el veneer.Element, x, y float64) hitBox {
		inv := elementGeoM(veneer.Translate(x, y, 0), 100, 100, 0, 0)
		inv.Invert()
		return hitBox{el: el, inv: inv}
	}
	hits := []hitBox{box(under, 0, 0), box(over, 50, 50)}

	if got := topmost(hits, 75, 75); got != over {
		t.Errorf("overlap picked %v, want the later-painted element", got)
	}
	if got := topmost(hits, 10, 10); got != under {
		t.Errorf("got %v, want the lower element", got)
	}
	if got := topmost(hits, 500, 500); got != nil {
		t.Errorf("miss returned %v, want nil", got)
	}
}
