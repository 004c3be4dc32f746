// Package ebitenhost previews a veneer scene in an Ebitengine window. Each
// frame it commits the scene and rasterizes the pooled elements from the
// styles the commit left on them: the box, transform, opacity, background
// color and text. It is a development aid, not a browser; everything else a
// style can express is ignored.
package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/veneer"
)

// RunConfig configures Run.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height set the window size in pixels. Zero means 640x480.
	Width, Height int
	// ShowFPS draws an FPS/TPS counter in the top-left corner.
	ShowFPS bool
	// Background fills the screen before elements are drawn. Nil means a
	// dark gray.
	Background color.Color
}

var defaultBackground = color.RGBA{R: 30, G: 30, B: 40, A: 255}

// Run opens a window and drives scene until the window is closed or the
// scene's update function returns an error.
func Run(scene *veneer.Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Background == nil {
		cfg.Background = defaultBackground
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	scene.SetSize(float64(cfg.Width), float64(cfg.Height))

	if err := ebiten.RunGame(newGame(scene, cfg)); err != nil {
		return fmt.Errorf("ebitenhost: %w", err)
	}
	return nil
}

// game implements ebiten.Game.
type game struct {
	scene *veneer.Scene
	cfg   RunConfig
	pixel *ebiten.Image
	fps   *fpsOverlay
	op    ebiten.DrawImageOptions

	// hits holds the inverse box transform of every element drawn last
	// frame, in paint order.
	hits []hitBox
}

type hitBox struct {
	el  veneer.Element
	inv ebiten.GeoM
}

// Dispatcher is implemented by elements that accept synthesized input, such
// as those of veneer.HTMLDocument.
type Dispatcher interface {
	Dispatch(eventType string, payload any) bool
}

// Click is the payload of a synthesized "click" event, in screen pixels.
type Click struct {
	X, Y float64
}

func newGame(scene *veneer.Scene, cfg RunConfig) *game {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	g := &game{scene: scene, cfg: cfg, pixel: pixel}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

func (g *game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if g.fps != nil {
		g.fps.update(float64(dt))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.click(float64(x), float64(y))
	}
	return g.scene.Update(dt)
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Commit()
	screen.Fill(g.cfg.Background)
	g.hits = g.hits[:0]
	for _, el := range g.scene.Container().Children() {
		g.drawElement(screen, el)
	}
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.SetSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// drawElement rasterizes one pooled element. Hidden, pooled and fully
// transparent elements are skipped.
func (g *game) drawElement(screen *ebiten.Image, el veneer.Element) {
	if el.Style("display") == "none" {
		return
	}
	opacity := parseOpacity(el.Style("opacity"))
	if opacity <= 0 {
		return
	}
	m, ok := parseMatrix3d(el.Style("transform"))
	if !ok {
		return
	}
	w, ok := parsePx(el.Style("width"))
	if !ok {
		w = el.ClientWidth()
	}
	h, ok := parsePx(el.Style("height"))
	if !ok {
		h = el.ClientHeight()
	}
	ox, oy := parseOrigin(el.Style("transform-origin"))
	geo := elementGeoM(m, w, h, ox, oy)
	if w > 0 && h > 0 && geo.IsInvertible() {
		inv := geo
		inv.Invert()
		g.hits = append(g.hits, hitBox{el: el, inv: inv})
	}

	if c, ok := parseColor(el.Style("background-color")); ok && w > 0 && h > 0 {
		op := &g.op
		op.GeoM = geo
		op.ColorScale.Reset()
		op.ColorScale.ScaleWithColor(c)
		op.ColorScale.ScaleAlpha(float32(opacity))
		screen.DrawImage(g.pixel, op)
	}

	if text := el.TextContent(); text != "" {
		tg := elementGeoM(m, 1, 1, ox*w, oy*h)
		x, y := tg.Apply(0, 0)
		ebitenutil.DebugPrintAt(screen, text, int(x), int(y))
	}
}

// click dispatches a "click" to the topmost element under (x, y).
func (g *game) click(x, y float64) {
	if d, ok := topmost(g.hits, x, y).(Dispatcher); ok {
		d.Dispatch("click", Click{X: x, Y: y})
	}
}

// topmost returns the last-painted element whose box contains (x, y), or nil.
func topmost(hits []hitBox, x, y float64) veneer.Element {
	for i := len(hits) - 1; i >= 0; i-- {
		u, v := hits[i].inv.Apply(x, y)
		if u >= 0 && u <= 1 && v >= 0 && v <= 1 {
			return hits[i].el
		}
	}
	return nil
}

// fpsOverlay shows the current FPS and TPS, refreshed every half second.
type fpsOverlay struct {
	img   *ebiten.Image
	since float64
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	o := &fpsOverlay{img: ebiten.NewImage(100, 32), since: 0.5}
	return o
}

func (o *fpsOverlay) update(dt float64) {
	o.since += dt
	if o.since < 0.5 {
		return
	}
	o.since = 0
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
