package veneer

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// StateModifier is a Modifier holding transform, opacity, origin, align and
// size state. The transform is built from its fields as
//
//	Translate(X, Y, Z) * RotateZ(Rotation) * Scale(ScaleX, ScaleY, 1)
//
// unless Matrix is set, which is then used verbatim.
type StateModifier struct {
	X, Y, Z  float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Opacity  float64

	// Matrix, when non-nil, replaces the transform built from the fields.
	Matrix *Matrix
	Origin *Vec2
	Align  *Vec2
	Size   *Size
}

// NewStateModifier returns a modifier at identity with full opacity.
func NewStateModifier() *StateModifier {
	return &StateModifier{ScaleX: 1, ScaleY: 1, Opacity: 1}
}

// SetPosition sets the translation.
func (m *StateModifier) SetPosition(x, y float64) {
	m.X, m.Y = x, y
}

// SetScale sets the x and y scale.
func (m *StateModifier) SetScale(sx, sy float64) {
	m.ScaleX, m.ScaleY = sx, sy
}

// Transform returns the modifier's current transform.
func (m *StateModifier) Transform() Matrix {
	if m.Matrix != nil {
		return *m.Matrix
	}
	t := Translate(m.X, m.Y, m.Z)
	if m.Rotation != 0 {
		t = Multiply(t, RotateZ(m.Rotation))
	}
	if m.ScaleX != 1 || m.ScaleY != 1 {
		t = Multiply(t, Scale(m.ScaleX, m.ScaleY, 1))
	}
	return t
}

// Modify implements Modifier.
func (m *StateModifier) Modify(target Spec) Spec {
	t := m.Transform()
	return &SpecNode{
		Target:    target,
		Transform: &t,
		Opacity:   Float(m.Opacity),
		Origin:    m.Origin,
		Align:     m.Align,
		Size:      m.Size,
	}
}

// GetSize implements Sizer.
func (m *StateModifier) GetSize() Size {
	if m.Size == nil {
		return Size{}
	}
	return *m.Size
}

// TweenGroup animates up to 4 float64 fields of a StateModifier at once.
// Create one with TweenPosition, TweenScale, TweenOpacity or TweenRotation and
// call Update(dt) each frame; values are written straight into the modifier,
// which picks them up on its next Modify.
//
// There is no global animation manager: callers update their groups.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition animates m.X and m.Y to (toX, toY).
func TweenPosition(m *StateModifier, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&m.X, toX, duration, fn)
	g.add(&m.Y, toY, duration, fn)
	return g
}

// TweenScale animates m.ScaleX and m.ScaleY.
func TweenScale(m *StateModifier, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&m.ScaleX, toSX, duration, fn)
	g.add(&m.ScaleY, toSY, duration, fn)
	return g
}

// TweenOpacity animates m.Opacity.
func TweenOpacity(m *StateModifier, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&m.Opacity, to, duration, fn)
	return g
}

// TweenRotation animates m.Rotation (radians).
func TweenRotation(m *StateModifier, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&m.Rotation, to, duration, fn)
	return g
}
