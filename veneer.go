package veneer

// Vec2 is a 2D vector used for origins, alignments and offsets.
type Vec2 struct {
	X, Y float64
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Anchor returns a pointer to a new Vec2, for use as an origin or align value.
func Anchor(x, y float64) *Vec2 {
	return &Vec2{X: x, Y: y}
}

// AxisMode selects how one axis of a Size is resolved.
type AxisMode uint8

const (
	AxisInherit AxisMode = iota // take the value from the parent context
	AxisFixed                   // Px holds the value in pixels
	AxisMeasure                 // measure the element's rendered box after deploy
)

// Axis is one dimension of a Size.
type Axis struct {
	Mode AxisMode
	Px   float64
}

// Px returns a fixed axis of v pixels.
func Px(v float64) Axis {
	return Axis{Mode: AxisFixed, Px: v}
}

// Inherit is the axis that takes its value from the parent context.
var Inherit = Axis{}

// Measure is the axis that is measured from content.
var Measure = Axis{Mode: AxisMeasure}

// Value returns the pixel value of the axis. Inherit and Measure axes count
// as zero in arithmetic.
func (a Axis) Value() float64 {
	if a.Mode != AxisFixed {
		return 0
	}
	return a.Px
}

// present reports whether the axis carries a usable value: a non-zero pixel
// count or the measure sentinel.
func (a Axis) present() bool {
	switch a.Mode {
	case AxisFixed:
		return a.Px != 0
	case AxisMeasure:
		return true
	}
	return false
}

// Size is a width/height pair of axes.
type Size [2]Axis

// SizeOf returns a fixed size of w by h pixels.
func SizeOf(w, h float64) Size {
	return Size{Px(w), Px(h)}
}

// SizePtr returns a pointer to a fixed size, for spec nodes and options.
func SizePtr(w, h float64) *Size {
	s := SizeOf(w, h)
	return &s
}

// IsZero reports whether both axes inherit, i.e. the size says nothing.
func (s Size) IsZero() bool {
	return s == Size{}
}

// Float returns both axes as pixel values.
func (s Size) Float() (w, h float64) {
	return s[0].Value(), s[1].Value()
}

// EntityID identifies a registered renderable. It is also the leaf variant of
// Spec. Zero is a valid identifier.
type EntityID int

// NoEntity is the identifier of an unregistered renderable.
const NoEntity EntityID = -1

// Renderable is anything that produces a Spec each frame.
type Renderable interface {
	Render() Spec
}

// Sizer is implemented by renderables that report a size.
type Sizer interface {
	GetSize() Size
}
