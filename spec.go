package veneer

// Spec is a declarative description of what to render. It is one of:
//
//   - EntityID: a leaf referencing a registered renderable
//   - Specs: an ordered list of sub-specs
//   - *SpecNode: a child spec with context overrides
//
// A nil Spec (or a nil *SpecNode) renders nothing.
type Spec interface {
	isSpec()
}

func (EntityID) isSpec() {}

// Specs is an ordered list of sub-specs. Every element resolves against the
// same inherited context.
type Specs []Spec

func (Specs) isSpec() {}

// SpecNode wraps Target and overrides parts of the inherited context. Nil
// fields inherit.
type SpecNode struct {
	Target    Spec
	Transform *Matrix
	Opacity   *float64
	Origin    *Vec2
	Align     *Vec2
	Size      *Size
}

func (*SpecNode) isSpec() {}

// Float returns a pointer to v, for SpecNode.Opacity.
func Float(v float64) *float64 {
	return &v
}

// TransformPtr returns a pointer to a copy of m, for SpecNode.Transform.
func TransformPtr(m Matrix) *Matrix {
	return &m
}
