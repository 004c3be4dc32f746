package veneer

// Context is the state accumulated down a spec tree.
type Context struct {
	Transform Matrix
	Opacity   float64
	Origin    *Vec2 // fractional anchor within the node's own size; nil if unset
	Align     *Vec2 // fractional anchor within the parent size; nil if unset
	Size      *Size // nil while no size is known
}

// RootContext returns the context a tree is resolved against: identity
// transform, full opacity and the given mount size.
func RootContext(size Size) Context {
	return Context{Transform: Identity, Opacity: 1, Size: &size}
}

// DrawCommand is the flattened, world-space instruction for one leaf.
type DrawCommand struct {
	// Transform is nil when the leaf left the render tree this frame.
	Transform *Matrix
	Opacity   float64
	Origin    Vec2
	Align     Vec2
	// Size may still carry Measure axes, resolved by the surface after its
	// content is deployed.
	Size *Size
}

// SpecParser flattens a Spec into one DrawCommand per leaf. A parser reuses
// its result map between calls.
type SpecParser struct {
	result map[EntityID]DrawCommand
}

// Parse is a convenience wrapper that resolves spec with a fresh parser.
func Parse(spec Spec, ctx Context) map[EntityID]DrawCommand {
	var p SpecParser
	return p.Parse(spec, ctx)
}

// Parse resolves spec against ctx in a single depth-first pass. The returned
// map is owned by the parser and is only valid until the next call to Parse.
func (p *SpecParser) Parse(spec Spec, ctx Context) map[EntityID]DrawCommand {
	if p.result == nil {
		p.result = make(map[EntityID]DrawCommand)
	} else {
		clear(p.result)
	}
	p.parse(spec, ctx, Identity)
	return p.result
}

// parse handles one spec. sizeCtx is the transform in effect where the current
// size was last fixed; alignment offsets are measured in that frame.
func (p *SpecParser) parse(spec Spec, parent Context, sizeCtx Matrix) {
	switch s := spec.(type) {
	case nil:
	case EntityID:
		p.parseLeaf(s, parent, sizeCtx)
	case Specs:
		for _, child := range s {
			p.parse(child, parent, sizeCtx)
		}
	case *SpecNode:
		if s != nil {
			p.parseNode(s, parent, sizeCtx)
		}
	}
}

func (p *SpecParser) parseLeaf(id EntityID, parent Context, sizeCtx Matrix) {
	transform := parent.Transform
	align := parent.Align
	if align == nil {
		align = parent.Origin
	}
	if parent.Size != nil && align != nil && !align.IsZero() {
		w, h := parent.Size.Float()
		transform = ThenMove(transform, vecInFrame([3]float64{align.X * w, align.Y * h, 0}, sizeCtx))
	}

	cmd := DrawCommand{
		Transform: &transform,
		Opacity:   parent.Opacity,
		Size:      parent.Size,
	}
	if parent.Origin != nil {
		cmd.Origin = *parent.Origin
	}
	if align != nil {
		cmd.Align = *align
	}
	p.result[id] = cmd
}

func (p *SpecParser) parseNode(s *SpecNode, parent Context, sizeCtx Matrix) {
	ctx := parent
	nextSizeCtx := sizeCtx

	if s.Opacity != nil {
		ctx.Opacity = parent.Opacity * *s.Opacity
	}
	if s.Transform != nil {
		ctx.Transform = Multiply(parent.Transform, *s.Transform)
	}
	if s.Origin != nil {
		ctx.Origin = s.Origin
		nextSizeCtx = parent.Transform
	}
	if s.Align != nil {
		ctx.Align = s.Align
	}

	if s.Size != nil {
		size := *s.Size
		if parentSize := parent.Size; parentSize != nil {
			for i := range size {
				if size[i].Mode == AxisInherit {
					size[i] = parentSize[i]
				}
			}

			align := ctx.Align
			if align == nil {
				align = ctx.Origin
			}
			pw, ph := parentSize.Float()
			if align != nil && !align.IsZero() {
				ctx.Transform = ThenMove(ctx.Transform, vecInFrame([3]float64{align.X * pw, align.Y * ph, 0}, sizeCtx))
			}
			if o := ctx.Origin; o != nil && !o.IsZero() {
				w, h := size.Float()
				ctx.Transform = MoveThen([3]float64{-o.X * w, -o.Y * h, 0}, ctx.Transform)
			}
		}
		ctx.Size = &size
		nextSizeCtx = parent.Transform
		// Origin and align are folded into the transform from here down.
		ctx.Origin = nil
		ctx.Align = nil
	}

	p.parse(s.Target, ctx, nextSizeCtx)
}
