package veneer

import (
	"math"
	"slices"
	"strconv"
)

const (
	// DefaultElementType is the tag surfaces allocate unless told otherwise.
	DefaultElementType = "div"
	// DefaultElementClass is the class every surface element carries.
	DefaultElementClass = "veneer-surface"
)

// zIndexScale maps the z translation onto integer z-index steps, so depth
// ordering survives on backends that flatten 3D transforms.
const zIndexScale = 1e6

// almostOpaque stands in for full opacity. Browsers promote and demote
// compositing layers when opacity crosses 1, which shows up as flicker.
const almostOpaque = "0.999999"

// Surface is a leaf renderable drawn into one pooled element. It keeps its
// visual properties between frames and tracks per-aspect dirty flags so that a
// frame with no changes performs no element writes.
//
// A Surface never owns its element: it borrows one from an ElementAllocator in
// Setup and returns it in Cleanup.
type Surface struct {
	Notifier

	id             EntityID
	elementType    string
	elementClasses []string

	properties map[string]string
	content    Content
	classList  []string
	size       *Size

	classesDirty bool
	stylesDirty  bool
	sizeDirty    bool
	contentDirty bool
	dirtyClasses []string

	// Last state pushed to the element.
	matrix       Matrix
	hasMatrix    bool
	opacity      float64 // NaN until first applied
	origin       Vec2
	hasOrigin    bool
	resolvedSize [2]float64
	hasSize      bool
	zIndex       int

	target    Element
	dpr       float64
	forwarder *surfaceForwarder
	// attached lists the event types the forwarder is registered for on
	// target. It outlives the handlers themselves so Cleanup can detach
	// every one of them.
	attached []string
}

// surfaceForwarder re-emits element events on the surface. One instance per
// surface keeps listener identity stable across attach and detach.
type surfaceForwarder struct {
	s *Surface
}

func (f *surfaceForwarder) HandleEvent(ev *Event) {
	f.s.Emit(ev.Type, ev)
}

// NewSurface creates a surface, registers it with reg and applies opts. A nil
// reg leaves the surface unregistered, with ID NoEntity.
func NewSurface(reg *Registry, opts SurfaceOptions) *Surface {
	s := &Surface{
		id:           NoEntity,
		elementType:  DefaultElementType,
		properties:   make(map[string]string),
		classesDirty: true,
		stylesDirty:  true,
		sizeDirty:    true,
		contentDirty: true,
		opacity:      1,
	}
	s.elementClasses = []string{DefaultElementClass}
	s.forwarder = &surfaceForwarder{s: s}
	if opts.ElementType != "" {
		s.elementType = opts.ElementType
	}
	if opts.ElementClasses != nil {
		s.elementClasses = append([]string(nil), opts.ElementClasses...)
	}
	if reg != nil {
		s.id = reg.Register(s)
	}
	s.SetOptions(opts)
	return s
}

// ID returns the surface's registry identifier.
func (s *Surface) ID() EntityID {
	return s.id
}

// Render implements Renderable.
func (s *Surface) Render() Spec {
	return s.id
}

// Element returns the bound element, or nil while detached.
func (s *Surface) Element() Element {
	return s.target
}

// --- Events ---

// On registers fn for eventType. While the surface is mounted, element events
// of that type are forwarded to it.
func (s *Surface) On(eventType string, fn Handler) ListenerHandle {
	if s.target != nil {
		s.attach(eventType)
	}
	return s.Notifier.On(eventType, fn)
}

// Emit delivers an event to the surface's handlers and pipes. The event's
// origin defaults to the surface, and a handled native event stops
// propagating.
func (s *Surface) Emit(eventType string, ev *Event) bool {
	if ev != nil && ev.Origin == nil {
		ev.Origin = s
	}
	handled := s.Notifier.Emit(eventType, ev)
	if handled && ev != nil && ev.StopPropagation != nil {
		ev.StopPropagation()
	}
	return handled
}

// --- Options and properties ---

// SetOptions applies every set field of opts. Element type and element classes
// are construction-time only and ignored here.
func (s *Surface) SetOptions(opts SurfaceOptions) {
	if opts.Size != nil {
		s.SetSize(opts.Size)
	}
	if opts.Classes != nil {
		s.SetClasses(opts.Classes)
	}
	if opts.Properties != nil {
		s.SetProperties(opts.Properties)
	}
	if opts.Content != nil {
		s.SetContent(opts.Content)
	}
}

// SetProperties merges props into the surface's style map. Names are
// hyphenated CSS properties.
func (s *Surface) SetProperties(props map[string]string) {
	for k, v := range props {
		s.properties[k] = v
	}
	s.stylesDirty = true
}

// Properties returns the style map. The map MUST NOT be mutated.
func (s *Surface) Properties() map[string]string {
	return s.properties
}

// AddClass adds a class if it is not already present.
func (s *Surface) AddClass(name string) {
	if slices.Contains(s.classList, name) {
		return
	}
	s.classList = append(s.classList, name)
	s.classesDirty = true
}

// RemoveClass removes a class if present.
func (s *Surface) RemoveClass(name string) {
	i := slices.Index(s.classList, name)
	if i < 0 {
		return
	}
	s.dirtyClasses = append(s.dirtyClasses, name)
	s.classList = slices.Delete(s.classList, i, i+1)
	s.classesDirty = true
}

// SetClasses replaces the class list, removing classes not in list.
func (s *Surface) SetClasses(list []string) {
	var removal []string
	for _, c := range s.classList {
		if !slices.Contains(list, c) {
			removal = append(removal, c)
		}
	}
	for _, c := range removal {
		s.RemoveClass(c)
	}
	for _, c := range list {
		s.AddClass(c)
	}
}

// ClassList returns the class list. The slice MUST NOT be mutated.
func (s *Surface) ClassList() []string {
	return s.classList
}

// SetContent sets what is deployed into the element on the next commit.
func (s *Surface) SetContent(c Content) {
	if s.content != c {
		s.content = c
		s.contentDirty = true
	}
}

// Content returns the current content.
func (s *Surface) Content() Content {
	return s.content
}

// SetSize sets an explicit size override. Inherit axes take the context size;
// Measure axes are measured from the element. Pass nil to clear.
func (s *Surface) SetSize(size *Size) {
	if size == nil {
		s.size = nil
	} else {
		cp := *size
		s.size = &cp
	}
	s.sizeDirty = true
}

// GetSize returns the size override if set, else the last committed size.
func (s *Surface) GetSize() Size {
	if s.size != nil {
		return *s.size
	}
	if s.hasSize {
		return SizeOf(s.resolvedSize[0], s.resolvedSize[1])
	}
	return Size{}
}

// ActualSize returns the last committed pixel size. ok is false until a size
// has been committed.
func (s *Surface) ActualSize() (w, h float64, ok bool) {
	return s.resolvedSize[0], s.resolvedSize[1], s.hasSize
}

// --- Commit cycle ---

// Setup binds the surface to a freshly allocated element and marks every
// aspect dirty so the next commit re-applies all state.
func (s *Surface) Setup(a *ElementAllocator) {
	target := a.Allocate(s.elementType)
	for _, c := range s.elementClasses {
		target.AddClass(c)
	}
	target.SetStyle("display", "")
	s.target = target
	for _, t := range s.EventTypes() {
		s.attach(t)
	}
	s.dpr = a.Document().DevicePixelRatio()

	s.stylesDirty = true
	s.classesDirty = true
	s.sizeDirty = true
	s.contentDirty = true
	s.hasMatrix = false
	s.opacity = math.NaN()
	s.hasOrigin = false
	s.hasSize = false
	logger.Debug("veneer: surface setup", "id", s.id, "tag", s.elementType)
}

// Commit synchronizes the bound element with ctx, setting up first if the
// surface is detached.
func (s *Surface) Commit(ctx CommitContext) {
	if s.target == nil {
		s.Setup(ctx.Allocator)
	}
	target := s.target

	if s.classesDirty {
		s.cleanupClasses(target)
		for _, c := range s.classList {
			target.AddClass(c)
		}
		s.classesDirty = false
	}
	if s.stylesDirty {
		s.applyStyles(target)
		s.stylesDirty = false
	}
	if s.contentDirty {
		s.deploy(target)
		s.Notifier.Emit("deploy", &Event{Origin: s})
		s.contentDirty = false
	}

	s.resolveSize(target, ctx.Size)

	if ctx.Transform == nil {
		if s.hasMatrix {
			s.hasMatrix = false
			s.opacity = 0
			setInvisible(target)
		}
		return
	}

	if s.opacity != ctx.Opacity {
		s.opacity = ctx.Opacity
		target.SetStyle("opacity", formatOpacity(ctx.Opacity))
	}

	matrixChanged := (ctx.Transform != nil) != s.hasMatrix ||
		(ctx.Transform != nil && *ctx.Transform != s.matrix)
	originChanged := !s.hasOrigin || s.origin != ctx.Origin
	if matrixChanged || originChanged || s.sizeDirty {
		m := Identity
		if ctx.Transform != nil {
			m = *ctx.Transform
		}
		s.matrix = m
		s.hasMatrix = true
		s.origin = ctx.Origin
		s.hasOrigin = true

		anchored := ThenMove(m, [3]float64{
			-s.resolvedSize[0] * s.origin.X,
			-s.resolvedSize[1] * s.origin.Y,
			0,
		})
		target.SetStyle("transform-origin", cssOrigin(s.origin))
		target.SetStyle("transform", anchored.CSS(s.dpr))
		s.applyZIndex(target, int(m[14]*zIndexScale))
	}

	if s.sizeDirty {
		if s.hasSize {
			target.SetStyle("width", s.sizeStyle(0))
			target.SetStyle("height", s.sizeStyle(1))
		}
		s.sizeDirty = false
	}
}

// resolveSize combines the context size with the surface override, measures
// Measure axes and marks the size dirty when the result changed.
func (s *Surface) resolveSize(target Element, ctxSize *Size) {
	if ctxSize == nil && s.size == nil {
		return
	}
	var size Size
	if ctxSize != nil {
		size = *ctxSize
	}
	if s.size != nil {
		orig := size
		size = *s.size
		for i := range size {
			if size[i].Mode == AxisInherit && orig[i].present() {
				size[i] = orig[i]
			}
		}
	}

	var resolved [2]float64
	for i := range size {
		switch size[i].Mode {
		case AxisMeasure:
			if i == 0 {
				resolved[i] = target.ClientWidth()
			} else {
				resolved[i] = target.ClientHeight()
			}
		default:
			resolved[i] = size[i].Value()
		}
	}

	if !s.hasSize || s.resolvedSize != resolved {
		s.resolvedSize = resolved
		s.hasSize = true
		s.sizeDirty = true
	}
}

// sizeStyle formats axis i for the width or height style. Axes the surface
// measures itself are left to content.
func (s *Surface) sizeStyle(i int) string {
	if s.size != nil && s.size[i].Mode == AxisMeasure {
		return ""
	}
	return formatNumber(s.resolvedSize[i]) + "px"
}

// Cleanup withdraws the surface's content into a detached fragment, strips the
// element back to its pooled baseline and returns it to a.
func (s *Surface) Cleanup(a *ElementAllocator) {
	target := s.target
	s.Notifier.Emit("recall", &Event{Origin: s})
	s.recall(target)

	target.SetStyle("display", "none")
	target.SetStyle("width", "")
	target.SetStyle("height", "")
	s.hasSize = false

	s.cleanupStyles(target)
	s.cleanupClasses(target)
	for _, c := range s.classList {
		target.RemoveClass(c)
	}
	for _, c := range s.elementClasses {
		target.RemoveClass(c)
	}
	if s.zIndex != 0 {
		target.SetStyle("z-index", "")
		s.zIndex = 0
	}
	for _, t := range s.attached {
		target.RemoveEventListener(t, s.forwarder)
	}
	s.attached = s.attached[:0]
	s.target = nil

	// A stale reference to a pooled element must never show it.
	setInvisible(target)
	a.Deallocate(target)
	logger.Debug("veneer: surface cleanup", "id", s.id, "tag", s.elementType)
}

// attach registers the forwarder for eventType on the bound element once.
func (s *Surface) attach(eventType string) {
	if slices.Contains(s.attached, eventType) {
		return
	}
	s.target.AddEventListener(eventType, s.forwarder)
	s.attached = append(s.attached, eventType)
}

func (s *Surface) applyZIndex(target Element, z int) {
	if z == s.zIndex {
		return
	}
	s.zIndex = z
	if z == 0 {
		target.SetStyle("z-index", "")
		return
	}
	target.SetStyle("z-index", strconv.Itoa(z))
}

func (s *Surface) deploy(target Element) {
	switch c := s.content.(type) {
	case nil:
		target.SetInnerHTML("")
	case HTML:
		target.SetInnerHTML(string(c))
	case Fragment:
		target.ReplaceChildren(c)
	}
}

func (s *Surface) recall(target Element) {
	s.SetContent(target.TakeChildren())
}

func (s *Surface) cleanupClasses(target Element) {
	for _, c := range s.dirtyClasses {
		target.RemoveClass(c)
	}
	s.dirtyClasses = s.dirtyClasses[:0]
}

func (s *Surface) applyStyles(target Element) {
	for _, k := range sortedKeys(s.properties) {
		target.SetStyle(k, s.properties[k])
	}
}

func (s *Surface) cleanupStyles(target Element) {
	for _, k := range sortedKeys(s.properties) {
		target.SetStyle(k, "")
	}
}

func setInvisible(target Element) {
	target.SetStyle("transform", invisibleTransform)
	target.SetStyle("opacity", "0")
}

func formatOpacity(o float64) string {
	if o >= 1 {
		return almostOpaque
	}
	return formatNumber(o)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
