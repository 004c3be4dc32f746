package veneer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testOptions() SurfaceOptions {
	return SurfaceOptions{
		Size:       SizePtr(100, 50),
		Classes:    []string{"card"},
		Properties: map[string]string{"color": "red"},
		Content:    HTML("<b>hi</b>"),
	}
}

func at(x, y float64) DrawCommand {
	return DrawCommand{
		Transform: TransformPtr(Translate(x, y, 0)),
		Opacity:   1,
		Size:      SizePtr(800, 600),
	}
}

func styleMap(e Element) map[string]string {
	el := e.(*HTMLElement)
	out := make(map[string]string)
	for _, k := range el.StyleNames() {
		out[k] = el.Style(k)
	}
	return out
}

// --- Commit ---

func TestSurfaceCommitAppliesState(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	s.Commit(CommitContext{DrawCommand: at(10, 20), Allocator: a})

	el := s.Element()
	if el == nil {
		t.Fatal("commit did not set up the surface")
	}
	want := map[string]string{
		"color":            "red",
		"opacity":          almostOpaque,
		"transform-origin": "0% 0%",
		"transform":        "matrix3d(1,0,0,0,0,1,0,0,0,0,1,0,10,20,0,1)",
		"width":            "100px",
		"height":           "50px",
	}
	if diff := cmp.Diff(want, styleMap(el)); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{DefaultElementClass, "card"}, el.Classes()); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	if got := el.TextContent(); got != "hi" {
		t.Errorf("TextContent = %q, want hi", got)
	}
}

func TestSurfaceCommitIsIdempotent(t *testing.T) {
	doc, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	ctx := CommitContext{DrawCommand: at(10, 20), Allocator: a}
	s.Commit(ctx)

	doc.ResetWrites()
	s.Commit(ctx)
	if got := doc.Writes(); got != 0 {
		t.Errorf("second identical commit performed %d writes, want 0", got)
	}
}

func TestSurfaceOpacityOnlyChange(t *testing.T) {
	doc, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	cmd := at(0, 0)
	s.Commit(CommitContext{DrawCommand: cmd, Allocator: a})

	var names []string
	doc.SetObserver(func(m Mutation) { names = append(names, m.Name) })
	cmd.Opacity = 0.5
	s.Commit(CommitContext{DrawCommand: cmd, Allocator: a})

	if diff := cmp.Diff([]string{"opacity"}, names); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	if got := s.Element().Style("opacity"); got != "0.5" {
		t.Errorf("opacity = %q, want 0.5", got)
	}
}

func TestSurfaceOriginAnchorsTransform(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	cmd := at(10, 20)
	cmd.Origin = Vec2{X: 0.5, Y: 0.5}
	s.Commit(CommitContext{DrawCommand: cmd, Allocator: a})

	el := s.Element()
	// Shifted by -size*origin = (-50, -25).
	if got, want := el.Style("transform"), "matrix3d(1,0,0,0,0,1,0,0,0,0,1,0,-40,-5,0,1)"; got != want {
		t.Errorf("transform = %q, want %q", got, want)
	}
	if got := el.Style("transform-origin"); got != "50% 50%" {
		t.Errorf("transform-origin = %q", got)
	}
}

func TestSurfaceDevicePixelRatio(t *testing.T) {
	doc, _, a := newTestAllocator()
	doc.SetDevicePixelRatio(2)
	s := NewSurface(nil, SurfaceOptions{})
	s.Commit(CommitContext{DrawCommand: at(10.3, 0), Allocator: a})
	if got, want := s.Element().Style("transform"), "matrix3d(1,0,0,0,0,1,0,0,0,0,1,0,10.5,0,0,1)"; got != want {
		t.Errorf("transform = %q, want %q", got, want)
	}
}

func TestSurfaceHideWhenRemoved(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	s.Commit(CommitContext{DrawCommand: at(10, 20), Allocator: a})

	s.Commit(CommitContext{Allocator: a})
	el := s.Element()
	if got := el.Style("transform"); got != invisibleTransform {
		t.Errorf("hidden transform = %q, want %q", got, invisibleTransform)
	}
	if got := el.Style("opacity"); got != "0" {
		t.Errorf("hidden opacity = %q, want 0", got)
	}

	s.Commit(CommitContext{DrawCommand: at(10, 20), Allocator: a})
	if got := el.Style("transform"); got != "matrix3d(1,0,0,0,0,1,0,0,0,0,1,0,10,20,0,1)" {
		t.Errorf("transform after reappearing = %q", got)
	}
	if got := el.Style("opacity"); got != almostOpaque {
		t.Errorf("opacity after reappearing = %q", got)
	}
}

func TestSurfaceHideBeforeShownIsNoop(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	s.Commit(CommitContext{Allocator: a})
	if got := s.Element().Style("transform"); got != "" {
		t.Errorf("transform = %q, want unset", got)
	}
}

// --- Size ---

func TestSurfaceMeasureAxis(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{Size: &Size{Measure, Px(30)}})
	s.Setup(a)
	s.Element().(*HTMLElement).SetClientSize(120, 999)
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})

	w, h, ok := s.ActualSize()
	if !ok || w != 120 || h != 30 {
		t.Errorf("ActualSize = %v, %v, %v; want 120, 30, true", w, h, ok)
	}
	el := s.Element()
	if got := el.Style("width"); got != "" {
		t.Errorf("measured width style = %q, want unset", got)
	}
	if got := el.Style("height"); got != "30px" {
		t.Errorf("height = %q, want 30px", got)
	}
}

func TestSurfaceInheritAxisTakesContextSize(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{Size: &Size{Inherit, Px(30)}})
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	w, h, _ := s.ActualSize()
	if w != 800 || h != 30 {
		t.Errorf("ActualSize = %v x %v, want 800 x 30", w, h)
	}
}

func TestSurfaceNoSizeWritesWithoutAnySize(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	cmd := at(0, 0)
	cmd.Size = nil
	s.Commit(CommitContext{DrawCommand: cmd, Allocator: a})
	if _, _, ok := s.ActualSize(); ok {
		t.Error("ActualSize reported a size")
	}
	if got := s.Element().Style("width"); got != "" {
		t.Errorf("width = %q, want unset", got)
	}
}

func TestSurfaceGetSize(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	if !s.GetSize().IsZero() {
		t.Errorf("GetSize before commit = %v", s.GetSize())
	}
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	if got := s.GetSize(); got != SizeOf(800, 600) {
		t.Errorf("GetSize = %v, want committed size", got)
	}
	s.SetSize(SizePtr(5, 6))
	if got := s.GetSize(); got != SizeOf(5, 6) {
		t.Errorf("GetSize = %v, want override", got)
	}
}

// --- Classes ---

func TestSurfaceClassReconcile(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{Classes: []string{"a", "b"}})
	ctx := CommitContext{DrawCommand: at(0, 0), Allocator: a}
	s.Commit(ctx)

	s.SetClasses([]string{"b", "c"})
	s.Commit(ctx)
	if diff := cmp.Diff([]string{DefaultElementClass, "b", "c"}, s.Element().Classes()); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c"}, s.ClassList()); diff != "" {
		t.Errorf("class list mismatch (-want +got):\n%s", diff)
	}
}

// --- Cleanup ---

func TestSurfaceCleanupRecallsContent(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	el := s.Element()

	s.Cleanup(a)
	if s.Element() != nil {
		t.Error("surface still bound after cleanup")
	}
	f, ok := s.Content().(Fragment)
	if !ok {
		t.Fatalf("content after cleanup is %T, want a Fragment", s.Content())
	}
	if f.Len() != 1 || f.(*HTMLFragment).Text() != "hi" {
		t.Errorf("recalled fragment = %d nodes, %q", f.Len(), f.(*HTMLFragment).Text())
	}
	if got := el.TextContent(); got != "" {
		t.Errorf("pooled element still holds %q", got)
	}
	if got := el.Style("transform"); got != invisibleTransform {
		t.Errorf("pooled transform = %q, want invisible", got)
	}
	if got := el.Style("display"); got != "none" {
		t.Errorf("pooled display = %q, want none", got)
	}
	if got := el.Classes(); len(got) != 0 {
		t.Errorf("pooled classes = %v, want none", got)
	}
	if got := a.FreeCount("div"); got != 1 {
		t.Errorf("FreeCount = %d, want 1", got)
	}
}

func TestSurfaceCleanupSetupCommitRestores(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	ctx := CommitContext{DrawCommand: at(10, 20), Allocator: a}
	s.Commit(ctx)
	s.Cleanup(a)
	s.Setup(a)
	s.Commit(ctx)

	_, _, fa := newTestAllocator()
	fresh := NewSurface(nil, testOptions())
	fresh.Commit(CommitContext{DrawCommand: at(10, 20), Allocator: fa})

	if diff := cmp.Diff(styleMap(fresh.Element()), styleMap(s.Element())); diff != "" {
		t.Errorf("styles differ from a fresh surface (-fresh +restored):\n%s", diff)
	}
	if diff := cmp.Diff(fresh.Element().Classes(), s.Element().Classes()); diff != "" {
		t.Errorf("classes differ from a fresh surface (-fresh +restored):\n%s", diff)
	}
	if got := s.Element().TextContent(); got != "hi" {
		t.Errorf("redeployed content = %q, want hi", got)
	}
}

// --- Events ---

func TestSurfaceForwardsElementEvents(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	var got *Event
	s.On("click", func(ev *Event) { got = ev })

	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	el := s.Element().(*HTMLElement)
	if !el.Dispatch("click", "payload") {
		t.Fatal("no listener attached to the element")
	}
	if got == nil {
		t.Fatal("handler not called")
	}
	if got.Origin != s || got.Payload != "payload" || got.Type != "click" {
		t.Errorf("event = %+v", got)
	}

	s.Cleanup(a)
	if n := el.ListenerCount("click"); n != 0 {
		t.Errorf("listeners after cleanup = %d, want 0", n)
	}
}

func TestSurfaceOnWhileMounted(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	s.On("keydown", func(*Event) {})
	if n := s.Element().(*HTMLElement).ListenerCount("keydown"); n != 1 {
		t.Errorf("listeners = %d, want 1", n)
	}
}

func TestSurfaceCleanupDetachesRemovedHandlers(t *testing.T) {
	_, _, a := newTestAllocator()
	first := NewSurface(nil, SurfaceOptions{})
	var sink Notifier
	piped := 0
	sink.On("click", func(*Event) { piped++ })
	first.Pipe(&sink)

	h := first.On("click", func(*Event) {})
	first.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	el := first.Element().(*HTMLElement)
	h.Remove()
	first.Cleanup(a)
	if n := el.ListenerCount("click"); n != 0 {
		t.Fatalf("pooled element listeners = %d, want 0", n)
	}

	second := NewSurface(nil, SurfaceOptions{})
	second.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	if second.Element() != Element(el) {
		t.Fatal("second surface did not reuse the pooled element")
	}
	el.Dispatch("click", nil)
	if piped != 0 {
		t.Errorf("reused element delivered %d clicks to the previous surface", piped)
	}
}

func TestSurfaceOnTwiceAttachesOnce(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	s.On("click", func(*Event) {})
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	s.On("click", func(*Event) {})
	el := s.Element().(*HTMLElement)
	s.Cleanup(a)
	if n := el.ListenerCount("click"); n != 0 {
		t.Errorf("listeners after cleanup = %d, want 0", n)
	}
}

func TestSurfaceZIndexFollowsDepth(t *testing.T) {
	doc, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	ctx := CommitContext{DrawCommand: at(0, 0), Allocator: a}
	s.Commit(ctx)
	el := s.Element()
	if got := el.Style("z-index"); got != "" {
		t.Errorf("flat surface z-index = %q, want unset", got)
	}

	ctx.Transform = TransformPtr(Translate(0, 0, 0.5))
	s.Commit(ctx)
	if got := el.Style("z-index"); got != "500000" {
		t.Errorf("z-index = %q, want 500000", got)
	}

	doc.ResetWrites()
	s.Commit(ctx)
	if doc.Writes() != 0 {
		t.Errorf("unchanged depth performed %d writes", doc.Writes())
	}

	s.Cleanup(a)
	if got := el.Style("z-index"); got != "" {
		t.Errorf("pooled element z-index = %q, want cleared", got)
	}
}

func TestSurfaceDeployAndRecallEvents(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, testOptions())
	var seen []string
	s.On("deploy", func(ev *Event) { seen = append(seen, ev.Type) })
	s.On("recall", func(ev *Event) { seen = append(seen, ev.Type) })

	ctx := CommitContext{DrawCommand: at(0, 0), Allocator: a}
	s.Commit(ctx)
	s.Commit(ctx)
	s.Cleanup(a)
	if diff := cmp.Diff([]string{"deploy", "recall"}, seen); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceRegistersWithRegistry(t *testing.T) {
	reg := NewRegistry()
	s0 := NewSurface(reg, SurfaceOptions{})
	s1 := NewSurface(reg, SurfaceOptions{})
	if s0.ID() != 0 || s1.ID() != 1 {
		t.Errorf("IDs = %d, %d; want 0, 1", s0.ID(), s1.ID())
	}
	if reg.Get(1) != Committer(s1) {
		t.Error("registry does not return the surface")
	}
	if s0.Render() != EntityID(0) {
		t.Errorf("Render = %v, want 0", s0.Render())
	}
	if NewSurface(nil, SurfaceOptions{}).ID() != NoEntity {
		t.Error("unregistered surface should report NoEntity")
	}
}

func TestSurfaceElementType(t *testing.T) {
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{ElementType: "canvas", ElementClasses: []string{"gl"}})
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	el := s.Element()
	if el.TagName() != "canvas" {
		t.Errorf("TagName = %q", el.TagName())
	}
	if !el.HasClass("gl") || el.HasClass(DefaultElementClass) {
		t.Errorf("classes = %v, want only gl", el.Classes())
	}
}
