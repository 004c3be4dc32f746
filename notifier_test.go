package veneer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNotifierOnEmit(t *testing.T) {
	var n Notifier
	var got []string
	n.On("tick", func(ev *Event) { got = append(got, "first:"+ev.Type) })
	n.On("tick", func(ev *Event) { got = append(got, "second:"+ev.Type) })

	if !n.Emit("tick", nil) {
		t.Error("Emit reported no handler ran")
	}
	if diff := cmp.Diff([]string{"first:tick", "second:tick"}, got); diff != "" {
		t.Errorf("handler order mismatch (-want +got):\n%s", diff)
	}
	if n.Emit("other", nil) {
		t.Error("Emit of an unhandled type reported handled")
	}
}

func TestNotifierRemoveListener(t *testing.T) {
	var n Notifier
	calls := 0
	h := n.On("tick", func(*Event) { calls++ })
	n.Emit("tick", nil)
	h.Remove()
	h.Remove()
	n.Emit("tick", nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.ListenerCount("tick") != 0 {
		t.Errorf("ListenerCount = %d, want 0", n.ListenerCount("tick"))
	}
	if len(n.EventTypes()) != 0 {
		t.Errorf("EventTypes = %v, want none", n.EventTypes())
	}
}

func TestNotifierHandlerRemovesItself(t *testing.T) {
	var n Notifier
	calls := 0
	var h ListenerHandle
	h = n.On("tick", func(*Event) {
		calls++
		h.Remove()
	})
	n.On("tick", func(*Event) { calls++ })
	n.Emit("tick", nil)
	n.Emit("tick", nil)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestNotifierEventTypesOrder(t *testing.T) {
	var n Notifier
	n.On("b", func(*Event) {})
	n.On("a", func(*Event) {})
	n.On("b", func(*Event) {})
	if diff := cmp.Diff([]string{"b", "a"}, n.EventTypes()); diff != "" {
		t.Errorf("EventTypes mismatch (-want +got):\n%s", diff)
	}
}

func TestNotifierPipeForwards(t *testing.T) {
	var src, dst Notifier
	var got *Event
	dst.On("ping", func(ev *Event) { got = ev })

	src.Pipe(&dst)
	src.Pipe(&dst)
	ev := &Event{Payload: 42}
	if !src.Emit("ping", ev) {
		t.Error("Emit through a pipe reported unhandled")
	}
	if got != ev || got.Type != "ping" {
		t.Errorf("forwarded event = %+v", got)
	}

	calls := 0
	dst.On("ping", func(*Event) { calls++ })
	src.Emit("ping", nil)
	if calls != 1 {
		t.Errorf("duplicate pipe delivered %d times, want 1", calls)
	}

	src.Unpipe(&dst)
	if src.Emit("ping", nil) {
		t.Error("event still forwarded after Unpipe")
	}
}

// subscriber records how it was attached.
type subscriber struct {
	Notifier
	subscribed []*Notifier
}

func (s *subscriber) Subscribe(src *Notifier) { s.subscribed = append(s.subscribed, src) }

func (s *subscriber) Unsubscribe(src *Notifier) {
	for i, x := range s.subscribed {
		if x == src {
			s.subscribed = append(s.subscribed[:i], s.subscribed[i+1:]...)
			return
		}
	}
}

func TestNotifierPipeToSubscriber(t *testing.T) {
	var src Notifier
	sub := &subscriber{}
	src.Pipe(sub)
	if len(sub.subscribed) != 1 || sub.subscribed[0] != &src {
		t.Fatalf("subscriber not asked to subscribe: %v", sub.subscribed)
	}
	if len(src.downstream) != 0 {
		t.Error("subscriber target was also forwarded to directly")
	}
	src.Unpipe(sub)
	if len(sub.subscribed) != 0 {
		t.Error("subscriber not asked to unsubscribe")
	}
}

func TestViewInputReceivesPipedEvents(t *testing.T) {
	var src Notifier
	v := NewView(ViewOptions{})
	var got string
	v.Input().On("scroll", func(ev *Event) { got = ev.Type })
	output := 0
	v.On("scroll", func(*Event) { output++ })

	src.Pipe(v)
	src.Emit("scroll", nil)
	if got != "scroll" {
		t.Error("view input did not receive the piped event")
	}
	if output != 0 {
		t.Error("piped event leaked to the view's output")
	}

	src.Unpipe(v)
	got = ""
	src.Emit("scroll", nil)
	if got != "" {
		t.Error("event delivered after Unpipe")
	}
}

func TestSurfaceEmitStopsPropagation(t *testing.T) {
	s := NewSurface(nil, SurfaceOptions{})
	stopped := false
	ev := &Event{StopPropagation: func() { stopped = true }}
	s.Emit("click", ev)
	if stopped {
		t.Error("unhandled event should keep propagating")
	}
	s.On("click", func(*Event) {})
	s.Emit("click", ev)
	if !stopped {
		t.Error("handled event should stop propagating")
	}
	if ev.Origin != s {
		t.Errorf("Origin = %v, want the surface", ev.Origin)
	}
}
