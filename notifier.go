package veneer

// Event carries a notification between notifiers, surfaces and elements.
type Event struct {
	Type string
	// Origin is the object that first emitted the event. Surfaces fill it in
	// when it is empty.
	Origin  any
	Payload any
	// StopPropagation, when set by a backend, stops the native event from
	// bubbling further. Surfaces call it when a handler consumed the event.
	StopPropagation func()
}

// Handler is a callback registered with On.
type Handler func(ev *Event)

type handlerEntry struct {
	id uint32
	fn Handler
}

// EventTarget is anything events can be forwarded to.
type EventTarget interface {
	Emit(eventType string, ev *Event) bool
}

// Subscriber is an EventTarget that prefers to attach itself to a source, for
// example by piping the source into an internal input notifier. Subscribe must
// not pipe src back into the Subscriber itself.
type Subscriber interface {
	EventTarget
	Subscribe(src *Notifier)
	Unsubscribe(src *Notifier)
}

// ListenerHandle removes a handler registered with On.
type ListenerHandle struct {
	n         *Notifier
	eventType string
	id        uint32
}

// Remove unregisters the handler. Removing twice is a no-op.
func (h ListenerHandle) Remove() {
	if h.n == nil {
		return
	}
	h.n.RemoveListener(h)
}

// Notifier is a publish/subscribe capability meant to be embedded by value.
// The zero value is ready to use.
type Notifier struct {
	listeners  map[string][]handlerEntry
	types      []string
	downstream []EventTarget
	nextID     uint32
}

// On registers fn for eventType and returns a handle that removes it.
func (n *Notifier) On(eventType string, fn Handler) ListenerHandle {
	if n.listeners == nil {
		n.listeners = make(map[string][]handlerEntry)
	}
	if _, seen := n.listeners[eventType]; !seen {
		n.types = append(n.types, eventType)
	}
	n.nextID++
	n.listeners[eventType] = append(n.listeners[eventType], handlerEntry{id: n.nextID, fn: fn})
	return ListenerHandle{n: n, eventType: eventType, id: n.nextID}
}

// RemoveListener unregisters the handler behind h.
func (n *Notifier) RemoveListener(h ListenerHandle) {
	entries := n.listeners[h.eventType]
	for i := range entries {
		if entries[i].id == h.id {
			copy(entries[i:], entries[i+1:])
			entries[len(entries)-1] = handlerEntry{}
			n.listeners[h.eventType] = entries[:len(entries)-1]
			return
		}
	}
}

// ListenerCount reports how many handlers are registered for eventType.
func (n *Notifier) ListenerCount(eventType string) int {
	return len(n.listeners[eventType])
}

// EventTypes returns the event types that currently have handlers, in the
// order they were first registered.
func (n *Notifier) EventTypes() []string {
	var out []string
	for _, t := range n.types {
		if len(n.listeners[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Emit calls every handler registered for eventType, then forwards the event to
// piped targets. It reports whether any handler or target handled it. A nil ev
// is replaced with an empty event.
func (n *Notifier) Emit(eventType string, ev *Event) bool {
	if ev == nil {
		ev = &Event{}
	}
	if ev.Type == "" {
		ev.Type = eventType
	}

	handled := false
	if entries := n.listeners[eventType]; len(entries) > 0 {
		// Handlers may remove themselves while running.
		snapshot := append([]handlerEntry(nil), entries...)
		for _, e := range snapshot {
			e.fn(ev)
		}
		handled = true
	}
	for _, t := range n.downstream {
		if t.Emit(eventType, ev) {
			handled = true
		}
	}
	return handled
}

// Pipe forwards every event emitted by n to t. A Subscriber target is asked to
// subscribe itself instead.
func (n *Notifier) Pipe(t EventTarget) {
	if s, ok := t.(Subscriber); ok {
		s.Subscribe(n)
		return
	}
	for _, x := range n.downstream {
		if x == t {
			return
		}
	}
	n.downstream = append(n.downstream, t)
}

// Unpipe stops forwarding events to t.
func (n *Notifier) Unpipe(t EventTarget) {
	if s, ok := t.(Subscriber); ok {
		s.Unsubscribe(n)
		return
	}
	for i, x := range n.downstream {
		if x == t {
			copy(n.downstream[i:], n.downstream[i+1:])
			n.downstream[len(n.downstream)-1] = nil
			n.downstream = n.downstream[:len(n.downstream)-1]
			return
		}
	}
}
