package veneer

// Document creates elements for one rendering backend.
type Document interface {
	// CreateElement returns a new, detached element of the given lower-case
	// tag name.
	CreateElement(tag string) Element
	// CreateContainer returns a detached container, used as a mount point
	// until a real one is available.
	CreateContainer() Container
	// DevicePixelRatio reports how many device pixels make up one CSS pixel.
	DevicePixelRatio() float64
}

// Container is a mount point holding pooled elements.
type Container interface {
	AppendChild(e Element)
	RemoveChild(e Element)
	Children() []Element
}

// Element is a backend node a Surface draws into.
type Element interface {
	// TagName returns the lower-case tag name.
	TagName() string

	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
	// Classes returns the class list in insertion order.
	Classes() []string

	// SetStyle sets one CSS property by its hyphenated name. An empty value
	// removes the property.
	SetStyle(name, value string)
	Style(name string) string

	// SetInnerHTML replaces the element's children with parsed markup.
	SetInnerHTML(markup string)
	// ReplaceChildren replaces the element's children with the nodes of f,
	// leaving f empty.
	ReplaceChildren(f Fragment)
	// TakeChildren moves the element's children into a new detached fragment.
	TakeChildren() Fragment
	// TextContent returns the concatenated text of the element's subtree.
	TextContent() string

	// ClientWidth and ClientHeight report the rendered box in CSS pixels.
	ClientWidth() float64
	ClientHeight() float64

	AddEventListener(eventType string, l EventListener)
	RemoveEventListener(eventType string, l EventListener)
}

// Content is what a Surface deploys into its element: HTML markup or a
// Fragment of detached nodes.
type Content interface {
	isContent()
}

// HTML is markup deployed with SetInnerHTML.
type HTML string

func (HTML) isContent() {}

// Fragment holds detached nodes, typically content recalled from an element
// so that it can be deployed again later.
type Fragment interface {
	Content
	// Len reports the number of top-level nodes held.
	Len() int
}

// EventListener receives events dispatched by an Element. Listeners are
// compared by identity, so implementations should be pointer types.
type EventListener interface {
	HandleEvent(ev *Event)
}

// MutationKind identifies a backend write.
type MutationKind uint8

const (
	MutationAddClass    MutationKind = iota // class added
	MutationRemoveClass                     // class removed
	MutationStyle                           // style property set or cleared
	MutationContent                         // children replaced
	MutationListener                        // event listener attached or detached
	MutationTree                            // element attached to or detached from a container
)

// Mutation describes one backend write, reported to document observers.
type Mutation struct {
	Kind   MutationKind
	Target Element
	Name   string
	Value  string
}
