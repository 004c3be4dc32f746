package veneer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDocument is a headless Document backed by golang.org/x/net/html nodes.
// It performs no layout: element boxes come from explicit width/height styles
// or from SetClientSize. Every write is counted and can be observed, which
// makes it the backend of choice for tests and server-side snapshots.
type HTMLDocument struct {
	dpr      float64
	writes   int
	observer func(Mutation)
	elements map[*html.Node]*HTMLElement
}

// NewHTMLDocument creates an empty document with a device pixel ratio of 1.
func NewHTMLDocument() *HTMLDocument {
	return &HTMLDocument{
		dpr:      1,
		elements: make(map[*html.Node]*HTMLElement),
	}
}

// SetDevicePixelRatio sets the ratio reported to surfaces.
func (d *HTMLDocument) SetDevicePixelRatio(r float64) {
	d.dpr = r
}

// DevicePixelRatio implements Document.
func (d *HTMLDocument) DevicePixelRatio() float64 {
	return d.dpr
}

// SetObserver installs fn to be called after every write. Pass nil to remove.
func (d *HTMLDocument) SetObserver(fn func(Mutation)) {
	d.observer = fn
}

// Writes returns the number of writes performed since creation or the last
// ResetWrites. SetStyle always counts; class changes count only when they
// change the class list.
func (d *HTMLDocument) Writes() int {
	return d.writes
}

// ResetWrites zeroes the write counter.
func (d *HTMLDocument) ResetWrites() {
	d.writes = 0
}

func (d *HTMLDocument) record(m Mutation) {
	d.writes++
	if d.observer != nil {
		d.observer(m)
	}
}

// CreateElement implements Document.
func (d *HTMLDocument) CreateElement(tag string) Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	e := &HTMLElement{doc: d, node: n}
	d.elements[n] = e
	return e
}

// CreateContainer implements Document. The container is a detached div.
func (d *HTMLDocument) CreateContainer() Container {
	return d.NewContainer("div")
}

// NewContainer returns a detached container element of the given tag.
func (d *HTMLDocument) NewContainer(tag string) *HTMLContainer {
	tag = strings.ToLower(tag)
	return &HTMLContainer{
		doc: d,
		node: &html.Node{
			Type:     html.ElementNode,
			Data:     tag,
			DataAtom: atom.Lookup([]byte(tag)),
		},
	}
}

// HTMLContainer is a mount point in an HTMLDocument.
type HTMLContainer struct {
	doc  *HTMLDocument
	node *html.Node
}

// Node returns the underlying html node.
func (c *HTMLContainer) Node() *html.Node {
	return c.node
}

// AppendChild implements Container. An element already attached elsewhere is
// moved.
func (c *HTMLContainer) AppendChild(e Element) {
	el := c.doc.own(e)
	if p := el.node.Parent; p != nil {
		p.RemoveChild(el.node)
	}
	c.node.AppendChild(el.node)
	c.doc.record(Mutation{Kind: MutationTree, Target: e, Name: "append"})
}

// RemoveChild implements Container. Removing an element that is not a child
// is a no-op.
func (c *HTMLContainer) RemoveChild(e Element) {
	el := c.doc.own(e)
	if el.node.Parent != c.node {
		return
	}
	c.node.RemoveChild(el.node)
	c.doc.record(Mutation{Kind: MutationTree, Target: e, Name: "remove"})
}

// Children implements Container.
func (c *HTMLContainer) Children() []Element {
	var out []Element
	for n := c.node.FirstChild; n != nil; n = n.NextSibling {
		if el, ok := c.doc.elements[n]; ok {
			out = append(out, el)
		}
	}
	return out
}

func (d *HTMLDocument) own(e Element) *HTMLElement {
	el, ok := e.(*HTMLElement)
	if !ok || el.doc != d {
		panic("veneer: element belongs to a different document")
	}
	return el
}

// HTMLElement is an Element of an HTMLDocument.
type HTMLElement struct {
	doc  *HTMLDocument
	node *html.Node

	classes   []string
	styleKeys []string
	styles    map[string]string
	listeners map[string][]EventListener

	clientW, clientH float64
	measured         bool
}

// Node returns the underlying html node.
func (e *HTMLElement) Node() *html.Node {
	return e.node
}

// TagName implements Element.
func (e *HTMLElement) TagName() string {
	return e.node.Data
}

// AddClass implements Element.
func (e *HTMLElement) AddClass(name string) {
	if name == "" || e.HasClass(name) {
		return
	}
	e.classes = append(e.classes, name)
	e.syncClassAttr()
	e.doc.record(Mutation{Kind: MutationAddClass, Target: e, Name: name})
}

// RemoveClass implements Element.
func (e *HTMLElement) RemoveClass(name string) {
	for i, c := range e.classes {
		if c == name {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			e.syncClassAttr()
			e.doc.record(Mutation{Kind: MutationRemoveClass, Target: e, Name: name})
			return
		}
	}
}

// HasClass implements Element.
func (e *HTMLElement) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// Classes implements Element.
func (e *HTMLElement) Classes() []string {
	return append([]string(nil), e.classes...)
}

// SetStyle implements Element.
func (e *HTMLElement) SetStyle(name, value string) {
	if e.styles == nil {
		e.styles = make(map[string]string)
	}
	_, had := e.styles[name]
	switch {
	case value == "" && had:
		delete(e.styles, name)
		for i, k := range e.styleKeys {
			if k == name {
				e.styleKeys = append(e.styleKeys[:i], e.styleKeys[i+1:]...)
				break
			}
		}
	case value != "":
		if !had {
			e.styleKeys = append(e.styleKeys, name)
		}
		e.styles[name] = value
	}
	e.syncStyleAttr()
	e.doc.record(Mutation{Kind: MutationStyle, Target: e, Name: name, Value: value})
}

// Style implements Element.
func (e *HTMLElement) Style(name string) string {
	return e.styles[name]
}

// StyleNames returns the set style properties in the order they were first set.
func (e *HTMLElement) StyleNames() []string {
	return append([]string(nil), e.styleKeys...)
}

func (e *HTMLElement) syncClassAttr() {
	setAttr(e.node, "class", strings.Join(e.classes, " "))
}

func (e *HTMLElement) syncStyleAttr() {
	var b strings.Builder
	for i, k := range e.styleKeys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.styles[k])
		b.WriteByte(';')
	}
	setAttr(e.node, "style", b.String())
}

// setAttr sets key on n, removing the attribute when val is empty.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key != key {
			continue
		}
		if val == "" {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
		} else {
			n.Attr[i].Val = val
		}
		return
	}
	if val != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	}
}

// SetInnerHTML implements Element. Markup that fails to parse is inserted as
// text.
func (e *HTMLElement) SetInnerHTML(markup string) {
	removeAllChildren(e.node)
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		Logger().Warn("veneer: markup parse failed, inserting as text", "tag", e.node.Data, "err", err)
		nodes = []*html.Node{{Type: html.TextNode, Data: markup}}
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	e.doc.record(Mutation{Kind: MutationContent, Target: e, Value: markup})
}

// ReplaceChildren implements Element.
func (e *HTMLElement) ReplaceChildren(f Fragment) {
	removeAllChildren(e.node)
	if hf, ok := f.(*HTMLFragment); ok && hf != nil {
		moveChildren(hf.node, e.node)
	}
	e.doc.record(Mutation{Kind: MutationContent, Target: e})
}

// TakeChildren implements Element.
func (e *HTMLElement) TakeChildren() Fragment {
	f := newHTMLFragment()
	moveChildren(e.node, f.node)
	e.doc.record(Mutation{Kind: MutationContent, Target: e})
	return f
}

// TextContent implements Element.
func (e *HTMLElement) TextContent() string {
	return textOf(e.node)
}

// SetClientSize sets the box reported by ClientWidth and ClientHeight, standing
// in for browser layout.
func (e *HTMLElement) SetClientSize(w, h float64) {
	e.clientW, e.clientH = w, h
	e.measured = true
}

// ClientWidth implements Element. Without SetClientSize it reports the width
// style, if any.
func (e *HTMLElement) ClientWidth() float64 {
	if e.measured {
		return e.clientW
	}
	return parsePx(e.styles["width"])
}

// ClientHeight implements Element.
func (e *HTMLElement) ClientHeight() float64 {
	if e.measured {
		return e.clientH
	}
	return parsePx(e.styles["height"])
}

// AddEventListener implements Element. Adding the same listener twice for one
// type has no effect.
func (e *HTMLElement) AddEventListener(eventType string, l EventListener) {
	for _, x := range e.listeners[eventType] {
		if x == l {
			return
		}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], l)
	e.doc.record(Mutation{Kind: MutationListener, Target: e, Name: eventType, Value: "add"})
}

// RemoveEventListener implements Element.
func (e *HTMLElement) RemoveEventListener(eventType string, l EventListener) {
	ls := e.listeners[eventType]
	for i, x := range ls {
		if x == l {
			e.listeners[eventType] = append(ls[:i], ls[i+1:]...)
			e.doc.record(Mutation{Kind: MutationListener, Target: e, Name: eventType, Value: "remove"})
			return
		}
	}
}

// ListenerCount reports how many listeners are attached for eventType.
func (e *HTMLElement) ListenerCount(eventType string) int {
	return len(e.listeners[eventType])
}

// Dispatch delivers an event of the given type to the element's listeners, the
// way a browser would for user input. It reports whether any listener ran.
func (e *HTMLElement) Dispatch(eventType string, payload any) bool {
	ls := e.listeners[eventType]
	if len(ls) == 0 {
		return false
	}
	ev := &Event{Type: eventType, Payload: payload}
	for _, l := range append([]EventListener(nil), ls...) {
		l.HandleEvent(ev)
	}
	return true
}

// HTMLFragment is a Fragment of an HTMLDocument.
type HTMLFragment struct {
	node *html.Node
}

func newHTMLFragment() *HTMLFragment {
	return &HTMLFragment{node: &html.Node{Type: html.DocumentNode}}
}

// ParseFragment parses markup into a detached fragment.
func ParseFragment(markup string) (*HTMLFragment, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	f := newHTMLFragment()
	for _, n := range nodes {
		f.node.AppendChild(n)
	}
	return f, nil
}

func (*HTMLFragment) isContent() {}

// Len implements Fragment.
func (f *HTMLFragment) Len() int {
	n := 0
	for c := f.node.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return n
}

// Text returns the concatenated text held by the fragment.
func (f *HTMLFragment) Text() string {
	return textOf(f.node)
}

// Snapshot writes the markup of c, which must belong to an HTMLDocument.
func Snapshot(w io.Writer, c Container) error {
	hc, ok := c.(*HTMLContainer)
	if !ok {
		return fmt.Errorf("snapshot: unsupported container %T", c)
	}
	if err := html.Render(w, hc.node); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

func removeAllChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func moveChildren(src, dst *html.Node) {
	for c := src.FirstChild; c != nil; c = src.FirstChild {
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// parsePx reads a CSS pixel length such as "120px". Anything else is 0.
func parsePx(v string) float64 {
	v = strings.TrimSpace(v)
	if !strings.HasSuffix(v, "px") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0
	}
	return f
}
