//go:build js && wasm

package veneer

import (
	"fmt"
	"strconv"
	"strings"
	"syscall/js"
)

// idAttr tags every element created by a JSDocument so Children can map DOM
// nodes back to their wrappers.
const idAttr = "data-veneer-id"

// JSDocument is the live browser backend, driving the page's DOM through
// syscall/js.
type JSDocument struct {
	doc      js.Value
	window   js.Value
	elements []*JSElement
}

// NewJSDocument wraps the global document.
func NewJSDocument() *JSDocument {
	return &JSDocument{
		doc:    js.Global().Get("document"),
		window: js.Global(),
	}
}

// Mount returns the page element matching selector as a Container.
func (d *JSDocument) Mount(selector string) (Container, error) {
	v := d.doc.Call("querySelector", selector)
	if v.IsNull() || v.IsUndefined() {
		return nil, fmt.Errorf("mount %q: no matching element", selector)
	}
	return &JSContainer{doc: d, v: v}, nil
}

// CreateElement implements Document.
func (d *JSDocument) CreateElement(tag string) Element {
	tag = strings.ToLower(tag)
	e := &JSElement{
		doc:       d,
		v:         d.doc.Call("createElement", tag),
		tag:       tag,
		listeners: make(map[string]map[EventListener]js.Func),
	}
	e.v.Call("setAttribute", idAttr, strconv.Itoa(len(d.elements)))
	d.elements = append(d.elements, e)
	return e
}

// CreateContainer implements Document.
func (d *JSDocument) CreateContainer() Container {
	return &JSContainer{doc: d, v: d.doc.Call("createElement", "div")}
}

// DevicePixelRatio implements Document.
func (d *JSDocument) DevicePixelRatio() float64 {
	r := d.window.Get("devicePixelRatio")
	if r.Type() != js.TypeNumber {
		return 1
	}
	return r.Float()
}

// JSContainer is a mount point in the page.
type JSContainer struct {
	doc *JSDocument
	v   js.Value
}

// AppendChild implements Container.
func (c *JSContainer) AppendChild(e Element) {
	c.v.Call("appendChild", e.(*JSElement).v)
}

// RemoveChild implements Container.
func (c *JSContainer) RemoveChild(e Element) {
	v := e.(*JSElement).v
	if v.Get("parentNode").Equal(c.v) {
		c.v.Call("removeChild", v)
	}
}

// Children implements Container.
func (c *JSContainer) Children() []Element {
	kids := c.v.Get("children")
	n := kids.Get("length").Int()
	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		id, err := strconv.Atoi(kids.Index(i).Call("getAttribute", idAttr).String())
		if err != nil || id < 0 || id >= len(c.doc.elements) {
			continue
		}
		out = append(out, c.doc.elements[id])
	}
	return out
}

// JSElement is an Element of a JSDocument.
type JSElement struct {
	doc       *JSDocument
	v         js.Value
	tag       string
	listeners map[string]map[EventListener]js.Func
}

// Value returns the underlying DOM node.
func (e *JSElement) Value() js.Value {
	return e.v
}

func (e *JSElement) TagName() string { return e.tag }

func (e *JSElement) AddClass(name string) {
	e.v.Get("classList").Call("add", name)
}

func (e *JSElement) RemoveClass(name string) {
	e.v.Get("classList").Call("remove", name)
}

func (e *JSElement) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *JSElement) Classes() []string {
	list := e.v.Get("classList")
	n := list.Get("length").Int()
	out := make([]string, n)
	for i := range out {
		out[i] = list.Call("item", i).String()
	}
	return out
}

func (e *JSElement) SetStyle(name, value string) {
	style := e.v.Get("style")
	if value == "" {
		style.Call("removeProperty", name)
		return
	}
	style.Call("setProperty", name, value)
}

func (e *JSElement) Style(name string) string {
	return e.v.Get("style").Call("getPropertyValue", name).String()
}

func (e *JSElement) SetInnerHTML(markup string) {
	e.v.Set("innerHTML", markup)
}

func (e *JSElement) ReplaceChildren(f Fragment) {
	jf, ok := f.(*JSFragment)
	if !ok || jf == nil {
		e.v.Call("replaceChildren")
		return
	}
	e.v.Call("replaceChildren", jf.v)
}

func (e *JSElement) TakeChildren() Fragment {
	frag := e.doc.doc.Call("createDocumentFragment")
	for c := e.v.Get("firstChild"); !c.IsNull(); c = e.v.Get("firstChild") {
		frag.Call("appendChild", c)
	}
	return &JSFragment{v: frag}
}

func (e *JSElement) TextContent() string {
	return e.v.Get("textContent").String()
}

func (e *JSElement) ClientWidth() float64 {
	return e.v.Get("clientWidth").Float()
}

func (e *JSElement) ClientHeight() float64 {
	return e.v.Get("clientHeight").Float()
}

func (e *JSElement) AddEventListener(eventType string, l EventListener) {
	byListener := e.listeners[eventType]
	if byListener == nil {
		byListener = make(map[EventListener]js.Func)
		e.listeners[eventType] = byListener
	}
	if _, ok := byListener[l]; ok {
		return
	}
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := &Event{Type: eventType}
		if len(args) > 0 {
			native := args[0]
			ev.Payload = native
			ev.StopPropagation = func() { native.Call("stopPropagation") }
		}
		l.HandleEvent(ev)
		return nil
	})
	byListener[l] = fn
	e.v.Call("addEventListener", eventType, fn)
}

func (e *JSElement) RemoveEventListener(eventType string, l EventListener) {
	fn, ok := e.listeners[eventType][l]
	if !ok {
		return
	}
	e.v.Call("removeEventListener", eventType, fn)
	delete(e.listeners[eventType], l)
	fn.Release()
}

// JSFragment wraps a DocumentFragment.
type JSFragment struct {
	v js.Value
}

func (*JSFragment) isContent() {}

// Len implements Fragment.
func (f *JSFragment) Len() int {
	return f.v.Get("childNodes").Get("length").Int()
}
