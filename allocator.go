package veneer

import "strings"

// ElementAllocator pools backend elements by tag name. Elements are created on
// demand, appended to the container once, and never destroyed: deallocated
// elements wait in a per-tag stack for the next Allocate of that tag. Capacity
// only grows, which trades memory for avoiding create/destroy reflows.
type ElementAllocator struct {
	doc       Document
	container Container
	detached  map[string][]Element
	nodeCount int
}

// NewElementAllocator creates an allocator mounting into container. A nil
// container is replaced by a detached one from doc, to be migrated later.
func NewElementAllocator(doc Document, container Container) *ElementAllocator {
	if container == nil {
		container = doc.CreateContainer()
	}
	return &ElementAllocator{
		doc:       doc,
		container: container,
		detached:  make(map[string][]Element),
	}
}

// Document returns the document elements are created from.
func (a *ElementAllocator) Document() Document {
	return a.doc
}

// Container returns the current mount point.
func (a *ElementAllocator) Container() Container {
	return a.container
}

// Allocate returns an element of the given tag, reusing the most recently
// deallocated one when available.
func (a *ElementAllocator) Allocate(tag string) Element {
	tag = strings.ToLower(tag)
	var e Element
	if stack := a.detached[tag]; len(stack) > 0 {
		e = stack[len(stack)-1]
		stack[len(stack)-1] = nil
		a.detached[tag] = stack[:len(stack)-1]
	} else {
		e = a.doc.CreateElement(tag)
		a.container.AppendChild(e)
		if _, ok := a.detached[tag]; !ok {
			a.detached[tag] = nil
		}
		logger.Debug("veneer: pool grew", "tag", tag, "live", a.nodeCount+1)
	}
	a.nodeCount++
	return e
}

// Deallocate returns e to its tag's free stack. The caller must already have
// stripped its listeners and visual state. Panics if no element of that tag
// was ever allocated here.
func (a *ElementAllocator) Deallocate(e Element) {
	tag := strings.ToLower(e.TagName())
	stack, ok := a.detached[tag]
	if !ok {
		panic("veneer: deallocate of a " + tag + " element not allocated here")
	}
	a.detached[tag] = append(stack, e)
	a.nodeCount--
}

// Migrate moves every pooled element, live or free, into container. Element
// identity and free-stack membership are preserved.
func (a *ElementAllocator) Migrate(container Container) {
	old := a.container
	if container == old {
		return
	}
	for _, e := range old.Children() {
		old.RemoveChild(e)
		container.AppendChild(e)
	}
	a.container = container
}

// NodeCount returns the number of live (allocated, not yet returned) elements.
func (a *ElementAllocator) NodeCount() int {
	return a.nodeCount
}

// FreeCount returns the number of pooled elements of tag awaiting reuse.
func (a *ElementAllocator) FreeCount(tag string) int {
	return len(a.detached[strings.ToLower(tag)])
}
