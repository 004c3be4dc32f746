package veneer

import "fmt"

// Modifier rewrites the spec of the subtree beneath it, typically by wrapping
// it in a SpecNode.
type Modifier interface {
	Modify(target Spec) Spec
}

// RenderNode composes renderables and modifiers into a tree. A node holding a
// Modifier wraps the render of its children; a node holding a Renderable
// renders it alongside its children.
type RenderNode struct {
	renderable Renderable
	modifier   Modifier
	parent     *RenderNode
	children   []*RenderNode
}

// NewRenderNode creates a node holding object, which must be a Modifier, a
// Renderable or nil. Modifier wins when object implements both.
func NewRenderNode(object any) *RenderNode {
	n := &RenderNode{}
	switch o := object.(type) {
	case nil:
	case Modifier:
		n.modifier = o
	case Renderable:
		n.renderable = o
	default:
		panic(fmt.Sprintf("veneer: cannot compose %T: not a Renderable or Modifier", object))
	}
	return n
}

// Add creates a child node holding object and returns it, so chains such as
// root.Add(mod).Add(surface) nest.
func (n *RenderNode) Add(object any) *RenderNode {
	if object == nil {
		panic("veneer: cannot add nil child")
	}
	child, ok := object.(*RenderNode)
	if !ok {
		child = NewRenderNode(object)
	} else if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// RemoveChild detaches child. Panics if child is not a child of n.
func (n *RenderNode) RemoveChild(child *RenderNode) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			child.parent = nil
			return
		}
	}
	panic("veneer: child's parent is not this node")
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *RenderNode) Children() []*RenderNode {
	return n.children
}

// Object returns the Modifier or Renderable held by the node, or nil.
func (n *RenderNode) Object() any {
	if n.modifier != nil {
		return n.modifier
	}
	if n.renderable != nil {
		return n.renderable
	}
	return nil
}

// Render implements Renderable.
func (n *RenderNode) Render() Spec {
	var kids Spec
	switch len(n.children) {
	case 0:
	case 1:
		kids = n.children[0].Render()
	default:
		list := make(Specs, 0, len(n.children))
		for _, c := range n.children {
			if s := c.Render(); s != nil {
				list = append(list, s)
			}
		}
		kids = list
	}

	switch {
	case n.modifier != nil:
		return n.modifier.Modify(kids)
	case n.renderable != nil:
		own := n.renderable.Render()
		if kids == nil {
			return own
		}
		return Specs{own, kids}
	}
	return kids
}

// GetSize returns the size of the held object, or of the first child when the
// object reports none.
func (n *RenderNode) GetSize() Size {
	if s, ok := n.Object().(Sizer); ok {
		if size := s.GetSize(); !size.IsZero() {
			return size
		}
	}
	if len(n.children) > 0 {
		return n.children[0].GetSize()
	}
	return Size{}
}
