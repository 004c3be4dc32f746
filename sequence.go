package veneer

import (
	"slices"
	"strconv"
)

// noSlot marks an absent link between sequence nodes.
const noSlot int32 = -1

// Backing is the ordered collection shared by every node of a ViewSequence,
// together with the arena of nodes materialized so far.
//
// Nodes link to their neighbors by arena slot, never by pointer, and a small
// index map finds an already-materialized node for a logical position. Links
// are a cache: a missing link is rebuilt from the map, or by materializing a
// new node, on the next traversal. Slots of nodes removed by Splice are
// recycled, so the arena never outgrows the live node count.
type Backing struct {
	values     []Renderable
	firstIndex int
	loop       bool

	nodes   []*ViewSequence
	free    []int32 // slots of detached nodes, reused by materialize
	byIndex map[int]int32
}

// ViewSequence is a cursor into a Backing. Neighbors are created on first
// traversal and cached, so only visited positions ever have nodes.
type ViewSequence struct {
	b       *Backing
	slot    int32
	index   int
	prev    int32
	next    int32
	removed bool
}

// SequenceOptions configures NewViewSequence.
type SequenceOptions struct {
	// Index is the logical index of the returned node.
	Index int
	// Loop makes traversal wrap around at both ends.
	Loop bool
}

// NewViewSequence creates a backing over values and returns its node at
// opts.Index. The sequence takes ownership of values.
func NewViewSequence(values []Renderable, opts SequenceOptions) *ViewSequence {
	b := &Backing{
		values:  values,
		loop:    opts.Loop,
		byIndex: make(map[int]int32),
	}
	return b.materialize(opts.Index)
}

// Len returns the number of values in the backing.
func (b *Backing) Len() int {
	return len(b.values)
}

// FirstIndex returns the logical index of the first value. It goes negative as
// values are unshifted.
func (b *Backing) FirstIndex() int {
	return b.firstIndex
}

// LastIndex returns the logical index of the last value.
func (b *Backing) LastIndex() int {
	return b.firstIndex + len(b.values) - 1
}

// Loop reports whether traversal wraps around.
func (b *Backing) Loop() bool {
	return b.loop
}

// SetLoop turns wraparound on or off.
func (b *Backing) SetLoop(loop bool) {
	if b.loop && !loop {
		b.clearWrapLinks()
	}
	b.loop = loop
}

// Materialized returns the number of live nodes created so far.
func (b *Backing) Materialized() int {
	return len(b.byIndex)
}

// First returns the node at FirstIndex if it has been materialized.
func (b *Backing) First() *ViewSequence {
	return b.lookup(b.firstIndex)
}

// Last returns the node at LastIndex if it has been materialized.
func (b *Backing) Last() *ViewSequence {
	return b.lookup(b.LastIndex())
}

func (b *Backing) lookup(index int) *ViewSequence {
	if slot, ok := b.byIndex[index]; ok {
		return b.nodes[slot]
	}
	return nil
}

func (b *Backing) value(index int) Renderable {
	i := index - b.firstIndex
	if i < 0 || i >= len(b.values) {
		return nil
	}
	return b.values[i]
}

func (b *Backing) setValue(index int, v Renderable) {
	b.values[index-b.firstIndex] = v
}

// materialize returns the live node at index, creating it if needed.
func (b *Backing) materialize(index int) *ViewSequence {
	if n := b.lookup(index); n != nil {
		return n
	}
	n := &ViewSequence{
		b:     b,
		index: index,
		prev:  noSlot,
		next:  noSlot,
	}
	if k := len(b.free); k > 0 {
		n.slot = b.free[k-1]
		b.free = b.free[:k-1]
		b.nodes[n.slot] = n
	} else {
		n.slot = int32(len(b.nodes))
		b.nodes = append(b.nodes, n)
	}
	b.byIndex[index] = n.slot
	return n
}

// node returns the node in slot, or nil for noSlot and freed slots.
func (b *Backing) node(slot int32) *ViewSequence {
	if slot == noSlot {
		return nil
	}
	return b.nodes[slot]
}

func (b *Backing) link(prev, next *ViewSequence) {
	prev.next = next.slot
	next.prev = prev.slot
}

// clearWrapLinks drops the links joining the last node to the first. They go
// stale whenever the length changes.
func (b *Backing) clearWrapLinks() {
	if first := b.First(); first != nil && first.prev != noSlot {
		if b.nodes[first.prev].next == first.slot {
			b.nodes[first.prev].next = noSlot
		}
		first.prev = noSlot
	}
	if last := b.Last(); last != nil && last.next != noSlot {
		if b.nodes[last.next].prev == last.slot {
			b.nodes[last.next].prev = noSlot
		}
		last.next = noSlot
	}
}

// Backing returns the shared backing.
func (s *ViewSequence) Backing() *Backing {
	return s.b
}

// Index returns the node's logical index.
func (s *ViewSequence) Index() int {
	return s.index
}

// Get returns the value at this node, or nil for a node removed by Splice.
func (s *ViewSequence) Get() Renderable {
	if s.removed {
		return nil
	}
	return s.b.value(s.index)
}

// Next returns the node after this one, materializing it on first use. At the
// last index it wraps to the first when the backing loops and returns nil
// otherwise.
func (s *ViewSequence) Next() *ViewSequence {
	b := s.b
	if s.removed || len(b.values) == 0 {
		return nil
	}
	if s.index == b.LastIndex() {
		if !b.loop {
			return nil
		}
		n := b.materialize(b.firstIndex)
		b.link(s, n)
		return n
	}
	if s.next != noSlot {
		return b.nodes[s.next]
	}
	n := b.materialize(s.index + 1)
	b.link(s, n)
	return n
}

// Previous returns the node before this one, materializing it on first use.
// At the first index it wraps to the last when the backing loops and returns
// nil otherwise.
func (s *ViewSequence) Previous() *ViewSequence {
	b := s.b
	if s.removed || len(b.values) == 0 {
		return nil
	}
	if s.index == b.firstIndex {
		if !b.loop {
			return nil
		}
		n := b.materialize(b.LastIndex())
		b.link(n, s)
		return n
	}
	if s.prev != noSlot {
		return b.nodes[s.prev]
	}
	n := b.materialize(s.index - 1)
	b.link(n, s)
	return n
}

// Push appends values to the backing.
func (s *ViewSequence) Push(values ...Renderable) {
	b := s.b
	b.clearWrapLinks()
	b.values = append(b.values, values...)
}

// Unshift prepends values. Existing nodes keep their indices; the backing's
// first index moves down by len(values).
func (s *ViewSequence) Unshift(values ...Renderable) {
	b := s.b
	b.clearWrapLinks()
	b.values = append(append(make([]Renderable, 0, len(values)+len(b.values)), values...), b.values...)
	b.firstIndex -= len(values)
}

// Splice removes removeCount values starting at logical index and inserts
// values in their place. Nodes for removed values are detached; every
// materialized node after the range keeps its identity and has its index
// shifted by len(values)-removeCount. The range must lie within the backing.
func (s *ViewSequence) Splice(index, removeCount int, values ...Renderable) {
	b := s.b
	b.clearWrapLinks()

	end := index + removeCount
	shift := len(values) - removeCount

	var removed, shifted []*ViewSequence
	for idx, slot := range b.byIndex {
		switch {
		case idx >= index && idx < end:
			removed = append(removed, b.nodes[slot])
		case idx >= end && shift != 0:
			shifted = append(shifted, b.nodes[slot])
		}
	}
	for _, n := range removed {
		b.detach(n)
	}
	for _, n := range shifted {
		delete(b.byIndex, n.index)
	}
	for _, n := range shifted {
		n.index += shift
		b.byIndex[n.index] = n.slot
	}

	// Rejoin the seam. Inserted values get nodes lazily.
	pred := b.lookup(index - 1)
	succ := b.lookup(index + len(values))
	if pred != nil {
		pred.next = noSlot
	}
	if succ != nil {
		succ.prev = noSlot
	}
	if pred != nil && succ != nil && len(values) == 0 {
		b.link(pred, succ)
	}

	i := index - b.firstIndex
	b.values = slices.Replace(b.values, i, i+removeCount, values...)
}

// detach marks n removed, drops every link to it and frees its slot. The
// node itself stays valid for callers still holding it.
func (b *Backing) detach(n *ViewSequence) {
	if p := b.node(n.prev); p != nil && p.next == n.slot {
		p.next = noSlot
	}
	if q := b.node(n.next); q != nil && q.prev == n.slot {
		q.prev = noSlot
	}
	n.prev, n.next = noSlot, noSlot
	n.removed = true
	delete(b.byIndex, n.index)
	b.nodes[n.slot] = nil
	b.free = append(b.free, n.slot)
}

// Swap exchanges this node's value and position with other's. Both nodes keep
// their identity and follow their values. Nodes of different backings are
// left alone.
func (s *ViewSequence) Swap(other *ViewSequence) {
	if s == other || s.b != other.b || s.removed || other.removed {
		return
	}
	b := s.b

	myValue, otherValue := s.Get(), other.Get()
	b.setValue(s.index, otherValue)
	b.setValue(other.index, myValue)

	myPrev, myNext, myIndex := s.prev, s.next, s.index
	otherPrev, otherNext, otherIndex := other.prev, other.next, other.index

	// Neighbors that pointed at each other must point at the swapped node.
	s.index = otherIndex
	s.prev = swapSlot(otherPrev, s.slot, other.slot)
	s.next = swapSlot(otherNext, s.slot, other.slot)
	other.index = myIndex
	other.prev = swapSlot(myPrev, other.slot, s.slot)
	other.next = swapSlot(myNext, other.slot, s.slot)

	for _, n := range [2]*ViewSequence{s, other} {
		if n.prev != noSlot {
			b.nodes[n.prev].next = n.slot
		}
		if n.next != noSlot {
			b.nodes[n.next].prev = n.slot
		}
	}
	b.byIndex[s.index] = s.slot
	b.byIndex[other.index] = other.slot
}

// swapSlot returns link, with self replaced by partner.
func swapSlot(link, self, partner int32) int32 {
	if link == self {
		return partner
	}
	return link
}

// Render renders the value at this node, or nothing.
func (s *ViewSequence) Render() Spec {
	v := s.Get()
	if v == nil {
		return nil
	}
	return v.Render()
}

// GetSize returns the value's size when it reports one.
func (s *ViewSequence) GetSize() Size {
	if sz, ok := s.Get().(Sizer); ok {
		return sz.GetSize()
	}
	return Size{}
}

// String returns the node's index, for debugging.
func (s *ViewSequence) String() string {
	return strconv.Itoa(s.index)
}
