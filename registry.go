package veneer

// Committer is a renderable that synchronizes itself with a pooled element
// each frame. Surface is the canonical implementation.
type Committer interface {
	Commit(ctx CommitContext)
	Cleanup(a *ElementAllocator)
}

// CommitContext is what a Committer receives for one frame: its resolved draw
// command and the allocator to borrow elements from.
type CommitContext struct {
	DrawCommand
	Allocator *ElementAllocator
}

// Registry is an arena of committers addressed by EntityID. Identifiers are
// handed out densely and never reused: an unregistered slot is tombstoned, so
// a leaf left over in an old spec resolves to nothing.
type Registry struct {
	entries []Committer
	live    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores c and returns its identifier.
func (r *Registry) Register(c Committer) EntityID {
	id := EntityID(len(r.entries))
	r.entries = append(r.entries, c)
	r.live++
	return id
}

// Get returns the committer for id, or nil if id is unknown or unregistered.
func (r *Registry) Get(id EntityID) Committer {
	if id < 0 || int(id) >= len(r.entries) {
		return nil
	}
	return r.entries[id]
}

// Unregister tombstones id.
func (r *Registry) Unregister(id EntityID) {
	if r.Get(id) == nil {
		return
	}
	r.entries[id] = nil
	r.live--
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return r.live
}
