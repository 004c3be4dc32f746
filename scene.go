package veneer

import (
	"fmt"
	"slices"
	"time"
)

// DefaultRecycleFrames is how many consecutive frames a surface may be missing
// from the render tree before its element goes back to the pool.
const DefaultRecycleFrames = 30

// SceneConfig configures a Scene.
type SceneConfig struct {
	// Size is the initial mount size.
	Size Size
	// RecycleFrames overrides DefaultRecycleFrames when positive. A surface
	// missing for one frame is hidden; once missing for RecycleFrames frames
	// it is cleaned up.
	RecycleFrames int
	// Debug logs per-frame timings and counts at debug level.
	Debug bool
}

// Scene is the root of one mounted render tree. It owns the registry of
// renderables, the element pool and the spec parser, and runs the
// resolve-then-commit pipeline once per frame.
//
// Scene emits "prerender" and "postrender" around every Commit and "resize"
// from SetSize.
type Scene struct {
	Notifier

	doc       Document
	allocator *ElementAllocator
	registry  *Registry
	parser    SpecParser
	root      *RenderNode
	size      Size
	cfg       SceneConfig

	// committed maps every entity holding an element to the number of
	// consecutive frames it has been missing from the tree.
	committed map[EntityID]int
	absentBuf []EntityID

	updateFunc func(dt float32) error
}

// NewScene creates a scene mounting into container. A nil container is
// replaced by a detached one; call Migrate once the real mount point exists.
func NewScene(doc Document, container Container, cfg SceneConfig) *Scene {
	if cfg.RecycleFrames <= 0 {
		cfg.RecycleFrames = DefaultRecycleFrames
	}
	return &Scene{
		doc:       doc,
		allocator: NewElementAllocator(doc, container),
		registry:  NewRegistry(),
		root:      NewRenderNode(nil),
		size:      cfg.Size,
		cfg:       cfg,
		committed: make(map[EntityID]int),
	}
}

// Root returns the root render node.
func (s *Scene) Root() *RenderNode {
	return s.root
}

// Registry returns the scene's registry.
func (s *Scene) Registry() *Registry {
	return s.registry
}

// Allocator returns the scene's element pool.
func (s *Scene) Allocator() *ElementAllocator {
	return s.allocator
}

// Container returns the current mount point.
func (s *Scene) Container() Container {
	return s.allocator.Container()
}

// Document returns the scene's document.
func (s *Scene) Document() Document {
	return s.doc
}

// NewSurface creates a surface registered with this scene.
func (s *Scene) NewSurface(opts SurfaceOptions) *Surface {
	return NewSurface(s.registry, opts)
}

// Size returns the mount size.
func (s *Scene) Size() Size {
	return s.size
}

// SetSize sets the mount size and emits "resize".
func (s *Scene) SetSize(w, h float64) {
	size := SizeOf(w, h)
	if size == s.size {
		return
	}
	s.size = size
	s.Emit("resize", &Event{Origin: s, Payload: size})
}

// SetUpdateFunc sets a function called by Update every frame, for game or app
// logic such as advancing tweens.
func (s *Scene) SetUpdateFunc(fn func(dt float32) error) {
	s.updateFunc = fn
}

// Update runs the update function with the frame's delta time in seconds.
func (s *Scene) Update(dt float32) error {
	if s.updateFunc == nil {
		return nil
	}
	if err := s.updateFunc(dt); err != nil {
		return fmt.Errorf("scene update: %w", err)
	}
	return nil
}

// Migrate moves the scene's elements to a new mount point.
func (s *Scene) Migrate(container Container) {
	s.allocator.Migrate(container)
}

// Release cleans up the entity's element if it holds one and removes it from
// the registry.
func (s *Scene) Release(id EntityID) {
	if _, ok := s.committed[id]; ok {
		if c := s.registry.Get(id); c != nil {
			c.Cleanup(s.allocator)
		}
		delete(s.committed, id)
	}
	s.registry.Unregister(id)
}

// Commit resolves the root's spec and synchronizes every surface with it.
// Surfaces are committed in ascending ID order so that first-time element
// allocation, and therefore stacking order, is deterministic.
func (s *Scene) Commit() {
	s.Emit("prerender", nil)

	var stats debugStats
	var t0 time.Time
	if s.cfg.Debug {
		t0 = time.Now()
	}

	results := s.parser.Parse(s.root.Render(), RootContext(s.size))

	if s.cfg.Debug {
		stats.resolveTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, id := range sortedIDs(results) {
		c := s.registry.Get(id)
		if c == nil {
			logger.Warn("veneer: spec references unregistered entity", "id", id)
			continue
		}
		c.Commit(CommitContext{DrawCommand: results[id], Allocator: s.allocator})
		s.committed[id] = 0
		stats.committed++
	}

	s.absentBuf = s.absentBuf[:0]
	for id := range s.committed {
		if _, ok := results[id]; !ok {
			s.absentBuf = append(s.absentBuf, id)
		}
	}
	slices.Sort(s.absentBuf)
	for _, id := range s.absentBuf {
		c := s.registry.Get(id)
		if c == nil {
			delete(s.committed, id)
			continue
		}
		missing := s.committed[id] + 1
		if missing == 1 {
			c.Commit(CommitContext{Allocator: s.allocator})
			stats.hidden++
		}
		if missing >= s.cfg.RecycleFrames {
			c.Cleanup(s.allocator)
			delete(s.committed, id)
			stats.recycled++
			continue
		}
		s.committed[id] = missing
	}

	if s.cfg.Debug {
		stats.commitTime = time.Since(t0)
		stats.liveElements = s.allocator.NodeCount()
		s.debugLog(stats)
	}

	s.Emit("postrender", nil)
}

func sortedIDs(m map[EntityID]DrawCommand) []EntityID {
	ids := make([]EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
