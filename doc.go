// Package veneer is a retained-mode scene-graph renderer that draws into a
// pool of reusable document elements.
//
// A frame has two phases. The resolve phase flattens a declarative [Spec] tree
// into one [DrawCommand] per leaf: world transform, opacity, origin, align and
// size. The commit phase hands each command to the [Surface] registered under
// the leaf's [EntityID]; the surface diffs it against what it last pushed and
// writes only the styles that changed. Elements are borrowed from an
// [ElementAllocator] and are never destroyed, only returned to a per-tag pool.
//
// # Quick start
//
// A [Scene] wires the pieces together:
//
//	scene := veneer.NewScene(veneer.NewHTMLDocument(), nil, veneer.SceneConfig{
//		Size: veneer.SizeOf(800, 600),
//	})
//	box := scene.NewSurface(veneer.SurfaceOptions{Size: veneer.SizePtr(100, 100)})
//	mod := veneer.NewStateModifier()
//	mod.SetPosition(50, 50)
//	scene.Root().Add(mod).Add(box)
//	scene.Commit()
//
// To preview a scene in a window, see the ebitenhost package. In a browser
// built with GOOS=js GOARCH=wasm, use NewJSDocument and mount into the page.
//
// # Specs
//
// A [Spec] is one of:
//
//   - an [EntityID], a leaf naming a registered renderable (0 is valid)
//   - [Specs], a list resolved in order against the same parent context
//   - a *[SpecNode], which applies transform, opacity, origin, align and size
//     to its target
//
// Transforms compose by multiplication, opacities multiply, and a size node
// fixes the frame in which nested align and origin offsets are measured.
// Sizes are per axis: a fixed pixel value, [Inherit] to take the parent's
// axis, or [Measure] to read the element's rendered box after content is
// deployed.
//
// # Surfaces
//
// A [Surface] keeps classes, styles, content and size between frames and
// tracks which of them changed. Committing the same command twice performs no
// writes on the second commit. A surface that leaves the tree is hidden, and
// after a configurable number of absent frames its content is recalled into a
// detached fragment and its element goes back to the pool.
//
// # Sequences
//
// [ViewSequence] is a lazily materialized cursor over an ordered collection,
// optionally looping. Nodes are created on first traversal and keep their
// identity across Splice, Swap, Push and Unshift.
//
// # Events
//
// [Notifier] gives surfaces, views and scenes a small publish/subscribe
// surface. Element events are forwarded to the surface that owns the element
// while it is mounted.
//
// # Logging
//
// veneer logs through log/slog and is silent until [SetLogger] installs a
// logger.
package veneer
