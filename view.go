package veneer

// ViewOptions configures a View.
type ViewOptions struct {
	// Size is reported by GetSize when the view's contents report none.
	Size *Size
}

// View is a reusable composite: a RenderNode subtree with its own options and
// a pair of notifiers. Events piped into a view arrive on Input; the embedded
// Notifier is the view's output.
type View struct {
	Notifier

	input   Notifier
	node    *RenderNode
	options ViewOptions
}

// NewView creates an empty view.
func NewView(opts ViewOptions) *View {
	return &View{node: NewRenderNode(nil), options: opts}
}

// Input returns the notifier events piped into the view are delivered to.
func (v *View) Input() *Notifier {
	return &v.input
}

// Subscribe implements Subscriber: a source piped to the view feeds its input.
func (v *View) Subscribe(src *Notifier) {
	src.Pipe(&v.input)
}

// Unsubscribe implements Subscriber.
func (v *View) Unsubscribe(src *Notifier) {
	src.Unpipe(&v.input)
}

// SetOptions merges the set fields of opts.
func (v *View) SetOptions(opts ViewOptions) {
	if opts.Size != nil {
		v.options.Size = opts.Size
	}
}

// Options returns the current options.
func (v *View) Options() ViewOptions {
	return v.options
}

// Add adds object to the view's tree and returns the new node.
func (v *View) Add(object any) *RenderNode {
	return v.node.Add(object)
}

// Render implements Renderable.
func (v *View) Render() Spec {
	return v.node.Render()
}

// GetSize implements Sizer.
func (v *View) GetSize() Size {
	if s := v.node.GetSize(); !s.IsZero() {
		return s
	}
	if v.options.Size != nil {
		return *v.options.Size
	}
	return Size{}
}
