// Package canvas ties the layout engine, viewport, interaction reducer and
// search index into one mounted session over an immutable tree.
//
// A Canvas is not safe for concurrent use. Hosts drive it from a single event
// loop and receive node-selected and toggle-expand events through the handler
// registered with WithEventHandler.
package canvas

import (
	"github.com/vanderheijden86/netcanvas/pkg/debug"
	"github.com/vanderheijden86/netcanvas/pkg/interaction"
	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/render"
	"github.com/vanderheijden86/netcanvas/pkg/search"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

// DefaultClickSlop is how far (in screen px) a press may travel and still
// count as a click.
const DefaultClickSlop = 4.0

// Event is delivered to the host.
type Event interface{ isEvent() }

// EventNodeSelected reports a click on (or search pick of) a member.
type EventNodeSelected struct {
	Node *network.Node
}

// EventToggleExpand reports an expand/collapse of ID.
type EventToggleExpand struct {
	ID       string
	Expanded bool
}

func (EventNodeSelected) isEvent() {}
func (EventToggleExpand) isEvent() {}

// Options are the tunables of a session.
type Options struct {
	Dimensions     layout.Dimensions
	Viewport       viewport.Options
	ClickSlop      float64
	ToggleSize     float64
	MinQueryLength int
	SearchMode     search.Mode
	CacheSize      int
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		Dimensions:     layout.DefaultDimensions(),
		Viewport:       viewport.DefaultOptions(),
		ClickSlop:      DefaultClickSlop,
		ToggleSize:     interaction.DefaultToggleSize,
		MinQueryLength: search.DefaultMinQueryLength,
		SearchMode:     search.ModeSubstring,
		CacheSize:      layout.DefaultCacheSize,
	}
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithOptions replaces the session options.
func WithOptions(o Options) Option {
	return func(c *Canvas) { c.opts = o }
}

// WithEventHandler registers the host callback.
func WithEventHandler(fn func(Event)) Option {
	return func(c *Canvas) { c.handler = fn }
}

// WithExpanded sets the initial expanded ids instead of the root-only default.
func WithExpanded(ids ...string) Option {
	return func(c *Canvas) { c.initial = ids }
}

// Canvas is one mounted view of a tree.
type Canvas struct {
	opts    Options
	handler func(Event)
	initial []string

	root     *network.Node
	index    *network.Index
	searcher *search.Index
	expanded *network.ExpandedSet
	engine   *layout.Engine
	cache    *layout.Cache
	result   *layout.Result

	vp       *viewport.Controller
	pointer  *interaction.Controller
	selected string
	query    search.State
}

// New mounts root. The tree is normalized in place: nil child slots become
// vacant nodes and levels are recomputed. A nil root yields an empty canvas.
func New(root *network.Node, opts ...Option) *Canvas {
	c := &Canvas{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(c)
	}
	if c.opts.ClickSlop < 0 {
		c.opts.ClickSlop = 0
	}

	if filled := network.Normalize(root); filled > 0 {
		debug.Log("canvas: filled %d empty slots", filled)
	}
	c.root = root
	c.index = network.NewIndex(root)
	c.searcher = search.NewIndex(root,
		search.WithMinQueryLength(c.opts.MinQueryLength),
		search.WithMode(c.opts.SearchMode))

	c.expanded = network.DefaultExpanded(root)
	if c.initial != nil {
		c.expanded.Replace(c.initial)
	}

	c.engine = layout.NewEngine(c.opts.Dimensions)
	if cache, err := layout.NewCache(c.engine, c.opts.CacheSize); err == nil {
		c.cache = cache
	} else {
		debug.Log("canvas: layout cache disabled: %v", err)
	}

	c.vp = viewport.New(c.opts.Viewport)
	c.pointer = interaction.NewController(c.vp, c.opts.ClickSlop)
	c.relayout()
	c.CenterView()
	return c
}

// Root returns the mounted tree.
func (c *Canvas) Root() *network.Node { return c.root }

// Index returns the id index of the mounted tree.
func (c *Canvas) Index() *network.Index { return c.index }

// Layout returns the current layout. Callers must not mutate it.
func (c *Canvas) Layout() *layout.Result { return c.result }

// Expanded returns the live expanded set.
func (c *Canvas) Expanded() *network.ExpandedSet { return c.expanded }

// Transform returns the viewport transform.
func (c *Canvas) Transform() viewport.Transform { return c.vp.Transform() }

// Viewport exposes the viewport controller.
func (c *Canvas) Viewport() *viewport.Controller { return c.vp }

// Mode returns the pointer interaction mode.
func (c *Canvas) Mode() interaction.Mode { return c.pointer.Mode() }

// Selected returns the selected node id, or "".
func (c *Canvas) Selected() string { return c.selected }

// SearchState returns the last search state.
func (c *Canvas) SearchState() search.State { return c.query }

// Resize records the container size and recenters the tree.
func (c *Canvas) Resize(width, height float64) {
	c.vp.SetContainer(layout.Size{Width: width, Height: height})
	c.CenterView()
}

// CenterView centers the current layout in the container.
func (c *Canvas) CenterView() {
	c.vp.CenterView(c.vp.Container(), c.result.Bounds)
}

// Fit scales the whole layout into the container.
func (c *Canvas) Fit(padding float64) {
	c.vp.Fit(c.result.Bounds, padding)
}

// Zoom zooms around a screen anchor.
func (c *Canvas) Zoom(dir viewport.Direction, anchor layout.Point) bool {
	return c.vp.Zoom(dir, anchor)
}

// ZoomCenter zooms around the container center.
func (c *Canvas) ZoomCenter(dir viewport.Direction) bool {
	size := c.vp.Container()
	return c.vp.Zoom(dir, layout.Point{X: size.Width / 2, Y: size.Height / 2})
}

// Pan shifts the viewport.
func (c *Canvas) Pan(dx, dy float64) {
	c.vp.Pan(dx, dy)
}

// Scene returns a hit tester for the current layout and transform.
func (c *Canvas) Scene() interaction.Scene {
	return interaction.LayoutScene{
		Layout:     c.result,
		Index:      c.index,
		Viewport:   c.vp,
		ToggleSize: c.opts.ToggleSize,
	}
}

// Handle feeds a pointer or wheel event through the interaction reducer and
// applies its effects. The emitted host events are also returned.
func (c *Canvas) Handle(ev interaction.Event) []Event {
	var out []Event
	for _, eff := range c.pointer.Handle(ev, c.Scene()) {
		switch e := eff.(type) {
		case interaction.ToggleExpand:
			if got, ok := c.toggle(e.ID); ok {
				out = append(out, got)
			}
		case interaction.SelectNode:
			if got, ok := c.selectNode(e.ID); ok {
				out = append(out, got)
			}
		}
	}
	return out
}

// Toggle flips id's expanded state and relayouts. Nodes without children and
// unknown ids are ignored.
func (c *Canvas) Toggle(id string) bool {
	_, ok := c.toggle(id)
	return ok
}

func (c *Canvas) toggle(id string) (Event, bool) {
	n, ok := c.index.Lookup(id)
	if !ok || !n.HasChildren() {
		return nil, false
	}
	now := c.expanded.Toggle(id)
	c.relayout()
	ev := EventToggleExpand{ID: id, Expanded: now}
	c.emit(ev)
	return ev, true
}

// Select marks id as selected. Vacant and unknown ids are ignored.
func (c *Canvas) Select(id string) bool {
	_, ok := c.selectNode(id)
	return ok
}

func (c *Canvas) selectNode(id string) (Event, bool) {
	n, ok := c.index.Lookup(id)
	if !ok || !n.Selectable() {
		return nil, false
	}
	c.selected = id
	ev := EventNodeSelected{Node: n}
	c.emit(ev)
	return ev, true
}

// ClearSelection drops the selection.
func (c *Canvas) ClearSelection() {
	c.selected = ""
}

// ExpandAll expands every node that has children.
func (c *Canvas) ExpandAll() {
	var ids []string
	network.Walk(c.root, func(n, _ *network.Node) bool {
		if n.HasChildren() {
			ids = append(ids, n.ID)
		}
		return true
	})
	c.expanded.Replace(ids)
	c.relayout()
}

// CollapseAll returns to the root-only default.
func (c *Canvas) CollapseAll() {
	c.expanded.Replace(network.DefaultExpanded(c.root).IDs())
	c.relayout()
}

// Search recomputes the search state. Results cover collapsed subtrees too.
func (c *Canvas) Search(query string) search.State {
	c.query = c.searcher.Query(query)
	return c.query
}

// ClearSearch empties the query and hides the results.
func (c *Canvas) ClearSearch() {
	c.query = search.State{}
}

// FocusOnNode centers id at scale 1. It does not reveal collapsed nodes and
// returns false when id is not currently placed.
func (c *Canvas) FocusOnNode(id string) bool {
	return c.vp.FocusOnNode(id, c.result)
}

// SelectResult picks a search hit: every collapsed ancestor is expanded so the
// hit is placed, the view focuses on it, it becomes the selection and the
// results panel is hidden.
func (c *Canvas) SelectResult(id string) bool {
	n, ok := c.index.Lookup(id)
	if !ok || !n.Selectable() {
		return false
	}
	if c.reveal(id) {
		c.relayout()
	}
	if !c.FocusOnNode(id) {
		debug.Log("canvas: %s has no position after reveal", id)
		return false
	}
	c.query.Visible = false
	c.selectNode(id)
	return true
}

func (c *Canvas) reveal(id string) bool {
	changed := false
	for _, anc := range c.index.Ancestors(id) {
		if c.expanded.Expand(anc) {
			changed = true
		}
	}
	return changed
}

// Snapshot returns export options describing the current view. With
// withViewport the current transform and container size are applied.
func (c *Canvas) Snapshot(title string, withViewport bool) render.SnapshotOptions {
	opts := render.SnapshotOptions{
		Title:    title,
		Index:    c.index,
		Layout:   c.result,
		Expanded: c.expanded,
		Selected: c.selected,
	}
	if len(c.query.Results) > 0 {
		opts.Hits = make(map[string]bool, len(c.query.Results))
		for _, n := range c.query.Results {
			opts.Hits[n.ID] = true
		}
	}
	if withViewport {
		t := c.vp.Transform()
		size := c.vp.Container()
		opts.Transform = &t
		opts.Width, opts.Height = int(size.Width), int(size.Height)
	}
	return opts
}

func (c *Canvas) relayout() {
	prev := layout.Size{}
	if c.result != nil {
		prev = c.result.Bounds
	}
	if c.cache != nil {
		c.result = c.cache.Layout(c.root, c.expanded)
	} else {
		c.result = c.engine.Layout(c.root, c.expanded)
	}
	if len(c.result.Skipped) > 0 {
		debug.Log("canvas: layout skipped %d revisited nodes", len(c.result.Skipped))
	}
	if c.result.Bounds != prev {
		c.CenterView()
	}
}

func (c *Canvas) emit(ev Event) {
	if c.handler != nil {
		c.handler(ev)
	}
}
