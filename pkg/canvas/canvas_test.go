package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vanderheijden86/netcanvas/pkg/interaction"
	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/testutil"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

func mount(t *testing.T, opts ...Option) (*Canvas, *[]Event) {
	t.Helper()
	var events []Event
	opts = append(opts, WithEventHandler(func(ev Event) { events = append(events, ev) }))
	c := New(testutil.Family(), opts...)
	c.Resize(1000, 800)
	return c, &events
}

func click(c *Canvas, p layout.Point) []Event {
	c.Handle(interaction.PointerDown{At: p})
	return c.Handle(interaction.PointerUp{At: p})
}

func screenOf(t *testing.T, c *Canvas, id string, pick func(layout.Rect) layout.Point) layout.Point {
	t.Helper()
	r, ok := c.Layout().Rect(id)
	if !ok {
		t.Fatalf("%s not placed", id)
	}
	return c.Viewport().ContentToScreen(pick(r))
}

// TestMountDefaults verifies the root-only default and the initial centering.
func TestMountDefaults(t *testing.T) {
	c, _ := mount(t)
	if got := c.Expanded().IDs(); len(got) != 1 || got[0] != "R" {
		t.Fatalf("expanded = %v, want [R]", got)
	}
	if len(c.Layout().Order) != 3 {
		t.Errorf("expected R and its two children placed, got %v", c.Layout().Order)
	}
	tr := c.Transform()
	assert.InDelta(t, (1000-c.Layout().Bounds.Width)/2, tr.TranslateX, 1e-9)
	assert.InDelta(t, viewport.DefaultTopMargin, tr.TranslateY, 1e-9)
	assert.InDelta(t, 1.0, tr.Scale, 1e-9)
}

func TestWithExpandedOverridesDefault(t *testing.T) {
	c := New(testutil.Family(), WithExpanded("R", "A"))
	if !c.Layout().Contains("A1") {
		t.Error("A's children should be placed")
	}
}

func TestClickToggleCollapsesAndEmits(t *testing.T) {
	c, events := mount(t)

	got := click(c, screenOf(t, c, "R", layout.Rect.BottomCenter))
	if len(got) != 1 || got[0] != (EventToggleExpand{ID: "R", Expanded: false}) {
		t.Fatalf("events = %#v", got)
	}
	if len(*events) != 1 {
		t.Errorf("handler saw %d events", len(*events))
	}
	if c.Layout().Contains("A") || len(c.Layout().Order) != 1 {
		t.Errorf("collapse should leave only the root, got %v", c.Layout().Order)
	}
	assert.InDelta(t, (1000-layout.DefaultDimensions().NodeWidth)/2, c.Transform().TranslateX, 1e-9,
		"bounds change should recenter")
}

func TestClickBodySelects(t *testing.T) {
	c, events := mount(t)
	got := click(c, screenOf(t, c, "B", layout.Rect.Center))
	if len(got) != 1 {
		t.Fatalf("events = %#v", got)
	}
	sel, ok := got[0].(EventNodeSelected)
	if !ok || sel.Node.ID != "B" {
		t.Errorf("expected B selected, got %#v", got[0])
	}
	if c.Selected() != "B" || len(*events) != 1 {
		t.Errorf("selected=%q events=%d", c.Selected(), len(*events))
	}
}

func TestClickVacantIsIgnored(t *testing.T) {
	c, events := mount(t, WithExpanded("R", "A"))
	var vacant string
	for _, id := range c.Layout().Order {
		if n, _ := c.Index().Lookup(id); n.IsEmpty {
			vacant = id
		}
	}
	if vacant == "" {
		t.Fatal("fixture should place a vacant slot")
	}
	if got := click(c, screenOf(t, c, vacant, layout.Rect.Center)); len(got) != 0 {
		t.Errorf("vacant click emitted %#v", got)
	}
	if len(*events) != 0 || c.Selected() != "" {
		t.Error("vacant click must not select")
	}
}

func TestDragOnCanvasPans(t *testing.T) {
	c, events := mount(t)
	before := c.Transform()
	c.Handle(interaction.PointerDown{At: layout.Point{X: 5, Y: 790}})
	c.Handle(interaction.PointerMove{At: layout.Point{X: 25, Y: 760}})
	c.Handle(interaction.PointerUp{At: layout.Point{X: 25, Y: 760}})

	after := c.Transform()
	assert.InDelta(t, before.TranslateX+20, after.TranslateX, 1e-9)
	assert.InDelta(t, before.TranslateY-30, after.TranslateY, 1e-9)
	if len(*events) != 0 {
		t.Errorf("drag emitted %#v", *events)
	}
}

func TestWheelZoomKeepsLayout(t *testing.T) {
	c, _ := mount(t)
	res := c.Layout()
	c.Handle(interaction.Wheel{At: layout.Point{X: 100, Y: 100}, DeltaY: -1})
	if c.Transform().Scale <= 1 {
		t.Error("wheel up should zoom in")
	}
	if c.Layout() != res {
		t.Error("zoom must not relayout")
	}
}

// TestFocusRevealsAncestors verifies that picking a search hit inside a
// collapsed subtree expands its ancestors and centers it at scale 1.
func TestFocusRevealsAncestors(t *testing.T) {
	c, events := mount(t)
	c.Zoom(viewport.ZoomOut, layout.Point{X: 10, Y: 10})

	st := c.Search("abby")
	if len(st.Results) != 1 || st.Results[0].ID != "A2" || !st.Visible {
		t.Fatalf("search state %+v", st)
	}

	before := c.Transform()
	if c.FocusOnNode("A2") {
		t.Fatal("collapsed node has no position; focus should fail")
	}
	if c.Transform() != before {
		t.Error("failed focus must not move the viewport")
	}

	if !c.SelectResult("A2") {
		t.Fatal("SelectResult failed")
	}
	if !c.Expanded().Has("A") {
		t.Error("ancestor A should be expanded")
	}
	r, _ := c.Layout().Rect("A2")
	tr := c.Transform()
	assert.InDelta(t, 1.0, tr.Scale, 1e-9)
	center := c.Viewport().ContentToScreen(r.Center())
	assert.InDelta(t, 500, center.X, 1e-9)
	assert.InDelta(t, 400, center.Y, 1e-9)

	if c.SearchState().Visible {
		t.Error("results panel should close after a pick")
	}
	if c.Selected() != "A2" {
		t.Errorf("selected = %q", c.Selected())
	}
	last := (*events)[len(*events)-1]
	if sel, ok := last.(EventNodeSelected); !ok || sel.Node.ID != "A2" {
		t.Errorf("last event = %#v", last)
	}
}

func TestSelectResultRejectsUnknownAndVacant(t *testing.T) {
	c, _ := mount(t)
	if c.SelectResult("nope") {
		t.Error("unknown id accepted")
	}
	var vacant string
	network.Walk(c.Root(), func(n, _ *network.Node) bool {
		if n.IsEmpty {
			vacant = n.ID
		}
		return true
	})
	if c.SelectResult(vacant) {
		t.Error("vacant id accepted")
	}
}

func TestExpandAllCollapseAll(t *testing.T) {
	c, _ := mount(t)
	c.ExpandAll()
	if got, want := len(c.Layout().Order), network.Count(c.Root()); got != want {
		t.Errorf("expand all placed %d of %d", got, want)
	}
	if len(c.Layout().Edges) != len(c.Layout().Order)-1 {
		t.Error("tree should have nodes-1 edges")
	}
	c.CollapseAll()
	if len(c.Layout().Order) != 3 {
		t.Errorf("collapse all should restore default view, got %v", c.Layout().Order)
	}
}

func TestToggleIgnoresLeavesAndUnknown(t *testing.T) {
	c, events := mount(t)
	v := c.Expanded().Version()
	if c.Toggle("B") || c.Toggle("missing") {
		t.Error("toggle on leaf or unknown id should be ignored")
	}
	if c.Expanded().Version() != v || len(*events) != 0 {
		t.Error("ignored toggles must not mutate state")
	}
}

func TestNilRootCanvas(t *testing.T) {
	c := New(nil)
	c.Resize(640, 480)
	if !c.Layout().Empty() {
		t.Error("nil tree should lay out empty")
	}
	if c.Toggle("x") || c.SelectResult("x") || c.FocusOnNode("x") {
		t.Error("operations on an empty canvas should fail")
	}
	if got := click(c, layout.Point{X: 10, Y: 10}); len(got) != 0 {
		t.Errorf("click on empty canvas emitted %#v", got)
	}
	if st := c.Search("anything"); len(st.Results) != 0 {
		t.Error("empty canvas has no search results")
	}
}

func TestCyclicTreeMounts(t *testing.T) {
	c := New(testutil.Cyclic())
	c.ExpandAll()
	if c.Layout().Empty() {
		t.Fatal("cyclic tree should still place nodes")
	}
}

func TestSnapshotOptionsReflectState(t *testing.T) {
	c, _ := mount(t)
	c.Search("bob")
	c.Select("B")
	opts := c.Snapshot("net", true)
	if !opts.Hits["B"] || opts.Selected != "B" {
		t.Errorf("snapshot options %+v", opts)
	}
	if opts.Transform == nil || opts.Width != 1000 || opts.Height != 800 {
		t.Error("viewport snapshot should carry transform and size")
	}
	if c.Snapshot("net", false).Transform != nil {
		t.Error("plain snapshot should not carry a transform")
	}
}
