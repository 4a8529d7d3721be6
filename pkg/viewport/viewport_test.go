package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/netcanvas/pkg/layout"
)

const eps = 1e-9

func TestZoomRoundTripAtAnchor(t *testing.T) {
	c := New(DefaultOptions())
	c.SetTransform(Transform{Scale: 1, TranslateX: 25, TranslateY: -10})
	anchor := layout.Point{X: 100, Y: 100}
	before := c.Transform()

	if !c.Zoom(ZoomIn, anchor) {
		t.Fatal("zoom in should change scale")
	}
	assert.InDelta(t, 1.2, c.Transform().Scale, eps)

	if !c.Zoom(ZoomOut, anchor) {
		t.Fatal("zoom out should change scale")
	}
	after := c.Transform()
	assert.InDelta(t, before.Scale, after.Scale, eps)
	assert.InDelta(t, before.TranslateX, after.TranslateX, eps)
	assert.InDelta(t, before.TranslateY, after.TranslateY, eps)
}

func TestZoomKeepsAnchorContentPoint(t *testing.T) {
	c := New(DefaultOptions())
	c.SetTransform(Transform{Scale: 0.8, TranslateX: 40, TranslateY: 12})
	anchor := layout.Point{X: 310, Y: 95}

	want := c.ScreenToContent(anchor)
	c.Zoom(ZoomIn, anchor)
	got := c.ScreenToContent(anchor)

	assert.InDelta(t, want.X, got.X, eps)
	assert.InDelta(t, want.Y, got.Y, eps)
}

func TestZoomClampedIsNoop(t *testing.T) {
	c := New(DefaultOptions())
	c.SetTransform(Transform{Scale: DefaultMaxScale, TranslateX: 5, TranslateY: 6})
	if c.Zoom(ZoomIn, layout.Point{X: 1, Y: 1}) {
		t.Error("zooming past max scale should be a no-op")
	}
	tr := c.Transform()
	if tr.Scale != DefaultMaxScale || tr.TranslateX != 5 || tr.TranslateY != 6 {
		t.Errorf("transform changed on no-op zoom: %+v", tr)
	}

	c.SetTransform(Transform{Scale: DefaultMinScale})
	if c.Zoom(ZoomOut, layout.Point{}) {
		t.Error("zooming past min scale should be a no-op")
	}
}

func TestZoomClampsToBound(t *testing.T) {
	c := New(DefaultOptions())
	c.SetTransform(Transform{Scale: 1.9})
	c.Zoom(ZoomIn, layout.Point{X: 50, Y: 50})
	assert.InDelta(t, DefaultMaxScale, c.Transform().Scale, eps)
}

func TestZoomGuardsNonPositiveScale(t *testing.T) {
	c := New(DefaultOptions())
	c.t = Transform{Scale: 0, TranslateX: 10, TranslateY: 10}
	c.Zoom(ZoomIn, layout.Point{X: 100, Y: 100})
	s := c.Transform().Scale
	if s <= 0 || s > DefaultMaxScale {
		t.Errorf("scale %v outside bounds after guarded zoom", s)
	}
}

func TestCenterView(t *testing.T) {
	c := New(DefaultOptions())
	c.CenterView(layout.Size{Width: 1000, Height: 600}, layout.Size{Width: 400, Height: 200})
	tr := c.Transform()
	assert.InDelta(t, 300, tr.TranslateX, eps)
	assert.InDelta(t, DefaultTopMargin, tr.TranslateY, eps)

	c.SetTransform(Transform{Scale: 0.5})
	c.CenterView(layout.Size{Width: 1000, Height: 600}, layout.Size{Width: 400, Height: 200})
	assert.InDelta(t, 400, c.Transform().TranslateX, eps)
}

func TestFocusOnNode(t *testing.T) {
	c := New(DefaultOptions())
	c.SetContainer(layout.Size{Width: 800, Height: 600})
	c.SetTransform(Transform{Scale: 1.7, TranslateX: -300, TranslateY: 90})

	res := &layout.Result{Positions: map[string]layout.Rect{
		"n": {X: 620, Y: 280, W: 180, H: 80},
	}}
	if !c.FocusOnNode("n", res) {
		t.Fatal("expected focus to succeed")
	}
	tr := c.Transform()
	if tr.Scale != 1 {
		t.Errorf("scale = %v, want 1", tr.Scale)
	}
	center := c.ContentToScreen(res.Positions["n"].Center())
	assert.InDelta(t, 400, center.X, eps)
	assert.InDelta(t, 300, center.Y, eps)
}

func TestFocusOnNodeClampsScale(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantScale float64
	}{
		{"range above one", Options{MinScale: 1.5, MaxScale: 3}, 1.5},
		{"range below one", Options{MinScale: 0.1, MaxScale: 0.5}, 0.5},
		{"default", DefaultOptions(), 1},
	}

	res := &layout.Result{Positions: map[string]layout.Rect{
		"n": {X: 620, Y: 280, W: 180, H: 80},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.opts)
			c.SetContainer(layout.Size{Width: 800, Height: 600})
			if !c.FocusOnNode("n", res) {
				t.Fatal("expected focus to succeed")
			}
			assert.InDelta(t, tt.wantScale, c.Transform().Scale, eps)
			center := c.ContentToScreen(res.Positions["n"].Center())
			assert.InDelta(t, 400, center.X, eps)
			assert.InDelta(t, 300, center.Y, eps)
		})
	}
}

func TestFocusOnUnknownNodeLeavesTransform(t *testing.T) {
	c := New(DefaultOptions())
	c.SetTransform(Transform{Scale: 1.5, TranslateX: 3, TranslateY: 4})
	if c.FocusOnNode("ghost", &layout.Result{Positions: map[string]layout.Rect{}}) {
		t.Error("focus on unknown id should fail")
	}
	if c.Transform() != (Transform{Scale: 1.5, TranslateX: 3, TranslateY: 4}) {
		t.Errorf("transform changed: %+v", c.Transform())
	}
	if c.FocusOnNode("ghost", nil) {
		t.Error("focus without a layout should fail")
	}
}

func TestPanIsAdditive(t *testing.T) {
	c := New(DefaultOptions())
	c.Pan(10, -5)
	c.Pan(2.5, 1)
	tr := c.Transform()
	assert.InDelta(t, 12.5, tr.TranslateX, eps)
	assert.InDelta(t, -4, tr.TranslateY, eps)
}

func TestFitClampsScale(t *testing.T) {
	c := New(DefaultOptions())
	c.SetContainer(layout.Size{Width: 100, Height: 100})
	c.Fit(layout.Size{Width: 10000, Height: 10000}, 10)
	assert.InDelta(t, DefaultMinScale, c.Transform().Scale, eps)

	c.Fit(layout.Size{}, 10)
	assert.InDelta(t, 1, c.Transform().Scale, eps)
}

func TestOptionsNormalized(t *testing.T) {
	c := New(Options{MinScale: -1, MaxScale: 0, ZoomFactor: 0.5, TopMargin: -3})
	o := c.Options()
	if o != DefaultOptions() {
		t.Errorf("expected defaults for invalid options, got %+v", o)
	}
}

func TestPropertyAnchoredZoomInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := New(DefaultOptions())
		c.SetTransform(Transform{
			Scale:      rapid.Float64Range(DefaultMinScale, DefaultMaxScale).Draw(rt, "scale"),
			TranslateX: rapid.Float64Range(-2000, 2000).Draw(rt, "tx"),
			TranslateY: rapid.Float64Range(-2000, 2000).Draw(rt, "ty"),
		})
		anchor := layout.Point{
			X: rapid.Float64Range(0, 1920).Draw(rt, "ax"),
			Y: rapid.Float64Range(0, 1080).Draw(rt, "ay"),
		}
		dir := ZoomIn
		if rapid.Bool().Draw(rt, "out") {
			dir = ZoomOut
		}

		before := c.ScreenToContent(anchor)
		c.Zoom(dir, anchor)
		after := c.ScreenToContent(anchor)

		if d := before.X - after.X; d > 1e-6 || d < -1e-6 {
			rt.Fatalf("content x drifted by %v", d)
		}
		if d := before.Y - after.Y; d > 1e-6 || d < -1e-6 {
			rt.Fatalf("content y drifted by %v", d)
		}
		if s := c.Transform().Scale; s < DefaultMinScale || s > DefaultMaxScale {
			rt.Fatalf("scale %v out of bounds", s)
		}
	})
}
