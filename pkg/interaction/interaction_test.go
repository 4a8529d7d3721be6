package interaction

import (
	"testing"

	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

func pt(x, y float64) layout.Point { return layout.Point{X: x, Y: y} }

// fixedScene hit-tests by screen x: <100 body "m", 100-120 toggle "m",
// 120-200 vacant body "v", beyond is empty canvas.
var fixedScene = SceneFunc(func(p layout.Point) Hit {
	switch {
	case p.X < 100:
		return Hit{Kind: HitBody, ID: "m"}
	case p.X < 120:
		return Hit{Kind: HitToggle, ID: "m"}
	case p.X < 200:
		return Hit{Kind: HitBody, ID: "v", Vacant: true}
	default:
		return Hit{Kind: HitCanvas}
	}
})

func TestDragPansRelativeToStart(t *testing.T) {
	vp := viewport.New(viewport.DefaultOptions())
	vp.SetTransform(viewport.Transform{Scale: 1, TranslateX: 10, TranslateY: 20})
	c := NewController(vp, 0)

	c.Handle(PointerDown{At: pt(300, 300)}, fixedScene)
	if c.Mode() != Dragging {
		t.Fatalf("expected dragging, got %v", c.Mode())
	}
	c.Handle(PointerMove{At: pt(310, 305)}, fixedScene)
	c.Handle(PointerMove{At: pt(350, 280)}, fixedScene)

	tr := vp.Transform()
	if tr.TranslateX != 60 || tr.TranslateY != 0 {
		t.Errorf("translate = (%v,%v), want (60,0)", tr.TranslateX, tr.TranslateY)
	}

	c.Handle(PointerUp{At: pt(350, 280)}, fixedScene)
	if c.Mode() != Idle {
		t.Errorf("expected idle after pointer-up, got %v", c.Mode())
	}

	c.Handle(PointerMove{At: pt(500, 500)}, fixedScene)
	if vp.Transform().TranslateX != 60 {
		t.Error("moving while idle must not pan")
	}
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	vp := viewport.New(viewport.DefaultOptions())
	c := NewController(vp, 0)
	c.Handle(PointerDown{At: pt(300, 0)}, fixedScene)
	c.Handle(PointerLeave{}, fixedScene)
	if c.Mode() != Idle {
		t.Errorf("expected idle after leave, got %v", c.Mode())
	}
}

func TestWheelZoomsWithoutTransition(t *testing.T) {
	vp := viewport.New(viewport.DefaultOptions())
	c := NewController(vp, 0)

	c.Handle(Wheel{At: pt(50, 50), DeltaY: -120}, fixedScene)
	if vp.Transform().Scale <= 1 {
		t.Errorf("negative delta should zoom in, scale=%v", vp.Transform().Scale)
	}
	if c.Mode() != Idle {
		t.Error("wheel must not change mode")
	}

	c.Handle(PointerDown{At: pt(400, 0)}, fixedScene)
	c.Handle(Wheel{At: pt(50, 50), DeltaY: 120}, fixedScene)
	if c.Mode() != Dragging {
		t.Error("wheel during drag must keep dragging")
	}

	before := vp.Transform()
	c.Handle(Wheel{At: pt(50, 50)}, fixedScene)
	if vp.Transform() != before {
		t.Error("zero delta should not zoom")
	}
}

func TestClickOnToggleEmitsToggle(t *testing.T) {
	c := NewController(viewport.New(viewport.DefaultOptions()), 0)
	c.Handle(PointerDown{At: pt(110, 0)}, fixedScene)
	if c.Mode() != Idle {
		t.Error("pressing a node must not start a drag")
	}
	effects := c.Handle(PointerUp{At: pt(111, 1)}, fixedScene)
	if len(effects) != 1 || effects[0] != (ToggleExpand{ID: "m"}) {
		t.Errorf("expected toggle effect, got %#v", effects)
	}
}

func TestClickOnBodyEmitsSelect(t *testing.T) {
	c := NewController(viewport.New(viewport.DefaultOptions()), 0)
	c.Handle(PointerDown{At: pt(50, 0)}, fixedScene)
	effects := c.Handle(PointerUp{At: pt(50, 0)}, fixedScene)
	if len(effects) != 1 || effects[0] != (SelectNode{ID: "m"}) {
		t.Errorf("expected select effect, got %#v", effects)
	}
}

func TestClickOnVacantEmitsNothing(t *testing.T) {
	c := NewController(viewport.New(viewport.DefaultOptions()), 0)
	c.Handle(PointerDown{At: pt(150, 0)}, fixedScene)
	if effects := c.Handle(PointerUp{At: pt(150, 0)}, fixedScene); len(effects) != 0 {
		t.Errorf("vacant click emitted %#v", effects)
	}
}

func TestPressMovedBeyondSlopIsNotAClick(t *testing.T) {
	c := NewController(viewport.New(viewport.DefaultOptions()), 2)
	c.Handle(PointerDown{At: pt(10, 0)}, fixedScene)
	c.Handle(PointerMove{At: pt(30, 0)}, fixedScene)
	if effects := c.Handle(PointerUp{At: pt(10, 0)}, fixedScene); len(effects) != 0 {
		t.Errorf("moved press emitted %#v", effects)
	}
}

func TestReleaseOnDifferentTargetIsNotAClick(t *testing.T) {
	c := NewController(viewport.New(viewport.DefaultOptions()), 50)
	c.Handle(PointerDown{At: pt(95, 0)}, fixedScene)
	if effects := c.Handle(PointerUp{At: pt(105, 0)}, fixedScene); len(effects) != 0 {
		t.Errorf("body press released on toggle emitted %#v", effects)
	}
}

func TestUpdateIsPure(t *testing.T) {
	vp := viewport.New(viewport.DefaultOptions())
	s0 := State{}
	s1, _ := Update(s0, PointerDown{At: pt(400, 400)}, fixedScene, vp, 0)
	if s0.Mode != Idle {
		t.Error("input state mutated")
	}
	if s1.Mode != Dragging || s1.Drag.StartPointer != pt(400, 400) {
		t.Errorf("unexpected next state %+v", s1)
	}
}

func TestLayoutSceneHitTest(t *testing.T) {
	root := &network.Node{ID: "r", Name: "Root", Children: []*network.Node{
		{ID: "a", Name: "A", Level: 1},
		network.NewVacant(1),
	}}
	res := layout.NewEngine(layout.DefaultDimensions()).Layout(root, network.DefaultExpanded(root))
	vp := viewport.New(viewport.DefaultOptions())
	vp.SetTransform(viewport.Transform{Scale: 0.5, TranslateX: 100, TranslateY: 50})
	scene := LayoutScene{Layout: res, Index: network.NewIndex(root), Viewport: vp}

	rootBox, _ := res.Rect("r")
	if hit := scene.HitTest(vp.ContentToScreen(rootBox.Center())); hit.Kind != HitBody || hit.ID != "r" {
		t.Errorf("expected root body, got %+v", hit)
	}
	if hit := scene.HitTest(vp.ContentToScreen(rootBox.BottomCenter())); hit.Kind != HitToggle || hit.ID != "r" {
		t.Errorf("expected root toggle, got %+v", hit)
	}

	aBox, _ := res.Rect("a")
	if hit := scene.HitTest(vp.ContentToScreen(aBox.BottomCenter())); hit.Kind != HitBody || hit.ID != "a" {
		t.Errorf("leaf has no toggle, expected body, got %+v", hit)
	}

	vacantBox, _ := res.Rect(root.Children[1].ID)
	if hit := scene.HitTest(vp.ContentToScreen(vacantBox.Center())); !hit.Vacant {
		t.Errorf("expected vacant hit, got %+v", hit)
	}

	if hit := scene.HitTest(pt(-500, -500)); hit.Kind != HitCanvas {
		t.Errorf("expected canvas, got %+v", hit)
	}
}
