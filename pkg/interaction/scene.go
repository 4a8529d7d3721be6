package interaction

import (
	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

// DefaultToggleSize is the side of the square expand/collapse control
// centered on a node's bottom edge.
const DefaultToggleSize = 24.0

// HitKind classifies what lies under the pointer.
type HitKind int

const (
	HitCanvas HitKind = iota
	HitBody
	HitToggle
)

// Hit is the result of a hit test.
type Hit struct {
	Kind   HitKind
	ID     string
	Vacant bool
}

// Scene answers hit tests in screen coordinates.
type Scene interface {
	HitTest(screen layout.Point) Hit
}

// SceneFunc adapts a function to Scene.
type SceneFunc func(layout.Point) Hit

// HitTest calls f.
func (f SceneFunc) HitTest(p layout.Point) Hit { return f(p) }

// LayoutScene hit-tests a layout result under a viewport transform.
type LayoutScene struct {
	Layout     *layout.Result
	Index      *network.Index
	Viewport   *viewport.Controller
	ToggleSize float64
}

// ToggleRect returns the content-space toggle control of a node box.
func ToggleRect(box layout.Rect, size float64) layout.Rect {
	if size <= 0 {
		size = DefaultToggleSize
	}
	bc := box.BottomCenter()
	return layout.Rect{X: bc.X - size/2, Y: bc.Y - size/2, W: size, H: size}
}

// HitTest checks toggle controls first since they overlap the box edge,
// then node bodies, topmost first.
func (s LayoutScene) HitTest(screen layout.Point) Hit {
	if s.Layout.Empty() || s.Viewport == nil {
		return Hit{Kind: HitCanvas}
	}
	p := s.Viewport.ScreenToContent(screen)
	for i := len(s.Layout.Order) - 1; i >= 0; i-- {
		id := s.Layout.Order[i]
		n, ok := s.lookup(id)
		if !ok || !n.HasChildren() {
			continue
		}
		if ToggleRect(s.Layout.Positions[id], s.ToggleSize).Contains(p) {
			return Hit{Kind: HitToggle, ID: id, Vacant: n.IsEmpty}
		}
	}
	if id, ok := s.Layout.NodeAt(p); ok {
		n, _ := s.lookup(id)
		return Hit{Kind: HitBody, ID: id, Vacant: n == nil || n.IsEmpty}
	}
	return Hit{Kind: HitCanvas}
}

func (s LayoutScene) lookup(id string) (*network.Node, bool) {
	if s.Index == nil {
		return nil, false
	}
	return s.Index.Lookup(id)
}
