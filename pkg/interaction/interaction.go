// Package interaction translates pointer and wheel input into viewport
// changes and expand/select effects.
//
// The controller is a reducer: Update takes the current State and one Event
// and returns the next State plus any Effects for the host to apply. Only two
// modes exist, Idle and Dragging; zoom is a momentary operation that never
// changes mode.
package interaction

import (
	"math"

	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

// DefaultClickSlop is how far (screen px) a pointer may travel between down
// and up and still count as a click.
const DefaultClickSlop = 4.0

// Mode is the persisted interaction state.
type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

// Drag records where a drag gesture started.
type Drag struct {
	StartPointer   layout.Point
	StartTranslate layout.Point
}

// Press is a pending pointer-down on a node body or toggle control.
type Press struct {
	Active bool
	Hit    Hit
	At     layout.Point
}

// State is the interaction controller's state.
type State struct {
	Mode  Mode
	Drag  Drag
	Press Press
}

// Event is a pointer or wheel input in screen coordinates.
type Event interface{ isEvent() }

type (
	PointerDown  struct{ At layout.Point }
	PointerMove  struct{ At layout.Point }
	PointerUp    struct{ At layout.Point }
	PointerLeave struct{}
	// Wheel zooms in for negative DeltaY, out for positive.
	Wheel struct {
		At     layout.Point
		DeltaY float64
	}
)

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (PointerLeave) isEvent() {}
func (Wheel) isEvent()        {}

// Effect is a mutation the host must apply after Update.
type Effect interface{ isEffect() }

// ToggleExpand asks the host to flip the node's membership in the expanded
// set and relayout.
type ToggleExpand struct{ ID string }

// SelectNode reports a click on a non-vacant node body.
type SelectNode struct{ ID string }

func (ToggleExpand) isEffect() {}
func (SelectNode) isEffect()   {}

// Update applies ev. vp is mutated in place for pan and zoom.
func Update(s State, ev Event, scene Scene, vp *viewport.Controller, slop float64) (State, []Effect) {
	if slop <= 0 {
		slop = DefaultClickSlop
	}
	switch ev := ev.(type) {
	case Wheel:
		switch {
		case ev.DeltaY < 0:
			vp.Zoom(viewport.ZoomIn, ev.At)
		case ev.DeltaY > 0:
			vp.Zoom(viewport.ZoomOut, ev.At)
		}
		return s, nil

	case PointerDown:
		if s.Mode == Dragging {
			return s, nil
		}
		hit := scene.HitTest(ev.At)
		if hit.Kind == HitCanvas {
			tr := vp.Transform()
			return State{
				Mode: Dragging,
				Drag: Drag{
					StartPointer:   ev.At,
					StartTranslate: layout.Point{X: tr.TranslateX, Y: tr.TranslateY},
				},
			}, nil
		}
		s.Press = Press{Active: true, Hit: hit, At: ev.At}
		return s, nil

	case PointerMove:
		if s.Mode == Dragging {
			tr := vp.Transform()
			wantX := s.Drag.StartTranslate.X + (ev.At.X - s.Drag.StartPointer.X)
			wantY := s.Drag.StartTranslate.Y + (ev.At.Y - s.Drag.StartPointer.Y)
			vp.Pan(wantX-tr.TranslateX, wantY-tr.TranslateY)
			return s, nil
		}
		if s.Press.Active && distance(s.Press.At, ev.At) > slop {
			s.Press = Press{}
		}
		return s, nil

	case PointerUp:
		if s.Mode == Dragging {
			return State{Mode: Idle}, nil
		}
		if !s.Press.Active {
			return s, nil
		}
		press := s.Press
		s.Press = Press{}
		if distance(press.At, ev.At) > slop {
			return s, nil
		}
		hit := scene.HitTest(ev.At)
		if hit.Kind != press.Hit.Kind || hit.ID != press.Hit.ID {
			return s, nil
		}
		switch hit.Kind {
		case HitToggle:
			return s, []Effect{ToggleExpand{ID: hit.ID}}
		case HitBody:
			if hit.Vacant {
				return s, nil
			}
			return s, []Effect{SelectNode{ID: hit.ID}}
		}
		return s, nil

	case PointerLeave:
		return State{Mode: Idle}, nil
	}
	return s, nil
}

func distance(a, b layout.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Controller keeps State between events for hosts that prefer a stateful API.
type Controller struct {
	state State
	vp    *viewport.Controller
	slop  float64
}

// NewController binds a controller to vp.
func NewController(vp *viewport.Controller, slop float64) *Controller {
	return &Controller{vp: vp, slop: slop}
}

// Handle feeds one event through Update.
func (c *Controller) Handle(ev Event, scene Scene) []Effect {
	var effects []Effect
	c.state, effects = Update(c.state, ev, scene, c.vp, c.slop)
	return effects
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.state.Mode
}
