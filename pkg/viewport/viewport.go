// Package viewport owns the pan/zoom transform applied to the rendered tree.
//
// Screen = content*Scale + Translate. Pan and zoom only touch the transform;
// they never trigger a relayout.
package viewport

import (
	"math"

	"github.com/vanderheijden86/netcanvas/pkg/layout"
)

// Defaults match the reference canvas.
const (
	DefaultMinScale   = 0.2
	DefaultMaxScale   = 2.0
	DefaultZoomFactor = 1.2
	DefaultTopMargin  = 40.0
)

// Direction selects zoom in or out.
type Direction int

const (
	ZoomOut Direction = -1
	ZoomIn  Direction = 1
)

// Transform is the session-local pan/zoom state.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// Options configures a Controller.
type Options struct {
	MinScale   float64
	MaxScale   float64
	ZoomFactor float64
	TopMargin  float64
}

// DefaultOptions returns the reference bounds.
func DefaultOptions() Options {
	return Options{
		MinScale:   DefaultMinScale,
		MaxScale:   DefaultMaxScale,
		ZoomFactor: DefaultZoomFactor,
		TopMargin:  DefaultTopMargin,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MinScale <= 0 {
		o.MinScale = d.MinScale
	}
	if o.MaxScale < o.MinScale {
		o.MaxScale = math.Max(d.MaxScale, o.MinScale)
	}
	if o.ZoomFactor <= 1 {
		o.ZoomFactor = d.ZoomFactor
	}
	if o.TopMargin < 0 {
		o.TopMargin = d.TopMargin
	}
	return o
}

// Controller mutates a Transform while keeping its invariants.
type Controller struct {
	opts      Options
	t         Transform
	container layout.Size
}

// New returns a controller at scale 1 with no translation.
func New(opts Options) *Controller {
	return &Controller{opts: opts.normalized(), t: Transform{Scale: 1}}
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform {
	return c.t
}

// SetTransform replaces the transform, clamping the scale.
func (c *Controller) SetTransform(t Transform) {
	t.Scale = c.clamp(t.Scale)
	c.t = t
}

// Options returns the normalized options.
func (c *Controller) Options() Options {
	return c.opts
}

// Container returns the last known container size.
func (c *Controller) Container() layout.Size {
	return c.container
}

// SetContainer records the viewport size used by centering and focus.
func (c *Controller) SetContainer(size layout.Size) {
	c.container = size
}

func (c *Controller) clamp(s float64) float64 {
	if math.IsNaN(s) {
		return c.clamp(1)
	}
	return math.Min(c.opts.MaxScale, math.Max(c.opts.MinScale, s))
}

// CenterView centers content horizontally in the container and offsets it
// vertically by the top margin. The scale is unchanged.
func (c *Controller) CenterView(container, content layout.Size) {
	c.container = container
	c.t.TranslateX = (container.Width - content.Width*c.t.Scale) / 2
	c.t.TranslateY = c.opts.TopMargin
}

// Zoom scales by the zoom factor around anchor (screen space) so the content
// point under the anchor stays fixed. Returns false when the clamped scale
// does not change.
func (c *Controller) Zoom(dir Direction, anchor layout.Point) bool {
	if dir == 0 {
		return false
	}
	if c.t.Scale <= 0 || math.IsNaN(c.t.Scale) {
		c.t.Scale = c.clamp(1)
	}
	next := c.clamp(c.t.Scale * math.Pow(c.opts.ZoomFactor, float64(sign(int(dir)))))
	if next == c.t.Scale {
		return false
	}
	content := c.ScreenToContent(anchor)
	c.t.Scale = next
	c.t.TranslateX = anchor.X - content.X*next
	c.t.TranslateY = anchor.Y - content.Y*next
	return true
}

// Pan shifts the translation.
func (c *Controller) Pan(dx, dy float64) {
	c.t.TranslateX += dx
	c.t.TranslateY += dy
}

// FocusOnNode resets the scale to 1, clamped to the bounds, and centers the
// node's current layout rectangle in the container. Returns false if id has no position.
func (c *Controller) FocusOnNode(id string, positions *layout.Result) bool {
	rect, ok := positions.Rect(id)
	if !ok {
		return false
	}
	c.t.Scale = c.clamp(1)
	center := rect.Center()
	c.t.TranslateX = c.container.Width/2 - center.X*c.t.Scale
	c.t.TranslateY = c.container.Height/2 - center.Y*c.t.Scale
	return true
}

// Fit scales content to fill the container with padding on every side,
// clamped to the scale bounds, and centers it.
func (c *Controller) Fit(content layout.Size, padding float64) {
	if content.Width <= 0 || content.Height <= 0 {
		c.t = Transform{Scale: c.clamp(1)}
		return
	}
	sx := (c.container.Width - 2*padding) / content.Width
	sy := (c.container.Height - 2*padding) / content.Height
	s := c.clamp(math.Min(sx, sy))
	c.t.Scale = s
	c.t.TranslateX = (c.container.Width - content.Width*s) / 2
	c.t.TranslateY = (c.container.Height - content.Height*s) / 2
}

// Reset returns to scale 1 with no translation.
func (c *Controller) Reset() {
	c.t = Transform{Scale: c.clamp(1)}
}

// ScreenToContent maps a screen point into content space.
func (c *Controller) ScreenToContent(p layout.Point) layout.Point {
	s := c.t.Scale
	if s <= 0 {
		return layout.Point{X: p.X - c.t.TranslateX, Y: p.Y - c.t.TranslateY}
	}
	return layout.Point{X: (p.X - c.t.TranslateX) / s, Y: (p.Y - c.t.TranslateY) / s}
}

// ContentToScreen maps a content point into screen space.
func (c *Controller) ContentToScreen(p layout.Point) layout.Point {
	return layout.Point{X: p.X*c.t.Scale + c.t.TranslateX, Y: p.Y*c.t.Scale + c.t.TranslateY}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
