package layout

// Point is a position in content space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned node box in content space.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the box center.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// TopLeft returns the box origin.
func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

// TopCenter is the anchor incoming edges attach to.
func (r Rect) TopCenter() Point {
	return Point{X: r.X + r.W/2, Y: r.Y}
}

// BottomCenter is the anchor outgoing edges leave from.
func (r Rect) BottomCenter() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H}
}

// Contains reports whether p lies inside the box (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Edge is a cubic Bezier connector from a parent's bottom-center (P0) to a
// child's top-center (P3).
type Edge struct {
	From, To       string
	P0, P1, P2, P3 Point
}

// At evaluates the curve at t in [0,1].
func (e Edge) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*e.P0.X + b*e.P1.X + c*e.P2.X + d*e.P3.X,
		Y: a*e.P0.Y + b*e.P1.Y + c*e.P2.Y + d*e.P3.Y,
	}
}

func (e Edge) shifted(dx float64) Edge {
	e.P0.X += dx
	e.P1.X += dx
	e.P2.X += dx
	e.P3.X += dx
	return e
}
