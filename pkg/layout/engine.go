// Package layout computes the centered family-tree layout of the visible part
// of a member network.
//
// Each node gets a slice of horizontal space equal to its subtree width; a
// parent is centered over the slices of its children. Only nodes in the
// expanded set contribute their children, so collapsing a node shrinks the
// layout to a single box for its whole subtree.
package layout

import (
	"math"
	"time"

	"github.com/vanderheijden86/netcanvas/pkg/debug"
	"github.com/vanderheijden86/netcanvas/pkg/metrics"
	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// Dimensions are the fixed box and gap sizes of the layout.
type Dimensions struct {
	NodeWidth         float64
	NodeHeight        float64
	HorizontalSpacing float64
	VerticalSpacing   float64
	CurveOffset       float64 // vertical control-point offset of edge curves
}

// DefaultDimensions returns the reference sizes.
func DefaultDimensions() Dimensions {
	return Dimensions{
		NodeWidth:         180,
		NodeHeight:        80,
		HorizontalSpacing: 40,
		VerticalSpacing:   60,
		CurveOffset:       40,
	}
}

// RowHeight is the vertical distance between consecutive levels.
func (d Dimensions) RowHeight() float64 {
	return d.NodeHeight + d.VerticalSpacing
}

// Result is the output of one layout pass.
type Result struct {
	Positions map[string]Rect
	Order     []string // placement (pre-order) sequence of Positions keys
	Edges     []Edge
	Bounds    Size
	Skipped   []string // ids revisited during placement and left out
}

// Contains reports whether id has a position.
func (r *Result) Contains(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Positions[id]
	return ok
}

// Rect returns the position of id.
func (r *Result) Rect(id string) (Rect, bool) {
	if r == nil {
		return Rect{}, false
	}
	rect, ok := r.Positions[id]
	return rect, ok
}

// NodeAt returns the id of the topmost box containing p. Later placements
// are drawn on top, so the search runs backwards.
func (r *Result) NodeAt(p Point) (string, bool) {
	if r == nil {
		return "", false
	}
	for i := len(r.Order) - 1; i >= 0; i-- {
		id := r.Order[i]
		if r.Positions[id].Contains(p) {
			return id, true
		}
	}
	return "", false
}

// Empty reports whether nothing was placed.
func (r *Result) Empty() bool {
	return r == nil || len(r.Positions) == 0
}

// Engine lays out trees. The subtree-width memo is the only state; it is
// dropped whenever the expanded set's version or the root changes.
// An Engine is not safe for concurrent use.
type Engine struct {
	dims Dimensions

	memo        map[string]float64
	memoRoot    *network.Node
	memoSet     *network.ExpandedSet
	memoVersion uint64
}

// NewEngine returns an engine using dims.
func NewEngine(dims Dimensions) *Engine {
	return &Engine{dims: dims, memo: make(map[string]float64)}
}

// Dimensions returns the engine's box sizes.
func (e *Engine) Dimensions() Dimensions {
	return e.dims
}

// Invalidate drops the width memo.
func (e *Engine) Invalidate() {
	e.memo = make(map[string]float64)
	e.memoRoot = nil
	e.memoSet = nil
}

func (e *Engine) syncMemo(root *network.Node, expanded *network.ExpandedSet) {
	if e.memoRoot != root || e.memoSet != expanded || e.memoVersion != expanded.Version() {
		e.memo = make(map[string]float64)
		e.memoRoot = root
		e.memoSet = expanded
		e.memoVersion = expanded.Version()
		e.measure(root, expanded, make(map[string]bool))
	}
}

// SubtreeWidth returns the horizontal space the node and its visible
// descendants need. It is always at least NodeWidth. A child reached a
// second time under root takes no space, as Layout does not place it again.
func (e *Engine) SubtreeWidth(root, node *network.Node, expanded *network.ExpandedSet) float64 {
	e.syncMemo(root, expanded)
	return e.subtreeWidth(node, expanded)
}

func (e *Engine) subtreeWidth(node *network.Node, expanded *network.ExpandedSet) float64 {
	return e.measure(node, expanded, make(map[string]bool))
}

// measure walks in placement order, so visited matches the set of nodes
// Layout has already placed when it reaches each child.
func (e *Engine) measure(node *network.Node, expanded *network.ExpandedSet, visited map[string]bool) float64 {
	if node == nil {
		return 0
	}
	if w, ok := e.memo[node.ID]; ok {
		return w
	}
	visited[node.ID] = true
	if !expanded.Has(node.ID) || len(node.Children) == 0 {
		e.memo[node.ID] = e.dims.NodeWidth
		return e.dims.NodeWidth
	}
	total := 0.0
	counted := 0
	for _, child := range node.Children {
		if child == nil || visited[child.ID] {
			continue
		}
		total += e.measure(child, expanded, visited)
		counted++
	}

	if counted == 0 {
		total = e.dims.NodeWidth
	} else {
		total += float64(counted-1) * e.dims.HorizontalSpacing
	}
	total = math.Max(total, e.dims.NodeWidth)
	e.memo[node.ID] = total
	return total
}

// Layout places every visible node of root. A nil root yields an empty result.
func (e *Engine) Layout(root *network.Node, expanded *network.ExpandedSet) (res *Result) {
	start := time.Now()
	defer func() {
		d := time.Since(start)
		metrics.LayoutCompute.Record(d)
		if metrics.LayoutCompute.Over(d) {
			debug.Log("layout: %d nodes took %v, over the frame budget", len(res.Order), d)
		}
	}()

	res = &Result{Positions: make(map[string]Rect)}
	if root == nil {
		return res
	}
	e.syncMemo(root, expanded)

	visited := make(map[string]bool)
	var place func(node *network.Node, level int, centerX float64) bool
	place = func(node *network.Node, level int, centerX float64) bool {
		if visited[node.ID] {
			res.Skipped = append(res.Skipped, node.ID)
			debug.Log("layout: node %q revisited at level %d, skipping", node.ID, level)
			return false
		}
		visited[node.ID] = true

		rect := Rect{
			X: centerX - e.dims.NodeWidth/2,
			Y: float64(level) * e.dims.RowHeight(),
			W: e.dims.NodeWidth,
			H: e.dims.NodeHeight,
		}
		res.Positions[node.ID] = rect
		res.Order = append(res.Order, node.ID)

		if !expanded.Has(node.ID) || len(node.Children) == 0 {
			return true
		}

		total := e.subtreeWidth(node, expanded)
		cursor := centerX - total/2
		for _, child := range node.Children {
			if child == nil {
				continue
			}
			w := e.subtreeWidth(child, expanded)
			if !place(child, level+1, cursor+w/2) {
				continue
			}
			res.Edges = append(res.Edges, e.connector(node.ID, rect, child.ID, res.Positions[child.ID]))
			cursor += w + e.dims.HorizontalSpacing
		}
		return true
	}
	place(root, 0, 0)

	normalize(res)
	return res
}

func (e *Engine) connector(fromID string, from Rect, toID string, to Rect) Edge {
	p0 := from.BottomCenter()
	p3 := to.TopCenter()
	return Edge{
		From: fromID,
		To:   toID,
		P0:   p0,
		P1:   Point{X: p0.X, Y: p0.Y + e.dims.CurveOffset},
		P2:   Point{X: p3.X, Y: p3.Y - e.dims.CurveOffset},
		P3:   p3,
	}
}

// normalize shifts everything horizontally so min(x) == 0 and computes the
// bounds. Vertical coordinates are left alone.
func normalize(res *Result) {
	if len(res.Positions) == 0 {
		return
	}
	minX := math.Inf(1)
	for _, r := range res.Positions {
		minX = math.Min(minX, r.X)
	}
	maxX, maxY := 0.0, 0.0
	for id, r := range res.Positions {
		r.X -= minX
		res.Positions[id] = r
		maxX = math.Max(maxX, r.X+r.W)
		maxY = math.Max(maxY, r.Y+r.H)
	}
	for i := range res.Edges {
		res.Edges[i] = res.Edges[i].shifted(-minX)
	}
	res.Bounds = Size{Width: maxX, Height: maxY}
}
