package ui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/netcanvas/pkg/canvas"
	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/render"
)

type cell struct {
	r     rune // 0 marks the second column of a wide rune
	class cellClass
}

// grid is a character raster of the canvas area.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	w, h = max(w, 0), max(h, 0)
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i] = cell{r: ' '}
	}
	return g
}

func (g *grid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

func (g *grid) set(x, y int, r rune, c cellClass) {
	if g.in(x, y) {
		g.cells[y*g.w+x] = cell{r: r, class: c}
	}
}

func (g *grid) at(x, y int) cell {
	if !g.in(x, y) {
		return cell{}
	}
	return g.cells[y*g.w+x]
}

// text writes s starting at column x, never past column limit.
func (g *grid) text(x, y int, s string, limit int, c cellClass) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			return
		}
		g.set(x, y, r, c)
		if rw == 2 {
			g.set(x+1, y, 0, c)
		}
		x += rw
	}
}

// lines renders every row, styling runs of equal class when styled is set.
func (g *grid) lines(styled bool) []string {
	out := make([]string, g.h)
	var row, run strings.Builder
	for y := 0; y < g.h; y++ {
		row.Reset()
		run.Reset()
		current := classBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := classStyles[current]; ok && styled {
				row.WriteString(st.Render(run.String()))
			} else {
				row.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.r == 0 {
				continue
			}
			if c.class != current {
				flush()
				current = c.class
			}
			run.WriteRune(c.r)
		}
		flush()
		out[y] = row.String()
	}
	return out
}

type boxRunes struct {
	tl, tr, bl, br, h, v rune
}

var (
	solidBox    = boxRunes{'┌', '┐', '└', '┘', '─', '│'}
	dashedBox   = boxRunes{'┌', '┐', '└', '┘', '┄', '┆'}
	selectedBox = boxRunes{'╔', '╗', '╚', '╝', '═', '║'}
)

// rasterizer projects a canvas into terminal cells. Each cell covers
// cellW x cellH screen px.
type rasterizer struct {
	cv           *canvas.Canvas
	cellW, cellH float64
	hits         map[string]bool
}

func (r rasterizer) cellOf(p layout.Point) (int, int) {
	return int(math.Floor(p.X / r.cellW)), int(math.Floor(p.Y / r.cellH))
}

func (r rasterizer) draw(g *grid) {
	res := r.cv.Layout()
	if res.Empty() {
		return
	}
	vp := r.cv.Viewport()

	for _, e := range res.Edges {
		a, b := vp.ContentToScreen(e.P0), vp.ContentToScreen(e.P3)
		steps := int(math.Hypot(b.X-a.X, b.Y-a.Y)/math.Min(r.cellW, r.cellH))*2 + 8
		for i := 0; i <= steps; i++ {
			x, y := r.cellOf(vp.ContentToScreen(e.At(float64(i) / float64(steps))))
			if g.at(x, y).class == classBlank {
				g.set(x, y, '·', classEdge)
			}
		}
	}

	rootID := ""
	if root := r.cv.Root(); root != nil {
		rootID = root.ID
	}
	for _, id := range res.Order {
		n, _ := r.cv.Index().Lookup(id)
		role := render.RoleMember
		switch {
		case id == r.cv.Selected():
			role = render.RoleSelected
		case r.hits[id]:
			role = render.RoleSearchHit
		case id == rootID:
			role = render.RoleRoot
		}
		attrs := render.Style(n, role, r.cv.Expanded().Has(id))
		r.drawNode(g, vp.ContentToScreen(res.Positions[id].TopLeft()), res.Positions[id], n, role, attrs)
	}
}

func (r rasterizer) drawNode(g *grid, topLeft layout.Point, box layout.Rect, n *network.Node, role render.Role, attrs render.Attributes) {
	scale := r.cv.Transform().Scale
	x0, y0 := r.cellOf(topLeft)
	x1, y1 := r.cellOf(layout.Point{X: topLeft.X + box.W*scale, Y: topLeft.Y + box.H*scale})
	x1, y1 = x1-1, y1-1

	class := classVacant
	if !attrs.Dashed {
		class = statusClass(n.Status)
	}
	switch role {
	case render.RoleSelected:
		class = classSelected
	case render.RoleSearchHit:
		class = classHit
	case render.RoleRoot:
		if !attrs.Dashed {
			class = classRoot
		}
	}

	if x1-x0 < 2 || y1-y0 < 1 {
		marker := '●'
		if attrs.Dashed {
			marker = '○'
		}
		g.set((x0+x1)/2, (y0+y1)/2, marker, class)
		return
	}

	runes := solidBox
	switch {
	case role == render.RoleSelected:
		runes = selectedBox
	case attrs.Dashed:
		runes = dashedBox
	}
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, runes.h, class)
		g.set(x, y1, runes.h, class)
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, runes.v, class)
		g.set(x1, y, runes.v, class)
		for x := x0 + 1; x < x1; x++ {
			g.set(x, y, ' ', class)
		}
	}
	g.set(x0, y0, runes.tl, class)
	g.set(x1, y0, runes.tr, class)
	g.set(x0, y1, runes.bl, class)
	g.set(x1, y1, runes.br, class)

	inner := x1 - x0 - 1
	label := attrs.Label
	if attrs.Badge {
		label = "$ " + label
	}
	if y1-y0 >= 2 {
		g.text(x0+1, y0+1, truncate(label, inner), x1, class)
	}
	if y1-y0 >= 3 && attrs.Subtitle != "" {
		g.text(x0+1, y0+2, truncate(attrs.Subtitle, inner), x1, classUnknown)
	}
	if attrs.ToggleGlyph != "" {
		mid := (x0 + x1) / 2
		g.text(mid-1, y1, "["+attrs.ToggleGlyph+"]", x1, classToggle)
	}
}

// renderCanvas draws the canvas into a w x h block of text.
func renderCanvas(cv *canvas.Canvas, w, h int, cellW, cellH float64, styled bool) string {
	g := newGrid(w, h)
	hits := make(map[string]bool)
	for _, n := range cv.SearchState().Results {
		hits[n.ID] = true
	}
	rasterizer{cv: cv, cellW: cellW, cellH: cellH, hits: hits}.draw(g)
	return strings.Join(g.lines(styled), "\n")
}
