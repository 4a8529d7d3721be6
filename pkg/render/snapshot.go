package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/netcanvas/pkg/debug"
	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/metrics"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

// ErrUnsupportedFormat is returned for output formats other than svg and png.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path      string // Output path; format inferred from extension when Format empty
	Format    string // "svg" or "png" (case-insensitive)
	Title     string
	Index     *network.Index // node attributes by id
	Layout    *layout.Result
	Expanded  *network.ExpandedSet
	Selected  string
	Hits      map[string]bool // search hits to highlight
	Transform *viewport.Transform
	Width     int // canvas size when Transform is set
	Height    int
}

const (
	padding      = 36.0
	headerHeight = 72.0
	minWidth     = 640
	minHeight    = 480
)

// scene is a projected snapshot ready to draw.
type scene struct {
	width, height int
	scale         float64
	tx, ty        float64
	title         string
	nodes         []sceneNode
	edges         []layout.Edge
}

type sceneNode struct {
	id    string
	rect  layout.Rect
	attrs Attributes
}

func (s scene) project(p layout.Point) layout.Point {
	return layout.Point{X: p.X*s.scale + s.tx, Y: p.Y*s.scale + s.ty}
}

func (s scene) projectRect(r layout.Rect) layout.Rect {
	p := s.project(layout.Point{X: r.X, Y: r.Y})
	return layout.Rect{X: p.X, Y: p.Y, W: r.W * s.scale, H: r.H * s.scale}
}

func resolveFormat(opts *SnapshotOptions) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return "", fmt.Errorf("%w %q (want svg or png)", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// SaveSnapshot renders the layout to an SVG or PNG file.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.SnapshotRender)()

	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	format, err := resolveFormat(&opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	sc := buildScene(opts)
	start := time.Now()
	defer func() { debug.LogTiming("snapshot "+opts.Path, time.Since(start)) }()

	switch format {
	case "png":
		return renderPNG(opts.Path, sc)
	default:
		f, err := os.Create(opts.Path)
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		defer f.Close()
		return renderSVG(f, sc)
	}
}

// SaveSnapshots renders one layout to several outputs concurrently. Each path
// gets its own copy of base with Path replaced.
func SaveSnapshots(base SnapshotOptions, paths ...string) error {
	var g errgroup.Group
	for _, p := range paths {
		opts := base
		opts.Path = p
		opts.Format = ""
		g.Go(func() error {
			if err := SaveSnapshot(opts); err != nil {
				return fmt.Errorf("%s: %w", opts.Path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// WriteSVG renders the snapshot as SVG to w.
func WriteSVG(w io.Writer, opts SnapshotOptions) error {
	return renderSVG(w, buildScene(opts))
}

func buildScene(opts SnapshotOptions) scene {
	res := opts.Layout
	if res == nil {
		res = &layout.Result{Positions: map[string]layout.Rect{}}
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Network"
	}
	sc := scene{title: title, edges: res.Edges}

	if opts.Transform != nil && opts.Width > 0 && opts.Height > 0 {
		sc.width, sc.height = opts.Width, opts.Height
		sc.scale = opts.Transform.Scale
		sc.tx = opts.Transform.TranslateX
		sc.ty = opts.Transform.TranslateY + headerHeight
	} else {
		sc.scale = 1
		sc.tx = padding
		sc.ty = padding + headerHeight
		sc.width = max(minWidth, int(res.Bounds.Width+2*padding))
		sc.height = max(minHeight, int(res.Bounds.Height+2*padding+headerHeight))
		if extra := float64(sc.width) - (res.Bounds.Width + 2*padding); extra > 0 {
			sc.tx += extra / 2
		}
	}
	if sc.scale <= 0 {
		sc.scale = 1
	}

	var rootID string
	if opts.Index != nil && opts.Index.Root() != nil {
		rootID = opts.Index.Root().ID
	}
	for _, id := range res.Order {
		var n *network.Node
		if opts.Index != nil {
			n, _ = opts.Index.Lookup(id)
		}
		role := RoleMember
		switch {
		case id == opts.Selected:
			role = RoleSelected
		case opts.Hits[id]:
			role = RoleSearchHit
		case id == rootID:
			role = RoleRoot
		}
		sc.nodes = append(sc.nodes, sceneNode{
			id:    id,
			rect:  res.Positions[id],
			attrs: Style(n, role, opts.Expanded.Has(id)),
		})
	}
	return sc
}

func renderSVG(w io.Writer, sc scene) error {
	canvas := svg.New(w)
	canvas.Start(sc.width, sc.height)
	canvas.Rect(0, 0, sc.width, sc.height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	for _, e := range sc.edges {
		p0, p1, p2, p3 := sc.project(e.P0), sc.project(e.P1), sc.project(e.P2), sc.project(e.P3)
		canvas.Bezier(int(p0.X), int(p0.Y), int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), int(p3.X), int(p3.Y),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.1f", css(colorEdge), 2*sc.scale))
	}

	fontSize := 13 * sc.scale
	for _, n := range sc.nodes {
		r := sc.projectRect(n.rect)
		x, y, w, h := int(r.X), int(r.Y), int(r.W), int(r.H)
		style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", css(n.attrs.Fill), css(n.attrs.Stroke), n.attrs.StrokeWidth*sc.scale)
		if n.attrs.Dashed {
			style += ";stroke-dasharray:6,4"
		}
		canvas.Roundrect(x, y, w, h, int(8*sc.scale), int(8*sc.scale), style)

		if !n.attrs.Dashed {
			cx, cy, radius := x+int(22*sc.scale), y+h/2, int(14*sc.scale)
			canvas.Circle(cx, cy, radius, fmt.Sprintf("fill:%s", css(colorInactive)))
			canvas.Text(cx, cy+int(4*sc.scale), n.attrs.Initials,
				fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:monospace;text-anchor:middle", css(n.attrs.Text), 11*sc.scale))
		}
		textX := x + int(44*sc.scale)
		if n.attrs.Dashed {
			textX = x + int(12*sc.scale)
		}
		canvas.Text(textX, y+int(32*sc.scale), truncate(n.attrs.Label, 18),
			fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:monospace;font-weight:bold", css(n.attrs.Text), fontSize))
		if n.attrs.Subtitle != "" {
			canvas.Text(textX, y+int(52*sc.scale), truncate(n.attrs.Subtitle, 18),
				fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:monospace", css(colorSubtle), 11*sc.scale))
		}
		if n.attrs.Badge {
			canvas.Circle(x+w-int(10*sc.scale), y+int(10*sc.scale), int(4*sc.scale), fmt.Sprintf("fill:%s", css(colorBadge)))
		}
		if n.attrs.ToggleGlyph != "" {
			bc := r.BottomCenter()
			canvas.Circle(int(bc.X), int(bc.Y), int(10*sc.scale), fmt.Sprintf("fill:%s;stroke:%s", css(colorBackdrop), css(colorStroke)))
			canvas.Text(int(bc.X), int(bc.Y+4*sc.scale), n.attrs.ToggleGlyph,
				fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:monospace;text-anchor:middle", css(colorText), 12*sc.scale))
		}
	}

	canvas.Rect(0, 0, sc.width, int(headerHeight), fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Text(24, 32, sc.title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(24, 54, fmt.Sprintf("nodes: %d  edges: %d", len(sc.nodes), len(sc.edges)),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	drawLegendSVG(canvas, sc)

	canvas.End()
	return nil
}

func drawLegendSVG(canvas *svg.SVG, sc scene) {
	x := sc.width - 200
	rows := []struct {
		c     color.RGBA
		label string
	}{
		{colorActive, "Active"},
		{colorPending, "Pending"},
		{colorInactive, "Inactive"},
		{colorSuspended, "Suspended"},
	}
	for i, row := range rows {
		cx := x + (i%2)*96
		cy := 20 + (i/2)*20
		canvas.Roundrect(cx, cy, 14, 14, 3, 3, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(row.c), css(colorStroke)))
		canvas.Text(cx+20, cy+11, row.label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

func renderPNG(path string, sc scene) error {
	dc := gg.NewContext(sc.width, sc.height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorEdge)
	dc.SetLineWidth(2 * sc.scale)
	for _, e := range sc.edges {
		p0, p1, p2, p3 := sc.project(e.P0), sc.project(e.P1), sc.project(e.P2), sc.project(e.P3)
		dc.NewSubPath()
		dc.MoveTo(p0.X, p0.Y)
		dc.CubicTo(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
		dc.Stroke()
	}

	for _, n := range sc.nodes {
		drawNode(dc, sc, n)
	}

	dc.SetColor(colorBackdrop)
	dc.DrawRectangle(0, 0, float64(sc.width), headerHeight)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(sc.title, 24, 28, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d  edges: %d", len(sc.nodes), len(sc.edges)), 24, 50, 0, 0.5)

	return dc.SavePNG(path)
}

func drawNode(dc *gg.Context, sc scene, n sceneNode) {
	r := sc.projectRect(n.rect)
	radius := 8 * sc.scale

	dc.SetColor(n.attrs.Fill)
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	dc.Fill()
	dc.SetColor(n.attrs.Stroke)
	dc.SetLineWidth(n.attrs.StrokeWidth * sc.scale)
	if n.attrs.Dashed {
		dc.SetDash(6, 4)
	}
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	dc.Stroke()
	dc.SetDash()

	dc.SetColor(n.attrs.Text)
	dc.DrawStringAnchored(truncate(n.attrs.Label, 22), r.X+10*sc.scale, r.Y+r.H*0.35, 0, 0.5)
	if n.attrs.Subtitle != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(truncate(n.attrs.Subtitle, 22), r.X+10*sc.scale, r.Y+r.H*0.65, 0, 0.5)
	}
	if n.attrs.Badge {
		dc.SetColor(colorBadge)
		dc.DrawCircle(r.X+r.W-10*sc.scale, r.Y+10*sc.scale, 4*sc.scale)
		dc.Fill()
	}
	if n.attrs.ToggleGlyph != "" {
		bc := r.BottomCenter()
		dc.SetColor(colorBackdrop)
		dc.DrawCircle(bc.X, bc.Y, 10*sc.scale)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		dc.DrawCircle(bc.X, bc.Y, 10*sc.scale)
		dc.Stroke()
		glyph := n.attrs.ToggleGlyph
		if glyph == "−" {
			glyph = "-" // basicfont is ASCII only
		}
		dc.DrawStringAnchored(glyph, bc.X, bc.Y, 0.5, 0.5)
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
