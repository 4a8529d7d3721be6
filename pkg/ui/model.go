// Package ui is the terminal host for a netcanvas session: the tree is drawn
// as boxes and curves on a character grid, the mouse drags and zooms, and a
// search box and member detail panel sit on top.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/netcanvas/pkg/canvas"
	"github.com/vanderheijden86/netcanvas/pkg/config"
	"github.com/vanderheijden86/netcanvas/pkg/interaction"
	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/metrics"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/render"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
	"github.com/vanderheijden86/netcanvas/pkg/watcher"
)

const (
	headerRows      = 1
	footerRows      = 1
	maxSearchRows   = 8
	fitPadding      = 40.0
	panColumns      = 4
	panRows         = 2
	snapshotPattern = "netcanvas-20060102-150405"
)

// FileChangedMsg is sent when the watched tree file changes.
type FileChangedMsg struct{}

type treeReloadedMsg struct {
	root *network.Node
	err  error
}

type snapshotSavedMsg struct {
	paths []string
	err   error
}

// Option configures a Model.
type Option func(*Model)

// WithConfig applies a loaded configuration.
func WithConfig(cfg config.Config) Option {
	return func(m *Model) { m.cfg = cfg }
}

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithWatcher reloads the tree through reload whenever w reports a change.
func WithWatcher(w *watcher.Watcher, reload func() (*network.Node, error)) Option {
	return func(m *Model) {
		m.watcher = w
		m.reload = reload
	}
}

// WithGlamourStyle selects the detail panel markdown style ("auto", "dark",
// "light", "notty").
func WithGlamourStyle(style string) Option {
	return func(m *Model) { m.mdStyle = style }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copy = fn }
}

// WithSnapshotDir sets where the snapshot key writes SVG and PNG files.
func WithSnapshotDir(dir string) Option {
	return func(m *Model) { m.snapshotDir = dir }
}

// WithExpandAll starts fully expanded.
func WithExpandAll(on bool) Option {
	return func(m *Model) { m.expandAll = on }
}

// Model is the bubbletea model.
type Model struct {
	cfg   config.Config
	cv    *canvas.Canvas
	title string

	width, height int
	cellW, cellH  float64

	input     textinput.Model
	searching bool
	cursor    int

	detail  string
	md      *glamour.TermRenderer
	mdStyle string

	status    string
	err       error
	showHelp  bool
	expandAll bool

	watcher     *watcher.Watcher
	reload      func() (*network.Node, error)
	copy        func(string) error
	snapshotDir string
}

// NewModel mounts root and sizes the canvas for the current terminal; the
// first WindowSizeMsg resizes it.
func NewModel(root *network.Node, opts ...Option) Model {
	width, height := TerminalSize()
	m := Model{
		cfg:     config.DefaultConfig(),
		title:   "netcanvas",
		width:   width,
		height:  height,
		mdStyle: "auto",
		copy:    clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.cellW, m.cellH = m.cfg.UI.CellWidth, m.cfg.UI.CellHeight
	if m.cellW <= 0 || m.cellH <= 0 {
		d := config.DefaultConfig().UI
		m.cellW, m.cellH = d.CellWidth, d.CellHeight
	}
	m.showHelp = m.cfg.UI.ShowHelp
	if m.snapshotDir == "" {
		m.snapshotDir = config.StateDir()
	}

	ti := textinput.New()
	ti.Placeholder = "search members…"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	m.input = ti

	m.mount(root, nil)
	return m
}

func (m *Model) mount(root *network.Node, expanded []string) {
	opts := []canvas.Option{canvas.WithOptions(m.cfg.CanvasOptions())}
	if expanded != nil {
		opts = append(opts, canvas.WithExpanded(expanded...))
	}
	m.cv = canvas.New(root, opts...)
	if m.expandAll && expanded == nil {
		m.cv.ExpandAll()
	}
	m.resize()
}

// Canvas exposes the mounted session.
func (m Model) Canvas() *canvas.Canvas {
	return m.cv
}

func (m Model) canvasRows() int {
	return max(m.height-headerRows-footerRows, 1)
}

// canvasCols is the width of the grid left of the detail panel.
func (m Model) canvasCols() int {
	if m.detailShown() {
		return m.width - DetailWidth
	}
	return m.width
}

func (m Model) containerSize() layout.Size {
	return layout.Size{Width: float64(m.canvasCols()) * m.cellW, Height: float64(m.canvasRows()) * m.cellH}
}

// resize recenters the tree in the new container.
func (m *Model) resize() {
	size := m.containerSize()
	m.cv.Resize(size.Width, size.Height)
}

// reflow tracks the detail panel without moving the view.
func (m *Model) reflow() {
	m.cv.Viewport().SetContainer(m.containerSize())
}

// WatchFileCmd waits for the next change of w.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func reloadCmd(reload func() (*network.Node, error)) tea.Cmd {
	return func() tea.Msg {
		root, err := reload()
		return treeReloadedMsg{root: root, err: err}
	}
}

func saveSnapshotCmd(opts render.SnapshotOptions, paths []string) tea.Cmd {
	return func() tea.Msg {
		err := render.SaveSnapshots(opts, paths...)
		return snapshotSavedMsg{paths: paths, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.md = nil
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)

	case FileChangedMsg:
		var cmds []tea.Cmd
		if m.reload != nil {
			cmds = append(cmds, reloadCmd(m.reload))
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case treeReloadedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("reloading tree: %w", msg.err)
			return m, nil
		}
		selected := m.cv.Selected()
		m.mount(msg.root, m.cv.Expanded().IDs())
		m.err = nil
		m.status = "tree reloaded"
		if selected != "" && m.cv.Select(selected) {
			m.openDetail(selected)
		} else {
			m.closeDetail()
		}
		return m, nil

	case snapshotSavedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "saved " + strings.Join(msg.paths, ", ")
		}
		return m, nil
	}
	return m, nil
}

// toScreen converts a terminal cell to a screen-space point at the cell
// center. ok is false outside the canvas area.
func (m Model) toScreen(x, y int) (layout.Point, bool) {
	row := y - headerRows
	if row < 0 || row >= m.canvasRows() || x < 0 || x >= m.width {
		return layout.Point{}, false
	}
	return layout.Point{X: (float64(x) + 0.5) * m.cellW, Y: (float64(row) + 0.5) * m.cellH}, true
}

func (m Model) overPanel(x, y int) bool {
	if m.detailShown() && x >= m.width-DetailWidth {
		return true
	}
	if m.searching && y-headerRows >= m.canvasRows()-m.searchPanelRows() {
		return true
	}
	return false
}

func (m Model) detailShown() bool {
	return m.detail != "" && m.width > DetailWidth+10
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	p, inside := m.toScreen(msg.X, msg.Y)
	blocked := !inside || m.overPanel(msg.X, msg.Y)

	var ev interaction.Event
	switch {
	case msg.Button == tea.MouseButtonWheelUp && !blocked:
		ev = interaction.Wheel{At: p, DeltaY: -1}
	case msg.Button == tea.MouseButtonWheelDown && !blocked:
		ev = interaction.Wheel{At: p, DeltaY: 1}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !blocked:
		ev = interaction.PointerDown{At: p}
	case msg.Action == tea.MouseActionMotion:
		if !inside {
			ev = interaction.PointerLeave{}
		} else {
			ev = interaction.PointerMove{At: p}
		}
	case msg.Action == tea.MouseActionRelease:
		ev = interaction.PointerUp{At: p}
	default:
		return m
	}
	m.apply(m.cv.Handle(ev))
	return m
}

func (m *Model) apply(events []canvas.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case canvas.EventNodeSelected:
			m.openDetail(e.Node.ID)
		case canvas.EventToggleExpand:
			verb := "collapsed"
			if e.Expanded {
				verb = "expanded"
			}
			m.status = fmt.Sprintf("%s %s", verb, e.ID)
		}
	}
}

func (m *Model) openDetail(id string) {
	n, ok := m.cv.Index().Lookup(id)
	if !ok {
		return
	}
	if m.md == nil {
		m.md = newMarkdownRenderer(m.mdStyle, DetailWidth-4)
	}
	m.detail = renderDetail(m.md, detailMarkdown(n, m.cv.Index()))
	m.reflow()
}

func (m *Model) closeDetail() {
	m.detail = ""
	m.reflow()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.cursor = 0
		m.input.SetValue("")
		return m, m.input.Focus()
	case "+", "=":
		m.cv.ZoomCenter(viewport.ZoomIn)
	case "-", "_":
		m.cv.ZoomCenter(viewport.ZoomOut)
	case "0":
		m.cv.CenterView()
	case "f":
		m.cv.Fit(fitPadding)
	case "left", "h":
		m.cv.Pan(panColumns*m.cellW, 0)
	case "right", "l":
		m.cv.Pan(-panColumns*m.cellW, 0)
	case "up", "k":
		m.cv.Pan(0, panRows*m.cellH)
	case "down", "j":
		m.cv.Pan(0, -panRows*m.cellH)
	case "e":
		m.cv.ExpandAll()
		m.status = "expanded all"
	case "c":
		m.cv.CollapseAll()
		m.status = "collapsed to root"
	case "enter", " ":
		if id := m.cv.Selected(); id != "" && m.cv.Toggle(id) {
			m.status = "toggled " + id
		}
	case "y":
		if id := m.cv.Selected(); id != "" {
			if err := m.copy(id); err != nil {
				m.err = fmt.Errorf("copy to clipboard: %w", err)
			} else {
				m.status = "copied " + id
			}
		}
	case "s":
		return m, m.snapshot()
	case "r":
		if m.reload != nil {
			return m, reloadCmd(m.reload)
		}
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		m.closeDetail()
		m.cv.ClearSelection()
		m.cv.ClearSearch()
		m.err = nil
	}
	return m, nil
}

func (m Model) snapshot() tea.Cmd {
	opts := m.cv.Snapshot(m.title, false)
	opts.Expanded = opts.Expanded.Clone()
	base := filepath.Join(m.snapshotDir, time.Now().Format(snapshotPattern))
	return saveSnapshotCmd(opts, []string{base + ".svg", base + ".png"})
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.cv.SearchState().Results
	switch msg.String() {
	case "esc":
		m.searching = false
		m.input.Blur()
		m.cv.ClearSearch()
		return m, nil
	case "enter":
		if m.cursor < len(results) {
			id := results[m.cursor].ID
			if m.cv.SelectResult(id) {
				// The panel narrows the canvas; center on what is left.
				m.openDetail(id)
				m.cv.FocusOnNode(id)
			}
		}
		m.searching = false
		m.input.Blur()
		return m, nil
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.cursor < len(results)-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	st := m.cv.Search(m.input.Value())
	if m.cursor >= len(st.Results) {
		m.cursor = max(len(st.Results)-1, 0)
	}
	return m, cmd
}

func (m Model) searchPanelRows() int {
	if !m.searching {
		return 0
	}
	// border (2) + input + results
	return 3 + min(max(len(m.cv.SearchState().Results), 1), maxSearchRows)
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	header := HeaderStyle.Render(m.title) + StatusBarStyle.Render(fmt.Sprintf("%d members · zoom %.0f%%",
		m.cv.Index().Len(), m.cv.Transform().Scale*100))

	rows := m.canvasRows()
	searchRows := min(m.searchPanelRows(), rows)
	gridRows := rows - searchRows
	gridCols := m.canvasCols()
	detailShown := m.detailShown()

	body := renderCanvas(m.cv, gridCols, gridRows, m.cellW, m.cellH, true)
	if detailShown {
		panel := PanelStyle.Width(DetailWidth - 2).Height(max(gridRows-2, 1)).MaxHeight(gridRows).Render(m.detail)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}
	if searchRows > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.searchView(searchRows))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.footer())
}

func (m Model) searchView(rows int) string {
	st := m.cv.SearchState()
	lines := []string{m.input.View()}
	switch {
	case !st.Visible:
		lines = append(lines, StatusBarStyle.Render(fmt.Sprintf("type at least %d characters", m.cfg.Search.MinQueryLength)))
	case len(st.Results) == 0:
		lines = append(lines, StatusBarStyle.Render("no matches"))
	default:
		start := 0
		if m.cursor >= maxSearchRows {
			start = m.cursor - maxSearchRows + 1
		}
		for i := start; i < len(st.Results) && i < start+maxSearchRows; i++ {
			n := st.Results[i]
			line := padRight(truncate(fmt.Sprintf("%s  (%s)", n.DisplayName(), n.ID), m.width-6), m.width-6)
			if i == m.cursor {
				lines = append(lines, SelectedResultStyle.Render("› "+line))
			} else {
				lines = append(lines, ResultStyle.Render("  "+line))
			}
		}
	}
	if len(lines) > rows-2 {
		lines = lines[:max(rows-2, 1)]
	}
	return PanelStyle.Width(max(m.width-2, 10)).Render(strings.Join(lines, "\n"))
}

func (m Model) footer() string {
	switch {
	case m.err != nil:
		return ErrorStyle.Render(truncate(m.err.Error(), m.width))
	case m.status != "":
		return StatusBarStyle.Render(truncate(m.status, m.width-1))
	case m.showHelp:
		return StatusBarStyle.Render(truncate("drag pan · wheel/+/- zoom · click toggle/select · / search · e/c expand/collapse all · 0 center · f fit · y copy · s snapshot · q quit", m.width-1))
	}
	return ""
}
