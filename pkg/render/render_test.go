package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

// TestStyleMissingAttributesUsesPlaceholder verifies a member without name
// or avatar renders with placeholder text rather than failing.
func TestStyleMissingAttributesUsesPlaceholder(t *testing.T) {
	a := Style(&network.Node{ID: "x"}, RoleMember, false)
	if a.Label != PlaceholderName || !a.Placeholder {
		t.Errorf("label = %q placeholder=%v", a.Label, a.Placeholder)
	}
	if a.Initials != "?" || a.Avatar != "" {
		t.Errorf("initials=%q avatar=%q", a.Initials, a.Avatar)
	}
	if !a.Selectable || a.Dashed {
		t.Error("member should be selectable and solid")
	}
}

func TestStyleVacant(t *testing.T) {
	for _, n := range []*network.Node{nil, network.NewVacant(2)} {
		a := Style(n, RoleSelected, false)
		if !a.Dashed || a.Selectable || a.Label != VacantLabel {
			t.Errorf("vacant attrs = %+v", a)
		}
	}
}

func TestStyleRolesAndStatus(t *testing.T) {
	n := &network.Node{ID: "m", Name: "ada lovelace", Status: network.StatusPending, HasTransacted: true,
		Children: []*network.Node{{ID: "c"}}}

	plain := Style(n, RoleMember, false)
	if plain.Fill != StatusColor(network.StatusPending) {
		t.Error("fill should follow status")
	}
	if plain.Initials != "AL" || !plain.Badge || plain.ToggleGlyph != "+" {
		t.Errorf("unexpected attrs %+v", plain)
	}
	if Style(n, RoleMember, true).ToggleGlyph != "−" {
		t.Error("expanded node should show collapse glyph")
	}
	if sel := Style(n, RoleSelected, false); sel.StrokeWidth <= plain.StrokeWidth {
		t.Error("selected node should have a heavier outline")
	}
	if StatusColor("bogus") != colorUnknown {
		t.Error("unknown status should fall back")
	}
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"":                "?",
		"cher":            "C",
		"  jean  paul x ": "JP",
		"élan vital":      "ÉV",
		"- 42 club":       "4C",
	}
	for in, want := range cases {
		if got := Initials(in); got != want {
			t.Errorf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func sampleSnapshot() SnapshotOptions {
	root := &network.Node{ID: "r", Name: "Root", Children: []*network.Node{
		{ID: "a", Name: "Alice & Co", Status: network.StatusActive, Level: 1},
		{ID: "b", Name: "Bob", Level: 1, Children: []*network.Node{{ID: "b1", Name: "Deep", Level: 2}}},
	}}
	expanded := network.DefaultExpanded(root)
	res := layout.NewEngine(layout.DefaultDimensions()).Layout(root, expanded)
	return SnapshotOptions{
		Title:    "Team",
		Index:    network.NewIndex(root),
		Layout:   res,
		Expanded: expanded,
		Selected: "a",
	}
}

func TestWriteSVGContainsNodesAndCurves(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sampleSnapshot()); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Error("expected xml header")
	}
	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("expected 2 bezier edges, got %d", got)
	}
	for _, want := range []string{"Team", "Alice &amp; Co", "nodes: 3", css(colorSelected)} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestWriteSVGWithTransform(t *testing.T) {
	opts := sampleSnapshot()
	opts.Transform = &viewport.Transform{Scale: 0.5, TranslateX: 10, TranslateY: 0}
	opts.Width, opts.Height = 300, 200

	var buf bytes.Buffer
	if err := WriteSVG(&buf, opts); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if !strings.Contains(buf.String(), `width="300"`) {
		t.Error("viewport snapshot should use the requested canvas size")
	}
}

func TestSaveSnapshotFormats(t *testing.T) {
	dir := t.TempDir()
	base := sampleSnapshot()

	if err := SaveSnapshots(base, filepath.Join(dir, "out.svg"), filepath.Join(dir, "nested", "out.png")); err != nil {
		t.Fatalf("SaveSnapshots: %v", err)
	}
	for _, name := range []string{"out.svg", filepath.Join("nested", "out.png")} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	opts := base
	opts.Path = filepath.Join(dir, "noext")
	if err := SaveSnapshot(opts); err != nil {
		t.Fatalf("SaveSnapshot without extension: %v", err)
	}
	if _, err := os.Stat(opts.Path + ".svg"); err != nil {
		t.Error("missing extension should default to svg")
	}

	opts.Format = "gif"
	if err := SaveSnapshot(opts); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if err := SaveSnapshot(SnapshotOptions{}); err == nil {
		t.Error("empty path should fail")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "a..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("ñandú", 10); got != "ñandú" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Errorf("zero width = %q", got)
	}
}
