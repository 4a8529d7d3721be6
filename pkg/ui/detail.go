package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/netcanvas/pkg/network"
	"github.com/vanderheijden86/netcanvas/pkg/render"
)

// DetailWidth is the width of the member detail panel in columns.
const DetailWidth = 42

// detailMarkdown describes n for the detail panel.
func detailMarkdown(n *network.Node, idx *network.Index) string {
	if n == nil {
		return ""
	}
	attrs := render.Style(n, render.RoleSelected, false)

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", escapeMarkdown(attrs.Label))
	sb.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| ID | %s |\n", codeSpan(n.ID))
	if n.Pin != "" {
		fmt.Fprintf(&sb, "| Rank | %s |\n", escapeMarkdown(n.Pin))
	}
	status := string(n.Status)
	if status == "" {
		status = "unknown"
	}
	fmt.Fprintf(&sb, "| Status | %s |\n", status)
	fmt.Fprintf(&sb, "| Level | %d |\n", n.Level)
	fmt.Fprintf(&sb, "| Transacted | %s |\n", yesNo(n.HasTransacted))

	members, vacant := 0, 0
	for _, c := range n.Children {
		if c == nil || c.IsEmpty {
			vacant++
		} else {
			members++
		}
	}
	fmt.Fprintf(&sb, "| Direct members | %d |\n", members)
	if vacant > 0 {
		fmt.Fprintf(&sb, "| Open slots | %d |\n", vacant)
	}

	if idx != nil {
		if anc := idx.Ancestors(n.ID); len(anc) > 0 {
			names := make([]string, 0, len(anc))
			for _, id := range anc {
				p, _ := idx.Lookup(id)
				names = append(names, escapeMarkdown(render.Style(p, render.RoleMember, false).Label))
			}
			fmt.Fprintf(&sb, "\n**Upline:** %s\n", strings.Join(names, " › "))
		}
	}
	if attrs.Placeholder {
		sb.WriteString("\n_Member details are missing._\n")
	}
	return sb.String()
}

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"`", "\\`",
	"*", "\\*",
	"_", "\\_",
	"[", "\\[",
	"]", "\\]",
	"<", "&lt;",
	">", "&gt;",
	"#", "\\#",
	"|", "\\|",
	"~", "\\~",
	"\n", " ",
)

// escapeMarkdown makes member-supplied text render literally, including
// inside table cells.
func escapeMarkdown(text string) string {
	return stripControl(markdownReplacer.Replace(text))
}

// codeSpan wraps text in a backtick fence longer than any run inside it.
// Pipes stay escaped so the span cannot split a table row.
func codeSpan(text string) string {
	text = strings.ReplaceAll(stripControl(strings.ReplaceAll(text, "\n", " ")), "|", `\|`)
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if longest > 0 {
		return fence + " " + text + " " + fence
	}
	return fence + text + fence
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// newMarkdownRenderer builds the detail renderer. style "auto" detects the
// terminal background; "notty" produces plain text.
func newMarkdownRenderer(style string, width int) *glamour.TermRenderer {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil
	}
	return r
}

// renderDetail renders markdown, falling back to the raw text when no
// renderer is available.
func renderDetail(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
