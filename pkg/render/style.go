// Package render maps network nodes to visual attributes and draws static
// snapshots of a layout.
package render

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// Role is how a node participates in the current view.
type Role int

const (
	RoleMember Role = iota
	RoleRoot
	RoleSelected
	RoleSearchHit
)

// PlaceholderName is shown for members without a display name.
const PlaceholderName = "Unknown member"

// VacantLabel is shown on vacant slots.
const VacantLabel = "Open slot"

var (
	colorActive    = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorInactive  = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorPending   = color.RGBA{0xff, 0xf3, 0xe0, 0xff}
	colorSuspended = color.RGBA{0xff, 0xcd, 0xd2, 0xff}
	colorUnknown   = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorVacant    = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorStroke    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorSelected  = color.RGBA{0x1e, 0x88, 0xe5, 0xff}
	colorHit       = color.RGBA{0xff, 0xb3, 0x00, 0xff}
	colorRoot      = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorEdge      = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorBadge     = color.RGBA{0x2e, 0x7d, 0x32, 0xff}
)

// Attributes is everything a surface needs to draw one node.
type Attributes struct {
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth float64
	Dashed      bool // vacant slots use a dashed outline
	Text        color.RGBA
	Label       string
	Subtitle    string
	Initials    string
	Avatar      string // empty when a placeholder avatar should be drawn
	Placeholder bool   // member attributes were missing
	Badge       bool   // has transacted
	Selectable  bool
	ToggleGlyph string // "+" collapsed, "−" expanded, "" when there are no children
}

// StatusColor returns the fill for a status category.
func StatusColor(s network.Status) color.RGBA {
	switch s {
	case network.StatusActive:
		return colorActive
	case network.StatusInactive:
		return colorInactive
	case network.StatusPending:
		return colorPending
	case network.StatusSuspended:
		return colorSuspended
	default:
		return colorUnknown
	}
}

// Style computes the attributes for n. It never panics on missing member
// data; a nil node renders as a vacant slot.
func Style(n *network.Node, role Role, expanded bool) Attributes {
	if n == nil || n.IsEmpty {
		a := Attributes{
			Fill:        colorVacant,
			Stroke:      colorSubtle,
			StrokeWidth: 1,
			Dashed:      true,
			Text:        colorSubtle,
			Label:       VacantLabel,
		}
		if n != nil {
			a.ToggleGlyph = toggleGlyph(n, expanded)
		}
		return a
	}

	a := Attributes{
		Fill:        StatusColor(n.Status),
		Stroke:      colorStroke,
		StrokeWidth: 1.2,
		Text:        colorText,
		Label:       n.DisplayName(),
		Subtitle:    strings.TrimSpace(n.Pin),
		Avatar:      strings.TrimSpace(n.Avatar),
		Badge:       n.HasTransacted,
		Selectable:  true,
		ToggleGlyph: toggleGlyph(n, expanded),
	}
	if a.Label == "" {
		a.Label = PlaceholderName
		a.Placeholder = true
	}
	a.Initials = Initials(a.Label)
	if a.Placeholder {
		a.Initials = "?"
	}

	switch role {
	case RoleRoot:
		a.Stroke = colorRoot
		a.StrokeWidth = 2
	case RoleSelected:
		a.Stroke = colorSelected
		a.StrokeWidth = 3
	case RoleSearchHit:
		a.Stroke = colorHit
		a.StrokeWidth = 2.5
	}
	return a
}

func toggleGlyph(n *network.Node, expanded bool) string {
	if !n.HasChildren() {
		return ""
	}
	if expanded {
		return "−"
	}
	return "+"
}

// Initials returns up to two uppercase initials from name.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}
