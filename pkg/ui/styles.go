package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// SpaceXS is the panel padding in characters.
const SpaceXS = 1

// Adaptive palette for light and dark terminals.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	ColorStatusActive    = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorStatusPending   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorStatusInactive  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorStatusSuspended = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			PaddingLeft(SpaceXS)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			PaddingLeft(SpaceXS)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	// PanelStyle frames the search and detail panels.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, SpaceXS)

	ResultStyle         = lipgloss.NewStyle().Foreground(ColorText)
	SelectedResultStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
)

// cellClass tags grid cells so a row can be styled in runs.
type cellClass uint8

const (
	classBlank cellClass = iota
	classEdge
	classVacant
	classActive
	classPending
	classInactive
	classSuspended
	classUnknown
	classRoot
	classSelected
	classHit
	classToggle
)

var classStyles = map[cellClass]lipgloss.Style{
	classEdge:      lipgloss.NewStyle().Foreground(ColorMuted),
	classVacant:    lipgloss.NewStyle().Foreground(ColorMuted).Faint(true),
	classActive:    lipgloss.NewStyle().Foreground(ColorStatusActive),
	classPending:   lipgloss.NewStyle().Foreground(ColorStatusPending),
	classInactive:  lipgloss.NewStyle().Foreground(ColorStatusInactive),
	classSuspended: lipgloss.NewStyle().Foreground(ColorStatusSuspended),
	classUnknown:   lipgloss.NewStyle().Foreground(ColorSubtext),
	classRoot:      lipgloss.NewStyle().Foreground(ColorInfo).Bold(true),
	classSelected:  lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
	classHit:       lipgloss.NewStyle().Foreground(ColorWarning).Bold(true),
	classToggle:    lipgloss.NewStyle().Foreground(ColorText).Bold(true),
}

func statusClass(s network.Status) cellClass {
	switch s {
	case network.StatusActive:
		return classActive
	case network.StatusPending:
		return classPending
	case network.StatusInactive:
		return classInactive
	case network.StatusSuspended:
		return classSuspended
	default:
		return classUnknown
	}
}
