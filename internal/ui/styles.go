package ui

import (
	"github.com/nconklindev/xlsx2vcf/internal/types"

	"github.com/charmbracelet/lipgloss"
)

const (
	accent    = lipgloss.Color("#4361EE")
	accentDim = lipgloss.Color("#7B8CDE")
	muted     = lipgloss.Color("#6B7280")
	danger    = lipgloss.Color("#FF4757")
	good      = lipgloss.Color("#2ED573")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(accentDim)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(good).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	CounterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(muted).
			Strikethrough(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	// Drop zone border: rounded at rest, dashed accent while a drag is active
	DropZoneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 2)

	DropZoneActiveStyle = lipgloss.NewStyle().
				Border(dashedBorder).
				BorderForeground(accent).
				Padding(0, 2)
)

var dashedBorder = lipgloss.Border{
	Top:         "╌",
	Bottom:      "╌",
	Left:        "╎",
	Right:       "╎",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}

// StatusStyle picks the style class for a status kind.
func StatusStyle(kind types.StatusKind) lipgloss.Style {
	switch kind {
	case types.StatusSuccess:
		return SuccessStyle
	case types.StatusError:
		return ErrorStyle
	default:
		return InfoStyle
	}
}
