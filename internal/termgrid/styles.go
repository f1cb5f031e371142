package termgrid

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#A78BFA")
	mutedColor   = lipgloss.Color("#9CA3AF")
	borderColor  = lipgloss.Color("#6B7280")
	textColor    = lipgloss.Color("#F9FAFB")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(lipgloss.Color("#1F2937")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(borderColor)

	rowStyle = lipgloss.NewStyle().
			Foreground(textColor)

	frozenCellStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	skeletonStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	focusedColumnStyle = lipgloss.NewStyle().
				Underline(true)

	sortIndicatorStyle = lipgloss.NewStyle().
				Foreground(primaryColor)
)
