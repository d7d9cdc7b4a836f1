package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/projecttasks/internal/model"
)

// Color palette based on TUI design
var (
	// Priority colors
	PriorityHighColor   = lipgloss.Color("#FF6B6B") // Red
	PriorityMediumColor = lipgloss.Color("#FFE66D") // Yellow
	PriorityLowColor    = lipgloss.Color("#4ECDC4") // Blue

	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Overdue   = lipgloss.Color("#FF6B6B") // Red
	SaveError = lipgloss.Color("#FF6B6B")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Task list
	TaskListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Project item
	ProjectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	ProjectItemSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(Surface).
					Bold(true)

	// Task item
	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	OverdueStyle = lipgloss.NewStyle().Foreground(Overdue)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	SuccessStyle = lipgloss.NewStyle().Foreground(Completed)
	ErrorStyle   = lipgloss.NewStyle().Foreground(SaveError).Bold(true)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// GetPriorityStyle returns the style for a given priority
func GetPriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(PriorityHighColor).Bold(true)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(PriorityMediumColor)
	default:
		return lipgloss.NewStyle().Foreground(PriorityLowColor)
	}
}

// FormatPriority returns a formatted priority badge
func FormatPriority(p model.Priority) string {
	style := GetPriorityStyle(p)
	switch p {
	case model.PriorityHigh:
		return style.Render("▲ high")
	case model.PriorityMedium:
		return style.Render("● med ")
	default:
		return style.Render("▼ low ")
	}
}

// projectDot renders a swatch in the project's own color
func projectDot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
