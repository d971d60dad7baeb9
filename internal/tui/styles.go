package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true).
				Width(cellWidth).
				Align(lipgloss.Center)

	CellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Width(cellWidth).
			Align(lipgloss.Center)

	// DrawnCellStyle highlights numbers that have been called but not marked.
	DrawnCellStyle = CellStyle.
			Foreground(lipgloss.Color("#FFEAA7")).
			Underline(true)

	MarkedCellStyle = CellStyle.
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#96CEB4")).
			Bold(true)

	WinningCellStyle = CellStyle.
				Foreground(lipgloss.Color("#1A1A1A")).
				Background(lipgloss.Color("#FFD700")).
				Bold(true)

	CursorStyle = lipgloss.NewStyle().
			Reverse(true)

	BallStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Padding(0, 2)

	CommentaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Italic(true)

	RivalBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFD700")).
			Padding(1, 3).
			Align(lipgloss.Center)
)

const cellWidth = 5
