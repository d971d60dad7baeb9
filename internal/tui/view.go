package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/rival"
)

const (
	barWidth     = 24
	historyShown = 12
)

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.snap.Phase == game.NotStarted {
		return m.renderLobby()
	}
	return m.renderGame()
}

func (m *TUIModel) renderLobby() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("BINGO BLITZ"))
	b.WriteString("\n\n")
	b.WriteString(m.roomInput.View())
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	b.WriteString(m.renderDifficulty())
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n\n")
	}
	b.WriteString(InfoStyle.Render("tab next field • ←/→ pace • enter start • esc quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, PaneStyle.Render(b.String()))
}

func (m *TUIModel) renderDifficulty() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true).Render("Pace:      ")
	parts := make([]string, len(game.Difficulties))
	for i, d := range game.Difficulties {
		text := fmt.Sprintf(" %s ", d)
		if d == m.difficulty {
			style := SuccessStyle
			if m.focus == fieldDifficulty {
				style = style.Reverse(true)
			}
			text = style.Render("[" + d.String() + "]")
		}
		parts[i] = text
	}
	return label + strings.Join(parts, " ")
}

func (m *TUIModel) renderGame() string {
	header := HeaderStyle.Render(fmt.Sprintf("BINGO BLITZ • room %s • %s", m.snap.Seed, m.snap.Difficulty))

	board := PaneStyle.Render(m.renderBoard())
	side := PaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderCurrentBall(),
		"",
		m.renderHistory(),
		"",
		m.renderRivals(),
	))
	top := lipgloss.JoinHorizontal(lipgloss.Top, board, side)

	logWidth := max(lipgloss.Width(top)-4, 20)
	logHeight := max(m.height-lipgloss.Height(top)-6, 3)
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	logPane := PaneStyle.Render(m.logViewport.View())

	sections := []string{header, top}
	if m.snap.IsOver() {
		sections = append(sections, m.renderRoundOver())
	} else {
		sections = append(sections, logPane)
	}
	if m.status != "" {
		sections = append(sections, m.status)
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *TUIModel) renderBoard() string {
	var rows []string

	headers := make([]string, card.Size)
	for col := range card.Size {
		headers[col] = ColumnHeaderStyle.Render(card.Column(col).String())
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, headers...))

	for r := range card.Size {
		cells := make([]string, card.Size)
		for c := range card.Size {
			cells[c] = m.renderCell(r, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *TUIModel) renderCell(r, c int) string {
	cell := m.snap.Card[r][c]

	text := strconv.Itoa(cell.Value)
	if cell.IsFree() {
		text = "FREE"
	}

	style := CellStyle
	switch {
	case cell.Winning:
		style = WinningCellStyle
	case cell.Marked:
		style = MarkedCellStyle
	case m.snap.IsDrawn(cell.Value):
		style = DrawnCellStyle
	}
	if m.snap.Phase == game.Playing && m.cursor == (card.Pos{Row: r, Col: c}) {
		style = style.Inherit(CursorStyle).Reverse(true)
	}
	return style.Render(text)
}

func (m *TUIModel) renderCurrentBall() string {
	if m.snap.CurrentBall == 0 {
		return InfoStyle.Render("Waiting for the first ball...") + "\n" + CommentaryStyle.Render(m.snap.Commentary)
	}
	return BallStyle.Render(card.Label(m.snap.CurrentBall)) +
		InfoStyle.Render(fmt.Sprintf("  %d/%d", len(m.snap.Drawn), card.MaxNumber)) +
		"\n" + CommentaryStyle.Render(m.snap.Commentary)
}

func (m *TUIModel) renderHistory() string {
	drawn := m.snap.Drawn
	if len(drawn) > historyShown {
		drawn = drawn[len(drawn)-historyShown:]
	}
	labels := make([]string, 0, len(drawn))
	for i := len(drawn) - 1; i >= 0; i-- {
		labels = append(labels, strconv.Itoa(drawn[i]))
	}
	history := "Called: " + strings.Join(labels, " ")
	if m.snap.Exhausted {
		history += "\n" + WarningStyle.Render("All balls drawn")
	}
	return history
}

func (m *TUIModel) renderRivals() string {
	lines := make([]string, len(m.snap.Rivals))
	for i, r := range m.snap.Rivals {
		lines[i] = RenderRival(r)
	}
	return strings.Join(lines, "\n")
}

// RenderRival draws a fixed-width progress bar for r.
func RenderRival(r rival.Rival) string {
	filled := r.Progress * barWidth / rival.MaxProgress
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	line := fmt.Sprintf("%-2s %-16s %s %2d/%d", r.Initials(), r.Name, RivalBarStyle.Render(bar), r.Progress, rival.MaxProgress)
	if r.Winner {
		line += " " + ErrorStyle.Render("BINGO!")
	}
	return line
}

func (m *TUIModel) renderRoundOver() string {
	var title string
	if m.snap.HasWon() {
		title = SuccessStyle.Render(fmt.Sprintf("BINGO! You won with %s", m.snap.Pattern))
	} else {
		title = ErrorStyle.Render(fmt.Sprintf("%s called BINGO first", m.snap.Winner))
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		title,
		CommentaryStyle.Render(m.snap.Commentary),
		InfoStyle.Render(fmt.Sprintf("%d balls called", len(m.snap.Drawn))),
		"",
		InfoStyle.Render("p play again • r lobby • esc quit"),
	)
	return OverlayStyle.Render(body)
}
