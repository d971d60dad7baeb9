package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/roomcode"
)

// Lobby fields, in tab order.
const (
	fieldRoom = iota
	fieldName
	fieldDifficulty
	fieldCount
)

const maxLogLines = 200

// SessionFactory creates a session for the named player.
type SessionFactory func(player string) *game.Session

// Config seeds the lobby and says how to build sessions.
type Config struct {
	Player     string
	Room       string
	Difficulty game.Difficulty
	NewSession SessionFactory
}

// TUIModel is the Bubble Tea model for a bingo session
type TUIModel struct {
	logger     *log.Logger
	newSession SessionFactory
	session    *game.Session
	bridge     *Bridge
	formatter  *game.EventFormatter

	// UI components
	keys        keyMap
	help        help.Model
	roomInput   textinput.Model
	nameInput   textinput.Model
	logViewport viewport.Model

	// State
	focus      int
	difficulty game.Difficulty
	snap       game.Snapshot
	cursor     card.Pos
	gameLog    []string
	status     string
	quitting   bool

	// Dimensions
	width  int
	height int
}

// NewTUIModel creates the model in the lobby.
func NewTUIModel(cfg Config, logger *log.Logger) *TUIModel {
	room := textinput.New()
	room.Placeholder = "leave blank for a random room"
	room.CharLimit = roomcode.MaxLen
	room.Width = 34
	room.Prompt = "Room code: "
	room.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	room.SetValue(cfg.Room)
	room.Focus()

	name := textinput.New()
	name.Placeholder = "your nickname"
	name.CharLimit = 24
	name.Width = 34
	name.Prompt = "Nickname:  "
	name.PromptStyle = room.PromptStyle
	name.SetValue(cfg.Player)

	vp := viewport.New(40, 6)

	m := &TUIModel{
		logger:      logger.WithPrefix("tui"),
		newSession:  cfg.NewSession,
		bridge:      NewBridge(64),
		formatter:   game.NewEventFormatter(game.FormattingOptions{}),
		keys:        defaultKeyMap(),
		help:        help.New(),
		roomInput:   room,
		nameInput:   name,
		logViewport: vp,
		difficulty:  cfg.Difficulty,
		cursor:      card.Pos{Row: card.CentreRow, Col: card.CentreCol},
	}
	m.snap = m.ensureSession(strings.TrimSpace(cfg.Player)).Snapshot()
	return m
}

// DisableColor renders every style as plain text.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Run starts a full-screen program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, m *TUIModel) error {
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Session returns the session currently driven by the model.
func (m *TUIModel) Session() *game.Session {
	return m.session
}

// Close stops the session and unblocks any pending event delivery.
func (m *TUIModel) Close() {
	m.bridge.Close()
	if m.session != nil {
		m.session.Close()
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.listen())
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case eventMsg:
		m.handleEvent(msg.event)
		return m, m.bridge.listen()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.snap.Phase {
		case game.NotStarted:
			return m.updateLobby(msg)
		case game.Playing:
			return m.updateBoard(msg)
		case game.RoundOver:
			return m.updateRoundOver(msg)
		}
	}
	return m, nil
}

func (m *TUIModel) updateLobby(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Start):
		m.start()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		step := 1
		if msg.String() == "shift+tab" {
			step = fieldCount - 1
		}
		m.setFocus((m.focus + step) % fieldCount)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldRoom:
		m.roomInput, cmd = m.roomInput.Update(msg)
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case fieldDifficulty:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.difficulty = game.Difficulty((int(m.difficulty) + len(game.Difficulties) - 1) % len(game.Difficulties))
		case key.Matches(msg, m.keys.Right):
			m.difficulty = game.Difficulty((int(m.difficulty) + 1) % len(game.Difficulties))
		}
	}
	return m, cmd
}

func (m *TUIModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor.Row = min(m.cursor.Row+1, card.Size-1)
	case key.Matches(msg, m.keys.Left):
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col = min(m.cursor.Col+1, card.Size-1)
	case key.Matches(msg, m.keys.Mark):
		m.mark()
	case key.Matches(msg, m.keys.Lobby):
		m.session.Reset()
		m.refresh()
	case key.Matches(msg, m.keys.ScrollUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *TUIModel) updateRoundOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PlayAgain):
		m.start()
	case key.Matches(msg, m.keys.Lobby):
		m.session.Reset()
		m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *TUIModel) setFocus(field int) {
	m.focus = field
	m.roomInput.Blur()
	m.nameInput.Blur()
	switch field {
	case fieldRoom:
		m.roomInput.Focus()
	case fieldName:
		m.nameInput.Focus()
	}
}

// ensureSession returns a session for player, replacing the current one
// when the nickname has changed.
func (m *TUIModel) ensureSession(player string) *game.Session {
	if m.session != nil && m.session.Player() == player {
		return m.session
	}
	if m.session != nil {
		m.session.Events().Unsubscribe(m.bridge)
		m.session.Close()
	}
	m.session = m.newSession(player)
	m.session.Events().Subscribe(m.bridge)
	return m.session
}

func (m *TUIModel) start() {
	room := roomcode.Normalize(m.roomInput.Value())
	if room != "" {
		if err := roomcode.Validate(room); err != nil {
			m.status = ErrorStyle.Render(err.Error())
			return
		}
	}

	session := m.ensureSession(strings.TrimSpace(m.nameInput.Value()))
	seed, err := session.Start(room, m.difficulty)
	if err != nil {
		m.status = ErrorStyle.Render(err.Error())
		return
	}
	m.logger.Info("Round started", "seed", seed, "difficulty", m.difficulty)

	m.status = ""
	m.cursor = card.Pos{Row: card.CentreRow, Col: card.CentreCol}
	m.gameLog = nil
	m.logViewport.SetContent("")
	m.refresh()
}

func (m *TUIModel) mark() {
	if m.session.Mark(m.cursor.Row, m.cursor.Col) {
		m.status = ""
	} else {
		cell := m.snap.Card[m.cursor.Row][m.cursor.Col]
		switch {
		case cell.IsFree():
			m.status = InfoStyle.Render("The free square is already yours")
		case cell.Marked:
			m.status = InfoStyle.Render("Already daubed")
		default:
			m.status = WarningStyle.Render(fmt.Sprintf("%s hasn't been called yet", card.Label(cell.Value)))
		}
	}
	m.refresh()
}

func (m *TUIModel) handleEvent(event game.GameEvent) {
	if line := m.formatter.Format(event); line != "" {
		m.AddLogEntry(line)
	}
	m.refresh()
}

func (m *TUIModel) refresh() {
	m.snap = m.session.Snapshot()
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if len(m.gameLog) > maxLogLines {
		m.gameLog = m.gameLog[len(m.gameLog)-maxLogLines:]
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the game log.
func (m *TUIModel) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}
