package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/bingoblitz/internal/game"
)

// eventMsg carries a session event into the Bubble Tea update loop.
type eventMsg struct {
	event game.GameEvent
}

// Bridge forwards session events, published on the session's goroutines,
// to the Bubble Tea program.
type Bridge struct {
	events chan game.GameEvent
	done   chan struct{}
	once   sync.Once
}

// NewBridge creates a bridge buffering up to size events.
func NewBridge(size int) *Bridge {
	return &Bridge{
		events: make(chan game.GameEvent, size),
		done:   make(chan struct{}),
	}
}

// OnEvent implements game.EventSubscriber. It blocks while the buffer is
// full until the program catches up or the bridge is closed.
func (b *Bridge) OnEvent(event game.GameEvent) {
	select {
	case b.events <- event:
	case <-b.done:
	}
}

// Close releases any publisher blocked in OnEvent.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

// listen returns a command that waits for the next event.
func (b *Bridge) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-b.events:
			return eventMsg{event: e}
		case <-b.done:
			return nil
		}
	}
}
