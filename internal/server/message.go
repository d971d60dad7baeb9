package server

import (
	"encoding/json"
	"time"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/game"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	// Client → Server
	MessageTypeStart MessageType = "start"
	MessageTypeMark  MessageType = "mark"
	MessageTypeReset MessageType = "reset"

	// Server → Client
	MessageTypeSnapshot MessageType = "snapshot"
	MessageTypeError    MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// StartData begins a round. An empty seed asks for a random room code and
// a missing difficulty means normal.
type StartData struct {
	Seed       string `json:"seed"`
	Difficulty string `json:"difficulty,omitempty"`
}

// MarkData daubs one cell.
type MarkData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Server → Client Messages

// SnapshotData is sent after every session event and in reply to each
// client message.
type SnapshotData struct {
	Event    string        `json:"event,omitempty"`
	Accepted *bool         `json:"accepted,omitempty"` // set in reply to mark
	State    game.Snapshot `json:"state"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CardResponse is returned by /api/card.
type CardResponse struct {
	Seed   string    `json:"seed"`
	Player string    `json:"player"`
	Card   card.Card `json:"card"`
}
