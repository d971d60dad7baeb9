package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/bingoblitz/internal/game"
	"github.com/lox/bingoblitz/internal/roomcode"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// ErrConnectionClosed is returned when sending on a closed or saturated connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client driving its own Session. Nothing is
// shared between connections.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	session   *game.Session
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewConnection wraps conn and subscribes it to session's events.
func NewConnection(conn *websocket.Conn, session *game.Session, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		session: session,
		logger:  logger.WithPrefix("conn").With("player", session.Player()),
		ctx:     ctx,
		cancel:  cancel,
	}
	session.Events().Subscribe(c)
	return c
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close stops the session and closes the socket
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.session.Events().Unsubscribe(c)
		c.session.Close()

		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// OnEvent implements game.EventSubscriber by pushing a fresh snapshot.
func (c *Connection) OnEvent(event game.GameEvent) {
	c.sendSnapshot(event.EventType().String(), nil, "")
}

// SendMessage queues msg for the write pump. A full buffer closes the
// connection.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
		c.logger.Warn("Connection send buffer full, closing connection")
		go func() { _ = c.Close() }()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError("invalid_message", "Malformed message: "+err.Error(), "")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeStart:
		var data StartData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError("invalid_message", "Failed to parse start data", msg.RequestID)
				return
			}
		}
		c.handleStart(data, msg.RequestID)

	case MessageTypeMark:
		var data MarkData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse mark data", msg.RequestID)
			return
		}
		c.handleMark(data, msg.RequestID)

	case MessageTypeReset:
		c.session.Reset()
		c.sendSnapshot("", nil, msg.RequestID)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String(), msg.RequestID)
	}
}

func (c *Connection) handleStart(data StartData, requestID string) {
	difficulty, err := game.ParseDifficulty(data.Difficulty)
	if err != nil {
		c.sendError("invalid_difficulty", err.Error(), requestID)
		return
	}

	seed := roomcode.Normalize(data.Seed)
	if seed != "" {
		if err := roomcode.Validate(seed); err != nil {
			c.sendError("invalid_seed", err.Error(), requestID)
			return
		}
	}

	seed, err = c.session.Start(seed, difficulty)
	if err != nil {
		c.sendError("start_failed", err.Error(), requestID)
		return
	}
	c.logger.Info("Round started", "seed", seed, "difficulty", difficulty)
	c.sendSnapshot("", nil, requestID)
}

func (c *Connection) handleMark(data MarkData, requestID string) {
	if !c.session.Snapshot().Started() {
		c.sendError("not_playing", game.ErrNotPlaying.Error(), requestID)
		return
	}
	accepted := c.session.Mark(data.Row, data.Col)
	c.sendSnapshot("", &accepted, requestID)
}

func (c *Connection) sendSnapshot(event string, accepted *bool, requestID string) {
	msg, err := NewMessage(MessageTypeSnapshot, SnapshotData{
		Event:    event,
		Accepted: accepted,
		State:    c.session.Snapshot(),
	})
	if err != nil {
		c.logger.Error("Failed to encode snapshot", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message, requestID string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}
