// Package client talks to a bingoblitz server over its websocket endpoint.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/bingoblitz/internal/server"
)

// ErrNotConnected is returned when sending before Connect or after Close.
var ErrNotConnected = errors.New("not connected")

// Handler receives every message read by Run. Returning ErrStop ends Run
// without error; any other error ends it with that error.
type Handler interface {
	OnSnapshot(c *Client, data server.SnapshotData) error
	OnError(c *Client, data server.ErrorData) error
}

// ErrStop ends Run cleanly.
var ErrStop = errors.New("stop")

// Client is a single websocket connection. Sends are serialised; reads
// happen only inside Run.
type Client struct {
	serverURL string
	player    string
	logger    *log.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int
}

// New creates a client for serverURL (ws, wss, http or https).
func New(serverURL, player string, logger *log.Logger) *Client {
	return &Client{
		serverURL: serverURL,
		player:    player,
		logger:    logger.WithPrefix("client").With("player", player),
	}
}

// Connect dials the server.
func (c *Client) Connect(ctx context.Context) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Ensure WebSocket scheme
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("player", c.player)
	u.RawQuery = q.Encode()

	c.logger.Info("Connecting to server", "url", u.String())

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Start asks the server to begin a round. An empty seed lets the server
// pick a room code.
func (c *Client) Start(seed, difficulty string) error {
	return c.send(server.MessageTypeStart, server.StartData{Seed: seed, Difficulty: difficulty})
}

// Mark daubs the cell at row, col.
func (c *Client) Mark(row, col int) error {
	return c.send(server.MessageTypeMark, server.MarkData{Row: row, Col: col})
}

// Reset returns the session to the lobby.
func (c *Client) Reset() error {
	return c.send(server.MessageTypeReset, nil)
}

func (c *Client) send(msgType server.MessageType, data any) error {
	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	c.nextID++
	msg.RequestID = fmt.Sprintf("%s-%d", msgType, c.nextID)
	return c.conn.WriteJSON(msg)
}

// Run reads messages and dispatches them to h until h returns an error,
// the connection fails or ctx is cancelled.
func (c *Client) Run(ctx context.Context, h Handler) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	for {
		var msg server.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}

		if err := c.dispatch(h, &msg); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

func (c *Client) dispatch(h Handler, msg *server.Message) error {
	switch msg.Type {
	case server.MessageTypeSnapshot:
		var data server.SnapshotData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		return h.OnSnapshot(c, data)
	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		return h.OnError(c, data)
	default:
		c.logger.Debug("Ignoring message", "type", msg.Type)
		return nil
	}
}
