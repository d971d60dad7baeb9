package game

import (
	"sync"
	"time"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/rival"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for session events
const (
	EventTypeRoundStart    EventType = "round_start"
	EventTypeBallDrawn     EventType = "ball_drawn"
	EventTypeCellMarked    EventType = "cell_marked"
	EventTypeRoundEnd      EventType = "round_end"
	EventTypeCommentary    EventType = "commentary"
	EventTypePoolExhausted EventType = "pool_exhausted"
	EventTypeRoundReset    EventType = "round_reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published when a round begins
type RoundStartEvent struct {
	Round      uint64
	Seed       string
	Player     string
	Difficulty Difficulty
	Interval   time.Duration
	Rivals     []rival.Rival
	timestamp  time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// BallDrawnEvent is published after a ball is drawn and the rivals have moved
type BallDrawnEvent struct {
	Round     uint64
	Ball      int
	Count     int
	OnCard    bool
	Rivals    []rival.Rival
	timestamp time.Time
}

func (e BallDrawnEvent) EventType() EventType { return EventTypeBallDrawn }
func (e BallDrawnEvent) Timestamp() time.Time { return e.timestamp }

// CellMarkedEvent is published when the player daubs a square
type CellMarkedEvent struct {
	Round     uint64
	Pos       card.Pos
	Value     int
	timestamp time.Time
}

func (e CellMarkedEvent) EventType() EventType { return EventTypeCellMarked }
func (e CellMarkedEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published when the player or a rival calls bingo
type RoundEndEvent struct {
	Round     uint64
	Outcome   Outcome
	Winner    string
	Pattern   string
	Cells     []card.Pos
	Draws     int
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// CommentaryEvent is published whenever the caller's text changes
type CommentaryEvent struct {
	Round     uint64
	Text      string
	timestamp time.Time
}

func (e CommentaryEvent) EventType() EventType { return EventTypeCommentary }
func (e CommentaryEvent) Timestamp() time.Time { return e.timestamp }

// PoolExhaustedEvent is published when all 75 balls are out
type PoolExhaustedEvent struct {
	Round     uint64
	timestamp time.Time
}

func (e PoolExhaustedEvent) EventType() EventType { return EventTypePoolExhausted }
func (e PoolExhaustedEvent) Timestamp() time.Time { return e.timestamp }

// RoundResetEvent is published when a session returns to the lobby
type RoundResetEvent struct {
	Round     uint64
	timestamp time.Time
}

func (e RoundResetEvent) EventType() EventType { return EventTypeRoundReset }
func (e RoundResetEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Subscribers
// are called synchronously on the publishing goroutine.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Subscribers must
// be comparable; SubscriberFunc values cannot be removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
