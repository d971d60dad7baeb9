package game

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/commentary"
	"github.com/lox/bingoblitz/internal/draw"
	"github.com/lox/bingoblitz/internal/evaluator"
	"github.com/lox/bingoblitz/internal/randutil"
	"github.com/lox/bingoblitz/internal/rival"
	"github.com/lox/bingoblitz/internal/roomcode"
)

const (
	lobbyCommentary = "Ready for Blitz?"
	startCommentary = "Game on! Eyes on the board."
)

// ErrNotPlaying is returned by callers that need a round in progress.
var ErrNotPlaying = errors.New("no round in play")

var errStopTicking = errors.New("ticking stopped")

// SourceFactory builds the shared random stream for a round from its seed.
type SourceFactory func(seed string) randutil.Source

// Option configures a Session during creation.
type Option func(*Session)

// WithClock sets the clock driving draw ticks. Defaults to the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithAnnouncer enriches commentary through an asynchronous provider.
// Without one, only the local tables are used.
func WithAnnouncer(a *commentary.Announcer) Option {
	return func(s *Session) { s.announcer = a }
}

// WithSpeeds overrides the draw interval for each difficulty.
func WithSpeeds(speeds Speeds) Option {
	return func(s *Session) { s.speeds = speeds }
}

// WithRivals sets the rival name pool and roster size.
func WithRivals(names []string, count int) Option {
	return func(s *Session) {
		s.rivalNames = names
		s.rivalCount = count
	}
}

// WithSourceFactory replaces the seeded Mulberry32 stream, for tests that
// need a scripted sequence.
func WithSourceFactory(f SourceFactory) Option {
	return func(s *Session) { s.newSource = f }
}

// WithRoomCodes sets the generator used when Start is given an empty seed.
func WithRoomCodes(g *roomcode.Generator) Option {
	return func(s *Session) { s.codes = g }
}

// WithManualTicks disables the draw timer; the caller drives the round with
// Step.
func WithManualTicks() Option {
	return func(s *Session) { s.manual = true }
}

// WithEventBus shares an existing bus instead of creating one.
func WithEventBus(bus EventBus) Option {
	return func(s *Session) { s.bus = bus }
}

// Session is one player's bingo game. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	player     string
	logger     *log.Logger
	clock      quartz.Clock
	announcer  *commentary.Announcer
	bus        EventBus
	speeds     Speeds
	rivalNames []string
	rivalCount int
	newSource  SourceFactory
	codes      *roomcode.Generator
	manual     bool

	round       uint64
	phase       Phase
	outcome     Outcome
	seed        string
	difficulty  Difficulty
	src         randutil.Source
	card        *card.Card
	pool        *draw.Pool
	rivals      []rival.Rival
	commentary  string
	winner      string
	pattern     string
	exhausted   bool
	roundCtx    context.Context
	cancelRound context.CancelFunc
	stopTicks   context.CancelFunc
}

// NewSession creates a session for player in the NotStarted phase.
func NewSession(player string, logger *log.Logger, opts ...Option) *Session {
	s := &Session{
		player:     player,
		logger:     logger.WithPrefix("session"),
		clock:      quartz.NewReal(),
		speeds:     DefaultSpeeds(),
		rivalCount: rival.DefaultCount,
		newSource: func(seed string) randutil.Source {
			return randutil.NewStream(seed)
		},
		codes:      roomcode.NewGenerator(nil),
		commentary: lobbyCommentary,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = NewEventBus()
	}
	return s
}

// Events returns the bus session events are published on.
func (s *Session) Events() EventBus {
	return s.bus
}

// Player returns the name the session was created for.
func (s *Session) Player() string {
	return s.player
}

// Interval returns the draw interval for d under this session's speeds.
func (s *Session) Interval(d Difficulty) time.Duration {
	return s.speeds.Interval(d)
}

// Start begins a fresh round from seed, abandoning any round in progress.
// An empty seed is replaced with a generated room code. It returns the seed
// actually used.
func (s *Session) Start(seed string, difficulty Difficulty) (string, error) {
	if !difficulty.Valid() {
		return "", ErrInvalidDifficulty
	}
	if seed == "" {
		seed = s.codes.Generate()
	}

	s.mu.Lock()
	s.endRoundLocked()

	s.round++
	s.phase = Playing
	s.outcome = Undecided
	s.seed = seed
	s.difficulty = difficulty
	s.src = s.newSource(seed)
	s.card = card.Generate(card.DeriveSeed(seed, s.player))
	s.pool = draw.NewPool()
	s.rivals = rival.Roster(s.rivalNames, s.rivalCount)
	s.commentary = startCommentary
	s.winner = ""
	s.pattern = ""
	s.exhausted = false
	s.roundCtx, s.cancelRound = context.WithCancel(context.Background())

	interval := s.speeds.Interval(difficulty)
	if !s.manual {
		s.startTickerLocked(interval)
	}

	events := []GameEvent{
		RoundStartEvent{
			Round:      s.round,
			Seed:       seed,
			Player:     s.player,
			Difficulty: difficulty,
			Interval:   interval,
			Rivals:     slices.Clone(s.rivals),
			timestamp:  s.clock.Now(),
		},
		CommentaryEvent{Round: s.round, Text: s.commentary, timestamp: s.clock.Now()},
	}
	s.logger.Info("Round started", "round", s.round, "seed", seed, "player", s.player, "difficulty", difficulty, "interval", interval)
	s.mu.Unlock()

	s.publish(events)
	return seed, nil
}

// Reset abandons the current round and returns to NotStarted. Any pending
// tick is cancelled.
func (s *Session) Reset() {
	s.mu.Lock()
	if s.phase == NotStarted {
		s.mu.Unlock()
		return
	}
	s.endRoundLocked()
	s.round++
	s.phase = NotStarted
	s.outcome = Undecided
	s.src = nil
	s.card = nil
	s.pool = nil
	s.rivals = nil
	s.winner = ""
	s.pattern = ""
	s.exhausted = false
	s.commentary = lobbyCommentary
	round := s.round
	s.logger.Info("Session reset", "round", round)
	s.mu.Unlock()

	s.publish([]GameEvent{RoundResetEvent{Round: round, timestamp: s.clock.Now()}})
}

// Close stops any pending tick and waits for outstanding commentary.
func (s *Session) Close() {
	s.Reset()
	if s.announcer != nil {
		s.announcer.Wait()
	}
}

// Step performs one tick of the current round: draw a ball, then advance
// the rivals. It reports whether a ball was drawn. Step is a no-op outside
// Playing and once the pool is exhausted.
func (s *Session) Step() bool {
	s.mu.Lock()
	drawn, _, events := s.tickLocked(s.round)
	s.mu.Unlock()

	s.publish(events)
	return drawn
}

// Mark daubs the cell at row, col. It is a no-op, returning false, unless a
// round is in play, the cell is on the card, is not the free square, is not
// already marked, and its number has been drawn. A mark that completes a
// line ends the round in the player's favour.
func (s *Session) Mark(row, col int) bool {
	s.mu.Lock()
	pos := card.Pos{Row: row, Col: col}
	if s.phase != Playing || !pos.InBounds() {
		s.mu.Unlock()
		return false
	}
	cell := &s.card[row][col]
	if cell.IsFree() || cell.Marked || !s.pool.Contains(cell.Value) {
		s.mu.Unlock()
		return false
	}

	cell.Marked = true
	events := []GameEvent{CellMarkedEvent{Round: s.round, Pos: pos, Value: cell.Value, timestamp: s.clock.Now()}}
	s.logger.Debug("Cell marked", "round", s.round, "row", row, "col", col, "value", cell.Value)

	if res := evaluator.CheckWin(s.card); res.Won {
		for _, p := range res.Cells {
			s.card[p.Row][p.Col].Winning = true
		}
		s.pattern = res.Describe()
		events = append(events, s.finishLocked(Won, commentary.PlayerLabel, res.Cells)...)
	}
	s.mu.Unlock()

	s.publish(events)
	return true
}

// MarkNumber daubs the cell holding n, if the card has one.
func (s *Session) MarkNumber(n int) bool {
	s.mu.Lock()
	if s.card == nil {
		s.mu.Unlock()
		return false
	}
	pos, ok := s.card.Find(n)
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.Mark(pos.Row, pos.Col)
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Round:      s.round,
		Phase:      s.phase,
		Outcome:    s.outcome,
		Seed:       s.seed,
		Player:     s.player,
		Difficulty: s.difficulty,
		Rivals:     slices.Clone(s.rivals),
		Commentary: s.commentary,
		Winner:     s.winner,
		Pattern:    s.pattern,
		Exhausted:  s.exhausted,
	}
	if s.card != nil {
		snap.Card = *s.card
	}
	if s.pool != nil {
		snap.Drawn = s.pool.Drawn()
		snap.CurrentBall, _ = s.pool.Current()
	}
	return snap
}

func (s *Session) startTickerLocked(interval time.Duration) {
	ctx, cancel := context.WithCancel(s.roundCtx)
	s.stopTicks = cancel
	round := s.round

	s.clock.TickerFunc(ctx, interval, func() error {
		s.mu.Lock()
		_, keep, events := s.tickLocked(round)
		s.mu.Unlock()

		s.publish(events)
		if !keep {
			return errStopTicking
		}
		return nil
	}, "session", "tick")
}

// tickLocked draws one ball and advances the rivals for round. It returns
// whether a ball was drawn and whether ticking should continue.
func (s *Session) tickLocked(round uint64) (bool, bool, []GameEvent) {
	if round != s.round || s.phase != Playing || s.exhausted {
		return false, false, nil
	}

	ball, err := s.pool.Draw(s.src)
	if err != nil {
		s.exhausted = true
		return false, false, []GameEvent{PoolExhaustedEvent{Round: s.round, timestamp: s.clock.Now()}}
	}

	var winner int
	s.rivals, winner = rival.Advance(s.rivals, s.src)

	_, onCard := s.card.Find(ball)
	s.commentary = commentary.LocalCallout(ball)
	events := []GameEvent{
		BallDrawnEvent{
			Round:     s.round,
			Ball:      ball,
			Count:     s.pool.Len(),
			OnCard:    onCard,
			Rivals:    slices.Clone(s.rivals),
			timestamp: s.clock.Now(),
		},
		CommentaryEvent{Round: s.round, Text: s.commentary, timestamp: s.clock.Now()},
	}
	s.logger.Debug("Ball drawn", "round", s.round, "ball", card.Label(ball), "drawn", s.pool.Len(), "onCard", onCard)

	if winner >= 0 {
		events = append(events, s.finishLocked(Lost, s.rivals[winner].Name, nil)...)
		return true, false, events
	}

	if s.announcer != nil {
		s.announcer.Callout(s.roundCtx, ball, func(text string) {
			s.applyCommentary(round, ball, text)
		})
	}

	if s.pool.Exhausted() {
		s.exhausted = true
		s.logger.Info("All balls drawn", "round", s.round)
		events = append(events, PoolExhaustedEvent{Round: s.round, timestamp: s.clock.Now()})
		return true, false, events
	}
	return true, true, events
}

// finishLocked moves the round to RoundOver and stops ticking.
func (s *Session) finishLocked(outcome Outcome, winner string, cells []card.Pos) []GameEvent {
	if s.stopTicks != nil {
		s.stopTicks()
		s.stopTicks = nil
	}
	s.phase = RoundOver
	s.outcome = outcome
	s.winner = winner
	s.commentary = commentary.LocalCelebration(winner)

	round := s.round
	if s.announcer != nil {
		s.announcer.Celebration(s.roundCtx, winner, func(text string) {
			s.applyCelebration(round, text)
		})
	}

	s.logger.Info("Round over", "round", round, "outcome", outcome, "winner", winner, "pattern", s.pattern, "draws", s.pool.Len())
	return []GameEvent{
		RoundEndEvent{
			Round:     round,
			Outcome:   outcome,
			Winner:    winner,
			Pattern:   s.pattern,
			Cells:     slices.Clone(cells),
			Draws:     s.pool.Len(),
			timestamp: s.clock.Now(),
		},
		CommentaryEvent{Round: round, Text: s.commentary, timestamp: s.clock.Now()},
	}
}

// endRoundLocked cancels the ticker and any commentary tied to the round.
func (s *Session) endRoundLocked() {
	if s.stopTicks != nil {
		s.stopTicks()
		s.stopTicks = nil
	}
	if s.cancelRound != nil {
		s.cancelRound()
		s.cancelRound = nil
	}
}

func (s *Session) applyCommentary(round uint64, ball int, text string) {
	s.mu.Lock()
	current, _ := s.currentBallLocked()
	if round != s.round || s.phase != Playing || current != ball {
		s.mu.Unlock()
		return
	}
	s.commentary = text
	s.mu.Unlock()

	s.publish([]GameEvent{CommentaryEvent{Round: round, Text: text, timestamp: s.clock.Now()}})
}

func (s *Session) applyCelebration(round uint64, text string) {
	s.mu.Lock()
	if round != s.round || s.phase != RoundOver {
		s.mu.Unlock()
		return
	}
	s.commentary = text
	s.mu.Unlock()

	s.publish([]GameEvent{CommentaryEvent{Round: round, Text: text, timestamp: s.clock.Now()}})
}

func (s *Session) currentBallLocked() (int, bool) {
	if s.pool == nil {
		return 0, false
	}
	return s.pool.Current()
}

func (s *Session) publish(events []GameEvent) {
	for _, e := range events {
		s.bus.Publish(e)
	}
}
