package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/commentary"
	"github.com/lox/bingoblitz/internal/randutil"
	"github.com/lox/bingoblitz/internal/roomcode"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func manualSession(player string, opts ...Option) *Session {
	return NewSession(player, quietLogger(), append([]Option{WithManualTicks()}, opts...)...)
}

// eventRecorder collects published events.
type eventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// autoplay marks every drawn number until the round ends or the pool runs out.
func autoplay(s *Session) Snapshot {
	for s.Step() {
		snap := s.Snapshot()
		if snap.IsOver() {
			return snap
		}
		s.MarkNumber(snap.CurrentBall)
		if snap = s.Snapshot(); snap.IsOver() {
			return snap
		}
	}
	return s.Snapshot()
}

func progress(snap Snapshot) []int {
	out := make([]int, len(snap.Rivals))
	for i, r := range snap.Rivals {
		out[i] = r.Progress
	}
	return out
}

// scriptedSource draws ball n+1 on tick n, then lets the first rival
// succeed every roll while the rest always fail.
type scriptedSource struct {
	calls int
	rolls int
}

func (s *scriptedSource) Float64() float64 {
	defer func() { s.calls++ }()
	k := s.calls % (s.rolls + 1)
	switch k {
	case 0:
		tick := s.calls / (s.rolls + 1)
		return (float64(tick) + 0.5) / 75
	case 1:
		return 0.99
	default:
		return 0.1
	}
}

func TestSessionStartsInLobby(t *testing.T) {
	s := manualSession("Alice")
	snap := s.Snapshot()

	assert.Equal(t, NotStarted, snap.Phase)
	assert.Equal(t, Undecided, snap.Outcome)
	assert.False(t, snap.Started())
	assert.Equal(t, "Ready for Blitz?", snap.Commentary)
	assert.False(t, s.Step())
	assert.False(t, s.Mark(0, 0))
}

func TestSessionStart(t *testing.T) {
	s := manualSession("Alice")
	seed, err := s.Start("TEST", Fast)
	require.NoError(t, err)
	assert.Equal(t, "TEST", seed)

	snap := s.Snapshot()
	assert.Equal(t, Playing, snap.Phase)
	assert.Equal(t, Fast, snap.Difficulty)
	assert.Equal(t, "Game on! Eyes on the board.", snap.Commentary)
	assert.Empty(t, snap.Drawn)
	assert.Len(t, snap.Rivals, 5)
	assert.Equal(t, *card.Generate("TESTAlice"), snap.Card)
	for _, r := range snap.Rivals {
		assert.Zero(t, r.Progress)
	}
}

func TestSessionStartInvalidDifficulty(t *testing.T) {
	s := manualSession("")
	_, err := s.Start("TEST", Difficulty(9))
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
	assert.Equal(t, NotStarted, s.Snapshot().Phase)
}

type fixedIntN int

func (f fixedIntN) IntN(int) int { return int(f) }

func TestSessionStartGeneratesRoomCode(t *testing.T) {
	s := manualSession("", WithRoomCodes(roomcode.NewGenerator(fixedIntN(77))))
	seed, err := s.Start("", Normal)
	require.NoError(t, err)
	assert.Equal(t, "BINGO77", seed)
	assert.Equal(t, "BINGO77", s.Snapshot().Seed)
}

func TestSessionGoldenDraws(t *testing.T) {
	s := manualSession("")
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)

	for range 10 {
		require.True(t, s.Step())
	}
	snap := s.Snapshot()
	assert.Equal(t, []int{43, 12, 31, 59, 6, 5, 70, 65, 7, 33}, snap.Drawn)
	assert.Equal(t, 33, snap.CurrentBall)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, progress(snap))
	assert.Equal(t, "Dirty knee!", snap.Commentary)
}

func TestSessionDeterminism(t *testing.T) {
	a := manualSession("Bob")
	b := manualSession("Bob")
	_, err := a.Start("BINGO77", Normal)
	require.NoError(t, err)
	_, err = b.Start("BINGO77", Fast)
	require.NoError(t, err)

	for range 30 {
		assert.Equal(t, a.Step(), b.Step())
	}
	sa, sb := a.Snapshot(), b.Snapshot()
	assert.Equal(t, sa.Drawn, sb.Drawn)
	assert.Equal(t, sa.Rivals, sb.Rivals)
	assert.Equal(t, sa.Card, sb.Card)
}

func TestSessionPoolExhaustion(t *testing.T) {
	rec := &eventRecorder{}
	s := manualSession("")
	s.Events().Subscribe(rec)
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)

	for range 75 {
		require.True(t, s.Step())
	}
	assert.False(t, s.Step())

	snap := s.Snapshot()
	assert.Len(t, snap.Drawn, 75)
	assert.True(t, snap.Exhausted)
	assert.Equal(t, Playing, snap.Phase)
	assert.Equal(t, []int{6, 8, 7, 9, 8}, progress(snap))

	seen := map[int]bool{}
	for _, n := range snap.Drawn {
		assert.False(t, seen[n], "ball %d drawn twice", n)
		seen[n] = true
	}

	// Marks are still accepted once every ball is out.
	assert.True(t, s.Mark(0, 0))
	assert.Contains(t, rec.types(), EventTypePoolExhausted)
}

func TestSessionMark(t *testing.T) {
	s := manualSession("")
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)
	require.True(t, s.Step()) // 43, not on the card
	require.True(t, s.Step()) // 12, B column row 2

	tests := []struct {
		name     string
		row, col int
		want     bool
	}{
		{"free square", card.CentreRow, card.CentreCol, false},
		{"not drawn", 0, 0, false},
		{"out of bounds", 5, 0, false},
		{"negative", -1, 2, false},
		{"drawn", 2, 0, true},
		{"already marked", 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Mark(tt.row, tt.col))
		})
	}

	snap := s.Snapshot()
	assert.True(t, snap.Card[2][0].Marked)
	assert.Equal(t, 2, snap.Card.MarkedCount())
}

func TestSessionPlayerWins(t *testing.T) {
	tests := []struct {
		room, player string
		pattern      string
		draws        int
		rivals       []int
	}{
		{"TEST", "", "row 3", 59, []int{3, 8, 6, 7, 6}},
		{"TEST", "Alice", "anti-diagonal", 33, []int{3, 5, 3, 5, 3}},
		{"BINGO77", "Bob", "anti-diagonal", 41, []int{5, 3, 2, 9, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.room+"/"+tt.player, func(t *testing.T) {
			rec := &eventRecorder{}
			s := manualSession(tt.player)
			s.Events().Subscribe(rec)
			_, err := s.Start(tt.room, Normal)
			require.NoError(t, err)

			snap := autoplay(s)
			assert.Equal(t, RoundOver, snap.Phase)
			assert.Equal(t, Won, snap.Outcome)
			assert.True(t, snap.HasWon())
			assert.Equal(t, commentary.PlayerLabel, snap.Winner)
			assert.Equal(t, tt.pattern, snap.Pattern)
			assert.Len(t, snap.Drawn, tt.draws)
			assert.Equal(t, tt.rivals, progress(snap))
			assert.Equal(t, "BINGO! You are the champion!", snap.Commentary)

			winning := 0
			for _, row := range snap.Card {
				for _, cell := range row {
					if cell.Winning {
						winning++
						assert.True(t, cell.Marked)
					}
				}
			}
			assert.Equal(t, card.Size, winning)

			types := rec.types()
			assert.Equal(t, EventTypeRoundStart, types[0])
			assert.Contains(t, types, EventTypeRoundEnd)

			// Nothing changes once the round is over.
			assert.False(t, s.Step())
			assert.False(t, s.Mark(0, 0))
			assert.Equal(t, snap.Drawn, s.Snapshot().Drawn)
		})
	}
}

func TestSessionRivalWins(t *testing.T) {
	rec := &eventRecorder{}
	s := manualSession("", WithSourceFactory(func(string) randutil.Source {
		return &scriptedSource{rolls: 5}
	}))
	s.Events().Subscribe(rec)
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)

	for range 24 {
		require.True(t, s.Step())
	}

	snap := s.Snapshot()
	require.Equal(t, RoundOver, snap.Phase)
	assert.Equal(t, Lost, snap.Outcome)
	assert.Equal(t, "Bingo Betty", snap.Winner)
	assert.Len(t, snap.Drawn, 24)
	assert.Equal(t, []int{24, 0, 0, 0, 0}, progress(snap))
	assert.Equal(t, "BINGO! Bingo Betty is the champion!", snap.Commentary)

	winner, ok := snap.WinningRival()
	require.True(t, ok)
	assert.Equal(t, "rival-0", winner.ID)

	assert.False(t, s.Step())
	assert.False(t, s.Mark(0, 0))

	var end RoundEndEvent
	for _, e := range rec.events {
		if re, ok := e.(RoundEndEvent); ok {
			end = re
		}
	}
	assert.Equal(t, Lost, end.Outcome)
	assert.Equal(t, 24, end.Draws)
}

func TestSessionRivalRosterOption(t *testing.T) {
	s := manualSession("", WithRivals([]string{"Ann", "Ben"}, 3))
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Rivals, 3)
	assert.Equal(t, "Ann", snap.Rivals[0].Name)
	assert.Equal(t, "Ann 2", snap.Rivals[2].Name)
}

func TestSessionResetAndRestart(t *testing.T) {
	rec := &eventRecorder{}
	s := manualSession("")
	s.Events().Subscribe(rec)
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)
	s.Step()
	s.Step()

	s.Reset()
	snap := s.Snapshot()
	assert.Equal(t, NotStarted, snap.Phase)
	assert.Empty(t, snap.Drawn)
	assert.Nil(t, snap.Rivals)
	assert.Equal(t, "Ready for Blitz?", snap.Commentary)
	assert.False(t, s.Step())
	assert.Contains(t, rec.types(), EventTypeRoundReset)

	// A restart replays the same room from the beginning.
	_, err = s.Start("TEST", Normal)
	require.NoError(t, err)
	s.Step()
	assert.Equal(t, []int{43}, s.Snapshot().Drawn)

	// Starting again mid-round resets first.
	_, err = s.Start("TEST", Normal)
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Drawn)
}

func TestSessionTicker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	s := NewSession("", quietLogger(), WithClock(mClock))
	defer s.Close()

	_, err := s.Start("TEST", Fast)
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Drawn)

	mClock.Advance(3 * time.Second).MustWait(ctx)
	assert.Equal(t, []int{43}, s.Snapshot().Drawn)

	mClock.Advance(3 * time.Second).MustWait(ctx)
	assert.Equal(t, []int{43, 12}, s.Snapshot().Drawn)

	// Reset cancels the pending tick.
	s.Reset()
	mClock.Advance(3 * time.Second).MustWait(ctx)
	assert.Empty(t, s.Snapshot().Drawn)

	// Restarting replaces the ticker instead of adding a second one.
	_, err = s.Start("TEST", Fast)
	require.NoError(t, err)
	_, err = s.Start("TEST", Fast)
	require.NoError(t, err)
	mClock.Advance(3 * time.Second).MustWait(ctx)
	assert.Equal(t, []int{43}, s.Snapshot().Drawn)
}

func TestSessionCustomSpeeds(t *testing.T) {
	s := manualSession("", WithSpeeds(Speeds{Slow: time.Second, Normal: 2 * time.Second, Fast: 3 * time.Second}))
	assert.Equal(t, 2*time.Second, s.Interval(Normal))
	assert.Equal(t, 5*time.Second, manualSession("").Interval(Normal))
}

// gatedProvider blocks each callout until released.
type gatedProvider struct {
	release chan struct{}
}

func (g gatedProvider) Callout(ctx context.Context, n int) (string, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "Provider calls " + card.Label(n), nil
}

func (g gatedProvider) Celebration(context.Context, string) (string, error) {
	return "What a game!", nil
}

func TestSessionAsyncCommentary(t *testing.T) {
	gate := gatedProvider{release: make(chan struct{})}
	announcer := commentary.NewAnnouncer(gate, quartz.NewReal(), time.Second, quietLogger())
	s := manualSession("", WithAnnouncer(announcer))
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)

	s.Step()
	s.Step()
	// The local call is shown straight away.
	assert.Equal(t, "One dozen!", s.Snapshot().Commentary)

	close(gate.release)
	announcer.Wait()

	// The first callout arrives stale and is dropped.
	assert.Equal(t, "Provider calls B-12", s.Snapshot().Commentary)
}

func TestSessionCommentaryDroppedAfterReset(t *testing.T) {
	gate := gatedProvider{release: make(chan struct{})}
	announcer := commentary.NewAnnouncer(gate, quartz.NewReal(), time.Second, quietLogger())
	s := manualSession("", WithAnnouncer(announcer))
	_, err := s.Start("TEST", Normal)
	require.NoError(t, err)
	s.Step()

	s.Reset()
	close(gate.release)
	announcer.Wait()

	assert.Equal(t, "Ready for Blitz?", s.Snapshot().Commentary)
}
