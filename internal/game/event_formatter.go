package game

import (
	"fmt"
	"strings"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/rival"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowRivals     bool // Append rival progress to ball lines (for logs)
	ShowCommentary bool // Include caller commentary lines (for TUI)
}

// EventFormatter provides centralized formatting for session events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns a one-line description of event, or "" when the options
// suppress it.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case RoundStartEvent:
		return ef.FormatRoundStart(e)
	case BallDrawnEvent:
		return ef.FormatBallDrawn(e)
	case CellMarkedEvent:
		return fmt.Sprintf("Marked %s", card.Label(e.Value))
	case RoundEndEvent:
		return ef.FormatRoundEnd(e)
	case CommentaryEvent:
		if !ef.opts.ShowCommentary {
			return ""
		}
		return fmt.Sprintf("Caller: %s", e.Text)
	case PoolExhaustedEvent:
		return "All 75 balls drawn, keep daubing!"
	case RoundResetEvent:
		return "Back to the lobby"
	default:
		return ""
	}
}

// FormatRoundStart formats the start of a round
func (ef *EventFormatter) FormatRoundStart(e RoundStartEvent) string {
	return fmt.Sprintf("Room %s: %s pace, one ball every %s, %d rivals",
		e.Seed, e.Difficulty, e.Interval, len(e.Rivals))
}

// FormatBallDrawn formats a drawn ball
func (ef *EventFormatter) FormatBallDrawn(e BallDrawnEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ball %d: %s", e.Count, card.Label(e.Ball))
	if e.OnCard {
		sb.WriteString(" (on your card)")
	}
	if ef.opts.ShowRivals && len(e.Rivals) > 0 {
		sb.WriteString(" [")
		sb.WriteString(FormatRivals(e.Rivals))
		sb.WriteString("]")
	}
	return sb.String()
}

// FormatRoundEnd formats the end of a round
func (ef *EventFormatter) FormatRoundEnd(e RoundEndEvent) string {
	if e.Outcome == Won {
		return fmt.Sprintf("BINGO! You win with %s after %d balls", e.Pattern, e.Draws)
	}
	return fmt.Sprintf("%s called BINGO after %d balls", e.Winner, e.Draws)
}

// FormatRivals renders rival progress as "AB 3/24, CD 5/24".
func FormatRivals(rivals []rival.Rival) string {
	parts := make([]string, len(rivals))
	for i, r := range rivals {
		parts[i] = fmt.Sprintf("%s %d/%d", r.Initials(), r.Progress, rival.MaxProgress)
	}
	return strings.Join(parts, ", ")
}
