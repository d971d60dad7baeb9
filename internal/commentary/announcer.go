// Package commentary supplies the caller's patter for drawn balls and the
// end-of-round celebration. Text is best effort: every request resolves to a
// string, falling back to the local tables when a provider is slow or fails.
package commentary

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// DefaultTimeout bounds how long a provider may take before the local text
// is used instead.
const DefaultTimeout = 1500 * time.Millisecond

// Provider produces display strings. Implementations may block and may fail.
type Provider interface {
	Callout(ctx context.Context, number int) (string, error)
	Celebration(ctx context.Context, winner string) (string, error)
}

// Announcer runs a Provider off the caller's goroutine and always delivers
// a string.
type Announcer struct {
	provider Provider
	clock    quartz.Clock
	timeout  time.Duration
	logger   *log.Logger
	wg       sync.WaitGroup
}

// NewAnnouncer wraps provider. A nil provider means Local.
func NewAnnouncer(provider Provider, clock quartz.Clock, timeout time.Duration, logger *log.Logger) *Announcer {
	if provider == nil {
		provider = Local{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Announcer{
		provider: provider,
		clock:    clock,
		timeout:  timeout,
		logger:   logger.WithPrefix("commentary"),
	}
}

// Callout asynchronously fetches the call for number and passes it to deliver.
func (a *Announcer) Callout(ctx context.Context, number int, deliver func(string)) {
	a.run(ctx, "callout", LocalCallout(number), func(ctx context.Context) (string, error) {
		return a.provider.Callout(ctx, number)
	}, deliver)
}

// Celebration asynchronously fetches the victory line for winner.
func (a *Announcer) Celebration(ctx context.Context, winner string, deliver func(string)) {
	a.run(ctx, "celebration", LocalCelebration(winner), func(ctx context.Context) (string, error) {
		return a.provider.Celebration(ctx, winner)
	}, deliver)
}

// Wait blocks until every outstanding delivery has been made.
func (a *Announcer) Wait() {
	a.wg.Wait()
}

func (a *Announcer) run(ctx context.Context, kind, fallback string, fetch func(context.Context) (string, error), deliver func(string)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		deliver(a.fetch(ctx, kind, fallback, fetch))
	}()
}

func (a *Announcer) fetch(ctx context.Context, kind, fallback string, fetch func(context.Context) (string, error)) string {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	results := make(chan result, 1)
	go func() {
		text, err := fetch(ctx)
		results <- result{text: text, err: err}
	}()

	timeoutFired := make(chan struct{})
	timer := a.clock.AfterFunc(a.timeout, func() {
		close(timeoutFired)
	}, "commentary", kind)
	defer timer.Stop()

	select {
	case r := <-results:
		if r.err != nil {
			a.logger.Debug("Provider failed, using local text", "kind", kind, "error", r.err)
			return fallback
		}
		text := strings.TrimSpace(r.text)
		if text == "" {
			return fallback
		}
		return text
	case <-timeoutFired:
		a.logger.Debug("Provider timed out, using local text", "kind", kind, "timeout", a.timeout)
		return fallback
	case <-ctx.Done():
		return fallback
	}
}
