package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/jukebox/internal/shared"
)

// PollInterval is how often a second caller checks for a load started by someone else.
const PollInterval = 50 * time.Millisecond

// Runtime is the capability that starts the external player.
//
// It replaces ambient global state (a shared constructor plus a marker left by the first loader) so the
// [Loader] can be exercised against a fake.
type Runtime interface {
	// Available reports whether the player can be constructed right now.
	Available() bool
	// Marker reports whether a load has already been started.
	Marker() bool
	// Inject starts the load. It must leave the marker in place before returning and call onReady at most
	// once, from any goroutine, when the player becomes available.
	Inject(onReady func()) error
}

// Loader ensures the runtime is loaded exactly once.
type Loader struct {
	rt       Runtime
	mu       sync.Mutex
	interval time.Duration
}

// NewLoader creates a [Loader] for rt.
func NewLoader(rt Runtime) *Loader {
	return &Loader{rt: rt, interval: PollInterval}
}

// EnsureLoaded returns once the runtime is available. It is idempotent and safe for concurrent use.
//
// The first caller injects the runtime and waits for its ready callback; any caller that finds a load in flight
// polls instead of injecting a second time. The wait is bounded only by ctx.
func (l *Loader) EnsureLoaded(ctx context.Context) error {
	if l.rt.Available() {
		return nil
	}

	l.mu.Lock()
	if l.rt.Available() {
		l.mu.Unlock()
		return nil
	}
	if l.rt.Marker() {
		l.mu.Unlock()
		return l.poll(ctx)
	}

	ready := make(chan struct{})
	var once sync.Once
	err := l.rt.Inject(func() { once.Do(func() { close(ready) }) })
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrWidgetLoad, err)
	}

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", shared.ErrWidgetLoad, ctx.Err())
	}
}

func (l *Loader) poll(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", shared.ErrWidgetLoad, ctx.Err())
		case <-ticker.C:
			if l.rt.Available() {
				return nil
			}
		}
	}
}
