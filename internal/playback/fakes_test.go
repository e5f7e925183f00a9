package playback

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/models"
)

var errBoom = errors.New("boom")

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func tracks(ids ...string) []models.Track {
	out := make([]models.Track, len(ids))
	for i, id := range ids {
		out[i] = models.Track{ID: id, Title: "Track " + id, OwnerLabel: "Owner " + id}
	}
	return out
}

// fakeWidget records every command it receives.
type fakeWidget struct {
	mu       sync.Mutex
	commands []Command
	status   Status
	err      error
	closed   bool
}

func (w *fakeWidget) record(cmd Command) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.commands = append(w.commands, cmd)
	return nil
}

func (w *fakeWidget) Load(id string) error { return w.record(Load(id)) }
func (w *fakeWidget) Cue(id string) error  { return w.record(Cue(id)) }
func (w *fakeWidget) Play() error          { return w.record(Play()) }
func (w *fakeWidget) Pause() error         { return w.record(Pause()) }
func (w *fakeWidget) Seek(_ float64) error { return w.record(SeekToStart()) }
func (w *fakeWidget) Status() (Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status, nil
}

func (w *fakeWidget) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWidget) Commands() []Command {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Command(nil), w.commands...)
}

// Loads returns the ids of every load command, in order.
func (w *fakeWidget) Loads() []string {
	var ids []string
	for _, c := range w.Commands() {
		if c.Kind == CmdLoad {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (w *fakeWidget) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.commands = nil
}

func (w *fakeWidget) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func factoryFor(w *fakeWidget) WidgetFactory {
	return func(string, func(Event)) (Widget, error) { return w, nil }
}

// fakeRuntime becomes available when Inject's callback fires.
type fakeRuntime struct {
	available atomic.Bool
	marker    atomic.Bool
	injects   atomic.Int32
	injectErr error
	// release, when set, holds the ready callback until it is closed.
	release chan struct{}
}

func (r *fakeRuntime) Available() bool { return r.available.Load() }
func (r *fakeRuntime) Marker() bool    { return r.marker.Load() }

func (r *fakeRuntime) Inject(onReady func()) error {
	r.injects.Add(1)
	if r.injectErr != nil {
		return r.injectErr
	}
	r.marker.Store(true)

	go func() {
		if r.release != nil {
			<-r.release
		}
		r.available.Store(true)
		onReady()
	}()
	return nil
}

// fakeSource serves results in order; the last result repeats.
type fakeSource struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

type fetchResult struct {
	snap *models.Snapshot
	err  error
}

func (s *fakeSource) Fetch(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.results) == 0 {
		return nil, errBoom
	}
	i := min(s.calls, len(s.results)-1)
	s.calls++
	return s.results[i].snap, s.results[i].err
}
