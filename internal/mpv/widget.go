package mpv

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/playback"
	"github.com/desertthunder/jukebox/internal/shared"
)

// Observed property ids.
const (
	obsPause int64 = iota + 1
	obsPausedForCache
	obsEOFReached
	obsIdleActive
)

var observed = []struct {
	id   int64
	name string
}{
	{obsPause, "pause"},
	{obsPausedForCache, "paused-for-cache"},
	{obsEOFReached, "eof-reached"},
	{obsIdleActive, "idle-active"},
}

// Widget implements [playback.Widget] on top of an IPC connection.
type Widget struct {
	conn     *Conn
	watchURL string
	sink     func(playback.Event)
	logger   *log.Logger

	mu        sync.Mutex
	paused    bool
	buffering bool
	idle      bool
	closing   bool

	queueMu sync.Mutex
	queue   []playback.Event
	wake    chan struct{}
}

// NewFactory returns a [playback.WidgetFactory] that connects to the socket passed as host.
//
// Track ids are turned into URLs by appending them to watchURL.
func NewFactory(watchURL string, logger *log.Logger) playback.WidgetFactory {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return func(host string, sink func(playback.Event)) (playback.Widget, error) {
		return Open(host, watchURL, sink, logger)
	}
}

// Open connects to the socket at path, subscribes to the properties the widget reports on and emits
// [playback.ReadyEvent] once subscribed.
func Open(path, watchURL string, sink func(playback.Event), logger *log.Logger) (*Widget, error) {
	w := &Widget{watchURL: watchURL, sink: sink, logger: logger, idle: true, wake: make(chan struct{}, 1)}

	conn, err := Dial(path, w.handle)
	if err != nil {
		return nil, err
	}
	w.conn = conn

	for _, p := range observed {
		if err := conn.Observe(p.id, p.name); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to observe %s: %w", p.name, err)
		}
	}

	go w.forward()
	w.enqueue(playback.ReadyEvent{})
	return w, nil
}

// enqueue never blocks so the reader goroutine keeps delivering replies while the sink is busy.
func (w *Widget) enqueue(ev playback.Event) {
	w.queueMu.Lock()
	w.queue = append(w.queue, ev)
	w.queueMu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// forward delivers queued events to the sink in order until the connection goes away.
func (w *Widget) forward() {
	for {
		select {
		case <-w.wake:
		case <-w.conn.Done():
			w.mu.Lock()
			closing := w.closing
			w.mu.Unlock()
			if !closing {
				w.logger.Warn("lost connection to player")
			}
			return
		}

		w.queueMu.Lock()
		batch := w.queue
		w.queue = nil
		w.queueMu.Unlock()

		for _, ev := range batch {
			w.sink(ev)
		}
	}
}

func (w *Widget) Load(id string) error {
	if _, err := w.conn.Command("loadfile", w.url(id), "replace"); err != nil {
		return err
	}
	return w.conn.Set("pause", false)
}

func (w *Widget) Cue(id string) error {
	if err := w.conn.Set("pause", true); err != nil {
		return err
	}
	_, err := w.conn.Command("loadfile", w.url(id), "replace")
	return err
}

func (w *Widget) Play() error  { return w.conn.Set("pause", false) }
func (w *Widget) Pause() error { return w.conn.Set("pause", true) }

func (w *Widget) Seek(seconds float64) error {
	_, err := w.conn.Command("seek", seconds, "absolute")
	return err
}

// Status asks mpv for its current state rather than relying on observed events.
func (w *Widget) Status() (playback.Status, error) {
	checks := []struct {
		name   string
		status playback.Status
	}{
		{"idle-active", playback.Idle},
		{"eof-reached", playback.Ended},
		{"paused-for-cache", playback.Buffering},
		{"pause", playback.Paused},
	}

	for _, c := range checks {
		v, err := w.conn.Bool(c.name)
		if err != nil {
			return playback.Idle, err
		}
		if v {
			return c.status, nil
		}
	}
	return playback.Playing, nil
}

func (w *Widget) Close() error {
	w.mu.Lock()
	w.closing = true
	w.mu.Unlock()
	return w.conn.Close()
}

func (w *Widget) url(id string) string {
	return w.watchURL + id
}

// handle runs on the connection's reader goroutine.
func (w *Widget) handle(msg Message) {
	if ev, ok := w.translate(msg); ok {
		w.enqueue(ev)
	}
}

// translate maps an mpv event to a playback event.
func (w *Widget) translate(msg Message) (playback.Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch msg.Event {
	case "start-file":
		w.idle = false
		return playback.StatusEvent{Status: playback.Buffering}, true
	case "file-loaded":
		w.idle = false
		return playback.StatusEvent{Status: w.current()}, true
	case "end-file":
		switch msg.Reason {
		case "eof":
			return playback.StatusEvent{Status: playback.Ended}, true
		case "error":
			return playback.ErrorEvent{Err: fmt.Errorf("%w: %s", shared.ErrPlayback, msg.FileError)}, true
		}
		return nil, false
	case "property-change":
		return w.propertyChanged(msg)
	default:
		return nil, false
	}
}

func (w *Widget) propertyChanged(msg Message) (playback.Event, bool) {
	var v bool
	if len(msg.Data) == 0 || json.Unmarshal(msg.Data, &v) != nil {
		return nil, false
	}

	switch msg.ID {
	case obsPause:
		w.paused = v
	case obsPausedForCache:
		w.buffering = v
	case obsEOFReached:
		if v {
			return playback.StatusEvent{Status: playback.Ended}, true
		}
		return nil, false
	case obsIdleActive:
		w.idle = v
		if v {
			return playback.StatusEvent{Status: playback.Idle}, true
		}
		return nil, false
	default:
		return nil, false
	}

	if w.idle {
		return nil, false
	}
	return playback.StatusEvent{Status: w.current()}, true
}

func (w *Widget) current() playback.Status {
	switch {
	case w.buffering:
		return playback.Buffering
	case w.paused:
		return playback.Paused
	default:
		return playback.Playing
	}
}
