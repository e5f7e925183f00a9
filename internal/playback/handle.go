package playback

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/shared"
)

// CommandKind enumerates player commands.
type CommandKind int

const (
	CmdLoad CommandKind = iota
	CmdCue
	CmdPlay
	CmdPause
	CmdSeekToStart
)

func (k CommandKind) String() string {
	switch k {
	case CmdLoad:
		return "load"
	case CmdCue:
		return "cue"
	case CmdPlay:
		return "play"
	case CmdPause:
		return "pause"
	case CmdSeekToStart:
		return "seek_to_start"
	default:
		return ""
	}
}

// Command is a single instruction for the player. ID is only set for load and cue.
type Command struct {
	Kind CommandKind
	ID   string
}

func Load(id string) Command { return Command{Kind: CmdLoad, ID: id} }
func Cue(id string) Command  { return Command{Kind: CmdCue, ID: id} }
func Play() Command          { return Command{Kind: CmdPlay} }
func Pause() Command         { return Command{Kind: CmdPause} }
func SeekToStart() Command   { return Command{Kind: CmdSeekToStart} }

// durable reports whether the command expresses an intent worth replaying once the player is ready.
func (c Command) durable() bool {
	return c.Kind == CmdLoad || c.Kind == CmdCue
}

// Widget is a constructed player instance.
type Widget interface {
	Load(id string) error       // Load replaces the current media and starts playing
	Cue(id string) error        // Cue replaces the current media without playing
	Play() error                // Play resumes playback
	Pause() error               // Pause pauses playback
	Seek(seconds float64) error // Seek moves to an absolute offset
	Status() (Status, error)    // Status queries the player's live state
	Close() error               // Close releases the instance
}

// WidgetFactory constructs a widget against host. The widget reports [ReadyEvent], [StatusEvent] and
// [ErrorEvent] through sink, which may be called from any goroutine.
type WidgetFactory func(host string, sink func(Event)) (Widget, error)

// Handle owns the single player instance.
//
// Not safe for concurrent use; the [Controller] is its only caller.
type Handle struct {
	factory   WidgetFactory
	sink      func(Event)
	widget    Widget
	lifecycle Lifecycle
	pending   *Command
	degraded  bool
	logger    *log.Logger
}

// NewHandle creates an unconstructed [Handle].
func NewHandle(factory WidgetFactory, sink func(Event), logger *log.Logger) *Handle {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if sink == nil {
		sink = func(Event) {}
	}
	return &Handle{factory: factory, sink: sink, logger: logger}
}

// Construct builds the widget against host. Calls after the first are no-ops.
//
// initialID is buffered as a pending load unless a newer command is already waiting.
func (h *Handle) Construct(host, initialID string) error {
	if h.lifecycle != Unloaded {
		return nil
	}
	h.lifecycle = Loading

	if initialID != "" && h.pending == nil {
		cmd := Load(initialID)
		h.pending = &cmd
	}

	if h.factory == nil {
		h.degraded = true
		return fmt.Errorf("%w: no widget factory", shared.ErrWidgetLoad)
	}

	w, err := h.factory(host, h.sink)
	if err != nil {
		h.degraded = true
		return fmt.Errorf("%w: %v", shared.ErrWidgetLoad, err)
	}

	h.widget = w
	return nil
}

// MarkReady moves the lifecycle to [Ready] and replays the pending command. Only the first call has an effect.
func (h *Handle) MarkReady() error {
	if h.lifecycle == Ready || h.widget == nil {
		return nil
	}
	h.lifecycle = Ready

	if h.pending == nil {
		return nil
	}
	cmd := *h.pending
	h.pending = nil

	h.logger.Debug("replaying pending command", "kind", cmd.Kind, "id", cmd.ID)
	return h.send(cmd)
}

// Fail marks the handle degraded. Subsequent commands are no-ops.
func (h *Handle) Fail(err error) {
	if !h.degraded {
		h.logger.Warn("player unavailable, playback disabled", "error", err)
	}
	h.degraded = true
}

// Dispatch sends cmd to the widget once it is ready.
//
// Before that, load and cue replace the single pending command (last write wins) while play, pause and seek
// are dropped.
func (h *Handle) Dispatch(cmd Command) error {
	if h.degraded {
		return nil
	}

	if h.lifecycle != Ready {
		if cmd.durable() {
			h.pending = &cmd
		} else {
			h.logger.Debug("dropping command, player not ready", "kind", cmd.Kind)
		}
		return nil
	}

	return h.send(cmd)
}

// TogglePlayback pauses when the widget reports it is playing and plays otherwise.
//
// The widget is queried every time; local state can drift from what is actually happening.
func (h *Handle) TogglePlayback() error {
	if h.degraded || h.lifecycle != Ready {
		return nil
	}

	status, err := h.widget.Status()
	if err != nil {
		return fmt.Errorf("%w: failed to read player status: %v", shared.ErrPlayback, err)
	}

	if status.Active() {
		return h.send(Pause())
	}
	return h.send(Play())
}

func (h *Handle) send(cmd Command) error {
	var err error
	switch cmd.Kind {
	case CmdLoad:
		err = h.widget.Load(cmd.ID)
	case CmdCue:
		err = h.widget.Cue(cmd.ID)
	case CmdPlay:
		err = h.widget.Play()
	case CmdPause:
		err = h.widget.Pause()
	case CmdSeekToStart:
		err = h.widget.Seek(0)
	default:
		return fmt.Errorf("%w: unknown command %d", shared.ErrInvalidArgument, cmd.Kind)
	}

	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrPlayback, cmd.Kind, cmd.ID, err)
	}
	return nil
}

// Pending returns the buffered command, if any.
func (h *Handle) Pending() (Command, bool) {
	if h.pending == nil {
		return Command{}, false
	}
	return *h.pending, true
}

func (h *Handle) Lifecycle() Lifecycle { return h.lifecycle }
func (h *Handle) Degraded() bool       { return h.degraded }

// Close releases the widget. The lifecycle does not regress.
func (h *Handle) Close() error {
	if h.widget == nil {
		return nil
	}
	err := h.widget.Close()
	h.widget = nil
	h.degraded = true
	return err
}
