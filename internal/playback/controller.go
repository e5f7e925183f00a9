package playback

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

const eventBuffer = 64

// Source fetches the playlist. Any error is treated as a fetch failure.
type Source interface {
	Fetch(ctx context.Context) (*models.Snapshot, error)
}

// View is an immutable copy of the controller's observable state.
type View struct {
	Tracks      []models.Track
	Filtered    []models.FilteredEntry
	ActiveIndex int
	Active      *models.Track
	Query       string
	Mode        PlayMode
	Lifecycle   Lifecycle
	Status      Status
	Degraded    bool
	Fetching    bool
	FetchedAt   time.Time
	Message     string
	FetchErr    error
}

// Options configures a [Controller].
type Options struct {
	Source      Source
	Runtime     Runtime
	Factory     WidgetFactory
	Host        string
	Mode        PlayMode
	LoadTimeout time.Duration
	Rand        *rand.Rand
	Logger      *log.Logger
}

// Controller is the single owner of playback state.
//
// Every event handler reads the state through the controller itself rather than through values captured when a
// callback was registered.
type Controller struct {
	source      Source
	loader      *Loader
	handle      *Handle
	host        string
	loadTimeout time.Duration
	rng         *rand.Rand
	logger      *log.Logger

	state     *PlaylistState
	mode      PlayMode
	status    Status
	fetchedAt time.Time
	message   string
	fetchErr  error

	generation uint64
	fetching   bool
	lastID     string
	endHandled bool
	closed     bool
	runCtx     context.Context

	events    chan Event
	updates   chan View
	done      chan struct{}
	closeOnce sync.Once
}

// NewController wires a controller from opts. Nothing runs until [Controller.Run].
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	c := &Controller{
		source:      opts.Source,
		host:        opts.Host,
		loadTimeout: opts.LoadTimeout,
		rng:         opts.Rand,
		logger:      logger,
		state:       NewPlaylistState(),
		mode:        opts.Mode,
		message:     "loading…",
		events:      make(chan Event, eventBuffer),
		updates:     make(chan View, 1),
		done:        make(chan struct{}),
		runCtx:      context.Background(),
	}

	if opts.Runtime != nil {
		c.loader = NewLoader(opts.Runtime)
	}
	c.handle = NewHandle(opts.Factory, func(ev Event) { c.Post(ev) }, shared.WithLogger(logger, "component", "handle"))

	return c
}

// Post queues ev for the event loop. It is safe for concurrent use and returns false once the controller is closed.
func (c *Controller) Post(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case <-c.done:
		return false
	case c.events <- ev:
		return true
	}
}

// Updates delivers a [View] after every applied event. Only the latest view is kept; the channel is closed on
// teardown.
func (c *Controller) Updates() <-chan View {
	return c.updates
}

// Done is closed once the controller has been torn down.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run starts the initial fetch and the player load, then applies events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	c.runCtx = ctx

	c.startFetch()
	if c.loader != nil {
		go c.awaitRuntime(ctx)
	} else {
		c.handle.Fail(fmt.Errorf("%w: no player runtime configured", shared.ErrWidgetLoad))
	}
	c.publish()

	for {
		select {
		case <-ctx.Done():
			c.teardown()
			return nil
		case ev := <-c.events:
			c.apply(ev)
		}
	}
}

// awaitRuntime waits for the runtime and hands construction back to the event loop.
func (c *Controller) awaitRuntime(ctx context.Context) {
	if c.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.loadTimeout)
		defer cancel()
	}

	if err := c.loader.EnsureLoaded(ctx); err != nil {
		c.Post(LoaderFailedEvent{Err: err})
		return
	}
	c.Post(LoaderReadyEvent{})
}

// startFetch begins fetch number generation+1. Responses for older generations are discarded on arrival.
func (c *Controller) startFetch() {
	gen := c.beginFetch()
	if c.source == nil {
		c.onFetchFailed(FetchFailedEvent{Generation: gen, Err: fmt.Errorf("%w: no playlist source configured", shared.ErrFetch)})
		return
	}

	ctx := c.runCtx
	go func() {
		snap, err := c.source.Fetch(ctx)
		if err != nil {
			c.Post(FetchFailedEvent{Generation: gen, Err: err})
			return
		}
		c.Post(FetchedEvent{Generation: gen, Snapshot: snap})
	}()
}

func (c *Controller) beginFetch() uint64 {
	c.generation++
	c.fetching = true
	return c.generation
}

func (c *Controller) teardown() {
	c.closed = true
	c.closeOnce.Do(func() { close(c.done) })

	if err := c.handle.Close(); err != nil {
		c.logger.Warn("failed to close player", "error", err)
	}
	close(c.updates)
}

// apply is the single event handler. It must only run on the event loop.
func (c *Controller) apply(ev Event) {
	if c.closed {
		return
	}

	switch e := ev.(type) {
	case FetchedEvent:
		c.onFetched(e)
	case FetchFailedEvent:
		c.onFetchFailed(e)
	case LoaderReadyEvent:
		c.construct()
	case LoaderFailedEvent:
		c.handle.Fail(e.Err)
		c.message = "player unavailable, browsing only"
	case ReadyEvent:
		if err := c.handle.MarkReady(); err != nil {
			c.logger.Error("failed to replay pending command", "error", err)
		}
	case StatusEvent:
		c.onStatus(e.Status)
	case ErrorEvent:
		c.onError(e)
	case SelectEvent:
		if !c.state.Select(e.Index) {
			c.logger.Debug("rejected selection", "index", e.Index, "len", c.state.Len(), "error", shared.ErrInvalidSelection)
		}
	case NextEvent:
		mode := c.mode
		if mode == SingleLoop {
			mode = ListLoop
		}
		c.applyStep(Next(mode, c.state.Filtered(), c.state.ActiveIndex(), c.rng))
	case PreviousEvent:
		c.applyStep(Previous(c.mode, c.state.Filtered(), c.state.ActiveIndex()))
	case TogglePlayEvent:
		if err := c.handle.TogglePlayback(); err != nil {
			c.logger.Warn("toggle failed", "error", err)
		}
	case SetModeEvent:
		c.mode = e.Mode
	case FilterEvent:
		c.state.SetFilter(e.Query)
	case RefreshEvent:
		if !c.fetching {
			c.startFetch()
		}
	default:
		c.logger.Error("unhandled event", "type", fmt.Sprintf("%T", ev))
	}

	c.reconcile()
	c.publish()
}

func (c *Controller) onFetched(e FetchedEvent) {
	if e.Generation != c.generation {
		c.logger.Debug("discarding stale fetch", "generation", e.Generation, "latest", c.generation)
		return
	}
	c.fetching = false

	if err := e.Snapshot.Validate(); err != nil {
		c.fail(fmt.Errorf("%w: %v", shared.ErrFetch, err))
		return
	}

	c.state.Replace(e.Snapshot.Items)
	c.fetchErr = nil
	c.fetchedAt = e.Snapshot.FetchedAt
	if c.fetchedAt.IsZero() {
		c.message = "loaded"
	} else {
		c.message = "updated " + c.fetchedAt.Local().Format("2006-01-02 15:04:05")
	}
	c.logger.Info("playlist loaded", "tracks", c.state.Len(), "generation", e.Generation)
}

func (c *Controller) onFetchFailed(e FetchFailedEvent) {
	if e.Generation != c.generation {
		c.logger.Debug("discarding stale fetch failure", "generation", e.Generation, "latest", c.generation)
		return
	}
	c.fetching = false
	c.fail(e.Err)
}

// fail records a non-fatal fetch failure; the current snapshot is kept.
func (c *Controller) fail(err error) {
	if !errors.Is(err, shared.ErrFetch) {
		err = fmt.Errorf("%w: %v", shared.ErrFetch, err)
	}
	c.fetchErr = err
	c.message = "load failed: " + err.Error()
	c.logger.Warn("playlist fetch failed", "error", err)
}

func (c *Controller) construct() {
	initial := ""
	if t, ok := c.state.Active(); ok {
		initial = t.ID
	}

	if err := c.handle.Construct(c.host, initial); err != nil {
		c.logger.Error("failed to construct player", "host", c.host, "error", err)
		c.message = "player unavailable, browsing only"
	}
}

func (c *Controller) onStatus(s Status) {
	c.status = s

	switch s {
	case Playing, Buffering:
		c.endHandled = false
	case Ended:
		c.advance(false)
	}
}

func (c *Controller) onError(e ErrorEvent) {
	c.status = Errored
	c.logger.Warn("track failed, skipping", "id", c.lastID, "code", e.Code, "error", e.Err)

	c.advance(true)
}

// advance moves on after the current track ended or failed. Further end or error reports are ignored until the
// player reports playing or buffering again. A failed track is never restarted or picked again.
func (c *Controller) advance(failed bool) {
	if c.endHandled {
		c.logger.Debug("ignoring duplicate end of track", "id", c.lastID)
		return
	}
	c.endHandled = true

	view, active := c.state.Filtered(), c.state.ActiveIndex()
	if !failed {
		c.applyStep(Next(c.mode, view, active, c.rng))
		return
	}

	step := Skip(c.mode, view, active, c.rng)
	if !step.OK {
		c.logger.Warn("no other track to skip to, playback stalled", "id", c.lastID)
		return
	}
	c.applyStep(step)
}

func (c *Controller) applyStep(step Step) {
	switch {
	case step.Restart:
		c.dispatch(SeekToStart())
		c.dispatch(Play())
	case !step.OK:
		return
	case step.Index == c.state.ActiveIndex():
		if t, ok := c.state.Active(); ok {
			c.load(t.ID)
		}
	default:
		c.state.Select(step.Index)
	}
}

// reconcile issues a load whenever the active track id differs from the last one dispatched.
func (c *Controller) reconcile() {
	t, ok := c.state.Active()
	if !ok || t.ID == c.lastID {
		return
	}
	c.load(t.ID)
}

func (c *Controller) load(id string) {
	c.lastID = id
	c.dispatch(Load(id))
}

func (c *Controller) dispatch(cmd Command) {
	if err := c.handle.Dispatch(cmd); err != nil {
		c.logger.Warn("player command failed", "kind", cmd.Kind, "id", cmd.ID, "error", err)
	}
}

// View returns the current state. Only call it from the event loop or before Run.
func (c *Controller) View() View {
	v := View{
		Tracks:      c.state.Tracks(),
		Filtered:    c.state.Filtered(),
		ActiveIndex: c.state.ActiveIndex(),
		Query:       c.state.Query(),
		Mode:        c.mode,
		Lifecycle:   c.handle.Lifecycle(),
		Status:      c.status,
		Degraded:    c.handle.Degraded(),
		Fetching:    c.fetching,
		FetchedAt:   c.fetchedAt,
		Message:     c.message,
		FetchErr:    c.fetchErr,
	}
	if t, ok := c.state.Active(); ok {
		v.Active = &t
	}
	return v
}

// publish replaces any unread view with the current one.
func (c *Controller) publish() {
	v := c.View()
	select {
	case c.updates <- v:
		return
	default:
	}

	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- v:
	default:
	}
}
