package playback

import "github.com/desertthunder/jukebox/internal/models"

// Event is the closed set of inputs the [Controller] reacts to.
//
// The unexported marker method keeps other packages from adding variants, so the controller's type switch
// is exhaustive.
type Event interface {
	isEvent()
}

// Widget events

// ReadyEvent is emitted once by the widget when it accepts commands.
type ReadyEvent struct{}

// StatusEvent carries a status change reported by the widget.
type StatusEvent struct {
	Status Status
}

// ErrorEvent reports that the widget could not play the current track.
type ErrorEvent struct {
	Code int
	Err  error
}

// Lifecycle events produced by the controller's own continuations

// FetchedEvent delivers the result of fetch number Generation.
type FetchedEvent struct {
	Generation uint64
	Snapshot   *models.Snapshot
}

// FetchFailedEvent reports that fetch number Generation failed.
type FetchFailedEvent struct {
	Generation uint64
	Err        error
}

// LoaderReadyEvent signals that the player runtime is available and the widget can be constructed.
type LoaderReadyEvent struct{}

// LoaderFailedEvent signals that the player runtime never became available.
type LoaderFailedEvent struct {
	Err error
}

// User events

// SelectEvent selects the track at Index of the unfiltered snapshot.
type SelectEvent struct {
	Index int
}

// NextEvent skips forward according to the current [PlayMode].
type NextEvent struct{}

// PreviousEvent steps backwards through the filtered view.
type PreviousEvent struct{}

// TogglePlayEvent toggles between playing and paused based on the widget's live status.
type TogglePlayEvent struct{}

// SetModeEvent changes the play mode.
type SetModeEvent struct {
	Mode PlayMode
}

// FilterEvent changes the search query.
type FilterEvent struct {
	Query string
}

// RefreshEvent starts a new playlist fetch.
type RefreshEvent struct{}

func (ReadyEvent) isEvent()        {}
func (StatusEvent) isEvent()       {}
func (ErrorEvent) isEvent()        {}
func (FetchedEvent) isEvent()      {}
func (FetchFailedEvent) isEvent()  {}
func (LoaderReadyEvent) isEvent()  {}
func (LoaderFailedEvent) isEvent() {}
func (SelectEvent) isEvent()       {}
func (NextEvent) isEvent()         {}
func (PreviousEvent) isEvent()     {}
func (TogglePlayEvent) isEvent()   {}
func (SetModeEvent) isEvent()      {}
func (FilterEvent) isEvent()       {}
func (RefreshEvent) isEvent()      {}
