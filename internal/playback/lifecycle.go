package playback

// Lifecycle is the one-way readiness progression of the player instance.
type Lifecycle int

const (
	Unloaded Lifecycle = iota
	Loading
	Ready
)

func (l Lifecycle) String() string {
	switch l {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return ""
	}
}

// Status mirrors what the player reports. It is only meaningful once the lifecycle is [Ready].
type Status int

const (
	Idle Status = iota
	Playing
	Paused
	Buffering
	Ended
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Ended:
		return "ended"
	case Errored:
		return "errored"
	default:
		return ""
	}
}

// Active reports whether the player is producing (or about to produce) output.
func (s Status) Active() bool {
	return s == Playing || s == Buffering
}
