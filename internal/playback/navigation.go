package playback

import (
	"math/rand/v2"
	"strings"

	"github.com/desertthunder/jukebox/internal/models"
)

// PlayMode controls what happens when a track ends.
type PlayMode int

const (
	ListLoop   PlayMode = iota // Advance through the filtered view, wrapping at the end
	SingleLoop                 // Restart the current track
	Shuffle                    // Pick a random entry of the filtered view
)

func (m PlayMode) String() string {
	switch m {
	case SingleLoop:
		return "single"
	case Shuffle:
		return "shuffle"
	default:
		return "list"
	}
}

// Cycle returns the next mode in selector order.
func (m PlayMode) Cycle() PlayMode {
	switch m {
	case ListLoop:
		return SingleLoop
	case SingleLoop:
		return Shuffle
	default:
		return ListLoop
	}
}

// ParsePlayMode converts a config or flag value to a [PlayMode], defaulting to [ListLoop].
func ParsePlayMode(s string) PlayMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "single-loop", "repeat-one":
		return SingleLoop
	case "shuffle", "random":
		return Shuffle
	default:
		return ListLoop
	}
}

// Step is the outcome of a navigation decision.
type Step struct {
	Index   int  // Index into the unfiltered snapshot; valid when OK
	OK      bool // OK is false when there is nothing to move to
	Restart bool // Restart asks for the current track to start over instead of changing index
}

func to(index int) Step { return Step{Index: index, OK: true} }

// Next picks the track that follows active in view.
//
// When the active track is not part of view (filtered out while playing), [ListLoop] falls back to the first
// entry of view. rng may be nil.
func Next(mode PlayMode, view []models.FilteredEntry, active int, rng *rand.Rand) Step {
	switch mode {
	case SingleLoop:
		return Step{Index: active, Restart: true}
	case Shuffle:
		if len(view) == 0 {
			return Step{}
		}
		return to(view[intN(rng, len(view))].Index)
	default:
		if len(view) == 0 {
			return Step{}
		}
		pos := Position(view, active)
		if pos < 0 {
			return to(view[0].Index)
		}
		return to(view[(pos+1)%len(view)].Index)
	}
}

// Skip picks a track other than active to move to after active failed. [SingleLoop] skips like [ListLoop] and
// [Shuffle] draws only from the remaining entries. The step is not OK when view holds nothing but active.
func Skip(mode PlayMode, view []models.FilteredEntry, active int, rng *rand.Rand) Step {
	others := make([]models.FilteredEntry, 0, len(view))
	for _, e := range view {
		if e.Index != active {
			others = append(others, e)
		}
	}
	if len(others) == 0 {
		return Step{}
	}
	if mode == Shuffle {
		return to(others[intN(rng, len(others))].Index)
	}
	return Next(ListLoop, view, active, rng)
}

// Previous picks the track before active in view. Every mode steps backwards in order, shuffle included.
//
// When the active track is not part of view, the last entry is chosen.
func Previous(_ PlayMode, view []models.FilteredEntry, active int) Step {
	if len(view) == 0 {
		return Step{}
	}
	pos := Position(view, active)
	if pos < 0 {
		return to(view[len(view)-1].Index)
	}
	return to(view[(pos-1+len(view))%len(view)].Index)
}

// Position returns the position of the entry whose original index is active, or -1.
func Position(view []models.FilteredEntry, active int) int {
	for i, e := range view {
		if e.Index == active {
			return i
		}
	}
	return -1
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
