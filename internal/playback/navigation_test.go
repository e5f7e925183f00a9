package playback

import (
	"math/rand/v2"
	"testing"
)

func TestNext(t *testing.T) {
	t.Run("ListLoop visits every entry once per cycle", func(t *testing.T) {
		s := NewPlaylistState()
		s.Replace(tracks("A", "B", "C", "D", "E", "F"))

		for _, query := range []string{"", "track b", "owner"} {
			s.SetFilter(query)
			view := s.Filtered()
			n := len(view)

			for start := range view {
				active := view[start].Index
				seen := map[int]int{}
				for range n {
					step := Next(ListLoop, view, active, nil)
					if !step.OK {
						t.Fatalf("query %q: expected a step", query)
					}
					active = step.Index
					seen[active]++
				}

				if len(seen) != n {
					t.Errorf("query %q start %d: visited %d of %d entries", query, start, len(seen), n)
				}
				if active != view[start].Index {
					t.Errorf("query %q start %d: expected to return to start after %d steps", query, start, n)
				}
			}
		}
	})

	t.Run("ListLoop wraps from last to first", func(t *testing.T) {
		view := Filter(tracks("A", "B", "C"), "")
		if step := Next(ListLoop, view, 2, nil); !step.OK || step.Index != 0 {
			t.Errorf("expected index 0, got %+v", step)
		}
	})

	t.Run("ListLoop with active filtered out starts at the first entry", func(t *testing.T) {
		view := Filter(tracks("A", "B", "C", "D"), "track c")
		if step := Next(ListLoop, view, 0, nil); !step.OK || step.Index != 2 {
			t.Errorf("expected index 2, got %+v", step)
		}
	})

	t.Run("SingleLoop never changes the index", func(t *testing.T) {
		view := Filter(tracks("A", "B", "C"), "")
		for active := range 3 {
			step := Next(SingleLoop, view, active, nil)
			if !step.Restart || step.Index != active {
				t.Errorf("expected restart at %d, got %+v", active, step)
			}
		}
	})

	t.Run("Shuffle picks an entry of the view", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		view := Filter(tracks("A", "B", "C", "D", "E"), "")
		allowed := map[int]bool{}
		for _, e := range view {
			allowed[e.Index] = true
		}

		for range 100 {
			step := Next(Shuffle, view, 0, rng)
			if !step.OK || !allowed[step.Index] {
				t.Fatalf("unexpected step %+v", step)
			}
		}
	})

	t.Run("Shuffle on a single track repeats it", func(t *testing.T) {
		view := Filter(tracks("A"), "")
		if step := Next(Shuffle, view, 0, nil); !step.OK || step.Index != 0 {
			t.Errorf("expected index 0, got %+v", step)
		}
	})

	t.Run("empty view yields no step", func(t *testing.T) {
		for _, mode := range []PlayMode{ListLoop, Shuffle} {
			if step := Next(mode, nil, 0, nil); step.OK {
				t.Errorf("%v: expected no step, got %+v", mode, step)
			}
		}
		if step := Previous(ListLoop, nil, 0); step.OK {
			t.Errorf("expected no step, got %+v", step)
		}
	})
}

func TestSkip(t *testing.T) {
	view := Filter(tracks("A", "B", "C"), "")

	t.Run("never picks the failed track", func(t *testing.T) {
		for _, mode := range []PlayMode{ListLoop, SingleLoop, Shuffle} {
			rng := rand.New(rand.NewPCG(3, 4))
			for active := range 3 {
				for range 50 {
					step := Skip(mode, view, active, rng)
					if !step.OK || step.Restart || step.Index == active {
						t.Fatalf("%v: unexpected step %+v from %d", mode, step, active)
					}
				}
			}
		}
	})

	t.Run("ordered modes take the successor", func(t *testing.T) {
		for _, mode := range []PlayMode{ListLoop, SingleLoop} {
			if step := Skip(mode, view, 2, nil); !step.OK || step.Index != 0 {
				t.Errorf("%v: expected 0, got %+v", mode, step)
			}
		}
	})

	t.Run("active filtered out picks from the view", func(t *testing.T) {
		filtered := Filter(tracks("A", "B", "C"), "track b")
		for _, mode := range []PlayMode{ListLoop, Shuffle} {
			if step := Skip(mode, filtered, 0, nil); !step.OK || step.Index != 1 {
				t.Errorf("%v: expected 1, got %+v", mode, step)
			}
		}
	})

	t.Run("no other entry yields no step", func(t *testing.T) {
		single := Filter(tracks("A"), "")
		for _, mode := range []PlayMode{ListLoop, SingleLoop, Shuffle} {
			if step := Skip(mode, single, 0, nil); step.OK {
				t.Errorf("%v: expected no step, got %+v", mode, step)
			}
			if step := Skip(mode, nil, 0, nil); step.OK {
				t.Errorf("%v: expected no step on empty view, got %+v", mode, step)
			}
		}
	})
}

func TestPrevious(t *testing.T) {
	view := Filter(tracks("A", "B", "C"), "")

	tests := []struct {
		name   string
		mode   PlayMode
		active int
		want   int
	}{
		{"steps back", ListLoop, 2, 1},
		{"wraps to last", ListLoop, 0, 2},
		{"shuffle is ordered", Shuffle, 1, 0},
		{"single loop steps back", SingleLoop, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if step := Previous(tt.mode, view, tt.active); !step.OK || step.Index != tt.want {
				t.Errorf("expected %d, got %+v", tt.want, step)
			}
		})
	}

	t.Run("active filtered out goes to the last entry", func(t *testing.T) {
		filtered := Filter(tracks("A", "B", "C", "D"), "track b")
		if step := Previous(ListLoop, filtered, 3); !step.OK || step.Index != 1 {
			t.Errorf("expected 1, got %+v", step)
		}
	})
}

func TestPlayMode(t *testing.T) {
	t.Run("Cycle", func(t *testing.T) {
		if ListLoop.Cycle() != SingleLoop || SingleLoop.Cycle() != Shuffle || Shuffle.Cycle() != ListLoop {
			t.Error("unexpected cycle order")
		}
	})

	t.Run("ParsePlayMode round trips", func(t *testing.T) {
		for _, m := range []PlayMode{ListLoop, SingleLoop, Shuffle} {
			if got := ParsePlayMode(m.String()); got != m {
				t.Errorf("expected %v, got %v", m, got)
			}
		}
		if got := ParsePlayMode("bogus"); got != ListLoop {
			t.Errorf("expected list fallback, got %v", got)
		}
	})
}
