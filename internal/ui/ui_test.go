package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/playback"
)

// fakePlayer records posted events.
type fakePlayer struct {
	mu      sync.Mutex
	events  []playback.Event
	updates chan playback.View
	stopped bool
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{updates: make(chan playback.View, 1)}
}

func (p *fakePlayer) Post(ev playback.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}
	p.events = append(p.events, ev)
	return true
}

func (p *fakePlayer) Updates() <-chan playback.View { return p.updates }

func (p *fakePlayer) Events() []playback.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]playback.Event(nil), p.events...)
}

func (p *fakePlayer) Last() playback.Event {
	events := p.Events()
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

func testView(active int) playback.View {
	tracks := []models.Track{
		{ID: "a", Title: "Alpha", OwnerLabel: "Chan A"},
		{ID: "b", Title: "Bravo", OwnerLabel: "Chan B"},
		{ID: "c", Title: "Charlie", OwnerLabel: "Chan C"},
	}
	filtered := make([]models.FilteredEntry, len(tracks))
	for i, t := range tracks {
		filtered[i] = models.FilteredEntry{Track: t, Index: i}
	}

	v := playback.View{
		Tracks:      tracks,
		Filtered:    filtered,
		ActiveIndex: active,
		Mode:        playback.ListLoop,
		Lifecycle:   playback.Ready,
		Status:      playback.Playing,
		Message:     "updated 2026-01-01 00:00:00",
	}
	if active >= 0 {
		v.Active = &tracks[active]
	}
	return v
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (*Model, *fakePlayer) {
	t.Helper()
	player := newFakePlayer()
	m := NewModel(player, "https://www.youtube.com/watch?v=")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m.Update(viewUpdatedMsg(testView(0)))
	return m, player
}

func TestTransportKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want playback.Event
	}{
		{name: "space toggles", msg: tea.KeyMsg{Type: tea.KeySpace}, want: playback.TogglePlayEvent{}},
		{name: "n skips forward", msg: runes("n"), want: playback.NextEvent{}},
		{name: "p skips back", msg: runes("p"), want: playback.PreviousEvent{}},
		{name: "m cycles mode", msg: runes("m"), want: playback.SetModeEvent{Mode: playback.SingleLoop}},
		{name: "r refreshes", msg: runes("r"), want: playback.RefreshEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, player := newTestModel(t)
			m.Update(tt.msg)

			if got := player.Last(); got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestSelectTrack(t *testing.T) {
	m, player := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := player.Last(); got != (playback.SelectEvent{Index: 1}) {
		t.Errorf("expected select of index 1, got %#v", got)
	}
}

func TestSearch(t *testing.T) {
	t.Run("posts the query as it is typed", func(t *testing.T) {
		m, player := newTestModel(t)

		m.Update(runes("/"))
		if !m.searching {
			t.Fatal("expected search mode")
		}
		m.Update(runes("b"))
		m.Update(runes("r"))

		if got := player.Last(); got != (playback.FilterEvent{Query: "br"}) {
			t.Errorf("expected filter br, got %#v", got)
		}
		for _, ev := range player.Events() {
			if _, ok := ev.(playback.RefreshEvent); ok {
				t.Error("keys typed into search must not trigger commands")
			}
		}
	})

	t.Run("enter keeps the query", func(t *testing.T) {
		m, player := newTestModel(t)
		m.Update(runes("/"))
		m.Update(runes("x"))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if m.searching || m.search.Value() != "x" {
			t.Errorf("expected search closed with query kept, got searching=%v value=%q", m.searching, m.search.Value())
		}
		if _, ok := player.Last().(playback.FilterEvent); !ok {
			t.Errorf("enter in search must not select, got %#v", player.Last())
		}
	})

	t.Run("esc clears the query", func(t *testing.T) {
		m, player := newTestModel(t)
		m.Update(runes("/"))
		m.Update(runes("x"))
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		if m.searching || m.search.Value() != "" {
			t.Error("expected search cleared")
		}
		if got := player.Last(); got != (playback.FilterEvent{Query: ""}) {
			t.Errorf("expected empty filter, got %#v", got)
		}
	})
}

func TestApplyView(t *testing.T) {
	t.Run("cursor follows the active track", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.Update(viewUpdatedMsg(testView(2)))

		if m.tracks.Index() != 2 {
			t.Errorf("expected cursor on 2, got %d", m.tracks.Index())
		}
	})

	t.Run("cursor stays put while the active track is unchanged", func(t *testing.T) {
		m, _ := newTestModel(t)
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m.Update(viewUpdatedMsg(testView(0)))

		if m.tracks.Index() != 1 {
			t.Errorf("expected cursor to stay on 1, got %d", m.tracks.Index())
		}
	})

	t.Run("marks the active item", func(t *testing.T) {
		m, _ := newTestModel(t)
		items := m.tracks.Items()
		if !items[0].(trackItem).active || items[1].(trackItem).active {
			t.Error("expected only the first item active")
		}
	})
}

func TestView(t *testing.T) {
	t.Run("now playing and status", func(t *testing.T) {
		m, _ := newTestModel(t)
		out := m.View()

		for _, want := range []string{"Alpha · Chan A", "[list] playing", "updated 2026-01-01"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in view:\n%s", want, out)
			}
		}
	})

	t.Run("degraded player", func(t *testing.T) {
		m, _ := newTestModel(t)
		v := testView(-1)
		v.Degraded = true
		m.Update(viewUpdatedMsg(v))

		out := m.View()
		if !strings.Contains(out, "Nothing playing") || !strings.Contains(out, "browsing only") {
			t.Errorf("unexpected view:\n%s", out)
		}
	})

	t.Run("fetch error", func(t *testing.T) {
		m, _ := newTestModel(t)
		v := testView(0)
		v.FetchErr = errors.New("boom")
		v.Message = "load failed: boom"
		m.Update(viewUpdatedMsg(v))

		if !strings.Contains(m.View(), "load failed: boom") {
			t.Error("expected fetch error in status line")
		}
	})
}

func TestOpenSelected(t *testing.T) {
	m, _ := newTestModel(t)

	var opened string
	m.open = func(url string) error {
		opened = url
		return errors.New("no browser")
	}

	_, cmd := m.Update(runes("o"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if opened != "https://www.youtube.com/watch?v=a" {
		t.Errorf("unexpected url %q", opened)
	}

	m.Update(msg)
	if !strings.Contains(m.View(), "could not open browser") {
		t.Error("expected open failure notice")
	}
}

func TestPlayerLifecycle(t *testing.T) {
	t.Run("waits for the next view", func(t *testing.T) {
		player := newFakePlayer()
		m := NewModel(player, "")
		player.updates <- testView(1)

		msg := m.Init()()
		got, ok := msg.(Msg)
		if !ok || got.kind != MsgViewUpdated || got.data.(playback.View).ActiveIndex != 1 {
			t.Errorf("unexpected message %#v", msg)
		}
	})

	t.Run("quits when the controller stops", func(t *testing.T) {
		player := newFakePlayer()
		m := NewModel(player, "")
		close(player.updates)

		msg := m.Init()()
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("reports a stopped player", func(t *testing.T) {
		m, player := newTestModel(t)
		player.stopped = true
		m.Update(runes("n"))

		if !strings.Contains(m.View(), "player stopped") {
			t.Error("expected stopped notice")
		}
	})

	t.Run("q quits", func(t *testing.T) {
		m, _ := newTestModel(t)
		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}
