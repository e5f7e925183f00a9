package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/playback"
	"github.com/desertthunder/jukebox/internal/shared"
)

// Player is the part of [playback.Controller] the TUI drives.
type Player interface {
	Post(ev playback.Event) bool
	Updates() <-chan playback.View
}

// chrome is the number of lines used around the track list.
const chrome = 9

// Model represents the TUI application state.
type Model struct {
	player   Player
	watchURL string
	open     func(url string) error

	view     playback.View
	activeID string
	width    int
	height   int

	tracks    list.Model
	search    textinput.Model
	searching bool
	notice    string

	help help.Model
	keys keyMap
}

// NewModel creates a TUI bound to player. watchURL is joined with a track id to open it in the browser.
func NewModel(player Player, watchURL string) *Model {
	tracks := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tracks.Title = "Playlist"
	tracks.SetFilteringEnabled(false)
	tracks.SetShowHelp(false)
	tracks.DisableQuitKeybindings()

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search titles and channels"

	return &Model{
		player:   player,
		watchURL: watchURL,
		open:     shared.OpenBrowser,
		view:     playback.View{ActiveIndex: -1},
		tracks:   tracks,
		search:   search,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts listening for controller updates.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tracks.SetSize(msg.Width-4, max(msg.Height-chrome, 3))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgViewUpdated:
			cmd := m.applyView(msg.data.(playback.View))
			return m, tea.Batch(cmd, m.waitForUpdate())
		case MsgPlayerClosed:
			return m, tea.Quit
		case MsgOpenFailed:
			m.notice = fmt.Sprintf("could not open browser: %v", msg.data)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

// View renders the header, search box, track list and status line.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString(m.tracks.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.play):
		if item, ok := m.tracks.SelectedItem().(trackItem); ok {
			m.post(playback.SelectEvent{Index: item.entry.Index})
		}
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		m.post(playback.TogglePlayEvent{})
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.post(playback.NextEvent{})
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.post(playback.PreviousEvent{})
		return m, nil
	case key.Matches(msg, m.keys.mode):
		m.post(playback.SetModeEvent{Mode: m.view.Mode.Cycle()})
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.post(playback.RefreshEvent{})
		return m, nil
	case key.Matches(msg, m.keys.open):
		return m, m.openSelected()
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.post(playback.FilterEvent{Query: ""})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.post(playback.FilterEvent{Query: ""})
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.post(playback.FilterEvent{Query: after})
	}
	return m, cmd
}

func (m *Model) post(ev playback.Event) {
	if !m.player.Post(ev) {
		m.notice = "player stopped"
	}
}

// applyView swaps in a new controller snapshot. The cursor follows the active track when it changes and
// otherwise stays where the user left it.
func (m *Model) applyView(v playback.View) tea.Cmd {
	m.view = v
	cmd := m.tracks.SetItems(trackItems(v.Filtered, v.ActiveIndex))

	id := ""
	if v.Active != nil {
		id = v.Active.ID
	}
	if id != m.activeID {
		m.activeID = id
		if pos := playback.Position(v.Filtered, v.ActiveIndex); pos >= 0 {
			m.tracks.Select(pos)
		}
	}
	return cmd
}

func (m *Model) waitForUpdate() tea.Cmd {
	updates := m.player.Updates()
	return func() tea.Msg {
		v, ok := <-updates
		if !ok {
			return playerClosedMsg()
		}
		return viewUpdatedMsg(v)
	}
}

func (m *Model) openSelected() tea.Cmd {
	item, ok := m.tracks.SelectedItem().(trackItem)
	if !ok {
		return nil
	}

	url := m.watchURL + item.entry.Track.ID
	open := m.open
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openFailedMsg(err)
		}
		return nil
	}
}

func (m *Model) renderHeader() string {
	var now string
	if t := m.view.Active; t != nil {
		now = nowPlaying(*t)
	} else {
		now = "Nothing playing"
	}

	meta := fmt.Sprintf("[%s] %s", m.view.Mode, m.playerState())
	return styles.title.Render(now) + "\n" + styles.help.Render(meta)
}

func (m *Model) playerState() string {
	switch {
	case m.view.Degraded:
		return "player unavailable, browsing only"
	case m.view.Lifecycle != playback.Ready:
		return "player " + m.view.Lifecycle.String()
	default:
		return m.view.Status.String()
	}
}

func (m *Model) renderStatus() string {
	switch {
	case m.notice != "":
		return styles.warn.Render(m.notice)
	case m.view.FetchErr != nil:
		return styles.err.Render(m.view.Message)
	case m.view.Fetching:
		return styles.help.Render("fetching playlist...")
	case m.view.Message != "":
		return styles.ok.Render(m.view.Message)
	}
	return ""
}

func nowPlaying(t models.Track) string {
	if t.OwnerLabel == "" {
		return "♪ " + t.Title
	}
	return fmt.Sprintf("♪ %s · %s", t.Title, t.OwnerLabel)
}
