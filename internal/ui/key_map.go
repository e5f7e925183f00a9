package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	play   key.Binding
	toggle key.Binding
	next   key.Binding
	prev   key.Binding
	mode   key.Binding
	search key.Binding
	back   key.Binding
	reload key.Binding
	open   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		play:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		mode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.prev, k.mode, k.search, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play},
		{k.toggle, k.next, k.prev, k.mode},
		{k.search, k.back, k.reload, k.open, k.quit},
	}
}
