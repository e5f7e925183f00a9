package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jukebox/internal/playback"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all messages the player produces for itself (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgViewUpdated MsgKind = iota
	MsgPlayerClosed
	MsgOpenFailed
)

// viewUpdatedMsg is the constructor for [MsgViewUpdated]
func viewUpdatedMsg(v playback.View) Msg {
	return Msg{kind: MsgViewUpdated, data: v}
}

// playerClosedMsg is the constructor for [MsgPlayerClosed]
func playerClosedMsg() Msg {
	return Msg{kind: MsgPlayerClosed}
}

// openFailedMsg is the constructor for [MsgOpenFailed]
func openFailedMsg(err error) Msg {
	return Msg{kind: MsgOpenFailed, data: err}
}
