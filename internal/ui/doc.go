// Package ui implements the interactive player using bubbletea's Elm architecture.
//
// The [Model] renders [playback.View] snapshots published by the playback controller and turns key presses
// into [playback.Event] values posted back to it. It never mutates playback state itself: the controller's
// event loop is the only writer, so the UI stays a pure projection.
//
// Layout, top to bottom:
//  1. Now playing header with the play mode and player status
//  2. Search input (focused with /), filtering the list as you type
//  3. Track list, the active track marked
//  4. Status line with the last fetch message or error, then contextual help
//
// Keyboard bindings: enter plays the highlighted track, space toggles play/pause, n/p skip, m cycles the
// play mode, r refetches the playlist, o opens the highlighted track in the browser and q quits.
package ui
