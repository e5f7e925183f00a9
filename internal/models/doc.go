// Package models defines the playlist entities shared by the proxy, the playback controller and the TUI.
//
// The package contains two categories of types:
//
// 1. Snapshot data: immutable values fetched from the playlist endpoint
//   - [Track] : a single playable item identified by its YouTube video id
//   - [Snapshot] : an ordered, replace-only list of tracks with its fetch time
//   - [FilteredEntry] : a track paired with its index in the unfiltered snapshot
//
// 2. Persistent entities: database-backed models
//   - [PersistedSnapshot] : the last good snapshot stored by the proxy so it can serve stale data after a restart
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps and validation.
package models
