// Package playback implements the playback controller: it reconciles the fetched playlist, the user's selection
// and the lifecycle of an externally launched player into one "now playing" state.
//
// # Components
//
//   - [Loader] : makes sure the external player runtime is started exactly once and resolves when it is usable
//   - [Handle] : single owner of the player instance; gates commands on readiness and buffers one pending load
//   - [PlaylistState] : the current [models.Snapshot], the selected index and the derived filtered view
//   - [Next] / [Previous] : pure navigation over the filtered view for each [PlayMode]
//   - [Controller] : single-threaded event loop wiring all of the above together
//
// # Events
//
// Every input reaches the controller as an [Event], a closed set of variants (widget readiness and status,
// fetch results, user commands). [Controller.Post] is safe from any goroutine; the events are applied one at a
// time by [Controller.Run], which is the only code that mutates controller state.
//
// # Teardown
//
// When the context given to Run is cancelled the controller is closed: late fetch results or widget events are
// dropped instead of mutating state, and the player instance is released.
package playback
