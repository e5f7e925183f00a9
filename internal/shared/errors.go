package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Playback errors
	//
	// None of these terminate the process: fetch failures keep the previous snapshot,
	// widget failures leave browsing intact and playback errors skip to the next track.
	ErrFetch            = fmt.Errorf("playlist fetch failed")
	ErrWidgetLoad       = fmt.Errorf("player failed to load")
	ErrPlayback         = fmt.Errorf("playback error")
	ErrInvalidSelection = fmt.Errorf("invalid selection")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
