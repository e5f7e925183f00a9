// package services implements the playlist sources: the YouTube Data API and the playlist proxy
package services

import (
	"context"

	"github.com/desertthunder/jukebox/internal/models"
)

// PlaylistSource provides complete playlist snapshots.
type PlaylistSource interface {
	// Fetch retrieves the whole playlist in one snapshot.
	Fetch(ctx context.Context) (*models.Snapshot, error)

	// Name returns the name of the source (e.g., "YouTube", "proxy")
	Name() string
}

// ErrorResponse is the error payload returned by the playlist endpoint.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

var (
	_ PlaylistSource = (*YouTubeService)(nil)
	_ PlaylistSource = (*PlaylistClient)(nil)
)
