// Client for the playlist endpoint served by `jukebox serve`
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

// PlaylistPath is the route of the playlist endpoint.
const PlaylistPath = "/api/playlist"

// PlaylistClient reads snapshots from the playlist endpoint.
//
// Any transport error, non-success status or malformed body is reported as [shared.ErrFetch].
type PlaylistClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPlaylistClient creates a client for the endpoint at baseURL.
func NewPlaylistClient(baseURL string, client *http.Client) *PlaylistClient {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &PlaylistClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

func (p *PlaylistClient) Name() string {
	return "proxy"
}

// Fetch performs GET /api/playlist.
func (p *PlaylistClient) Fetch(ctx context.Context) (*models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+PlaylistPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			if errResp.Detail != "" {
				return nil, fmt.Errorf("%w: status %d: %s: %s", shared.ErrFetch, resp.StatusCode, errResp.Error, errResp.Detail)
			}
			return nil, fmt.Errorf("%w: status %d: %s", shared.ErrFetch, resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrFetch, resp.StatusCode)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", shared.ErrFetch, err)
	}
	if snap.Items == nil {
		return nil, fmt.Errorf("%w: malformed payload: missing items", shared.ErrFetch)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetch, err)
	}

	return &snap, nil
}
