// YouTube Data API v3 [PlaylistSource] implementation
//
// Reads playlistItems page by page and maps each item to a [models.Track].
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	youtubePageSize       = 50
)

// Titles YouTube substitutes for items that can no longer be played.
var unavailableTitles = map[string]bool{
	"Private video": true,
	"Deleted video": true,
}

// YouTubeThumbnail is one size of an item's thumbnail.
type YouTubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubePlaylistItem is a playlistItems resource with the parts requested by [YouTubeService].
type YouTubePlaylistItem struct {
	Snippet struct {
		Title                  string                      `json:"title"`
		ChannelTitle           string                      `json:"channelTitle"`
		VideoOwnerChannelTitle string                      `json:"videoOwnerChannelTitle"`
		Thumbnails             map[string]YouTubeThumbnail `json:"thumbnails"`
		ResourceID             struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
	ContentDetails struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}

type youtubePage struct {
	Items         []YouTubePlaylistItem `json:"items"`
	NextPageToken string                `json:"nextPageToken"`
}

type youtubeError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// YouTubeService reads a playlist from the YouTube Data API.
//
// Requests authenticate with an API key, or with a bearer token through [oauth2] when an access token is
// configured. Page requests are throttled with a [rate.Limiter].
type YouTubeService struct {
	baseURL    string
	apiKey     string
	playlistID string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewYouTubeService creates a YouTube Data API client. client may be nil.
func NewYouTubeService(cfg shared.YouTubeConfig, client *http.Client) (*YouTubeService, error) {
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: youtube api_key or access_token is required", shared.ErrMissingCredentials)
	}
	if cfg.PlaylistID == "" {
		return nil, fmt.Errorf("%w: youtube playlist_id", shared.ErrMissingConfig)
	}

	if client == nil {
		client = http.DefaultClient
	}
	if cfg.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}))
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &YouTubeService{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		playlistID: cfg.PlaylistID,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
	}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// PlaylistID returns the configured playlist.
func (y *YouTubeService) PlaylistID() string {
	return y.playlistID
}

// Fetch retrieves every playable item of the configured playlist.
func (y *YouTubeService) Fetch(ctx context.Context) (*models.Snapshot, error) {
	tracks, err := y.PlaylistItems(ctx, y.playlistID)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{Items: tracks, FetchedAt: y.now().UTC()}, nil
}

// PlaylistItems pages through playlistID following nextPageToken.
//
// Items without an id, private or deleted items and repeated ids are skipped; the first occurrence of a
// repeated id wins.
func (y *YouTubeService) PlaylistItems(ctx context.Context, playlistID string) ([]models.Track, error) {
	tracks := make([]models.Track, 0)
	seen := make(map[string]bool)
	pageToken := ""

	for {
		page, err := y.page(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			track, ok := ToTrack(item)
			if !ok || seen[track.ID] {
				continue
			}
			seen[track.ID] = true
			tracks = append(tracks, track)
		}

		if page.NextPageToken == "" {
			return tracks, nil
		}
		pageToken = page.NextPageToken
	}
}

func (y *YouTubeService) page(ctx context.Context, playlistID, pageToken string) (*youtubePage, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("maxResults", fmt.Sprint(youtubePageSize))
	query.Set("playlistId", playlistID)
	if y.apiKey != "" {
		query.Set("key", y.apiKey)
	}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/playlistItems?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp youtubeError
		msg := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s: %s", shared.ErrPlaylistNotFound, playlistID, msg)
		}
		return nil, fmt.Errorf("%w: youtube API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, msg)
	}

	var page youtubePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return &page, nil
}

// ToTrack maps a playlist item to a track. It reports false for items that cannot be played.
func ToTrack(item YouTubePlaylistItem) (models.Track, bool) {
	id := item.ContentDetails.VideoID
	if id == "" {
		id = item.Snippet.ResourceID.VideoID
	}

	title := item.Snippet.Title
	if id == "" || unavailableTitles[title] {
		return models.Track{}, false
	}

	owner := item.Snippet.VideoOwnerChannelTitle
	if owner == "" {
		owner = item.Snippet.ChannelTitle
	}

	thumb := item.Snippet.Thumbnails["medium"].URL
	if thumb == "" {
		thumb = item.Snippet.Thumbnails["default"].URL
	}

	return models.Track{ID: id, Title: title, OwnerLabel: owner, ThumbnailURL: thumb}, true
}
