package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/services"
)

// CacheHeader reports whether the playlist came from the cache.
const CacheHeader = "X-Cache"

// PlaylistHandler serves GET /api/playlist.
type PlaylistHandler struct {
	cache        *PlaylistCache
	cacheControl string
	logger       *log.Logger
}

// NewPlaylistHandler creates the playlist endpoint. A nil cache means the proxy has no YouTube credentials.
func NewPlaylistHandler(cache *PlaylistCache, cacheControl string, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{cache: cache, cacheControl: cacheControl, logger: logger}
}

func (h *PlaylistHandler) Routes() []string {
	return []string{http.MethodGet + " " + services.PlaylistPath}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("Missing YouTube API key in configuration", ""))
		return
	}

	snap, status, err := h.cache.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch playlist", "error", err, "request_id", RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusBadGateway, errorBody("Upstream YouTube API error", err.Error()))
		return
	}

	w.Header().Set("Cache-Control", h.cacheControl)
	w.Header().Set(CacheHeader, string(status))
	writeJSON(w, http.StatusOK, snap)
}

// CacheControl renders the Cache-Control value advertised to shared caches in front of the proxy.
func CacheControl(maxAge, stale time.Duration) string {
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate=%d", int(maxAge.Seconds()), int(stale.Seconds()))
}

func errorBody(msg, detail string) services.ErrorResponse {
	return services.ErrorResponse{Error: msg, Detail: detail}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
