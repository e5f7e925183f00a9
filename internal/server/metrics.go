package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jukebox_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jukebox_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jukebox_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Playlist cache metrics
var (
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jukebox_playlist_cache_lookups_total",
			Help: "Playlist cache lookups by result",
		},
		[]string{"result"}, // "hit", "stale", "miss"
	)

	UpstreamFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jukebox_upstream_fetches_total",
			Help: "Playlist fetches from YouTube by outcome",
		},
		[]string{"status"}, // "ok", "error"
	)

	UpstreamFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jukebox_upstream_fetch_duration_seconds",
			Help:    "Duration of a complete playlist fetch from YouTube, all pages included",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PlaylistTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jukebox_playlist_tracks",
			Help: "Number of tracks in the cached playlist",
		},
	)
)
