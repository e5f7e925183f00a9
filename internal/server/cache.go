package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/repositories"
	"github.com/desertthunder/jukebox/internal/services"
	"github.com/desertthunder/jukebox/internal/shared"
	"golang.org/x/sync/singleflight"
)

// CacheStatus describes how a cached response was produced.
type CacheStatus string

const (
	CacheHit   CacheStatus = "HIT"
	CacheStale CacheStatus = "STALE"
	CacheMiss  CacheStatus = "MISS"
)

const (
	fetchKey             = "playlist"
	revalidateTimeout    = time.Minute
	defaultSnapshotsKept = 10
)

// SnapshotStore persists the last good snapshot. [repositories.SnapshotRepository] implements it.
type SnapshotStore interface {
	Save(playlistID string, snap models.Snapshot) (*models.PersistedSnapshot, error)
	Latest(playlistID string) (*models.PersistedSnapshot, error)
	Prune(playlistID string, keep int) (int64, error)
}

// CacheOptions configures a [PlaylistCache].
type CacheOptions struct {
	PlaylistID           string
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
	Store                SnapshotStore
	Logger               *log.Logger
}

// PlaylistCache serves the playlist from memory and refreshes it from the source.
//
// Within MaxAge of the last fetch a snapshot is fresh. For another StaleWhileRevalidate it is served as stale
// while one background fetch refreshes it. After that callers wait for a new fetch. Concurrent fetches are
// coalesced into one upstream request. When a fetch fails, any snapshot still held is served as stale.
type PlaylistCache struct {
	source     services.PlaylistSource
	store      SnapshotStore
	playlistID string
	maxAge     time.Duration
	stale      time.Duration
	logger     *log.Logger
	now        func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	snap     *models.Snapshot
	storedAt time.Time
}

// NewPlaylistCache creates a cache in front of source.
func NewPlaylistCache(source services.PlaylistSource, opts CacheOptions) *PlaylistCache {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &PlaylistCache{
		source:     source,
		store:      opts.Store,
		playlistID: opts.PlaylistID,
		maxAge:     opts.MaxAge,
		stale:      opts.StaleWhileRevalidate,
		logger:     logger,
		now:        time.Now,
	}
}

// Warm loads the newest persisted snapshot. Its age counts from when it was fetched, so a long-stopped proxy
// does not serve it as fresh.
func (c *PlaylistCache) Warm() error {
	if c.store == nil {
		return nil
	}

	record, err := c.store.Latest(c.playlistID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load persisted snapshot: %w", err)
	}

	snap := record.Snapshot()
	c.set(&snap, snap.FetchedAt)
	c.logger.Info("loaded persisted playlist", "tracks", snap.Len(), "fetched_at", snap.FetchedAt)
	return nil
}

// Get returns the playlist and how it was served.
func (c *PlaylistCache) Get(ctx context.Context) (*models.Snapshot, CacheStatus, error) {
	snap, storedAt := c.current()
	if snap != nil {
		age := c.now().Sub(storedAt)
		switch {
		case age < c.maxAge:
			CacheLookupsTotal.WithLabelValues("hit").Inc()
			return snap, CacheHit, nil
		case age < c.maxAge+c.stale:
			CacheLookupsTotal.WithLabelValues("stale").Inc()
			c.revalidate()
			return snap, CacheStale, nil
		}
	}

	CacheLookupsTotal.WithLabelValues("miss").Inc()
	fresh, err := c.fetch(ctx)
	if err != nil {
		if snap != nil {
			c.logger.Warn("upstream failed, serving expired playlist", "error", err)
			return snap, CacheStale, nil
		}
		return nil, CacheMiss, err
	}
	return fresh, CacheMiss, nil
}

// Refresh fetches the playlist now regardless of its age.
func (c *PlaylistCache) Refresh(ctx context.Context) (*models.Snapshot, error) {
	return c.fetch(ctx)
}

func (c *PlaylistCache) current() (*models.Snapshot, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.storedAt
}

func (c *PlaylistCache) set(snap *models.Snapshot, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.storedAt = at
	PlaylistTracks.Set(float64(snap.Len()))
}

// fetch joins the in-flight upstream request or starts one. The request itself is not bound to ctx so one
// impatient caller cannot fail the others.
func (c *PlaylistCache) fetch(ctx context.Context) (*models.Snapshot, error) {
	ch := c.group.DoChan(fetchKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revalidateTimeout)
		defer cancel()
		return c.load(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Snapshot), nil
	}
}

func (c *PlaylistCache) revalidate() {
	go func() {
		if _, err := c.fetch(context.Background()); err != nil {
			c.logger.Warn("background revalidation failed", "error", err)
		}
	}()
}

func (c *PlaylistCache) load(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()
	snap, err := c.source.Fetch(ctx)
	UpstreamFetchDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		err = snap.Validate()
	}
	if err != nil {
		UpstreamFetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	UpstreamFetchesTotal.WithLabelValues("ok").Inc()

	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = c.now().UTC()
	}
	c.set(snap, c.now())
	c.logger.Info("fetched playlist", "source", c.source.Name(), "tracks", snap.Len())

	c.persist(*snap)
	return snap, nil
}

func (c *PlaylistCache) persist(snap models.Snapshot) {
	if c.store == nil {
		return
	}
	if _, err := c.store.Save(c.playlistID, snap); err != nil {
		c.logger.Error("failed to persist playlist", "error", err)
		return
	}
	if _, err := c.store.Prune(c.playlistID, defaultSnapshotsKept); err != nil {
		c.logger.Warn("failed to prune persisted playlists", "error", err)
	}
}
