package main

import (
	"context"
	"errors"

	"github.com/desertthunder/jukebox/internal/repositories"
	"github.com/desertthunder/jukebox/internal/server"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the playlist proxy until interrupted.
//
// Without YouTube credentials the proxy still starts and answers the playlist endpoint with 500, so a
// misconfigured deployment is visible from the player.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	cache, closeStore, err := r.newCache()
	if err != nil {
		return err
	}
	defer closeStore()

	return server.New(cfg, cache, r.logger).ListenAndServe(ctx)
}

// newCache builds the playlist cache over a SQLite snapshot store and warms it. It returns a nil cache when
// no credentials are configured.
func (r *Runner) newCache() (*server.PlaylistCache, func(), error) {
	noop := func() {}

	source, err := r.youtubeSource()
	if errors.Is(err, shared.ErrMissingCredentials) {
		r.logger.Warn("no YouTube credentials configured, the playlist endpoint will answer 500")
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, noop, err
	}

	cache := server.NewPlaylistCache(source, server.CacheOptions{
		PlaylistID:           r.config.YouTube.PlaylistID,
		MaxAge:               r.config.Server.MaxAge.Duration,
		StaleWhileRevalidate: r.config.Server.StaleWhileRevalidate.Duration,
		Store:                repositories.NewSnapshotRepository(db),
		Logger:               shared.WithLogger(r.logger, "component", "cache"),
	})
	if err := cache.Warm(); err != nil {
		r.logger.Warn("starting with an empty cache", "error", err)
	}

	return cache, func() { db.Close() }, nil
}
