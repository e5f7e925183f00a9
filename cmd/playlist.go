package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/jukebox/internal/formatter"
	"github.com/desertthunder/jukebox/internal/repositories"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistShow fetches the playlist once and prints or exports it.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	source, err := r.playlistSource(cmd.Bool("direct"))
	if err != nil {
		return err
	}

	r.logger.Debug("fetching playlist", "source", source.Name())
	snap, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	export := formatter.Export{
		PlaylistID: r.config.YouTube.PlaylistID,
		WatchURL:   r.config.YouTube.WatchURL,
		Snapshot:   snap,
	}

	output := cmd.String("output")
	if output == "" {
		return formatter.Write(r.output, export, format)
	}
	if output == "-" {
		output = ""
	}

	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}
	r.logger.Info("exported playlist", "path", path, "tracks", snap.Len())
	return r.writePlain("✓ Exported %d tracks to %s\n", snap.Len(), path)
}

type historyEntry struct {
	ID        string `json:"id"`
	Sequence  int    `json:"sequence"`
	FetchedAt string `json:"fetchedAt"`
	Tracks    int    `json:"tracks"`
}

// PlaylistHistory lists the snapshots the proxy has persisted, newest first.
func (r *Runner) PlaylistHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	playlistID := r.config.YouTube.PlaylistID
	records, err := repositories.NewSnapshotRepository(db).List(playlistID, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	entries := make([]historyEntry, len(records))
	for i, rec := range records {
		snap := rec.Snapshot()
		entries[i] = historyEntry{
			ID:        rec.ID(),
			Sequence:  rec.Sequence(),
			FetchedAt: snap.FetchedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Tracks:    snap.Len(),
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader(fmt.Sprintf("Snapshots of %s", playlistID))
	if len(entries) == 0 {
		return r.writePlain("No snapshots stored. Run 'jukebox serve' to populate the cache.\n")
	}
	for _, e := range entries {
		r.writePlain("#%-4d %s  %4d tracks  %s\n", e.Sequence, e.FetchedAt, e.Tracks, e.ID)
	}
	return nil
}
