// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/jukebox/internal/formatter"
	"github.com/urfave/cli/v3"
)

func playerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "direct",
			Usage: "Read the playlist from the YouTube Data API instead of the proxy",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Play mode: list, single or shuffle (default from config)",
		},
	}
}

// playCommand launches the interactive player
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"tui", "ui"},
		Usage:   "Browse the playlist and play it in mpv",
		Flags:   playerFlags(),
		Action:  r.Play,
	}
}

// listenCommand plays the playlist without a UI
func listenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "listen",
		Usage:  "Play the playlist headless, logging each track",
		Flags:  playerFlags(),
		Action: r.Listen,
	}
}

// playlistCommand handles playlist inspection and export
func playlistCommand(r *Runner) *cli.Command {
	formats := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		formats[i] = string(f)
	}

	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Fetch the playlist and print or export it",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "direct",
						Usage: "Read the playlist from the YouTube Data API instead of the proxy",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("Output format (%s)", strings.Join(formats, ", ")),
						Value:   string(formatter.FormatText),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout; \"-\" uses the default file name",
					},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "history",
				Usage: "List snapshots persisted by the proxy",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of snapshots to list",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistHistory,
			},
		},
	}
}

// serveCommand runs the playlist proxy
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the cached playlist endpoint the player reads from",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to listen on (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (default from config)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the default configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}
