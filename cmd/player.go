package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/mpv"
	"github.com/desertthunder/jukebox/internal/playback"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/desertthunder/jukebox/internal/ui"
	"github.com/urfave/cli/v3"
)

// newPlayer wires a playback controller to an mpv process. The caller owns the returned runtime and must
// close it once the controller has stopped.
func (r *Runner) newPlayer(cmd *cli.Command, logger *log.Logger) (*playback.Controller, *mpv.Runtime, error) {
	source, err := r.playlistSource(cmd.Bool("direct"))
	if err != nil {
		return nil, nil, err
	}

	mode := r.config.Player.Mode
	if cmd.IsSet("mode") {
		mode = cmd.String("mode")
	}

	rt := mpv.NewRuntime(r.config.Player, shared.WithLogger(logger, "component", "mpv"))
	controller := playback.NewController(playback.Options{
		Source:      source,
		Runtime:     rt,
		Factory:     mpv.NewFactory(r.config.YouTube.WatchURL, shared.WithLogger(logger, "component", "widget")),
		Host:        rt.Socket(),
		Mode:        playback.ParsePlayMode(mode),
		LoadTimeout: r.config.Player.LoadTimeout.Duration,
		Logger:      shared.WithLogger(logger, "component", "controller"),
	})

	logger.Info("player configured", "source", source.Name(), "mode", playback.ParsePlayMode(mode), "socket", rt.Socket())
	return controller, rt, nil
}

// Play launches the interactive TUI.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	controller, rt, err := r.newPlayer(cmd, r.logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- controller.Run(ctx) }()

	model := ui.NewModel(controller, r.config.YouTube.WatchURL)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = p.Run()
	cancel()
	runErr := <-errc

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return runErr
}

// Listen plays the playlist without a UI until interrupted, logging every track change.
func (r *Runner) Listen(ctx context.Context, cmd *cli.Command) error {
	controller, rt, err := r.newPlayer(cmd, r.logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	errc := make(chan error, 1)
	go func() { errc <- controller.Run(ctx) }()

	r.follow(controller.Updates())
	return <-errc
}

// follow logs now-playing and status message changes until updates is closed.
func (r *Runner) follow(updates <-chan playback.View) {
	var lastID, lastMessage string
	var lastDegraded bool

	for v := range updates {
		if v.Active != nil && v.Active.ID != lastID {
			lastID = v.Active.ID
			r.logger.Info("now playing", "title", v.Active.Title, "channel", v.Active.OwnerLabel, "mode", v.Mode)
		}
		if v.Message != lastMessage {
			lastMessage = v.Message
			if v.FetchErr != nil {
				r.logger.Warn(v.Message)
			} else {
				r.logger.Debug(v.Message, "tracks", len(v.Tracks))
			}
		}
		if v.Degraded && !lastDegraded {
			r.logger.Error("player unavailable, nothing will play", "socket", r.config.Player.Socket)
		}
		lastDegraded = v.Degraded
	}
}
