package mpv

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/shared"
)

const socketPollInterval = 50 * time.Millisecond

var startProcess = func(name string, args ...string) (*exec.Cmd, error) {
	cmd := exec.Command(name, args...)
	return cmd, cmd.Start()
}

// Runtime owns the mpv process. The process is started idle so nothing plays until a track is loaded.
type Runtime struct {
	binary string
	socket string
	args   []string
	logger *log.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	started bool
	exited  chan struct{}
}

// NewRuntime creates a [Runtime] from the player configuration.
func NewRuntime(cfg shared.PlayerConfig, logger *log.Logger) *Runtime {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	binary := cfg.Binary
	if binary == "" {
		binary = "mpv"
	}
	return &Runtime{
		binary: binary,
		socket: cfg.Socket,
		args:   Args(cfg),
		logger: logger,
	}
}

// Args returns the command line mpv is started with.
func Args(cfg shared.PlayerConfig) []string {
	args := []string{
		"--idle=yes",
		"--input-ipc-server=" + cfg.Socket,
		"--keep-open=yes",
		"--no-terminal",
		"--no-osc",
		"--no-input-default-bindings",
		"--force-window=no",
	}
	if cfg.NoVideo {
		args = append(args, "--no-video", "--ytdl-format=bestaudio/best")
	}
	return append(args, cfg.ExtraArgs...)
}

// Socket returns the IPC socket path.
func (r *Runtime) Socket() string { return r.socket }

// Available reports whether the IPC socket accepts connections.
func (r *Runtime) Available() bool {
	conn, err := net.DialTimeout("unix", r.socket, socketPollInterval)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Marker reports whether this runtime already started a process.
func (r *Runtime) Marker() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Inject starts mpv and calls onReady once its socket accepts connections.
//
// If the process exits first, onReady is never called.
func (r *Runtime) Inject(onReady func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}
	if r.socket == "" {
		return fmt.Errorf("%w: player socket is not configured", shared.ErrInvalidConfig)
	}
	if err := os.Remove(r.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	cmd, err := startProcess(r.binary, r.args...)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", r.binary, err)
	}

	r.cmd = cmd
	r.started = true
	r.exited = make(chan struct{})
	r.logger.Info("started player", "binary", r.binary, "pid", cmd.Process.Pid, "socket", r.socket)

	go r.wait(cmd, r.exited)
	go r.awaitSocket(r.exited, onReady)
	return nil
}

func (r *Runtime) wait(cmd *exec.Cmd, exited chan struct{}) {
	err := cmd.Wait()
	close(exited)
	if err != nil {
		r.logger.Warn("player exited", "error", err)
		return
	}
	r.logger.Info("player exited")
}

func (r *Runtime) awaitSocket(exited <-chan struct{}, onReady func()) {
	ticker := time.NewTicker(socketPollInterval)
	defer ticker.Stop()

	for {
		if r.Available() {
			onReady()
			return
		}

		select {
		case <-exited:
			r.logger.Error("player exited before its socket was ready", "socket", r.socket)
			return
		case <-ticker.C:
		}
	}
}

// Close stops the process and removes the socket.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return nil
	}

	var err error
	select {
	case <-r.exited:
	default:
		if killErr := r.cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
			err = fmt.Errorf("failed to stop player: %w", killErr)
		}
		<-r.exited
	}

	r.cmd = nil
	_ = os.Remove(r.socket)
	return err
}
