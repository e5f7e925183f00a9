package mpv

import (
	"bufio"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

// fakeMPV answers IPC requests the way mpv does and records every command.
type fakeMPV struct {
	t      *testing.T
	path   string
	ln     net.Listener
	mu     sync.Mutex
	conn   net.Conn
	cmds   [][]any
	props  map[string]any
	failOn string
	conned chan struct{}
}

func newFakeMPV(t *testing.T) *fakeMPV {
	t.Helper()

	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	f := &fakeMPV{t: t, path: path, ln: ln, props: map[string]any{}, conned: make(chan struct{})}
	t.Cleanup(func() { ln.Close() })

	go f.serve()
	return f
}

func (f *fakeMPV) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	close(f.conned)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}

		f.mu.Lock()
		f.cmds = append(f.cmds, req.Command)
		reply := map[string]any{"request_id": req.RequestID, "error": "success"}
		name, _ := req.Command[0].(string)
		switch {
		case name == f.failOn:
			reply["error"] = "invalid parameter"
		case name == "get_property":
			prop, _ := req.Command[1].(string)
			if v, ok := f.props[prop]; ok {
				reply["data"] = v
			} else {
				reply["error"] = "property unavailable"
			}
		}
		f.mu.Unlock()

		f.send(reply)
	}
}

func (f *fakeMPV) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		f.t.Errorf("failed to encode: %v", err)
		return
	}

	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	_, _ = conn.Write(append(data, '\n'))
}

func (f *fakeMPV) commands() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.cmds...)
}

func (f *fakeMPV) set(name string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[name] = v
}

func (f *fakeMPV) hangUp() {
	<-f.conned
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conn.Close()
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
