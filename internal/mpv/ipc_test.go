package mpv

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func TestConn(t *testing.T) {
	t.Run("matches replies to requests", func(t *testing.T) {
		f := newFakeMPV(t)
		f.set("pause", true)

		c, err := Dial(f.path, nil)
		if err != nil {
			t.Fatalf("failed to dial: %v", err)
		}
		defer c.Close()

		v, err := c.Bool("pause")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !v {
			t.Error("expected pause to be true")
		}
	})

	t.Run("error replies wrap ErrCommand", func(t *testing.T) {
		f := newFakeMPV(t)
		f.failOn = "loadfile"

		c, err := Dial(f.path, nil)
		if err != nil {
			t.Fatalf("failed to dial: %v", err)
		}
		defer c.Close()

		if _, err := c.Command("loadfile", "x", "replace"); !errors.Is(err, ErrCommand) {
			t.Errorf("expected ErrCommand, got %v", err)
		}
		if _, err := c.Bool("missing"); !errors.Is(err, ErrCommand) {
			t.Errorf("expected ErrCommand, got %v", err)
		}
	})

	t.Run("events go to the handler", func(t *testing.T) {
		f := newFakeMPV(t)
		events := make(chan Message, 1)

		c, err := Dial(f.path, func(m Message) { events <- m })
		if err != nil {
			t.Fatalf("failed to dial: %v", err)
		}
		defer c.Close()

		<-f.conned
		f.send(map[string]any{"event": "end-file", "reason": "eof"})

		select {
		case m := <-events:
			if m.Event != "end-file" || m.Reason != "eof" {
				t.Errorf("unexpected event %+v", m)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	})

	t.Run("pending requests fail when the connection drops", func(t *testing.T) {
		f := newFakeMPV(t)
		c, err := Dial(f.path, nil)
		if err != nil {
			t.Fatalf("failed to dial: %v", err)
		}

		f.hangUp()
		<-c.Done()

		if _, err := c.Command("get_property", "pause"); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})

	t.Run("requests time out", func(t *testing.T) {
		client, server := net.Pipe()
		defer server.Close()
		go io.Copy(io.Discard, server)

		c := newConn(client, nil)
		defer c.Close()
		c.timeout = 20 * time.Millisecond

		if _, err := c.Command("get_property", "pause"); !errors.Is(err, ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("dial failure", func(t *testing.T) {
		if _, err := Dial("/nonexistent/mpv.sock", nil); err == nil {
			t.Error("expected error")
		}
	})
}

func TestMessageDecode(t *testing.T) {
	var m Message
	line := `{"event":"property-change","id":1,"name":"pause","data":true}`
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Event != "property-change" || m.ID != 1 || m.Name != "pause" || string(m.Data) != "true" {
		t.Errorf("unexpected message %+v", m)
	}
}
