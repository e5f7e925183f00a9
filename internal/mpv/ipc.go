package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

var (
	ErrClosed  = errors.New("mpv connection closed")
	ErrTimeout = errors.New("mpv request timed out")
	ErrCommand = errors.New("mpv command failed")
)

// DefaultRequestTimeout bounds how long a single IPC request waits for its reply.
const DefaultRequestTimeout = 5 * time.Second

// request is a single JSON IPC command.
type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// Message is a line read from the socket: either a reply (RequestID set) or an event (Event set).
type Message struct {
	RequestID int64           `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Event     string          `json:"event,omitempty"`
	ID        int64           `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`
}

// Conn is a client connection to an mpv IPC socket. It is safe for concurrent use.
type Conn struct {
	conn    net.Conn
	onEvent func(Message)
	timeout time.Duration

	writeMu sync.Mutex
	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan Message
	closed  bool
	done    chan struct{}
}

// Dial connects to the socket at path. onEvent is called from the reader goroutine for every event, in order.
func Dial(path string, onEvent func(Message)) (*Conn, error) {
	nc, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to dial mpv socket %s: %w", path, err)
	}
	return newConn(nc, onEvent), nil
}

func newConn(nc net.Conn, onEvent func(Message)) *Conn {
	if onEvent == nil {
		onEvent = func(Message) {}
	}

	c := &Conn{
		conn:    nc,
		onEvent: onEvent,
		timeout: DefaultRequestTimeout,
		pending: make(map[int64]chan Message),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Command sends args and waits for the reply, returning its data.
func (c *Conn) Command(args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	id := c.nextID
	reply := make(chan Message, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	payload, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to encode command: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to write command: %w", err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case msg, ok := <-reply:
		if !ok {
			return nil, ErrClosed
		}
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("%w: %v: %s", ErrCommand, args[0], msg.Error)
		}
		return msg.Data, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: %v", ErrTimeout, args[0])
	}
}

// Set sets a property.
func (c *Conn) Set(name string, value any) error {
	_, err := c.Command("set_property", name, value)
	return err
}

// Bool reads a boolean property.
func (c *Conn) Bool(name string) (bool, error) {
	data, err := c.Command("get_property", name)
	if err != nil {
		return false, err
	}

	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return false, fmt.Errorf("failed to decode property %s: %w", name, err)
	}
	return v, nil
}

// Observe subscribes to changes of a property. Changes arrive as property-change events tagged with id.
func (c *Conn) Observe(id int64, name string) error {
	_, err := c.Command("observe_property", id, name)
	return err
}

// Done is closed when the connection is lost or closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) readLoop() {
	defer c.shutdown()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		if msg.Event != "" {
			c.onEvent(msg)
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[msg.RequestID]
		c.mu.Unlock()
		if ok {
			reply <- msg
		}
	}
}

func (c *Conn) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, reply := range c.pending {
		close(reply)
		delete(c.pending, id)
	}
	close(c.done)
}
