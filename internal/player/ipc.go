package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/PizzaHomicide/koma/internal/log"
)

// ErrNotConnected is returned when a command is sent before the IPC connection is established or after it closed
var ErrNotConnected = errors.New("not connected to mpv")

// ipcMessage is a line received from mpv.  Events carry Event, command replies carry RequestID.
type ipcMessage struct {
	Event     string          `json:"event,omitempty"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID int             `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

// ipcClient speaks mpv's JSON IPC protocol over a unix socket or windows named pipe
type ipcClient struct {
	socketPath string
	onEvent    func(ipcMessage)

	writeMu sync.Mutex
	conn    net.Conn

	mu      sync.Mutex
	nextID  int
	pending map[int]chan ipcMessage

	done chan struct{}
}

func newIPCClient(socketPath string, onEvent func(ipcMessage)) *ipcClient {
	return &ipcClient{
		socketPath: socketPath,
		onEvent:    onEvent,
		pending:    make(map[int]chan ipcMessage),
		done:       make(chan struct{}),
	}
}

// WaitForConnection attempts to connect to mpv with retries
func (c *ipcClient) WaitForConnection(ctx context.Context, maxAttempts int, retryDelay time.Duration) error {
	log.Debug("Waiting for mpv to create socket", "socket_path", c.socketPath, "max_attempts", maxAttempts)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if runtime.GOOS != "windows" {
			if _, err := os.Stat(c.socketPath); os.IsNotExist(err) {
				log.Trace("mpv socket does not exist yet", "attempt", attempt, "path", c.socketPath)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(retryDelay):
					continue
				}
			}
		}

		conn, err := dialIPC(ctx, c.socketPath)
		if err == nil {
			c.writeMu.Lock()
			c.conn = conn
			c.writeMu.Unlock()
			go c.readLoop(conn)
			log.Info("Connected to mpv", "attempt", attempt, "socket_path", c.socketPath)
			return nil
		}

		log.Debug("Failed to connect to mpv", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return fmt.Errorf("failed to connect to mpv after %d attempts", maxAttempts)
}

// Done is closed when the connection to mpv is lost
func (c *ipcClient) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection to mpv
func (c *ipcClient) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// readLoop continuously reads lines from mpv, routing replies to their waiting requests and events to onEvent
func (c *ipcClient) readLoop(conn net.Conn) {
	defer close(c.done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		log.Trace("Raw mpv message", "data", string(line))

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			log.Warn("Failed to unmarshal mpv message", "error", err)
			continue
		}

		if msg.Event == "" {
			c.resolve(msg)
			continue
		}
		c.onEvent(msg)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warn("Error reading from mpv socket", "error", err)
	}
	log.Debug("mpv reader stopped", "socket_path", c.socketPath)
}

func (c *ipcClient) resolve(msg ipcMessage) {
	c.mu.Lock()
	ch, ok := c.pending[msg.RequestID]
	delete(c.pending, msg.RequestID)
	c.mu.Unlock()

	if ok {
		ch <- msg
		return
	}
	if msg.Error != "" && msg.Error != "success" {
		log.Debug("mpv command failed", "request_id", msg.RequestID, "error", msg.Error)
	}
}

func (c *ipcClient) send(req ipcRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}
	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

func (c *ipcClient) newRequestID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return c.nextID
}

// Command sends a command without waiting for mpv's reply.  Failures reported by mpv are only logged.
func (c *ipcClient) Command(args ...any) error {
	return c.send(ipcRequest{Command: args, RequestID: c.newRequestID()})
}

// Request sends a command and waits for mpv's reply
func (c *ipcClient) Request(ctx context.Context, args ...any) (json.RawMessage, error) {
	id := c.newRequestID()
	ch := make(chan ipcMessage, 1)

	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	cleanup := func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	if err := c.send(ipcRequest{Command: args, RequestID: id}); err != nil {
		cleanup()
		return nil, err
	}

	select {
	case <-ctx.Done():
		cleanup()
		return nil, ctx.Err()
	case <-c.done:
		cleanup()
		return nil, ErrNotConnected
	case reply := <-ch:
		if reply.Error != "" && reply.Error != "success" {
			return nil, fmt.Errorf("mpv command %v failed: %s", args[0], reply.Error)
		}
		return reply.Data, nil
	}
}

// ObserveProperty starts observing an mpv property.  Changes arrive as property-change events.
func (c *ipcClient) ObserveProperty(id int, name string) error {
	return c.Command("observe_property", id, name)
}

// SetProperty sets an mpv property
func (c *ipcClient) SetProperty(name string, value any) error {
	return c.Command("set_property", name, value)
}
