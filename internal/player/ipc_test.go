package player

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizzaHomicide/koma/internal/scrub"
)

// fakeMPV answers IPC requests on the far end of an in-memory connection.  handle returns the reply fields for a
// command, or nil to leave it unanswered.
type fakeMPV struct {
	conn   net.Conn
	handle func(cmd []any) map[string]any

	mu       sync.Mutex
	commands [][]any
}

// connectFake wires c to a fake mpv and starts its reader
func connectFake(t *testing.T, c *ipcClient, handle func(cmd []any) map[string]any) *fakeMPV {
	t.Helper()
	client, server := net.Pipe()
	c.writeMu.Lock()
	c.conn = client
	c.writeMu.Unlock()
	go c.readLoop(client)

	f := &fakeMPV{conn: server, handle: handle}
	go f.serve()
	t.Cleanup(func() {
		_ = server.Close()
		_ = c.Close()
	})
	return f
}

func (f *fakeMPV) serve() {
	scanner := bufio.NewScanner(f.conn)
	for scanner.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int   `json:"request_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		f.mu.Unlock()

		reply := f.handle(req.Command)
		if reply == nil {
			continue
		}
		reply["request_id"] = req.RequestID
		data, _ := json.Marshal(reply)
		if _, err := f.conn.Write(append(data, '\n')); err != nil {
			return
		}
	}
}

func (f *fakeMPV) write(line string) {
	_, _ = f.conn.Write([]byte(line + "\n"))
}

func (f *fakeMPV) seen(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, cmd := range f.commands {
		if len(cmd) > 1 && cmd[1] == name {
			n++
		}
	}
	return n
}

func succeed([]any) map[string]any {
	return map[string]any{"error": "success"}
}

// refusePause rejects every pause change and accepts everything else
func refusePause(cmd []any) map[string]any {
	if len(cmd) > 1 && cmd[0] == "set_property" && cmd[1] == "pause" {
		return map[string]any{"error": "property unavailable"}
	}
	return map[string]any{"error": "success"}
}

func TestIPCRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsReplyData", func(t *testing.T) {
		c := newIPCClient("test", func(ipcMessage) {})
		connectFake(t, c, func([]any) map[string]any {
			return map[string]any{"error": "success", "data": 12.5}
		})

		data, err := c.Request(ctx, "get_property", "time-pos")
		require.NoError(t, err)
		assert.JSONEq(t, "12.5", string(data))
	})

	t.Run("ErrorReply", func(t *testing.T) {
		c := newIPCClient("test", func(ipcMessage) {})
		connectFake(t, c, refusePause)

		_, err := c.Request(ctx, "set_property", "pause", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "property unavailable")
	})

	t.Run("EventsBeforeReplyGoToHandler", func(t *testing.T) {
		events := make(chan ipcMessage, 1)
		c := newIPCClient("test", func(msg ipcMessage) { events <- msg })
		var f *fakeMPV
		f = connectFake(t, c, func([]any) map[string]any {
			f.write(`{"event":"playback-restart"}`)
			return map[string]any{"error": "success"}
		})

		_, err := c.Request(ctx, "set_property", "pause", true)
		require.NoError(t, err)
		select {
		case msg := <-events:
			assert.Equal(t, "playback-restart", msg.Event)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered")
		}
	})

	t.Run("TimeoutForgetsRequest", func(t *testing.T) {
		c := newIPCClient("test", func(ipcMessage) {})
		connectFake(t, c, func([]any) map[string]any { return nil })

		tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := c.Request(tctx, "set_property", "pause", false)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		c.mu.Lock()
		assert.Empty(t, c.pending)
		c.mu.Unlock()
	})

	t.Run("ConnectionLost", func(t *testing.T) {
		c := newIPCClient("test", func(ipcMessage) {})
		f := connectFake(t, c, func([]any) map[string]any { return nil })
		go func() {
			time.Sleep(20 * time.Millisecond)
			_ = f.conn.Close()
		}()

		_, err := c.Request(ctx, "set_property", "pause", false)
		assert.ErrorIs(t, err, ErrNotConnected)
	})
}

func TestMPVPlayRefusal(t *testing.T) {
	t.Run("RefusalIsReturned", func(t *testing.T) {
		m := NewMPV(Options{})
		f := connectFake(t, m.ipc, refusePause)

		assert.Error(t, m.Play())
		assert.Error(t, m.Pause())
		assert.Equal(t, 2, f.seen("pause"))
	})

	t.Run("AcceptedPlay", func(t *testing.T) {
		m := NewMPV(Options{})
		connectFake(t, m.ipc, succeed)
		assert.NoError(t, m.Play())
	})

	t.Run("ControllerKeepsPausedState", func(t *testing.T) {
		m := NewMPV(Options{})
		connectFake(t, m.ipc, refusePause)

		ctrl := scrub.NewController(scrub.Options{FPS: 25})
		defer ctrl.Close()
		ctrl.Attach(m, nil)

		ctrl.Play()
		assert.False(t, ctrl.Snapshot().IsPlaying)
	})
}

func TestObserveFailureClosesConnection(t *testing.T) {
	m := NewMPV(Options{})
	client, server := net.Pipe()
	require.NoError(t, server.Close())
	m.ipc.conn = client

	err := m.observeProperties()
	require.Error(t, err)

	m.ipc.writeMu.Lock()
	defer m.ipc.writeMu.Unlock()
	assert.Nil(t, m.ipc.conn)
}
