package player

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"sync"
	"time"

	"github.com/PizzaHomicide/koma/internal/log"
	"github.com/PizzaHomicide/koma/internal/scrub"
)

// replyTimeout bounds the wait for mpv to answer a command whose outcome matters
const replyTimeout = time.Second

// Options configures one mpv instance
type Options struct {
	// Path is the mpv binary.  Defaults to "mpv".
	Path string
	// Args are extra command line arguments appended after the defaults
	Args []string
	// SocketDir is where the IPC socket is created
	SocketDir string
	// Role names the instance in logs and in its socket name, e.g. "primary" or "proxy"
	Role string
}

// MPV drives one mpv process over its JSON IPC interface.  It implements scrub.Media and scrub.Display.
//
// Getters read a cache kept up to date by observed properties.  Commands are sent without waiting for a reply,
// except play and pause which wait up to replyTimeout for mpv to accept them.
type MPV struct {
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	ipc        *ipcClient
	events     chan PlaybackEvent
	exited     chan struct{}
	closeOnce  sync.Once
	log        *log.Logger

	mu         sync.RWMutex
	timePos    float64
	duration   float64
	buffered   []scrub.TimeRange
	eof        bool
	fullscreen bool
}

var (
	_ scrub.Media   = (*MPV)(nil)
	_ scrub.Display = (*MPV)(nil)
)

// NewMPV creates an mpv instance.  Nothing is started until Start is called.
func NewMPV(opts Options) *MPV {
	if opts.Path == "" {
		opts.Path = "mpv"
	}
	if opts.Role == "" {
		opts.Role = "primary"
	}
	m := &MPV{
		opts:       opts,
		socketPath: socketPath(opts.SocketDir, opts.Role),
		events:     make(chan PlaybackEvent, 64),
		exited:     make(chan struct{}),
		duration:   math.NaN(),
		log:        log.With("role", opts.Role),
	}
	m.ipc = newIPCClient(m.socketPath, m.onMessage)
	return m
}

// Events returns the channel of playback events.  It is closed when the connection to mpv ends.
func (m *MPV) Events() <-chan PlaybackEvent {
	return m.events
}

// Start launches mpv paused on the given file and waits until its IPC socket accepts connections
func (m *MPV) Start(ctx context.Context, file string) error {
	m.log.Info("Starting mpv", "file", file)

	args := m.buildArgs(file)
	cmd := exec.Command(m.opts.Path, args...)
	setupPlayerProcess(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv: %w", err)
	}
	m.cmd = cmd

	go func() {
		err := cmd.Wait()
		m.log.Debug("mpv exited", "error", err)
		close(m.exited)
	}()

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := m.ipc.WaitForConnection(connCtx, 20, 250*time.Millisecond); err != nil {
		m.kill()
		return fmt.Errorf("failed to connect to mpv: %w", err)
	}

	go func() {
		<-m.ipc.Done()
		close(m.events)
	}()

	return m.observeProperties()
}

// observeProperties subscribes to the properties the controller follows.  On failure mpv is killed and the
// connection closed, as the caller never gets an instance to Close.
func (m *MPV) observeProperties() error {
	for id, name := range observedProperties {
		if err := m.ipc.ObserveProperty(id, name); err != nil {
			m.kill()
			if cerr := m.ipc.Close(); cerr != nil {
				m.log.Debug("Failed to close mpv connection", "error", cerr)
			}
			return fmt.Errorf("failed to observe %s: %w", name, err)
		}
	}
	return nil
}

func (m *MPV) buildArgs(file string) []string {
	args := []string{
		"--no-terminal",
		"--keep-open=yes",
		"--pause",
		"--force-window=yes",
		"--no-input-default-bindings",
		"--osc=no",
		"--title=koma " + m.opts.Role,
		"--input-ipc-server=" + m.socketPath,
	}
	args = append(args, m.opts.Args...)
	return append(args, "--", file)
}

// onMessage runs on the IPC reader goroutine.  Replies are read on the same goroutine, so time and cache updates are
// dropped rather than queued when the consumer falls behind; the cache already holds their values and the next one
// re-reads it.
func (m *MPV) onMessage(msg ipcMessage) {
	ev, ok := m.handleMessage(msg)
	if !ok {
		return
	}
	if ev.Type == EventTimeTick || ev.Type == EventProgress {
		select {
		case m.events <- ev:
		default:
			m.log.Trace("Dropping event, consumer busy", "type", ev.Type)
		}
		return
	}
	select {
	case m.events <- ev:
	case <-m.exited:
	}
}

// Close asks mpv to quit, killing it if it does not exit in time, and removes its socket
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		if m.cmd == nil {
			return
		}
		m.log.Info("Stopping mpv")
		if err := m.ipc.Command("quit"); err != nil {
			m.log.Debug("Failed to send quit to mpv", "error", err)
		}

		select {
		case <-m.exited:
		case <-time.After(2 * time.Second):
			m.log.Warn("mpv did not exit, killing it")
			m.kill()
		}

		if err := m.ipc.Close(); err != nil {
			m.log.Debug("Failed to close mpv connection", "error", err)
		}
		removeSocket(m.socketPath)
	})
	return nil
}

func (m *MPV) kill() {
	if m.cmd == nil || m.cmd.Process == nil {
		return
	}
	if err := m.cmd.Process.Kill(); err != nil {
		m.log.Debug("Failed to kill mpv", "error", err)
	}
	removeSocket(m.socketPath)
}

// Play resumes playback.  mpv's reply is awaited so a refusal reaches the controller as an error.
func (m *MPV) Play() error {
	return m.setPause(false)
}

// Pause halts playback
func (m *MPV) Pause() error {
	return m.setPause(true)
}

func (m *MPV) setPause(pause bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	_, err := m.ipc.Request(ctx, "set_property", "pause", pause)
	return err
}

// CurrentTime returns the last known playback position in seconds
func (m *MPV) CurrentTime() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timePos
}

// SetCurrentTime seeks to an exact position.  The cached position is updated immediately so reads that follow see
// the requested time, like a media element's currentTime.
func (m *MPV) SetCurrentTime(t float64) error {
	if err := m.ipc.Command("seek", t, "absolute+exact"); err != nil {
		return err
	}
	m.mu.Lock()
	m.timePos = t
	m.eof = false
	m.mu.Unlock()
	return nil
}

// Duration returns the media duration in seconds, NaN until mpv reports it
func (m *MPV) Duration() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.duration
}

// Buffered returns the seekable ranges of the demuxer cache
func (m *MPV) Buffered() []scrub.TimeRange {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ranges := make([]scrub.TimeRange, len(m.buffered))
	copy(ranges, m.buffered)
	return ranges
}

// SetVolume sets the volume from a [0, 1] level
func (m *MPV) SetVolume(v float64) error {
	return m.ipc.SetProperty("volume", v*100)
}

// SetMuted mutes or unmutes the audio
func (m *MPV) SetMuted(muted bool) error {
	return m.ipc.SetProperty("mute", muted)
}

// SetVisible raises the window above other windows when visible
func (m *MPV) SetVisible(visible bool) error {
	return m.ipc.SetProperty("ontop", visible)
}

// RequestFullscreen asks the window to enter fullscreen
func (m *MPV) RequestFullscreen() error {
	return m.ipc.SetProperty("fullscreen", true)
}

// ExitFullscreen asks the window to leave fullscreen
func (m *MPV) ExitFullscreen() error {
	return m.ipc.SetProperty("fullscreen", false)
}

// IsFullscreen reports the last fullscreen state mpv reported
func (m *MPV) IsFullscreen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fullscreen
}
