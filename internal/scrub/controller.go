package scrub

import (
	"math"
	"sync"
	"time"

	"github.com/PizzaHomicide/koma/internal/log"
)

// Options configures a Controller
type Options struct {
	// FPS is the frame rate used to address frames.  Must be positive.
	FPS float64
	// ControlsHideDelay is the quiet period before the controls hide.  Defaults to DefaultControlsHideDelay.
	ControlsHideDelay time.Duration
	// Volume is the initial volume in [0, 1].  Defaults to 1 when zero.
	Volume float64
}

// Controller is the single source of truth for one opened media.  It coordinates playback across a primary and an
// optional proxy source, runs the drag-seek state machine and mirrors buffering, fullscreen and controls visibility.
//
// Events may arrive from several goroutines (player event pumps, the UI loop, the controls timer).  Each handler runs
// to completion under one lock, so the drag state alone decides whether the pointer or the media clock writes the
// current frame.  Observers are notified outside the lock.
type Controller struct {
	mu sync.Mutex

	primary Media
	proxy   Media
	display Display

	clock  FrameClock
	buffer BufferTracker

	isPlaying       bool
	currentFrame    int
	volume          float64
	savedVolume     float64
	muted           bool
	fullscreen      bool
	controlsVisible bool
	visible         Source

	drag                 DragState
	dragOffset           float64
	wasPlayingBeforeDrag bool

	version      uint64
	hideControls *Debouncer
	observers    map[int]func(State)
	nextObserver int
}

// NewController creates a controller with no media attached
func NewController(opts Options) *Controller {
	if opts.ControlsHideDelay <= 0 {
		opts.ControlsHideDelay = DefaultControlsHideDelay
	}
	if opts.Volume <= 0 || opts.Volume > 1 || math.IsNaN(opts.Volume) {
		opts.Volume = 1
	}

	c := &Controller{
		clock:       FrameClock{FPS: opts.FPS},
		volume:      opts.Volume,
		savedVolume: opts.Volume,
		observers:   make(map[int]func(State)),
	}
	c.hideControls = NewDebouncer(opts.ControlsHideDelay, c.onControlsQuiet)
	return c
}

// Attach mounts the media sources.  proxy may be nil.  The playback state is reset to the first frame.
func (c *Controller) Attach(primary, proxy Media) {
	c.update(func() bool {
		c.primary = primary
		c.proxy = proxy
		c.isPlaying = false
		c.currentFrame = 0
		c.drag = DragNone
		c.clock.EndFrame = 0
		c.buffer.Reset()
		if primary == nil {
			return true
		}

		c.clock.RecomputeEndFrame(primary.Duration())
		if err := primary.SetVolume(c.volume); err != nil {
			log.Debug("Failed to apply initial volume", "error", err)
		}
		if err := primary.SetMuted(c.muted); err != nil {
			log.Debug("Failed to apply initial mute state", "error", err)
		}
		c.visible = VisibleSource(DragNone, proxy != nil)
		c.showSources()

		log.Info("Media attached", "has_proxy", proxy != nil, "fps", c.clock.FPS, "end_frame", c.clock.EndFrame)
		return true
	})
}

// Detach unmounts the media sources.  Subsequent media operations are no-ops until Attach is called again.
func (c *Controller) Detach() {
	c.update(func() bool {
		if c.primary == nil {
			return false
		}
		c.primary = nil
		c.proxy = nil
		c.isPlaying = false
		c.drag = DragNone
		return true
	})
}

// SetDisplay sets the fullscreen capability.  nil disables fullscreen.
func (c *Controller) SetDisplay(d Display) {
	c.mu.Lock()
	c.display = d
	c.mu.Unlock()
}

// Close stops the controls timer and detaches the media
func (c *Controller) Close() {
	c.hideControls.Cancel()
	c.Detach()
}

// Snapshot returns the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers an observer called with a fresh snapshot after every state change.  The returned function
// removes the observer.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// update runs fn under the lock and, when it reports a change, notifies observers once the lock is released
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	if !fn() {
		c.mu.Unlock()
		return
	}
	c.version++
	snap := c.snapshotLocked()
	observers := make([]func(State), 0, len(c.observers))
	for _, o := range c.observers {
		observers = append(observers, o)
	}
	c.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

func (c *Controller) snapshotLocked() State {
	return State{
		IsPlaying:         c.isPlaying,
		CurrentFrame:      c.currentFrame,
		EndFrame:          c.clock.EndFrame,
		FPS:               c.clock.FPS,
		PreloadedFraction: c.buffer.Fraction(),
		Volume:            c.volume,
		Muted:             c.muted,
		Fullscreen:        c.fullscreen,
		ControlsVisible:   c.controlsVisible,
		Drag:              c.drag,
		Visible:           c.visible,
		HasProxy:          c.proxy != nil,
		Attached:          c.primary != nil,
		Version:           c.version,
	}
}

// Play starts playback, rewinding first when parked on the last frame
func (c *Controller) Play() {
	c.update(c.play)
}

// Pause halts playback
func (c *Controller) Pause() {
	c.update(c.pause)
}

// Stop rewinds to the first frame without changing the play state
func (c *Controller) Stop() {
	c.update(c.stop)
}

// TogglePlay pauses when playing and plays otherwise
func (c *Controller) TogglePlay() {
	c.update(c.togglePlay)
}

// Seek moves to a frame, clamped into [0, EndFrame]
func (c *Controller) Seek(frame int) {
	c.update(func() bool { return c.seek(frame) })
}

// NextFrame steps one frame forward
func (c *Controller) NextFrame() {
	c.update(func() bool { return c.seek(c.currentFrame + 1) })
}

// PrevFrame steps one frame back
func (c *Controller) PrevFrame() {
	c.update(func() bool { return c.seek(c.currentFrame - 1) })
}

func (c *Controller) play() bool {
	if c.primary == nil {
		return false
	}

	changed := false
	if c.currentFrame == c.clock.EndFrame {
		changed = c.stop()
	}

	if err := c.primary.Play(); err != nil {
		log.Debug("Media refused to play", "error", err)
		return changed
	}
	c.isPlaying = true
	return true
}

func (c *Controller) pause() bool {
	if c.primary == nil {
		return false
	}
	if err := c.primary.Pause(); err != nil {
		log.Debug("Media refused to pause", "error", err)
		return false
	}
	wasPlaying := c.isPlaying
	c.isPlaying = false
	return wasPlaying
}

func (c *Controller) stop() bool {
	if c.primary == nil {
		return false
	}
	c.currentFrame = 0
	c.writeTime(0)
	return true
}

func (c *Controller) togglePlay() bool {
	if c.isPlaying {
		return c.pause()
	}
	return c.play()
}

func (c *Controller) seek(frame int) bool {
	if c.primary == nil {
		return false
	}
	frame = c.clock.Clamp(frame)
	c.currentFrame = frame
	c.writeTime(c.clock.TimeFromFrame(frame))
	log.Trace("Seek", "frame", frame, "drag", c.drag)
	return true
}

// writeTime sets the time on the primary and keeps the proxy in step
func (c *Controller) writeTime(t float64) {
	if err := c.primary.SetCurrentTime(t); err != nil {
		log.Debug("Failed to seek primary source", "time", t, "error", err)
	}
	if c.proxy == nil {
		return
	}
	if err := c.proxy.SetCurrentTime(t); err != nil {
		log.Debug("Failed to seek proxy source", "time", t, "error", err)
	}
}

// OnTimeTick follows the media clock.  While a drag is in progress the pointer owns the current frame and ticks
// are ignored.
func (c *Controller) OnTimeTick() {
	c.update(func() bool {
		if c.primary == nil || c.drag != DragNone {
			return false
		}
		frame := c.clock.FrameFromTime(c.primary.CurrentTime())
		if frame == c.currentFrame {
			return false
		}
		c.currentFrame = frame
		return true
	})
}

// OnEnded records that the media stopped by itself on its last frame
func (c *Controller) OnEnded() {
	c.update(func() bool {
		if c.primary == nil {
			return false
		}
		c.isPlaying = false
		if c.drag == DragNone {
			c.currentFrame = c.clock.EndFrame
		}
		return true
	})
}

// OnLoadedMetadata handles the media's metadata becoming available
func (c *Controller) OnLoadedMetadata() {
	c.OnDurationChange()
}

// OnDurationChange recomputes the end frame from the media duration
func (c *Controller) OnDurationChange() {
	c.update(func() bool {
		if c.primary == nil {
			return false
		}
		if !c.clock.RecomputeEndFrame(c.primary.Duration()) {
			return false
		}
		c.currentFrame = c.clock.Clamp(c.currentFrame)
		log.Debug("End frame recomputed", "end_frame", c.clock.EndFrame)
		return true
	})
}

// OnProgress recomputes the preload fraction from the primary's buffered ranges
func (c *Controller) OnProgress() {
	c.update(func() bool {
		if c.primary == nil {
			return false
		}
		return c.buffer.Update(c.primary.Buffered(), c.primary.CurrentTime(), c.primary.Duration())
	})
}

// SetFPS changes the frame rate.  The end frame and current frame are derived again from the media.
func (c *Controller) SetFPS(fps float64) {
	c.update(func() bool {
		if !validFPS(fps) || fps == c.clock.FPS {
			return false
		}
		c.clock.FPS = fps
		if c.primary == nil {
			return true
		}
		c.clock.RecomputeEndFrame(c.primary.Duration())
		c.currentFrame = c.clock.FrameFromTime(c.primary.CurrentTime())
		return true
	})
}

// SetVolume sets the volume, clamped into [0, 1].  A zero volume counts as muted.
func (c *Controller) SetVolume(v float64) {
	c.update(func() bool {
		if c.primary == nil || math.IsNaN(v) {
			return false
		}
		v = math.Max(0, math.Min(1, v))
		muted := v == 0
		if err := c.primary.SetVolume(v); err != nil {
			log.Debug("Failed to set volume", "volume", v, "error", err)
			return false
		}
		if err := c.primary.SetMuted(muted); err != nil {
			log.Debug("Failed to set mute state", "muted", muted, "error", err)
		}
		c.volume = v
		c.savedVolume = v
		c.muted = muted
		return true
	})
}

// ToggleMute mutes while remembering the volume, or unmutes restoring it.  A remembered volume of zero restores to 1.
func (c *Controller) ToggleMute() {
	c.update(func() bool {
		if c.primary == nil {
			return false
		}

		if !c.muted {
			if err := c.primary.SetMuted(true); err != nil {
				log.Debug("Failed to mute", "error", err)
				return false
			}
			c.savedVolume = c.volume
			c.volume = 0
			c.muted = true
			return true
		}

		v := c.savedVolume
		if v == 0 {
			v = 1
		}
		if err := c.primary.SetVolume(v); err != nil {
			log.Debug("Failed to restore volume", "volume", v, "error", err)
			return false
		}
		if err := c.primary.SetMuted(false); err != nil {
			log.Debug("Failed to unmute", "error", err)
		}
		c.volume = v
		c.muted = false
		return true
	})
}

// OnActivity marks the controls visible and restarts the auto-hide countdown
func (c *Controller) OnActivity() {
	c.update(c.activity)
}

func (c *Controller) activity() bool {
	c.hideControls.Trigger()
	if c.controlsVisible {
		return false
	}
	c.controlsVisible = true
	return true
}

// onControlsQuiet hides the controls unless activity arrived after the expired countdown was scheduled
func (c *Controller) onControlsQuiet(gen uint64) {
	c.update(func() bool {
		if !c.controlsVisible || !c.hideControls.Current(gen) {
			return false
		}
		c.controlsVisible = false
		return true
	})
}
