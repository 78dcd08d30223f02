package scrub

import "github.com/PizzaHomicide/koma/internal/log"

// PointerType is the kind of device driving a drag
type PointerType string

const (
	PointerMouse PointerType = "mouse"
	PointerTouch PointerType = "touch"
	PointerPen   PointerType = "pen"
)

// Pointer describes a press on the seek track
type Pointer struct {
	// OffsetX is the pointer's distance from the left edge of the track
	OffsetX float64
	// TrackWidth is the width of the track in the same unit as OffsetX
	TrackWidth float64
	Type       PointerType
}

// Key is a keyboard command understood by the controller
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyArrowLeft
	KeyArrowRight
)

// DragStart begins a drag on the seek track.  Playback pauses for the duration of the drag and the frame under the
// pointer is sought immediately, so a plain click seeks too.
func (c *Controller) DragStart(p Pointer) {
	c.update(func() bool {
		if c.primary == nil || !validWidth(p.TrackWidth) || !finite(p.OffsetX) {
			return false
		}

		if c.isPlaying {
			c.wasPlayingBeforeDrag = true
			c.pause()
		} else {
			c.wasPlayingBeforeDrag = false
		}

		c.drag = DragStart
		c.dragOffset = p.OffsetX
		c.applyVisibility()
		if p.Type == PointerTouch {
			c.activity()
		}

		log.Debug("Drag started", "offset", p.OffsetX, "width", p.TrackWidth, "pointer", p.Type,
			"was_playing", c.wasPlayingBeforeDrag)
		c.seek(c.clock.FrameFromPosition(p.OffsetX / p.TrackWidth))
		return true
	})
}

// DragMove follows the pointer.  deltaX is the distance moved since the drag started.
func (c *Controller) DragMove(deltaX, trackWidth float64) {
	c.update(func() bool {
		if c.primary == nil || c.drag == DragNone || !validWidth(trackWidth) || !finite(deltaX) {
			return false
		}

		c.drag = DragMove
		c.applyVisibility()
		c.activity()
		c.seek(c.clock.FrameFromPosition((deltaX + c.dragOffset) / trackWidth))
		return true
	})
}

// DragEnd finishes a drag.  The media is re-sought if it drifted from the dragged frame, and playback resumes when
// it was running before the drag began.
func (c *Controller) DragEnd() {
	c.update(func() bool {
		if c.drag == DragNone {
			return false
		}

		c.drag = DragNone
		if c.primary == nil {
			return true
		}
		c.applyVisibility()

		if c.clock.FrameFromTime(c.primary.CurrentTime()) != c.currentFrame {
			log.Trace("Reconciling media time with dragged frame", "frame", c.currentFrame)
			c.writeTime(c.clock.TimeFromFrame(c.currentFrame))
		}

		log.Debug("Drag ended", "frame", c.currentFrame, "resume", c.wasPlayingBeforeDrag)
		if c.wasPlayingBeforeDrag {
			c.play()
		}
		return true
	})
}

// HandleKey runs a keyboard command and reports whether the key was recognised.  Frame steps work regardless of
// any drag in progress.
func (c *Controller) HandleKey(k Key) bool {
	switch k {
	case KeySpace:
		c.TogglePlay()
	case KeyArrowLeft:
		c.PrevFrame()
	case KeyArrowRight:
		c.NextFrame()
	default:
		return false
	}
	return true
}

func validWidth(w float64) bool {
	return w > 0 && finite(w)
}

// applyVisibility swaps the shown source when the drag state selects a different one
func (c *Controller) applyVisibility() {
	src := VisibleSource(c.drag, c.proxy != nil)
	if src == c.visible {
		return
	}
	c.visible = src
	c.showSources()
}

// showSources pushes the visible source selection to the media.  The incoming source is shown before the outgoing
// one is hidden so there is no blank picture in between.
func (c *Controller) showSources() {
	if c.primary == nil {
		return
	}
	if c.proxy == nil {
		if err := c.primary.SetVisible(true); err != nil {
			log.Debug("Failed to show primary source", "error", err)
		}
		return
	}

	shown, hidden := c.primary, c.proxy
	if c.visible == SourceProxy {
		shown, hidden = c.proxy, c.primary
	}
	if err := shown.SetVisible(true); err != nil {
		log.Debug("Failed to show source", "source", c.visible, "error", err)
	}
	if err := hidden.SetVisible(false); err != nil {
		log.Debug("Failed to hide source", "error", err)
	}
}
