package scrub

import "math"

// frameEpsilon absorbs float error when turning a time back into a frame, so that a frame written as
// frame/fps reads back as the same frame for rates like 29.97.
const frameEpsilon = 1e-6

// FrameClock converts between media time in seconds and discrete frame indexes at a fixed frame rate
type FrameClock struct {
	FPS      float64
	EndFrame int
}

func validFPS(fps float64) bool {
	return fps > 0 && !math.IsInf(fps, 0) && !math.IsNaN(fps)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Clamp constrains a frame into [0, EndFrame]
func (c FrameClock) Clamp(frame int) int {
	if frame < 0 {
		return 0
	}
	if frame > c.EndFrame {
		return c.EndFrame
	}
	return frame
}

// FrameFromTime returns floor(t * fps) clamped into [0, EndFrame]
func (c FrameClock) FrameFromTime(t float64) int {
	if !validFPS(c.FPS) || !finite(t) {
		return 0
	}
	return c.Clamp(int(math.Floor(t*c.FPS + frameEpsilon)))
}

// TimeFromFrame returns the media time in seconds at which the frame starts
func (c FrameClock) TimeFromFrame(frame int) float64 {
	if !validFPS(c.FPS) {
		return 0
	}
	return float64(frame) / c.FPS
}

// FrameFromPosition maps a relative position along the seek track onto a frame
func (c FrameClock) FrameFromPosition(pos float64) int {
	if !finite(pos) {
		return 0
	}
	pos = math.Max(0, math.Min(1, pos))
	totalFrames := float64(c.EndFrame + 1)
	return c.Clamp(int(math.Floor(pos * totalFrames)))
}

// RecomputeEndFrame derives the last frame index from a media duration.  Unknown durations leave the end frame
// untouched.  Reports whether the end frame changed.
func (c *FrameClock) RecomputeEndFrame(duration float64) bool {
	if !finite(duration) || duration < 0 || !validFPS(c.FPS) {
		return false
	}
	endFrame := int(math.Floor(duration*c.FPS)) - 1
	if endFrame < 0 {
		endFrame = 0
	}
	if endFrame == c.EndFrame {
		return false
	}
	c.EndFrame = endFrame
	return true
}
