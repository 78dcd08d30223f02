package scrub

import (
	"errors"
	"sync"
)

var errRefused = errors.New("refused")

// fakeMedia records every mutation and behaves like a paused media element
type fakeMedia struct {
	mu sync.Mutex

	playing  bool
	time     float64
	duration float64
	buffered []TimeRange
	volume   float64
	muted    bool
	visible  bool

	playErr  error
	pauseErr error

	pauseCalls int
	seeks      []float64
	visibility []bool
}

func newFakeMedia(duration float64) *fakeMedia {
	return &fakeMedia{duration: duration, volume: 1}
}

func (m *fakeMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *fakeMedia) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.playing = false
	return nil
}

func (m *fakeMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.time
}

func (m *fakeMedia) SetCurrentTime(t float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.time = t
	m.seeks = append(m.seeks, t)
	return nil
}

func (m *fakeMedia) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *fakeMedia) Buffered() []TimeRange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffered
}

func (m *fakeMedia) SetVolume(v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	return nil
}

func (m *fakeMedia) SetMuted(muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	return nil
}

func (m *fakeMedia) SetVisible(visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = visible
	m.visibility = append(m.visibility, visible)
	return nil
}

// setTime moves the media clock without recording a seek, as playback does
func (m *fakeMedia) setTime(t float64) {
	m.mu.Lock()
	m.time = t
	m.mu.Unlock()
}

func (m *fakeMedia) isPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *fakeMedia) isVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

func (m *fakeMedia) seekCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seeks)
}

// fakeDisplay only changes state when the test delivers the change, like a real environment
type fakeDisplay struct {
	fullscreen bool
	refuse     bool
	requests   []bool
}

func (d *fakeDisplay) RequestFullscreen() error {
	d.requests = append(d.requests, true)
	if d.refuse {
		return errRefused
	}
	return nil
}

func (d *fakeDisplay) ExitFullscreen() error {
	d.requests = append(d.requests, false)
	if d.refuse {
		return errRefused
	}
	return nil
}

func (d *fakeDisplay) IsFullscreen() bool {
	return d.fullscreen
}

// newAttached returns a controller at 25 fps attached to a 10 second primary and an optional proxy
func newAttached(withProxy bool) (*Controller, *fakeMedia, *fakeMedia) {
	c := NewController(Options{FPS: 25})
	primary := newFakeMedia(10)
	if !withProxy {
		c.Attach(primary, nil)
		return c, primary, nil
	}
	proxy := newFakeMedia(10)
	c.Attach(primary, proxy)
	return c, primary, proxy
}
