package scrub

// Media is the playback capability the controller drives.  Implementations wrap a real player such as mpv.  Getters
// must not block on the controller, as they are called while the controller holds its lock.
type Media interface {
	// Play resumes playback.  An error means the player refused, e.g. due to an autoplay policy
	Play() error
	// Pause halts playback
	Pause() error
	// CurrentTime returns the current playback time in seconds
	CurrentTime() float64
	// SetCurrentTime seeks to the given time in seconds
	SetCurrentTime(t float64) error
	// Duration returns the media duration in seconds, or NaN when not yet known
	Duration() float64
	// Buffered returns the buffered time ranges in ascending order
	Buffered() []TimeRange
	// SetVolume sets the output volume in [0, 1]
	SetVolume(v float64) error
	// SetMuted mutes or unmutes audio output without touching the volume
	SetMuted(muted bool) error
	// SetVisible shows or hides the source's picture
	SetVisible(visible bool) error
}

// Display is the fullscreen capability of the environment the player is shown in
type Display interface {
	// RequestFullscreen asks the environment to enter fullscreen.  Success is only known from a later change notification
	RequestFullscreen() error
	// ExitFullscreen asks the environment to leave fullscreen
	ExitFullscreen() error
	// IsFullscreen reports whether the player currently is the fullscreen element
	IsFullscreen() bool
}
