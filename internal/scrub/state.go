package scrub

// DragState is the state of a pointer drag on the seek track
type DragState int

const (
	// DragNone means no drag is in progress and the media clock drives the current frame
	DragNone DragState = iota
	// DragStart means the pointer was just pressed on the seek track
	DragStart
	// DragMove means the pointer is being dragged along the seek track
	DragMove
)

func (d DragState) String() string {
	switch d {
	case DragStart:
		return "start"
	case DragMove:
		return "move"
	default:
		return "none"
	}
}

// Source identifies which of the two media sources is shown
type Source int

const (
	SourcePrimary Source = iota
	SourceProxy
)

func (s Source) String() string {
	if s == SourceProxy {
		return "proxy"
	}
	return "primary"
}

// visibleSource selects the shown source per drag state.  Seeking the full resolution source on every pointer move
// lags, so the proxy is shown while the pointer moves and the primary catches up underneath.
var visibleSource = [...]Source{
	DragNone:  SourcePrimary,
	DragStart: SourcePrimary,
	DragMove:  SourceProxy,
}

// VisibleSource returns the source to show for a drag state, falling back to the primary when there is no proxy
func VisibleSource(drag DragState, hasProxy bool) Source {
	if !hasProxy || int(drag) < 0 || int(drag) >= len(visibleSource) {
		return SourcePrimary
	}
	return visibleSource[drag]
}

// State is an immutable snapshot of everything a front end renders
type State struct {
	IsPlaying         bool
	CurrentFrame      int
	EndFrame          int
	FPS               float64
	PreloadedFraction float64
	Volume            float64
	Muted             bool
	Fullscreen        bool
	ControlsVisible   bool
	Drag              DragState
	Visible           Source
	HasProxy          bool
	Attached          bool

	// Version increases with every mutation.  Observers drop snapshots older than one already seen.
	Version uint64
}

// TotalFrames returns the number of addressable frames
func (s State) TotalFrames() int {
	return s.EndFrame + 1
}

// Progress returns the played fraction shown on the progress bar
func (s State) Progress() float64 {
	return float64(s.CurrentFrame) / float64(s.TotalFrames())
}

// CursorOffset returns the left edge of the one-frame wide cursor as a fraction of the track, and its width
func (s State) CursorOffset() (offset, width float64) {
	total := float64(s.TotalFrames())
	return float64(s.CurrentFrame) / total, 1 / total
}

// Timecode formats the current frame
func (s State) Timecode() string {
	return Timecode(s.CurrentFrame, s.FPS)
}

// Ended reports whether playback is parked on the last frame
func (s State) Ended() bool {
	return s.CurrentFrame == s.EndFrame
}

// ControlsShown reports whether the controls should be drawn.  Outside fullscreen they always are.
func (s State) ControlsShown() bool {
	return !s.Fullscreen || s.ControlsVisible
}
