package models

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PizzaHomicide/koma/internal/library"
	"github.com/PizzaHomicide/koma/internal/log"
	"github.com/PizzaHomicide/koma/internal/scrub"
	"github.com/PizzaHomicide/koma/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/koma/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/koma/internal/ui/tui/styles"
	"github.com/PizzaHomicide/koma/internal/ui/tui/util"
)

// barMargin is the number of cells left free on either side of the seek track
const barMargin = 2

// ScrubModel renders the controller state and turns keys and mouse input into controller commands
type ScrubModel struct {
	width, height int
	ctrl          *scrub.Controller
	state         scrub.State
	item          library.Item
	volumeStep    float64

	// Drag on the seek track in terminal cells
	dragging   bool
	dragStartX int
}

// NewScrubModel creates the scrub view for a controller
func NewScrubModel(ctrl *scrub.Controller, volumeStep float64) *ScrubModel {
	if volumeStep <= 0 {
		volumeStep = 0.05
	}
	return &ScrubModel{
		ctrl:       ctrl,
		state:      ctrl.Snapshot(),
		volumeStep: volumeStep,
	}
}

func (m *ScrubModel) ViewType() View {
	return ViewScrub
}

// SetItem records the media being scrubbed
func (m *ScrubModel) SetItem(item library.Item) {
	m.item = item
	m.dragging = false
}

// SetState replaces the rendered snapshot
func (m *ScrubModel) SetState(s scrub.State) {
	m.state = s
}

func (m *ScrubModel) Init() tea.Cmd {
	return nil
}

func (m *ScrubModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.ctrl.OnActivity()
		return m, m.handleKeyMsg(msg)
	case tea.MouseMsg:
		m.ctrl.OnActivity()
		m.handleMouseMsg(msg)
	}
	return m, nil
}

func (m *ScrubModel) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextScrub) {
	case kb.ActionTogglePlay:
		m.ctrl.HandleKey(scrub.KeySpace)
	case kb.ActionPrevFrame:
		m.ctrl.HandleKey(scrub.KeyArrowLeft)
	case kb.ActionNextFrame:
		m.ctrl.HandleKey(scrub.KeyArrowRight)
	case kb.ActionSeekBackSecond:
		s := m.ctrl.Snapshot()
		m.ctrl.Seek(s.CurrentFrame - framesPerSecond(s.FPS))
	case kb.ActionSeekFwdSecond:
		s := m.ctrl.Snapshot()
		m.ctrl.Seek(s.CurrentFrame + framesPerSecond(s.FPS))
	case kb.ActionRewind:
		m.ctrl.Stop()
	case kb.ActionSeekEnd:
		m.ctrl.Seek(m.ctrl.Snapshot().EndFrame)
	case kb.ActionToggleMute:
		m.ctrl.ToggleMute()
	case kb.ActionVolumeUp:
		m.ctrl.SetVolume(m.ctrl.Snapshot().Volume + m.volumeStep)
	case kb.ActionVolumeDown:
		m.ctrl.SetVolume(m.ctrl.Snapshot().Volume - m.volumeStep)
	case kb.ActionToggleFullscreen:
		m.ctrl.ToggleFullscreen()
	case kb.ActionCloseMedia:
		return func() tea.Msg { return CloseMediaMsg{} }
	case kb.ActionQuit:
		log.Info("Quit command received.  Shutting down...")
		return tea.Quit
	}
	return nil
}

func (m *ScrubModel) handleMouseMsg(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.onTrack(msg.X, msg.Y) {
				m.dragging = true
				m.dragStartX = msg.X
				m.ctrl.DragStart(scrub.Pointer{
					OffsetX:    float64(msg.X - barMargin),
					TrackWidth: float64(m.trackWidth()),
					Type:       scrub.PointerMouse,
				})
				return
			}
			if m.onPicture(msg.Y) {
				m.ctrl.TogglePlay()
			}
		case tea.MouseButtonWheelUp:
			m.ctrl.SetVolume(m.ctrl.Snapshot().Volume + m.volumeStep)
		case tea.MouseButtonWheelDown:
			m.ctrl.SetVolume(m.ctrl.Snapshot().Volume - m.volumeStep)
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.ctrl.DragMove(float64(msg.X-m.dragStartX), float64(m.trackWidth()))
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.ctrl.DragEnd()
		}
	}
}

// Layout, top to bottom: header, picture area, then when the controls are shown the seek track, status line and
// key bar.
func (m *ScrubModel) controlsShown() bool {
	return m.state.ControlsShown()
}

func (m *ScrubModel) pictureHeight() int {
	h := m.height - 1
	if m.controlsShown() {
		h -= 3
	}
	return max(1, h)
}

func (m *ScrubModel) trackRow() int {
	return 1 + m.pictureHeight()
}

func (m *ScrubModel) trackWidth() int {
	return max(0, m.width-2*barMargin)
}

func (m *ScrubModel) onTrack(x, y int) bool {
	return m.controlsShown() && y == m.trackRow() && x >= barMargin && x < barMargin+m.trackWidth()
}

func (m *ScrubModel) onPicture(y int) bool {
	return y >= 1 && y <= m.pictureHeight()
}

func (m *ScrubModel) View() string {
	title := "koma"
	if m.item.Name != "" {
		title = "koma - " + util.TruncateString(filepath.Base(m.item.Name), max(10, m.width-10))
	}
	rows := []string{
		styles.Header(m.width, title),
		styles.CenteredView(m.width, m.pictureHeight(), m.renderPicture()),
	}

	if m.controlsShown() {
		offset, width := m.state.CursorOffset()
		track := components.ProgressBar(m.trackWidth(), m.state.PreloadedFraction, m.state.Progress(), offset, width)
		margin := strings.Repeat(" ", barMargin)
		rows = append(rows,
			margin+track+margin,
			m.renderStatusLine(),
			components.KeyBindingsBar(m.width, kb.ContextScrub,
				kb.ActionTogglePlay, kb.ActionPrevFrame, kb.ActionNextFrame, kb.ActionToggleMute,
				kb.ActionToggleFullscreen, kb.ActionQuit),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *ScrubModel) renderPicture() string {
	if !m.state.Attached {
		return styles.Muted.Render("No media attached")
	}

	status := "⏸ Paused"
	switch {
	case m.state.Drag != scrub.DragNone:
		status = "⇔ Scrubbing"
	case m.state.IsPlaying:
		status = "▶ Playing"
	case m.state.Ended():
		status = "■ Ended"
	}

	lines := []string{
		styles.Timecode.Render(m.state.Timecode()),
		styles.Info.Render(status),
	}
	if m.state.Visible == scrub.SourceProxy {
		lines = append(lines, styles.ProxyBadge.Render("PROXY"))
	}
	if m.item.HasProxy() {
		lines = append(lines, styles.Muted.Render("proxy: "+filepath.Base(m.item.Proxy)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *ScrubModel) renderStatusLine() string {
	icon := "⏸"
	if m.state.IsPlaying {
		icon = "▶"
	}

	timecode := fmt.Sprintf("%s %s / %d", icon, styles.Timecode.Render(m.state.Timecode()), m.state.CurrentFrame)
	fps := styles.Muted.Render(fmt.Sprintf("%d frames @ %.5g fps", m.state.TotalFrames(), m.state.FPS))

	volumeLabel := fmt.Sprintf("%3.0f%%", m.state.Volume*100)
	if m.state.Muted {
		volumeLabel = "mute"
	}
	volume := "vol " + components.VolumeBar(10, m.state.Volume, m.state.Muted) + " " + volumeLabel

	right := volume
	if m.state.Fullscreen {
		right += "  " + styles.Info.Render("[fullscreen]")
	}

	left := strings.Repeat(" ", barMargin) + timecode + "  " + fps
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-barMargin)
	return left + strings.Repeat(" ", gap) + right
}

func (m *ScrubModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// framesPerSecond returns the whole number of frames in one second of media
func framesPerSecond(fps float64) int {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 1
	}
	return max(1, int(math.Round(fps)))
}
