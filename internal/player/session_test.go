package player

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizzaHomicide/koma/internal/config"
	"github.com/PizzaHomicide/koma/internal/scrub"
)

type recordingController struct {
	calls []string
	fps   float64
}

func (r *recordingController) Attach(scrub.Media, scrub.Media) { r.calls = append(r.calls, "attach") }
func (r *recordingController) Detach() { r.calls = append(r.calls, "detach") }
func (r *recordingController) SetDisplay(scrub.Display) { r.calls = append(r.calls, "display") }
func (r *recordingController) Play() { r.calls = append(r.calls, "play") }
func (r *recordingController) OnTimeTick() { r.calls = append(r.calls, "tick") }
func (r *recordingController) OnEnded() { r.calls = append(r.calls, "ended") }
func (r *recordingController) OnLoadedMetadata() { r.calls = append(r.calls, "loaded") }
func (r *recordingController) OnDurationChange() { r.calls = append(r.calls, "duration") }
func (r *recordingController) OnProgress() { r.calls = append(r.calls, "progress") }
func (r *recordingController) OnFullscreenChange() { r.calls = append(r.calls, "fullscreen") }
func (r *recordingController) SetFPS(fps float64) {
	r.calls = append(r.calls, "fps")
	r.fps = fps
}

func TestSessionDispatch(t *testing.T) {
	t.Run("EventsMapToHandlers", func(t *testing.T) {
		ctrl := &recordingController{}
		s := &Session{ctrl: ctrl}

		for _, ev := range []PlaybackEvent{
			{Type: EventLoaded},
			{Type: EventDuration, Value: 10},
			{Type: EventTimeTick, Value: 1},
			{Type: EventProgress},
			{Type: EventFullscreen},
			{Type: EventEnded},
			{Type: EventShutdown},
		} {
			s.dispatch(ev)
		}

		assert.Equal(t, []string{"loaded", "duration", "tick", "progress", "fullscreen", "ended"}, ctrl.calls)
	})

	t.Run("AutoplayAfterLoad", func(t *testing.T) {
		ctrl := &recordingController{}
		s := &Session{ctrl: ctrl, autoplay: true}
		s.dispatch(PlaybackEvent{Type: EventLoaded})
		assert.Equal(t, []string{"loaded", "play"}, ctrl.calls)
	})

	t.Run("ContainerFPSUnlessConfigured", func(t *testing.T) {
		ctrl := &recordingController{}
		s := &Session{ctrl: ctrl}
		s.dispatch(PlaybackEvent{Type: EventFPS, Value: 24})
		assert.Equal(t, 24.0, ctrl.fps)

		fixed := &recordingController{}
		s = &Session{ctrl: fixed, fixedFPS: true}
		s.dispatch(PlaybackEvent{Type: EventFPS, Value: 24})
		assert.Empty(t, fixed.calls)
	})
}

func TestOpenRejectsInvalidArgs(t *testing.T) {
	cfg := &config.Config{Player: config.PlayerConfig{Path: "mpv", Args: `--title="unterminated`}}
	ctrl := &recordingController{}

	s, err := Open(context.Background(), cfg, "clip.mp4", "", ctrl)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "invalid mpv arguments")
}
