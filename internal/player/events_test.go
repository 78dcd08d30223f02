package player

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizzaHomicide/koma/internal/scrub"
)

func propertyChange(id int, name, data string) ipcMessage {
	return ipcMessage{Event: "property-change", ID: id, Name: name, Data: json.RawMessage(data)}
}

func TestHandleMessage(t *testing.T) {
	t.Run("DurationUnknownUntilReported", func(t *testing.T) {
		m := NewMPV(Options{})
		assert.True(t, math.IsNaN(m.Duration()))

		ev, ok := m.handleMessage(propertyChange(propDuration, "duration", "10.0"))
		require.True(t, ok)
		assert.Equal(t, EventDuration, ev.Type)
		assert.Equal(t, 10.0, m.Duration())

		_, ok = m.handleMessage(propertyChange(propDuration, "duration", "null"))
		require.True(t, ok)
		assert.True(t, math.IsNaN(m.Duration()))
	})

	t.Run("TimePosUpdatesCache", func(t *testing.T) {
		m := NewMPV(Options{})
		ev, ok := m.handleMessage(propertyChange(propTimePos, "time-pos", "5.25"))
		require.True(t, ok)
		assert.Equal(t, PlaybackEvent{Type: EventTimeTick, Value: 5.25}, ev)
		assert.Equal(t, 5.25, m.CurrentTime())
	})

	t.Run("NullTimePosIgnored", func(t *testing.T) {
		m := NewMPV(Options{})
		_, ok := m.handleMessage(propertyChange(propTimePos, "time-pos", "null"))
		assert.False(t, ok)
	})

	t.Run("CacheStateBecomesBufferedRanges", func(t *testing.T) {
		m := NewMPV(Options{})
		data := `{"seekable-ranges":[{"start":0,"end":4.5},{"start":6,"end":8}],"cache-end":8}`
		ev, ok := m.handleMessage(propertyChange(propCacheState, "demuxer-cache-state", data))
		require.True(t, ok)
		assert.Equal(t, EventProgress, ev.Type)
		assert.Equal(t, []scrub.TimeRange{{Start: 0, End: 4.5}, {Start: 6, End: 8}}, m.Buffered())
	})

	t.Run("EndedOnlyOnRisingEdge", func(t *testing.T) {
		m := NewMPV(Options{})
		_, ok := m.handleMessage(propertyChange(propEOFReached, "eof-reached", "false"))
		assert.False(t, ok)

		ev, ok := m.handleMessage(propertyChange(propEOFReached, "eof-reached", "true"))
		require.True(t, ok)
		assert.Equal(t, EventEnded, ev.Type)

		_, ok = m.handleMessage(propertyChange(propEOFReached, "eof-reached", "true"))
		assert.False(t, ok)
	})

	t.Run("FullscreenCached", func(t *testing.T) {
		m := NewMPV(Options{})
		ev, ok := m.handleMessage(propertyChange(propFullscreen, "fullscreen", "true"))
		require.True(t, ok)
		assert.Equal(t, EventFullscreen, ev.Type)
		assert.True(t, m.IsFullscreen())
	})

	t.Run("ContainerFPS", func(t *testing.T) {
		m := NewMPV(Options{})
		ev, ok := m.handleMessage(propertyChange(propContainerFPS, "container-fps", "23.976"))
		require.True(t, ok)
		assert.Equal(t, PlaybackEvent{Type: EventFPS, Value: 23.976}, ev)

		_, ok = m.handleMessage(propertyChange(propContainerFPS, "container-fps", "0"))
		assert.False(t, ok)
	})

	t.Run("PlainEvents", func(t *testing.T) {
		m := NewMPV(Options{})
		for event, want := range map[string]PlaybackEventType{
			"file-loaded":      EventLoaded,
			"playback-restart": EventProgress,
			"shutdown":         EventShutdown,
		} {
			ev, ok := m.handleMessage(ipcMessage{Event: event})
			require.True(t, ok, event)
			assert.Equal(t, want, ev.Type, event)
		}

		_, ok := m.handleMessage(ipcMessage{Event: "audio-reconfig"})
		assert.False(t, ok)
	})
}

func TestParseSeekableRanges(t *testing.T) {
	assert.Empty(t, parseSeekableRanges(nil))
	assert.Empty(t, parseSeekableRanges(json.RawMessage("null")))
	assert.Empty(t, parseSeekableRanges(json.RawMessage("not json")))
	assert.Empty(t, parseSeekableRanges(json.RawMessage(`{"seekable-ranges":[]}`)))
}

func TestBuildArgs(t *testing.T) {
	m := NewMPV(Options{Args: []string{"--aid=no"}, Role: "proxy"})
	args := m.buildArgs("clip_proxy.mp4")

	assert.Contains(t, args, "--pause")
	assert.Contains(t, args, "--keep-open=yes")
	assert.Contains(t, args, "--input-ipc-server="+m.socketPath)
	assert.Equal(t, []string{"--aid=no", "--", "clip_proxy.mp4"}, args[len(args)-3:])
}

func TestCommandsWithoutConnection(t *testing.T) {
	m := NewMPV(Options{})
	assert.ErrorIs(t, m.Play(), ErrNotConnected)
	assert.ErrorIs(t, m.SetCurrentTime(2), ErrNotConnected)
	assert.Equal(t, 0.0, m.CurrentTime(), "a failed seek leaves the cached time alone")
	assert.NoError(t, m.Close())
}
