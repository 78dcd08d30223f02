package player

import (
	"encoding/json"
	"math"

	"github.com/PizzaHomicide/koma/internal/scrub"
)

// PlaybackEventType represents different types of playback events
type PlaybackEventType string

const (
	// EventLoaded is sent once mpv has opened the file and knows its metadata
	EventLoaded PlaybackEventType = "loaded"
	// EventTimeTick is sent whenever the playback position changes
	EventTimeTick PlaybackEventType = "time_tick"
	// EventDuration is sent when the duration becomes known or changes
	EventDuration PlaybackEventType = "duration"
	// EventProgress is sent when the buffered ranges change or playback resumes after a seek
	EventProgress PlaybackEventType = "progress"
	// EventEnded is sent when playback reaches the end of the file
	EventEnded PlaybackEventType = "ended"
	// EventFullscreen is sent when the window enters or leaves fullscreen
	EventFullscreen PlaybackEventType = "fullscreen"
	// EventFPS is sent when the container frame rate becomes known
	EventFPS PlaybackEventType = "fps"
	// EventShutdown is sent when mpv is about to exit
	EventShutdown PlaybackEventType = "shutdown"
)

// PlaybackEvent represents an event from the player.  Value carries the new value for time, duration and fps events.
type PlaybackEvent struct {
	Type  PlaybackEventType
	Value float64
}

// Observed property ids.  mpv echoes them back in property-change events.
const (
	propTimePos = iota + 1
	propDuration
	propCacheState
	propEOFReached
	propFullscreen
	propContainerFPS
)

var observedProperties = map[int]string{
	propTimePos:      "time-pos",
	propDuration:     "duration",
	propCacheState:   "demuxer-cache-state",
	propEOFReached:   "eof-reached",
	propFullscreen:   "fullscreen",
	propContainerFPS: "container-fps",
}

// cacheState is the subset of mpv's demuxer-cache-state property used for buffering
type cacheState struct {
	SeekableRanges []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"seekable-ranges"`
}

// parseSeekableRanges converts demuxer-cache-state into time ranges.  null or malformed data yields no ranges.
func parseSeekableRanges(data json.RawMessage) []scrub.TimeRange {
	var state cacheState
	if len(data) == 0 || json.Unmarshal(data, &state) != nil {
		return nil
	}
	ranges := make([]scrub.TimeRange, 0, len(state.SeekableRanges))
	for _, r := range state.SeekableRanges {
		ranges = append(ranges, scrub.TimeRange{Start: r.Start, End: r.End})
	}
	return ranges
}

// parseFloat decodes a numeric property value.  mpv sends null for properties that are not available.
func parseFloat(data json.RawMessage) (float64, bool) {
	var value *float64
	if err := json.Unmarshal(data, &value); err != nil || value == nil {
		return 0, false
	}
	return *value, true
}

func parseBool(data json.RawMessage) bool {
	var value bool
	_ = json.Unmarshal(data, &value)
	return value
}

// handleMessage updates the property cache from an mpv event and translates it into a playback event.  The boolean
// result is false for events that are not forwarded.
func (m *MPV) handleMessage(msg ipcMessage) (PlaybackEvent, bool) {
	switch msg.Event {
	case "file-loaded":
		return PlaybackEvent{Type: EventLoaded}, true
	case "playback-restart":
		return PlaybackEvent{Type: EventProgress}, true
	case "shutdown":
		return PlaybackEvent{Type: EventShutdown}, true
	case "property-change":
	default:
		m.log.Trace("Ignoring mpv event", "event", msg.Event)
		return PlaybackEvent{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg.ID {
	case propTimePos:
		t, ok := parseFloat(msg.Data)
		if !ok {
			return PlaybackEvent{}, false
		}
		m.timePos = t
		return PlaybackEvent{Type: EventTimeTick, Value: t}, true
	case propDuration:
		d, ok := parseFloat(msg.Data)
		if !ok {
			d = math.NaN()
		}
		m.duration = d
		return PlaybackEvent{Type: EventDuration, Value: d}, true
	case propCacheState:
		m.buffered = parseSeekableRanges(msg.Data)
		return PlaybackEvent{Type: EventProgress}, true
	case propEOFReached:
		eof := parseBool(msg.Data)
		wasEOF := m.eof
		m.eof = eof
		if !eof || wasEOF {
			return PlaybackEvent{}, false
		}
		return PlaybackEvent{Type: EventEnded}, true
	case propFullscreen:
		m.fullscreen = parseBool(msg.Data)
		return PlaybackEvent{Type: EventFullscreen}, true
	case propContainerFPS:
		fps, ok := parseFloat(msg.Data)
		if !ok || fps <= 0 {
			return PlaybackEvent{}, false
		}
		return PlaybackEvent{Type: EventFPS, Value: fps}, true
	}

	m.log.Trace("Ignoring unobserved property", "id", msg.ID, "name", msg.Name)
	return PlaybackEvent{}, false
}
