package scrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullscreen(t *testing.T) {
	t.Run("StateFollowsChangeNotification", func(t *testing.T) {
		c, _, _ := newAttached(false)
		d := &fakeDisplay{}
		c.SetDisplay(d)

		c.ToggleFullscreen()
		assert.Equal(t, []bool{true}, d.requests)
		assert.False(t, c.Snapshot().Fullscreen, "a request alone changes nothing")

		d.fullscreen = true
		c.OnFullscreenChange()
		assert.True(t, c.Snapshot().Fullscreen)

		c.ToggleFullscreen()
		assert.Equal(t, []bool{true, false}, d.requests)

		d.fullscreen = false
		c.OnFullscreenChange()
		assert.False(t, c.Snapshot().Fullscreen)
	})

	t.Run("RefusedRequestLeavesState", func(t *testing.T) {
		c, _, _ := newAttached(false)
		d := &fakeDisplay{refuse: true}
		c.SetDisplay(d)
		before := c.Snapshot()

		c.ToggleFullscreen()

		assert.Equal(t, before, c.Snapshot())
		assert.Len(t, d.requests, 1)
	})

	t.Run("NoDisplay", func(t *testing.T) {
		c, _, _ := newAttached(false)
		c.ToggleFullscreen()
		c.OnFullscreenChange()
		assert.False(t, c.Snapshot().Fullscreen)
	})

	t.Run("ControlsHiddenOnlyInFullscreen", func(t *testing.T) {
		c, _, _ := newAttached(false)
		d := &fakeDisplay{}
		c.SetDisplay(d)
		assert.True(t, c.Snapshot().ControlsShown())

		d.fullscreen = true
		c.OnFullscreenChange()
		assert.False(t, c.Snapshot().ControlsShown())

		c.OnActivity()
		defer c.Close()
		assert.True(t, c.Snapshot().ControlsShown())
	})
}
