package scrub

import "github.com/PizzaHomicide/koma/internal/log"

// ToggleFullscreen asks the display to enter or leave fullscreen.  The fullscreen flag is not touched here; it only
// follows OnFullscreenChange, so a rejected request leaves everything as it was.
func (c *Controller) ToggleFullscreen() {
	c.mu.Lock()
	display, fullscreen := c.display, c.fullscreen
	c.mu.Unlock()

	if display == nil {
		return
	}

	var err error
	if fullscreen {
		err = display.ExitFullscreen()
	} else {
		err = display.RequestFullscreen()
	}
	if err != nil {
		log.Debug("Fullscreen request rejected", "exit", fullscreen, "error", err)
	}
}

// OnFullscreenChange mirrors the display's fullscreen state
func (c *Controller) OnFullscreenChange() {
	c.update(func() bool {
		if c.display == nil {
			return false
		}
		fullscreen := c.display.IsFullscreen()
		if fullscreen == c.fullscreen {
			return false
		}
		c.fullscreen = fullscreen
		log.Debug("Fullscreen changed", "fullscreen", fullscreen)
		return true
	})
}
