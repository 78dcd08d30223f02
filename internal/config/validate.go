package config

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the values that the scrubber cannot recover from
func (c *Config) Validate() error {
	var problems []string

	if c.Player.Path == "" {
		problems = append(problems, "player path must not be empty")
	}
	if c.Scrub.FPS < 0 || math.IsNaN(c.Scrub.FPS) || math.IsInf(c.Scrub.FPS, 0) {
		problems = append(problems, fmt.Sprintf("fps must be a positive number or 0 for auto, got %v", c.Scrub.FPS))
	}
	if c.Scrub.ControlsHideDelayMs <= 0 {
		problems = append(problems, "controls hide delay must be positive")
	}
	if c.Scrub.Volume < 0 || c.Scrub.Volume > 1 {
		problems = append(problems, fmt.Sprintf("volume must be within [0, 1], got %v", c.Scrub.Volume))
	}
	if c.Scrub.VolumeStep <= 0 || c.Scrub.VolumeStep > 1 {
		problems = append(problems, fmt.Sprintf("volume step must be within (0, 1], got %v", c.Scrub.VolumeStep))
	}
	for _, ext := range c.Library.Extensions {
		if !strings.HasPrefix(ext, ".") {
			problems = append(problems, fmt.Sprintf("extension %q must start with a dot", ext))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
