package scrub

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimecode(t *testing.T) {
	tests := []struct {
		name  string
		frame int
		fps   float64
		want  string
	}{
		{"Zero", 0, 25, "00:00:00:00"},
		{"FrameWithinSecond", 130, 25, "00:00:05:05"},
		{"Minutes", 25 * 61, 25, "00:01:01:00"},
		{"Hours", 90000, 25, "01:00:00:00"},
		{"SixMinutesIsNotAnHour", 25 * 360, 25, "00:06:00:00"},
		{"ThreeDigitRate", 7, 120, "00:00:00:007"},
		{"SingleDigitRate", 3, 8, "00:00:00:3"},
		{"FractionalRate", 60, 29.97, "00:00:02:00"},
		{"NegativeFrame", -4, 25, "00:00:00:00"},
		{"ZeroFPS", 100, 0, "00:00:00:00"},
		{"NaNFPS", 100, math.NaN(), "00:00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Timecode(tt.frame, tt.fps))
		})
	}
}
