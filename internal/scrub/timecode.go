package scrub

import (
	"fmt"
	"math"
	"strconv"
)

// Timecode formats a frame index as HH:MM:SS:FF.  The frame field is the frame within its second, zero padded to
// the number of digits in the rounded frame rate.
//
// Example:
//
//	Timecode(130, 25)    // "00:00:05:05"
//	Timecode(90000, 25)  // "01:00:00:00"
//	Timecode(7, 120)     // "00:00:00:007"
func Timecode(frame int, fps float64) string {
	if !validFPS(fps) {
		return "00:00:00:00"
	}
	if frame < 0 {
		frame = 0
	}

	rate := int(math.Round(fps))
	if rate < 1 {
		rate = 1
	}
	pad := len(strconv.Itoa(rate))

	t := float64(frame) / fps
	hours := int(math.Floor(t / 3600))
	minutes := int(math.Floor(t/60)) % 60
	seconds := int(math.Floor(t)) % 60
	sub := frame % rate

	return fmt.Sprintf("%02d:%02d:%02d:%0*d", hours, minutes, seconds, pad, sub)
}
