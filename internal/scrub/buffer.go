package scrub

import "math"

// TimeRange is a contiguous span of media time, in seconds, that is already buffered
type TimeRange struct {
	Start float64
	End   float64
}

// Contains reports whether t lies within the range, inclusive of both ends
func (r TimeRange) Contains(t float64) bool {
	return t >= r.Start && t <= r.End
}

// BufferTracker reduces the buffered ranges of a media source to the single fraction shown on the preload bar
type BufferTracker struct {
	fraction float64
}

// Fraction returns the last computed preload fraction in [0, 1]
func (b *BufferTracker) Fraction() float64 {
	return b.fraction
}

// Reset forgets the preload fraction, used when a new media source is attached
func (b *BufferTracker) Reset() {
	b.fraction = 0
}

// Update scans the buffered ranges from last to first and takes the end of the first range containing the current
// time.  When no range contains it (a stall or gap) the previous fraction is kept so the bar never jumps backwards
// during transient buffering.  Reports whether the fraction changed.
func (b *BufferTracker) Update(ranges []TimeRange, currentTime, duration float64) bool {
	if !finite(duration) || duration <= 0 || !finite(currentTime) {
		return false
	}

	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		if !r.Contains(currentTime) {
			continue
		}
		fraction := math.Max(0, math.Min(1, r.End/duration))
		if fraction == b.fraction {
			return false
		}
		b.fraction = fraction
		return true
	}

	return false
}
