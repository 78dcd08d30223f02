package components

import (
	"math"
	"strings"

	"github.com/PizzaHomicide/koma/internal/ui/tui/styles"
)

const (
	trackRune  = "━"
	cursorRune = "┃"
)

// ProgressBar renders the seek track as one row of width cells.  Three layers are drawn back to front: the preloaded
// span, the played span and a cursor covering the current frame's share of the track, at least one cell wide.
// All fractions are of the full track in [0, 1].
func ProgressBar(width int, preloaded, played, cursorOffset, cursorWidth float64) string {
	if width <= 0 {
		return ""
	}

	preloadedCells := cells(preloaded, width)
	playedCells := cells(played, width)
	cursorStart := int(math.Floor(clamp01(cursorOffset) * float64(width)))
	cursorCells := max(1, cells(cursorWidth, width))
	if cursorStart >= width {
		cursorStart = width - 1
	}
	cursorEnd := min(width, cursorStart+cursorCells)

	var b strings.Builder
	for i := 0; i < width; {
		style := styles.TrackEmpty
		glyph := trackRune
		end := width

		switch {
		case i >= cursorStart && i < cursorEnd:
			style, glyph, end = styles.TrackCursor, cursorRune, cursorEnd
		case i < playedCells:
			style, end = styles.TrackPlayed, boundary(i, playedCells, cursorStart)
		case i < preloadedCells:
			style, end = styles.TrackPreloaded, boundary(i, preloadedCells, cursorStart)
		default:
			end = boundary(i, width, cursorStart)
		}

		b.WriteString(style.Render(strings.Repeat(glyph, end-i)))
		i = end
	}
	return b.String()
}

// boundary returns where a run starting at i ends: at limit, or earlier where the cursor begins
func boundary(i, limit, cursorStart int) int {
	if cursorStart > i && cursorStart < limit {
		return cursorStart
	}
	return limit
}

func cells(fraction float64, width int) int {
	return int(math.Round(clamp01(fraction) * float64(width)))
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}

// VolumeBar renders a volume level in [0, 1] as a short gauge
func VolumeBar(width int, volume float64, muted bool) string {
	if width <= 0 {
		return ""
	}
	filled := cells(volume, width)
	if muted {
		filled = 0
	}
	return styles.TrackPlayed.Render(strings.Repeat("█", filled)) +
		styles.TrackEmpty.Render(strings.Repeat("░", width-filled))
}
