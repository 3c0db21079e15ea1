package compositor

import "github.com/roach88/layerdeck/internal/ir"

// Visible reports whether item is shown at playhead time t (seconds).
//
// Images are always visible. A video without a range is unbounded. A video
// with a range is visible on the closed interval [Start, End].
func Visible(item ir.MediaItem, t float64) bool {
	if item.Kind != ir.KindVideo || item.Range == nil {
		return true
	}
	return item.Range.Contains(t)
}
