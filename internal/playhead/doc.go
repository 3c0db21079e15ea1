// Package playhead implements the single virtual clock shared by every video
// layer on the canvas.
//
// The clock is a two-state machine (Stopped, Running) whose position only
// moves through Toggle, Advance (one tick), the automatic end-of-range snap,
// and Seek. Position is held as a time.Duration built from whole quanta so
// repeated ticks never accumulate floating point drift; seconds are derived
// at the edges.
//
// The tick source that drives Advance is deliberately separate (TickSource):
// the clock itself never starts goroutines, which keeps it deterministic and
// lets the engine own cancellation.
package playhead
