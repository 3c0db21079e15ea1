// Package engine runs the canvas: it owns the media store, the layout
// engine and the playhead, applies one event at a time, and publishes a
// freshly composed frame after every change.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Every mutation (upload, drag, form input, clock tick) arrives as an Event
// and is applied by exactly one goroutine. This ensures:
//   - No concurrent mutation of the store by construction
//   - A deterministic frame sequence for a given event sequence
//   - No locking inside the store, layout or playhead packages
//
// Event Processing Flow:
//  1. Callers Enqueue events (any goroutine) or Dispatch them directly
//     (owning goroutine only)
//  2. Run() dequeues events one at a time
//  3. process() routes to the handler for the event type
//  4. The compositor builds a Frame, stamped by the Sequencer
//  5. Subscribers receive the Frame
//
// Tick Source:
// The playhead's tick source is the only autonomous actor. It is started
// when playback toggles on and is stopped when playback toggles off, when
// the clock snaps at the end of the reference range, when Run returns, and
// on Close. Every tick carries the generation of the source that produced
// it; ticks from an older generation are dropped, so no tick is observed
// after playback stops.
//
// Error Handling:
// Events naming an absent item are no-ops (logged at debug). Other rejected
// events are logged at warn and returned from Dispatch; the loop never stops
// because of a bad event.
package engine
