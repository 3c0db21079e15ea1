package engine

import (
	"fmt"

	"github.com/roach88/layerdeck/internal/ir"
)

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventUpload adds a media item (upload collaborator).
	EventUpload EventType = iota + 1
	// EventRemove deletes the selected item (delete affordance).
	EventRemove
	// EventResize sets width/height (settings form).
	EventResize
	// EventRetime sets a video's time range (settings form).
	EventRetime
	// EventSelect selects an item (pointer down).
	EventSelect
	// EventDrag moves an item by a delta (pointer drag frame).
	EventDrag
	// EventToggle flips playback.
	EventToggle
	// EventTick advances the playhead one quantum.
	EventTick
	// EventSeek moves the playhead.
	EventSeek
	// EventDesignate chooses the reference video for playback bounds.
	EventDesignate
	// EventCanvas changes the canvas bounds.
	EventCanvas
)

var eventNames = map[EventType]string{
	EventUpload:    "upload",
	EventRemove:    "remove",
	EventResize:    "resize",
	EventRetime:    "retime",
	EventSelect:    "select",
	EventDrag:      "drag",
	EventToggle:    "toggle",
	EventTick:      "tick",
	EventSeek:      "seek",
	EventDesignate: "designate",
	EventCanvas:    "canvas",
}

// String returns the lower-case event name.
func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is one input to the engine. Only the fields relevant to Type are
// set; use the constructors below.
type Event struct {
	Type   EventType
	ID     ir.ItemID
	Kind   ir.MediaKind
	Source string
	// A and B carry the numeric payload: (dx, dy) for drag, (width, height)
	// for resize and canvas, (start, end) for retime, (seconds, _) for seek.
	A, B float64
	// Generation identifies the tick source that produced a tick.
	Generation uint64
}

// Upload creates an EventUpload.
func Upload(kind ir.MediaKind, source string) Event {
	return Event{Type: EventUpload, Kind: kind, Source: source}
}

// Remove creates an EventRemove.
func Remove(id ir.ItemID) Event {
	return Event{Type: EventRemove, ID: id}
}

// Resize creates an EventResize.
func Resize(id ir.ItemID, width, height float64) Event {
	return Event{Type: EventResize, ID: id, A: width, B: height}
}

// Retime creates an EventRetime.
func Retime(id ir.ItemID, start, end float64) Event {
	return Event{Type: EventRetime, ID: id, A: start, B: end}
}

// Select creates an EventSelect.
func Select(id ir.ItemID) Event {
	return Event{Type: EventSelect, ID: id}
}

// Drag creates an EventDrag.
func Drag(id ir.ItemID, dx, dy float64) Event {
	return Event{Type: EventDrag, ID: id, A: dx, B: dy}
}

// Toggle creates an EventToggle.
func Toggle() Event {
	return Event{Type: EventToggle}
}

// Tick creates an EventTick for the given tick source generation.
func Tick(generation uint64) Event {
	return Event{Type: EventTick, Generation: generation}
}

// Seek creates an EventSeek.
func Seek(seconds float64) Event {
	return Event{Type: EventSeek, A: seconds}
}

// Designate creates an EventDesignate.
func Designate(id ir.ItemID) Event {
	return Event{Type: EventDesignate, ID: id}
}

// Canvas creates an EventCanvas.
func Canvas(width, height float64) Event {
	return Event{Type: EventCanvas, A: width, B: height}
}
