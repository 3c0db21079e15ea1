package playhead

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/layerdeck/internal/ir"
)

// Reference cadence: one tick every 100ms advancing the clock by 0.1s.
const (
	DefaultInterval = 100 * time.Millisecond
	DefaultQuantum  = 100 * time.Millisecond
)

// State is the playback state of the clock.
type State int

const (
	// Stopped is the initial state; the position is frozen.
	Stopped State = iota
	// Running means a tick source is advancing the position.
	Running
)

// String returns "stopped" or "running".
func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Reading is an immutable snapshot of the clock.
type Reading struct {
	Position time.Duration
	State    State
}

// Seconds returns the position in seconds.
func (r Reading) Seconds() float64 {
	return r.Position.Seconds()
}

// Label formats the position for the time readout, e.g. "3.2s".
func (r Reading) Label() string {
	return fmt.Sprintf("%.1fs", r.Seconds())
}

// Step reports the outcome of one Advance.
type Step struct {
	Reading
	// Advanced is false when the clock was not running.
	Advanced bool
	// Snapped is true when the tick hit the reference end and the clock
	// rewound to the reference start and stopped.
	Snapped bool
}

// Clock is the shared virtual playhead.
//
// Not safe for concurrent use; owned by the engine loop.
type Clock struct {
	pos       time.Duration
	state     State
	quantum   time.Duration
	observers map[int]func(Reading)
	nextObs   int
}

// NewClock creates a stopped clock at 0 advancing by quantum per tick.
// A non-positive quantum selects DefaultQuantum.
func NewClock(quantum time.Duration) *Clock {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	return &Clock{
		quantum:   quantum,
		observers: make(map[int]func(Reading)),
	}
}

// Reading returns the current snapshot.
func (c *Clock) Reading() Reading {
	return Reading{Position: c.pos, State: c.state}
}

// Quantum returns the per-tick advance.
func (c *Clock) Quantum() time.Duration {
	return c.quantum
}

// Toggle flips between Stopped and Running. It is a no-op when no video
// layer exists, since the transport control is hidden then.
// Returns the resulting state and whether it changed.
func (c *Clock) Toggle(hasVideo bool) (State, bool) {
	if !hasVideo {
		return c.state, false
	}
	if c.state == Running {
		c.state = Stopped
	} else {
		c.state = Running
	}
	c.publish()
	return c.state, true
}

// Stop forces the clock to Stopped without moving it. Used when the last
// video layer disappears while playing. Returns true if the state changed.
func (c *Clock) Stop() bool {
	if c.state == Stopped {
		return false
	}
	c.state = Stopped
	c.publish()
	return true
}

// Advance applies one tick.
//
// While Running the position moves forward one quantum. When ref is non-nil
// and the new position would reach ref.End, the clock rewinds to ref.Start
// and stops instead. A stopped clock ignores ticks.
func (c *Clock) Advance(ref *ir.TimeRange) Step {
	if c.state != Running {
		return Step{Reading: c.Reading()}
	}

	next := c.pos + c.quantum
	step := Step{Advanced: true}
	if ref != nil && next.Seconds() >= ref.End {
		c.pos = fromSeconds(ref.Start)
		c.state = Stopped
		step.Snapped = true
	} else {
		c.pos = next
	}

	c.publish()
	step.Reading = c.Reading()
	return step
}

// Seek moves the position without changing the state. Negative and
// non-finite targets clamp to 0.
func (c *Clock) Seek(seconds float64) Reading {
	if !ir.Finite(seconds) || seconds < 0 {
		seconds = 0
	}
	c.pos = fromSeconds(seconds)
	c.publish()
	return c.Reading()
}

// Subscribe registers fn to receive every published reading.
// The returned func removes the subscription.
func (c *Clock) Subscribe(fn func(Reading)) (cancel func()) {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Clock) publish() {
	r := c.Reading()
	for i := 0; i < c.nextObs; i++ {
		if fn, ok := c.observers[i]; ok {
			fn(r)
		}
	}
}

func fromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
