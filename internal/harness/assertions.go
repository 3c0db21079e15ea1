package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/layerdeck/internal/compositor"
	"github.com/roach88/layerdeck/internal/ir"
)

// Assertion checks a frame. Every set field must hold; id lists are subset
// matches except PaintOrder, which must match exactly.
type Assertion struct {
	Visible     []string       `yaml:"visible,omitempty"`
	Hidden      []string       `yaml:"hidden,omitempty"`
	Selected    string         `yaml:"selected,omitempty"`
	NoSelection bool           `yaml:"no_selection,omitempty"`
	Playhead    *float64       `yaml:"playhead,omitempty"`
	Label       string         `yaml:"label,omitempty"`
	State       string         `yaml:"state,omitempty"`
	PaintOrder  []string       `yaml:"paint_order,omitempty"`
	Position    *PositionCheck `yaml:"position,omitempty"`
	Size        *SizeCheck     `yaml:"size,omitempty"`
	Range       *RangeCheck    `yaml:"range,omitempty"`
	Layers      *int           `yaml:"layers,omitempty"`
	Transport   *bool          `yaml:"transport,omitempty"`
	Ticking     *bool          `yaml:"ticking,omitempty"`
}

// PositionCheck expects a layer's top-left corner.
type PositionCheck struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// SizeCheck expects a layer's dimensions.
type SizeCheck struct {
	ID     string  `yaml:"id"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RangeCheck expects a video layer's time range.
type RangeCheck struct {
	ID    string  `yaml:"id"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// epsilon absorbs float formatting of decimal seconds and pixels.
const epsilon = 1e-9

// view is what an assertion can observe.
type view struct {
	frame   compositor.Frame
	ticking bool
}

// evaluate returns one message per failed check.
func evaluate(a Assertion, v view) []string {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}
	f := v.frame

	for _, id := range a.Visible {
		l, ok := f.Layer(ir.ItemID(id))
		switch {
		case !ok:
			fail("visible: no layer %q", id)
		case !l.Visible:
			fail("visible: layer %q is hidden at %s", id, f.Label)
		}
	}
	for _, id := range a.Hidden {
		l, ok := f.Layer(ir.ItemID(id))
		switch {
		case !ok:
			fail("hidden: no layer %q", id)
		case l.Visible:
			fail("hidden: layer %q is visible at %s", id, f.Label)
		}
	}

	if a.Selected != "" {
		switch {
		case f.Selected == nil:
			fail("selected: want %q, got none", a.Selected)
		case string(f.Selected.ID) != a.Selected:
			fail("selected: want %q, got %q", a.Selected, f.Selected.ID)
		}
	}
	if a.NoSelection && f.Selected != nil {
		fail("no_selection: %q is selected", f.Selected.ID)
	}

	if a.Playhead != nil && !near(*a.Playhead, f.Playhead) {
		fail("playhead: want %v, got %v", *a.Playhead, f.Playhead)
	}
	if a.Label != "" && a.Label != f.Label {
		fail("label: want %q, got %q", a.Label, f.Label)
	}
	if a.State != "" && a.State != f.State {
		fail("state: want %q, got %q", a.State, f.State)
	}

	if a.PaintOrder != nil {
		var got []string
		for _, l := range f.PaintOrder() {
			got = append(got, string(l.ID))
		}
		if !slices.Equal(a.PaintOrder, got) {
			fail("paint_order: want %v, got %v", a.PaintOrder, got)
		}
	}

	if p := a.Position; p != nil {
		if l, ok := f.Layer(ir.ItemID(p.ID)); !ok {
			fail("position: no layer %q", p.ID)
		} else if !near(p.X, l.Rect.X) || !near(p.Y, l.Rect.Y) {
			fail("position %q: want (%v,%v), got (%v,%v)", p.ID, p.X, p.Y, l.Rect.X, l.Rect.Y)
		}
	}
	if s := a.Size; s != nil {
		if l, ok := f.Layer(ir.ItemID(s.ID)); !ok {
			fail("size: no layer %q", s.ID)
		} else if !near(s.Width, l.Rect.Width) || !near(s.Height, l.Rect.Height) {
			fail("size %q: want %vx%v, got %vx%v", s.ID, s.Width, s.Height, l.Rect.Width, l.Rect.Height)
		}
	}
	if r := a.Range; r != nil {
		l, ok := f.Layer(ir.ItemID(r.ID))
		switch {
		case !ok:
			fail("range: no layer %q", r.ID)
		case l.Range == nil:
			fail("range %q: layer has no time range", r.ID)
		case !near(r.Start, l.Range.Start) || !near(r.End, l.Range.End):
			fail("range %q: want [%v,%v], got [%v,%v]", r.ID, r.Start, r.End, l.Range.Start, l.Range.End)
		}
	}

	if a.Layers != nil && *a.Layers != len(f.Layers) {
		fail("layers: want %d, got %d", *a.Layers, len(f.Layers))
	}
	if a.Transport != nil && *a.Transport != f.ShowTransport {
		fail("transport: want %v, got %v", *a.Transport, f.ShowTransport)
	}
	if a.Ticking != nil && *a.Ticking != v.ticking {
		fail("ticking: want %v, got %v", *a.Ticking, v.ticking)
	}
	return errs
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
