package harness

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/layerdeck/internal/compositor"
	"github.com/roach88/layerdeck/internal/engine"
	"github.com/roach88/layerdeck/internal/ir"
	"github.com/roach88/layerdeck/internal/layout"
	"github.com/roach88/layerdeck/internal/playhead"
	"github.com/roach88/layerdeck/internal/store"
	"github.com/roach88/layerdeck/internal/testutil"
)

// errorCodes maps expect_error names to engine rejections.
var errorCodes = map[string]error{
	"invalid_range":      store.ErrInvalidRange,
	"invalid_dimensions": store.ErrInvalidDimensions,
	"not_video":          store.ErrNotVideo,
	"unsupported_kind":   store.ErrUnsupportedKind,
	"not_selected":       layout.ErrNotSelected,
	"invalid_bounds":     layout.ErrInvalidBounds,
}

// TraceFrame is one published frame and the step that produced it.
type TraceFrame struct {
	Step  int              `json:"step"`
	Event string           `json:"event"`
	Frame compositor.Frame `json:"frame"`
}

// Result is the outcome of a scene run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Trace lists every frame published, in order.
	Trace []TraceFrame `json:"trace"`

	// Final is the frame after the last step.
	Final compositor.Frame `json:"final"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceFrame{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scene with the default engine configuration.
func Run(scene *Scene) (*Result, error) {
	return RunWithConfig(scene, engine.DefaultConfig())
}

// RunWithConfig executes a scene. The scene's canvas and policy override
// cfg. Each run gets a fresh engine, a fixed id generator and a manual tick
// source.
//
// Failed expectations are reported in the Result; the returned error is
// reserved for scenes that cannot run at all.
func RunWithConfig(scene *Scene, cfg engine.Config) (*Result, error) {
	if scene.Canvas != nil {
		cfg.Canvas = layout.Bounds{Width: scene.Canvas.Width, Height: scene.Canvas.Height}
	}
	if scene.Policy != "" {
		p, err := playhead.ParsePolicy(scene.Policy)
		if err != nil {
			return nil, err
		}
		cfg.Policy = p
	}

	src := testutil.NewManualSource()
	eng := engine.New(cfg,
		engine.WithIDGenerator(store.NewFixedGenerator(scene.IDs...)),
		engine.WithTickSource(src),
	)
	defer eng.Close()

	r := &runner{eng: eng, src: src, result: NewResult()}
	for i, step := range scene.Steps {
		if err := r.step(i, step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	r.result.Final = eng.Snapshot()
	for i, a := range scene.Assertions {
		for _, msg := range evaluate(a, r.view()) {
			r.result.AddError(fmt.Sprintf("assertions[%d]: %s", i, msg))
		}
	}

	slog.Debug("scene finished",
		"scene", scene.Name,
		"frames", len(r.result.Trace),
		"pass", r.result.Pass,
	)
	return r.result, nil
}

type runner struct {
	eng    *engine.Engine
	src    *testutil.ManualSource
	result *Result
}

func (r *runner) view() view {
	return view{frame: r.eng.Snapshot(), ticking: r.eng.Ticking()}
}

func (r *runner) step(i int, s Step) error {
	op := s.Op()
	if op == "" {
		return fmt.Errorf("no single operation")
	}

	var err error
	if op == "tick" {
		err = r.tick(i, s.Tick)
	} else {
		var f compositor.Frame
		before := r.eng.Snapshot().Seq
		f, err = r.eng.Dispatch(toEvent(s))
		if f.Seq > before {
			r.result.Trace = append(r.result.Trace, TraceFrame{Step: i, Event: op, Frame: f})
		}
	}

	r.checkError(i, op, s.ExpectError, err)

	if s.Expect != nil {
		for _, msg := range evaluate(*s.Expect, r.view()) {
			r.result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, op, msg))
		}
	}
	return nil
}

func (r *runner) tick(i, n int) error {
	for k := 0; k < n; k++ {
		if !r.src.Fire() {
			break
		}
		frames, err := r.eng.Drain()
		if err != nil {
			return err
		}
		for _, f := range frames {
			r.result.Trace = append(r.result.Trace, TraceFrame{Step: i, Event: "tick", Frame: f})
		}
	}
	return nil
}

func (r *runner) checkError(i int, op, want string, got error) {
	switch {
	case want == "" && got != nil:
		r.result.AddError(fmt.Sprintf("steps[%d] (%s): unexpected error: %v", i, op, got))
	case want != "" && got == nil:
		r.result.AddError(fmt.Sprintf("steps[%d] (%s): expected %s, got success", i, op, want))
	case want != "" && !errors.Is(got, errorCodes[want]):
		r.result.AddError(fmt.Sprintf("steps[%d] (%s): expected %s, got %v", i, op, want, got))
	}
}

// toEvent converts a non-tick step into an engine event.
func toEvent(s Step) engine.Event {
	switch {
	case s.Upload != nil:
		// An unknown kind maps to the zero kind, which the store rejects.
		kind, _ := ir.ParseKind(s.Upload.Kind)
		return engine.Upload(kind, s.Upload.Source)
	case s.Remove != "":
		return engine.Remove(ir.ItemID(s.Remove))
	case s.Select != "":
		return engine.Select(ir.ItemID(s.Select))
	case s.Designate != "":
		return engine.Designate(ir.ItemID(s.Designate))
	case s.Resize != nil:
		return engine.Resize(ir.ItemID(s.Resize.ID), s.Resize.Width, s.Resize.Height)
	case s.Retime != nil:
		return engine.Retime(ir.ItemID(s.Retime.ID), s.Retime.Start, s.Retime.End)
	case s.Drag != nil:
		return engine.Drag(ir.ItemID(s.Drag.ID), s.Drag.DX, s.Drag.DY)
	case s.Seek != nil:
		return engine.Seek(*s.Seek)
	case s.Canvas != nil:
		return engine.Canvas(s.Canvas.Width, s.Canvas.Height)
	default:
		return engine.Toggle()
	}
}
