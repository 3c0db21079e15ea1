package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/layerdeck/internal/compositor"
	"github.com/roach88/layerdeck/internal/ir"
	"github.com/roach88/layerdeck/internal/layout"
	"github.com/roach88/layerdeck/internal/playhead"
	"github.com/roach88/layerdeck/internal/store"
)

// Config holds the tunables of one canvas.
type Config struct {
	Canvas   layout.Bounds
	Interval time.Duration
	Quantum  time.Duration
	Policy   playhead.ReferencePolicy
	Defaults store.Defaults
}

// DefaultConfig returns the stock canvas: 1280x720, 100ms ticks of 0.1s,
// first-video reference.
func DefaultConfig() Config {
	return Config{
		Canvas:   layout.Bounds{Width: layout.DefaultCanvasWidth, Height: layout.DefaultCanvasHeight},
		Interval: playhead.DefaultInterval,
		Quantum:  playhead.DefaultQuantum,
		Policy:   playhead.PolicyFirst,
		Defaults: store.Defaults{
			Width:    store.DefaultWidth,
			Height:   store.DefaultHeight,
			RangeEnd: store.DefaultRangeEnd,
		},
	}
}

// Engine is the single-writer canvas event loop.
//
// Thread-safety model:
//   - Enqueue(), Subscribe(), Snapshot(), Close(): safe from any goroutine
//   - Run(), Dispatch(), Drain(), OnClock(): owner goroutine only
type Engine struct {
	cfg    Config
	store  *store.Store
	layout *layout.Engine
	clock  *playhead.Clock
	seq    *Sequencer
	queue  *eventQueue

	designated ir.ItemID
	ctx        context.Context

	tickMu     sync.Mutex
	ticks      playhead.TickSource
	stopTicks  func()
	generation uint64
	closed     bool

	mu      sync.Mutex
	last    compositor.Frame
	subs    map[int]func(compositor.Frame)
	nextSub int

	storeOpts []store.Option
}

// Option allows configuration of engine collaborators.
type Option func(*Engine)

// WithIDGenerator sets the item id generator (tests use FixedGenerator).
func WithIDGenerator(g store.IDGenerator) Option {
	return func(e *Engine) {
		e.storeOpts = append(e.storeOpts, store.WithIDGenerator(g))
	}
}

// WithTickSource replaces the wall-clock tick source.
func WithTickSource(ts playhead.TickSource) Option {
	return func(e *Engine) {
		e.ticks = ts
	}
}

// New creates an engine with an empty canvas.
func New(cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if !cfg.Canvas.Valid() {
		cfg.Canvas = def.Canvas
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Quantum <= 0 {
		cfg.Quantum = def.Quantum
	}
	if cfg.Policy == "" {
		cfg.Policy = def.Policy
	}

	e := &Engine{
		cfg:   cfg,
		seq:   NewSequencer(),
		queue: newEventQueue(),
		ticks: playhead.IntervalSource{},
		ctx:   context.Background(),
		subs:  make(map[int]func(compositor.Frame)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.store = store.New(append([]store.Option{store.WithDefaults(cfg.Defaults)}, e.storeOpts...)...)
	e.layout = layout.New(e.store, cfg.Canvas)
	e.clock = playhead.NewClock(cfg.Quantum)
	e.last = e.compose(e.seq.Current())
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Enqueue submits an event for processing by the Run loop.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Enqueue(ev Event) bool {
	return e.queue.Enqueue(ev)
}

// QueueLen returns the number of pending events.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// Run starts the single-writer event loop.
// Blocks until ctx is cancelled or Stop()/Close() is called. The tick
// source is stopped before Run returns.
//
// Must be called from exactly ONE goroutine.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"canvas_width", e.cfg.Canvas.Width,
		"canvas_height", e.cfg.Canvas.Height,
		"interval", e.cfg.Interval,
		"policy", e.cfg.Policy,
	)
	e.ctx = ctx
	defer e.stopTicker()

	for {
		ev, ok := e.queue.TryDequeue()
		if ok {
			// Errors are logged inside Dispatch; the loop keeps going.
			_, _ = e.Dispatch(ev)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel closes with the queue.
			if e.queue.Len() == 0 && e.isClosed() {
				slog.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the event queue, which causes Run to return once the queue is
// empty.
func (e *Engine) Stop() {
	e.tickMu.Lock()
	e.closed = true
	e.tickMu.Unlock()
	e.queue.Close()
}

// Close stops the event loop and cancels any running tick source.
func (e *Engine) Close() {
	e.Stop()
	e.stopTicker()
}

func (e *Engine) isClosed() bool {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	return e.closed
}

// Dispatch applies one event synchronously and returns the resulting frame.
//
// A frame is composed and published to subscribers whenever the event
// took effect. Events naming an absent item and stale ticks are no-ops:
// Dispatch returns the current frame and a nil error without publishing.
// Any other rejection is logged and returned with the current frame.
func (e *Engine) Dispatch(ev Event) (compositor.Frame, error) {
	applied, err := e.process(ev)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Debug("event ignored: item not found", "event", ev.Type.String(), "id", ev.ID)
			return e.Snapshot(), nil
		}
		logEventError(ev, err)
		return e.Snapshot(), err
	}
	if !applied {
		return e.Snapshot(), nil
	}

	f := e.compose(e.seq.Next())
	e.publish(f)
	return f, nil
}

// Drain processes every queued event synchronously, including ticks the
// tick source enqueues while draining, and returns the frames published.
// Used by the scene harness and tests in place of Run.
func (e *Engine) Drain() ([]compositor.Frame, error) {
	var frames []compositor.Frame
	var errs []error
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			return frames, errors.Join(errs...)
		}
		before := e.seq.Current()
		f, err := e.Dispatch(ev)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if f.Seq > before {
			frames = append(frames, f)
		}
	}
}

// Subscribe registers fn to receive every published frame.
// fn runs on the engine goroutine and must not call back into the engine.
// The returned func removes the subscription.
func (e *Engine) Subscribe(fn func(compositor.Frame)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// OnClock registers an observer of the shared playhead. Owner goroutine
// only, before Run.
func (e *Engine) OnClock(fn func(playhead.Reading)) (cancel func()) {
	return e.clock.Subscribe(fn)
}

// Snapshot returns the most recently published frame.
func (e *Engine) Snapshot() compositor.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Item returns a copy of the item with the given id.
func (e *Engine) Item(id ir.ItemID) (ir.MediaItem, bool) {
	return e.store.Get(id)
}

// Designated returns the designated reference video, if any.
func (e *Engine) Designated() (ir.ItemID, bool) {
	return e.designated, e.designated != ""
}

// Ticking reports whether a tick source is live.
func (e *Engine) Ticking() bool {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	return e.stopTicks != nil
}

func (e *Engine) publish(f compositor.Frame) {
	e.mu.Lock()
	e.last = f
	subs := make([]func(compositor.Frame), 0, len(e.subs))
	for i := 0; i < e.nextSub; i++ {
		if fn, ok := e.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(f)
	}
}

func (e *Engine) compose(seq int64) compositor.Frame {
	sel, hasSel := e.store.Selected()
	return compositor.Compose(e.store.Items(), sel, hasSel, e.clock.Reading(), seq)
}

// process routes an event to its handler. Returns whether state changed
// in a way that warrants a new frame.
func (e *Engine) process(ev Event) (bool, error) {
	switch ev.Type {
	case EventUpload:
		return e.upload(ev)
	case EventRemove:
		return e.remove(ev)
	case EventResize:
		return true, e.store.UpdateDimensions(ev.ID, ev.A, ev.B)
	case EventRetime:
		return true, e.store.UpdateTimeRange(ev.ID, ev.A, ev.B)
	case EventSelect:
		return true, e.layout.Engage(ev.ID)
	case EventDrag:
		if err := e.layout.Engage(ev.ID); err != nil {
			return false, err
		}
		_, err := e.layout.Drag(ev.ID, ev.A, ev.B)
		return true, err
	case EventToggle:
		return e.toggle()
	case EventTick:
		return e.tick(ev)
	case EventSeek:
		e.clock.Seek(ev.A)
		return true, nil
	case EventDesignate:
		return e.designate(ev)
	case EventCanvas:
		return true, e.layout.Resize(layout.Bounds{Width: ev.A, Height: ev.B})
	default:
		return false, fmt.Errorf("unknown event type: %d", ev.Type)
	}
}

func (e *Engine) upload(ev Event) (bool, error) {
	id, err := e.store.Add(ev.Kind, ev.Source)
	if err != nil {
		return false, err
	}
	if _, err := e.layout.Place(id); err != nil {
		return true, err
	}
	slog.Debug("item added", "id", id, "kind", ev.Kind.String(), "source", ev.Source)
	return true, nil
}

func (e *Engine) remove(ev Event) (bool, error) {
	if err := e.layout.Delete(ev.ID); err != nil {
		return false, err
	}
	if e.designated == ev.ID {
		e.designated = ""
	}
	if !e.store.HasVideo() && e.clock.Stop() {
		slog.Debug("playback stopped: no video left")
		e.stopTicker()
	}
	return true, nil
}

func (e *Engine) toggle() (bool, error) {
	if e.isClosed() && e.clock.Reading().State == playhead.Stopped {
		slog.Debug("toggle ignored: engine stopped")
		return false, nil
	}
	state, changed := e.clock.Toggle(e.store.HasVideo())
	if !changed {
		slog.Debug("toggle ignored: no video on canvas")
		return false, nil
	}
	if state == playhead.Running {
		e.startTicker()
	} else {
		e.stopTicker()
	}
	return true, nil
}

func (e *Engine) tick(ev Event) (bool, error) {
	e.tickMu.Lock()
	live := e.stopTicks != nil && ev.Generation == e.generation
	e.tickMu.Unlock()
	if !live {
		slog.Debug("stale tick dropped", "generation", ev.Generation)
		return false, nil
	}

	ref := playhead.Reference(e.store.Items(), e.cfg.Policy, e.designated)
	step := e.clock.Advance(ref)
	if !step.Advanced {
		return false, nil
	}
	if step.Snapped {
		slog.Debug("playhead snapped to reference start", "position", step.Label())
		e.stopTicker()
	}
	return true, nil
}

func (e *Engine) designate(ev Event) (bool, error) {
	item, ok := e.store.Get(ev.ID)
	if !ok {
		return false, fmt.Errorf("designate %s: %w", ev.ID, store.ErrNotFound)
	}
	if !item.IsVideo() {
		return false, fmt.Errorf("designate %s: %w", ev.ID, store.ErrNotVideo)
	}
	e.designated = ev.ID
	return true, nil
}

func (e *Engine) startTicker() {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if e.stopTicks != nil || e.closed {
		return
	}

	e.generation++
	gen := e.generation
	e.stopTicks = e.ticks.Start(e.ctx, e.cfg.Interval, func() {
		e.queue.Enqueue(Tick(gen))
	})
	slog.Debug("tick source started", "generation", gen, "interval", e.cfg.Interval)
}

func (e *Engine) stopTicker() {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if e.stopTicks == nil {
		return
	}
	e.stopTicks()
	e.stopTicks = nil
	slog.Debug("tick source stopped", "generation", e.generation)
}

// logEventError logs an event processing failure with full context.
func logEventError(ev Event, err error) {
	attrs := []any{"error", err, "event", ev.Type.String()}
	if ev.ID != "" {
		attrs = append(attrs, "id", ev.ID)
	}
	switch ev.Type {
	case EventUpload:
		attrs = append(attrs, "kind", ev.Kind.String(), "source", ev.Source)
	case EventResize, EventRetime, EventDrag, EventCanvas:
		attrs = append(attrs, "a", ev.A, "b", ev.B)
	}
	slog.Warn("event rejected", attrs...)
}
