// Package layout turns pointer gestures into layer positions and derives the
// visual stacking order.
//
// Positions are clamped so a layer never leaves the canvas. Sizes are not:
// resizing goes straight to the store, and a layer larger than the canvas
// is pinned to the top-left edge.
package layout

import (
	"errors"
	"fmt"

	"github.com/roach88/layerdeck/internal/ir"
	"github.com/roach88/layerdeck/internal/store"
)

// Default canvas size.
const (
	DefaultCanvasWidth  = 1280
	DefaultCanvasHeight = 720
)

var (
	// ErrNotSelected is returned when the delete affordance is used on a
	// layer that is not selected.
	ErrNotSelected = errors.New("layer is not selected")

	// ErrInvalidBounds is returned for non-positive or non-finite canvas sizes.
	ErrInvalidBounds = errors.New("invalid canvas bounds")
)

// Bounds is the size of the visible canvas.
type Bounds struct {
	Width  float64
	Height float64
}

// Valid reports whether both sides are positive and finite.
func (b Bounds) Valid() bool {
	return ir.Finite(b.Width, b.Height) && b.Width > 0 && b.Height > 0
}

// Engine applies drag, placement and selection gestures to a store.
type Engine struct {
	store  *store.Store
	bounds Bounds
}

// New creates a layout engine over s. Invalid bounds fall back to the
// default canvas size.
func New(s *store.Store, b Bounds) *Engine {
	if !b.Valid() {
		b = Bounds{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}
	}
	return &Engine{store: s, bounds: b}
}

// Bounds returns the current canvas size.
func (e *Engine) Bounds() Bounds {
	return e.bounds
}

// Drag moves an item by (dx, dy), clamped to the canvas, and returns the
// committed rectangle.
func (e *Engine) Drag(id ir.ItemID, dx, dy float64) (ir.Rect, error) {
	item, ok := e.store.Get(id)
	if !ok {
		return ir.Rect{}, fmt.Errorf("drag %s: %w", id, store.ErrNotFound)
	}
	if !ir.Finite(dx, dy) {
		return item.Rect, fmt.Errorf("drag %s: non-finite delta (%v,%v)", id, dx, dy)
	}
	return e.moveTo(item, item.Rect.X+dx, item.Rect.Y+dy)
}

// Place centers a freshly added item on the canvas.
func (e *Engine) Place(id ir.ItemID) (ir.Rect, error) {
	item, ok := e.store.Get(id)
	if !ok {
		return ir.Rect{}, fmt.Errorf("place %s: %w", id, store.ErrNotFound)
	}
	x := (e.bounds.Width - item.Rect.Width) / 2
	y := (e.bounds.Height - item.Rect.Height) / 2
	return e.moveTo(item, x, y)
}

// Resize changes the canvas size and re-clamps every item.
func (e *Engine) Resize(b Bounds) error {
	if !b.Valid() {
		return fmt.Errorf("resize canvas to %vx%v: %w", b.Width, b.Height, ErrInvalidBounds)
	}
	e.bounds = b
	for _, item := range e.store.Items() {
		if _, err := e.moveTo(item, item.Rect.X, item.Rect.Y); err != nil {
			return err
		}
	}
	return nil
}

// Engage handles a pointer-down on a layer: it becomes selected and is
// painted above all others.
func (e *Engine) Engage(id ir.ItemID) error {
	return e.store.Select(id)
}

// CanDelete reports whether the delete affordance is live for id. Only the
// selected layer exposes it.
func (e *Engine) CanDelete(id ir.ItemID) bool {
	sel, ok := e.store.Selected()
	return ok && sel == id
}

// Delete removes id through the delete affordance.
func (e *Engine) Delete(id ir.ItemID) error {
	if _, ok := e.store.Get(id); !ok {
		return fmt.Errorf("delete %s: %w", id, store.ErrNotFound)
	}
	if !e.CanDelete(id) {
		return fmt.Errorf("delete %s: %w", id, ErrNotSelected)
	}
	e.store.Remove(id)
	return nil
}

func (e *Engine) moveTo(item ir.MediaItem, x, y float64) (ir.Rect, error) {
	r := item.Rect
	r.X, r.Y = Clamp(r, x, y, e.bounds)
	if err := e.store.Move(item.ID, r.X, r.Y); err != nil {
		return item.Rect, err
	}
	return r, nil
}

// Clamp limits the top-left corner (x, y) of r so r stays inside b. When r
// is larger than b on an axis, that coordinate pins to 0.
func Clamp(r ir.Rect, x, y float64, b Bounds) (float64, float64) {
	return clampAxis(x, b.Width-r.Width), clampAxis(y, b.Height-r.Height)
}

func clampAxis(v, max float64) float64 {
	if max < 0 {
		max = 0
	}
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}

// ZOrder returns the paint order bottom to top: store order, with the
// selected id lifted to the top. Non-selected items keep their relative
// store order.
func ZOrder(items []ir.MediaItem, selected ir.ItemID, hasSelected bool) []ir.ItemID {
	order := make([]ir.ItemID, 0, len(items))
	lifted := false
	for _, item := range items {
		if hasSelected && item.ID == selected {
			lifted = true
			continue
		}
		order = append(order, item.ID)
	}
	if lifted {
		order = append(order, selected)
	}
	return order
}
