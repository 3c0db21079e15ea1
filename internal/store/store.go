package store

import (
	"fmt"

	"github.com/roach88/layerdeck/internal/ir"
)

// Defaults applied to newly added items.
const (
	DefaultWidth     = 640
	DefaultHeight    = 360
	DefaultRangeEnd  = 10
	defaultRangeFrom = 0
)

// Defaults controls the geometry and window of new items.
type Defaults struct {
	Width    float64
	Height   float64
	RangeEnd float64
}

// Store owns the ordered list of media items and the selection pointer.
type Store struct {
	items    []ir.MediaItem
	selected ir.ItemID
	hasSel   bool
	ids      IDGenerator
	seen     map[ir.ItemID]struct{}
	defaults Defaults
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithDefaults overrides the default size and time window of new items.
// Zero fields keep the package defaults.
func WithDefaults(d Defaults) Option {
	return func(s *Store) {
		if d.Width > 0 {
			s.defaults.Width = d.Width
		}
		if d.Height > 0 {
			s.defaults.Height = d.Height
		}
		if d.RangeEnd > 0 {
			s.defaults.RangeEnd = d.RangeEnd
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		ids:  UUIDv7Generator{},
		seen: make(map[ir.ItemID]struct{}),
		defaults: Defaults{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			RangeEnd: DefaultRangeEnd,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates an item with default geometry (and default range for video),
// appends it on top of the stack and selects it.
//
// An id already handed out in this session is never reused; a generator
// that repeats itself is an error rather than a silent collision.
func (s *Store) Add(kind ir.MediaKind, source string) (ir.ItemID, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("add %s: %w", kind, ErrUnsupportedKind)
	}

	id := s.ids.Generate()
	if _, dup := s.seen[id]; dup || id == "" {
		return "", fmt.Errorf("add: generator produced duplicate id %q", id)
	}
	s.seen[id] = struct{}{}

	item := ir.MediaItem{
		ID:     id,
		Kind:   kind,
		Source: ir.NormalizeSource(source),
		Rect: ir.Rect{
			Width:  s.defaults.Width,
			Height: s.defaults.Height,
		},
	}
	if kind == ir.KindVideo {
		item.Range = &ir.TimeRange{Start: defaultRangeFrom, End: s.defaults.RangeEnd}
	}

	s.items = append(s.items, item)
	s.selected, s.hasSel = id, true
	return id, nil
}

// Remove deletes the item. Returns false (and changes nothing) when the id
// is absent. If the removed item was selected, the first remaining item is
// selected, or the selection is cleared when none remain.
func (s *Store) Remove(id ir.ItemID) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.items = append(s.items[:i], s.items[i+1:]...)

	if s.hasSel && s.selected == id {
		if len(s.items) > 0 {
			s.selected = s.items[0].ID
		} else {
			s.selected, s.hasSel = "", false
		}
	}
	return true
}

// UpdateDimensions replaces the width and height of an item.
// Sizes are not clamped to the canvas; only negative or non-finite values
// are rejected.
func (s *Store) UpdateDimensions(id ir.ItemID, width, height float64) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update dimensions %s: %w", id, ErrNotFound)
	}
	if !ir.Finite(width, height) || width < 0 || height < 0 {
		return fmt.Errorf("update dimensions %s (%vx%v): %w", id, width, height, ErrInvalidDimensions)
	}
	s.items[i].Rect.Width = width
	s.items[i].Rect.Height = height
	return nil
}

// UpdateTimeRange replaces the time window of a video item.
// Inverted ranges are rejected with ErrInvalidRange and never normalized.
func (s *Store) UpdateTimeRange(id ir.ItemID, start, end float64) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update time range %s: %w", id, ErrNotFound)
	}
	if !s.items[i].IsVideo() {
		return fmt.Errorf("update time range %s: %w", id, ErrNotVideo)
	}
	r := ir.TimeRange{Start: start, End: end}
	if !r.Valid() {
		return fmt.Errorf("update time range %s [%v, %v]: %w", id, start, end, ErrInvalidRange)
	}
	s.items[i].Range = &r
	return nil
}

// Move sets the position of an item. Bounds are the layout engine's
// concern; the store only rejects non-finite coordinates.
func (s *Store) Move(id ir.ItemID, x, y float64) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	if !ir.Finite(x, y) {
		return fmt.Errorf("move %s (%v,%v): %w", id, x, y, ErrInvalidDimensions)
	}
	s.items[i].Rect.X = x
	s.items[i].Rect.Y = y
	return nil
}

// Select makes id the selected item.
func (s *Store) Select(id ir.ItemID) error {
	if s.indexOf(id) < 0 {
		return fmt.Errorf("select %s: %w", id, ErrNotFound)
	}
	s.selected, s.hasSel = id, true
	return nil
}

// Selected returns the selected id, if any.
func (s *Store) Selected() (ir.ItemID, bool) {
	return s.selected, s.hasSel
}

// SelectedItem returns a copy of the selected item for the settings form.
func (s *Store) SelectedItem() (ir.MediaItem, bool) {
	if !s.hasSel {
		return ir.MediaItem{}, false
	}
	return s.Get(s.selected)
}

// Get returns a copy of the item.
func (s *Store) Get(id ir.ItemID) (ir.MediaItem, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return ir.MediaItem{}, false
	}
	return s.items[i].Clone(), true
}

// Items returns copies of all items in store order.
func (s *Store) Items() []ir.MediaItem {
	out := make([]ir.MediaItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// HasVideo reports whether any video layer exists. The playback control is
// only exposed when it does.
func (s *Store) HasVideo() bool {
	for _, item := range s.items {
		if item.IsVideo() {
			return true
		}
	}
	return false
}

// FirstVideoWithRange returns the first video in store order that has a
// time range.
func (s *Store) FirstVideoWithRange() (ir.MediaItem, bool) {
	for _, item := range s.items {
		if item.IsVideo() && item.Range != nil {
			return item.Clone(), true
		}
	}
	return ir.MediaItem{}, false
}

func (s *Store) indexOf(id ir.ItemID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
