package ir

import (
	"fmt"
	"math"
	"strings"
)

// ItemID identifies one media layer for the lifetime of a session.
type ItemID string

// MediaKind distinguishes layer variants.
type MediaKind int

const (
	// KindVideo is a time-windowed layer driven by the shared playhead.
	KindVideo MediaKind = iota + 1
	// KindImage is a still layer, always visible.
	KindImage
)

// String returns the lower-case kind name used in scene files and output.
func (k MediaKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the supported kinds.
func (k MediaKind) Valid() bool {
	return k == KindVideo || k == KindImage
}

// ParseKind maps a kind name or a MIME type to a MediaKind.
//
// Accepts "video", "image", and any "video/*" or "image/*" MIME type, which
// mirrors the upload check performed before items reach the store.
func ParseKind(s string) (MediaKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "video" || strings.HasPrefix(s, "video/"):
		return KindVideo, true
	case s == "image" || strings.HasPrefix(s, "image/"):
		return KindImage, true
	default:
		return 0, false
	}
}

// Rect is the on-canvas placement of a layer, in canvas pixels.
// Origin is the top-left corner of the canvas.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// TimeRange is the inclusive [Start, End] window, in seconds, during which a
// video layer is visible.
type TimeRange struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Valid reports whether the range is finite, non-negative and ordered.
func (r TimeRange) Valid() bool {
	if !finite(r.Start) || !finite(r.End) {
		return false
	}
	return r.Start >= 0 && r.End >= 0 && r.Start <= r.End
}

// Contains reports whether t lies inside the range, both ends included.
func (r TimeRange) Contains(t float64) bool {
	return r.Start <= t && t <= r.End
}

// MediaItem is one placed layer.
type MediaItem struct {
	ID     ItemID     `json:"id"`
	Kind   MediaKind  `json:"kind"`
	Source string     `json:"source"`
	Rect   Rect       `json:"rect"`
	Range  *TimeRange `json:"range,omitempty"`
}

// Clone returns a deep copy so callers cannot alias the store's range.
func (m MediaItem) Clone() MediaItem {
	if m.Range != nil {
		r := *m.Range
		m.Range = &r
	}
	return m
}

// IsVideo reports whether the item is a video layer.
func (m MediaItem) IsVideo() bool {
	return m.Kind == KindVideo
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if !finite(v) {
			return false
		}
	}
	return true
}
