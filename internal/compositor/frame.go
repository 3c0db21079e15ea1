package compositor

import (
	"log/slog"
	"slices"

	"github.com/roach88/layerdeck/internal/ir"
	"github.com/roach88/layerdeck/internal/layout"
	"github.com/roach88/layerdeck/internal/playhead"
)

// Layer is one entry of the draw list.
type Layer struct {
	ID       ir.ItemID     `json:"id"`
	Kind     string        `json:"kind"`
	Source   string        `json:"source"`
	Rect     ir.Rect       `json:"rect"`
	Range    *ir.TimeRange `json:"range,omitempty"`
	Visible  bool          `json:"visible"`
	Selected bool          `json:"selected"`
	// Z is the paint index, 0 at the bottom. The selected layer has the
	// highest Z regardless of its store position.
	Z int `json:"z"`
}

// Frame is the complete output for one render tick.
type Frame struct {
	Seq      int64   `json:"seq"`
	Playhead float64 `json:"playhead"`
	Label    string  `json:"label"`
	State    string  `json:"state"`
	// ShowTransport is true when at least one video exists, i.e. the
	// play/pause control and time readout are shown.
	ShowTransport bool `json:"show_transport"`
	// Layers are in store order.
	Layers []Layer `json:"layers"`
	// Selected mirrors the selected item's attributes for the settings form.
	Selected *ir.MediaItem `json:"selected,omitempty"`
	// Digest fingerprints everything that affects painting or the settings
	// form. Identical digests mean the presentation layer can skip the
	// repaint.
	Digest string `json:"digest"`
}

// Compose builds the frame for items (in store order) at the given reading.
func Compose(items []ir.MediaItem, selected ir.ItemID, hasSelected bool, reading playhead.Reading, seq int64) Frame {
	t := reading.Seconds()
	order := layout.ZOrder(items, selected, hasSelected)
	z := make(map[ir.ItemID]int, len(order))
	for i, id := range order {
		z[id] = i
	}

	f := Frame{
		Seq:      seq,
		Playhead: t,
		Label:    reading.Label(),
		State:    reading.State.String(),
		Layers:   make([]Layer, 0, len(items)),
	}

	for _, item := range items {
		if item.IsVideo() {
			f.ShowTransport = true
		}
		isSel := hasSelected && item.ID == selected
		l := Layer{
			ID:       item.ID,
			Kind:     item.Kind.String(),
			Source:   item.Source,
			Rect:     item.Rect,
			Visible:  Visible(item, t),
			Selected: isSel,
			Z:        z[item.ID],
		}
		if item.Range != nil {
			r := *item.Range
			l.Range = &r
		}
		f.Layers = append(f.Layers, l)
		if isSel {
			c := item.Clone()
			f.Selected = &c
		}
	}

	digest, err := ir.FrameDigest(f.Canonical())
	if err != nil {
		// Only reachable through an encoder bug; the frame is still usable.
		slog.Warn("frame digest failed", "seq", seq, "error", err)
	}
	f.Digest = digest
	return f
}

// PaintOrder returns the layers sorted bottom to top.
func (f Frame) PaintOrder() []Layer {
	out := slices.Clone(f.Layers)
	slices.SortFunc(out, func(a, b Layer) int { return a.Z - b.Z })
	return out
}

// VisibleIDs returns the ids of visible layers in store order.
func (f Frame) VisibleIDs() []ir.ItemID {
	var ids []ir.ItemID
	for _, l := range f.Layers {
		if l.Visible {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// Layer looks up a layer by id.
func (f Frame) Layer(id ir.ItemID) (Layer, bool) {
	for _, l := range f.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// Canonical converts the paint-relevant part of the frame, including the
// selected attributes shown in the settings form, into IR values.
// Seq is excluded so two ticks that paint the same picture share a digest.
func (f Frame) Canonical() ir.IRObject {
	layers := make(ir.IRArray, len(f.Layers))
	for i, l := range f.Layers {
		obj := ir.IRObject{
			"id":       ir.IRString(l.ID),
			"kind":     ir.IRString(l.Kind),
			"source":   ir.IRString(l.Source),
			"x":        ir.Decimal(l.Rect.X),
			"y":        ir.Decimal(l.Rect.Y),
			"width":    ir.Decimal(l.Rect.Width),
			"height":   ir.Decimal(l.Rect.Height),
			"visible":  ir.IRBool(l.Visible),
			"selected": ir.IRBool(l.Selected),
			"z":        ir.IRInt(l.Z),
		}
		if l.Range != nil {
			obj["start"] = ir.Decimal(l.Range.Start)
			obj["end"] = ir.Decimal(l.Range.End)
		}
		layers[i] = obj
	}
	out := ir.IRObject{
		"label":          ir.IRString(f.Label),
		"state":          ir.IRString(f.State),
		"show_transport": ir.IRBool(f.ShowTransport),
		"layers":         layers,
	}
	if f.Selected != nil {
		out["selected"] = ir.IRString(f.Selected.ID)
	}
	return out
}
