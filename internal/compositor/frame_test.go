package compositor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/layerdeck/internal/ir"
	"github.com/roach88/layerdeck/internal/playhead"
)

func at(seconds float64) playhead.Reading {
	return playhead.Reading{Position: time.Duration(seconds * float64(time.Second))}
}

func sampleItems() []ir.MediaItem {
	return []ir.MediaItem{
		{ID: "1", Kind: ir.KindImage, Source: "a.png", Rect: ir.Rect{Width: 640, Height: 360}},
		{ID: "2", Kind: ir.KindVideo, Source: "b.mp4", Rect: ir.Rect{X: 10, Width: 640, Height: 360}, Range: &ir.TimeRange{Start: 0, End: 10}},
	}
}

func TestCompose_ImageAndVideoAcrossPlayhead(t *testing.T) {
	items := sampleItems()

	f := Compose(items, "2", true, at(0), 1)
	require.Len(t, f.Layers, 2)
	assert.True(t, f.Layers[0].Visible)
	assert.True(t, f.Layers[1].Visible)

	f = Compose(items, "2", true, at(15), 2)
	assert.True(t, f.Layers[0].Visible, "image stays visible")
	assert.False(t, f.Layers[1].Visible, "video hidden past its range")
	assert.Equal(t, []ir.ItemID{"1"}, f.VisibleIDs())
}

func TestCompose_StoreOrderAndZ(t *testing.T) {
	items := append(sampleItems(), ir.MediaItem{ID: "3", Kind: ir.KindImage})

	f := Compose(items, "1", true, at(0), 1)
	assert.Equal(t, ir.ItemID("1"), f.Layers[0].ID, "layers stay in store order")
	assert.Equal(t, 2, f.Layers[0].Z, "selected is painted on top")
	assert.Equal(t, 0, f.Layers[1].Z)
	assert.Equal(t, 1, f.Layers[2].Z)

	paint := f.PaintOrder()
	assert.Equal(t, ir.ItemID("2"), paint[0].ID)
	assert.Equal(t, ir.ItemID("3"), paint[1].ID)
	assert.Equal(t, ir.ItemID("1"), paint[2].ID)
}

func TestCompose_NoSelection(t *testing.T) {
	f := Compose(sampleItems(), "", false, at(0), 1)

	assert.Nil(t, f.Selected)
	for i, l := range f.Layers {
		assert.False(t, l.Selected)
		assert.Equal(t, i, l.Z)
	}
}

func TestCompose_SelectedAttributes(t *testing.T) {
	f := Compose(sampleItems(), "2", true, at(3.2), 1)

	require.NotNil(t, f.Selected)
	assert.Equal(t, ir.ItemID("2"), f.Selected.ID)
	assert.Equal(t, 10.0, f.Selected.Range.End)
	assert.Equal(t, "3.2s", f.Label)

	l, ok := f.Layer("2")
	require.True(t, ok)
	assert.True(t, l.Selected)
	_, ok = f.Layer("zz")
	assert.False(t, ok)
}

func TestCompose_ShowTransport(t *testing.T) {
	items := sampleItems()

	assert.True(t, Compose(items, "", false, at(0), 1).ShowTransport)
	assert.False(t, Compose(items[:1], "", false, at(0), 1).ShowTransport)
	assert.False(t, Compose(nil, "", false, at(0), 1).ShowTransport)
}

func TestCompose_Digest(t *testing.T) {
	items := sampleItems()

	a := Compose(items, "2", true, at(1), 1)
	b := Compose(items, "2", true, at(1), 99)
	assert.NotEmpty(t, a.Digest)
	assert.Equal(t, a.Digest, b.Digest, "seq does not affect the digest")

	c := Compose(items, "1", true, at(1), 1)
	assert.NotEqual(t, a.Digest, c.Digest, "selection changes the picture")

	d := Compose(items, "2", true, at(11), 1)
	assert.NotEqual(t, a.Digest, d.Digest)
}

func TestCompose_DigestTracksTimeRange(t *testing.T) {
	items := sampleItems()
	before := Compose(items, "2", true, at(1), 1)

	items[1].Range = &ir.TimeRange{Start: 0, End: 5}
	after := Compose(items, "2", true, at(1), 2)

	assert.Equal(t, before.VisibleIDs(), after.VisibleIDs(), "visibility unchanged at 1s")
	assert.NotEqual(t, before.Digest, after.Digest, "settings form shows the new range")

	layer, ok := after.Layer("2")
	require.True(t, ok)
	assert.Equal(t, ir.TimeRange{Start: 0, End: 5}, *layer.Range)
}

func TestCompose_DoesNotAliasInput(t *testing.T) {
	items := sampleItems()
	f := Compose(items, "2", true, at(0), 1)

	f.Layers[1].Range.End = 1
	f.Selected.Range.End = 1
	assert.Equal(t, 10.0, items[1].Range.End)
}
