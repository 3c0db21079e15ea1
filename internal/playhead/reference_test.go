package playhead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/layerdeck/internal/ir"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirst, p)

	p, err = ParsePolicy("designated")
	require.NoError(t, err)
	assert.Equal(t, PolicyDesignated, p)

	_, err = ParsePolicy("union")
	assert.Error(t, err)
}

func TestReference(t *testing.T) {
	items := []ir.MediaItem{
		{ID: "img", Kind: ir.KindImage},
		{ID: "v1", Kind: ir.KindVideo, Range: &ir.TimeRange{Start: 0, End: 1}},
		{ID: "v2", Kind: ir.KindVideo, Range: &ir.TimeRange{Start: 3, End: 8}},
	}

	tests := []struct {
		name       string
		items      []ir.MediaItem
		policy     ReferencePolicy
		designated ir.ItemID
		want       *ir.TimeRange
	}{
		{"no items", nil, PolicyFirst, "", nil},
		{"images only", items[:1], PolicyFirst, "", nil},
		{"first video", items, PolicyFirst, "v2", &ir.TimeRange{Start: 0, End: 1}},
		{"designated", items, PolicyDesignated, "v2", &ir.TimeRange{Start: 3, End: 8}},
		{"designated gone", items, PolicyDesignated, "v9", &ir.TimeRange{Start: 0, End: 1}},
		{"designated image", items, PolicyDesignated, "img", &ir.TimeRange{Start: 0, End: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reference(tt.items, tt.policy, tt.designated))
		})
	}
}
