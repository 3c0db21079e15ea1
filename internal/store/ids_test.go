package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/layerdeck/internal/ir"
)

func TestUUIDv7Generator_Format(t *testing.T) {
	id := UUIDv7Generator{}.Generate()

	parsed, err := uuid.Parse(string(id))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Len(t, string(id), 36)
}

func TestFixedGenerator_ThenCounter(t *testing.T) {
	g := NewFixedGenerator("a", "b")

	assert.Equal(t, ir.ItemID("a"), g.Generate())
	assert.Equal(t, ir.ItemID("b"), g.Generate())
	assert.Equal(t, ir.ItemID("item-3"), g.Generate())
}
