package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/layerdeck/internal/ir"
)

// IDGenerator produces item identifiers.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Generate() ir.ItemID
}

// UUIDv7Generator generates time-sortable UUIDv7 item ids, so ids sort in
// upload order when inspected in logs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() ir.ItemID {
	return ir.ItemID(uuid.Must(uuid.NewV7()).String())
}

// FixedGenerator returns predetermined ids, then falls back to a counter
// ("item-N") once the list is exhausted.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []ir.ItemID
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	g := &FixedGenerator{ids: make([]ir.ItemID, len(ids))}
	for i, id := range ids {
		g.ids[i] = ir.ItemID(id)
	}
	return g
}

// Generate returns the next predetermined id.
func (g *FixedGenerator) Generate() ir.ItemID {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if g.idx <= len(g.ids) {
		return g.ids[g.idx-1]
	}
	return ir.ItemID(fmt.Sprintf("item-%d", g.idx))
}
