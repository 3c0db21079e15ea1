package engine

import "sync/atomic"

// Sequencer stamps frames with strictly increasing numbers so consumers can
// order them and detect gaps. Logical, never wall-clock.
//
// Thread-safety: Sequencer is safe for concurrent use (atomic operations).
type Sequencer struct {
	seq atomic.Int64
}

// NewSequencer creates a sequencer whose first Next() returns 1.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next returns the next sequence number.
func (s *Sequencer) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last issued number without incrementing.
func (s *Sequencer) Current() int64 {
	return s.seq.Load()
}
