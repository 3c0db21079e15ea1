package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/layerdeck/internal/ir"
)

func setupTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	return New(WithIDGenerator(NewFixedGenerator(ids...)))
}

func mustAdd(t *testing.T, s *Store, kind ir.MediaKind, source string) ir.ItemID {
	t.Helper()
	id, err := s.Add(kind, source)
	require.NoError(t, err)
	return id
}
