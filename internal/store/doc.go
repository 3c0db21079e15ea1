// Package store holds the ordered collection of media layers placed on the
// canvas.
//
// The store is the single source of truth for layer attributes. Other
// packages never mutate items directly; they call the command methods
// (Add, Remove, UpdateDimensions, UpdateTimeRange, Move, Select) so the
// invariants below are enforced in one place.
//
// # Invariants
//
//   - Item IDs are unique for the lifetime of the store
//   - Store order is insertion order; later items paint above earlier ones
//   - Video ranges satisfy 0 <= start <= end with finite bounds
//   - At most one item is selected; selection is a pointer held by the
//     store, never a flag on the item
//   - Removing the selected item selects the first remaining item, or
//     clears the selection when the store becomes empty
//
// # Threading
//
// Store is not safe for concurrent use. It is owned by the engine's
// single-writer loop; everything else sees copies.
package store
