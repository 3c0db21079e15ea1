// Package ir provides the plain data records shared by every layerdeck
// package: media items, their geometry and time windows, and the canonical
// JSON encoding used to fingerprint composed frames.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Records are values; packages hand out copies, never pointers into the store
//   - Times are seconds (float64) at the edges, time.Duration inside the playhead
//   - Canonical JSON forbids floats, so geometry is rendered as decimal strings
//     before hashing
package ir
