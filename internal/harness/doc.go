// Package harness runs scripted canvas scenes against the real engine.
//
// A scene is a YAML file: an ordered list of steps (upload, drag, toggle,
// tick, ...) plus assertions on the frames the engine composes. Scenes are
// validated twice before they run: strict YAML decoding rejects unknown
// fields, and an embedded CUE schema checks types and bounds.
//
// Execution is deterministic. Item ids come from the scene's ids list
// (store.FixedGenerator) and the tick source is a testutil.ManualSource,
// so "tick: 10" fires exactly ten ticks and no wall clock is involved.
//
// The frame trace of a run can be compared against a golden file with
// AssertGolden; regenerate with
//
//	go test ./internal/harness -update
package harness
