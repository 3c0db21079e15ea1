package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/layerdeck/internal/ir"
)

// TraceSnapshot is the golden-file form of a run.
type TraceSnapshot struct {
	SceneName string
	Trace     []TraceFrame
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// accepts IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, tf := range s.Trace {
		trace[i] = map[string]any{
			"step":   tf.Step,
			"event":  tf.Event,
			"seq":    tf.Frame.Seq,
			"frame":  tf.Frame.Canonical(),
		}
	}
	return map[string]any{
		"scene": s.SceneName,
		"trace": trace,
	}
}

// MarshalTrace renders a run's trace as canonical JSON.
func MarshalTrace(sceneName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{SceneName: sceneName, Trace: result.Trace}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scene and compares its trace against
// testdata/golden/{scene.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scene *Scene) (*Result, error) {
	t.Helper()

	result, err := Run(scene)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scene.Name, result)
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, sceneName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(sceneName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sceneName, traceJSON)
	return nil
}
