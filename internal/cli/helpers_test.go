package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const scenesDir = "../harness/testdata/scenes"

func scenePath(name string) string {
	return filepath.Join(scenesDir, name+".yaml")
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// copyScene copies a fixture scene into dir.
func copyScene(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(scenePath(name))
	require.NoError(t, err)
	dst := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(dst, data, 0o644))
	return dst
}
