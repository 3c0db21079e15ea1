package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllValid(t *testing.T) {
	out, _, err := execute(t, "", "validate",
		scenePath("snap_at_range_end"),
		scenePath("rejected_inputs"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "(snap_at_range_end)")
	assert.Contains(t, out, "(rejected_inputs)")
}

func TestValidate_ReportsEachInvalidFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: b\ndescription: d\nsteps:\n  - toggle: true\n    tick: 2\n"), 0o644))

	out, _, err := execute(t, "", "--format", "json", "validate", scenePath("snap_at_range_end"), bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Data.Files, 2)
	assert.True(t, resp.Data.Files[0].Valid)
	assert.False(t, resp.Data.Files[1].Valid)
	assert.Contains(t, resp.Data.Files[1].Error, "exactly one operation")
}

func TestValidate_RequiresArgs(t *testing.T) {
	_, _, err := execute(t, "", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
