package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_Text(t *testing.T) {
	out, _, err := execute(t, "", "play", scenePath("image_and_video_visibility"))
	require.NoError(t, err)

	assert.Contains(t, out, "playhead 15.0s (stopped)")
	assert.Contains(t, out, "still.png")
	assert.Contains(t, out, "2*")
	assert.Contains(t, out, "VISIBLE")
}

func TestPlay_Frames(t *testing.T) {
	out, _, err := execute(t, "", "play", "--frames", scenePath("snap_at_range_end"))
	require.NoError(t, err)

	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "0.9s")
	assert.Contains(t, out, "running")
}

func TestPlay_JSON(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "play", "--frames", scenePath("snap_at_range_end"))
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   PlayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Pass)
	assert.Equal(t, "snap_at_range_end", resp.Data.Scene)
	assert.Len(t, resp.Data.Frames, 13)
	assert.Equal(t, "stopped", resp.Data.Final.State)
}

func TestPlay_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "play", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPlay_FailedExpectation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad
description: wrong expectation
steps:
  - upload: {kind: image, source: a.png}
assertions:
  - layers: 2
`), 0o644))

	out, _, err := execute(t, "", "play", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "layers: want 2, got 1")
}

func TestPlay_InvalidScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\ndescription: y\nsteps:\n  - tick: 0\n"), 0o644))

	out, _, err := execute(t, "", "play", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeInvalidScene)
}
