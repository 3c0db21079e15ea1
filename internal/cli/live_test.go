package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/layerdeck/internal/engine"
	"github.com/roach88/layerdeck/internal/ir"
	"github.com/roach88/layerdeck/internal/store"
	"github.com/roach88/layerdeck/internal/testutil"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want engine.Event
	}{
		{"upload video clip.mp4", engine.Upload(ir.KindVideo, "clip.mp4")},
		{"upload image/png a.png", engine.Upload(ir.KindImage, "a.png")},
		{"select a", engine.Select("a")},
		{"remove a", engine.Remove("a")},
		{"designate v", engine.Designate("v")},
		{"drag a 10 -5.5", engine.Drag("a", 10, -5.5)},
		{"resize a 100 50", engine.Resize("a", 100, 50)},
		{"retime v 1 2.5", engine.Retime("v", 1, 2.5)},
		{"canvas 800 600", engine.Canvas(800, 600)},
		{"seek 3.2", engine.Seek(3.2)},
		{"toggle", engine.Toggle()},
		{"  PLAY  ", engine.Toggle()},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, err := ParseCommand(tt.line)
			require.NoError(t, err)
			require.NotNil(t, ev)
			assert.Equal(t, tt.want, *ev)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{
		"upload audio song.mp3",
		"upload video",
		"drag a x 1",
		"seek",
		"toggle now",
		"fly away",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseCommand(line)
			assert.Error(t, err)
		})
	}
}

func TestParseCommand_BlankAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "# note"} {
		ev, err := ParseCommand(line)
		assert.NoError(t, err)
		assert.Nil(t, ev)
	}

	_, err := ParseCommand("quit")
	assert.ErrorIs(t, err, errQuit)
}

func TestLive_Session(t *testing.T) {
	stdin := "upload image a.png\n" +
		"toggle\n" +
		"bogus\n" +
		"canvas 800 600\n" +
		"quit\n" +
		"upload image ignored.png\n"

	out, errOut, err := execute(t, stdin, "live")
	require.NoError(t, err)

	assert.Contains(t, out, "#1 0.0s stopped layers=1")
	assert.Contains(t, out, "#2 0.0s stopped layers=1")
	assert.NotContains(t, out, "#3")
	assert.Contains(t, errOut, `unknown command "bogus"`)
}

func TestLive_EOFEndsSession(t *testing.T) {
	out, _, err := execute(t, "upload video v.mp4\n", "live")
	require.NoError(t, err)
	assert.Contains(t, out, "layers=1")
}

func TestFramePrinter_PrintsRetime(t *testing.T) {
	eng := engine.New(engine.DefaultConfig(),
		engine.WithIDGenerator(store.NewFixedGenerator("v")),
		engine.WithTickSource(testutil.NewManualSource()),
	)
	t.Cleanup(eng.Close)

	var buf bytes.Buffer
	p := &framePrinter{w: &buf, json: true}
	eng.Subscribe(p.print)

	_, err := eng.Dispatch(engine.Upload(ir.KindVideo, "v.mp4"))
	require.NoError(t, err)
	_, err = eng.Dispatch(engine.Retime("v", 0, 5))
	require.NoError(t, err)
	_, err = eng.Dispatch(engine.Seek(0))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "retime is printed, repeated seek is not")
	assert.Contains(t, lines[1], `"end":5`)
}
