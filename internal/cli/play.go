package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/layerdeck/internal/compositor"
	"github.com/roach88/layerdeck/internal/harness"
	"github.com/roach88/layerdeck/internal/ir"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Frames bool // print every frame, not just the final draw list
}

// PlayResult is the JSON payload of the play command.
type PlayResult struct {
	Scene  string               `json:"scene"`
	Pass   bool                 `json:"pass"`
	Errors []string             `json:"errors,omitempty"`
	Frames []harness.TraceFrame `json:"frames,omitempty"`
	Final  compositor.Frame     `json:"final"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <scene.yaml>",
		Short: "Run a scene and print its draw list",
		Long: `Run a scene script against a fresh canvas and print the resulting
draw list. Ticks are simulated, so playback runs instantly.

Exit codes:
  0 - Scene ran and every expectation held
  1 - Scene is invalid or an expectation failed
  2 - Command error (file not found, etc.)

Examples:
  layerdeck play scenes/snap.yaml
  layerdeck play scenes/snap.yaml --frames
  layerdeck play scenes/snap.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Frames, "frames", false, "print every published frame")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scene, err := harness.LoadScene(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "scene not found", err)
		}
		_ = formatter.Error(ErrCodeInvalidScene, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid scene", err)
	}
	formatter.VerboseLog("Loaded scene %q with %d step(s)", scene.Name, len(scene.Steps))

	result, err := harness.RunWithConfig(scene, opts.Engine)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "scene did not run", err)
	}

	if formatter.IsJSON() {
		out := PlayResult{
			Scene:  scene.Name,
			Pass:   result.Pass,
			Errors: result.Errors,
			Final:  result.Final,
		}
		if opts.Frames {
			out.Frames = result.Trace
		}
		resp := CLIResponse{Status: "ok", Data: out}
		if !result.Pass {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeSceneFailed,
				Message: fmt.Sprintf("%d expectation(s) failed", len(result.Errors)),
			}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		if opts.Frames {
			writeTrace(w, result.Trace)
			fmt.Fprintln(w)
		}
		writeFrame(w, result.Final)
		if !result.Pass {
			fmt.Fprintln(w)
			for _, e := range result.Errors {
				fmt.Fprintf(w, "%s %s\n", failMark(), e)
			}
		}
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scene %s: %d expectation(s) failed", scene.Name, len(result.Errors)))
	}
	return nil
}

// writeTrace prints one row per frame.
func writeTrace(w io.Writer, trace []harness.TraceFrame) {
	tbl := newTable("SEQ", "STEP", "EVENT", "TIME", "STATE", "VISIBLE", "TOP")
	for _, tf := range trace {
		f := tf.Frame
		top := "-"
		if order := f.PaintOrder(); len(order) > 0 {
			top = string(order[len(order)-1].ID)
		}
		tbl.AddRow(f.Seq, tf.Step, tf.Event, f.Label, f.State, joinIDs(f.VisibleIDs()), top)
	}
	fmt.Fprintln(w, tbl)
}

// writeFrame prints the clock readout and the draw list bottom to top.
func writeFrame(w io.Writer, f compositor.Frame) {
	if f.ShowTransport {
		fmt.Fprintf(w, "%s %s (%s)\n", bold("playhead"), f.Label, f.State)
	} else {
		fmt.Fprintf(w, "%s %s\n", bold("playhead"), faint("hidden: no video"))
	}
	if len(f.Layers) == 0 {
		fmt.Fprintln(w, "empty canvas")
		return
	}

	tbl := newTable("Z", "ID", "KIND", "SOURCE", "X", "Y", "W", "H", "RANGE", "VISIBLE")
	for _, l := range f.PaintOrder() {
		id := string(l.ID)
		if l.Selected {
			id += "*"
		}
		rng := "-"
		if l.Range != nil {
			rng = fmt.Sprintf("%s-%s", ir.Decimal(l.Range.Start), ir.Decimal(l.Range.End))
		}
		vis := green("yes")
		if !l.Visible {
			vis = faint("no")
		}
		tbl.AddRow(l.Z, id, l.Kind, l.Source,
			ir.Decimal(l.Rect.X), ir.Decimal(l.Rect.Y),
			ir.Decimal(l.Rect.Width), ir.Decimal(l.Rect.Height),
			rng, vis)
	}
	fmt.Fprintln(w, tbl)
}

func joinIDs(ids []ir.ItemID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
