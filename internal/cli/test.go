package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/layerdeck/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scene filter (glob pattern)
}

// SceneResult holds the result of a single scene execution.
type SceneResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Frames int      `json:"frames"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "" when absent
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenes []SceneResult `json:"scenes"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenes-dir>",
		Short: "Run every scene in a directory",
		Long: `Run every scene file in a directory, checking expectations and,
where <scenes-dir>/golden/<name>.golden exists, the canonical frame trace.

Exit codes:
  0 - All scenes passed
  1 - One or more scenes failed
  2 - Command error (invalid paths, etc.)

Examples:
  layerdeck test ./scenes
  layerdeck test ./scenes --filter "snap*"
  layerdeck test ./scenes --update
  layerdeck test ./scenes --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenes by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenes directory not found: %s", dir))
	}

	files, err := findSceneFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenes", err)
	}

	result := TestResult{Scenes: make([]SceneResult, 0, len(files)), Total: len(files)}
	if len(files) == 0 {
		if formatter.IsJSON() {
			return formatter.JSON(CLIResponse{Status: "ok", Data: result})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenes found.")
		return nil
	}

	for _, f := range files {
		sr := runScene(f, opts)
		formatter.VerboseLog("%s: %d frame(s)", f, sr.Frames)
		if !formatter.IsJSON() {
			writeSceneResult(cmd.OutOrStdout(), sr)
		}
		result.Scenes = append(result.Scenes, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if formatter.IsJSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeTestFailed,
				Message: fmt.Sprintf("%d scene(s) failed", result.Failed),
			}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
		if result.Failed == 0 {
			fmt.Fprintf(w, "%s All scenes passed\n", passMark())
		}
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scene(s) failed", result.Failed))
	}
	return nil
}

// findSceneFiles lists YAML files directly in dir, optionally filtered by
// a glob on the base name without extension.
func findSceneFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(e.Name(), ext))
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// runScene loads, runs and golden-checks one scene file.
func runScene(path string, opts *TestOptions) SceneResult {
	scene, err := harness.LoadScene(path)
	if err != nil {
		return SceneResult{
			Name:   filepath.Base(path),
			Errors: []string{fmt.Sprintf("failed to load scene: %v", err)},
		}
	}

	result, err := harness.RunWithConfig(scene, opts.Engine)
	if err != nil {
		return SceneResult{
			Name:   scene.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	sr := SceneResult{
		Name:   scene.Name,
		Pass:   result.Pass,
		Frames: len(result.Trace),
		Errors: result.Errors,
	}

	trace, err := harness.MarshalTrace(scene.Name, result)
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to marshal trace: %v", err))
		return sr
	}

	goldenPath := goldenFilePath(path)
	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to create golden directory: %v", err))
			return sr
		}
		if err := os.WriteFile(goldenPath, trace, 0o644); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to write golden file: %v", err))
			return sr
		}
		sr.Golden = "updated"
		return sr
	}

	want, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// Expectation-only scene.
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
	case !bytes.Equal(want, trace):
		sr.Pass = false
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
	default:
		sr.Golden = "match"
	}
	return sr
}

// goldenFilePath returns <dir>/golden/<name>.golden for a scene file.
func goldenFilePath(sceneFile string) string {
	base := filepath.Base(sceneFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(sceneFile), "golden", name+".golden")
}

func writeSceneResult(w io.Writer, sr SceneResult) {
	if sr.Pass {
		note := ""
		if sr.Golden != "" {
			note = faint(" (golden " + sr.Golden + ")")
		}
		fmt.Fprintf(w, "%s %s%s\n", passMark(), sr.Name, note)
		return
	}
	fmt.Fprintf(w, "%s %s\n", failMark(), sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
