package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/layerdeck/internal/harness"
)

// FileValidation is the validation outcome of one scene file.
type FileValidation struct {
	File  string `json:"file"`
	Scene string `json:"scene,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scene.yaml>...",
		Short: "Check scene files without running them",
		Long: `Validate scene files: strict YAML decoding, the embedded CUE scene
schema, and one operation per step. Nothing is executed.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, p := range paths {
		fv := FileValidation{File: p, Valid: true}
		scene, err := harness.LoadScene(p)
		if err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Scene = scene.Name
			formatter.VerboseLog("%s: %d step(s), %d assertion(s)", p, len(scene.Steps), len(scene.Assertions))
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.IsJSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeInvalidScene, Message: "one or more scenes are invalid"}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "%s %s (%s)\n", passMark(), fv.File, fv.Scene)
			} else {
				fmt.Fprintf(w, "%s %s\n  %s\n", failMark(), fv.File, fv.Error)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
