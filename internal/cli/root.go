// Package cli implements the layerdeck command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/layerdeck/internal/config"
	"github.com/roach88/layerdeck/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	ConfigDir string

	// Viper merges the config file, LAYERDECK_* env and flags.
	Viper *viper.Viper
	// Engine is the resolved configuration, set before any command runs.
	Engine engine.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the layerdeck CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Viper: config.New()})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layerdeck",
		Short: "layerdeck - layered media canvas with a shared playhead",
		Long: `Compose images and time-windowed videos on a canvas driven by one
virtual playhead. Scenes script uploads, drags, form edits and clock ticks;
every change produces a draw list frame.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(cmd, opts.Verbose)
			setupColor(cmd)

			var dirs []string
			if opts.ConfigDir != "" {
				dirs = append(dirs, opts.ConfigDir)
			}
			cfg, err := config.Load(opts.Viper, dirs...)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Engine = cfg
			slog.Debug("config loaded",
				"file", opts.Viper.ConfigFileUsed(),
				"canvas_width", cfg.Canvas.Width,
				"canvas_height", cfg.Canvas.Height,
				"policy", cfg.Policy,
			)
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigDir, "config-dir", "", "directory containing "+config.FileName+".yaml")
	pf.Float64("canvas-width", 0, "canvas width in pixels")
	pf.Float64("canvas-height", 0, "canvas height in pixels")
	pf.Duration("interval", 0, "wall-clock time between playhead ticks")
	pf.Duration("quantum", 0, "playhead advance per tick")
	pf.String("reference", "", "reference video policy (first|designated)")

	bindFlag(opts.Viper, cmd, config.KeyCanvasWidth, "canvas-width")
	bindFlag(opts.Viper, cmd, config.KeyCanvasHeight, "canvas-height")
	bindFlag(opts.Viper, cmd, config.KeyPlayheadInterval, "interval")
	bindFlag(opts.Viper, cmd, config.KeyPlayheadQuantum, "quantum")
	bindFlag(opts.Viper, cmd, config.KeyPlayheadReference, "reference")

	// Add subcommands
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewLiveCommand(opts))

	return cmd
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	// Only errors for a nil flag, which would be a typo above.
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

// setupLogging routes slog to stderr; --verbose enables debug records.
func setupLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// setupColor disables ANSI colour unless stdout is a terminal.
func setupColor(cmd *cobra.Command) {
	f, ok := cmd.OutOrStdout().(*os.File)
	color.NoColor = !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
