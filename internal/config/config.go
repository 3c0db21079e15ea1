// Package config loads canvas settings from .layerdeck.yaml, LAYERDECK_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/layerdeck/internal/engine"
	"github.com/roach88/layerdeck/internal/layout"
	"github.com/roach88/layerdeck/internal/playhead"
	"github.com/roach88/layerdeck/internal/store"
)

const (
	// FileName is the config file base name; .yaml is implicit.
	FileName = ".layerdeck"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LAYERDECK"
	// EnvConfigPath names an extra directory to search for the config file.
	EnvConfigPath = "LAYERDECK_CONFIG_PATH"
)

// Keys.
const (
	KeyCanvasWidth       = "canvas.width"
	KeyCanvasHeight      = "canvas.height"
	KeyPlayheadInterval  = "playhead.interval"
	KeyPlayheadQuantum   = "playhead.quantum"
	KeyPlayheadReference = "playhead.reference"
	KeyMediaWidth        = "media.width"
	KeyMediaHeight       = "media.height"
	KeyMediaRangeEnd     = "media.range_end"
)

// ErrInvalid reports a setting outside its domain.
var ErrInvalid = errors.New("invalid config")

// New returns a viper instance carrying the defaults and environment
// bindings. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyCanvasWidth, layout.DefaultCanvasWidth)
	v.SetDefault(KeyCanvasHeight, layout.DefaultCanvasHeight)
	v.SetDefault(KeyPlayheadInterval, playhead.DefaultInterval)
	v.SetDefault(KeyPlayheadQuantum, playhead.DefaultQuantum)
	v.SetDefault(KeyPlayheadReference, string(playhead.PolicyFirst))
	v.SetDefault(KeyMediaWidth, store.DefaultWidth)
	v.SetDefault(KeyMediaHeight, store.DefaultHeight)
	v.SetDefault(KeyMediaRangeEnd, store.DefaultRangeEnd)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, from dirs (default: LAYERDECK_CONFIG_PATH
// then the working directory) and returns the engine configuration.
// A missing file is not an error.
func Load(v *viper.Viper, dirs ...string) (engine.Config, error) {
	if len(dirs) == 0 {
		if override := os.Getenv(EnvConfigPath); override != "" {
			dirs = append(dirs, override)
		}
		dirs = append(dirs, ".")
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return engine.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Decode(v)
}

// Decode converts the current viper state into an engine configuration.
func Decode(v *viper.Viper) (engine.Config, error) {
	policy, err := playhead.ParsePolicy(v.GetString(KeyPlayheadReference))
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w: %v", KeyPlayheadReference, ErrInvalid, err)
	}

	cfg := engine.Config{
		Canvas: layout.Bounds{
			Width:  v.GetFloat64(KeyCanvasWidth),
			Height: v.GetFloat64(KeyCanvasHeight),
		},
		Interval: v.GetDuration(KeyPlayheadInterval),
		Quantum:  v.GetDuration(KeyPlayheadQuantum),
		Policy:   policy,
		Defaults: store.Defaults{
			Width:    v.GetFloat64(KeyMediaWidth),
			Height:   v.GetFloat64(KeyMediaHeight),
			RangeEnd: v.GetFloat64(KeyMediaRangeEnd),
		},
	}

	if !cfg.Canvas.Valid() {
		return engine.Config{}, fmt.Errorf("canvas %vx%v: %w", cfg.Canvas.Width, cfg.Canvas.Height, ErrInvalid)
	}
	if cfg.Interval <= 0 {
		return engine.Config{}, fmt.Errorf("%s %v: %w", KeyPlayheadInterval, cfg.Interval, ErrInvalid)
	}
	if cfg.Quantum <= 0 {
		return engine.Config{}, fmt.Errorf("%s %v: %w", KeyPlayheadQuantum, cfg.Quantum, ErrInvalid)
	}
	d := cfg.Defaults
	if d.Width <= 0 || d.Height <= 0 || d.RangeEnd <= 0 {
		return engine.Config{}, fmt.Errorf("media defaults %vx%v range_end %v: %w", d.Width, d.Height, d.RangeEnd, ErrInvalid)
	}
	return cfg, nil
}
