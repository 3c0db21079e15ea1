package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scene is a scripted canvas session with expectations.
type Scene struct {
	// Name uniquely identifies this scene and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scene demonstrates.
	Description string `yaml:"description"`

	// Canvas overrides the canvas size.
	Canvas *Size `yaml:"canvas,omitempty"`

	// Policy overrides the reference video policy ("first" or "designated").
	Policy string `yaml:"policy,omitempty"`

	// IDs are handed out to uploads in order. Missing ids fall back to
	// "item-N".
	IDs []string `yaml:"ids,omitempty"`

	// Steps run in order against one engine.
	Steps []Step `yaml:"steps"`

	// Assertions are checked against the final frame.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Step is one user or clock input. Exactly one operation field is set.
type Step struct {
	Upload    *UploadStep `yaml:"upload,omitempty"`
	Remove    string      `yaml:"remove,omitempty"`
	Select    string      `yaml:"select,omitempty"`
	Designate string      `yaml:"designate,omitempty"`
	Resize    *ResizeStep `yaml:"resize,omitempty"`
	Retime    *RetimeStep `yaml:"retime,omitempty"`
	Drag      *DragStep   `yaml:"drag,omitempty"`
	Seek      *float64    `yaml:"seek,omitempty"`
	Canvas    *Size       `yaml:"canvas,omitempty"`
	Toggle    bool        `yaml:"toggle,omitempty"`
	// Tick fires the tick source up to N times, stopping early once
	// playback stops.
	Tick int `yaml:"tick,omitempty"`

	// ExpectError names the rejection this step must produce.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Expect is checked against the frame after this step.
	Expect *Assertion `yaml:"expect,omitempty"`
}

// UploadStep adds a media item. Kind is a kind name or MIME type.
type UploadStep struct {
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
}

// ResizeStep sets an item's dimensions.
type ResizeStep struct {
	ID     string  `yaml:"id"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RetimeStep sets a video's time range.
type RetimeStep struct {
	ID    string  `yaml:"id"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// DragStep moves an item by a delta.
type DragStep struct {
	ID string  `yaml:"id"`
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

// Op returns the name of the step's operation, or "" if none is set.
func (s Step) Op() string {
	ops := s.ops()
	if len(ops) != 1 {
		return ""
	}
	return ops[0]
}

func (s Step) ops() []string {
	var ops []string
	add := func(set bool, name string) {
		if set {
			ops = append(ops, name)
		}
	}
	add(s.Upload != nil, "upload")
	add(s.Remove != "", "remove")
	add(s.Select != "", "select")
	add(s.Designate != "", "designate")
	add(s.Resize != nil, "resize")
	add(s.Retime != nil, "retime")
	add(s.Drag != nil, "drag")
	add(s.Seek != nil, "seek")
	add(s.Canvas != nil, "canvas")
	add(s.Toggle, "toggle")
	add(s.Tick > 0, "tick")
	return ops
}

// LoadScene reads, decodes and validates a scene file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), violates the schema, or has a step with zero or
// several operations.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return ParseScene(data, path)
}

// ParseScene decodes and validates scene YAML. file is used only for
// error messages.
func ParseScene(data []byte, file string) (*Scene, error) {
	var scene Scene
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scene); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateSchema(data, file); err != nil {
		return nil, err
	}

	if err := validateScene(&scene); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &scene, nil
}

// LoadDir loads every *.yaml and *.yml scene in dir, sorted by file name.
func LoadDir(dir string) ([]*Scene, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenes := make([]*Scene, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScene(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// validateScene checks the rules the schema cannot express.
func validateScene(s *Scene) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		ops := step.ops()
		switch len(ops) {
		case 0:
			return fmt.Errorf("steps[%d]: no operation", i)
		case 1:
		default:
			return fmt.Errorf("steps[%d]: exactly one operation allowed, got %v", i, ops)
		}
		if step.ExpectError != "" {
			if _, ok := errorCodes[step.ExpectError]; !ok {
				return fmt.Errorf("steps[%d]: unknown expect_error %q", i, step.ExpectError)
			}
		}
	}
	return nil
}
