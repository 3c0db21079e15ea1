package harness

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// SchemaError reports a scene that does not satisfy the scene schema.
// Message carries the CUE path of the offending field.
type SchemaError struct {
	File    string
	Message string
	// Count is the number of schema violations; only the first is reported.
	Count int
}

func (e *SchemaError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	sceneDef   cue.Value
	schemaErr  error
)

func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling scene schema: %w", err)
			return
		}
		sceneDef = v.LookupPath(cue.ParsePath("#Scene"))
		if err := sceneDef.Err(); err != nil {
			schemaErr = fmt.Errorf("looking up #Scene: %w", err)
		}
	})
	return schemaCtx, sceneDef, schemaErr
}

// ValidateSchema checks raw scene YAML against the embedded CUE schema.
// file is used only for error messages.
func ValidateSchema(data []byte, file string) error {
	ctx, def, err := loadSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return &SchemaError{File: file, Message: "empty scene"}
	}

	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return formatCUEError(file, err)
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(file, err)
	}
	return nil
}

// formatCUEError keeps the first CUE error. Positions point into the
// embedded schema rather than the scene, so only the path is kept.
func formatCUEError(file string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &SchemaError{File: file, Message: err.Error(), Count: 1}
	}
	return &SchemaError{File: file, Message: errs[0].Error(), Count: len(errs)}
}
