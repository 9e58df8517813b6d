package loader

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pkg/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// Validator checks decoded circuit documents against the embedded schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, errors.Wrap(err, "loading embedded schema")
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, errors.Wrap(schema.Err(), "compiling schema")
	}

	return &Validator{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Circuit")),
	}, nil
}

// Validate returns one message per schema violation in data, which must be a
// JSON-compatible value. A nil result means data conforms.
func (v *Validator) Validate(data interface{}) []string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return []string{fmt.Sprintf("compile error: %v", dataValue.Err())}
	}

	unified := v.schema.Unify(dataValue)
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []string
	for _, e := range cueerrors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}

// normalize converts the generic values produced by the YAML decoder into
// values encoding/json accepts: mapping keys become strings.
func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
