// Package loader reads circuit documents written in YAML, validates them
// against an embedded CUE schema and builds the IR graph they describe.
package loader

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/source"
)

// ErrInvalidCircuit is wrapped by the error of every load that reported an
// error diagnostic.
var ErrInvalidCircuit = errors.New("invalid circuit document")

// Loader turns circuit documents into circuits. Problems with the document
// are reported as diagnostics.
type Loader struct {
	validator *Validator
	diags     diagnostics.Reporter
	log       zerolog.Logger
}

// New creates a loader reporting to diags.
func New(diags diagnostics.Reporter, log zerolog.Logger) (*Loader, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Loader{validator: v, diags: diags, log: log}, nil
}

// LoadFile reads and loads the document at path.
func (l *Loader) LoadFile(path string) (*ir.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return l.Load(path, data)
}

// Load builds the circuit described by data. name is used in locations. On
// failure the returned error wraps ErrInvalidCircuit; a circuit is still
// returned when the document got as far as construction.
func (l *Loader) Load(name string, data []byte) (*ir.Circuit, error) {
	fileLoc := source.Location{Filename: name}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		l.diags.Add(diagnostics.InvalidInput(fileLoc, err.Error()))
		return nil, errors.Wrapf(ErrInvalidCircuit, "%s: malformed YAML", name)
	}
	if msgs := l.validator.Validate(normalize(raw)); len(msgs) > 0 {
		for _, msg := range msgs {
			l.diags.Add(diagnostics.SchemaViolation(msg))
		}
		return nil, errors.Wrapf(ErrInvalidCircuit, "%s: %d schema violation(s)", name, len(msgs))
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		l.diags.Add(diagnostics.InvalidInput(fileLoc, err.Error()))
		return nil, errors.Wrapf(ErrInvalidCircuit, "%s: malformed document", name)
	}

	cb := &circuitBuilder{file: fileLoc, diags: l.diags, decls: make(map[string]ir.Decl)}
	c := cb.build(&doc)
	if cb.errors > 0 {
		return c, errors.Wrapf(ErrInvalidCircuit, "%s: %d error(s)", name, cb.errors)
	}

	l.log.Debug().
		Str("file", name).
		Str("circuit", c.Name).
		Int("decls", len(c.Decls)).
		Msg("circuit loaded")
	return c, nil
}
