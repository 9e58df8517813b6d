package pipeline

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellaraccident/circt/internal/compctx"
	"github.com/stellaraccident/circt/internal/config"
	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/phase"
	"github.com/stellaraccident/circt/internal/typelower"
)

const topDoc = `circuit: Top
modules:
  - name: Top
    ports:
      - {name: clock, dir: in, type: Clock}
      - {name: io, dir: out, type: "{a: UInt<4>, flip b: UInt<4>}"}
    body:
      - {op: inst, name: child, module: Child}
      - {op: connect, dest: child.clock, src: clock}
      - {op: connect, dest: io, src: child.io}
  - name: Child
    ports:
      - {name: clock, dir: in, type: Clock}
      - {name: io, dir: out, type: "{a: UInt<4>, flip b: UInt<4>}"}
    body:
      - {op: reg, name: r, type: "UInt<4>", clock: clock}
      - {op: connect, dest: r, src: io.b}
      - {op: connect, dest: io.a, src: r}
`

// newContext writes doc to a temporary file and returns a context reading it.
func newContext(t *testing.T, doc string, edit func(*config.Config)) *compctx.CompilerContext {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circuit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg := config.Default()
	if edit != nil {
		edit(cfg)
	}
	ctx := compctx.New(cfg, io.Discard)
	ctx.InputPath = path
	return ctx
}

func run(t *testing.T, ctx *compctx.CompilerContext) (*Pipeline, string, error) {
	t.Helper()
	var out bytes.Buffer
	p := New(ctx)
	p.Out = &out
	err := p.Run()
	return p, out.String(), err
}

func codes(ctx *compctx.CompilerContext) []string {
	var out []string
	for _, d := range ctx.Diagnostics.Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}

func TestPipelineBasic(t *testing.T) {
	ctx := newContext(t, topDoc, nil)
	p, out, err := run(t, ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, ctx.ModuleCount())
	assert.Contains(t, out, "circuit Top :\n")
	assert.Contains(t, out, "    output io_a : UInt<4>\n")
	assert.Contains(t, out, "    input io_b : UInt<4>\n")
	assert.NotContains(t, out, "{")

	require.NotNil(t, p.Lowering)
	assert.Equal(t, 2, p.Lowering.Tracker.Count(phase.PhaseCommitted))
	assert.Equal(t, []string{"Child", "Top"}, ctx.ModuleOrder())
}

func TestPipelineOutputIsStableAcrossModes(t *testing.T) {
	_, parallel, err := run(t, newContext(t, topDoc, nil))
	require.NoError(t, err)
	_, sequential, err := run(t, newContext(t, topDoc, func(c *config.Config) { c.Parallel = false }))
	require.NoError(t, err)
	assert.Equal(t, parallel, sequential)
}

func TestPipelineWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lowered.fir")
	ctx := newContext(t, topDoc, func(c *config.Config) { c.Output = path })
	_, out, err := run(t, ctx)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "module Child :")
}

func TestPipelineStopsAtVerifyErrors(t *testing.T) {
	doc := `circuit: T
modules:
  - name: T
    ports:
      - {name: i, dir: in, type: "UInt<4>"}
      - {name: o, dir: out, type: "UInt<2>"}
    body:
      - {op: connect, dest: o, src: i, loc: "T.scala 3:7"}
`
	ctx := newContext(t, doc, nil)
	p, out, err := run(t, ctx)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Nil(t, p.Lowering)
	assert.Empty(t, out)
	assert.Equal(t, []string{diagnostics.ErrConnectWidth}, codes(ctx))
}

func TestPipelineRejectsRecursiveInstances(t *testing.T) {
	doc := `circuit: A
modules:
  - name: A
    body: [{op: inst, name: b, module: B}]
  - name: B
    body: [{op: inst, name: a, module: A}]
`
	ctx := newContext(t, doc, nil)
	_, _, err := run(t, ctx)
	assert.ErrorIs(t, err, ErrFailed)

	diags := ctx.Diagnostics.Diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "recursive instantiation")
}

func TestPipelineReportsLoweringFailures(t *testing.T) {
	doc := `circuit: T
modules:
  - name: T
    ports:
      - {name: i, dir: in, type: "UInt<2>"}
      - {name: o, dir: out, type: "UInt<4>"}
    body:
      - {op: wire, name: v, type: "UInt<4>[4]"}
      - {op: invalidate, dest: v}
      - {op: connect, dest: o, src: "v[i]"}
  - name: U
    ports:
      - {name: x, dir: in, type: "{p: UInt<1>}"}
`
	ctx := newContext(t, doc, nil)
	p, out, err := run(t, ctx)
	assert.ErrorIs(t, err, typelower.ErrDeclFailed)
	assert.Empty(t, out)

	require.NotNil(t, p.Lowering)
	assert.Equal(t, 1, p.Lowering.Tracker.Count(phase.PhaseFailed))
	assert.Equal(t, 1, p.Lowering.Tracker.Count(phase.PhaseCommitted))
	assert.Equal(t, []string{diagnostics.ErrDynamicIndex}, codes(ctx))
}

func TestPipelineSkipsOptionalChecks(t *testing.T) {
	doc := `circuit: T
extmodules:
  - name: T
    params: {DEPTH: ""}
`
	ctx := newContext(t, doc, func(c *config.Config) {
		c.Verify = false
		c.CheckLowered = false
	})
	_, out, err := run(t, ctx)
	require.NoError(t, err)
	assert.Empty(t, codes(ctx))
	assert.Contains(t, out, "extmodule T :")
}

func TestPipelineReportsUnreadableInput(t *testing.T) {
	ctx := compctx.New(config.Default(), io.Discard)
	ctx.InputPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err := run(t, ctx)
	assert.ErrorIs(t, err, ErrFailed)
	require.Len(t, ctx.Diagnostics.Diagnostics(), 1)
	assert.Contains(t, ctx.Diagnostics.Diagnostics()[0].Message, "missing.yaml")
}

func TestPipelineReportsInvalidDocuments(t *testing.T) {
	ctx := newContext(t, "circuit: 42\n", nil)
	_, _, err := run(t, ctx)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Nil(t, ctx.Circuit)
	assert.NotEmpty(t, codes(ctx))
	for _, code := range codes(ctx) {
		assert.Equal(t, diagnostics.ErrSchemaViolation, code)
	}
}

func TestPrintSummary(t *testing.T) {
	ctx := newContext(t, topDoc, nil)
	p, _, err := run(t, ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	p.PrintSummary(&buf)
	assert.Contains(t, buf.String(), "Circuit: Top\n")
	assert.Contains(t, buf.String(), "Total Modules: 2\n")
	assert.Contains(t, buf.String(), "Committed: 2\n")
	assert.Contains(t, buf.String(), "Errors: 0, Warnings: 0\n")
}
