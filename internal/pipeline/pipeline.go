// Package pipeline runs the stages of a firlower run over one circuit: load,
// verify, lower, check and emit.
package pipeline

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/colors"
	"github.com/stellaraccident/circt/internal/compctx"
	"github.com/stellaraccident/circt/internal/typelower"
)

// ErrFailed is wrapped by the error of a run that reported errors.
var ErrFailed = errors.New("lowering failed")

// Pipeline coordinates the stages of a run
type Pipeline struct {
	ctx *compctx.CompilerContext

	// Out receives the lowered circuit when the output setting is "-".
	Out io.Writer

	// Lowering is the result of the lowering stage, nil until it ran.
	Lowering *typelower.Result
}

// New creates a new pipeline
func New(ctx *compctx.CompilerContext) *Pipeline {
	return &Pipeline{ctx: ctx, Out: os.Stdout}
}

// Run executes every stage in order and stops at the first one that reports
// errors. A circuit already set on the context is used instead of loading
// the input file.
func (p *Pipeline) Run() error {
	p.banner(1, "Load")
	if err := p.runLoadPhase(); err != nil {
		return err
	}

	if p.ctx.Config.Verify {
		p.banner(2, "Verify")
		if err := p.runVerifyPhase(); err != nil {
			return err
		}
	}

	p.banner(3, "Lower Types")
	if err := p.runLowerPhase(); err != nil {
		return err
	}

	if p.ctx.Config.CheckLowered {
		p.banner(4, "Check Lowered")
		if err := p.runCheckPhase(); err != nil {
			return err
		}
	}

	p.banner(5, "Emit")
	if err := p.runEmitPhase(); err != nil {
		return err
	}

	if p.ctx.Debug() {
		colors.GREEN.Printf("\n✓ Lowering successful! (%d modules)\n", p.ctx.ModuleCount())
	}
	return nil
}

func (p *Pipeline) banner(n int, name string) {
	if p.ctx.Debug() {
		colors.CYAN.Printf("\n[Phase %d] %s\n", n, name)
	}
}

// failIfErrors returns an error naming stage when diagnostics so far contain
// an error.
func (p *Pipeline) failIfErrors(stage string) error {
	if p.ctx.HasErrors() {
		return errors.Wrapf(ErrFailed, "%s: %d error(s)", stage, p.ctx.Diagnostics.ErrorCount())
	}
	return nil
}
