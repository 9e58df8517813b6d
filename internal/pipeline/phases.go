package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/colors"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/loader"
	"github.com/stellaraccident/circt/internal/typelower"
	"github.com/stellaraccident/circt/internal/verify"
)

func (p *Pipeline) runLoadPhase() error {
	if p.ctx.Circuit != nil {
		return nil
	}
	if p.ctx.InputPath == "" {
		p.ctx.ReportError("no input circuit", nil)
		return p.failIfErrors("load")
	}

	l, err := loader.New(p.ctx.Diagnostics, p.ctx.Logger)
	if err != nil {
		return errors.Wrap(err, "load")
	}
	c, err := l.LoadFile(p.ctx.InputPath)
	if err != nil && !errors.Is(err, loader.ErrInvalidCircuit) {
		p.ctx.ReportError(err.Error(), nil)
	}
	if err := p.failIfErrors("load"); err != nil {
		return err
	}
	p.ctx.Circuit = c

	if p.ctx.Debug() {
		colors.PURPLE.Printf("  ✓ %s (%d modules)\n", c.Name, p.ctx.ModuleCount())
	}
	return nil
}

func (p *Pipeline) runVerifyPhase() error {
	if err := p.ctx.BuildInstanceGraph(); err != nil {
		p.ctx.ReportError(err.Error(), &p.ctx.Circuit.Location)
		return p.failIfErrors("verify")
	}
	verify.Circuit(p.ctx.Circuit, p.ctx.Diagnostics)

	if p.ctx.Debug() {
		for _, name := range p.ctx.ModuleOrder() {
			colors.PURPLE.Printf("  ✓ %s\n", name)
		}
	}
	return p.failIfErrors("verify")
}

func (p *Pipeline) runLowerPhase() error {
	cfg := p.ctx.Config
	res, err := typelower.Run(p.ctx.Circuit, typelower.Options{
		Parallel:    cfg.Parallel,
		Workers:     cfg.WorkerLimit(),
		Logger:      p.ctx.Logger,
		Diagnostics: p.ctx.Diagnostics,
	})
	p.Lowering = res

	if p.ctx.Debug() {
		for i, d := range p.ctx.Circuit.Decls {
			colors.PURPLE.Printf("  ✓ %s (%s)\n", d.DeclName(), res.Tracker.Get(i))
		}
	}
	if err != nil {
		return errors.Wrap(err, "lower types")
	}
	return p.failIfErrors("lower types")
}

func (p *Pipeline) runCheckPhase() error {
	verify.Lowered(p.ctx.Circuit, p.ctx.Diagnostics)
	return p.failIfErrors("check lowered")
}

func (p *Pipeline) runEmitPhase() error {
	switch out := p.ctx.Config.Output; out {
	case "":
		return nil
	case "-":
		_, err := fmt.Fprint(p.Out, ir.FormatCircuit(p.ctx.Circuit))
		return errors.Wrap(err, "emit")
	default:
		if err := ir.WriteCircuitFile(p.ctx.Circuit, out); err != nil {
			return errors.Wrapf(err, "emit %s", out)
		}
		p.ctx.Logger.Debug().Str("file", out).Msg("lowered circuit written")
		return nil
	}
}
