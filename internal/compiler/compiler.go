// Package compiler is the entry point shared by the command line tool and
// tests: it sets up a context, runs the pipeline and renders diagnostics.
package compiler

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/colors"
	"github.com/stellaraccident/circt/internal/compctx"
	"github.com/stellaraccident/circt/internal/config"
	"github.com/stellaraccident/circt/internal/loader"
	"github.com/stellaraccident/circt/internal/pipeline"
)

type FORMAT int

const (
	ANSI  FORMAT = iota // diagnostics go to stderr
	Plain               // diagnostics are returned in Result.Output without escapes
)

// Options for one run
type Options struct {
	// For file-based input
	InputFile string
	// For in-memory input; takes precedence over InputFile
	Code string
	// Settings; nil uses config.Default()
	Config *config.Config
	// Where the lowered circuit goes when Config.Output is "-"; nil means stdout
	Out io.Writer
	// Log output; nil means stderr
	Log io.Writer
	// Print a run summary after the diagnostics
	Summary   bool
	LogFormat FORMAT
}

// Result of a run
type Result struct {
	Success bool
	Output  string
	Err     error
}

// Compile loads, verifies and lowers a circuit document and returns the result
func Compile(opts *Options) Result {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := compctx.New(cfg, opts.Log)
	ctx.InputPath = opts.InputFile

	var err error
	if opts.Code != "" {
		err = loadCode(ctx, opts.Code)
	}
	p := pipeline.New(ctx)
	if opts.Out != nil {
		p.Out = opts.Out
	}
	if err == nil {
		err = p.Run()
	}
	if err != nil {
		ctx.Logger.Debug().Err(err).Msg("lowering stopped")
	}

	res := Result{Success: err == nil && !ctx.HasErrors(), Err: err}
	switch opts.LogFormat {
	case Plain:
		res.Output = colors.StripANSI(ctx.Diagnostics.EmitAllToString())
		if opts.Summary {
			var sb strings.Builder
			p.PrintSummary(&sb)
			res.Output += colors.StripANSI(sb.String())
		}
	default:
		ctx.EmitDiagnostics()
		if opts.Summary {
			p.PrintSummary(os.Stderr)
		}
	}
	return res
}

// loadCode builds the circuit from an in-memory document.
func loadCode(ctx *compctx.CompilerContext, code string) error {
	l, err := loader.New(ctx.Diagnostics, ctx.Logger)
	if err != nil {
		return err
	}
	c, err := l.Load("<input>", []byte(code))
	if err != nil {
		return errors.Wrap(err, "load")
	}
	ctx.Circuit = c
	return nil
}
