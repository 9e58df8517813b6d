// Package typelower rewrites every aggregate-typed port, declaration and
// expression of a circuit into ground-typed leaves.
//
// Each top-level declaration is lowered by an independent task with its own
// lowering context. Tasks never read another declaration's state: instance
// results are flattened from their own types, and flattening is a pure
// function of the type, so a module and all of its instances agree on the
// lowered port list whatever order the tasks run in.
package typelower

import (
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/phase"
)

// Options configures a run of the pass.
type Options struct {
	// Parallel lowers declarations concurrently. The result is identical
	// either way.
	Parallel bool
	// Workers bounds the number of concurrent tasks; 0 means GOMAXPROCS.
	Workers int
	Logger  zerolog.Logger
	// Diagnostics receives every diagnostic, in declaration order.
	Diagnostics diagnostics.Reporter
}

// Stats counts what the pass did. Tasks update it concurrently.
type Stats struct {
	Decls    atomic.Uint64
	Failed   atomic.Uint64
	Leaves   atomic.Uint64 // ground values created from aggregates
	Memories atomic.Uint64 // memories synthesized from memory leaves
}

// Result is the outcome of Run.
type Result struct {
	Stats *Stats
	// Tracker is keyed by declaration position in the circuit.
	Tracker *phase.Tracker
}

// Run lowers every declaration of c and installs the results in place. A
// declaration whose lowering fails is still replaced by its best-effort
// lowering, and its failure is part of the returned error; the other
// declarations are unaffected.
func Run(c *ir.Circuit, opts Options) (*Result, error) {
	res := &Result{Stats: &Stats{}, Tracker: phase.NewTracker()}
	ordered := diagnostics.NewOrderedBag()
	decls := make([]ir.Decl, len(c.Decls))
	errs := make([]error, len(c.Decls))

	lowerOne := func(i int) {
		d := c.Decls[i]
		log := opts.Logger.With().Str("module", d.DeclName()).Int("order", i).Logger()
		t := &task{
			lowering: newLowering(d.DeclName(), log, ordered.Sink(i), res.Stats),
			decl:     d,
			order:    i,
			tracker:  res.Tracker,
		}
		decls[i], errs[i] = t.run()
	}

	if opts.Parallel && len(c.Decls) > 1 {
		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range c.Decls {
			i := i
			g.Go(func() error {
				lowerOne(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range c.Decls {
			lowerOne(i)
		}
	}

	copy(c.Decls, decls)
	if opts.Diagnostics != nil {
		ordered.Flush(opts.Diagnostics)
	}

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	opts.Logger.Debug().
		Uint64("decls", res.Stats.Decls.Load()).
		Uint64("failed", res.Stats.Failed.Load()).
		Uint64("leaves", res.Stats.Leaves.Load()).
		Uint64("memories", res.Stats.Memories.Load()).
		Msg("lowered types")
	return res, result.ErrorOrNil()
}
