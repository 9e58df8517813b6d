package typelower

import (
	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/flow"
	"github.com/stellaraccident/circt/internal/ir"
)

// lowerConnect rewrites a connection. Ground connections are copied. A bulk
// connection between aggregates becomes one connection per leaf pair, with
// each pair oriented by the flow of its leaves: a leaf reached through a flip
// drives its partner.
func (l *lowering) lowerConnect(op *ir.ConnectOp) {
	if !needsLowering(op.Dest.ValueType()) && !needsLowering(op.Src.ValueType()) {
		l.b.Connect(l.value(op.Dest), l.value(op.Src))
		return
	}

	dests, srcs := l.allLeaves(op.Dest), l.allLeaves(op.Src)
	if len(dests) != len(srcs) {
		l.report(diagnostics.ConnectMismatch(op.Location, op.Dest.ValueType(), op.Src.ValueType()))
		return
	}

	for i := range dests {
		dest, src, err := flow.Orient(dests[i], srcs[i])
		if errors.Is(err, flow.ErrAmbiguous) {
			l.report(diagnostics.AmbiguousConnect(op.Location, ir.Name(dests[i]), ir.Name(srcs[i])))
			continue
		}
		if flow.Of(dest) == flow.Source {
			l.log.Debug().
				Str("dest", ir.Name(dest)).
				Str("src", ir.Name(src)).
				Msg("dropping leaf connection without a sink")
			continue
		}
		l.b.Connect(dest, src)
	}
}
