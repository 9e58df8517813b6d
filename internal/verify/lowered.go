package verify

import (
	"strconv"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/memport"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// Lowered reports every port, instance result and value of c whose type is
// not ground, and returns the number of positions reported. Memory ports are
// exempt when they are canonical port bundles over ground data, since that
// is the form lowered memories keep.
func Lowered(c *ir.Circuit, r diagnostics.Reporter) int {
	cnt := &counter{dst: r}
	for _, d := range c.Decls {
		for _, p := range d.Signature() {
			checkGround(cnt, p.Location, "port "+p.Name, p.Type)
		}
		m, ok := d.(*ir.Module)
		if !ok {
			continue
		}
		ir.Walk(m.Body, func(op ir.Op) {
			if mem, ok := op.(*ir.MemOp); ok {
				for _, res := range mem.Results {
					if !isLoweredMemPort(mem, res) {
						checkGround(cnt, mem.Location, "memory port "+ir.Name(res), res.Type)
					}
				}
				return
			}
			for _, v := range ir.Defs(op) {
				checkGround(cnt, *op.Loc(), describe(v), v.ValueType())
			}
		})
	}
	return cnt.errors
}

func checkGround(r diagnostics.Reporter, loc source.Location, what string, t types.Type) {
	switch {
	case types.IsGround(t):
	case types.IsAggregate(t):
		r.Add(diagnostics.AggregateRemains(loc, what, t))
	default:
		r.Add(diagnostics.FlipRemains(loc, what, t))
	}
}

func isLoweredMemPort(mem *ir.MemOp, r *ir.OpResult) bool {
	kind, err := memport.KindOf(r.Type)
	if err != nil {
		return false
	}
	data, err := memport.DataType(r.Type)
	if err != nil || !types.IsGround(data) {
		return false
	}
	return types.Equal(memport.TypeForPort(mem.Depth, data, kind), r.Type)
}

func itoa(i int) string { return strconv.Itoa(i) }
