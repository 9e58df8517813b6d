package verify

import (
	set "github.com/hashicorp/go-set/v2"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/memport"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

func (c *checker) checkOp(op ir.Op) {
	switch op := op.(type) {
	case *ir.ConnectOp:
		c.checkConnect(op)
	case *ir.MemOp:
		c.checkMem(op)
	case *ir.InstanceOp:
		c.checkInstance(op)
	case *ir.RegOp:
		c.checkClock(op.Location, op.Name, op.Clock)
	case *ir.RegResetOp:
		c.checkClock(op.Location, op.Name, op.Clock)
		if !types.IsResetType(op.Reset.ValueType()) {
			c.report(diagnostics.ResetType(op.Location, op.Name, op.Reset.ValueType()))
		}
		if !types.ConnectEquivalent(op.Type, op.Init.ValueType()) {
			c.report(diagnostics.ConnectMismatch(op.Location, op.Type, op.Init.ValueType()))
		}
	case *ir.SubfieldOp:
		if _, _, err := types.FieldAccess(op.Input.ValueType(), op.Field); err != nil {
			c.report(diagnostics.AccessError(op.Location, op.Input.ValueType(), err))
		}
	case *ir.SubindexOp:
		if _, _, err := types.ElementAccess(op.Input.ValueType(), op.Index); err != nil {
			c.report(diagnostics.AccessError(op.Location, op.Input.ValueType(), err))
		}
	case *ir.SubaccessOp:
		if _, _, err := types.ElementOf(op.Input.ValueType()); err != nil {
			c.report(diagnostics.AccessError(op.Location, op.Input.ValueType(), err))
		}
	case *ir.PrimOp:
		if want := op.Kind.Arity(); len(op.Operands) != want {
			c.report(diagnostics.PrimOperands(op.Location, op.Kind.String(), want, len(op.Operands)))
		}
	case *ir.WhenOp:
		if u, ok := op.Cond.ValueType().(*types.UIntType); !ok || (u.HasWidth() && u.Width() != 1) {
			c.report(diagnostics.WhenCondition(op.Location, op.Cond.ValueType()))
		}
	}
}

func (c *checker) checkClock(loc source.Location, reg string, clock ir.Value) {
	if _, ok := clock.ValueType().(*types.ClockType); !ok {
		c.report(diagnostics.RegisterClock(loc, reg, clock.ValueType()))
	}
}

// checkMem validates a memory declaration: a usable depth and latencies,
// uniquely named ports whose types are exactly the canonical port bundles,
// and one passive analog-free data type shared by every port.
func (c *checker) checkMem(op *ir.MemOp) {
	if op.Depth == 0 {
		c.report(diagnostics.MemDepth(op.Location, op.Name))
	}
	if op.ReadLatency < 0 || op.WriteLatency < 1 {
		c.report(diagnostics.MemLatency(op.Location, op.Name, op.ReadLatency, op.WriteLatency))
	}
	if len(op.Results) == 0 {
		c.report(diagnostics.MemNoPorts(op.Location, op.Name))
		return
	}

	names := set.New[string](len(op.Results))
	var data types.Type
	for _, r := range op.Results {
		if !names.Insert(r.Name) {
			c.report(diagnostics.MemDuplicatePort(op.Location, op.Name, r.Name))
		}

		kind, err := memport.KindOf(r.Type)
		if err != nil {
			c.report(diagnostics.MalformedMemPort(op.Location, op.Name, r.Name, err))
			continue
		}
		d, err := memport.DataType(r.Type)
		if err != nil {
			c.report(diagnostics.MalformedMemPort(op.Location, op.Name, r.Name, err))
			continue
		}
		if data == nil {
			data = d
			if !d.IsPassive() || d.ContainsAnalog() {
				c.report(diagnostics.MemData(op.Location, op.Name, d))
				return
			}
		} else if !types.Equal(data, d) {
			c.report(diagnostics.MemDataMismatch(op.Location, op.Name, r.Name, data, d))
			continue
		}

		if want := memport.TypeForPort(op.Depth, data, kind); !types.Equal(want, r.Type) {
			c.report(diagnostics.MemPortType(op.Location, op.Name, r.Name, want, r.Type))
		}
	}
}

func (c *checker) checkInstance(op *ir.InstanceOp) {
	callee, ok := c.circuit.Lookup(op.Module)
	if !ok {
		c.report(diagnostics.UndefinedModule(op.Location, op.Module))
		return
	}
	sig := make(ir.Signature, len(op.Results))
	for i, r := range op.Results {
		sig[i] = ir.PortInfo{Name: r.Name, Direction: r.Direction, Type: r.Type}
	}
	if !callee.Signature().Equal(sig) {
		c.report(diagnostics.InstanceSignature(op.Location, op.Name, op.Module))
	}
}

// sameExtPorts compares the ports of two external modules linked to the same
// defname. Widths are ignored when either module is parameterized.
func sameExtPorts(a, b *ir.ExtModule) bool {
	if len(a.Ports) != len(b.Ports) {
		return false
	}
	widthless := len(a.Params) > 0 || len(b.Params) > 0
	for i := range a.Ports {
		pa, pb := a.Ports[i], b.Ports[i]
		if pa.Name != pb.Name || pa.Direction != pb.Direction {
			return false
		}
		ta, tb := pa.Type, pb.Type
		if widthless {
			ta, tb = types.WidthlessType(ta), types.WidthlessType(tb)
		}
		if !types.Equal(ta, tb) {
			return false
		}
	}
	return true
}
