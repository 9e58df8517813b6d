package typelower

import (
	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/phase"
)

// ErrDeclFailed is wrapped by the error of every declaration whose lowering
// reported an error.
var ErrDeclFailed = errors.New("type lowering failed")

// task lowers one declaration. It reads only the declaration it owns and
// returns a new declaration; nothing is installed in the circuit here.
type task struct {
	*lowering
	decl    ir.Decl
	order   int // position of decl in the circuit
	tracker *phase.Tracker
}

func (t *task) advance(p phase.DeclPhase) {
	if err := t.tracker.Advance(t.order, p); err != nil {
		t.invariantf("%v", err)
	}
	t.log.Debug().Str("phase", p.String()).Msg("phase transition")
}

func (t *task) run() (ir.Decl, error) {
	var out ir.Decl
	switch d := t.decl.(type) {
	case *ir.Module:
		m := &ir.Module{Name: d.Name, Body: &ir.Block{}, Location: d.Location}
		t.b = ir.NewBuilder(m.Body)
		m.Ports = t.lowerPorts(d)
		t.advance(phase.PhasePortsLowered)
		t.lowerBlock(d.Body, t.b)
		t.advance(phase.PhaseBodyLowered)
		out = m
	case *ir.ExtModule:
		out = t.lowerExtModule(d)
		t.advance(phase.PhasePortsLowered)
		t.advance(phase.PhaseBodyLowered)
	default:
		t.invariantf("unknown declaration %T", d)
	}

	t.stats.Decls.Inc()
	if t.failed {
		t.stats.Failed.Inc()
		t.advance(phase.PhaseFailed)
		return out, errors.Wrapf(ErrDeclFailed, "%s", t.name)
	}
	t.advance(phase.PhaseCommitted)
	return out, nil
}

// lowerBlock rewrites the ops of block into the block of b, in order.
func (t *task) lowerBlock(block *ir.Block, b *ir.Builder) {
	saved := t.b
	t.b = b
	defer func() { t.b = saved }()

	for _, op := range block.Ops {
		t.b.SetLoc(*op.Loc())
		t.lowerOp(op)
	}
}

func (t *task) lowerOp(op ir.Op) {
	switch op := op.(type) {
	case *ir.WireOp:
		t.lowerWire(op)
	case *ir.RegOp:
		t.lowerReg(op)
	case *ir.RegResetOp:
		t.lowerRegReset(op)
	case *ir.NodeOp:
		t.lowerNode(op)
	case *ir.MemOp:
		t.lowerMem(op)
	case *ir.InstanceOp:
		t.lowerInstance(op)
	case *ir.SubfieldOp:
		t.lowerSubfield(op)
	case *ir.SubindexOp:
		t.lowerSubindex(op)
	case *ir.SubaccessOp:
		t.lowerSubaccess(op)
	case *ir.InvalidValueOp:
		t.lowerInvalid(op)
	case *ir.ConnectOp:
		t.lowerConnect(op)
	case *ir.WhenOp:
		w := &ir.WhenOp{Cond: t.value(op.Cond), Then: &ir.Block{}, Location: op.Location}
		t.b.Append(w)
		t.lowerBlock(op.Then, t.b.Nested(w.Then))
		if op.Else != nil {
			w.Else = &ir.Block{}
			t.lowerBlock(op.Else, t.b.Nested(w.Else))
		}
	default:
		t.clone(op)
	}
}
