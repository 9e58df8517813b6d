package typelower

import (
	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/flatten"
	"github.com/stellaraccident/circt/internal/ir"
)

// lowerWire splits an aggregate wire into one wire per leaf.
func (l *lowering) lowerWire(op *ir.WireOp) {
	if !needsLowering(op.Type) {
		l.replace(op, l.b.Wire(op.Name, op.Type))
		return
	}
	fields := flatten.Leaves(op.Type)
	for _, f := range fields {
		l.setLeaf(op, f.Path, l.b.Wire(f.Name(op.Name), f.Type))
	}
	l.countLeaves(op.Type, len(fields))
}

func (l *lowering) lowerReg(op *ir.RegOp) {
	clock := l.value(op.Clock)
	if !needsLowering(op.Type) {
		l.replace(op, l.b.Reg(op.Name, op.Type, clock))
		return
	}
	fields := flatten.Leaves(op.Type)
	for _, f := range fields {
		l.setLeaf(op, f.Path, l.b.Reg(f.Name(op.Name), f.Type, clock))
	}
	l.countLeaves(op.Type, len(fields))
}

// lowerRegReset splits a register with reset. The reset value is split the
// same way and paired with the new registers by position.
func (l *lowering) lowerRegReset(op *ir.RegResetOp) {
	clock, reset := l.value(op.Clock), l.value(op.Reset)
	if !needsLowering(op.Type) && !needsLowering(op.Init.ValueType()) {
		l.replace(op, l.b.RegReset(op.Name, op.Type, clock, reset, l.value(op.Init)))
		return
	}

	fields := flatten.Leaves(op.Type)
	inits := l.allLeaves(op.Init)
	if len(inits) != len(fields) {
		l.report(diagnostics.ConnectMismatch(op.Location, op.Type, op.Init.ValueType()))
		l.poison(op, op.Location)
		return
	}
	for i, f := range fields {
		l.setLeaf(op, f.Path, l.b.RegReset(f.Name(op.Name), f.Type, clock, reset, inits[i]))
	}
	l.countLeaves(op.Type, len(fields))
}

// lowerNode names every leaf of an aggregate expression separately.
func (l *lowering) lowerNode(op *ir.NodeOp) {
	t := op.ValueType()
	if !needsLowering(t) {
		l.replace(op, l.b.Node(op.Name, l.value(op.Input)))
		return
	}
	fields := flatten.Leaves(t)
	for _, f := range fields {
		l.setLeaf(op, f.Path, l.b.Node(f.Name(op.Name), l.leaf(op.Input, f.Path)))
	}
	l.countLeaves(t, len(fields))
}

// lowerInvalid gives every leaf of an aggregate invalid value its own invalid
// value of the leaf type.
func (l *lowering) lowerInvalid(op *ir.InvalidValueOp) {
	if !needsLowering(op.Type) {
		l.replace(op, l.b.Invalid(op.Type))
		return
	}
	for _, f := range flatten.Leaves(op.Type) {
		l.setLeaf(op, f.Path, l.b.Invalid(f.Type))
	}
}
