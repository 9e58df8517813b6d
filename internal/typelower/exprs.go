package typelower

import (
	"strconv"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/flatten"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// lowerAccess handles a static field or index access. The result type is
// flattened with the field name or index as the first path segment, which
// names the matching leaves of the input. A leaf whose remaining path is
// empty replaces the access outright; otherwise the access is itself still an
// aggregate and its leaves are recorded for its own users.
func (l *lowering) lowerAccess(op ir.Value, input ir.Value, segment string, loc source.Location, err error) {
	if l.poisoned.Contains(input) {
		l.poison(op, loc)
		return
	}
	if err != nil {
		l.report(diagnostics.AccessError(loc, input.ValueType(), err))
		l.poison(op, loc)
		return
	}
	for _, f := range flatten.Type(op.ValueType(), []string{segment}, false) {
		l.setLeaf(op, f.Path[1:], l.leaf(input, f.Path))
	}
}

func (l *lowering) lowerSubfield(op *ir.SubfieldOp) {
	_, _, err := types.FieldAccess(op.Input.ValueType(), op.Field)
	l.lowerAccess(op, op.Input, op.Field, op.Location, err)
}

func (l *lowering) lowerSubindex(op *ir.SubindexOp) {
	_, _, err := types.ElementAccess(op.Input.ValueType(), op.Index)
	l.lowerAccess(op, op.Input, strconv.Itoa(op.Index), op.Location, err)
}

// lowerSubaccess reports a dynamic index as unsupported and lowers the access
// as if it read element 0, so the rest of the module can still be rewritten.
func (l *lowering) lowerSubaccess(op *ir.SubaccessOp) {
	vec := op.Input.ValueType()
	if _, _, err := types.ElementOf(vec); err == nil && !l.poisoned.Contains(op.Input) {
		l.report(diagnostics.DynamicIndex(op.Location, vec))
	}
	_, _, err := types.ElementAccess(vec, 0)
	l.lowerAccess(op, op.Input, "0", op.Location, err)
}

// clone copies a ground-typed expression with its operands rewritten.
func (l *lowering) clone(op ir.Op) {
	switch op := op.(type) {
	case *ir.PrimOp:
		operands := make([]ir.Value, len(op.Operands))
		for i, o := range op.Operands {
			operands[i] = l.value(o)
		}
		np := &ir.PrimOp{Kind: op.Kind, Operands: operands, Type: op.Type, Location: op.Location}
		l.b.Append(np)
		l.replace(op, np)
	case *ir.ConstantOp:
		l.replace(op, l.b.Constant(op.Type, op.Value))
	case *ir.PlaceholderOp:
		if !needsLowering(op.Type) {
			l.replace(op, l.b.Placeholder(op.Type))
			return
		}
		for _, f := range flatten.Leaves(op.Type) {
			l.setLeaf(op, f.Path, l.b.Placeholder(f.Type))
		}
	default:
		l.invariantf("cannot clone %T", op)
	}
}
