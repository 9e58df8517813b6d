package loader

import (
	"fmt"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/source"
)

// expr builds the value of an expression field. It reports a diagnostic and
// returns false when the expression cannot be built.
func (bb *bodyBuilder) expr(x interface{}, loc source.Location) (ir.Value, bool) {
	switch x := x.(type) {
	case nil:
		bb.cb.report(diagnostics.InvalidInput(loc, "missing expression"))
		return nil, false
	case string:
		ref, err := parseReference(x)
		if err != nil {
			bb.cb.report(diagnostics.InvalidInput(loc, err.Error()))
			return nil, false
		}
		return bb.resolve(ref, loc)
	case map[interface{}]interface{}:
		return bb.compound(x, loc)
	default:
		bb.cb.report(diagnostics.InvalidInput(loc, fmt.Sprintf("unsupported expression %v", x)))
		return nil, false
	}
}

func (bb *bodyBuilder) compound(m map[interface{}]interface{}, loc source.Location) (ir.Value, bool) {
	if name, ok := m["prim"]; ok {
		kind, ok := ir.ParsePrimKind(fmt.Sprint(name))
		if !ok {
			bb.cb.report(diagnostics.InvalidInput(loc, fmt.Sprintf("unknown primitive %v", name)))
			return nil, false
		}
		args, _ := m["args"].([]interface{})
		operands := make([]ir.Value, 0, len(args))
		for _, arg := range args {
			v, ok := bb.expr(arg, loc)
			if !ok {
				return nil, false
			}
			operands = append(operands, v)
		}
		return bb.b.Prim(kind, operands...), true
	}

	if value, ok := m["const"]; ok {
		t, ok := bb.cb.parseType(fmt.Sprint(m["type"]), loc)
		if !ok {
			return nil, false
		}
		n, ok := value.(int)
		if !ok || n < 0 {
			bb.cb.report(diagnostics.InvalidInput(loc, fmt.Sprintf("constant %v is not a non-negative integer", value)))
			return nil, false
		}
		return bb.b.Constant(t, uint64(n)), true
	}

	if text, ok := m["invalid"]; ok {
		t, ok := bb.cb.parseType(fmt.Sprint(text), loc)
		if !ok {
			return nil, false
		}
		return bb.b.Invalid(t), true
	}

	bb.cb.report(diagnostics.InvalidInput(loc, "expression needs one of prim, const or invalid"))
	return nil, false
}

// resolve looks up the root of ref and applies its accesses. Malformed
// accesses are built anyway; verification reports them.
func (bb *bodyBuilder) resolve(ref *reference, loc source.Location) (ir.Value, bool) {
	e, ok := bb.scope.lookup(ref.root)
	if !ok {
		bb.cb.report(diagnostics.UndefinedValue(loc, ref.root))
		return nil, false
	}
	if e.broken {
		return nil, false
	}

	v := e.value
	segs := ref.segs
	if e.inst != nil || e.mem != nil {
		if len(segs) == 0 || segs[0].kind != segField {
			bb.cb.report(diagnostics.InvalidInput(loc, ref.root+" must be used through one of its ports"))
			return nil, false
		}
		var r *ir.OpResult
		if e.inst != nil {
			r = e.inst.Result(segs[0].field)
		} else {
			r = e.mem.Result(segs[0].field)
		}
		if r == nil {
			bb.cb.report(diagnostics.UndefinedValue(loc, ref.root+"."+segs[0].field))
			return nil, false
		}
		v, segs = r, segs[1:]
	}

	for _, seg := range segs {
		switch seg.kind {
		case segField:
			v = bb.b.Subfield(v, seg.field)
		case segIndex:
			v = bb.b.Subindex(v, seg.index)
		case segDynamic:
			idx, ok := bb.resolve(seg.dyn, loc)
			if !ok {
				return nil, false
			}
			v = bb.b.Subaccess(v, idx)
		}
	}
	return v, true
}
