package ir

// Walk calls fn for every op of block in order, visiting the regions of a
// when right after the when itself.
func Walk(block *Block, fn func(Op)) {
	if block == nil {
		return
	}
	for _, op := range block.Ops {
		fn(op)
		if w, ok := op.(*WhenOp); ok {
			Walk(w.Then, fn)
			Walk(w.Else, fn)
		}
	}
}

// Defs returns the values defined by op.
func Defs(op Op) []Value {
	switch op := op.(type) {
	case *InstanceOp:
		return resultValues(op.Results)
	case *MemOp:
		return resultValues(op.Results)
	case Value:
		return []Value{op}
	default:
		return nil
	}
}

func resultValues(results []*OpResult) []Value {
	values := make([]Value, len(results))
	for i, r := range results {
		values[i] = r
	}
	return values
}

// Operands returns the values read by op, in a fixed order.
func Operands(op Op) []Value {
	switch op := op.(type) {
	case *RegOp:
		return []Value{op.Clock}
	case *RegResetOp:
		return []Value{op.Clock, op.Reset, op.Init}
	case *NodeOp:
		return []Value{op.Input}
	case *SubfieldOp:
		return []Value{op.Input}
	case *SubindexOp:
		return []Value{op.Input}
	case *SubaccessOp:
		return []Value{op.Input, op.Index}
	case *PrimOp:
		return op.Operands
	case *ConnectOp:
		return []Value{op.Dest, op.Src}
	case *WhenOp:
		return []Value{op.Cond}
	default:
		return nil
	}
}

// Name returns the declared name of a value, or "" for anonymous expressions.
func Name(v Value) string {
	switch v := v.(type) {
	case *Port:
		return v.Name
	case *OpResult:
		switch owner := v.Owner.(type) {
		case *InstanceOp:
			return owner.Name + "." + v.Name
		case *MemOp:
			return owner.Name + "." + v.Name
		}
		return v.Name
	case *WireOp:
		return v.Name
	case *RegOp:
		return v.Name
	case *RegResetOp:
		return v.Name
	case *NodeOp:
		return v.Name
	default:
		return ""
	}
}
