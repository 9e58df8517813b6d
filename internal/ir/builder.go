package ir

import (
	"github.com/stellaraccident/circt/internal/memport"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// Builder appends ops to a block. Every op it creates takes the builder's
// current location.
type Builder struct {
	block *Block
	loc   source.Location
}

// NewBuilder returns a builder appending to block.
func NewBuilder(block *Block) *Builder {
	return &Builder{block: block}
}

// Block returns the block ops are appended to.
func (b *Builder) Block() *Block { return b.block }

// SetLoc sets the location given to subsequently created ops.
func (b *Builder) SetLoc(loc source.Location) { b.loc = loc }

// Nested returns a builder for another block that shares this one's location.
func (b *Builder) Nested(block *Block) *Builder {
	return &Builder{block: block, loc: b.loc}
}

// Append adds an already constructed op.
func (b *Builder) Append(op Op) {
	b.block.Ops = append(b.block.Ops, op)
}

func (b *Builder) Wire(name string, t types.Type) *WireOp {
	op := &WireOp{Name: name, Type: t, Location: b.loc}
	b.Append(op)
	return op
}

func (b *Builder) Reg(name string, t types.Type, clock Value) *RegOp {
	op := &RegOp{Name: name, Type: t, Clock: clock, Location: b.loc}
	b.Append(op)
	return op
}

func (b *Builder) RegReset(name string, t types.Type, clock, reset, init Value) *RegResetOp {
	op := &RegResetOp{Name: name, Type: t, Clock: clock, Reset: reset, Init: init, Location: b.loc}
	b.Append(op)
	return op
}

func (b *Builder) Node(name string, input Value) *NodeOp {
	op := &NodeOp{Name: name, Input: input, Location: b.loc}
	b.Append(op)
	return op
}

// MemPort names one port of a memory and its kind.
type MemPort struct {
	Name string
	Kind memport.Kind
}

// Mem declares a memory of the given data type with one result per port.
// Latencies default to a combinational read and a one cycle write.
func (b *Builder) Mem(name string, data types.Type, depth uint64, ports ...MemPort) *MemOp {
	infos := make([]PortInfo, len(ports))
	for i, p := range ports {
		infos[i] = PortInfo{Name: p.Name, Direction: In, Type: memport.TypeForPort(depth, data, p.Kind)}
	}
	return b.MemOf(name, depth, 0, 1, infos)
}

// MemOf declares a memory with explicitly typed port results.
func (b *Builder) MemOf(name string, depth uint64, readLatency, writeLatency int, ports []PortInfo) *MemOp {
	op := &MemOp{
		Name:         name,
		Depth:        depth,
		ReadLatency:  readLatency,
		WriteLatency: writeLatency,
		Location:     b.loc,
	}
	op.Results = makeResults(op, ports)
	b.Append(op)
	return op
}

// Instance instantiates callee, copying its current signature.
func (b *Builder) Instance(name string, callee Decl) *InstanceOp {
	return b.InstanceOf(name, callee.DeclName(), callee.Signature())
}

// InstanceOf instantiates the named module with the given result signature.
func (b *Builder) InstanceOf(name, module string, sig Signature) *InstanceOp {
	op := &InstanceOp{Name: name, Module: module, Location: b.loc}
	op.Results = makeResults(op, sig)
	b.Append(op)
	return op
}

func makeResults(owner Op, ports []PortInfo) []*OpResult {
	results := make([]*OpResult, len(ports))
	for i, p := range ports {
		results[i] = &OpResult{
			Owner:     owner,
			Index:     i,
			Name:      p.Name,
			Direction: p.Direction,
			Type:      p.Type,
		}
	}
	return results
}

// Subfield reads a field, inferring its type. When the access is malformed the
// result is typed UInt and the error is left for verification and lowering to
// report.
func (b *Builder) Subfield(input Value, field string) *SubfieldOp {
	t, _, err := types.FieldAccess(input.ValueType(), field)
	if err != nil {
		t = types.UInt(types.UnknownWidth)
	}
	return b.SubfieldTyped(input, field, t)
}

func (b *Builder) SubfieldTyped(input Value, field string, t types.Type) *SubfieldOp {
	op := &SubfieldOp{Input: input, Field: field, Type: t, Location: b.loc}
	b.Append(op)
	return op
}

// Subindex reads an element at a constant index, inferring its type like Subfield.
func (b *Builder) Subindex(input Value, index int) *SubindexOp {
	t, _, err := types.ElementAccess(input.ValueType(), index)
	if err != nil {
		t = types.UInt(types.UnknownWidth)
	}
	return b.SubindexTyped(input, index, t)
}

func (b *Builder) SubindexTyped(input Value, index int, t types.Type) *SubindexOp {
	op := &SubindexOp{Input: input, Index: index, Type: t, Location: b.loc}
	b.Append(op)
	return op
}

// Subaccess reads an element at a dynamic index.
func (b *Builder) Subaccess(input, index Value) *SubaccessOp {
	t, _, err := types.ElementOf(input.ValueType())
	if err != nil {
		t = types.UInt(types.UnknownWidth)
	}
	op := &SubaccessOp{Input: input, Index: index, Type: t, Location: b.loc}
	b.Append(op)
	return op
}

// Prim applies a primitive operator, inferring the result type.
func (b *Builder) Prim(kind PrimKind, operands ...Value) *PrimOp {
	op := &PrimOp{Kind: kind, Operands: operands, Type: primResultType(kind, operands), Location: b.loc}
	b.Append(op)
	return op
}

func (b *Builder) And(x, y Value) *PrimOp { return b.Prim(PrimAnd, x, y) }
func (b *Builder) Not(x Value) *PrimOp    { return b.Prim(PrimNot, x) }

func primResultType(kind PrimKind, operands []Value) types.Type {
	width := func(v Value) int { return types.BitWidthOrSentinel(v.ValueType()) }
	switch kind {
	case PrimEq:
		return types.UInt(1)
	case PrimNot:
		if len(operands) == 1 && width(operands[0]) >= 0 {
			return types.UInt(width(operands[0]))
		}
	case PrimMux:
		if len(operands) == 3 {
			return operands[1].ValueType()
		}
	default:
		if len(operands) == 2 && width(operands[0]) >= 0 && width(operands[1]) >= 0 {
			return types.UInt(max(width(operands[0]), width(operands[1])))
		}
	}
	return types.UInt(types.UnknownWidth)
}

func (b *Builder) Constant(t types.Type, value uint64) *ConstantOp {
	op := &ConstantOp{Value: value, Type: t, Location: b.loc}
	b.Append(op)
	return op
}

func (b *Builder) Invalid(t types.Type) *InvalidValueOp {
	op := &InvalidValueOp{Type: t, Location: b.loc}
	b.Append(op)
	return op
}

func (b *Builder) Placeholder(t types.Type) *PlaceholderOp {
	op := &PlaceholderOp{Type: t, Location: b.loc}
	b.Append(op)
	return op
}

func (b *Builder) Connect(dest, src Value) *ConnectOp {
	op := &ConnectOp{Dest: dest, Src: src, Location: b.loc}
	b.Append(op)
	return op
}

// When adds a conditional with an empty then region and no else region.
func (b *Builder) When(cond Value) *WhenOp {
	op := &WhenOp{Cond: cond, Then: &Block{}, Location: b.loc}
	b.Append(op)
	return op
}

// WhenElse adds a conditional with empty then and else regions.
func (b *Builder) WhenElse(cond Value) *WhenOp {
	op := b.When(cond)
	op.Else = &Block{}
	return op
}
