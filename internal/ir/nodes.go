// Package ir is the in-memory FIRRTL graph the type lowering pass rewrites.
//
// A Circuit holds module-like declarations. A Module owns ports and a body of
// ops in SSA form: ops refer to the values defined by ports and earlier ops.
// Ops that define a single value are themselves values; instances and
// memories define several named results.
package ir

import (
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// Value is a typed signal defined by a port or an op.
type Value interface {
	ValueType() types.Type
	irValue()
}

// Op is a statement or expression in a module body.
type Op interface {
	Loc() *source.Location
	irOp()
}

// Direction is the direction of a port as seen from inside its declaration.
type Direction int

const (
	In Direction = iota
	Out
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == In {
		return Out
	}
	return In
}

func (d Direction) String() string {
	if d == Out {
		return "output"
	}
	return "input"
}

// Port is a module port. Inside the module body it is a value.
type Port struct {
	Name      string
	Direction Direction
	Type      types.Type
	Location  source.Location
}

func (p *Port) irValue()              {}
func (p *Port) ValueType() types.Type { return p.Type }
func (p *Port) Info() PortInfo {
	return PortInfo{Name: p.Name, Direction: p.Direction, Type: p.Type, Location: p.Location}
}

// OpResult is one named result of an instance or memory.
type OpResult struct {
	Owner     Op
	Index     int
	Name      string
	Direction Direction
	Type      types.Type
}

func (r *OpResult) irValue()              {}
func (r *OpResult) ValueType() types.Type { return r.Type }

// Declarations

// WireOp declares a wire.
type WireOp struct {
	Name     string
	Type     types.Type
	Location source.Location
}

func (w *WireOp) irOp()                 {}
func (w *WireOp) irValue()              {}
func (w *WireOp) ValueType() types.Type { return w.Type }
func (w *WireOp) Loc() *source.Location { return &w.Location }

// RegOp declares a register without reset.
type RegOp struct {
	Name     string
	Type     types.Type
	Clock    Value
	Location source.Location
}

func (r *RegOp) irOp()                 {}
func (r *RegOp) irValue()              {}
func (r *RegOp) ValueType() types.Type { return r.Type }
func (r *RegOp) Loc() *source.Location { return &r.Location }

// RegResetOp declares a register with a reset signal and reset value.
type RegResetOp struct {
	Name     string
	Type     types.Type
	Clock    Value
	Reset    Value
	Init     Value
	Location source.Location
}

func (r *RegResetOp) irOp()                 {}
func (r *RegResetOp) irValue()              {}
func (r *RegResetOp) ValueType() types.Type { return r.Type }
func (r *RegResetOp) Loc() *source.Location { return &r.Location }

// NodeOp names the value of an expression.
type NodeOp struct {
	Name     string
	Input    Value
	Location source.Location
}

func (n *NodeOp) irOp()                 {}
func (n *NodeOp) irValue()              {}
func (n *NodeOp) ValueType() types.Type { return n.Input.ValueType() }
func (n *NodeOp) Loc() *source.Location { return &n.Location }

// MemOp declares a memory. Each result is one port, typed with the port's
// bundle from memport.TypeForPort.
type MemOp struct {
	Name         string
	Depth        uint64
	ReadLatency  int
	WriteLatency int
	Results      []*OpResult
	Location     source.Location
}

func (m *MemOp) irOp()                 {}
func (m *MemOp) Loc() *source.Location { return &m.Location }

// InstanceOp instantiates a module. Results mirror the callee's ports as they
// were declared when the instance was built.
type InstanceOp struct {
	Name     string
	Module   string
	Results  []*OpResult
	Location source.Location
}

func (i *InstanceOp) irOp()                 {}
func (i *InstanceOp) Loc() *source.Location { return &i.Location }

// Result looks up a result by port name.
func (i *InstanceOp) Result(name string) *OpResult {
	return findResult(i.Results, name)
}

// Result looks up a result by port name.
func (m *MemOp) Result(name string) *OpResult {
	return findResult(m.Results, name)
}

func findResult(results []*OpResult, name string) *OpResult {
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Expressions

// SubfieldOp reads a field of a bundle.
type SubfieldOp struct {
	Input    Value
	Field    string
	Type     types.Type
	Location source.Location
}

func (s *SubfieldOp) irOp()                 {}
func (s *SubfieldOp) irValue()              {}
func (s *SubfieldOp) ValueType() types.Type { return s.Type }
func (s *SubfieldOp) Loc() *source.Location { return &s.Location }

// SubindexOp reads a vector element at a constant index.
type SubindexOp struct {
	Input    Value
	Index    int
	Type     types.Type
	Location source.Location
}

func (s *SubindexOp) irOp()                 {}
func (s *SubindexOp) irValue()              {}
func (s *SubindexOp) ValueType() types.Type { return s.Type }
func (s *SubindexOp) Loc() *source.Location { return &s.Location }

// SubaccessOp reads a vector element at an index computed at runtime.
type SubaccessOp struct {
	Input    Value
	Index    Value
	Type     types.Type
	Location source.Location
}

func (s *SubaccessOp) irOp()                 {}
func (s *SubaccessOp) irValue()              {}
func (s *SubaccessOp) ValueType() types.Type { return s.Type }
func (s *SubaccessOp) Loc() *source.Location { return &s.Location }

// PrimKind identifies a primitive operator.
type PrimKind int

const (
	PrimAnd PrimKind = iota
	PrimOr
	PrimXor
	PrimNot
	PrimEq
	PrimMux
)

func (k PrimKind) String() string {
	switch k {
	case PrimAnd:
		return "and"
	case PrimOr:
		return "or"
	case PrimXor:
		return "xor"
	case PrimNot:
		return "not"
	case PrimEq:
		return "eq"
	case PrimMux:
		return "mux"
	default:
		return "unknown"
	}
}

// ParsePrimKind returns the operator named s, as printed by String.
func ParsePrimKind(s string) (PrimKind, bool) {
	for k := PrimAnd; k <= PrimMux; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Arity returns the number of operands the operator takes.
func (k PrimKind) Arity() int {
	switch k {
	case PrimNot:
		return 1
	case PrimMux:
		return 3
	default:
		return 2
	}
}

// PrimOp applies a primitive operator to ground operands.
type PrimOp struct {
	Kind     PrimKind
	Operands []Value
	Type     types.Type
	Location source.Location
}

func (p *PrimOp) irOp()                 {}
func (p *PrimOp) irValue()              {}
func (p *PrimOp) ValueType() types.Type { return p.Type }
func (p *PrimOp) Loc() *source.Location { return &p.Location }

// ConstantOp is an integer literal.
type ConstantOp struct {
	Value    uint64
	Type     types.Type
	Location source.Location
}

func (c *ConstantOp) irOp()                 {}
func (c *ConstantOp) irValue()              {}
func (c *ConstantOp) ValueType() types.Type { return c.Type }
func (c *ConstantOp) Loc() *source.Location { return &c.Location }

// InvalidValueOp is the invalid sentinel of a type.
type InvalidValueOp struct {
	Type     types.Type
	Location source.Location
}

func (i *InvalidValueOp) irOp()                 {}
func (i *InvalidValueOp) irValue()              {}
func (i *InvalidValueOp) ValueType() types.Type { return i.Type }
func (i *InvalidValueOp) Loc() *source.Location { return &i.Location }

// PlaceholderOp is an inert stand-in for a value that could not be built,
// carried forward so the rest of a module can still be rewritten.
type PlaceholderOp struct {
	Type     types.Type
	Location source.Location
}

func (p *PlaceholderOp) irOp()                 {}
func (p *PlaceholderOp) irValue()              {}
func (p *PlaceholderOp) ValueType() types.Type { return p.Type }
func (p *PlaceholderOp) Loc() *source.Location { return &p.Location }

// Statements

// ConnectOp drives Dest from Src.
type ConnectOp struct {
	Dest     Value
	Src      Value
	Location source.Location
}

func (c *ConnectOp) irOp()                 {}
func (c *ConnectOp) Loc() *source.Location { return &c.Location }

// WhenOp conditionally executes its regions. Else may be nil.
type WhenOp struct {
	Cond     Value
	Then     *Block
	Else     *Block
	Location source.Location
}

func (w *WhenOp) irOp()                 {}
func (w *WhenOp) Loc() *source.Location { return &w.Location }
