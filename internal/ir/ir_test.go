package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellaraccident/circt/internal/memport"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

func TestNewPortInfoFoldsFlips(t *testing.T) {
	p := NewPortInfo("io", In, types.Flip(types.MustParse("{a: UInt<1>}")))
	assert.Equal(t, Out, p.Direction)
	assert.Equal(t, "{a: UInt<1>}", p.Type.String())

	p = NewPortInfo("x", Out, types.Flip(types.Flip(types.UInt(2))))
	assert.Equal(t, Out, p.Direction)
	assert.Equal(t, types.UInt(2), p.Type)
}

func TestBuilderInfersAccessTypes(t *testing.T) {
	m := NewModule("Top", []PortInfo{
		{Name: "io", Direction: In, Type: types.MustParse("{a: UInt<4>, flip b: SInt<2>[3]}")},
	})
	b := NewBuilder(m.Body)
	io := m.Port("io")

	a := b.Subfield(io, "a")
	assert.Equal(t, types.UInt(4), a.Type)

	vec := b.Subfield(io, "b")
	assert.Equal(t, "SInt<2>[3]", vec.Type.String())

	elem := b.Subindex(vec, 2)
	assert.Equal(t, types.SInt(2), elem.Type)

	bad := b.Subfield(io, "missing")
	assert.Equal(t, types.UInt(types.UnknownWidth), bad.Type)

	idx := b.Constant(types.UInt(2), 1)
	dyn := b.Subaccess(vec, idx)
	assert.Equal(t, types.SInt(2), dyn.Type)

	assert.Len(t, m.Body.Ops, 6)
}

func TestPrimResultTypes(t *testing.T) {
	m := NewModule("Top", nil)
	b := NewBuilder(m.Body)
	x := b.Wire("x", types.UInt(3))
	y := b.Wire("y", types.UInt(5))

	assert.Equal(t, types.UInt(5), b.And(x, y).Type)
	assert.Equal(t, types.UInt(3), b.Not(x).Type)
	assert.Equal(t, types.UInt(1), b.Prim(PrimEq, x, y).Type)
	assert.Equal(t, types.UInt(5), b.Prim(PrimMux, x, y, y).Type)

	u := b.Wire("u", types.UInt(types.UnknownWidth))
	assert.Equal(t, types.UInt(types.UnknownWidth), b.And(x, u).Type)
}

func TestInstanceCopiesSignature(t *testing.T) {
	sub := NewModule("Sub", []PortInfo{
		{Name: "a", Direction: In, Type: types.UInt(1)},
		{Name: "b", Direction: Out, Type: types.MustParse("{x: UInt<2>}")},
	})
	top := NewModule("Top", nil)
	inst := NewBuilder(top.Body).Instance("u", sub)

	require.Len(t, inst.Results, 2)
	assert.Equal(t, "Sub", inst.Module)
	assert.Equal(t, Out, inst.Result("b").Direction)
	assert.Same(t, inst, inst.Result("b").Owner)
	assert.Equal(t, 1, inst.Result("b").Index)
	assert.Nil(t, inst.Result("c"))
}

func TestMemResults(t *testing.T) {
	m := NewModule("Top", nil)
	mem := NewBuilder(m.Body).Mem("m", types.UInt(8), 16,
		MemPort{Name: "r", Kind: memport.Read},
		MemPort{Name: "rw", Kind: memport.ReadWrite})

	require.Len(t, mem.Results, 2)
	assert.Equal(t, In, mem.Result("r").Direction)
	kind, err := memport.KindOf(mem.Result("rw").Type)
	require.NoError(t, err)
	assert.Equal(t, memport.ReadWrite, kind)
	assert.Equal(t, 1, mem.WriteLatency)
}

func TestWalkVisitsRegions(t *testing.T) {
	m := NewModule("Top", []PortInfo{{Name: "c", Direction: In, Type: types.UInt(1)}})
	b := NewBuilder(m.Body)
	w := b.WhenElse(m.Port("c"))
	inner := b.Nested(w.Then).Wire("t", types.UInt(1))
	b.Nested(w.Else).Wire("e", types.UInt(1))
	b.Wire("after", types.UInt(1))

	var names []string
	Walk(m.Body, func(op Op) {
		for _, v := range Defs(op) {
			names = append(names, Name(v))
		}
	})
	assert.Equal(t, []string{"t", "e", "after"}, names)
	assert.Equal(t, []Value{m.Port("c")}, Operands(w))
	assert.Nil(t, Operands(inner))
}

func TestCircuitLookup(t *testing.T) {
	c := &Circuit{Name: "Top"}
	c.Add(NewModule("Top", nil))
	c.Add(NewExtModule("BB", "", nil))

	d, ok := c.Lookup("BB")
	require.True(t, ok)
	assert.Equal(t, "BB", d.(*ExtModule).LinkName())

	_, ok = c.Lookup("Missing")
	assert.False(t, ok)
}

func TestFormatCircuit(t *testing.T) {
	c := &Circuit{Name: "Top"}
	m := NewModule("Top", []PortInfo{
		{Name: "clock", Direction: In, Type: types.Clock()},
		{Name: "io", Direction: Out, Type: types.MustParse("{a: UInt<4>}")},
	})
	c.Add(m)
	b := NewBuilder(m.Body)
	b.SetLoc(source.At("Top.scala", 3, 5))
	r := b.Reg("r", types.MustParse("{a: UInt<4>}"), m.Port("clock"))
	a := b.Subfield(m.Port("io"), "a")
	ra := b.Subfield(r, "a")
	b.Connect(a, ra)

	want := "circuit Top :\n" +
		"  module Top :\n" +
		"    input clock : Clock\n" +
		"    output io : {a: UInt<4>}\n" +
		"    reg r : {a: UInt<4>}, clock @[Top.scala 3:5]\n" +
		"    _T_0 = subfield io.a : UInt<4> @[Top.scala 3:5]\n" +
		"    _T_1 = subfield r.a : UInt<4> @[Top.scala 3:5]\n" +
		"    connect _T_0, _T_1 @[Top.scala 3:5]\n"
	assert.Equal(t, want, FormatCircuit(c))
}

func TestFormatAvoidsNameClashes(t *testing.T) {
	m := NewModule("Top", nil)
	b := NewBuilder(m.Body)
	b.Wire("_T_0", types.UInt(1))
	b.Invalid(types.UInt(1))

	out := FormatDecl(m)
	assert.Contains(t, out, "wire _T_0 : UInt<1>\n")
	assert.Contains(t, out, "_T_1 = invalid : UInt<1>\n")
}
