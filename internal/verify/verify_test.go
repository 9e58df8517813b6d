package verify

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/memport"
	"github.com/stellaraccident/circt/internal/typelower"
	"github.com/stellaraccident/circt/internal/types"
)

func codes(c *diagnostics.Collector) []string {
	var out []string
	for _, d := range c.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func check(c *ir.Circuit) (*diagnostics.Collector, int) {
	var diags diagnostics.Collector
	n := Circuit(c, &diags)
	return &diags, n
}

func top(ports ...ir.PortInfo) (*ir.Circuit, *ir.Module, *ir.Builder) {
	m := ir.NewModule("Top", ports)
	c := &ir.Circuit{Name: "Top"}
	c.Add(m)
	return c, m, ir.NewBuilder(m.Body)
}

func TestConnectChecks(t *testing.T) {
	bundle := types.MustParse("{a: UInt<4>, flip b: UInt<4>}")

	tests := []struct {
		name  string
		build func(m *ir.Module, b *ir.Builder)
		want  []string
	}{
		{
			name: "legal bulk connect",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(m.Port("out"), m.Port("in"))
			},
		},
		{
			name: "mismatched shapes",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(m.Port("out"), m.Port("narrow"))
			},
			want: []string{diagnostics.ErrConnectMismatch},
		},
		{
			name: "narrow destination",
			build: func(m *ir.Module, b *ir.Builder) {
				w := b.Wire("w", types.UInt(2))
				b.Connect(w, b.Subfield(m.Port("in"), "a"))
			},
			want: []string{diagnostics.ErrConnectWidth},
		},
		{
			name: "narrow flipped leaf",
			build: func(m *ir.Module, b *ir.Builder) {
				w := b.Wire("w", types.MustParse("{a: UInt<4>, flip b: UInt<2>}"))
				b.Connect(m.Port("out"), w)
			},
			want: []string{diagnostics.ErrConnectWidth},
		},
		{
			name: "input port driven",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(b.Subfield(m.Port("in"), "a"), b.Constant(types.UInt(4), 1))
			},
			want: []string{diagnostics.ErrConnectToSource},
		},
		{
			name: "flipped input field driven",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(b.Subfield(m.Port("in"), "b"), b.Constant(types.UInt(4), 1))
			},
		},
		{
			name: "bulk connect between wires",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(b.Wire("x", bundle), b.Wire("y", bundle))
			},
			want: []string{diagnostics.ErrAmbiguousConnect},
		},
		{
			name: "ground connect between wires",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(b.Wire("x", types.UInt(1)), b.Wire("y", types.UInt(1)))
			},
		},
		{
			name: "analog",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(b.Wire("x", types.Analog(1)), b.Wire("y", types.Analog(1)))
			},
			want: []string{diagnostics.ErrAnalogConnect},
		},
		{
			name: "reset accepts a single bit",
			build: func(m *ir.Module, b *ir.Builder) {
				b.Connect(b.Wire("r", types.Reset()), b.Constant(types.UInt(1), 0))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m, b := top(
				ir.PortInfo{Name: "in", Direction: ir.In, Type: bundle},
				ir.PortInfo{Name: "out", Direction: ir.Out, Type: bundle},
				ir.PortInfo{Name: "narrow", Direction: ir.In, Type: types.MustParse("{a: UInt<4>}")},
			)
			tt.build(m, b)
			diags, n := check(c)
			assert.Equal(t, tt.want, codes(diags))
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestMemoryChecks(t *testing.T) {
	data := types.MustParse("{x: UInt<8>}")

	tests := []struct {
		name  string
		build func(b *ir.Builder)
		want  []string
	}{
		{
			name: "legal",
			build: func(b *ir.Builder) {
				b.Mem("m", data, 4, ir.MemPort{Name: "r", Kind: memport.Read}, ir.MemPort{Name: "w", Kind: memport.Write})
			},
		},
		{
			name: "zero depth",
			build: func(b *ir.Builder) {
				b.Mem("m", data, 0, ir.MemPort{Name: "r", Kind: memport.Read})
			},
			want: []string{diagnostics.ErrMemDepth},
		},
		{
			name: "bad latency",
			build: func(b *ir.Builder) {
				b.MemOf("m", 4, 0, 0, []ir.PortInfo{{Name: "r", Direction: ir.In, Type: memport.TypeForPort(4, data, memport.Read)}})
			},
			want: []string{diagnostics.ErrMemLatency},
		},
		{
			name: "no ports",
			build: func(b *ir.Builder) {
				b.Mem("m", data, 4)
			},
			want: []string{diagnostics.WarnMemNoPorts},
		},
		{
			name: "duplicate port",
			build: func(b *ir.Builder) {
				b.Mem("m", data, 4, ir.MemPort{Name: "p", Kind: memport.Read}, ir.MemPort{Name: "p", Kind: memport.Write})
			},
			want: []string{diagnostics.ErrMemDuplicatePort},
		},
		{
			name: "malformed port",
			build: func(b *ir.Builder) {
				b.MemOf("m", 4, 0, 1, []ir.PortInfo{{Name: "p", Direction: ir.In, Type: types.UInt(3)}})
			},
			want: []string{diagnostics.ErrMalformedMemPort},
		},
		{
			name: "data mismatch",
			build: func(b *ir.Builder) {
				b.MemOf("m", 4, 0, 1, []ir.PortInfo{
					{Name: "r", Direction: ir.In, Type: memport.TypeForPort(4, data, memport.Read)},
					{Name: "w", Direction: ir.In, Type: memport.TypeForPort(4, types.UInt(8), memport.Write)},
				})
			},
			want: []string{diagnostics.ErrMemDataMismatch},
		},
		{
			name: "wrong address width",
			build: func(b *ir.Builder) {
				b.MemOf("m", 4, 0, 1, []ir.PortInfo{
					{Name: "r", Direction: ir.In, Type: memport.TypeForPort(64, data, memport.Read)},
				})
			},
			want: []string{diagnostics.ErrMemPortType},
		},
		{
			name: "flipped data",
			build: func(b *ir.Builder) {
				flipped := types.MustParse("{flip x: UInt<8>}")
				b.MemOf("m", 4, 0, 1, []ir.PortInfo{
					{Name: "r", Direction: ir.In, Type: memport.TypeForPort(4, flipped, memport.Read)},
				})
			},
			want: []string{diagnostics.ErrMemData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, b := top()
			tt.build(b)
			diags, _ := check(c)
			assert.Equal(t, tt.want, codes(diags))
		})
	}
}

func TestDeclarationChecks(t *testing.T) {
	c, m, b := top(
		ir.PortInfo{Name: "clock", Direction: ir.In, Type: types.Clock()},
		ir.PortInfo{Name: "rst", Direction: ir.In, Type: types.UInt(2)},
		ir.PortInfo{Name: "x", Direction: ir.In, Type: types.UInt(4)},
		ir.PortInfo{Name: "reset", Direction: ir.In, Type: types.Reset()},
	)
	sub := c.Add(ir.NewModule("Sub", []ir.PortInfo{{Name: "a", Direction: ir.In, Type: types.UInt(1)}}))

	b.Instance("ok", sub)
	b.InstanceOf("stale", "Sub", ir.Signature{{Name: "a", Direction: ir.Out, Type: types.UInt(1)}})
	b.InstanceOf("ghost", "Missing", nil)
	b.Reg("r0", types.UInt(4), m.Port("x"))
	b.RegReset("r1", types.UInt(4), m.Port("clock"), m.Port("rst"), m.Port("x"))
	b.RegReset("r2", types.UInt(4), m.Port("clock"), m.Port("reset"), b.Constant(types.SInt(4), 0))
	b.Prim(ir.PrimAnd, m.Port("x"))
	b.When(m.Port("x"))
	b.Subfield(m.Port("x"), "nope")

	diags, n := check(c)
	assert.Equal(t, []string{
		diagnostics.ErrInstanceSignature,
		diagnostics.ErrUndefinedModule,
		diagnostics.ErrRegisterClock,
		diagnostics.ErrResetType,
		diagnostics.ErrConnectMismatch,
		diagnostics.ErrPrimOperands,
		diagnostics.ErrWhenCondition,
		diagnostics.ErrNotBundle,
	}, codes(diags))
	assert.Equal(t, 8, n)
}

func TestExternalModuleChecks(t *testing.T) {
	port := func(w int) []ir.PortInfo {
		return []ir.PortInfo{{Name: "a", Direction: ir.In, Type: types.UInt(w)}}
	}

	t.Run("defname conflict", func(t *testing.T) {
		c := &ir.Circuit{Name: "Top"}
		c.Add(ir.NewExtModule("A", "BB", port(4)))
		c.Add(ir.NewExtModule("B", "BB", port(8)))
		diags, _ := check(c)
		assert.Equal(t, []string{diagnostics.ErrDefnameConflict}, codes(diags))
	})

	t.Run("parameterized widths are ignored", func(t *testing.T) {
		c := &ir.Circuit{Name: "Top"}
		a := ir.NewExtModule("A", "BB", port(4))
		a.Params = []ir.Param{{Name: "WIDTH", Value: "4"}}
		c.Add(a)
		c.Add(ir.NewExtModule("B", "BB", port(8)))
		diags, n := check(c)
		assert.Empty(t, diags.Diagnostics)
		assert.Zero(t, n)
	})

	t.Run("defname names a module", func(t *testing.T) {
		c := &ir.Circuit{Name: "Top"}
		c.Add(ir.NewModule("Top", nil))
		c.Add(ir.NewExtModule("A", "Top", port(1)))
		diags, _ := check(c)
		assert.Equal(t, []string{diagnostics.ErrRedeclaredModule}, codes(diags))
	})

	t.Run("empty parameter", func(t *testing.T) {
		c := &ir.Circuit{Name: "Top"}
		a := ir.NewExtModule("A", "", port(1))
		a.Params = []ir.Param{{Name: "DEPTH"}}
		c.Add(a)
		diags, n := check(c)
		assert.Equal(t, []string{diagnostics.WarnUnusedExtParam}, codes(diags))
		assert.Zero(t, n)
	})

	t.Run("redeclared module", func(t *testing.T) {
		c := &ir.Circuit{Name: "Top"}
		c.Add(ir.NewModule("Top", nil))
		c.Add(ir.NewModule("Top", nil))
		diags, _ := check(c)
		assert.Equal(t, []string{diagnostics.ErrRedeclaredModule}, codes(diags))
	})
}

func TestLoweredAcceptsLoweringOutput(t *testing.T) {
	c, m, b := top(
		ir.PortInfo{Name: "clock", Direction: ir.In, Type: types.Clock()},
		ir.PortInfo{Name: "io", Direction: ir.Out, Type: types.MustParse("{a: UInt<4>, flip b: UInt<4>[2]}")},
	)
	w := b.Wire("w", types.MustParse("{a: UInt<4>, flip b: UInt<4>[2]}"))
	b.Connect(m.Port("io"), w)
	mem := b.Mem("mem", types.MustParse("{x: UInt<2>, y: SInt<3>}"), 8, ir.MemPort{Name: "rw", Kind: memport.ReadWrite})
	b.Connect(b.Subfield(mem.Result("rw"), memport.Clk), m.Port("clock"))

	var before diagnostics.Collector
	assert.Equal(t, 3, Lowered(c, &before))
	for _, d := range before.Diagnostics {
		assert.Equal(t, diagnostics.ErrAggregateRemains, d.Code)
	}

	_, err := typelower.Run(c, typelower.Options{Logger: zerolog.Nop(), Diagnostics: &diagnostics.Collector{}})
	require.NoError(t, err)

	var after diagnostics.Collector
	assert.Zero(t, Lowered(c, &after))
	assert.Empty(t, after.Diagnostics)
}

func TestLoweredReportsFlips(t *testing.T) {
	c, _, b := top()
	b.Wire("w", types.Flip(types.UInt(1)))

	var diags diagnostics.Collector
	assert.Equal(t, 1, Lowered(c, &diags))
	assert.Equal(t, diagnostics.ErrFlipRemains, diags.Diagnostics[0].Code)
}
