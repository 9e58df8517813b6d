package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassiveAndAnalog(t *testing.T) {
	tests := []struct {
		typ     Type
		passive bool
		analog  bool
	}{
		{UInt(3), true, false},
		{Analog(1), true, true},
		{Flip(UInt(3)), false, false},
		{Bundle(Field("a", UInt(1)), Field("b", Vector(Analog(2), 2))), true, true},
		{Bundle(Field("a", UInt(1)), FlippedField("b", Clock())), false, false},
		{Vector(Bundle(FlippedField("x", Analog(UnknownWidth))), 4), false, true},
		{Vector(Flip(UInt(1)), 0), false, false},
		{Bundle(), true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.passive, tt.typ.IsPassive(), "IsPassive(%s)", tt.typ)
		assert.Equal(t, tt.analog, tt.typ.ContainsAnalog(), "ContainsAnalog(%s)", tt.typ)
	}
}

func TestBitWidthOrSentinel(t *testing.T) {
	tests := []struct {
		typ  Type
		want int
	}{
		{Clock(), 1},
		{Reset(), 1},
		{AsyncReset(), 1},
		{UInt(8), 8},
		{SInt(UnknownWidth), WidthUnknown},
		{Analog(4), 4},
		{Flip(UInt(8)), WidthNotScalar},
		{Vector(UInt(8), 2), WidthNotScalar},
		{Bundle(Field("a", UInt(1))), WidthNotScalar},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BitWidthOrSentinel(tt.typ), "BitWidthOrSentinel(%s)", tt.typ)
	}
}

func TestDerivedTypes(t *testing.T) {
	typ := MustParse("{a: UInt<4>, flip b: SInt<3>[2], c: {d: Clock, e: Analog<5>}}")

	assert.Equal(t,
		"{a: UInt<1>, flip b: UInt<1>[2], c: {d: UInt<1>, e: UInt<1>}}",
		MaskType(typ).String())
	assert.Equal(t,
		"{a: UInt, flip b: SInt[2], c: {d: Clock, e: Analog}}",
		WidthlessType(typ).String())
	assert.Equal(t,
		"{a: UInt<4>, b: SInt<3>[2], c: {d: Clock, e: Analog<5>}}",
		PassiveType(typ).String())

	// Memoized results are the same interned objects.
	assert.Same(t, MaskType(typ), MaskType(typ))
	assert.Same(t, UInt(9), PassiveType(UInt(9)))
}

func TestFlipIf(t *testing.T) {
	assert.Equal(t, UInt(1), FlipIf(UInt(1), false))
	assert.Equal(t, Flip(UInt(1)), FlipIf(UInt(1), true))
	assert.Equal(t, UInt(1), FlipIf(Flip(UInt(1)), true))
}

func TestConnectEquivalent(t *testing.T) {
	tests := []struct {
		dest, src string
		want      bool
	}{
		{"UInt<4>", "UInt<8>", true},
		{"UInt<4>", "SInt<4>", false},
		{"Clock", "Clock", true},
		{"Reset", "AsyncReset", true},
		{"Reset", "UInt<1>", true},
		{"UInt", "Reset", true},
		{"Reset", "UInt<2>", false},
		{"AsyncReset", "UInt<1>", false},
		{"Analog<2>", "Analog<3>", true},
		{"UInt<1>[2]", "UInt<3>[2]", true},
		{"UInt<1>[2]", "UInt<1>[3]", false},
		{"{a: UInt<1>, flip b: SInt<2>}", "{a: UInt<7>, flip b: SInt}", true},
		{"{a: UInt<1>, flip b: SInt<2>}", "{a: UInt<1>, b: SInt<2>}", false},
		{"{a: UInt<1>}", "{b: UInt<1>}", false},
		{"{a: UInt<1>, b: UInt<1>}", "{b: UInt<1>, a: UInt<1>}", false},
		{"{flip a: flip UInt<1>}", "{a: UInt<1>}", true},
		{"flip {a: UInt<1>}", "{flip a: UInt<1>}", true},
		{"{a: UInt<1>}", "UInt<1>", false},
		{"UInt<1>", "UInt<1>[1]", false},
		{"(flip UInt<1>)[0]", "UInt<1>[0]", true},
	}

	for _, tt := range tests {
		got := ConnectEquivalent(MustParse(tt.dest), MustParse(tt.src))
		assert.Equal(t, tt.want, got, "ConnectEquivalent(%s, %s)", tt.dest, tt.src)
	}
}
