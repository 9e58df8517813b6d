package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Clock(), "Clock"},
		{Reset(), "Reset"},
		{AsyncReset(), "AsyncReset"},
		{UInt(8), "UInt<8>"},
		{UInt(UnknownWidth), "UInt"},
		{SInt(0), "SInt<0>"},
		{Analog(3), "Analog<3>"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}

func TestAggregateString(t *testing.T) {
	b := Bundle(
		Field("a", UInt(4)),
		FlippedField("b", Bundle(Field("x", UInt(1)))),
	)
	assert.Equal(t, "{a: UInt<4>, flip b: {x: UInt<1>}}", b.String())
	assert.Equal(t, "UInt<4>[3]", Vector(UInt(4), 3).String())
	assert.Equal(t, "(flip UInt<1>)[2]", Vector(Flip(UInt(1)), 2).String())
	assert.Equal(t, "flip Clock[2]", Flip(Vector(Clock(), 2)).String())
	assert.Equal(t, "{}", Bundle().String())
}

func TestInterning(t *testing.T) {
	a := Bundle(Field("a", UInt(4)), FlippedField("b", SInt(2)))
	b := Bundle(Field("a", UInt(4)), FlippedField("b", SInt(2)))
	assert.Same(t, a, b)
	assert.Same(t, UInt(7), UInt(7))
	assert.Same(t, Flip(Flip(Clock())), Flip(Flip(Clock())))
	assert.NotSame(t, Flip(Flip(Clock())), Clock())
}

func TestEquals(t *testing.T) {
	tests := []struct {
		t1, t2 Type
		equal  bool
	}{
		{UInt(4), UInt(4), true},
		{UInt(4), UInt(5), false},
		{UInt(4), SInt(4), false},
		{UInt(UnknownWidth), UInt(4), false},
		{Vector(UInt(1), 2), Vector(UInt(1), 2), true},
		{Vector(UInt(1), 2), Vector(UInt(1), 3), false},
		{Bundle(Field("a", Clock())), Bundle(Field("b", Clock())), false},
		{Bundle(Field("a", Clock())), Bundle(FlippedField("a", Clock())), false},
		{Flip(Reset()), Flip(Reset()), true},
	}

	for _, tt := range tests {
		if got := tt.t1.Equals(tt.t2); got != tt.equal {
			t.Errorf("%s.Equals(%s) = %v, want %v", tt.t1, tt.t2, got, tt.equal)
		}
	}
}

func TestInvalidConstructionPanics(t *testing.T) {
	require.Panics(t, func() { Bundle(Field("a", nil)) })
	require.Panics(t, func() { Bundle(Field("", UInt(1))) })
	require.Panics(t, func() { Bundle(Field("a", UInt(1)), Field("a", UInt(2))) })
	require.Panics(t, func() { Vector(nil, 2) })
	require.Panics(t, func() { Vector(UInt(1), -1) })
	require.Panics(t, func() { Flip(nil) })
	require.Panics(t, func() { UInt(-2) })
}

func TestFieldAccess(t *testing.T) {
	b := Bundle(Field("a", UInt(4)), FlippedField("b", Bundle(Field("x", UInt(1)))))

	ft, flipped, err := FieldAccess(b, "a")
	require.NoError(t, err)
	assert.Equal(t, UInt(4), ft)
	assert.False(t, flipped)

	ft, flipped, err = FieldAccess(b, "b")
	require.NoError(t, err)
	assert.Equal(t, Bundle(Field("x", UInt(1))), ft)
	assert.True(t, flipped)

	// An outer flip on the operand cancels a flipped field.
	ft, flipped, err = FieldAccess(Flip(b), "b")
	require.NoError(t, err)
	assert.Equal(t, Bundle(Field("x", UInt(1))), ft)
	assert.False(t, flipped)

	_, _, err = FieldAccess(b, "c")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, _, err = FieldAccess(UInt(1), "a")
	assert.ErrorIs(t, err, ErrNotBundle)
}

func TestElementAccess(t *testing.T) {
	v := Vector(Flip(UInt(2)), 3)

	et, flipped, err := ElementAccess(v, 2)
	require.NoError(t, err)
	assert.Equal(t, UInt(2), et)
	assert.True(t, flipped)

	_, _, err = ElementAccess(v, 3)
	assert.ErrorIs(t, err, ErrIndexOutRange)

	_, _, err = ElementAccess(Bundle(), 0)
	assert.ErrorIs(t, err, ErrNotVector)
}
