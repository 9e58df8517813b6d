package memport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellaraccident/circt/internal/types"
)

func TestAddrWidth(t *testing.T) {
	tests := []struct {
		depth uint64
		want  int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{1 << 20, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AddrWidth(tt.depth), "AddrWidth(%d)", tt.depth)
	}
}

func TestTypeForPort(t *testing.T) {
	data := types.UInt(8)

	read := TypeForPort(5, data, Read)
	assert.Equal(t, "{addr: UInt<3>, en: UInt<1>, clk: Clock, flip data: UInt<8>}", read.String())

	write := TypeForPort(5, data, Write)
	assert.Equal(t, "{addr: UInt<3>, en: UInt<1>, clk: Clock, data: UInt<8>, mask: UInt<1>}", write.String())

	rw := TypeForPort(5, data, ReadWrite)
	names := make([]string, 0, rw.NumFields())
	for _, f := range rw.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"addr", "en", "clk", "wmode", "rdata", "wdata", "wmask"}, names)
	assert.Equal(t, types.Flip(data), rw.Fields()[4].Type)
}

func TestTypeForPortAggregateMask(t *testing.T) {
	data := types.MustParse("{a: UInt<8>, b: SInt<4>[2]}")
	write := TypeForPort(16, data, Write)

	mask, _, err := types.FieldAccess(write, Mask)
	require.NoError(t, err)
	assert.Equal(t, "{a: UInt<1>, b: UInt<1>[2]}", mask.String())
}

func TestKindOf(t *testing.T) {
	for _, kind := range []Kind{Read, Write, ReadWrite} {
		got, err := KindOf(TypeForPort(32, types.SInt(4), kind))
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := KindOf(types.MustParse("{a: UInt, b: UInt, c: UInt}"))
	assert.ErrorIs(t, err, ErrMalformedPort)

	_, err = KindOf(types.UInt(1))
	assert.ErrorIs(t, err, ErrMalformedPort)
}

func TestDataType(t *testing.T) {
	data := types.MustParse("{a: UInt<8>}")
	for _, kind := range []Kind{Read, Write, ReadWrite} {
		got, err := DataType(TypeForPort(4, data, kind))
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range []Kind{Read, Write, ReadWrite} {
		got, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	_, err := ParseKind("inout")
	assert.Error(t, err)
}
