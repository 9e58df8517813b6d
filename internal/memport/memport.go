// Package memport builds the canonical bundle types of memory ports and
// recovers a port's kind from its bundle shape.
package memport

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/internal/types"
)

// Kind is the kind of a memory port.
type Kind int

const (
	Read Kind = iota
	Write
	ReadWrite
)

func (k Kind) String() string {
	switch k {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "readwrite"
	default:
		return "unknown"
	}
}

// ParseKind parses the textual port kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "read":
		return Read, nil
	case "write":
		return Write, nil
	case "readwrite", "rw":
		return ReadWrite, nil
	default:
		return 0, errors.Errorf("unknown memory port kind %q", s)
	}
}

// Port bundle field names.
const (
	Addr  = "addr"
	En    = "en"
	Clk   = "clk"
	Data  = "data"
	Mask  = "mask"
	WMode = "wmode"
	RData = "rdata"
	WData = "wdata"
	WMask = "wmask"
)

// ErrMalformedPort is returned when a bundle does not have the shape of any port kind.
var ErrMalformedPort = errors.New("malformed memory port type")

// AddrWidth returns the address width for a memory of the given depth:
// max(1, ceil(log2(depth))).
func AddrWidth(depth uint64) int {
	if depth <= 1 {
		return 1
	}
	return max(1, bits.Len64(depth-1))
}

// TypeForPort returns the bundle type of a port of the given kind.
// The data type must be passive and free of analog leaves.
func TypeForPort(depth uint64, data types.Type, kind Kind) *types.BundleType {
	fields := []types.BundleField{
		types.Field(Addr, types.UInt(AddrWidth(depth))),
		types.Field(En, types.UInt(1)),
		types.Field(Clk, types.Clock()),
	}

	switch kind {
	case Read:
		fields = append(fields, types.FlippedField(Data, data))
	case Write:
		fields = append(fields,
			types.Field(Data, data),
			types.Field(Mask, types.MaskType(data)))
	case ReadWrite:
		fields = append(fields,
			types.Field(WMode, types.UInt(1)),
			types.FlippedField(RData, data),
			types.Field(WData, data),
			types.Field(WMask, types.MaskType(data)))
	default:
		panic("memport: unknown port kind")
	}
	return types.Bundle(fields...)
}

// KindOf recovers the kind of a port from its bundle type. Only the number of
// fields is significant.
func KindOf(t types.Type) (Kind, error) {
	b, ok := types.StripFlips(t).(*types.BundleType)
	if !ok {
		return 0, errors.Wrapf(ErrMalformedPort, "%s is not a bundle", t)
	}
	switch b.NumFields() {
	case 4:
		return Read, nil
	case 5:
		return Write, nil
	case 7:
		return ReadWrite, nil
	default:
		return 0, errors.Wrapf(ErrMalformedPort, "%d fields in %s", b.NumFields(), t)
	}
}

// DataType returns the data type carried by a port bundle, without its flip.
func DataType(t types.Type) (types.Type, error) {
	kind, err := KindOf(t)
	if err != nil {
		return nil, err
	}
	name := Data
	if kind == ReadWrite {
		name = RData
	}
	data, _, err := types.FieldAccess(t, name)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedPort, err.Error())
	}
	return data, nil
}
