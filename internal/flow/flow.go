// Package flow classifies values as sources, sinks or duplex storage.
package flow

import (
	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/types"
)

// Flow is how a value may be used at a connection.
type Flow int

const (
	Source Flow = iota // may only be read
	Sink               // may only be driven
	Duplex             // may be read and driven
)

func (f Flow) String() string {
	switch f {
	case Source:
		return "source"
	case Sink:
		return "sink"
	case Duplex:
		return "duplex"
	default:
		return "unknown"
	}
}

// Swap exchanges source and sink; duplex is unchanged.
func (f Flow) Swap() Flow {
	switch f {
	case Source:
		return Sink
	case Sink:
		return Source
	default:
		return f
	}
}

// ErrAmbiguous is returned for a bulk connection between two duplex values.
var ErrAmbiguous = errors.New("ambiguous bulk connection between duplex values")

// Root follows field, index and dynamic index accesses back to the value they
// are taken from.
func Root(v ir.Value) ir.Value {
	for {
		switch op := v.(type) {
		case *ir.SubfieldOp:
			v = op.Input
		case *ir.SubindexOp:
			v = op.Input
		case *ir.SubaccessOp:
			v = op.Input
		default:
			return v
		}
	}
}

// IsDuplex reports whether v is rooted in a wire or register.
func IsDuplex(v ir.Value) bool {
	switch Root(v).(type) {
	case *ir.WireOp, *ir.RegOp, *ir.RegResetOp:
		return true
	default:
		return false
	}
}

// Of classifies v. Accesses into a value inherit its flow, inverted once for
// every flipped field or element crossed on the way.
func Of(v ir.Value) Flow {
	switch v := v.(type) {
	case *ir.Port:
		if v.Direction == ir.Out {
			return Sink
		}
		return Source
	case *ir.OpResult:
		// Seen from the instantiating module, the callee's inputs are driven.
		if v.Direction == ir.In {
			return Sink
		}
		return Source
	case *ir.WireOp, *ir.RegOp, *ir.RegResetOp:
		return Duplex
	case *ir.SubfieldOp:
		_, flipped, err := types.FieldAccess(v.Input.ValueType(), v.Field)
		return access(Of(v.Input), flipped, err)
	case *ir.SubindexOp:
		_, flipped, err := types.ElementOf(v.Input.ValueType())
		return access(Of(v.Input), flipped, err)
	case *ir.SubaccessOp:
		_, flipped, err := types.ElementOf(v.Input.ValueType())
		return access(Of(v.Input), flipped, err)
	default:
		return Source
	}
}

func access(input Flow, flipped bool, err error) Flow {
	if err != nil || !flipped {
		return input
	}
	return input.Swap()
}

// Orient decides which value of a leaf pair from a bulk connection is driven.
// A duplex value takes whichever role the other value's flow leaves open; a
// value with a fixed flow keeps it. The returned destination may still be a
// pure source when neither value can be driven.
func Orient(dest, src ir.Value) (ir.Value, ir.Value, error) {
	destFlow, srcFlow := Of(dest), Of(src)
	if destFlow == Duplex && srcFlow == Duplex {
		return nil, nil, ErrAmbiguous
	}

	swap := destFlow != Sink
	if destFlow == Duplex {
		swap = srcFlow == Sink
	}
	if swap {
		return src, dest, nil
	}
	return dest, src, nil
}

// CanDrive reports whether v may appear as the destination of a connection.
func CanDrive(v ir.Value) bool {
	return Of(v) != Source
}
