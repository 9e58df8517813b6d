package diagnostics

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// Structural access errors

// AccessError reports a field or element access that the input type cannot
// satisfy. err is one of the types access errors.
func AccessError(loc source.Location, input types.Type, err error) *Diagnostic {
	code := ErrNotBundle
	label := "invalid access"
	switch {
	case errors.Is(err, types.ErrNotBundle):
		label = "not a bundle"
	case errors.Is(err, types.ErrUnknownField):
		code = ErrUnknownField
		label = "no such field"
	case errors.Is(err, types.ErrNotVector):
		code = ErrNotVector
		label = "not a vector"
	case errors.Is(err, types.ErrIndexOutRange):
		code = ErrIndexOutOfBounds
		label = "index out of bounds"
	}
	return NewError(err.Error()).
		WithCode(code).
		WithPrimaryLabel(loc, label).
		WithNote("input has type " + input.String())
}

// DynamicIndex reports an access with a runtime index, which lowering cannot
// resolve to a single leaf.
func DynamicIndex(loc source.Location, vec types.Type) *Diagnostic {
	return NewError("unsupported dynamic index access").
		WithCode(ErrDynamicIndex).
		WithPrimaryLabel(loc, "index is not a constant").
		WithNote("vector has type " + vec.String()).
		WithHelp("lower dynamic accesses to muxes before lowering aggregate types")
}

// Connection errors

func ConnectMismatch(loc source.Location, dest, src types.Type) *Diagnostic {
	return NewError("connected types are not equivalent").
		WithCode(ErrConnectMismatch).
		WithPrimaryLabel(loc, fmt.Sprintf("cannot connect %s to %s", src, dest))
}

func ConnectWidth(loc source.Location, dest, src int) *Diagnostic {
	return NewError("destination is narrower than the source").
		WithCode(ErrConnectWidth).
		WithPrimaryLabel(loc, fmt.Sprintf("%d-bit source connected to %d-bit destination", src, dest))
}

func ConnectToSource(loc source.Location, dest string) *Diagnostic {
	return NewError("connection destination cannot be driven").
		WithCode(ErrConnectToSource).
		WithPrimaryLabel(loc, dest+" is a source").
		WithHelp("swap the operands or connect to an output port, wire or register")
}

func AmbiguousConnect(loc source.Location, dest, src string) *Diagnostic {
	return NewError("ambiguous bulk connection").
		WithCode(ErrAmbiguousConnect).
		WithPrimaryLabel(loc, fmt.Sprintf("both %s and %s can be driven", dest, src)).
		WithHelp("connect the flipped fields of the aggregate one at a time")
}

func AnalogConnect(loc source.Location) *Diagnostic {
	return NewError("analog values cannot be connected").
		WithCode(ErrAnalogConnect).
		WithPrimaryLabel(loc, "type contains Analog")
}

// Declaration errors

func MalformedMemPort(loc source.Location, mem, port string, err error) *Diagnostic {
	return NewError(fmt.Sprintf("malformed port %s of memory %s", port, mem)).
		WithCode(ErrMalformedMemPort).
		WithPrimaryLabel(loc, err.Error())
}

func MemDataMismatch(loc source.Location, mem, port string, want, got types.Type) *Diagnostic {
	return NewError(fmt.Sprintf("port %s of memory %s disagrees on the data type", port, mem)).
		WithCode(ErrMemDataMismatch).
		WithPrimaryLabel(loc, fmt.Sprintf("expected %s, found %s", want, got))
}

func MemPortType(loc source.Location, mem, port string, want, got types.Type) *Diagnostic {
	return NewError(fmt.Sprintf("port %s of memory %s has the wrong type", port, mem)).
		WithCode(ErrMemPortType).
		WithPrimaryLabel(loc, "found "+got.String()).
		WithNote("expected " + want.String())
}

func MemDuplicatePort(loc source.Location, mem, port string) *Diagnostic {
	return NewError(fmt.Sprintf("memory %s declares port %s twice", mem, port)).
		WithCode(ErrMemDuplicatePort).
		WithPrimaryLabel(loc, "declared here")
}

// MemData reports a data type a memory cannot store: it must be passive and
// free of analog values.
func MemData(loc source.Location, mem string, t types.Type) *Diagnostic {
	return NewError("memory "+mem+" has an unsupported data type").
		WithCode(ErrMemData).
		WithPrimaryLabel(loc, "has type "+t.String()).
		WithHelp("memory data must be passive and must not contain Analog")
}

func MemDepth(loc source.Location, mem string) *Diagnostic {
	return NewError("memory "+mem+" has zero depth").
		WithCode(ErrMemDepth).
		WithPrimaryLabel(loc, "depth must be at least 1")
}

func MemLatency(loc source.Location, mem string, read, write int) *Diagnostic {
	return NewError("memory "+mem+" has invalid latencies").
		WithCode(ErrMemLatency).
		WithPrimaryLabel(loc, fmt.Sprintf("read-latency = %d, write-latency = %d", read, write)).
		WithHelp("read latency must be at least 0 and write latency at least 1")
}

func MemNoPorts(loc source.Location, mem string) *Diagnostic {
	return NewWarning("memory "+mem+" has no ports").
		WithCode(WarnMemNoPorts).
		WithPrimaryLabel(loc, "declared here")
}

func InstanceSignature(loc source.Location, inst, module string) *Diagnostic {
	return NewError(fmt.Sprintf("instance %s does not match the ports of %s", inst, module)).
		WithCode(ErrInstanceSignature).
		WithPrimaryLabel(loc, "instantiated here")
}

func UndefinedModule(loc source.Location, name string) *Diagnostic {
	return NewError("undefined module: "+name).
		WithCode(ErrUndefinedModule).
		WithPrimaryLabel(loc, "not declared in this circuit")
}

func RedeclaredModule(loc, prev source.Location, name string) *Diagnostic {
	return NewError(name+" is already declared").
		WithCode(ErrRedeclaredModule).
		WithPrimaryLabel(loc, "redeclared here").
		WithSecondaryLabel(prev, "previously declared here")
}

func DefnameConflict(loc, prev source.Location, defname, name, other string) *Diagnostic {
	return NewError(fmt.Sprintf("extmodule %s has the same defname %s as %s but different ports", name, defname, other)).
		WithCode(ErrDefnameConflict).
		WithPrimaryLabel(loc, "declared here").
		WithSecondaryLabel(prev, other+" declared here")
}

func UnusedExtParam(loc source.Location, name, param string) *Diagnostic {
	return NewWarning(fmt.Sprintf("parameter %s of %s has an empty value", param, name)).
		WithCode(WarnUnusedExtParam).
		WithPrimaryLabel(loc, "declared here")
}

func RegisterClock(loc source.Location, reg string, t types.Type) *Diagnostic {
	return NewError("clock of register "+reg+" is not a Clock").
		WithCode(ErrRegisterClock).
		WithPrimaryLabel(loc, "has type "+t.String())
}

func ResetType(loc source.Location, reg string, t types.Type) *Diagnostic {
	return NewError("reset of register "+reg+" is not a reset type").
		WithCode(ErrResetType).
		WithPrimaryLabel(loc, "has type "+t.String()).
		WithHelp("use Reset, AsyncReset or UInt<1>")
}

func PrimOperands(loc source.Location, op string, want, got int) *Diagnostic {
	return NewError("wrong number of operands for "+op).
		WithCode(ErrPrimOperands).
		WithPrimaryLabel(loc, fmt.Sprintf("expected %d operands, found %d", want, got))
}

func WhenCondition(loc source.Location, t types.Type) *Diagnostic {
	return NewError("when condition must be UInt<1>").
		WithCode(ErrWhenCondition).
		WithPrimaryLabel(loc, "has type "+t.String())
}

// Post-lowering checks

func AggregateRemains(loc source.Location, what string, t types.Type) *Diagnostic {
	return NewError(what+" still has an aggregate type after lowering").
		WithCode(ErrAggregateRemains).
		WithPrimaryLabel(loc, "has type "+t.String())
}

func FlipRemains(loc source.Location, what string, t types.Type) *Diagnostic {
	return NewError(what+" still has a flipped type after lowering").
		WithCode(ErrFlipRemains).
		WithPrimaryLabel(loc, "has type "+t.String())
}

// Input errors

func InvalidInput(loc source.Location, message string) *Diagnostic {
	return NewError(message).
		WithCode(ErrInvalidInput).
		WithPrimaryLabel(loc, "here")
}

func SchemaViolation(message string) *Diagnostic {
	return NewError("input does not match the circuit schema").
		WithCode(ErrSchemaViolation).
		WithNote(message)
}

func UndefinedValue(loc source.Location, name string) *Diagnostic {
	return NewError("undefined value: "+name).
		WithCode(ErrUndefinedValue).
		WithPrimaryLabel(loc, "not found in this module").
		WithHelp("values must be declared before they are used")
}

func RedeclaredValue(loc source.Location, name string) *Diagnostic {
	return NewError(name+" is already declared").
		WithCode(ErrRedeclaredValue).
		WithPrimaryLabel(loc, "redeclared here")
}

func InvalidTypeText(loc source.Location, text string, err error) *Diagnostic {
	return NewError("invalid type "+fmt.Sprintf("%q", text)).
		WithCode(ErrInvalidTypeText).
		WithPrimaryLabel(loc, err.Error())
}
