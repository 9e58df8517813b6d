package verify

import (
	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/flatten"
	"github.com/stellaraccident/circt/internal/flow"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/types"
)

// checkConnect validates one connection. Types must be connect-equivalent
// and analog free, and no driven leaf may be narrower than its driver. A
// ground destination must be drivable; a bulk connection between two duplex
// values has no defined orientation.
func (c *checker) checkConnect(op *ir.ConnectOp) {
	dt, st := op.Dest.ValueType(), op.Src.ValueType()
	if dt.ContainsAnalog() || st.ContainsAnalog() {
		c.report(diagnostics.AnalogConnect(op.Location))
		return
	}
	if !types.ConnectEquivalent(dt, st) {
		c.report(diagnostics.ConnectMismatch(op.Location, dt, st))
		return
	}

	if !types.IsAggregate(dt) {
		if !flow.CanDrive(op.Dest) {
			c.report(diagnostics.ConnectToSource(op.Location, describe(op.Dest)))
		}
		c.checkWidth(op, types.StripFlips(dt), types.StripFlips(st))
		return
	}

	if flow.IsDuplex(op.Dest) && flow.IsDuplex(op.Src) {
		c.report(diagnostics.AmbiguousConnect(op.Location, describe(op.Dest), describe(op.Src)))
		return
	}
	if dt.IsPassive() && !flow.CanDrive(op.Dest) {
		c.report(diagnostics.ConnectToSource(op.Location, describe(op.Dest)))
		return
	}

	dests, srcs := flatten.Leaves(dt), flatten.Leaves(st)
	for i := range dests {
		driven, driver := dests[i].Type, srcs[i].Type
		if dests[i].IsOutput {
			driven, driver = driver, driven
		}
		c.checkWidth(op, driven, driver)
	}
}

func (c *checker) checkWidth(op *ir.ConnectOp, driven, driver types.Type) {
	dw, sw := types.BitWidthOrSentinel(driven), types.BitWidthOrSentinel(driver)
	if dw >= 0 && sw >= 0 && dw < sw {
		c.report(diagnostics.ConnectWidth(op.Location, dw, sw))
	}
}

// describe names a value for a diagnostic.
func describe(v ir.Value) string {
	if name := ir.Name(v); name != "" {
		return name
	}
	switch v := v.(type) {
	case *ir.SubfieldOp:
		return describe(v.Input) + "." + v.Field
	case *ir.SubindexOp:
		return describe(v.Input) + "[" + itoa(v.Index) + "]"
	case *ir.SubaccessOp:
		return describe(v.Input) + "[" + describe(v.Index) + "]"
	case *ir.InvalidValueOp:
		return "invalid value"
	case *ir.ConstantOp:
		return "constant"
	default:
		return "expression"
	}
}
