package types

import (
	"github.com/pkg/errors"
)

// Structural access errors.
var (
	ErrNotBundle     = errors.New("operand is not a bundle")
	ErrNotVector     = errors.New("operand is not a vector")
	ErrUnknownField  = errors.New("unknown field")
	ErrIndexOutRange = errors.New("index out of range")
)

// FieldAccess returns the bare type of field name within t, and whether the
// access inverts direction (an odd number of flips on t itself and on the
// field).
func FieldAccess(t Type, name string) (Type, bool, error) {
	inner, outer := FlipParity(t)
	b, ok := inner.(*BundleType)
	if !ok {
		return nil, false, errors.Wrapf(ErrNotBundle, "cannot access field %q of %s", name, t)
	}
	f, _, ok := b.Field(name)
	if !ok {
		return nil, false, errors.Wrapf(ErrUnknownField, "%s has no field %q", t, name)
	}
	ft, flipped := FlipParity(f.Type)
	return ft, outer != flipped, nil
}

// ElementAccess returns the bare element type at index within t, and whether
// the access inverts direction.
func ElementAccess(t Type, index int) (Type, bool, error) {
	elem, flipped, err := ElementOf(t)
	if err != nil {
		return nil, false, err
	}
	v := StripFlips(t).(*VectorType)
	if index < 0 || index >= v.count {
		return nil, false, errors.Wrapf(ErrIndexOutRange, "index %d out of range for %s", index, t)
	}
	return elem, flipped, nil
}

// ElementOf returns the bare element type of the vector t regardless of index.
func ElementOf(t Type) (Type, bool, error) {
	inner, outer := FlipParity(t)
	v, ok := inner.(*VectorType)
	if !ok {
		return nil, false, errors.Wrapf(ErrNotVector, "cannot index into %s", t)
	}
	et, flipped := FlipParity(v.elem)
	return et, outer != flipped, nil
}
