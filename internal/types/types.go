package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is an immutable FIRRTL type.
//
// Types are interned by structure, so two structurally equal types are the
// same object. The set of variants is closed; use a type switch over the
// concrete types.
//
// Passivity and analog containment are computed at construction. The derived
// types (MaskType, WidthlessType, PassiveType) are computed on first use and
// memoized.
type Type interface {
	// String returns the canonical textual form, which is also the interning key
	String() string

	// Equals checks structural equality with another type
	Equals(other Type) bool

	// IsPassive reports whether no Flip occurs anywhere in the type
	IsPassive() bool

	// ContainsAnalog reports whether any leaf of the type is Analog
	ContainsAnalog() bool

	// isType is a marker method to prevent external implementation
	isType()
}

// UnknownWidth marks an integer or analog type whose width is inferred later.
const UnknownWidth = -1

// Ground types

// ClockType is the clock signal type.
type ClockType struct{}

// ResetType is the abstract reset type, later inferred to sync or async.
type ResetType struct{}

// AsyncResetType is an asynchronous reset.
type AsyncResetType struct{}

// UIntType is an unsigned integer with an optional width.
type UIntType struct{ width int }

// SIntType is a signed integer with an optional width.
type SIntType struct{ width int }

// AnalogType is a bidirectional analog wire with an optional width.
type AnalogType struct{ width int }

func (*ClockType) String() string      { return "Clock" }
func (*ResetType) String() string      { return "Reset" }
func (*AsyncResetType) String() string { return "AsyncReset" }
func (t *UIntType) String() string     { return widthString("UInt", t.width) }
func (t *SIntType) String() string     { return widthString("SInt", t.width) }
func (t *AnalogType) String() string   { return widthString("Analog", t.width) }

func (*ClockType) isType()      {}
func (*ResetType) isType()      {}
func (*AsyncResetType) isType() {}
func (*UIntType) isType()       {}
func (*SIntType) isType()       {}
func (*AnalogType) isType()     {}

func (t *ClockType) Equals(o Type) bool      { return Equal(t, o) }
func (t *ResetType) Equals(o Type) bool      { return Equal(t, o) }
func (t *AsyncResetType) Equals(o Type) bool { return Equal(t, o) }
func (t *UIntType) Equals(o Type) bool       { return Equal(t, o) }
func (t *SIntType) Equals(o Type) bool       { return Equal(t, o) }
func (t *AnalogType) Equals(o Type) bool     { return Equal(t, o) }

func (*ClockType) IsPassive() bool      { return true }
func (*ResetType) IsPassive() bool      { return true }
func (*AsyncResetType) IsPassive() bool { return true }
func (*UIntType) IsPassive() bool       { return true }
func (*SIntType) IsPassive() bool       { return true }
func (*AnalogType) IsPassive() bool     { return true }

func (*ClockType) ContainsAnalog() bool      { return false }
func (*ResetType) ContainsAnalog() bool      { return false }
func (*AsyncResetType) ContainsAnalog() bool { return false }
func (*UIntType) ContainsAnalog() bool       { return false }
func (*SIntType) ContainsAnalog() bool       { return false }
func (*AnalogType) ContainsAnalog() bool     { return true }

// Width returns the declared width, or UnknownWidth.
func (t *UIntType) Width() int   { return t.width }
func (t *SIntType) Width() int   { return t.width }
func (t *AnalogType) Width() int { return t.width }

// HasWidth reports whether the width is known.
func (t *UIntType) HasWidth() bool   { return t.width != UnknownWidth }
func (t *SIntType) HasWidth() bool   { return t.width != UnknownWidth }
func (t *AnalogType) HasWidth() bool { return t.width != UnknownWidth }

func widthString(kind string, width int) string {
	if width == UnknownWidth {
		return kind
	}
	return kind + "<" + strconv.Itoa(width) + ">"
}

// Aggregate types

// BundleField is one named field of a bundle.
// A flipped field is a field whose Type is a *FlipType.
type BundleField struct {
	Name string
	Type Type
}

// BundleType represents an ordered set of named fields: {a: T, flip b: U}
type BundleType struct {
	fields  []BundleField
	key     string
	passive bool
	analog  bool
}

// VectorType represents a fixed-size homogeneous array: T[N]
type VectorType struct {
	elem    Type
	count   int
	key     string
	passive bool
	analog  bool
}

// FlipType inverts the direction of its contents: flip T
type FlipType struct {
	inner Type
	key   string
}

func (t *BundleType) String() string { return t.key }
func (t *VectorType) String() string { return t.key }
func (t *FlipType) String() string   { return t.key }

func (*BundleType) isType() {}
func (*VectorType) isType() {}
func (*FlipType) isType()   {}

func (t *BundleType) Equals(o Type) bool { return Equal(t, o) }
func (t *VectorType) Equals(o Type) bool { return Equal(t, o) }
func (t *FlipType) Equals(o Type) bool   { return Equal(t, o) }

func (t *BundleType) IsPassive() bool { return t.passive }
func (t *VectorType) IsPassive() bool { return t.passive }
func (*FlipType) IsPassive() bool     { return false }

func (t *BundleType) ContainsAnalog() bool { return t.analog }
func (t *VectorType) ContainsAnalog() bool { return t.analog }
func (t *FlipType) ContainsAnalog() bool   { return t.inner.ContainsAnalog() }

// Fields returns the fields in declaration order. The slice must not be modified.
func (t *BundleType) Fields() []BundleField { return t.fields }

// NumFields returns the number of fields.
func (t *BundleType) NumFields() int { return len(t.fields) }

// Field looks up a field by name.
func (t *BundleType) Field(name string) (BundleField, int, bool) {
	for i, f := range t.fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return BundleField{}, -1, false
}

// Element returns the element type.
func (t *VectorType) Element() Type { return t.elem }

// Len returns the number of elements.
func (t *VectorType) Len() int { return t.count }

// Inner returns the wrapped type.
func (t *FlipType) Inner() Type { return t.inner }

// Equal reports whether two types are structurally identical.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	return a.String() == b.String()
}

// Constructors

var (
	clockType      = &ClockType{}
	resetType      = &ResetType{}
	asyncResetType = &AsyncResetType{}
)

// Clock returns the clock type.
func Clock() *ClockType { return clockType }

// Reset returns the abstract reset type.
func Reset() *ResetType { return resetType }

// AsyncReset returns the asynchronous reset type.
func AsyncReset() *AsyncResetType { return asyncResetType }

// UInt returns an unsigned integer type; width may be UnknownWidth.
func UInt(width int) *UIntType {
	checkWidth(width)
	return intern(&UIntType{width: width})
}

// SInt returns a signed integer type; width may be UnknownWidth.
func SInt(width int) *SIntType {
	checkWidth(width)
	return intern(&SIntType{width: width})
}

// Analog returns an analog type; width may be UnknownWidth.
func Analog(width int) *AnalogType {
	checkWidth(width)
	return intern(&AnalogType{width: width})
}

func checkWidth(width int) {
	if width < UnknownWidth {
		panic(fmt.Sprintf("types: invalid width %d", width))
	}
}

// Bundle returns the bundle with the given fields.
// Nil field types, empty names and duplicate names are programmer errors.
func Bundle(fields ...BundleField) *BundleType {
	if err := validateFields(fields); err != nil {
		panic("types: " + err.Error())
	}

	owned := make([]BundleField, len(fields))
	copy(owned, fields)

	b := &BundleType{fields: owned, passive: true}
	parts := make([]string, len(owned))
	for i, f := range owned {
		b.passive = b.passive && f.Type.IsPassive()
		b.analog = b.analog || f.Type.ContainsAnalog()
		parts[i] = fieldString(f)
	}
	b.key = "{" + strings.Join(parts, ", ") + "}"
	return intern(b)
}

// Field is shorthand for constructing a BundleField.
func Field(name string, t Type) BundleField {
	return BundleField{Name: name, Type: t}
}

// FlippedField is shorthand for a field whose direction is inverted.
func FlippedField(name string, t Type) BundleField {
	return BundleField{Name: name, Type: Flip(t)}
}

func fieldString(f BundleField) string {
	if flip, ok := f.Type.(*FlipType); ok {
		return "flip " + f.Name + ": " + flip.inner.String()
	}
	return f.Name + ": " + f.Type.String()
}

// Vector returns the vector of count elements.
func Vector(elem Type, count int) *VectorType {
	if elem == nil {
		panic("types: vector with nil element type")
	}
	if count < 0 {
		panic(fmt.Sprintf("types: vector with negative length %d", count))
	}

	elemKey := elem.String()
	if _, ok := elem.(*FlipType); ok {
		elemKey = "(" + elemKey + ")"
	}
	return intern(&VectorType{
		elem:    elem,
		count:   count,
		key:     elemKey + "[" + strconv.Itoa(count) + "]",
		passive: elem.IsPassive(),
		analog:  elem.ContainsAnalog(),
	})
}

// Flip wraps inner with a direction inversion. Nested flips are kept, so
// Flip(Flip(T)) is distinct from T; see FlipIf for the cancelling form.
func Flip(inner Type) *FlipType {
	if inner == nil {
		panic("types: flip of nil type")
	}
	return intern(&FlipType{inner: inner, key: "flip " + inner.String()})
}
