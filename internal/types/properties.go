package types

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Bit width sentinels returned by BitWidthOrSentinel.
const (
	WidthUnknown   = -1 // ground scalar without a known width
	WidthNotScalar = -2 // aggregate or flipped type
)

// IsGround reports whether t is a scalar type.
func IsGround(t Type) bool {
	switch t.(type) {
	case *ClockType, *ResetType, *AsyncResetType, *UIntType, *SIntType, *AnalogType:
		return true
	default:
		return false
	}
}

// IsAggregate reports whether t is a bundle or vector once outer flips are removed.
func IsAggregate(t Type) bool {
	switch StripFlips(t).(type) {
	case *BundleType, *VectorType:
		return true
	default:
		return false
	}
}

// StripFlips removes every outer Flip.
func StripFlips(t Type) Type {
	inner, _ := FlipParity(t)
	return inner
}

// FlipParity removes every outer Flip and reports whether an odd number was removed.
func FlipParity(t Type) (Type, bool) {
	flipped := false
	for {
		f, ok := t.(*FlipType)
		if !ok {
			return t, flipped
		}
		t = f.inner
		flipped = !flipped
	}
}

// FlipIf wraps t in a Flip when cond holds, cancelling an existing outer Flip
// instead of nesting a second one.
func FlipIf(t Type, cond bool) Type {
	if !cond {
		return t
	}
	if f, ok := t.(*FlipType); ok {
		return f.inner
	}
	return Flip(t)
}

// BitWidthOrSentinel returns the width of a ground type, WidthUnknown if it is
// not known, and WidthNotScalar for anything that is not a simple scalar.
func BitWidthOrSentinel(t Type) int {
	switch t := t.(type) {
	case *ClockType, *ResetType, *AsyncResetType:
		return 1
	case *UIntType:
		return t.width
	case *SIntType:
		return t.width
	case *AnalogType:
		return t.width
	default:
		return WidthNotScalar
	}
}

// IsResetType reports whether t can be driven into or from a Reset.
func IsResetType(t Type) bool {
	switch t := t.(type) {
	case *ResetType, *AsyncResetType:
		return true
	case *UIntType:
		return t.width == UnknownWidth || t.width == 1
	default:
		return false
	}
}

type derivation uint8

const (
	deriveMask derivation = iota
	deriveWidthless
	derivePassive
)

type derivedKey struct {
	t Type
	d derivation
}

const derivedCacheSize = 4096

var derived = mustDerivedCache()

func mustDerivedCache() *lru.Cache[derivedKey, Type] {
	c, err := lru.New[derivedKey, Type](derivedCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

func memoize(t Type, d derivation, compute func(Type) Type) Type {
	key := derivedKey{t: t, d: d}
	if v, ok := derived.Get(key); ok {
		return v
	}
	v := compute(t)
	derived.Add(key, v)
	return v
}

// MaskType returns t with every ground leaf replaced by UInt<1>.
func MaskType(t Type) Type {
	return memoize(t, deriveMask, computeMask)
}

func computeMask(t Type) Type {
	switch t := t.(type) {
	case *BundleType:
		fields := make([]BundleField, len(t.fields))
		for i, f := range t.fields {
			fields[i] = BundleField{Name: f.Name, Type: MaskType(f.Type)}
		}
		return Bundle(fields...)
	case *VectorType:
		return Vector(MaskType(t.elem), t.count)
	case *FlipType:
		return Flip(MaskType(t.inner))
	default:
		return UInt(1)
	}
}

// WidthlessType returns t with every explicit width erased.
func WidthlessType(t Type) Type {
	return memoize(t, deriveWidthless, computeWidthless)
}

func computeWidthless(t Type) Type {
	switch t := t.(type) {
	case *UIntType:
		return UInt(UnknownWidth)
	case *SIntType:
		return SInt(UnknownWidth)
	case *AnalogType:
		return Analog(UnknownWidth)
	case *BundleType:
		fields := make([]BundleField, len(t.fields))
		for i, f := range t.fields {
			fields[i] = BundleField{Name: f.Name, Type: WidthlessType(f.Type)}
		}
		return Bundle(fields...)
	case *VectorType:
		return Vector(WidthlessType(t.elem), t.count)
	case *FlipType:
		return Flip(WidthlessType(t.inner))
	default:
		return t
	}
}

// PassiveType returns t with every Flip removed.
func PassiveType(t Type) Type {
	if t.IsPassive() {
		return t
	}
	return memoize(t, derivePassive, computePassive)
}

func computePassive(t Type) Type {
	switch t := t.(type) {
	case *BundleType:
		fields := make([]BundleField, len(t.fields))
		for i, f := range t.fields {
			fields[i] = BundleField{Name: f.Name, Type: PassiveType(f.Type)}
		}
		return Bundle(fields...)
	case *VectorType:
		return Vector(PassiveType(t.elem), t.count)
	case *FlipType:
		return PassiveType(t.inner)
	default:
		return t
	}
}
