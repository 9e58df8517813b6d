package types

// ConnectEquivalent reports whether a value of type src may be connected to a
// value of type dest, ignoring widths.
//
// Flip wrappers are stripped at every level, but the accumulated direction of
// each leaf must agree, so equivalent types always flatten to leaf lists of
// the same length and orientation. Reset is interchangeable with AsyncReset
// and single bit (or unsized) UInt.
func ConnectEquivalent(dest, src Type) bool {
	return equivalent(dest, src, false, false)
}

func equivalent(dest, src Type, destFlip, srcFlip bool) bool {
	dest, df := FlipParity(dest)
	src, sf := FlipParity(src)
	destFlip = destFlip != df
	srcFlip = srcFlip != sf

	switch d := dest.(type) {
	case *BundleType:
		s, ok := src.(*BundleType)
		if !ok || len(d.fields) != len(s.fields) {
			return false
		}
		for i := range d.fields {
			if d.fields[i].Name != s.fields[i].Name {
				return false
			}
			if !equivalent(d.fields[i].Type, s.fields[i].Type, destFlip, srcFlip) {
				return false
			}
		}
		return true
	case *VectorType:
		s, ok := src.(*VectorType)
		if !ok || d.count != s.count {
			return false
		}
		// Orientation of an empty vector has no leaves to disagree on.
		if d.count == 0 {
			return true
		}
		return equivalent(d.elem, s.elem, destFlip, srcFlip)
	}

	if IsAggregate(src) || destFlip != srcFlip {
		return false
	}
	if _, ok := dest.(*ResetType); ok {
		return IsResetType(src)
	}
	if _, ok := src.(*ResetType); ok {
		return IsResetType(dest)
	}
	return Equal(WidthlessType(dest), WidthlessType(src))
}
