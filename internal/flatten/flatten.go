// Package flatten decomposes FIRRTL types into ordered lists of ground-typed
// leaves.
//
// The decomposition is a pure function of the type and the starting state:
// the ports of a module and every instance of it are flattened independently
// and still agree on the number, order, names and directions of the leaves.
package flatten

import (
	"strconv"
	"strings"

	"github.com/stellaraccident/circt/internal/types"
)

// Separator joins path segments into names.
const Separator = "_"

// Field is one ground-typed leaf of a flattened type.
type Field struct {
	Type     types.Type
	Path     []string
	IsOutput bool
}

// Suffix returns the path joined with Separator, without a leading separator.
func (f Field) Suffix() string {
	return strings.Join(f.Path, Separator)
}

// Name appends the leaf suffix to base.
func (f Field) Name(base string) string {
	return Join(base, f.Suffix())
}

// Join appends suffix to base with a separator, omitting it when either side
// is empty.
func Join(base, suffix string) string {
	switch {
	case suffix == "":
		return base
	case base == "":
		return suffix
	default:
		return base + Separator + suffix
	}
}

// Leaves flattens t with an empty prefix and no initial flip.
func Leaves(t types.Type) []Field {
	return Type(t, nil, false)
}

// Type flattens t. Each leaf's path starts with prefix and each leaf's
// direction starts from flipped.
func Type(t types.Type, prefix []string, flipped bool) []Field {
	var fields []Field
	walk(t, prefix, flipped, &fields)
	return fields
}

func walk(t types.Type, path []string, flipped bool, out *[]Field) {
	switch t := t.(type) {
	case *types.FlipType:
		walk(t.Inner(), path, !flipped, out)
	case *types.BundleType:
		for _, f := range t.Fields() {
			walk(f.Type, extend(path, f.Name), flipped, out)
		}
	case *types.VectorType:
		for i := 0; i < t.Len(); i++ {
			walk(t.Element(), extend(path, strconv.Itoa(i)), flipped, out)
		}
	default:
		*out = append(*out, Field{Type: t, Path: path, IsOutput: flipped})
	}
}

func extend(path []string, seg string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = seg
	return next
}
