package typelower

import (
	"strings"

	set "github.com/hashicorp/go-set/v2"
	"github.com/rs/zerolog"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/flatten"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// leafKey names one leaf of an aggregate value by its field path. Paths are
// joined with a byte that cannot occur in a name, so a field called a_b never
// aliases the nested field a.b.
type leafKey struct {
	value ir.Value
	path  string
}

func pathKey(path []string) string { return strings.Join(path, "\x00") }

// lowering is the state of one declaration task. It is created for the task,
// owned by it alone and dropped when the task ends.
type lowering struct {
	name  string
	log   zerolog.Logger
	diags diagnostics.Reporter
	stats *Stats

	// leaves maps (aggregate value, leaf path) to the ground value that
	// replaces that leaf.
	leaves map[leafKey]ir.Value
	// replaced maps ground values of the old body to their rewritten copies.
	replaced map[ir.Value]ir.Value
	// poisoned holds old values whose lowering failed; accesses into them
	// produce placeholders without reporting again.
	poisoned *set.Set[ir.Value]

	b      *ir.Builder
	failed bool
}

func newLowering(name string, log zerolog.Logger, diags diagnostics.Reporter, stats *Stats) *lowering {
	return &lowering{
		name:     name,
		log:      log,
		diags:    diags,
		stats:    stats,
		leaves:   make(map[leafKey]ir.Value),
		replaced: make(map[ir.Value]ir.Value),
		poisoned: set.New[ir.Value](0),
	}
}

// report files an error diagnostic and marks the task failed.
func (l *lowering) report(d *diagnostics.Diagnostic) {
	if d.Severity == diagnostics.Error {
		l.failed = true
	}
	l.diags.Add(d)
}

// replace records that old is rewritten to the ground value nv.
func (l *lowering) replace(old, nv ir.Value) {
	if cur, ok := l.replaced[old]; ok && cur != nv {
		l.invariantf("value %q already replaced", ir.Name(old))
	}
	l.replaced[old] = nv
}

// setLeaf records the value for one leaf of old. An empty path means old is
// itself ground and is replaced outright.
func (l *lowering) setLeaf(old ir.Value, path []string, nv ir.Value) {
	if len(path) == 0 {
		l.replace(old, nv)
		return
	}
	key := leafKey{old, pathKey(path)}
	if cur, ok := l.leaves[key]; ok && cur != nv {
		l.invariantf("leaf %s of %q already lowered", strings.Join(path, flatten.Separator), ir.Name(old))
	}
	l.leaves[key] = nv
}

// value returns the rewritten copy of a ground value of the old body.
func (l *lowering) value(old ir.Value) ir.Value {
	nv, ok := l.replaced[old]
	if !ok {
		l.invariantf("no lowering recorded for %T %q", old, ir.Name(old))
	}
	return nv
}

// leaf returns the value recorded for one leaf of old.
func (l *lowering) leaf(old ir.Value, path []string) ir.Value {
	if len(path) == 0 {
		return l.value(old)
	}
	nv, ok := l.leaves[leafKey{old, pathKey(path)}]
	if !ok {
		l.invariantf("no lowering recorded for leaf %s of %q", strings.Join(path, flatten.Separator), ir.Name(old))
	}
	return nv
}

// allLeaves returns the lowered leaves of old in flattening order.
func (l *lowering) allLeaves(old ir.Value) []ir.Value {
	fields := flatten.Leaves(old.ValueType())
	values := make([]ir.Value, len(fields))
	for i, f := range fields {
		values[i] = l.leaf(old, f.Path)
	}
	return values
}

// poison replaces every leaf of old with a placeholder.
func (l *lowering) poison(old ir.Value, loc source.Location) {
	l.poisoned.Insert(old)
	l.b.SetLoc(loc)
	for _, f := range flatten.Leaves(old.ValueType()) {
		l.setLeaf(old, f.Path, l.b.Placeholder(f.Type))
	}
}

// countLeaves adds the leaves an aggregate of type t was split into to the
// pass statistics.
func (l *lowering) countLeaves(t types.Type, n int) {
	if types.IsAggregate(t) {
		l.stats.Leaves.Add(uint64(n))
	}
}

// needsLowering reports whether values of type t are rewritten leaf by leaf.
func needsLowering(t types.Type) bool {
	return !types.IsGround(t)
}
