package phase

import (
	"sync"

	"github.com/pkg/errors"
)

// DeclPhase tracks how far type lowering has progressed for one declaration.
//
// Phase progression must be sequential:
// - NotStarted -> PortsLowered -> BodyLowered -> Committed
// - any phase -> Failed
//
// Transitions are validated by Tracker.Advance against the phasePrerequisites
// map. A declaration that reached Failed is never committed.
type DeclPhase int

const (
	PhaseNotStarted   DeclPhase = iota // Declaration scheduled but not processed
	PhasePortsLowered                  // Ports flattened, port leaves recorded
	PhaseBodyLowered                   // Body ops rewritten
	PhaseCommitted                     // Rewritten declaration installed
	PhaseFailed                        // Lowering reported an error
)

// phasePrerequisites maps each phase to its required predecessor phase
var phasePrerequisites = map[DeclPhase]DeclPhase{
	PhasePortsLowered: PhaseNotStarted,
	PhaseBodyLowered:  PhasePortsLowered,
	PhaseCommitted:    PhaseBodyLowered,
}

func (p DeclPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhasePortsLowered:
		return "PortsLowered"
	case PhaseBodyLowered:
		return "BodyLowered"
	case PhaseCommitted:
		return "Committed"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ErrOutOfOrder is returned for a transition whose prerequisite is not met.
var ErrOutOfOrder = errors.New("phase transition out of order")

// Tracker records the phase of every declaration of a circuit, keyed by the
// declaration's position in the circuit. Names are not unique until the
// circuit is verified. It is safe for concurrent use by the per-declaration
// lowering tasks.
type Tracker struct {
	mu     sync.Mutex
	phases map[int]DeclPhase
}

func NewTracker() *Tracker {
	return &Tracker{phases: make(map[int]DeclPhase)}
}

// Get returns the phase of declaration decl; unknown declarations are
// NotStarted.
func (t *Tracker) Get(decl int) DeclPhase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phases[decl]
}

// Advance moves declaration decl to next. Moving to Failed is always allowed,
// except out of Committed.
func (t *Tracker) Advance(decl int, next DeclPhase) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.phases[decl]
	if next == PhaseFailed {
		if cur == PhaseCommitted {
			return errors.Wrapf(ErrOutOfOrder, "declaration %d: %s -> %s", decl, cur, next)
		}
		t.phases[decl] = next
		return nil
	}
	if want, ok := phasePrerequisites[next]; !ok || want != cur {
		return errors.Wrapf(ErrOutOfOrder, "declaration %d: %s -> %s", decl, cur, next)
	}
	t.phases[decl] = next
	return nil
}

// Count returns how many declarations are in phase p.
func (t *Tracker) Count(p DeclPhase) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, cur := range t.phases {
		if cur == p {
			n++
		}
	}
	return n
}
