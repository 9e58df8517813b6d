package diagnostics

import (
	"sort"
	"sync"
)

// OrderedBag buffers diagnostics from concurrent tasks under integer ordering
// keys and replays them into a DiagnosticBag in key order. Diagnostics that
// share a key keep their reporting order, so the result does not depend on how
// the tasks were scheduled.
type OrderedBag struct {
	mu      sync.Mutex
	pending map[int][]*Diagnostic
}

func NewOrderedBag() *OrderedBag {
	return &OrderedBag{pending: make(map[int][]*Diagnostic)}
}

// Sink returns a Reporter that files diagnostics under key. Each key should
// be reported to by one task at a time.
func (o *OrderedBag) Sink(key int) Reporter {
	return &keyedSink{bag: o, key: key}
}

func (o *OrderedBag) add(key int, diag *Diagnostic) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[key] = append(o.pending[key], diag)
}

// Flush moves every buffered diagnostic into dst, lowest key first.
func (o *OrderedBag) Flush(dst Reporter) {
	o.mu.Lock()
	keys := make([]int, 0, len(o.pending))
	for k := range o.pending {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	pending := o.pending
	o.pending = make(map[int][]*Diagnostic)
	o.mu.Unlock()

	for _, k := range keys {
		for _, d := range pending[k] {
			dst.Add(d)
		}
	}
}

type keyedSink struct {
	bag *OrderedBag
	key int
}

func (s *keyedSink) Add(diag *Diagnostic) { s.bag.add(s.key, diag) }

// Collector is a Reporter that only remembers what it was given.
type Collector struct {
	Diagnostics []*Diagnostic
}

func (c *Collector) Add(diag *Diagnostic) { c.Diagnostics = append(c.Diagnostics, diag) }

// HasErrors reports whether any collected diagnostic is an error.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
