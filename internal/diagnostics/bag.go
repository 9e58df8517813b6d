package diagnostics

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/atomic"

	"github.com/stellaraccident/circt/colors"
)

// Reporter accepts diagnostics. DiagnosticBag, Collector and the per-key
// sinks of an OrderedBag implement it.
type Reporter interface {
	Add(diag *Diagnostic)
}

// DiagnosticBag collects the diagnostics of one run. It is safe for
// concurrent use.
type DiagnosticBag struct {
	mu     sync.Mutex
	diags  []*Diagnostic
	byCode map[string]int

	errors   atomic.Int64
	warnings atomic.Int64

	sources *SourceCache
}

func NewDiagnosticBag() *DiagnosticBag {
	return &DiagnosticBag{byCode: make(map[string]int), sources: NewSourceCache()}
}

// AddSourceContent registers in-memory content for a file so labels pointing
// into it can be quoted.
func (db *DiagnosticBag) AddSourceContent(path, content string) {
	db.sources.AddSource(path, content)
}

func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	db.diags = append(db.diags, diag)
	if diag.Code != "" {
		db.byCode[diag.Code]++
	}
	db.mu.Unlock()

	switch diag.Severity {
	case Error:
		db.errors.Inc()
	case Warning:
		db.warnings.Inc()
	}
}

func (db *DiagnosticBag) HasErrors() bool   { return db.errors.Load() > 0 }
func (db *DiagnosticBag) ErrorCount() int   { return int(db.errors.Load()) }
func (db *DiagnosticBag) WarningCount() int { return int(db.warnings.Load()) }

// CodeCount returns how many diagnostics with code were reported.
func (db *DiagnosticBag) CodeCount(code string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.byCode[code]
}

// Diagnostics returns a copy of the diagnostics in reporting order.
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*Diagnostic, len(db.diags))
	copy(out, db.diags)
	return out
}

// EmitAll renders every diagnostic followed by a one-line verdict.
func (db *DiagnosticBag) EmitAll(w io.Writer) {
	e := &Emitter{cache: db.sources, writer: w}
	for _, diag := range db.Diagnostics() {
		e.Emit(diag)
	}

	errs, warns := db.ErrorCount(), db.WarningCount()
	switch {
	case errs > 0 && warns > 0:
		colors.RED.Fprintf(w, "\nLowering failed with %d error(s) and %d warning(s)\n", errs, warns)
	case errs > 0:
		colors.RED.Fprintf(w, "\nLowering failed with %d error(s)\n", errs)
	case warns > 0:
		colors.ORANGE.Fprintf(w, "\nLowering succeeded with %d warning(s)\n", warns)
	}
}

func (db *DiagnosticBag) EmitAllToStderr() { db.EmitAll(os.Stderr) }

// EmitAllToString is EmitAll into a string, escape codes included when
// colours are enabled.
func (db *DiagnosticBag) EmitAllToString() string {
	var sb strings.Builder
	db.EmitAll(&sb)
	return sb.String()
}
