// Package compctx holds the state shared by the stages of one firlower run:
// settings, diagnostics, the logger and the loaded circuit.
package compctx

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	set "github.com/hashicorp/go-set/v2"
	"github.com/rs/zerolog"

	"github.com/stellaraccident/circt/internal/config"
	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/source"
)

// CompilerContext is the state of one run.
type CompilerContext struct {
	Config      *config.Config
	Diagnostics *diagnostics.DiagnosticBag
	Logger      zerolog.Logger

	// InputPath is the circuit document being lowered, "" for in-memory input.
	InputPath string
	Circuit   *ir.Circuit

	// InstanceGraph maps a module name to the modules it instantiates.
	InstanceGraph map[string][]string
	mu            sync.RWMutex

	sortedModules []string
}

// New creates a context. A nil config uses the defaults; logs go to w.
func New(cfg *config.Config, w io.Writer) *CompilerContext {
	if cfg == nil {
		cfg = config.Default()
	}
	if w == nil {
		w = os.Stderr
	}
	return &CompilerContext{
		Config:        cfg,
		Diagnostics:   diagnostics.NewDiagnosticBag(),
		Logger:        zerolog.New(w).Level(cfg.LogLevel).With().Timestamp().Logger(),
		InstanceGraph: make(map[string][]string),
	}
}

// Debug reports whether pass banners are printed.
func (ctx *CompilerContext) Debug() bool { return ctx.Config.Debug }

func (ctx *CompilerContext) HasErrors() bool { return ctx.Diagnostics.HasErrors() }

// ReportError reports message as an error, labelled at location if known.
func (ctx *CompilerContext) ReportError(message string, location *source.Location) {
	diag := diagnostics.NewError(message)
	if location != nil {
		diag = diag.WithPrimaryLabel(*location, "")
	}
	ctx.Diagnostics.Add(diag)
}

// EmitDiagnostics renders the collected diagnostics to stderr.
func (ctx *CompilerContext) EmitDiagnostics() {
	ctx.Diagnostics.EmitAllToStderr()
}

// ModuleCount counts modules and extmodules of the loaded circuit.
func (ctx *CompilerContext) ModuleCount() int {
	if ctx.Circuit == nil {
		return 0
	}
	return len(ctx.Circuit.Decls)
}

// BuildInstanceGraph records which modules every module of the circuit
// instantiates and recomputes ModuleOrder. It returns an error naming the
// cycle if a module instantiates itself, directly or through other modules.
func (ctx *CompilerContext) BuildInstanceGraph() error {
	ctx.mu.Lock()
	ctx.InstanceGraph = make(map[string][]string)
	ctx.sortedModules = nil
	ctx.mu.Unlock()
	if ctx.Circuit == nil {
		return nil
	}

	for _, d := range ctx.Circuit.Decls {
		m, ok := d.(*ir.Module)
		if !ok {
			continue
		}
		var err error
		ir.Walk(m.Body, func(op ir.Op) {
			if inst, ok := op.(*ir.InstanceOp); ok && err == nil {
				err = ctx.AddDependency(m.Name, inst.Module)
			}
		})
		if err != nil {
			return err
		}
	}
	ctx.ComputeTopologicalOrder()
	return nil
}

// AddDependency registers that parent instantiates child. An edge that would
// close a cycle is rejected and the graph is left unchanged.
func (ctx *CompilerContext) AddDependency(parent, child string) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if route := ctx.route(child, parent, set.New[string](0)); route != nil {
		cycle := append([]string{parent}, route...)
		return fmt.Errorf("recursive instantiation: %s", strings.Join(cycle, " -> "))
	}
	if !slices.Contains(ctx.InstanceGraph[parent], child) {
		ctx.InstanceGraph[parent] = append(ctx.InstanceGraph[parent], child)
	}
	return nil
}

// route returns the modules on an instantiation path from -> ... -> to, both
// ends included, or nil if to is unreachable.
func (ctx *CompilerContext) route(from, to string, seen *set.Set[string]) []string {
	if from == to {
		return []string{to}
	}
	if !seen.Insert(from) {
		return nil
	}
	for _, next := range ctx.InstanceGraph[from] {
		if rest := ctx.route(next, to, seen); rest != nil {
			return append([]string{from}, rest...)
		}
	}
	return nil
}

// ComputeTopologicalOrder orders modules so that every module comes after the
// modules it instantiates. Modules that become ready together are ordered by
// name.
func (ctx *CompilerContext) ComputeTopologicalOrder() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	known := set.New[string](len(ctx.Circuit.Decls))
	for _, d := range ctx.Circuit.Decls {
		known.Insert(d.DeclName())
	}

	// waiting counts the unplaced children of each module; users is the
	// reverse edge list.
	waiting := make(map[string]int, known.Size())
	users := make(map[string][]string)
	for parent, children := range ctx.InstanceGraph {
		for _, child := range children {
			if known.Contains(child) {
				waiting[parent]++
				users[child] = append(users[child], parent)
			}
		}
	}

	var ready []string
	for _, name := range known.Slice() {
		if waiting[name] == 0 {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, known.Size())
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		var unblocked []string
		for _, user := range users[name] {
			if waiting[user]--; waiting[user] == 0 {
				unblocked = append(unblocked, user)
			}
		}
		slices.Sort(unblocked)
		ready = append(ready, unblocked...)
	}
	ctx.sortedModules = order
}

// ModuleOrder returns module names callees first, as computed by the last
// ComputeTopologicalOrder.
func (ctx *CompilerContext) ModuleOrder() []string {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.sortedModules
}
