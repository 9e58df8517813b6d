package loader

import (
	"fmt"
	"sort"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/memport"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

type circuitBuilder struct {
	file   source.Location
	diags  diagnostics.Reporter
	errors int
	decls  map[string]ir.Decl
}

func (cb *circuitBuilder) report(d *diagnostics.Diagnostic) {
	if d.Severity == diagnostics.Error {
		cb.errors++
	}
	cb.diags.Add(d)
}

// loc parses a source locator, falling back to the document itself.
func (cb *circuitBuilder) loc(info string, fallback source.Location) source.Location {
	if info == "" {
		return fallback
	}
	loc, err := source.ParseInfo(info)
	if err != nil {
		cb.report(diagnostics.InvalidInput(fallback, err.Error()))
		return fallback
	}
	return loc
}

func (cb *circuitBuilder) parseType(text string, loc source.Location) (types.Type, bool) {
	t, err := types.Parse(text)
	if err != nil {
		cb.report(diagnostics.InvalidTypeText(loc, text, err))
		return nil, false
	}
	return t, true
}

func (cb *circuitBuilder) ports(docs []PortDoc, fallback source.Location) []ir.PortInfo {
	var ports []ir.PortInfo
	for _, p := range docs {
		loc := cb.loc(p.Loc, fallback)
		t, ok := cb.parseType(p.Type, loc)
		if !ok {
			continue
		}
		dir := ir.In
		if p.Dir == "out" {
			dir = ir.Out
		}
		ports = append(ports, ir.PortInfo{Name: p.Name, Direction: dir, Type: t, Location: loc})
	}
	return ports
}

// build declares every module first so instances can refer to modules
// declared after them, then fills in the bodies.
func (cb *circuitBuilder) build(doc *Document) *ir.Circuit {
	c := &ir.Circuit{Name: doc.Circuit, Location: cb.loc(doc.Loc, cb.file)}

	modules := make([]*ir.Module, len(doc.Modules))
	for i, md := range doc.Modules {
		loc := cb.loc(md.Loc, cb.file)
		m := ir.NewModule(md.Name, cb.ports(md.Ports, loc))
		m.Location = loc
		modules[i] = m
		cb.declare(c, m)
	}
	for _, ed := range doc.ExtModules {
		loc := cb.loc(ed.Loc, cb.file)
		e := ir.NewExtModule(ed.Name, ed.Defname, cb.ports(ed.Ports, loc))
		e.Location = loc
		e.Params = params(ed.Params)
		cb.declare(c, e)
	}

	for i, md := range doc.Modules {
		m := modules[i]
		bb := &bodyBuilder{
			cb:    cb,
			b:     ir.NewBuilder(m.Body),
			scope: newScope(nil),
			loc:   m.Location,
		}
		for _, p := range m.Ports {
			bb.scope.names[p.Name] = entry{value: p}
		}
		bb.stmts(md.Body)
	}
	return c
}

// declare adds d to the circuit. The first declaration of a name is the one
// instances bind to; duplicates are left for verification to report.
func (cb *circuitBuilder) declare(c *ir.Circuit, d ir.Decl) {
	c.Add(d)
	if _, ok := cb.decls[d.DeclName()]; !ok {
		cb.decls[d.DeclName()] = d
	}
}

func params(raw map[string]interface{}) []ir.Param {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ir.Param, len(names))
	for i, name := range names {
		var value string
		if v := raw[name]; v != nil {
			value = fmt.Sprint(v)
		}
		out[i] = ir.Param{Name: name, Value: value}
	}
	return out
}

// entry is what a name in a module body refers to. Instances and memories
// are only usable through one of their results.
type entry struct {
	value ir.Value
	inst  *ir.InstanceOp
	mem   *ir.MemOp
	// broken marks a declaration that failed to load; references to it are
	// dropped without further diagnostics.
	broken bool
}

type scope struct {
	names  map[string]entry
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[string]entry), parent: parent}
}

func (s *scope) lookup(name string) (entry, bool) {
	for ; s != nil; s = s.parent {
		if e, ok := s.names[name]; ok {
			return e, true
		}
	}
	return entry{}, false
}

type bodyBuilder struct {
	cb    *circuitBuilder
	b     *ir.Builder
	scope *scope
	loc   source.Location
}

func (bb *bodyBuilder) declare(name string, e entry, loc source.Location) {
	if _, ok := bb.scope.lookup(name); ok {
		bb.cb.report(diagnostics.RedeclaredValue(loc, name))
		return
	}
	bb.scope.names[name] = e
}

func (bb *bodyBuilder) stmts(body []Stmt) {
	for i := range body {
		bb.stmt(&body[i])
	}
}

func (bb *bodyBuilder) stmt(s *Stmt) {
	loc := bb.cb.loc(s.Loc, bb.loc)
	bb.b.SetLoc(loc)

	switch s.Op {
	case "wire":
		t, ok := bb.cb.parseType(s.Type, loc)
		if !ok {
			bb.declare(s.Name, entry{broken: true}, loc)
			return
		}
		bb.declare(s.Name, entry{value: bb.b.Wire(s.Name, t)}, loc)

	case "reg":
		t, tok := bb.cb.parseType(s.Type, loc)
		clock, cok := bb.expr(s.Clock, loc)
		if !tok || !cok {
			bb.declare(s.Name, entry{broken: true}, loc)
			return
		}
		bb.declare(s.Name, entry{value: bb.b.Reg(s.Name, t, clock)}, loc)

	case "regreset":
		t, tok := bb.cb.parseType(s.Type, loc)
		clock, cok := bb.expr(s.Clock, loc)
		reset, rok := bb.expr(s.Reset, loc)
		init, iok := bb.expr(s.Init, loc)
		if !tok || !cok || !rok || !iok {
			bb.declare(s.Name, entry{broken: true}, loc)
			return
		}
		bb.declare(s.Name, entry{value: bb.b.RegReset(s.Name, t, clock, reset, init)}, loc)

	case "mem":
		bb.mem(s, loc)

	case "inst":
		callee, ok := bb.cb.decls[s.Module]
		if !ok {
			bb.cb.report(diagnostics.UndefinedModule(loc, s.Module))
			bb.declare(s.Name, entry{broken: true}, loc)
			return
		}
		bb.declare(s.Name, entry{inst: bb.b.Instance(s.Name, callee)}, loc)

	case "node":
		v, ok := bb.expr(s.Expr, loc)
		if !ok {
			bb.declare(s.Name, entry{broken: true}, loc)
			return
		}
		bb.declare(s.Name, entry{value: bb.b.Node(s.Name, v)}, loc)

	case "connect":
		dest, dok := bb.expr(s.Dest, loc)
		src, sok := bb.expr(s.Src, loc)
		if dok && sok {
			bb.b.Connect(dest, src)
		}

	case "invalidate":
		if dest, ok := bb.expr(s.Dest, loc); ok {
			bb.b.Connect(dest, bb.b.Invalid(dest.ValueType()))
		}

	case "when":
		cond, ok := bb.expr(s.Cond, loc)
		if !ok {
			return
		}
		var w *ir.WhenOp
		if len(s.Else) > 0 {
			w = bb.b.WhenElse(cond)
		} else {
			w = bb.b.When(cond)
		}
		bb.nested(w.Then, s.Then, loc)
		if w.Else != nil {
			bb.nested(w.Else, s.Else, loc)
		}

	default:
		bb.cb.report(diagnostics.InvalidInput(loc, "unknown statement "+s.Op))
	}
}

func (bb *bodyBuilder) nested(block *ir.Block, body []Stmt, loc source.Location) {
	inner := &bodyBuilder{cb: bb.cb, b: bb.b.Nested(block), scope: newScope(bb.scope), loc: loc}
	inner.stmts(body)
}

func (bb *bodyBuilder) mem(s *Stmt, loc source.Location) {
	data, ok := bb.cb.parseType(s.Type, loc)
	if !ok {
		bb.declare(s.Name, entry{broken: true}, loc)
		return
	}

	ports := make([]ir.PortInfo, 0, len(s.Ports))
	for _, p := range s.Ports {
		kind, err := memport.ParseKind(p.Kind)
		if err != nil {
			bb.cb.report(diagnostics.InvalidInput(loc, err.Error()))
			continue
		}
		ports = append(ports, ir.PortInfo{
			Name:      p.Name,
			Direction: ir.In,
			Type:      memport.TypeForPort(s.Depth, data, kind),
		})
	}

	writeLatency := 1
	if s.WriteLatency != nil {
		writeLatency = *s.WriteLatency
	}
	mem := bb.b.MemOf(s.Name, s.Depth, s.ReadLatency, writeLatency, ports)
	bb.declare(s.Name, entry{mem: mem}, loc)
}
