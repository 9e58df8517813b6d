// Package verify checks that a circuit is legal input for type lowering, and
// that a lowered circuit is left with ground types only.
package verify

import (
	set "github.com/hashicorp/go-set/v2"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/source"
)

// counter forwards diagnostics and counts the errors among them.
type counter struct {
	dst    diagnostics.Reporter
	errors int
}

func (c *counter) Add(d *diagnostics.Diagnostic) {
	if d.Severity == diagnostics.Error {
		c.errors++
	}
	c.dst.Add(d)
}

type checker struct {
	circuit *ir.Circuit
	diags   *counter
}

// Circuit checks every declaration of c and reports problems to r. It returns
// the number of errors reported.
func Circuit(c *ir.Circuit, r diagnostics.Reporter) int {
	chk := &checker{circuit: c, diags: &counter{dst: r}}
	chk.checkNames()
	chk.checkDefnames()
	for _, d := range c.Decls {
		if m, ok := d.(*ir.Module); ok {
			ir.Walk(m.Body, chk.checkOp)
		}
	}
	return chk.diags.errors
}

func (c *checker) report(d *diagnostics.Diagnostic) { c.diags.Add(d) }

func (c *checker) checkNames() {
	seen := make(map[string]source.Location)
	for _, d := range c.circuit.Decls {
		name := d.DeclName()
		if prev, ok := seen[name]; ok {
			c.report(diagnostics.RedeclaredModule(*d.Loc(), prev, name))
			continue
		}
		seen[name] = *d.Loc()
	}
}

// checkDefnames rejects external modules whose defname names a module of the
// circuit, and groups of external modules sharing a defname whose ports
// disagree.
func (c *checker) checkDefnames() {
	modules := set.New[string](len(c.circuit.Decls))
	for _, d := range c.circuit.Decls {
		if m, ok := d.(*ir.Module); ok {
			modules.Insert(m.Name)
		}
	}

	first := make(map[string]*ir.ExtModule)
	for _, d := range c.circuit.Decls {
		ext, ok := d.(*ir.ExtModule)
		if !ok {
			continue
		}
		for _, p := range ext.Params {
			if p.Value == "" {
				c.report(diagnostics.UnusedExtParam(ext.Location, ext.Name, p.Name))
			}
		}

		link := ext.LinkName()
		if ext.Defname != "" && modules.Contains(link) {
			m, _ := c.circuit.Lookup(link)
			c.report(diagnostics.RedeclaredModule(ext.Location, *m.Loc(), link))
			continue
		}
		prev, ok := first[link]
		if !ok {
			first[link] = ext
			continue
		}
		if !sameExtPorts(prev, ext) {
			c.report(diagnostics.DefnameConflict(ext.Location, prev.Location, link, ext.Name, prev.Name))
		}
	}
}
