package ir

import (
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// Block is an ordered list of ops.
type Block struct {
	Ops []Op
}

// PortInfo describes one port of a module signature.
type PortInfo struct {
	Name      string
	Direction Direction
	Type      types.Type
	Location  source.Location
}

// NewPortInfo describes a port, folding outer flips of t into the direction.
func NewPortInfo(name string, dir Direction, t types.Type) PortInfo {
	inner, flipped := types.FlipParity(t)
	if flipped {
		dir = dir.Flip()
	}
	return PortInfo{Name: name, Direction: dir, Type: inner}
}

// Signature is the ordered port list of a module-like declaration.
type Signature []PortInfo

// Equal reports whether two signatures have the same names, directions and
// types.
func (s Signature) Equal(o Signature) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i].Name != o[i].Name || s[i].Direction != o[i].Direction || !types.Equal(s[i].Type, o[i].Type) {
			return false
		}
	}
	return true
}

// Decl is a module-like top-level declaration.
type Decl interface {
	DeclName() string
	Signature() Signature
	Loc() *source.Location
	irDecl()
}

// Module is a declaration with a body.
type Module struct {
	Name     string
	Ports    []*Port
	Body     *Block
	Location source.Location
}

// NewModule creates a module with the given ports and an empty body.
func NewModule(name string, ports []PortInfo) *Module {
	m := &Module{Name: name, Body: &Block{}}
	for _, p := range ports {
		info := NewPortInfo(p.Name, p.Direction, p.Type)
		m.Ports = append(m.Ports, &Port{
			Name:      info.Name,
			Direction: info.Direction,
			Type:      info.Type,
			Location:  p.Location,
		})
	}
	return m
}

func (m *Module) irDecl()               {}
func (m *Module) DeclName() string      { return m.Name }
func (m *Module) Loc() *source.Location { return &m.Location }

// Signature returns the module's ports in order.
func (m *Module) Signature() Signature {
	sig := make(Signature, len(m.Ports))
	for i, p := range m.Ports {
		sig[i] = p.Info()
	}
	return sig
}

// Port looks up a port by name.
func (m *Module) Port(name string) *Port {
	for _, p := range m.Ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Param is a parameter of an external module.
type Param struct {
	Name  string
	Value string
}

// ExtModule is a declaration without a body, linked by Defname.
type ExtModule struct {
	Name     string
	Defname  string
	Params   []Param
	Ports    Signature
	Location source.Location
}

// NewExtModule creates an external module, folding outer flips of port types
// into their directions.
func NewExtModule(name, defname string, ports []PortInfo) *ExtModule {
	e := &ExtModule{Name: name, Defname: defname}
	for _, p := range ports {
		info := NewPortInfo(p.Name, p.Direction, p.Type)
		info.Location = p.Location
		e.Ports = append(e.Ports, info)
	}
	return e
}

func (e *ExtModule) irDecl()               {}
func (e *ExtModule) DeclName() string      { return e.Name }
func (e *ExtModule) Signature() Signature  { return e.Ports }
func (e *ExtModule) Loc() *source.Location { return &e.Location }

// LinkName returns the defname, or the module name when no defname is given.
func (e *ExtModule) LinkName() string {
	if e.Defname != "" {
		return e.Defname
	}
	return e.Name
}

// Circuit is the root of the graph.
type Circuit struct {
	Name     string
	Decls    []Decl
	Location source.Location
}

// Lookup finds a declaration by name.
func (c *Circuit) Lookup(name string) (Decl, bool) {
	for _, d := range c.Decls {
		if d.DeclName() == name {
			return d, true
		}
	}
	return nil, false
}

// Add appends a declaration and returns it.
func (c *Circuit) Add(d Decl) Decl {
	c.Decls = append(c.Decls, d)
	return d
}
