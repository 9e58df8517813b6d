package ir

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	set "github.com/hashicorp/go-set/v2"
)

// FormatCircuit returns a readable text representation of the circuit. The
// output is a pure function of the graph, so two structurally identical
// circuits print identically.
func FormatCircuit(c *Circuit) string {
	if c == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "circuit %s :%s\n", c.Name, info(c.Location.Info()))
	for _, d := range c.Decls {
		writeDecl(&b, d)
	}
	return b.String()
}

// FormatDecl returns the text representation of one declaration.
func FormatDecl(d Decl) string {
	var b strings.Builder
	writeDecl(&b, d)
	return b.String()
}

// WriteCircuitFile writes the formatted circuit to disk.
func WriteCircuitFile(c *Circuit, path string) error {
	if c == nil || path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(FormatCircuit(c)), 0644)
}

func info(s string) string {
	if s == "" {
		return ""
	}
	return " @[" + s + "]"
}

func writeDecl(b *strings.Builder, d Decl) {
	switch d := d.(type) {
	case *Module:
		fmt.Fprintf(b, "  module %s :%s\n", d.Name, info(d.Location.Info()))
		for _, p := range d.Ports {
			fmt.Fprintf(b, "    %s %s : %s%s\n", p.Direction, p.Name, p.Type, info(p.Location.Info()))
		}
		p := newPrinter(d)
		p.writeBlock(b, d.Body, 2)
	case *ExtModule:
		fmt.Fprintf(b, "  extmodule %s :%s\n", d.Name, info(d.Location.Info()))
		for _, p := range d.Ports {
			fmt.Fprintf(b, "    %s %s : %s%s\n", p.Direction, p.Name, p.Type, info(p.Location.Info()))
		}
		if d.Defname != "" {
			fmt.Fprintf(b, "    defname = %s\n", d.Defname)
		}
		for _, param := range d.Params {
			fmt.Fprintf(b, "    parameter %s = %s\n", param.Name, param.Value)
		}
	}
}

type printer struct {
	names map[Value]string
	used  *set.Set[string]
	next  int
}

func newPrinter(m *Module) *printer {
	p := &printer{
		names: make(map[Value]string),
		used:  set.New[string](0),
	}
	for _, port := range m.Ports {
		p.names[port] = port.Name
		p.used.Insert(port.Name)
	}
	Walk(m.Body, func(op Op) {
		for _, v := range Defs(op) {
			if name := Name(v); name != "" {
				p.used.Insert(name)
			}
		}
	})
	return p
}

func (p *printer) ref(v Value) string {
	if name, ok := p.names[v]; ok {
		return name
	}
	return "<?>"
}

func (p *printer) define(v Value) string {
	name := Name(v)
	if name == "" {
		for {
			name = "_T_" + strconv.Itoa(p.next)
			p.next++
			if !p.used.Contains(name) {
				break
			}
		}
		p.used.Insert(name)
	}
	p.names[v] = name
	return name
}

func (p *printer) writeBlock(b *strings.Builder, block *Block, depth int) {
	if block == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	for _, op := range block.Ops {
		b.WriteString(indent)
		p.writeOp(b, op, depth)
	}
}

func (p *printer) writeOp(b *strings.Builder, op Op, depth int) {
	loc := info(op.Loc().Info())
	switch op := op.(type) {
	case *WireOp:
		fmt.Fprintf(b, "wire %s : %s%s\n", p.define(op), op.Type, loc)
	case *RegOp:
		fmt.Fprintf(b, "reg %s : %s, %s%s\n", p.define(op), op.Type, p.ref(op.Clock), loc)
	case *RegResetOp:
		fmt.Fprintf(b, "regreset %s : %s, %s, %s, %s%s\n",
			p.define(op), op.Type, p.ref(op.Clock), p.ref(op.Reset), p.ref(op.Init), loc)
	case *NodeOp:
		fmt.Fprintf(b, "node %s = %s : %s%s\n", p.define(op), p.ref(op.Input), op.ValueType(), loc)
	case *MemOp:
		fmt.Fprintf(b, "mem %s : depth = %d, read-latency = %d, write-latency = %d%s\n",
			op.Name, op.Depth, op.ReadLatency, op.WriteLatency, loc)
		p.writeResults(b, op.Results, depth)
	case *InstanceOp:
		fmt.Fprintf(b, "inst %s of %s%s\n", op.Name, op.Module, loc)
		p.writeResults(b, op.Results, depth)
	case *SubfieldOp:
		fmt.Fprintf(b, "%s = subfield %s.%s : %s%s\n", p.define(op), p.ref(op.Input), op.Field, op.Type, loc)
	case *SubindexOp:
		fmt.Fprintf(b, "%s = subindex %s[%d] : %s%s\n", p.define(op), p.ref(op.Input), op.Index, op.Type, loc)
	case *SubaccessOp:
		fmt.Fprintf(b, "%s = subaccess %s[%s] : %s%s\n", p.define(op), p.ref(op.Input), p.ref(op.Index), op.Type, loc)
	case *PrimOp:
		args := make([]string, len(op.Operands))
		for i, o := range op.Operands {
			args[i] = p.ref(o)
		}
		fmt.Fprintf(b, "%s = %s(%s) : %s%s\n", p.define(op), op.Kind, strings.Join(args, ", "), op.Type, loc)
	case *ConstantOp:
		fmt.Fprintf(b, "%s = const %d : %s%s\n", p.define(op), op.Value, op.Type, loc)
	case *InvalidValueOp:
		fmt.Fprintf(b, "%s = invalid : %s%s\n", p.define(op), op.Type, loc)
	case *PlaceholderOp:
		fmt.Fprintf(b, "%s = placeholder : %s%s\n", p.define(op), op.Type, loc)
	case *ConnectOp:
		fmt.Fprintf(b, "connect %s, %s%s\n", p.ref(op.Dest), p.ref(op.Src), loc)
	case *WhenOp:
		fmt.Fprintf(b, "when %s :%s\n", p.ref(op.Cond), loc)
		p.writeBlock(b, op.Then, depth+1)
		if op.Else != nil {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("else :\n")
			p.writeBlock(b, op.Else, depth+1)
		}
	default:
		fmt.Fprintf(b, "<unknown op %T>\n", op)
	}
}

func (p *printer) writeResults(b *strings.Builder, results []*OpResult, depth int) {
	indent := strings.Repeat("  ", depth+1)
	for _, r := range results {
		p.define(r)
		fmt.Fprintf(b, "%s%s %s : %s\n", indent, r.Direction, r.Name, r.Type)
	}
}
