package typelower

import (
	"github.com/stellaraccident/circt/internal/flatten"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/source"
	"github.com/stellaraccident/circt/internal/types"
)

// flattenPort splits one port into ground leaves. Leaf names start with the
// port name and a leaf is an output when its flips and the port direction
// together say so. Module ports, external module ports and instance results
// all go through here, which is what keeps the two ends of an instance in
// agreement without looking at each other.
func flattenPort(name string, dir ir.Direction, t types.Type) []flatten.Field {
	return flatten.Type(t, []string{name}, dir == ir.Out)
}

func leafPortInfo(f flatten.Field, loc source.Location) ir.PortInfo {
	dir := ir.In
	if f.IsOutput {
		dir = ir.Out
	}
	return ir.PortInfo{Name: f.Suffix(), Direction: dir, Type: f.Type, Location: loc}
}

// lowerSignature flattens every port of sig in order.
func lowerSignature(sig ir.Signature) ir.Signature {
	var out ir.Signature
	for _, p := range sig {
		for _, f := range flattenPort(p.Name, p.Direction, p.Type) {
			out = append(out, leafPortInfo(f, p.Location))
		}
	}
	return out
}

// lowerPorts creates the leaf ports of a module and records them as the
// lowering of the original ports.
func (l *lowering) lowerPorts(m *ir.Module) []*ir.Port {
	var ports []*ir.Port
	for _, p := range m.Ports {
		fields := flattenPort(p.Name, p.Direction, p.Type)
		for _, f := range fields {
			info := leafPortInfo(f, p.Location)
			np := &ir.Port{Name: info.Name, Direction: info.Direction, Type: info.Type, Location: info.Location}
			ports = append(ports, np)
			l.setLeaf(p, f.Path[1:], np)
		}
		l.countLeaves(p.Type, len(fields))
	}
	return ports
}

func (l *lowering) lowerExtModule(e *ir.ExtModule) *ir.ExtModule {
	return &ir.ExtModule{
		Name:     e.Name,
		Defname:  e.Defname,
		Params:   e.Params,
		Ports:    lowerSignature(e.Ports),
		Location: e.Location,
	}
}

// lowerInstance re-flattens the instance's own result types. The callee is
// never consulted, so callee and caller may be lowered concurrently.
func (l *lowering) lowerInstance(op *ir.InstanceOp) {
	var sig ir.Signature
	var fields [][]flatten.Field
	for _, r := range op.Results {
		rf := flattenPort(r.Name, r.Direction, r.Type)
		fields = append(fields, rf)
		for _, f := range rf {
			sig = append(sig, leafPortInfo(f, op.Location))
		}
	}

	inst := l.b.InstanceOf(op.Name, op.Module, sig)
	next := 0
	for i, r := range op.Results {
		for _, f := range fields[i] {
			l.setLeaf(r, f.Path[1:], inst.Results[next])
			next++
		}
		l.countLeaves(r.Type, len(fields[i]))
	}
}
