package typelower

import (
	"strconv"

	set "github.com/hashicorp/go-set/v2"

	"github.com/stellaraccident/circt/internal/diagnostics"
	"github.com/stellaraccident/circt/internal/flatten"
	"github.com/stellaraccident/circt/internal/ir"
	"github.com/stellaraccident/circt/internal/memport"
	"github.com/stellaraccident/circt/internal/types"
)

// sharedWires are the control signals of one original memory port. Every
// memory synthesized from a leaf of the data type is driven from them.
type sharedWires struct {
	addr, en, clk *ir.WireOp
	wmode         *ir.WireOp // read-write ports only
}

// newPort is one port of a synthesized memory together with the original port
// it was split from.
type newPort struct {
	old     int
	kind    memport.Kind
	oldKind memport.Kind
}

// lowerMem splits a memory into one memory per leaf of its data type. Read
// and write ports carry over; a read-write port becomes a read port and a
// write port whose enables are gated by wmode.
func (l *lowering) lowerMem(op *ir.MemOp) {
	kinds, data, ok := l.checkMem(op)
	if !ok {
		for _, r := range op.Results {
			l.poison(r, op.Location)
		}
		return
	}
	if len(op.Results) == 0 {
		l.b.MemOf(op.Name, op.Depth, op.ReadLatency, op.WriteLatency, nil)
		return
	}

	wires := make([]sharedWires, len(op.Results))
	for i, r := range op.Results {
		wires[i] = l.memWires(op, r, kinds[i])
	}

	leaves := flatten.Leaves(data)
	for _, leaf := range leaves {
		var ports []newPort
		var infos []ir.PortInfo
		used := set.New[string](len(op.Results) + 1)
		add := func(old int, name string, kind, oldKind memport.Kind) {
			ports = append(ports, newPort{old: old, kind: kind, oldKind: oldKind})
			infos = append(infos, ir.PortInfo{
				Name:      uniquePortName(used, name),
				Direction: ir.In,
				Type:      memport.TypeForPort(op.Depth, leaf.Type, kind),
			})
		}
		for i, r := range op.Results {
			if kinds[i] != memport.ReadWrite {
				add(i, r.Name, kinds[i], kinds[i])
				continue
			}
			add(i, r.Name+"_r", memport.Read, memport.ReadWrite)
			add(i, r.Name+"_w", memport.Write, memport.ReadWrite)
		}

		mem := l.b.MemOf(leaf.Name(op.Name), op.Depth, op.ReadLatency, op.WriteLatency, infos)
		l.stats.Memories.Inc()
		for i, p := range ports {
			l.wireMemPort(op.Results[p.old], mem.Results[i], p, wires[p.old], leaf)
		}
	}
	l.countLeaves(data, len(leaves))
}

// checkMem recovers the kind of every port and the common data type.
func (l *lowering) checkMem(op *ir.MemOp) ([]memport.Kind, types.Type, bool) {
	kinds := make([]memport.Kind, len(op.Results))
	var data types.Type
	for i, r := range op.Results {
		kind, err := memport.KindOf(r.Type)
		if err == nil {
			var d types.Type
			if d, err = memport.DataType(r.Type); err == nil {
				if data != nil && !types.Equal(data, d) {
					l.report(diagnostics.MemDataMismatch(op.Location, op.Name, r.Name, data, d))
					return nil, nil, false
				}
				data = d
			}
		}
		if err != nil {
			l.report(diagnostics.MalformedMemPort(op.Location, op.Name, r.Name, err))
			return nil, nil, false
		}
		kinds[i] = kind
	}
	return kinds, data, true
}

// memWires creates the shared control wires of one original port and records
// them as the lowering of its control fields.
func (l *lowering) memWires(op *ir.MemOp, r *ir.OpResult, kind memport.Kind) sharedWires {
	port := memport.TypeForPort(op.Depth, types.UInt(1), kind)
	wire := func(field string) *ir.WireOp {
		f, _, _ := port.Field(field)
		w := l.b.Wire(flatten.Join(flatten.Join(op.Name, r.Name), field), f.Type)
		l.setLeaf(r, []string{field}, w)
		return w
	}

	w := sharedWires{
		addr: wire(memport.Addr),
		en:   wire(memport.En),
		clk:  wire(memport.Clk),
	}
	if kind == memport.ReadWrite {
		w.wmode = wire(memport.WMode)
	}
	return w
}

// wireMemPort connects the control fields of a synthesized port to the shared
// wires and records its data and mask fields as leaves of the original port.
func (l *lowering) wireMemPort(old, port *ir.OpResult, p newPort, wires sharedWires, leaf flatten.Field) {
	bundle := port.Type.(*types.BundleType)
	for _, elt := range bundle.Fields() {
		switch elt.Name {
		case memport.Addr:
			l.b.Connect(l.b.Subfield(port, elt.Name), wires.addr)
		case memport.Clk:
			l.b.Connect(l.b.Subfield(port, elt.Name), wires.clk)
		case memport.En:
			var en ir.Value = wires.en
			if p.oldKind == memport.ReadWrite {
				var gate ir.Value = wires.wmode
				if p.kind == memport.Read {
					gate = l.b.Not(wires.wmode)
				}
				en = l.b.And(wires.en, gate)
			}
			l.b.Connect(l.b.Subfield(port, elt.Name), en)
		default:
			path := append([]string{oldFieldName(elt.Name, p)}, leaf.Path...)
			l.setLeaf(old, path, l.b.Subfield(port, elt.Name))
		}
	}
}

// oldFieldName maps a data or mask field of a split read-write port back to
// the field of the original port.
func oldFieldName(name string, p newPort) string {
	if p.oldKind != memport.ReadWrite {
		return name
	}
	switch {
	case name == memport.Mask:
		return memport.WMask
	case name == memport.Data && p.kind == memport.Read:
		return memport.RData
	case name == memport.Data:
		return memport.WData
	default:
		return name
	}
}

func uniquePortName(used *set.Set[string], base string) string {
	name := base
	for i := 0; used.Contains(name); i++ {
		name = base + strconv.Itoa(i)
	}
	used.Insert(name)
	return name
}
