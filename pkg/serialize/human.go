package serialize

import (
	"fmt"
	"strings"

	"accelir/pkg/ir"
)

// DumpHumanReadable renders a minimal indented listing of m, naming
// each node by its sequence id and instruction kind. Spec §4.9
// describes human-readable rendering as delegated to an external
// pretty-printer collaborator the core only emits bytes for; this is
// the in-repo stand-in used by cmd/irdump and by tests that want a
// quick eyeball diff, not a replacement for that collaborator.
func DumpHumanReadable(m *ir.Module) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.Kind)
	writeBlock(&b, m.Entry, 1)
	return []byte(b.String())
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func writeBlock(b *strings.Builder, block *ir.BasicBlock, depth int) {
	if block == nil {
		indent(b, depth)
		b.WriteString("<nil block>\n")
		return
	}
	for _, n := range block.Nodes() {
		view := n.Get()
		indent(b, depth)
		fmt.Fprintf(b, "%%%d : %s = %s", n.SeqID(), view.Type, view.Instruction.Kind)
		writeOperands(b, view.Instruction)
		b.WriteByte('\n')
		writeSubBlocks(b, view.Instruction, depth+1)
	}
}

func writeOperands(b *strings.Builder, in ir.Instruction) {
	switch in.Kind {
	case ir.InstrLocal:
		fmt.Fprintf(b, "(init=%%%d)", refID(in.Init))
	case ir.InstrArgument:
		fmt.Fprintf(b, "(by_value=%v)", in.ByValue)
	case ir.InstrConst:
		fmt.Fprintf(b, "(%s)", in.ConstValue)
	case ir.InstrUpdate:
		fmt.Fprintf(b, "(%%%d = %%%d)", refID(in.Var), refID(in.Value))
	case ir.InstrCall:
		b.WriteString("(")
		b.WriteString(in.Fn.String())
		for _, a := range in.Args {
			fmt.Fprintf(b, ", %%%d", refID(a))
		}
		b.WriteString(")")
	case ir.InstrReturn:
		fmt.Fprintf(b, "(%%%d)", refID(in.ReturnValue))
	case ir.InstrIf, ir.InstrLoop, ir.InstrGenericLoop:
		fmt.Fprintf(b, "(cond=%%%d)", refID(in.Cond))
	case ir.InstrSwitch:
		fmt.Fprintf(b, "(value=%%%d)", refID(in.SwitchValue))
	case ir.InstrComment, ir.InstrDebug:
		fmt.Fprintf(b, "(%q)", string(in.Text))
	}
}

func writeSubBlocks(b *strings.Builder, in ir.Instruction, depth int) {
	switch in.Kind {
	case ir.InstrIf:
		indent(b, depth-1)
		b.WriteString("true:\n")
		writeBlock(b, in.TrueBranch, depth)
		indent(b, depth-1)
		b.WriteString("false:\n")
		writeBlock(b, in.FalseBranch, depth)
	case ir.InstrLoop:
		writeBlock(b, in.Body, depth)
	case ir.InstrGenericLoop:
		indent(b, depth-1)
		b.WriteString("prepare:\n")
		writeBlock(b, in.Prepare, depth)
		indent(b, depth-1)
		b.WriteString("body:\n")
		writeBlock(b, in.Body, depth)
		indent(b, depth-1)
		b.WriteString("update:\n")
		writeBlock(b, in.Update, depth)
	case ir.InstrSwitch:
		for _, cs := range in.Cases {
			indent(b, depth-1)
			fmt.Fprintf(b, "case %d:\n", cs.Value)
			writeBlock(b, cs.Block, depth)
		}
		indent(b, depth-1)
		b.WriteString("default:\n")
		writeBlock(b, in.DefaultBlock, depth)
	}
}
