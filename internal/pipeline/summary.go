package pipeline

import (
	"fmt"
	"io"

	"github.com/stellaraccident/circt/colors"
	"github.com/stellaraccident/circt/internal/phase"
)

// PrintSummary prints a summary of the run
func (p *Pipeline) PrintSummary(w io.Writer) {
	fmt.Fprintln(w)
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")
	colors.CYAN.Fprintln(w, "          LOWERING SUMMARY")
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")

	if p.ctx.Circuit != nil {
		fmt.Fprintf(w, "Circuit: %s\n", p.ctx.Circuit.Name)
	}
	fmt.Fprintf(w, "Total Modules: %d\n", p.ctx.ModuleCount())

	if res := p.Lowering; res != nil {
		fmt.Fprintf(w, "Committed: %d\n", res.Tracker.Count(phase.PhaseCommitted))
		fmt.Fprintf(w, "Failed: %d\n", res.Tracker.Count(phase.PhaseFailed))
		fmt.Fprintf(w, "Leaves: %d\n", res.Stats.Leaves.Load())
		fmt.Fprintf(w, "Memories: %d\n", res.Stats.Memories.Load())
	}
	fmt.Fprintf(w, "Errors: %d, Warnings: %d\n",
		p.ctx.Diagnostics.ErrorCount(), p.ctx.Diagnostics.WarningCount())
}
