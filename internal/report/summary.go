package report

import (
	"fmt"
	"io"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/task"
	"github.com/banshee-data/centerout/internal/trajectory"
	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	valueColor   = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	starsColor   = color.New(color.FgRed, color.Bold)
	neutralColor = color.New(color.Faint)
)

// PrintSummary writes the mean and standard deviation of a session's path
// efficiency, in the two-line form the comparison printout uses, followed
// by any warnings.
func PrintSummary(w io.Writer, rep *analysis.SessionReport) {
	headerColor.Fprintf(w, "\n%s (%s, %d trials)\n", rep.SessionID, rep.Strategy, len(rep.Efficiency.Values))
	printStats(w, rep.Efficiency)
	if rep.Efficiency.Excluded > 0 {
		neutralColor.Fprintf(w, "Excluded non-finite values: %d\n", rep.Efficiency.Excluded)
	}
	for _, warn := range rep.Warnings {
		warnColor.Fprintf(w, "warning: %s\n", warn.Message)
	}
}

func printStats(w io.Writer, res trajectory.EfficiencyResult) {
	valueColor.Fprintf(w, "Mean Path Efficiency: %.2f%%\n", res.Mean)
	valueColor.Fprintf(w, "Standard Deviation of Path Efficiency: %.2f\n", res.Std)
}

// PrintComparison writes both sessions' statistics and the p-value.
func PrintComparison(w io.Writer, cmp *analysis.ComparisonReport) {
	fmt.Fprintln(w)
	printStats(w, cmp.A.Efficiency)
	fmt.Fprintln(w)
	printStats(w, cmp.B.Efficiency)
	fmt.Fprintln(w)
	valueColor.Fprintf(w, "p value: %v", cmp.Result.PValue)
	if stars := trajectory.StarString(cmp.Result.PValue); stars != "" {
		starsColor.Fprintf(w, " %s", stars)
	}
	fmt.Fprintln(w)
}

// PrintTrials writes one line per trial with its target, sample range and
// efficiency.
func PrintTrials(w io.Writer, rep *analysis.SessionReport) {
	for i, m := range rep.Efficiency.Trials {
		line := fmt.Sprintf("%3d  %-9s  %6d-%-6d  len=%.3f  eff=%.2f%%\n",
			i, task.TargetName(m.Trial.Target), m.Trial.Start, m.Trial.End, m.PathLength, m.Efficiency)
		if m.Degenerate {
			warnColor.Fprint(w, line)
			continue
		}
		fmt.Fprint(w, line)
	}
}

// PrintBatch writes a one-line summary per session and the failures.
func PrintBatch(w io.Writer, res *analysis.BatchResult) {
	for _, rep := range res.Succeeded() {
		fmt.Fprintf(w, "%-32s trials=%-4d ", rep.SessionID, len(rep.Efficiency.Values))
		valueColor.Fprintf(w, "mean=%.2f%% std=%.2f", rep.Efficiency.Mean, rep.Efficiency.Std)
		if len(rep.Warnings) > 0 {
			warnColor.Fprintf(w, " warnings=%d", len(rep.Warnings))
		}
		fmt.Fprintln(w)
	}
	for _, id := range res.FailedIDs() {
		warnColor.Fprintf(w, "%-32s failed: %v\n", id, res.Failures[id])
	}
}
