package trajectory

import (
	"math"

	"github.com/banshee-data/centerout/internal/task"
	"gonum.org/v1/gonum/stat"
)

// TrialMetrics holds the path metrics of one trial.
type TrialMetrics struct {
	Trial      task.Trial `json:"trial"`
	Samples    int        `json:"samples"`
	PathLength float64    `json:"path_length"`
	Efficiency float64    `json:"efficiency"`
	// StartPos is the first recorded cursor position of the trial. The
	// efficiency metric assumes the cursor starts at the origin; StartPos
	// is kept so a start-aware metric can be compared against it.
	StartPos task.Point `json:"start_pos"`
	// Degenerate is set when the path length is zero.
	Degenerate bool `json:"degenerate"`
}

// EfficiencyResult is the path efficiency of every target trial in a
// session.
type EfficiencyResult struct {
	Values []float64      `json:"values"`
	Trials []TrialMetrics `json:"trials"`
	Mean   float64        `json:"mean"`
	Std    float64        `json:"std"`
	// Excluded counts non-finite values left out of Mean and Std.
	Excluded int `json:"excluded"`
}

// Degenerate returns the trials whose path length was zero.
func (r *EfficiencyResult) Degenerate() []TrialMetrics {
	var out []TrialMetrics
	for _, m := range r.Trials {
		if m.Degenerate {
			out = append(out, m)
		}
	}
	return out
}

// PositionLookup returns the cursor positions recorded during a trial.
type PositionLookup func(task.Trial) []task.Point

// EfficiencyForSession computes path efficiency for every trial whose
// target is not sentinel, the center-hold state the trials were segmented
// with. Non-finite efficiencies are kept in
// Values but excluded from Mean and Std.
func EfficiencyForSession(trials []task.Trial, lookup PositionLookup, targetDistance float64, sentinel int) EfficiencyResult {
	res := EfficiencyResult{
		Values: make([]float64, 0, len(trials)),
		Trials: make([]TrialMetrics, 0, len(trials)),
	}
	for _, tr := range trials {
		if tr.Target == sentinel {
			continue
		}
		pts := lookup(tr)
		eff, err := PathEfficiency(pts, targetDistance)

		m := TrialMetrics{
			Trial:      tr,
			Samples:    len(pts),
			PathLength: PathLength(pts),
			Efficiency: eff,
			Degenerate: err != nil,
		}
		if len(pts) > 0 {
			m.StartPos = pts[0]
		}
		res.Values = append(res.Values, eff)
		res.Trials = append(res.Trials, m)
	}
	res.Mean, res.Std, res.Excluded = Summarize(res.Values)
	return res
}

// Summarize returns the mean and population standard deviation of the
// finite entries of values, and how many entries were excluded. An input
// with no finite entries yields NaN for both statistics.
func Summarize(values []float64) (mean, std float64, excluded int) {
	finite, excluded := FiniteValues(values)
	if len(finite) == 0 {
		return math.NaN(), math.NaN(), excluded
	}
	mean, std = stat.PopMeanStdDev(finite, nil)
	return mean, std, excluded
}
