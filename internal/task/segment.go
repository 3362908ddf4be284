package task

import (
	"fmt"
	"strings"
)

// Trial is one contiguous attempt at a single peripheral target.
// Samples [Start, End) belong to the trial.
type Trial struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Target int `json:"target"`
	// Index is the dense target index used for colour and panel lookups,
	// or -1 when Target is not a known code.
	Index int `json:"index"`
}

// Len returns the number of samples in the trial.
func (tr Trial) Len() int {
	return tr.End - tr.Start
}

// Slice returns the sub-slice of points covered by the trial, clamped to
// the bounds of points.
func (tr Trial) Slice(points []Point) []Point {
	start, end := tr.Start, tr.End
	if end > len(points) {
		end = len(points)
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil
	}
	return points[start:end]
}

// Strategy selects how trials are recovered from the state stream.
type Strategy int

const (
	// StrategyChangeIndex splits on every state change after the first and
	// masks calibration samples.
	StrategyChangeIndex Strategy = iota
	// StrategyCenterTransition pairs center->target and target->center
	// transitions on the raw state stream.
	StrategyCenterTransition
)

func (s Strategy) String() string {
	switch s {
	case StrategyChangeIndex:
		return "change-index"
	case StrategyCenterTransition:
		return "center-transition"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name as produced by Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "change-index", "change":
		return StrategyChangeIndex, nil
	case "center-transition", "center", "centerout8":
		return StrategyCenterTransition, nil
	default:
		return 0, fmt.Errorf("unknown segmentation strategy %q", s)
	}
}

// MaskCalibration returns a copy of stateTask in which every sample with a
// negative completed-block count is replaced by sentinel. The inputs are not
// modified. Both slices must have the same length.
func MaskCalibration(stateTask, numCompletedBlocks []int, sentinel int) []int {
	working := make([]int, len(stateTask))
	copy(working, stateTask)
	for i, blocks := range numCompletedBlocks {
		if i < len(working) && blocks < 0 {
			working[i] = sentinel
		}
	}
	return working
}

// ChangeIndices returns every index i >= 1 with states[i] != states[i-1],
// in ascending order.
func ChangeIndices(states []int) []int {
	var out []int
	for i := 1; i < len(states); i++ {
		if states[i] != states[i-1] {
			out = append(out, i)
		}
	}
	return out
}

// Segment recovers trials from the state stream using CenterHold as the
// inter-trial sentinel. See SegmentWithSentinel.
func Segment(stateTask, numCompletedBlocks []int) ([]Trial, error) {
	return SegmentWithSentinel(stateTask, numCompletedBlocks, CenterHold)
}

// SegmentWithSentinel masks calibration samples, splits the stream at every
// state change, trims the boundaries with DiscardFirstChange and drops the
// runs that sit on the sentinel. A constant stream yields no trials.
func SegmentWithSentinel(stateTask, numCompletedBlocks []int, sentinel int) ([]Trial, error) {
	if len(stateTask) != len(numCompletedBlocks) {
		return nil, fmt.Errorf("%w: state_task has %d samples, numCompletedBlocks has %d",
			ErrInvalidInput, len(stateTask), len(numCompletedBlocks))
	}
	if len(stateTask) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidInput, len(stateTask))
	}

	working := MaskCalibration(stateTask, numCompletedBlocks, sentinel)
	b := DiscardFirstChange(Boundaries{Starts: ChangeIndices(working), Len: len(working)})

	trials := make([]Trial, 0, len(b.Starts))
	for k, start := range b.Starts {
		code := working[start]
		if code == sentinel {
			continue
		}
		end := b.Ends[k]
		if end > len(working) {
			end = len(working)
		}
		idx, ok := DenseIndex(code)
		if !ok {
			idx = -1
		}
		trials = append(trials, Trial{Start: start, End: end, Target: code, Index: idx})
	}
	return trials, nil
}

// SegmentByCenterTransitions recovers trials from the raw state stream by
// pairing sentinel->target transitions (starts) with target->sentinel
// transitions (ends), reconciled with ReconcileStartEnd. Calibration samples
// are not masked here; SegmentTable passes the output of MaskCalibration.
// Target indices use AlternateDenseIndex.
func SegmentByCenterTransitions(stateTask []int, sentinel int) ([]Trial, error) {
	if len(stateTask) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidInput, len(stateTask))
	}

	var starts, ends []int
	for i := 0; i+1 < len(stateTask); i++ {
		cur, next := stateTask[i], stateTask[i+1]
		if cur == sentinel && next != sentinel {
			starts = append(starts, i+1)
		}
		if cur != sentinel && next == sentinel {
			ends = append(ends, i+1)
		}
	}

	b := ReconcileStartEnd(Boundaries{Starts: starts, Ends: ends, Len: len(stateTask)})
	n := len(b.Starts)
	if len(b.Ends) < n {
		n = len(b.Ends)
	}

	trials := make([]Trial, 0, n)
	for k := 0; k < n; k++ {
		start, end := b.Starts[k], b.Ends[k]
		if end <= start {
			continue
		}
		code := stateTask[start]
		trials = append(trials, Trial{Start: start, End: end, Target: code, Index: AlternateDenseIndex(code)})
	}
	return trials, nil
}

// SegmentTable validates table and segments it with the given strategy.
// Both strategies see the stream with calibration samples masked.
func SegmentTable(table *SampleTable, strategy Strategy, sentinel int) ([]Trial, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	switch strategy {
	case StrategyChangeIndex:
		return SegmentWithSentinel(table.StateTask, table.NumCompletedBlocks, sentinel)
	case StrategyCenterTransition:
		return SegmentByCenterTransitions(MaskCalibration(table.StateTask, table.NumCompletedBlocks, sentinel), sentinel)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %v", ErrInvalidInput, strategy)
	}
}

// CountByTarget returns the number of trials per raw target code.
func CountByTarget(trials []Trial) map[int]int {
	counts := make(map[int]int)
	for _, tr := range trials {
		counts[tr.Target]++
	}
	return counts
}
