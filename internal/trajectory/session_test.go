package trajectory

import (
	"math"
	"testing"

	"github.com/banshee-data/centerout/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	mean, std, excluded := Summarize([]float64{100, 50})
	assert.InDelta(t, 75.0, mean, 1e-12)
	assert.InDelta(t, 25.0, std, 1e-12)
	assert.Zero(t, excluded)

	mean, std, excluded = Summarize([]float64{100, math.Inf(1), 50, math.NaN()})
	assert.InDelta(t, 75.0, mean, 1e-12)
	assert.InDelta(t, 25.0, std, 1e-12)
	assert.Equal(t, 2, excluded)

	mean, std, excluded = Summarize(nil)
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(std))
	assert.Zero(t, excluded)
}

func TestEfficiencyForSession(t *testing.T) {
	t.Parallel()

	positions := []task.Point{
		{X: 0, Y: 0}, {X: 0, Y: 0}, // center hold
		{X: 0, Y: 0}, {X: -1, Y: 0}, // straight to the left target
		{X: 0, Y: 0}, {X: 0, Y: 0}, // center hold
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}, // detour
		{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, // stationary trial
	}
	trials := []task.Trial{
		{Start: 2, End: 4, Target: task.TargetLeft},
		{Start: 4, End: 6, Target: task.CenterHold},
		{Start: 6, End: 10, Target: task.TargetUp},
		{Start: 10, End: 13, Target: task.TargetDown},
	}
	lookup := func(tr task.Trial) []task.Point { return tr.Slice(positions) }

	res := EfficiencyForSession(trials, lookup, 1.0, task.CenterHold)

	require.Len(t, res.Values, 3, "center trial must be skipped")
	require.Len(t, res.Trials, 3)
	assert.InDelta(t, 100.0, res.Values[0], 1e-9)
	assert.InDelta(t, 100.0/(2+math.Sqrt2), res.Values[1], 1e-9)
	assert.True(t, math.IsInf(res.Values[2], 1), "degenerate trial keeps its marker")

	assert.Equal(t, 1, res.Excluded)
	assert.InDelta(t, (res.Values[0]+res.Values[1])/2, res.Mean, 1e-9)
	assert.InDelta(t, (res.Values[0]-res.Values[1])/2, res.Std, 1e-9)

	assert.Equal(t, task.Point{X: 0.5, Y: 0.5}, res.Trials[2].StartPos)
	assert.Equal(t, 2, res.Trials[2].Samples)

	degenerate := res.Degenerate()
	require.Len(t, degenerate, 1)
	assert.Equal(t, task.TargetDown, degenerate[0].Trial.Target)
}

func TestEfficiencyForSession_NoTrials(t *testing.T) {
	t.Parallel()

	res := EfficiencyForSession(nil, func(task.Trial) []task.Point { return nil }, 0.7, task.CenterHold)
	assert.Empty(t, res.Values)
	assert.True(t, math.IsNaN(res.Mean))
}

func TestEfficiencyForSession_CustomSentinel(t *testing.T) {
	t.Parallel()

	// With -1 as the hold state, 99 is an ordinary target code.
	states := []int{-1, -1, 0, 0, -1, 99, 99, -1, 1, 1, -1}
	positions := make([]task.Point, len(states))
	for i := range positions {
		positions[i] = task.Point{X: float64(i)}
	}
	trials, err := task.SegmentWithSentinel(states, make([]int, len(states)), -1)
	require.NoError(t, err)
	require.Len(t, trials, 2)

	res := EfficiencyForSession(trials, func(tr task.Trial) []task.Point { return tr.Slice(positions) }, 1.0, -1)
	assert.Len(t, res.Values, len(trials), "every segmented trial is measured")
	assert.Equal(t, 99, res.Trials[0].Trial.Target)
}
