package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/task"
	"github.com/banshee-data/centerout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T, strategy task.Strategy) (*Analyzer, *fsutil.MemoryFileSystem) {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	l := &session.DirLoader{FS: mfs, Root: "/data"}
	return NewAnalyzer(l, strategy), mfs
}

func TestAnalyzeSession_StraightReaches(t *testing.T) {
	t.Parallel()

	a, mfs := newTestAnalyzer(t, task.StrategyChangeIndex)
	testutil.WriteSession(t, mfs, "/data", "s1", testutil.Block(0, 6), testutil.Descriptor(1.0, 0.4))

	rep, err := a.AnalyzeSession(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "s1", rep.SessionID)
	assert.Empty(t, rep.Warnings)
	require.Len(t, rep.Efficiency.Values, task.NumTargets)

	// Cardinal reaches cover exactly the target distance.
	for i, m := range rep.Efficiency.Trials {
		if m.Trial.Target <= task.TargetDown {
			assert.InDelta(t, 100.0, m.Efficiency, 1e-9, "trial %d", i)
		}
	}
	assert.Equal(t, 0, rep.Efficiency.Excluded)
	assert.False(t, rep.Copilot(session.CopilotOnWhenZero).On)
}

func TestAnalyzeSession_DegenerateTrial(t *testing.T) {
	t.Parallel()

	rec := &testutil.Recording{}
	rec.Hold(2).
		Reach(task.TargetRight, testutil.StandardTargets[task.TargetRight], 4).
		Hold(2).
		Stall(task.TargetLeft, task.Point{}, 4).
		Hold(2).
		Reach(task.TargetUp, testutil.StandardTargets[task.TargetUp], 4).
		Hold(2)

	a, _ := newTestAnalyzer(t, task.StrategyChangeIndex)
	meta := mustMetadata(t, 1.0)
	rep, err := a.Analyze("stall", rec.Table(), meta)
	require.NoError(t, err)

	require.Len(t, rep.Efficiency.Values, 2)
	assert.True(t, rep.HasWarning(ErrDegenerateTrial))
	assert.False(t, rep.HasWarning(ErrEmptySession))
	assert.Equal(t, 1, rep.Efficiency.Excluded)
	assert.InDelta(t, 100.0, rep.Efficiency.Mean, 1e-9)
}

func TestAnalyzeSession_EmptySession(t *testing.T) {
	t.Parallel()

	rec := (&testutil.Recording{}).Hold(10)
	a, _ := newTestAnalyzer(t, task.StrategyChangeIndex)
	rep, err := a.Analyze("idle", rec.Table(), mustMetadata(t, 1.0))
	require.NoError(t, err)

	assert.True(t, rep.HasWarning(ErrEmptySession))
	assert.Empty(t, rep.Efficiency.Values)
	assert.True(t, math.IsNaN(rep.Efficiency.Mean))
}

func TestAnalyzeSession_CenterTransition(t *testing.T) {
	t.Parallel()

	a, mfs := newTestAnalyzer(t, task.StrategyCenterTransition)
	testutil.WriteSession(t, mfs, "/data", "s8", testutil.Block(0, 5), testutil.Descriptor(0.0, 0.4))

	rep, err := a.AnalyzeSession(context.Background(), "s8")
	require.NoError(t, err)

	// The warm-up reach is kept by this strategy; calibration is masked.
	assert.Len(t, rep.Efficiency.Values, task.NumTargets+1)
	assert.True(t, rep.Copilot(session.CopilotOnWhenZero).On)
}

func TestAnalyze_CenterTransitionSkipsCalibration(t *testing.T) {
	t.Parallel()

	rec := &testutil.Recording{}
	rec.Hold(1).
		Calibrate(task.TargetLeft, 2).
		Hold(2).
		Reach(task.TargetUp, testutil.StandardTargets[task.TargetUp], 3).
		Hold(2).
		Reach(task.TargetUpLeft, testutil.StandardTargets[task.TargetUpLeft], 3).
		Hold(1)
	rec.Blocks[0] = -1
	rec.Blocks[3] = -1

	a, _ := newTestAnalyzer(t, task.StrategyCenterTransition)
	rep, err := a.Analyze("cal", rec.Table(), mustMetadata(t, 1.0))
	require.NoError(t, err)

	require.Len(t, rep.Trials, 2)
	assert.Equal(t, task.TargetUp, rep.Trials[0].Target)
	assert.Equal(t, task.TargetUpLeft, rep.Trials[1].Target)
	assert.Len(t, rep.Efficiency.Values, 2)
}

func TestAnalyze_CustomSentinel(t *testing.T) {
	t.Parallel()

	// 99 is an ordinary state when the hold sentinel is moved.
	const hold = -1
	rec := &testutil.Recording{}
	rec.Stall(hold, task.Point{}, 2).
		Reach(task.TargetLeft, testutil.StandardTargets[task.TargetLeft], 3).
		Stall(hold, task.Point{}, 2).
		Reach(task.CenterHold, testutil.StandardTargets[task.TargetRight], 3).
		Stall(hold, task.Point{}, 2).
		Reach(task.TargetUp, testutil.StandardTargets[task.TargetUp], 3).
		Stall(hold, task.Point{}, 2)

	a, _ := newTestAnalyzer(t, task.StrategyChangeIndex)
	a.Sentinel = hold
	rep, err := a.Analyze("moved", rec.Table(), mustMetadata(t, 1.0))
	require.NoError(t, err)

	require.Len(t, rep.Trials, 2)
	assert.Len(t, rep.Efficiency.Values, len(rep.Trials))
	assert.Equal(t, task.CenterHold, rep.Efficiency.Trials[0].Trial.Target)
}

func TestAnalyzeSession_Errors(t *testing.T) {
	t.Parallel()

	a, mfs := newTestAnalyzer(t, task.StrategyChangeIndex)
	require.NoError(t, mfs.WriteFile("/data/nometa/task.json", []byte(`{}`), 0644))

	_, err := a.AnalyzeSession(context.Background(), "missing")
	assert.Error(t, err)

	_, err = a.AnalyzeSession(context.Background(), "nometa")
	assert.Error(t, err)

	_, err = a.AnalyzeSession(context.Background(), "../escape")
	assert.ErrorIs(t, err, session.ErrInvalidSessionID)
}

func TestCompareSessions(t *testing.T) {
	t.Parallel()

	a, mfs := newTestAnalyzer(t, task.StrategyChangeIndex)
	testutil.WriteSession(t, mfs, "/data", "off", testutil.Block(0.6, 8), testutil.Descriptor(1.0, 0.4))
	testutil.WriteSession(t, mfs, "/data", "on", testutil.Block(0.05, 8), testutil.Descriptor(0.0, 0.4))

	cmp, err := a.CompareSessions(context.Background(), "off", "on")
	require.NoError(t, err)

	assert.Equal(t, "off", cmp.A.SessionID)
	assert.Equal(t, "on", cmp.B.SessionID)
	assert.Equal(t, task.NumTargets, cmp.Result.NA)
	assert.Equal(t, task.NumTargets, cmp.Result.NB)
	assert.Less(t, cmp.A.Efficiency.Mean, cmp.B.Efficiency.Mean)
	assert.Less(t, cmp.Result.TStatistic, 0.0)
	assert.True(t, cmp.Result.Significant())
}

func TestCompare_InsufficientData(t *testing.T) {
	t.Parallel()

	a, _ := newTestAnalyzer(t, task.StrategyChangeIndex)
	meta := mustMetadata(t, 1.0)
	idle, err := a.Analyze("idle", (&testutil.Recording{}).Hold(4).Table(), meta)
	require.NoError(t, err)
	full, err := a.Analyze("full", testutil.Block(0.2, 6).Table(), meta)
	require.NoError(t, err)

	_, err = Compare(idle, full)
	assert.Error(t, err)
}

func mustMetadata(t *testing.T, alpha float64) *session.Metadata {
	t.Helper()
	m, err := session.ParseMetadata(session.Descriptor{
		session.KeyTargetInfo:   "[-0.7, 0.0, 0.4, 0.4]",
		session.KeyCopilotAlpha: "1.0",
	})
	require.NoError(t, err)
	m.CopilotAlpha = alpha
	return m
}
