package main

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/db"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/task"
	"github.com/banshee-data/centerout/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreComparison(t *testing.T) {
	meta, err := session.ParseMetadata(session.Descriptor{
		session.KeyTargetInfo:   "[-0.7, 0.0, 0.4, 0.4]",
		session.KeyCopilotAlpha: "1.0",
	})
	require.NoError(t, err)
	a := &analysis.Analyzer{Strategy: task.StrategyChangeIndex, Sentinel: task.CenterHold}
	off, err := a.Analyze("off", testutil.Block(0.6, 6).Table(), meta)
	require.NoError(t, err)
	on, err := a.Analyze("on", testutil.Block(0.05, 6).Table(), meta)
	require.NoError(t, err)
	cmp, err := analysis.Compare(off, on)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cmp.db")
	require.NoError(t, storeComparison(path, cmp))
	// A second call reopens the same file.
	require.NoError(t, storeComparison(path, cmp))

	store, err := db.NewDB(path)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRunsBySession("off")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	list, err := store.ListComparisons(runs[0].RunID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoreComparison_OpenError(t *testing.T) {
	err := storeComparison(filepath.Join(t.TempDir(), "missing", "cmp.db"), &analysis.ComparisonReport{})
	assert.ErrorContains(t, err, "open db")
}
