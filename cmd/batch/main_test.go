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

func TestParsePairs(t *testing.T) {
	got, err := parsePairs("s5:s6, s7:s8")
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"s5", "s6"}, {"s7", "s8"}}, got)

	got, err = parsePairs("")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, bad := range []string{"s5", "s5:", ":s6", "s5:s6,"} {
		_, err := parsePairs(bad)
		assert.Error(t, err, bad)
	}
}

func TestStoreResults(t *testing.T) {
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

	res := &analysis.BatchResult{
		Order:    []string{"off", "on"},
		Reports:  map[string]*analysis.SessionReport{"off": off, "on": on},
		Failures: map[string]error{},
	}
	path := filepath.Join(t.TempDir(), "batch.db")
	require.NoError(t, storeResults(path, res, []*analysis.ComparisonReport{cmp}))

	store, err := db.NewDB(path)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRunsBySession("on")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	list, err := store.ListComparisons(runs[0].RunID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
