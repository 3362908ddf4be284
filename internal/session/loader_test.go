package session

import (
	"context"
	"testing"

	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/task"
	"github.com/banshee-data/centerout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLoader_Load(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	rec := testutil.Block(0, 5)
	testutil.WriteSession(t, mfs, "/data", "2024-02-02_H2_CL_5", rec, testutil.Descriptor(1.0, 0.4))

	l := &DirLoader{FS: mfs, Root: "/data"}
	table, err := l.Load(context.Background(), "2024-02-02_H2_CL_5")
	require.NoError(t, err)

	assert.Equal(t, rec.States, table.StateTask)
	assert.Equal(t, rec.Blocks, table.NumCompletedBlocks)
	require.Len(t, table.DecodedPos, len(rec.Pos))
	for i := range rec.Pos {
		assert.InDelta(t, rec.Pos[i].X, table.DecodedPos[i].X, 1e-12)
		assert.InDelta(t, rec.Pos[i].Y, table.DecodedPos[i].Y, 1e-12)
	}
}

func TestDirLoader_ReadMetadata(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	testutil.WriteSession(t, mfs, "/data", "s1", testutil.Block(0, 5), testutil.Descriptor(0.0, 0.4))
	require.NoError(t, mfs.WriteFile("/data/bad/README.txt", []byte("Target info: none\n"), 0644))

	l := &DirLoader{FS: mfs, Root: "/data"}
	m, err := l.ReadMetadata(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.CopilotAlpha)
	assert.Equal(t, 0.4, m.TargetDiameter)

	_, err = l.ReadMetadata(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrMalformedMetadata)
}

func TestDirLoader_RejectsTraversal(t *testing.T) {
	t.Parallel()

	l := &DirLoader{FS: fsutil.NewMemoryFileSystem(), Root: "/data"}
	for _, id := range []string{"", "..", "../etc", "a/b", `a\b`, "."} {
		_, err := l.Load(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidSessionID, "id=%q", id)
	}
}

func TestDirLoader_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := &DirLoader{FS: fsutil.NewMemoryFileSystem(), Root: "/data"}
	_, err := l.Load(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = l.ReadMetadata(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirLoader_Sessions(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	testutil.WriteSession(t, mfs, "/data", "b", testutil.Block(0, 3), testutil.Descriptor(1, 0.4))
	testutil.WriteSession(t, mfs, "/data", "a", testutil.Block(0, 3), testutil.Descriptor(0, 0.4))
	require.NoError(t, mfs.MkdirAll("/data/empty", 0755))

	l := &DirLoader{FS: mfs, Root: "/data"}
	ids, err := l.Sessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestDecodeTaskExport(t *testing.T) {
	t.Parallel()

	t.Run("flat columns", func(t *testing.T) {
		t.Parallel()
		table, err := DecodeTaskExport([]byte(`{
			"state_task": [99, 0, 99.0],
			"decoded_pos": [[0, 0], [0.1, -0.2, 7], [0, 0]],
			"numCompletedBlocks": [-1, 0, 0]
		}`))
		require.NoError(t, err)
		assert.Equal(t, []int{99, 0, 99}, table.StateTask)
		assert.Equal(t, task.Point{X: 0.1, Y: -0.2}, table.DecodedPos[1])
		assert.Equal(t, []int{-1, 0, 0}, table.NumCompletedBlocks)
	})

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeTaskExport([]byte(`{
			"state_task": [99, 0, 99],
			"decoded_pos": [[0, 0], [0, 0]],
			"numCompletedBlocks": [0, 0, 0]
		}`))
		assert.ErrorIs(t, err, task.ErrInvalidInput)
	})

	t.Run("short position row", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeTaskExport([]byte(`{
			"state_task": [99, 0],
			"decoded_pos": [[0, 0], [0]],
			"numCompletedBlocks": [0, 0]
		}`))
		assert.ErrorIs(t, err, task.ErrInvalidInput)
	})

	t.Run("non numeric state", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeTaskExport([]byte(`{
			"state_task": ["left", 0],
			"decoded_pos": [[0, 0], [0, 0]],
			"numCompletedBlocks": [0, 0]
		}`))
		assert.ErrorIs(t, err, task.ErrInvalidInput)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeTaskExport([]byte(`{`))
		assert.Error(t, err)
	})
}
