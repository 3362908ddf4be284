package testutil

import (
	"testing"

	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/task"
)

func TestBlock_Shape(t *testing.T) {
	rec := Block(0.2, 10)
	table := rec.Table()
	AssertNoError(t, table.Validate())

	trials, err := task.Segment(table.StateTask, table.NumCompletedBlocks)
	AssertNoError(t, err)
	if len(trials) != task.NumTargets {
		t.Fatalf("expected %d trials, got %d", task.NumTargets, len(trials))
	}
	for i, tr := range trials {
		if tr.Target != task.TargetCodes[i] {
			t.Errorf("trial %d: target %d, want %d", i, tr.Target, task.TargetCodes[i])
		}
		if tr.Len() != 10 {
			t.Errorf("trial %d: %d samples, want 10", i, tr.Len())
		}
	}
}

func TestWriteSession(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	WriteSession(t, mfs, "/data", "s1", Block(0, 4), Descriptor(1.0, 0.4))

	for _, f := range []string{"/data/s1/task.json", "/data/s1/README.txt"} {
		if !mfs.Exists(f) {
			t.Errorf("expected %s to exist", f)
		}
	}
}
