// Package testutil provides shared test utilities and fixtures.
//
// This package centralises synthetic session recordings so the session,
// analysis and report tests build their inputs the same way.
package testutil

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/task"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Descriptor returns README.txt content with the standard 0.7 radius
// target layout and the given copilot alpha.
func Descriptor(alpha float64, diameter float64) string {
	return fmt.Sprintf(`Session type: center-out 8
Target info: [-0.7, 0.0, %g, %g]
kfCopilotAlpha (1.0: no copilot): %g
Decoder: kf
`, diameter, diameter, alpha)
}

// Recording builds a synthetic task log one run at a time.
type Recording struct {
	States []int
	Blocks []int
	Pos    []task.Point
}

// Hold appends n center-hold samples at the origin.
func (r *Recording) Hold(n int) *Recording {
	for i := 0; i < n; i++ {
		r.append(task.CenterHold, 0, task.Point{})
	}
	return r
}

// Calibrate appends n samples of code with a negative block count.
func (r *Recording) Calibrate(code, n int) *Recording {
	for i := 0; i < n; i++ {
		r.append(code, -1, task.Point{X: 0.1 * float64(i%3), Y: -0.1})
	}
	return r
}

// Reach appends a straight reach of n samples from the origin to target.
func (r *Recording) Reach(code int, target task.Point, n int) *Recording {
	for i := 0; i < n; i++ {
		f := float64(i) / float64(max(n-1, 1))
		r.append(code, 0, task.Point{X: f * target.X, Y: f * target.Y})
	}
	return r
}

// Detour appends a reach that first swings sideways by offset before
// reaching target, giving an efficiency below 100%.
func (r *Recording) Detour(code int, target task.Point, offset float64, n int) *Recording {
	for i := 0; i < n; i++ {
		f := float64(i) / float64(max(n-1, 1))
		side := offset * math.Sin(math.Pi*f)
		r.append(code, 0, task.Point{X: f*target.X - side*target.Y, Y: f*target.Y + side*target.X})
	}
	return r
}

// Stall appends n samples of code that never move.
func (r *Recording) Stall(code int, at task.Point, n int) *Recording {
	for i := 0; i < n; i++ {
		r.append(code, 0, at)
	}
	return r
}

func (r *Recording) append(code, blocks int, p task.Point) {
	r.States = append(r.States, code)
	r.Blocks = append(r.Blocks, blocks)
	r.Pos = append(r.Pos, p)
}

// Table returns the recording as a SampleTable.
func (r *Recording) Table() *task.SampleTable {
	return &task.SampleTable{
		StateTask:          append([]int(nil), r.States...),
		DecodedPos:         append([]task.Point(nil), r.Pos...),
		NumCompletedBlocks: append([]int(nil), r.Blocks...),
	}
}

// ExportJSON renders the recording as a task.json export, with the
// integer columns as Nx1 arrays like the recorder writes them.
func (r *Recording) ExportJSON() ([]byte, error) {
	wrap := func(col []int) [][]int {
		out := make([][]int, len(col))
		for i, v := range col {
			out[i] = []int{v}
		}
		return out
	}
	pos := make([][]float64, len(r.Pos))
	for i, p := range r.Pos {
		pos[i] = []float64{p.X, p.Y}
	}
	return json.Marshal(map[string]interface{}{
		"state_task":         wrap(r.States),
		"decoded_pos":        pos,
		"numCompletedBlocks": wrap(r.Blocks),
	})
}

// WriteSession lays out a session directory under root in fsys.
func WriteSession(t *testing.T, fsys fsutil.FileSystem, root, id string, rec *Recording, descriptor string) {
	t.Helper()
	data, err := rec.ExportJSON()
	AssertNoError(t, err)
	dir := filepath.Join(root, id)
	AssertNoError(t, fsys.MkdirAll(dir, 0755))
	AssertNoError(t, fsys.WriteFile(filepath.Join(dir, "task.json"), data, 0644))
	AssertNoError(t, fsys.WriteFile(filepath.Join(dir, "README.txt"), []byte(descriptor), 0644))
}

// StandardTargets are the canonical 0.7 radius target centres.
var StandardTargets = map[int]task.Point{
	task.TargetLeft:      {X: -0.7, Y: 0},
	task.TargetRight:     {X: 0.7, Y: 0},
	task.TargetUp:        {X: 0, Y: 0.7},
	task.TargetDown:      {X: 0, Y: -0.7},
	task.TargetUpLeft:    {X: -0.495, Y: 0.495},
	task.TargetDownLeft:  {X: -0.495, Y: -0.495},
	task.TargetUpRight:   {X: 0.495, Y: 0.495},
	task.TargetDownRight: {X: 0.495, Y: -0.495},
}

// Block returns a recording with a calibration prefix, then one hold and
// reach per target in canonical order, each reach made with detour offset.
// The first reach is the run discarded by change-index segmentation, so a
// leading warm-up reach is added before the block.
func Block(offset float64, samplesPerReach int) *Recording {
	r := &Recording{}
	r.Calibrate(task.TargetLeft, 5).Hold(3)
	r.Reach(task.TargetRight, StandardTargets[task.TargetRight], samplesPerReach)
	for _, code := range task.TargetCodes {
		r.Hold(3)
		if offset == 0 {
			r.Reach(code, StandardTargets[code], samplesPerReach)
		} else {
			r.Detour(code, StandardTargets[code], offset, samplesPerReach)
		}
	}
	return r.Hold(3)
}
