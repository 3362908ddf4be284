package task

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when task columns are mismatched or too short
// to contain a single state transition.
var ErrInvalidInput = errors.New("invalid input")

// Point is a decoded cursor position in normalised screen units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SampleTable is the columnar task log of one session, one row per sample.
// It is read-only once loaded.
type SampleTable struct {
	StateTask          []int
	DecodedPos         []Point
	NumCompletedBlocks []int
}

// Len returns the number of samples.
func (t *SampleTable) Len() int {
	return len(t.StateTask)
}

// Validate checks that all columns have the same length and that there are
// at least two samples.
func (t *SampleTable) Validate() error {
	n := len(t.StateTask)
	if len(t.NumCompletedBlocks) != n {
		return fmt.Errorf("%w: state_task has %d samples, numCompletedBlocks has %d",
			ErrInvalidInput, n, len(t.NumCompletedBlocks))
	}
	if len(t.DecodedPos) != n {
		return fmt.Errorf("%w: state_task has %d samples, decoded_pos has %d",
			ErrInvalidInput, n, len(t.DecodedPos))
	}
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidInput, n)
	}
	return nil
}

// Positions returns the decoded cursor positions covered by tr.
func (t *SampleTable) Positions(tr Trial) []Point {
	return tr.Slice(t.DecodedPos)
}
