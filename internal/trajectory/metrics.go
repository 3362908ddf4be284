// Package trajectory computes per-trial cursor path metrics and compares
// path efficiency between sessions.
package trajectory

import (
	"errors"
	"math"

	"github.com/banshee-data/centerout/internal/task"
	"gonum.org/v1/gonum/floats"
)

// ErrDivisionUndefined is returned when a path has zero length, so its
// efficiency is not defined.
var ErrDivisionUndefined = errors.New("path length is zero")

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 task.Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// Segments returns the length of each step along points.
func Segments(points []task.Point) []float64 {
	if len(points) < 2 {
		return nil
	}
	steps := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		steps[i-1] = Distance(points[i-1], points[i])
	}
	return steps
}

// PathLength returns the total distance travelled along points. Paths with
// fewer than two points have zero length.
func PathLength(points []task.Point) float64 {
	steps := Segments(points)
	if len(steps) == 0 {
		return 0
	}
	return floats.Sum(steps)
}

// PathEfficiency returns targetDistance over the travelled path length, as
// a percentage. targetDistance is the straight-line distance the caller
// assumes the cursor had to cover; it is not measured from the first point.
//
// A zero-length path returns ErrDivisionUndefined along with the non-finite
// value the division produces, so callers can keep it as a marker.
func PathEfficiency(points []task.Point, targetDistance float64) (float64, error) {
	length := PathLength(points)
	eff := (targetDistance / length) * 100.0
	if length == 0 {
		return eff, ErrDivisionUndefined
	}
	return eff, nil
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FiniteValues returns the finite entries of values and the number of
// entries dropped.
func FiniteValues(values []float64) ([]float64, int) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if IsFinite(v) {
			out = append(out, v)
		}
	}
	return out, len(values) - len(out)
}
