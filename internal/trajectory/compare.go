package trajectory

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInsufficientData is returned when a comparison has too few finite
// samples on one side.
var ErrInsufficientData = errors.New("insufficient data for comparison")

// SignificanceLevel is the p-value below which a difference is starred.
const SignificanceLevel = 0.05

// maxStars caps the star count when the p-value underflows to zero.
const maxStars = 10

// Comparison is the result of an independent two-sample t-test.
type Comparison struct {
	TStatistic float64 `json:"t_statistic"`
	PValue     float64 `json:"p_value"`
	DF         float64 `json:"df"`
	Stars      int     `json:"stars"`
	NA         int     `json:"n_a"`
	NB         int     `json:"n_b"`
	// ExcludedA and ExcludedB count non-finite inputs dropped before the test.
	ExcludedA int `json:"excluded_a"`
	ExcludedB int `json:"excluded_b"`
}

// Significant reports whether the p-value is below SignificanceLevel.
func (c Comparison) Significant() bool {
	return c.PValue < SignificanceLevel
}

// Compare runs an equal-variance (Student) two-sample t-test on the finite
// entries of a and b. The p-value is two-sided.
//
// When both samples have zero variance the statistic follows the division:
// NaN with equal means, ±Inf with p = 0 otherwise.
func Compare(a, b []float64) (Comparison, error) {
	fa, exA := FiniteValues(a)
	fb, exB := FiniteValues(b)
	c := Comparison{NA: len(fa), NB: len(fb), ExcludedA: exA, ExcludedB: exB}
	if len(fa) < 2 || len(fb) < 2 {
		return c, fmt.Errorf("%w: need at least 2 finite values per session, got %d and %d",
			ErrInsufficientData, len(fa), len(fb))
	}

	n1, n2 := float64(len(fa)), float64(len(fb))
	m1, v1 := stat.MeanVariance(fa, nil)
	m2, v2 := stat.MeanVariance(fb, nil)

	c.DF = n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / c.DF
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	c.TStatistic = (m1 - m2) / se

	switch {
	case math.IsNaN(c.TStatistic):
		c.PValue = math.NaN()
	case math.IsInf(c.TStatistic, 0):
		c.PValue = 0
	default:
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: c.DF}
		c.PValue = 2 * dist.Survival(math.Abs(c.TStatistic))
	}
	c.Stars = SignificanceStars(c.PValue)
	return c, nil
}

// SignificanceStars returns floor(-log10(p)) - 1 stars for p below
// SignificanceLevel, never negative, and zero otherwise. NaN has no stars.
func SignificanceStars(p float64) int {
	if math.IsNaN(p) || p >= SignificanceLevel {
		return 0
	}
	if p <= 0 {
		return maxStars
	}
	n := int(math.Floor(-math.Log10(p))) - 1
	if n < 0 {
		return 0
	}
	if n > maxStars {
		return maxStars
	}
	return n
}

// StarString renders the significance stars for p.
func StarString(p float64) string {
	return strings.Repeat("*", SignificanceStars(p))
}
