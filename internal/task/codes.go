package task

import "fmt"

// CenterHold is the state_task value recorded while the cursor is held at
// the central target between trials.
const CenterHold = 99

// Raw target codes as written by the recorder. Code 4 is never emitted.
const (
	TargetLeft      = 0
	TargetRight     = 1
	TargetUp        = 2
	TargetDown      = 3
	TargetUpLeft    = 5
	TargetDownLeft  = 6
	TargetUpRight   = 7
	TargetDownRight = 8
)

// NumTargets is the number of peripheral targets.
const NumTargets = 8

// TargetCodes lists the raw codes in canonical order: the order of the
// target positions in the session descriptor.
var TargetCodes = [NumTargets]int{
	TargetLeft, TargetRight, TargetUp, TargetDown,
	TargetUpLeft, TargetDownLeft, TargetUpRight, TargetDownRight,
}

var targetNames = map[int]string{
	TargetLeft:      "Left",
	TargetRight:     "Right",
	TargetUp:        "Up",
	TargetDown:      "Down",
	TargetUpLeft:    "UpLeft",
	TargetDownLeft:  "DownLeft",
	TargetUpRight:   "UpRight",
	TargetDownRight: "DownRight",
}

// TargetIndex maps raw target codes onto the dense range 0..NumTargets-1.
type TargetIndex struct {
	dense map[int]int
	raw   []int
}

// NewTargetIndex builds an index over codes, assigning dense indices in the
// order given. Duplicate codes and the center sentinel are rejected.
func NewTargetIndex(codes []int) (*TargetIndex, error) {
	ti := &TargetIndex{
		dense: make(map[int]int, len(codes)),
		raw:   make([]int, 0, len(codes)),
	}
	for _, c := range codes {
		if c == CenterHold {
			return nil, fmt.Errorf("target code %d is the center sentinel", c)
		}
		if _, dup := ti.dense[c]; dup {
			return nil, fmt.Errorf("duplicate target code %d", c)
		}
		ti.dense[c] = len(ti.raw)
		ti.raw = append(ti.raw, c)
	}
	return ti, nil
}

// DefaultTargetIndex is the index over TargetCodes.
var DefaultTargetIndex = mustTargetIndex(TargetCodes[:])

func mustTargetIndex(codes []int) *TargetIndex {
	ti, err := NewTargetIndex(codes)
	if err != nil {
		panic(err)
	}
	return ti
}

// Dense returns the dense index of a raw code.
func (ti *TargetIndex) Dense(code int) (int, bool) {
	idx, ok := ti.dense[code]
	return idx, ok
}

// Raw returns the raw code at dense index idx.
func (ti *TargetIndex) Raw(idx int) (int, bool) {
	if idx < 0 || idx >= len(ti.raw) {
		return 0, false
	}
	return ti.raw[idx], true
}

// Len returns the number of codes in the index.
func (ti *TargetIndex) Len() int {
	return len(ti.raw)
}

// DenseIndex looks code up in DefaultTargetIndex.
func DenseIndex(code int) (int, bool) {
	return DefaultTargetIndex.Dense(code)
}

// RawCode looks idx up in DefaultTargetIndex.
func RawCode(idx int) (int, bool) {
	return DefaultTargetIndex.Raw(idx)
}

// AlternateDenseIndex applies the center-transition entry point's rule:
// codes above 3 shift down by one. It agrees with DenseIndex on every valid
// code and is kept for figures produced by that entry point.
func AlternateDenseIndex(code int) int {
	if code > TargetDown {
		return code - 1
	}
	return code
}

// TargetName returns a readable name for a raw code.
func TargetName(code int) string {
	if code == CenterHold {
		return "Center"
	}
	if name, ok := targetNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Target%d", code)
}
