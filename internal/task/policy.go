package task

// Boundaries holds candidate trial start and end indices for a stream of
// Len samples.
type Boundaries struct {
	Starts []int
	Ends   []int
	Len    int
}

// BoundaryPolicy decides how the first and last, possibly partial, trials of
// a recording are handled. Each segmentation strategy runs exactly one.
type BoundaryPolicy func(b Boundaries) Boundaries

var (
	_ BoundaryPolicy = DiscardFirstChange
	_ BoundaryPolicy = ReconcileStartEnd
)

// DiscardFirstChange treats b.Starts as the ordered change indices of the
// stream. The first change only marks the entry into the first run, which is
// not trusted as a complete trial, so it is dropped. Each remaining start
// ends where the next one begins; the last runs to Len+1. b.Ends is ignored.
func DiscardFirstChange(b Boundaries) Boundaries {
	out := Boundaries{Len: b.Len}
	if len(b.Starts) < 2 {
		return out
	}
	out.Starts = append([]int(nil), b.Starts[1:]...)
	out.Ends = make([]int, 0, len(out.Starts))
	out.Ends = append(out.Ends, out.Starts[1:]...)
	out.Ends = append(out.Ends, b.Len+1)
	return out
}

// ReconcileStartEnd pairs independently detected starts and ends. When the
// first start precedes the first end the lists are taken as well formed and
// starts are cut to the number of ends, dropping a trial that never ends.
// Otherwise the recording began mid-trial: the leading unmatched end is
// dropped before cutting. Either list being empty yields no trials.
func ReconcileStartEnd(b Boundaries) Boundaries {
	out := Boundaries{Len: b.Len}
	if len(b.Starts) == 0 || len(b.Ends) == 0 {
		return out
	}
	starts := b.Starts
	ends := b.Ends
	if starts[0] >= ends[0] {
		ends = ends[1:]
	}
	if len(starts) > len(ends) {
		starts = starts[:len(ends)]
	}
	if len(ends) > len(starts) {
		ends = ends[:len(starts)]
	}
	out.Starts = append([]int(nil), starts...)
	out.Ends = append([]int(nil), ends...)
	return out
}
