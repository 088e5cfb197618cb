package layout

import (
	"errors"
	"fmt"
)

// ErrNonPositiveDim indicates a dimension that is zero or negative.
// Every entity must occupy at least one buffer position.
var ErrNonPositiveDim = errors.New("layout: dimension must be positive")

// Range is a half-open index interval [Start, End) into a flat buffer.
type Range struct {
	Start int // first index covered by the range
	End   int // one past the last index covered
}

// Len returns the number of indices covered by r.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether the absolute index i falls inside r.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Split turns dims into cumulative offsets and contiguous half-open ranges,
// counting from start. offsets[i] equals start + Σ dims[:i]; ranges[i] covers
// exactly dims[i] positions and begins where ranges[i-1] ends.
//
// Returns ErrNonPositiveDim (with the offending position) if any dimension is
// zero or negative. Complexity: O(len(dims)) time and space.
func Split(dims []int, start int) (offsets []int, ranges []Range, err error) {
	offsets = make([]int, len(dims))
	ranges = make([]Range, len(dims))

	counter := start
	for i, d := range dims {
		if d <= 0 {
			return nil, nil, fmt.Errorf("Split: dims[%d]=%d: %w", i, d, ErrNonPositiveDim)
		}
		offsets[i] = counter
		ranges[i] = Range{Start: counter, End: counter + d}
		counter += d
	}

	return offsets, ranges, nil
}

// Total returns the sum of dims, i.e. the length of the flat buffer the
// ranges produced by Split(dims, 0) would partition.
// Returns ErrNonPositiveDim on the same inputs Split rejects.
func Total(dims []int) (int, error) {
	total := 0
	for i, d := range dims {
		if d <= 0 {
			return 0, fmt.Errorf("Total: dims[%d]=%d: %w", i, d, ErrNonPositiveDim)
		}
		total += d
	}

	return total, nil
}
