package buffer

import "fmt"

// View is a lightweight, non-owning accessor over a contiguous window of one
// of the Holder's arrays. It stores (holder, class, offset, length) and
// resolves through the holder on every access, so buffer swaps are observed
// immediately and no view is ever rebuilt.
//
// A View constructed for length n must never address outside [0, n); At and
// Set enforce this like built-in slices do, panicking with
// ErrIndexOutOfBounds. Views are values: copying one is free and safe.
type View struct {
	h     *Holder
	class Class
	off   int
	n     int
}

// Len returns the number of elements the view covers.
func (v View) Len() int { return v.n }

// Offset returns the view's absolute starting position in its class array.
func (v View) Offset() int { return v.off }

// At returns element i of the view (0-based local index). Local index i maps
// to absolute position Offset()+i of the currently installed array.
// Panics with ErrIndexOutOfBounds when i is outside [0, Len()).
func (v View) At(i int) float64 {
	if i < 0 || i >= v.n {
		panic(ErrIndexOutOfBounds)
	}

	return (*v.h.array(v.class))[v.off+i]
}

// Set writes element i of the view, mutating the currently installed array.
// Panics with ErrIndexOutOfBounds when i is outside [0, Len()).
func (v View) Set(i int, x float64) {
	if i < 0 || i >= v.n {
		panic(ErrIndexOutOfBounds)
	}
	(*v.h.array(v.class))[v.off+i] = x
}

// Sub narrows the view to the local half-open window [from, to).
// O(1), no copying; the result shares the holder.
// Returns ErrIndexOutOfBounds when the window is not contained in [0, Len()].
func (v View) Sub(from, to int) (View, error) {
	if from < 0 || to < from || to > v.n {
		return View{}, fmt.Errorf("Sub: window [%d,%d) of len %d: %w", from, to, v.n, ErrIndexOutOfBounds)
	}

	return View{h: v.h, class: v.class, off: v.off + from, n: to - from}, nil
}

// Range copies the local sub-range [from, to) into a fresh slice.
// Returns ErrIndexOutOfBounds when the window is not contained in [0, Len()].
func (v View) Range(from, to int) ([]float64, error) {
	if from < 0 || to < from || to > v.n {
		return nil, fmt.Errorf("Range: window [%d,%d) of len %d: %w", from, to, v.n, ErrIndexOutOfBounds)
	}
	out := make([]float64, to-from)
	copy(out, (*v.h.array(v.class))[v.off+from:v.off+to])

	return out, nil
}

// Values copies the whole view into a fresh slice. Convenience over Range.
func (v View) Values() []float64 {
	out := make([]float64, v.n)
	copy(out, (*v.h.array(v.class))[v.off:v.off+v.n])

	return out
}

// Raw returns the live sub-slice of the currently installed array. Zero-copy:
// writes through the result mutate the holder's array. The slice is only
// valid until the next swap of this class; prefer At/Set for long-lived code.
func (v View) Raw() []float64 {
	return (*v.h.array(v.class))[v.off : v.off+v.n : v.off+v.n]
}
