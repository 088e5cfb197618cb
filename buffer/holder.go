package buffer

import (
	"errors"
	"fmt"
)

// Sentinel errors for buffer operations.
var (
	// ErrShapeMismatch indicates a replacement array whose length differs
	// from the currently installed array.
	ErrShapeMismatch = errors.New("buffer: array length mismatch")

	// ErrTypeMismatch indicates a dynamic swap whose payload is not a
	// []float64. The previously installed array remains in place.
	ErrTypeMismatch = errors.New("buffer: element type mismatch")

	// ErrIndexOutOfBounds indicates a local index or sub-range outside a
	// view's [0, Len()) window.
	ErrIndexOutOfBounds = errors.New("buffer: index out of bounds")

	// ErrNilHolder indicates an operation on a nil Holder.
	ErrNilHolder = errors.New("buffer: nil holder")
)

// Class selects which of the Holder's two arrays a View resolves through.
type Class uint8

const (
	// VertexState addresses the holder's vertex array.
	VertexState Class = iota
	// EdgeState addresses the holder's edge array.
	EdgeState
)

// String renders the class for error context.
func (c Class) String() string {
	if c == VertexState {
		return "vertex"
	}

	return "edge"
}

// Holder is the mutable cell through which all Views resolve. It owns or
// references exactly two flat float64 arrays whose lengths are fixed at
// construction; the arrays themselves may be replaced at any time in O(1).
//
// The Holder is single-writer by contract: installs happen before any
// concurrent read pass begins (see the network dispatcher), so no lock is
// carried here.
type Holder struct {
	vertex []float64 // current vertex-state array
	edge   []float64 // current edge-state array
}

// NewHolder allocates a Holder with zeroed arrays of the given lengths.
// Lengths may be zero (a network without dynamic edge state uses edgeLen
// for its transient edge region instead). Complexity: O(vertexLen+edgeLen).
func NewHolder(vertexLen, edgeLen int) *Holder {
	return &Holder{
		vertex: make([]float64, vertexLen),
		edge:   make([]float64, edgeLen),
	}
}

// VertexLen returns the length of the installed vertex array.
func (h *Holder) VertexLen() int { return len(h.vertex) }

// EdgeLen returns the length of the installed edge array.
func (h *Holder) EdgeLen() int { return len(h.edge) }

// Install replaces the array of the given class with buf. The new array must
// have exactly the length of the installed one; otherwise ErrShapeMismatch is
// returned and the old array stays installed. O(1): a single reference rewrite.
func (h *Holder) Install(c Class, buf []float64) error {
	if h == nil {
		return fmt.Errorf("Install: %w", ErrNilHolder)
	}
	cur := h.array(c)
	if len(buf) != len(*cur) {
		return fmt.Errorf("Install: %s length %d != %d: %w", c, len(buf), len(*cur), ErrShapeMismatch)
	}
	*cur = buf

	return nil
}

// Swap is the dynamically typed entry point used when the replacement buffer
// arrives as an opaque value (e.g. from a solver binding). The payload must be
// a []float64 of identical length; a wrong element type fails with
// ErrTypeMismatch, a wrong length with ErrShapeMismatch. The swap is atomic:
// on any failure the previously installed array remains in place.
func (h *Holder) Swap(c Class, buf interface{}) error {
	if h == nil {
		return fmt.Errorf("Swap: %w", ErrNilHolder)
	}
	typed, ok := buf.([]float64)
	if !ok {
		return fmt.Errorf("Swap: %s payload %T: %w", c, buf, ErrTypeMismatch)
	}

	return h.Install(c, typed)
}

// View constructs a zero-copy accessor over [off, off+n) of the class array.
// The view stays valid across any number of subsequent swaps.
// Returns ErrIndexOutOfBounds if the window exceeds the installed array.
func (h *Holder) View(c Class, off, n int) (View, error) {
	if h == nil {
		return View{}, fmt.Errorf("View: %w", ErrNilHolder)
	}
	if off < 0 || n < 0 || off+n > len(*h.array(c)) {
		return View{}, fmt.Errorf("View: %s window [%d,%d): %w", c, off, off+n, ErrIndexOutOfBounds)
	}

	return View{h: h, class: c, off: off, n: n}, nil
}

// array returns a pointer to the slot selected by c. Internal.
func (h *Holder) array(c Class) *[]float64 {
	if c == VertexState {
		return &h.vertex
	}

	return &h.edge
}
