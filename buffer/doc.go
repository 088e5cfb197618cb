// Package buffer provides the swappable flat-array Holder and the zero-copy
// View accessor used by every state lookup in dynet.
//
// A Holder is a single mutable cell owning two float64 arrays: one for vertex
// state, one for edge state. Replacing an array is O(1) — a single reference
// rewrite — and atomic: a swap either fully succeeds or leaves the previous
// array installed. Swaps never invalidate Views.
//
// A View is a (holder, class, offset, length) quadruple. It owns no data:
// reads and writes resolve through the Holder on every access, so a View
// constructed before a swap observes the newly installed array afterwards.
// Element accessors At/Set mirror built-in slice semantics and panic with
// ErrIndexOutOfBounds on a bad local index (the gonum/mat convention for hot
// paths); all other accessors return sentinel errors.
//
// Errors:
//
//	ErrShapeMismatch     - replacement array length differs from the installed one.
//	ErrTypeMismatch      - dynamic swap payload is not []float64.
//	ErrIndexOutOfBounds  - local index or sub-range outside the view.
//	ErrNilHolder         - view or swap requested on a nil Holder.
package buffer
