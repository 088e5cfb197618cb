// Package coupling declares the coupling policies of edge update functions
// and the symmetrization preprocessor that rewrites a single-direction edge
// function into a two-sided one for undirected graphs.
//
// On an undirected graph every edge slot holds two equal halves, one per
// direction (see topology). A user supplies f of dimension d computing the
// edge value as seen from the destination; Symmetrize produces a function of
// dimension 2d whose first half is f(src, dst, ...) and whose second half is
// derived per policy:
//
//	Unspecified   - f re-invoked with endpoints swapped (asymmetric by
//	                construction unless f itself is symmetric; f must depend
//	                only on its two endpoint views for this to be consistent).
//	Symmetric     - copy of the first half (not recomputed).
//	Antisymmetric - negation of the first half.
//	Directed      - rejected on undirected graphs.
//
// On directed graphs Symmetrize is the identity for Directed/Unspecified and
// rejects the undirected-only policies. Symmetrization must run before the
// topology index is built, because it doubles the edge dimension.
//
// Errors:
//
//	ErrCoupling - policy invalid for the graph's directedness.
//	ErrBadDim   - non-positive edge dimension.
//	ErrNilFunc  - nil edge function.
package coupling
