// Package layout computes cumulative offsets and half-open index ranges for
// sequences of per-entity dimensions.
//
// It is the arithmetic bedrock of the topology index: given dims d_1..d_n and
// a starting counter, Split produces parallel offsets and ranges such that
// range i has length d_i and starts exactly where range i-1 ends, so the
// ranges partition [start, start+Σd_i) with no gaps and no overlaps.
//
// Split is a pure function: O(n) time, no side effects, sentinel errors only.
package layout
