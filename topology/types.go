package topology

import "errors"

// Sentinel errors for topology construction and lookup.
var (
	// ErrNilGraph indicates a nil *core.Graph was supplied.
	ErrNilGraph = errors.New("topology: nil graph")

	// ErrShapeMismatch indicates dimension vectors that cannot index the
	// graph: wrong count, non-positive entry, an odd edge dimension on an
	// undirected graph, or holder array lengths that disagree with the index.
	ErrShapeMismatch = errors.New("topology: dimension shape mismatch")

	// ErrIndexOutOfBounds indicates a vertex or edge index outside the
	// valid [0, count) range.
	ErrIndexOutOfBounds = errors.New("topology: entity index out of range")
)

// Slot describes one incident edge's window into the edge array, as seen
// from a particular vertex. On directed graphs a Slot covers the full edge
// slot; on undirected graphs it covers one of the edge's two half-ranges.
type Slot struct {
	// Edge is the index of the edge this slot belongs to.
	Edge int
	// Off is the absolute offset of the window in the edge array.
	Off int
	// Len is the window length (full edge dimension, or half of it).
	Len int
}
