// Package topology builds the static offset/adjacency index that maps a
// lvlath graph plus per-entity dimension vectors onto two flat state arrays,
// and the precomputed view aggregate that hands out zero-copy accessors over
// a swappable buffer.Holder.
//
// The Index is constructed once per simulation setup and never mutated:
//
//   - vertex/edge offsets and half-open ranges (layout.Split), partitioning
//     [0, DimV) and [0, DimE) exactly;
//   - source/destination vertex index per edge, in the graph's stable
//     enumeration order (lvlath: Vertices() sorted asc, Edges() sorted by ID);
//   - per-vertex incident-edge descriptors split into "entering" and
//     "leaving". On directed graphs these address full edge slots; on
//     undirected graphs each edge slot is split into two equal half-ranges,
//     the destination seeing (entering=first half, leaving=second) and the
//     source the mirror image.
//
// The Views aggregate is likewise built once; because every view resolves
// through the Holder, the aggregate survives arbitrary buffer swaps.
//
// Errors:
//
//	ErrNilGraph         - nil *core.Graph supplied.
//	ErrShapeMismatch    - dims count disagrees with the graph, a dimension is
//	                      non-positive, an undirected edge dimension is odd,
//	                      or a holder's array lengths disagree with the index.
//	ErrIndexOutOfBounds - entity index outside [0, count).
package topology
