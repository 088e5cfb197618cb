package topology

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"

	"github.com/katalvlaran/dynet/layout"
)

// Index is the static, precomputed offset/adjacency structure derived from a
// graph and per-entity dimension vectors. Immutable after construction; safe
// for concurrent readers.
type Index struct {
	directed bool

	vDims, eDims   []int
	vOff, eOff     []int
	vRange, eRange []layout.Range

	src, dst           []int          // per-edge endpoint vertex indices
	srcRange, dstRange []layout.Range // per-edge endpoint vertex ranges

	in, out [][]Slot // per-vertex incident-edge descriptors, enumeration order

	vertexIDs []string       // graph vertex IDs in index order
	edgeIDs   []string       // graph edge IDs in index order
	vertexIdx map[string]int // vertex ID → index

	dimV, dimE int
}

// New builds the Index for g with the given per-vertex and per-edge
// dimensions (eDims already post-symmetrization for undirected graphs).
//
// Enumeration is stable: vertices in g.Vertices() order (sorted ascending),
// edges in g.Edges() order (sorted by edge ID). Fails with ErrShapeMismatch
// before any index is usable when a dimension vector has the wrong length, a
// dimension is non-positive, or an undirected edge dimension is odd.
// Complexity: O(V + E) time and space.
func New(g *core.Graph, vDims, eDims []int) (*Index, error) {
	if g == nil {
		return nil, fmt.Errorf("New: %w", ErrNilGraph)
	}

	vertexIDs := g.Vertices()
	edges := g.Edges()
	if len(vDims) != len(vertexIDs) {
		return nil, fmt.Errorf("New: %d vertex dims for %d vertices: %w", len(vDims), len(vertexIDs), ErrShapeMismatch)
	}
	if len(eDims) != len(edges) {
		return nil, fmt.Errorf("New: %d edge dims for %d edges: %w", len(eDims), len(edges), ErrShapeMismatch)
	}
	directed := g.Directed()

	// Validate dimensions eagerly so layout.Split below cannot fail and no
	// partially built index ever escapes.
	for i, d := range vDims {
		if d <= 0 {
			return nil, fmt.Errorf("New: vertex %q dim %d: %w", vertexIDs[i], d, ErrShapeMismatch)
		}
	}
	for i, d := range eDims {
		if d <= 0 {
			return nil, fmt.Errorf("New: edge %q dim %d: %w", edges[i].ID, d, ErrShapeMismatch)
		}
		if !directed && d%2 != 0 {
			return nil, fmt.Errorf("New: edge %q dim %d odd on undirected graph: %w", edges[i].ID, d, ErrShapeMismatch)
		}
	}

	vOff, vRange, err := layout.Split(vDims, 0)
	if err != nil {
		return nil, fmt.Errorf("New: vertex layout: %w", err)
	}
	eOff, eRange, err := layout.Split(eDims, 0)
	if err != nil {
		return nil, fmt.Errorf("New: edge layout: %w", err)
	}

	idx := &Index{
		directed:  directed,
		vDims:     append([]int(nil), vDims...),
		eDims:     append([]int(nil), eDims...),
		vOff:      vOff,
		eOff:      eOff,
		vRange:    vRange,
		eRange:    eRange,
		src:       make([]int, len(edges)),
		dst:       make([]int, len(edges)),
		srcRange:  make([]layout.Range, len(edges)),
		dstRange:  make([]layout.Range, len(edges)),
		in:        make([][]Slot, len(vertexIDs)),
		out:       make([][]Slot, len(vertexIDs)),
		vertexIDs: vertexIDs,
		edgeIDs:   make([]string, len(edges)),
		vertexIdx: make(map[string]int, len(vertexIDs)),
	}
	if len(vRange) > 0 {
		idx.dimV = vRange[len(vRange)-1].End
	}
	if len(eRange) > 0 {
		idx.dimE = eRange[len(eRange)-1].End
	}

	for i, id := range vertexIDs {
		idx.vertexIdx[id] = i
	}

	// Extract endpoints and incident-edge descriptors in one pass over the
	// stable edge enumeration.
	for e, edge := range edges {
		idx.edgeIDs[e] = edge.ID
		s, ok := idx.vertexIdx[edge.From]
		if !ok {
			return nil, fmt.Errorf("New: edge %q source %q: %w", edge.ID, edge.From, ErrIndexOutOfBounds)
		}
		d, ok := idx.vertexIdx[edge.To]
		if !ok {
			return nil, fmt.Errorf("New: edge %q destination %q: %w", edge.ID, edge.To, ErrIndexOutOfBounds)
		}
		idx.src[e], idx.dst[e] = s, d
		idx.srcRange[e], idx.dstRange[e] = vRange[s], vRange[d]

		if directed {
			full := Slot{Edge: e, Off: eOff[e], Len: eDims[e]}
			idx.out[s] = append(idx.out[s], full)
			idx.in[d] = append(idx.in[d], full)

			continue
		}

		// Undirected: the edge slot holds two equal half-ranges, one per
		// direction. The destination reads the first half and mirrors into
		// the second; the source sees the halves swapped. A self-loop
		// contributes each half exactly once.
		half := eDims[e] / 2
		first := Slot{Edge: e, Off: eOff[e], Len: half}
		second := Slot{Edge: e, Off: eOff[e] + half, Len: half}
		idx.in[d] = append(idx.in[d], first)
		idx.out[d] = append(idx.out[d], second)
		if s != d {
			idx.in[s] = append(idx.in[s], second)
			idx.out[s] = append(idx.out[s], first)
		}
	}

	return idx, nil
}

// Directed reports the directedness the index was built with.
func (x *Index) Directed() bool { return x.directed }

// NumVertices returns the number of indexed vertices.
func (x *Index) NumVertices() int { return len(x.vDims) }

// NumEdges returns the number of indexed edges.
func (x *Index) NumEdges() int { return len(x.eDims) }

// DimV returns the total vertex-state length (sum of vertex dimensions).
func (x *Index) DimV() int { return x.dimV }

// DimE returns the total edge-state length (sum of edge dimensions).
func (x *Index) DimE() int { return x.dimE }

// VertexDim returns the dimension of vertex i.
func (x *Index) VertexDim(i int) (int, error) {
	if i < 0 || i >= len(x.vDims) {
		return 0, fmt.Errorf("VertexDim(%d): %w", i, ErrIndexOutOfBounds)
	}

	return x.vDims[i], nil
}

// EdgeDim returns the dimension of edge e.
func (x *Index) EdgeDim(e int) (int, error) {
	if e < 0 || e >= len(x.eDims) {
		return 0, fmt.Errorf("EdgeDim(%d): %w", e, ErrIndexOutOfBounds)
	}

	return x.eDims[e], nil
}

// VertexRange returns the half-open window of vertex i in the vertex array.
func (x *Index) VertexRange(i int) (layout.Range, error) {
	if i < 0 || i >= len(x.vRange) {
		return layout.Range{}, fmt.Errorf("VertexRange(%d): %w", i, ErrIndexOutOfBounds)
	}

	return x.vRange[i], nil
}

// EdgeRange returns the half-open window of edge e in the edge array.
func (x *Index) EdgeRange(e int) (layout.Range, error) {
	if e < 0 || e >= len(x.eRange) {
		return layout.Range{}, fmt.Errorf("EdgeRange(%d): %w", e, ErrIndexOutOfBounds)
	}

	return x.eRange[e], nil
}

// Endpoints returns the source and destination vertex indices of edge e.
func (x *Index) Endpoints(e int) (src, dst int, err error) {
	if e < 0 || e >= len(x.src) {
		return 0, 0, fmt.Errorf("Endpoints(%d): %w", e, ErrIndexOutOfBounds)
	}

	return x.src[e], x.dst[e], nil
}

// SourceRange returns the vertex-array window of edge e's source vertex.
// O(1): recorded at construction, no re-indexing.
func (x *Index) SourceRange(e int) (layout.Range, error) {
	if e < 0 || e >= len(x.srcRange) {
		return layout.Range{}, fmt.Errorf("SourceRange(%d): %w", e, ErrIndexOutOfBounds)
	}

	return x.srcRange[e], nil
}

// DestRange returns the vertex-array window of edge e's destination vertex.
func (x *Index) DestRange(e int) (layout.Range, error) {
	if e < 0 || e >= len(x.dstRange) {
		return layout.Range{}, fmt.Errorf("DestRange(%d): %w", e, ErrIndexOutOfBounds)
	}

	return x.dstRange[e], nil
}

// InSlots returns vertex i's entering incident-edge descriptors in edge
// enumeration order. The returned slice is the precomputed list; callers
// must treat it as read-only.
func (x *Index) InSlots(i int) ([]Slot, error) {
	if i < 0 || i >= len(x.in) {
		return nil, fmt.Errorf("InSlots(%d): %w", i, ErrIndexOutOfBounds)
	}

	return x.in[i], nil
}

// OutSlots returns vertex i's leaving incident-edge descriptors in edge
// enumeration order. Read-only, like InSlots.
func (x *Index) OutSlots(i int) ([]Slot, error) {
	if i < 0 || i >= len(x.out) {
		return nil, fmt.Errorf("OutSlots(%d): %w", i, ErrIndexOutOfBounds)
	}

	return x.out[i], nil
}

// VertexIDs returns the graph vertex IDs in index order. Read-only.
func (x *Index) VertexIDs() []string { return x.vertexIDs }

// EdgeIDs returns the graph edge IDs in index order. Read-only.
func (x *Index) EdgeIDs() []string { return x.edgeIDs }

// VertexIndex resolves a graph vertex ID to its index.
func (x *Index) VertexIndex(id string) (int, error) {
	i, ok := x.vertexIdx[id]
	if !ok {
		return 0, fmt.Errorf("VertexIndex(%q): %w", id, ErrIndexOutOfBounds)
	}

	return i, nil
}
