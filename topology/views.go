package topology

import (
	"fmt"

	"github.com/katalvlaran/dynet/buffer"
)

// Views is the precomputed aggregate of entity views over one buffer.Holder:
// one view per vertex, one per edge, one per edge's source and destination
// vertex slice, and per-vertex ordered lists over entering/leaving edge
// windows. Built once from an Index; every lookup is O(1) and stays correct
// across arbitrary buffer swaps because views resolve through the holder.
type Views struct {
	idx    *Index
	holder *buffer.Holder

	vertex []buffer.View
	edge   []buffer.View
	src    []buffer.View // per edge: view of its source vertex slice
	dst    []buffer.View // per edge: view of its destination vertex slice

	in  [][]buffer.View // per vertex: entering edge windows
	out [][]buffer.View // per vertex: leaving edge windows
}

// NewViews builds the aggregate for idx over h. The holder's array lengths
// must equal idx.DimV() and idx.DimE(); otherwise ErrShapeMismatch.
// Complexity: O(V + E) time and space.
func NewViews(idx *Index, h *buffer.Holder) (*Views, error) {
	if idx == nil {
		return nil, fmt.Errorf("NewViews: nil index: %w", ErrNilGraph)
	}
	if h == nil {
		return nil, fmt.Errorf("NewViews: %w", buffer.ErrNilHolder)
	}
	if h.VertexLen() != idx.DimV() || h.EdgeLen() != idx.DimE() {
		return nil, fmt.Errorf("NewViews: holder %d/%d vs index %d/%d: %w",
			h.VertexLen(), h.EdgeLen(), idx.DimV(), idx.DimE(), ErrShapeMismatch)
	}

	vs := &Views{
		idx:    idx,
		holder: h,
		vertex: make([]buffer.View, idx.NumVertices()),
		edge:   make([]buffer.View, idx.NumEdges()),
		src:    make([]buffer.View, idx.NumEdges()),
		dst:    make([]buffer.View, idx.NumEdges()),
		in:     make([][]buffer.View, idx.NumVertices()),
		out:    make([][]buffer.View, idx.NumVertices()),
	}

	for i := 0; i < idx.NumVertices(); i++ {
		r := idx.vRange[i]
		v, err := h.View(buffer.VertexState, r.Start, r.Len())
		if err != nil {
			return nil, fmt.Errorf("NewViews: vertex %d: %w", i, err)
		}
		vs.vertex[i] = v
	}
	for e := 0; e < idx.NumEdges(); e++ {
		r := idx.eRange[e]
		v, err := h.View(buffer.EdgeState, r.Start, r.Len())
		if err != nil {
			return nil, fmt.Errorf("NewViews: edge %d: %w", e, err)
		}
		vs.edge[e] = v
		vs.src[e] = vs.vertex[idx.src[e]]
		vs.dst[e] = vs.vertex[idx.dst[e]]
	}
	for i := 0; i < idx.NumVertices(); i++ {
		vs.in[i] = slotViews(h, idx.in[i])
		vs.out[i] = slotViews(h, idx.out[i])
	}

	return vs, nil
}

// slotViews materializes incident-edge descriptors as views. Windows were
// validated during Index construction, so the holder lookups cannot fail.
func slotViews(h *buffer.Holder, slots []Slot) []buffer.View {
	out := make([]buffer.View, len(slots))
	for k, s := range slots {
		v, _ := h.View(buffer.EdgeState, s.Off, s.Len)
		out[k] = v
	}

	return out
}

// Index returns the topology index the aggregate was built from.
func (vs *Views) Index() *Index { return vs.idx }

// Holder returns the buffer holder the aggregate resolves through.
func (vs *Views) Holder() *buffer.Holder { return vs.holder }

// Vertex returns the view over vertex i's state slice.
func (vs *Views) Vertex(i int) (buffer.View, error) {
	if i < 0 || i >= len(vs.vertex) {
		return buffer.View{}, fmt.Errorf("Vertex(%d): %w", i, ErrIndexOutOfBounds)
	}

	return vs.vertex[i], nil
}

// Edge returns the view over edge e's state slice.
func (vs *Views) Edge(e int) (buffer.View, error) {
	if e < 0 || e >= len(vs.edge) {
		return buffer.View{}, fmt.Errorf("Edge(%d): %w", e, ErrIndexOutOfBounds)
	}

	return vs.edge[e], nil
}

// EdgeSource returns the view aliasing edge e's source vertex slice.
func (vs *Views) EdgeSource(e int) (buffer.View, error) {
	if e < 0 || e >= len(vs.src) {
		return buffer.View{}, fmt.Errorf("EdgeSource(%d): %w", e, ErrIndexOutOfBounds)
	}

	return vs.src[e], nil
}

// EdgeDest returns the view aliasing edge e's destination vertex slice.
func (vs *Views) EdgeDest(e int) (buffer.View, error) {
	if e < 0 || e >= len(vs.dst) {
		return buffer.View{}, fmt.Errorf("EdgeDest(%d): %w", e, ErrIndexOutOfBounds)
	}

	return vs.dst[e], nil
}

// VertexInEdges returns vertex i's entering edge views in enumeration order.
// The returned slice is the precomputed list; treat it as read-only.
func (vs *Views) VertexInEdges(i int) ([]buffer.View, error) {
	if i < 0 || i >= len(vs.in) {
		return nil, fmt.Errorf("VertexInEdges(%d): %w", i, ErrIndexOutOfBounds)
	}

	return vs.in[i], nil
}

// VertexOutEdges returns vertex i's leaving edge views in enumeration order.
// Read-only, like VertexInEdges.
func (vs *Views) VertexOutEdges(i int) ([]buffer.View, error) {
	if i < 0 || i >= len(vs.out) {
		return nil, fmt.Errorf("VertexOutEdges(%d): %w", i, ErrIndexOutOfBounds)
	}

	return vs.out[i], nil
}
