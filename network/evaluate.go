package network

import (
	"fmt"

	"github.com/katalvlaran/dynet/buffer"
)

// Evaluate is the solver right-hand side: given the state buffer u at time t,
// it writes the derivative into du. Both slices are installed into the
// network's holders, so all precomputed views read and write the solver's own
// storage with zero copying.
//
// Accepted lengths: DimV+DimE always; DimV additionally when no edge is
// dynamic (the edge region is then a pooled transient). du must match u.
// All shape and parameter checks run before any model function is invoked.
func (n *Network) Evaluate(du, u []float64, p Params, t float64) error {
	return n.eval(du, u, p, t, nil)
}

// EvaluateAt is Evaluate with an external history function for delay models:
// history-aware models receive a Lookup rebased from their local state
// indices onto h's global index space.
func (n *Network) EvaluateAt(du, u []float64, p Params, t float64, h History) error {
	return n.eval(du, u, p, t, h)
}

func (n *Network) eval(du, u []float64, p Params, t float64, h History) error {
	const op = "Evaluate"
	if n.needsHistory && h == nil {
		return fmt.Errorf("%s: %w", op, ErrNeedHistory)
	}
	if err := n.checkParams(p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dimV, dimE := n.topo.DimV(), n.topo.DimE()
	full := dimV + dimE
	if len(du) != len(u) {
		return fmt.Errorf("%s: derivative length %d vs state length %d: %w", op, len(du), len(u), ErrShapeMismatch)
	}
	switch {
	case n.dynamicEdges:
		if len(u) != full {
			return fmt.Errorf("%s: state length %d, want %d: %w", op, len(u), full, ErrShapeMismatch)
		}
	case len(u) != dimV && len(u) != full:
		return fmt.Errorf("%s: state length %d, want %d or %d: %w", op, len(u), dimV, full, ErrShapeMismatch)
	}

	if err := n.holder.Install(buffer.VertexState, u[:dimV]); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := n.dHolder.Install(buffer.VertexState, du[:dimV]); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var pooled []float64
	switch {
	case len(u) == full:
		if err := n.holder.Install(buffer.EdgeState, u[dimV:]); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	case dimE > 0:
		pooled = n.scratch.Get().([]float64)
		if err := n.holder.Install(buffer.EdgeState, pooled); err != nil {
			n.scratch.Put(pooled)

			return fmt.Errorf("%s: %w", op, err)
		}
		defer n.scratch.Put(pooled)
	}
	if n.dynamicEdges {
		if err := n.dHolder.Install(buffer.EdgeState, du[dimV:]); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	// All edge groups complete before the first vertex update: vertex
	// functions read edge outputs through their in/out views.
	for _, grp := range n.edgeGroups {
		n.runEdgeGroup(grp, p, t, h)
	}
	for _, grp := range n.vertexGroups {
		n.runVertexGroup(grp, p, t, h)
	}

	return nil
}

// checkParams validates the per-entity parameter counts before any user
// function runs; a nil outer slice means "no parameters".
func (n *Network) checkParams(p Params) error {
	if p.Vertex != nil && len(p.Vertex) != n.topo.NumVertices() {
		return fmt.Errorf("%d vertex parameter slices for %d vertices: %w",
			len(p.Vertex), n.topo.NumVertices(), ErrIndexOutOfBounds)
	}
	if p.Edge != nil && len(p.Edge) != n.topo.NumEdges() {
		return fmt.Errorf("%d edge parameter slices for %d edges: %w",
			len(p.Edge), n.topo.NumEdges(), ErrIndexOutOfBounds)
	}

	return nil
}

// runEdgeGroup dispatches one group's entity loop. Entities write disjoint
// output ranges, so the loop runs as contiguous chunks when workers > 1.
func (n *Network) runEdgeGroup(grp *edgeGroup, p Params, t float64, h History) {
	runChunks(n.workers, len(grp.idx), func(lo, hi int) {
		for k := lo; k < hi; k++ {
			e := grp.idx[k]
			ep := edgeParam(p, e)
			switch grp.kind {
			case edgeStatic:
				grp.f(n.eView[e], n.srcView[e], n.dstView[e], ep, t)
			case edgeDynamic:
				grp.fd(n.deView[e], n.eView[e], n.srcView[e], n.dstView[e], ep, t)
			default:
				grp.fh(n.eView[e], n.srcView[e], n.dstView[e], rebase(h, n.eBase[e], grp.dim), ep, t)
			}
		}
	})
}

func (n *Network) runVertexGroup(grp *vertexGroup, p Params, t float64, h History) {
	runChunks(n.workers, len(grp.idx), func(lo, hi int) {
		for k := lo; k < hi; k++ {
			i := grp.idx[k]
			vp := vertexParam(p, i)
			switch grp.kind {
			case vertexPlain:
				grp.model.F(n.dvView[i], n.vView[i], n.inView[i], vp, t)
			case vertexDirected:
				grp.model.FD(n.dvView[i], n.vView[i], n.inView[i], n.outView[i], vp, t)
			default:
				grp.model.FH(n.dvView[i], n.vView[i], n.inView[i], rebase(h, n.vBase[i], grp.model.Dim), vp, t)
			}
		}
	})
}

// rebase wraps the global history function into a per-entity Lookup: local
// indices in [0, dim) are shifted by the entity's global base. An index
// outside the entity's own range panics, mirroring view accessors.
func rebase(h History, base, dim int) Lookup {
	return func(t float64, idx []int) []float64 {
		global := make([]int, len(idx))
		for k, j := range idx {
			if j < 0 || j >= dim {
				panic(buffer.ErrIndexOutOfBounds)
			}
			global[k] = base + j
		}

		return h(t, global)
	}
}

func vertexParam(p Params, i int) []float64 {
	if p.Vertex == nil {
		return nil
	}

	return p.Vertex[i]
}

func edgeParam(p Params, e int) []float64 {
	if p.Edge == nil {
		return nil
	}

	return p.Edge[e]
}
