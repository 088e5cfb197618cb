package network

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/dynet/buffer"
	"github.com/katalvlaran/dynet/topology"
)

// buildNames assembles the flat state-name table at construction time:
// vertex components in enumeration order, then dynamic edge components.
// Model-supplied names are prefixed with the entity ID to stay unique across
// entities sharing a model; without names the component ordinal is used.
func (n *Network) buildNames() {
	total := n.topo.DimV()
	if n.dynamicEdges {
		total += n.topo.DimE()
	}
	names := make([]string, 0, total)

	ids := n.topo.VertexIDs()
	for i, grp := range n.perVertex {
		names = appendEntityNames(names, ids[i], grp.model.Names, grp.model.Dim)
	}
	if n.dynamicEdges {
		eids := n.topo.EdgeIDs()
		for e, grp := range n.perEdge {
			names = appendEntityNames(names, eids[e], grp.model.Names, grp.dim)
		}
	}
	n.names = names
}

func appendEntityNames(dst []string, id string, names []string, dim int) []string {
	for k := 0; k < dim; k++ {
		if names != nil {
			dst = append(dst, fmt.Sprintf("%s_%s", id, names[k]))
		} else {
			dst = append(dst, fmt.Sprintf("%s_%d", id, k+1))
		}
	}

	return dst
}

// StateNames returns one label per solver-vector component: vertices first
// in enumeration order, then dynamic edges. The returned slice is a copy.
func (n *Network) StateNames() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)

	return out
}

// IndexOfSubstring returns the solver-vector indices whose state name
// contains sub, in ascending index order. An empty result is not an error.
func (n *Network) IndexOfSubstring(sub string) []int {
	var out []int
	for i, name := range n.names {
		if strings.Contains(name, sub) {
			out = append(out, i)
		}
	}

	return out
}

// Snapshot materializes a read-only view aggregate over a copy of u with all
// static edge values computed, for inspection between solver steps. The
// returned views are backed by fresh storage independent of the live holders,
// so a concurrent or subsequent Evaluate cannot disturb them.
func (n *Network) Snapshot(u []float64, p Params, t float64) (*topology.Views, error) {
	return n.SnapshotAt(u, p, t, nil)
}

// SnapshotAt is Snapshot with an external history function, required when any
// edge model is history-aware.
func (n *Network) SnapshotAt(u []float64, p Params, t float64, h History) (*topology.Views, error) {
	const op = "Snapshot"
	for _, grp := range n.edgeGroups {
		if grp.kind == edgeHistory && h == nil {
			return nil, fmt.Errorf("%s: %w", op, ErrNeedHistory)
		}
	}
	if err := n.checkParams(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dimV, dimE := n.topo.DimV(), n.topo.DimE()
	full := dimV + dimE
	switch {
	case n.dynamicEdges:
		if len(u) != full {
			return nil, fmt.Errorf("%s: state length %d, want %d: %w", op, len(u), full, ErrShapeMismatch)
		}
	case len(u) != dimV && len(u) != full:
		return nil, fmt.Errorf("%s: state length %d, want %d or %d: %w", op, len(u), dimV, full, ErrShapeMismatch)
	}

	hld := buffer.NewHolder(dimV, dimE)
	vbuf := make([]float64, dimV)
	copy(vbuf, u[:dimV])
	if err := hld.Install(buffer.VertexState, vbuf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(u) == full {
		ebuf := make([]float64, dimE)
		copy(ebuf, u[dimV:])
		if err := hld.Install(buffer.EdgeState, ebuf); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	sv, err := topology.NewViews(n.topo, hld)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Dynamic edge values arrive inside u; static and history edge values
	// are recomputed into the snapshot's own storage.
	if !n.dynamicEdges {
		for _, grp := range n.edgeGroups {
			for _, e := range grp.idx {
				eV, err := sv.Edge(e)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", op, err)
				}
				srcV, err := sv.EdgeSource(e)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", op, err)
				}
				dstV, err := sv.EdgeDest(e)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", op, err)
				}
				ep := edgeParam(p, e)
				if grp.kind == edgeHistory {
					grp.fh(eV, srcV, dstV, rebase(h, n.eBase[e], grp.dim), ep, t)
				} else {
					grp.f(eV, srcV, dstV, ep, t)
				}
			}
		}
	}

	return sv, nil
}
