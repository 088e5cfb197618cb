package network

import "gonum.org/v1/gonum/mat"

// MassMatrix builds the block-diagonal mass matrix over the solver vector:
// one block per vertex in enumeration order, followed by one per edge when
// edges are dynamic. A model without an explicit Mass block contributes
// identity; edges promoted from static form contribute zero blocks, marking
// their rows as algebraic constraints. A fresh matrix is returned on every
// call.
func (n *Network) MassMatrix() *mat.Dense {
	dim := n.topo.DimV()
	if n.dynamicEdges {
		dim += n.topo.DimE()
	}
	m := mat.NewDense(dim, dim, nil)

	for i, grp := range n.perVertex {
		placeBlock(m, n.vBase[i], grp.model.Mass, grp.model.Dim)
	}
	if n.dynamicEdges {
		for e, grp := range n.perEdge {
			if grp.zeroMass {
				continue // rows stay zero
			}
			placeBlock(m, n.eBase[e], grp.model.Mass, grp.dim)
		}
	}

	return m
}

// placeBlock writes one Dim×Dim block at (base, base); nil means identity.
func placeBlock(m *mat.Dense, base int, blk *mat.Dense, dim int) {
	if blk == nil {
		for k := 0; k < dim; k++ {
			m.Set(base+k, base+k, 1)
		}

		return
	}
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			m.Set(base+r, base+c, blk.At(r, c))
		}
	}
}
