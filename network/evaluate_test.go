package network_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvlath/builder"
	"github.com/katalvlaran/lvlath/core"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dynet/buffer"
	"github.com/katalvlaran/dynet/coupling"
	"github.com/katalvlaran/dynet/network"
)

// diffusionModels builds the classic graph diffusion: each edge carries the
// state difference toward its destination, each vertex accumulates its
// entering edge values. With antisymmetric coupling this is the negative
// graph Laplacian.
func diffusionModels() (*network.VertexModel, *network.EdgeModel) {
	vm := &network.VertexModel{
		Dim: 1,
		F: func(dv, v buffer.View, in []buffer.View, p []float64, t float64) {
			acc := 0.0
			for _, e := range in {
				acc += e.At(0)
			}
			dv.Set(0, acc)
		},
	}
	em := &network.EdgeModel{
		Dim:      1,
		Coupling: coupling.Antisymmetric,
		F: func(out, src, dst buffer.View, p []float64, t float64) {
			out.Set(0, src.At(0)-dst.At(0))
		},
	}

	return vm, em
}

// TestEvaluate_Diffusion: on the path a—b—c, the right-hand side is the
// graph Laplacian du_i = Σ_j (u_j − u_i) over neighbors j.
func TestEvaluate_Diffusion(t *testing.T) {
	g := pathGraph(t)
	vm, em := diffusionModels()
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	u := []float64{1, 4, 9} // a, b, c
	du := make([]float64, 3)
	require.NoError(t, n.Evaluate(du, u, network.Params{}, 0))
	require.Equal(t, []float64{3, 2, -5}, du)
	require.Equal(t, []float64{1, 4, 9}, u, "state must not be written")
}

// TestEvaluate_ExtendedBuffer: a DimV+DimE state buffer is accepted in static
// mode and its edge region carries the computed edge values afterward; the
// vertex derivative is identical to the DimV-only call.
func TestEvaluate_ExtendedBuffer(t *testing.T) {
	g := pathGraph(t)
	vm, em := diffusionModels()
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	// Antisymmetric dim-1 edges occupy two components each: value toward the
	// destination first, its negation toward the source second.
	u := []float64{1, 4, 9, 0, 0, 0, 0}
	du := make([]float64, 7)
	require.NoError(t, n.Evaluate(du, u, network.Params{}, 0))
	require.Equal(t, []float64{3, 2, -5}, du[:3])
	require.Equal(t, []float64{-3, 3, -5, 5}, u[3:], "edge values exposed in the extended region")
}

// TestEvaluate_ShapeAndParamChecks: a wrong buffer or parameter shape is
// rejected before any model function runs.
func TestEvaluate_ShapeAndParamChecks(t *testing.T) {
	g := pathGraph(t)
	called := false
	vm := &network.VertexModel{
		Dim: 1,
		F: func(dv, v buffer.View, in []buffer.View, p []float64, t float64) {
			called = true
		},
	}
	em := &network.EdgeModel{
		Dim:      1,
		Coupling: coupling.Unspecified,
		F: func(out, src, dst buffer.View, p []float64, t float64) {
			called = true
		},
	}
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	du := make([]float64, 2)
	err = n.Evaluate(du, []float64{1, 2}, network.Params{}, 0) // DimV−1
	require.ErrorIs(t, err, network.ErrShapeMismatch)
	require.False(t, called, "no model function may run on a shape mismatch")

	err = n.Evaluate(make([]float64, 2), []float64{1, 2, 3}, network.Params{}, 0)
	require.ErrorIs(t, err, network.ErrShapeMismatch, "du must match u")
	require.False(t, called)

	err = n.Evaluate(make([]float64, 3), []float64{1, 2, 3},
		network.Params{Vertex: [][]float64{{1}}}, 0)
	require.ErrorIs(t, err, network.ErrIndexOutOfBounds, "one vertex slice for three vertices")
	require.False(t, called)

	err = n.Evaluate(make([]float64, 3), []float64{1, 2, 3},
		network.Params{Edge: [][]float64{{1}, {2}, {3}}}, 0)
	require.ErrorIs(t, err, network.ErrIndexOutOfBounds, "three edge slices for two edges")
	require.False(t, called)
}

// TestEvaluate_EdgeParams: per-edge parameter slices reach the right edge.
func TestEvaluate_EdgeParams(t *testing.T) {
	g := pathGraph(t)
	vm, _ := diffusionModels()
	em := &network.EdgeModel{
		Dim:      1,
		Coupling: coupling.Antisymmetric,
		F: func(out, src, dst buffer.View, p []float64, t float64) {
			out.Set(0, p[0]*(src.At(0)-dst.At(0)))
		},
	}
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	p := network.Params{Edge: [][]float64{{2}, {10}}} // e1=(a,b), e2=(b,c)
	du := make([]float64, 3)
	require.NoError(t, n.Evaluate(du, []float64{1, 4, 9}, p, 0))
	// a: 2*(4−1)=6; b: 2*(1−4)+10*(9−4)=44; c: 10*(4−9)=−50.
	require.Equal(t, []float64{6, 44, -50}, du)
}

// TestEvaluate_SymmetricCoupling: both halves of a symmetric edge carry the
// same value, so both endpoints observe it.
func TestEvaluate_SymmetricCoupling(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddEdge("x", "y", 0)
	require.NoError(t, err)

	vm, _ := diffusionModels()
	em := &network.EdgeModel{
		Dim:      1,
		Coupling: coupling.Symmetric,
		F: func(out, src, dst buffer.View, p []float64, t float64) {
			out.Set(0, src.At(0)+dst.At(0))
		},
	}
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	u := []float64{3, 5, 0, 0}
	du := make([]float64, 4)
	require.NoError(t, n.Evaluate(du, u, network.Params{}, 0))
	require.Equal(t, 8.0, u[2])
	require.Equal(t, 8.0, u[3])
	require.Equal(t, 8.0, du[0])
	require.Equal(t, 8.0, du[1])
}

// TestEvaluate_SineCouplingAttracts: an antisymmetric sine edge pulls two
// coupled phases together — forward-Euler integration closes an initial gap
// of 2 to zero. Pins the sign convention of the half-edge split: flipping
// either half would make the gap grow instead.
func TestEvaluate_SineCouplingAttracts(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddEdge("x", "y", 0)
	require.NoError(t, err)

	vm := &network.VertexModel{
		Dim: 1,
		F: func(dv, v buffer.View, in []buffer.View, p []float64, t float64) {
			acc := 0.0
			for _, e := range in {
				acc += e.At(0)
			}
			dv.Set(0, acc)
		},
	}
	em := &network.EdgeModel{
		Dim:      1,
		Coupling: coupling.Antisymmetric,
		F: func(out, src, dst buffer.View, p []float64, t float64) {
			out.Set(0, math.Sin(src.At(0)-dst.At(0)))
		},
	}
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	const dt = 0.05
	u := []float64{0, 2}
	du := make([]float64, 2)
	gap := math.Abs(u[1] - u[0])
	for s := 0; s < 400; s++ {
		require.NoError(t, n.Evaluate(du, u, network.Params{}, float64(s)*dt))
		u[0] += dt * du[0]
		u[1] += dt * du[1]

		next := math.Abs(u[1] - u[0])
		require.LessOrEqual(t, next, gap, "gap grew at step %d", s)
		gap = next
	}
	require.InDelta(t, 0, gap, 1e-6)
}

// TestEvaluate_DynamicEdges: directed two-arc network with one genuinely
// dynamic edge and one static edge promoted to algebraic form
// (de = f(...) − e).
func TestEvaluate_DynamicEdges(t *testing.T) {
	g := twoArcGraph(t)

	vm := &network.VertexModel{
		Dim: 1,
		F: func(dv, v buffer.View, in []buffer.View, p []float64, t float64) {
			acc := -v.At(0)
			for _, e := range in {
				acc += e.At(0)
			}
			dv.Set(0, acc)
		},
	}
	dyn := &network.EdgeModel{
		Dim: 1,
		FD: func(de, e, src, dst buffer.View, p []float64, t float64) {
			de.Set(0, src.At(0)-e.At(0))
		},
	}
	stat := &network.EdgeModel{
		Dim: 1,
		F: func(out, src, dst buffer.View, p []float64, t float64) {
			out.Set(0, src.At(0))
		},
	}

	n, err := network.New(g,
		[]*network.VertexModel{vm},
		[]*network.EdgeModel{dyn, stat}, // e1=a→b dynamic, e2=b→a promoted
	)
	require.NoError(t, err)
	require.True(t, n.HasDynamicEdges())

	// Dynamic mode accepts the full solver vector only.
	err = n.Evaluate(make([]float64, 2), []float64{1, 2}, network.Params{}, 0)
	require.ErrorIs(t, err, network.ErrShapeMismatch)

	u := []float64{2, 5, 7, 11} // a, b, e1, e2
	du := make([]float64, 4)
	require.NoError(t, n.Evaluate(du, u, network.Params{}, 0))

	// a sees e2 entering (11), b sees e1 (7); de1 = u_a − e1; de2 = u_b − e2.
	require.Equal(t, []float64{-2 + 11, -5 + 7, 2 - 7, 5 - 11}, du)
}

// TestEvaluate_DirectedVertex: a directed-aware vertex sees both directions.
func TestEvaluate_DirectedVertex(t *testing.T) {
	g := twoArcGraph(t)

	vm := &network.VertexModel{
		Dim: 1,
		FD: func(dv, v buffer.View, in, out []buffer.View, p []float64, t float64) {
			acc := 0.0
			for _, e := range in {
				acc += e.At(0)
			}
			for _, e := range out {
				acc -= e.At(0)
			}
			dv.Set(0, acc)
		},
	}
	em := &network.EdgeModel{
		Dim: 1,
		F: func(out, src, dst buffer.View, p []float64, t float64) {
			out.Set(0, src.At(0))
		},
	}
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	du := make([]float64, 2)
	require.NoError(t, n.Evaluate(du, []float64{3, 4}, network.Params{}, 0))
	// Edge values: e1 = u_a = 3, e2 = u_b = 4. a: in e2 − out e1 = 1; b: −1.
	require.Equal(t, []float64{1, -1}, du)
}

// TestEvaluate_ParallelMatchesSequential: on a directed wheel, chunked
// parallel evaluation produces exactly the sequential derivative.
func TestEvaluate_ParallelMatchesSequential(t *testing.T) {
	g, err := builder.BuildGraph(
		[]core.GraphOption{core.WithDirected(true)},
		nil,
		builder.Wheel(9),
	)
	require.NoError(t, err)

	build := func(workers int) *network.Network {
		vm, _ := diffusionModels()
		em := &network.EdgeModel{
			Dim: 1,
			F: func(out, src, dst buffer.View, p []float64, t float64) {
				out.Set(0, src.At(0)-dst.At(0))
			},
		}
		n, err := network.New(g,
			[]*network.VertexModel{vm},
			[]*network.EdgeModel{em},
			network.WithWorkers(workers),
		)
		require.NoError(t, err)

		return n
	}

	nv := g.VertexCount()
	u := make([]float64, nv)
	for i := range u {
		u[i] = float64(i*i) - 3
	}

	seq := make([]float64, nv)
	par := make([]float64, nv)
	require.NoError(t, build(1).Evaluate(seq, u, network.Params{}, 0.5))
	require.NoError(t, build(4).Evaluate(par, u, network.Params{}, 0.5))
	require.Equal(t, seq, par)
}

// TestEvaluateAt_History: history-aware models receive a Lookup rebased onto
// global state indices; Evaluate without a history function is rejected.
func TestEvaluateAt_History(t *testing.T) {
	g := pathGraph(t)

	var queried [][]int
	h := func(t float64, idx []int) []float64 {
		queried = append(queried, append([]int(nil), idx...))
		out := make([]float64, len(idx))
		for k, j := range idx {
			out[k] = float64(10 * j)
		}

		return out
	}

	vm := &network.VertexModel{
		Dim: 1,
		FH: func(dv, v buffer.View, in []buffer.View, past network.Lookup, p []float64, t float64) {
			dv.Set(0, past(t-1, []int{0})[0])
		},
	}
	em := staticEdgeModel(1, coupling.Unspecified)
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	du := make([]float64, 3)
	err = n.Evaluate(du, []float64{1, 2, 3}, network.Params{}, 0)
	require.ErrorIs(t, err, network.ErrNeedHistory)

	require.NoError(t, n.EvaluateAt(du, []float64{1, 2, 3}, network.Params{}, 2, h))
	// Local index 0 rebases to each vertex's own global base: 0, 1, 2.
	require.Equal(t, [][]int{{0}, {1}, {2}}, queried)
	require.Equal(t, []float64{0, 10, 20}, du)
}

// TestEvaluateAt_EdgeHistoryRebase: edge lookups rebase past DimV onto the
// edge's own global window, and out-of-range local indices panic.
func TestEvaluateAt_EdgeHistoryRebase(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddEdge("x", "y", 0)
	require.NoError(t, err)

	var queried [][]int
	h := func(t float64, idx []int) []float64 {
		queried = append(queried, append([]int(nil), idx...))

		return make([]float64, len(idx))
	}

	vm := plainVertexModel(1)
	em := &network.EdgeModel{
		Dim:      1,
		Coupling: coupling.Unspecified, // symmetrized to dim 2
		FH: func(out, src, dst buffer.View, past network.Lookup, p []float64, t float64) {
			out.Set(0, past(t-0.5, []int{0})[0])
		},
	}
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	du := make([]float64, 2)
	require.NoError(t, n.EvaluateAt(du, []float64{1, 2}, network.Params{}, 1, h))
	// DimV = 2, so the edge window starts at global index 2; both symmetrized
	// halves query through the same rebased lookup.
	require.Equal(t, [][]int{{2}, {2}}, queried)

	// A local index at or past the entity's dimension is a bounds violation.
	bad := &network.EdgeModel{
		Dim:      1,
		Coupling: coupling.Unspecified,
		FH: func(out, src, dst buffer.View, past network.Lookup, p []float64, t float64) {
			past(t, []int{5})
		},
	}
	nb, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{bad})
	require.NoError(t, err)
	require.PanicsWithValue(t, buffer.ErrIndexOutOfBounds, func() {
		_ = nb.EvaluateAt(du, []float64{1, 2}, network.Params{}, 0, h)
	})
}

// TestSnapshot: the returned views sit over independent storage with all
// static edge values materialized; later evaluations cannot disturb them.
func TestSnapshot(t *testing.T) {
	g := pathGraph(t)
	vm, em := diffusionModels()
	n, err := network.New(g, []*network.VertexModel{vm}, []*network.EdgeModel{em})
	require.NoError(t, err)

	u := []float64{1, 4, 9}
	snap, err := n.Snapshot(u, network.Params{}, 0)
	require.NoError(t, err)

	for i, want := range u {
		v, err := snap.Vertex(i)
		require.NoError(t, err)
		require.Equal(t, []float64{want}, v.Values())
	}
	e1, err := snap.Edge(0)
	require.NoError(t, err)
	require.Equal(t, []float64{-3, 3}, e1.Values(), "e1=(a,b): toward b first, mirror second")

	// A shape check still applies.
	_, err = n.Snapshot([]float64{1, 2}, network.Params{}, 0)
	require.ErrorIs(t, err, network.ErrShapeMismatch)

	// A live evaluation afterward must not leak into the snapshot.
	du := make([]float64, 3)
	require.NoError(t, n.Evaluate(du, []float64{100, 200, 300}, network.Params{}, 1))
	v0, err := snap.Vertex(0)
	require.NoError(t, err)
	require.Equal(t, []float64{1}, v0.Values())
	require.Equal(t, []float64{-3, 3}, e1.Values())
}
