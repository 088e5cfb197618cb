package coupling_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dynet/buffer"
	"github.com/katalvlaran/dynet/coupling"
)

// edgeFixture wires a 2*dim output view plus src/dst vertex views over small
// holders, returning the views and the backing arrays.
func edgeFixture(t *testing.T, dim int, srcVals, dstVals []float64) (out, src, dst buffer.View, eArr []float64) {
	t.Helper()
	h := buffer.NewHolder(len(srcVals)+len(dstVals), 2*dim)
	vArr := append(append([]float64{}, srcVals...), dstVals...)
	require.NoError(t, h.Install(buffer.VertexState, vArr))
	eArr = make([]float64, 2*dim)
	require.NoError(t, h.Install(buffer.EdgeState, eArr))

	var err error
	out, err = h.View(buffer.EdgeState, 0, 2*dim)
	require.NoError(t, err)
	src, err = h.View(buffer.VertexState, 0, len(srcVals))
	require.NoError(t, err)
	dst, err = h.View(buffer.VertexState, len(srcVals), len(dstVals))
	require.NoError(t, err)

	return out, src, dst, eArr
}

// diff is a deliberately asymmetric single-direction function: out_i = dst_i - 2*src_i.
func diff(out, src, dst buffer.View, _ []float64, _ float64) {
	for i := 0; i < out.Len(); i++ {
		out.Set(i, dst.At(i)-2*src.At(i))
	}
}

// TestSymmetrize_UnspecifiedSwapsEndpoints pins the documented assumption:
// the second half is f re-invoked with endpoints swapped, which is only
// consistent because diff reads nothing beyond its two endpoint views.
func TestSymmetrize_UnspecifiedSwapsEndpoints(t *testing.T) {
	g, dim2, err := coupling.Symmetrize(diff, 2, coupling.Unspecified, false)
	require.NoError(t, err)
	require.Equal(t, 4, dim2)

	out, src, dst, eArr := edgeFixture(t, 2, []float64{1, 2}, []float64{10, 20})
	g(out, src, dst, nil, 0)

	// First half: dst - 2*src; second half: src - 2*dst.
	require.Equal(t, []float64{8, 16, -19, -38}, eArr)
}

// TestSymmetrize_Antisymmetric guarantees out[d..2d) == -out[0..d).
func TestSymmetrize_Antisymmetric(t *testing.T) {
	g, dim2, err := coupling.Symmetrize(diff, 2, coupling.Antisymmetric, false)
	require.NoError(t, err)
	require.Equal(t, 4, dim2)

	out, src, dst, eArr := edgeFixture(t, 2, []float64{1, 2}, []float64{10, 20})
	g(out, src, dst, nil, 0)

	require.Equal(t, []float64{8, 16, -8, -16}, eArr)
}

// TestSymmetrize_SymmetricCopies guarantees equality of the two halves. The
// copy is not recomputed: a counting function runs exactly once.
func TestSymmetrize_SymmetricCopies(t *testing.T) {
	calls := 0
	counted := func(out, src, dst buffer.View, p []float64, tm float64) {
		calls++
		diff(out, src, dst, p, tm)
	}
	g, dim2, err := coupling.Symmetrize(counted, 2, coupling.Symmetric, false)
	require.NoError(t, err)
	require.Equal(t, 4, dim2)

	out, src, dst, eArr := edgeFixture(t, 2, []float64{1, 2}, []float64{10, 20})
	g(out, src, dst, nil, 0)

	require.Equal(t, []float64{8, 16, 8, 16}, eArr)
	require.Equal(t, 1, calls)
}

// TestSymmetrize_DirectedGraphIdentity: on a directed graph the function and
// dimension pass through untouched for Directed/Unspecified policies.
func TestSymmetrize_DirectedGraphIdentity(t *testing.T) {
	for _, pol := range []coupling.Policy{coupling.Directed, coupling.Unspecified} {
		g, dim, err := coupling.Symmetrize(diff, 3, pol, true)
		require.NoError(t, err, pol.String())
		require.Equal(t, 3, dim)
		require.NotNil(t, g)
	}
}

// TestSymmetrize_PolicyRejections covers both directions of CouplingError.
func TestSymmetrize_PolicyRejections(t *testing.T) {
	cases := []struct {
		name     string
		pol      coupling.Policy
		directed bool
	}{
		{"DirectedOnUndirected", coupling.Directed, false},
		{"SymmetricOnDirected", coupling.Symmetric, true},
		{"AntisymmetricOnDirected", coupling.Antisymmetric, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := coupling.Symmetrize(diff, 2, tc.pol, tc.directed)
			if !errors.Is(err, coupling.ErrCoupling) {
				t.Errorf("Symmetrize error = %v; want ErrCoupling", err)
			}
			if err := coupling.Validate(tc.pol, tc.directed); !errors.Is(err, coupling.ErrCoupling) {
				t.Errorf("Validate error = %v; want ErrCoupling", err)
			}
		})
	}
}

// TestSymmetrize_UnknownPolicy: a policy constant outside the declared set is
// rejected with ErrCoupling rather than falling through to any symmetrization
// branch.
func TestSymmetrize_UnknownPolicy(t *testing.T) {
	if _, _, err := coupling.Symmetrize(diff, 2, coupling.Policy(99), false); !errors.Is(err, coupling.ErrCoupling) {
		t.Errorf("unknown policy error = %v; want ErrCoupling", err)
	}
}

// TestSymmetrize_InputValidation rejects nil functions and bad dimensions.
func TestSymmetrize_InputValidation(t *testing.T) {
	if _, _, err := coupling.Symmetrize(nil, 2, coupling.Unspecified, false); !errors.Is(err, coupling.ErrNilFunc) {
		t.Errorf("nil func error = %v; want ErrNilFunc", err)
	}
	for _, d := range []int{0, -1} {
		if _, _, err := coupling.Symmetrize(diff, d, coupling.Unspecified, false); !errors.Is(err, coupling.ErrBadDim) {
			t.Errorf("dim %d error = %v; want ErrBadDim", d, err)
		}
	}
}
