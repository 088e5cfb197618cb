package coupling

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/dynet/buffer"
)

// Sentinel errors for coupling validation and symmetrization.
var (
	// ErrCoupling indicates a coupling policy that is invalid for the
	// directedness of the target graph.
	ErrCoupling = errors.New("coupling: policy incompatible with graph directedness")

	// ErrBadDim indicates a non-positive single-direction edge dimension.
	ErrBadDim = errors.New("coupling: dimension must be positive")

	// ErrNilFunc indicates a nil edge update function.
	ErrNilFunc = errors.New("coupling: nil edge function")
)

// Policy governs how an undirected edge's two halves relate.
type Policy uint8

const (
	// Unspecified re-invokes the edge function with swapped endpoints for
	// the second half. Only mathematically consistent when the function
	// depends on nothing beyond its two endpoint views.
	Unspecified Policy = iota
	// Symmetric copies the first half into the second without recomputing.
	Symmetric
	// Antisymmetric negates the first half into the second.
	Antisymmetric
	// Directed declares a one-way edge function; valid only on directed
	// graphs, where no symmetrization takes place.
	Directed
)

// String renders the policy name for error context.
func (p Policy) String() string {
	switch p {
	case Unspecified:
		return "unspecified"
	case Symmetric:
		return "symmetric"
	case Antisymmetric:
		return "antisymmetric"
	case Directed:
		return "directed"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// Func is a single-direction edge update function: it writes the edge value
// of dimension out.Len() as seen from the destination endpoint, given the
// source and destination vertex state views, the edge's parameter slice and
// the current time.
type Func func(out, src, dst buffer.View, p []float64, t float64)

// Validate reports whether pol may be used on a graph of the given
// directedness. Directed graphs accept Directed and Unspecified; undirected
// graphs accept everything except Directed.
func Validate(pol Policy, directed bool) error {
	if directed && (pol == Symmetric || pol == Antisymmetric) {
		return fmt.Errorf("Validate: %s on directed graph: %w", pol, ErrCoupling)
	}
	if !directed && pol == Directed {
		return fmt.Errorf("Validate: %s on undirected graph: %w", pol, ErrCoupling)
	}

	return nil
}

// Symmetrize rewrites f of dimension dim according to pol for a graph of the
// given directedness and returns the resulting function with its dimension.
//
// On directed graphs the function is returned unchanged (dimension dim).
// On undirected graphs the result has dimension 2*dim: the first half is
// f(src, dst, ...), the second half per package doc. Policy violations fail
// with ErrCoupling before any index could be built on the doubled dimension.
func Symmetrize(f Func, dim int, pol Policy, directed bool) (Func, int, error) {
	if f == nil {
		return nil, 0, fmt.Errorf("Symmetrize: %w", ErrNilFunc)
	}
	if dim <= 0 {
		return nil, 0, fmt.Errorf("Symmetrize: dim %d: %w", dim, ErrBadDim)
	}
	if err := Validate(pol, directed); err != nil {
		return nil, 0, fmt.Errorf("Symmetrize: %w", err)
	}
	if directed {
		return f, dim, nil
	}

	switch pol {
	case Unspecified:
		return func(out, src, dst buffer.View, p []float64, t float64) {
			first, second := halves(out, dim)
			f(first, src, dst, p, t)
			f(second, dst, src, p, t)
		}, 2 * dim, nil

	case Symmetric:
		return func(out, src, dst buffer.View, p []float64, t float64) {
			first, second := halves(out, dim)
			f(first, src, dst, p, t)
			for i := 0; i < dim; i++ {
				second.Set(i, first.At(i))
			}
		}, 2 * dim, nil

	case Antisymmetric:
		return func(out, src, dst buffer.View, p []float64, t float64) {
			first, second := halves(out, dim)
			f(first, src, dst, p, t)
			for i := 0; i < dim; i++ {
				second.Set(i, -first.At(i))
			}
		}, 2 * dim, nil

	default: // Directed was rejected by Validate; anything else is unknown.
		return nil, 0, fmt.Errorf("Symmetrize: %s: %w", pol, ErrCoupling)
	}
}

// halves splits a 2*dim output view into its directional halves. The
// dispatcher always supplies a view of exactly 2*dim, so a failing Sub is a
// bounds violation and surfaces as the same panic At/Set would raise.
func halves(out buffer.View, dim int) (first, second buffer.View) {
	first, err := out.Sub(0, dim)
	if err != nil {
		panic(buffer.ErrIndexOutOfBounds)
	}
	second, err = out.Sub(dim, 2*dim)
	if err != nil {
		panic(buffer.ErrIndexOutOfBounds)
	}

	return first, second
}
