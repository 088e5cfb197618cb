package network

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/dynet/buffer"
	"github.com/katalvlaran/dynet/coupling"
)

// VertexFunc is a plain vertex update: write the vertex derivative into dv,
// given the vertex state v, the views over its entering edge values, the
// vertex's parameter slice and the current time.
type VertexFunc func(dv, v buffer.View, in []buffer.View, p []float64, t float64)

// DirectedVertexFunc is a directed-aware vertex update: like VertexFunc but
// additionally sees the leaving edge direction.
type DirectedVertexFunc func(dv, v buffer.View, in, out []buffer.View, p []float64, t float64)

// VertexHistoryFunc is a history-aware vertex update: it additionally
// receives a Lookup over past values of this vertex's own state range.
type VertexHistoryFunc func(dv, v buffer.View, in []buffer.View, past Lookup, p []float64, t float64)

// EdgeFunc is a static edge update: it writes the edge value (not a
// derivative) as seen from the destination endpoint. Alias of coupling.Func
// so models feed straight into the symmetrization preprocessor.
type EdgeFunc = coupling.Func

// DynamicEdgeFunc is a stateful edge update: the edge state e is part of the
// solver vector and the function writes its derivative into de.
type DynamicEdgeFunc func(de, e, src, dst buffer.View, p []float64, t float64)

// EdgeHistoryFunc is a history-aware static edge update.
type EdgeHistoryFunc func(out, src, dst buffer.View, past Lookup, p []float64, t float64)

// History is the externally supplied global history function: given a query
// time and global state indices (the layout StateNames describes), it
// returns the past values at those indices.
type History func(t float64, idx []int) []float64

// Lookup is the per-entity past-value accessor handed to history-aware
// models. Indices are local to the entity's state range; the dispatcher
// rebases them to global indices before delegating to the History function.
// A local index outside [0, dim) panics with buffer.ErrIndexOutOfBounds,
// mirroring view accessors.
type Lookup func(t float64, idx []int) []float64

// Params carries the global parameter object: one optional slice per vertex
// and per edge, indexed by entity. A nil outer slice means "no parameters"
// and every model receives nil; a non-nil outer slice must have exactly one
// entry per entity (pre-checked before any user function runs).
type Params struct {
	Vertex [][]float64
	Edge   [][]float64
}

// VertexModel declares one vertex kind: its state dimension and exactly one
// update function. Entities sharing a model pointer share one dispatch group.
type VertexModel struct {
	// Dim is the vertex state dimension (> 0).
	Dim int

	// Exactly one of F, FD, FH must be set.
	F  VertexFunc
	FD DirectedVertexFunc
	FH VertexHistoryFunc

	// Mass is the optional Dim×Dim mass-matrix block; nil means identity.
	Mass *mat.Dense

	// Names optionally labels the Dim state components; nil derives
	// "<vertexID>_<k>" labels from the graph.
	Names []string
}

// EdgeModel declares one edge kind. Dim is the single-direction dimension;
// on undirected graphs static kinds are symmetrized to 2*Dim according to
// Coupling before the topology index is built.
type EdgeModel struct {
	// Dim is the per-direction edge dimension (> 0).
	Dim int

	// Coupling governs symmetrization on undirected graphs; must be
	// Directed or Unspecified on directed graphs.
	Coupling coupling.Policy

	// Exactly one of F, FD, FH must be set. FD (dynamic edges) is
	// supported on directed graphs only.
	F  EdgeFunc
	FD DynamicEdgeFunc
	FH EdgeHistoryFunc

	// Mass is the optional Dim×Dim mass block; meaningful only for dynamic
	// edges (whose state joins the solver vector); nil means identity.
	Mass *mat.Dense

	// Names optionally labels the state components of a dynamic edge.
	Names []string
}

// Warning is a structured configuration diagnostic produced during assembly;
// presentation is left to the caller.
type Warning struct {
	// Option names the configuration knob that was adjusted.
	Option string
	// Message explains the adjustment.
	Message string
}
