// Package dynet turns a lvlath graph into a fast right-hand side for
// ODE/DDE systems whose vertices and edges each carry a small state slice.
//
// 🚀 What is dynet?
//
//	A companion library to github.com/katalvlaran/lvlath that builds, from a
//	core.Graph plus per-entity dimensions, everything an external solver needs
//	to evaluate per-entity update functions over one shared flat state array:
//		• Offsets & ranges: cumulative layout per heterogeneous entity
//		• Swappable buffers: O(1) replacement, views never rebuilt
//		• Topology index: static offsets, endpoints, incident half-edges
//		• Coupling: symmetrization of undirected edge functions
//		• Dispatcher: grouped, optionally parallel, edge-then-vertex passes
//
// ✨ Why dynet?
//
//   - Zero-copy views – update functions write straight into solver storage
//   - Heterogeneous dimensions – every vertex/edge declares its own size
//   - Directed & undirected topologies – half-edge splitting with a coupling
//     policy (unspecified/symmetric/antisymmetric)
//   - Explicit configuration – worker counts are options, never globals
//   - Sentinel errors everywhere – nothing is recovered silently
//
// Under the hood, everything is organized into five subpackages:
//
//	layout/   — offset/range builder over dimension sequences
//	buffer/   — the swappable Holder and zero-copy View accessors
//	topology/ — the static index + precomputed view aggregate
//	coupling/ — coupling policies and edge symmetrization
//	network/  — models, evaluation dispatcher, mass matrix, state names
//
// Typical flow:
//
//	g := core.NewGraph()                         // lvlath graph
//	net, err := network.New(g, vms, ems, opts...)
//	// hand net.Evaluate to the solver; query net.MassMatrix(), net.StateNames()
//
// dynet performs no I/O, holds no global state, and never prescribes how to
// integrate — only how to evaluate the right-hand side efficiently.
//
//	go get github.com/katalvlaran/dynet
package dynet
