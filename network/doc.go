// Package network assembles per-entity update functions over a lvlath graph
// into a single right-hand-side callable for an external ODE/DDE solver.
//
// A Network is built once from a core.Graph plus one model per vertex and per
// edge (or a single model broadcast to all entities). Assembly symmetrizes
// undirected edge functions (see coupling), builds the static topology index
// and two view aggregates — one over the state buffers, one over the
// derivative targets — and groups entities by model identity so the hot loop
// never re-resolves function kinds.
//
// On every solver callback Evaluate installs the solver's own state and
// derivative storage into the buffer holders (the only per-call mutation),
// then runs all edge groups to completion before any vertex group starts —
// vertex updates read edge outputs. Within a group, entities write disjoint
// derivative ranges, so the entity loop may run as parallel contiguous chunks
// (WithWorkers); across the edge and vertex passes there is a barrier and
// nothing else.
//
// Model kinds form a closed set, resolved once at assembly:
//
//	vertex: plain (F), directed-aware (FD, sees both edge directions),
//	        history-aware (FH, receives a rebased past-value lookup)
//	edge:   static (F, computes the edge value), dynamic (FD, edge state is
//	        part of the solver vector), history-aware static (FH)
//
// Two capability flags — needsHistory and hasDynamicEdge — select exactly one
// of three fixed assembly paths (plain, history, dynamic); mixing dynamic
// edges with history models is rejected at construction. When any edge is
// dynamic, static edge models are promoted once, at assembly, into algebraic
// form (derivative slot = f(...) − e with a zero mass block).
//
// Beyond the callable, a Network exposes what a solver-side assembler needs:
// the block-diagonal mass matrix (gonum mat.Dense, identity blocks by
// default), the flat state-name list (vertices first, then edges when
// dynamic), an order-preserving substring lookup over those names, and a
// read-only view-aggregate snapshot for inspection.
package network
