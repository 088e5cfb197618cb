package network

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/lvlath/core"

	"github.com/katalvlaran/dynet/buffer"
	"github.com/katalvlaran/dynet/coupling"
	"github.com/katalvlaran/dynet/topology"
)

// vertexKind tags the closed set of vertex update-function variants.
type vertexKind uint8

const (
	vertexPlain vertexKind = iota
	vertexDirected
	vertexHistory
)

// edgeKind tags the closed set of edge update-function variants.
type edgeKind uint8

const (
	edgeStatic edgeKind = iota
	edgeDynamic
	edgeHistory
)

// vertexGroup collects the vertices sharing one model. Grouping happens once
// at assembly so the hot loop performs no type tests.
type vertexGroup struct {
	model *VertexModel
	kind  vertexKind
	idx   []int // vertex indices, enumeration order
}

// edgeGroup collects the edges sharing one model, with the resolved
// (symmetrized or promoted) function and post-symmetrization dimension.
type edgeGroup struct {
	model    *EdgeModel
	kind     edgeKind
	dim      int // dimension after symmetrization
	f        EdgeFunc
	fd       DynamicEdgeFunc
	fh       EdgeHistoryFunc
	zeroMass bool // promoted static edge: algebraic constraint, zero block
	idx      []int
}

// Network is the assembled evaluation dispatcher. Immutable after New except
// for the buffer holders, which are re-pointed at the start of each call.
type Network struct {
	topo    *topology.Index
	holder  *buffer.Holder // state buffers (vertex + edge)
	dHolder *buffer.Holder // derivative targets
	views   *topology.Views
	dViews  *topology.Views

	// Per-entity view tables resolved once from the aggregates; every view
	// tracks its holder, so these stay correct across installs.
	vView, eView     []buffer.View
	srcView, dstView []buffer.View
	dvView, deView   []buffer.View
	inView, outView  [][]buffer.View

	vBase, eBase []int // global history index base per entity

	vertexGroups []*vertexGroup
	edgeGroups   []*edgeGroup
	perVertex    []*vertexGroup // entity → group, for mass/name assembly
	perEdge      []*edgeGroup

	needsHistory bool
	dynamicEdges bool

	names    []string
	workers  int
	warnings []Warning

	scratch sync.Pool // transient edge regions for DimV-only state buffers
}

// New assembles a Network over g. vms and ems supply one model per entity in
// enumeration order, or a single model broadcast to all entities of that
// class; entities sharing a model pointer share one dispatch group.
//
// Assembly validates everything eagerly (sentinels ErrConstruction,
// coupling.ErrCoupling, topology.ErrShapeMismatch) so that no partially
// usable network escapes. Complexity: O(V + E).
func New(g *core.Graph, vms []*VertexModel, ems []*EdgeModel, opts ...Option) (*Network, error) {
	if g == nil {
		return nil, fmt.Errorf("New: %w", ErrNilGraph)
	}
	cfg := newConfig(opts...)

	nv, ne := g.VertexCount(), g.EdgeCount()
	if nv == 0 {
		return nil, fmt.Errorf("New: graph has no vertices: %w", ErrConstruction)
	}
	directed := g.Directed()

	n := &Network{
		workers:  cfg.workers,
		warnings: cfg.warnings,
	}

	perVertexModel, err := broadcast(vms, nv, "vertex")
	if err != nil {
		return nil, err
	}
	perEdgeModel, err := broadcast(ems, ne, "edge")
	if err != nil {
		return nil, err
	}

	if err := n.groupEdges(perEdgeModel, directed); err != nil {
		return nil, err
	}
	if err := n.groupVertices(perVertexModel); err != nil {
		return nil, err
	}

	// Capability flags select exactly one of three fixed assembly paths:
	// plain, history, or dynamic. The combinations are decided here, once,
	// instead of through dispatch-time promotion.
	if n.needsHistory && n.dynamicEdges {
		return nil, fmt.Errorf("New: history models combined with dynamic edges: %w", ErrConstruction)
	}
	if n.dynamicEdges {
		n.promoteStaticEdges()
	}

	vDims := make([]int, nv)
	for i, grp := range n.perVertex {
		vDims[i] = grp.model.Dim
	}
	eDims := make([]int, ne)
	for e, grp := range n.perEdge {
		eDims[e] = grp.dim
	}

	topo, err := topology.New(g, vDims, eDims)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	n.topo = topo

	n.holder = buffer.NewHolder(topo.DimV(), topo.DimE())
	n.dHolder = buffer.NewHolder(topo.DimV(), topo.DimE())
	if n.views, err = topology.NewViews(topo, n.holder); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	if n.dViews, err = topology.NewViews(topo, n.dHolder); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	if err = n.cacheViews(); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	n.buildNames()

	dimE := topo.DimE()
	n.scratch.New = func() interface{} { return make([]float64, dimE) }

	return n, nil
}

// broadcast resolves a model slice to one entry per entity: either a single
// model shared by all, or exactly count models in enumeration order.
func broadcast[M any](models []*M, count int, class string) ([]*M, error) {
	switch {
	case count == 0 && len(models) == 0:
		return nil, nil
	case len(models) == 1:
		if models[0] == nil {
			return nil, fmt.Errorf("New: nil %s model: %w", class, ErrConstruction)
		}
		out := make([]*M, count)
		for i := range out {
			out[i] = models[0]
		}

		return out, nil
	case len(models) == count:
		for i, m := range models {
			if m == nil {
				return nil, fmt.Errorf("New: nil %s model at %d: %w", class, i, ErrConstruction)
			}
		}

		return models, nil
	default:
		return nil, fmt.Errorf("New: %d %s models for %d entities: %w", len(models), class, count, ErrConstruction)
	}
}

// groupEdges partitions edges by model pointer identity and resolves each
// group's kind, symmetrized function and post-symmetrization dimension.
func (n *Network) groupEdges(perEdge []*EdgeModel, directed bool) error {
	n.perEdge = make([]*edgeGroup, len(perEdge))
	byModel := make(map[*EdgeModel]*edgeGroup, len(perEdge))

	for e, m := range perEdge {
		grp, seen := byModel[m]
		if !seen {
			var err error
			if grp, err = newEdgeGroup(m, directed); err != nil {
				return fmt.Errorf("New: edge model (first at edge %d): %w", e, err)
			}
			byModel[m] = grp
			n.edgeGroups = append(n.edgeGroups, grp)
			switch grp.kind {
			case edgeDynamic:
				n.dynamicEdges = true
			case edgeHistory:
				n.needsHistory = true
			}
		}
		grp.idx = append(grp.idx, e)
		n.perEdge[e] = grp
	}

	return nil
}

// newEdgeGroup validates one edge model and resolves its dispatch form.
func newEdgeGroup(m *EdgeModel, directed bool) (*edgeGroup, error) {
	if m.Dim <= 0 {
		return nil, fmt.Errorf("dim %d: %w", m.Dim, ErrConstruction)
	}
	set := 0
	for _, ok := range []bool{m.F != nil, m.FD != nil, m.FH != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of F/FD/FH must be set: %w", ErrConstruction)
	}

	grp := &edgeGroup{model: m}
	switch {
	case m.F != nil:
		grp.kind = edgeStatic
		f, dim, err := coupling.Symmetrize(m.F, m.Dim, m.Coupling, directed)
		if err != nil {
			return nil, err
		}
		grp.f, grp.dim = f, dim

	case m.FH != nil:
		grp.kind = edgeHistory
		fh, dim, err := symmetrizeHistory(m.FH, m.Dim, m.Coupling, directed)
		if err != nil {
			return nil, err
		}
		grp.fh, grp.dim = fh, dim

	default:
		grp.kind = edgeDynamic
		if !directed {
			return nil, fmt.Errorf("dynamic edge on undirected graph: %w", coupling.ErrCoupling)
		}
		if err := coupling.Validate(m.Coupling, directed); err != nil {
			return nil, err
		}
		grp.fd, grp.dim = m.FD, m.Dim
	}

	// Mass blocks and names belong to solver state, which only dynamic
	// edges occupy.
	if m.Mass != nil {
		if grp.kind != edgeDynamic {
			return nil, fmt.Errorf("mass block on a non-dynamic edge model: %w", ErrConstruction)
		}
		if r, c := m.Mass.Dims(); r != m.Dim || c != m.Dim {
			return nil, fmt.Errorf("mass block %dx%d for dim %d: %w", r, c, m.Dim, ErrConstruction)
		}
	}
	if m.Names != nil {
		if grp.kind != edgeDynamic {
			return nil, fmt.Errorf("state names on a non-dynamic edge model: %w", ErrConstruction)
		}
		if len(m.Names) != m.Dim {
			return nil, fmt.Errorf("%d names for dim %d: %w", len(m.Names), m.Dim, ErrConstruction)
		}
	}

	return grp, nil
}

// groupVertices partitions vertices by model pointer identity.
func (n *Network) groupVertices(perVertex []*VertexModel) error {
	n.perVertex = make([]*vertexGroup, len(perVertex))
	byModel := make(map[*VertexModel]*vertexGroup, len(perVertex))

	for i, m := range perVertex {
		grp, seen := byModel[m]
		if !seen {
			var err error
			if grp, err = newVertexGroup(m); err != nil {
				return fmt.Errorf("New: vertex model (first at vertex %d): %w", i, err)
			}
			byModel[m] = grp
			n.vertexGroups = append(n.vertexGroups, grp)
			if grp.kind == vertexHistory {
				n.needsHistory = true
			}
		}
		grp.idx = append(grp.idx, i)
		n.perVertex[i] = grp
	}

	return nil
}

// newVertexGroup validates one vertex model and resolves its kind.
func newVertexGroup(m *VertexModel) (*vertexGroup, error) {
	if m.Dim <= 0 {
		return nil, fmt.Errorf("dim %d: %w", m.Dim, ErrConstruction)
	}
	set := 0
	for _, ok := range []bool{m.F != nil, m.FD != nil, m.FH != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of F/FD/FH must be set: %w", ErrConstruction)
	}
	if m.Mass != nil {
		if r, c := m.Mass.Dims(); r != m.Dim || c != m.Dim {
			return nil, fmt.Errorf("mass block %dx%d for dim %d: %w", r, c, m.Dim, ErrConstruction)
		}
	}
	if m.Names != nil && len(m.Names) != m.Dim {
		return nil, fmt.Errorf("%d names for dim %d: %w", len(m.Names), m.Dim, ErrConstruction)
	}

	grp := &vertexGroup{model: m}
	switch {
	case m.F != nil:
		grp.kind = vertexPlain
	case m.FD != nil:
		grp.kind = vertexDirected
	default:
		grp.kind = vertexHistory
	}

	return grp, nil
}

// promoteStaticEdges rewrites every static edge group into algebraic dynamic
// form once any edge is dynamic: the derivative slot carries f(...) − e and
// the mass block is zero, so the solver treats the edge value as a
// constraint. Runs once at assembly; the dispatcher never promotes.
func (n *Network) promoteStaticEdges() {
	for _, grp := range n.edgeGroups {
		if grp.kind != edgeStatic {
			continue
		}
		f := grp.f
		grp.fd = func(de, e, src, dst buffer.View, p []float64, t float64) {
			f(de, src, dst, p, t)
			for i := 0; i < de.Len(); i++ {
				de.Set(i, de.At(i)-e.At(i))
			}
		}
		grp.f = nil
		grp.kind = edgeDynamic
		grp.zeroMass = true
	}
}

// symmetrizeHistory mirrors coupling.Symmetrize for history-aware edge
// functions, threading the past-value lookup through both halves.
func symmetrizeHistory(f EdgeHistoryFunc, dim int, pol coupling.Policy, directed bool) (EdgeHistoryFunc, int, error) {
	if dim <= 0 {
		return nil, 0, fmt.Errorf("symmetrizeHistory: dim %d: %w", dim, coupling.ErrBadDim)
	}
	if err := coupling.Validate(pol, directed); err != nil {
		return nil, 0, err
	}
	if directed {
		return f, dim, nil
	}

	switch pol {
	case coupling.Unspecified:
		return func(out, src, dst buffer.View, past Lookup, p []float64, t float64) {
			first, second := splitHalves(out, dim)
			f(first, src, dst, past, p, t)
			f(second, dst, src, past, p, t)
		}, 2 * dim, nil

	case coupling.Symmetric:
		return func(out, src, dst buffer.View, past Lookup, p []float64, t float64) {
			first, second := splitHalves(out, dim)
			f(first, src, dst, past, p, t)
			for i := 0; i < dim; i++ {
				second.Set(i, first.At(i))
			}
		}, 2 * dim, nil

	case coupling.Antisymmetric:
		return func(out, src, dst buffer.View, past Lookup, p []float64, t float64) {
			first, second := splitHalves(out, dim)
			f(first, src, dst, past, p, t)
			for i := 0; i < dim; i++ {
				second.Set(i, -first.At(i))
			}
		}, 2 * dim, nil

	default: // Directed was rejected by Validate; anything else is unknown.
		return nil, 0, fmt.Errorf("symmetrizeHistory: %s: %w", pol, coupling.ErrCoupling)
	}
}

// splitHalves splits a 2*dim output view; the dispatcher guarantees the
// window, so a failure is a bounds violation like any other.
func splitHalves(out buffer.View, dim int) (first, second buffer.View) {
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

// cacheViews resolves every aggregate lookup once into flat tables. Views
// resolve through their holder on access, so the tables never go stale.
func (n *Network) cacheViews() error {
	nv, ne := n.topo.NumVertices(), n.topo.NumEdges()
	n.vView = make([]buffer.View, nv)
	n.dvView = make([]buffer.View, nv)
	n.inView = make([][]buffer.View, nv)
	n.outView = make([][]buffer.View, nv)
	n.vBase = make([]int, nv)
	n.eView = make([]buffer.View, ne)
	n.deView = make([]buffer.View, ne)
	n.srcView = make([]buffer.View, ne)
	n.dstView = make([]buffer.View, ne)
	n.eBase = make([]int, ne)

	for i := 0; i < nv; i++ {
		var err error
		if n.vView[i], err = n.views.Vertex(i); err != nil {
			return err
		}
		if n.dvView[i], err = n.dViews.Vertex(i); err != nil {
			return err
		}
		if n.inView[i], err = n.views.VertexInEdges(i); err != nil {
			return err
		}
		if n.outView[i], err = n.views.VertexOutEdges(i); err != nil {
			return err
		}
		r, err := n.topo.VertexRange(i)
		if err != nil {
			return err
		}
		n.vBase[i] = r.Start
	}
	for e := 0; e < ne; e++ {
		var err error
		if n.eView[e], err = n.views.Edge(e); err != nil {
			return err
		}
		if n.deView[e], err = n.dViews.Edge(e); err != nil {
			return err
		}
		if n.srcView[e], err = n.views.EdgeSource(e); err != nil {
			return err
		}
		if n.dstView[e], err = n.views.EdgeDest(e); err != nil {
			return err
		}
		r, err := n.topo.EdgeRange(e)
		if err != nil {
			return err
		}
		n.eBase[e] = n.topo.DimV() + r.Start
	}

	return nil
}

// Topology returns the static index the network was assembled over.
func (n *Network) Topology() *topology.Index { return n.topo }

// HasDynamicEdges reports whether edge state is part of the solver vector.
func (n *Network) HasDynamicEdges() bool { return n.dynamicEdges }

// NeedsHistory reports whether any assembled model is history-aware.
func (n *Network) NeedsHistory() bool { return n.needsHistory }

// Warnings returns the structured configuration diagnostics collected during
// assembly; presentation is the caller's concern.
func (n *Network) Warnings() []Warning {
	out := make([]Warning, len(n.warnings))
	copy(out, n.warnings)

	return out
}
