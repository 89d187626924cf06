package factorization

import (
	"context"
	"fmt"

	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/region"
	"github.com/vk/factorgrid/internal/rules"
	"github.com/vk/factorgrid/internal/schedule"
)

// clusterAtKey indexes the global (node, edge) → cluster lookup.
type clusterAtKey struct {
	node *graph.FactorNode
	edge *graph.Edge
}

// Factorization owns all posterior factors of one graph, the cross-factor
// lookup tables built during target setting, and the free-energy counting
// tables built during Prepare.
type Factorization struct {
	graph *graph.Graph
	reg   *rules.Registry

	factors map[string]*Factor
	order   []string

	edgeToFactor map[*graph.Edge]*Factor
	clusterAt    map[clusterAtKey]*region.Cluster

	freeEnergy bool

	// Free-energy counting tables, populated by Prepare.
	energy      map[*graph.FactorNode]int
	energyOrder []*graph.FactorNode
	entropy     *region.Table
}

// New creates an empty factorization over the graph, for incremental
// construction via AddFactor.
func New(g *graph.Graph, reg *rules.Registry) *Factorization {
	return &Factorization{
		graph:        g,
		reg:          reg,
		factors:      make(map[string]*Factor),
		edgeToFactor: make(map[*graph.Edge]*Factor),
		clusterAt:    make(map[clusterAtKey]*region.Cluster),
	}
}

// FromGraph builds a factorization with a single posterior factor "q"
// covering every edge of the graph.
func FromGraph(ctx context.Context, g *graph.Graph, reg *rules.Registry) (*Factorization, error) {
	fz := New(g, reg)
	if _, err := fz.AddFactor(ctx, "q", g.Variables()...); err != nil {
		return nil, err
	}
	return fz, nil
}

// FromGroups builds a factorization with one posterior factor per variable
// group. The optional ids list names the factors; its length must equal the
// number of groups.
func FromGroups(ctx context.Context, g *graph.Graph, reg *rules.Registry, groups [][]*graph.Variable, ids []string) (*Factorization, error) {
	if ids != nil && len(ids) != len(groups) {
		return nil, fmt.Errorf("%w: %d ids for %d groups", ErrIDCount, len(ids), len(groups))
	}
	fz := New(g, reg)
	for i, group := range groups {
		id := fmt.Sprintf("q%d", i+1)
		if ids != nil {
			id = ids[i]
		}
		if _, err := fz.AddFactor(ctx, id, group...); err != nil {
			return nil, err
		}
	}
	return fz, nil
}

// AddFactor declares a posterior factor seeded by the given variables. Its
// internal edge set is the closure of the variables' edges through
// deterministic nodes; claiming an edge owned by another factor violates the
// partition invariant and fails immediately.
func (fz *Factorization) AddFactor(ctx context.Context, id string, vars ...*graph.Variable) (*Factor, error) {
	logger := ctxlog.FromContext(ctx)
	if _, exists := fz.factors[id]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateFactor, id)
	}

	seed := make([]*graph.Edge, 0, len(vars))
	for _, v := range vars {
		if got, ok := fz.graph.Variable(v.Name); !ok || got != v {
			return nil, fmt.Errorf("%w: '%s'", ErrForeignVariable, v.Name)
		}
		seed = append(seed, v.Edges...)
	}

	edges := extend(seed)
	f := &Factor{
		ID:         id,
		fz:         fz,
		Edges:      edges,
		edgeSet:    make(map[*graph.Edge]struct{}, len(edges)),
		targetVars: make(map[*graph.Variable]struct{}),
		clusters:   make(map[region.Key]*region.Cluster),
	}
	for _, e := range edges {
		if owner, claimed := fz.edgeToFactor[e]; claimed && owner != f {
			return nil, fmt.Errorf("%w: %s owned by '%s', claimed by '%s'", ErrEdgeClaimed, e, owner.ID, id)
		}
		fz.edgeToFactor[e] = f
		f.edgeSet[e] = struct{}{}
	}

	fz.factors[id] = f
	fz.order = append(fz.order, id)
	logger.Debug("Posterior factor added.", "id", id, "internal_edges", len(edges))
	return f, nil
}

// extend closes an edge set over deterministic nodes: if an included edge
// touches a delta factor, all of that node's edges join the set, so a
// deterministic chain never straddles a factor boundary.
func extend(seed []*graph.Edge) []*graph.Edge {
	var edges []*graph.Edge
	included := make(map[*graph.Edge]struct{})
	include := func(e *graph.Edge) {
		if _, ok := included[e]; !ok {
			included[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	for _, e := range seed {
		include(e)
	}
	for i := 0; i < len(edges); i++ {
		e := edges[i]
		for _, iface := range []*graph.Interface{e.A, e.B} {
			if iface == nil || !iface.Node.Deterministic() {
				continue
			}
			for _, ni := range iface.Node.Interfaces {
				include(ni.Edge)
			}
		}
	}
	return edges
}

// ByID looks up a posterior factor.
func (fz *Factorization) ByID(id string) (*Factor, bool) {
	f, ok := fz.factors[id]
	return f, ok
}

// Factors returns all posterior factors in insertion order.
func (fz *Factorization) Factors() []*Factor {
	out := make([]*Factor, len(fz.order))
	for i, id := range fz.order {
		out[i] = fz.factors[id]
	}
	return out
}

// Graph returns the underlying factor graph.
func (fz *Factorization) Graph() *graph.Graph { return fz.graph }

// FactorOf returns the posterior factor owning the edge.
func (fz *Factorization) FactorOf(e *graph.Edge) (*Factor, bool) {
	f, ok := fz.edgeToFactor[e]
	return f, ok
}

// ClusterAt resolves the cluster registered for (node, edge), if any.
func (fz *Factorization) ClusterAt(n *graph.FactorNode, e *graph.Edge) (*region.Cluster, bool) {
	c, ok := fz.clusterAt[clusterAtKey{node: n, edge: e}]
	return c, ok
}

// Degree returns the number of distinct posterior factors touching the edge:
// factors owning any edge incident to either of its endpoint nodes.
// Referencing an edge of a different graph is a configuration error.
func (fz *Factorization) Degree(e *graph.Edge) (int, error) {
	if !fz.graph.Owns(e) {
		return 0, fmt.Errorf("%w: %s", ErrForeignEdge, e)
	}
	seen := make(map[*Factor]struct{})
	for _, iface := range []*graph.Interface{e.A, e.B} {
		if iface == nil {
			continue
		}
		for _, ni := range iface.Node.Interfaces {
			if f, ok := fz.edgeToFactor[ni.Edge]; ok {
				seen[f] = struct{}{}
			}
		}
	}
	return len(seen), nil
}

// SetTargets runs target selection on every posterior factor with the same
// request. It must run after all factors have been added, so that external
// edges and degrees resolve against the complete partition.
func (fz *Factorization) SetTargets(ctx context.Context, req Request) error {
	if req.FreeEnergy {
		fz.freeEnergy = true
	}
	for _, f := range fz.Factors() {
		if err := f.SetTargets(ctx, req); err != nil {
			return fmt.Errorf("factor '%s': %w", f.ID, err)
		}
	}
	return nil
}

// Prepare computes the schedule of every posterior factor and, when free
// energy was requested, the factorization-wide counting tables. It is
// idempotent: already-prepared factors keep their schedule, which is
// re-validated rather than regenerated.
func (fz *Factorization) Prepare(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, f := range fz.Factors() {
		if f.prepared {
			if err := f.Schedule.Validate(); err != nil {
				return fmt.Errorf("factor '%s': %w", f.ID, err)
			}
			continue
		}
		sched, err := schedule.Generate(ctx, fz.reg, f, schedule.Targets{
			Variables: f.TargetVariables,
			Clusters:  f.TargetClusters,
			Breakers:  f.BreakerInterfaces,
		})
		if err != nil {
			return fmt.Errorf("factor '%s': %w", f.ID, err)
		}
		f.Schedule = sched
		f.prepared = true
		logger.Debug("Factor prepared.", "id", f.ID, "entries", len(sched))
	}

	if fz.freeEnergy && fz.entropy == nil {
		if err := fz.computeCountingNumbers(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (fz *Factorization) registerClusterAt(n *graph.FactorNode, e *graph.Edge, c *region.Cluster) {
	fz.clusterAt[clusterAtKey{node: n, edge: e}] = c
}
