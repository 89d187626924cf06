package factorization

import (
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/region"
	"github.com/vk/factorgrid/internal/schedule"
)

// Factor is one posterior factor: a block of the structured factorization
// owning a subset of the graph's edges, its marginal targets and its
// generated schedule.
type Factor struct {
	// ID names the factor within its factorization.
	ID string

	// Edges is the factor's internal edge set, in discovery order.
	Edges []*graph.Edge

	// TargetVariables are the variables whose marginal this factor exposes.
	TargetVariables []*graph.Variable

	// TargetClusters are the joint regions this factor exposes.
	TargetClusters []*region.Cluster

	// BreakerInterfaces are the internal interfaces seeded with a vague
	// initial message during schedule generation.
	BreakerInterfaces []*graph.Interface

	// Schedule is the generated instruction list, computed by Prepare.
	Schedule schedule.Schedule

	// Counting is the target-selection counting table of the free-energy
	// pass, nil when free energy was not requested.
	Counting *region.Table

	fz         *Factorization
	edgeSet    map[*graph.Edge]struct{}
	targetVars map[*graph.Variable]struct{}
	clusters   map[region.Key]*region.Cluster
	prepared   bool
}

// InternalEdge reports whether the edge belongs to this factor. Together
// with ClusterAt it implements schedule.Scope.
func (f *Factor) InternalEdge(e *graph.Edge) bool {
	_, ok := f.edgeSet[e]
	return ok
}

// ClusterAt resolves a registered cluster across the whole factorization.
func (f *Factor) ClusterAt(n *graph.FactorNode, e *graph.Edge) (*region.Cluster, bool) {
	return f.fz.ClusterAt(n, e)
}

// nodes returns the factor nodes touching at least one internal edge, each
// once, in internal-edge discovery order.
func (f *Factor) nodes() []*graph.FactorNode {
	seen := make(map[*graph.FactorNode]struct{})
	var out []*graph.FactorNode
	for _, e := range f.Edges {
		for _, iface := range []*graph.Interface{e.A, e.B} {
			if iface == nil {
				continue
			}
			if _, ok := seen[iface.Node]; ok {
				continue
			}
			seen[iface.Node] = struct{}{}
			out = append(out, iface.Node)
		}
	}
	return out
}

// touchesExternal reports whether the node has an edge outside this factor.
func (f *Factor) touchesExternal(n *graph.FactorNode) bool {
	for _, iface := range n.Interfaces {
		if !f.InternalEdge(iface.Edge) {
			return true
		}
	}
	return false
}

// localStochasticEdges returns the node's internal edges whose far end is
// not pinned by a clamp. A dangling far end counts as stochastic.
func (f *Factor) localStochasticEdges(n *graph.FactorNode) []*graph.Edge {
	var out []*graph.Edge
	for _, iface := range n.Interfaces {
		e := iface.Edge
		if !f.InternalEdge(e) {
			continue
		}
		if far := iface.Partner(); far != nil && far.Node.Clamp() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// addTargetVariable records a marginal target, once.
func (f *Factor) addTargetVariable(v *graph.Variable) {
	if _, ok := f.targetVars[v]; ok {
		return
	}
	f.targetVars[v] = struct{}{}
	f.TargetVariables = append(f.TargetVariables, v)
}

// clusterCandidate materializes the joint-region candidate for (node,
// edges), unifying regions discovered through different passes into one
// Cluster object.
func (f *Factor) clusterCandidate(n *graph.FactorNode, edges []*graph.Edge) (*region.Cluster, error) {
	key := region.ClusterKey(n, edges)
	if c, ok := f.clusters[key]; ok {
		return c, nil
	}
	c, err := region.NewCluster(n, edges)
	if err != nil {
		return nil, err
	}
	f.clusters[key] = c
	f.TargetClusters = append(f.TargetClusters, c)
	return c, nil
}
