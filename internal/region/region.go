// Package region models the marginal regions of a posterior factorization:
// single variables and clusters, i.e. joint regions of several edges at one
// node whose belief must be tracked together. It also provides the counting
// tables used for free-energy bookkeeping.
package region

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/factorgrid/internal/graph"
)

// Key identifies a region for map lookups. Two keys are equal exactly when
// they name the same variable, or the same node with the same edge set,
// regardless of the code path that discovered the region.
type Key struct {
	variable *graph.Variable
	node     *graph.FactorNode
	edgeSet  string
}

// VariableKey returns the region key for a single variable.
func VariableKey(v *graph.Variable) Key {
	return Key{variable: v}
}

// ClusterKey returns the region key for a joint region at a node. The edge
// order does not affect identity.
func ClusterKey(node *graph.FactorNode, edges []*graph.Edge) Key {
	return Key{node: node, edgeSet: fingerprint(edges)}
}

// String renders the key for diagnostics.
func (k Key) String() string {
	if k.variable != nil {
		return k.variable.Name
	}
	return fmt.Sprintf("%s{%s}", k.node.Name, k.edgeSet)
}

func fingerprint(edges []*graph.Edge) string {
	idx := make([]int, len(edges))
	for i, e := range edges {
		idx[i] = e.Index
	}
	sort.Ints(idx)
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

// Cluster is a concrete joint region: a factor node together with the
// ordered edges whose joint belief must be computed as one unit. Clusters
// are immutable after construction and unified by (node, edge-set) identity.
type Cluster struct {
	Node  *graph.FactorNode
	Edges []*graph.Edge

	id string
}

// NewCluster constructs a cluster over the given edges. A cluster over zero
// edges violates the region contract and is rejected.
func NewCluster(node *graph.FactorNode, edges []*graph.Edge) (*Cluster, error) {
	if node == nil {
		return nil, fmt.Errorf("region: cluster with no node")
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("region: cluster at '%s' spans zero edges", node.Name)
	}
	names := make([]string, len(edges))
	for i, e := range edges {
		names[i] = e.Variable.Name
	}
	return &Cluster{
		Node:  node,
		Edges: edges,
		id:    node.Name + "." + strings.Join(names, "_"),
	}, nil
}

// ID returns a stable human-readable identifier, e.g. "transition.x0_x1".
func (c *Cluster) ID() string { return c.id }

// Key returns the unification key for this cluster.
func (c *Cluster) Key() Key { return ClusterKey(c.Node, c.Edges) }

// Variables returns the distinct variables spanned by the cluster, in edge
// order.
func (c *Cluster) Variables() []*graph.Variable {
	seen := make(map[*graph.Variable]struct{}, len(c.Edges))
	var vars []*graph.Variable
	for _, e := range c.Edges {
		if _, ok := seen[e.Variable]; ok {
			continue
		}
		seen[e.Variable] = struct{}{}
		vars = append(vars, e.Variable)
	}
	return vars
}
