package factorization

import (
	"context"

	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/region"
)

// computeCountingNumbers builds the factorization-wide free-energy tables:
// one average-energy term per stochastic node, and entropy multiplicities
// over node-local regions with per-variable discounts so that shared
// variables are not double-counted.
func (fz *Factorization) computeCountingNumbers(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	fz.energy = make(map[*graph.FactorNode]int)
	fz.entropy = region.NewTable()

	views := make(map[*graph.Variable]int)

	for _, n := range fz.graph.Nodes() {
		if !n.Stochastic() {
			continue
		}
		fz.energy[n]++
		fz.energyOrder = append(fz.energyOrder, n)

		local := stochasticEdges(n)
		switch {
		case len(local) == 1:
			fz.entropy.IncreaseVariable(local[0].Variable, 1)
			views[local[0].Variable]++
		case len(local) > 1:
			c, err := fz.nodeLocalCluster(n, local)
			if err != nil {
				return err
			}
			fz.entropy.IncreaseCluster(c, 1)
			for _, v := range c.Variables() {
				views[v]++
			}
		}
	}

	for _, v := range fz.graph.Variables() {
		if d := views[v]; d > 1 {
			fz.entropy.IncreaseVariable(v, -(d - 1))
		}
	}

	logger.Debug("Counting numbers computed.",
		"energy_terms", len(fz.energyOrder),
		"entropy_regions", len(fz.entropy.Entries()),
	)
	return nil
}

// nodeLocalCluster reuses a cluster registered during target selection when
// one covers the same region, keeping region identity unified across the
// free-energy and target code paths.
func (fz *Factorization) nodeLocalCluster(n *graph.FactorNode, edges []*graph.Edge) (*region.Cluster, error) {
	for _, e := range edges {
		if c, ok := fz.ClusterAt(n, e); ok && c.Key() == region.ClusterKey(n, edges) {
			return c, nil
		}
	}
	return region.NewCluster(n, edges)
}

// stochasticEdges returns all edges of the node whose far end is not pinned
// by a clamp, regardless of factor boundaries.
func stochasticEdges(n *graph.FactorNode) []*graph.Edge {
	var out []*graph.Edge
	for _, iface := range n.Interfaces {
		if far := iface.Partner(); far != nil && far.Node.Clamp() {
			continue
		}
		out = append(out, iface.Edge)
	}
	return out
}

// EnergyCount returns the average-energy multiplicity of a node.
func (fz *Factorization) EnergyCount(n *graph.FactorNode) int {
	return fz.energy[n]
}

// EnergyNodes returns the nodes carrying energy terms, in graph order.
func (fz *Factorization) EnergyNodes() []*graph.FactorNode {
	return fz.energyOrder
}

// EntropyTable returns the entropy counting table, nil before Prepare or
// when free energy was not requested.
func (fz *Factorization) EntropyTable() *region.Table {
	return fz.entropy
}

// EntropyMultiplicity returns the net multiplicity with which the variable
// appears across entropy regions. On a fully covered tree-structured graph
// this is exactly 1 for every stochastic variable.
func (fz *Factorization) EntropyMultiplicity(v *graph.Variable) int {
	if fz.entropy == nil {
		return 0
	}
	total := 0
	for _, entry := range fz.entropy.Entries() {
		switch {
		case entry.Variable == v:
			total += entry.Counting.Multiplicity()
		case entry.Cluster != nil:
			for _, cv := range entry.Cluster.Variables() {
				if cv == v {
					total += entry.Counting.Multiplicity()
				}
			}
		}
	}
	return total
}
