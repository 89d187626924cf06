package factorization

import (
	"context"
	"fmt"

	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/region"
)

// Request is the target-selection request handed to every posterior factor
// by the surrounding inference layer.
type Request struct {
	// TargetVariables are the externally requested marginals; each factor
	// adopts the ones with an edge inside it.
	TargetVariables []*graph.Variable

	// FreeEnergy requests the counting-number pass, adding every region the
	// free-energy objective needs.
	FreeEnergy bool

	// ExternalTargets requests the summaries other factors consume across
	// the factor boundary.
	ExternalTargets bool
}

// SetTargets populates the factor's target variables, target clusters and
// breaker interfaces for the given request. The three selection passes are
// additive; none removes previously added targets.
func (f *Factor) SetTargets(ctx context.Context, req Request) error {
	logger := ctxlog.FromContext(ctx)

	// Pass 1: user-requested variables with an edge inside this factor.
	for _, v := range req.TargetVariables {
		if f.hasInternalEdge(v) {
			f.addTargetVariable(v)
		}
	}

	// Pass 2: summaries consumed by other factors across the boundary.
	if req.ExternalTargets {
		if err := f.externalTargets(); err != nil {
			return err
		}
	}

	// Pass 3: regions the free-energy objective needs, via counting numbers.
	if req.FreeEnergy {
		if err := f.freeEnergyTargets(); err != nil {
			return err
		}
	}

	// Final scan: collect breaker interfaces and register the edge → factor
	// lookup used by cross-factor scheduling.
	breakers := make(map[*graph.Interface]struct{}, len(f.BreakerInterfaces))
	for _, iface := range f.BreakerInterfaces {
		breakers[iface] = struct{}{}
	}
	for _, e := range f.Edges {
		if owner, ok := f.fz.edgeToFactor[e]; ok && owner != f {
			return fmt.Errorf("%w: %s owned by '%s' and '%s'", ErrEdgeClaimed, e, owner.ID, f.ID)
		}
		f.fz.edgeToFactor[e] = f
		for _, iface := range []*graph.Interface{e.A, e.B} {
			if iface == nil || !iface.RequiresBreaker {
				continue
			}
			if _, ok := breakers[iface]; ok {
				continue
			}
			breakers[iface] = struct{}{}
			f.BreakerInterfaces = append(f.BreakerInterfaces, iface)
		}
	}

	// Register every cluster under each of its edges, so scheduling can
	// find the owning cluster from any member edge.
	for _, c := range f.TargetClusters {
		for _, e := range c.Edges {
			f.fz.registerClusterAt(c.Node, e, c)
		}
	}

	logger.Debug("Targets set.",
		"factor", f.ID,
		"variables", len(f.TargetVariables),
		"clusters", len(f.TargetClusters),
		"breakers", len(f.BreakerInterfaces),
	)
	return nil
}

func (f *Factor) hasInternalEdge(v *graph.Variable) bool {
	for _, e := range v.Edges {
		if f.InternalEdge(e) {
			return true
		}
	}
	return false
}

// externalTargets marks the summaries other factors need: for every
// stochastic node straddling the factor boundary, a single internal
// stochastic edge yields a variable marginal, several yield a joint region,
// since the neighboring factor consumes the joint belief over the node's
// local stochastic interfaces.
func (f *Factor) externalTargets() error {
	for _, n := range f.nodes() {
		if n.Deterministic() || n.Clamp() {
			continue
		}
		if !f.touchesExternal(n) {
			continue
		}
		local := f.localStochasticEdges(n)
		switch {
		case len(local) == 1:
			f.addTargetVariable(local[0].Variable)
		case len(local) > 1:
			if _, err := f.clusterCandidate(n, local); err != nil {
				return err
			}
		}
	}
	return nil
}

// freeEnergyTargets walks every node touching an internal edge and
// accumulates counting numbers over variables and joint regions; whatever
// ends with nonzero net multiplicity becomes a required target.
func (f *Factor) freeEnergyTargets() error {
	table := region.NewTable()

	for _, n := range f.nodes() {
		switch {
		case n.Clamp():
			// Constants contribute neither energy nor entropy.

		case n.Stochastic():
			// The average-energy term always needs the full node-local
			// marginal.
			local := f.localStochasticEdges(n)
			switch {
			case len(local) == 1:
				table.ForceVariable(local[0].Variable)
			case len(local) > 1:
				c, err := f.clusterCandidate(n, local)
				if err != nil {
					return err
				}
				table.ForceCluster(c)
			}

		case n.Kind.MarginalPreserving:
			// An equality node contributes one entropy term, carried by
			// its defining edge's variable.
			table.IncreaseVariable(n.Interfaces[0].Edge.Variable, 1)

		default:
			// Other delta factors: the output edge is accounted for by the
			// node producing it; the remaining local edges carry one term.
			var inbound []*graph.Edge
			for _, e := range f.localStochasticEdges(n) {
				if e != n.Interfaces[0].Edge {
					inbound = append(inbound, e)
				}
			}
			switch {
			case len(inbound) == 1:
				table.IncreaseVariable(inbound[0].Variable, 1)
			case len(inbound) > 1:
				c, err := f.clusterCandidate(n, inbound)
				if err != nil {
					return err
				}
				table.IncreaseCluster(c, 1)
			}
		}
	}

	// Discount shared variables: a marginal seen by several posterior
	// factors would otherwise be counted once per view.
	for _, e := range f.Edges {
		d, err := f.fz.Degree(e)
		if err != nil {
			return err
		}
		if d > 1 {
			table.IncreaseVariable(e.Variable, -(d - 1))
		}
	}

	for _, entry := range table.Required() {
		if entry.Variable != nil {
			f.addTargetVariable(entry.Variable)
		}
		// Cluster rows were materialized as candidates on discovery.
	}
	f.Counting = table
	return nil
}
