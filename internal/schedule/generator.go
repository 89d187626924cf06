package schedule

import (
	"context"
	"fmt"

	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/region"
	"github.com/vk/factorgrid/internal/rules"
)

// Scope is the posterior-factor view the generator walks against. It is
// implemented by factorization.Factor.
type Scope interface {
	// InternalEdge reports whether the edge belongs to the factor.
	InternalEdge(e *graph.Edge) bool

	// ClusterAt resolves the cluster registered for (node, edge) across
	// the whole factorization, if any.
	ClusterAt(n *graph.FactorNode, e *graph.Edge) (*region.Cluster, bool)
}

// Targets is the set of roots the dependency walk starts from.
type Targets struct {
	Variables []*graph.Variable
	Clusters  []*region.Cluster
	Breakers  []*graph.Interface
}

// generator carries the walk state for one Generate call.
type generator struct {
	reg   *rules.Registry
	scope Scope

	messages  map[*graph.Interface]*Entry
	marginals map[region.Key]*Entry
	visiting  map[*graph.Interface]bool
	entries   []*Entry
}

// Generate produces a schedule covering all targets. Entries are emitted in
// postorder of a depth-first walk, seeded first with the breaker
// initializers, then one root per target in declaration order, so repeated
// calls over the same inputs yield identical schedules.
func Generate(ctx context.Context, reg *rules.Registry, scope Scope, targets Targets) (Schedule, error) {
	logger := ctxlog.FromContext(ctx)
	g := &generator{
		reg:       reg,
		scope:     scope,
		messages:  make(map[*graph.Interface]*Entry),
		marginals: make(map[region.Key]*Entry),
		visiting:  make(map[*graph.Interface]bool),
	}

	for _, iface := range targets.Breakers {
		g.initializer(iface)
	}
	for _, v := range targets.Variables {
		if _, err := g.marginal(v); err != nil {
			return nil, err
		}
	}
	for _, c := range targets.Clusters {
		if _, err := g.joint(c); err != nil {
			return nil, err
		}
	}

	logger.Debug("Schedule generation complete.",
		"entries", len(g.entries),
		"breakers", len(targets.Breakers),
	)
	return Schedule(g.entries), nil
}

// append assigns the entry its index and records it in postorder.
func (g *generator) append(e *Entry) *Entry {
	e.Index = len(g.entries)
	g.entries = append(g.entries, e)
	return e
}

// initializer emits the vague seed entry for a breaker interface.
func (g *generator) initializer(iface *graph.Interface) *Entry {
	if e, ok := g.messages[iface]; ok {
		return e
	}
	e := g.append(&Entry{
		Kind:      MessageEntry,
		Interface: iface,
		RuleID:    RuleVague,
		Family:    iface.BreakerFamily,
		Init:      true,
	})
	g.messages[iface] = e
	return e
}

// message schedules the message flowing out of iface, walking its
// dependencies first.
func (g *generator) message(iface *graph.Interface) (*Entry, error) {
	if e, ok := g.messages[iface]; ok {
		return e, nil
	}
	if iface.RequiresBreaker {
		return g.initializer(iface), nil
	}
	if g.visiting[iface] {
		return nil, fmt.Errorf("%w: involving %s", ErrUnbrokenCycle, iface.ID())
	}
	g.visiting[iface] = true
	defer delete(g.visiting, iface)

	node := iface.Node
	inbound := make([]Inbound, 0, len(node.Interfaces))
	tuple := make([]rules.Inbound, len(node.Interfaces))
	for j, other := range node.Interfaces {
		if other == iface {
			tuple[j] = rules.Nothing()
			continue
		}
		edge := other.Edge
		if !g.scope.InternalEdge(edge) {
			// External edge: the owning factor exposes its belief as a
			// marginal, joint when the far node's region is clustered.
			ref := edge.Variable.Name
			if partner := other.Partner(); partner != nil {
				if cluster, ok := g.scope.ClusterAt(partner.Node, edge); ok {
					ref = cluster.ID()
				}
			}
			tuple[j] = rules.Marginal("")
			inbound = append(inbound, Inbound{RegionID: ref})
			continue
		}
		partner := other.Partner()
		if partner == nil {
			return nil, fmt.Errorf("%w: interface %s", ErrUnattachedInterface, other.ID())
		}
		dep, err := g.message(partner)
		if err != nil {
			return nil, err
		}
		tuple[j] = rules.Message(dep.Family)
		inbound = append(inbound, Inbound{Entry: dep})
	}

	rule, err := g.reg.Dispatch(node.Kind.Name, "", tuple)
	if err != nil {
		return nil, fmt.Errorf("scheduling %s: %w", iface.ID(), err)
	}

	e := g.append(&Entry{
		Kind:      MessageEntry,
		Interface: iface,
		RuleID:    rule.ID,
		Rule:      rule,
		Family:    rule.Outbound,
		Inbound:   inbound,
	})
	g.messages[iface] = e
	return e, nil
}

// marginal schedules the belief over a variable: the product of the two
// opposing messages on one of its internal edges.
func (g *generator) marginal(v *graph.Variable) (*Entry, error) {
	key := region.VariableKey(v)
	if e, ok := g.marginals[key]; ok {
		return e, nil
	}

	var edge *graph.Edge
	for _, e := range v.Edges {
		if g.scope.InternalEdge(e) {
			edge = e
			break
		}
	}
	if edge == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrNoInternalEdge, v.Name)
	}

	fwd, err := g.message(edge.A)
	if err != nil {
		return nil, err
	}
	inbound := []Inbound{{Entry: fwd}}
	family := fwd.Family
	if edge.B != nil {
		bwd, err := g.message(edge.B)
		if err != nil {
			return nil, err
		}
		inbound = append(inbound, Inbound{Entry: bwd})
	}

	e := g.append(&Entry{
		Kind:     MarginalEntry,
		Variable: v,
		RuleID:   RuleProduct,
		Family:   family,
		Inbound:  inbound,
	})
	g.marginals[key] = e
	return e, nil
}

// joint schedules the belief over a cluster: all messages flowing toward the
// cluster's node along its edges, combined with the node function.
func (g *generator) joint(c *region.Cluster) (*Entry, error) {
	key := c.Key()
	if e, ok := g.marginals[key]; ok {
		return e, nil
	}

	inbound := make([]Inbound, 0, len(c.Edges))
	for _, edge := range c.Edges {
		toward := towardNode(c.Node, edge)
		if toward == nil {
			return nil, fmt.Errorf("%w: cluster '%s', edge %s", ErrUnattachedInterface, c.ID(), edge)
		}
		dep, err := g.message(toward)
		if err != nil {
			return nil, err
		}
		inbound = append(inbound, Inbound{Entry: dep})
	}

	e := g.append(&Entry{
		Kind:    JointEntry,
		Cluster: c,
		RuleID:  RuleJoint,
		Family:  RuleJoint,
		Inbound: inbound,
	})
	g.marginals[key] = e
	return e, nil
}

// towardNode returns the interface producing the message that arrives at
// node along edge, nil when the far end dangles.
func towardNode(node *graph.FactorNode, edge *graph.Edge) *graph.Interface {
	if edge.A != nil && edge.A.Node == node {
		return edge.B
	}
	return edge.A
}
