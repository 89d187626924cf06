package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/factorgrid/internal/rules"
)

// Variable is a named unknown quantity. It owns the ordered set of edges that
// carry its belief, one per pair of factors it joins.
type Variable struct {
	// Name uniquely identifies the variable within its graph.
	Name string

	// Edges lists the edges tagged with this variable, in creation order.
	Edges []*Edge

	graph *Graph
}

// String returns the variable name.
func (v *Variable) String() string { return v.Name }

// Interface is an attachment point on a FactorNode. Interface 0 is the
// node's output by convention.
type Interface struct {
	// Node is the owning factor node.
	Node *FactorNode

	// Index is the position within the node's interface list.
	Index int

	// Edge is the edge attached to this interface.
	Edge *Edge

	// RequiresBreaker marks the interface as sitting on a feedback loop;
	// schedule generation seeds it with a vague initial message instead of
	// recursing through it.
	RequiresBreaker bool

	// BreakerFamily is the family of the vague initial message.
	BreakerFamily string
}

// Partner returns the interface on the opposite end of this interface's
// edge, or nil while the edge dangles.
func (i *Interface) Partner() *Interface {
	if i.Edge == nil {
		return nil
	}
	if i.Edge.A == i {
		return i.Edge.B
	}
	return i.Edge.A
}

// ID renders a stable identifier, e.g. "prior_x[0]".
func (i *Interface) ID() string {
	return fmt.Sprintf("%s[%d]", i.Node.Name, i.Index)
}

// Edge connects up to two interfaces and is tagged with exactly one variable.
type Edge struct {
	// Variable is the variable whose belief flows over this edge.
	Variable *Variable

	// A and B are the two endpoints. B is nil while the edge dangles.
	A, B *Interface

	// Index is the creation order within the graph, used for stable output.
	Index int

	graph *Graph
}

// Complete reports whether both endpoints are attached.
func (e *Edge) Complete() bool { return e.A != nil && e.B != nil }

// String renders the edge for diagnostics, e.g. "x(prior_x[0]--add[1])".
func (e *Edge) String() string {
	b := "·"
	if e.B != nil {
		b = e.B.ID()
	}
	return fmt.Sprintf("%s(%s--%s)", e.Variable.Name, e.A.ID(), b)
}

// FactorNode is one factor in the graph, polymorphic over its registered
// kind descriptor.
type FactorNode struct {
	// Name uniquely identifies the node within its graph.
	Name string

	// Kind is the registered node-kind descriptor.
	Kind *rules.NodeKind

	// Interfaces is the node's ordered attachment-point list, of length
	// Kind.Arity.
	Interfaces []*Interface

	// Value holds the pinned constant of a clamp node, nil otherwise.
	Value *cty.Value
}

// String returns the node name.
func (n *FactorNode) String() string { return n.Name }

// Deterministic reports whether the node is a delta factor.
func (n *FactorNode) Deterministic() bool { return n.Kind.Deterministic }

// Clamp reports whether the node pins its variable to a constant.
func (n *FactorNode) Clamp() bool { return n.Kind.Constant }

// Stochastic reports whether the node introduces distributional structure.
func (n *FactorNode) Stochastic() bool { return n.Kind.Stochastic() }
