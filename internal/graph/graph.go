package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/factorgrid/internal/rules"
)

// Graph is a Forney-style factor graph under construction. It is not safe
// for concurrent mutation; the engine assumes exclusive ownership for the
// duration of a build (see the resource model in the package docs).
type Graph struct {
	variables map[string]*Variable
	nodes     map[string]*FactorNode

	// Creation order, for deterministic iteration and output.
	variableOrder []*Variable
	nodeOrder     []*FactorNode
	edges         []*Edge
}

// New creates an empty factor graph.
func New() *Graph {
	return &Graph{
		variables: make(map[string]*Variable),
		nodes:     make(map[string]*FactorNode),
	}
}

// AddVariable declares a new variable.
func (g *Graph) AddVariable(name string) (*Variable, error) {
	if _, exists := g.variables[name]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateVariable, name)
	}
	v := &Variable{Name: name, graph: g}
	g.variables[name] = v
	g.variableOrder = append(g.variableOrder, v)
	return v, nil
}

// Variable looks up a declared variable by name.
func (g *Graph) Variable(name string) (*Variable, bool) {
	v, ok := g.variables[name]
	return v, ok
}

// Node looks up a declared factor node by name.
func (g *Graph) Node(name string) (*FactorNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Variables returns all variables in declaration order.
func (g *Graph) Variables() []*Variable { return g.variableOrder }

// Nodes returns all factor nodes in declaration order.
func (g *Graph) Nodes() []*FactorNode { return g.nodeOrder }

// Edges returns all edges in creation order.
func (g *Graph) Edges() []*Edge { return g.edges }

// Owns reports whether the edge belongs to this graph. Factorization code
// uses it to fail fast on references into a different model-building session.
func (g *Graph) Owns(e *Edge) bool { return e != nil && e.graph == g }

// AddFactor declares a factor node of the given kind and attaches it to the
// given variables, one per interface in order. Interface 0 is the output.
//
// Attachment either starts a new dangling edge for the variable or completes
// its last dangling one. A variable whose edges are all complete is
// saturated and must be fanned out through an explicit equality node.
func (g *Graph) AddFactor(kind *rules.NodeKind, name string, vars ...*Variable) (*FactorNode, error) {
	if _, exists := g.nodes[name]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateNode, name)
	}
	if len(vars) != kind.Arity {
		return nil, fmt.Errorf("%w: kind '%s' has arity %d, got %d variables",
			ErrArityMismatch, kind.Name, kind.Arity, len(vars))
	}

	n := &FactorNode{Name: name, Kind: kind}
	for idx, v := range vars {
		if v == nil || v.graph != g {
			return nil, fmt.Errorf("%w: interface %d of '%s'", ErrUnknownVariable, idx, name)
		}
		iface := &Interface{Node: n, Index: idx}
		if err := g.attach(iface, v); err != nil {
			return nil, fmt.Errorf("connecting '%s' to '%s': %w", v.Name, name, err)
		}
		n.Interfaces = append(n.Interfaces, iface)
	}
	g.nodes[name] = n
	g.nodeOrder = append(g.nodeOrder, n)
	return n, nil
}

// AddClamp declares a clamp node pinning the variable to a constant value.
func (g *Graph) AddClamp(kind *rules.NodeKind, name string, v *Variable, value cty.Value) (*FactorNode, error) {
	n, err := g.AddFactor(kind, name, v)
	if err != nil {
		return nil, err
	}
	n.Value = &value
	return n, nil
}

// attach wires an interface to a variable, completing the variable's last
// dangling edge or starting a fresh one.
func (g *Graph) attach(iface *Interface, v *Variable) error {
	if last := lastDangling(v); last != nil {
		last.B = iface
		iface.Edge = last
		return nil
	}
	for _, e := range v.Edges {
		if e.Complete() {
			return fmt.Errorf("%w: '%s'", ErrVariableSaturated, v.Name)
		}
	}
	e := &Edge{Variable: v, A: iface, Index: len(g.edges), graph: g}
	iface.Edge = e
	v.Edges = append(v.Edges, e)
	g.edges = append(g.edges, e)
	return nil
}

func lastDangling(v *Variable) *Edge {
	if len(v.Edges) == 0 {
		return nil
	}
	if last := v.Edges[len(v.Edges)-1]; !last.Complete() {
		return last
	}
	return nil
}

// MarkBreaker flags the node's interface at the given index as requiring a
// vague initial message of the given family during schedule generation.
func (g *Graph) MarkBreaker(node *FactorNode, index int, family string) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrUnknownNode)
	}
	if index < 0 || index >= len(node.Interfaces) {
		return fmt.Errorf("%w: %d on '%s' (arity %d)", ErrBadInterface, index, node.Name, len(node.Interfaces))
	}
	iface := node.Interfaces[index]
	iface.RequiresBreaker = true
	iface.BreakerFamily = family
	return nil
}

// Validate checks the structural contract of the assembled graph: every edge
// carries a variable and every interface belongs to a node. A violation is a
// programming error in graph assembly, surfaced before scheduling rather
// than as a silently wrong schedule.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if e.Variable == nil {
			return fmt.Errorf("%w: edge %d has no variable", ErrMalformedGraph, e.Index)
		}
		if e.A == nil {
			return fmt.Errorf("%w: edge %s has no primary endpoint", ErrMalformedGraph, e.Variable.Name)
		}
		if e.A.Node == nil || (e.B != nil && e.B.Node == nil) {
			return fmt.Errorf("%w: edge %s attached to an interface without a node", ErrMalformedGraph, e.Variable.Name)
		}
	}
	return nil
}
