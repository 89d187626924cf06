package graph

import (
	"context"
	"fmt"

	"github.com/vk/factorgrid/internal/config"
	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/rules"
)

// Build constructs a complete, validated factor graph from a config model.
func Build(ctx context.Context, model *config.Model, reg *rules.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	g := New()

	// First pass: declare all variables.
	for _, v := range model.Variables {
		if _, err := g.AddVariable(v.Name); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Variable declaration complete.", "variable_count", len(model.Variables))

	// Second pass: instantiate factor nodes and wire edges.
	for _, f := range model.Factors {
		kind, ok := reg.Kind(f.Kind)
		if !ok {
			return nil, fmt.Errorf("factor '%s' references unregistered node kind '%s'", f.Name, f.Kind)
		}
		vars := make([]*Variable, len(f.Connect))
		for i, name := range f.Connect {
			v, ok := g.Variable(name)
			if !ok {
				return nil, fmt.Errorf("factor '%s', interface %d: %w: '%s'", f.Name, i, ErrUnknownVariable, name)
			}
			vars[i] = v
		}
		if f.Value != nil {
			if !kind.Constant {
				return nil, fmt.Errorf("factor '%s' of kind '%s' carries a clamp value", f.Name, f.Kind)
			}
			if _, err := g.AddClamp(kind, f.Name, vars[0], *f.Value); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := g.AddFactor(kind, f.Name, vars...); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Factor instantiation complete.", "node_count", len(g.Nodes()))

	// Third pass: flag breaker interfaces.
	for _, b := range model.Breakers {
		node, ok := g.Node(b.Node)
		if !ok {
			return nil, fmt.Errorf("breaker references %w: '%s'", ErrUnknownNode, b.Node)
		}
		if !reg.KnownFamily(b.Family) {
			return nil, fmt.Errorf("breaker on '%s' references unregistered family '%s'", b.Node, b.Family)
		}
		if err := g.MarkBreaker(node, b.Slot, b.Family); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Breaker flagging complete.", "breaker_count", len(model.Breakers))

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("error validating factor graph: %w", err)
	}
	logger.Debug("Build: Graph construction successful.")
	return g, nil
}
