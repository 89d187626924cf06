// Package clamp contributes the constant factor node: a clamp pins its
// variable to a fixed value and emits a point-mass message.
package clamp

import "github.com/vk/factorgrid/internal/rules"

// Module implements the rules.Module interface for this package.
type Module struct{}

// Register registers the clamp node kind and its update rule.
func (m *Module) Register(r *rules.Registry) {
	r.RegisterFamily("pointmass")
	r.RegisterKind(&rules.NodeKind{
		Name:     "clamp",
		Constant: true,
		Arity:    1,
	})
	r.RegisterRule(&rules.Rule{
		ID:       "clamp.out",
		Node:     "clamp",
		Outbound: "pointmass",
		Inbound:  []rules.Pattern{rules.PatNothing()},
	})
}
