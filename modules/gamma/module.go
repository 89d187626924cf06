// Package gamma contributes the Gamma factor node and its update rules.
// Interface order is (out, shape, rate).
package gamma

import "github.com/vk/factorgrid/internal/rules"

// Module implements the rules.Module interface for this package.
type Module struct{}

// Register registers the gamma node kind and its update rules.
func (m *Module) Register(r *rules.Registry) {
	r.RegisterFamily("gamma")
	r.RegisterKind(&rules.NodeKind{
		Name:  "gamma",
		Arity: 3,
	})

	r.RegisterRule(&rules.Rule{
		ID:       "gamma.out",
		Node:     "gamma",
		Outbound: "gamma",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage(),
			rules.PatMessage(),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gamma.out.m",
		Node:     "gamma",
		Outbound: "gamma",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMarginal(),
			rules.PatMarginal(),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gamma.rate.m",
		Node:     "gamma",
		Outbound: "gamma",
		Inbound: []rules.Pattern{
			rules.PatMarginal(),
			rules.PatMarginal(),
			rules.PatNothing(),
		},
	})
}
