// Package categorical contributes the Categorical and Dirichlet factor
// nodes and their update rules. Interface order is (out, parameters).
package categorical

import "github.com/vk/factorgrid/internal/rules"

// Module implements the rules.Module interface for this package.
type Module struct{}

// Register registers both node kinds and their update rules.
func (m *Module) Register(r *rules.Registry) {
	r.RegisterFamily("categorical")
	r.RegisterFamily("dirichlet")
	r.RegisterKind(&rules.NodeKind{
		Name:  "categorical",
		Arity: 2,
	})
	r.RegisterKind(&rules.NodeKind{
		Name:  "dirichlet",
		Arity: 2,
	})

	r.RegisterRule(&rules.Rule{
		ID:       "dirichlet.out",
		Node:     "dirichlet",
		Outbound: "dirichlet",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage(),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "categorical.out.d",
		Node:     "categorical",
		Outbound: "categorical",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage("dirichlet"),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "categorical.out.p",
		Node:     "categorical",
		Outbound: "categorical",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage("pointmass"),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "categorical.out.m",
		Node:     "categorical",
		Outbound: "categorical",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMarginal(),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "categorical.probs",
		Node:     "categorical",
		Outbound: "dirichlet",
		Inbound: []rules.Pattern{
			rules.PatMessage(),
			rules.PatNothing(),
		},
	})
}
