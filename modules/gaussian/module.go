// Package gaussian contributes the Gaussian factor node and its update
// rules. Interface order is (out, mean, variance).
package gaussian

import "github.com/vk/factorgrid/internal/rules"

// Module implements the rules.Module interface for this package.
type Module struct{}

// Register registers the gaussian node kind and its update rules.
func (m *Module) Register(r *rules.Registry) {
	r.RegisterFamily("gaussian")
	r.RegisterFamily("inverse_gamma")
	r.RegisterKind(&rules.NodeKind{
		Name:  "gaussian",
		Arity: 3,
	})

	// Forward messages toward the output.
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.out.pp",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage("pointmass"),
			rules.PatMessage("pointmass"),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.out.gp",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage("gaussian"),
			rules.PatMessage("pointmass"),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.out",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage(),
			rules.PatMessage(),
		},
	})

	// Backward message toward the mean.
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.mean.gp",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatMessage("gaussian"),
			rules.PatNothing(),
			rules.PatMessage("pointmass"),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.mean",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatMessage(),
			rules.PatNothing(),
			rules.PatMessage(),
		},
	})

	// Backward message toward the variance.
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.variance",
		Node:     "gaussian",
		Outbound: "inverse_gamma",
		Inbound: []rules.Pattern{
			rules.PatMessage(),
			rules.PatMessage(),
			rules.PatNothing(),
		},
	})

	// Variational rules consuming marginals from neighboring factors.
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.out.m",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMarginal(),
			rules.PatMarginal(),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.mean.m",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatMarginal(),
			rules.PatNothing(),
			rules.PatMarginal(),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.variance.m",
		Node:     "gaussian",
		Outbound: "inverse_gamma",
		Inbound: []rules.Pattern{
			rules.PatMarginal(),
			rules.PatMarginal(),
			rules.PatNothing(),
		},
	})

	// Structured rules: one side resolved in-factor, the other external.
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.out.sm",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatNothing(),
			rules.PatMessage("gaussian", "pointmass"),
			rules.PatMarginal(),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gaussian.mean.sm",
		Node:     "gaussian",
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatMessage("gaussian", "pointmass"),
			rules.PatNothing(),
			rules.PatMarginal(),
		},
	})
}
