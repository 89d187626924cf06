// Package arithmetic contributes the deterministic arithmetic nodes:
// addition (out, in1, in2), gain (out, in), and the gain_addition composite
// (out, addend, gain input) whose shortcut rules map the two inbound
// messages straight to the output, collapsing the inner gain propagation.
package arithmetic

import "github.com/vk/factorgrid/internal/rules"

// Module implements the rules.Module interface for this package.
type Module struct{}

// Register registers the three node kinds and their update rules.
func (m *Module) Register(r *rules.Registry) {
	r.RegisterKind(&rules.NodeKind{
		Name:          "addition",
		Deterministic: true,
		Arity:         3,
	})
	r.RegisterKind(&rules.NodeKind{
		Name:          "gain",
		Deterministic: true,
		Arity:         2,
	})
	r.RegisterKind(&rules.NodeKind{
		Name:          "gain_addition",
		Deterministic: true,
		Composite:     true,
		Arity:         3,
	})

	registerTernary(r, "addition")

	r.RegisterRule(&rules.Rule{
		ID:       "gain.out.g",
		Node:     "gain",
		Outbound: "gaussian",
		Inbound:  []rules.Pattern{rules.PatNothing(), rules.PatMessage("gaussian")},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gain.out.p",
		Node:     "gain",
		Outbound: "pointmass",
		Inbound:  []rules.Pattern{rules.PatNothing(), rules.PatMessage("pointmass")},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gain.in.g",
		Node:     "gain",
		Outbound: "gaussian",
		Inbound:  []rules.Pattern{rules.PatMessage("gaussian"), rules.PatNothing()},
	})
	r.RegisterRule(&rules.Rule{
		ID:       "gain.in.p",
		Node:     "gain",
		Outbound: "pointmass",
		Inbound:  []rules.Pattern{rules.PatMessage("pointmass"), rules.PatNothing()},
	})

	registerTernary(r, "gain_addition")
}

// registerTernary registers the forward and backward rules shared by the
// ternary arithmetic kinds.
func registerTernary(r *rules.Registry, node string) {
	combos := []struct {
		suffix   string
		in1, in2 string
		outbound string
	}{
		{"gg", "gaussian", "gaussian", "gaussian"},
		{"gp", "gaussian", "pointmass", "gaussian"},
		{"pg", "pointmass", "gaussian", "gaussian"},
		{"pp", "pointmass", "pointmass", "pointmass"},
	}
	for _, c := range combos {
		r.RegisterRule(&rules.Rule{
			ID:       node + ".out." + c.suffix,
			Node:     node,
			Outbound: c.outbound,
			Inbound: []rules.Pattern{
				rules.PatNothing(),
				rules.PatMessage(c.in1),
				rules.PatMessage(c.in2),
			},
		})
	}

	r.RegisterRule(&rules.Rule{
		ID:       node + ".in1.gg",
		Node:     node,
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatMessage("gaussian", "pointmass"),
			rules.PatNothing(),
			rules.PatMessage("gaussian", "pointmass"),
		},
	})
	r.RegisterRule(&rules.Rule{
		ID:       node + ".in2.gg",
		Node:     node,
		Outbound: "gaussian",
		Inbound: []rules.Pattern{
			rules.PatMessage("gaussian", "pointmass"),
			rules.PatMessage("gaussian", "pointmass"),
			rules.PatNothing(),
		},
	})
}
