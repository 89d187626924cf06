// Package equality contributes the equality node: a deterministic,
// marginal-preserving factor that fans one variable's belief out over three
// edges.
package equality

import (
	"fmt"

	"github.com/vk/factorgrid/internal/rules"
)

// families an equality node can carry; one rule triple per family.
var families = []string{"gaussian", "pointmass", "gamma", "categorical"}

// Module implements the rules.Module interface for this package.
type Module struct{}

// Register registers the equality node kind and, per carried family, one
// rule for each of the three outbound slots.
func (m *Module) Register(r *rules.Registry) {
	r.RegisterKind(&rules.NodeKind{
		Name:               "equality",
		Deterministic:      true,
		MarginalPreserving: true,
		Arity:              3,
	})

	for _, family := range families {
		for slot := 0; slot < 3; slot++ {
			inbound := make([]rules.Pattern, 3)
			for i := range inbound {
				if i == slot {
					inbound[i] = rules.PatNothing()
				} else {
					inbound[i] = rules.PatMessage(family)
				}
			}
			r.RegisterRule(&rules.Rule{
				ID:       fmt.Sprintf("equality.%s.%d", family, slot),
				Node:     "equality",
				Outbound: family,
				Inbound:  inbound,
			})
		}
	}
}
