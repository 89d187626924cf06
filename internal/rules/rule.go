package rules

import (
	"fmt"
	"strings"
)

// NodeKind describes one factor-node type contributed by a module.
type NodeKind struct {
	// Name is the unique kind identifier used in model files, e.g. "gaussian".
	Name string

	// Deterministic marks delta factors: nodes that implement an exact
	// functional relation (addition, gain, equality) rather than a
	// stochastic mapping.
	Deterministic bool

	// Constant marks clamp nodes, which pin their variable to a fixed value.
	Constant bool

	// MarginalPreserving marks equality nodes: deterministic nodes that
	// carry one marginal across all of their edges.
	MarginalPreserving bool

	// Composite marks kinds that stand in for a chain of simpler nodes and
	// carry shortcut rules mapping the chain's inputs straight to its output.
	Composite bool

	// Arity is the number of interfaces a node of this kind exposes.
	// Interface 0 is the output by convention.
	Arity int
}

// Stochastic reports whether nodes of this kind introduce genuine
// distributional structure.
func (k *NodeKind) Stochastic() bool {
	return !k.Deterministic && !k.Constant
}

// SlotKind classifies one inbound position of a dispatch request.
type SlotKind int

const (
	// SlotNothing is the target slot itself; no inbound flows there.
	SlotNothing SlotKind = iota
	// SlotMessage is a directed message arriving from inside the factor.
	SlotMessage
	// SlotMarginal is a posterior belief, typically supplied by another
	// posterior factor for an external edge.
	SlotMarginal
)

// Inbound is the concrete type of one inbound slot at dispatch time. Family
// is the distribution family carried by the slot; it is empty when the family
// is not known at schedule-construction time (cross-factor marginals).
type Inbound struct {
	Kind   SlotKind
	Family string
}

// Nothing returns the inbound marker for the target slot.
func Nothing() Inbound { return Inbound{Kind: SlotNothing} }

// Message returns an inbound message of the given family.
func Message(family string) Inbound { return Inbound{Kind: SlotMessage, Family: family} }

// Marginal returns an inbound marginal of the given family. An empty family
// means the family is unknown until runtime.
func Marginal(family string) Inbound { return Inbound{Kind: SlotMarginal, Family: family} }

// String renders the inbound for diagnostics, e.g. "message(gaussian)".
func (in Inbound) String() string {
	switch in.Kind {
	case SlotNothing:
		return "nothing"
	case SlotMessage:
		return "message(" + orAny(in.Family) + ")"
	case SlotMarginal:
		return "marginal(" + orAny(in.Family) + ")"
	}
	return "invalid"
}

func orAny(family string) string {
	if family == "" {
		return "any"
	}
	return family
}

// Pattern matches one inbound slot of a candidate rule. A nil Families slice
// matches any family of the slot kind; one entry matches exactly that family;
// several entries match any member of the union.
type Pattern struct {
	Slot     SlotKind
	Families []string
}

// PatNothing matches the target slot.
func PatNothing() Pattern { return Pattern{Slot: SlotNothing} }

// PatMessage matches a message of any of the given families, or any message
// when no family is given.
func PatMessage(families ...string) Pattern {
	return Pattern{Slot: SlotMessage, Families: families}
}

// PatMarginal matches a marginal of any of the given families, or any
// marginal when no family is given.
func PatMarginal(families ...string) Pattern {
	return Pattern{Slot: SlotMarginal, Families: families}
}

// Matches reports whether the pattern accepts the concrete inbound.
func (p Pattern) Matches(in Inbound) bool {
	if p.Slot != in.Kind {
		return false
	}
	if len(p.Families) == 0 {
		return true
	}
	for _, f := range p.Families {
		if f == in.Family {
			return true
		}
	}
	return false
}

// specificity ranks how narrowly the pattern constrains its slot. Exact
// families outrank unions, unions outrank wildcards. The target slot carries
// no information either way.
func (p Pattern) specificity() int {
	switch {
	case p.Slot == SlotNothing:
		return 0
	case len(p.Families) == 1:
		return 2
	case len(p.Families) > 1:
		return 1
	default:
		return 0
	}
}

// String renders the pattern for diagnostics.
func (p Pattern) String() string {
	fam := "any"
	if len(p.Families) > 0 {
		fam = strings.Join(p.Families, "|")
	}
	switch p.Slot {
	case SlotNothing:
		return "nothing"
	case SlotMessage:
		return "message(" + fam + ")"
	case SlotMarginal:
		return "marginal(" + fam + ")"
	}
	return "invalid"
}

// Rule declares one update-rule implementation: the node kind it applies to,
// the family of the message it produces, and the inbound tuple it accepts.
// The numeric body of the rule lives downstream in code generation; the
// engine only needs the selection contract.
type Rule struct {
	// ID uniquely identifies the rule implementation, e.g. "gaussian.out.sp".
	ID string
	// Node is the node-kind name this rule applies to.
	Node string
	// Outbound is the family of the message this rule produces.
	Outbound string
	// Inbound is the ordered tuple of slot patterns, one per node interface.
	Inbound []Pattern
}

// matches reports whether the rule accepts the concrete inbound tuple.
func (r *Rule) matches(inbound []Inbound) bool {
	if len(r.Inbound) != len(inbound) {
		return false
	}
	for i, p := range r.Inbound {
		if !p.Matches(inbound[i]) {
			return false
		}
	}
	return true
}

// specificity is the summed slot specificity, used to rank competing matches.
func (r *Rule) specificity() int {
	total := 0
	for _, p := range r.Inbound {
		total += p.specificity()
	}
	return total
}

func formatInbound(inbound []Inbound) string {
	parts := make([]string, len(inbound))
	for i, in := range inbound {
		parts[i] = in.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %s -> %s", r.ID, r.Node, r.Outbound)
}
