package rules

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that all compiled-in node/rule libraries implement
// to contribute their node kinds and update rules to an engine instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds all node kinds, distribution families and update rules for
// a single engine instance. It is populated once by the modules during
// startup and treated as read-only afterwards.
type Registry struct {
	kinds    map[string]*NodeKind
	families map[string]struct{}
	rules    map[string][]*Rule // keyed by node-kind name, in registration order
	ruleIDs  map[string]*Rule
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		kinds:    make(map[string]*NodeKind),
		families: make(map[string]struct{}),
		rules:    make(map[string][]*Rule),
		ruleIDs:  make(map[string]*Rule),
	}
}

// RegisterKind registers a node-kind descriptor. Registering the same kind
// name twice is a programmer error.
func (r *Registry) RegisterKind(k *NodeKind) {
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("node kind '%s' already registered", k.Name))
	}
	if k.Arity < 1 {
		panic(fmt.Sprintf("node kind '%s' declares arity %d, want at least 1", k.Name, k.Arity))
	}
	slog.Debug("Registering node kind.", "name", k.Name, "deterministic", k.Deterministic)
	r.kinds[k.Name] = k
}

// RegisterFamily registers a distribution-family identifier. Duplicate
// registration is allowed; several modules may share a family.
func (r *Registry) RegisterFamily(name string) {
	r.families[name] = struct{}{}
}

// RegisterRule registers an update rule for a previously registered node
// kind. Duplicate rule IDs and rules for unknown kinds are programmer errors.
func (r *Registry) RegisterRule(rule *Rule) {
	if _, exists := r.ruleIDs[rule.ID]; exists {
		panic(fmt.Sprintf("update rule '%s' already registered", rule.ID))
	}
	kind, ok := r.kinds[rule.Node]
	if !ok {
		panic(fmt.Sprintf("update rule '%s' references unknown node kind '%s'", rule.ID, rule.Node))
	}
	if len(rule.Inbound) != kind.Arity {
		panic(fmt.Sprintf("update rule '%s' declares %d inbound slots, node kind '%s' has arity %d",
			rule.ID, len(rule.Inbound), rule.Node, kind.Arity))
	}
	slog.Debug("Registering update rule.", "id", rule.ID, "node", rule.Node, "outbound", rule.Outbound)
	r.ruleIDs[rule.ID] = rule
	r.rules[rule.Node] = append(r.rules[rule.Node], rule)
}

// Kind looks up a node-kind descriptor by name.
func (r *Registry) Kind(name string) (*NodeKind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// KnownFamily reports whether the family identifier was registered.
func (r *Registry) KnownFamily(name string) bool {
	_, ok := r.families[name]
	return ok
}

// KindNames returns the sorted names of all registered node kinds.
func (r *Registry) KindNames() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuleCount returns the number of registered update rules.
func (r *Registry) RuleCount() int {
	return len(r.ruleIDs)
}
