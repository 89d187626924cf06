package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/rules"
)

func TestRegistry_DuplicateKindPanics(t *testing.T) {
	t.Parallel()

	reg := rules.New()
	reg.RegisterKind(&rules.NodeKind{Name: "gaussian", Arity: 3})

	require.Panics(t, func() {
		reg.RegisterKind(&rules.NodeKind{Name: "gaussian", Arity: 3})
	}, "registering the same kind name twice is a programmer error")
}

func TestRegistry_DuplicateRuleIDPanics(t *testing.T) {
	t.Parallel()

	reg := rules.New()
	reg.RegisterKind(&rules.NodeKind{Name: "clamp", Constant: true, Arity: 1})
	rule := func() *rules.Rule {
		return &rules.Rule{
			ID: "clamp.out", Node: "clamp", Outbound: "pointmass",
			Inbound: []rules.Pattern{rules.PatNothing()},
		}
	}
	reg.RegisterRule(rule())

	require.Panics(t, func() { reg.RegisterRule(rule()) })
}

func TestRegistry_RuleForUnknownKindPanics(t *testing.T) {
	t.Parallel()

	reg := rules.New()

	require.Panics(t, func() {
		reg.RegisterRule(&rules.Rule{
			ID: "ghost.out", Node: "ghost", Outbound: "gaussian",
			Inbound: []rules.Pattern{rules.PatNothing()},
		})
	})
}

func TestRegistry_RuleArityMismatchPanics(t *testing.T) {
	t.Parallel()

	reg := rules.New()
	reg.RegisterKind(&rules.NodeKind{Name: "gaussian", Arity: 3})

	require.Panics(t, func() {
		reg.RegisterRule(&rules.Rule{
			ID: "gaussian.out", Node: "gaussian", Outbound: "gaussian",
			Inbound: []rules.Pattern{rules.PatNothing(), rules.PatMessage()},
		})
	})
}

func TestRegistry_Lookups(t *testing.T) {
	t.Parallel()

	reg := rules.New()
	reg.RegisterFamily("gaussian")
	reg.RegisterFamily("gaussian") // shared by several modules
	reg.RegisterKind(&rules.NodeKind{Name: "b_kind", Arity: 1})
	reg.RegisterKind(&rules.NodeKind{Name: "a_kind", Deterministic: true, Arity: 2})

	kind, ok := reg.Kind("a_kind")
	require.True(t, ok)
	assert.True(t, kind.Deterministic)
	assert.False(t, kind.Stochastic())

	_, ok = reg.Kind("missing")
	assert.False(t, ok)

	assert.True(t, reg.KnownFamily("gaussian"))
	assert.False(t, reg.KnownFamily("wishart"))
	assert.Equal(t, []string{"a_kind", "b_kind"}, reg.KindNames())
	assert.Zero(t, reg.RuleCount())
}

func TestNodeKind_Stochastic(t *testing.T) {
	t.Parallel()

	assert.True(t, (&rules.NodeKind{Name: "gaussian", Arity: 3}).Stochastic())
	assert.False(t, (&rules.NodeKind{Name: "addition", Deterministic: true, Arity: 3}).Stochastic())
	assert.False(t, (&rules.NodeKind{Name: "clamp", Constant: true, Arity: 1}).Stochastic())
}
