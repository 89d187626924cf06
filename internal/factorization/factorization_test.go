package factorization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/factorization"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/rules"
	"github.com/vk/factorgrid/internal/testutil"
	"github.com/vk/factorgrid/modules/arithmetic"
	"github.com/vk/factorgrid/modules/clamp"
	"github.com/vk/factorgrid/modules/gamma"
	"github.com/vk/factorgrid/modules/gaussian"
)

// stateSpaceSrc is one slice of a state-space model: a Gaussian prior on x0,
// a Gaussian transition x0 -> x1 with unknown noise w, a Gamma prior on w,
// and an observed output y1.
const stateSpaceSrc = `
	variable "x0" {}
	variable "m0" {}
	variable "v0" {}
	variable "x1" {}
	variable "w" {}
	variable "a" {}
	variable "b" {}
	variable "y1" {}
	variable "v_y" {}

	factor "gaussian" "prior" { connect = ["x0", "m0", "v0"] }
	factor "gaussian" "transition" { connect = ["x1", "x0", "w"] }
	factor "gamma" "w_prior" { connect = ["w", "a", "b"] }
	factor "gaussian" "obs_model" { connect = ["y1", "x1", "v_y"] }

	clamp "c_m0" {
		variable = "m0"
		value    = 0.0
	}
	clamp "c_v0" {
		variable = "v0"
		value    = 10.0
	}
	clamp "c_a" {
		variable = "a"
		value    = 1.0
	}
	clamp "c_b" {
		variable = "b"
		value    = 1.0
	}
	clamp "c_y1" {
		variable = "y1"
		value    = 4.2
	}
	clamp "c_vy" {
		variable = "v_y"
		value    = 0.5
	}
`

func stateSpace(t *testing.T) (*graph.Graph, *rules.Registry) {
	t.Helper()
	return testutil.BuildGraph(t, stateSpaceSrc,
		&clamp.Module{}, &gaussian.Module{}, &gamma.Module{})
}

func mustVar(t *testing.T, g *graph.Graph, name string) *graph.Variable {
	t.Helper()
	v, ok := g.Variable(name)
	require.True(t, ok, "variable %q should exist", name)
	return v
}

func TestFromGraph_SingleFactorOwnsEveryEdge(t *testing.T) {
	t.Parallel()

	g, reg := stateSpace(t)
	ctx, _ := testutil.Context()

	fz, err := factorization.FromGraph(ctx, g, reg)
	require.NoError(t, err)

	factors := fz.Factors()
	require.Len(t, factors, 1)
	assert.Equal(t, "q", factors[0].ID)
	assert.Len(t, factors[0].Edges, len(g.Edges()))

	for _, e := range g.Edges() {
		owner, ok := fz.FactorOf(e)
		require.True(t, ok, "edge %s should be owned", e)
		assert.Same(t, factors[0], owner)
	}
}

func TestFromGroups_NamesAndCounts(t *testing.T) {
	t.Parallel()

	g, reg := stateSpace(t)
	x0 := mustVar(t, g, "x0")
	w := mustVar(t, g, "w")
	ctx, _ := testutil.Context()
	groups := [][]*graph.Variable{{x0}, {w}}

	// Auto-generated names follow the group order.
	fz, err := factorization.FromGroups(ctx, g, reg, groups, nil)
	require.NoError(t, err)
	factors := fz.Factors()
	require.Len(t, factors, 2)
	assert.Equal(t, "q1", factors[0].ID)
	assert.Equal(t, "q2", factors[1].ID)

	// Explicit names are taken verbatim.
	fz, err = factorization.FromGroups(ctx, g, reg, groups, []string{"q_x", "q_w"})
	require.NoError(t, err)
	byID, ok := fz.ByID("q_w")
	require.True(t, ok)
	assert.Equal(t, "q_w", byID.ID)

	// A name list of the wrong length is rejected up front.
	_, err = factorization.FromGroups(ctx, g, reg, groups, []string{"q_x"})
	require.ErrorIs(t, err, factorization.ErrIDCount)
}

func TestAddFactor_ExtendsThroughDeterministicNodes(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// z = x + y: all three edges meet at a delta factor.
	g, reg := testutil.BuildGraph(t, `
		variable "x" {}
		variable "y" {}
		variable "z" {}
		factor "addition" "add" { connect = ["z", "x", "y"] }
	`, &arithmetic.Module{})
	x := mustVar(t, g, "x")
	y := mustVar(t, g, "y")
	ctx, _ := testutil.Context()
	fz := factorization.New(g, reg)

	// --- Act ---
	f, err := fz.AddFactor(ctx, "qx", x)

	// --- Assert ---
	// Seeding with x alone pulls in every edge of the addition node, so the
	// deterministic relation never straddles a factor boundary.
	require.NoError(t, err)
	assert.Len(t, f.Edges, 3)
	assert.True(t, f.InternalEdge(y.Edges[0]))

	// The closure already claimed y's edge; a second factor over y would
	// break the partition.
	_, err = fz.AddFactor(ctx, "qy", y)
	require.ErrorIs(t, err, factorization.ErrEdgeClaimed)
}

func TestAddFactor_Errors(t *testing.T) {
	t.Parallel()

	g, reg := stateSpace(t)
	x0 := mustVar(t, g, "x0")
	ctx, _ := testutil.Context()
	fz := factorization.New(g, reg)

	_, err := fz.AddFactor(ctx, "qx", x0)
	require.NoError(t, err)
	_, err = fz.AddFactor(ctx, "qx", x0)
	require.ErrorIs(t, err, factorization.ErrDuplicateFactor)

	other := graph.New()
	foreign, err := other.AddVariable("x0")
	require.NoError(t, err)
	_, err = fz.AddFactor(ctx, "q_foreign", foreign)
	require.ErrorIs(t, err, factorization.ErrForeignVariable)
}

func TestDegree_CountsFactorsAroundEndpoints(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g, reg := stateSpace(t)
	x0 := mustVar(t, g, "x0")
	x1 := mustVar(t, g, "x1")
	w := mustVar(t, g, "w")
	ctx, _ := testutil.Context()

	fz, err := factorization.FromGroups(ctx, g, reg,
		[][]*graph.Variable{{x0, x1}, {w}}, []string{"q_x", "q_w"})
	require.NoError(t, err)

	// --- Act / Assert ---
	// The w edge sits between the transition (whose x edges belong to q_x)
	// and the gamma prior, so both factors see it.
	d, err := fz.Degree(w.Edges[0])
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	// x0's edge joins two nodes whose stochastic neighborhood is all q_x,
	// except the transition which also touches w.
	d, err = fz.Degree(x0.Edges[0])
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	other := graph.New()
	ov, err := other.AddVariable("v")
	require.NoError(t, err)
	_, err = other.AddFactor(&rules.NodeKind{Name: "k", Constant: true, Arity: 1}, "n", ov)
	require.NoError(t, err)
	_, err = fz.Degree(ov.Edges[0])
	require.ErrorIs(t, err, factorization.ErrForeignEdge)
}
