package factorization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/factorization"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/testutil"
)

func TestPrepare_CountingNumbersConserveOnTrees(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g, reg := stateSpace(t)
	ctx, _ := testutil.Context()
	fz, err := factorization.FromGraph(ctx, g, reg)
	require.NoError(t, err)
	require.NoError(t, fz.SetTargets(ctx, factorization.Request{FreeEnergy: true}))

	// --- Act ---
	require.NoError(t, fz.Prepare(ctx))

	// --- Assert ---
	// One average-energy term per stochastic node; clamps contribute none.
	nodes := fz.EnergyNodes()
	require.Len(t, nodes, 4)
	for _, n := range nodes {
		assert.True(t, n.Stochastic())
		assert.Equal(t, 1, fz.EnergyCount(n))
	}

	// On a tree every unclamped variable nets an entropy multiplicity of
	// exactly one across regions and discounts.
	for _, name := range []string{"x0", "x1", "w"} {
		v := mustVar(t, g, name)
		assert.Equal(t, 1, fz.EntropyMultiplicity(v), "variable %s", name)
	}

	// Clamped variables carry no entropy at all.
	for _, name := range []string{"m0", "v0", "y1"} {
		v := mustVar(t, g, name)
		assert.Equal(t, 0, fz.EntropyMultiplicity(v), "variable %s", name)
	}
}

func TestPrepare_ReusesTargetClustersForEntropy(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g, reg := stateSpace(t)
	ctx, _ := testutil.Context()
	fz, err := factorization.FromGraph(ctx, g, reg)
	require.NoError(t, err)
	require.NoError(t, fz.SetTargets(ctx, factorization.Request{FreeEnergy: true}))

	// --- Act ---
	require.NoError(t, fz.Prepare(ctx))

	// --- Assert ---
	// The entropy table's joint region is the same object the factor exposes
	// as a target, not a second cluster over the same edges.
	q, _ := fz.ByID("q")
	require.Len(t, q.TargetClusters, 1)

	table := fz.EntropyTable()
	require.NotNil(t, table)
	var found bool
	for _, entry := range table.Entries() {
		if entry.Cluster != nil {
			assert.Same(t, q.TargetClusters[0], entry.Cluster)
			found = true
		}
	}
	assert.True(t, found, "expected a joint entropy region at the transition")
}

func TestPrepare_NoCountingWithoutFreeEnergy(t *testing.T) {
	t.Parallel()

	g, reg := stateSpace(t)
	x0 := mustVar(t, g, "x0")
	ctx, _ := testutil.Context()
	fz, err := factorization.FromGraph(ctx, g, reg)
	require.NoError(t, err)
	require.NoError(t, fz.SetTargets(ctx, factorization.Request{
		TargetVariables: []*graph.Variable{x0},
	}))
	require.NoError(t, fz.Prepare(ctx))

	assert.Nil(t, fz.EntropyTable())
	assert.Empty(t, fz.EnergyNodes())
	assert.Zero(t, fz.EntropyMultiplicity(x0))
}
