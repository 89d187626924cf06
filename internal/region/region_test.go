package region_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/region"
	"github.com/vk/factorgrid/internal/rules"
)

var transitionKind = &rules.NodeKind{Name: "gaussian", Arity: 3}

// chainGraph builds x1 -- transition -- x0 with a dangling variance edge.
func chainGraph(t *testing.T) (*graph.FactorNode, []*graph.Edge) {
	t.Helper()
	g := graph.New()
	x1, err := g.AddVariable("x1")
	require.NoError(t, err)
	x0, err := g.AddVariable("x0")
	require.NoError(t, err)
	w, err := g.AddVariable("w")
	require.NoError(t, err)
	n, err := g.AddFactor(transitionKind, "transition", x1, x0, w)
	require.NoError(t, err)
	return n, []*graph.Edge{x1.Edges[0], x0.Edges[0], w.Edges[0]}
}

func TestClusterKey_IgnoresEdgeOrder(t *testing.T) {
	t.Parallel()

	n, edges := chainGraph(t)

	forward := region.ClusterKey(n, []*graph.Edge{edges[0], edges[1]})
	backward := region.ClusterKey(n, []*graph.Edge{edges[1], edges[0]})
	assert.Equal(t, forward, backward, "edge order must not affect region identity")

	other := region.ClusterKey(n, []*graph.Edge{edges[0], edges[2]})
	assert.NotEqual(t, forward, other)
}

func TestVariableKey_IsPointerIdentity(t *testing.T) {
	t.Parallel()

	g := graph.New()
	x, _ := g.AddVariable("x")
	other := graph.New()
	xOther, _ := other.AddVariable("x")

	assert.Equal(t, region.VariableKey(x), region.VariableKey(x))
	assert.NotEqual(t, region.VariableKey(x), region.VariableKey(xOther),
		"same name in a different graph is a different region")
}

func TestNewCluster(t *testing.T) {
	t.Parallel()

	n, edges := chainGraph(t)

	c, err := region.NewCluster(n, []*graph.Edge{edges[0], edges[1]})
	require.NoError(t, err)
	assert.Equal(t, "transition.x1_x0", c.ID())
	assert.Equal(t, region.ClusterKey(n, edges[:2]), c.Key())

	vars := c.Variables()
	require.Len(t, vars, 2)
	assert.Equal(t, "x1", vars[0].Name)
	assert.Equal(t, "x0", vars[1].Name)

	_, err = region.NewCluster(n, nil)
	require.Error(t, err, "a cluster over zero edges violates the region contract")
}

func TestTable_AccumulatesAndUnifies(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n, edges := chainGraph(t)
	x1 := edges[0].Variable
	table := region.NewTable()

	// --- Act ---
	table.IncreaseVariable(x1, 1)
	table.IncreaseVariable(x1, 1)
	table.IncreaseVariable(x1, -2)

	// Two cluster objects over the same (node, edge set) collapse to one row.
	c1, err := region.NewCluster(n, []*graph.Edge{edges[0], edges[1]})
	require.NoError(t, err)
	c2, err := region.NewCluster(n, []*graph.Edge{edges[1], edges[0]})
	require.NoError(t, err)
	table.IncreaseCluster(c1, 1)
	table.IncreaseCluster(c2, 1)

	// --- Assert ---
	require.Len(t, table.Entries(), 2)
	assert.Equal(t, 0, table.Get(region.VariableKey(x1)).N)
	assert.Equal(t, 2, table.Get(c1.Key()).N)

	required := table.Required()
	require.Len(t, required, 1, "zeroed rows drop out")
	assert.Same(t, c1, required[0].Cluster)
	assert.Equal(t, 2, required[0].Counting.Multiplicity())
}

func TestTable_ForcedSurvivesDiscounts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	_, edges := chainGraph(t)
	x1 := edges[0].Variable
	table := region.NewTable()

	// --- Act ---
	// A forced region keeps its place no matter how many finite discounts
	// land on it afterwards.
	table.ForceVariable(x1)
	table.IncreaseVariable(x1, -3)

	// --- Assert ---
	c := table.Get(region.VariableKey(x1))
	assert.True(t, c.Forced)
	assert.True(t, c.Required())
	assert.Equal(t, 1, c.Multiplicity(), "forced regions are counted exactly once")

	require.Len(t, table.Required(), 1)
}
