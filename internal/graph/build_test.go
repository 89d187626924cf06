package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/testutil"
	"github.com/vk/factorgrid/modules/clamp"
	"github.com/vk/factorgrid/modules/gaussian"
)

func TestBuild_FullModel(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
		variable "x" {}
		variable "m" {}
		variable "v" {}

		factor "gaussian" "prior" {
			connect = ["x", "m", "v"]
		}

		clamp "clamp_m" {
			variable = "m"
			value    = 0.0
		}

		clamp "clamp_v" {
			variable = "v"
			value    = 1.0
		}

		breaker {
			node   = "prior"
			slot   = 0
			family = "gaussian"
		}
	`

	// --- Act ---
	g, _ := testutil.BuildGraph(t, src, &clamp.Module{}, &gaussian.Module{})

	// --- Assert ---
	require.Len(t, g.Variables(), 3)
	require.Len(t, g.Nodes(), 3)

	prior, ok := g.Node("prior")
	require.True(t, ok)
	assert.True(t, prior.Interfaces[0].RequiresBreaker)
	assert.Equal(t, "gaussian", prior.Interfaces[0].BreakerFamily)

	clampM, ok := g.Node("clamp_m")
	require.True(t, ok)
	require.NotNil(t, clampM.Value)

	m, ok := g.Variable("m")
	require.True(t, ok)
	require.Len(t, m.Edges, 1)
	assert.True(t, m.Edges[0].Complete())
}

func TestBuild_UnknownKind(t *testing.T) {
	t.Parallel()

	model, err := testutil.LoadModel(t, `
		variable "x" {}
		factor "wishart" "w" { connect = ["x"] }
	`)
	require.NoError(t, err)

	ctx, _ := testutil.Context()
	_, err = graph.Build(ctx, model, testutil.Registry(t, &clamp.Module{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unregistered node kind 'wishart'")
}

func TestBuild_UnknownVariable(t *testing.T) {
	t.Parallel()

	model, err := testutil.LoadModel(t, `
		variable "x" {}
		factor "gaussian" "prior" { connect = ["x", "m", "v"] }
	`)
	require.NoError(t, err)

	ctx, _ := testutil.Context()
	_, err = graph.Build(ctx, model, testutil.Registry(t, &gaussian.Module{}))
	require.ErrorIs(t, err, graph.ErrUnknownVariable)
	assert.Contains(t, err.Error(), "'m'")
}

func TestBuild_BreakerWithUnknownFamily(t *testing.T) {
	t.Parallel()

	model, err := testutil.LoadModel(t, `
		variable "x" {}
		clamp "c" {
			variable = "x"
			value    = 1.0
		}
		breaker {
			node   = "c"
			slot   = 0
			family = "wishart"
		}
	`)
	require.NoError(t, err)

	ctx, _ := testutil.Context()
	_, err = graph.Build(ctx, model, testutil.Registry(t, &clamp.Module{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unregistered family 'wishart'")
}
