package artifact_test

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/artifact"
	"github.com/vk/factorgrid/internal/factorization"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/testutil"
	"github.com/vk/factorgrid/modules/clamp"
	"github.com/vk/factorgrid/modules/gaussian"
)

func preparedFactorization(t *testing.T) *factorization.Factorization {
	t.Helper()
	g, reg := testutil.BuildGraph(t, `
		variable "x" {}
		variable "m" {}
		variable "v" {}
		factor "gaussian" "prior" { connect = ["x", "m", "v"] }
		clamp "c_m" {
			variable = "m"
			value    = 0.0
		}
		clamp "c_v" {
			variable = "v"
			value    = 1.0
		}
	`, &clamp.Module{}, &gaussian.Module{})
	ctx, _ := testutil.Context()
	fz, err := factorization.FromGraph(ctx, g, reg)
	require.NoError(t, err)
	x, _ := g.Variable("x")
	require.NoError(t, fz.SetTargets(ctx, factorization.Request{
		TargetVariables: []*graph.Variable{x},
		FreeEnergy:      true,
	}))
	require.NoError(t, fz.Prepare(ctx))
	return fz
}

func TestFromFactorization(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fz := preparedFactorization(t)

	// --- Act ---
	doc := artifact.FromFactorization("simple_prior", fz)

	// --- Assert ---
	assert.Equal(t, "simple_prior", doc.Model)
	require.Len(t, doc.Factors, 1)

	f := doc.Factors[0]
	assert.Equal(t, "q", f.ID)
	assert.Contains(t, f.Variables, "x")
	require.Len(t, f.Entries, 4)

	// Inbound references carry the producing entry's index.
	out := f.Entries[2]
	assert.Equal(t, "prior[0]", out.Target)
	assert.Equal(t, "message", out.Kind)
	require.Len(t, out.Inbound, 2)
	require.NotNil(t, out.Inbound[0].Entry)
	assert.Equal(t, 0, *out.Inbound[0].Entry)
	require.NotNil(t, out.Inbound[1].Entry)
	assert.Equal(t, 1, *out.Inbound[1].Entry)

	marg := f.Entries[3]
	assert.Equal(t, "marginal", marg.Kind)
	assert.Equal(t, "x", marg.Target)
	assert.Equal(t, "product", marg.Rule)

	// Free-energy tables flatten into energy and entropy terms.
	require.Len(t, doc.Energy, 1)
	assert.Equal(t, artifact.EnergyTerm{Node: "prior", Count: 1}, doc.Energy[0])
	require.Len(t, doc.Entropy, 1)
	assert.Equal(t, "x", doc.Entropy[0].Region)
	assert.Equal(t, 1, doc.Entropy[0].Count)
}

func TestDocument_EncodeRoundTrips(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fz := preparedFactorization(t)
	doc := artifact.FromFactorization("simple_prior", fz)

	// --- Act ---
	data, err := doc.Encode()
	require.NoError(t, err)

	var decoded artifact.Document
	require.NoError(t, sonic.Unmarshal(data, &decoded))

	// --- Assert ---
	if diff := cmp.Diff(*doc, decoded); diff != "" {
		t.Errorf("decoded artifact differs (-want +got):\n%s", diff)
	}
	assert.Contains(t, string(data), `"model": "simple_prior"`)
}
