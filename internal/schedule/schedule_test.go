package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/schedule"
	"github.com/vk/factorgrid/internal/testutil"
	"github.com/vk/factorgrid/modules/clamp"
	"github.com/vk/factorgrid/modules/gaussian"
)

func TestSchedule_ValidateRejectsBrokenOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
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
	x, _ := g.Variable("x")
	ctx, _ := testutil.Context()

	sched, err := schedule.Generate(ctx, reg, fullScope{g}, schedule.Targets{
		Variables: []*graph.Variable{x},
	})
	require.NoError(t, err)
	require.NoError(t, sched.Validate())

	// --- Act ---
	// Swapping two entries breaks both the index and the dependency order.
	reversed := schedule.Schedule{sched[len(sched)-1], sched[0]}

	// --- Assert ---
	require.Error(t, reversed.Validate())
}

func TestEntryKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "message", schedule.MessageEntry.String())
	assert.Equal(t, "marginal", schedule.MarginalEntry.String())
	assert.Equal(t, "joint", schedule.JointEntry.String())
}
