package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/hallwyn/agentweave/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAgents registers simple role/goal agents for the given ids.
func newAgents(t *testing.T, ids ...string) *core.AgentRegistry {
	t.Helper()
	reg := core.NewAgentRegistry()
	for _, id := range ids {
		require.NoError(t, reg.Register(core.Agent{
			ID:   id,
			Role: "Role " + id,
			Goal: "goal of " + id,
		}))
	}
	return reg
}

func TestEngine_UnknownWorkflowType(t *testing.T) {
	backend := core.NewMockBackend()
	store := core.NewContextStore("in")

	err := New().Run(context.Background(), Config{Type: "pipeline"}, newAgents(t, "a"), store, backend, nil)

	require.ErrorIs(t, err, ErrUnknownWorkflowType)
	assert.Empty(t, backend.Requests(), "config errors must abort before any backend call")
	assert.Empty(t, store.Timeline())
}

func TestEngine_UnknownAgentID(t *testing.T) {
	backend := core.NewMockBackend()
	store := core.NewContextStore("in")
	cfg := Config{Type: TypeSequential, Steps: []Step{{Agent: "a"}, {Agent: "ghost"}}}

	err := New().Run(context.Background(), cfg, newAgents(t, "a"), store, backend, nil)

	require.ErrorIs(t, err, ErrUnknownAgent)
	assert.Empty(t, backend.Requests())
}

func TestEngine_ParallelValidatesThen(t *testing.T) {
	backend := core.NewMockBackend()
	store := core.NewContextStore("in")
	cfg := Config{Type: TypeParallel, Branches: []string{"a"}}

	err := New().Run(context.Background(), cfg, newAgents(t, "a"), store, backend, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "then agent")
}

func TestConfig_FeedbackDefaults(t *testing.T) {
	var fb *FeedbackLoop
	assert.Equal(t, 1, fb.maxIterations())

	fb = &FeedbackLoop{Enabled: true}
	assert.Equal(t, DefaultMaxIterations, fb.maxIterations())
	assert.Equal(t, DefaultDoneMarker, fb.doneMarker())

	fb = &FeedbackLoop{Enabled: true, MaxIterations: 7, DoneMarker: "DONE"}
	assert.Equal(t, 7, fb.maxIterations())
	assert.Equal(t, "DONE", fb.doneMarker())
}

func TestEngine_CustomConvergence(t *testing.T) {
	e := New(func(o *Options) {
		o.Convergence = func(out string) bool { return strings.HasPrefix(out, "ok") }
	})
	fb := &FeedbackLoop{Enabled: true}
	assert.True(t, e.converged(fb, "ok: finished"))
	assert.False(t, e.converged(fb, "CONVERGED"), "custom predicate replaces the marker check")
}
