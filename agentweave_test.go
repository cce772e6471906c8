package agentweave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/workflow"
)

func TestOrchestrator_SequentialRun(t *testing.T) {
	backend := core.NewMockBackend()
	backend.SetHandler(func(req core.Request) (string, error) {
		return "answer for: " + req.User[:20], nil
	})

	orch := New(func(o *Options) {
		o.Backend = backend
	})
	orch.RegisterAgent(core.Agent{ID: "researcher", Role: "Researcher", Goal: "Dig up facts."})
	orch.RegisterAgent(core.Agent{ID: "writer", Role: "Writer", Goal: "Write it up."})

	res, err := orch.Run(context.Background(), workflow.Config{
		Type: workflow.TypeSequential,
		Steps: []workflow.Step{
			{Agent: "researcher"},
			{Agent: "writer"},
		},
	}, "explain the tides")
	require.NoError(t, err)

	require.Len(t, res.Timeline, 2)
	assert.Equal(t, "researcher", res.Timeline[0].AgentID)
	assert.Equal(t, "writer", res.Timeline[1].AgentID)
	assert.Equal(t, res.Timeline[1].Output, res.FinalOutput)
	assert.Len(t, res.Outputs, 2)
}

func TestOrchestrator_RegisterAgentEmptyID(t *testing.T) {
	orch := New()

	err := orch.RegisterAgent(core.Agent{Role: "R", Goal: "G"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-empty id")
	assert.Equal(t, 0, orch.Agents().Len())

	require.NoError(t, orch.RegisterAgent(core.Agent{ID: "a", Role: "R", Goal: "G"}))
	assert.Equal(t, 1, orch.Agents().Len())
}

func TestOrchestrator_NoBackend(t *testing.T) {
	orch := New()
	orch.RegisterAgent(core.Agent{ID: "a", Role: "R", Goal: "G"})

	_, err := orch.Run(context.Background(), workflow.Config{
		Type:  workflow.TypeSequential,
		Steps: []workflow.Step{{Agent: "a"}},
	}, "input")

	require.ErrorIs(t, err, ErrNoBackend)
}

func TestOrchestrator_InvalidConfig(t *testing.T) {
	orch := New(func(o *Options) {
		o.Backend = core.NewMockBackend()
	})

	_, err := orch.Run(context.Background(), workflow.Config{Type: "ring"}, "input")
	require.ErrorIs(t, err, workflow.ErrUnknownWorkflowType)
}
