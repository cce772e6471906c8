package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hallwyn/agentweave/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequential_StepOrderAndOutputs(t *testing.T) {
	backend := core.NewMockBackend()
	backend.SetHandler(func(req core.Request) (string, error) {
		// Identify the step by its role framing.
		for _, id := range []string{"research", "write", "edit"} {
			if strings.Contains(req.System, "Role "+id) {
				return "output of " + id, nil
			}
		}
		return "", errors.New("unexpected request")
	})

	store := core.NewContextStore("write an article")
	cfg := Config{Type: TypeSequential, Steps: []Step{
		{Agent: "research"}, {Agent: "write"}, {Agent: "edit"},
	}}

	err := New().Run(context.Background(), cfg, newAgents(t, "research", "write", "edit"), store, backend, nil)
	require.NoError(t, err)

	tl := store.Timeline()
	require.Len(t, tl, 3)
	assert.Equal(t, "research", tl[0].AgentID)
	assert.Equal(t, "write", tl[1].AgentID)
	assert.Equal(t, "edit", tl[2].AgentID)

	outputs := store.Outputs()
	assert.Len(t, outputs, 3)
	assert.Equal(t, "output of edit", outputs["edit"])
}

func TestSequential_LaterStepsSeeEarlierOutputs(t *testing.T) {
	backend := core.NewMockBackend()
	var secondPrompt string
	backend.SetHandler(func(req core.Request) (string, error) {
		if strings.Contains(req.System, "Role second") {
			secondPrompt = req.User
		}
		return "step done", nil
	})

	store := core.NewContextStore("task")
	cfg := Config{Type: TypeSequential, Steps: []Step{{Agent: "first"}, {Agent: "second"}}}

	err := New().Run(context.Background(), cfg, newAgents(t, "first", "second"), store, backend, nil)
	require.NoError(t, err)

	assert.Contains(t, secondPrompt, "Role first (first): step done",
		"step n+1 must see step n's record")
}

func TestSequential_StopsOnBackendError(t *testing.T) {
	backend := core.NewMockBackend()
	calls := 0
	backend.SetHandler(func(core.Request) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("provider down")
		}
		return fmt.Sprintf("output %d", calls), nil
	})

	store := core.NewContextStore("task")
	cfg := Config{Type: TypeSequential, Steps: []Step{{Agent: "a"}, {Agent: "b"}, {Agent: "c"}}}

	err := New().Run(context.Background(), cfg, newAgents(t, "a", "b", "c"), store, backend, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
	assert.Equal(t, 2, calls, "no step may start after a failure")
	assert.Len(t, store.Timeline(), 1, "only the completed step is merged")
}
