package workflow

import (
	"context"
	"fmt"

	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/tool"
)

// runSequential executes steps strictly in order. Each step's output is
// merged into the store before the next step starts, so the prompt for step
// n+1 always contains step n's record.
func (e *Engine) runSequential(
	ctx context.Context,
	cfg Config,
	agents *core.AgentRegistry,
	store *core.ContextStore,
	backend core.Backend,
	tools *tool.Registry,
) error {
	for i, step := range cfg.Steps {
		agent, ok := agents.Get(step.Agent)
		if !ok {
			return fmt.Errorf("%w: step %d references %q", ErrUnknownAgent, i, step.Agent)
		}

		rec, err := e.invokeAgent(ctx, agent, store.Snapshot(), backend, tools)
		if err != nil {
			return fmt.Errorf("sequential step %d: %w", i, err)
		}
		store.RecordOutput(rec)
	}
	return nil
}
