package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/tool"
)

// runParallel executes the branch set concurrently, merges the results in
// branch-declaration order and invokes the "then" agent over the merged
// context. With a feedback loop enabled the whole cycle repeats until the
// "then" output converges or the iteration budget is spent; exhaustion leaves
// the last output in place and is not a failure.
func (e *Engine) runParallel(
	ctx context.Context,
	cfg Config,
	agents *core.AgentRegistry,
	store *core.ContextStore,
	backend core.Backend,
	tools *tool.Registry,
) error {
	fb := cfg.Then.FeedbackLoop
	maxIters := fb.maxIterations()

	for iter := 1; iter <= maxIters; iter++ {
		if err := e.runBranchJoin(ctx, cfg, agents, store, backend, tools); err != nil {
			return err
		}

		thenAgent, _ := agents.Get(cfg.Then.Agent)
		rec, err := e.invokeAgent(ctx, thenAgent, store.Snapshot(), backend, tools)
		if err != nil {
			return fmt.Errorf("then agent: %w", err)
		}
		store.RecordOutput(rec)

		if maxIters == 1 {
			return nil
		}
		if e.converged(fb, rec.Output) {
			e.logger.Info("workflow.feedback.converged", "iteration", iter)
			return nil
		}
		e.logger.Debug("workflow.feedback.iteration", "iteration", iter, "max", maxIters)
	}

	// Budget spent without convergence: the last "then" output stands as a
	// best-effort result.
	e.logger.Warn("workflow.feedback.exhausted", "iterations", maxIters)
	return nil
}

// runBranchJoin invokes every branch concurrently against one snapshot taken
// before any branch starts, waits for all of them (a join, not a race) and
// merges the records in declaration order. Any branch failure fails the whole
// join; partial results are never merged.
func (e *Engine) runBranchJoin(
	ctx context.Context,
	cfg Config,
	agents *core.AgentRegistry,
	store *core.ContextStore,
	backend core.Backend,
	tools *tool.Registry,
) error {
	snap := store.Snapshot()

	recs := make([]core.ExecutionRecord, len(cfg.Branches))
	errCh := make(chan error, len(cfg.Branches))
	var wg sync.WaitGroup

	for i, branchID := range cfg.Branches {
		agent, ok := agents.Get(branchID)
		if !ok {
			return fmt.Errorf("%w: branch %d references %q", ErrUnknownAgent, i, branchID)
		}

		wg.Add(1)
		go func(idx int, a core.Agent) {
			defer wg.Done()
			rec, err := e.invokeAgent(ctx, a, snap, backend, tools)
			if err != nil {
				errCh <- fmt.Errorf("branch %s: %w", a.ID, err)
				return
			}
			recs[idx] = rec
		}(i, agent)
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return err
	}

	// Merge in branch-declaration order, never completion order, to keep the
	// timeline deterministic.
	for _, rec := range recs {
		store.RecordOutput(rec)
	}
	return nil
}
