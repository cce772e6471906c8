package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/flow"
	"github.com/hallwyn/agentweave/logging"
	"github.com/hallwyn/agentweave/tool"
)

// Options configures an Engine.
type Options struct {
	// Temperature is passed through to every backend request.
	Temperature float64

	// MaxToolCalls bounds the tool-calling loop per agent invocation.
	MaxToolCalls int

	// Convergence overrides the done-marker check for feedback loops. It
	// receives the "then" output and returns true to stop iterating.
	Convergence func(output string) bool

	// Logger receives engine diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine executes workflow configurations. It holds no per-run state: the
// same Engine may drive many runs, each with its own context store.
type Engine struct {
	temperature  float64
	maxToolCalls int
	convergence  func(string) bool
	logger       logging.Logger
}

// New creates a workflow engine.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Temperature:  0.7,
		MaxToolCalls: flow.DefaultMaxToolCalls,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		temperature:  opts.Temperature,
		maxToolCalls: opts.MaxToolCalls,
		convergence:  opts.Convergence,
		logger:       opts.Logger,
	}
}

// Run executes the configured workflow, mutating store in place. On return
// without error, store.Outputs has an entry for every invoked agent and the
// timeline carries one record per invocation in declared execution order.
//
// tools may be nil when no agent declares tool access.
func (e *Engine) Run(
	ctx context.Context,
	cfg Config,
	agents *core.AgentRegistry,
	store *core.ContextStore,
	backend core.Backend,
	tools *tool.Registry,
) error {
	if err := cfg.Validate(agents); err != nil {
		return err
	}

	start := time.Now()
	var err error
	switch cfg.Type {
	case TypeSequential:
		err = e.runSequential(ctx, cfg, agents, store, backend, tools)
	case TypeParallel:
		err = e.runParallel(ctx, cfg, agents, store, backend, tools)
	}

	e.logger.Info("workflow.run.complete",
		"type", string(cfg.Type),
		"invocations", len(store.Timeline()),
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)
	return err
}

// invokeAgent performs one agent invocation against a fixed snapshot: builds
// the prompt, runs either a plain backend call or the tool-calling loop, and
// returns the completed execution record. The record is not merged here;
// strategies decide merge order.
func (e *Engine) invokeAgent(
	ctx context.Context,
	agent core.Agent,
	snap core.Snapshot,
	backend core.Backend,
	tools *tool.Registry,
) (core.ExecutionRecord, error) {
	system, user := core.BuildPrompt(agent, snap)

	started := time.Now()
	var (
		output string
		err    error
	)
	if len(agent.Tools) > 0 && tools != nil {
		loop := flow.NewLoop(backend, tools, func(o *flow.Options) {
			o.MaxToolCalls = e.maxToolCalls
			o.Temperature = e.temperature
			o.Logger = e.logger
		})
		output, _, err = loop.Run(ctx, agent, system, user)
	} else {
		output, err = backend.Generate(ctx, core.Request{
			System:      system,
			User:        user,
			Temperature: e.temperature,
		})
	}
	completed := time.Now()

	if err != nil {
		return core.ExecutionRecord{}, fmt.Errorf("agent %s: %w", agent.ID, err)
	}

	e.logger.Debug("workflow.agent.invoked",
		"agent", agent.ID,
		"duration_ms", completed.Sub(started).Milliseconds(),
	)

	return core.ExecutionRecord{
		AgentID:     agent.ID,
		Role:        agent.Role,
		Output:      output,
		StartedAt:   started,
		CompletedAt: completed,
	}, nil
}

// converged reports whether a "then" output satisfies the feedback loop's
// convergence criterion.
func (e *Engine) converged(fb *FeedbackLoop, output string) bool {
	if e.convergence != nil {
		return e.convergence(output)
	}
	return strings.Contains(output, fb.doneMarker())
}
