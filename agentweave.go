// Package agentweave provides a high-level façade over the workflow engine
// and the agent, tool and context primitives. Most applications interact
// with this package by:
//  1. Creating an Orchestrator via New() with a backend
//  2. Registering agents and tool providers
//  3. Running a workflow configuration against a user input
//
// The façade delegates orchestration to workflow.Engine while keeping setup
// ergonomics concise. Defaults are safe for local development; production
// deployments typically supply a structured logger and real model backends.
package agentweave

import (
	"context"
	"errors"

	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/flow"
	"github.com/hallwyn/agentweave/logging"
	"github.com/hallwyn/agentweave/tool"
	"github.com/hallwyn/agentweave/workflow"
)

// ErrNoBackend is returned by Run when no backend was configured.
var ErrNoBackend = errors.New("no backend configured")

// Options configures the Orchestrator.
type Options struct {
	// Backend generates agent responses. Required for Run.
	Backend core.Backend

	// Temperature is passed through to every backend request.
	Temperature float64

	// MaxToolCalls caps tool executions per agent invocation.
	MaxToolCalls int

	// Convergence overrides the done-marker check for feedback loops.
	Convergence func(output string) bool

	// ToolSink observes tool registration and execution events.
	ToolSink tool.EventSink

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Orchestrator is the high-level façade aggregating the workflow engine,
// the agent registry and the tool registry.
type Orchestrator struct {
	opts   Options
	agents *core.AgentRegistry
	tools  *tool.Registry
	engine *workflow.Engine
}

// New creates a new Orchestrator with optional overrides.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Temperature:  0.7,
		MaxToolCalls: flow.DefaultMaxToolCalls,
		ToolSink:     tool.NoOpSink{},
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	tools := tool.NewRegistry(func(o *tool.Options) {
		o.Logger = opts.Logger
		o.Sink = opts.ToolSink
	})

	engine := workflow.New(func(o *workflow.Options) {
		o.Temperature = opts.Temperature
		o.MaxToolCalls = opts.MaxToolCalls
		o.Convergence = opts.Convergence
		o.Logger = opts.Logger
	})

	return &Orchestrator{
		opts:   opts,
		agents: core.NewAgentRegistry(),
		tools:  tools,
		engine: engine,
	}
}

// RegisterAgent adds an agent definition to the orchestrator. A definition
// with an empty ID is rejected.
func (o *Orchestrator) RegisterAgent(a core.Agent) error {
	if err := o.agents.Register(a); err != nil {
		o.opts.Logger.Warn("agent.register.rejected", "error", err.Error())
		return err
	}
	return nil
}

// RegisterTool adds a tool provider to the orchestrator's registry.
func (o *Orchestrator) RegisterTool(p tool.Provider) { o.tools.Register(p) }

// Tools exposes the underlying tool registry.
func (o *Orchestrator) Tools() *tool.Registry { return o.tools }

// Agents exposes the underlying agent registry.
func (o *Orchestrator) Agents() *core.AgentRegistry { return o.agents }

// Result is the outcome of a completed workflow run.
type Result struct {
	// FinalOutput is the last timeline entry's output, which for both
	// workflow types is the final agent's answer.
	FinalOutput string

	// Outputs maps agent id to that agent's latest output.
	Outputs map[string]string

	// Timeline lists every completed invocation in execution order.
	Timeline []core.ExecutionRecord
}

// Run executes a workflow configuration against a user input and returns
// the collected result. Each call uses a fresh context store, so the same
// Orchestrator may serve many independent runs.
func (o *Orchestrator) Run(ctx context.Context, cfg workflow.Config, userInput string) (*Result, error) {
	if o.opts.Backend == nil {
		return nil, ErrNoBackend
	}

	store := core.NewContextStore(userInput)
	if err := o.engine.Run(ctx, cfg, o.agents, store, o.opts.Backend, o.tools); err != nil {
		return nil, err
	}

	timeline := store.Timeline()

	var final string
	if len(timeline) > 0 {
		final = timeline[len(timeline)-1].Output
	}

	return &Result{
		FinalOutput: final,
		Outputs:     store.Outputs(),
		Timeline:    timeline,
	}, nil
}
