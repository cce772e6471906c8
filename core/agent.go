package core

import (
	"fmt"
	"sync"
)

// Agent is an immutable persona definition: a role and goal pair identified
// by a unique ID, optionally granted a set of invocable tool names and
// per-tool configuration overrides.
//
// Agents carry no behavior of their own; the workflow engine interprets them
// against a Backend and, when Tools is non-empty, the tool-calling loop.
type Agent struct {
	// ID is the unique key for this agent within a run.
	ID string `yaml:"id" json:"id"`

	// Role is the persona the agent assumes ("Researcher", "Critic", ...).
	Role string `yaml:"role" json:"role"`

	// Goal describes what the agent should accomplish.
	Goal string `yaml:"goal" json:"goal"`

	// Tools lists the registry names this agent may invoke. Empty means the
	// agent is a plain generation step with no tool access.
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`

	// ToolConfig holds per-tool parameter defaults keyed by tool name. Values
	// are applied for parameters the model omitted, never overriding
	// model-supplied ones.
	ToolConfig map[string]map[string]any `yaml:"tool_config,omitempty" json:"tool_config,omitempty"`
}

// AgentRegistry is an explicit, run-scoped directory of agent definitions.
// It is constructed at run start and threaded as a parameter, never held as
// process-global state, so independent runs (and tests) cannot interfere.
type AgentRegistry struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewAgentRegistry creates an empty agent registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{agents: map[string]Agent{}}
}

// Register stores an agent definition by ID. Registering an existing ID
// replaces the prior definition. An empty ID is rejected.
func (r *AgentRegistry) Register(a Agent) error {
	if a.ID == "" {
		return fmt.Errorf("agent registration requires a non-empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID] = a
	return nil
}

// Get returns the agent definition for id and whether it exists.
func (r *AgentRegistry) Get(id string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return a, ok
}

// Has reports whether an agent with the given id is registered.
func (r *AgentRegistry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Len returns the number of registered agents.
func (r *AgentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
