package workflow

import (
	"errors"
	"fmt"

	"github.com/hallwyn/agentweave/core"
)

// Type identifies a workflow variant.
type Type string

const (
	// TypeSequential runs an ordered step list, one agent after another.
	TypeSequential Type = "sequential"

	// TypeParallel runs a branch set concurrently, then a designated agent
	// over the merged results (optionally iterated via a feedback loop).
	TypeParallel Type = "parallel"
)

// DefaultMaxIterations bounds feedback-loop cycles when unset.
const DefaultMaxIterations = 3

// DefaultDoneMarker is the substring checked against the "then" output to
// detect convergence when no custom predicate is installed.
const DefaultDoneMarker = "CONVERGED"

// ErrUnknownWorkflowType marks a config naming an unsupported variant.
var ErrUnknownWorkflowType = errors.New("unknown workflow type")

// ErrUnknownAgent marks a step or branch referencing an unregistered agent id.
var ErrUnknownAgent = errors.New("unknown agent id")

// Step is one entry of a sequential workflow.
type Step struct {
	Agent string `yaml:"agent" json:"agent"`
}

// FeedbackLoop configures iterative refinement of a parallel workflow.
type FeedbackLoop struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	MaxIterations int    `yaml:"max_iterations" json:"max_iterations"`
	DoneMarker    string `yaml:"done_marker,omitempty" json:"done_marker,omitempty"`
}

// maxIterations returns the configured budget with the default applied.
func (f *FeedbackLoop) maxIterations() int {
	if f == nil || !f.Enabled {
		return 1
	}
	if f.MaxIterations < 1 {
		return DefaultMaxIterations
	}
	return f.MaxIterations
}

// doneMarker returns the convergence marker with the default applied.
func (f *FeedbackLoop) doneMarker() string {
	if f == nil || f.DoneMarker == "" {
		return DefaultDoneMarker
	}
	return f.DoneMarker
}

// Then designates the agent invoked after a parallel join.
type Then struct {
	Agent        string        `yaml:"agent" json:"agent"`
	FeedbackLoop *FeedbackLoop `yaml:"feedback_loop,omitempty" json:"feedback_loop,omitempty"`
}

// Config describes one workflow run.
type Config struct {
	Type     Type     `yaml:"type" json:"type"`
	Steps    []Step   `yaml:"steps,omitempty" json:"steps,omitempty"`
	Branches []string `yaml:"branches,omitempty" json:"branches,omitempty"`
	Then     *Then    `yaml:"then,omitempty" json:"then,omitempty"`
}

// Validate checks the config against the agent registry. It is called before
// any backend call so configuration errors abort the run up front.
func (c Config) Validate(agents *core.AgentRegistry) error {
	switch c.Type {
	case TypeSequential:
		if len(c.Steps) == 0 {
			return fmt.Errorf("sequential workflow requires at least one step")
		}
		for i, step := range c.Steps {
			if !agents.Has(step.Agent) {
				return fmt.Errorf("%w: step %d references %q", ErrUnknownAgent, i, step.Agent)
			}
		}
	case TypeParallel:
		if len(c.Branches) == 0 {
			return fmt.Errorf("parallel workflow requires at least one branch")
		}
		for i, branch := range c.Branches {
			if !agents.Has(branch) {
				return fmt.Errorf("%w: branch %d references %q", ErrUnknownAgent, i, branch)
			}
		}
		if c.Then == nil || c.Then.Agent == "" {
			return fmt.Errorf("parallel workflow requires a then agent")
		}
		if !agents.Has(c.Then.Agent) {
			return fmt.Errorf("%w: then references %q", ErrUnknownAgent, c.Then.Agent)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWorkflowType, c.Type)
	}
	return nil
}
