// Package config loads agent and workflow definitions from YAML files.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/workflow"
)

// Settings carries run-level tunables shared by every agent.
type Settings struct {
	// Temperature is passed through to the backend. Zero keeps the
	// backend's default.
	Temperature float64 `yaml:"temperature"`

	// MaxToolCalls caps tool executions per agent invocation. Zero keeps
	// the loop's default.
	MaxToolCalls int `yaml:"max_tool_calls"`
}

// File is the top-level shape of a configuration file.
type File struct {
	Agents   []core.Agent    `yaml:"agents"`
	Workflow workflow.Config `yaml:"workflow"`
	Settings Settings        `yaml:"settings"`
}

// Load reads and parses a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration bytes. Unknown fields are rejected so typos
// surface as load errors instead of silently dropped settings.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// validate checks the file-level structure. Workflow references are
// validated separately against the populated agent registry.
func (f *File) validate() error {
	if len(f.Agents) == 0 {
		return fmt.Errorf("config defines no agents")
	}

	seen := make(map[string]struct{}, len(f.Agents))
	for i, agent := range f.Agents {
		if agent.ID == "" {
			return fmt.Errorf("agent %d has an empty id", i)
		}
		if _, dup := seen[agent.ID]; dup {
			return fmt.Errorf("duplicate agent id %q", agent.ID)
		}
		seen[agent.ID] = struct{}{}

		if agent.Role == "" {
			return fmt.Errorf("agent %q has an empty role", agent.ID)
		}
		if agent.Goal == "" {
			return fmt.Errorf("agent %q has an empty goal", agent.ID)
		}
	}

	return nil
}

// Registry builds an agent registry from the file's agent definitions.
func (f *File) Registry() *core.AgentRegistry {
	reg := core.NewAgentRegistry()
	for _, agent := range f.Agents {
		reg.Register(agent)
	}

	return reg
}

// CheckToolReferences verifies that every tool an agent names is known.
// Call it after the tool registry is populated.
func (f *File) CheckToolReferences(known func(name string) bool) error {
	for _, agent := range f.Agents {
		for _, name := range agent.Tools {
			if !known(name) {
				return fmt.Errorf("agent %q references unknown tool %q", agent.ID, name)
			}
		}
	}

	return nil
}
