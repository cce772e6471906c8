package tool

import (
	"context"
	"time"
)

// Parameters is the minimal JSON-schema-like description of a tool's accepted
// arguments: a type tag (always "object" for current tools), a property map
// and an optional required-field list.
type Parameters struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required,omitempty"`
}

// asMap converts the parameter description to the generic map shape consumed
// by schema validation and prompt rendering.
func (p Parameters) asMap() map[string]any {
	m := map[string]any{
		"type":       p.Type,
		"properties": p.Properties,
	}
	if len(p.Required) > 0 {
		m["required"] = p.Required
	}
	return m
}

// Schema describes a tool for model-facing discovery. It is purely
// descriptive: the registry dispatches on Name, and the rest is rendered into
// prompts verbatim.
type Schema struct {
	// Name is the unique registry identifier (snake_case recommended).
	Name string `json:"name"`

	// Description tells the model when and how to use the tool.
	Description string `json:"description"`

	// Parameters declares the accepted argument shape.
	Parameters Parameters `json:"parameters"`

	// Executor categorizes the implementation ("local", "network", "sandbox").
	Executor string `json:"executor"`
}

// Provider is the closed capability surface every tool implements. Providers
// should be safe for concurrent use; parallel workflow branches may dispatch
// overlapping executions.
type Provider interface {
	// Schema returns the descriptive schema for this tool.
	Schema() Schema

	// Execute runs the tool with the given parameters. Errors are reported
	// through the error return; the registry converts them into failed
	// Results so they never escape as exceptions.
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// Call records one requested tool invocation. Calls are ephemeral: they are
// scoped to a single tool-calling-loop run and optionally retained in the
// audit list returned to the caller.
type Call struct {
	ID         string         `json:"id"`
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Result is the uniform outcome of a tool execution.
//
// Invariant: Success == false implies Output is nil and Error is non-empty.
type Result struct {
	Success       bool          `json:"success"`
	Output        any           `json:"output,omitempty"`
	Error         string        `json:"error,omitempty"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// Succeed builds a successful Result carrying output and elapsed time.
func Succeed(output any, elapsed time.Duration) Result {
	return Result{Success: true, Output: output, ExecutionTime: elapsed}
}

// Fail builds a failed Result carrying the error text and elapsed time.
func Fail(errText string, elapsed time.Duration) Result {
	return Result{Success: false, Error: errText, ExecutionTime: elapsed}
}
