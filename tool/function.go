package tool

import (
	"context"
	"fmt"

	"github.com/hallwyn/agentweave/internal/util"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// tool provider.
//
// Responsibilities:
//   - Holds the declared parameter schema
//   - Validates supplied arguments against that schema before execution
//   - Invokes the wrapped function with the caller's context
//
// A FunctionTool has no internal mutable state after construction and is safe
// for concurrent use by multiple goroutines.
type FunctionTool struct {
	schema Schema
	fn     func(ctx context.Context, params map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from an explicit schema and
// function.
//
// Example:
//
//	sum := NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  Parameters{
//	    Type: "object",
//	    Properties: map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    Required: []string{"a", "b"},
//	  },
//	  func(ctx context.Context, params map[string]any) (any, error) {
//	    return params["a"].(float64) + params["b"].(float64), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters Parameters,
	fn func(ctx context.Context, params map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		schema: Schema{
			Name:        name,
			Description: description,
			Parameters:  parameters,
			Executor:    "local",
		},
		fn: fn,
	}
}

// Schema implements Provider.
func (t *FunctionTool) Schema() Schema { return t.schema }

// Execute validates the provided params against the declared schema then
// invokes the underlying function.
func (t *FunctionTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	if err := util.ValidateParameters(params, t.schema.Parameters.asMap()); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}
	return t.fn(ctx, params)
}
