package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumTool() *FunctionTool {
	return NewFunctionTool(
		"calculate_sum",
		"Calculate the sum of two numbers",
		Parameters{
			Type: "object",
			Properties: map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			Required: []string{"a", "b"},
		},
		func(_ context.Context, params map[string]any) (any, error) {
			return params["a"].(float64) + params["b"].(float64), nil
		},
	)
}

func TestFunctionTool_Execute(t *testing.T) {
	out, err := sumTool().Execute(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, out)
}

func TestFunctionTool_MissingRequired(t *testing.T) {
	_, err := sumTool().Execute(context.Background(), map[string]any{"a": 2.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter validation failed")
	assert.Contains(t, err.Error(), "b")
}

func TestFunctionTool_WrongType(t *testing.T) {
	_, err := sumTool().Execute(context.Background(), map[string]any{"a": 2.0, "b": "three"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected type number")
}

func TestFunctionTool_SchemaExposed(t *testing.T) {
	s := sumTool().Schema()
	assert.Equal(t, "calculate_sum", s.Name)
	assert.Equal(t, "object", s.Parameters.Type)
	assert.Equal(t, []string{"a", "b"}, s.Parameters.Required)
	assert.Equal(t, "local", s.Executor)
}
