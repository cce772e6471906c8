package tool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubProvider is a minimal provider used across registry tests.
type stubProvider struct {
	name   string
	output any
	err    error
	panics bool
	delay  time.Duration
}

func (s *stubProvider) Schema() Schema {
	return Schema{
		Name:        s.name,
		Description: "stub",
		Parameters:  Parameters{Type: "object", Properties: map[string]any{}},
		Executor:    "local",
	}
}

func (s *stubProvider) Execute(context.Context, map[string]any) (any, error) {
	if s.panics {
		panic("stub blew up")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.output, s.err
}

// recordingSink captures events for assertions.
type recordingSink struct {
	mu         sync.Mutex
	registered []string
	completed  []Result
}

func (r *recordingSink) ToolRegistered(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, name)
}
func (r *recordingSink) ExecutionStarted(string, map[string]any) {}
func (r *recordingSink) ExecutionCompleted(_ string, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, res)
}
func (r *recordingSink) CallDetected(string)    {}
func (r *recordingSink) CallParseFailed(string) {}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()

	res := reg.Execute(context.Background(), "nope", nil)

	assert.False(t, res.Success)
	assert.Equal(t, "Tool nope not found", res.Error)
	assert.Zero(t, res.ExecutionTime)
	assert.Nil(t, res.Output)
}

func TestRegistry_ExecuteSuccess(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubProvider{name: "echo", output: "hello", delay: time.Millisecond})

	res := reg.Execute(context.Background(), "echo", map[string]any{"x": 1})

	assert.True(t, res.Success)
	assert.Equal(t, "hello", res.Output)
	assert.Empty(t, res.Error)
	assert.Greater(t, res.ExecutionTime, time.Duration(0))
}

func TestRegistry_ExecuteProviderError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubProvider{name: "broken", err: errors.New("backend unreachable")})

	res := reg.Execute(context.Background(), "broken", nil)

	assert.False(t, res.Success)
	assert.Equal(t, "backend unreachable", res.Error)
	assert.Nil(t, res.Output)
}

func TestRegistry_ExecuteProviderPanic(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubProvider{name: "bomb", panics: true})

	assert.NotPanics(t, func() {
		res := reg.Execute(context.Background(), "bomb", nil)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "tool panicked")
	})
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubProvider{name: "calc", output: "v1"})
	reg.Register(&stubProvider{name: "calc", output: "v2"})

	res := reg.Execute(context.Background(), "calc", nil)
	assert.Equal(t, "v2", res.Output)
	assert.Len(t, reg.List(), 1)
}

func TestRegistry_ForAgentDropsUnknown(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubProvider{name: "alpha"})
	reg.Register(&stubProvider{name: "beta"})

	schemas := reg.ForAgent([]string{"beta", "ghost", "alpha"})

	assert.Len(t, schemas, 2)
	assert.Equal(t, "beta", schemas[0].Name)
	assert.Equal(t, "alpha", schemas[1].Name)
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubProvider{name: "zeta"})
	reg.Register(&stubProvider{name: "alpha"})

	schemas := reg.List()
	assert.Equal(t, "alpha", schemas[0].Name)
	assert.Equal(t, "zeta", schemas[1].Name)
}

func TestRegistry_SinkReceivesEvents(t *testing.T) {
	sink := &recordingSink{}
	reg := NewRegistry(func(o *Options) { o.Sink = sink })

	reg.Register(&stubProvider{name: "echo", output: "ok"})
	reg.Execute(context.Background(), "echo", nil)
	reg.Execute(context.Background(), "missing", nil)

	assert.Equal(t, []string{"echo"}, sink.registered)
	assert.Len(t, sink.completed, 2)
	assert.True(t, sink.completed[0].Success)
	assert.False(t, sink.completed[1].Success)
}
