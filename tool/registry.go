package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hallwyn/agentweave/logging"
)

// Options configures a Registry.
type Options struct {
	// Logger receives registry diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger

	// Sink receives lifecycle events. Defaults to NoOpSink.
	Sink EventSink
}

// Registry is a name-indexed directory of tool providers with a uniform
// execution wrapper. Like the agent registry it is an explicit object
// constructed at run start and passed as a parameter, never process-global
// state.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    logging.Logger
	sink      EventSink
}

// NewRegistry creates an empty tool registry.
func NewRegistry(optFns ...func(o *Options)) *Registry {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Sink:   NoOpSink{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		providers: map[string]Provider{},
		logger:    opts.Logger,
		sink:      opts.Sink,
	}
}

// Register stores a provider under its schema name. Re-registering a name
// replaces the prior entry (last write wins, no duplicate error). Providers
// with an empty schema name are rejected with a warning.
func (r *Registry) Register(p Provider) {
	name := p.Schema().Name
	if name == "" {
		r.logger.Warn("tool.register.skipped", "reason", "empty schema name")
		return
	}
	r.mu.Lock()
	r.providers[name] = p
	r.mu.Unlock()
	r.sink.ToolRegistered(name)
}

// Execute runs the named tool and always returns a Result; it never panics
// and never returns an error. Unknown names, provider errors and provider
// panics are all captured as failures. A not-found failure reports zero
// execution time since no provider code ran.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) Result {
	r.mu.RLock()
	p, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		res := Fail(fmt.Sprintf("Tool %s not found", name), 0)
		r.sink.ExecutionCompleted(name, res)
		return res
	}

	r.sink.ExecutionStarted(name, params)

	start := time.Now()
	output, err := r.executeSafely(ctx, p, params)
	elapsed := time.Since(start)

	var res Result
	if err != nil {
		res = Fail(err.Error(), elapsed)
	} else {
		res = Succeed(output, elapsed)
	}
	r.sink.ExecutionCompleted(name, res)
	return res
}

// executeSafely invokes the provider with panic recovery so a misbehaving
// tool cannot take down the loop.
func (r *Registry) executeSafely(ctx context.Context, p Provider, params map[string]any) (output any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool.execution.panic", "tool", p.Schema().Name, "recover", fmt.Sprint(rec))
			output = nil
			err = fmt.Errorf("tool panicked: %v", rec)
		}
	}()
	return p.Execute(ctx, params)
}

// List returns the schemas of every registered tool, sorted by name for
// deterministic prompt rendering.
func (r *Registry) List() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemas := make([]Schema, 0, len(r.providers))
	for _, p := range r.providers {
		schemas = append(schemas, p.Schema())
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas
}

// ForAgent returns the schemas for the given allow-list, preserving the
// list's order. Names absent from the registry are silently dropped; strict
// validation of agent tool grants is the config loader's responsibility.
func (r *Registry) ForAgent(names []string) []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemas := make([]Schema, 0, len(names))
	for _, name := range names {
		if p, ok := r.providers[name]; ok {
			schemas = append(schemas, p.Schema())
		}
	}
	return schemas
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// Sink returns the registry's event sink so cooperating components (the
// tool-calling loop) can report detection and parse events to the same
// side-channel.
func (r *Registry) Sink() EventSink { return r.sink }
