package core

import (
	"context"
	"fmt"
	"sync"
)

// Request captures a single generation request: system instructions, user
// content and sampling temperature. There is no streaming or partial-result
// contract at this layer; a Backend either returns the complete text or an
// error.
type Request struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Backend is the opaque language-model generation contract consumed by the
// workflow engine and the tool-calling loop. Implementations must be safe for
// concurrent use; parallel workflow branches issue overlapping calls.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// MockBackend is a lightweight in-memory Backend useful for tests and
// examples. Responses can be scripted per exact user prompt, or a handler can
// be installed for request-dependent behavior (counters, injected latency,
// forced errors).
type MockBackend struct {
	mu        sync.Mutex
	responses map[string]string
	handler   func(Request) (string, error)
	requests  []Request
}

// NewMockBackend constructs an empty MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{responses: map[string]string{}}
}

// AddResponse registers a deterministic canned completion for an exact user
// prompt.
func (m *MockBackend) AddResponse(userPrompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[userPrompt] = response
}

// SetHandler installs a function that answers every request. When set it takes
// precedence over canned responses.
func (m *MockBackend) SetHandler(fn func(Request) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
}

// Requests returns a copy of every request received, in arrival order.
func (m *MockBackend) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// Generate implements Backend.
func (m *MockBackend) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	handler := m.handler
	canned, ok := m.responses[req.User]
	m.mu.Unlock()

	if handler != nil {
		return handler(req)
	}
	if ok {
		return canned, nil
	}
	return fmt.Sprintf("Mock response to: %s", req.User), nil
}
