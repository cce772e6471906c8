package core

import (
	"sync"
	"time"
)

// ExecutionRecord is one timeline entry capturing a single agent invocation:
// who ran, what it produced and when. Records are immutable once appended.
type ExecutionRecord struct {
	AgentID     string    `json:"agent_id"`
	Role        string    `json:"role"`
	Output      string    `json:"output"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Snapshot is an isolated read view of a ContextStore, safe to hand to the
// prompt builder while the run continues. Maps and slices are copies; mutating
// a snapshot never affects the store.
type Snapshot struct {
	UserInput string
	Outputs   map[string]string
	Timeline  []ExecutionRecord
}

// ContextStore is the shared state for exactly one workflow run. It tracks the
// immutable user input, the latest output per agent ID (later writes overwrite
// earlier ones) and the append-only execution timeline.
//
// Timeline order is the declared/causal execution order, not completion order.
// The prompt builder renders prior outputs in timeline order, so callers that
// merge concurrent results are responsible for appending them deterministically.
//
// Contract:
//   - RecordOutput performs a whole-output write: one outputs entry update and
//     exactly one timeline append, atomically under the lock
//   - Snapshot, Outputs and Timeline return defensive copies
//
// It is safe for concurrent use, although the workflow engine is the only
// intended writer.
type ContextStore struct {
	mu        sync.RWMutex
	userInput string
	outputs   map[string]string
	timeline  []ExecutionRecord
}

// NewContextStore creates a store for a run with the given user input. The
// input is fixed for the lifetime of the store.
func NewContextStore(userInput string) *ContextStore {
	return &ContextStore{
		userInput: userInput,
		outputs:   map[string]string{},
	}
}

// UserInput returns the original user input for the run.
func (s *ContextStore) UserInput() string { return s.userInput }

// RecordOutput stores rec.Output as the latest output for rec.AgentID and
// appends rec to the timeline. Re-invocations of the same agent overwrite the
// outputs entry but always append a fresh timeline record.
func (s *ContextStore) RecordOutput(rec ExecutionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[rec.AgentID] = rec.Output
	s.timeline = append(s.timeline, rec)
}

// Output returns the latest output recorded for agentID and whether one exists.
func (s *ContextStore) Output(agentID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, ok := s.outputs[agentID]
	return out, ok
}

// Outputs returns a copy of the latest per-agent outputs.
func (s *ContextStore) Outputs() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.outputs))
	for k, v := range s.outputs {
		out[k] = v
	}
	return out
}

// Timeline returns a copy of the full execution timeline.
func (s *ContextStore) Timeline() []ExecutionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tl := make([]ExecutionRecord, len(s.timeline))
	copy(tl, s.timeline)
	return tl
}

// Snapshot returns an isolated read view of the current state.
func (s *ContextStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outputs := make(map[string]string, len(s.outputs))
	for k, v := range s.outputs {
		outputs[k] = v
	}
	timeline := make([]ExecutionRecord, len(s.timeline))
	copy(timeline, s.timeline)
	return Snapshot{UserInput: s.userInput, Outputs: outputs, Timeline: timeline}
}
