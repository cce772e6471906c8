// Package logging provides a minimal logging interface and adapters for
// agentweave.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the workflow engine, tool registry and sandbox use for
// observability. The package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - RunLogger with contextual helpers (component, run id) and domain
//     specific helpers for tool, backend and workflow events
//
// The design intentionally keeps the interface minimal so callers can plug
// any structured logger.
package logging
