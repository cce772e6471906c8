// Package core provides the foundational domain types used across agentweave:
//
//   - Agent definitions (role/goal personas with optional tool grants)
//   - ContextStore (run-scoped shared state: user input, per-agent outputs
//     and the ordered execution timeline)
//   - PromptBuilder (pure rendering of an agent + context snapshot into
//     system/user prompt text)
//   - Backend (the opaque language-model generation contract)
//
// The package intentionally keeps implementation concerns (workflow
// orchestration, tool execution, provider SDK bindings) out of scope,
// exposing small types and interfaces so those layers stay independently
// testable.
package core
