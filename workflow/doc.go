// Package workflow implements the orchestration engine: a state machine over
// workflow variants that drives agent invocations against a backend and
// merges their outputs into the shared context store.
//
// Three execution strategies are provided:
//
//   - Sequential: ordered steps, each started only after the previous output
//     is merged, so every step sees its predecessors
//   - Parallel: a branch set invoked concurrently against one pre-join
//     snapshot, merged in declaration order, followed by a designated "then"
//     agent
//   - Parallel with feedback: the parallel pattern repeated until the "then"
//     output converges or the iteration budget runs out (exhaustion returns
//     the last output as a best-effort result, not a failure)
//
// Configuration errors (unknown workflow type, unregistered agent id) are
// fatal and detected before any backend call.
package workflow
