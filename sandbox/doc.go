// Package sandbox provides the isolated, resource-bounded code execution
// tool.
//
// Every call provisions a disposable environment: a fresh scratch directory
// and a fresh interpreter process with an empty environment, a wall-clock
// timeout and a hard address-space ceiling. Submitted code runs inside an
// immediately-invoked function scope with a log() shim as the only injected
// capability; filesystem, network and process-environment access are
// blocked. The environment is torn down on every exit path, and no script
// failure ever escapes Run as a Go error: exceptions, timeouts and memory
// violations are classified and returned as failed tool results.
package sandbox
