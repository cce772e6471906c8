// Package tool implements the tool subsystem that lets agents invoke
// structured capabilities (file access, web lookups, sandboxed code) through
// a uniform name/schema/execute contract.
//
// The Registry is the single dispatch point: providers register under their
// schema name and are executed through Execute, which never raises: unknown
// names, provider errors and provider panics are all captured into a failed
// Result. Discovery (List, ForAgent) is filtered by per-agent allow-lists;
// strict validation of those lists belongs to the config loader, not here.
package tool
