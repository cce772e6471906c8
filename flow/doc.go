// Package flow drives the bounded multi-turn conversation between a language
// model backend and the tool registry.
//
// Each round the loop sends the accumulated prompt, scans the response for
// the first delimited tool-call block, executes the requested tool and feeds
// the rendered result back into the prompt. A response without a well-formed
// block is the final answer. Consuming the whole tool-call budget without a
// final answer is a hard, caller-visible failure.
package flow
