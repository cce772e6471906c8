package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hallwyn/agentweave/core"
	"github.com/hallwyn/agentweave/logging"
	"github.com/hallwyn/agentweave/tool"
)

// DefaultMaxToolCalls bounds the number of tool executions per loop run.
const DefaultMaxToolCalls = 5

const (
	callOpenTag  = "<tool_call>"
	callCloseTag = "</tool_call>"
)

// ErrToolCallsExhausted is returned when the loop consumes its whole tool-call
// budget without the model producing a final answer.
var ErrToolCallsExhausted = errors.New("tool call budget exhausted without a final answer")

// callBlockRe matches the first delimited tool-call block, non-greedy. Only
// this first match is ever honored, even if the response contains several.
var callBlockRe = regexp.MustCompile(`(?s)<tool_call>\s*(\{.*?\})\s*</tool_call>`)

// callRequest is the wire shape inside a tool-call block.
type callRequest struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// Options configures a Loop.
type Options struct {
	// MaxToolCalls bounds tool executions per run. Values below 1 fall back
	// to DefaultMaxToolCalls.
	MaxToolCalls int

	// Temperature is passed through to every backend request.
	Temperature float64

	// Logger receives loop diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Loop runs the tool-calling protocol for one agent invocation. The loop is
// inherently sequential: each round depends on the previous tool result, so
// there is no parallel tool dispatch.
type Loop struct {
	backend      core.Backend
	registry     *tool.Registry
	maxToolCalls int
	temperature  float64
	logger       logging.Logger
}

// NewLoop creates a tool-calling loop over a backend and tool registry.
func NewLoop(backend core.Backend, registry *tool.Registry, optFns ...func(o *Options)) *Loop {
	opts := Options{
		MaxToolCalls: DefaultMaxToolCalls,
		Temperature:  0.7,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxToolCalls < 1 {
		opts.MaxToolCalls = DefaultMaxToolCalls
	}
	return &Loop{
		backend:      backend,
		registry:     registry,
		maxToolCalls: opts.MaxToolCalls,
		temperature:  opts.Temperature,
		logger:       opts.Logger,
	}
}

// Run drives the conversation until the model produces a final answer or the
// tool-call budget is consumed. It returns the final text and the ordered
// audit list of every executed call. On budget exhaustion the audit list is
// still returned alongside ErrToolCallsExhausted; a backend error propagates
// unchanged.
func (l *Loop) Run(ctx context.Context, agent core.Agent, system, user string) (string, []tool.Call, error) {
	schemas := l.registry.ForAgent(agent.Tools)
	systemPrompt := system + "\n\n" + renderCatalog(schemas)
	userPrompt := user

	var calls []tool.Call
	for len(calls) < l.maxToolCalls {
		response, err := l.backend.Generate(ctx, core.Request{
			System:      systemPrompt,
			User:        userPrompt,
			Temperature: l.temperature,
		})
		if err != nil {
			return "", calls, fmt.Errorf("backend call failed: %w", err)
		}

		req, ok := l.parseCall(response)
		if !ok {
			// No well-formed block: the response is the final answer. This
			// covers malformed JSON too, a deliberate leniency.
			return response, calls, nil
		}
		l.registry.Sink().CallDetected(req.Tool)

		params := mergeDefaults(req.Parameters, agent.ToolConfig[req.Tool])
		result := l.registry.Execute(ctx, req.Tool, params)

		calls = append(calls, tool.Call{
			ID:         core.NewID(),
			Tool:       req.Tool,
			Parameters: params,
			Timestamp:  time.Now(),
		})
		l.logger.Debug("flow.tool.round",
			"agent", agent.ID,
			"tool", req.Tool,
			"success", result.Success,
			"calls", len(calls),
		)

		userPrompt += renderResult(req.Tool, params, result)
	}

	return "", calls, fmt.Errorf("%w after %d calls", ErrToolCallsExhausted, l.maxToolCalls)
}

// parseCall extracts the first tool-call block from a response. The second
// return is false when no block is present, the block's JSON does not parse,
// or the tool field is missing, all of which downgrade to a final answer.
func (l *Loop) parseCall(response string) (callRequest, bool) {
	m := callBlockRe.FindStringSubmatch(response)
	if m == nil {
		return callRequest{}, false
	}

	var req callRequest
	if err := json.Unmarshal([]byte(m[1]), &req); err != nil {
		l.registry.Sink().CallParseFailed(err.Error())
		return callRequest{}, false
	}
	if req.Tool == "" {
		l.registry.Sink().CallParseFailed("tool field missing")
		return callRequest{}, false
	}
	if req.Parameters == nil {
		req.Parameters = map[string]any{}
	}
	return req, true
}

// mergeDefaults fills parameters the model omitted from the agent's per-tool
// configuration. Model-supplied values always win.
func mergeDefaults(params map[string]any, defaults map[string]any) map[string]any {
	if len(defaults) == 0 {
		return params
	}
	merged := make(map[string]any, len(params)+len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// renderCatalog produces the system-prompt section describing every permitted
// tool plus the invocation protocol.
func renderCatalog(schemas []tool.Schema) string {
	var b strings.Builder
	b.WriteString("You have access to the following tools:\n")
	for _, s := range schemas {
		paramsJSON, _ := json.Marshal(map[string]any{
			"type":       s.Parameters.Type,
			"properties": s.Parameters.Properties,
			"required":   s.Parameters.Required,
		})
		fmt.Fprintf(&b, "\nTool: %s\nDescription: %s\nParameters: %s\n", s.Name, s.Description, paramsJSON)
	}
	b.WriteString("\nTo invoke a tool, respond with exactly one block of the form:\n")
	fmt.Fprintf(&b, "%s{\"tool\": \"<name>\", \"parameters\": {...}}%s\n", callOpenTag, callCloseTag)
	b.WriteString("Otherwise, respond with your final answer as plain text.")
	return b.String()
}

// renderResult appends an executed call and its outcome to the running user
// prompt so the next round can reason over it.
func renderResult(name string, params map[string]any, res tool.Result) string {
	payload, err := json.Marshal(map[string]any{
		"tool":       name,
		"parameters": params,
		"result":     res,
	})
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"tool":%q,"error":"result not serializable"}`, name))
	}
	return fmt.Sprintf("\n\n<tool_result>\n%s\n</tool_result>\nUse the tool result above. Respond with your final answer, or invoke another tool.", payload)
}
