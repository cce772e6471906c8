package tool

import "github.com/hallwyn/agentweave/logging"

// EventSink is the observability side-channel invoked around the tool
// lifecycle: registration, execution start/completion, and tool-call
// detection or parse failure in the calling loop. Implementations must be
// safe for concurrent use and must not block.
type EventSink interface {
	ToolRegistered(name string)
	ExecutionStarted(name string, params map[string]any)
	ExecutionCompleted(name string, res Result)
	CallDetected(name string)
	CallParseFailed(detail string)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// ToolRegistered implements EventSink.
func (NoOpSink) ToolRegistered(string) {}

// ExecutionStarted implements EventSink.
func (NoOpSink) ExecutionStarted(string, map[string]any) {}

// ExecutionCompleted implements EventSink.
func (NoOpSink) ExecutionCompleted(string, Result) {}

// CallDetected implements EventSink.
func (NoOpSink) CallDetected(string) {}

// CallParseFailed implements EventSink.
func (NoOpSink) CallParseFailed(string) {}

// LogSink forwards events to a logging.Logger.
type LogSink struct {
	Logger logging.Logger
}

// ToolRegistered implements EventSink.
func (s LogSink) ToolRegistered(name string) {
	s.Logger.Info("tool.registered", "tool", name)
}

// ExecutionStarted implements EventSink.
func (s LogSink) ExecutionStarted(name string, params map[string]any) {
	s.Logger.Debug("tool.execution.start", "tool", name, "param_count", len(params))
}

// ExecutionCompleted implements EventSink.
func (s LogSink) ExecutionCompleted(name string, res Result) {
	if res.Success {
		s.Logger.Info("tool.execution.complete", "tool", name, "duration_ms", res.ExecutionTime.Milliseconds())
		return
	}
	s.Logger.Error("tool.execution.error", "tool", name, "error", res.Error, "duration_ms", res.ExecutionTime.Milliseconds())
}

// CallDetected implements EventSink.
func (s LogSink) CallDetected(name string) {
	s.Logger.Debug("tool.call.detected", "tool", name)
}

// CallParseFailed implements EventSink.
func (s LogSink) CallParseFailed(detail string) {
	s.Logger.Warn("tool.call.parse_failed", "detail", detail)
}
