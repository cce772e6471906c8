package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hallwyn/agentweave/logging"
	"github.com/hallwyn/agentweave/tool"
)

const (
	// ToolName is the name the code execution tool registers under.
	ToolName = "execute_code"

	// LanguagePython is the only language the sandbox currently runs.
	LanguagePython = "python"

	// DefaultTimeout bounds the wall-clock runtime of a single execution.
	DefaultTimeout = 5000 * time.Millisecond

	// DefaultMemoryLimit bounds the interpreter's address space in bytes.
	DefaultMemoryLimit = 16 << 20

	tempDirPattern = "agentweave-sandbox-"
)

// Options configures a CodeExecutionTool.
type Options struct {
	// Timeout is the wall-clock budget per call.
	Timeout time.Duration

	// MemoryLimit is the address-space ceiling per call, in bytes.
	// Zero disables the ceiling.
	MemoryLimit int64

	// Interpreter is the python binary to invoke. Defaults to "python3".
	Interpreter string

	// Logger is the logger to use. Defaults to a no-op logger.
	Logger logging.Logger
}

// CodeExecutionTool runs model-submitted code in a disposable, isolated
// interpreter process. It implements tool.Provider.
type CodeExecutionTool struct {
	timeout     time.Duration
	memoryLimit int64
	interpreter string
	logger      logging.Logger
}

var _ tool.Provider = (*CodeExecutionTool)(nil)

// NewCodeExecutionTool creates a new CodeExecutionTool.
func NewCodeExecutionTool(optFns ...func(o *Options)) *CodeExecutionTool {
	opts := Options{
		Timeout:     DefaultTimeout,
		MemoryLimit: DefaultMemoryLimit,
		Interpreter: "python3",
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &CodeExecutionTool{
		timeout:     opts.Timeout,
		memoryLimit: opts.MemoryLimit,
		interpreter: opts.Interpreter,
		logger:      opts.Logger,
	}
}

// Output is the payload of a successful execution.
type Output struct {
	// Value is the script's return value, if any.
	Value any `json:"value"`

	// Logs holds the lines captured by the injected log() shim, in
	// emission order.
	Logs []string `json:"logs"`

	// Language is the language the code ran as.
	Language string `json:"language"`

	// DurationMs is the wall-clock runtime in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// MemoryBytes is the approximate peak memory used by the
	// interpreter process.
	MemoryBytes int64 `json:"memory_bytes"`
}

// Schema returns the tool schema.
func (t *CodeExecutionTool) Schema() tool.Schema {
	return tool.Schema{
		Name:        ToolName,
		Description: "Execute a short code snippet in an isolated sandbox and return its result. Use log(...) inside the snippet to emit diagnostic output and 'return' to produce a value. Filesystem, network and environment access are unavailable.",
		Parameters: tool.Parameters{
			Type: "object",
			Properties: map[string]any{
				"language": map[string]any{
					"type":        "string",
					"description": "Language of the snippet. Only \"python\" is supported.",
				},
				"code": map[string]any{
					"type":        "string",
					"description": "The code to execute.",
				},
			},
			Required: []string{"code"},
		},
		Executor: "sandbox",
	}
}

// Execute implements tool.Provider. Failures surface as errors so the
// registry converts them into failed results.
func (t *CodeExecutionTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	language, _ := params["language"].(string)
	code, _ := params["code"].(string)

	res := t.Run(ctx, language, code)
	if !res.Success {
		return nil, fmt.Errorf("%s", res.Error)
	}

	return res.Output, nil
}

// Run executes code in a fresh sandboxed interpreter and reports the
// outcome as a tool result. It never returns a Go error: every failure
// mode is classified into the result's error string.
func (t *CodeExecutionTool) Run(ctx context.Context, language, code string) tool.Result {
	if language == "" {
		language = LanguagePython
	}

	if !strings.EqualFold(language, LanguagePython) {
		t.logger.Warn("Sandbox rejected unsupported language", "language", language)
		return tool.Fail("not implemented", 0)
	}

	if strings.TrimSpace(code) == "" {
		return tool.Fail("script error: empty code", 0)
	}

	return t.runPython(ctx, code)
}

func (t *CodeExecutionTool) runPython(ctx context.Context, code string) tool.Result {
	start := time.Now()

	dir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return tool.Fail(fmt.Sprintf("sandbox setup failed: %v", err), time.Since(start))
	}
	defer os.RemoveAll(dir)

	script := buildHarness(code)
	scriptPath := filepath.Join(dir, "main.py")
	if err := os.WriteFile(scriptPath, []byte(script), 0o600); err != nil {
		return tool.Fail(fmt.Sprintf("sandbox setup failed: %v", err), time.Since(start))
	}

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	// The shell applies the address-space ceiling and then execs the
	// interpreter, so killing the command kills the interpreter itself.
	shellCmd := fmt.Sprintf("exec %s -I main.py", t.interpreter)
	if t.memoryLimit > 0 {
		shellCmd = fmt.Sprintf("ulimit -v %d; %s", t.memoryLimit/1024, shellCmd)
	}

	cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", shellCmd)
	cmd.Dir = dir
	cmd.Env = []string{}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	elapsed := time.Since(start)
	memUsed := peakMemory(cmd)

	t.logger.Debug("Sandbox execution finished",
		"elapsed", elapsed,
		"memory_bytes", memUsed,
		"failed", runErr != nil,
	)

	if runErr != nil {
		return t.classifyFailure(runCtx, stderr.String(), elapsed)
	}

	value, logs, ok := parseEnvelope(stdout.String())
	if !ok {
		return tool.Fail("script error: no result produced", elapsed)
	}

	return tool.Succeed(Output{
		Value:       value,
		Logs:        logs,
		Language:    LanguagePython,
		DurationMs:  elapsed.Milliseconds(),
		MemoryBytes: memUsed,
	}, elapsed)
}

func (t *CodeExecutionTool) classifyFailure(runCtx context.Context, stderr string, elapsed time.Duration) tool.Result {
	if err := runCtx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return tool.Fail(fmt.Sprintf("execution timed out after %v", t.timeout), elapsed)
		}
		return tool.Fail("execution canceled", elapsed)
	}

	if isMemoryFailure(stderr) {
		return tool.Fail(fmt.Sprintf("memory limit of %d bytes exceeded", t.memoryLimit), elapsed)
	}

	detail := lastStderrLine(stderr)
	if detail == "" {
		detail = "interpreter exited abnormally"
	}

	return tool.Fail("script error: "+detail, elapsed)
}

func isMemoryFailure(stderr string) bool {
	return strings.Contains(stderr, "MemoryError") ||
		strings.Contains(stderr, "Cannot allocate memory") ||
		strings.Contains(stderr, "cannot allocate memory")
}

// lastStderrLine extracts the last non-empty stderr line, which for python
// tracebacks is the exception type and message.
func lastStderrLine(stderr string) string {
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}

	return ""
}

// peakMemory reports the approximate peak resident set of the finished
// process in bytes. Maxrss is reported in KiB on Linux.
func peakMemory(cmd *exec.Cmd) int64 {
	if cmd.ProcessState == nil {
		return 0
	}

	ru, ok := cmd.ProcessState.SysUsage().(*syscall.Rusage)
	if !ok {
		return 0
	}

	return int64(ru.Maxrss) << 10
}

type resultEnvelope struct {
	Value any      `json:"value"`
	Logs  []string `json:"logs"`
}

func parseEnvelope(stdout string) (any, []string, bool) {
	idx := strings.LastIndex(stdout, resultMarker)
	if idx < 0 {
		return nil, nil, false
	}

	payload := stdout[idx+len(resultMarker):]
	if nl := strings.IndexByte(payload, '\n'); nl >= 0 {
		payload = payload[:nl]
	}

	var env resultEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, nil, false
	}

	if env.Logs == nil {
		env.Logs = []string{}
	}

	return env.Value, env.Logs, true
}
