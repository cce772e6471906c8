package sandbox

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
}

func TestCodeExecutionTool_ReturnValueAndLogs(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "python", "log('step one')\nlog('step', 'two')\nreturn 1 + 2")

	require.True(t, res.Success, "unexpected failure: %s", res.Error)

	out, ok := res.Output.(Output)
	require.True(t, ok)
	assert.Equal(t, float64(3), out.Value)
	assert.Equal(t, []string{"step one", "step two"}, out.Logs)
	assert.Equal(t, LanguagePython, out.Language)
	assert.Greater(t, res.ExecutionTime, time.Duration(0))
}

func TestCodeExecutionTool_NoReturn(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "", "x = 40 + 2")

	require.True(t, res.Success, "unexpected failure: %s", res.Error)

	out := res.Output.(Output)
	assert.Nil(t, out.Value)
	assert.Empty(t, out.Logs)
}

func TestCodeExecutionTool_UnsupportedLanguage(t *testing.T) {
	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "javascript", "return 1")

	require.False(t, res.Success)
	assert.Equal(t, "not implemented", res.Error)
	assert.Equal(t, time.Duration(0), res.ExecutionTime)
}

func TestCodeExecutionTool_ScriptError(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "python", "return 1 / 0")

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "script error")
	assert.Contains(t, res.Error, "ZeroDivisionError")
}

func TestCodeExecutionTool_Timeout(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool(func(o *Options) {
		o.Timeout = 300 * time.Millisecond
	})

	start := time.Now()
	res := sb.Run(context.Background(), "python", "while True:\n    pass")

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCodeExecutionTool_MemoryLimit(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool(func(o *Options) {
		o.MemoryLimit = 96 << 20
	})

	res := sb.Run(context.Background(), "python", "x = 'a' * (512 * 1024 * 1024)\nreturn len(x)")

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "memory limit")
}

func TestCodeExecutionTool_BlockedImport(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "python", "import os\nreturn os.getcwd()")

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "disabled in sandbox")
}

func TestCodeExecutionTool_BlockedOpen(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "python", "return open('/etc/hostname').read()")

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "not available in sandbox")
}

func TestCodeExecutionTool_StdlibImportAllowed(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "python", "import math\nreturn math.floor(2.5)")

	require.True(t, res.Success, "unexpected failure: %s", res.Error)
	assert.Equal(t, float64(2), res.Output.(Output).Value)
}

func TestCodeExecutionTool_IsolatedConcurrentRuns(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()

	var wg sync.WaitGroup
	results := make([]any, 2)
	codes := []string{"x = 'first'\nreturn x", "x = 'second'\nreturn x"}

	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			res := sb.Run(context.Background(), "python", code)
			if res.Success {
				results[i] = res.Output.(Output).Value
			}
		}(i, code)
	}
	wg.Wait()

	assert.Equal(t, "first", results[0])
	assert.Equal(t, "second", results[1])
}

func TestCodeExecutionTool_CleansUpScratchDirs(t *testing.T) {
	requirePython(t)

	before := countScratchDirs(t)

	sb := NewCodeExecutionTool(func(o *Options) {
		o.Timeout = 200 * time.Millisecond
	})
	sb.Run(context.Background(), "python", "return 'ok'")
	sb.Run(context.Background(), "python", "return 1 / 0")
	sb.Run(context.Background(), "python", "while True:\n    pass")

	assert.Equal(t, before, countScratchDirs(t))
}

func countScratchDirs(t *testing.T) int {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(os.TempDir(), tempDirPattern+"*"))
	require.NoError(t, err)

	return len(matches)
}

func TestCodeExecutionTool_Schema(t *testing.T) {
	sb := NewCodeExecutionTool()
	schema := sb.Schema()

	assert.Equal(t, ToolName, schema.Name)
	assert.Equal(t, "sandbox", schema.Executor)
	assert.Contains(t, schema.Parameters.Required, "code")
}

func TestCodeExecutionTool_ExecuteAdapter(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()

	out, err := sb.Execute(context.Background(), map[string]any{
		"language": "python",
		"code":     "return 'hello'",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out.(Output).Value)

	_, err = sb.Execute(context.Background(), map[string]any{
		"language": "cobol",
		"code":     "DISPLAY 'HI'",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented")
}

func TestBuildHarness_EmbedsCodeVerbatim(t *testing.T) {
	script := buildHarness("a = 1\n\nreturn a")

	// The code is embedded as a JSON string constant, never re-indented.
	assert.Contains(t, script, `_code = "a = 1\n\nreturn a"`)
	assert.Contains(t, script, resultMarker)
}

func TestCodeExecutionTool_MultilineStringLiteral(t *testing.T) {
	requirePython(t)

	sb := NewCodeExecutionTool()
	res := sb.Run(context.Background(), "python", "s = \"\"\"line1\nline2\"\"\"\nreturn s")

	require.True(t, res.Success, "unexpected failure: %s", res.Error)
	assert.Equal(t, "line1\nline2", res.Output.(Output).Value)
}

func TestCodeExecutionTool_CanceledContext(t *testing.T) {
	requirePython(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	sb := NewCodeExecutionTool()
	res := sb.Run(ctx, "python", "while True:\n    pass")

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "canceled")
	assert.NotContains(t, res.Error, "script error")
}
