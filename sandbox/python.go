package sandbox

import (
	"encoding/json"
	"fmt"
)

const resultMarker = "__AGENTWEAVE_RESULT__"

// harnessPreamble installs the log() shim and locks down the interpreter
// before the submitted code runs. Imports of system-facing modules and the
// open/input builtins are blocked; everything else is stock python.
const harnessPreamble = `import ast as _ast
import json as _json
import builtins as _builtins

_logs = []

def log(*args):
    _logs.append(" ".join(str(a) for a in args))

_blocked = {
    "os", "sys", "io", "socket", "subprocess", "shutil", "pathlib",
    "http", "urllib", "ftplib", "ctypes", "multiprocessing", "threading",
    "signal", "importlib",
}
_real_import = _builtins.__import__

def _guarded_import(name, *args, **kwargs):
    if name.split(".")[0] in _blocked:
        raise ImportError("module disabled in sandbox: " + name)
    return _real_import(name, *args, **kwargs)

def _denied(*_args, **_kwargs):
    raise PermissionError("not available in sandbox")

_builtins.__import__ = _guarded_import
_builtins.open = _denied
_builtins.input = _denied
`

// harnessEpilogue grafts the submitted statements into a function body at
// the AST level, so source text (string literals included) is never
// rewritten, then invokes the function and prints the result envelope. A
// top-level "return" in the submitted code becomes the call's value.
const harnessEpilogue = `
_code = %s
_user = _ast.parse(_code)
_wrapper = _ast.parse("def _entry():\n    pass")
if _user.body:
    _wrapper.body[0].body = _user.body
_ast.fix_missing_locations(_wrapper)
exec(compile(_wrapper, "main.py", "exec"))

_value = _entry()
print("\n` + resultMarker + `" + _json.dumps({"value": _value, "logs": _logs}, default=str))
`

// buildHarness wraps the submitted code into the sandbox harness. The code
// is embedded as a JSON string constant and wrapped structurally inside the
// harness, keeping it byte-for-byte intact and out of module scope.
func buildHarness(code string) string {
	encoded, err := json.Marshal(code)
	if err != nil {
		encoded = []byte(`""`)
	}

	return harnessPreamble + fmt.Sprintf(harnessEpilogue, encoded)
}
