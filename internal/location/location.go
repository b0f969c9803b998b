// Package location resolves the caller's source position into a stable
// "path:line" key. The key identifies "the same place in code" across runs,
// so frames belonging to this module are skipped: wrapping a call site in
// more dfdrift layers must not change its key.
package location

import (
	"fmt"
	"runtime"
	"strings"
)

// Unknown is the sentinel key used when no external frame can be resolved.
const Unknown = "<unknown>:0"

// modulePrefix identifies this module's own functions on the call stack.
const modulePrefix = "github.com/Hi-king/dfdrift"

const maxDepth = 64

// Caller walks the active call stack from the innermost frame outward and
// returns the first frame that does not belong to this module, formatted as
// "path:line". Test files inside the module count as external so they behave
// like any other caller. Returns Unknown when the stack has no such frame.
func Caller() string {
	pc := make([]uintptr, maxDepth)
	// Skip runtime.Callers and Caller itself
	n := runtime.Callers(2, pc)
	if n == 0 {
		return Unknown
	}

	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		if frame.PC != 0 && isExternal(frame) {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return Unknown
		}
	}
}

func isExternal(frame runtime.Frame) bool {
	if frame.Function == "" || frame.File == "" {
		return false
	}
	// The Go runtime's own frames (runtime.main, runtime.goexit) are not
	// useful identities either
	if strings.HasPrefix(frame.Function, "runtime.") {
		return false
	}
	if strings.HasSuffix(frame.File, "_test.go") {
		return true
	}
	return !strings.HasPrefix(frame.Function, modulePrefix+"/") &&
		!strings.HasPrefix(frame.Function, modulePrefix+".")
}
