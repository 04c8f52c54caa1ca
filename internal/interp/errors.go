package interp

import "fmt"

// FatalError terminates the process with status 1: "mark not found"
// while scanning for a jump target, and "recursion too deep" — the
// reference's guard against a failed realloc of its frame array, never
// actually raised here since MacroStack grows via append and Go's
// runtime, not a fixed-size reallocation, handles the memory.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return e.Message
}

// QuitSignal unwinds the interpreter cleanly: natural end of input, or
// the top-level "q" popping more frames than remain. Carries exit status
// 0 always — dc has no nonzero clean-exit path.
type QuitSignal struct{}

func (e *QuitSignal) Error() string {
	return "quit"
}

func fatalf(format string, args ...any) error {
	return &FatalError{Message: fmt.Sprintf(format, args...)}
}
