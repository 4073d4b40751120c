package lre

import (
	"errors"
	"fmt"
)

// Sentinel execution results, mirroring the reference engine's LRE_RET_*
// constants. A successful match is reported as (Result, nil); these
// values only ever appear as the error half of Exec's return.
var (
	// ErrNoMatch indicates the pattern did not match. It is returned
	// alongside a zero Result so callers can use plain error checks.
	ErrNoMatch = errors.New("lre: no match")

	// ErrMemory corresponds to the reference engine's memory-error
	// result. Exec does not return it: the backtrack state stack grows
	// as an ordinary Go slice, and Host has no allocator callback.
	ErrMemory = errors.New("lre: out of memory growing backtrack stack")

	// ErrTimeout indicates the host's CheckTimeout callback requested
	// that matching abort. Captures are left in an indeterminate state.
	ErrTimeout = errors.New("lre: matching timed out")

	// ErrStackOverflow indicates the host's CheckStackOverflow callback
	// rejected entering a further recursive lookaround evaluation.
	ErrStackOverflow = errors.New("lre: recursion depth exceeded")
)

// CompileError reports a failure to compile a pattern, naming the
// offending construct and its byte offset within the pattern text.
type CompileError struct {
	Pattern string // full pattern text
	Pos     int    // byte offset of the error within Pattern
	Msg     string // human-readable reason, e.g. "nothing to repeat"
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("lre: compile error at offset %d: %s", e.Pos, e.Msg)
}

// newCompileErr builds a *CompileError tied to the parser's current
// position.
func newCompileErr(pos int, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// TooComplexError reports a pattern that compiles structurally but
// violates one of the engine's hard limits (capture count, backtrack
// stack depth from quantifier nesting). An oversized character class and
// excessive group nesting are reported as *CompileError instead.
type TooComplexError struct {
	Msg string
}

func (e *TooComplexError) Error() string { return "lre: " + e.Msg }
