package lre

import "context"

// Host supplies the stack-overflow and timeout callbacks the matcher
// polls during execution. Implementations are per-call, not shared global
// state, so Exec is safe to call concurrently from multiple goroutines as
// long as each call gets its own Host (or a Host safe for concurrent use).
type Host interface {
	// CheckStackOverflow is polled before entering the recursive
	// evaluation of a lookaround body. allocaSize is an estimate, in bytes,
	// of the stack frame about to be pushed; implementations backed by a
	// real call stack can compare it against remaining headroom.
	CheckStackOverflow(allocaSize int) bool

	// CheckTimeout is polled roughly every 10000 VM steps (goto taken,
	// loop taken, state-stack pop, or simple_greedy_quant iteration). A
	// true return aborts matching with ErrTimeout.
	CheckTimeout() bool
}

// defaultHost is the batteries-included Host: it never reports stack
// overflow (Go's goroutine stacks grow dynamically) and honors a
// context.Context deadline/cancellation for timeouts.
type defaultHost struct {
	ctx context.Context
}

// NewHost returns the default Host implementation, which polls ctx for
// cancellation/deadline expiry as its timeout signal and reports no stack
// overflow. Pass context.Background() for unconditional, non-cancellable
// matching.
func NewHost(ctx context.Context) Host {
	if ctx == nil {
		ctx = context.Background()
	}
	return &defaultHost{ctx: ctx}
}

func (h *defaultHost) CheckStackOverflow(int) bool { return false }

func (h *defaultHost) CheckTimeout() bool {
	select {
	case <-h.ctx.Done():
		return true
	default:
		return false
	}
}

// UnicodeTables is the set of external Unicode collaborators the compiler
// consults for \p{...}/\P{...}. The \s class uses a fixed range set and
// case folding goes through Canonicalizer; neither consults these
// tables. Each lookup fills the supplied
// accumulator rather than returning a fresh one, so callers can union
// several lookups cheaply.
type UnicodeTables interface {
	// Script fills out with the code points of the named script (or
	// script extension when ext is true), e.g. Script("Greek", false, &cr).
	Script(name string, ext bool, out *CharRanges) error

	// GeneralCategory fills out with the code points of the named
	// general category, e.g. "Lu", "Nd", "Zs".
	GeneralCategory(name string, out *CharRanges) error

	// Prop fills out with the code points of the named binary Unicode
	// property, e.g. "Alphabetic", "White_Space", "Emoji".
	Prop(name string, out *CharRanges) error
}

// Canonicalizer case-folds a single code point for IGNORECASE matching.
// isUnicode selects ECMAScript's full Unicode case folding vs. the legacy
// (non-Unicode) simple uppercase-based folding.
type Canonicalizer interface {
	Canonicalize(c rune, isUnicode bool) rune
}

// IdentifierClassifier exposes the identifier-start/continue predicates
// used by the parser's named-group-name validation. \p{ID_Start} and
// \p{ID_Continue} are resolved through UnicodeTables.Prop instead.
type IdentifierClassifier interface {
	IsIDStart(c rune) bool
	IsIDContinue(c rune) bool
}
