package lre

import "context"

// GetCaptureCount returns p's capture count, including the implicit
// whole-match capture 0. Thin wrapper over (*Program).CaptureCount kept
// as a free function to mirror the reference engine's C-shaped
// introspection API (lre_get_capture_count) for callers porting code
// from it.
func GetCaptureCount(p *Program) int { return p.CaptureCount() }

// GetFlags returns p's compiled flag bits.
func GetFlags(p *Program) Flags { return p.Flags() }

// GetGroupNames returns p's packed group-name table (capture-index
// order, "" for unnamed/unset slots), or nil if the pattern has no named
// captures.
func GetGroupNames(p *Program) []string { return p.GroupNames() }

// Encoding selects how Exec interprets the input buffer passed to it.
type Encoding int

const (
	// EncodingLatin1 treats each byte as a code point directly (0-255).
	EncodingLatin1 Encoding = iota
	// EncodingUTF16Raw treats each uint16 as a raw code point (no
	// surrogate-pair combination).
	EncodingUTF16Raw
	// EncodingUTF16 treats each uint16 as a UTF-16 code unit, combining
	// surrogate pairs into a single code point when the program was
	// compiled with the Unicode or UnicodeSets flag.
	EncodingUTF16
	// EncodingUTF8 decodes the byte buffer as UTF-8 on the fly.
	EncodingUTF8
)

// Input is the character buffer Exec matches against, tagged with its
// encoding. Construct one with NewLatin1Input, NewUTF16Input, or
// NewUTF8Input.
type Input struct {
	enc   Encoding
	bytes []byte   // EncodingLatin1, EncodingUTF8
	units []uint16 // EncodingUTF16Raw, EncodingUTF16
}

// NewLatin1Input wraps a byte buffer whose bytes are taken directly as
// code points (EncodingLatin1).
func NewLatin1Input(b []byte) Input { return Input{enc: EncodingLatin1, bytes: b} }

// NewUTF8Input wraps a UTF-8 byte buffer (EncodingUTF8).
func NewUTF8Input(b []byte) Input { return Input{enc: EncodingUTF8, bytes: b} }

// NewUTF16Input wraps a UTF-16 code-unit buffer. raw selects
// EncodingUTF16Raw (no surrogate combination) vs. EncodingUTF16 (combine
// surrogate pairs into astral code points).
func NewUTF16Input(u []uint16, raw bool) Input {
	if raw {
		return Input{enc: EncodingUTF16Raw, units: u}
	}
	return Input{enc: EncodingUTF16, units: u}
}

// Len reports the input length in units (bytes for Latin1/UTF8, uint16s
// for the UTF-16 encodings) — the same unit start_index/Result offsets
// are expressed in.
func (in Input) Len() int {
	if in.enc == EncodingLatin1 || in.enc == EncodingUTF8 {
		return len(in.bytes)
	}
	return len(in.units)
}

// Result reports a successful match's overall span and per-group capture
// offsets, all expressed in input units (see Input.Len).
type Result struct {
	// Captures holds 2*CaptureCount offsets: start,end pairs per group,
	// group 0 first. An unset group's pair is (-1,-1).
	Captures []int
}

// Span returns capture group 0's [start,end) overall match span.
func (r Result) Span() (start, end int) { return r.Captures[0], r.Captures[1] }

// Group returns capture group i's [start,end) span, or (-1,-1) if group i
// did not participate in the match.
func (r Result) Group(i int) (start, end int) {
	return r.Captures[2*i], r.Captures[2*i+1]
}

// Compile parses pattern under flags and returns a compiled Program, or a
// *CompileError describing the first malformed construct encountered.
// See CompileOption for tuning Annex-B leniency, recursion limits, and
// the Unicode/Canonicalizer collaborators.
func Compile(pattern string, flags Flags, opts ...CompileOption) (*Program, error) {
	if !flags.Valid() {
		err := newCompileErr(0, "Unicode and UnicodeSets flags are mutually exclusive")
		err.Pattern = pattern
		return nil, err
	}
	cfg := defaultCompileConfig()
	for _, o := range opts {
		o(&cfg)
	}
	c := newCompiler(pattern, flags, cfg)
	return c.compile()
}

// Exec runs prog against in starting at unit offset startIndex, using
// host for timeout and stack-depth polling. A nil host is replaced with
// NewHost(context.Background()).
//
// On success it returns (Result, nil) with Result.Captures sized
// 2*prog.CaptureCount(). On no match it returns (Result{}, ErrNoMatch).
// ErrTimeout/ErrStackOverflow are returned for the corresponding abort
// conditions; captures are not meaningful in either case. Exec never
// returns ErrMemory.
func Exec(prog *Program, in Input, startIndex int, host Host) (Result, error) {
	if host == nil {
		host = NewHost(context.Background())
	}
	return execProgram(prog, in, startIndex, host)
}
