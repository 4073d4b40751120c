package lre

import (
	"unicode/utf8"

	"github.com/coregx/lre/prefilter"
)

// compiler holds all mutable state for a single Compile call: the parser
// cursor, the stack of in-progress emission buffers (one per nested
// disjunction/group/lookaround body so each can be measured and
// recombined without pointer-based patching), and the capture/name
// bookkeeping collected by the pre-scan.
type compiler struct {
	src   string
	pos   int // byte offset into src
	flags Flags
	cfg   compileConfig

	bufs []*emitBuf // stack of active emission targets; top is "current"

	nextCapture int      // next capture index to allocate, starts at 1
	totalCaps   int      // pre-scanned total capturing-group count
	groupNames  []string // index by capture number (0 unused), "" if unnamed
	nameSet     map[string]bool

	depth    int // current parse recursion depth
	backward bool
}

func newCompiler(pattern string, flags Flags, cfg compileConfig) *compiler {
	return &compiler{
		src:         pattern,
		flags:       flags,
		cfg:         cfg,
		nextCapture: 1,
	}
}

func (c *compiler) cur() *emitBuf { return c.bufs[len(c.bufs)-1] }

// pushBuf starts a new nested emission target (used for group/lookaround
// bodies and disjunction alternatives) and returns it.
func (c *compiler) pushBuf() *emitBuf {
	b := newEmitBuf()
	c.bufs = append(c.bufs, b)
	return b
}

// popBuf ends the current nested emission target and returns its bytes.
func (c *compiler) popBuf() []byte {
	b := c.bufs[len(c.bufs)-1]
	c.bufs = c.bufs[:len(c.bufs)-1]
	return b.bytes()
}

func (c *compiler) eof() bool { return c.pos >= len(c.src) }

// lenient reports whether Annex-B leniency fallbacks apply: they are
// available only outside strict Unicode mode, and can additionally be
// switched off wholesale via WithAnnexB(false).
func (c *compiler) lenient() bool { return c.cfg.AnnexB && !c.flags.strict() }

func (c *compiler) peekByte() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *compiler) peekByteAt(off int) byte {
	if c.pos+off >= len(c.src) {
		return 0
	}
	return c.src[c.pos+off]
}

// peekRune decodes the rune at the current position without consuming it.
func (c *compiler) peekRune() (rune, int) {
	if c.eof() {
		return 0, 0
	}
	r, n := utf8.DecodeRuneInString(c.src[c.pos:])
	return r, n
}

func (c *compiler) nextRune() rune {
	r, n := c.peekRune()
	c.pos += n
	return r
}

func (c *compiler) errf(format string, args ...any) *CompileError {
	return c.errfAt(c.pos, format, args...)
}

// errfAt builds a *CompileError tied to an explicit byte offset, for
// diagnostics raised outside the main parse cursor (e.g. the prescan
// pass, which runs before c.pos tracks anything meaningful).
func (c *compiler) errfAt(pos int, format string, args ...any) *CompileError {
	err := newCompileErr(pos, format, args...)
	err.Pattern = c.src
	return err
}

// compile is the top-level entry point: pre-scan for capture names/count,
// then parse the pattern, wrap it with the implicit search loop (unless
// Sticky), run the stack-depth post-pass, and pack the header.
func (c *compiler) compile() (*Program, error) {
	if err := c.prescan(); err != nil {
		return nil, err
	}

	c.pushBuf()
	if err := c.parseDisjunction(); err != nil {
		return nil, err
	}
	if !c.eof() {
		return nil, c.errf("unexpected %q", c.peekByte())
	}
	bodyInner := c.popBuf()

	main := newEmitBuf()
	if !c.flags.has(Sticky) {
		// Implicit non-greedy search loop: try the body at the current
		// position first; on failure, consume one code point and retry,
		// scanning forward for the leftmost match.
		//
		//   L0: split_goto_first L1   ; prefer "try body now" (past `any`+goto)
		//       any
		//       goto L0
		//   L1: <body>
		splitPC := main.op(opSplitGotoFirst)
		splitOperand := main.len()
		main.i32(0)
		main.op(opAny)
		main.op(opGoto)
		gotoOperand := main.len()
		main.i32(0)
		l1 := main.len()
		main.patchI32(splitOperand, int32(l1-splitOperand-4))
		main.patchI32(gotoOperand, int32(splitPC-gotoOperand-4))
	}
	main.op(opSaveStart)
	main.byte(0)
	main.b = append(main.b, bodyInner...)
	main.op(opSaveEnd)
	main.byte(0)
	main.op(opMatch)

	body := main.bytes()
	stackSize, err := analyzeStackDepth(body)
	if err != nil {
		return nil, err
	}

	names := make([]string, c.totalCaps)
	copy(names, c.groupNames[1:])

	prog, err := finalize(body, c.flags, c.totalCaps+1, stackSize, names)
	if err != nil {
		return nil, err
	}
	prog.canon = c.cfg.Canon

	if c.cfg.EnablePrefilter && !c.flags.has(Sticky) && !c.flags.has(IgnoreCase) {
		if lits, ok := extractLiteralAlternatives(c.src); ok {
			if pf, built := prefilter.Build(lits); built {
				prog.pf = pf
			}
		}
	}
	return prog, nil
}
