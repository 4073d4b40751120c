package lre

// frame is a single backtrack choice point on the matcher's state stack:
// resuming at pc/pos/backward with the capture array and integer stack as
// they stood when the alternative path was set aside. The reference
// engine distinguishes SPLIT/LOOKAHEAD/NEGATIVE_LOOKAHEAD/GREEDY_QUANT
// frame kinds; this engine only ever needs one shape of choice point: a
// resume point plus a state snapshot. Lookaround assertions are handled
// by a separate recursive call (see runVM), so they never materialize as
// entries here; the simple_greedy_quant fast path pushes ordinary frames
// of this shape, one per repetition it can give back (see
// execSimpleGreedyQuant).
type frame struct {
	pc       int
	pos      int
	backward bool
	caps     []int
	intStack []int32
}

// interruptCountInit is the number of interrupt-countable VM events
// (goto, taken loop, state-stack pop, simple_greedy_quant iteration)
// between consecutive CheckTimeout polls.
const interruptCountInit = 10000

// execState carries everything a single runVM invocation needs that must
// be shared across its own recursive lookaround calls: the interrupt
// counter (so CheckTimeout fires at a consistent cadence across the whole
// match attempt), the canonicalizer the program was compiled with, and
// the host collaborator.
type execState struct {
	body      []byte
	flags     Flags
	cr        charReader
	host      Host
	canon     Canonicalizer
	interrupt int
}

// poll decrements the interrupt counter and, every interruptCountInit
// events, asks the host whether matching should abort.
func (st *execState) poll() bool {
	st.interrupt--
	if st.interrupt > 0 {
		return false
	}
	st.interrupt = interruptCountInit
	return st.host.CheckTimeout()
}

// execProgram runs prog's compiled bytecode against in starting at
// startIndex. The implicit leading `.*?` search loop (absent only under
// Sticky) is already baked into the bytecode, so a single top-level
// backtracking search suffices; no outer retry-at-next-position loop is
// needed here.
func execProgram(prog *Program, in Input, startIndex int, host Host) (Result, error) {
	flags := prog.Flags()

	if startIndex < 0 || startIndex > in.Len() {
		return Result{}, ErrNoMatch
	}

	if prog.pf != nil && !flags.has(Sticky) && (in.enc == EncodingLatin1 || in.enc == EncodingUTF8) {
		return execPrefilter(prog, in, startIndex)
	}

	canon := prog.canon
	if canon == nil {
		canon = DefaultCanonicalizer
	}
	st := &execState{
		body:      prog.body(),
		flags:     flags,
		cr:        newCharReader(in, flags),
		host:      host,
		canon:     canon,
		interrupt: interruptCountInit,
	}
	numCaps := prog.CaptureCount()
	caps := make([]int, 2*numCaps)
	for i := range caps {
		caps[i] = -1
	}

	matched, _, outCaps, err := st.runVM(0, startIndex, false, caps, nil, 0)
	if err != nil {
		return Result{}, err
	}
	if !matched {
		return Result{}, ErrNoMatch
	}
	return Result{Captures: outCaps}, nil
}

// execPrefilter answers a match for a pure literal-alternation program
// (prog.pf != nil) by literal scan alone: the bytecode VM has nothing to
// contribute beyond what the literal set already decides, since
// extractLiteralAlternatives only accepts patterns with no groups,
// quantifiers, classes, or assertions. Capture 0 is the literal span
// found; there are no other capture groups to fill.
func execPrefilter(prog *Program, in Input, startIndex int) (Result, error) {
	start, end, ok := prog.pf.Find(in.bytes, startIndex)
	if !ok {
		return Result{}, ErrNoMatch
	}
	caps := make([]int, 2*prog.CaptureCount())
	for i := range caps {
		caps[i] = -1
	}
	caps[0], caps[1] = start, end
	return Result{Captures: caps}, nil
}

// runVM executes st.body starting at pc/pos/backward with the given
// capture and integer-stack state, returning on the first opMatch reached
// (success) or when its local choice-point stack is exhausted (failure).
// depth counts lookaround recursion for the stack-overflow check.
func (st *execState) runVM(startPC, startPos int, startBackward bool, caps []int, intStack []int32, depth int) (bool, int, []int, error) {
	pc := startPC
	pos := startPos
	backward := startBackward
	var stack []frame

	push := func(resumePC, resumePos int, resumeBackward bool) {
		stack = append(stack, frame{
			pc:       resumePC,
			pos:      resumePos,
			backward: resumeBackward,
			caps:     append([]int(nil), caps...),
			intStack: append([]int32(nil), intStack...),
		})
	}

	for {
		op := opcode(st.body[pc])
		switch op {
		case opMatch:
			return true, pos, caps, nil

		case opChar8, opChar16, opChar32:
			want := readCharOperand(op, st.body, pc)
			r, ok := st.advance(&pos, backward)
			if !ok || !st.charEquals(r, want) {
				goto fail
			}

		case opDot:
			r, ok := st.advance(&pos, backward)
			if !ok || isLineTerminator(r) {
				goto fail
			}

		case opAny:
			if _, ok := st.advance(&pos, backward); !ok {
				goto fail
			}

		case opLineStart:
			if pos == 0 {
				break
			}
			if st.flags.has(Multiline) {
				if p, _ := st.cr.prevChar(pos); p >= 0 && isLineTerminator(p) {
					break
				}
			}
			goto fail

		case opLineEnd:
			if pos == st.cr.length() {
				break
			}
			if st.flags.has(Multiline) {
				if n, _ := st.cr.nextChar(pos); n >= 0 && isLineTerminator(n) {
					break
				}
			}
			goto fail

		case opWordBoundary, opNotWordBoundary:
			before, _ := st.cr.prevChar(pos)
			after, _ := st.cr.nextChar(pos)
			isBoundary := isWordChar(before) != isWordChar(after)
			if op == opWordBoundary && !isBoundary {
				goto fail
			}
			if op == opNotWordBoundary && isBoundary {
				goto fail
			}

		case opBackReference, opBackwardBackReference:
			idx := int(st.body[pc+1])
			if !st.matchBackref(idx, &pos, caps, op == opBackwardBackReference) {
				goto fail
			}

		case opSaveStart:
			caps[2*int(st.body[pc+1])] = pos
		case opSaveEnd:
			caps[2*int(st.body[pc+1])+1] = pos
		case opSaveReset:
			from, to := int(st.body[pc+1]), int(st.body[pc+2])
			for i := from; i <= to; i++ {
				caps[2*i] = -1
				caps[2*i+1] = -1
			}

		case opRange, opRange32:
			r, ok := st.advance(&pos, backward)
			if !ok || !st.rangeContains(op, st.body, pc, r) {
				goto fail
			}

		case opSplitGotoFirst, opSplitNextFirst:
			next := pc + instrLen(st.body, pc)
			disp := int(le32s(st.body[pc+1:]))
			target := next + disp
			if op == opSplitGotoFirst {
				push(next, pos, backward)
				pc = target
			} else {
				push(target, pos, backward)
				pc = next
			}
			continue

		case opGoto:
			if st.poll() {
				return false, 0, nil, ErrTimeout
			}
			next := pc + instrLen(st.body, pc)
			disp := int(le32s(st.body[pc+1:]))
			pc = next + disp
			continue

		case opPushI32:
			v := le32s(st.body[pc+1:])
			intStack = append(intStack, v)

		case opPushCharPos:
			intStack = append(intStack, int32(pos))

		case opDrop:
			intStack = intStack[:len(intStack)-1]

		case opCheckAdvance:
			top := intStack[len(intStack)-1]
			if int(top) == pos {
				goto fail
			}
			intStack = intStack[:len(intStack)-1]

		case opLoop:
			next := pc + instrLen(st.body, pc)
			disp := int(le32s(st.body[pc+1:]))
			top := len(intStack) - 1
			intStack[top]--
			if intStack[top] > 0 {
				if st.poll() {
					return false, 0, nil, ErrTimeout
				}
				pc = next + disp
			} else {
				pc = next
			}
			continue

		case opLookahead, opNegativeLookahead:
			next := pc + instrLen(st.body, pc)
			disp := int(le32s(st.body[pc+1:]))
			cont := next + disp

			if st.host.CheckStackOverflow(256 * (depth + 1)) {
				return false, 0, nil, ErrStackOverflow
			}
			matched, _, newCaps, err := st.runVM(next, pos, backward, append([]int(nil), caps...), nil, depth+1)
			if err != nil {
				return false, 0, nil, err
			}
			if op == opLookahead {
				if !matched {
					goto fail
				}
				caps = newCaps
			} else {
				if matched {
					goto fail
				}
			}
			pc = cont
			continue

		case opPrev:
			backward = !backward

		case opSimpleGreedyQuant:
			newPos, newStack, ok, timedOut := st.execSimpleGreedyQuant(pc, pos, backward, caps, intStack, stack)
			if timedOut {
				return false, 0, nil, ErrTimeout
			}
			if !ok {
				goto fail
			}
			pos = newPos
			stack = newStack
			pc += instrLen(st.body, pc) + int(le32(st.body[pc+1:]))
			continue

		default:
			panic("lre: corrupt bytecode: unexpected opcode in dispatch")
		}

		pc += instrLen(st.body, pc)
		continue

	fail:
		if len(stack) == 0 {
			return false, 0, nil, nil
		}
		if st.poll() {
			return false, 0, nil, ErrTimeout
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pc = top.pc
		pos = top.pos
		backward = top.backward
		caps = top.caps
		intStack = top.intStack
	}
}

// advance reads the next (or, if backward, previous) character at pos and
// moves pos past it, returning ok=false at the relevant end of input.
func (st *execState) advance(pos *int, backward bool) (rune, bool) {
	if backward {
		r, w := st.cr.prevChar(*pos)
		if r < 0 {
			return 0, false
		}
		*pos -= w
		return r, true
	}
	r, w := st.cr.nextChar(*pos)
	if r < 0 {
		return 0, false
	}
	*pos += w
	return r, true
}

// charEquals compares a matched input code point against a char8/16/32
// literal operand, case-folding the input side under IgnoreCase to match
// the canonical form the compiler baked into the literal.
func (st *execState) charEquals(r, want rune) bool {
	if st.flags.has(IgnoreCase) {
		r = st.canon.Canonicalize(r, st.flags.strict())
	}
	return r == want
}

func readCharOperand(op opcode, body []byte, pc int) rune {
	switch op {
	case opChar8:
		return rune(body[pc+1])
	case opChar16:
		return rune(le16(body[pc+1:]))
	default:
		return rune(le32(body[pc+1:]))
	}
}

// rangeContains reports whether r falls within any of a range/range32
// instruction's intervals. Ranges were normalized (sorted, non-overlapping)
// at compile time, but a linear scan keeps this simple and correct; range
// counts in practice are small. In the 16-bit form, a final high of
// 0xFFFF is the +infinity sentinel and admits every code point at or
// above the final low. Under IgnoreCase the input character is folded to
// its canonical form first; the compiler case-closed the class's
// positive pieces to match (see classClose).
func (st *execState) rangeContains(op opcode, body []byte, pc int, r rune) bool {
	if st.flags.has(IgnoreCase) {
		r = st.canon.Canonicalize(r, st.flags.strict())
	}
	n := int(le16(body[pc+1:]))
	off := pc + 3
	if op == opRange {
		for i := 0; i < n; i++ {
			lo := rune(le16(body[off:]))
			hi := rune(le16(body[off+2:]))
			if i == n-1 && hi == 0xFFFF {
				hi = maxCodePoint
			}
			if r >= lo && r <= hi {
				return true
			}
			off += 4
		}
		return false
	}
	for i := 0; i < n; i++ {
		lo := rune(le32(body[off:]))
		hi := rune(le32(body[off+4:]))
		if r >= lo && r <= hi {
			return true
		}
		off += 8
	}
	return false
}

// matchBackref compares the text spanned by capture idx against the input
// starting at (or, if backward, ending at) pos, advancing pos on success.
// An unset group (did not participate in the match) matches the empty
// string, per ECMAScript semantics. The backward form walks the captured
// text end-to-start so its last character is compared against the input
// character immediately before pos, its second-to-last against the one
// before that, and so on.
func (st *execState) matchBackref(idx int, pos *int, caps []int, backward bool) bool {
	start, end := caps[2*idx], caps[2*idx+1]
	if start < 0 || end < 0 {
		return true
	}
	cur := *pos
	if backward {
		p := end
		for p > start {
			want, w := st.cr.prevChar(p)
			if want < 0 {
				return false
			}
			p -= w
			got, gw := st.cr.prevChar(cur)
			if got < 0 || !st.backrefCharEquals(want, got) {
				return false
			}
			cur -= gw
		}
	} else {
		p := start
		for p < end {
			want, w := st.cr.nextChar(p)
			if want < 0 {
				return false
			}
			p += w
			got, gw := st.cr.nextChar(cur)
			if got < 0 || !st.backrefCharEquals(want, got) {
				return false
			}
			cur += gw
		}
	}
	*pos = cur
	return true
}

func (st *execState) backrefCharEquals(want, got rune) bool {
	if st.flags.has(IgnoreCase) {
		want = st.canon.Canonicalize(want, st.flags.strict())
		got = st.canon.Canonicalize(got, st.flags.strict())
	}
	return want == got
}
