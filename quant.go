package lre

import "math"

const infinity = math.MaxInt32

// parseQuantifierOpt parses an optional trailing `* + ? {m,n}` (with an
// optional trailing '?' for lazy), returning hasQuant=false if none is
// present.
func (c *compiler) parseQuantifierOpt() (min, max int, greedy, hasQuant bool, err error) {
	if c.eof() {
		return 0, 0, true, false, nil
	}
	switch c.peekByte() {
	case '*':
		c.pos++
		min, max = 0, infinity
	case '+':
		c.pos++
		min, max = 1, infinity
	case '?':
		c.pos++
		min, max = 0, 1
	case '{':
		save := c.pos
		m, n, ok := c.tryParseBraceQuantifier()
		if !ok {
			if !c.lenient() {
				return 0, 0, true, false, c.errf("incomplete quantifier")
			}
			// Annex-B: a stray '{' that isn't a valid quantifier is a
			// literal character, not a quantifier at all.
			c.pos = save
			return 0, 0, true, false, nil
		}
		min, max = m, n
	default:
		return 0, 0, true, false, nil
	}
	if min > max {
		return 0, 0, true, false, c.errf("numbers out of order in quantifier")
	}
	greedy = true
	if !c.eof() && c.peekByte() == '?' {
		c.pos++
		greedy = false
	}
	return min, max, greedy, true, nil
}

// tryParseBraceQuantifier attempts to parse `{min}`, `{min,}`, or
// `{min,max}` starting at '{'. Returns ok=false (without consuming
// anything) if the text is not a well-formed quantifier, so the caller
// can fall back to treating '{' as a literal under Annex-B leniency.
func (c *compiler) tryParseBraceQuantifier() (min, max int, ok bool) {
	pos := c.pos + 1
	start := pos
	for pos < len(c.src) && c.src[pos] >= '0' && c.src[pos] <= '9' {
		pos++
	}
	if pos == start {
		return 0, 0, false
	}
	min = atoiRange(c.src[start:pos])
	max = min
	if pos < len(c.src) && c.src[pos] == ',' {
		pos++
		start2 := pos
		for pos < len(c.src) && c.src[pos] >= '0' && c.src[pos] <= '9' {
			pos++
		}
		if pos == start2 {
			max = infinity
		} else {
			max = atoiRange(c.src[start2:pos])
		}
	}
	if pos >= len(c.src) || c.src[pos] != '}' {
		return 0, 0, false
	}
	c.pos = pos + 1
	return min, max, true
}

func atoiRange(s string) int {
	n := 0
	for _, ch := range s {
		n = n*10 + int(ch-'0')
		if n > infinity {
			return infinity
		}
	}
	return n
}

// applyQuantifier rewrites the just-parsed atom occupying
// buf[atomStart:atomEnd] in place to apply the (min,max,greedy)
// repetition.
func (c *compiler) applyQuantifier(atomStart, atomEnd, capsBefore, capsAfter int, min, max int, greedy bool) error {
	buf := c.cur()
	atom := append([]byte{}, buf.b[atomStart:atomEnd]...)
	buf.b = buf.b[:atomStart]

	hasCaptures := capsAfter > capsBefore
	info := analyzeAtom(atom)
	needAdvanceCheck := mayMatchEmpty(atom, info)

	// For the "optional repetition" shapes below, the split's jump
	// target D is the *skip* path (stop repeating) and the fallthrough
	// is "enter the atom body". Greedy quantifiers prefer consuming
	// (fallthrough first); lazy quantifiers prefer stopping (jump
	// first).
	skipFirst := opSplitNextFirst // greedy default: fallthrough (atom) tried first
	if !greedy {
		skipFirst = opSplitGotoFirst // lazy: jump (skip) tried first
	}
	// For the "tight self-loop" '+' shape below, the split's jump target
	// is *backward*, into another repetition, and the fallthrough is
	// "stop". Greedy prefers repeating (jump first); lazy prefers
	// stopping (fallthrough first).
	repeatFirst := opSplitGotoFirst
	if !greedy {
		repeatFirst = opSplitNextFirst
	}

	// Fast path: fixed-width, side-effect-free atom, greedy, max > 0.
	if greedy && max > 0 && info.simple && info.width > 0 {
		c.emitSimpleGreedyQuant(buf, atom, info.width, min, max)
		return nil
	}

	if hasCaptures {
		buf.op(opSaveReset)
		buf.byte(byte(capsBefore))
		buf.byte(byte(capsAfter - 1))
	}

	switch {
	case min == 0 && (max == 1 || max == infinity):
		emitOptionalLoop(buf, atom, skipFirst, max == infinity, needAdvanceCheck)
	case min == 1 && max == infinity && !needAdvanceCheck:
		buf.b = append(buf.b, atom...)
		back := -(len(atom) + 5)
		buf.op(repeatFirst)
		buf.i32(int32(back))
	default:
		emitGeneralQuant(buf, atom, skipFirst, min, max, needAdvanceCheck)
	}
	return nil
}

// emitOptionalLoop emits the min==0 quantifier shape: a split guarding a
// single optional pass over atom, looping back when repeat is true.
// skipFirst's jump target is Lend (the "stop" path); its fallthrough
// enters the atom body (the "consume" path).
//
//	L0: split_X Lend
//	    [push_char_pos]
//	    <atom>
//	    [check_advance]
//	    goto L0            ; only if repeat
//	Lend:
func emitOptionalLoop(buf *emitBuf, atom []byte, skipFirst opcode, repeat, needAdvanceCheck bool) {
	splitPC := buf.op(skipFirst)
	ph := buf.len()
	buf.i32(0)
	if needAdvanceCheck {
		buf.op(opPushCharPos)
	}
	buf.b = append(buf.b, atom...)
	if needAdvanceCheck {
		buf.op(opCheckAdvance)
	}
	if repeat {
		buf.op(opGoto)
		gph := buf.len()
		buf.i32(0)
		buf.patchI32(gph, int32(splitPC-4-gph))
	}
	end := buf.len()
	buf.patchI32(ph, int32(end-ph-4))
}

// emitGeneralQuant emits the general {min,max} shape: a mandatory
// counted loop over `min` iterations, followed by an optional counted
// loop over up to `max-min` further iterations (or an unbounded optional
// loop when max is infinite).
func emitGeneralQuant(buf *emitBuf, atom []byte, skipFirst opcode, min, max int, needAdvanceCheck bool) {
	if min > 0 {
		buf.op(opPushI32)
		buf.i32(int32(min))
		loopPC := buf.len()
		buf.b = append(buf.b, atom...)
		buf.op(opLoop)
		ph := buf.len()
		buf.i32(0)
		buf.patchI32(ph, int32(loopPC-4-ph))
		buf.op(opDrop)
	}

	if max == infinity {
		emitOptionalLoop(buf, atom, skipFirst, true, needAdvanceCheck)
		return
	}
	remaining := max - min
	if remaining <= 0 {
		return
	}
	if remaining == 1 {
		emitOptionalLoop(buf, atom, skipFirst, false, needAdvanceCheck)
		return
	}

	// push_i32(remaining); L0: split_X Lend; [push_char_pos]; <atom>;
	// [check_advance]; loop L0; Lend: drop
	//
	// loop's backward branch re-enters at the split (L0), not at the
	// atom body, so every additional repetition gets its own backtrack
	// choice point between "stop here" and "go again".
	buf.op(opPushI32)
	buf.i32(int32(remaining))
	splitPC := buf.op(skipFirst)
	ph := buf.len()
	buf.i32(0)
	if needAdvanceCheck {
		buf.op(opPushCharPos)
	}
	buf.b = append(buf.b, atom...)
	if needAdvanceCheck {
		buf.op(opCheckAdvance)
	}
	buf.op(opLoop)
	lph := buf.len()
	buf.i32(0)
	buf.patchI32(lph, int32(splitPC-4-lph))
	end := buf.len()
	buf.patchI32(ph, int32(end-ph-4))
	buf.op(opDrop)
}

// emitSimpleGreedyQuant wraps atom in a single simple_greedy_quant
// instruction: opcode, NEXT_OFF (= len(atom)), MIN, MAX (0xFFFFFFFF for
// infinity), CHARS_PER_ITER, then the atom bytes inline.
func (c *compiler) emitSimpleGreedyQuant(buf *emitBuf, atom []byte, width, min, max int) {
	buf.op(opSimpleGreedyQuant)
	buf.u32(uint32(len(atom)))
	buf.u32(uint32(min))
	if max == infinity {
		buf.u32(0xFFFFFFFF)
	} else {
		buf.u32(uint32(max))
	}
	buf.u32(uint32(width))
	buf.b = append(buf.b, atom...)
}
