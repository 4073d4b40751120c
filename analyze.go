package lre

// atomInfo summarizes a static walk over a compiled atom's bytecode, used
// by applyQuantifier to pick between the simple_greedy_quant fast path and
// the general split/loop shapes.
type atomInfo struct {
	// simple is true when the atom is a straight run of fixed-width,
	// side-effect-free character-matching instructions: no captures, no
	// back-references, no assertions, no internal branches.
	simple bool
	// width is the number of characters the atom consumes per pass,
	// meaningful only when simple is true.
	width int
}

// analyzeAtom walks atom's instructions linearly (no branch has yet been
// introduced; a freshly parsed atom before quantification is always a
// straight-line sequence punctuated, at most, by nested constructs that
// themselves contain branches). The first non-character-matching opcode
// it finds disqualifies the fast path.
func analyzeAtom(atom []byte) atomInfo {
	info := atomInfo{simple: true}
	pc := 0
	for pc < len(atom) {
		switch opcode(atom[pc]) {
		case opChar8, opChar16, opChar32, opDot, opAny, opRange, opRange32:
			info.width++
		default:
			info.simple = false
		}
		pc += instrLen(atom, pc)
	}
	if !info.simple {
		info.width = 0
	}
	return info
}

// mayMatchEmpty reports whether atom can match the empty string, i.e.
// whether an unbounded repetition of it needs a check_advance guard to
// avoid looping forever without making progress. The walk is a
// conservative reachability search over atom's control-flow graph: it
// looks for ANY path from offset 0 to the end that consumes zero
// characters, treating data-dependent constructs (back-references) as
// possibly zero-width and lookaround assertions as always zero-width
// (they never advance the cursor themselves).
func mayMatchEmpty(atom []byte, info atomInfo) bool {
	if info.simple {
		return info.width == 0
	}
	visited := make(map[int]bool)
	return zeroWidthPathExists(atom, 0, visited)
}

// zeroWidthPathExists performs the reachability search described above.
// pc is only ever visited while the path so far has consumed zero
// characters; a revisit means a zero-width cycle, which can't reach the
// end by itself, so it is treated as a dead end rather than explored
// further.
func zeroWidthPathExists(atom []byte, pc int, visited map[int]bool) bool {
	if pc >= len(atom) {
		return true
	}
	if visited[pc] {
		return false
	}
	visited[pc] = true

	op := opcode(atom[pc])
	switch op {
	case opChar8, opChar16, opChar32, opDot, opAny, opRange, opRange32:
		// Consumes exactly one character: any path through here is not
		// zero-width.
		return false

	case opSplitGotoFirst, opSplitNextFirst, opLoop:
		next := pc + instrLen(atom, pc)
		disp := int(le32s(atom[pc+1:]))
		target := next + disp
		if zeroWidthPathExists(atom, next, visited) {
			return true
		}
		return zeroWidthPathExists(atom, target, visited)

	case opGoto:
		next := pc + instrLen(atom, pc)
		disp := int(le32s(atom[pc+1:]))
		return zeroWidthPathExists(atom, next+disp, visited)

	case opLookahead, opNegativeLookahead:
		// Zero-width by construction; skip straight to the continuation
		// after the assertion body.
		next := pc + instrLen(atom, pc)
		disp := int(le32s(atom[pc+1:]))
		return zeroWidthPathExists(atom, next+disp, visited)

	case opBackReference, opBackwardBackReference:
		// Data-dependent: the referenced group may have matched empty or
		// may not have participated at all, either of which is
		// zero-width, so conservatively treat this edge as zero-width.
		return zeroWidthPathExists(atom, pc+instrLen(atom, pc), visited)

	case opSimpleGreedyQuant:
		atomLen := int(le32(atom[pc+1:]))
		minRep := le32(atom[pc+5:])
		if minRep == 0 {
			// Zero repetitions is a legal path: skip the whole construct,
			// header plus its inline atom bytes.
			return zeroWidthPathExists(atom, pc+instrLen(atom, pc)+atomLen, visited)
		}
		return false

	case opMatch:
		return true

	default:
		// line_start/end, word boundaries, save_*, push_i32, drop,
		// push_char_pos, check_advance: all zero-width.
		return zeroWidthPathExists(atom, pc+instrLen(atom, pc), visited)
	}
}

// analyzeStackDepth walks body's static control-flow graph to compute the
// maximum number of concurrently pushed integer-stack slots
// (push_i32/push_char_pos against drop/check_advance), i.e. the bytecode
// header's stack_size_max. Branches are explored independently (a split's
// two successors each inherit the depth at the split), and a revisit of a
// pc at a depth no deeper than previously recorded is not re-explored, so
// loops terminate.
func analyzeStackDepth(body []byte) (int, error) {
	type state struct {
		pc, depth int
	}
	best := make(map[int]int)
	maxDepth := 0
	var stack []state
	stack = append(stack, state{0, 0})

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.pc >= len(body) {
			continue
		}
		if prev, ok := best[s.pc]; ok && prev >= s.depth {
			continue
		}
		best[s.pc] = s.depth
		if s.depth > maxDepth {
			maxDepth = s.depth
			if maxDepth > maxStackDepth {
				return 0, &TooComplexError{Msg: "pattern too complex: quantifier nesting exceeds stack limit"}
			}
		}

		op := opcode(body[s.pc])
		next := s.pc + instrLen(body, s.pc)
		switch op {
		case opPushI32, opPushCharPos:
			stack = append(stack, state{next, s.depth + 1})
		case opDrop, opCheckAdvance:
			d := s.depth - 1
			if d < 0 {
				d = 0
			}
			stack = append(stack, state{next, d})
		case opSplitGotoFirst, opSplitNextFirst, opLoop:
			disp := int(le32s(body[s.pc+1:]))
			stack = append(stack, state{next, s.depth})
			stack = append(stack, state{next + disp, s.depth})
		case opGoto:
			disp := int(le32s(body[s.pc+1:]))
			stack = append(stack, state{next + disp, s.depth})
		case opLookahead, opNegativeLookahead:
			disp := int(le32s(body[s.pc+1:]))
			// Explore the assertion body itself (it ends at its own
			// opMatch; at runtime it starts from an empty integer stack,
			// so counting it on top of the current depth over-estimates
			// rather than under-estimates) as well as the continuation
			// past the whole construct.
			stack = append(stack, state{next, s.depth})
			stack = append(stack, state{next + disp, s.depth})
		case opMatch:
			// end of this control-flow region; nothing follows.
		default:
			stack = append(stack, state{next, s.depth})
		}
	}
	return maxDepth, nil
}
