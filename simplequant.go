package lre

// execSimpleGreedyQuant implements the simple_greedy_quant fast path: atom
// is known (by analyzeAtom, at compile time) to be a fixed-width,
// side-effect-free sequence of character-matching instructions, so every
// repetition can be tried eagerly up to maxRep without per-iteration
// choice-point bookkeeping, then unwound one repetition at a time via
// ordinary split-style backtrack frames if the continuation fails.
func (st *execState) execSimpleGreedyQuant(pc, pos int, backward bool, caps []int, intStack []int32, stack []frame) (int, []frame, bool, bool) {
	atomLen := int(le32(st.body[pc+1:]))
	minRep := le32(st.body[pc+5:])
	maxRep := le32(st.body[pc+9:])
	atomStart := pc + 1 + 16
	atom := st.body[atomStart : atomStart+atomLen]

	positions := []int{pos}
	cur := pos
	var reps uint32
	for maxRep == 0xFFFFFFFF || reps < maxRep {
		if st.poll() {
			return 0, nil, false, true
		}
		np, ok := st.matchSimpleAtomOnce(atom, cur, backward)
		if !ok {
			break
		}
		cur = np
		reps++
		positions = append(positions, cur)
	}
	if reps < minRep {
		return 0, nil, false, false
	}

	cont := pc + instrLen(st.body, pc) + atomLen
	for k := minRep; k < reps; k++ {
		stack = append(stack, frame{
			pc:       cont,
			pos:      positions[k],
			backward: backward,
			caps:     append([]int(nil), caps...),
			intStack: append([]int32(nil), intStack...),
		})
	}
	return positions[reps], stack, true, false
}

// matchSimpleAtomOnce runs atom's straight-line character-matching
// instructions once starting at pos, returning the position past it and
// ok=true on success.
func (st *execState) matchSimpleAtomOnce(atom []byte, pos int, backward bool) (int, bool) {
	p := 0
	for p < len(atom) {
		op := opcode(atom[p])
		r, ok := st.advance(&pos, backward)
		if !ok {
			return 0, false
		}
		switch op {
		case opChar8, opChar16, opChar32:
			want := readCharOperand(op, atom, p)
			if !st.charEquals(r, want) {
				return 0, false
			}
		case opDot:
			if isLineTerminator(r) {
				return 0, false
			}
		case opAny:
			// matches anything
		case opRange, opRange32:
			if !st.rangeContains(op, atom, p, r) {
				return 0, false
			}
		}
		p += instrLen(atom, p)
	}
	return pos, true
}
