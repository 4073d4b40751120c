package lre

// opcode identifies a single bytecode instruction. Values are not wire
// stable on their own (only the header's flag bits and the overall byte
// layout are); a Program is only meaningful together with the engine
// version that produced it, same as the reference implementation's
// REOPCodeEnum.
type opcode uint8

const (
	opMatch opcode = iota
	opChar8
	opChar16
	opChar32
	opDot
	opAny
	opLineStart
	opLineEnd
	opWordBoundary
	opNotWordBoundary
	opBackReference
	opBackwardBackReference
	opSaveStart
	opSaveEnd
	opSaveReset
	opRange
	opRange32
	opSplitGotoFirst
	opSplitNextFirst
	opGoto
	opPushI32
	opDrop
	opPushCharPos
	opCheckAdvance
	opLoop
	opLookahead
	opNegativeLookahead
	opPrev
	opSimpleGreedyQuant
	opCount
)

// opSize returns the fixed size in bytes of the instruction's operand
// (excluding the 1-byte opcode itself), or -1 for opcodes whose size is
// data-dependent (range/range32) and must be computed by the caller.
func opSize(op opcode) int {
	switch op {
	case opMatch, opDot, opAny, opLineStart, opLineEnd,
		opWordBoundary, opNotWordBoundary, opDrop,
		opPushCharPos, opCheckAdvance, opPrev:
		return 0
	case opChar8:
		return 1
	case opChar16:
		return 2
	case opChar32:
		return 4
	case opBackReference, opBackwardBackReference, opSaveStart, opSaveEnd:
		return 1
	case opSaveReset:
		return 2
	case opSplitGotoFirst, opSplitNextFirst, opGoto, opPushI32, opLoop,
		opLookahead, opNegativeLookahead:
		return 4
	case opSimpleGreedyQuant:
		return 16 // NEXT_OFF, MIN, MAX, CHARS_PER_ITER: four u32 fields
	case opRange, opRange32:
		return -1
	default:
		return -1
	}
}

// instrLen returns the total length in bytes (opcode + operand) of the
// instruction starting at buf[pc], including variable-length range tables.
func instrLen(buf []byte, pc int) int {
	op := opcode(buf[pc])
	switch op {
	case opRange:
		n := int(le16(buf[pc+1:]))
		return 1 + 2 + n*4 // count(u16) + n*(low,high as u16 pairs)
	case opRange32:
		n := int(le16(buf[pc+1:]))
		return 1 + 2 + n*8 // count(u16) + n*(low,high as u32 pairs)
	default:
		sz := opSize(op)
		if sz < 0 {
			panic("lre: corrupt bytecode: unknown opcode")
		}
		return 1 + sz
	}
}

func (op opcode) String() string {
	names := [...]string{
		"match", "char8", "char16", "char32", "dot", "any",
		"line_start", "line_end", "word_boundary", "not_word_boundary",
		"back_reference", "backward_back_reference", "save_start",
		"save_end", "save_reset", "range", "range32",
		"split_goto_first", "split_next_first", "goto", "push_i32",
		"drop", "push_char_pos", "check_advance", "loop", "lookahead",
		"negative_lookahead", "prev", "simple_greedy_quant",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "invalid_opcode"
}
