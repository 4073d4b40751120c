package lre

import "fmt"

// ByteSwap transforms a compiled Program's raw bytecode buffer in place
// between native byte order and the opposite (persisted, cross-endian)
// order. isByteSwapped describes buf's byte order
// as it stands on entry: false if buf is in this host's native order (the
// common case right after Compile, about to be written out for a
// foreign-endian reader), true if buf was read in already byte-swapped
// (loaded from a foreign-endian host) and is being restored to native
// order before use with [ParseProgram]/[Exec].
//
// Multi-byte fields are swapped according to each instruction's operand
// layout: the 8-byte header's flags/body-length fields, char16/char32
// literals, all relative-displacement operands, range/range32 pair
// tables (including their leading pair-count), and simple_greedy_quant's
// four u32 fields plus the char/range instructions nested inside its
// inline atom. save_reset's two capture-index bytes are untouched, since
// they are single bytes, not multi-byte fields.
//
// ByteSwap(ByteSwap(buf, x), !x) reproduces buf exactly.
func ByteSwap(buf []byte, isByteSwapped bool) error {
	if len(buf) < headerSize {
		return fmt.Errorf("lre: byte_swap: truncated header")
	}

	rd16 := func(b []byte) uint16 {
		if isByteSwapped {
			return uint16(b[1]) | uint16(b[0])<<8
		}
		return le16(b)
	}
	rd32 := func(b []byte) uint32 {
		if isByteSwapped {
			return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
		}
		return le32(b)
	}

	bodyLen := int(rd32(buf[4:8]))
	swap2(buf[0:2])
	swap4(buf[4:8])

	if headerSize+bodyLen > len(buf) {
		return fmt.Errorf("lre: byte_swap: truncated body")
	}
	body := buf[headerSize : headerSize+bodyLen]
	return swapRun(body, rd16, rd32)
}

// swapRun swaps every instruction in a contiguous instruction stream:
// either the program's whole body, or the inline atom embedded inside a
// simple_greedy_quant instruction. rd16/rd32 read a field in whatever
// byte order the buffer is CURRENTLY in (before this call swaps it),
// which is what lets count/displacement fields be parsed correctly
// before they themselves are flipped.
func swapRun(body []byte, rd16 func([]byte) uint16, rd32 func([]byte) uint32) error {
	pc := 0
	for pc < len(body) {
		op := opcode(body[pc])
		switch op {
		case opRange, opRange32:
			n := int(rd16(body[pc+1 : pc+3]))
			swap2(body[pc+1 : pc+3])
			pairWidth := 2
			if op == opRange32 {
				pairWidth = 4
			}
			off := pc + 3
			for i := 0; i < n; i++ {
				swapN(body[off:off+pairWidth], pairWidth)
				swapN(body[off+pairWidth:off+2*pairWidth], pairWidth)
				off += 2 * pairWidth
			}
			pc = off
			continue

		case opSimpleGreedyQuant:
			atomLen := int(rd32(body[pc+1 : pc+5]))
			swap4(body[pc+1 : pc+5])
			swap4(body[pc+5 : pc+9])
			swap4(body[pc+9 : pc+13])
			swap4(body[pc+13 : pc+17])
			atomStart := pc + 17
			if atomStart+atomLen > len(body) {
				return fmt.Errorf("lre: byte_swap: truncated simple_greedy_quant atom")
			}
			if err := swapRun(body[atomStart:atomStart+atomLen], rd16, rd32); err != nil {
				return err
			}
			pc = atomStart + atomLen
			continue

		case opChar16:
			swap2(body[pc+1 : pc+3])
		case opChar32:
			swap4(body[pc+1 : pc+5])
		case opSplitGotoFirst, opSplitNextFirst, opGoto, opPushI32, opLoop,
			opLookahead, opNegativeLookahead:
			swap4(body[pc+1 : pc+5])
		case opSaveReset:
			// two single-byte capture indices: no multi-byte field to swap.
		case opMatch, opChar8, opDot, opAny, opLineStart, opLineEnd,
			opWordBoundary, opNotWordBoundary, opBackReference,
			opBackwardBackReference, opSaveStart, opSaveEnd, opDrop,
			opPushCharPos, opCheckAdvance, opPrev:
			// fixed-size operand of single bytes, or no operand at all.
		default:
			return fmt.Errorf("lre: byte_swap: unknown opcode %d at offset %d", op, pc)
		}

		sz := opSize(op)
		if sz < 0 {
			return fmt.Errorf("lre: byte_swap: unexpected variable-size opcode %d", op)
		}
		pc += 1 + sz
	}
	return nil
}

func swap2(b []byte) { b[0], b[1] = b[1], b[0] }

func swap4(b []byte) { b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0] }

func swapN(b []byte, width int) {
	if width == 2 {
		swap2(b)
	} else {
		swap4(b)
	}
}
