package lre

import (
	"fmt"

	"github.com/coregx/lre/internal/conv"
	"github.com/coregx/lre/prefilter"
)

// headerSize is the fixed 8-byte bytecode header:
// flags(u16) | capture_count(u8) | stack_size_max(u8) | body_len(u32).
const headerSize = 8

const (
	maxCaptureCount = 255
	maxStackDepth   = 255
	maxRangeCount   = 65535
)

// Program is a compiled, self-contained bytecode program: the 8-byte
// header, the instruction body, and (when NamedGroups is set) the packed
// NUL-terminated group-name table. It is immutable after Compile returns
// and safe to share across goroutines.
type Program struct {
	buf          []byte // header + body + name table, exactly as wire-laid-out
	captureCount int
	stackSize    int
	bodyLen      int
	groupNames   []string // len == captureCount-1, "" for unnamed groups

	// pf is a compile-time-only optimization annotation: non-nil when
	// the compiler recognized the pattern as a pure literal-alternation
	// (see extractLiteralAlternatives) and built an Aho-Corasick/byte-scan
	// prefilter for it. It is never part of the wire format — a Program
	// round-tripped through Bytes/ParseProgram simply has pf == nil and
	// falls back to the ordinary VM, with identical match semantics.
	pf *prefilter.Prefilter

	// canon is the canonicalizer the pattern was compiled with, consulted
	// again at exec time for IgnoreCase input folding so both sides of
	// the comparison use the same fold. Like pf it is not part of the
	// wire format; a parsed Program falls back to DefaultCanonicalizer.
	canon Canonicalizer
}

// Flags returns the compiled flag bits, including the internal
// NamedGroups bit set by the compiler.
func (p *Program) Flags() Flags {
	return Flags(le16(p.buf[0:2]))
}

// CaptureCount returns the number of capture slots, including the
// implicit whole-match capture 0.
func (p *Program) CaptureCount() int { return p.captureCount }

// StackSize returns the maximum concurrent backtrack integer-stack depth
// required to execute this program.
func (p *Program) StackSize() int { return p.stackSize }

// GroupNames returns the named-group table in capture-index order,
// starting at capture 1 (index i holds the name of capture i+1; unnamed
// groups are ""), or nil if the pattern has no named groups.
func (p *Program) GroupNames() []string { return p.groupNames }

// body returns the instruction stream, excluding header and name table.
func (p *Program) body() []byte { return p.buf[headerSize : headerSize+p.bodyLen] }

// Bytes returns the raw wire-format bytecode buffer (header + body +
// optional name table). The returned slice must not be mutated except
// through ByteSwap.
func (p *Program) Bytes() []byte { return p.buf }

// ParseProgram reconstructs a *Program from a previously-serialized
// buffer (e.g. loaded from disk), validating the header fields.
func ParseProgram(buf []byte) (*Program, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("lre: truncated bytecode header")
	}
	flags := Flags(le16(buf[0:2]))
	captureCount := int(buf[2])
	stackSize := int(buf[3])
	bodyLen := int(le32(buf[4:8]))
	if headerSize+bodyLen > len(buf) {
		return nil, fmt.Errorf("lre: truncated bytecode body")
	}
	if err := validateBody(buf[headerSize : headerSize+bodyLen]); err != nil {
		return nil, err
	}
	p := &Program{
		buf:          buf,
		captureCount: captureCount,
		stackSize:    stackSize,
		bodyLen:      bodyLen,
	}
	if flags.has(NamedGroups) {
		names, err := parseGroupNames(buf[headerSize+bodyLen:], captureCount-1)
		if err != nil {
			return nil, err
		}
		p.groupNames = names
	}
	return p, nil
}

// validateBody walks an untrusted instruction stream, rejecting unknown
// opcodes, instructions that run past the end of the body, and range
// instructions that misuse the 16-bit +infinity sentinel (0xFFFF is only
// meaningful as the final high; a non-terminal 0xFFFF high would be
// ambiguous between "literally U+FFFF" and "+infinity" on replay).
// Compile's own output never trips any of these; this guards programs
// loaded from external buffers.
func validateBody(body []byte) error {
	pc := 0
	for pc < len(body) {
		op := opcode(body[pc])
		if op >= opCount {
			return fmt.Errorf("lre: invalid bytecode: unknown opcode %d at offset %d", op, pc)
		}
		switch op {
		case opRange, opRange32:
			if pc+3 > len(body) {
				return fmt.Errorf("lre: invalid bytecode: truncated range at offset %d", pc)
			}
			n := int(le16(body[pc+1:]))
			pairWidth := 2
			if op == opRange32 {
				pairWidth = 4
			}
			end := pc + 3 + n*2*pairWidth
			if end > len(body) {
				return fmt.Errorf("lre: invalid bytecode: truncated range table at offset %d", pc)
			}
			if op == opRange {
				for i := 0; i < n-1; i++ {
					if le16(body[pc+3+i*4+2:]) == 0xFFFF {
						return fmt.Errorf("lre: invalid bytecode: non-terminal 0xFFFF range high at offset %d", pc)
					}
				}
			}
			pc = end
		default:
			sz := opSize(op)
			if sz < 0 || pc+1+sz > len(body) {
				return fmt.Errorf("lre: invalid bytecode: truncated instruction at offset %d", pc)
			}
			// simple_greedy_quant's inline atom bytes are themselves
			// instructions and are validated by the continuing walk.
			pc += 1 + sz
		}
	}
	return nil
}

func parseGroupNames(buf []byte, count int) ([]string, error) {
	names := make([]string, count)
	off := 0
	for i := 0; i < count; i++ {
		start := off
		for off < len(buf) && buf[off] != 0 {
			off++
		}
		if off >= len(buf) {
			return nil, fmt.Errorf("lre: truncated group-name table")
		}
		names[i] = string(buf[start:off])
		off++
	}
	return names, nil
}

// finalize packs the header in front of body and appends the group-name
// table (if any named group was registered), producing the final wire
// buffer. Called once at the end of compilation.
func finalize(body []byte, flags Flags, captureCount, stackSize int, names []string) (*Program, error) {
	if captureCount > maxCaptureCount {
		return nil, &TooComplexError{Msg: fmt.Sprintf("too many captures: %d > %d", captureCount, maxCaptureCount)}
	}
	if stackSize > maxStackDepth {
		return nil, &TooComplexError{Msg: fmt.Sprintf("backtrack stack too deep: %d > %d", stackSize, maxStackDepth)}
	}

	hasNames := false
	for _, n := range names {
		if n != "" {
			hasNames = true
			break
		}
	}
	if hasNames {
		flags |= NamedGroups
	}

	captureByte := byte(conv.IntToUint16(captureCount))
	stackByte := byte(conv.IntToUint16(stackSize))
	bl := conv.IntToUint32(len(body))

	buf := make([]byte, 0, headerSize+len(body))
	buf = append(buf, byte(flags), byte(flags>>8))
	buf = append(buf, captureByte, stackByte)
	buf = append(buf, byte(bl), byte(bl>>8), byte(bl>>16), byte(bl>>24))
	buf = append(buf, body...)

	p := &Program{
		buf:          buf,
		captureCount: captureCount,
		stackSize:    stackSize,
		bodyLen:      len(body),
	}

	if hasNames {
		for _, n := range names {
			p.buf = append(p.buf, []byte(n)...)
			p.buf = append(p.buf, 0)
		}
		p.groupNames = names
	}
	return p, nil
}
