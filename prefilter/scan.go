package prefilter

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// ScanByte returns the index of the first occurrence of b in haystack at
// or after from, or -1 if absent. Dispatch is feature-gated via
// golang.org/x/sys/cpu: on a CPU reporting SSE4.2, the scan defers to
// the standard library's hardware-accelerated bytes.IndexByte; elsewhere
// it runs the pure-Go SWAR (SIMD-within-a-register) scan below.
func ScanByte(haystack []byte, b byte, from int) int {
	if from >= len(haystack) {
		return -1
	}
	sub := haystack[from:]
	var idx int
	if cpu.X86.HasSSE42 {
		idx = bytes.IndexByte(sub, b)
	} else {
		idx = swarIndexByte(sub, b)
	}
	if idx < 0 {
		return -1
	}
	return from + idx
}

// swarIndexByte finds needle in haystack eight bytes at a time using the
// classic zero-byte-detection trick, falling back to a byte-by-byte scan
// for the final (<8-byte) remainder.
func swarIndexByte(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	needleMask := uint64(needle) * 0x0101010101010101
	const lo8 = 0x0101010101010101
	const hi8 = 0x8080808080808080

	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		xor := chunk ^ needleMask
		hasZero := (xor - lo8) &^ xor & hi8
		if hasZero != 0 {
			return i + bits.TrailingZeros64(hasZero)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}
