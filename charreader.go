package lre

import "unicode/utf8"

// charReader decodes Input at arbitrary positions according to its
// encoding, in both directions, so the matcher can advance or retreat the
// cursor (lookbehind assertions traverse backward) without caring which of
// the four encodings it was given.
type charReader struct {
	in                Input
	combineSurrogates bool
}

func newCharReader(in Input, flags Flags) charReader {
	return charReader{
		in:                in,
		combineSurrogates: in.enc == EncodingUTF16 && flags.strict(),
	}
}

func (cr charReader) length() int { return cr.in.Len() }

// nextChar decodes the code point starting at pos and returns it together
// with its width in input units, or (-1, 0) at end of input.
func (cr charReader) nextChar(pos int) (rune, int) {
	switch cr.in.enc {
	case EncodingLatin1:
		if pos >= len(cr.in.bytes) {
			return -1, 0
		}
		return rune(cr.in.bytes[pos]), 1
	case EncodingUTF8:
		if pos >= len(cr.in.bytes) {
			return -1, 0
		}
		r, n := utf8.DecodeRune(cr.in.bytes[pos:])
		if r == utf8.RuneError && n <= 1 {
			return rune(cr.in.bytes[pos]), 1
		}
		return r, n
	case EncodingUTF16Raw:
		if pos >= len(cr.in.units) {
			return -1, 0
		}
		return rune(cr.in.units[pos]), 1
	case EncodingUTF16:
		if pos >= len(cr.in.units) {
			return -1, 0
		}
		u := cr.in.units[pos]
		if cr.combineSurrogates && isHighSurrogate(u) && pos+1 < len(cr.in.units) {
			if lo := cr.in.units[pos+1]; isLowSurrogate(lo) {
				return combineSurrogates(u, lo), 2
			}
		}
		return rune(u), 1
	}
	return -1, 0
}

// prevChar decodes the code point immediately preceding pos and returns it
// together with its width in input units, or (-1, 0) at the start of input.
func (cr charReader) prevChar(pos int) (rune, int) {
	switch cr.in.enc {
	case EncodingLatin1:
		if pos <= 0 {
			return -1, 0
		}
		return rune(cr.in.bytes[pos-1]), 1
	case EncodingUTF8:
		if pos <= 0 {
			return -1, 0
		}
		r, n := utf8.DecodeLastRune(cr.in.bytes[:pos])
		if r == utf8.RuneError && n <= 1 {
			return rune(cr.in.bytes[pos-1]), 1
		}
		return r, n
	case EncodingUTF16Raw:
		if pos <= 0 {
			return -1, 0
		}
		return rune(cr.in.units[pos-1]), 1
	case EncodingUTF16:
		if pos <= 0 {
			return -1, 0
		}
		u := cr.in.units[pos-1]
		if cr.combineSurrogates && isLowSurrogate(u) && pos-2 >= 0 {
			if hi := cr.in.units[pos-2]; isHighSurrogate(hi) {
				return combineSurrogates(hi, u), 2
			}
		}
		return rune(u), 1
	}
	return -1, 0
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u <= 0xDBFF }
func isLowSurrogate(u uint16) bool  { return u >= 0xDC00 && u <= 0xDFFF }

func combineSurrogates(hi, lo uint16) rune {
	return rune(0x10000 + (int32(hi)-0xD800)*0x400 + (int32(lo) - 0xDC00))
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}
