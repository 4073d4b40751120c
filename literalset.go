package lre

// extractLiteralAlternatives attempts to read pattern as nothing but a
// top-level disjunction of fixed ASCII literal alternatives — the shape
// `foo|bar|baz` with no groups, classes, quantifiers, anchors, or
// escapes beyond a literal syntax-character (or '/') escape and the
// \n \r \t \f \v control escapes. Compile wires a
// prefilter.Prefilter built from the resulting set onto the compiled
// Program (see compiler.compile) so Exec can answer a match by literal
// scan alone, bypassing the backtracking VM entirely.
//
// Restricted to ASCII-only literals (and therefore unaffected by
// IgnoreCase/Unicode folding, which the caller excludes before calling
// this) so the identical byte sequence is valid prefilter input under
// both the Latin1 and UTF8 input encodings without re-encoding.
func extractLiteralAlternatives(pattern string) ([][]byte, bool) {
	var lits [][]byte
	start := 0
	for i := 0; i <= len(pattern); i++ {
		if i == len(pattern) || pattern[i] == '|' {
			lit, ok := literalBytes(pattern[start:i])
			if !ok || len(lit) == 0 {
				return nil, false
			}
			lits = append(lits, lit)
			start = i + 1
		}
	}
	if len(lits) < 2 {
		return nil, false
	}
	return lits, true
}

// literalBytes decodes alt as a pure literal run, returning ok=false the
// instant it sees anything that isn't an ASCII literal byte or one of
// the fixed backslash escapes below.
func literalBytes(alt string) ([]byte, bool) {
	out := make([]byte, 0, len(alt))
	for i := 0; i < len(alt); i++ {
		ch := alt[i]
		if ch >= 0x80 {
			return nil, false
		}
		if ch == '\\' {
			if i+1 >= len(alt) {
				return nil, false
			}
			i++
			esc := alt[i]
			switch esc {
			case '^', '$', '\\', '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|', '/':
				out = append(out, esc)
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'f':
				out = append(out, '\f')
			case 'v':
				out = append(out, '\v')
			default:
				return nil, false
			}
			continue
		}
		if isSyntaxChar(ch) {
			return nil, false
		}
		out = append(out, ch)
	}
	return out, true
}
