// Package prefilter accelerates matching for patterns whose entire body
// is nothing but a disjunction of fixed literal alternatives — e.g.
// `foo|bar|baz` — by finding candidate positions with an Aho-Corasick
// automaton instead of ever invoking the backtracking VM.
//
// A literal-only pattern's entire match behavior is fully captured by
// its literal set, so there is nothing for the backtracking VM to add;
// the scan answers the match outright.
package prefilter

import "github.com/coregx/ahocorasick"

// Prefilter finds occurrences of a fixed literal set within a byte
// haystack. A zero-value *Prefilter (nil) is always a no-op miss, so
// callers can store a possibly-nil *Prefilter on a compiled program
// without a separate presence check at every call site.
type Prefilter struct {
	automaton  *ahocorasick.Automaton
	singleByte byte
	isSingle   bool
}

// Build compiles lits into a Prefilter. It reports ok=false if lits is
// empty or the underlying automaton fails to build (e.g. a pathological
// pattern set), in which case the caller should fall back to the
// backtracking VM for every match instead.
func Build(lits [][]byte) (pf *Prefilter, ok bool) {
	if len(lits) == 0 {
		return nil, false
	}
	if len(lits) == 1 && len(lits[0]) == 1 {
		// Single required byte: ScanByte's feature-gated scan beats
		// building a one-state automaton for it.
		return &Prefilter{singleByte: lits[0][0], isSingle: true}, true
	}
	b := ahocorasick.NewBuilder()
	for _, lit := range lits {
		b.AddPattern(lit)
	}
	auto, err := b.Build()
	if err != nil {
		return nil, false
	}
	return &Prefilter{automaton: auto}, true
}

// Find returns the span of the first literal occurrence at or after at
// in haystack, or ok=false if none remains.
func (p *Prefilter) Find(haystack []byte, at int) (start, end int, ok bool) {
	if p == nil || at > len(haystack) {
		return 0, 0, false
	}
	if p.isSingle {
		idx := ScanByte(haystack, p.singleByte, at)
		if idx < 0 {
			return 0, 0, false
		}
		return idx, idx + 1, true
	}
	m := p.automaton.Find(haystack, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// IsMatch reports whether any literal in the set occurs anywhere in
// haystack.
func (p *Prefilter) IsMatch(haystack []byte) bool {
	if p == nil {
		return false
	}
	if p.isSingle {
		return ScanByte(haystack, p.singleByte, 0) >= 0
	}
	return p.automaton.IsMatch(haystack)
}
