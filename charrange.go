package lre

import "sort"

// maxCodePoint is the highest valid Unicode code point, the upper bound
// for class inversion and the expansion of the 16-bit range form's 0xFFFF
// +infinity sentinel.
const maxCodePoint rune = 0x10FFFF

// CharRange is a single inclusive code-point interval [Lo, Hi].
type CharRange struct {
	Lo, Hi rune
}

// CharRanges is an ordered, mergeable accumulator of inclusive code-point
// intervals. Character-class parsing and Unicode property/script lookups
// both fill one of these; the compiler consumes the final, normalized
// result to emit range/range32 instructions.
//
// Unlike the C reference engine's raw growable-buffer-of-pairs, it is
// just a slice, normalized on demand rather than kept sorted at every
// insertion.
type CharRanges struct {
	r []CharRange
}

// Add unions in a single inclusive range.
func (c *CharRanges) Add(lo, hi rune) {
	if lo > hi {
		return
	}
	c.r = append(c.r, CharRange{lo, hi})
}

// AddRune unions in a single code point.
func (c *CharRanges) AddRune(r rune) { c.Add(r, r) }

// Union merges another accumulator's ranges in.
func (c *CharRanges) Union(o *CharRanges) {
	c.r = append(c.r, o.r...)
}

// Normalize sorts and merges overlapping/adjacent ranges in place, and
// returns the result for chaining.
func (c *CharRanges) Normalize() *CharRanges {
	if len(c.r) == 0 {
		return c
	}
	sort.Slice(c.r, func(i, j int) bool { return c.r[i].Lo < c.r[j].Lo })
	out := c.r[:1]
	for _, r := range c.r[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	c.r = out
	return c
}

// Invert replaces the set with its complement over [0, maxCP], normally
// maxCodePoint; a smaller bound is only used by tests.
func (c *CharRanges) Invert(maxCP rune) *CharRanges {
	c.Normalize()
	var out []CharRange
	next := rune(0)
	for _, r := range c.r {
		if r.Lo > next {
			out = append(out, CharRange{next, r.Lo - 1})
		}
		if r.Hi+1 > next {
			next = r.Hi + 1
		}
	}
	if next <= maxCP {
		out = append(out, CharRange{next, maxCP})
	}
	c.r = out
	return c
}

// Subtract removes every code point in o from c (set difference),
// returning c for chaining. Used by the UnicodeSets `--` class-set
// operator.
func (c *CharRanges) Subtract(o *CharRanges) *CharRanges {
	c.Normalize()
	o.Normalize()
	var out []CharRange
	for _, r := range c.r {
		lo := r.Lo
		for _, sub := range o.r {
			if sub.Hi < lo || sub.Lo > r.Hi {
				continue
			}
			if sub.Lo > lo {
				out = append(out, CharRange{lo, sub.Lo - 1})
			}
			if sub.Hi+1 > lo {
				lo = sub.Hi + 1
			}
		}
		if lo <= r.Hi {
			out = append(out, CharRange{lo, r.Hi})
		}
	}
	c.r = out
	return c.Normalize()
}

// Intersect keeps only the code points c and o have in common (set
// intersection), returning c for chaining. Used by the UnicodeSets `&&`
// class-set operator.
func (c *CharRanges) Intersect(o *CharRanges) *CharRanges {
	c.Normalize()
	o.Normalize()
	var out []CharRange
	i, j := 0, 0
	for i < len(c.r) && j < len(o.r) {
		lo := c.r[i].Lo
		if o.r[j].Lo > lo {
			lo = o.r[j].Lo
		}
		hi := c.r[i].Hi
		if o.r[j].Hi < hi {
			hi = o.r[j].Hi
		}
		if lo <= hi {
			out = append(out, CharRange{lo, hi})
		}
		if c.r[i].Hi < o.r[j].Hi {
			i++
		} else {
			j++
		}
	}
	c.r = out
	return c.Normalize()
}

// Ranges returns the normalized, read-only range slice.
func (c *CharRanges) Ranges() []CharRange { return c.r }

// Len reports the number of (normalized) ranges.
func (c *CharRanges) Len() int { return len(c.r) }

// Contains reports whether r falls in any range, via binary search. Used
// by Canonicalize-aware class folding and by tests, not by the matcher
// itself (the matcher operates on compiled range instructions directly).
func (c *CharRanges) Contains(r rune) bool {
	rs := c.r
	i := sort.Search(len(rs), func(i int) bool { return rs[i].Hi >= r })
	return i < len(rs) && rs[i].Lo <= r
}

// fixed ranges named in the glossary: \d \s \w and their complements.
var (
	digitRanges = []CharRange{{'0', '9'}}
	wordRanges  = []CharRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	// spaceRanges is the complete \s set in every mode: the ASCII
	// whitespace, U+00A0 and U+FEFF, plus the Zs/Zl/Zp code points
	// listed inline. UnicodeTables is not consulted for \s.
	spaceRanges = []CharRange{
		{'\t', '\r'}, {' ', ' '}, {0x00A0, 0x00A0}, {0x1680, 0x1680},
		{0x2000, 0x200A}, {0x2028, 0x2029}, {0x202F, 0x202F},
		{0x205F, 0x205F}, {0x3000, 0x3000}, {0xFEFF, 0xFEFF},
	}
)

func fixedClass(ranges []CharRange) *CharRanges {
	cr := &CharRanges{r: append([]CharRange{}, ranges...)}
	return cr.Normalize()
}
