package lre

// parseClass parses a `[...]` character class: a possibly-negated union
// of literal characters, ranges, and shorthand escapes, optionally
// combined with further operands via the UnicodeSets (`v` mode)
// class-set operators `--` (subtraction) and `&&` (intersection)
// between bracketed sub-expressions, e.g.
// `[\w--[aeiou]]` or `[\p{Letter}&&\p{ASCII}]`.
func (c *compiler) parseClass() error {
	c.pos++ // consume '['
	cr, negate, closed, err := c.parseClassExpr()
	if err != nil {
		return err
	}

	if c.flags.has(UnicodeSets) {
		for !closed {
			op, ok := c.peekClassSetOp()
			if !ok {
				break
			}
			c.pos += 2
			rhs, err := c.parseClassSetOperand()
			if err != nil {
				return err
			}
			if op == "--" {
				cr.Subtract(rhs)
			} else {
				cr.Intersect(rhs)
			}
			if c.peekByte() == ']' {
				c.pos++
				closed = true
			}
		}
	}
	if !closed {
		return c.errf("expecting ']'")
	}

	cr.Normalize()
	if negate {
		cr.Invert(maxCodePoint)
	}
	return c.emitClassRanges(cr)
}

// peekClassSetOp reports whether the cursor sits at a UnicodeSets
// class-set operator ("--" or "&&"). Only the two operator bytes are
// examined; what follows them is left to the caller.
func (c *compiler) peekClassSetOp() (op string, ok bool) {
	if c.peekByte() == '-' && c.peekByteAt(1) == '-' {
		return "--", true
	}
	if c.peekByte() == '&' && c.peekByteAt(1) == '&' {
		return "&&", true
	}
	return "", false
}

// parseClassSetOperand parses a class-set operator's right-hand operand:
// either a bracketed sub-expression `[...]` or a single shorthand/
// property class escape (`\d`, `\p{...}`, ...).
func (c *compiler) parseClassSetOperand() (*CharRanges, error) {
	if c.peekByte() == '[' {
		c.pos++
		cr, negate, closed, err := c.parseClassExpr()
		if err != nil {
			return nil, err
		}
		if !closed {
			return nil, c.errf("expecting ']'")
		}
		if negate {
			cr.Invert(maxCodePoint)
		}
		return cr, nil
	}
	r, isClass, class, err := c.parseClassAtom(false)
	if err != nil {
		return nil, err
	}
	if !isClass {
		cr := &CharRanges{}
		cr.AddRune(r)
		return c.classClose(cr), nil
	}
	return class, nil
}

// parseClassExpr parses the body of a `[...]` expression (the cursor
// sits right after its opening '[') up to and including the closing
// ']', returning the unioned range set and whether a leading '^'
// negated it. It does not itself apply the negation or emit anything,
// so callers can combine the result with a `--`/`&&` class-set operator
// before deciding how to emit it.
func (c *compiler) parseClassExpr() (cr *CharRanges, negate, closed bool, err error) {
	if c.peekByte() == '^' {
		negate = true
		c.pos++
	}

	cr = &CharRanges{}
	first := true
	for {
		if c.eof() {
			return nil, false, false, c.errf("expecting ']'")
		}
		if c.peekByte() == ']' {
			c.pos++
			closed = true
			break
		}
		if c.flags.has(UnicodeSets) {
			if _, ok := c.peekClassSetOp(); ok {
				break
			}
		}

		lo, loIsClass, loClass, err := c.parseClassAtom(first)
		first = false
		if err != nil {
			return nil, false, false, err
		}
		if loIsClass {
			cr.Union(loClass)
			// A '-' after a class escape cannot begin a range (a class
			// is not a single code point). Strict mode rejects it;
			// Annex-B reads the '-' as a literal class member. A '--'
			// here is left alone for the UnicodeSets operator loop.
			if c.peekByte() == '-' && c.peekByteAt(1) != ']' && c.peekByteAt(1) != '-' && !c.eof2() {
				if !c.lenient() {
					return nil, false, false, c.errf("invalid class range")
				}
				c.pos++
				cr.AddRune('-')
			}
			continue
		}

		// Range? "lo-hi" only if '-' is not immediately followed by ']'
		// (Annex-B leniency: a trailing '-' is a literal outside strict
		// Unicode mode).
		if c.peekByte() == '-' && c.peekByteAt(1) != ']' && !c.eof2() {
			dashPos := c.pos
			c.pos++
			hi, hiIsClass, _, err := c.parseClassAtom(false)
			if err != nil {
				return nil, false, false, err
			}
			if hiIsClass {
				if !c.lenient() {
					return nil, false, false, c.errf("invalid class range")
				}
				// Annex-B: treat '-' and the shorthand as literals.
				c.classAddRange(cr, lo, lo)
				cr.AddRune('-')
				c.pos = dashPos + 1
				continue
			}
			if hi < lo {
				return nil, false, false, c.errf("invalid class range (out of order)")
			}
			c.classAddRange(cr, lo, hi)
			continue
		}
		c.classAddRange(cr, lo, lo)
	}
	return cr, negate, closed, nil
}

// eof2 is a tiny helper distinguishing "at EOF" from "single char left",
// used by the trailing-dash Annex-B check above.
func (c *compiler) eof2() bool { return c.pos+1 >= len(c.src) }

// classAddRange unions the inclusive range [lo,hi] into cr, case-closed
// under IGNORECASE so literal class pieces admit their case variants.
func (c *compiler) classAddRange(cr *CharRanges, lo, hi rune) {
	piece := &CharRanges{}
	piece.Add(lo, hi)
	cr.Union(c.classClose(piece))
}

// parseClassAtom parses one element inside [...]: a shorthand class
// escape (returned via isClass/class), a character escape, or a literal
// rune. atStart is true only for the very first element, where a bare
// ']' would already have been consumed by the caller and an initial '^'
// has been handled — kept for symmetry with the grammar, currently
// unused beyond documentation.
func (c *compiler) parseClassAtom(atStart bool) (r rune, isClass bool, class *CharRanges, err error) {
	_ = atStart
	if c.peekByte() != '\\' {
		return c.nextRune(), false, nil, nil
	}
	c.pos++
	if c.eof() {
		return 0, false, nil, c.errf("trailing backslash in class")
	}
	switch c.peekByte() {
	case 'd', 'D', 's', 'S', 'w', 'W':
		kind := c.peekByte()
		c.pos++
		return 0, true, c.classShorthandRanges(kind), nil
	case 'p', 'P':
		kind := c.peekByte()
		if !c.flags.strict() {
			// Outside Unicode mode \p has no property meaning; Annex-B
			// reads it as an identity escape for the letter itself.
			if c.lenient() {
				c.pos++
				return rune(kind), false, nil, nil
			}
			return 0, false, nil, c.errf(`\p and \P require the Unicode or UnicodeSets flag`)
		}
		c.pos++
		cr, perr := c.parsePropEscape()
		if perr != nil {
			return 0, false, nil, perr
		}
		cr = c.classClose(cr)
		if kind == 'P' {
			cr.Invert(maxCodePoint)
		}
		return 0, true, cr, nil
	case 'b':
		c.pos++
		return 0x08, false, nil, nil // \b inside a class is backspace
	}
	rn, cerr := c.parseCharEscape()
	if cerr != nil {
		return 0, false, nil, cerr
	}
	return rn, false, nil, nil
}
