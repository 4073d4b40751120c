package lre

// parseDisjunction parses `alternative ('|' alternative)*` into the
// current buffer, wrapping multiple alternatives in a split/goto chain:
// each '|' inserts a split_next_first at the start of the previous
// alternative (trying it first, greedy-vs-lazy's "first" meaning "the
// written order") and a goto-past-the-rest at its end.
func (c *compiler) parseDisjunction() error {
	c.depth++
	if c.depth > c.cfg.MaxRecursionDepth {
		c.depth--
		return c.errf("pattern too complex: nesting depth exceeded")
	}
	defer func() { c.depth-- }()

	var alts [][]byte
	for {
		c.pushBuf()
		if err := c.parseAlternative(); err != nil {
			return err
		}
		alts = append(alts, c.popBuf())
		if c.peekByte() != '|' {
			break
		}
		c.pos++
	}

	if len(alts) == 1 {
		c.cur().b = append(c.cur().b, alts[0]...)
		return nil
	}

	const splitSize = 5
	const gotoSize = 5
	n := len(alts)
	suffix := make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		sz := len(alts[i])
		if i < n-1 {
			sz += splitSize + gotoSize
		}
		suffix[i] = sz + suffix[i+1]
	}

	buf := c.cur()
	for i, a := range alts {
		if i < n-1 {
			buf.op(opSplitNextFirst)
			splitDisp := len(a) + gotoSize
			buf.i32(int32(splitDisp))
			buf.b = append(buf.b, a...)
			buf.op(opGoto)
			buf.i32(int32(suffix[i+1]))
		} else {
			buf.b = append(buf.b, a...)
		}
	}
	return nil
}

// parseAlternative parses a sequence of terms. When c.backward is set
// (inside a lookbehind), each term is compiled into its own sub-buffer
// and the sequence is reassembled in reverse order, so the assertion
// body consumes input right-to-left term by term.
func (c *compiler) parseAlternative() error {
	if !c.backward {
		for !c.atTermBoundary() {
			if err := c.parseTerm(); err != nil {
				return err
			}
		}
		return nil
	}

	var terms [][]byte
	for !c.atTermBoundary() {
		c.pushBuf()
		if err := c.parseTerm(); err != nil {
			return err
		}
		terms = append(terms, c.popBuf())
	}
	buf := c.cur()
	for i := len(terms) - 1; i >= 0; i-- {
		buf.b = append(buf.b, terms[i]...)
	}
	return nil
}

// atTermBoundary reports whether the cursor sits at the end of the
// current alternative: end of pattern, a disjunction '|', or a closing
// ')' ending an enclosing group.
func (c *compiler) atTermBoundary() bool {
	if c.eof() {
		return true
	}
	b := c.peekByte()
	return b == '|' || b == ')'
}

// parseTerm parses a single assertion, or an atom optionally followed by
// a quantifier.
func (c *compiler) parseTerm() error {
	switch c.peekByte() {
	case '^':
		c.pos++
		c.cur().op(opLineStart)
		return nil
	case '$':
		c.pos++
		c.cur().op(opLineEnd)
		return nil
	}
	if c.peekByte() == '\\' {
		switch c.peekByteAt(1) {
		case 'b':
			c.pos += 2
			c.cur().op(opWordBoundary)
			return nil
		case 'B':
			c.pos += 2
			c.cur().op(opNotWordBoundary)
			return nil
		}
	}
	if c.peekByte() == '(' && c.isLookaround() {
		buf := c.cur()
		atomStart := buf.len()
		capsBefore := c.nextCapture
		behind := c.peekByteAt(2) == '<'
		if err := c.parseLookaround(); err != nil {
			return err
		}
		if behind || !c.lenient() {
			// Only a lookahead is a quantifiable assertion, and only
			// under Annex-B leniency; elsewhere a following quantifier
			// is "nothing to repeat" (raised by the next parseTerm).
			return nil
		}
		min, max, greedy, hasQuant, err := c.parseQuantifierOpt()
		if err != nil {
			return err
		}
		if !hasQuant {
			return nil
		}
		return c.applyQuantifier(atomStart, buf.len(), capsBefore, c.nextCapture, min, max, greedy)
	}

	buf := c.cur()
	atomStart := buf.len()
	capsBefore := c.nextCapture
	if err := c.parseAtom(); err != nil {
		return err
	}
	atomEnd := buf.len()
	capsAfter := c.nextCapture

	min, max, greedy, hasQuant, err := c.parseQuantifierOpt()
	if err != nil {
		return err
	}
	if !hasQuant {
		return nil
	}
	return c.applyQuantifier(atomStart, atomEnd, capsBefore, capsAfter, min, max, greedy)
}

// isLookaround reports whether the '(' at the cursor begins (?=, (?!,
// (?<=, or (?<!, as opposed to a capturing/non-capturing/named group.
func (c *compiler) isLookaround() bool {
	if c.peekByteAt(1) != '?' {
		return false
	}
	switch c.peekByteAt(2) {
	case '=', '!':
		return true
	case '<':
		return c.peekByteAt(3) == '=' || c.peekByteAt(3) == '!'
	}
	return false
}

func (c *compiler) parseLookaround() error {
	negative := false
	backward := false
	switch {
	case c.peekByteAt(2) == '=':
		c.pos += 3
	case c.peekByteAt(2) == '!':
		negative = true
		c.pos += 3
	case c.peekByteAt(3) == '=':
		backward = true
		c.pos += 4
	case c.peekByteAt(3) == '!':
		backward = true
		negative = true
		c.pos += 4
	}

	buf := c.cur()
	op := opLookahead
	if negative {
		op = opNegativeLookahead
	}
	buf.op(op)
	ph := buf.len()
	buf.i32(0)

	savedBackward := c.backward
	c.backward = backward
	if backward != savedBackward {
		// A single 'prev' marker at the head of a lookaround body flips
		// the matcher's character-traversal direction for the body's
		// entire extent; the flip is local to this assertion's
		// sub-execution. Emitted whenever the body's direction differs
		// from the enclosing context's, so a lookbehind nested inside
		// another lookbehind (already backward) needs no marker, while a
		// lookahead nested inside a lookbehind flips back to forward.
		buf.op(opPrev)
	}
	err := c.parseDisjunction()
	c.backward = savedBackward
	if err != nil {
		return err
	}
	buf.op(opMatch)

	if c.peekByte() != ')' {
		return c.errf("expecting ')'")
	}
	c.pos++

	bodyEnd := buf.len()
	buf.patchI32(ph, int32(bodyEnd-ph-4))
	return nil
}
