package lre

import "unicode/utf8"

// prescan performs a lightweight lexical pass over the pattern to compute
// the total capturing-group count and the set of declared group names
// before the real recursive-descent parse runs. ECMAScript allows a
// back-reference — numeric or named — to refer to a group that appears
// later in the pattern (hoisting), so the parser needs this information
// up front rather than discovering it incrementally.
//
// The scan is deliberately shallow: it tracks character-class bracket
// depth (so parens inside [...] are not mistaken for groups) and escape
// sequences (so \( and \[ don't perturb depth tracking), but does not
// otherwise validate the grammar — malformed input is left for the real
// parser to reject with a precise error.
func (c *compiler) prescan() error {
	c.groupNames = make([]string, 1, 8)
	c.nameSet = make(map[string]bool)

	s := c.src
	inClass := false
	for i := 0; i < len(s); {
		ch := s[i]
		switch {
		case ch == '\\':
			i += 2
			if i > len(s) {
				i = len(s)
			}
			continue
		case inClass:
			if ch == ']' {
				inClass = false
			}
			i++
		case ch == '[':
			inClass = true
			i++
		case ch == '(':
			if i+1 < len(s) && s[i+1] == '?' {
				// (?: (?= (?! (?<= (?<! (?<name>
				if i+2 < len(s) && s[i+2] == '<' && i+3 < len(s) && s[i+3] != '=' && s[i+3] != '!' {
					name, n := scanGroupName(s[i+3:])
					if err := c.validateGroupName(name, i+3); err != nil {
						return err
					}
					if c.nameSet[name] {
						return c.errfAt(i+3, "duplicate capture group name %q", name)
					}
					c.totalCaps++
					c.groupNames = append(c.groupNames, name)
					c.nameSet[name] = true
					i += 3 + n
					continue
				}
				i++
				continue
			}
			c.totalCaps++
			c.groupNames = append(c.groupNames, "")
			i++
		default:
			_, n := utf8.DecodeRuneInString(s[i:])
			i += n
		}
	}
	return nil
}

// validateGroupName checks that a capture group name is a well-formed
// identifier: non-empty, IdentifierStart first, IdentifierContinue for
// the rest, per the IdentifierClassifier collaborator.
func (c *compiler) validateGroupName(name string, at int) error {
	if name == "" {
		return c.errfAt(at, "invalid capture group name")
	}
	for i, r := range name {
		if i == 0 {
			if !c.cfg.Idents.IsIDStart(r) {
				return c.errfAt(at, "invalid capture group name %q", name)
			}
			continue
		}
		if !c.cfg.Idents.IsIDContinue(r) {
			return c.errfAt(at, "invalid capture group name %q", name)
		}
	}
	return nil
}

// scanGroupName consumes a GroupName> production (the name plus the
// closing '>') from s, which begins right after "(?<", and returns the
// decoded name and the number of bytes consumed including '>'.
func scanGroupName(s string) (name string, n int) {
	for n < len(s) && s[n] != '>' {
		n++
	}
	name = s[:n]
	if n < len(s) {
		n++ // consume '>'
	}
	return name, n
}
