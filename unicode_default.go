package lre

import "github.com/coregx/lre/internal/ucd"

// defaultTables is the batteries-included UnicodeTables/Canonicalizer/
// IdentifierClassifier implementation, built on Go's standard unicode
// package via internal/ucd. Compile uses this whenever the caller does
// not supply WithUnicodeTables/WithCanonicalizer explicitly.
type defaultTables struct{}

// DefaultUnicodeTables is the engine's built-in UnicodeTables
// implementation.
var DefaultUnicodeTables UnicodeTables = defaultTables{}

// DefaultCanonicalizer is the engine's built-in Canonicalizer
// implementation.
var DefaultCanonicalizer Canonicalizer = defaultTables{}

// DefaultIdentifiers is the engine's built-in IdentifierClassifier
// implementation.
var DefaultIdentifiers IdentifierClassifier = defaultTables{}

func (defaultTables) Script(name string, ext bool, out *CharRanges) error {
	return ucd.Script(name, ext, out)
}

func (defaultTables) GeneralCategory(name string, out *CharRanges) error {
	return ucd.GeneralCategory(name, out)
}

func (defaultTables) Prop(name string, out *CharRanges) error {
	return ucd.Prop(name, out)
}

func (defaultTables) Canonicalize(c rune, isUnicode bool) rune {
	return ucd.Canonicalize(c, isUnicode)
}

func (defaultTables) IsIDStart(c rune) bool { return ucd.IsIDStart(c) }

func (defaultTables) IsIDContinue(c rune) bool { return ucd.IsIDContinue(c) }
