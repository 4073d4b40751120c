package lre

// compileConfig controls compiler behavior not exposed through the
// pattern text or Flags bits.
type compileConfig struct {
	// MaxRecursionDepth limits the parser's nesting depth (groups and
	// lookarounds) to guard against stack overflow on adversarial
	// patterns. Default: 100.
	MaxRecursionDepth int

	// AnnexB enables the Annex-B leniency fallbacks (stray '{', legacy
	// octal escapes, '\c' outside letters, '-' at class ends,
	// undefined-name back-reference fallback, out-of-range numeric
	// back-references reinterpreted as octal) whenever the pattern is
	// compiled outside strict Unicode mode (i.e. neither Unicode nor
	// UnicodeSets is set). Default: true, matching ECMAScript's own
	// default outside strict mode.
	AnnexB bool

	// Tables supplies the Unicode script/category/property lookup used
	// by \p{...}/\P{...}. Default: DefaultUnicodeTables.
	Tables UnicodeTables

	// Canon supplies the per-code-point case-folding function used under
	// IGNORECASE. Default: DefaultCanonicalizer.
	Canon Canonicalizer

	// Idents supplies the identifier-start/continue predicates used by
	// named-group-name validation. Default: DefaultIdentifiers.
	Idents IdentifierClassifier

	// EnablePrefilter turns on the Aho-Corasick/literal-scan acceleration
	// layer (package prefilter) for patterns that consist solely of two
	// or more ASCII literal alternatives (see extractLiteralAlternatives).
	// Purely a performance knob; matching semantics are
	// identical with it on or off. Default: true.
	EnablePrefilter bool
}

// defaultCompileConfig returns the engine's default compilation
// configuration.
func defaultCompileConfig() compileConfig {
	return compileConfig{
		MaxRecursionDepth: 100,
		AnnexB:            true,
		Tables:            DefaultUnicodeTables,
		Canon:             DefaultCanonicalizer,
		Idents:            DefaultIdentifiers,
		EnablePrefilter:   true,
	}
}

// CompileOption configures a single Compile call.
type CompileOption func(*compileConfig)

// WithMaxRecursionDepth overrides the parser's nesting-depth limit.
func WithMaxRecursionDepth(n int) CompileOption {
	return func(c *compileConfig) { c.MaxRecursionDepth = n }
}

// WithAnnexB explicitly enables or disables Annex-B leniency fallbacks.
func WithAnnexB(enabled bool) CompileOption {
	return func(c *compileConfig) { c.AnnexB = enabled }
}

// WithUnicodeTables overrides the Unicode script/category/property
// collaborator.
func WithUnicodeTables(t UnicodeTables) CompileOption {
	return func(c *compileConfig) { c.Tables = t }
}

// WithCanonicalizer overrides the case-folding collaborator.
func WithCanonicalizer(cz Canonicalizer) CompileOption {
	return func(c *compileConfig) { c.Canon = cz }
}

// WithPrefilter enables or disables the literal/Aho-Corasick
// acceleration layer.
func WithPrefilter(enabled bool) CompileOption {
	return func(c *compileConfig) { c.EnablePrefilter = enabled }
}
