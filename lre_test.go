package lre

import (
	"context"
	"testing"
	"time"
)

// mustCompile compiles pattern under flags, failing the test on error.
func mustCompile(t *testing.T, pattern string, flags Flags, opts ...CompileOption) *Program {
	t.Helper()
	p, err := Compile(pattern, flags, opts...)
	if err != nil {
		t.Fatalf("Compile(%q, %v) error: %v", pattern, flags, err)
	}
	return p
}

// execUTF8 is a small convenience wrapper: compile, run Exec against a
// UTF-8 input, and fail the test on any error other than ErrNoMatch.
func execUTF8(t *testing.T, p *Program, input string, start int) (Result, bool) {
	t.Helper()
	res, err := Exec(p, NewUTF8Input([]byte(input)), start, nil)
	if err == ErrNoMatch {
		return Result{}, false
	}
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	return res, true
}

// Scenario 1: a(b)c against "abc" matches with captures 0=[0,3], 1=[1,2].
func TestScenarioSimpleCapture(t *testing.T) {
	p := mustCompile(t, `a(b)c`, 0)
	res, ok := execUTF8(t, p, "abc", 0)
	if !ok {
		t.Fatal("expected match")
	}
	if s, e := res.Span(); s != 0 || e != 3 {
		t.Errorf("span = [%d,%d), want [0,3)", s, e)
	}
	if s, e := res.Group(1); s != 1 || e != 2 {
		t.Errorf("group 1 = [%d,%d), want [1,2)", s, e)
	}
}

// Scenario 2: named groups with a date pattern.
func TestScenarioNamedGroups(t *testing.T) {
	p := mustCompile(t, `(?<year>\d{4})-(?<m>\d{2})`, 0)
	if got := GetCaptureCount(p); got != 3 {
		t.Fatalf("CaptureCount = %d, want 3", got)
	}
	names := GetGroupNames(p)
	if len(names) != 2 || names[0] != "year" || names[1] != "m" {
		t.Fatalf("GroupNames = %#v, want [year m]", names)
	}

	res, ok := execUTF8(t, p, "2024-01-xx", 0)
	if !ok {
		t.Fatal("expected match")
	}
	if s, e := res.Group(1); s != 0 || e != 4 {
		t.Errorf("year = [%d,%d), want [0,4)", s, e)
	}
	if s, e := res.Group(2); s != 5 || e != 7 {
		t.Errorf("month = [%d,%d), want [5,7)", s, e)
	}
}

// Scenario 3: a*? is lazy but the trailing literal 'b' forces it to
// consume the whole run of a's, since that's the only place 'b' occurs.
func TestScenarioLazyStarAnchoredByTail(t *testing.T) {
	p := mustCompile(t, `a*?b`, 0)
	res, ok := execUTF8(t, p, "aaab", 0)
	if !ok {
		t.Fatal("expected match")
	}
	if s, e := res.Span(); s != 0 || e != 4 {
		t.Errorf("span = [%d,%d), want [0,4)", s, e)
	}
}

// Scenario 4: ^foo$ matches at internal line boundaries only under Multiline.
func TestScenarioMultilineAnchors(t *testing.T) {
	p := mustCompile(t, `^foo$`, Multiline)
	res, ok := execUTF8(t, p, "foo\nbar", 0)
	if !ok {
		t.Fatal("expected match under Multiline")
	}
	if s, e := res.Span(); s != 0 || e != 3 {
		t.Errorf("span = [%d,%d), want [0,3)", s, e)
	}

	p2 := mustCompile(t, `^foo$`, 0)
	if _, ok := execUTF8(t, p2, "foo\nbar", 0); ok {
		t.Error("expected no match without Multiline")
	}
}

// Scenario 5: catastrophic backtracking must not hang; a host whose
// CheckTimeout fires quickly turns it into ErrTimeout rather than an
// unbounded search.
func TestScenarioCatastrophicBacktrackingTimesOut(t *testing.T) {
	p := mustCompile(t, `(a+)+$`, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	input := "aaaaaaaaaaaaaaaaaaaaaaaaaaX"
	_, err := Exec(p, NewUTF8Input([]byte(input)), 0, NewHost(ctx))
	if err != ErrTimeout && err != ErrNoMatch {
		t.Fatalf("Exec error = %v, want ErrTimeout or ErrNoMatch", err)
	}
}

// Scenario 6: lookbehind assertions.
func TestScenarioLookbehind(t *testing.T) {
	p := mustCompile(t, `(?<=ab)c`, 0)
	res, ok := execUTF8(t, p, "abc", 0)
	if !ok {
		t.Fatal("expected match")
	}
	if s, e := res.Span(); s != 2 || e != 3 {
		t.Errorf("span = [%d,%d), want [2,3)", s, e)
	}

	neg := mustCompile(t, `(?<!ab)c`, 0)
	if _, ok := execUTF8(t, neg, "abc", 0); ok {
		t.Error("expected no match for negative lookbehind")
	}
}

// Scenario 7: an astral code point expressed as a UTF-16 surrogate pair
// matches a single class member and consumes exactly two code units.
func TestScenarioSurrogatePairClass(t *testing.T) {
	p := mustCompile(t, `[\u{1F600}-\u{1F64F}]`, Unicode)
	r := rune(0x1F603)
	hi, lo := utf16Encode(r)
	units := []uint16{hi, lo}
	res, err := Exec(p, NewUTF16Input(units, false), 0, nil)
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if s, e := res.Span(); s != 0 || e != 2 {
		t.Errorf("span = [%d,%d), want [0,2) (two code units)", s, e)
	}
}

func utf16Encode(r rune) (hi, lo uint16) {
	r -= 0x10000
	return uint16(0xD800 + (r >> 10)), uint16(0xDC00 + (r & 0x3FF))
}

// Scenario 8: back-reference equality.
func TestScenarioBackreference(t *testing.T) {
	p := mustCompile(t, `(a)\1`, 0)
	if _, ok := execUTF8(t, p, "aa", 0); !ok {
		t.Error("expected match on \"aa\"")
	}
	if _, ok := execUTF8(t, p, "ab", 0); ok {
		t.Error("expected no match on \"ab\"")
	}
}

func TestFlagsValid(t *testing.T) {
	if !Flags(0).Valid() {
		t.Error("flags 0 should be valid")
	}
	if !(IgnoreCase | Multiline).Valid() {
		t.Error("IgnoreCase|Multiline should be valid")
	}
	if (Unicode | UnicodeSets).Valid() {
		t.Error("Unicode|UnicodeSets should be mutually exclusive")
	}
	if _, err := Compile(`a`, Unicode|UnicodeSets); err == nil {
		t.Error("Compile should reject Unicode|UnicodeSets")
	}
}

func TestWordBoundary(t *testing.T) {
	p := mustCompile(t, `\bfoo\b`, 0)
	if _, ok := execUTF8(t, p, "a foo b", 0); !ok {
		t.Error("expected match")
	}
	if _, ok := execUTF8(t, p, "afoob", 0); ok {
		t.Error("expected no match: foo is not word-bounded")
	}

	np := mustCompile(t, `\Bfoo\B`, 0)
	if _, ok := execUTF8(t, np, "xfooy", 0); !ok {
		t.Error("expected match: foo has no word boundary on either side")
	}
}

func TestDotAllVsDot(t *testing.T) {
	dot := mustCompile(t, `a.b`, 0)
	if _, ok := execUTF8(t, dot, "a\nb", 0); ok {
		t.Error("dot should not match line terminators")
	}

	any := mustCompile(t, `a.b`, DotAll)
	if _, ok := execUTF8(t, any, "a\nb", 0); !ok {
		t.Error("dot-all should match line terminators")
	}
}

func TestIgnoreCaseLiteral(t *testing.T) {
	p := mustCompile(t, `HELLO`, IgnoreCase)
	if _, ok := execUTF8(t, p, "say hello there", 0); !ok {
		t.Error("expected case-insensitive match")
	}
}

func TestStickyAnchorsToStartIndex(t *testing.T) {
	p := mustCompile(t, `foo`, Sticky)
	if _, ok := execUTF8(t, p, "xxxfoo", 0); ok {
		t.Error("sticky match should fail when foo isn't exactly at start_index")
	}
	res, ok := execUTF8(t, p, "xxxfoo", 3)
	if !ok {
		t.Fatal("expected sticky match at start_index 3")
	}
	if s, e := res.Span(); s != 3 || e != 6 {
		t.Errorf("span = [%d,%d), want [3,6)", s, e)
	}
}

func TestQuantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		wantOK  bool
		wantEnd int
	}{
		{`a{2,4}`, "aaaaa", true, 4},
		{`a{2,4}?`, "aaaaa", true, 2},
		{`a{3}`, "aa", false, 0},
		{`a*`, "", true, 0},
		{`a+`, "", false, 0},
		{`colou?r`, "color", true, 5},
		{`colou?r`, "colour", true, 6},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			p := mustCompile(t, tt.pattern, Sticky)
			res, ok := execUTF8(t, p, tt.input, 0)
			if ok != tt.wantOK {
				t.Fatalf("match = %v, want %v", ok, tt.wantOK)
			}
			if ok {
				if _, e := res.Span(); e != tt.wantEnd {
					t.Errorf("end = %d, want %d", e, tt.wantEnd)
				}
			}
		})
	}
}

func TestUnsetGroupIsMinusOne(t *testing.T) {
	p := mustCompile(t, `(a)|(b)`, 0)
	res, ok := execUTF8(t, p, "b", 0)
	if !ok {
		t.Fatal("expected match")
	}
	if s, e := res.Group(1); s != -1 || e != -1 {
		t.Errorf("group 1 = [%d,%d), want unset (-1,-1)", s, e)
	}
	if s, e := res.Group(2); s != 0 || e != 1 {
		t.Errorf("group 2 = [%d,%d), want [0,1)", s, e)
	}
}

func TestAnnexBLeniency(t *testing.T) {
	// A stray '{' that doesn't form a valid quantifier is a literal
	// outside strict Unicode mode.
	p := mustCompile(t, `a{b`, 0)
	if _, ok := execUTF8(t, p, "a{b", 0); !ok {
		t.Error("expected literal match of 'a{b'")
	}

	// Same pattern is a hard error under the Unicode flag.
	if _, err := Compile(`a{b`, Unicode); err == nil {
		t.Error("expected compile error for stray '{' under Unicode")
	}

	// Out-of-range numeric back-reference reinterpreted as a legacy
	// octal escape: \101 is octal 101 = 'A'.
	oct := mustCompile(t, `\101`, 0)
	if _, ok := execUTF8(t, oct, "A", 0); !ok {
		t.Error(`expected \101 to match octal 101 = 'A'`)
	}

	// \0 followed by a digit consumes up to three octal digits: \012 is
	// a newline.
	nl := mustCompile(t, `\012`, 0)
	if _, ok := execUTF8(t, nl, "\n", 0); !ok {
		t.Error(`expected \012 to match octal 12 = '\n'`)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []string{
		"(",
		")",
		"a**",
		"[",
		"a{3,1}",
	}
	for _, pat := range tests {
		t.Run(pat, func(t *testing.T) {
			if _, err := Compile(pat, 0); err == nil {
				t.Errorf("Compile(%q) expected error", pat)
			}
		})
	}
}

func TestDuplicateGroupNameIsError(t *testing.T) {
	if _, err := Compile(`(?<x>a)(?<x>b)`, 0); err == nil {
		t.Error("expected compile error for duplicate group name")
	}
}

func TestTooManyCapturesIsError(t *testing.T) {
	pat := ""
	for i := 0; i < 256; i++ {
		pat += "(a)"
	}
	if _, err := Compile(pat, 0); err == nil {
		t.Error("expected compile error: too many captures")
	}
}

func TestByteSwapInvolution(t *testing.T) {
	p := mustCompile(t, `(?<g>a+)b|[c-z]{2,5}`, 0)
	orig := append([]byte(nil), p.Bytes()...)

	buf := append([]byte(nil), orig...)
	if err := ByteSwap(buf, false); err != nil {
		t.Fatalf("ByteSwap (to foreign order) error: %v", err)
	}
	if err := ByteSwap(buf, true); err != nil {
		t.Fatalf("ByteSwap (back to native order) error: %v", err)
	}
	if string(buf) != string(orig) {
		t.Error("ByteSwap(ByteSwap(buf, false), true) != buf")
	}
}

func TestRecompileIsDeterministic(t *testing.T) {
	a := mustCompile(t, `(foo|bar)+\d{2,}`, IgnoreCase)
	b := mustCompile(t, `(foo|bar)+\d{2,}`, IgnoreCase)
	if string(a.Bytes()) != string(b.Bytes()) {
		t.Error("recompiling the same pattern produced different bytecode")
	}
}

func TestExecIsIdempotent(t *testing.T) {
	p := mustCompile(t, `(\w+)@(\w+)\.com`, 0)
	in := NewUTF8Input([]byte("contact me at admin@example.com please"))
	r1, err1 := Exec(p, in, 0, nil)
	r2, err2 := Exec(p, in, 0, nil)
	if err1 != err2 {
		t.Fatalf("errors differ: %v vs %v", err1, err2)
	}
	if len(r1.Captures) != len(r2.Captures) {
		t.Fatalf("capture lengths differ")
	}
	for i := range r1.Captures {
		if r1.Captures[i] != r2.Captures[i] {
			t.Errorf("capture %d differs: %d vs %d", i, r1.Captures[i], r2.Captures[i])
		}
	}
}

func TestUnicodeSetsClassOperators(t *testing.T) {
	p := mustCompile(t, `[\w--[aeiou]]+`, UnicodeSets|Sticky)
	res, ok := execUTF8(t, p, "bcd", 0)
	if !ok {
		t.Fatal("expected match for consonants")
	}
	if _, e := res.Span(); e != 3 {
		t.Errorf("end = %d, want 3", e)
	}
	if _, ok := execUTF8(t, p, "aei", 0); ok {
		t.Error("expected no match: vowels subtracted out")
	}

	inter := mustCompile(t, `[\w&&[a-f]]+`, UnicodeSets|Sticky)
	res2, ok := execUTF8(t, inter, "abc", 0)
	if !ok {
		t.Fatal("expected match for a-f intersected with \\w")
	}
	if _, e := res2.Span(); e != 3 {
		t.Errorf("end = %d, want 3", e)
	}
}

func TestLatin1Encoding(t *testing.T) {
	p := mustCompile(t, `[\x80-\xFF]+`, Sticky)
	in := NewLatin1Input([]byte{0x41, 0x90, 0xFF, 0x42})
	res, err := Exec(p, in, 1, nil)
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if s, e := res.Span(); s != 1 || e != 3 {
		t.Errorf("span = [%d,%d), want [1,3)", s, e)
	}
}

func TestUTF16RawEncoding(t *testing.T) {
	p := mustCompile(t, `\uD800.`, Sticky)
	units := []uint16{0xD800, 0xDC00}
	res, err := Exec(p, NewUTF16Input(units, true), 0, nil)
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if s, e := res.Span(); s != 0 || e != 2 {
		t.Errorf("span = [%d,%d), want [0,2)", s, e)
	}
}

// A numeric back-reference textually left of its group works inside a
// lookbehind: evaluation is right-to-left, so the group is captured
// before the reference is consulted, and the referenced text is compared
// walking end-to-start.
func TestBackreferenceInsideLookbehind(t *testing.T) {
	p := mustCompile(t, `(?<=\1(ab))c`, 0)
	res, ok := execUTF8(t, p, "ababc", 0)
	if !ok {
		t.Fatal("expected match")
	}
	if s, e := res.Span(); s != 4 || e != 5 {
		t.Errorf("span = [%d,%d), want [4,5)", s, e)
	}
	if s, e := res.Group(1); s != 2 || e != 4 {
		t.Errorf("group 1 = [%d,%d), want [2,4)", s, e)
	}

	if _, ok := execUTF8(t, p, "abxbc", 0); ok {
		t.Error("expected no match when the reference text differs")
	}
}

// A lookahead nested inside a lookbehind runs forward again, even though
// the enclosing assertion traverses the input right-to-left.
func TestLookaheadInsideLookbehind(t *testing.T) {
	p := mustCompile(t, `(?<=a(?=bc)b)c`, 0)
	res, ok := execUTF8(t, p, "abc", 0)
	if !ok {
		t.Fatal("expected match")
	}
	if s, e := res.Span(); s != 2 || e != 3 {
		t.Errorf("span = [%d,%d), want [2,3)", s, e)
	}

	neg := mustCompile(t, `(?<=a(?=bx)b)c`, 0)
	if _, ok := execUTF8(t, neg, "abc", 0); ok {
		t.Error("expected no match when the nested lookahead fails")
	}
}

// A negated class compiled outside Unicode mode uses the 16-bit range
// form with the trailing 0xFFFF high read as +infinity, so it admits
// astral code points too.
func TestNegatedClassMatchesAstralViaSentinel(t *testing.T) {
	p := mustCompile(t, `[^a]`, Sticky)
	res, ok := execUTF8(t, p, "\U0001F600", 0)
	if !ok {
		t.Fatal("expected [^a] to match an astral code point")
	}
	if s, e := res.Span(); s != 0 || e != 4 {
		t.Errorf("span = [%d,%d), want [0,4) (one UTF-8-encoded astral rune)", s, e)
	}
}

func TestParseProgramRejectsNonTerminalSentinel(t *testing.T) {
	body := []byte{
		byte(opRange), 2, 0, // 2 pairs
		0x00, 0x00, 0xFF, 0xFF, // [0, 0xFFFF] — sentinel in non-final position
		0x20, 0x00, 0x30, 0x00, // [0x20, 0x30]
		byte(opMatch),
	}
	buf := make([]byte, 0, headerSize+len(body))
	buf = append(buf, 0, 0, 1, 0) // flags=0, captures=1, stack=0
	buf = append(buf, byte(len(body)), 0, 0, 0)
	buf = append(buf, body...)
	if _, err := ParseProgram(buf); err == nil {
		t.Error("expected ParseProgram to reject a non-terminal 0xFFFF range high")
	}
}

func TestParseProgramRejectsUnknownOpcode(t *testing.T) {
	body := []byte{0xEE}
	buf := []byte{0, 0, 1, 0, byte(len(body)), 0, 0, 0}
	buf = append(buf, body...)
	if _, err := ParseProgram(buf); err == nil {
		t.Error("expected ParseProgram to reject an unknown opcode")
	}
}

func TestInvalidGroupNameIsError(t *testing.T) {
	for _, pat := range []string{`(?<>a)`, `(?<1x>a)`, `(?<a b>a)`} {
		if _, err := Compile(pat, 0); err == nil {
			t.Errorf("Compile(%q) expected an invalid-group-name error", pat)
		}
	}
}

// Annex-B allows quantifying a lookahead (but never a lookbehind).
func TestQuantifiedLookahead(t *testing.T) {
	p := mustCompile(t, `(?=ab)*ab`, 0)
	if _, ok := execUTF8(t, p, "ab", 0); !ok {
		t.Error("expected quantified lookahead to compile and match under Annex-B")
	}

	if _, err := Compile(`(?=ab)*ab`, Unicode); err == nil {
		t.Error("quantified lookahead should be rejected under strict Unicode mode")
	}
	if _, err := Compile(`(?<=ab)*c`, 0); err == nil {
		t.Error("quantified lookbehind should be rejected even under Annex-B")
	}
}

// \W under IgnoreCase must not admit word characters whose case variants
// fold into the excluded set: the inversion is applied after case
// closure, never before.
func TestIgnoreCaseNegatedShorthand(t *testing.T) {
	p := mustCompile(t, `\W`, IgnoreCase|Sticky)
	if _, ok := execUTF8(t, p, "k", 0); ok {
		t.Error(`\W with IgnoreCase must not match 'k'`)
	}
	if _, ok := execUTF8(t, p, "-", 0); !ok {
		t.Error(`\W with IgnoreCase should match '-'`)
	}
}

func TestAnnexBDisabled(t *testing.T) {
	// `a{b` relies on the stray-'{' fallback, legal only with leniency on.
	if _, err := Compile(`a{b`, 0, WithAnnexB(false)); err == nil {
		t.Error("expected a stray '{' to be rejected with Annex-B off")
	}
	if _, err := Compile(`\q`, 0, WithAnnexB(false)); err == nil {
		t.Error("expected an unknown escape to be rejected with Annex-B off")
	}
}
