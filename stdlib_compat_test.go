package lre

import (
	"regexp"
	"testing"
)

// compareLeftmostMatch compiles pattern with this engine and with Go's
// stdlib regexp, and checks that the first (leftmost, non-sticky) match
// against input agrees on overall span and every capture group, on the
// shared subset of ECMAScript/RE2 syntax both engines accept.
func compareLeftmostMatch(t *testing.T, pattern, input string) {
	t.Helper()
	std, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatalf("stdlib regexp.Compile(%q): %v", pattern, err)
	}
	p := mustCompile(t, pattern, 0)

	stdIdx := std.FindStringSubmatchIndex(input)
	res, err := Exec(p, NewUTF8Input([]byte(input)), 0, nil)

	if stdIdx == nil {
		if err != ErrNoMatch {
			t.Fatalf("stdlib: no match, lre: err=%v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("stdlib matched %v, lre returned error %v", stdIdx, err)
	}
	if len(res.Captures) != len(stdIdx) {
		t.Fatalf("capture count mismatch: lre=%d stdlib=%d", len(res.Captures), len(stdIdx))
	}
	for i := range stdIdx {
		if stdIdx[i] != res.Captures[i] {
			t.Errorf("capture %d mismatch: stdlib=%d lre=%d (pattern %q, input %q)",
				i, stdIdx[i], res.Captures[i], pattern, input)
		}
	}
}

func TestStdlibCompatLeftmostMatch(t *testing.T) {
	cases := []struct{ pattern, input string }{
		{`a(b)c`, "xxabcxx"},
		{`(foo|bar)+`, "foobarfoo baz"},
		{`\d{2,4}`, "a12345b"},
		{`[a-z]+\d*`, "abc123"},
		{`colou?r`, "the color and colour"},
		{`^abc`, "abcdef"},
		{`abc$`, "xxabc"},
		{`a.c`, "xabcx"},
		{`(a)(b)(c)`, "zabcz"},
		{`\w+@\w+`, "contact admin@example for help"},
		{`(ab)*`, "ababab"},
		{`a+?b`, "aaab"},
		{`x|y|z`, "  z  "},
		{`[^0-9]+`, "abc123"},
	}
	for _, c := range cases {
		t.Run(c.pattern+"/"+c.input, func(t *testing.T) {
			compareLeftmostMatch(t, c.pattern, c.input)
		})
	}
}
