package prefilter

import "testing"

func TestBuildRejectsEmpty(t *testing.T) {
	if _, ok := Build(nil); ok {
		t.Error("Build(nil) should report ok=false")
	}
}

func TestSingleByteFastPath(t *testing.T) {
	pf, ok := Build([][]byte{[]byte("x")})
	if !ok {
		t.Fatal("Build failed")
	}
	start, end, found := pf.Find([]byte("abcxdef"), 0)
	if !found || start != 3 || end != 4 {
		t.Errorf("Find = (%d,%d,%v), want (3,4,true)", start, end, found)
	}
	if _, _, found := pf.Find([]byte("abcdef"), 0); found {
		t.Error("expected no match for a haystack without the byte")
	}
}

func TestMultiLiteralFind(t *testing.T) {
	pf, ok := Build([][]byte{[]byte("foo"), []byte("bar"), []byte("baz")})
	if !ok {
		t.Fatal("Build failed")
	}
	start, end, found := pf.Find([]byte("xxbarXXfooYY"), 0)
	if !found || start != 2 || end != 5 {
		t.Errorf("Find = (%d,%d,%v), want (2,5,true) for leftmost literal", start, end, found)
	}

	// Searching from after the first occurrence should find the next one.
	start2, end2, found2 := pf.Find([]byte("xxbarXXfooYY"), end)
	if !found2 || start2 != 7 || end2 != 10 {
		t.Errorf("Find from %d = (%d,%d,%v), want (7,10,true)", end, start2, end2, found2)
	}
}

func TestIsMatch(t *testing.T) {
	pf, ok := Build([][]byte{[]byte("needle")})
	if !ok {
		t.Fatal("Build failed")
	}
	if !pf.IsMatch([]byte("a haystack with a needle in it")) {
		t.Error("expected IsMatch true")
	}
	if pf.IsMatch([]byte("nothing to find here")) {
		t.Error("expected IsMatch false")
	}
}

func TestNilPrefilterIsAlwaysMiss(t *testing.T) {
	var pf *Prefilter
	if pf.IsMatch([]byte("anything")) {
		t.Error("nil Prefilter should never match")
	}
	if _, _, ok := pf.Find([]byte("anything"), 0); ok {
		t.Error("nil Prefilter should never find")
	}
}

func TestScanByteFindsAcrossChunkBoundary(t *testing.T) {
	hay := make([]byte, 40)
	for i := range hay {
		hay[i] = 'a'
	}
	hay[33] = 'z'
	if idx := ScanByte(hay, 'z', 0); idx != 33 {
		t.Errorf("ScanByte = %d, want 33", idx)
	}
	if idx := ScanByte(hay, 'z', 34); idx != -1 {
		t.Errorf("ScanByte after the match = %d, want -1", idx)
	}
}

func TestScanByteEmptyAndShortHaystacks(t *testing.T) {
	if idx := ScanByte(nil, 'a', 0); idx != -1 {
		t.Errorf("ScanByte(nil) = %d, want -1", idx)
	}
	if idx := ScanByte([]byte("ab"), 'b', 0); idx != 1 {
		t.Errorf("ScanByte = %d, want 1", idx)
	}
	if idx := ScanByte([]byte("ab"), 'b', 5); idx != -1 {
		t.Errorf("ScanByte with from past the end = %d, want -1", idx)
	}
}
