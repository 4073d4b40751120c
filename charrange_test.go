package lre

import "testing"

func ranges(pairs ...rune) []CharRange {
	out := make([]CharRange, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, CharRange{pairs[i], pairs[i+1]})
	}
	return out
}

func sameRanges(t *testing.T, got []CharRange, want []CharRange) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCharRangesNormalizeMergesOverlapAndAdjacent(t *testing.T) {
	cr := &CharRanges{}
	cr.Add('d', 'f')
	cr.Add('a', 'c')
	cr.Add('g', 'h') // adjacent to d-f..g-h via f+1==g
	cr.Add('z', 'z')
	cr.Normalize()
	sameRanges(t, cr.Ranges(), ranges('a', 'h', 'z', 'z'))
}

func TestCharRangesInvert(t *testing.T) {
	cr := &CharRanges{}
	cr.Add('b', 'd')
	cr.Invert(rune('f'))
	sameRanges(t, cr.Ranges(), ranges(0, 'a', 'e', 'f'))
}

func TestCharRangesSubtract(t *testing.T) {
	cr := &CharRanges{}
	cr.Add('a', 'z')
	sub := &CharRanges{}
	sub.Add('e', 'g')
	sub.Add('m', 'm')
	cr.Subtract(sub)
	sameRanges(t, cr.Ranges(), ranges('a', 'd', 'h', 'l', 'n', 'z'))
}

func TestCharRangesIntersect(t *testing.T) {
	cr := &CharRanges{}
	cr.Add('a', 'm')
	other := &CharRanges{}
	other.Add('f', 'z')
	cr.Intersect(other)
	sameRanges(t, cr.Ranges(), ranges('f', 'm'))
}

func TestCharRangesContains(t *testing.T) {
	cr := &CharRanges{}
	cr.Add('0', '9')
	cr.Add('a', 'f')
	cr.Normalize()
	for _, r := range []rune{'0', '5', '9', 'a', 'f'} {
		if !cr.Contains(r) {
			t.Errorf("Contains(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'/', ':', 'g', ' '} {
		if cr.Contains(r) {
			t.Errorf("Contains(%q) = true, want false", r)
		}
	}
}

func TestCharRangesAddRejectsInverted(t *testing.T) {
	cr := &CharRanges{}
	cr.Add('z', 'a') // lo > hi: silently dropped
	if cr.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for an inverted range", cr.Len())
	}
}
