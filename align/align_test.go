package align_test

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/rafelafrance/ocrensemble/align"
)

// pairScorer reproduces the reference test fixtures' raw substitution
// tables directly, without the +2.0 identity invariant charset.CharSubMatrix
// enforces, so the tie-break behavior of the recurrence itself can be
// exercised in isolation.
type pairScorer map[string]float64

func (p pairScorer) Sub(a, b rune, fallback float64) float64 {
	key := string(a) + string(b)
	if a > b {
		key = string(b) + string(a)
	}
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

func twoChars() pairScorer {
	return pairScorer{"aa": 0.0, "ab": -1.0, "bb": 0.0}
}

func newTestAligner() *align.Aligner {
	return &align.Aligner{Scorer: twoChars(), GapOpen: -1.0, GapExtend: -1.0}
}

func TestAlignIdentical(t *testing.T) {
	a := newTestAligner()
	gotA, gotB := a.Align("aba", "aba")
	if gotA != "aba" || gotB != "aba" {
		t.Errorf("Align(aba, aba) = %q, %q", gotA, gotB)
	}
}

func TestAlignGapInSecond(t *testing.T) {
	a := newTestAligner()
	gotA, gotB := a.Align("aba", "aa")
	wantA, wantB := "aba", "a⋄a"
	if gotA != wantA || gotB != wantB {
		t.Errorf("Align(aba, aa) = %q, %q, want %q, %q", gotA, gotB, wantA, wantB)
	}
}

func TestAlignGapInFirst(t *testing.T) {
	a := newTestAligner()
	gotA, gotB := a.Align("aa", "aba")
	wantA, wantB := "a⋄a", "aba"
	if gotA != wantA || gotB != wantB {
		t.Errorf("Align(aa, aba) = %q, %q, want %q, %q", gotA, gotB, wantA, wantB)
	}
}

func TestAlignGapAtEnd(t *testing.T) {
	a := newTestAligner()
	gotA, gotB := a.Align("aab", "aa")
	wantA, wantB := "aab", "aa⋄"
	if gotA != wantA || gotB != wantB {
		t.Errorf("Align(aab, aa) = %q, %q, want %q, %q", gotA, gotB, wantA, wantB)
	}
}

func TestAlignSameLengthNoGaps(t *testing.T) {
	a := newTestAligner()
	gotA, gotB := a.Align("aab", "baa")
	wantA, wantB := "aab", "baa"
	if gotA != wantA || gotB != wantB {
		t.Errorf("Align(aab, baa) = %q, %q, want %q, %q", gotA, gotB, wantA, wantB)
	}
}

func TestAlignEmptyOther(t *testing.T) {
	a := newTestAligner()
	gotA, gotB := a.Align("aa", "")
	wantA, wantB := "aa", "⋄⋄"
	if gotA != wantA || gotB != wantB {
		t.Errorf("Align(aa, \"\") = %q, %q, want %q, %q", gotA, gotB, wantA, wantB)
	}
}

func TestAlignDefaultsWithoutScorer(t *testing.T) {
	a := align.NewAligner(nil)
	gotA, gotB := a.Align("ab", "ab")
	if gotA != "ab" || gotB != "ab" {
		t.Errorf("Align(ab, ab) = %q, %q", gotA, gotB)
	}
}

// TestAlignStripGapsRecoversOriginal checks that removing the gap rune
// from each aligned row recovers the two original strings; on failure it
// prints a character-level diff rather than a raw string mismatch.
func TestAlignStripGapsRecoversOriginal(t *testing.T) {
	a := newTestAligner()
	gotA, gotB := a.Align("abba", "aba")

	strip := func(s string) string {
		out := make([]rune, 0, len(s))
		for _, r := range s {
			if r != align.Gap {
				out = append(out, r)
			}
		}
		return string(out)
	}

	if strippedA := strip(gotA); strippedA != "abba" {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain("abba", strippedA, false)
		t.Fatalf("stripping gaps from %q did not recover \"abba\":\n%s", gotA, dmp.DiffPrettyText(diffs))
	}
	if strippedB := strip(gotB); strippedB != "aba" {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain("aba", strippedB, false)
		t.Fatalf("stripping gaps from %q did not recover \"aba\":\n%s", gotB, dmp.DiffPrettyText(diffs))
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"aa", "", 2},
		{"", "bb", 2},
		{"aa", "bb", 2},
		{"kitten", "sitting", 3},
		{"Commelinaceae Commelina virginica", "Commelina virginica", 14},
	}
	for _, c := range cases {
		if got := align.Levenshtein(c.a, c.b); got != c.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDistanceAll(t *testing.T) {
	got := align.DistanceAll([]string{"aa", "bb", "ab"})
	want := []align.Distance{
		{Distance: 1, I: 0, J: 2},
		{Distance: 1, I: 1, J: 2},
		{Distance: 2, I: 0, J: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("DistanceAll returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DistanceAll()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
