/*
Package charset builds and stores character-substitution matrices: a
domain-tuned, visually-motivated score for swapping one glyph for another,
derived by rendering each character with a font and comparing bitmaps.
It backs the pairwise and multiple aligners in packages align and
multialign.
*/
package charset

import (
	"sort"
	"unicode"

	"github.com/rafelafrance/ocrensemble/glyph"
)

// Character is a printable code point together with the bitmap it renders
// to under a given font and canvas size.
type Character struct {
	Rune     rune
	Bitmap   *glyph.Bitmap
	Height   int
	Width    int
	Centered *glyph.Bitmap
}

// newCharacter renders ch with r and centers its bitmap.
func newCharacter(r *glyph.Renderer, ch rune) (Character, error) {
	bm, err := r.Render(ch)
	if err != nil {
		return Character{}, err
	}
	return Character{
		Rune:     ch,
		Bitmap:   bm,
		Height:   bm.Height,
		Width:    bm.Width,
		Centered: bm.Centered(),
	}, nil
}

// Pair is an unordered pair of characters, stored with c1 <= c2 so the
// matrix never holds both (a, b) and (b, a).
type Pair struct {
	C1, C2 rune
}

// NewPair builds the canonical, sorted representation of an unordered
// character pair.
func NewPair(a, b rune) Pair {
	if a <= b {
		return Pair{a, b}
	}
	return Pair{b, a}
}

// MatrixEntry is one row of a character substitution matrix: a raw
// similarity score whose meaning depends on the pair kind (and may be
// absent), and the substitution value in [-2.0, +2.0] the aligners use.
type MatrixEntry struct {
	Score      float64
	HasScore   bool
	Substitute float64
}

// IdentitySubstitute is the substitution value for any character matched
// against itself.
const IdentitySubstitute = 2.0

// CharSubMatrix is a named mapping from unordered character pair to
// MatrixEntry. It is immutable once built/loaded and safe to share by
// reference across goroutines.
type CharSubMatrix struct {
	Name    string
	entries map[Pair]MatrixEntry
}

// NewCharSubMatrix creates an empty, named matrix.
func NewCharSubMatrix(name string) *CharSubMatrix {
	return &CharSubMatrix{Name: name, entries: make(map[Pair]MatrixEntry)}
}

// NewCharSubMatrixFromEntries builds a matrix from a pre-computed entry
// set, as returned by a Store.
func NewCharSubMatrixFromEntries(name string, entries map[Pair]MatrixEntry) *CharSubMatrix {
	m := NewCharSubMatrix(name)
	for k, v := range entries {
		m.entries[NewPair(k.C1, k.C2)] = v
	}
	return m
}

// Set records the entry for an unordered pair.
func (m *CharSubMatrix) Set(a, b rune, entry MatrixEntry) {
	m.entries[NewPair(a, b)] = entry
}

// Lookup returns the stored entry for (a, b), if any.
func (m *CharSubMatrix) Lookup(a, b rune) (MatrixEntry, bool) {
	e, ok := m.entries[NewPair(a, b)]
	return e, ok
}

// Sub returns the substitution value for (a, b), a default (typically
// -1.0, the gap-penalty default) when the pair is not present. a == b
// always returns +2.0 regardless of what is stored, per the matrix's
// identity invariant.
func (m *CharSubMatrix) Sub(a, b rune, fallback float64) float64 {
	if a == b {
		return IdentitySubstitute
	}
	if e, ok := m.Lookup(a, b); ok {
		return e.Substitute
	}
	return fallback
}

// Len reports the number of stored pairs.
func (m *CharSubMatrix) Len() int { return len(m.entries) }

// Entries returns all stored (pair, entry) rows, sorted for determinism.
func (m *CharSubMatrix) Entries() []struct {
	Pair  Pair
	Entry MatrixEntry
} {
	out := make([]struct {
		Pair  Pair
		Entry MatrixEntry
	}, 0, len(m.entries))
	for k, v := range m.entries {
		out = append(out, struct {
			Pair  Pair
			Entry MatrixEntry
		}{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pair.C1 != out[j].Pair.C1 {
			return out[i].Pair.C1 < out[j].Pair.C1
		}
		return out[i].Pair.C2 < out[j].Pair.C2
	})
	return out
}

// Scorer is the read-only substitution-lookup surface the aligners
// consume. *CharSubMatrix satisfies it.
type Scorer interface {
	Sub(a, b rune, fallback float64) float64
}

func isWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}
