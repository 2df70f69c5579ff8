/*
Package consensus builds a single consensus string from a multiple
alignment by taking, column by column, the plurality-vote winner among
the aligned characters (including the alignment gap code point). It
implements the Consensus Builder component of the OCR ensemble fusion
core.
*/
package consensus

import (
	"sort"
	"unicode"
)

// poWeight gives the secondary tiebreak weight for specific characters in
// Unicode general category Po (punctuation, other). Characters not
// listed here fall back to poDefault. Note U+002D HYPHEN-MINUS is
// category Pd, not Po, and keyFor consults this table only for runes in
// category Po, so the "-" entry is never used; it is carried here
// because the reference table lists it.
var poWeight = map[rune]int{
	'.':  1,
	',':  2,
	':':  2,
	';':  2,
	'-':  3,
	'!':  5,
	'"':  5,
	'\'': 5,
	'*':  5,
	'/':  5,
	'%':  6,
	'&':  6,
}

const poDefault = 10

// categoryWeight buckets r by Unicode general category, per spec.md
// §4.G's table. Unmatched categories get the lowest priority, 100.
func categoryWeight(r rune) int {
	switch {
	case unicode.Is(unicode.Lu, r), unicode.Is(unicode.Ll, r), unicode.Is(unicode.Lt, r),
		unicode.Is(unicode.Lm, r), unicode.Is(unicode.Lo, r):
		return 20
	case unicode.Is(unicode.Nd, r):
		return 30
	case unicode.Is(unicode.Nl, r), unicode.Is(unicode.No, r):
		return 60
	case unicode.Is(unicode.Pc, r):
		return 70
	case unicode.Is(unicode.Pd, r):
		return 40
	case unicode.Is(unicode.Ps, r), unicode.Is(unicode.Pe, r),
		unicode.Is(unicode.Pi, r), unicode.Is(unicode.Pf, r):
		return 50
	case unicode.Is(unicode.Po, r):
		return 10
	case unicode.Is(unicode.Sc, r), unicode.Is(unicode.So, r):
		return 90
	case unicode.Is(unicode.Sm, r):
		return 99
	case unicode.Is(unicode.Zs, r):
		return 80
	default:
		return 100
	}
}

// charKey is the three-level sort key (lower sorts first) that resolves
// ties between equally common characters in a consensus column.
type charKey struct {
	category int
	po       int
	r        rune
}

func keyFor(r rune) charKey {
	cat := categoryWeight(r)
	po := 0
	if cat == 10 {
		if w, ok := poWeight[r]; ok {
			po = w
		} else {
			po = poDefault
		}
	}
	return charKey{category: cat, po: po, r: r}
}

func less(a, b rune) bool {
	ka, kb := keyFor(a), keyFor(b)
	if ka.category != kb.category {
		return ka.category < kb.category
	}
	if ka.po != kb.po {
		return ka.po < kb.po
	}
	return ka.r < kb.r
}

// Build returns the column-wise plurality-vote consensus of an
// alignment (rows of identical length, as produced by
// multialign.Align). Every row must have the same rune length; Build
// panics if they do not, since that alignment invariant is assumed to
// already hold by the time a consensus is requested.
func Build(aligned []string) string {
	if len(aligned) == 0 {
		return ""
	}

	rows := make([][]rune, len(aligned))
	for i, s := range aligned {
		rows[i] = []rune(s)
	}
	length := len(rows[0])
	for _, row := range rows {
		if len(row) != length {
			panic("consensus: rows of an alignment must have identical length")
		}
	}

	out := make([]rune, 0, length)
	for col := 0; col < length; col++ {
		counts := make(map[rune]int)
		for _, row := range rows {
			counts[row[col]]++
		}

		best := 0
		for _, c := range counts {
			if c > best {
				best = c
			}
		}

		candidates := make([]rune, 0, len(counts))
		for r, c := range counts {
			if c == best {
				candidates = append(candidates, r)
			}
		}
		sort.Slice(candidates, func(i, j int) bool { return less(candidates[i], candidates[j]) })

		out = append(out, candidates[0])
	}

	return string(out)
}
