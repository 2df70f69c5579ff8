/*
Package align computes pairwise sequence alignments and distances over OCR
strings, using a character-substitution matrix in place of a plain
match/mismatch score. It implements the Pairwise Aligner and Distance-All
components of the OCR ensemble fusion core.
*/
package align

import "github.com/rafelafrance/ocrensemble/charset"

// Gap is the reserved code point the aligner uses to mark an insertion in
// one row relative to another. It must never occur in OCR input.
const Gap = '⋄'

// defaultPenalty is both the fallback substitution value for an unscored
// character pair and the default gap-open/gap-extend penalty.
const defaultPenalty = -1.0

// Aligner performs weighted Needleman-Wunsch global alignment and
// unit-cost Levenshtein distance against a fixed substitution matrix.
type Aligner struct {
	Scorer    charset.Scorer
	GapOpen   float64
	GapExtend float64
}

// NewAligner returns an Aligner configured with the reference defaults
// (gap-open = gap-extend = -1.0). scorer may be nil, in which case every
// non-identity pair falls back to the default penalty as its substitution.
func NewAligner(scorer charset.Scorer) *Aligner {
	return &Aligner{Scorer: scorer, GapOpen: defaultPenalty, GapExtend: defaultPenalty}
}

func (a *Aligner) sub(x, y rune) float64 {
	if a.Scorer == nil {
		if x == y {
			return charset.IdentitySubstitute
		}
		return defaultPenalty
	}
	return a.Scorer.Sub(x, y, defaultPenalty)
}

func (a *Aligner) gapCost(extending bool) float64 {
	if extending {
		return a.GapExtend
	}
	return a.GapOpen
}

// Align computes the global alignment of stringA and stringB, returning
// two equal-length strings over the original alphabet plus Gap. Ties in
// the recurrence prefer diagonal, then up (gap in stringB), then left
// (gap in stringA), so the traceback is deterministic.
func (a *Aligner) Align(stringA, stringB string) (string, string) {
	alignA, alignB, _, _ := a.AlignInserts(stringA, stringB)
	return alignA, alignB
}

// AlignWithScore is Align plus the optimal alignment score, which the
// progressive multiple aligner (package multialign) needs to rank
// candidate rows against the alignment built so far.
func (a *Aligner) AlignWithScore(stringA, stringB string) (string, string, float64) {
	alignA, alignB, _, score := a.AlignInserts(stringA, stringB)
	return alignA, alignB, score
}

// AlignInserts is Align plus, for every position in the returned alignA,
// whether that position is a Gap inserted by this alignment (true) as
// opposed to a character carried over from stringA (false, even when
// that character is itself Gap). The progressive multiple aligner uses
// this to splice newly introduced gaps into every other row without
// disturbing gaps that already existed in stringA.
func (a *Aligner) AlignInserts(stringA, stringB string) (string, string, []bool, float64) {
	runesA, runesB := []rune(stringA), []rune(stringB)
	columnLengthM, rowLengthN := len(runesA), len(runesB)

	// Score matrix, T[i][j] in spec.md's recurrence.
	matrix := make([][]float64, columnLengthM+1)
	for columnM := range matrix {
		matrix[columnM] = make([]float64, rowLengthN+1)
	}
	// lastUp/lastLeft track whether the best path into a cell extended an
	// already-open run of gaps in that row/column, so the next gap in the
	// run is charged GapExtend rather than GapOpen.
	lastUp := make([][]bool, columnLengthM+1)
	lastLeft := make([][]bool, columnLengthM+1)
	for columnM := range lastUp {
		lastUp[columnM] = make([]bool, rowLengthN+1)
		lastLeft[columnM] = make([]bool, rowLengthN+1)
	}

	for columnM := 1; columnM <= columnLengthM; columnM++ {
		matrix[columnM][0] = matrix[columnM-1][0] + a.gapCost(lastUp[columnM-1][0])
		lastUp[columnM][0] = true
	}
	for rowN := 1; rowN <= rowLengthN; rowN++ {
		matrix[0][rowN] = matrix[0][rowN-1] + a.gapCost(lastLeft[0][rowN-1])
		lastLeft[0][rowN] = true
	}

	for columnM := 1; columnM <= columnLengthM; columnM++ {
		for rowN := 1; rowN <= rowLengthN; rowN++ {
			diag := matrix[columnM-1][rowN-1] + a.sub(runesA[columnM-1], runesB[rowN-1])
			up := matrix[columnM-1][rowN] + a.gapCost(lastUp[columnM-1][rowN])
			left := matrix[columnM][rowN-1] + a.gapCost(lastLeft[columnM][rowN-1])

			// Comparison order fixed so ties prefer diag, then up, then
			// left, matching the reference traceback.
			var best float64
			switch {
			case diag >= up && diag >= left:
				best = diag
			case up >= left:
				best = up
				lastUp[columnM][rowN] = true
			default:
				best = left
				lastLeft[columnM][rowN] = true
			}
			matrix[columnM][rowN] = best
		}
	}

	// Traceback to find the optimal alignment.
	var alignA, alignB []rune
	var insertedA []bool
	columnM, rowN := columnLengthM, rowLengthN
	for columnM > 0 || rowN > 0 {
		switch {
		case columnM > 0 && rowN > 0 && matrix[columnM][rowN] == matrix[columnM-1][rowN-1]+a.sub(runesA[columnM-1], runesB[rowN-1]):
			alignA = append(alignA, runesA[columnM-1])
			alignB = append(alignB, runesB[rowN-1])
			insertedA = append(insertedA, false)
			columnM--
			rowN--
		case columnM > 0 && matrix[columnM][rowN] == matrix[columnM-1][rowN]+a.gapCost(lastUp[columnM-1][rowN]):
			alignA = append(alignA, runesA[columnM-1])
			alignB = append(alignB, Gap)
			insertedA = append(insertedA, false)
			columnM--
		default:
			alignA = append(alignA, Gap)
			alignB = append(alignB, runesB[rowN-1])
			insertedA = append(insertedA, true)
			rowN--
		}
	}

	// Reverse the alignments to get the optimal alignment.
	alignA = reverseRuneArray(alignA)
	alignB = reverseRuneArray(alignB)
	reverseBoolArray(insertedA)
	return string(alignA), string(alignB), insertedA, matrix[columnLengthM][rowLengthN]
}

func reverseBoolArray(b []bool) {
	length := len(b)
	for index := 0; index < length/2; index++ {
		reverseIndex := length - index - 1
		b[index], b[reverseIndex] = b[reverseIndex], b[index]
	}
}

// Levenshtein computes unit-cost edit distance between a and b,
// independent of the substitution matrix. If either input is empty, it
// returns the rune length of the other.
func Levenshtein(a, b string) int {
	runesA, runesB := []rune(a), []rune(b)
	if len(runesA) == 0 {
		return len(runesB)
	}
	if len(runesB) == 0 {
		return len(runesA)
	}

	prev := make([]int, len(runesB)+1)
	curr := make([]int, len(runesB)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(runesA); i++ {
		curr[0] = i
		for j := 1; j <= len(runesB); j++ {
			cost := 1
			if runesA[i-1] == runesB[j-1] {
				cost = 0
			}
			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost
			best := deletion
			if insertion < best {
				best = insertion
			}
			if substitution < best {
				best = substitution
			}
			curr[j] = best
		}
		prev, curr = curr, prev
	}
	return prev[len(runesB)]
}

// reverseRuneArray reverses runes in place and returns it, for readability
// at call sites.
func reverseRuneArray(runes []rune) []rune {
	length := len(runes)
	for index := 0; index < length/2; index++ {
		reverseIndex := length - index - 1
		runes[index], runes[reverseIndex] = runes[reverseIndex], runes[index]
	}
	return runes
}
