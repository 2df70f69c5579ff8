/*
Package multialign builds a progressive multiple alignment over two or
more OCR strings, guided by the pairwise Needleman-Wunsch aligner in
package align, and filters outlier rows before they reach it. It
implements the Multiple Aligner and Line Filter components of the OCR
ensemble fusion core.
*/
package multialign

import "github.com/rafelafrance/ocrensemble/align"

// Align builds a progressive multiple alignment of strings, returning
// rows of identical length in the same order as the input. A list of
// zero or one string is returned unchanged. The algorithm:
//
//  1. Seeds the alignment with the closest pair by align.DistanceAll.
//  2. Repeatedly aligns every remaining string against the current
//     first row (the seed pair's lower-indexed member), picks the
//     highest-scoring candidate, and splices the gaps that alignment
//     introduced into the first row into every row aligned so far.
//
// Stripping align.Gap from any returned row reproduces the
// corresponding input string exactly.
func Align(aligner *align.Aligner, strings []string) []string {
	if len(strings) <= 1 {
		out := make([]string, len(strings))
		copy(out, strings)
		return out
	}

	distances := align.DistanceAll(strings)
	firstIdx, seedIdx := distances[0].I, distances[0].J

	rows := make(map[int]string, len(strings))
	firstRow, seedRow := aligner.Align(strings[firstIdx], strings[seedIdx])
	rows[firstIdx] = firstRow
	rows[seedIdx] = seedRow

	remaining := make(map[int]bool, len(strings)-2)
	for i := range strings {
		if i != firstIdx && i != seedIdx {
			remaining[i] = true
		}
	}

	for len(remaining) > 0 {
		bestIdx := -1
		var bestNewFirst, bestNewRow string
		var bestInserts []bool
		var bestScore float64

		// Sorted iteration order keeps the result deterministic when two
		// candidates tie on score.
		for _, idx := range sortedKeys(remaining) {
			newFirst, newRow, inserts, score := aligner.AlignInserts(rows[firstIdx], strings[idx])
			if bestIdx == -1 || score > bestScore {
				bestIdx, bestNewFirst, bestNewRow, bestInserts, bestScore = idx, newFirst, newRow, inserts, score
			}
		}

		spliceGaps(rows, firstIdx, bestNewFirst, bestInserts)
		rows[bestIdx] = bestNewRow
		delete(remaining, bestIdx)
	}

	out := make([]string, len(strings))
	for i := range strings {
		out[i] = rows[i]
	}
	return out
}

// spliceGaps updates every row in rows to match newFirst's new length.
// inserts[k] marks that position k in newFirst is a Gap this alignment
// introduced (as opposed to a character, possibly itself Gap, carried
// over from the old first row); every other row gets align.Gap spliced
// in at exactly those positions, and rows[firstIdx] becomes newFirst.
func spliceGaps(rows map[int]string, firstIdx int, newFirst string, inserts []bool) {
	newRunes := []rune(newFirst)

	others := make([]int, 0, len(rows)-1)
	oldRunes := make(map[int][]rune, len(rows)-1)
	for idx, row := range rows {
		if idx == firstIdx {
			continue
		}
		others = append(others, idx)
		oldRunes[idx] = []rune(row)
	}

	built := make(map[int][]rune, len(others))
	for _, idx := range others {
		built[idx] = make([]rune, 0, len(newRunes))
	}

	oldPos := 0
	for k := range newRunes {
		if inserts[k] {
			for _, idx := range others {
				built[idx] = append(built[idx], align.Gap)
			}
			continue
		}
		for _, idx := range others {
			built[idx] = append(built[idx], oldRunes[idx][oldPos])
		}
		oldPos++
	}

	for _, idx := range others {
		rows[idx] = string(built[idx])
	}
	rows[firstIdx] = newFirst
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
