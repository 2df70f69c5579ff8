package multialign

import "github.com/rafelafrance/ocrensemble/align"

// DefaultFilterThreshold is the Line Filter's default cutoff margin above
// the best pairwise distance, expressed in unit-cost Levenshtein edits.
const DefaultFilterThreshold = 128

// FilterOutliers drops OCR variants whose pairwise distance to every
// other variant is far from the closest pair, before they ever reach
// the multiple aligner. Lists of two or fewer strings are returned
// unchanged. Surviving strings are returned in their original order.
func FilterOutliers(strings []string, threshold int) []string {
	if len(strings) <= 2 {
		out := make([]string, len(strings))
		copy(out, strings)
		return out
	}

	distances := align.DistanceAll(strings)
	cutoff := distances[0].Distance + threshold

	keep := make(map[int]bool, len(strings))
	for _, d := range distances {
		if d.Distance > cutoff {
			break
		}
		keep[d.I] = true
		keep[d.J] = true
	}

	out := make([]string, 0, len(keep))
	for i, s := range strings {
		if keep[i] {
			out = append(out, s)
		}
	}
	return out
}
