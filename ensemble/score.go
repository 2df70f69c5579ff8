package ensemble

import (
	"sort"
	"strings"

	"github.com/rafelafrance/ocrensemble/align"
)

// Score reports the unit-cost Levenshtein distance between gold and text,
// after stripping the gap symbol from text, mirroring ocr_compare.py's
// score_rec. Lower is better; zero is an exact match.
func Score(gold, text string) int {
	text = strings.ReplaceAll(text, string(align.Gap), "")
	return align.Levenshtein(gold, text)
}

// Pipelines enumerates every non-empty subset of labels, sorted first by
// size then lexicographically within a size, matching get_pipelines'
// combinations(keys, r) for r in 1..len(keys). Used by the score
// subcommand to evaluate every way of combining a label's available
// pipeline outputs.
func Pipelines(labels []string) [][]string {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	var out [][]string
	n := len(sorted)
	for size := 1; size <= n; size++ {
		var combo func(start int, chosen []string)
		combo = func(start int, chosen []string) {
			if len(chosen) == size {
				out = append(out, append([]string(nil), chosen...))
				return
			}
			for i := start; i < n; i++ {
				combo(i+1, append(chosen, sorted[i]))
			}
		}
		combo(0, nil)
	}
	return out
}
