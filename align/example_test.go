package align_test

import (
	"fmt"

	"github.com/rafelafrance/ocrensemble/align"
)

// Without a character matrix, Align falls back to a plain match/mismatch
// scoring: +2.0 for identical characters, -1.0 otherwise, with gap-open and
// gap-extend both -1.0.
func ExampleAligner_Align() {
	a := align.NewAligner(nil)
	alignA, alignB := a.Align("cat", "cart")
	fmt.Printf("A: %s, B: %s", alignA, alignB)
	// Output: A: ca⋄t, B: cart
}

func ExampleLevenshtein() {
	fmt.Println(align.Levenshtein("kitten", "sitting"))
	// Output: 3
}

func ExampleDistanceAll() {
	for _, d := range align.DistanceAll([]string{"aa", "bb", "ab"}) {
		fmt.Printf("%d:%d-%d ", d.Distance, d.I, d.J)
	}
	// Output: 1:0-2 1:1-2 2:0-1
}
