package charset

import (
	"fmt"
	"sort"

	"github.com/rafelafrance/ocrensemble/glyph"
)

// IoU score thresholds that map a bitmap intersection-over-union into a
// substitution value. Magic constants from the reference implementation.
const (
	iouHigh   = 0.7
	iouMid    = 0.5
	iouLow    = 0.4
	whitespaceLitCutoff = 20
)

// Builder derives a CharSubMatrix for a character set by rendering every
// character with a font and scoring every unordered pair, per spec.md
// §4.A. Build is the only entry point; it returns the new matrix and does
// not write it anywhere, so the caller persists it (cmd/ocrensemble's
// build-matrix does so with Store.Replace).
type Builder struct {
	Renderer *glyph.Renderer
}

// NewBuilder constructs a Builder from raw font bytes, rendering into an
// n x n canvas at the given point size (the reference uses n=40, point=24).
func NewBuilder(fontBytes []byte, n int, point float64) (*Builder, error) {
	r, err := glyph.NewRenderer(fontBytes, n, point)
	if err != nil {
		return nil, err
	}
	return &Builder{Renderer: r}, nil
}

// Build computes the matrix for charSet, given the set of characters the
// matrix must now cover (newChars) and the existing matrix for that
// character set, if any (existing may be nil for a first build). Pairs
// where neither character is new are carried over from existing
// unchanged; all other pairs are (re)computed.
func (b *Builder) Build(newChars map[rune]bool, existing *CharSubMatrix) (*CharSubMatrix, error) {
	allRunes := make(map[rune]bool, len(newChars))
	for r := range newChars {
		allRunes[r] = true
	}
	if existing != nil {
		for _, row := range existing.Entries() {
			allRunes[row.Pair.C1] = true
			allRunes[row.Pair.C2] = true
		}
	}

	sorted := make([]rune, 0, len(allRunes))
	for r := range allRunes {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	chars := make([]Character, len(sorted))
	for i, r := range sorted {
		c, err := newCharacter(b.Renderer, r)
		if err != nil {
			return nil, fmt.Errorf("charset: rendering %q: %w", r, err)
		}
		chars[i] = c
	}

	out := NewCharSubMatrix("")
	if existing != nil {
		out.Name = existing.Name
	}

	for i := range chars {
		c1 := chars[i]
		for j := i; j < len(chars); j++ {
			c2 := chars[j]

			bothOld := !newChars[c1.Rune] && !newChars[c2.Rune]
			if bothOld && existing != nil {
				if e, ok := existing.Lookup(c1.Rune, c2.Rune); ok {
					out.Set(c1.Rune, c2.Rune, e)
					continue
				}
			}

			out.Set(c1.Rune, c2.Rune, scorePair(c1, c2))
		}
	}

	return out, nil
}

// scorePair computes the MatrixEntry for one unordered pair of already
// rendered, already centered characters, per spec.md §4.A steps 2-4.
func scorePair(c1, c2 Character) MatrixEntry {
	switch {
	case c1.Rune == c2.Rune:
		return MatrixEntry{HasScore: false, Substitute: IdentitySubstitute}

	case isWhitespace(c1.Rune) != isWhitespace(c2.Rune):
		// Exactly one of the pair is whitespace: score is the lit pixel
		// mass of the non-space glyph.
		nonSpace := c1
		if isWhitespace(c1.Rune) {
			nonSpace = c2
		}
		score := float64(nonSpace.Centered.LitCount())
		sub := -2.0
		if score < whitespaceLitCutoff {
			sub = -1.0
		}
		return MatrixEntry{Score: score, HasScore: true, Substitute: sub}

	default:
		score := maxIoU(c1.Centered, c2.Centered)
		return MatrixEntry{Score: score, HasScore: true, Substitute: subFromIoU(score)}
	}
}

// maxIoU computes the maximum intersection-over-union of a against b over
// every integer toroidal translation of b.
func maxIoU(a, b *glyph.Bitmap) float64 {
	n := a.N
	best := 0.0
	for dy := 0; dy < n; dy++ {
		for dx := 0; dx < n; dx++ {
			inter, union := 0, 0
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					av := a.At(y, x)
					bv := b.At((y+dy)%n, (x+dx)%n)
					if av || bv {
						union++
					}
					if av && bv {
						inter++
					}
				}
			}
			iou := 0.0
			if union > 0 {
				iou = float64(inter) / float64(union)
			}
			if iou > best {
				best = iou
			}
		}
	}
	return best
}

func subFromIoU(score float64) float64 {
	switch {
	case score >= iouHigh:
		return 1.0
	case score >= iouMid:
		return 0.0
	case score >= iouLow:
		return -1.0
	default:
		return -2.0
	}
}
