/*
Package glyph rasterizes single runes from a TrueType/OpenType font into
small monochrome bitmaps. It is the rendering backend the character matrix
builder (see package charset) uses to turn a code point into the pixel grid
the substitution scoring is computed from.
*/
package glyph

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Bitmap is a square monochrome pixel grid, top-left anchored.
type Bitmap struct {
	N      int
	Pix    []bool // row-major, len == N*N
	Height int    // bounding box height of lit pixels, 0 if none lit
	Width  int    // bounding box width of lit pixels, 0 if none lit
}

// NewBitmap allocates a blank N x N bitmap.
func NewBitmap(n int) *Bitmap {
	return &Bitmap{N: n, Pix: make([]bool, n*n)}
}

// At reports whether pixel (row, col) is lit.
func (b *Bitmap) At(row, col int) bool {
	return b.Pix[row*b.N+col]
}

// Set lights or clears pixel (row, col).
func (b *Bitmap) Set(row, col int, v bool) {
	b.Pix[row*b.N+col] = v
}

// boundingBox returns the tight bounding box of lit pixels. ok is false
// when no pixel is lit (true whitespace), matching the reference's
// height = width = 0 convention.
func (b *Bitmap) boundingBox() (top, left, height, width int, ok bool) {
	minY, minX := b.N, b.N
	maxY, maxX := -1, -1
	for y := 0; y < b.N; y++ {
		for x := 0; x < b.N; x++ {
			if !b.At(y, x) {
				continue
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
		}
	}
	if maxY < 0 {
		return 0, 0, 0, 0, false
	}
	return minY, minX, maxY - minY + 1, maxX - minX + 1, true
}

// Centered returns a copy of b translated (toroidally, i.e. wrapping
// around the edges) so its bounding box is centered in the N x N grid.
// Centering an empty bitmap returns an identical copy.
func (b *Bitmap) Centered() *Bitmap {
	top, left, h, w, ok := b.boundingBox()
	out := NewBitmap(b.N)
	if !ok {
		return out
	}
	dy := (b.N-h)/2 - top
	dx := (b.N-w)/2 - left
	for y := 0; y < b.N; y++ {
		for x := 0; x < b.N; x++ {
			if !b.At(y, x) {
				continue
			}
			ny := ((y+dy)%b.N + b.N) % b.N
			nx := ((x+dx)%b.N + b.N) % b.N
			out.Set(ny, nx, true)
		}
	}
	return out
}

// LitCount returns the total number of lit pixels.
func (b *Bitmap) LitCount() int {
	n := 0
	for _, v := range b.Pix {
		if v {
			n++
		}
	}
	return n
}

// threshold matches the reference's mid-gray cutoff on a 0-255 alpha
// channel (the original compares a 0-255 Pillow luminance channel against
// 128; an alpha mask here plays the same role).
const threshold = 127

// Renderer rasterizes runes from a parsed font at a fixed canvas size and
// point size, anchored at the top-left corner the way Pillow's
// ImageDraw.text(..., anchor="lt") does.
type Renderer struct {
	font *sfnt.Font
	n    int
	ppem fixed.Int26_6
	buf  sfnt.Buffer
}

// NewRenderer parses a TrueType/OpenType font and configures a rasterizer
// that renders into an n x n canvas at the given point size.
func NewRenderer(fontBytes []byte, n int, point float64) (*Renderer, error) {
	f, err := sfnt.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("glyph: parsing font: %w", err)
	}
	return &Renderer{
		font: f,
		n:    n,
		ppem: fixed.Int26_6(point * 64),
	}, nil
}

// Render rasterizes r into a fresh n x n bitmap. A rune with no glyph in
// the font (including genuine whitespace) renders as an all-blank bitmap,
// matching the reference treating any whitespace char as a blank canvas.
func (r *Renderer) Render(ch rune) (*Bitmap, error) {
	out := NewBitmap(r.n)

	gi, err := r.font.GlyphIndex(&r.buf, ch)
	if err != nil {
		return nil, fmt.Errorf("glyph: glyph index for %q: %w", ch, err)
	}
	if gi == 0 {
		out.Height, out.Width = 0, 0
		return out, nil
	}

	segments, err := r.font.LoadGlyph(&r.buf, gi, r.ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("glyph: loading glyph for %q: %w", ch, err)
	}

	metrics, err := r.font.Metrics(&r.buf, r.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("glyph: font metrics: %w", err)
	}
	ascent := f32(metrics.Ascent)

	ras := vector.NewRasterizer(r.n, r.n)
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			ras.MoveTo(f32(seg.Args[0].X), ascent-f32(seg.Args[0].Y))
		case sfnt.SegmentOpLineTo:
			ras.LineTo(f32(seg.Args[0].X), ascent-f32(seg.Args[0].Y))
		case sfnt.SegmentOpQuadTo:
			ras.QuadTo(
				f32(seg.Args[0].X), ascent-f32(seg.Args[0].Y),
				f32(seg.Args[1].X), ascent-f32(seg.Args[1].Y),
			)
		case sfnt.SegmentOpCubeTo:
			ras.CubeTo(
				f32(seg.Args[0].X), ascent-f32(seg.Args[0].Y),
				f32(seg.Args[1].X), ascent-f32(seg.Args[1].Y),
				f32(seg.Args[2].X), ascent-f32(seg.Args[2].Y),
			)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, r.n, r.n))
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < r.n; y++ {
		for x := 0; x < r.n; x++ {
			out.Set(y, x, mask.AlphaAt(x, y).A > threshold)
		}
	}
	_, _, out.Height, out.Width, _ = out.boundingBox()
	return out, nil
}

func f32(x fixed.Int26_6) float32 {
	return float32(x) / 64
}
