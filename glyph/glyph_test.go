package glyph_test

import (
	"testing"

	"github.com/rafelafrance/ocrensemble/glyph"
)

func TestBitmapSetAt(t *testing.T) {
	b := glyph.NewBitmap(4)
	if b.At(1, 2) {
		t.Fatal("fresh bitmap must be all-blank")
	}
	b.Set(1, 2, true)
	if !b.At(1, 2) {
		t.Fatal("Set(1, 2, true) did not stick")
	}
	if b.At(2, 1) {
		t.Fatal("Set must not touch other pixels")
	}
}

func TestBitmapLitCount(t *testing.T) {
	b := glyph.NewBitmap(3)
	if b.LitCount() != 0 {
		t.Fatalf("LitCount of blank bitmap = %d, want 0", b.LitCount())
	}
	b.Set(0, 0, true)
	b.Set(2, 2, true)
	if b.LitCount() != 2 {
		t.Fatalf("LitCount = %d, want 2", b.LitCount())
	}
}

func TestCenteredEmptyBitmapIsBlank(t *testing.T) {
	b := glyph.NewBitmap(5)
	c := b.Centered()
	if c.LitCount() != 0 {
		t.Fatalf("Centered of a blank bitmap lit %d pixels, want 0", c.LitCount())
	}
}

func TestCenteredMovesBoundingBoxToMiddle(t *testing.T) {
	b := glyph.NewBitmap(5)
	// A single lit pixel jammed in the corner; its 1x1 bounding box should
	// land on the grid's center cell once centered.
	b.Set(0, 0, true)
	c := b.Centered()
	if c.LitCount() != 1 {
		t.Fatalf("Centered must preserve the lit pixel count, got %d", c.LitCount())
	}
	if !c.At(2, 2) {
		t.Fatal("Centered(single pixel at origin) should land on the grid center")
	}
}

func TestCenteredOfAlreadyCenteredIsStable(t *testing.T) {
	b := glyph.NewBitmap(5)
	b.Set(1, 1, true)
	b.Set(2, 2, true)
	b.Set(3, 3, true)
	once := b.Centered()
	twice := once.Centered()
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if once.At(y, x) != twice.At(y, x) {
				t.Fatalf("Centered is not idempotent on an already-centered bitmap at (%d,%d)", y, x)
			}
		}
	}
}
