package video

import (
	"testing"

	"github.com/jmchacon/i8080invaders/invaders"
	"github.com/jmchacon/i8080invaders/memory"
)

func TestRenderDimensions(t *testing.T) {
	ram := memory.NewFlat()
	img := Render(ram)
	if got := img.Bounds().Dx(); got != Width {
		t.Errorf("width = %d, want %d", got, Width)
	}
	if got := img.Bounds().Dy(); got != Height {
		t.Errorf("height = %d, want %d", got, Height)
	}
}

func TestRenderRotatesTopLeftBitToBottomLeftColumn(t *testing.T) {
	ram := memory.NewFlat()
	// row 0, col 0, bit 0 set: the topmost pixel of the leftmost native column.
	ram.Write(invaders.VRAMStart, 0x01)
	img := Render(ram)
	if got := img.NRGBAAt(0, Height-1); got != pixelOn {
		t.Errorf("pixel(0,%d) = %v, want lit", Height-1, got)
	}
	if got := img.NRGBAAt(1, Height-1); got != pixelOff {
		t.Errorf("pixel(1,%d) = %v, want dark", Height-1, got)
	}
}

func TestRenderAllDarkByDefault(t *testing.T) {
	ram := memory.NewFlat()
	img := Render(ram)
	for y := 0; y < Height; y += 37 {
		for x := 0; x < Width; x += 41 {
			if got := img.NRGBAAt(x, y); got != pixelOff {
				t.Errorf("pixel(%d,%d) = %v, want dark", x, y, got)
			}
		}
	}
}
