// Package video converts the Space Invaders video RAM into a displayable
// image, performing the 90° rotation the cabinet's physical (portrait)
// monitor requires (spec.md §6). Grounded on the teacher's fastImage direct
// pixel-poke pattern from vcs_main.go, producing a stdlib image.NRGBA rather
// than writing straight into an SDL surface, so this package stays free of
// any windowing dependency.
package video

import (
	"image"
	"image/color"

	"github.com/jmchacon/i8080invaders/invaders"
	"github.com/jmchacon/i8080invaders/memory"
)

// Width and Height are the rotated, landscape display's dimensions. The
// cabinet's native framebuffer is 224 columns of 256 vertical bits each
// (7,168 bytes = 224*32, spec.md §6); rotating 90° swaps those into a
// 256x224 image.
const (
	Width  = 256
	Height = 224
)

var (
	pixelOn  = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	pixelOff = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
)

// Render reads VRAM out of ram and returns the rotated frame. Framebuffer
// byte at offset row*32+col holds eight vertically-adjacent native pixels
// with the LSB topmost; rotating 90° counter-clockwise maps native (row,
// bit-within-column) to screen (bit-within-column, height-1-row).
func Render(ram memory.Bank) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	const nativeRows = 224
	const bytesPerRow = 32

	for row := 0; row < nativeRows; row++ {
		for col := 0; col < bytesPerRow; col++ {
			b := ram.Read(uint16(invaders.VRAMStart + row*bytesPerRow + col))
			for bit := 0; bit < 8; bit++ {
				set := b&(1<<uint(bit)) != 0
				destX := col*8 + bit
				destY := nativeRows - 1 - row
				px := pixelOff
				if set {
					px = pixelOn
				}
				img.SetNRGBA(destX, destY, px)
			}
		}
	}
	return img
}
