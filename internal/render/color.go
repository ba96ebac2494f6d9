// Package render turns ray hit lists into shaded pixel columns.
package render

import "image/color"

// Opaque is the alpha byte of a fully opaque packed colour.
const Opaque uint32 = 0xFF << 24

// MixColor blends front over back. Both colours are packed 0xAARRGGBB with
// straight alpha. The arithmetic is integer-only and truncates per channel.
func MixColor(front, back uint32) uint32 {
	aA := front >> 24 & 0xFF
	aB := back >> 24 & 0xFF
	inv := 255 - aA

	mix := func(shift uint32) uint32 {
		cA := front >> shift & 0xFF
		cB := back >> shift & 0xFF
		return (cA*aA/255 + cB*aB*inv/(255*255)) & 0xFF
	}

	alpha := (aA + aB*inv/255) & 0xFF
	return alpha<<24 | mix(16)<<16 | mix(8)<<8 | mix(0)
}

// Pack converts a colour to 0xAARRGGBB, keeping the given alpha.
func Pack(c color.Color, alpha uint8) uint32 {
	r, g, b, _ := c.RGBA()
	return uint32(alpha)<<24 | (r>>8)<<16 | (g>>8)<<8 | b>>8
}

// FrameBuffer is a row-major buffer of packed 0xAARRGGBB pixels.
type FrameBuffer struct {
	Width, Height int
	Pix           []uint32
}

// NewFrameBuffer allocates a buffer of the given size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// Offset returns the index of pixel (x, y).
func (fb *FrameBuffer) Offset(x, y int) int {
	return y*fb.Width + x
}

// Clear fills the whole buffer with c.
func (fb *FrameBuffer) Clear(c uint32) {
	for i := range fb.Pix {
		fb.Pix[i] = c
	}
}

// Set overwrites a pixel, forcing full alpha when opaque is true.
func (fb *FrameBuffer) Set(off int, c uint32, opaque bool) {
	if opaque {
		c |= Opaque
	}
	fb.Pix[off] = c
}

// Mix blends c over the current pixel, forcing full alpha when opaque is true.
func (fb *FrameBuffer) Mix(off int, c uint32, opaque bool) {
	m := MixColor(c, fb.Pix[off])
	if opaque {
		m |= Opaque
	}
	fb.Pix[off] = m
}

// At returns the packed pixel at (x, y).
func (fb *FrameBuffer) At(x, y int) uint32 {
	return fb.Pix[fb.Offset(x, y)]
}

// RGBA writes the buffer as R, G, B, A bytes into dst, growing it if needed,
// and returns it. Presenters upload the result directly.
func (fb *FrameBuffer) RGBA(dst []byte) []byte {
	n := len(fb.Pix) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, p := range fb.Pix {
		j := i * 4
		dst[j] = byte(p >> 16)
		dst[j+1] = byte(p >> 8)
		dst[j+2] = byte(p)
		dst[j+3] = byte(p >> 24)
	}
	return dst
}
