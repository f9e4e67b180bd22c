package fitsmeta

import (
	"image"
	"math"
)

// midGray is emitted for in-range samples when the window has zero width.
const midGray = 128

// intensity windows a sample into [0, 255].
func intensity(s, min, max float64) uint8 {
	switch {
	case math.IsNaN(s):
		return 0
	case s < min:
		return 0
	case s > max:
		return 255
	case max == min:
		return midGray
	case s == max:
		return 255
	}
	return uint8(math.Round((s - min) * 255 / (max - min)))
}

// Render windows the matrix into opaque grayscale ARGB pixels. Samples below
// min are black, above max white, and linear in between; when max == min every
// in-range sample is mid-gray. The output is flipped vertically so that the
// first output row is the last stored row (north up).
func Render(m *ImageMatrix, min, max float64) []uint32 {
	w, h := m.width, m.height
	pixels := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		src := m.samples[y*w : (y+1)*w]
		dst := pixels[(h-1-y)*w : (h-y)*w]
		for x, s := range src {
			v := uint32(intensity(s, min, max))
			dst[x] = 0xFF<<24 | v<<16 | v<<8 | v
		}
	}
	return pixels
}

// RenderDefault renders with the matrix's current min/max bounds.
func RenderDefault(m *ImageMatrix) []uint32 {
	return Render(m, m.min, m.max)
}

// GrayImage applies the same windowing and flip as Render, producing an 8-bit image.
func GrayImage(m *ImageMatrix, min, max float64) *image.Gray {
	w, h := m.width, m.height
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := m.samples[y*w : (y+1)*w]
		row := img.Pix[(h-1-y)*img.Stride:]
		for x, s := range src {
			row[x] = intensity(s, min, max)
		}
	}
	return img
}
