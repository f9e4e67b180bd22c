package fitsmeta

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	overlayText    = color.RGBA{255, 255, 0, 255}
	overlayCross   = color.RGBA{255, 80, 80, 255}
	overlayCompass = color.RGBA{80, 200, 255, 255}
)

// RenderOverlay renders the frame with the window [lo, hi] and annotates it
// with the field center, a north/east compass and the sky position of each
// corner. Without a field center only the object name and field size are drawn.
func RenderOverlay(f *Frame, lo, hi float64) *image.RGBA {
	gray := GrayImage(f.Matrix, lo, hi)
	img := image.NewRGBA(gray.Bounds())
	draw.Draw(img, img.Bounds(), gray, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	margin := 4
	lineH := face.Metrics().Height.Ceil()

	title := f.ObjectName()
	if title == "" {
		title = "(no object)"
	}
	drawText(img, face, title, margin, lineH, overlayText)
	if f.Scale.XScale > 0 && f.Scale.YScale > 0 {
		size := fmt.Sprintf("%.1f' x %.1f'", f.Scale.FieldSizeX()/60, f.Scale.FieldSizeY()/60)
		drawText(img, face, size, margin, 2*lineH, overlayText)
	}

	if _, ok := f.Scale.Center(); !ok {
		return img
	}

	cx, cy := w/2, h/2
	arm := min(w, h) / 20
	if arm < 3 {
		arm = 3
	}
	drawLine(img, cx-arm, cy, cx+arm, cy, overlayCross)
	drawLine(img, cx, cy-arm, cx, cy+arm, overlayCross)

	// North is up and east is left in display coordinates.
	arrow := min(w, h) / 8
	ox, oy := w-margin-arrow-10, h-margin-lineH-arrow
	drawLine(img, ox, oy, ox, oy-arrow, overlayCompass)
	drawArrowHead(img, ox, oy, ox, oy-arrow, overlayCompass)
	drawCenteredText(img, face, "N", ox, oy-arrow-3, overlayCompass)
	drawLine(img, ox, oy, ox-arrow, oy, overlayCompass)
	drawArrowHead(img, ox, oy, ox-arrow, oy, overlayCompass)
	drawText(img, face, "E", ox-arrow-10, oy+4, overlayCompass)

	corners := []struct {
		x, y   int
		tx, ty int
		right  bool
	}{
		{0, 0, margin, 3 * lineH, false},
		{w, 0, w - margin, lineH, true},
		{0, h, margin, h - margin, false},
	}
	for _, c := range corners {
		pos, ok := f.Scale.PixelToSky(c.x, c.y)
		if !ok {
			continue
		}
		label := pos.String()
		x := c.tx
		if c.right {
			x -= font.MeasureString(face, label).Round()
		}
		drawText(img, face, label, x, c.ty, overlayText)
	}
	return img
}

func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawCenteredText centers s horizontally on cx with its baseline at cy.
func drawCenteredText(img *image.RGBA, face font.Face, s string, cx, cy int, c color.RGBA) {
	advance := font.MeasureString(face, s)
	drawText(img, face, s, cx-advance.Round()/2, cy, c)
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := intAbs(x1 - x0)
	dy := -intAbs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawArrowHead(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	length := math.Hypot(dx, dy)
	if length < 1 {
		return
	}
	dx /= length
	dy /= length

	sz := math.Min(10, length/2)
	px := float64(x1) - dx*sz
	py := float64(y1) - dy*sz
	drawLine(img, x1, y1, int(px+dy*sz*0.4), int(py-dx*sz*0.4), c)
	drawLine(img, x1, y1, int(px-dy*sz*0.4), int(py+dx*sz*0.4), c)
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
