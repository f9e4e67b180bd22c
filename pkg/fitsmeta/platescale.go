package fitsmeta

import (
	"fmt"
	"image"
	"math"
)

// PlateScale maps between pixel coordinates and sky positions with a linear
// plate-scale model centered on the image. No projection or spherical
// correction is applied, so results are only accurate near the field center;
// FieldRadius gives callers the extent over which the approximation is used.
//
// Pixel coordinates use the display convention of ImageMatrix.ValueAt: y grows
// southward from the top row and x grows toward lower right ascension (east is
// left).
type PlateScale struct {
	Width  int
	Height int
	// XScale and YScale are in arc-seconds per pixel.
	XScale float64
	YScale float64

	center    SkyPosition
	hasCenter bool
}

// NewPlateScale creates a transform. A nil center leaves the field center
// unset, in which case both mapping directions report no result.
func NewPlateScale(width, height int, xScale, yScale float64, center *SkyPosition) *PlateScale {
	ps := &PlateScale{Width: width, Height: height, XScale: xScale, YScale: yScale}
	if center != nil {
		ps.center = *center
		ps.hasCenter = true
	}
	return ps
}

// Center returns the field center, if one was supplied.
func (p *PlateScale) Center() (SkyPosition, bool) {
	return p.center, p.hasCenter
}

// PixelToSky returns the sky position of pixel (x, y). Pixels outside
// [0, Width] x [0, Height] (upper bounds inclusive) have no position.
func (p *PlateScale) PixelToSky(x, y int) (SkyPosition, bool) {
	if !p.hasCenter || x < 0 || y < 0 || x > p.Width || y > p.Height {
		return SkyPosition{}, false
	}
	dx := float64(p.Width/2 - x)
	dy := float64(p.Height/2 - y)
	ra := p.center.RA.ArcSeconds() + dx*p.XScale
	dec := p.center.Dec.ArcSeconds() + dy*p.YScale
	return SkyPosition{RA: RAFromArcSeconds(ra), Dec: DecFromArcSeconds(dec)}, true
}

// SkyToPixel returns the pixel at the given sky position, truncated toward
// zero. The result may lie outside the image. A zero scale has no inverse.
func (p *PlateScale) SkyToPixel(pos SkyPosition) (image.Point, bool) {
	if !p.hasCenter || p.XScale == 0 || p.YScale == 0 {
		return image.Point{}, false
	}
	raOff := wrapHalfCircle(p.center.RA.ArcSeconds() - pos.RA.ArcSeconds())
	decOff := p.center.Dec.ArcSeconds() - pos.Dec.ArcSeconds()
	x := raOff/p.XScale + float64(p.Width/2)
	y := decOff/p.YScale + float64(p.Height/2)
	return image.Pt(int(x), int(y)), true
}

// wrapHalfCircle folds an angular difference into [-180°, 180°) so offsets
// across 0h of right ascension stay small.
func wrapHalfCircle(as float64) float64 {
	as = math.Mod(as+fullCircleArcsec/2, fullCircleArcsec)
	if as < 0 {
		as += fullCircleArcsec
	}
	return as - fullCircleArcsec/2
}

// FieldSizeX is the field width in arc-seconds.
func (p *PlateScale) FieldSizeX() float64 { return float64(p.Width) * p.XScale }

// FieldSizeY is the field height in arc-seconds.
func (p *PlateScale) FieldSizeY() float64 { return float64(p.Height) * p.YScale }

// FieldRadius combines the two field sizes as a right-triangle hypotenuse, in arc-seconds.
func (p *PlateScale) FieldRadius() float64 {
	return math.Hypot(p.FieldSizeX(), p.FieldSizeY())
}

func (p *PlateScale) String() string {
	center := "unset"
	if p.hasCenter {
		center = p.center.String()
	}
	return fmt.Sprintf("{Center=%s, X=%d*%g\", Y=%d*%g\"}", center, p.Width, p.XScale, p.Height, p.YScale)
}
