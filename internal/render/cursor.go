package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/retouch/internal/brush"
	"github.com/example/retouch/internal/theme"
	"github.com/example/retouch/internal/view"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// ringWidth is the stroke width of the coloured brush outline.
const ringWidth = 1.5

// circle adds a closed circular contour to z. Clockwise contours add
// coverage and counter-clockwise ones subtract it.
func circle(z *vector.Rasterizer, cx, cy, r float32, clockwise bool) {
	k := r * kappa
	if clockwise {
		z.MoveTo(cx+r, cy)
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	} else {
		z.MoveTo(cx+r, cy)
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	}
	z.ClosePath()
}

// ring rasterises an anti-aliased annulus centred on c with the given mid
// radius and width, and composites src through it onto dst.
func ring(dst *image.RGBA, c image.Point, radius, width float64, src image.Image) {
	outer := radius + width/2
	inner := math.Max(radius-width/2, 0)
	pad := int(math.Ceil(outer)) + 1
	box := image.Rect(c.X-pad, c.Y-pad, c.X+pad, c.Y+pad)
	if box.Intersect(dst.Bounds()).Empty() {
		return
	}
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	cx, cy := float32(pad), float32(pad)
	circle(z, cx, cy, float32(outer), true)
	if inner > 0 {
		circle(z, cx, cy, float32(inner), false)
	}
	z.Draw(dst, box, src, image.Point{})
}

// cursorColor returns the ring colour for a mode, faded by opacity.
func cursorColor(th *theme.Theme, mode brush.Mode, opacity float64) color.NRGBA {
	c := th.CursorErase
	if mode == brush.ModeRestore {
		c = th.CursorRestore
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(255 * opacity))}
}

// drawCursor outlines the brush footprint. A thin contrasting halo keeps the
// ring visible over both light and dark pixels.
func drawCursor(dst *image.RGBA, cur view.Cursor, th *theme.Theme) {
	r := cur.Radius()
	if r <= 0 {
		return
	}
	ring(dst, cur.Center, r, ringWidth+2, image.NewUniform(th.CursorOutline))
	ring(dst, cur.Center, r, ringWidth, image.NewUniform(cursorColor(th, cur.Mode, cur.Opacity)))
}
