package render

import (
	"image"
	"image/color"
	"image/draw"
)

// CheckerSize is the edge length of one checkerboard square in screen pixels.
const CheckerSize = 8

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. The pattern is anchored at rect.Min so it pans with the canvas.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if ((x/size)+(y/size))%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

// checkerCache holds a pre-rendered checkerboard at least as large as the
// window, drawn aligned to the canvas origin modulo two squares.
type checkerCache struct {
	img         *image.RGBA
	light, dark color.RGBA
}

func (c *checkerCache) draw(dst *image.RGBA, canvas image.Rectangle, light, dark color.RGBA) {
	clip := canvas.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	period := 2 * CheckerSize
	need := dst.Bounds().Size().Add(image.Pt(period, period))
	if c.img == nil || c.light != light || c.dark != dark ||
		c.img.Bounds().Dx() < need.X || c.img.Bounds().Dy() < need.Y {
		c.img = image.NewRGBA(image.Rectangle{Max: need})
		c.light, c.dark = light, dark
		drawCheckerboard(c.img, c.img.Bounds(), CheckerSize, light, dark)
	}
	// Phase of the first visible pixel relative to the canvas origin.
	phase := image.Pt(mod(clip.Min.X-canvas.Min.X, period), mod(clip.Min.Y-canvas.Min.Y, period))
	draw.Draw(dst, clip, c.img, phase, draw.Src)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
