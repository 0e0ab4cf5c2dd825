package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the soft shadow drawn under the canvas.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a subtle shadow that separates the canvas
// from the window background.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  8,
		Offset:  image.Pt(4, 4),
		Opacity: 0.35,
	}
}

// BoxShadow returns the blurred coverage mask of a box of the given size.
// The mask is padded by radius on every side, so pixel (radius, radius) of
// the mask lines up with the box's top-left corner.
func BoxShadow(size image.Point, radius int) *image.Gray {
	if size.X <= 0 || size.Y <= 0 {
		return image.NewGray(image.Rectangle{})
	}
	radius = max(radius, 0)
	mask := image.NewGray(image.Rect(0, 0, size.X+2*radius, size.Y+2*radius))
	box := image.Rect(radius, radius, radius+size.X, radius+size.Y)
	draw.Draw(mask, box, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	return blurGray(mask, radius)
}

// shadowCache keeps the last mask since the canvas size rarely changes
// between frames.
type shadowCache struct {
	size   image.Point
	radius int
	mask   *image.Gray
}

func (c *shadowCache) get(size image.Point, radius int) *image.Gray {
	if c.mask == nil || c.size != size || c.radius != radius {
		c.mask = BoxShadow(size, radius)
		c.size = size
		c.radius = radius
	}
	return c.mask
}

// drawShadow paints the shadow of canvas onto dst.
func drawShadow(dst *image.RGBA, canvas image.Rectangle, opts ShadowOptions, cache *shadowCache) {
	if opts.Opacity <= 0 || canvas.Empty() {
		return
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)
	mask := cache.get(canvas.Size(), radius)
	at := canvas.Min.Add(opts.Offset).Sub(image.Pt(radius, radius))
	shade := image.NewUniform(color.RGBA{0, 0, 0, uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, mask.Bounds().Add(at), shade, image.Point{}, mask, image.Point{}, draw.Over)
}

// blurGray applies a separable box blur of the given radius.
func blurGray(src *image.Gray, radius int) *image.Gray {
	bounds := src.Bounds()
	if radius <= 0 {
		out := image.NewGray(bounds)
		copy(out.Pix, src.Pix)
		return out
	}
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)
	prefix := make([]int, max(w, h)+1)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x, v := range row {
			prefix[x+1] = prefix[x] + int(v)
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}

	return dst
}
