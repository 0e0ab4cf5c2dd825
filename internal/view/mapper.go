package view

import "image"

// Mapper converts screen coordinates into buffer pixel coordinates.
//
// Canvas is where the buffer appears on screen and Buffer is its native size.
// Mouse and touch both go through Map.
type Mapper struct {
	Canvas image.Rectangle
	Buffer image.Point
}

// Map returns the buffer-space position of the screen point (sx, sy). The
// result may lie outside the buffer; the brush clips it.
func (m Mapper) Map(sx, sy float64) (x, y float64) {
	dw, dh := m.Canvas.Dx(), m.Canvas.Dy()
	if dw <= 0 || dh <= 0 {
		return 0, 0
	}
	scaleX := float64(m.Buffer.X) / float64(dw)
	scaleY := float64(m.Buffer.Y) / float64(dh)
	return (sx - float64(m.Canvas.Min.X)) * scaleX, (sy - float64(m.Canvas.Min.Y)) * scaleY
}

// Contains reports whether the screen point lies over the displayed canvas.
func (m Mapper) Contains(sx, sy float64) bool {
	return sx >= float64(m.Canvas.Min.X) && sx < float64(m.Canvas.Max.X) &&
		sy >= float64(m.Canvas.Min.Y) && sy < float64(m.Canvas.Max.Y)
}
