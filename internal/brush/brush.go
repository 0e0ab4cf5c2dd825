// Package brush paints soft-edged circular dabs into an RGBA working buffer.
//
// Erase dabs use destination-out compositing: every premultiplied channel of
// the destination is scaled by (1 - a), where a is the dab strength at that
// pixel. Restore dabs interpolate the destination toward the original image,
// so a full strength dab always yields the original pixel regardless of what
// earlier strokes did.
package brush

import (
	"image"
	"math"
)

// Strength returns the falloff of a dab of the given radius and hardness at
// distance dist from its centre. The result is in [0, 1].
//
// At hardness 100 the dab is a hard disk. Below that, strength is 1 inside
// radius*hardness/100 and falls linearly to 0 at radius.
func Strength(dist, radius float64, hardness int) float64 {
	if radius <= 0 || dist > radius {
		return 0
	}
	if hardness >= MaxHardness {
		return 1
	}
	inner := radius * float64(hardness) / 100
	if dist <= inner {
		return 1
	}
	return (radius - dist) / (radius - inner)
}

// Bounds returns the pixel rectangle a dab centred at (cx, cy) can touch,
// clipped to clip.
func Bounds(cx, cy float64, radius int, clip image.Rectangle) image.Rectangle {
	r := float64(radius)
	box := image.Rect(
		int(math.Floor(cx-r)),
		int(math.Floor(cy-r)),
		int(math.Ceil(cx+r))+1,
		int(math.Ceil(cy+r))+1,
	)
	return box.Intersect(clip)
}

// Apply paints one dab centred at (cx, cy) into working. Restore mode reads
// from original, which must share working's bounds. Centres outside the
// buffer are fine; the dab is clipped. The touched rectangle is returned.
func Apply(working, original *image.RGBA, cx, cy float64, s Settings) image.Rectangle {
	s = s.Normalized()
	if s.Opacity == 0 {
		return image.Rectangle{}
	}
	box := Bounds(cx, cy, s.Radius, working.Rect)
	if box.Empty() {
		return box
	}
	radius := float64(s.Radius)
	opacity := float64(s.Opacity) / 100
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			st := Strength(math.Hypot(dx, dy), radius, s.Hardness) * opacity
			a := byte(st*255 + 0.5)
			if a == 0 {
				continue
			}
			i := working.PixOffset(x, y)
			dst := working.Pix[i : i+4 : i+4]
			switch s.Mode {
			case ModeErase:
				destinationOut(dst, a)
			case ModeRestore:
				j := original.PixOffset(x, y)
				lerp(dst, original.Pix[j:j+4:j+4], a)
			}
		}
	}
	return box
}

func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// destinationOut applies D*(1-Sa) to a premultiplied pixel.
func destinationOut(dst []byte, sa byte) {
	inv := 255 - sa
	dst[0] = mulDiv255(dst[0], inv)
	dst[1] = mulDiv255(dst[1], inv)
	dst[2] = mulDiv255(dst[2], inv)
	dst[3] = mulDiv255(dst[3], inv)
}

// lerp moves a premultiplied pixel toward src by t/255.
func lerp(dst, src []byte, t byte) {
	inv := uint32(255 - t)
	for k := 0; k < 4; k++ {
		v := uint32(src[k])*uint32(t) + uint32(dst[k])*inv
		dst[k] = byte((v + 127) / 255)
	}
}
