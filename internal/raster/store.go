// Package raster owns the pixel buffers of an editing session: the processed
// result, the original source and the working copy under edit.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

// ErrDimensionMismatch is returned by Load when the processed and original
// images do not share the same size.
var ErrDimensionMismatch = errors.New("processed and original dimensions differ")

// Store holds three equally sized RGBA buffers. Processed and original are
// never written after Load; working is mutated by the brush and history.
type Store struct {
	processed *image.RGBA
	original  *image.RGBA
	working   *image.RGBA
}

// Load copies both images into zero-origin RGBA buffers and initialises the
// working buffer from processed. On a size mismatch no store is returned.
func Load(processed, original image.Image) (*Store, error) {
	if processed == nil || original == nil {
		return nil, fmt.Errorf("load rasters: nil image")
	}
	ps := processed.Bounds().Size()
	gs := original.Bounds().Size()
	if ps != gs {
		return nil, fmt.Errorf("load rasters: processed %dx%d, original %dx%d: %w",
			ps.X, ps.Y, gs.X, gs.Y, ErrDimensionMismatch)
	}
	if ps.X <= 0 || ps.Y <= 0 {
		return nil, fmt.Errorf("load rasters: empty image %dx%d", ps.X, ps.Y)
	}
	s := &Store{
		processed: ToRGBA(processed),
		original:  ToRGBA(original),
	}
	s.working = Clone(s.processed)
	return s, nil
}

// ToRGBA converts img into a new RGBA buffer whose bounds start at 0,0.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}

// Bounds returns the shared bounds of all three buffers.
func (s *Store) Bounds() image.Rectangle { return s.working.Rect }

// Size returns the native pixel dimensions of the buffers.
func (s *Store) Size() image.Point { return s.working.Rect.Size() }

// Processed returns the read-only processed buffer.
func (s *Store) Processed() *image.RGBA { return s.processed }

// Original returns the read-only original buffer.
func (s *Store) Original() *image.RGBA { return s.original }

// Working returns the mutable working buffer.
func (s *Store) Working() *image.RGBA { return s.working }

// Reset recopies processed into working. Original is left untouched.
func (s *Store) Reset() {
	copy(s.working.Pix, s.processed.Pix)
}

// Export returns a copy of the working buffer.
func (s *Store) Export() *image.RGBA {
	return Clone(s.working)
}

// EncodePNG writes the working buffer to w as PNG.
func (s *Store) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, s.working); err != nil {
		return fmt.Errorf("encode working: %w", err)
	}
	return nil
}
