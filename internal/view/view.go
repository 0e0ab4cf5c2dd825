// Package view holds the presentation state of an editing session: zoom,
// pan and the brush cursor preview. Nothing here touches pixel content.
package view

import (
	"image"
	"math"

	"github.com/example/retouch/internal/brush"
)

const (
	MinZoom = 0.25
	MaxZoom = 4.0
	// DefaultZoomStep is the factor applied by ZoomIn and ZoomOut.
	DefaultZoomStep = 1.25
	// MinPreviewOpacity keeps the cursor ring visible at low brush opacity.
	MinPreviewOpacity = 0.3
)

// State is the zoom factor and pan offset of the canvas. Pan is measured in
// screen pixels.
type State struct {
	Zoom float64
	Pan  image.Point
	Step float64
}

// New returns a State at zoom 1 with no pan. A step of 1 or less selects
// DefaultZoomStep.
func New(step float64) *State {
	if step <= 1 {
		step = DefaultZoomStep
	}
	return &State{Zoom: 1, Step: step}
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// ZoomTo sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (s *State) ZoomTo(z float64) { s.Zoom = clampZoom(z) }

// ZoomBy multiplies the zoom factor by f and clamps.
func (s *State) ZoomBy(f float64) { s.ZoomTo(s.Zoom * f) }

func (s *State) step() float64 {
	if s.Step <= 1 {
		return DefaultZoomStep
	}
	return s.Step
}

func (s *State) ZoomIn()  { s.ZoomBy(s.step()) }
func (s *State) ZoomOut() { s.ZoomBy(1 / s.step()) }

// PanBy shifts the canvas by (dx, dy) screen pixels.
func (s *State) PanBy(dx, dy int) { s.Pan = s.Pan.Add(image.Pt(dx, dy)) }

// Reset returns to zoom 1 and no pan.
func (s *State) Reset() {
	s.Zoom = 1
	s.Pan = image.Point{}
}

// Displayed returns the on-screen rectangle of a buffer of the given size
// whose unpanned top-left corner sits at origin.
func (s *State) Displayed(buffer image.Point, origin image.Point) image.Rectangle {
	w := int(math.Round(float64(buffer.X) * s.Zoom))
	h := int(math.Round(float64(buffer.Y) * s.Zoom))
	tl := origin.Add(s.Pan)
	return image.Rect(tl.X, tl.Y, tl.X+w, tl.Y+h)
}

// Mapper returns a Mapper for the buffer as displayed at origin.
func (s *State) Mapper(buffer image.Point, origin image.Point) Mapper {
	return Mapper{Canvas: s.Displayed(buffer, origin), Buffer: buffer}
}

// Cursor is the brush outline drawn under the pointer.
type Cursor struct {
	Center   image.Point
	Diameter float64
	Opacity  float64
	Mode     brush.Mode
}

// Radius returns half the diameter.
func (c Cursor) Radius() float64 { return c.Diameter / 2 }

// CursorPreview computes the screen-space brush outline for settings at the
// pointer. The diameter is the brush diameter as it appears at zoom.
func CursorPreview(settings brush.Settings, pointer image.Point, zoom float64) Cursor {
	settings = settings.Normalized()
	if zoom <= 0 {
		zoom = 1
	}
	op := float64(settings.Opacity) / 100
	if op < MinPreviewOpacity {
		op = MinPreviewOpacity
	}
	return Cursor{
		Center:   pointer,
		Diameter: 2 * float64(settings.Radius) * zoom,
		Opacity:  op,
		Mode:     settings.Mode,
	}
}
