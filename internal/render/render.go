// Package render composes the editor window: checkerboard backdrop, the
// zoomed working buffer, the brush cursor and the status and shortcut bars.
// It only reads session state and never touches the working buffer.
package render

import (
	"context"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/theme"
	"github.com/example/retouch/internal/view"
)

// Margin separates the canvas from the window edge.
const Margin = 16

// Origin is where the unpanned canvas's top-left corner sits in the window.
var Origin = image.Pt(Margin, Margin)

// Chrome is the window space not available to the canvas.
var Chrome = image.Pt(2*Margin, 2*Margin+2*BarHeight)

// FitZoom returns the zoom at which a buffer fits inside a window of size
// win, never above 1.
func FitZoom(buffer, win image.Point) float64 {
	if buffer.X <= 0 || buffer.Y <= 0 {
		return 1
	}
	avail := win.Sub(Chrome)
	if avail.X <= 0 || avail.Y <= 0 {
		return view.MinZoom
	}
	z := math.Min(float64(avail.X)/float64(buffer.X), float64(avail.Y)/float64(buffer.Y))
	return math.Min(z, 1)
}

// WindowSize returns a window size that shows buffer at zoom 1, bounded
// by limit.
func WindowSize(buffer, limit image.Point) image.Point {
	s := buffer.Add(Chrome)
	if limit.X > 0 && s.X > limit.X {
		s.X = limit.X
	}
	if limit.Y > 0 && s.Y > limit.Y {
		s.Y = limit.Y
	}
	return s
}

// CanvasArea is the window region the canvas may occupy.
func CanvasArea(win image.Point) image.Rectangle {
	return image.Rect(0, 0, win.X, max(win.Y-2*BarHeight, 0))
}

// Frame is everything needed to draw one frame.
type Frame struct {
	Status  session.Status
	Working *image.RGBA
	// Pointer is the hover position in window coordinates; Hover is false
	// when the pointer is outside the window.
	Pointer image.Point
	Hover   bool
	Hints   []Hint
	// HoverHint names the action under the pointer in the shortcut bar.
	HoverHint string
	Message   string
}

// Renderer draws frames. It keeps caches between frames and is not safe for
// concurrent use.
type Renderer struct {
	theme   *theme.Theme
	shadow  ShadowOptions
	checker checkerCache
	shade   shadowCache
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme selects the colour palette.
func WithTheme(t *theme.Theme) Option {
	return func(r *Renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// WithShadow replaces the canvas shadow settings.
func WithShadow(o ShadowOptions) Option { return func(r *Renderer) { r.shadow = o } }

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{theme: theme.Default(), shadow: DefaultShadowOptions()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Theme returns the palette in use.
func (r *Renderer) Theme() *theme.Theme { return r.theme }

// Canvas returns the on-screen rectangle of the working buffer for st.
func Canvas(st session.Status) image.Rectangle {
	v := view.State{Zoom: st.Zoom, Pan: st.Pan}
	return v.Displayed(st.Size, Origin)
}

// Draw renders f into dst and returns the shortcut bar layout. It stops
// early, leaving dst partially drawn, when ctx is cancelled.
func (r *Renderer) Draw(ctx context.Context, dst *image.RGBA, f Frame) []Target {
	th := r.theme
	b := dst.Bounds()
	fill(dst, b, th.Background)

	area := CanvasArea(b.Size()).Add(b.Min)
	if f.Working != nil && f.Status.State == session.Editing {
		canvas := Canvas(f.Status).Add(b.Min)
		clipped := dst.SubImage(area).(*image.RGBA)

		drawShadow(clipped, canvas, r.shadow, &r.shade)
		r.checker.draw(clipped, canvas, th.CheckerLight, th.CheckerDark)
		if ctx.Err() != nil {
			return nil
		}

		scaler := xdraw.Interpolator(xdraw.ApproxBiLinear)
		if f.Status.Zoom >= 1 {
			// Keep pixels crisp when zoomed in so edges can be judged.
			scaler = xdraw.NearestNeighbor
		}
		scaler.Scale(clipped, canvas, f.Working, f.Working.Bounds(), draw.Over, nil)
		outline(clipped, canvas.Inset(-1), th.CanvasBorder)
		if ctx.Err() != nil {
			return nil
		}

		if f.Hover && f.Pointer.In(area) {
			cur := view.CursorPreview(f.Status.Brush, f.Pointer.Add(b.Min), f.Status.Zoom)
			drawCursor(clipped, cur, th)
		}
	}
	if ctx.Err() != nil {
		return nil
	}

	statusRect := image.Rect(b.Min.X, area.Max.Y, b.Max.X, area.Max.Y+BarHeight)
	drawStatus(dst, statusRect, StatusLine(f.Status), th.StatusBackground, th.StatusText, th.Separator)
	hintRect := image.Rect(b.Min.X, statusRect.Max.Y, b.Max.X, b.Max.Y)
	targets := drawHints(dst, hintRect, f.Hints, f.HoverHint, th.StatusBackground, th.ShortcutText, th.Separator)

	if f.Message != "" {
		drawMessage(dst, area, f.Message)
	}
	return targets
}

// HitTest returns the action of the target containing p.
func HitTest(targets []Target, p image.Point) (string, bool) {
	for _, t := range targets {
		if p.In(t.Rect) {
			return t.Action, true
		}
	}
	return "", false
}
