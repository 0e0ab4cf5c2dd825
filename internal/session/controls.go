package session

import (
	"image"

	"github.com/example/retouch/internal/brush"
	"github.com/example/retouch/internal/view"
)

// Brush returns the active brush settings.
func (s *Session) Brush() brush.Settings { return s.brush }

func (s *Session) updateBrush(fn func(*brush.Settings)) {
	before := s.brush
	fn(&s.brush)
	if s.brush != before {
		s.changed()
	}
}

func (s *Session) SetRadius(r int) { s.updateBrush(func(b *brush.Settings) { b.SetRadius(r) }) }
func (s *Session) AdjustRadius(d int) { s.updateBrush(func(b *brush.Settings) { b.AdjustRadius(d) }) }
func (s *Session) SetHardness(h int) { s.updateBrush(func(b *brush.Settings) { b.SetHardness(h) }) }
func (s *Session) AdjustHardness(d int) { s.updateBrush(func(b *brush.Settings) { b.AdjustHardness(d) }) }
func (s *Session) SetOpacity(o int) { s.updateBrush(func(b *brush.Settings) { b.SetOpacity(o) }) }
func (s *Session) SetMode(m brush.Mode) { s.updateBrush(func(b *brush.Settings) { b.SetMode(m) }) }

func (s *Session) withView(fn func(v *view.State)) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	before := *s.view
	fn(s.view)
	if *s.view != before {
		s.changed()
	}
	return nil
}

// ZoomBy multiplies the zoom factor, clamped to the view limits.
func (s *Session) ZoomBy(f float64) error { return s.withView(func(v *view.State) { v.ZoomBy(f) }) }

// ZoomTo sets the zoom factor, clamped to the view limits.
func (s *Session) ZoomTo(z float64) error { return s.withView(func(v *view.State) { v.ZoomTo(z) }) }

func (s *Session) ZoomIn() error  { return s.withView(func(v *view.State) { v.ZoomIn() }) }
func (s *Session) ZoomOut() error { return s.withView(func(v *view.State) { v.ZoomOut() }) }

// PanBy moves the canvas on screen.
func (s *Session) PanBy(dx, dy int) error {
	return s.withView(func(v *view.State) { v.PanBy(dx, dy) })
}

// ResetView returns to zoom 1 and no pan.
func (s *Session) ResetView() error { return s.withView(func(v *view.State) { v.Reset() }) }

// Status is a snapshot of everything a control surface shows.
type Status struct {
	ID      string
	State   State
	Stroke  StrokeState
	Size    image.Point
	Brush   brush.Settings
	Zoom    float64
	Pan     image.Point
	CanUndo bool
	CanRedo bool
	History int
	Cursor  int
	Strokes int
}

// Status reports the current session state.
func (s *Session) Status() Status {
	st := Status{
		ID:      s.id,
		State:   s.state,
		Stroke:  s.stroke,
		Size:    s.Size(),
		Brush:   s.brush,
		CanUndo: s.CanUndo(),
		CanRedo: s.CanRedo(),
		Cursor:  -1,
		Strokes: s.strokeCount,
	}
	if s.view != nil {
		st.Zoom = s.view.Zoom
		st.Pan = s.view.Pan
	}
	if s.history != nil {
		st.History = s.history.Len()
		st.Cursor = s.history.Cursor()
	}
	return st
}
