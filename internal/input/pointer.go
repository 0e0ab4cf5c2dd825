package input

import (
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/view"
)

// Phase is the normalised stage of a pointer gesture.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseLeave
)

// Pointer is one normalised pointer sample in screen coordinates.
type Pointer struct {
	Phase Phase
	X, Y  float64
}

type pointerState struct {
	touching bool
	seq      touch.Sequence

	panning bool
	last    struct{ x, y float32 }

	hover  bool
	hx, hy float64
}

// Hover returns the last screen position seen over the canvas.
func (d *Dispatcher) Hover() (x, y float64, ok bool) {
	return d.ptr.hx, d.ptr.hy, d.ptr.hover
}

// Pointer drives the stroke machine from one normalised sample. A press
// outside the canvas is ignored; moving off the canvas ends the stroke.
func (d *Dispatcher) Pointer(p Pointer, m view.Mapper) error {
	s := d.sess
	if s.State() != session.Editing {
		return nil
	}
	inside := m.Contains(p.X, p.Y)
	d.ptr.hover = inside && p.Phase != PhaseLeave
	d.ptr.hx, d.ptr.hy = p.X, p.Y
	x, y := m.Map(p.X, p.Y)
	switch p.Phase {
	case PhaseDown:
		if !inside {
			return nil
		}
		return s.BeginStroke(x, y)
	case PhaseMove:
		if s.Stroke() != session.Drawing {
			return nil
		}
		if !inside {
			return s.EndStroke()
		}
		return s.ContinueStroke(x, y)
	case PhaseUp, PhaseLeave:
		return s.EndStroke()
	}
	return nil
}

// Mouse translates a mouse event. The left button paints, the right button
// drags the canvas and the wheel zooms.
func (d *Dispatcher) Mouse(e mouse.Event, m view.Mapper) error {
	switch e.Button {
	case mouse.ButtonWheelUp:
		if e.Direction == mouse.DirStep || e.Direction == mouse.DirPress {
			return d.Trigger(ActionZoomIn)
		}
		return nil
	case mouse.ButtonWheelDown:
		if e.Direction == mouse.DirStep || e.Direction == mouse.DirPress {
			return d.Trigger(ActionZoomOut)
		}
		return nil
	case mouse.ButtonRight, mouse.ButtonMiddle:
		switch e.Direction {
		case mouse.DirPress:
			d.ptr.panning = true
			d.ptr.last.x, d.ptr.last.y = e.X, e.Y
		case mouse.DirRelease:
			d.ptr.panning = false
		}
		return nil
	}

	p := Pointer{X: float64(e.X), Y: float64(e.Y)}
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		p.Phase = PhaseDown
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		p.Phase = PhaseUp
	case e.Direction == mouse.DirNone:
		if d.ptr.panning {
			dx := int(e.X - d.ptr.last.x)
			dy := int(e.Y - d.ptr.last.y)
			if dx == 0 && dy == 0 {
				return nil
			}
			d.ptr.last.x += float32(dx)
			d.ptr.last.y += float32(dy)
			if d.sess.State() != session.Editing {
				return nil
			}
			return d.sess.PanBy(dx, dy)
		}
		p.Phase = PhaseMove
	default:
		return nil
	}
	return d.Pointer(p, m)
}

// Touch translates a touch event. Only the first active touch sequence is
// followed; other fingers are ignored until it ends.
func (d *Dispatcher) Touch(e touch.Event, m view.Mapper) error {
	p := Pointer{X: float64(e.X), Y: float64(e.Y)}
	switch e.Type {
	case touch.TypeBegin:
		if d.ptr.touching {
			return nil
		}
		d.ptr.touching = true
		d.ptr.seq = e.Sequence
		p.Phase = PhaseDown
	case touch.TypeMove:
		if !d.ptr.touching || e.Sequence != d.ptr.seq {
			return nil
		}
		p.Phase = PhaseMove
	case touch.TypeEnd:
		if !d.ptr.touching || e.Sequence != d.ptr.seq {
			return nil
		}
		d.ptr.touching = false
		p.Phase = PhaseUp
	default:
		return nil
	}
	return d.Pointer(p, m)
}

// Leave ends any stroke when the pointer leaves the window.
func (d *Dispatcher) Leave() error {
	d.ptr.hover = false
	d.ptr.panning = false
	if d.sess.State() != session.Editing {
		return nil
	}
	return d.sess.EndStroke()
}
