// Package ui runs the shiny window of the mask editor. Window events are
// handed to an input.Dispatcher; frames are drawn by internal/render.
package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/retouch/internal/input"
	"github.com/example/retouch/internal/render"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/theme"
	"github.com/example/retouch/internal/view"
)

// MaxWindow bounds the initial window size.
var MaxWindow = image.Pt(1280, 860)

// messageDuration is how long transient messages stay on screen.
const messageDuration = 2 * time.Second

// Editor hosts one editing session in a window.
type Editor struct {
	disp     *input.Dispatcher
	title    string
	theme    *theme.Theme
	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option configures an Editor.
type Option func(*Editor)

// WithTitle sets the window title.
func WithTitle(t string) Option { return func(e *Editor) { e.title = t } }

// WithTheme selects the colour palette.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.theme = t } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(e *Editor) { e.onClose = fn } }

// New creates an Editor for the dispatcher's session, which must already be
// open.
func New(d *input.Dispatcher, opts ...Option) *Editor {
	e := &Editor{
		disp:     d,
		title:    "Retouch",
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Changed requests a repaint. It is safe to call from any goroutine and is
// meant to be passed to session.WithOnChange.
func (e *Editor) Changed() {
	select {
	case e.updateCh <- struct{}{}:
	default:
	}
}

func (e *Editor) notifyClose() {
	e.closeOnce.Do(func() {
		if e.onClose != nil {
			e.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver. It returns when the
// session is closed or the window is destroyed.
func (e *Editor) Run() error {
	var err error
	driver.Main(func(s screen.Screen) { err = e.Main(s) })
	return err
}

// frame is the state handed to the paint goroutine. The working buffer is
// a private copy from frameBuffers so painting never races the event loop.
type frame struct {
	size  image.Point
	frame render.Frame
}

// Main runs the event loop on s.
func (e *Editor) Main(s screen.Screen) error {
	sess := e.disp.Session()
	if sess.State() != session.Editing {
		return session.ErrNotEditing
	}
	defer e.notifyClose()

	winSize := render.WindowSize(sess.Size(), MaxWindow)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winSize.X, Height: winSize.Y, Title: e.title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	if z := render.FitZoom(sess.Size(), winSize); z < 1 {
		if err := sess.ZoomTo(z); err != nil {
			log.Printf("fit zoom: %v", err)
		}
	}

	done := make(chan struct{})
	var forward sync.WaitGroup
	defer func() {
		close(done)
		forward.Wait()
	}()
	forward.Add(1)
	go func() {
		defer forward.Done()
		for {
			select {
			case <-e.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	renderer := render.New(render.WithTheme(e.theme))
	hints := Hints(e.disp)
	var (
		targets      []render.Target
		targetsMu    sync.Mutex
		hoverHint    string
		message      string
		messageUntil time.Time
		buffers      = newFrameBuffers()
	)

	paints := newPainter(func(ctx context.Context, st frame) {
		if t, ok := drawFrame(ctx, s, w, renderer, st); ok {
			targetsMu.Lock()
			targets = t
			targetsMu.Unlock()
		}
	}, func(st frame) { buffers.put(st.frame.Working) })
	// Runs before w.Release: no frame may reach the window after that.
	defer paints.close()

	snapshot := func() *image.RGBA {
		src := sess.Working()
		if src == nil {
			return nil
		}
		return buffers.get(src, sess.Damage())
	}

	say := func(format string, args ...any) {
		message = fmt.Sprintf(format, args...)
		log.Print(message)
		messageUntil = time.Now().Add(messageDuration)
		time.AfterFunc(messageDuration, e.Changed)
	}

	report := func(op string, err error) {
		switch {
		case err == nil:
		case errors.Is(err, session.ErrNotEditing), errors.Is(err, session.ErrBusy):
		default:
			say("%s: %v", op, err)
		}
	}

	mapper := func() (m view.Mapper, ok bool) {
		v := sess.View()
		if v == nil {
			return m, false
		}
		return v.Mapper(sess.Size(), render.Origin), true
	}

	width, height := winSize.X, winSize.Y
	for {
		switch ev := w.NextEvent().(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				paints.close()
				if sess.State() == session.Editing {
					log.Print("window closed without done; changes discarded")
					report("quit", e.disp.Trigger(input.ActionQuit))
				}
				return nil
			}
			if ev.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				report("stroke", e.disp.Leave())
			}

		case size.Event:
			width, height = ev.WidthPx, ev.HeightPx
			w.Send(paint.Event{})

		case paint.Event:
			st := frame{size: image.Pt(width, height)}
			st.frame = render.Frame{
				Status:    sess.Status(),
				Working:   snapshot(),
				Hints:     hints,
				HoverHint: hoverHint,
			}
			if x, y, ok := e.disp.Hover(); ok {
				st.frame.Pointer = image.Pt(int(x), int(y))
				st.frame.Hover = true
			}
			if message != "" && time.Now().Before(messageUntil) {
				st.frame.Message = message
			}
			paints.submit(st)

		case mouse.Event:
			targetsMu.Lock()
			action, onHint := render.HitTest(targets, image.Pt(int(ev.X), int(ev.Y)))
			targetsMu.Unlock()
			if onHint && sess.Stroke() != session.Drawing {
				if action != hoverHint {
					hoverHint = action
					w.Send(paint.Event{})
				}
				if ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress {
					report(action, e.disp.Trigger(action))
				}
			} else {
				hoverHint = ""
				if m, ok := mapper(); ok {
					report("pointer", e.disp.Mouse(ev, m))
				}
			}
			w.Send(paint.Event{})

		case touch.Event:
			if m, ok := mapper(); ok {
				report("touch", e.disp.Touch(ev, m))
			}
			w.Send(paint.Event{})

		case key.Event:
			if ev.Direction != key.DirPress {
				continue
			}
			action, _ := e.disp.Lookup(ev)
			if _, err := e.disp.Key(ev); err != nil {
				report(action, err)
			}
			w.Send(paint.Event{})

		case error:
			log.Printf("window: %v", ev)
		}

		if sess.State() == session.Closed {
			return nil
		}
	}
}

// drawFrame renders one frame and publishes it. The targets are only
// meaningful when ok is true.
func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, r *render.Renderer, st frame) ([]render.Target, bool) {
	if st.size.X <= 0 || st.size.Y <= 0 {
		return nil, false
	}
	b, err := s.NewBuffer(st.size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return nil, false
	}
	defer b.Release()

	targets := r.Draw(ctx, b.RGBA(), st.frame)
	if ctx.Err() != nil {
		return nil, false
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return targets, true
}
