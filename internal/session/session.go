// Package session drives one retouch edit from open to close.
//
// A Session moves Closed -> Loading -> Editing -> Closed. While Editing,
// pointer input runs a second machine, Idle -> Drawing -> Idle, and every
// return to Idle records exactly one history snapshot. A Session is not safe
// for concurrent use; callers drive it from a single event loop.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/retouch/internal/brush"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/raster"
	"github.com/example/retouch/internal/view"
)

var (
	// ErrMissingSource is returned by Open when either raster reference is
	// absent. Sources wrap it when a reference cannot be found.
	ErrMissingSource = errors.New("missing source image")
	// ErrNotEditing is returned by operations that need an open session.
	ErrNotEditing = errors.New("session is not editing")
	// ErrBusy is returned by Open when a session is already open.
	ErrBusy = errors.New("session already open")
	// ErrDimensionMismatch is returned by Open when the rasters differ in size.
	ErrDimensionMismatch = raster.ErrDimensionMismatch
)

// State is the lifecycle state of a Session.
type State int

const (
	Closed State = iota
	Loading
	Editing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Loading:
		return "loading"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StrokeState tracks whether a stroke is in progress.
type StrokeState int

const (
	Idle StrokeState = iota
	Drawing
)

func (s StrokeState) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Ref names the two images an edit needs: the processed result and the
// source it was produced from.
type Ref struct {
	Processed string
	Original  string
}

// Source resolves an image reference to decoded pixels. Resolve may be called
// concurrently for the two references of one Ref.
type Source interface {
	Resolve(ctx context.Context, ref string) (image.Image, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, ref string) (image.Image, error)

func (f SourceFunc) Resolve(ctx context.Context, ref string) (image.Image, error) {
	return f(ctx, ref)
}

// Result is what a closed session hands to its Sink.
type Result struct {
	ID    string
	Ref   Ref
	PNG   []byte
	Image *image.RGBA
}

// Sink receives the final image of a session.
type Sink interface {
	Export(ctx context.Context, r Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Result) error

func (f SinkFunc) Export(ctx context.Context, r Result) error { return f(ctx, r) }

// Session owns every buffer of one edit. The zero value is not usable; call New.
type Session struct {
	state  State
	stroke StrokeState

	id      string
	ref     Ref
	store   *raster.Store
	history *history.Manager
	view    *view.State
	brush   brush.Settings
	damage  image.Rectangle

	defaults    brush.Settings
	maxStates   int
	zoomStep    float64
	onChange    func()
	newID       func() string
	strokeCount int
}

// Option modifies a Session during creation.
type Option func(*Session)

// WithBrush sets the brush settings each opened session starts with.
func WithBrush(s brush.Settings) Option { return func(se *Session) { se.defaults = s.Normalized() } }

// WithHistoryCapacity sets the number of snapshots retained per session.
func WithHistoryCapacity(n int) Option { return func(s *Session) { s.maxStates = n } }

// WithZoomStep sets the factor used by ZoomIn and ZoomOut.
func WithZoomStep(f float64) Option { return func(s *Session) { s.zoomStep = f } }

// WithOnChange registers a callback run after every change that affects what
// is displayed.
func WithOnChange(fn func()) Option { return func(s *Session) { s.onChange = fn } }

// New creates a closed Session.
func New(opts ...Option) *Session {
	s := &Session{
		defaults:  brush.DefaultSettings(),
		maxStates: history.DefaultCapacity,
		zoomStep:  view.DefaultZoomStep,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	s.brush = s.defaults
	return s
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Open loads both rasters of ref through src and enters Editing. The two
// images are decoded concurrently; the session only leaves Loading when both
// have arrived. On any failure the session is back in Closed with no buffers.
func (s *Session) Open(ctx context.Context, src Source, ref Ref) error {
	if s.state != Closed {
		return ErrBusy
	}
	if src == nil || ref.Processed == "" || ref.Original == "" {
		return ErrMissingSource
	}
	s.state = Loading

	var processed, original image.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := src.Resolve(gctx, ref.Processed)
		if err != nil {
			return fmt.Errorf("processed %s: %w", ref.Processed, err)
		}
		processed = img
		return nil
	})
	g.Go(func() error {
		img, err := src.Resolve(gctx, ref.Original)
		if err != nil {
			return fmt.Errorf("original %s: %w", ref.Original, err)
		}
		original = img
		return nil
	})
	if err := g.Wait(); err != nil {
		s.state = Closed
		return fmt.Errorf("open: %w", err)
	}

	store, err := raster.Load(processed, original)
	if err != nil {
		s.state = Closed
		return fmt.Errorf("open: %w", err)
	}
	s.id = s.newID()
	s.ref = ref
	s.store = store
	s.history = history.New(s.maxStates)
	s.history.Snapshot(store.Working())
	s.view = view.New(s.zoomStep)
	s.brush = s.defaults
	s.stroke = Idle
	s.strokeCount = 0
	s.damage = store.Bounds()
	s.state = Editing
	s.changed()
	return nil
}

func (s *Session) dab(x, y float64) {
	r := brush.Apply(s.store.Working(), s.store.Original(), x, y, s.brush)
	s.damage = s.damage.Union(r)
}

// BeginStroke starts a stroke at buffer position (x, y) and paints its first
// dab. A stroke already in progress is finished first.
func (s *Session) BeginStroke(x, y float64) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	if s.stroke == Drawing {
		s.finishStroke()
	}
	s.stroke = Drawing
	s.dab(x, y)
	s.changed()
	return nil
}

// ContinueStroke paints one dab at (x, y) if a stroke is in progress. Samples
// are not interpolated.
func (s *Session) ContinueStroke(x, y float64) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	if s.stroke != Drawing {
		return nil
	}
	s.dab(x, y)
	s.changed()
	return nil
}

// EndStroke finishes the current stroke and records it in history. Without a
// stroke in progress it does nothing.
func (s *Session) EndStroke() error {
	if s.state != Editing {
		return ErrNotEditing
	}
	if s.stroke == Drawing {
		s.finishStroke()
		s.changed()
	}
	return nil
}

func (s *Session) finishStroke() {
	s.stroke = Idle
	s.strokeCount++
	s.history.Snapshot(s.store.Working())
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (s *Session) Undo() (bool, error) {
	if s.state != Editing {
		return false, ErrNotEditing
	}
	if s.stroke == Drawing {
		s.finishStroke()
	}
	if !s.history.Undo(s.store.Working()) {
		return false, nil
	}
	s.damage = s.store.Bounds()
	s.changed()
	return true, nil
}

// Redo reapplies the next snapshot. It reports false at the newest one.
func (s *Session) Redo() (bool, error) {
	if s.state != Editing {
		return false, ErrNotEditing
	}
	if s.stroke == Drawing {
		s.finishStroke()
	}
	if !s.history.Redo(s.store.Working()) {
		return false, nil
	}
	s.damage = s.store.Bounds()
	s.changed()
	return true, nil
}

// CanUndo reports whether Undo would change the working buffer.
func (s *Session) CanUndo() bool { return s.state == Editing && s.history.CanUndo() }

// CanRedo reports whether Redo would change the working buffer.
func (s *Session) CanRedo() bool { return s.state == Editing && s.history.CanRedo() }

// ResetCanvas copies the processed image back into the working buffer and
// records that as a new history entry, so it can itself be undone.
func (s *Session) ResetCanvas() error {
	if s.state != Editing {
		return ErrNotEditing
	}
	if s.stroke == Drawing {
		s.finishStroke()
	}
	s.store.Reset()
	s.history.Snapshot(s.store.Working())
	s.damage = s.store.Bounds()
	s.changed()
	return nil
}

// Close encodes the working buffer and hands it to sink, then discards every
// buffer. A nil sink discards without exporting. If the sink fails the
// session stays in Editing so nothing is lost.
func (s *Session) Close(ctx context.Context, sink Sink) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	if s.stroke == Drawing {
		s.finishStroke()
	}
	if sink != nil {
		var buf bytes.Buffer
		if err := s.store.EncodePNG(&buf); err != nil {
			return fmt.Errorf("close: %w", err)
		}
		r := Result{ID: s.id, Ref: s.ref, PNG: buf.Bytes(), Image: s.store.Export()}
		if err := sink.Export(ctx, r); err != nil {
			return fmt.Errorf("close: export: %w", err)
		}
	}
	s.discard()
	s.changed()
	return nil
}

func (s *Session) discard() {
	s.state = Closed
	s.stroke = Idle
	s.id = ""
	s.ref = Ref{}
	s.store = nil
	if s.history != nil {
		s.history.Clear()
	}
	s.history = nil
	s.view = nil
	s.damage = image.Rectangle{}
	s.brush = s.defaults
	s.strokeCount = 0
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Stroke returns the stroke state.
func (s *Session) Stroke() StrokeState { return s.stroke }

// ID identifies the current edit. It is empty while closed.
func (s *Session) ID() string { return s.id }

// Working returns the buffer under edit, or nil while closed. Callers must
// not modify it.
func (s *Session) Working() *image.RGBA {
	if s.store == nil {
		return nil
	}
	return s.store.Working()
}

// Size returns the raster dimensions, or zero while closed.
func (s *Session) Size() image.Point {
	if s.store == nil {
		return image.Point{}
	}
	return s.store.Size()
}

// Damage returns the buffer area changed since the last call and clears it.
func (s *Session) Damage() image.Rectangle {
	d := s.damage
	s.damage = image.Rectangle{}
	return d
}

// View returns the view state, or nil while closed.
func (s *Session) View() *view.State { return s.view }
