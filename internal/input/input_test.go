package input

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/retouch/internal/brush"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/view"
)

func newDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	src := session.SourceFunc(func(_ context.Context, ref string) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, 100, 80))
		c := color.RGBA{R: 90, G: 90, B: 90, A: 255}
		if ref == "original" {
			c = color.RGBA{R: 1, G: 2, B: 3, A: 255}
		}
		for i := 0; i < len(img.Pix); i += 4 {
			copy(img.Pix[i:i+4], []byte{c.R, c.G, c.B, c.A})
		}
		return img, nil
	})
	s := session.New()
	if err := s.Open(context.Background(), src, session.Ref{Processed: "processed", Original: "original"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	return New(s, opts...)
}

func press(r rune, code key.Code, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress}
}

func TestKeyBindings(t *testing.T) {
	d := newDispatcher(t)
	tests := []struct {
		name string
		ev   key.Event
		want string
	}{
		{"ctrl z", press('z', key.CodeZ, key.ModControl), ActionUndo},
		{"ctrl z control char", press(0x1a, key.CodeZ, key.ModControl), ActionUndo},
		{"cmd z", press('z', key.CodeZ, key.ModMeta), ActionUndo},
		{"ctrl shift z", press('Z', key.CodeZ, key.ModControl|key.ModShift), ActionRedo},
		{"ctrl y", press('y', key.CodeY, key.ModControl), ActionRedo},
		{"bracket", press('[', key.CodeLeftSquareBracket, 0), ActionRadiusDown},
		{"shift bracket", press('}', key.CodeRightSquareBracket, key.ModShift), ActionHardnessUp},
		{"e", press('e', key.CodeE, 0), ActionErase},
		{"R", press('R', key.CodeR, 0), ActionRestore},
		{"ctrl r", press('r', key.CodeR, key.ModControl), ActionResetCanvas},
		{"5", press('5', key.Code5, 0), OpacityAction(50)},
		{"0", press('0', key.Code0, 0), OpacityAction(100)},
		{"ctrl 0", press('0', key.Code0, key.ModControl), ActionResetView},
		{"plus", press('+', key.CodeEqualSign, key.ModShift), ActionZoomIn},
		{"enter", press('\r', key.CodeReturnEnter, 0), ActionDone},
		{"escape", press(0x1b, key.CodeEscape, 0), ActionQuit},
		{"left arrow", press(-1, key.CodeLeftArrow, 0), ActionPanLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Lookup(tt.ev)
			if !ok || got != tt.want {
				t.Fatalf("Lookup = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
	if _, ok := d.Lookup(press('k', key.CodeK, 0)); ok {
		t.Fatal("unbound key matched")
	}
}

func TestKeyAdjustsBrush(t *testing.T) {
	d := newDispatcher(t)
	s := d.Session()
	steps := []key.Event{
		press(']', key.CodeRightSquareBracket, 0),
		press('{', key.CodeLeftSquareBracket, key.ModShift),
		press('3', key.Code3, 0),
		press('r', key.CodeR, 0),
	}
	for _, e := range steps {
		if ok, err := d.Key(e); !ok || err != nil {
			t.Fatalf("key %q: %v %v", e.Rune, ok, err)
		}
	}
	want := brush.Settings{Radius: 25, Hardness: 90, Opacity: 30, Mode: brush.ModeRestore}
	if got := s.Brush(); got != want {
		t.Fatalf("brush %+v, want %+v", got, want)
	}
	release := press(']', key.CodeRightSquareBracket, 0)
	release.Direction = key.DirRelease
	if ok, _ := d.Key(release); ok {
		t.Fatal("key release triggered an action")
	}
}

func TestShortcutLabels(t *testing.T) {
	d := newDispatcher(t)
	var labels []string
	for _, sc := range d.Shortcuts(ActionRedo) {
		labels = append(labels, sc.String())
	}
	if got := strings.Join(labels, " "); got != "Shift+^Z Cmd+Shift+Z ^Y" {
		t.Fatalf("redo labels %q", got)
	}
}

func TestTriggerUnknown(t *testing.T) {
	d := newDispatcher(t)
	if err := d.Trigger("paint-bucket"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("got %v", err)
	}
}

func TestMouseStroke(t *testing.T) {
	d := newDispatcher(t)
	s := d.Session()
	m := s.View().Mapper(s.Size(), image.Pt(10, 10))

	d.Mouse(mouse.Event{X: 40, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, m)
	if s.Stroke() != session.Drawing {
		t.Fatal("press did not start a stroke")
	}
	d.Mouse(mouse.Event{X: 60, Y: 40, Direction: mouse.DirNone}, m)
	d.Mouse(mouse.Event{X: 60, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, m)
	if s.Stroke() != session.Idle || s.Status().History != 2 {
		t.Fatalf("release: %+v", s.Status())
	}
	if a := s.Working().RGBAAt(50, 30).A; a != 0 {
		t.Fatalf("drag did not erase at buffer (50,30): alpha %d", a)
	}
}

func TestMouseLeavingCanvasEndsStroke(t *testing.T) {
	d := newDispatcher(t)
	s := d.Session()
	m := s.View().Mapper(s.Size(), image.Point{})

	d.Mouse(mouse.Event{X: 500, Y: 500, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, m)
	if s.Stroke() != session.Idle {
		t.Fatal("press outside the canvas started a stroke")
	}
	d.Mouse(mouse.Event{X: 50, Y: 50, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, m)
	d.Mouse(mouse.Event{X: 150, Y: 50, Direction: mouse.DirNone}, m)
	if s.Stroke() != session.Idle || s.Status().History != 2 {
		t.Fatalf("leaving canvas: %+v", s.Status())
	}
}

func TestMouseWheelAndPan(t *testing.T) {
	d := newDispatcher(t)
	s := d.Session()
	m := s.View().Mapper(s.Size(), image.Point{})
	d.Mouse(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, m)
	if z := s.View().Zoom; z != view.DefaultZoomStep {
		t.Fatalf("wheel zoom %v", z)
	}
	d.Mouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonRight, Direction: mouse.DirPress}, m)
	d.Mouse(mouse.Event{X: 25, Y: 3, Direction: mouse.DirNone}, m)
	d.Mouse(mouse.Event{X: 25, Y: 3, Button: mouse.ButtonRight, Direction: mouse.DirRelease}, m)
	if p := s.View().Pan; p != image.Pt(15, -7) {
		t.Fatalf("pan %v", p)
	}
	if s.Status().History != 1 {
		t.Fatal("panning painted")
	}
}

func TestTouchFollowsFirstSequence(t *testing.T) {
	d := newDispatcher(t)
	s := d.Session()
	m := s.View().Mapper(s.Size(), image.Point{})

	d.Touch(touch.Event{X: 20, Y: 20, Sequence: 1, Type: touch.TypeBegin}, m)
	d.Touch(touch.Event{X: 80, Y: 60, Sequence: 2, Type: touch.TypeBegin}, m)
	d.Touch(touch.Event{X: 80, Y: 60, Sequence: 2, Type: touch.TypeEnd}, m)
	if s.Stroke() != session.Drawing {
		t.Fatal("second finger ended the stroke")
	}
	if a := s.Working().RGBAAt(80, 60).A; a != 255 {
		t.Fatal("second finger painted")
	}
	d.Touch(touch.Event{X: 30, Y: 20, Sequence: 1, Type: touch.TypeMove}, m)
	d.Touch(touch.Event{X: 30, Y: 20, Sequence: 1, Type: touch.TypeEnd}, m)
	if s.Stroke() != session.Idle || s.Status().History != 2 {
		t.Fatalf("touch stroke: %+v", s.Status())
	}
}

func TestExec(t *testing.T) {
	d := newDispatcher(t)
	tests := []struct {
		line string
		want string
	}{
		{"radius 3", "radius 5"},
		{"radius 500", "radius 100"},
		{"opacity 150", "opacity 100"},
		{"hardness 40", "hardness 40"},
		{"stroke 10 10 20 10", "stroke 1"},
		{"mode restore", "mode restore"},
		{"zoom 10", "zoom 400%"},
		{"zoom 0.1", "zoom 25%"},
		{"zoom reset", "zoom 100%"},
		{"pan 5 -5", "pan 5,-5"},
		{"undo", "undone"},
		{"undo", "nothing to undo"},
		{"redo", "redone"},
		{"radius+", "radius+"},
		{"status", "editing 100x80 mode=restore radius=100 hardness=40 opacity=100 zoom=100% history=2/2 undo=true redo=false"},
		{"quit", "closed"},
		{"status", "closed"},
	}
	for _, tt := range tests {
		got, err := d.Exec(tt.line)
		if err != nil {
			t.Fatalf("Exec(%q): %v", tt.line, err)
		}
		if got != tt.want {
			t.Fatalf("Exec(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestExecErrors(t *testing.T) {
	d := newDispatcher(t)
	for _, line := range []string{"stroke 1", "radius big", "mode paint", "zoom", "pan 1", "reset now"} {
		if _, err := d.Exec(line); !errors.Is(err, ErrUsage) {
			t.Errorf("Exec(%q) = %v, want usage error", line, err)
		}
	}
	if _, err := d.Exec("lasso"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown command: %v", err)
	}
	d.Exec("quit")
	if _, err := d.Exec("stroke 1 1"); !errors.Is(err, session.ErrNotEditing) {
		t.Errorf("stroke after quit: %v", err)
	}
}

func TestDoneCallsHook(t *testing.T) {
	called := false
	d := newDispatcher(t, WithDone(func() error {
		called = true
		return nil
	}))
	if err := d.Trigger(ActionDone); err != nil || !called {
		t.Fatalf("done hook: %v %v", called, err)
	}
}
