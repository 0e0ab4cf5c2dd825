// Package input funnels keyboard, mouse, touch and typed commands into the
// same small set of session operations. Every front end goes through one
// Dispatcher so a shortcut, a toolbar click and a shell command behave
// identically.
package input

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/mobile/event/key"

	"github.com/example/retouch/internal/brush"
	"github.com/example/retouch/internal/session"
)

// Action names understood by Trigger.
const (
	ActionUndo          = "undo"
	ActionRedo          = "redo"
	ActionRadiusDown    = "radius-"
	ActionRadiusUp      = "radius+"
	ActionHardnessDown  = "hardness-"
	ActionHardnessUp    = "hardness+"
	ActionErase         = "erase"
	ActionRestore       = "restore"
	ActionToggleMode    = "mode"
	ActionZoomIn        = "zoom-in"
	ActionZoomOut       = "zoom-out"
	ActionResetView     = "reset-view"
	ActionResetCanvas   = "reset"
	ActionPanLeft       = "pan-left"
	ActionPanRight      = "pan-right"
	ActionPanUp         = "pan-up"
	ActionPanDown       = "pan-down"
	ActionDone          = "done"
	ActionQuit          = "quit"
	actionOpacityPrefix = "opacity-"
)

// PanStep is how far the arrow keys move the canvas, in screen pixels.
const PanStep = 10

// ErrUnknownAction is returned by Trigger for unregistered names.
var ErrUnknownAction = errors.New("unknown action")

// OpacityAction returns the action name of an opacity preset.
func OpacityAction(percent int) string { return fmt.Sprintf("%s%d", actionOpacityPrefix, percent) }

// Dispatcher maps action names and shortcuts to session operations.
type Dispatcher struct {
	sess    *session.Session
	actions map[string]func() error
	keys    map[KeyShortcut]string
	byName  map[string][]KeyShortcut

	onDone func() error
	onQuit func()

	ptr pointerState
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDone sets what the done action runs. Without it done closes the
// session without exporting.
func WithDone(fn func() error) Option { return func(d *Dispatcher) { d.onDone = fn } }

// WithQuit sets what the quit action runs after discarding the session.
func WithQuit(fn func()) Option { return func(d *Dispatcher) { d.onQuit = fn } }

// New returns a Dispatcher for s with the default bindings registered.
func New(s *session.Session, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sess:    s,
		actions: map[string]func() error{},
		keys:    map[KeyShortcut]string{},
		byName:  map[string][]KeyShortcut{},
	}
	for _, o := range opts {
		o(d)
	}
	d.registerDefaults()
	return d
}

// Session returns the session the dispatcher drives.
func (d *Dispatcher) Session() *session.Session { return d.sess }

// Register binds name to fn and to the given shortcuts. Registering a name
// again replaces its function and adds the shortcuts.
func (d *Dispatcher) Register(name string, keys KeyboardShortcuts, fn func() error) {
	d.actions[name] = fn
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		d.keys[sc] = name
		d.byName[name] = append(d.byName[name], sc)
	}
}

// Trigger runs the named action.
func (d *Dispatcher) Trigger(name string) error {
	fn, ok := d.actions[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return fn()
}

// Actions lists the registered action names in sorted order.
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(d.actions))
	for n := range d.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Shortcuts returns the shortcuts bound to name in registration order.
func (d *Dispatcher) Shortcuts(name string) []KeyShortcut { return d.byName[name] }

// Lookup returns the action bound to a key event.
func (d *Dispatcher) Lookup(e key.Event) (string, bool) {
	for _, ks := range candidates(e) {
		if name, ok := d.keys[ks]; ok {
			return name, true
		}
	}
	return "", false
}

// Key handles a key event. It reports whether the event was bound.
func (d *Dispatcher) Key(e key.Event) (bool, error) {
	if e.Direction != key.DirPress {
		return false, nil
	}
	name, ok := d.Lookup(e)
	if !ok {
		return false, nil
	}
	return true, d.Trigger(name)
}

func ignoreResult(fn func() (bool, error)) func() error {
	return func() error {
		_, err := fn()
		return err
	}
}

func (d *Dispatcher) registerDefaults() {
	s := d.sess
	ctrl := func(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModControl} }
	meta := func(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModMeta} }
	ctrlShift := func(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModControl | key.ModShift} }
	metaShift := func(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModMeta | key.ModShift} }

	d.Register(ActionUndo, shortcutList{ctrl('z'), meta('z')}, ignoreResult(s.Undo))
	d.Register(ActionRedo, shortcutList{ctrlShift('z'), metaShift('z'), ctrl('y')}, ignoreResult(s.Redo))

	d.Register(ActionRadiusDown, shortcutList{{Rune: '['}}, func() error {
		s.AdjustRadius(-brush.RadiusStep)
		return nil
	})
	d.Register(ActionRadiusUp, shortcutList{{Rune: ']'}}, func() error {
		s.AdjustRadius(brush.RadiusStep)
		return nil
	})
	d.Register(ActionHardnessDown, shortcutList{{Rune: '{'}}, func() error {
		s.AdjustHardness(-brush.HardnessStep)
		return nil
	})
	d.Register(ActionHardnessUp, shortcutList{{Rune: '}'}}, func() error {
		s.AdjustHardness(brush.HardnessStep)
		return nil
	})
	d.Register(ActionErase, shortcutList{{Rune: 'e'}}, func() error {
		s.SetMode(brush.ModeErase)
		return nil
	})
	d.Register(ActionRestore, shortcutList{{Rune: 'r'}}, func() error {
		s.SetMode(brush.ModeRestore)
		return nil
	})
	d.Register(ActionToggleMode, shortcutList{{Rune: 'x'}}, func() error {
		if s.Brush().Mode == brush.ModeErase {
			s.SetMode(brush.ModeRestore)
		} else {
			s.SetMode(brush.ModeErase)
		}
		return nil
	})

	for i := 1; i <= 10; i++ {
		percent := i * 10
		r := rune('0' + i%10)
		d.Register(OpacityAction(percent), shortcutList{{Rune: r}}, func() error {
			s.SetOpacity(percent)
			return nil
		})
	}

	d.Register(ActionZoomIn, shortcutList{{Rune: '+'}, {Rune: '='}}, s.ZoomIn)
	d.Register(ActionZoomOut, shortcutList{{Rune: '-'}}, s.ZoomOut)
	d.Register(ActionResetView, shortcutList{ctrl('0'), meta('0')}, s.ResetView)
	d.Register(ActionPanLeft, shortcutList{{Code: key.CodeLeftArrow}}, func() error { return s.PanBy(-PanStep, 0) })
	d.Register(ActionPanRight, shortcutList{{Code: key.CodeRightArrow}}, func() error { return s.PanBy(PanStep, 0) })
	d.Register(ActionPanUp, shortcutList{{Code: key.CodeUpArrow}}, func() error { return s.PanBy(0, -PanStep) })
	d.Register(ActionPanDown, shortcutList{{Code: key.CodeDownArrow}}, func() error { return s.PanBy(0, PanStep) })
	d.Register(ActionResetCanvas, shortcutList{ctrl('r'), meta('r')}, s.ResetCanvas)

	d.Register(ActionDone, shortcutList{{Code: key.CodeReturnEnter}, ctrl('s'), meta('s')}, func() error {
		if d.onDone != nil {
			return d.onDone()
		}
		return s.Close(context.Background(), nil)
	})
	d.Register(ActionQuit, shortcutList{{Code: key.CodeEscape}, {Rune: 'q'}}, func() error {
		if s.State() == session.Editing {
			if err := s.Close(context.Background(), nil); err != nil {
				return err
			}
		}
		if d.onQuit != nil {
			d.onQuit()
		}
		return nil
	})
}
