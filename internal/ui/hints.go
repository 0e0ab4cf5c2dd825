package ui

import (
	"github.com/example/retouch/internal/input"
	"github.com/example/retouch/internal/render"
)

// hintActions are the actions shown in the shortcut bar, in order.
var hintActions = []struct {
	action string
	name   string
}{
	{input.ActionUndo, "undo"},
	{input.ActionRedo, "redo"},
	{input.ActionErase, "erase"},
	{input.ActionRestore, "restore"},
	{input.ActionRadiusDown, "size-"},
	{input.ActionRadiusUp, "size+"},
	{input.ActionHardnessDown, "soft"},
	{input.ActionHardnessUp, "hard"},
	{input.ActionZoomIn, "zoom in"},
	{input.ActionZoomOut, "zoom out"},
	{input.ActionResetCanvas, "reset"},
	{input.ActionDone, "done"},
	{input.ActionQuit, "quit"},
}

// Hints builds the shortcut bar from the dispatcher's bindings, so the bar
// always shows the keys that actually trigger each action.
func Hints(d *input.Dispatcher) []render.Hint {
	var out []render.Hint
	for _, h := range hintActions {
		keys := d.Shortcuts(h.action)
		if len(keys) == 0 {
			continue
		}
		out = append(out, render.Hint{Label: keys[0].String() + ":" + h.name, Action: h.action})
	}
	return out
}
