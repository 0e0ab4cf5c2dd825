package input

import (
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

// candidates returns the lookup keys for a key event, most specific first.
// Letters are lowered and keep Shift; for other runes the shifted character
// already says what was typed, so Shift is dropped. Control characters that
// some drivers report for Ctrl+letter are mapped back to the letter.
func candidates(e key.Event) []KeyShortcut {
	mods := e.Modifiers & modMask
	var out []KeyShortcut
	if r := e.Rune; r > 0 {
		if mods&key.ModControl != 0 && r < 0x20 {
			r = r + 'a' - 1
		}
		if unicode.IsLetter(r) {
			out = append(out, KeyShortcut{Rune: unicode.ToLower(r), Modifiers: mods})
		} else {
			out = append(out, KeyShortcut{Rune: r, Modifiers: mods &^ key.ModShift})
		}
	}
	if e.Code != key.CodeUnknown {
		out = append(out, KeyShortcut{Code: e.Code, Modifiers: mods})
	}
	return out
}

var codeNames = map[key.Code]string{
	key.CodeReturnEnter: "Enter",
	key.CodeEscape:      "Esc",
	key.CodeLeftArrow:   "Left",
	key.CodeRightArrow:  "Right",
	key.CodeUpArrow:     "Up",
	key.CodeDownArrow:   "Down",
}

// String renders the shortcut the way the shortcut bar shows it, e.g. "^Z"
// or "Shift+Enter".
func (k KeyShortcut) String() string {
	var b strings.Builder
	if k.Modifiers&key.ModMeta != 0 {
		b.WriteString("Cmd+")
	}
	if k.Modifiers&key.ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if k.Modifiers&key.ModShift != 0 {
		b.WriteString("Shift+")
	}
	if k.Modifiers&key.ModControl != 0 {
		b.WriteString("^")
	}
	switch {
	case k.Rune > 0:
		b.WriteRune(unicode.ToUpper(k.Rune))
	case codeNames[k.Code] != "":
		b.WriteString(codeNames[k.Code])
	default:
		b.WriteString("?")
	}
	return b.String()
}
