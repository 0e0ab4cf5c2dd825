package theme

import (
	"image/color"
	"reflect"
	"strings"
)

// Theme defines the colour palette of the mask editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area around the canvas
	Foreground color.RGBA // Status text

	// Status and shortcut bars
	StatusBackground color.RGBA
	StatusText       color.RGBA
	ShortcutText     color.RGBA
	Separator        color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	CanvasBorder color.RGBA

	// Brush cursor ring
	CursorErase   color.RGBA
	CursorRestore color.RGBA
	CursorOutline color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{200, 200, 200, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		StatusBackground: color.RGBA{220, 220, 220, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		ShortcutText:     color.RGBA{64, 64, 64, 255},
		Separator:        color.RGBA{160, 160, 160, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		CanvasBorder:     color.RGBA{128, 128, 128, 255},
		CursorErase:      color.RGBA{220, 38, 38, 255},
		CursorRestore:    color.RGBA{22, 163, 74, 255},
		CursorOutline:    color.RGBA{255, 255, 255, 255},
	}
}

// Field is one named colour of a theme.
type Field struct {
	Name  string
	Color color.RGBA
}

// Colors lists the theme colours in declaration order.
func (t *Theme) Colors() []Field {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	rgba := reflect.TypeOf(color.RGBA{})
	var out []Field
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type != rgba {
			continue
		}
		out = append(out, Field{Name: typ.Field(i).Name, Color: val.Field(i).Interface().(color.RGBA)})
	}
	return out
}

// Set assigns the colour value to the field named key, matched without
// regard to case. Unknown keys are ignored for forward compatibility.
func (t *Theme) Set(key, value string) error {
	if key == "" {
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) {
			continue
		}
		if f.Name == "Name" {
			t.Name = value
			return nil
		}
		col, err := ParseColor(value)
		if err != nil {
			return &ColorError{Key: key, Err: err}
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}
