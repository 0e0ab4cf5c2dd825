package theme

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ColorError reports a theme key whose value is not a colour.
type ColorError struct {
	Key string
	Err error
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("invalid color for key %s: %v", e.Key, e.Err)
}

func (e *ColorError) Unwrap() error { return e.Err }

// Parse reads a theme definition from an io.Reader.
// The format is one "Key: value" pair per line where value is #RRGGBB,
// #RRGGBBAA or an SVG colour name such as "tomato".
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if err := t.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Format writes t in the format read by Parse.
func Format(w io.Writer, t *Theme) error {
	if _, err := fmt.Fprintf(w, "Name: %s\n", t.Name); err != nil {
		return err
	}
	for _, f := range t.Colors() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Name, Hex(f.Color)); err != nil {
			return err
		}
	}
	return nil
}

// ParseColor accepts #RRGGBB, #RRGGBBAA or a colour name.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, errors.New("color must start with # or be a known name")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, errors.New("invalid hex length")
}

// Hex renders c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
