package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/retouch/internal/session"
)

// BarHeight is the height of the status bar and of the shortcut bar.
const BarHeight = 24

// Hint is one clickable entry of the shortcut bar.
type Hint struct {
	Label  string
	Action string
}

// Target is a hint as laid out on screen.
type Target struct {
	Hint
	Rect image.Rectangle
}

var messageFace font.Face = basicfont.Face7x13

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("parse font: %v", err)
		return
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face: %v", err)
		return
	}
	messageFace = face
}

// StatusLine summarises the session for the status bar.
func StatusLine(st session.Status) string {
	if st.State != session.Editing {
		return st.State.String()
	}
	b := st.Brush
	return fmt.Sprintf("%s  size %d  hardness %d  opacity %d%%  zoom %.0f%%  step %d/%d",
		b.Mode, b.Radius, b.Hardness, b.Opacity, st.Zoom*100, st.Cursor+1, st.History)
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawStatus(dst *image.RGBA, rect image.Rectangle, text string, bg, fg, sep color.RGBA) {
	fill(dst, rect, bg)
	fill(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), sep)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(rect.Min.X+6, rect.Min.Y+16)}
	d.DrawString(text)
}

// drawHints lays out the shortcut labels left to right and returns where
// each landed. Labels that do not fit are dropped.
func drawHints(dst *image.RGBA, rect image.Rectangle, hints []Hint, hover string, bg, fg, sep color.RGBA) []Target {
	fill(dst, rect, bg)
	fill(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), sep)
	x := rect.Min.X + 6
	y := rect.Min.Y + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	var out []Target
	for _, h := range hints {
		w := meas.MeasureString(h.Label).Ceil()
		r := image.Rect(x-2, y-14, x+w+2, y+4)
		if r.Max.X > rect.Max.X {
			break
		}
		if h.Action == hover {
			fill(dst, r, sep)
		}
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
		d.DrawString(h.Label)
		out = append(out, Target{Hint: h, Rect: r})
		x = r.Max.X + 8
	}
	return out
}

// drawMessage shows a transient message centred over area.
func drawMessage(dst *image.RGBA, area image.Rectangle, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: messageFace}
	w := d.MeasureString(msg).Ceil()
	m := messageFace.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	px := area.Min.X + (area.Dx()-w)/2
	py := area.Min.Y + (area.Dy()-ascent-descent)/2 + ascent
	box := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	draw.Draw(dst, box, image.NewUniform(color.NRGBA{255, 255, 255, 230}), image.Point{}, draw.Over)
	outline(dst, box, color.Black)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func outline(dst *image.RGBA, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
