package brush

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestStrength(t *testing.T) {
	tests := []struct {
		name     string
		dist     float64
		radius   float64
		hardness int
		want     float64
	}{
		{"hard centre", 0, 10, 100, 1},
		{"hard edge", 10, 10, 100, 1},
		{"hard outside", 10.01, 10, 100, 0},
		{"soft inner plateau", 4, 10, 50, 1},
		{"soft midway", 7.5, 10, 50, 0.5},
		{"soft edge", 10, 10, 50, 0},
		{"zero hardness centre", 0, 10, 0, 1},
		{"zero hardness half", 5, 10, 0, 0.5},
		{"zero radius", 0, 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strength(tt.dist, tt.radius, tt.hardness)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Strength(%v, %v, %d) = %v, want %v", tt.dist, tt.radius, tt.hardness, got, tt.want)
			}
		})
	}
}

func TestEraseHardRemovesCoverage(t *testing.T) {
	working := solid(40, 40, color.RGBA{R: 100, G: 50, B: 25, A: 255})
	original := solid(40, 40, color.RGBA{A: 255})
	s := DefaultSettings()
	s.SetRadius(5)
	Apply(working, original, 20, 20, s)

	if got := working.RGBAAt(20, 20); got != (color.RGBA{}) {
		t.Fatalf("centre pixel %+v, want transparent", got)
	}
	if got := working.RGBAAt(30, 20); got.A != 255 {
		t.Fatalf("pixel outside radius changed: %+v", got)
	}
}

func TestEraseOpacityScalesAlpha(t *testing.T) {
	working := solid(20, 20, color.RGBA{R: 200, G: 200, B: 200, A: 200})
	s := DefaultSettings()
	s.SetRadius(5)
	s.SetOpacity(50)
	Apply(working, working, 10, 10, s)

	got := working.RGBAAt(10, 10)
	if got.A < 99 || got.A > 101 {
		t.Fatalf("alpha %d, want about half of 200", got.A)
	}
	if got.R != got.A {
		t.Fatalf("premultiplied channels diverged: %+v", got)
	}
}

func TestSoftEraseGradient(t *testing.T) {
	working := solid(60, 1, color.RGBA{A: 255})
	s := DefaultSettings()
	s.SetRadius(20)
	s.SetHardness(0)
	Apply(working, working, 0.5, 0.5, s)

	prev := -1
	for x := 0; x < 20; x++ {
		a := int(working.RGBAAt(x, 0).A)
		if a < prev {
			t.Fatalf("alpha not monotonic at x=%d: %d < %d", x, a, prev)
		}
		prev = a
	}
	if working.RGBAAt(0, 0).A != 0 {
		t.Fatalf("centre alpha %d, want 0", working.RGBAAt(0, 0).A)
	}
	if working.RGBAAt(25, 0).A != 255 {
		t.Fatal("pixel beyond radius changed")
	}
}

func TestRestoreAfterEraseMatchesOriginal(t *testing.T) {
	original := solid(50, 50, color.RGBA{R: 60, G: 40, B: 20, A: 128})
	working := solid(50, 50, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	erase := DefaultSettings()
	erase.SetRadius(10)
	erase.SetHardness(30)
	erase.SetOpacity(40)
	for i := 0; i < 5; i++ {
		Apply(working, original, 25, 25, erase)
	}

	restore := DefaultSettings()
	restore.SetRadius(10)
	restore.SetMode(ModeRestore)
	box := Apply(working, original, 25, 25, restore)

	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if math.Hypot(float64(x)+0.5-25, float64(y)+0.5-25) > 10 {
				continue
			}
			if got, want := working.RGBAAt(x, y), original.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %+v, want original %+v", x, y, got, want)
			}
		}
	}

	before := append([]byte(nil), working.Pix...)
	Apply(working, original, 25, 25, restore)
	for i := range before {
		if before[i] != working.Pix[i] {
			t.Fatal("second full restore changed pixels")
		}
	}
}

func TestApplyClipsOutOfBounds(t *testing.T) {
	working := solid(10, 10, color.RGBA{A: 255})
	s := DefaultSettings()
	s.SetRadius(5)
	if box := Apply(working, working, -50, -50, s); !box.Empty() {
		t.Fatalf("expected empty box, got %v", box)
	}
	box := Apply(working, working, 0, 0, s)
	if !box.In(working.Rect) {
		t.Fatalf("box %v escapes bounds", box)
	}
	if working.RGBAAt(0, 0).A != 0 {
		t.Fatal("corner dab did not erase")
	}
}

func TestZeroOpacityIsNoop(t *testing.T) {
	working := solid(10, 10, color.RGBA{R: 5, A: 255})
	s := DefaultSettings()
	s.SetOpacity(0)
	Apply(working, working, 5, 5, s)
	if working.RGBAAt(5, 5).A != 255 {
		t.Fatal("zero opacity dab changed pixels")
	}
}

func TestSettingsClamp(t *testing.T) {
	s := DefaultSettings()
	s.SetRadius(3)
	if s.Radius != MinRadius {
		t.Errorf("radius 3 -> %d, want %d", s.Radius, MinRadius)
	}
	s.SetRadius(500)
	if s.Radius != MaxRadius {
		t.Errorf("radius 500 -> %d, want %d", s.Radius, MaxRadius)
	}
	s.SetOpacity(-10)
	if s.Opacity != 0 {
		t.Errorf("opacity -10 -> %d, want 0", s.Opacity)
	}
	s.SetOpacity(150)
	if s.Opacity != 100 {
		t.Errorf("opacity 150 -> %d, want 100", s.Opacity)
	}
	s.SetHardness(-1)
	s.AdjustHardness(-10)
	if s.Hardness != 0 {
		t.Errorf("hardness %d, want 0", s.Hardness)
	}
	s.SetRadius(98)
	s.AdjustRadius(RadiusStep)
	if s.Radius != MaxRadius {
		t.Errorf("radius %d, want %d", s.Radius, MaxRadius)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"erase": ModeErase, "Restore": ModeRestore, " R ": ModeRestore} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("paint"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
