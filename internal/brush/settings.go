package brush

import (
	"fmt"
	"strings"
)

// Mode selects how a brush application changes the working buffer.
type Mode int

const (
	// ModeErase removes coverage from the working buffer.
	ModeErase Mode = iota
	// ModeRestore brings back pixels from the original image.
	ModeRestore
)

func (m Mode) String() string {
	switch m {
	case ModeErase:
		return "erase"
	case ModeRestore:
		return "restore"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "erase" or "restore" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "erase", "e":
		return ModeErase, nil
	case "restore", "r":
		return ModeRestore, nil
	}
	return ModeErase, fmt.Errorf("unknown brush mode %q", s)
}

const (
	MinRadius     = 5
	MaxRadius     = 100
	DefaultRadius = 20
	RadiusStep    = 5

	MinHardness     = 0
	MaxHardness     = 100
	DefaultHardness = 100
	HardnessStep    = 10

	MinOpacity     = 0
	MaxOpacity     = 100
	DefaultOpacity = 100
)

// Settings are the user controlled brush parameters. The setters clamp every
// value into its legal range, so a Settings built through them is always
// valid.
type Settings struct {
	Radius   int
	Hardness int
	Opacity  int
	Mode     Mode
}

// DefaultSettings matches the editor's initial controls.
func DefaultSettings() Settings {
	return Settings{
		Radius:   DefaultRadius,
		Hardness: DefaultHardness,
		Opacity:  DefaultOpacity,
		Mode:     ModeErase,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetRadius stores r clamped to [MinRadius, MaxRadius].
func (s *Settings) SetRadius(r int) { s.Radius = clamp(r, MinRadius, MaxRadius) }

// SetHardness stores h clamped to [0, 100].
func (s *Settings) SetHardness(h int) { s.Hardness = clamp(h, MinHardness, MaxHardness) }

// SetOpacity stores o clamped to [0, 100].
func (s *Settings) SetOpacity(o int) { s.Opacity = clamp(o, MinOpacity, MaxOpacity) }

// SetMode switches between erase and restore. Unknown modes are ignored.
func (s *Settings) SetMode(m Mode) {
	if m == ModeErase || m == ModeRestore {
		s.Mode = m
	}
}

// AdjustRadius adds delta to the radius and clamps.
func (s *Settings) AdjustRadius(delta int) { s.SetRadius(s.Radius + delta) }

// AdjustHardness adds delta to the hardness and clamps.
func (s *Settings) AdjustHardness(delta int) { s.SetHardness(s.Hardness + delta) }

// Normalized returns a copy with every field clamped.
func (s Settings) Normalized() Settings {
	s.SetRadius(s.Radius)
	s.SetHardness(s.Hardness)
	s.SetOpacity(s.Opacity)
	if s.Mode != ModeRestore {
		s.Mode = ModeErase
	}
	return s
}
