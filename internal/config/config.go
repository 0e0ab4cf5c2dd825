package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/retouch/internal/brush"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/theme"
	"github.com/example/retouch/internal/view"
)

// Brush holds the brush settings applied when a session opens.
type Brush struct {
	Radius   int
	Hardness int
	Opacity  int
	Mode     string
}

// Settings converts the section into clamped brush settings. An unknown
// mode falls back to erase.
func (b Brush) Settings() brush.Settings {
	mode, err := brush.ParseMode(b.Mode)
	if err != nil {
		mode = brush.ModeErase
	}
	return brush.Settings{
		Radius:   b.Radius,
		Hardness: b.Hardness,
		Opacity:  b.Opacity,
		Mode:     mode,
	}.Normalized()
}

// History holds undo settings.
type History struct {
	MaxStates int
}

// View holds zoom settings.
type View struct {
	ZoomStep float64
}

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
	PDF  bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Brush   Brush
	History History
	View    View
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	d := brush.DefaultSettings()
	return &Config{
		Theme: "", // empty falls through to env and the built in theme
		Brush: Brush{
			Radius:   d.Radius,
			Hardness: d.Hardness,
			Opacity:  d.Opacity,
			Mode:     d.Mode.String(),
		},
		History: History{MaxStates: history.DefaultCapacity},
		View:    View{ZoomStep: view.DefaultZoomStep},
		Themes:  make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "radius = %d\n", c.Brush.Radius)
	fmt.Fprintf(&sb, "hardness = %d\n", c.Brush.Hardness)
	fmt.Fprintf(&sb, "opacity = %d\n", c.Brush.Opacity)
	fmt.Fprintf(&sb, "mode = %s\n", c.Brush.Mode)
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "max_states = %d\n", c.History.MaxStates)
	sb.WriteString("\n")

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "zoom_step = %g\n", c.View.ZoomStep)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "pdf = %v\n", c.Notify.PDF)
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name = %s\n", t.Name)
		for _, f := range t.Colors() {
			fmt.Fprintf(&sb, "%s = %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
