package main

import (
	"flag"
	"fmt"
	"image/color"
	"sort"

	"github.com/example/retouch/internal/theme"
)

// themesCmd lists the themes that -theme accepts.
type themesCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *themesCmd) Program() string {
	return c.root.Program() + " themes"
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	cmd := &themesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	type entry struct {
		name, origin string
		t            *theme.Theme
	}
	var entries []entry
	loader := theme.NewLoader()
	for _, name := range theme.Embedded() {
		t, err := loader.Load(name)
		if err != nil {
			return err
		}
		entries = append(entries, entry{name, "built in", t})
	}
	if c.config != nil {
		var names []string
		for name := range c.config.Themes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entries = append(entries, entry{name, "config", c.config.Themes[name]})
		}
	}

	active := ""
	if c.activeTheme != nil {
		active = c.activeTheme.Name
	}
	fmt.Fprintln(c.stdout, "available themes (* marks the active theme):")
	for _, e := range entries {
		marker := " "
		if e.t.Name == active {
			marker = "*"
		}
		var swatch string
		for _, col := range []color.RGBA{e.t.Background, e.t.CheckerLight, e.t.CheckerDark, e.t.CursorErase, e.t.CursorRestore} {
			swatch += fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", col.R, col.G, col.B)
		}
		fmt.Fprintf(c.stdout, "%s %-12s %-9s %s\n", marker, e.name, e.origin, swatch)
	}
	return nil
}
