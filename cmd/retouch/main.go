package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/retouch/internal/config"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	saveAlerts  bool
	copyAlerts  bool
	pdfAlerts   bool
	themeName   string
	activeTheme *theme.Theme

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		program:  "retouch",
		notifier: notify.New(prefs),
		config:   cfg,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs = newRootFlags(r)
	return r
}

// newRootFlags declares the global flags. Defaults come from r.config.
func newRootFlags(r *root) *flag.FlagSet {
	fs := flag.NewFlagSet("retouch", flag.ExitOnError)
	cfg := r.config
	fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving the edited image")
	fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	fs.BoolVar(&r.pdfAlerts, "notify-pdf", cfg.Notify.PDF, "show a desktop notification after writing a PDF")

	// Precedence: CLI > Env > Config > Default
	fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Embedded(), ", ")+", or a .theme file)")
	fs.Usage = usageFunc(r)
	return fs
}

// resolveTheme picks the theme by precedence: flag, RETOUCH_THEME, config,
// built in default. A name that cannot be loaded falls back to the default
// with a warning.
func resolveTheme(flagName string, cfg *config.Config, getenv func(string) string, warn io.Writer) *theme.Theme {
	name := flagName
	if name == "" {
		name = getenv("RETOUCH_THEME")
	}
	if name == "" && cfg != nil {
		name = cfg.Theme
	}
	if cfg != nil {
		if t, ok := cfg.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "default" {
			fmt.Fprintf(warn, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventPDF, r.pdfAlerts)
	}
	r.activeTheme = resolveTheme(r.themeName, r.config, os.Getenv, r.stderr)

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "shell":
		cmd, err = parseShellCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
