package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/retouch/internal/config"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/theme"
	"github.com/example/retouch/internal/ui"
)

func testRoot(t *testing.T, stdin string) (*root, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	r := &root{
		program:     "retouch",
		config:      config.New(),
		notifier:    notify.New(notify.DefaultPreferences()),
		activeTheme: theme.Default(),
		stdin:       strings.NewReader(stdin),
		stdout:      &out,
		stderr:      &errOut,
	}
	return r, &out, &errOut
}

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func fixtures(t *testing.T) (dir, processed, original string) {
	t.Helper()
	dir = t.TempDir()
	processed = filepath.Join(dir, "cut.png")
	original = filepath.Join(dir, "photo.png")
	writePNG(t, processed, color.RGBA{0, 0, 200, 255})
	writePNG(t, original, color.RGBA{200, 0, 0, 255})
	return dir, processed, original
}

// pixelAt decodes the PNG at path and returns one pixel unpremultiplied.
func pixelAt(t *testing.T, path string, x, y int) color.NRGBA {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestParseEditRequiresBothImages(t *testing.T) {
	r, _, _ := testRoot(t, "")
	_, err := parseEditCmd([]string{"-processed", "cut.png"}, r)
	if !errors.Is(err, session.ErrMissingSource) {
		t.Fatalf("expected missing source, got %v", err)
	}
	if want := "-original"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseNoSaveNeedsDestination(t *testing.T) {
	r, _, _ := testRoot(t, "")
	_, err := parseShellCmd([]string{"-processed", "a.png", "-original", "b.png", "-no-save"}, r)
	if err == nil || !strings.Contains(err.Error(), "-no-save") {
		t.Fatalf("expected -no-save error, got %v", err)
	}
	if _, err := parseShellCmd([]string{"-processed", "a.png", "-original", "b.png", "-no-save", "-pdf", "x.pdf"}, r); err != nil {
		t.Fatalf("pdf only: %v", err)
	}
}

func TestShellExecExports(t *testing.T) {
	dir, processed, original := fixtures(t)
	out := filepath.Join(dir, "result.png")
	pdf := filepath.Join(dir, "result.pdf")
	r, stdout, _ := testRoot(t, "")
	cmd, err := parseShellCmd([]string{
		"-processed", processed, "-original", original, "-output", out, "-pdf", pdf,
		"-e", "radius 5", "-e", "stroke 10 10", "-e", "done",
	}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if a := pixelAt(t, out, 10, 10).A; a != 0 {
		t.Errorf("erased pixel alpha %d", a)
	}
	if c := pixelAt(t, out, 30, 20); c != (color.NRGBA{0, 0, 200, 255}) {
		t.Errorf("untouched pixel %v", c)
	}
	if _, err := os.Stat(pdf); err != nil {
		t.Errorf("pdf: %v", err)
	}
	for _, want := range []string{"editing 40x30", "radius 5", "stroke 1", "exported to " + out, "closed"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestShellRestoreFromOriginal(t *testing.T) {
	dir, processed, original := fixtures(t)
	out := filepath.Join(dir, "result.png")
	r, _, _ := testRoot(t, "")
	cmd, err := parseShellCmd([]string{
		"-processed", processed, "-original", original, "-output", out,
		"-e", "mode restore", "-e", "stroke 10 10", "-e", "done",
	}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if c := pixelAt(t, out, 10, 10); c != (color.NRGBA{200, 0, 0, 255}) {
		t.Fatalf("restored pixel %v", c)
	}
}

func TestShellStdinQuitDiscards(t *testing.T) {
	dir, processed, original := fixtures(t)
	out := filepath.Join(dir, "result.png")
	r, stdout, stderr := testRoot(t, "# comment\nundo\nbogus\nstroke 1 1\nquit\nstatus\n")
	prev := isTerminal
	isTerminal = func(any) bool { return false }
	t.Cleanup(func() { isTerminal = prev })

	cmd, err := parseShellCmd([]string{"-processed", processed, "-original", original, "-output", out}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("quit wrote output: %v", err)
	}
	if !strings.Contains(stdout.String(), "nothing to undo") {
		t.Errorf("stdout:\n%s", stdout)
	}
	if strings.Contains(stdout.String(), "retouch> ") {
		t.Errorf("prompt printed without a terminal")
	}
	if !strings.Contains(stderr.String(), "bogus") {
		t.Errorf("unknown command not reported:\n%s", stderr)
	}
	if strings.Count(stdout.String(), "editing") != 1 {
		t.Errorf("commands ran after quit:\n%s", stdout)
	}
}

func TestShellEOFDiscards(t *testing.T) {
	_, processed, original := fixtures(t)
	r, _, stderr := testRoot(t, "stroke 1 1\n")
	cmd, err := parseShellCmd([]string{"-processed", processed, "-original", original}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr.String(), "discarding unsaved edits") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestShellExecErrorStops(t *testing.T) {
	_, processed, original := fixtures(t)
	r, _, _ := testRoot(t, "")
	cmd, err := parseShellCmd([]string{"-processed", processed, "-original", original, "-e", "radius big", "-e", "done"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "radius big") {
		t.Fatalf("expected failing command in error, got %v", err)
	}
}

func TestShellMismatchedImages(t *testing.T) {
	dir, processed, _ := fixtures(t)
	small := filepath.Join(dir, "small.png")
	f, err := os.Create(small)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	f.Close()
	r, _, _ := testRoot(t, "")
	cmd, err := parseShellCmd([]string{"-processed", processed, "-original", small, "-e", "status"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); !errors.Is(err, session.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
}

func TestEditRunsEditorAndDiscards(t *testing.T) {
	_, processed, original := fixtures(t)
	r, _, stderr := testRoot(t, "")
	var ran bool
	prev := runEditorFn
	runEditorFn = func(*ui.Editor) error {
		ran = true
		return nil
	}
	t.Cleanup(func() { runEditorFn = prev })

	cmd, err := parseEditCmd([]string{"-processed", processed, "-original", original}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("editor not started")
	}
	if !strings.Contains(stderr.String(), "closed without exporting") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestEditReportsEditorError(t *testing.T) {
	_, processed, original := fixtures(t)
	r, _, _ := testRoot(t, "")
	sentinel := errors.New("no display")
	prev := runEditorFn
	runEditorFn = func(*ui.Editor) error { return sentinel }
	t.Cleanup(func() { runEditorFn = prev })

	cmd, err := parseEditCmd([]string{"-processed", processed, "-original", original}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); !errors.Is(err, sentinel) {
		t.Fatalf("expected editor error, got %v", err)
	}
}

func TestOutputPathUsesSaveDir(t *testing.T) {
	r, _, _ := testRoot(t, "")
	f := &imageFlags{processed: filepath.Join("in", "cut.png")}
	if got, want := r.outputPath(f), filepath.Join("in", "cut-retouched.png"); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	r.config.SaveDir = "out"
	if got, want := r.outputPath(f), filepath.Join("out", "cut-retouched.png"); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	f.output = "x.png"
	if got := r.outputPath(f); got != "x.png" {
		t.Errorf("explicit output ignored: %q", got)
	}
}

func TestResolveTheme(t *testing.T) {
	cfg := config.New()
	custom := theme.Default()
	custom.Name = "mine"
	cfg.Themes["mine"] = custom
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }
	var warn bytes.Buffer

	if got := resolveTheme("", cfg, getenv, &warn); got.Name != "Default" {
		t.Errorf("default: %q", got.Name)
	}
	cfg.Theme = "mine"
	if got := resolveTheme("", cfg, getenv, &warn); got != custom {
		t.Errorf("config theme not used: %q", got.Name)
	}
	env["RETOUCH_THEME"] = "dark"
	if got := resolveTheme("", cfg, getenv, &warn); got.Name != "dark" {
		t.Errorf("env: %q", got.Name)
	}
	if got := resolveTheme("light", cfg, getenv, &warn); got.Name != "light" {
		t.Errorf("flag: %q", got.Name)
	}
	if warn.Len() != 0 {
		t.Errorf("unexpected warning %q", warn.String())
	}
	if got := resolveTheme("nosuch", cfg, getenv, &warn); got.Name != "Default" || !strings.Contains(warn.String(), "nosuch") {
		t.Errorf("missing theme: %q warn %q", got.Name, warn.String())
	}
}

func TestUsageErrors(t *testing.T) {
	r, _, _ := testRoot(t, "")
	r.fs = newRootFlags(r)
	err := r.Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: retouch", "edit", "-theme", "-notify-pdf"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	e := &editCmd{root: r}
	e.fs = newEditFlags(e)
	if help := (&UsageError{of: e}).Error(); !strings.Contains(help, "retouch edit") || !strings.Contains(help, "-to-clipboard") {
		t.Errorf("edit help:\n%s", help)
	}
}

func TestVersionAndConfig(t *testing.T) {
	r, out, _ := testRoot(t, "")
	if err := (&versionCmd{r: r}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "retouch version dev") {
		t.Fatalf("version output %q", out)
	}

	out.Reset()
	r.config.Brush.Radius = 33
	c, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "radius = 33") {
		t.Fatalf("config print:\n%s", out)
	}

	c, err = parseConfigCmd([]string{"frob"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err == nil {
		t.Fatal("expected unknown config command error")
	}
}

func TestThemesList(t *testing.T) {
	r, out, _ := testRoot(t, "")
	custom := theme.Default()
	custom.Name = "mine"
	r.config.Themes["mine"] = custom
	r.activeTheme = custom
	c, err := parseThemesCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"dark", "light", "* mine"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("themes output missing %q:\n%s", want, out)
		}
	}
}

func TestDestinations(t *testing.T) {
	r, _, _ := testRoot(t, "")
	f := &imageFlags{processed: "shots/cut.png", noSave: true, toClipboard: true, pdf: "cut.pdf"}
	d := r.destinations(f)
	if got := d.String(); got != "clipboard, cut.pdf" {
		t.Fatalf("destinations %q", got)
	}
	if len(d.sink.Sinks) != 2 || d.clip == nil {
		t.Fatalf("sinks %d clip %v", len(d.sink.Sinks), d.clip)
	}
	if d.lost() != nil {
		t.Fatal("lost set before export")
	}
	if (&destinations{}).lost() != nil {
		t.Fatal("lost set without clipboard")
	}
}

func TestHoldClipboard(t *testing.T) {
	replaced := make(chan struct{})
	close(replaced)
	tests := []struct {
		name string
		lost <-chan struct{}
		wait time.Duration
		want string
	}{
		{"nothing copied", nil, time.Minute, ""},
		{"no wait", make(chan struct{}), 0, "may disappear"},
		{"replaced", replaced, time.Minute, "clipboard replaced"},
		{"timeout", make(chan struct{}), 10 * time.Millisecond, "up to 10ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, errOut := testRoot(t, "")
			done := make(chan struct{})
			go func() {
				r.holdClipboard(tt.lost, tt.wait)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("holdClipboard did not return")
			}
			if tt.want == "" {
				if errOut.Len() != 0 {
					t.Fatalf("unexpected output %q", errOut)
				}
				return
			}
			if !strings.Contains(errOut.String(), tt.want) {
				t.Fatalf("output %q, want %q", errOut, tt.want)
			}
		})
	}
}
