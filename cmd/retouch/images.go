package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/example/retouch/internal/export"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/source"
)

// imageFlags are the source and export options shared by edit and shell.
type imageFlags struct {
	processed   string
	original    string
	output      string
	noSave      bool
	toClipboard bool
	pdf         string

	clipboardWait time.Duration
}

func (f *imageFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.processed, "processed", "", "background-removed image to refine (or "+source.ClipboardRef+")")
	fs.StringVar(&f.original, "original", "", "original photo the restore brush copies from")
	fs.StringVar(&f.output, "output", "", "output PNG path (default <processed>-retouched.png, in save_dir when configured)")
	fs.BoolVar(&f.noSave, "no-save", false, "do not write a PNG file on done")
	fs.BoolVar(&f.toClipboard, "to-clipboard", false, "copy the result to the clipboard on done")
	fs.StringVar(&f.pdf, "pdf", "", "also write the result as a single page PDF")
	fs.DurationVar(&f.clipboardWait, "clipboard-wait", 10*time.Minute, "after -to-clipboard, keep serving the image this long unless another application replaces it (0 exits at once)")
}

func (f *imageFlags) ref() session.Ref {
	return session.Ref{Processed: f.processed, Original: f.original}
}

func (f *imageFlags) validate() error {
	var missing []string
	if f.processed == "" {
		missing = append(missing, "-processed")
	}
	if f.original == "" {
		missing = append(missing, "-original")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", session.ErrMissingSource, strings.Join(missing, " and "))
	}
	if f.noSave && !f.toClipboard && f.pdf == "" {
		return fmt.Errorf("-no-save needs -to-clipboard or -pdf, otherwise the result goes nowhere")
	}
	return nil
}

// outputPath is where the PNG sink writes.
func (r *root) outputPath(f *imageFlags) string {
	if f.output != "" {
		return f.output
	}
	dir := ""
	if r.config != nil {
		dir = r.config.SaveDir
	}
	return export.OutputPath(dir, f.processed)
}

// destinations are the export sinks selected by the image flags.
type destinations struct {
	sink  *export.Multi
	clip  *export.Clipboard
	where []string
}

func (d *destinations) String() string { return strings.Join(d.where, ", ") }

// lost is closed once the exported clipboard image is replaced. It is nil
// when nothing was copied.
func (d *destinations) lost() <-chan struct{} {
	if d.clip == nil {
		return nil
	}
	return d.clip.Lost()
}

// destinations assembles the export sinks selected by f.
func (r *root) destinations(f *imageFlags) *destinations {
	d := &destinations{sink: &export.Multi{}}
	if !f.noSave {
		path := r.outputPath(f)
		d.sink.Sinks = append(d.sink.Sinks, &export.File{Path: path, Notifier: r.notifier})
		d.where = append(d.where, path)
	}
	if f.toClipboard {
		d.clip = &export.Clipboard{Notifier: r.notifier}
		d.sink.Sinks = append(d.sink.Sinks, d.clip)
		d.where = append(d.where, "clipboard")
	}
	if f.pdf != "" {
		d.sink.Sinks = append(d.sink.Sinks, &export.PDF{Path: f.pdf, Notifier: r.notifier})
		d.where = append(d.where, f.pdf)
	}
	return d
}

// holdClipboard keeps the process alive while it serves the copied image,
// since on X11 the clipboard contents vanish with their owner. It returns
// when another application takes the clipboard, after wait, or on interrupt.
func (r *root) holdClipboard(lost <-chan struct{}, wait time.Duration) {
	if lost == nil {
		return
	}
	if wait <= 0 {
		fmt.Fprintln(r.stderr, "note: the clipboard image is served by this process and may disappear now that it exits")
		return
	}
	fmt.Fprintf(r.stderr, "keeping the image on the clipboard until another application replaces it (up to %s, interrupt to stop)\n", wait)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	select {
	case <-lost:
		fmt.Fprintln(r.stderr, "clipboard replaced by another application")
	case <-ctx.Done():
	}
}

// newSession creates a session with the configured defaults.
func (r *root) newSession(onChange func()) *session.Session {
	opts := []session.Option{session.WithOnChange(onChange)}
	if r.config != nil {
		opts = append(opts,
			session.WithBrush(r.config.Brush.Settings()),
			session.WithHistoryCapacity(r.config.History.MaxStates),
			session.WithZoomStep(r.config.View.ZoomStep),
		)
	}
	return session.New(opts...)
}

// sourceFn is replaced in tests.
var sourceFn = func() session.Source { return source.New("") }

func (r *root) open(ctx context.Context, s *session.Session, f *imageFlags) error {
	if err := s.Open(ctx, sourceFn(), f.ref()); err != nil {
		return fmt.Errorf("open %s: %w", f.processed, err)
	}
	return nil
}
