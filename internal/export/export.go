// Package export delivers the final image of a retouch session. Every sink
// implements session.Sink.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/session"
)

// OutputPath derives the default output file for a processed image
// reference: "<name>-retouched.png" in dir, or next to the reference when dir
// is empty.
func OutputPath(dir, ref string) string {
	base := filepath.Base(ref)
	if ref == "" || strings.HasSuffix(ref, ":") {
		base = "clipboard"
	}
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "-retouched.png"
	if dir == "" {
		dir = filepath.Dir(ref)
		if strings.HasSuffix(ref, ":") {
			dir = "."
		}
	}
	return filepath.Join(dir, name)
}

// File writes the PNG to Path. The file is written to a temporary name first
// and renamed, so a failed export never leaves a truncated image behind.
type File struct {
	Path     string
	Notifier *notify.Notifier
}

func (f *File) Export(ctx context.Context, r session.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Path == "" {
		return errors.New("file export: no output path")
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".retouch-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(r.PNG); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		log.Printf("chmod %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", f.Path, err)
	}
	log.Printf("saved %s", f.Path)
	f.Notifier.Save(f.Path)
	return nil
}

// Clipboard publishes the PNG to the desktop clipboard.
type Clipboard struct {
	Notifier *notify.Notifier

	write func([]byte) (<-chan struct{}, error)
	lost  <-chan struct{}
}

// Lost returns a channel closed once another application replaces the
// exported image, or nil before a successful export.
func (c *Clipboard) Lost() <-chan struct{} { return c.lost }

func (c *Clipboard) Export(ctx context.Context, r session.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	write := c.write
	if write == nil {
		write = clipboard.WritePNG
	}
	lost, err := write(r.PNG)
	if err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	c.lost = lost
	log.Print("copied image to clipboard")
	c.Notifier.Copy("image", r.Image)
	return nil
}

// Multi hands the result to every sink in order. All sinks run even when
// one fails; the failures are joined. When the same image is exported again
// after a failure, only the sinks that failed are retried.
type Multi struct {
	Sinks []session.Sink

	id        string
	png       []byte
	delivered []bool
}

func (m *Multi) Export(ctx context.Context, r session.Result) error {
	if m.id != r.ID || !bytes.Equal(m.png, r.PNG) || len(m.delivered) != len(m.Sinks) {
		m.id, m.png = r.ID, r.PNG
		m.delivered = make([]bool, len(m.Sinks))
	}
	var errs []error
	for i, s := range m.Sinks {
		if m.delivered[i] {
			continue
		}
		if err := s.Export(ctx, r); err != nil {
			errs = append(errs, err)
			continue
		}
		m.delivered[i] = true
	}
	return errors.Join(errs...)
}
