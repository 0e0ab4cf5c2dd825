// Package source resolves image references for a retouch session. A
// reference is a file path, relative to Dir when not absolute, or
// ClipboardRef for the image currently on the clipboard.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	// Decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/session"
)

// ClipboardRef selects the clipboard image instead of a file.
const ClipboardRef = "clipboard:"

// Files resolves references from the filesystem.
type Files struct {
	Dir string

	readClipboard func() (image.Image, error)
}

// New returns a Files source rooted at dir. An empty dir means the working
// directory.
func New(dir string) *Files {
	return &Files{Dir: dir, readClipboard: clipboard.ReadImage}
}

// Path returns the file a reference points at.
func (f *Files) Path(ref string) string {
	if f.Dir == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(f.Dir, ref)
}

// Resolve decodes the image named by ref. Missing files and an empty
// clipboard wrap session.ErrMissingSource.
func (f *Files) Resolve(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref == ClipboardRef {
		read := f.readClipboard
		if read == nil {
			read = clipboard.ReadImage
		}
		img, err := read()
		if errors.Is(err, clipboard.ErrNoImage) {
			return nil, fmt.Errorf("%w: %v", session.ErrMissingSource, err)
		}
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	path := f.Path(ref)
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", session.ErrMissingSource, path)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Printf("error closing %q: %v", path, cerr)
		}
	}()
	img, _, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode reads any registered image format and reports its name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}
