//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"image"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// WritePNG publishes already encoded PNG bytes to the clipboard. The
// returned channel is closed when another application replaces the
// clipboard contents.
func WritePNG(data []byte) (<-chan struct{}, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return clipboard.Write(clipboard.FmtImage, data), nil
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return decodePNG(clipboard.Read(clipboard.FmtImage))
}
