// Package clipboard moves PNG images between retouch and the desktop
// clipboard. With cgo it uses golang.design/x/clipboard; without cgo it owns
// the X11 CLIPBOARD selection directly.
//
// On X11 the copied image is served by this process. It is gone once the
// process exits, so callers that want it to stay must keep running until the
// channel returned by WritePNG is closed.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrNoImage is returned by ReadImage when the clipboard holds no PNG.
	ErrNoImage = errors.New("clipboard does not contain image data")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteImage encodes img as PNG and publishes it to the clipboard. See
// WritePNG for the returned channel.
func WriteImage(img image.Image) (<-chan struct{}, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return WritePNG(buf.Bytes())
}

func decodePNG(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}
