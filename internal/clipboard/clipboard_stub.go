//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
)

var errUnsupported = fmt.Errorf("clipboard image operations are not supported on this platform")

func WritePNG([]byte) (<-chan struct{}, error) {
	return nil, errUnsupported
}

func ReadImage() (image.Image, error) {
	return nil, errUnsupported
}
