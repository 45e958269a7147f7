// Package codec writes rendered images to disk.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// An Encoder persists an image at a path.
type Encoder interface {
	Encode(path string, img image.Image) error
}

// File picks the format from the path's extension: .png, .jpg or .jpeg.
type File struct {
	// JPEGQuality is used for .jpg output; zero means jpeg.DefaultQuality.
	JPEGQuality int
}

var _ Encoder = File{}

func (f File) writer(path string) (func(io.Writer, image.Image) error, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		quality := f.JPEGQuality
		if quality == 0 {
			quality = jpeg.DefaultQuality
		}
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (f File) Encode(path string, img image.Image) (err error) {
	write, err := f.writer(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	return write(out, img)
}

// Thumbnail shrinks img to fit within maxWidth × maxHeight, keeping its
// aspect ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
}
